package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/repository"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/service"
	"github.com/seniordesign-sys/ideagen-backend/internal/kv"
	"github.com/seniordesign-sys/ideagen-backend/internal/llm"
)

type stubModel struct{ reply string }

func (m stubModel) Complete(context.Context, llm.Request) (string, error) {
	return m.reply, nil
}

func ideasReply(n int) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"title":"Idea %d","overall_score":%d,"feasibility_score":8.5}`, i+1, 9-i)
	}
	sb.WriteString("]")
	return sb.String()
}

type testEnv struct {
	router   *gin.Engine
	handler  *Handler
	projects *repository.ProjectStore
	kv       *kv.MemoryStore
}

func setupRouter(t *testing.T, model service.ModelClient) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := kv.NewMemoryStore()
	projects := repository.NewProjectStore(mem)
	settings := repository.NewSettingsStore(mem, llm.DefaultModel)
	metrics := service.NewMetrics()

	registry := NewSessionRegistry(func(ctx context.Context) *service.Wizard {
		return service.NewWizard(ctx, model, settings, projects, service.Config{
			Timeout:          time.Second,
			ProgressInterval: time.Millisecond,
		}, service.WithMetrics(metrics))
	})

	h := New(registry, projects, settings, metrics, "test")
	r := gin.New()
	h.Register(r.Group("/api/v1"))

	return &testEnv{router: r, handler: h, projects: projects, kv: mem}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (e *testEnv) newSession(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/wizard/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	return decode(t, w)["session_id"].(string)
}

func (e *testEnv) generateFive(t *testing.T, sid string) {
	t.Helper()
	base := "/api/v1/wizard/sessions/" + sid

	w := e.do(t, http.MethodPost, base+"/credentials", `{"api_key":"sk-ant-abc"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPost, base+"/generate",
		`{"team_size":3,"duration_semesters":2,"budget":"low","complexity":"beginner","hw_sw_ratio":70}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	require.Eventually(t, func() bool {
		st := decode(t, e.do(t, http.MethodGet, base, ""))["state"].(map[string]any)
		return st["step"] == "result"
	}, 2*time.Second, 5*time.Millisecond)
}

func TestWizardFlowOverHTTP(t *testing.T) {
	env := setupRouter(t, stubModel{reply: ideasReply(5)})

	w := env.do(t, http.MethodPost, "/api/v1/wizard/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["first_visit"])
	sid := body["session_id"].(string)
	base := "/api/v1/wizard/sessions/" + sid

	w = env.do(t, http.MethodPost, base+"/credentials", `{"api_key":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decode(t, w)["ok"])

	w = env.do(t, http.MethodPost, base+"/technologies/toggle", `{"name":"Go"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["selected"])

	env.generateFive(t, sid)

	w = env.do(t, http.MethodGet, base, "")
	body = decode(t, w)
	cards := body["cards"].([]any)
	require.Len(t, cards, 5)
	assert.Equal(t, "Idea 1", cards[0].(map[string]any)["title"])
	assert.Equal(t, "[████████████████████] 100%", body["progress"])

	st := body["state"].(map[string]any)
	projects := st["projects"].([]any)
	first := projects[0].(map[string]any)
	assert.Equal(t, []any{"Go"}, first["constraints"].(map[string]any)["technologies"])

	pid := int64(first["id"].(float64))
	w = env.do(t, http.MethodPost, fmt.Sprintf("%s/projects/%d/select", base, pid), "")
	require.Equal(t, http.StatusOK, w.Code)
	feas := decode(t, w)["feasibility"].(map[string]any)
	assert.Equal(t, "Highly Feasible", feas["label"])

	w = env.do(t, http.MethodPost, base+"/generate", `{}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, base+"/back", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "constraints", decode(t, w)["state"].(map[string]any)["step"])

	w = env.do(t, http.MethodPost, "/api/v1/wizard/sessions", "")
	assert.Equal(t, false, decode(t, w)["first_visit"])
}

func TestProjectEndpoints(t *testing.T) {
	env := setupRouter(t, stubModel{reply: ideasReply(5)})
	env.generateFive(t, env.newSession(t))

	w := env.do(t, http.MethodGet, "/api/v1/projects", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), decode(t, w)["count"])

	w = env.do(t, http.MethodGet, "/api/v1/projects?limit=2", "")
	assert.Len(t, decode(t, w)["projects"], 2)

	w = env.do(t, http.MethodGet, "/api/v1/projects?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/projects/recent", "")
	recent := decode(t, w)["recent"].([]any)
	require.Len(t, recent, 5)
	assert.Equal(t, "[#001] Idea 1", recent[0].(map[string]any)["label"])

	id := env.projects.List()[1].ID
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d", id), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "8.0/10", decode(t, w)["overview"].(map[string]any)["overall"])

	w = env.do(t, http.MethodGet, "/api/v1/projects/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/projects/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, path := range []string{"/api/v1/projects/1/analysis", "/api/v1/projects/1/pdf", "/api/v1/projects/compare"} {
		w = env.do(t, http.MethodPost, path, "")
		assert.Equal(t, http.StatusNotImplemented, w.Code, path)
	}
}

func TestExportImport(t *testing.T) {
	env := setupRouter(t, stubModel{reply: ideasReply(5)})
	env.generateFive(t, env.newSession(t))

	w := env.do(t, http.MethodGet, "/api/v1/projects/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ExportFileName)
	exported := w.Body.String()

	other := setupRouter(t, stubModel{})
	w = other.do(t, http.MethodPost, "/api/v1/projects/import", exported)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), decode(t, w)["imported"])
	assert.Equal(t, env.projects.List(), other.projects.List())

	w = other.do(t, http.MethodPost, "/api/v1/projects/import", `{"not":"an array"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 5, other.projects.Count())
}

func TestClearData(t *testing.T) {
	env := setupRouter(t, stubModel{reply: ideasReply(5)})
	sid := env.newSession(t)
	env.generateFive(t, sid)

	w := env.do(t, http.MethodDelete, "/api/v1/data", "")
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, 5, env.projects.Count())
	st := decode(t, env.do(t, http.MethodGet, "/api/v1/wizard/sessions/"+sid, ""))["state"].(map[string]any)
	assert.Equal(t, "result", st["step"], "unconfirmed clear leaves sessions alone")

	w = env.do(t, http.MethodDelete, "/api/v1/data?confirm=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodDelete, "/api/v1/data?confirm=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.projects.Count())

	_, err := env.kv.Get(context.Background(), repository.KeyAPIKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)

	st = decode(t, env.do(t, http.MethodGet, "/api/v1/wizard/sessions/"+sid, ""))["state"].(map[string]any)
	assert.Equal(t, "credentials", st["step"])
	assert.Equal(t, false, st["has_credential"])
}

type gatedModel struct {
	reply   string
	release chan struct{}
}

func (m gatedModel) Complete(context.Context, llm.Request) (string, error) {
	<-m.release
	return m.reply, nil
}

func TestClearDataDropsRunningGeneration(t *testing.T) {
	model := gatedModel{reply: ideasReply(5), release: make(chan struct{})}
	env := setupRouter(t, model)
	sid := env.newSession(t)
	base := "/api/v1/wizard/sessions/" + sid

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, base+"/credentials", `{"api_key":"sk-ant-abc"}`).Code)
	w := env.do(t, http.MethodPost, base+"/generate",
		`{"team_size":3,"duration_semesters":2,"budget":"low","complexity":"beginner","hw_sw_ratio":40}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/data?confirm=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	close(model.release)

	wiz, ok := env.handler.sessions.Get(sid)
	require.True(t, ok)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, wiz.Wait(ctx))

	assert.Equal(t, 0, env.projects.Count())
	_, err := env.kv.Get(context.Background(), repository.KeyProjects)
	assert.ErrorIs(t, err, kv.ErrNotFound)
	assert.Equal(t, service.StepCredentials, wiz.State().Step)
}

func TestSettingsAndStatus(t *testing.T) {
	env := setupRouter(t, stubModel{})

	w := env.do(t, http.MethodGet, "/api/v1/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	s := decode(t, w)["settings"].(map[string]any)
	assert.Equal(t, "NOT CONFIGURED", s["api_status"])
	assert.Equal(t, llm.DefaultModel, s["model"])

	w = env.do(t, http.MethodPut, "/api/v1/settings", `{"api_key":"sk-ant-xyz","color_scheme":"amber"}`)
	require.Equal(t, http.StatusOK, w.Code)
	s = decode(t, w)["settings"].(map[string]any)
	assert.Equal(t, "CONNECTED", s["api_status"])
	assert.Equal(t, "amber", s["color_scheme"])
	assert.NotContains(t, w.Body.String(), "sk-ant-xyz")

	w = env.do(t, http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "CONNECTED", body["api_status"])
	assert.Equal(t, float64(0), body["project_count"])
	assert.Contains(t, body, "metrics")
}

func TestUnknownSession(t *testing.T) {
	env := setupRouter(t, stubModel{})

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/v1/wizard/sessions/missing", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/v1/wizard/sessions/missing", "").Code)

	sid := env.newSession(t)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/api/v1/wizard/sessions/"+sid, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/v1/wizard/sessions/"+sid, "").Code)
}

func TestSessionSweep(t *testing.T) {
	env := setupRouter(t, stubModel{})
	reg := env.handler.sessions

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	stale := env.newSession(t)
	now = now.Add(20 * time.Minute)
	fresh := env.newSession(t)
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, reg.Sweep(30*time.Minute))
	_, ok := reg.Get(stale)
	assert.False(t, ok)
	_, ok = reg.Get(fresh)
	assert.True(t, ok)
	assert.Equal(t, 1, reg.Len())
}

package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/domain"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/presenter"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/service"
)

func (h *Handler) wizard(c *gin.Context) (*service.Wizard, bool) {
	id := strings.TrimSpace(c.Param("id"))
	w, ok := h.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "session not found"})
		return nil, false
	}
	return w, true
}

func (h *Handler) createSession(c *gin.Context) {
	ctx := c.Request.Context()

	firstVisit, err := h.settings.MarkVisited(ctx)
	if err != nil {
		writeError(c, "create_session", err)
		return
	}

	id, w := h.sessions.Create(ctx)
	c.JSON(http.StatusCreated, gin.H{
		"ok":          true,
		"session_id":  id,
		"first_visit": firstVisit,
		"state":       w.State(),
	})
}

func (h *Handler) getSession(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	st := w.State()

	cards := make([]presenter.Card, 0, len(st.Projects))
	for i, p := range st.Projects {
		cards = append(cards, presenter.CardFor(i, p))
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"state":    st,
		"cards":    cards,
		"progress": presenter.ProgressBar(st.Progress.Percent),
	})
}

func (h *Handler) deleteSession(c *gin.Context) {
	if !h.sessions.Delete(strings.TrimSpace(c.Param("id"))) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type credentialsReq struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

func (h *Handler) submitCredentials(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}

	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := w.SubmitCredentials(c.Request.Context(), req.APIKey, req.Model); err != nil {
		writeError(c, "submit_credentials", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "state": w.State()})
}

func (h *Handler) back(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	if err := w.Back(); err != nil {
		writeError(c, "back", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "state": w.State()})
}

func (h *Handler) retry(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	if err := w.Retry(); err != nil {
		writeError(c, "retry", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "state": w.State()})
}

func (h *Handler) reset(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	w.StartNew(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true, "state": w.State()})
}

func (h *Handler) cancel(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	w.Cancel()
	c.JSON(http.StatusOK, gin.H{"ok": true, "state": w.State()})
}

type toggleReq struct {
	Name string `json:"name"`
}

func (h *Handler) toggleTechnology(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}

	var req toggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	selected, err := w.ToggleTechnology(req.Name)
	if err != nil {
		writeError(c, "toggle_technology", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "selected": selected, "technologies": w.State().Technologies})
}

func (h *Handler) generate(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}

	var req domain.ConstraintSet
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := w.Generate(c.Request.Context(), req); err != nil {
		writeError(c, "generate", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"ok": true, "state": w.State()})
}

func (h *Handler) selectProject(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}

	pid, ok := projectID(c)
	if !ok {
		return
	}

	p, err := w.SelectProject(pid)
	if err != nil {
		writeError(c, "select_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"project":     p,
		"overview":    presenter.OverviewFor(p),
		"feasibility": presenter.FeasibilityFor(p),
	})
}

func projectID(c *gin.Context) (int64, bool) {
	pid, err := strconv.ParseInt(strings.TrimSpace(c.Param("pid")), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid project id"})
		return 0, false
	}
	return pid, true
}

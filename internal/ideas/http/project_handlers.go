package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/domain"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/presenter"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/repository"
	"github.com/seniordesign-sys/ideagen-backend/internal/logging"
)

func (h *Handler) listProjects(c *gin.Context) {
	items := h.projects.List()
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid limit"})
			return
		}
		items = h.projects.Recent(n)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": h.projects.Count(), "projects": items})
}

func (h *Handler) recentProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"recent": presenter.Recent(h.projects.List(), presenter.RecentLimit),
	})
}

func (h *Handler) getProject(c *gin.Context) {
	pid, ok := projectID(c)
	if !ok {
		return
	}
	p, err := h.projects.Get(pid)
	if err != nil {
		writeError(c, "get_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"project":     p,
		"overview":    presenter.OverviewFor(p),
		"feasibility": presenter.FeasibilityFor(p),
	})
}

func (h *Handler) exportProjects(c *gin.Context) {
	data, err := h.projects.ExportSnapshot()
	if err != nil {
		writeError(c, "export_projects", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFileName))
	c.Data(http.StatusOK, "application/json", data)
}

func (h *Handler) importProjects(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	n, err := h.projects.Import(c.Request.Context(), data)
	if err != nil {
		writeError(c, "import_projects", err)
		return
	}
	logging.NewLogger(c.Request.Context()).LogInfof("import_projects", "imported %d projects", n)
	c.JSON(http.StatusOK, gin.H{"ok": true, "imported": n})
}

func (h *Handler) deepAnalysis(c *gin.Context) {
	h.notImplemented(c, "deep analysis")
}

func (h *Handler) exportPDF(c *gin.Context) {
	h.notImplemented(c, "PDF export")
}

func (h *Handler) compareProjects(c *gin.Context) {
	h.notImplemented(c, "project comparison")
}

func (h *Handler) notImplemented(c *gin.Context, feature string) {
	writeError(c, "not_implemented", fmt.Errorf("%s: %w", feature, domain.ErrNotImplemented))
}

type settingsResp struct {
	Model       string `json:"model"`
	CRTEffect   string `json:"crt_effect"`
	ColorScheme string `json:"color_scheme"`
	HasAPIKey   bool   `json:"has_api_key"`
	APIStatus   string `json:"api_status"`
}

func toSettingsResp(s repository.Settings) settingsResp {
	return settingsResp{
		Model:       s.Model,
		CRTEffect:   s.CRTEffect,
		ColorScheme: s.ColorScheme,
		HasAPIKey:   s.APIKey != "",
		APIStatus:   presenter.APIStatus(s.APIKey),
	}
}

func (h *Handler) getSettings(c *gin.Context) {
	s, err := h.settings.Load(c.Request.Context())
	if err != nil {
		writeError(c, "get_settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "settings": toSettingsResp(s)})
}

type updateSettingsReq struct {
	APIKey      string `json:"api_key"`
	Model       string `json:"model"`
	CRTEffect   string `json:"crt_effect"`
	ColorScheme string `json:"color_scheme"`
}

func (h *Handler) updateSettings(c *gin.Context) {
	var req updateSettingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	ctx := c.Request.Context()
	err := h.settings.Update(ctx, repository.Settings{
		APIKey:      req.APIKey,
		Model:       req.Model,
		CRTEffect:   req.CRTEffect,
		ColorScheme: req.ColorScheme,
	})
	if err != nil {
		writeError(c, "update_settings", err)
		return
	}

	s, err := h.settings.Load(ctx)
	if err != nil {
		writeError(c, "update_settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "settings": toSettingsResp(s)})
}

func (h *Handler) status(c *gin.Context) {
	s, err := h.settings.Load(c.Request.Context())
	if err != nil {
		writeError(c, "status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"api_status":    presenter.APIStatus(s.APIKey),
		"model":         s.Model,
		"project_count": h.projects.Count(),
		"sessions":      h.sessions.Len(),
		"version":       h.version,
		"metrics":       h.metrics.Snapshot(),
	})
}

func (h *Handler) clearData(c *gin.Context) {
	ctx := c.Request.Context()
	confirmed := c.Query("confirm") == "true"

	if !confirmed {
		writeError(c, "clear_data", domain.ErrConfirmationRequired)
		return
	}

	// Reset before clearing so no running generation commits afterwards, and again
	// after so sessions reload the now-empty settings.
	h.sessions.ResetAll(ctx)
	if err := h.projects.Clear(ctx, confirmed); err != nil {
		writeError(c, "clear_data", err)
		return
	}
	h.sessions.ResetAll(ctx)

	logging.NewLogger(ctx).LogInfo("clear_data", "all application data cleared")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

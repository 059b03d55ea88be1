package http

import "github.com/gin-gonic/gin"

// Register attaches wizard, project and settings routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	ws := rg.Group("/wizard/sessions")
	ws.POST("", h.createSession)
	ws.GET("/:id", h.getSession)
	ws.DELETE("/:id", h.deleteSession)
	ws.POST("/:id/credentials", h.submitCredentials)
	ws.POST("/:id/back", h.back)
	ws.POST("/:id/retry", h.retry)
	ws.POST("/:id/reset", h.reset)
	ws.POST("/:id/cancel", h.cancel)
	ws.POST("/:id/technologies/toggle", h.toggleTechnology)
	ws.POST("/:id/generate", h.generate)
	ws.POST("/:id/projects/:pid/select", h.selectProject)

	ps := rg.Group("/projects")
	ps.GET("", h.listProjects)
	ps.GET("/recent", h.recentProjects)
	ps.GET("/export", h.exportProjects)
	ps.POST("/import", h.importProjects)
	ps.POST("/compare", h.compareProjects)
	ps.GET("/:pid", h.getProject)
	ps.POST("/:pid/analysis", h.deepAnalysis)
	ps.POST("/:pid/pdf", h.exportPDF)

	rg.GET("/settings", h.getSettings)
	rg.PUT("/settings", h.updateSettings)
	rg.GET("/status", h.status)
	rg.DELETE("/data", h.clearData)
}

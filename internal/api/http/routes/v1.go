package routes

import (
	"github.com/gin-gonic/gin"

	ideashttp "github.com/seniordesign-sys/ideagen-backend/internal/ideas/http"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/repository"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/service"
)

type V1Deps struct {
	Sessions *ideashttp.SessionRegistry
	Projects *repository.ProjectStore
	Settings *repository.SettingsStore
	Metrics  *service.Metrics
	Version  string
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")

	ideas := ideashttp.New(dep.Sessions, dep.Projects, dep.Settings, dep.Metrics, dep.Version)
	ideas.Register(api)
}

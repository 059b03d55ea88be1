package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/domain"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/repository"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/service"
	"github.com/seniordesign-sys/ideagen-backend/internal/logging"
)

// ExportFileName is the download name of a project export.
const ExportFileName = "seniordesign-projects.json"

// Handler bundles the dependencies for the wizard and project endpoints.
type Handler struct {
	sessions *SessionRegistry
	projects *repository.ProjectStore
	settings *repository.SettingsStore
	metrics  *service.Metrics
	version  string
}

func New(sessions *SessionRegistry, projects *repository.ProjectStore, settings *repository.SettingsStore, metrics *service.Metrics, version string) *Handler {
	return &Handler{
		sessions: sessions,
		projects: projects,
		settings: settings,
		metrics:  metrics,
		version:  version,
	}
}

func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrGenerationInFlight),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNoCredential):
		return http.StatusConflict
	case errors.Is(err, domain.ErrConfirmationRequired):
		return http.StatusPreconditionFailed
	case errors.Is(err, domain.ErrInvalidImport):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, operation string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		logging.NewLogger(c.Request.Context()).LogError(operation, err)
	}
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}

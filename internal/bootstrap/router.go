package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/seniordesign-sys/ideagen-backend/internal/api/http"
	"github.com/seniordesign-sys/ideagen-backend/internal/api/http/middleware"
	"github.com/seniordesign-sys/ideagen-backend/internal/api/http/routes"
	"github.com/seniordesign-sys/ideagen-backend/internal/kv"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	Backend        string
	Store          kv.Pinger
	V1             routes.V1Deps
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Backend, dep.Store)
	healthHandler.RegisterRoutes(r)

	routes.RegisterV1(r, dep.V1)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

package app

import (
	"github.com/gin-gonic/gin"

	server "github.com/rafiki-work/rafiki-backend/internal/http"
	"github.com/rafiki-work/rafiki-backend/internal/observability"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlerset Handlers, middleware Middleware) *gin.Engine {
	log.Info("Wiring router...")
	serviceName := ""
	if observability.TracingEnabled() {
		serviceName = cfg.ServiceName
	}
	return server.NewRouter(server.RouterConfig{
		Log:                log,
		ServiceName:        serviceName,
		CORSOrigins:        cfg.CORSOrigins,
		Metrics:            observability.Current(),
		AuthMiddleware:     middleware.Auth,
		GuidedPathHandler:  handlerset.GuidedPath,
		ModuleAdminHandler: handlerset.ModuleAdmin,
		OrgConfigHandler:   handlerset.OrgConfig,
		HealthHandler:      handlerset.Health,
	})
}

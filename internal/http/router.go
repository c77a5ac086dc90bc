package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/rafiki-work/rafiki-backend/internal/http/handlers"
	httpMW "github.com/rafiki-work/rafiki-backend/internal/http/middleware"
	"github.com/rafiki-work/rafiki-backend/internal/observability"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware

	GuidedPathHandler  *httpH.GuidedPathHandler
	ModuleAdminHandler *httpH.ModuleAdminHandler
	OrgConfigHandler   *httpH.OrgConfigHandler
	HealthHandler      *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api/v1")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	gp := api.Group("/guided-paths")
	if h := cfg.GuidedPathHandler; h != nil {
		gp.GET("/modules", h.ListModules)
		gp.GET("/modules/:id", h.GetModule)
		gp.POST("/modules/:id/start", h.Start)
		gp.POST("/suggest", h.Suggest)
		gp.GET("/themes/recent", h.RecentThemes)

		gp.GET("/sessions/:id", h.GetSession)
		gp.GET("/sessions/:id/step", h.CurrentStep)
		gp.POST("/sessions/:id/advance", h.Advance)
		gp.POST("/sessions/:id/outcome", h.RecordOutcome)
		gp.POST("/sessions/:id/abandon", h.Abandon)
	}

	// Admin
	admin := gp.Group("/admin")
	if cfg.AuthMiddleware != nil {
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
	}
	if h := cfg.ModuleAdminHandler; h != nil {
		admin.POST("/modules", h.Create)
		admin.PUT("/modules/:id", h.Update)
		admin.DELETE("/modules/:id", h.Deactivate)
		admin.POST("/seed", h.Seed)
	}

	// Org config: reads for members, writes gated again in the service.
	if h := cfg.OrgConfigHandler; h != nil {
		oc := api.Group("/org-config")
		oc.GET("/profile", h.GetProfile)
		oc.GET("/roles", h.ListRoles)
		oc.GET("/roles/:role_key", h.GetRole)

		ocAdmin := oc.Group("")
		if cfg.AuthMiddleware != nil {
			ocAdmin.Use(cfg.AuthMiddleware.RequireAdmin())
		}
		ocAdmin.PUT("/profile", h.UpdateProfile)
		ocAdmin.POST("/roles", h.CreateRole)
		ocAdmin.PUT("/roles/:role_key", h.UpdateRole)
		ocAdmin.DELETE("/roles/:role_key", h.DeleteRole)
	}

	return r
}

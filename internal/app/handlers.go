package app

import (
	httpH "github.com/rafiki-work/rafiki-backend/internal/http/handlers"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	GuidedPath  *httpH.GuidedPathHandler
	ModuleAdmin *httpH.ModuleAdminHandler
	OrgConfig   *httpH.OrgConfigHandler
}

func wireHandlers(log *logger.Logger, pinger httpH.Pinger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(pinger),
		GuidedPath:  httpH.NewGuidedPathHandler(serviceset.Catalog, serviceset.Sessions),
		ModuleAdmin: httpH.NewModuleAdminHandler(serviceset.ModuleAdmin),
		OrgConfig:   httpH.NewOrgConfigHandler(serviceset.OrgConfig),
	}
}

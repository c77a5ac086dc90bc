package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
	"github.com/rafiki-work/rafiki-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	Topics      services.TopicMemory
	ContextPack services.ContextPackBuilder
	Composer    services.Composer
	Sessions    services.SessionEngine
	Catalog     services.CatalogService
	ModuleAdmin services.ModuleAdminService
	OrgConfig   services.OrgConfigService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(log, cfg.JWTSecretKey)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	topics := services.NewTopicMemory(log, clients.Topics, reposet.UserTopicMemory, cfg.TopicMemoryCap)
	packs := services.NewContextPackBuilder(log, reposet.OrgProfile, reposet.RoleProfile)
	composer := services.NewComposer(log, clients.OpenAI, cfg.ComposerTimeout)

	return Services{
		Auth:        auth,
		Topics:      topics,
		ContextPack: packs,
		Composer:    composer,
		Sessions:    services.NewSessionEngine(log, reposet.GuidedModule, reposet.GuidedPathSession, packs, composer),
		Catalog:     services.NewCatalogService(log, reposet.GuidedModule, topics),
		ModuleAdmin: services.NewModuleAdminService(db, log, reposet.GuidedModule),
		OrgConfig:   services.NewOrgConfigService(log, reposet.OrgProfile, reposet.RoleProfile),
	}, nil
}

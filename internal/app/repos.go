package app

import (
	"gorm.io/gorm"

	"github.com/rafiki-work/rafiki-backend/internal/data/repos"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

type Repos struct {
	GuidedModule      repos.GuidedModuleRepo
	GuidedPathSession repos.GuidedPathSessionRepo
	OrgProfile        repos.OrgProfileRepo
	RoleProfile       repos.RoleProfileRepo
	UserTopicMemory   repos.UserTopicMemoryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		GuidedModule:      repos.NewGuidedModuleRepo(db, log),
		GuidedPathSession: repos.NewGuidedPathSessionRepo(db, log),
		OrgProfile:        repos.NewOrgProfileRepo(db, log),
		RoleProfile:       repos.NewRoleProfileRepo(db, log),
		UserTopicMemory:   repos.NewUserTopicMemoryRepo(db, log),
	}
}

package repos

import (
	"github.com/rafiki-work/rafiki-backend/internal/data/repos/wellbeing"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type GuidedModuleRepo = wellbeing.GuidedModuleRepo
type GuidedPathSessionRepo = wellbeing.GuidedPathSessionRepo
type OrgProfileRepo = wellbeing.OrgProfileRepo
type RoleProfileRepo = wellbeing.RoleProfileRepo
type UserTopicMemoryRepo = wellbeing.UserTopicMemoryRepo

func NewGuidedModuleRepo(db *gorm.DB, baseLog *logger.Logger) GuidedModuleRepo {
	return wellbeing.NewGuidedModuleRepo(db, baseLog)
}

func NewGuidedPathSessionRepo(db *gorm.DB, baseLog *logger.Logger) GuidedPathSessionRepo {
	return wellbeing.NewGuidedPathSessionRepo(db, baseLog)
}

func NewOrgProfileRepo(db *gorm.DB, baseLog *logger.Logger) OrgProfileRepo {
	return wellbeing.NewOrgProfileRepo(db, baseLog)
}

func NewRoleProfileRepo(db *gorm.DB, baseLog *logger.Logger) RoleProfileRepo {
	return wellbeing.NewRoleProfileRepo(db, baseLog)
}

func NewUserTopicMemoryRepo(db *gorm.DB, baseLog *logger.Logger) UserTopicMemoryRepo {
	return wellbeing.NewUserTopicMemoryRepo(db, baseLog)
}

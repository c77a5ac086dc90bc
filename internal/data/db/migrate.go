package db

import (
	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table owned by this service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&types.GuidedModule{},
		&types.GuidedPathSession{},
		&types.OrgProfile{},
		&types.RoleProfile{},
		&types.UserTopicMemory{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

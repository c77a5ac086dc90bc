package wellbeing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserTopicMemory is the persisted ring buffer of a user's recent themes,
// newest first. Used when no Redis is configured.
type UserTopicMemory struct {
	UserID    uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"user_id"`
	OrgID     uuid.UUID                   `gorm:"type:uuid;not null;index" json:"org_id"`
	Topics    datatypes.JSONSlice[string] `gorm:"column:topics" json:"topics"`
	UpdatedAt time.Time                   `gorm:"not null" json:"updated_at"`
}

func (UserTopicMemory) TableName() string { return "user_topic_memory" }

package wellbeing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
	SessionAbandoned  = "abandoned"
)

// SessionResponse is one append-only entry of a session's response log.
type SessionResponse struct {
	StepIndex int       `json:"step"`
	Response  *string   `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// GuidedPathSession is one user's run through a module. ComposedSteps and
// ContextPack are frozen at start.
type GuidedPathSession struct {
	ID            uuid.UUID                            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID                            `gorm:"type:uuid;not null;index" json:"user_id"`
	OrgID         uuid.UUID                            `gorm:"type:uuid;not null;index" json:"org_id"`
	ModuleID      uuid.UUID                            `gorm:"type:uuid;not null;index" json:"module_id"`
	CurrentStep   int                                  `gorm:"column:current_step;not null" json:"current_step"`
	Status        string                               `gorm:"column:status;size:20;not null;index" json:"status"`
	StartedAt     time.Time                            `gorm:"column:started_at;not null" json:"started_at"`
	CompletedAt   *time.Time                           `gorm:"column:completed_at" json:"completed_at,omitempty"`
	AbandonedAt   *time.Time                           `gorm:"column:abandoned_at" json:"abandoned_at,omitempty"`
	Responses     datatypes.JSONSlice[SessionResponse] `gorm:"column:responses" json:"responses"`
	ComposedSteps datatypes.JSONSlice[StepDefinition]  `gorm:"column:composed_steps" json:"-"`
	ContextPack   datatypes.JSONType[ContextPack]      `gorm:"column:context_pack" json:"-"`
	Personalized  bool                                 `gorm:"column:personalized;not null" json:"personalized"`
	PreRating     *int                                 `gorm:"column:pre_rating" json:"pre_rating,omitempty"`
	PostRating    *int                                 `gorm:"column:post_rating" json:"post_rating,omitempty"`
	ThemeCategory *string                              `gorm:"column:theme_category;size:50" json:"theme_category,omitempty"`
	AvailableTime *int                                 `gorm:"column:available_time" json:"available_time,omitempty"`
	CreatedAt     time.Time                            `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time                            `gorm:"not null" json:"updated_at"`
}

func (GuidedPathSession) TableName() string { return "guided_path_session" }

func (s *GuidedPathSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *GuidedPathSession) IsTerminal() bool {
	return s.Status == SessionCompleted || s.Status == SessionAbandoned
}

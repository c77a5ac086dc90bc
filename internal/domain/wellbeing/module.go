package wellbeing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StepTypeIntro      = "intro"
	StepTypePrompt     = "prompt"
	StepTypeInput      = "input"
	StepTypeReflection = "reflection"
	StepTypeRating     = "rating"
	StepTypeSummary    = "summary"
	StepTypeVideo      = "video"
	StepTypeAudio      = "audio"
)

const (
	ExpectedInputNone     = "none"
	ExpectedInputFreeText = "free_text"
	ExpectedInputRating   = "rating_0_10"
)

var stepTypes = map[string]bool{
	StepTypeIntro: true, StepTypePrompt: true, StepTypeInput: true, StepTypeReflection: true,
	StepTypeRating: true, StepTypeSummary: true, StepTypeVideo: true, StepTypeAudio: true,
}

func IsStepType(s string) bool { return stepTypes[s] }

// IsExpectedInput accepts the closed set plus "" (absent).
func IsExpectedInput(s string) bool {
	switch s {
	case "", ExpectedInputNone, ExpectedInputFreeText, ExpectedInputRating:
		return true
	default:
		return false
	}
}

// StepDefinition is one step of a blueprint. Message and Options are narrative;
// every other field is structural and never changes under composition.
type StepDefinition struct {
	Type          string   `json:"type" yaml:"type"`
	Message       string   `json:"message" yaml:"message"`
	ExpectedInput string   `json:"expected_input,omitempty" yaml:"expected_input,omitempty"`
	SafetyCheck   bool     `json:"safety_check" yaml:"safety_check"`
	MediaURL      string   `json:"media_url,omitempty" yaml:"media_url,omitempty"`
	Options       []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// SameStructure reports whether two steps agree on every structural field.
func (s StepDefinition) SameStructure(o StepDefinition) bool {
	return s.Type == o.Type &&
		s.ExpectedInput == o.ExpectedInput &&
		s.SafetyCheck == o.SafetyCheck &&
		s.MediaURL == o.MediaURL
}

// CloneSteps deep-copies a step list so sessions never alias a module's blueprint.
func CloneSteps(in []StepDefinition) []StepDefinition {
	if in == nil {
		return nil
	}
	out := make([]StepDefinition, len(in))
	for i, s := range in {
		if s.Options != nil {
			s.Options = append([]string(nil), s.Options...)
		}
		out[i] = s
	}
	return out
}

// GuidedModule is a blueprint. OrgID nil means a global, platform-wide module.
type GuidedModule struct {
	ID              uuid.UUID                           `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID           *uuid.UUID                          `gorm:"type:uuid;index" json:"org_id,omitempty"`
	Name            string                              `gorm:"column:name;size:300;not null;index" json:"name"`
	Category        string                              `gorm:"column:category;size:100;not null;index" json:"category"`
	Description     string                              `gorm:"column:description;type:text" json:"description,omitempty"`
	DurationMinutes int                                 `gorm:"column:duration_minutes;not null" json:"duration_minutes"`
	Icon            string                              `gorm:"column:icon;size:50" json:"icon,omitempty"`
	Steps           datatypes.JSONSlice[StepDefinition] `gorm:"column:steps" json:"steps"`
	Triggers        datatypes.JSONSlice[string]         `gorm:"column:triggers" json:"triggers"`
	SafetyChecks    datatypes.JSONSlice[string]         `gorm:"column:safety_checks" json:"safety_checks"`
	IsActive        bool                                `gorm:"column:is_active;not null;index" json:"is_active"`
	CreatedBy       *uuid.UUID                          `gorm:"type:uuid;column:created_by" json:"created_by,omitempty"` // nil = system seeder
	CreatedAt       time.Time                           `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time                           `gorm:"not null" json:"updated_at"`
}

func (GuidedModule) TableName() string { return "guided_module" }

func (m *GuidedModule) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *GuidedModule) IsGlobal() bool { return m.OrgID == nil }

// VisibleTo reports whether orgID may read this module.
func (m *GuidedModule) VisibleTo(orgID uuid.UUID) bool {
	return m.OrgID == nil || *m.OrgID == orgID
}

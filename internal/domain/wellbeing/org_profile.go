package wellbeing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrgProfile holds one organization's personalisation facts.
type OrgProfile struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID           uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex" json:"org_id"`
	OrgPurpose      *string                     `gorm:"column:org_purpose;size:300" json:"org_purpose,omitempty"`
	Industry        *string                     `gorm:"column:industry;size:100" json:"industry,omitempty"`
	WorkEnvironment *string                     `gorm:"column:work_environment;size:50" json:"work_environment,omitempty"` // remote|hybrid|on-site|field-based
	BenefitsTags    datatypes.JSONSlice[string] `gorm:"column:benefits_tags" json:"benefits_tags"`
	CreatedAt       time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time                   `gorm:"not null" json:"updated_at"`
}

func (OrgProfile) TableName() string { return "org_profile" }

func (p *OrgProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// RoleProfile describes a role within an organization, keyed by (org_id, role_key).
type RoleProfile struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	OrgID           uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:uq_org_role_key,priority:1" json:"org_id"`
	RoleKey         string                      `gorm:"column:role_key;size:100;not null;uniqueIndex:uq_org_role_key,priority:2" json:"role_key"`
	RoleFamily      *string                     `gorm:"column:role_family;size:100" json:"role_family,omitempty"`
	SeniorityBand   *string                     `gorm:"column:seniority_band;size:50" json:"seniority_band,omitempty"` // individual_contributor|team_lead|manager
	WorkPattern     *string                     `gorm:"column:work_pattern;size:50" json:"work_pattern,omitempty"`     // standard|night_shift|rotating|travel_intensive
	StressorProfile datatypes.JSONSlice[string] `gorm:"column:stressor_profile" json:"stressor_profile"`
	CreatedAt       time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time                   `gorm:"not null" json:"updated_at"`
}

func (RoleProfile) TableName() string { return "role_profile" }

func (p *RoleProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

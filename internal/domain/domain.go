package domain

import "github.com/rafiki-work/rafiki-backend/internal/domain/wellbeing"

type StepDefinition = wellbeing.StepDefinition
type GuidedModule = wellbeing.GuidedModule
type GuidedPathSession = wellbeing.GuidedPathSession
type SessionResponse = wellbeing.SessionResponse
type ContextPack = wellbeing.ContextPack
type OrgBlock = wellbeing.OrgBlock
type RoleBlock = wellbeing.RoleBlock
type SessionBlock = wellbeing.SessionBlock
type OrgProfile = wellbeing.OrgProfile
type RoleProfile = wellbeing.RoleProfile
type UserTopicMemory = wellbeing.UserTopicMemory

const (
	SessionInProgress = wellbeing.SessionInProgress
	SessionCompleted  = wellbeing.SessionCompleted
	SessionAbandoned  = wellbeing.SessionAbandoned

	ExpectedInputNone     = wellbeing.ExpectedInputNone
	ExpectedInputFreeText = wellbeing.ExpectedInputFreeText
	ExpectedInputRating   = wellbeing.ExpectedInputRating
)

// CloneSteps deep-copies a step list.
func CloneSteps(in []StepDefinition) []StepDefinition { return wellbeing.CloneSteps(in) }

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/rafiki-work/rafiki-backend/internal/domain"
)

// SimpleSteps builds n prompt steps; every third step expects a rating.
func SimpleSteps(n int) []types.StepDefinition {
	out := make([]types.StepDefinition, 0, n)
	for i := 0; i < n; i++ {
		s := types.StepDefinition{Type: "prompt", Message: "step message", ExpectedInput: types.ExpectedInputFreeText}
		if i%3 == 2 {
			s.Type = "rating"
			s.ExpectedInput = types.ExpectedInputRating
		}
		out = append(out, s)
	}
	return out
}

func SeedModule(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID *uuid.UUID, name, category string, steps []types.StepDefinition) *types.GuidedModule {
	tb.Helper()
	m := &types.GuidedModule{
		ID:              uuid.New(),
		OrgID:           orgID,
		Name:            name,
		Category:        category,
		DurationMinutes: 10,
		Icon:            "brain",
		Steps:           steps,
		Triggers:        []string{},
		SafetyChecks:    []string{},
		IsActive:        true,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	return m
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, orgID uuid.UUID, module *types.GuidedModule) *types.GuidedPathSession {
	tb.Helper()
	s := &types.GuidedPathSession{
		ID:            uuid.New(),
		UserID:        userID,
		OrgID:         orgID,
		ModuleID:      module.ID,
		CurrentStep:   0,
		Status:        types.SessionInProgress,
		StartedAt:     time.Now().UTC(),
		Responses:     []types.SessionResponse{},
		ComposedSteps: module.Steps,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

package guidedpath

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafiki-work/rafiki-backend/internal/data/repos/testutil"
	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"github.com/rafiki-work/rafiki-backend/internal/platform/apierr"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
)

func TestCreateModuleAppliesDefaults(t *testing.T) {
	env := newTestEnv(t, nil)
	got, err := env.admin.Create(env.adminCtx(), ModuleInput{
		Name:     "  Team Reset ",
		Category: "stress_management",
		Steps:    []types.StepDefinition{{Type: "intro", Message: "Welcome."}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Team Reset", got.Name)
	assert.Equal(t, 10, got.DurationMinutes)
	assert.Equal(t, "brain", got.Icon)
	assert.True(t, got.IsActive)
	assert.False(t, got.IsGlobal)
	require.NotNil(t, got.OrgID)
	assert.Equal(t, env.orgID, *got.OrgID)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, env.userID, *got.CreatedBy)
	assert.Equal(t, []string{}, got.Triggers)

	stored, err := env.modules.GetByID(dbctx.Background(), got.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Steps, 1)
}

func TestCreateModuleValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	steps := []types.StepDefinition{{Type: "intro", Message: "Welcome."}}
	cases := []struct {
		name string
		in   ModuleInput
	}{
		{"missing_name", ModuleInput{Category: "x", Steps: steps}},
		{"missing_category", ModuleInput{Name: "x", Steps: steps}},
		{"zero_duration", ModuleInput{Name: "x", Category: "x", DurationMinutes: ptr(0), Steps: steps}},
		{"unknown_step_type", ModuleInput{Name: "x", Category: "x", Steps: []types.StepDefinition{{Type: "quiz", Message: "?"}}}},
		{"unknown_expected_input", ModuleInput{Name: "x", Category: "x", Steps: []types.StepDefinition{{Type: "input", ExpectedInput: "essay"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.admin.Create(env.adminCtx(), tc.in)
			assert.ErrorIs(t, err, ErrInvalidBlueprint)
			assert.True(t, apierr.Is(err, apierr.CodeValidation))
		})
	}

	_, err := env.admin.Create(env.member(), ModuleInput{Name: "x", Category: "x", Steps: steps})
	assert.ErrorIs(t, err, ErrAdminRequired)
	assert.True(t, apierr.Is(err, apierr.CodeForbidden))
}

func TestUpdateModuleOwnership(t *testing.T) {
	env := newTestEnv(t, nil)
	global := env.seedModule(t, nil, "Breathing Reset", testutil.SimpleSteps(2))
	other := uuid.New()
	foreign := env.seedModule(t, &other, "Their Module", testutil.SimpleSteps(2))
	own := env.seedModule(t, &env.orgID, "Our Module", testutil.SimpleSteps(2))

	_, err := env.admin.Update(env.adminCtx(), global.ID, ModulePatch{Name: ptr("Hijacked")})
	assert.ErrorIs(t, err, ErrGlobalModuleReadOnly)
	assert.True(t, apierr.Is(err, apierr.CodeForbidden))

	_, err = env.admin.Deactivate(env.adminCtx(), global.ID)
	assert.ErrorIs(t, err, ErrGlobalModuleReadOnly)

	_, err = env.admin.Update(env.adminCtx(), foreign.ID, ModulePatch{Name: ptr("Mine now")})
	assert.ErrorIs(t, err, ErrModuleNotFound)

	newSteps := []types.StepDefinition{{Type: "intro", Message: "Hi"}, {Type: "summary", Message: "Bye"}, {Type: "rating", ExpectedInput: types.ExpectedInputRating}}
	got, err := env.admin.Update(env.adminCtx(), own.ID, ModulePatch{Name: ptr("Our Better Module"), Steps: &newSteps, DurationMinutes: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, "Our Better Module", got.Name)
	assert.Equal(t, 4, got.DurationMinutes)
	assert.Len(t, got.Steps, 3)

	_, err = env.admin.Update(env.adminCtx(), own.ID, ModulePatch{Name: ptr(" ")})
	assert.ErrorIs(t, err, ErrInvalidBlueprint)

	stored, err := env.modules.GetByID(dbctx.Background(), own.ID)
	require.NoError(t, err)
	assert.Equal(t, "Our Better Module", stored.Name)

	unchanged, err := env.modules.GetByID(dbctx.Background(), global.ID)
	require.NoError(t, err)
	assert.Equal(t, "Breathing Reset", unchanged.Name)
}

func TestDeactivateHidesFromActiveCatalog(t *testing.T) {
	env := newTestEnv(t, nil)
	own := env.seedModule(t, &env.orgID, "Our Module", testutil.SimpleSteps(2))

	got, err := env.admin.Deactivate(env.adminCtx(), own.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := env.catalog.List(env.member(), true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := env.catalog.List(env.member(), false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)

	_, err = env.engine.Start(env.member(), own.ID, StartInput{})
	assert.ErrorIs(t, err, ErrModuleInactive)
}

func TestCanonicalBlueprintsParse(t *testing.T) {
	bps, err := CanonicalBlueprints()
	require.NoError(t, err)
	require.Len(t, bps, 3)
	names := []string{}
	for _, bp := range bps {
		names = append(names, bp.Name)
		assert.NotEmpty(t, bp.Steps, bp.Name)
		assert.Positive(t, bp.DurationMinutes, bp.Name)
		ok, violations := CheckComposedContent(bp.Steps)
		assert.True(t, ok, "%s: %v", bp.Name, violations)
	}
	assert.ElementsMatch(t, []string{"Burnout Check", "Breathing Reset", "Stress Decompress"}, names)
}

func TestSeedCanonicalIsIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)

	first, err := env.admin.SeedCanonical(dbctx.Background())
	require.NoError(t, err)
	assert.Len(t, first, 3)

	second, err := env.admin.SeedCanonical(env.adminCtx())
	require.NoError(t, err)
	assert.Empty(t, second)

	mods, err := env.catalog.List(env.member(), false)
	require.NoError(t, err)
	assert.Len(t, mods, 3)
	for _, m := range mods {
		assert.True(t, m.IsGlobal)
		assert.Nil(t, m.CreatedBy)
	}

	_, err = env.admin.SeedCanonical(env.member())
	assert.ErrorIs(t, err, ErrAdminRequired)
}

func TestSeedCanonicalSkipsExistingNamesOnly(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedModule(t, nil, "Breathing Reset", testutil.SimpleSteps(1))
	env.seedModule(t, &env.orgID, "Burnout Check", testutil.SimpleSteps(1))

	created, err := env.admin.SeedCanonical(dbctx.Background())
	require.NoError(t, err)
	names := []string{}
	for _, c := range created {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Burnout Check", "Stress Decompress"}, names)
}

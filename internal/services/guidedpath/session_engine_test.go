package guidedpath

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/rafiki-work/rafiki-backend/internal/data/repos"
	"github.com/rafiki-work/rafiki-backend/internal/data/repos/testutil"
	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"github.com/rafiki-work/rafiki-backend/internal/platform/apierr"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
)

func (e *testEnv) seedModule(t *testing.T, orgID *uuid.UUID, name string, steps []types.StepDefinition) *types.GuidedModule {
	t.Helper()
	return testutil.SeedModule(t, context.Background(), e.db, orgID, name, "stress_management", steps)
}

func TestStartServesFirstStep(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.seedModule(t, nil, "Breathing Reset", testutil.SimpleSteps(3))

	step, err := env.engine.Start(env.member(), m.ID, StartInput{StressBand: ptr("high"), PreRating: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, "Breathing Reset", step.ModuleName)
	assert.Equal(t, types.SessionInProgress, step.Status)
	assert.False(t, step.Personalized)
	assert.Equal(t, 0, step.Step.StepIndex)
	assert.Equal(t, 3, step.Step.TotalSteps)
	require.NotNil(t, step.Step.ExpectedInput)
	assert.Equal(t, types.ExpectedInputFreeText, *step.Step.ExpectedInput)
	assert.Nil(t, step.Step.MediaURL)

	summary, err := env.engine.Get(env.member(), step.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 4, *summary.PreRating)
	assert.Nil(t, summary.PostRating)
	assert.Equal(t, 0, summary.CurrentStep)
}

func TestStartRejections(t *testing.T) {
	env := newTestEnv(t, nil)
	other := uuid.New()
	foreign := env.seedModule(t, &other, "Other Org Module", testutil.SimpleSteps(2))
	empty := env.seedModule(t, &env.orgID, "Empty", []types.StepDefinition{})
	inactive := env.seedModule(t, &env.orgID, "Retired", testutil.SimpleSteps(2))
	require.NoError(t, env.modules.UpdateFields(dbctx.Background(), inactive.ID, map[string]interface{}{"is_active": false}))
	ok := env.seedModule(t, nil, "Burnout Check", testutil.SimpleSteps(2))

	cases := []struct {
		name     string
		dbc      dbctx.Context
		moduleID uuid.UUID
		in       StartInput
		code     string
		sentinel error
	}{
		{"no_identity", dbctx.Background(), ok.ID, StartInput{}, apierr.CodeUnauthorized, ErrUnauthorized},
		{"unknown_module", env.member(), uuid.New(), StartInput{}, apierr.CodeNotFound, ErrModuleNotFound},
		{"other_org_module", env.member(), foreign.ID, StartInput{}, apierr.CodeNotFound, ErrModuleNotFound},
		{"inactive", env.member(), inactive.ID, StartInput{}, apierr.CodeValidation, ErrModuleInactive},
		{"no_steps", env.member(), empty.ID, StartInput{}, apierr.CodeValidation, ErrModuleNoSteps},
		{"bad_stress_band", env.member(), ok.ID, StartInput{StressBand: ptr("extreme")}, apierr.CodeValidation, ErrInvalidStressBand},
		{"bad_pre_rating", env.member(), ok.ID, StartInput{PreRating: ptr(11)}, apierr.CodeValidation, ErrInvalidRating},
		{"bad_available_time", env.member(), ok.ID, StartInput{AvailableTime: ptr(0)}, apierr.CodeValidation, ErrInvalidAvailableTime},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.engine.Start(tc.dbc, tc.moduleID, tc.in)
			require.Error(t, err)
			assert.True(t, apierr.Is(err, tc.code), "got %v", err)
			assert.ErrorIs(t, err, tc.sentinel)
		})
	}
}

func TestAdvanceWalksToCompletion(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.seedModule(t, nil, "Stress Decompress", testutil.SimpleSteps(4))
	start, err := env.engine.Start(env.member(), m.ID, StartInput{})
	require.NoError(t, err)
	sid := start.SessionID

	for i := 0; i < 3; i++ {
		cur, err := env.engine.CurrentStep(env.member(), sid)
		require.NoError(t, err)
		require.Equal(t, i, cur.Step.StepIndex)

		answer := "some thoughts"
		if i == 2 {
			answer = " 7 "
		}
		res, err := env.engine.Advance(env.member(), sid, AdvanceInput{Response: &answer, StepIndex: ptr(i)})
		require.NoError(t, err)
		require.False(t, res.Completed)
		require.NotNil(t, res.Next)
		assert.Equal(t, i+1, res.Next.Step.StepIndex)
	}

	res, err := env.engine.Advance(env.member(), sid, AdvanceInput{})
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, "Module completed", res.Message)
	assert.Nil(t, res.Next)

	sess, err := env.sessions.GetByID(dbctx.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, types.SessionCompleted, sess.Status)
	assert.Equal(t, 4, sess.CurrentStep)
	require.NotNil(t, sess.CompletedAt)
	require.Len(t, sess.Responses, 4)
	for i, r := range sess.Responses {
		assert.Equal(t, i, r.StepIndex)
	}
	assert.Equal(t, "7", *sess.Responses[2].Response)
	assert.Nil(t, sess.Responses[3].Response)

	_, err = env.engine.Advance(env.member(), sid, AdvanceInput{})
	assert.ErrorIs(t, err, ErrSessionCompleted)
	assert.True(t, apierr.Is(err, apierr.CodeValidation))

	_, err = env.engine.CurrentStep(env.member(), sid)
	assert.ErrorIs(t, err, ErrSessionCompleted)

	after, err := env.sessions.GetByID(dbctx.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, 4, after.CurrentStep)
	assert.Len(t, after.Responses, 4)
}

func TestSingleStepModuleCompletesOnFirstAdvance(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.seedModule(t, &env.orgID, "One Breath", []types.StepDefinition{{Type: "intro", Message: "Breathe once."}})
	start, err := env.engine.Start(env.member(), m.ID, StartInput{})
	require.NoError(t, err)
	assert.Nil(t, start.Step.ExpectedInput)

	res, err := env.engine.Advance(env.member(), start.SessionID, AdvanceInput{})
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, start.SessionID, res.SessionID)
}

func TestAdvanceValidatesResponses(t *testing.T) {
	env := newTestEnv(t, nil)
	steps := []types.StepDefinition{
		{Type: "rating", Message: "Rate your stress.", ExpectedInput: types.ExpectedInputRating},
		{Type: "input", Message: "Tell me more.", ExpectedInput: types.ExpectedInputFreeText},
		{Type: "summary", Message: "Done."},
	}
	m := env.seedModule(t, nil, "Check-in", steps)
	start, err := env.engine.Start(env.member(), m.ID, StartInput{})
	require.NoError(t, err)
	sid := start.SessionID

	for _, bad := range []string{"eleven", "11", "-1", "3.5"} {
		_, err := env.engine.Advance(env.member(), sid, AdvanceInput{Response: ptr(bad)})
		assert.ErrorIs(t, err, ErrInvalidRating, "response %q", bad)
	}
	_, err = env.engine.Advance(env.member(), sid, AdvanceInput{Response: ptr("5"), StepIndex: ptr(1)})
	assert.ErrorIs(t, err, ErrStepMismatch)

	_, err = env.engine.Advance(env.member(), sid, AdvanceInput{Response: ptr("0")})
	require.NoError(t, err)

	long := strings.Repeat("é", MaxResponseChars+1)
	_, err = env.engine.Advance(env.member(), sid, AdvanceInput{Response: &long})
	assert.ErrorIs(t, err, ErrResponseTooLong)

	exact := strings.Repeat("é", MaxResponseChars)
	_, err = env.engine.Advance(env.member(), sid, AdvanceInput{Response: &exact})
	require.NoError(t, err)

	sess, err := env.sessions.GetByID(dbctx.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, 2, sess.CurrentStep)
	require.Len(t, sess.Responses, 2)
	assert.Equal(t, "0", *sess.Responses[0].Response)
}

func TestSessionsAreOwnerScoped(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.seedModule(t, nil, "Breathing Reset", testutil.SimpleSteps(2))
	start, err := env.engine.Start(env.member(), m.ID, StartInput{})
	require.NoError(t, err)

	stranger := env.as(uuid.New(), env.orgID, "employee")
	_, err = env.engine.CurrentStep(stranger, start.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = env.engine.Advance(stranger, start.SessionID, AdvanceInput{})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = env.engine.RecordOutcome(stranger, start.SessionID, OutcomeInput{PostRating: ptr(3)})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	otherOrg := env.as(env.userID, uuid.New(), "employee")
	_, err = env.engine.Get(otherOrg, start.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))
}

func TestRecordOutcomeIsIndependentOfProgress(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.seedModule(t, nil, "Burnout Check", testutil.SimpleSteps(3))
	start, err := env.engine.Start(env.member(), m.ID, StartInput{PreRating: ptr(2)})
	require.NoError(t, err)
	sid := start.SessionID

	_, err = env.engine.Advance(env.member(), sid, AdvanceInput{Response: ptr("hi")})
	require.NoError(t, err)

	out, err := env.engine.RecordOutcome(env.member(), sid, OutcomeInput{PostRating: ptr(8)})
	require.NoError(t, err)
	assert.Equal(t, 2, *out.PreRating)
	assert.Equal(t, 8, *out.PostRating)

	_, err = env.engine.RecordOutcome(env.member(), sid, OutcomeInput{PreRating: ptr(-1)})
	assert.ErrorIs(t, err, ErrInvalidRating)

	sess, err := env.sessions.GetByID(dbctx.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.CurrentStep)
	assert.Equal(t, types.SessionInProgress, sess.Status)
	assert.Len(t, sess.Responses, 1)
	assert.Equal(t, 8, *sess.PostRating)

	// Outcomes may still be recorded after completion.
	_, err = env.engine.Advance(env.member(), sid, AdvanceInput{})
	require.NoError(t, err)
	_, err = env.engine.Advance(env.member(), sid, AdvanceInput{Response: ptr("9")})
	require.NoError(t, err)
	out, err = env.engine.RecordOutcome(env.member(), sid, OutcomeInput{PreRating: ptr(3), PostRating: ptr(9)})
	require.NoError(t, err)
	assert.Equal(t, 3, *out.PreRating)
}

func TestAbandon(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.seedModule(t, nil, "Stress Decompress", testutil.SimpleSteps(3))
	start, err := env.engine.Start(env.member(), m.ID, StartInput{})
	require.NoError(t, err)
	sid := start.SessionID

	_, err = env.engine.Advance(env.member(), sid, AdvanceInput{Response: ptr("ok")})
	require.NoError(t, err)

	summary, err := env.engine.Abandon(env.member(), sid)
	require.NoError(t, err)
	assert.Equal(t, types.SessionAbandoned, summary.Status)
	assert.Equal(t, 1, summary.CurrentStep)
	assert.Equal(t, 3, summary.TotalSteps)
	require.NotNil(t, summary.AbandonedAt)

	_, err = env.engine.Advance(env.member(), sid, AdvanceInput{})
	assert.ErrorIs(t, err, ErrSessionAbandoned)
	_, err = env.engine.Abandon(env.member(), sid)
	assert.ErrorIs(t, err, ErrSessionAbandoned)

	done := env.seedModule(t, nil, "One Step", testutil.SimpleSteps(1))
	s2, err := env.engine.Start(env.member(), done.ID, StartInput{})
	require.NoError(t, err)
	_, err = env.engine.Advance(env.member(), s2.SessionID, AdvanceInput{})
	require.NoError(t, err)
	_, err = env.engine.Abandon(env.member(), s2.SessionID)
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestStartPersonalizesAndFreezesSteps(t *testing.T) {
	gen := &fakeGenerator{reply: `[{"message":"Night shifts are tough. Let's pause."},{"message":"What drained you tonight?"},{"message":"Rate how you feel now."}]`}
	env := newTestEnv(t, gen)
	m := env.seedModule(t, nil, "Stress Decompress", testutil.SimpleSteps(3))

	start, err := env.engine.Start(env.member(), m.ID, StartInput{StressBand: ptr("moderate")})
	require.NoError(t, err)
	assert.True(t, start.Personalized)
	assert.Equal(t, "Night shifts are tough. Let's pause.", start.Step.Message)
	assert.Equal(t, 1, gen.calls)

	// Editing the blueprint after start must not change a live session.
	edited := testutil.SimpleSteps(3)
	edited[1].Message = "rewritten blueprint"
	require.NoError(t, env.modules.UpdateFields(dbctx.Background(), m.ID, map[string]interface{}{
		"steps": datatypes.JSONSlice[types.StepDefinition](edited),
	}))

	res, err := env.engine.Advance(env.member(), start.SessionID, AdvanceInput{Response: ptr("a lot")})
	require.NoError(t, err)
	assert.Equal(t, "What drained you tonight?", res.Next.Step.Message)
	assert.Equal(t, 1, gen.calls)
}

func TestStartFallsBackWhenBackendFails(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{err: errBackendDown})
	m := env.seedModule(t, nil, "Breathing Reset", testutil.SimpleSteps(2))

	start, err := env.engine.Start(env.member(), m.ID, StartInput{})
	require.NoError(t, err)
	assert.False(t, start.Personalized)
	assert.Equal(t, "step message", start.Step.Message)
}

// racingSessions moves the session forward between the engine's read and its
// conditional write.
type racingSessions struct {
	repos.GuidedPathSessionRepo
}

func (r racingSessions) GetOwned(dbc dbctx.Context, id, userID, orgID uuid.UUID) (*types.GuidedPathSession, error) {
	sess, err := r.GuidedPathSessionRepo.GetOwned(dbc, id, userID, orgID)
	if err != nil || sess == nil {
		return sess, err
	}
	if err := r.GuidedPathSessionRepo.UpdateFields(dbc, id, map[string]interface{}{"current_step": sess.CurrentStep + 1}); err != nil {
		return nil, err
	}
	return sess, nil
}

func TestAdvanceRejectsConcurrentUpdate(t *testing.T) {
	env := newTestEnv(t, nil)
	m := env.seedModule(t, nil, "Stress Decompress", testutil.SimpleSteps(4))
	start, err := env.engine.Start(env.member(), m.ID, StartInput{})
	require.NoError(t, err)

	log := testutil.Logger(t)
	racing := NewSessionEngine(log, env.modules, racingSessions{env.sessions}, env.packs, NewComposer(log, nil, 0))

	_, err = racing.Advance(env.member(), start.SessionID, AdvanceInput{Response: ptr("late")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConcurrentAdvance))
	assert.True(t, apierr.Is(err, apierr.CodeConflict))

	sess, err := env.sessions.GetByID(dbctx.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.CurrentStep)
	assert.Empty(t, sess.Responses)
}

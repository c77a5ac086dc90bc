package guidedpath

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/rafiki-work/rafiki-backend/internal/data/repos"
	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"github.com/rafiki-work/rafiki-backend/internal/observability"
	"github.com/rafiki-work/rafiki-backend/internal/platform/apierr"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

const MaxResponseChars = 4000

type StartInput struct {
	RoleKey       *string `json:"role_key,omitempty"`
	Language      *string `json:"language,omitempty"`
	StressBand    *string `json:"stress_band,omitempty"`
	ThemeCategory *string `json:"theme_category,omitempty"`
	AvailableTime *int    `json:"available_time,omitempty"`
	PreRating     *int    `json:"pre_rating,omitempty"`
}

type AdvanceInput struct {
	Response  *string `json:"response,omitempty"`
	StepIndex *int    `json:"step_index,omitempty"`
}

type OutcomeInput struct {
	PreRating  *int `json:"pre_rating,omitempty"`
	PostRating *int `json:"post_rating,omitempty"`
}

type StepView struct {
	StepIndex     int      `json:"step_index"`
	TotalSteps    int      `json:"total_steps"`
	Type          string   `json:"type"`
	Message       string   `json:"message"`
	ExpectedInput *string  `json:"expected_input"`
	SafetyCheck   bool     `json:"safety_check"`
	MediaURL      *string  `json:"media_url"`
	Options       []string `json:"options,omitempty"`
}

type SessionStep struct {
	SessionID    uuid.UUID `json:"session_id"`
	ModuleName   string    `json:"module_name"`
	Status       string    `json:"status"`
	Personalized bool      `json:"personalized"`
	Step         StepView  `json:"step"`
}

type AdvanceResult struct {
	Completed bool         `json:"completed"`
	SessionID uuid.UUID    `json:"session_id"`
	Message   string       `json:"message,omitempty"`
	Next      *SessionStep `json:"-"`
}

type SessionSummary struct {
	ID            uuid.UUID  `json:"id"`
	ModuleID      uuid.UUID  `json:"module_id"`
	ModuleName    string     `json:"module_name"`
	Status        string     `json:"status"`
	CurrentStep   int        `json:"current_step"`
	TotalSteps    int        `json:"total_steps"`
	Personalized  bool       `json:"personalized"`
	PreRating     *int       `json:"pre_rating"`
	PostRating    *int       `json:"post_rating"`
	ThemeCategory *string    `json:"theme_category"`
	AvailableTime *int       `json:"available_time"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	AbandonedAt   *time.Time `json:"abandoned_at"`
}

type OutcomeResult struct {
	SessionID  uuid.UUID `json:"session_id"`
	PreRating  *int      `json:"pre_rating"`
	PostRating *int      `json:"post_rating"`
}

type SessionEngine interface {
	Start(dbc dbctx.Context, moduleID uuid.UUID, in StartInput) (*SessionStep, error)
	Get(dbc dbctx.Context, sessionID uuid.UUID) (*SessionSummary, error)
	CurrentStep(dbc dbctx.Context, sessionID uuid.UUID) (*SessionStep, error)
	Advance(dbc dbctx.Context, sessionID uuid.UUID, in AdvanceInput) (*AdvanceResult, error)
	RecordOutcome(dbc dbctx.Context, sessionID uuid.UUID, in OutcomeInput) (*OutcomeResult, error)
	Abandon(dbc dbctx.Context, sessionID uuid.UUID) (*SessionSummary, error)
}

type sessionEngine struct {
	log      *logger.Logger
	modules  repos.GuidedModuleRepo
	sessions repos.GuidedPathSessionRepo
	packs    ContextPackBuilder
	composer Composer
	now      func() time.Time
}

func NewSessionEngine(
	baseLog *logger.Logger,
	modules repos.GuidedModuleRepo,
	sessions repos.GuidedPathSessionRepo,
	packs ContextPackBuilder,
	composer Composer,
) SessionEngine {
	return &sessionEngine{
		log:      baseLog.With("service", "SessionEngine"),
		modules:  modules,
		sessions: sessions,
		packs:    packs,
		composer: composer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (e *sessionEngine) Start(dbc dbctx.Context, moduleID uuid.UUID, in StartInput) (*SessionStep, error) {
	id, err := requireIdentity(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if err := validateStressBand(in.StressBand); err != nil {
		return nil, err
	}
	if err := validateRating(in.PreRating); err != nil {
		return nil, err
	}
	if err := validateAvailableTime(in.AvailableTime); err != nil {
		return nil, err
	}

	module, err := e.modules.GetByID(dbc, moduleID)
	if err != nil {
		return nil, fmt.Errorf("load module: %w", err)
	}
	if module == nil || !module.VisibleTo(id.OrgID) {
		return nil, apierr.NotFound(ErrModuleNotFound)
	}
	if !module.IsActive {
		return nil, apierr.Validation(ErrModuleInactive)
	}
	if len(module.Steps) == 0 {
		return nil, apierr.Validation(ErrModuleNoSteps)
	}

	pack, err := e.packs.Build(dbc, id.OrgID, in.RoleKey, SessionVars{
		Language:      in.Language,
		StressBand:    in.StressBand,
		ThemeCategory: in.ThemeCategory,
		AvailableTime: in.AvailableTime,
	})
	if err != nil {
		return nil, err
	}

	comp := e.composer.Compose(dbc.Ctx, module.Name, module.Steps, pack)

	sess := &types.GuidedPathSession{
		UserID:        id.UserID,
		OrgID:         id.OrgID,
		ModuleID:      module.ID,
		CurrentStep:   0,
		Status:        types.SessionInProgress,
		StartedAt:     e.now(),
		Responses:     []types.SessionResponse{},
		ComposedSteps: comp.Steps,
		ContextPack:   datatypes.NewJSONType(pack),
		Personalized:  comp.Adapted,
		PreRating:     in.PreRating,
		ThemeCategory: in.ThemeCategory,
		AvailableTime: in.AvailableTime,
	}
	if _, err := e.sessions.Create(dbc, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	observability.Current().IncSessionEvent("started")
	e.log.Info("session started",
		"session_id", sess.ID,
		"module", module.Name,
		"personalized", comp.Adapted,
		"fallback_reason", comp.FallbackReason,
	)
	return buildSessionStep(sess, module.Name, comp.Steps, 0), nil
}

func (e *sessionEngine) Get(dbc dbctx.Context, sessionID uuid.UUID) (*SessionSummary, error) {
	sess, err := e.loadOwned(dbc, sessionID)
	if err != nil {
		return nil, err
	}
	module, steps, err := e.stepsFor(dbc, sess)
	if err != nil {
		return nil, err
	}
	return summarize(sess, moduleName(module), len(steps)), nil
}

func (e *sessionEngine) CurrentStep(dbc dbctx.Context, sessionID uuid.UUID) (*SessionStep, error) {
	sess, err := e.loadOwned(dbc, sessionID)
	if err != nil {
		return nil, err
	}
	if err := ensureOpen(sess); err != nil {
		return nil, err
	}
	module, steps, err := e.stepsFor(dbc, sess)
	if err != nil {
		return nil, err
	}
	if sess.CurrentStep < 0 || sess.CurrentStep >= len(steps) {
		return nil, apierr.Validation(ErrNoMoreSteps)
	}
	return buildSessionStep(sess, moduleName(module), steps, sess.CurrentStep), nil
}

func (e *sessionEngine) Advance(dbc dbctx.Context, sessionID uuid.UUID, in AdvanceInput) (*AdvanceResult, error) {
	sess, err := e.loadOwned(dbc, sessionID)
	if err != nil {
		return nil, err
	}
	if err := ensureOpen(sess); err != nil {
		return nil, err
	}
	cur := sess.CurrentStep
	if in.StepIndex != nil && *in.StepIndex != cur {
		return nil, apierr.Validation(fmt.Errorf("%w: got %d, current %d", ErrStepMismatch, *in.StepIndex, cur))
	}
	module, steps, err := e.stepsFor(dbc, sess)
	if err != nil {
		return nil, err
	}
	if cur < 0 || cur >= len(steps) {
		return nil, apierr.Validation(ErrNoMoreSteps)
	}

	response, err := normalizeResponse(steps[cur], in.Response)
	if err != nil {
		return nil, err
	}

	now := e.now()
	responses := append(append([]types.SessionResponse{}, sess.Responses...), types.SessionResponse{
		StepIndex: cur,
		Response:  response,
		Timestamp: now,
	})
	next := cur + 1
	completed := next >= len(steps)

	updates := map[string]interface{}{
		"current_step": next,
		"responses":    datatypes.JSONSlice[types.SessionResponse](responses),
	}
	if completed {
		updates["status"] = types.SessionCompleted
		updates["completed_at"] = now
	}

	ok, err := e.sessions.UpdateIfAt(dbc, sess.ID, cur, updates)
	if err != nil {
		return nil, fmt.Errorf("advance session: %w", err)
	}
	if !ok {
		return nil, e.staleAdvance(dbc, sess.ID)
	}

	sess.CurrentStep = next
	sess.Responses = responses
	if completed {
		sess.Status = types.SessionCompleted
		sess.CompletedAt = &now
		observability.Current().IncSessionEvent("completed")
		e.log.Info("session completed", "session_id", sess.ID, "steps", len(steps))
		return &AdvanceResult{Completed: true, SessionID: sess.ID, Message: "Module completed"}, nil
	}
	return &AdvanceResult{
		SessionID: sess.ID,
		Next:      buildSessionStep(sess, moduleName(module), steps, next),
	}, nil
}

func (e *sessionEngine) RecordOutcome(dbc dbctx.Context, sessionID uuid.UUID, in OutcomeInput) (*OutcomeResult, error) {
	if err := validateRating(in.PreRating); err != nil {
		return nil, err
	}
	if err := validateRating(in.PostRating); err != nil {
		return nil, err
	}
	sess, err := e.loadOwned(dbc, sessionID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.PreRating != nil {
		updates["pre_rating"] = *in.PreRating
		sess.PreRating = in.PreRating
	}
	if in.PostRating != nil {
		updates["post_rating"] = *in.PostRating
		sess.PostRating = in.PostRating
	}
	if err := e.sessions.UpdateFields(dbc, sess.ID, updates); err != nil {
		return nil, fmt.Errorf("record outcome: %w", err)
	}
	return &OutcomeResult{SessionID: sess.ID, PreRating: sess.PreRating, PostRating: sess.PostRating}, nil
}

func (e *sessionEngine) Abandon(dbc dbctx.Context, sessionID uuid.UUID) (*SessionSummary, error) {
	sess, err := e.loadOwned(dbc, sessionID)
	if err != nil {
		return nil, err
	}
	if err := ensureOpen(sess); err != nil {
		return nil, err
	}
	now := e.now()
	ok, err := e.sessions.UpdateIfAt(dbc, sess.ID, sess.CurrentStep, map[string]interface{}{
		"status":       types.SessionAbandoned,
		"abandoned_at": now,
	})
	if err != nil {
		return nil, fmt.Errorf("abandon session: %w", err)
	}
	if !ok {
		return nil, e.staleAdvance(dbc, sess.ID)
	}
	sess.Status = types.SessionAbandoned
	sess.AbandonedAt = &now

	module, steps, err := e.stepsFor(dbc, sess)
	if err != nil {
		return nil, err
	}
	observability.Current().IncSessionEvent("abandoned")
	e.log.Info("session abandoned", "session_id", sess.ID, "step_index", sess.CurrentStep)
	return summarize(sess, moduleName(module), len(steps)), nil
}

func (e *sessionEngine) loadOwned(dbc dbctx.Context, sessionID uuid.UUID) (*types.GuidedPathSession, error) {
	id, err := requireIdentity(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	sess, err := e.sessions.GetOwned(dbc, sessionID, id.UserID, id.OrgID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, apierr.NotFound(ErrSessionNotFound)
	}
	return sess, nil
}

// stepsFor returns the frozen composed steps, or the module's blueprint when
// none were stored.
func (e *sessionEngine) stepsFor(dbc dbctx.Context, sess *types.GuidedPathSession) (*types.GuidedModule, []types.StepDefinition, error) {
	module, err := e.modules.GetByID(dbc, sess.ModuleID)
	if err != nil {
		return nil, nil, fmt.Errorf("load module: %w", err)
	}
	if len(sess.ComposedSteps) > 0 {
		return module, sess.ComposedSteps, nil
	}
	if module == nil {
		return nil, nil, apierr.NotFound(ErrModuleNotFound)
	}
	return module, module.Steps, nil
}

// staleAdvance explains why a conditional update matched no row.
func (e *sessionEngine) staleAdvance(dbc dbctx.Context, sessionID uuid.UUID) error {
	fresh, err := e.sessions.GetByID(dbc, sessionID)
	if err != nil {
		return fmt.Errorf("reload session: %w", err)
	}
	if fresh != nil {
		if err := ensureOpen(fresh); err != nil {
			return err
		}
	}
	observability.Current().IncSessionEvent("conflict")
	e.log.Warn("concurrent session update rejected", "session_id", sessionID)
	return apierr.Conflict(ErrConcurrentAdvance)
}

func ensureOpen(sess *types.GuidedPathSession) error {
	if !sess.IsTerminal() {
		return nil
	}
	if sess.Status == types.SessionAbandoned {
		return apierr.Validation(ErrSessionAbandoned)
	}
	return apierr.Validation(ErrSessionCompleted)
}

// normalizeResponse enforces the step's expected input on a supplied answer.
// Absent answers are accepted on every step.
func normalizeResponse(step types.StepDefinition, raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	if utf8.RuneCountInString(*raw) > MaxResponseChars {
		return nil, apierr.Validation(fmt.Errorf("%w: max %d characters", ErrResponseTooLong, MaxResponseChars))
	}
	if step.ExpectedInput != types.ExpectedInputRating {
		v := *raw
		return &v, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*raw))
	if err != nil || n < 0 || n > 10 {
		return nil, apierr.Validation(ErrInvalidRating)
	}
	v := strconv.Itoa(n)
	return &v, nil
}

func buildSessionStep(sess *types.GuidedPathSession, name string, steps []types.StepDefinition, index int) *SessionStep {
	return &SessionStep{
		SessionID:    sess.ID,
		ModuleName:   name,
		Status:       sess.Status,
		Personalized: sess.Personalized,
		Step:         buildStepView(steps, index),
	}
}

func buildStepView(steps []types.StepDefinition, index int) StepView {
	s := steps[index]
	v := StepView{
		StepIndex:   index,
		TotalSteps:  len(steps),
		Type:        s.Type,
		Message:     s.Message,
		SafetyCheck: s.SafetyCheck,
		Options:     s.Options,
	}
	if v.Type == "" {
		v.Type = "prompt"
	}
	if s.ExpectedInput != "" {
		ei := s.ExpectedInput
		v.ExpectedInput = &ei
	}
	if s.MediaURL != "" {
		u := s.MediaURL
		v.MediaURL = &u
	}
	return v
}

func summarize(sess *types.GuidedPathSession, name string, total int) *SessionSummary {
	return &SessionSummary{
		ID:            sess.ID,
		ModuleID:      sess.ModuleID,
		ModuleName:    name,
		Status:        sess.Status,
		CurrentStep:   sess.CurrentStep,
		TotalSteps:    total,
		Personalized:  sess.Personalized,
		PreRating:     sess.PreRating,
		PostRating:    sess.PostRating,
		ThemeCategory: sess.ThemeCategory,
		AvailableTime: sess.AvailableTime,
		StartedAt:     sess.StartedAt,
		CompletedAt:   sess.CompletedAt,
		AbandonedAt:   sess.AbandonedAt,
	}
}

func moduleName(m *types.GuidedModule) string {
	if m == nil {
		return ""
	}
	return m.Name
}

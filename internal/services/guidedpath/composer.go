package guidedpath

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"github.com/rafiki-work/rafiki-backend/internal/observability"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
	"github.com/rafiki-work/rafiki-backend/internal/platform/openai"
)

const (
	FallbackNoBackend      = "no_backend"
	FallbackBackendError   = "backend_error"
	FallbackParseError     = "parse_error"
	FallbackLengthMismatch = "length_mismatch"
	FallbackEmptyMessage   = "empty_message"
	FallbackSafetyGate     = "safety_gate"
)

const DefaultComposeTimeout = 30 * time.Second

const composerSystemPrompt = `You are the Rafiki Module Composer.
You receive a module blueprint (fixed psychological structure) and a context pack.
Your job: adapt the wording, examples, scenarios, and micro-actions to fit the context.

RULES:
- Keep ALL steps in the exact order given. Do not add or remove steps.
- Keep step types and expected_input unchanged.
- Keep media_url unchanged if present.
- Adapt ONLY: message text, option labels (if present), example scenarios.
- Use context to make examples role-relevant and culturally aligned.
- If a role stressor_profile mentions "high_emotional_labor", use empathetic scenarios.
- If work_pattern is "night_shift", reference fatigue and schedule challenges.
- Do NOT mention employer monitoring, HR, job descriptions, or surveillance.
- Do NOT make diagnostic claims.
- Respond ONLY with a valid JSON array of adapted steps. No markdown, no explanation.`

// Composition is the composer's result. Steps is always usable: either the
// adapted steps or a copy of the blueprint.
type Composition struct {
	Steps          []types.StepDefinition
	Adapted        bool
	FallbackReason string
	Violations     []string
}

type Composer interface {
	Compose(ctx context.Context, moduleName string, blueprint []types.StepDefinition, pack types.ContextPack) Composition
}

type composer struct {
	log     *logger.Logger
	gen     openai.Client
	timeout time.Duration
}

// NewComposer builds a composer; gen may be nil when no backend is configured.
func NewComposer(baseLog *logger.Logger, gen openai.Client, timeout time.Duration) Composer {
	if timeout <= 0 {
		timeout = DefaultComposeTimeout
	}
	return &composer{
		log:     baseLog.With("service", "ModuleComposer"),
		gen:     gen,
		timeout: timeout,
	}
}

type composePayload struct {
	ModuleName     string                 `json:"module_name"`
	ContextPack    types.ContextPack      `json:"context_pack"`
	BlueprintSteps []types.StepDefinition `json:"blueprint_steps"`
}

// adaptedStep holds only what the generator is trusted for.
type adaptedStep struct {
	Message *string  `json:"message"`
	Options []string `json:"options"`
}

func (c *composer) Compose(ctx context.Context, moduleName string, blueprint []types.StepDefinition, pack types.ContextPack) Composition {
	ctx, span := otel.Tracer("guidedpath").Start(ctx, "guidedpath.compose")
	defer span.End()
	span.SetAttributes(
		attribute.String("module.name", moduleName),
		attribute.Int("module.steps", len(blueprint)),
	)

	start := time.Now()
	out := c.compose(ctx, moduleName, blueprint, pack)
	outcome := "adapted"
	if !out.Adapted {
		outcome = out.FallbackReason
	}
	observability.Current().ObserveCompose(outcome, time.Since(start))

	span.SetAttributes(attribute.Bool("compose.adapted", out.Adapted))
	if !out.Adapted {
		span.SetAttributes(attribute.String("compose.fallback_reason", out.FallbackReason))
		if out.FallbackReason != FallbackNoBackend {
			span.SetStatus(codes.Error, out.FallbackReason)
		}
	}
	return out
}

func (c *composer) compose(ctx context.Context, moduleName string, blueprint []types.StepDefinition, pack types.ContextPack) Composition {
	fallback := func(reason string, violations []string) Composition {
		return Composition{
			Steps:          types.CloneSteps(blueprint),
			FallbackReason: reason,
			Violations:     violations,
		}
	}

	if c.gen == nil {
		c.log.Debug("no generation backend; serving blueprint", "module", moduleName)
		return fallback(FallbackNoBackend, nil)
	}
	if len(blueprint) == 0 {
		return Composition{Steps: []types.StepDefinition{}}
	}

	user, err := json.MarshalIndent(composePayload{
		ModuleName:     moduleName,
		ContextPack:    pack,
		BlueprintSteps: blueprint,
	}, "", "  ")
	if err != nil {
		c.log.Warn("compose payload encode failed", "module", moduleName, "reason", FallbackParseError, "error", err)
		return fallback(FallbackParseError, nil)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	reply, err := c.gen.GenerateText(callCtx, composerSystemPrompt, string(user))
	if err != nil {
		c.log.Warn("composer fallback",
			"module", moduleName,
			"reason", FallbackBackendError,
			"timeout", errors.Is(err, context.DeadlineExceeded),
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fallback(FallbackBackendError, nil)
	}

	adapted, err := parseAdaptedSteps(reply)
	if err != nil {
		c.log.Warn("composer fallback", "module", moduleName, "reason", FallbackParseError, "error", err)
		return fallback(FallbackParseError, nil)
	}
	if len(adapted) != len(blueprint) {
		c.log.Warn("composer fallback",
			"module", moduleName,
			"reason", FallbackLengthMismatch,
			"got_steps", len(adapted),
			"want_steps", len(blueprint),
		)
		return fallback(FallbackLengthMismatch, nil)
	}

	steps, reason := restamp(blueprint, adapted)
	if reason != "" {
		c.log.Warn("composer fallback", "module", moduleName, "reason", reason)
		return fallback(reason, nil)
	}

	if ok, violations := CheckComposedContent(steps); !ok {
		c.log.Warn("composer fallback",
			"module", moduleName,
			"reason", FallbackSafetyGate,
			"violations", violations,
		)
		return fallback(FallbackSafetyGate, violations)
	}

	c.log.Info("module composed", "module", moduleName, "steps", len(steps), "duration_ms", time.Since(start).Milliseconds())
	return Composition{Steps: steps, Adapted: true}
}

// parseAdaptedSteps accepts a bare JSON array, optionally wrapped in a
// markdown code fence.
func parseAdaptedSteps(reply string) ([]adaptedStep, error) {
	text := strings.TrimSpace(reply)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}
	if !strings.HasPrefix(text, "[") {
		return nil, fmt.Errorf("reply is not a JSON array")
	}
	var out []adaptedStep
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// restamp copies every structural field from the blueprint, keeping only the
// generator's message and same-length option labels.
func restamp(blueprint []types.StepDefinition, adapted []adaptedStep) ([]types.StepDefinition, string) {
	out := types.CloneSteps(blueprint)
	for i := range out {
		a := adapted[i]
		if a.Message != nil {
			msg := strings.TrimSpace(*a.Message)
			if msg == "" && strings.TrimSpace(blueprint[i].Message) != "" {
				return nil, FallbackEmptyMessage
			}
			out[i].Message = msg
		}
		if len(a.Options) > 0 && len(a.Options) == len(blueprint[i].Options) {
			out[i].Options = append([]string(nil), a.Options...)
		}
	}
	return out, ""
}

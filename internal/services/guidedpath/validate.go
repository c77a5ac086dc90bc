package guidedpath

import (
	"fmt"
	"strings"

	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"github.com/rafiki-work/rafiki-backend/internal/domain/wellbeing"
	"github.com/rafiki-work/rafiki-backend/internal/platform/apierr"
)

func validateBlueprint(name, category string, duration int, steps []types.StepDefinition) error {
	if strings.TrimSpace(name) == "" {
		return apierr.Validation(fmt.Errorf("%w: name is required", ErrInvalidBlueprint))
	}
	if strings.TrimSpace(category) == "" {
		return apierr.Validation(fmt.Errorf("%w: category is required", ErrInvalidBlueprint))
	}
	if duration <= 0 {
		return apierr.Validation(fmt.Errorf("%w: duration_minutes must be positive", ErrInvalidBlueprint))
	}
	return validateSteps(steps)
}

func validateSteps(steps []types.StepDefinition) error {
	for i, s := range steps {
		if !wellbeing.IsStepType(s.Type) {
			return apierr.Validation(fmt.Errorf("%w: step %d has unknown type %q", ErrInvalidBlueprint, i, s.Type))
		}
		if !wellbeing.IsExpectedInput(s.ExpectedInput) {
			return apierr.Validation(fmt.Errorf("%w: step %d has unknown expected_input %q", ErrInvalidBlueprint, i, s.ExpectedInput))
		}
	}
	return nil
}

package guidedpath

import (
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	types "github.com/rafiki-work/rafiki-backend/internal/domain"
)

//go:embed seed/canonical_modules.yaml
var canonicalModulesYAML []byte

type Blueprint struct {
	Name            string                 `yaml:"name" json:"name"`
	Category        string                 `yaml:"category" json:"category"`
	Description     string                 `yaml:"description" json:"description"`
	DurationMinutes int                    `yaml:"duration_minutes" json:"duration_minutes"`
	Icon            string                 `yaml:"icon" json:"icon"`
	Steps           []types.StepDefinition `yaml:"steps" json:"steps"`
	Triggers        []string               `yaml:"triggers" json:"triggers"`
	SafetyChecks    []string               `yaml:"safety_checks" json:"safety_checks"`
}

type SeededModule struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

// CanonicalBlueprints parses the embedded global blueprints.
func CanonicalBlueprints() ([]Blueprint, error) {
	var out []Blueprint
	if err := yaml.Unmarshal(canonicalModulesYAML, &out); err != nil {
		return nil, fmt.Errorf("parse canonical modules: %w", err)
	}
	for _, bp := range out {
		if err := validateBlueprint(bp.Name, bp.Category, bp.DurationMinutes, bp.Steps); err != nil {
			return nil, fmt.Errorf("canonical module %q: %w", bp.Name, err)
		}
	}
	return out, nil
}

package guidedpath

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rafiki-work/rafiki-backend/internal/data/repos"
	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"github.com/rafiki-work/rafiki-backend/internal/platform/apierr"
	"github.com/rafiki-work/rafiki-backend/internal/platform/ctxutil"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

const (
	defaultDurationMinutes = 10
	defaultIcon            = "brain"
)

type ModuleInput struct {
	Name            string                 `json:"name"`
	Category        string                 `json:"category"`
	Description     string                 `json:"description"`
	DurationMinutes *int                   `json:"duration_minutes"`
	Icon            *string                `json:"icon"`
	Steps           []types.StepDefinition `json:"steps"`
	Triggers        []string               `json:"triggers"`
	SafetyChecks    []string               `json:"safety_checks"`
}

// ModulePatch carries only the fields to change; nil means untouched.
type ModulePatch struct {
	Name            *string                 `json:"name"`
	Category        *string                 `json:"category"`
	Description     *string                 `json:"description"`
	DurationMinutes *int                    `json:"duration_minutes"`
	Icon            *string                 `json:"icon"`
	Steps           *[]types.StepDefinition `json:"steps"`
	Triggers        *[]string               `json:"triggers"`
	SafetyChecks    *[]string               `json:"safety_checks"`
	IsActive        *bool                   `json:"is_active"`
}

// ModuleAdminService authors org-owned blueprints. Global modules are read-only.
type ModuleAdminService interface {
	Create(dbc dbctx.Context, in ModuleInput) (*ModuleDetail, error)
	Update(dbc dbctx.Context, moduleID uuid.UUID, patch ModulePatch) (*ModuleDetail, error)
	Deactivate(dbc dbctx.Context, moduleID uuid.UUID) (*ModuleDetail, error)
	SeedCanonical(dbc dbctx.Context) ([]SeededModule, error)
}

type moduleAdminService struct {
	db      *gorm.DB
	log     *logger.Logger
	modules repos.GuidedModuleRepo
}

func NewModuleAdminService(db *gorm.DB, baseLog *logger.Logger, modules repos.GuidedModuleRepo) ModuleAdminService {
	return &moduleAdminService{
		db:      db,
		log:     baseLog.With("service", "ModuleAdminService"),
		modules: modules,
	}
}

func (s *moduleAdminService) Create(dbc dbctx.Context, in ModuleInput) (*ModuleDetail, error) {
	id, err := requireAdmin(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	duration := defaultDurationMinutes
	if in.DurationMinutes != nil {
		duration = *in.DurationMinutes
	}
	icon := defaultIcon
	if in.Icon != nil && strings.TrimSpace(*in.Icon) != "" {
		icon = strings.TrimSpace(*in.Icon)
	}
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	if err := validateBlueprint(name, category, duration, in.Steps); err != nil {
		return nil, err
	}

	orgID := id.OrgID
	userID := id.UserID
	m := &types.GuidedModule{
		OrgID:           &orgID,
		Name:            name,
		Category:        category,
		Description:     in.Description,
		DurationMinutes: duration,
		Icon:            icon,
		Steps:           nonNilSteps(in.Steps),
		Triggers:        nonNilStrings(in.Triggers),
		SafetyChecks:    nonNilStrings(in.SafetyChecks),
		IsActive:        true,
		CreatedBy:       &userID,
	}
	if _, err := s.modules.Create(dbc, []*types.GuidedModule{m}); err != nil {
		return nil, fmt.Errorf("create module: %w", err)
	}
	s.log.Info("module created", "module_id", m.ID, "org_id", orgID, "steps", len(m.Steps))
	return detailModule(m), nil
}

func (s *moduleAdminService) Update(dbc dbctx.Context, moduleID uuid.UUID, patch ModulePatch) (*ModuleDetail, error) {
	m, err := s.loadEditable(dbc, moduleID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		m.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Category != nil {
		m.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	if patch.DurationMinutes != nil {
		m.DurationMinutes = *patch.DurationMinutes
	}
	if patch.Icon != nil {
		m.Icon = strings.TrimSpace(*patch.Icon)
	}
	if patch.Steps != nil {
		m.Steps = nonNilSteps(*patch.Steps)
	}
	if patch.Triggers != nil {
		m.Triggers = nonNilStrings(*patch.Triggers)
	}
	if patch.SafetyChecks != nil {
		m.SafetyChecks = nonNilStrings(*patch.SafetyChecks)
	}
	if patch.IsActive != nil {
		m.IsActive = *patch.IsActive
	}
	if err := validateBlueprint(m.Name, m.Category, m.DurationMinutes, m.Steps); err != nil {
		return nil, err
	}

	if err := s.modules.Update(dbc, m); err != nil {
		return nil, fmt.Errorf("update module: %w", err)
	}
	s.log.Info("module updated", "module_id", m.ID)
	return detailModule(m), nil
}

func (s *moduleAdminService) Deactivate(dbc dbctx.Context, moduleID uuid.UUID) (*ModuleDetail, error) {
	m, err := s.loadEditable(dbc, moduleID)
	if err != nil {
		return nil, err
	}
	if err := s.modules.UpdateFields(dbc, m.ID, map[string]interface{}{"is_active": false}); err != nil {
		return nil, fmt.Errorf("deactivate module: %w", err)
	}
	m.IsActive = false
	s.log.Info("module deactivated", "module_id", m.ID)
	return detailModule(m), nil
}

// SeedCanonical installs the embedded global blueprints, skipping any whose
// name already exists as a global module. Callers outside a request (the seed
// command) may omit the identity.
func (s *moduleAdminService) SeedCanonical(dbc dbctx.Context) ([]SeededModule, error) {
	if id := ctxutil.GetIdentity(dbc.Ctx); id != nil && !id.IsAdmin() {
		return nil, apierr.Forbidden(ErrAdminRequired)
	}
	blueprints, err := CanonicalBlueprints()
	if err != nil {
		return nil, err
	}

	created := []SeededModule{}
	run := func(inner dbctx.Context) error {
		for _, bp := range blueprints {
			existing, err := s.modules.GetGlobalByName(inner, bp.Name)
			if err != nil {
				return fmt.Errorf("lookup %q: %w", bp.Name, err)
			}
			if existing != nil {
				continue
			}
			m := &types.GuidedModule{
				OrgID:           nil,
				Name:            bp.Name,
				Category:        bp.Category,
				Description:     bp.Description,
				DurationMinutes: bp.DurationMinutes,
				Icon:            bp.Icon,
				Steps:           nonNilSteps(bp.Steps),
				Triggers:        nonNilStrings(bp.Triggers),
				SafetyChecks:    nonNilStrings(bp.SafetyChecks),
				IsActive:        true,
			}
			if _, err := s.modules.Create(inner, []*types.GuidedModule{m}); err != nil {
				return fmt.Errorf("seed %q: %w", bp.Name, err)
			}
			created = append(created, SeededModule{ID: m.ID, Name: m.Name, Category: m.Category})
		}
		return nil
	}

	if dbc.Tx != nil {
		err = run(dbc)
	} else {
		err = s.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
			return run(dbctx.Context{Ctx: dbc.Ctx, Tx: tx})
		})
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("canonical modules seeded", "created", len(created))
	return created, nil
}

func (s *moduleAdminService) loadEditable(dbc dbctx.Context, moduleID uuid.UUID) (*types.GuidedModule, error) {
	id, err := requireAdmin(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	m, err := s.modules.GetByID(dbc, moduleID)
	if err != nil {
		return nil, fmt.Errorf("load module: %w", err)
	}
	if m == nil || !m.VisibleTo(id.OrgID) {
		return nil, apierr.NotFound(ErrModuleNotFound)
	}
	if m.IsGlobal() {
		return nil, apierr.Forbidden(ErrGlobalModuleReadOnly)
	}
	return m, nil
}

func nonNilSteps(in []types.StepDefinition) []types.StepDefinition {
	if in == nil {
		return []types.StepDefinition{}
	}
	return types.CloneSteps(in)
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string(nil), in...)
}

package guidedpath

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rafiki-work/rafiki-backend/internal/data/repos"
	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"github.com/rafiki-work/rafiki-backend/internal/observability"
	"github.com/rafiki-work/rafiki-backend/internal/platform/apierr"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

type ModuleSummary struct {
	ID              uuid.UUID  `json:"id"`
	OrgID           *uuid.UUID `json:"org_id"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	Description     string     `json:"description,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Icon            string     `json:"icon,omitempty"`
	IsActive        bool       `json:"is_active"`
	IsGlobal        bool       `json:"is_global"`
	CreatedBy       *uuid.UUID `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type ModuleDetail struct {
	ModuleSummary
	Steps        []types.StepDefinition `json:"steps"`
	Triggers     []string               `json:"triggers"`
	SafetyChecks []string               `json:"safety_checks"`
}

type SuggestResult struct {
	Suggestions []Suggestion `json:"suggestions"`
	Theme       *string      `json:"theme"`
}

// CatalogService serves the module catalog and ranked suggestions.
type CatalogService interface {
	List(dbc dbctx.Context, activeOnly bool) ([]ModuleSummary, error)
	Get(dbc dbctx.Context, moduleID uuid.UUID) (*ModuleDetail, error)
	Suggest(dbc dbctx.Context, q SuggestQuery) (*SuggestResult, error)
	RecentThemes(dbc dbctx.Context) ([]ThemeCount, error)
}

type catalogService struct {
	log     *logger.Logger
	modules repos.GuidedModuleRepo
	topics  TopicMemory
}

func NewCatalogService(baseLog *logger.Logger, modules repos.GuidedModuleRepo, topics TopicMemory) CatalogService {
	return &catalogService{
		log:     baseLog.With("service", "CatalogService"),
		modules: modules,
		topics:  topics,
	}
}

func (s *catalogService) List(dbc dbctx.Context, activeOnly bool) ([]ModuleSummary, error) {
	id, err := requireIdentity(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.modules.ListVisible(dbc, id.OrgID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	out := make([]ModuleSummary, 0, len(rows))
	for _, m := range rows {
		out = append(out, summarizeModule(m))
	}
	return out, nil
}

func (s *catalogService) Get(dbc dbctx.Context, moduleID uuid.UUID) (*ModuleDetail, error) {
	id, err := requireIdentity(dbc.Ctx)
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
	return detailModule(m), nil
}

func (s *catalogService) Suggest(dbc dbctx.Context, q SuggestQuery) (*SuggestResult, error) {
	id, err := requireIdentity(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if err := validateStressBand(q.StressBand); err != nil {
		return nil, err
	}
	if err := validateAvailableTime(q.AvailableTime); err != nil {
		return nil, err
	}
	if q.Theme != nil && strings.TrimSpace(*q.Theme) == "" {
		q.Theme = nil
	}

	candidates, err := s.modules.ListCandidates(dbc, id.OrgID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	suggestions := RankModules(candidates, q)
	observability.Current().IncSuggest(q.Theme != nil)

	if q.Theme != nil && s.topics != nil {
		if err := s.topics.Record(dbc, id.UserID, id.OrgID, *q.Theme); err != nil {
			s.log.Warn("record theme failed", "user_id", id.UserID, "error", err)
		}
	}
	return &SuggestResult{Suggestions: suggestions, Theme: q.Theme}, nil
}

func (s *catalogService) RecentThemes(dbc dbctx.Context) ([]ThemeCount, error) {
	id, err := requireIdentity(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if s.topics == nil {
		return []ThemeCount{}, nil
	}
	return s.topics.Recent(dbc, id.UserID)
}

func summarizeModule(m *types.GuidedModule) ModuleSummary {
	return ModuleSummary{
		ID:              m.ID,
		OrgID:           m.OrgID,
		Name:            m.Name,
		Category:        m.Category,
		Description:     m.Description,
		DurationMinutes: m.DurationMinutes,
		Icon:            m.Icon,
		IsActive:        m.IsActive,
		IsGlobal:        m.IsGlobal(),
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func detailModule(m *types.GuidedModule) *ModuleDetail {
	d := &ModuleDetail{
		ModuleSummary: summarizeModule(m),
		Steps:         m.Steps,
		Triggers:      m.Triggers,
		SafetyChecks:  m.SafetyChecks,
	}
	if d.Steps == nil {
		d.Steps = []types.StepDefinition{}
	}
	if d.Triggers == nil {
		d.Triggers = []string{}
	}
	if d.SafetyChecks == nil {
		d.SafetyChecks = []string{}
	}
	return d
}

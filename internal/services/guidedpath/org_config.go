package guidedpath

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rafiki-work/rafiki-backend/internal/data/repos"
	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"github.com/rafiki-work/rafiki-backend/internal/platform/apierr"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

type OrgProfilePatch struct {
	OrgPurpose      OptionalString  `json:"org_purpose"`
	Industry        OptionalString  `json:"industry"`
	WorkEnvironment OptionalString  `json:"work_environment"`
	BenefitsTags    OptionalStrings `json:"benefits_tags"`
}

type RoleProfileInput struct {
	RoleKey         string   `json:"role_key"`
	RoleFamily      *string  `json:"role_family"`
	SeniorityBand   *string  `json:"seniority_band"`
	WorkPattern     *string  `json:"work_pattern"`
	StressorProfile []string `json:"stressor_profile"`
}

type RoleProfilePatch struct {
	RoleFamily      OptionalString  `json:"role_family"`
	SeniorityBand   OptionalString  `json:"seniority_band"`
	WorkPattern     OptionalString  `json:"work_pattern"`
	StressorProfile OptionalStrings `json:"stressor_profile"`
}

// OrgConfigService manages the org and role facts that feed context packs.
type OrgConfigService interface {
	GetOrgProfile(dbc dbctx.Context) (*types.OrgProfile, error)
	UpdateOrgProfile(dbc dbctx.Context, patch OrgProfilePatch) (*types.OrgProfile, error)

	ListRoles(dbc dbctx.Context) ([]*types.RoleProfile, error)
	CreateRole(dbc dbctx.Context, in RoleProfileInput) (*types.RoleProfile, error)
	GetRole(dbc dbctx.Context, roleKey string) (*types.RoleProfile, error)
	UpdateRole(dbc dbctx.Context, roleKey string, patch RoleProfilePatch) (*types.RoleProfile, error)
	DeleteRole(dbc dbctx.Context, roleKey string) error
}

type orgConfigService struct {
	log   *logger.Logger
	orgs  repos.OrgProfileRepo
	roles repos.RoleProfileRepo
}

func NewOrgConfigService(baseLog *logger.Logger, orgs repos.OrgProfileRepo, roles repos.RoleProfileRepo) OrgConfigService {
	return &orgConfigService{
		log:   baseLog.With("service", "OrgConfigService"),
		orgs:  orgs,
		roles: roles,
	}
}

func (s *orgConfigService) GetOrgProfile(dbc dbctx.Context) (*types.OrgProfile, error) {
	id, err := requireIdentity(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	return s.ensureOrgProfile(dbc, id.OrgID)
}

func (s *orgConfigService) UpdateOrgProfile(dbc dbctx.Context, patch OrgProfilePatch) (*types.OrgProfile, error) {
	id, err := requireAdmin(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.ensureOrgProfile(dbc, id.OrgID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if patch.OrgPurpose.Set {
		updates["org_purpose"] = patch.OrgPurpose.update()
	}
	if patch.Industry.Set {
		updates["industry"] = patch.Industry.update()
	}
	if patch.WorkEnvironment.Set {
		updates["work_environment"] = patch.WorkEnvironment.update()
	}
	if patch.BenefitsTags.Set {
		updates["benefits_tags"] = datatypes.JSONSlice[string](patch.BenefitsTags.Value)
	}
	if err := s.orgs.UpdateFields(dbc, id.OrgID, updates); err != nil {
		return nil, fmt.Errorf("update org profile: %w", err)
	}
	return s.orgs.GetByOrgID(dbc, id.OrgID)
}

func (s *orgConfigService) ensureOrgProfile(dbc dbctx.Context, orgID uuid.UUID) (*types.OrgProfile, error) {
	p, err := s.orgs.GetByOrgID(dbc, orgID)
	if err != nil {
		return nil, fmt.Errorf("load org profile: %w", err)
	}
	if p != nil {
		return p, nil
	}
	p, err = s.orgs.Create(dbc, &types.OrgProfile{OrgID: orgID, BenefitsTags: []string{}})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return s.orgs.GetByOrgID(dbc, orgID)
	}
	if err != nil {
		return nil, fmt.Errorf("create org profile: %w", err)
	}
	s.log.Info("org profile created", "org_id", orgID)
	return p, nil
}

func (s *orgConfigService) ListRoles(dbc dbctx.Context) ([]*types.RoleProfile, error) {
	id, err := requireIdentity(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.roles.ListByOrg(dbc, id.OrgID)
	if err != nil {
		return nil, fmt.Errorf("list role profiles: %w", err)
	}
	return rows, nil
}

func (s *orgConfigService) CreateRole(dbc dbctx.Context, in RoleProfileInput) (*types.RoleProfile, error) {
	id, err := requireAdmin(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	key := strings.TrimSpace(in.RoleKey)
	if key == "" {
		return nil, apierr.Validationf("role_key is required")
	}
	existing, err := s.roles.GetByKey(dbc, id.OrgID, key)
	if err != nil {
		return nil, fmt.Errorf("load role profile: %w", err)
	}
	if existing != nil {
		return nil, apierr.Conflict(ErrRoleProfileExists)
	}
	row := &types.RoleProfile{
		OrgID:           id.OrgID,
		RoleKey:         key,
		RoleFamily:      in.RoleFamily,
		SeniorityBand:   in.SeniorityBand,
		WorkPattern:     in.WorkPattern,
		StressorProfile: nonNilStrings(in.StressorProfile),
	}
	if _, err := s.roles.Create(dbc, row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Conflict(ErrRoleProfileExists)
		}
		return nil, fmt.Errorf("create role profile: %w", err)
	}
	s.log.Info("role profile created", "org_id", id.OrgID, "role_key", key)
	return row, nil
}

func (s *orgConfigService) GetRole(dbc dbctx.Context, roleKey string) (*types.RoleProfile, error) {
	id, err := requireIdentity(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.roles.GetByKey(dbc, id.OrgID, strings.TrimSpace(roleKey))
	if err != nil {
		return nil, fmt.Errorf("load role profile: %w", err)
	}
	if row == nil {
		return nil, apierr.NotFound(ErrRoleProfileNotFound)
	}
	return row, nil
}

func (s *orgConfigService) UpdateRole(dbc dbctx.Context, roleKey string, patch RoleProfilePatch) (*types.RoleProfile, error) {
	id, err := requireAdmin(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	key := strings.TrimSpace(roleKey)
	row, err := s.roles.GetByKey(dbc, id.OrgID, key)
	if err != nil {
		return nil, fmt.Errorf("load role profile: %w", err)
	}
	if row == nil {
		return nil, apierr.NotFound(ErrRoleProfileNotFound)
	}
	updates := map[string]interface{}{}
	if patch.RoleFamily.Set {
		updates["role_family"] = patch.RoleFamily.update()
	}
	if patch.SeniorityBand.Set {
		updates["seniority_band"] = patch.SeniorityBand.update()
	}
	if patch.WorkPattern.Set {
		updates["work_pattern"] = patch.WorkPattern.update()
	}
	if patch.StressorProfile.Set {
		updates["stressor_profile"] = datatypes.JSONSlice[string](patch.StressorProfile.Value)
	}
	if err := s.roles.UpdateFields(dbc, id.OrgID, key, updates); err != nil {
		return nil, fmt.Errorf("update role profile: %w", err)
	}
	return s.roles.GetByKey(dbc, id.OrgID, key)
}

func (s *orgConfigService) DeleteRole(dbc dbctx.Context, roleKey string) error {
	id, err := requireAdmin(dbc.Ctx)
	if err != nil {
		return err
	}
	ok, err := s.roles.Delete(dbc, id.OrgID, strings.TrimSpace(roleKey))
	if err != nil {
		return fmt.Errorf("delete role profile: %w", err)
	}
	if !ok {
		return apierr.NotFound(ErrRoleProfileNotFound)
	}
	s.log.Info("role profile deleted", "org_id", id.OrgID, "role_key", roleKey)
	return nil
}

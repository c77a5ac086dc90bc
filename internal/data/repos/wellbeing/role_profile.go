package wellbeing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

type RoleProfileRepo interface {
	Create(dbc dbctx.Context, row *types.RoleProfile) (*types.RoleProfile, error)
	GetByKey(dbc dbctx.Context, orgID uuid.UUID, roleKey string) (*types.RoleProfile, error)
	ListByOrg(dbc dbctx.Context, orgID uuid.UUID) ([]*types.RoleProfile, error)
	UpdateFields(dbc dbctx.Context, orgID uuid.UUID, roleKey string, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, orgID uuid.UUID, roleKey string) (bool, error)
}

type roleProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoleProfileRepo(db *gorm.DB, baseLog *logger.Logger) RoleProfileRepo {
	return &roleProfileRepo{db: db, log: baseLog.With("repo", "RoleProfileRepo")}
}

func (r *roleProfileRepo) Create(dbc dbctx.Context, row *types.RoleProfile) (*types.RoleProfile, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *roleProfileRepo) GetByKey(dbc dbctx.Context, orgID uuid.UUID, roleKey string) (*types.RoleProfile, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if roleKey == "" {
		return nil, nil
	}
	var out []*types.RoleProfile
	if err := t.WithContext(dbc.Ctx).
		Where("org_id = ? AND role_key = ?", orgID, roleKey).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *roleProfileRepo) ListByOrg(dbc dbctx.Context, orgID uuid.UUID) ([]*types.RoleProfile, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.RoleProfile
	if err := t.WithContext(dbc.Ctx).Where("org_id = ?", orgID).Order("role_key ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *roleProfileRepo) UpdateFields(dbc dbctx.Context, orgID uuid.UUID, roleKey string, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.RoleProfile{}).
		Where("org_id = ? AND role_key = ?", orgID, roleKey).
		Updates(updates).Error
}

func (r *roleProfileRepo) Delete(dbc dbctx.Context, orgID uuid.UUID, roleKey string) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Where("org_id = ? AND role_key = ?", orgID, roleKey).
		Delete(&types.RoleProfile{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

package wellbeing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

type OrgProfileRepo interface {
	Create(dbc dbctx.Context, row *types.OrgProfile) (*types.OrgProfile, error)
	GetByOrgID(dbc dbctx.Context, orgID uuid.UUID) (*types.OrgProfile, error)
	UpdateFields(dbc dbctx.Context, orgID uuid.UUID, updates map[string]interface{}) error
}

type orgProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrgProfileRepo(db *gorm.DB, baseLog *logger.Logger) OrgProfileRepo {
	return &orgProfileRepo{db: db, log: baseLog.With("repo", "OrgProfileRepo")}
}

func (r *orgProfileRepo) Create(dbc dbctx.Context, row *types.OrgProfile) (*types.OrgProfile, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *orgProfileRepo) GetByOrgID(dbc dbctx.Context, orgID uuid.UUID) (*types.OrgProfile, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.OrgProfile
	if err := t.WithContext(dbc.Ctx).Where("org_id = ?", orgID).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *orgProfileRepo) UpdateFields(dbc dbctx.Context, orgID uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.OrgProfile{}).
		Where("org_id = ?", orgID).
		Updates(updates).Error
}

package wellbeing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

type GuidedModuleRepo interface {
	Create(dbc dbctx.Context, rows []*types.GuidedModule) ([]*types.GuidedModule, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.GuidedModule, error)
	GetGlobalByName(dbc dbctx.Context, name string) (*types.GuidedModule, error)

	// ListVisible returns org-owned and global modules, newest first.
	ListVisible(dbc dbctx.Context, orgID uuid.UUID, activeOnly bool) ([]*types.GuidedModule, error)
	// ListCandidates returns active visible modules in stable creation order.
	ListCandidates(dbc dbctx.Context, orgID uuid.UUID) ([]*types.GuidedModule, error)

	Update(dbc dbctx.Context, row *types.GuidedModule) error
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type guidedModuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGuidedModuleRepo(db *gorm.DB, baseLog *logger.Logger) GuidedModuleRepo {
	return &guidedModuleRepo{db: db, log: baseLog.With("repo", "GuidedModuleRepo")}
}

func (r *guidedModuleRepo) Create(dbc dbctx.Context, rows []*types.GuidedModule) ([]*types.GuidedModule, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.GuidedModule{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *guidedModuleRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.GuidedModule, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.GuidedModule
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *guidedModuleRepo) GetGlobalByName(dbc dbctx.Context, name string) (*types.GuidedModule, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.GuidedModule
	if err := t.WithContext(dbc.Ctx).
		Where("org_id IS NULL AND name = ?", name).
		Order("created_at ASC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *guidedModuleRepo) ListVisible(dbc dbctx.Context, orgID uuid.UUID, activeOnly bool) ([]*types.GuidedModule, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).Where("(org_id = ? OR org_id IS NULL)", orgID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []*types.GuidedModule
	if err := q.Order("created_at DESC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *guidedModuleRepo) ListCandidates(dbc dbctx.Context, orgID uuid.UUID) ([]*types.GuidedModule, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.GuidedModule
	if err := t.WithContext(dbc.Ctx).
		Where("(org_id = ? OR org_id IS NULL) AND is_active = ?", orgID, true).
		Order("created_at ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *guidedModuleRepo) Update(dbc dbctx.Context, row *types.GuidedModule) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Save(row).Error
}

func (r *guidedModuleRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.GuidedModule{}).
		Where("id = ?", id).
		Updates(updates).Error
}

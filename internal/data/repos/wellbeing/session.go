package wellbeing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

type GuidedPathSessionRepo interface {
	Create(dbc dbctx.Context, row *types.GuidedPathSession) (*types.GuidedPathSession, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.GuidedPathSession, error)
	// GetOwned returns the session only when it belongs to userID within orgID.
	GetOwned(dbc dbctx.Context, id, userID, orgID uuid.UUID) (*types.GuidedPathSession, error)

	// UpdateIfAt applies updates only while the session is in progress at
	// fromStep. It reports whether a row changed.
	UpdateIfAt(dbc dbctx.Context, id uuid.UUID, fromStep int, updates map[string]interface{}) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type guidedPathSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGuidedPathSessionRepo(db *gorm.DB, baseLog *logger.Logger) GuidedPathSessionRepo {
	return &guidedPathSessionRepo{db: db, log: baseLog.With("repo", "GuidedPathSessionRepo")}
}

func (r *guidedPathSessionRepo) Create(dbc dbctx.Context, row *types.GuidedPathSession) (*types.GuidedPathSession, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *guidedPathSessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.GuidedPathSession, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.GuidedPathSession
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *guidedPathSessionRepo) GetOwned(dbc dbctx.Context, id, userID, orgID uuid.UUID) (*types.GuidedPathSession, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.GuidedPathSession
	if err := t.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ? AND org_id = ?", id, userID, orgID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *guidedPathSessionRepo) UpdateIfAt(dbc dbctx.Context, id uuid.UUID, fromStep int, updates map[string]interface{}) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return false, nil
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.GuidedPathSession{}).
		Where("id = ? AND current_step = ? AND status = ?", id, fromStep, types.SessionInProgress).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *guidedPathSessionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.GuidedPathSession{}).
		Where("id = ?", id).
		Updates(updates).Error
}

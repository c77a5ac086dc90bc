package wellbeing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

type UserTopicMemoryRepo interface {
	Get(dbc dbctx.Context, userID uuid.UUID) (*types.UserTopicMemory, error)
	// Push prepends topic and keeps at most limit entries, newest first.
	Push(dbc dbctx.Context, userID, orgID uuid.UUID, topic string, limit int) error
}

type userTopicMemoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTopicMemoryRepo(db *gorm.DB, baseLog *logger.Logger) UserTopicMemoryRepo {
	return &userTopicMemoryRepo{db: db, log: baseLog.With("repo", "UserTopicMemoryRepo")}
}

func (r *userTopicMemoryRepo) Get(dbc dbctx.Context, userID uuid.UUID) (*types.UserTopicMemory, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserTopicMemory
	if err := t.WithContext(dbc.Ctx).Where("user_id = ?", userID).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *userTopicMemoryRepo) Push(dbc dbctx.Context, userID, orgID uuid.UUID, topic string, limit int) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	return t.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		var rows []*types.UserTopicMemory
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			Limit(1).
			Find(&rows).Error; err != nil {
			return err
		}
		topics := []string{topic}
		if len(rows) > 0 {
			topics = append(topics, rows[0].Topics...)
		}
		if len(topics) > limit {
			topics = topics[:limit]
		}
		row := &types.UserTopicMemory{
			UserID:    userID,
			OrgID:     orgID,
			Topics:    topics,
			UpdatedAt: time.Now().UTC(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"topics", "updated_at"}),
		}).Create(row).Error
	})
}

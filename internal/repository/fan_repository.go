package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/yatube-feed/internal/model"
)

// FanRepository 粉丝冗余表，由 FanReplicator 异步维护
type FanRepository interface {
	Create(ctx context.Context, authorID, fanID int64) error
	Delete(ctx context.Context, authorID, fanID int64) error
	ListFans(ctx context.Context, authorID int64, offset, limit int) ([]*model.Fan, error)
	Count(ctx context.Context, authorID int64) (int64, error)
}

type fanRepository struct{ db *gorm.DB }

func NewFanRepository(db *gorm.DB) FanRepository { return &fanRepository{db: db} }

func (r *fanRepository) Create(ctx context.Context, authorID, fanID int64) error {
	f := &model.Fan{ID: uuid.New().String(), AuthorID: authorID, FanID: fanID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error
}

func (r *fanRepository) Delete(ctx context.Context, authorID, fanID int64) error {
	return r.db.WithContext(ctx).Where("author_id = ? AND fan_id = ?", authorID, fanID).Delete(&model.Fan{}).Error
}

func (r *fanRepository) ListFans(ctx context.Context, authorID int64, offset, limit int) ([]*model.Fan, error) {
	var res []*model.Fan
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, fan_id DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *fanRepository) Count(ctx context.Context, authorID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Fan{}).Where("author_id = ?", authorID).Count(&cnt).Error
	return cnt, err
}

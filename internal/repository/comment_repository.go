package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/yatube-feed/internal/model"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	// ListByPost 按发表时间正序
	ListByPost(ctx context.Context, postID int64) ([]*model.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Omit("Post", "Author").Create(comment).Error
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int64) ([]*model.Comment, error) {
	var res []*model.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at, id").
		Find(&res).Error
	return res, err
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/yatube-feed/internal/model"
)

// PostOrder 所有帖子列表的统一排序，id 自增保证同一时刻按插入顺序倒序
const PostOrder = "posts.created_at DESC, posts.id DESC"

// PostFilter 列表过滤条件，零值字段表示不过滤
type PostFilter struct {
	AuthorID int64
	GroupID  int64
	// FollowedBy 只保留该用户关注的作者发布的帖子
	FollowedBy int64
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	// Delete 删除帖子及其评论
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context, filter PostFilter) (int64, error)
	List(ctx context.Context, filter PostFilter, offset, limit int) ([]*model.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit("Author", "Group").Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Where("id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, notFound(err, "post %d not found", id)
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{ID: post.ID}).
		Select("text", "group_id", "image_ref", "updated_at").
		Updates(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "post %d not found", id)
		}
		return nil
	})
}

func (r *postRepository) Count(ctx context.Context, filter PostFilter) (int64, error) {
	var cnt int64
	err := r.filtered(ctx, filter).Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := r.filtered(ctx, filter).
		Preload("Author").
		Preload("Group").
		Order(PostOrder).
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *postRepository) filtered(ctx context.Context, filter PostFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Post{})
	if filter.AuthorID != 0 {
		q = q.Where("posts.author_id = ?", filter.AuthorID)
	}
	if filter.GroupID != 0 {
		q = q.Where("posts.group_id = ?", filter.GroupID)
	}
	if filter.FollowedBy != 0 {
		authors := r.db.WithContext(ctx).
			Model(&model.Follow{}).
			Select("author_id").
			Where("user_id = ?", filter.FollowedBy)
		q = q.Where("posts.author_id IN (?)", authors)
	}
	return q
}

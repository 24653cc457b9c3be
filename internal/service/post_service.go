package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/yatube-feed/internal/apperr"
	"github.com/d60-Lab/yatube-feed/internal/model"
	"github.com/d60-Lab/yatube-feed/internal/repository"
)

// PostInput 创建/编辑帖子的表单，图片只是一个不透明的引用
type PostInput struct {
	Text     string `json:"text" validate:"required,max=10000"`
	GroupID  *int64 `json:"group_id" validate:"omitempty,gt=0"`
	ImageRef string `json:"image_ref" validate:"omitempty,max=255"`
}

type CommentInput struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type GroupInput struct {
	Slug        string `json:"slug" validate:"required,max=64,slug"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
}

// PostDetail 帖子详情页数据
type PostDetail struct {
	Post        *model.Post      `json:"post"`
	Comments    []*model.Comment `json:"comments"`
	AuthorPosts int64            `json:"author_posts_count"`
}

// PostService 帖子、评论与分组的写操作；帖子写入不会失效首页缓存
type PostService interface {
	Create(ctx context.Context, viewer model.Viewer, in PostInput) (*model.Post, error)
	Update(ctx context.Context, viewer model.Viewer, postID int64, in PostInput) (*model.Post, error)
	Delete(ctx context.Context, viewer model.Viewer, postID int64) error
	Detail(ctx context.Context, postID int64) (*PostDetail, error)
	AddComment(ctx context.Context, viewer model.Viewer, postID int64, in CommentInput) (*model.Comment, error)
	ListGroups(ctx context.Context) ([]*model.Group, error)
	CreateGroup(ctx context.Context, viewer model.Viewer, in GroupInput) (*model.Group, error)
}

type postService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	commentRepo repository.CommentRepository
	validate    *validator.Validate
}

func NewPostService(postRepo repository.PostRepository, groupRepo repository.GroupRepository, commentRepo repository.CommentRepository) PostService {
	return &postService{postRepo: postRepo, groupRepo: groupRepo, commentRepo: commentRepo, validate: NewValidator()}
}

func (s *postService) Create(ctx context.Context, viewer model.Viewer, in PostInput) (*model.Post, error) {
	if !viewer.IsAuthenticated() {
		return nil, apperr.Unauthorized("login required to publish")
	}
	if err := s.checkPostInput(ctx, &in); err != nil {
		return nil, err
	}
	post := &model.Post{AuthorID: viewer.UserID, Text: in.Text, GroupID: in.GroupID, ImageRef: in.ImageRef}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update 非作者编辑返回 Forbidden，由接口层引导到只读详情；校验失败时不落库
func (s *postService) Update(ctx context.Context, viewer model.Viewer, postID int64, in PostInput) (*model.Post, error) {
	if !viewer.IsAuthenticated() {
		return nil, apperr.Unauthorized("login required to edit")
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsAuthoredBy(viewer.UserID) {
		return nil, apperr.Forbidden("only the author can edit this post")
	}
	if err := s.checkPostInput(ctx, &in); err != nil {
		return nil, err
	}
	post.Text = in.Text
	post.GroupID = in.GroupID
	post.ImageRef = in.ImageRef
	post.UpdatedAt = time.Now().UTC()
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

func (s *postService) Delete(ctx context.Context, viewer model.Viewer, postID int64) error {
	if !viewer.IsAuthenticated() {
		return apperr.Unauthorized("login required to delete")
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !post.IsAuthoredBy(viewer.UserID) && !viewer.IsStaff {
		return apperr.Forbidden("only the author can delete this post")
	}
	return s.postRepo.Delete(ctx, postID)
}

func (s *postService) Detail(ctx context.Context, postID int64) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	cnt, err := s.postRepo.Count(ctx, repository.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments, AuthorPosts: cnt}, nil
}

func (s *postService) AddComment(ctx context.Context, viewer model.Viewer, postID int64, in CommentInput) (*model.Comment, error) {
	if !viewer.IsAuthenticated() {
		return nil, apperr.Unauthorized("login required to comment")
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	in.Text = strings.TrimSpace(in.Text)
	if err := s.check(in); err != nil {
		return nil, err
	}
	c := &model.Comment{PostID: postID, AuthorID: viewer.UserID, Text: in.Text}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *postService) ListGroups(ctx context.Context) ([]*model.Group, error) {
	return s.groupRepo.List(ctx)
}

func (s *postService) CreateGroup(ctx context.Context, viewer model.Viewer, in GroupInput) (*model.Group, error) {
	if !viewer.IsAuthenticated() {
		return nil, apperr.Unauthorized("login required")
	}
	if !viewer.IsStaff {
		return nil, apperr.Forbidden("only staff can create groups")
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	if _, err := s.groupRepo.GetBySlug(ctx, in.Slug); err == nil {
		return nil, apperr.Invalid("invalid group", map[string]string{"slug": "slug already taken"})
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	g := &model.Group{Slug: in.Slug, Title: in.Title, Description: in.Description}
	if err := s.groupRepo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *postService) checkPostInput(ctx context.Context, in *PostInput) error {
	in.Text = strings.TrimSpace(in.Text)
	in.ImageRef = strings.TrimSpace(in.ImageRef)
	if err := s.check(*in); err != nil {
		return err
	}
	if in.GroupID != nil {
		if _, err := s.groupRepo.GetByID(ctx, *in.GroupID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.Invalid("invalid post", map[string]string{"group_id": "unknown group"})
			}
			return err
		}
	}
	return nil
}

func (s *postService) check(v interface{}) error {
	if err := s.validate.Struct(v); err != nil {
		return ValidationError(err)
	}
	return nil
}

package feed

import (
	"context"
	"fmt"

	"github.com/d60-Lab/yatube-feed/internal/apperr"
	"github.com/d60-Lab/yatube-feed/internal/model"
	"github.com/d60-Lab/yatube-feed/internal/repository"
	"github.com/d60-Lab/yatube-feed/pkg/pagination"
)

// Resolution 上下文解析结果。Posts 是惰性数据源，分页时才查询
type Resolution struct {
	Context   ListingContext
	Posts     pagination.Source[*model.Post]
	Group     *model.Group
	Author    *model.User
	Following bool
}

// Resolver 只读：根据上下文和访问者计算可见帖子序列
type Resolver struct {
	users   repository.UserRepository
	groups  repository.GroupRepository
	posts   repository.PostRepository
	follows repository.FollowRepository
}

func NewResolver(users repository.UserRepository, groups repository.GroupRepository, posts repository.PostRepository, follows repository.FollowRepository) *Resolver {
	return &Resolver{users: users, groups: groups, posts: posts, follows: follows}
}

func (r *Resolver) Resolve(ctx context.Context, lc ListingContext, viewer model.Viewer) (*Resolution, error) {
	res := &Resolution{Context: lc}
	switch lc.Kind {
	case KindAll:
		res.Posts = r.source(repository.PostFilter{})

	case KindByGroup:
		group, err := r.groups.GetBySlug(ctx, lc.Slug)
		if err != nil {
			return nil, err
		}
		res.Group = group
		res.Posts = r.source(repository.PostFilter{GroupID: group.ID})

	case KindByAuthor:
		author, err := r.users.GetByUsername(ctx, lc.Username)
		if err != nil {
			return nil, err
		}
		res.Author = author
		res.Posts = r.source(repository.PostFilter{AuthorID: author.ID})
		if viewer.IsAuthenticated() && viewer.UserID != author.ID {
			following, err := r.follows.Exists(ctx, viewer.UserID, author.ID)
			if err != nil {
				return nil, err
			}
			res.Following = following
		}

	case KindFollowedBy:
		if !viewer.IsAuthenticated() || lc.ViewerID != viewer.UserID {
			return nil, apperr.Unauthorized("login required to read the follow feed")
		}
		res.Posts = r.source(repository.PostFilter{FollowedBy: viewer.UserID})

	default:
		return nil, apperr.Invalid(fmt.Sprintf("unknown listing context %q", lc.Kind), nil)
	}
	return res, nil
}

func (r *Resolver) source(filter repository.PostFilter) pagination.Source[*model.Post] {
	return &postSource{repo: r.posts, filter: filter}
}

// postSource 把带过滤条件的帖子查询适配为分页数据源
type postSource struct {
	repo   repository.PostRepository
	filter repository.PostFilter
}

func (s *postSource) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, s.filter)
}

func (s *postSource) Slice(ctx context.Context, offset, limit int) ([]*model.Post, error) {
	return s.repo.List(ctx, s.filter, offset, limit)
}

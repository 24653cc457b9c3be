package service

import (
	"context"

	"github.com/d60-Lab/yatube-feed/internal/apperr"
	"github.com/d60-Lab/yatube-feed/internal/model"
	"github.com/d60-Lab/yatube-feed/internal/repository"
)

var (
	ErrFollowSelf = apperr.Invalid("cannot follow self", map[string]string{"author": "cannot follow self"})
)

// RelationshipService 关系链服务；调用方负责确认 userID 即当前登录用户
type RelationshipService interface {
	Follow(ctx context.Context, userID, authorID int64) error
	Unfollow(ctx context.Context, userID, authorID int64) error
	IsFollowing(ctx context.Context, userID, authorID int64) (bool, error)
	FollowedAuthors(ctx context.Context, userID int64) ([]int64, error)
	ListFollowing(ctx context.Context, userID int64, page, pageSize int) ([]*model.User, error)
	ListFollowers(ctx context.Context, authorID int64, page, pageSize int) ([]*model.User, error)
	FollowerCount(ctx context.Context, authorID int64) (int64, error)
}

type relationshipService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	fanRepo    repository.FanRepository
	replicator *FanReplicator
}

func NewRelationshipService(userRepo repository.UserRepository, followRepo repository.FollowRepository, fanRepo repository.FanRepository, replicator *FanReplicator) RelationshipService {
	return &relationshipService{userRepo: userRepo, followRepo: followRepo, fanRepo: fanRepo, replicator: replicator}
}

func (s *relationshipService) Follow(ctx context.Context, userID, authorID int64) error {
	if userID == authorID {
		return ErrFollowSelf
	}
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return err
	}
	if err := s.followRepo.Create(ctx, userID, authorID); err != nil {
		return err
	}
	if s.replicator != nil {
		s.replicator.EnqueueAdd(authorID, userID)
	}
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, userID, authorID int64) error {
	if err := s.followRepo.Delete(ctx, userID, authorID); err != nil {
		return err
	}
	if s.replicator != nil {
		s.replicator.EnqueueRemove(authorID, userID)
	}
	return nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	if userID == 0 || userID == authorID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, userID, authorID)
}

func (s *relationshipService) FollowedAuthors(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := s.followRepo.ListAuthorIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID int64, page, pageSize int) ([]*model.User, error) {
	offset, limit := window(page, pageSize)
	items, err := s.followRepo.ListFollowings(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.AuthorID
	}
	return s.userRepo.ListByIDs(ctx, ids)
}

// ListFollowers 读粉丝冗余表，关注后需等待复制落地才可见
func (s *relationshipService) ListFollowers(ctx context.Context, authorID int64, page, pageSize int) ([]*model.User, error) {
	offset, limit := window(page, pageSize)
	items, err := s.fanRepo.ListFans(ctx, authorID, offset, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.FanID
	}
	return s.userRepo.ListByIDs(ctx, ids)
}

func (s *relationshipService) FollowerCount(ctx context.Context, authorID int64) (int64, error) {
	return s.fanRepo.Count(ctx, authorID)
}

const (
	DefaultRelationPageSize = 10
	MaxRelationPageSize     = 100
)

// NormalizePage 关注/粉丝列表的分页参数：页码至少为 1，每页数量缺省 10、上限 100
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultRelationPageSize
	}
	if pageSize > MaxRelationPageSize {
		pageSize = MaxRelationPageSize
	}
	return page, pageSize
}

func window(page, pageSize int) (offset, limit int) {
	page, pageSize = NormalizePage(page, pageSize)
	return (page - 1) * pageSize, pageSize
}

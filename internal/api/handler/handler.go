package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube-feed/internal/apperr"
	"github.com/d60-Lab/yatube-feed/internal/feed"
	"github.com/d60-Lab/yatube-feed/internal/repository"
	"github.com/d60-Lab/yatube-feed/internal/service"
)

// Handler 聚合各业务服务的 HTTP 入口
type Handler struct {
	feedService feed.Service
	postService service.PostService
	relService  service.RelationshipService
	authService service.AuthService
	userRepo    repository.UserRepository
}

func New(feedService feed.Service, postService service.PostService, relService service.RelationshipService, authService service.AuthService, userRepo repository.UserRepository) *Handler {
	return &Handler{
		feedService: feedService,
		postService: postService,
		relService:  relService,
		authService: authService,
		userRepo:    userRepo,
	}
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound("%s %q not found", name, c.Param(name))
	}
	return id, nil
}

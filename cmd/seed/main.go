package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/yatube-feed/config"
	"github.com/d60-Lab/yatube-feed/internal/apperr"
	"github.com/d60-Lab/yatube-feed/internal/model"
	"github.com/d60-Lab/yatube-feed/internal/repository"
	"github.com/d60-Lab/yatube-feed/internal/service"
	"github.com/d60-Lab/yatube-feed/pkg/auth"
	"github.com/d60-Lab/yatube-feed/pkg/database"
	"github.com/d60-Lab/yatube-feed/pkg/logger"
)

// seed 写入一组演示数据：管理员、若干作者、分组、帖子与关注关系。可重复执行
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	defer database.Close(db)

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	authSvc := service.NewAuthService(userRepo, auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expire))
	fanRepo := repository.NewFanRepository(db)
	replicator := service.NewFanReplicator(fanRepo, 0)
	stopReplicator := replicator.Start(1)
	relSvc := service.NewRelationshipService(userRepo, repository.NewFollowRepository(db), fanRepo, replicator)

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "yatube-demo"
	}

	admin := ensureUser(ctx, authSvc, userRepo, "admin", "Site Admin", password)
	if !admin.IsStaff {
		if err := db.Model(admin).Update("is_staff", true).Error; err != nil {
			logger.Fatal("promote admin failed", zap.Error(err))
		}
	}

	names := []string{"leo", "anna", "ivan", "maria", "oleg"}
	authors := make([]*model.User, 0, len(names))
	for _, name := range names {
		authors = append(authors, ensureUser(ctx, authSvc, userRepo, name, "", password))
	}

	groups := []*model.Group{
		{Slug: "cats", Title: "Cats", Description: "Everything about cats"},
		{Slug: "travel", Title: "Travel", Description: "Notes from the road"},
		{Slug: "empty", Title: "Empty", Description: "A group without posts"},
	}
	for i, g := range groups {
		existing, err := groupRepo.GetBySlug(ctx, g.Slug)
		if err == nil {
			groups[i] = existing
			continue
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			logger.Fatal("lookup group failed", zap.Error(err))
		}
		if err := groupRepo.Create(ctx, g); err != nil {
			logger.Fatal("create group failed", zap.String("slug", g.Slug), zap.Error(err))
		}
	}

	existing, err := postRepo.Count(ctx, repository.PostFilter{})
	if err != nil {
		logger.Fatal("count posts failed", zap.Error(err))
	}
	if existing == 0 {
		base := time.Now().UTC().Add(-48 * time.Hour)
		n := 0
		for i, author := range authors {
			for j := 0; j < 7; j++ {
				p := &model.Post{
					AuthorID:  author.ID,
					Text:      fmt.Sprintf("Post #%d by %s", j+1, author.Username),
					CreatedAt: base.Add(time.Duration(n) * 13 * time.Minute),
				}
				if g := groups[(i+j)%2]; j%3 != 0 {
					gid := g.ID
					p.GroupID = &gid
				}
				if err := postRepo.Create(ctx, p); err != nil {
					logger.Fatal("create post failed", zap.Error(err))
				}
				n++
			}
		}
		logger.Info("posts created", zap.Int("count", n))
	}

	// 每个作者关注下一位作者，admin 关注前两位
	for i, author := range authors {
		next := authors[(i+1)%len(authors)]
		if err := relSvc.Follow(ctx, author.ID, next.ID); err != nil {
			logger.Warn("follow failed", zap.String("user", author.Username), zap.Error(err))
		}
	}
	for _, author := range authors[:2] {
		if err := relSvc.Follow(ctx, admin.ID, author.ID); err != nil {
			logger.Warn("follow failed", zap.String("user", admin.Username), zap.Error(err))
		}
	}
	if err := stopReplicator(ctx); err != nil {
		logger.Warn("replicator drain incomplete", zap.Error(err))
	}
	logger.Info("seed complete", zap.Int("authors", len(authors)), zap.Int("groups", len(groups)))
}

func ensureUser(ctx context.Context, authSvc service.AuthService, users repository.UserRepository, username, display, password string) *model.User {
	u, err := users.GetByUsername(ctx, username)
	if err == nil {
		return u
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		logger.Fatal("lookup user failed", zap.Error(err))
	}
	u, err = authSvc.Register(ctx, service.RegisterInput{Username: username, DisplayName: display, Password: password})
	if err != nil {
		logger.Fatal("register failed", zap.String("username", username), zap.Error(err))
	}
	return u
}

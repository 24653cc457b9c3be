package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube-feed/internal/model"
	"github.com/d60-Lab/yatube-feed/internal/repository"
	"github.com/d60-Lab/yatube-feed/pkg/database"
)

type repos struct {
	db       *gorm.DB
	users    repository.UserRepository
	groups   repository.GroupRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	follows  repository.FollowRepository
	fans     repository.FanRepository
}

func setupRepos(t *testing.T) *repos {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return &repos{
		db:       db,
		users:    repository.NewUserRepository(db),
		groups:   repository.NewGroupRepository(db),
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
		follows:  repository.NewFollowRepository(db),
		fans:     repository.NewFanRepository(db),
	}
}

func (r *repos) user(t *testing.T, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username}
	require.NoError(t, r.users.Create(context.Background(), u))
	return u
}

func (r *repos) post(t *testing.T, author *model.User, at time.Time) *model.Post {
	t.Helper()
	p := &model.Post{AuthorID: author.ID, Text: "hello from " + author.Username, CreatedAt: at}
	require.NoError(t, r.posts.Create(context.Background(), p))
	return p
}

func viewerOf(u *model.User) model.Viewer { return model.Viewer{UserID: u.ID} }

package feed

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

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	users    repository.UserRepository
	groups   repository.GroupRepository
	posts    repository.PostRepository
	follows  repository.FollowRepository
	resolver *Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	f := &fixture{
		db:      db,
		users:   repository.NewUserRepository(db),
		groups:  repository.NewGroupRepository(db),
		posts:   repository.NewPostRepository(db),
		follows: repository.NewFollowRepository(db),
	}
	f.resolver = NewResolver(f.users, f.groups, f.posts, f.follows)
	return f
}

func (f *fixture) user(t *testing.T, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) group(t *testing.T, slug string) *model.Group {
	t.Helper()
	g := &model.Group{Slug: slug, Title: slug}
	require.NoError(t, f.groups.Create(context.Background(), g))
	return g
}

func (f *fixture) post(t *testing.T, author *model.User, group *model.Group, at time.Time) *model.Post {
	t.Helper()
	p := &model.Post{AuthorID: author.ID, Text: "text", CreatedAt: at}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, f.posts.Create(context.Background(), p))
	return p
}

func (f *fixture) follow(t *testing.T, user, author *model.User) {
	t.Helper()
	require.NoError(t, f.follows.Create(context.Background(), user.ID, author.ID))
}

func ids(posts []*model.Post) []int64 {
	out := make([]int64, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func viewer(u *model.User) model.Viewer { return model.Viewer{UserID: u.ID} }

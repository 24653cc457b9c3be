package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube-feed/internal/model"
	"github.com/d60-Lab/yatube-feed/pkg/database"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func setupDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seedUser(t testing.TB, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, DisplayName: username}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedPost(t testing.TB, db *gorm.DB, author *model.User, group *model.Group, at time.Time) *model.Post {
	t.Helper()
	p := &model.Post{AuthorID: author.ID, Text: fmt.Sprintf("post by %s at %s", author.Username, at.Format(time.RFC3339)), CreatedAt: at}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), p))
	return p
}

func postIDs(posts []*model.Post) []int64 {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

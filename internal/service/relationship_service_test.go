package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/yatube-feed/internal/apperr"
)

func TestRelationshipService_FollowIsIdempotent(t *testing.T) {
	r := setupRepos(t)
	svc := NewRelationshipService(r.users, r.follows, r.fans, nil)
	ctx := context.Background()
	alice, bob := r.user(t, "alice"), r.user(t, "bob")

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))

	authors, err := svc.FollowedAuthors(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{bob.ID}, authors)

	ok, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRelationshipService_SelfFollowRejected(t *testing.T) {
	r := setupRepos(t)
	svc := NewRelationshipService(r.users, r.follows, r.fans, nil)
	ctx := context.Background()
	alice := r.user(t, "alice")

	err := svc.Follow(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrFollowSelf)
	assert.ErrorIs(t, err, apperr.ErrInvalidOperation)

	authors, err := svc.FollowedAuthors(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, authors)
}

func TestRelationshipService_UnknownAuthor(t *testing.T) {
	r := setupRepos(t)
	svc := NewRelationshipService(r.users, r.follows, r.fans, nil)
	alice := r.user(t, "alice")

	err := svc.Follow(context.Background(), alice.ID, alice.ID+100)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRelationshipService_UnfollowMissingEdge(t *testing.T) {
	r := setupRepos(t)
	svc := NewRelationshipService(r.users, r.follows, r.fans, nil)
	ctx := context.Background()
	alice, bob, carol := r.user(t, "alice"), r.user(t, "bob"), r.user(t, "carol")

	require.NoError(t, svc.Follow(ctx, alice.ID, carol.ID))
	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))

	authors, err := svc.FollowedAuthors(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{carol.ID}, authors)

	require.NoError(t, svc.Unfollow(ctx, alice.ID, carol.ID))
	ok, err := svc.IsFollowing(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRelationshipService_IsFollowingAnonymous(t *testing.T) {
	r := setupRepos(t)
	svc := NewRelationshipService(r.users, r.follows, r.fans, nil)
	bob := r.user(t, "bob")

	ok, err := svc.IsFollowing(context.Background(), 0, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRelationshipService_FollowersViaReplicator(t *testing.T) {
	r := setupRepos(t)
	replicator := NewFanReplicator(r.fans, 16)
	stop := replicator.Start(2)
	svc := NewRelationshipService(r.users, r.follows, r.fans, replicator)
	ctx := context.Background()
	alice, bob, carol := r.user(t, "alice"), r.user(t, "bob"), r.user(t, "carol")

	require.NoError(t, svc.Follow(ctx, bob.ID, alice.ID))
	require.NoError(t, svc.Follow(ctx, carol.ID, alice.ID))

	assert.Eventually(t, func() bool {
		n, err := svc.FollowerCount(ctx, alice.ID)
		return err == nil && n == 2
	}, 2*time.Second, 10*time.Millisecond)

	followers, err := svc.ListFollowers(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	following, err := svc.ListFollowing(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "alice", following[0].Username)

	require.NoError(t, svc.Unfollow(ctx, carol.ID, alice.ID))
	assert.Eventually(t, func() bool {
		n, err := svc.FollowerCount(ctx, alice.ID)
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, stop(ctx))
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, DefaultRelationPageSize},
		{-2, 5, 1, 5},
		{3, 50, 3, 50},
		{2, 1000000, 2, MaxRelationPageSize},
	}
	for _, tc := range cases {
		page, size := NormalizePage(tc.page, tc.size)
		assert.Equal(t, tc.wantPage, page)
		assert.Equal(t, tc.wantSize, size)
	}

	offset, limit := window(2, 1000000)
	assert.Equal(t, MaxRelationPageSize, offset)
	assert.Equal(t, MaxRelationPageSize, limit)
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rsharma/socialnet/internal/domain"
	"github.com/rsharma/socialnet/internal/service"
	"github.com/rsharma/socialnet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type graphFixture struct {
	profiles      *testutil.MemProfiles
	relationships *testutil.MemRelationships
	cache         *testutil.MemCache
	publisher     *testutil.MemPublisher
	graph         *service.GraphService
}

func newGraphFixture() *graphFixture {
	profiles := testutil.NewMemProfiles()
	relationships := testutil.NewMemRelationships(profiles)
	cache := testutil.NewMemCache()
	publisher := testutil.NewMemPublisher()
	return &graphFixture{
		profiles:      profiles,
		relationships: relationships,
		cache:         cache,
		publisher:     publisher,
		graph:         service.NewGraphService(profiles, relationships, cache, publisher, 10),
	}
}

func (f *graphFixture) addProfile(t *testing.T, username string) *domain.Profile {
	t.Helper()
	profile := testutil.NewProfileBuilder().WithUsername(username).Profile()
	require.NoError(t, f.profiles.Create(context.Background(), profile))
	return profile
}

func TestGraphService_Follow(t *testing.T) {
	ctx := context.Background()

	t.Run("creates edge and moves both counters", func(t *testing.T) {
		f := newGraphFixture()
		alice := f.addProfile(t, "alice")
		bob := f.addProfile(t, "bob")

		require.NoError(t, f.graph.Follow(ctx, bob.ID, alice.ID))

		followed, err := f.graph.CheckFollowStatus(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, followed)

		aliceNow, err := f.profiles.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		bobNow, err := f.profiles.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, aliceNow.FollowersCount)
		assert.Equal(t, 1, bobNow.FollowingCount)
	})

	t.Run("double follow is idempotent", func(t *testing.T) {
		f := newGraphFixture()
		alice := f.addProfile(t, "alice")
		bob := f.addProfile(t, "bob")

		require.NoError(t, f.graph.Follow(ctx, bob.ID, alice.ID))
		require.NoError(t, f.graph.Follow(ctx, bob.ID, alice.ID))

		aliceNow, err := f.profiles.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		bobNow, err := f.profiles.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, aliceNow.FollowersCount, "second follow must not double-count")
		assert.Equal(t, 1, bobNow.FollowingCount)
	})

	t.Run("self follow is rejected", func(t *testing.T) {
		f := newGraphFixture()
		alice := f.addProfile(t, "alice")

		err := f.graph.Follow(ctx, alice.ID, alice.ID)
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("missing followee fails with not found", func(t *testing.T) {
		f := newGraphFixture()
		bob := f.addProfile(t, "bob")

		err := f.graph.Follow(ctx, bob.ID, uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)

		followed, err := f.graph.CheckFollowStatus(ctx, bob.ID, uuid.New())
		require.NoError(t, err)
		assert.False(t, followed, "no edge may exist after a failed follow")
	})

	t.Run("invalidates both caches and publishes both events", func(t *testing.T) {
		f := newGraphFixture()
		alice := f.addProfile(t, "alice")
		bob := f.addProfile(t, "bob")
		require.NoError(t, f.cache.Write(ctx, alice))
		require.NoError(t, f.cache.Write(ctx, bob))

		require.NoError(t, f.graph.Follow(ctx, bob.ID, alice.ID))

		assert.False(t, f.cache.Contains(alice.ID))
		assert.False(t, f.cache.Contains(bob.ID))
		assert.Len(t, f.publisher.AnalyticsFor(alice.ID), 1)
		assert.Len(t, f.publisher.AnalyticsFor(bob.ID), 1)
	})

	t.Run("counter failure after edge creation is accepted", func(t *testing.T) {
		f := newGraphFixture()
		alice := f.addProfile(t, "alice")
		bob := f.addProfile(t, "bob")
		f.profiles.FailCounters = true

		require.NoError(t, f.graph.Follow(ctx, bob.ID, alice.ID), "edge write committed; counter failure must not surface")

		followed, err := f.graph.CheckFollowStatus(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, followed)
	})

	t.Run("publish failure must not surface", func(t *testing.T) {
		f := newGraphFixture()
		alice := f.addProfile(t, "alice")
		bob := f.addProfile(t, "bob")
		f.publisher.Fail = true

		require.NoError(t, f.graph.Follow(ctx, bob.ID, alice.ID))
	})

	t.Run("cache invalidation failure must not surface", func(t *testing.T) {
		f := newGraphFixture()
		alice := f.addProfile(t, "alice")
		bob := f.addProfile(t, "bob")
		f.cache.FailInvalidate = true

		require.NoError(t, f.graph.Follow(ctx, bob.ID, alice.ID))
	})
}

func TestGraphService_Unfollow(t *testing.T) {
	ctx := context.Background()

	t.Run("removes edge and decrements counters", func(t *testing.T) {
		f := newGraphFixture()
		alice := f.addProfile(t, "alice")
		bob := f.addProfile(t, "bob")
		require.NoError(t, f.graph.Follow(ctx, bob.ID, alice.ID))

		require.NoError(t, f.graph.Unfollow(ctx, bob.ID, alice.ID))

		followed, err := f.graph.CheckFollowStatus(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, followed)

		aliceNow, err := f.profiles.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		bobNow, err := f.profiles.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, aliceNow.FollowersCount)
		assert.Equal(t, 0, bobNow.FollowingCount)
	})

	t.Run("unfollow of never-followed pair is a no-op success", func(t *testing.T) {
		f := newGraphFixture()
		alice := f.addProfile(t, "alice")
		bob := f.addProfile(t, "bob")

		require.NoError(t, f.graph.Unfollow(ctx, bob.ID, alice.ID))

		aliceNow, err := f.profiles.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		bobNow, err := f.profiles.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, aliceNow.FollowersCount, "no counter movement without an actual edge delete")
		assert.Equal(t, 0, bobNow.FollowingCount)
		assert.Empty(t, f.publisher.Analytics, "no events without an actual edge delete")
	})
}

func TestGraphService_ListFollowers(t *testing.T) {
	ctx := context.Background()
	f := newGraphFixture()
	alice := f.addProfile(t, "alice")

	// 15 followers with strictly increasing edge timestamps.
	base := time.Now().UnixMilli() - 1000
	var followedAts []int64
	for i := 0; i < 15; i++ {
		follower := f.addProfile(t, testutil.NewProfileBuilder().Profile().Username)
		at := base + int64(i)
		created, err := f.relationships.Upsert(ctx, follower.ID, alice.ID, at)
		require.NoError(t, err)
		require.True(t, created)
		followedAts = append(followedAts, at)
	}

	t.Run("first page is newest 10", func(t *testing.T) {
		page, err := f.graph.ListFollowers(ctx, alice.ID, 0)
		require.NoError(t, err)
		require.Len(t, page, 10)
		assert.Equal(t, followedAts[14], page[0].FollowedAt)
		for i := 1; i < len(page); i++ {
			assert.Greater(t, page[i-1].FollowedAt, page[i].FollowedAt, "page must be ordered newest first")
		}
	})

	t.Run("cursor is exclusive", func(t *testing.T) {
		page, err := f.graph.ListFollowers(ctx, alice.ID, followedAts[5])
		require.NoError(t, err)
		require.Len(t, page, 5)
		for _, entry := range page {
			assert.Less(t, entry.FollowedAt, followedAts[5])
		}
	})

	t.Run("unknown profile fails with not found", func(t *testing.T) {
		_, err := f.graph.ListFollowers(ctx, uuid.New(), 0)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestGraphService_Recommend(t *testing.T) {
	ctx := context.Background()
	f := newGraphFixture()
	me := f.addProfile(t, "me_myself")

	popular := testutil.NewProfileBuilder().WithUsername("popular_one").WithCounts(500, 3).Profile()
	require.NoError(t, f.profiles.Create(ctx, popular))
	quiet := testutil.NewProfileBuilder().WithUsername("quiet_one").WithCounts(2, 0).Profile()
	require.NoError(t, f.profiles.Create(ctx, quiet))
	followed := f.addProfile(t, "already_followed")
	require.NoError(t, f.graph.Follow(ctx, me.ID, followed.ID))

	t.Run("excludes self and already-followed, orders by relevance", func(t *testing.T) {
		result, err := f.graph.Recommend(ctx, me.ID, "suggested_for_you", 10)
		require.NoError(t, err)
		assert.Equal(t, "sec_suggested", result.SectionID)
		assert.Equal(t, "Suggested for you", result.SectionTitle)

		require.Len(t, result.Users, 2)
		assert.Equal(t, popular.ID, result.Users[0].ID)
		assert.Equal(t, quiet.ID, result.Users[1].ID)
	})

	t.Run("unknown section fails", func(t *testing.T) {
		_, err := f.graph.Recommend(ctx, me.ID, "no_such_section", 10)
		assert.ErrorIs(t, err, domain.ErrSectionNotFound)
	})
}

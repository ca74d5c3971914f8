package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisMemberCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache, err := NewRedisMemberCache(context.Background(), mr.Addr(), "", 0, ttl, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func cachedMember(id string) domain.Member {
	m := newMember("M1")
	m.ID = id
	return m
}

func TestRedisMemberCache_MissReturnsNil(t *testing.T) {
	cache, _ := newRedisCache(t, time.Hour)

	member, err := cache.GetCachedMember(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, member)

	list, found, err := cache.GetCachedMemberList(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, list)
}

func TestRedisMemberCache_MemberKeyAndTTL(t *testing.T) {
	ctx := context.Background()
	cache, mr := newRedisCache(t, 10*time.Minute)

	member := cachedMember("abc123")
	member.Payments[0].MarkPaid(time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, cache.CacheMember(ctx, member))

	assert.True(t, mr.Exists("member:abc123"))
	assert.Equal(t, 10*time.Minute, mr.TTL("member:abc123"))

	got, err := cache.GetCachedMember(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "abc123", got.ID)
	assert.True(t, got.IsPaid("January"))

	require.NoError(t, cache.DeleteCachedMember(ctx, "abc123"))
	assert.False(t, mr.Exists("member:abc123"))
}

func TestRedisMemberCache_ListKeyAndTTL(t *testing.T) {
	ctx := context.Background()
	cache, mr := newRedisCache(t, 10*time.Minute)

	require.NoError(t, cache.CacheMemberList(ctx, []domain.Member{cachedMember("a"), cachedMember("b")}))

	assert.True(t, mr.Exists("members:all"))
	assert.Equal(t, maxListTTL, mr.TTL("members:all"))

	list, found, err := cache.GetCachedMemberList(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[1].ID)

	require.NoError(t, cache.InvalidateMemberList(ctx))
	assert.False(t, mr.Exists("members:all"))
}

func TestRedisMemberCache_EmptyListIsHit(t *testing.T) {
	ctx := context.Background()
	cache, _ := newRedisCache(t, time.Hour)

	require.NoError(t, cache.CacheMemberList(ctx, []domain.Member{}))

	list, found, err := cache.GetCachedMemberList(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, list)
}

func TestRedisMemberCache_TTLDefaults(t *testing.T) {
	ctx := context.Background()

	cache, mr := newRedisCache(t, 0)
	require.NoError(t, cache.CacheMember(ctx, cachedMember("x")))
	require.NoError(t, cache.CacheMemberList(ctx, nil))
	assert.Equal(t, defaultCacheTTL, mr.TTL("member:x"))
	assert.Equal(t, maxListTTL, mr.TTL("members:all"))

	short, mr := newRedisCache(t, 20*time.Second)
	require.NoError(t, short.CacheMemberList(ctx, nil))
	assert.Equal(t, 20*time.Second, mr.TTL("members:all"))
}

func TestRedisMemberCache_EntriesExpire(t *testing.T) {
	ctx := context.Background()
	cache, mr := newRedisCache(t, 10*time.Minute)

	require.NoError(t, cache.CacheMember(ctx, cachedMember("x")))
	require.NoError(t, cache.CacheMemberList(ctx, []domain.Member{cachedMember("x")}))

	mr.FastForward(2 * time.Minute)

	_, found, err := cache.GetCachedMemberList(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	member, err := cache.GetCachedMember(ctx, "x")
	require.NoError(t, err)
	assert.NotNil(t, member)
}

func TestRedisMemberCache_CorruptValue(t *testing.T) {
	ctx := context.Background()
	cache, mr := newRedisCache(t, time.Hour)

	require.NoError(t, mr.Set("member:bad", "{not json"))
	require.NoError(t, mr.Set("members:all", "[{"))

	_, err := cache.GetCachedMember(ctx, "bad")
	assert.Error(t, err)

	_, found, err := cache.GetCachedMemberList(ctx)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestRedisMemberCache_ServerGone(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	cache, err := NewRedisMemberCache(ctx, mr.Addr(), "", 0, time.Hour, logger.NewNop())
	require.NoError(t, err)
	defer cache.Close()
	mr.Close()

	member, err := cache.GetCachedMember(ctx, "x")
	assert.Error(t, err)
	assert.Nil(t, member)
	assert.Error(t, cache.CacheMember(ctx, cachedMember("x")))
}

func TestNewRedisMemberCache_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cache, err := NewRedisMemberCache(context.Background(), addr, "", 0, time.Hour, logger.NewNop())
	assert.Error(t, err)
	assert.Nil(t, cache)
}

package repository

import (
	"context"
	"testing"
	"time"

	"applink/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRepo(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return &RedisRepository{client: client}, mr
}

func TestRedisRepository_CacheLink(t *testing.T) {
	repo, _ := newMiniRepo(t)
	ctx := context.Background()

	link := &model.Link{
		ID:          1,
		Slug:        "yt-demo",
		WebFallback: "https://www.youtube.com/watch?v=abc",
		IOSURL:      "youtube://watch?v=abc",
		Platform:    "youtube",
	}

	require.NoError(t, repo.CacheLink(ctx, link, LinkCacheTTL))

	got, err := repo.GetCachedLink(ctx, "yt-demo")
	require.NoError(t, err)
	assert.Equal(t, link.Slug, got.Slug)
	assert.Equal(t, link.IOSURL, got.IOSURL)
	assert.Equal(t, link.Platform, got.Platform)
}

func TestRedisRepository_GetCachedLink_Miss(t *testing.T) {
	repo, _ := newMiniRepo(t)

	_, err := repo.GetCachedLink(context.Background(), "missing")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestRedisRepository_InvalidateLink(t *testing.T) {
	repo, _ := newMiniRepo(t)
	ctx := context.Background()

	link := &model.Link{Slug: "yt-demo", WebFallback: "https://example.com"}
	require.NoError(t, repo.CacheLink(ctx, link, LinkCacheTTL))

	require.NoError(t, repo.InvalidateLink(ctx, "yt-demo"))

	_, err := repo.GetCachedLink(ctx, "yt-demo")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestRedisRepository_IncrementPV(t *testing.T) {
	repo, mr := newMiniRepo(t)
	ctx := context.Background()

	count, err := repo.IncrementPV(ctx, "yt-demo")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.IncrementPV(ctx, "yt-demo")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// First increment sets a TTL on the counter.
	ttl := mr.TTL(PVKeyPrefix + "yt-demo")
	assert.Greater(t, ttl, time.Duration(0))

	pv, err := repo.GetPV(ctx, "yt-demo")
	require.NoError(t, err)
	assert.Equal(t, int64(2), pv)
}

func TestRedisRepository_UV(t *testing.T) {
	repo, _ := newMiniRepo(t)
	ctx := context.Background()

	added, err := repo.AddUV(ctx, "yt-demo", "visitor-1")
	require.NoError(t, err)
	assert.True(t, added)

	// Same visitor again is not counted twice.
	added, err = repo.AddUV(ctx, "yt-demo", "visitor-1")
	require.NoError(t, err)
	assert.False(t, added)

	added, err = repo.AddUV(ctx, "yt-demo", "visitor-2")
	require.NoError(t, err)
	assert.True(t, added)

	uv, err := repo.GetUV(ctx, "yt-demo")
	require.NoError(t, err)
	assert.Equal(t, int64(2), uv)
}

func TestRedisRepository_Dimensions(t *testing.T) {
	repo, _ := newMiniRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.IncrementDimension(ctx, "yt-demo", "device", "ios"))
	require.NoError(t, repo.IncrementDimension(ctx, "yt-demo", "device", "ios"))
	require.NoError(t, repo.IncrementDimension(ctx, "yt-demo", "device", "android"))

	// Empty values are silently dropped.
	require.NoError(t, repo.IncrementDimension(ctx, "yt-demo", "device", ""))

	values, err := repo.GetDimension(ctx, "yt-demo", "device")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"ios": 2, "android": 1}, values)
}

func TestRedisRepository_GetDimension_Empty(t *testing.T) {
	repo, _ := newMiniRepo(t)

	values, err := repo.GetDimension(context.Background(), "no-such", "device")
	require.NoError(t, err)
	assert.Empty(t, values)
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"applink/internal/config"
	"applink/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// Redis key prefixes
	LinkKeyPrefix       = "al:link:"
	LinkCacheTTL        = 24 * time.Hour
	PVKeyPrefix         = "al:pv:"
	UVKeyPrefix         = "al:uv:"
	DimensionKeyPrefix  = "al:dim:"
	StatsExpireDuration = 24 * time.Hour
)

// RedisRepository handles Redis operations
type RedisRepository struct {
	client *redis.Client
	cfg    *config.RedisConfig
}

// NewRedisRepository creates a new Redis repository
func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("Failed to connect to Redis")
	} else {
		log.Info().Msg("Redis connected successfully")
	}

	return &RedisRepository{
		client: rdb,
		cfg:    cfg,
	}
}

// GetClient returns the Redis client
func (r *RedisRepository) GetClient() *redis.Client {
	return r.client
}

// CacheLink caches a full link record as JSON
func (r *RedisRepository) CacheLink(ctx context.Context, link *model.Link, ttl time.Duration) error {
	bytes, err := json.Marshal(link)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.linkKey(link.Slug), bytes, ttl).Err()
}

// GetCachedLink retrieves a cached link record by slug
func (r *RedisRepository) GetCachedLink(ctx context.Context, slug string) (*model.Link, error) {
	bytes, err := r.client.Get(ctx, r.linkKey(slug)).Bytes()
	if err != nil {
		return nil, err
	}
	var link model.Link
	if err := json.Unmarshal(bytes, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// InvalidateLink drops a cached link record
func (r *RedisRepository) InvalidateLink(ctx context.Context, slug string) error {
	return r.client.Del(ctx, r.linkKey(slug)).Err()
}

// IncrementPV increments the page view count for a slug
func (r *RedisRepository) IncrementPV(ctx context.Context, slug string) (int64, error) {
	key := r.pvKey(slug)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// Set expiration if this is the first increment
	if count == 1 {
		r.client.Expire(ctx, key, StatsExpireDuration)
	}
	return count, nil
}

// GetPV gets the page view count for a slug
func (r *RedisRepository) GetPV(ctx context.Context, slug string) (int64, error) {
	return r.client.Get(ctx, r.pvKey(slug)).Int64()
}

// AddUV adds a unique visitor for a slug
func (r *RedisRepository) AddUV(ctx context.Context, slug, visitorID string) (bool, error) {
	day := time.Now().Format("2006-01-02")
	dailyKey := fmt.Sprintf("%s:%s", r.uvKey(slug), day)

	added, err := r.client.SAdd(ctx, dailyKey, visitorID).Result()
	if err != nil {
		return false, err
	}
	// Set expiration
	r.client.Expire(ctx, dailyKey, StatsExpireDuration)

	return added > 0, nil
}

// GetUV gets the unique visitor count for a slug
func (r *RedisRepository) GetUV(ctx context.Context, slug string) (int64, error) {
	pattern := fmt.Sprintf("%s:*", r.uvKey(slug))
	var keys []string

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return 0, err
	}

	var totalUV int64
	for _, key := range keys {
		count, err := r.client.SCard(ctx, key).Result()
		if err != nil {
			continue
		}
		totalUV += count
	}

	return totalUV, nil
}

// IncrementDimension increments a per-slug breakdown counter, e.g.
// dimension "device" value "ios" or dimension "browser" value "instagram".
func (r *RedisRepository) IncrementDimension(ctx context.Context, slug, dimension, value string) error {
	if value == "" {
		return nil
	}
	key := r.dimensionKey(slug, dimension)
	count, err := r.client.HIncrBy(ctx, key, value, 1).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		r.client.Expire(ctx, key, StatsExpireDuration)
	}
	return nil
}

// GetDimension gets the breakdown counters for a slug dimension
func (r *RedisRepository) GetDimension(ctx context.Context, slug, dimension string) (map[string]int64, error) {
	raw, err := r.client.HGetAll(ctx, r.dimensionKey(slug, dimension)).Result()
	if err != nil {
		return nil, err
	}

	values := make(map[string]int64, len(raw))
	for field, v := range raw {
		var count int64
		if _, err := fmt.Sscanf(v, "%d", &count); err != nil {
			continue
		}
		values[field] = count
	}
	return values, nil
}

// Close closes the Redis connection
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// Helper functions to build Redis keys

func (r *RedisRepository) linkKey(slug string) string {
	return LinkKeyPrefix + slug
}

func (r *RedisRepository) pvKey(slug string) string {
	return PVKeyPrefix + slug
}

func (r *RedisRepository) uvKey(slug string) string {
	return UVKeyPrefix + slug
}

func (r *RedisRepository) dimensionKey(slug, dimension string) string {
	return DimensionKeyPrefix + dimension + ":" + slug
}

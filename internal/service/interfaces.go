package service

import (
	"context"
	"time"

	"applink/internal/model"

	"github.com/redis/go-redis/v9"
)

// MySQLRepositoryInterface defines the interface for MySQL operations (for testing)
type MySQLRepositoryInterface interface {
	SaveLink(ctx context.Context, link *model.Link) error
	GetLinkBySlug(ctx context.Context, slug string) (*model.Link, error)
	GetLinkByID(ctx context.Context, id int64) (*model.Link, error)
	ListLinks(ctx context.Context) ([]model.Link, error)
	UpdateLink(ctx context.Context, link *model.Link) error
	DeleteLink(ctx context.Context, id int64) error
	ExistsSlug(ctx context.Context, slug string) (bool, error)
	SaveClick(ctx context.Context, click *model.Click) error
	CountClicks(ctx context.Context, linkID int64) (int64, error)
}

// RedisRepositoryInterface defines the interface for Redis operations (for testing)
type RedisRepositoryInterface interface {
	GetClient() *redis.Client
	CacheLink(ctx context.Context, link *model.Link, ttl time.Duration) error
	GetCachedLink(ctx context.Context, slug string) (*model.Link, error)
	InvalidateLink(ctx context.Context, slug string) error
	IncrementPV(ctx context.Context, slug string) (int64, error)
	GetPV(ctx context.Context, slug string) (int64, error)
	AddUV(ctx context.Context, slug, visitorID string) (bool, error)
	GetUV(ctx context.Context, slug string) (int64, error)
	IncrementDimension(ctx context.Context, slug, dimension, value string) error
	GetDimension(ctx context.Context, slug, dimension string) (map[string]int64, error)
}

// BloomServiceInterface defines the interface for slug Bloom Filter operations (for testing)
type BloomServiceInterface interface {
	Add(ctx context.Context, slug string) error
	Exists(ctx context.Context, slug string) (bool, error)
	IsAvailable(ctx context.Context) bool
	Reset(ctx context.Context) error
}

// LinkServiceInterface defines the interface for smart link operations
type LinkServiceInterface interface {
	Create(ctx context.Context, req *model.CreateLinkRequest) (*model.Link, error)
	Resolve(ctx context.Context, slug string) (*model.Link, error)
	List(ctx context.Context) ([]model.LinkResponse, error)
	Update(ctx context.Context, id int64, req *model.UpdateLinkRequest) (*model.Link, error)
	Delete(ctx context.Context, id int64) error
}

// AnalyticsServiceInterface defines the interface for click analytics operations
type AnalyticsServiceInterface interface {
	RecordClick(ctx context.Context, click *model.Click) error
	GetAnalytics(ctx context.Context, slug string) (*model.AnalyticsResponse, error)
}

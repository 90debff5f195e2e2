package repository

import (
	"context"
	"time"

	"applink/internal/model"
)

// MySQLRepositoryInterface defines the interface for MySQL operations
type MySQLRepositoryInterface interface {
	SaveLink(ctx context.Context, link *model.Link) error
	GetLinkBySlug(ctx context.Context, slug string) (*model.Link, error)
	GetLinkByID(ctx context.Context, id int64) (*model.Link, error)
	ListLinks(ctx context.Context) ([]model.Link, error)
	UpdateLink(ctx context.Context, link *model.Link) error
	DeleteLink(ctx context.Context, id int64) error
	ExistsSlug(ctx context.Context, slug string) (bool, error)
	SaveClick(ctx context.Context, click *model.Click) error
	GetClicks(ctx context.Context, linkID int64, limit int) ([]model.Click, error)
	CountClicks(ctx context.Context, linkID int64) (int64, error)
	Close() error
}

// RedisRepositoryInterface defines the interface for Redis operations
type RedisRepositoryInterface interface {
	GetClient() interface{}
	CacheLink(ctx context.Context, link *model.Link, ttl time.Duration) error
	GetCachedLink(ctx context.Context, slug string) (*model.Link, error)
	InvalidateLink(ctx context.Context, slug string) error
	IncrementPV(ctx context.Context, slug string) (int64, error)
	GetPV(ctx context.Context, slug string) (int64, error)
	AddUV(ctx context.Context, slug, visitorID string) (bool, error)
	GetUV(ctx context.Context, slug string) (int64, error)
	IncrementDimension(ctx context.Context, slug, dimension, value string) error
	GetDimension(ctx context.Context, slug, dimension string) (map[string]int64, error)
	Close() error
}

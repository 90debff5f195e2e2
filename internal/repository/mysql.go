package repository

import (
	"context"
	"time"

	"applink/internal/config"
	"applink/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MySQLRepository handles MySQL operations
type MySQLRepository struct {
	db *gorm.DB
}

// NewMySQLRepository creates a new MySQL repository
func NewMySQLRepository(cfg *config.MySQLConfig) *MySQLRepository {
	// Configure GORM logger
	var gormLogger logger.Interface
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		gormLogger = logger.Default.LogMode(logger.Silent)
	} else {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MySQL")
	}

	// Auto migrate tables
	if err := db.AutoMigrate(&model.Link{}, &model.Click{}); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	log.Info().Msg("MySQL connected successfully")

	return &MySQLRepository{db: db}
}

// SaveLink saves a smart link to MySQL
func (r *MySQLRepository) SaveLink(ctx context.Context, link *model.Link) error {
	return r.db.WithContext(ctx).Create(link).Error
}

// GetLinkBySlug retrieves a smart link by slug
func (r *MySQLRepository) GetLinkBySlug(ctx context.Context, slug string) (*model.Link, error) {
	var link model.Link
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// GetLinkByID retrieves a smart link by primary key
func (r *MySQLRepository) GetLinkByID(ctx context.Context, id int64) (*model.Link, error) {
	var link model.Link
	err := r.db.WithContext(ctx).First(&link, id).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// ListLinks retrieves all smart links, newest first
func (r *MySQLRepository) ListLinks(ctx context.Context) ([]model.Link, error) {
	var links []model.Link
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&links).Error
	return links, err
}

// UpdateLink persists changes to a smart link
func (r *MySQLRepository) UpdateLink(ctx context.Context, link *model.Link) error {
	return r.db.WithContext(ctx).Save(link).Error
}

// DeleteLink removes a smart link. Historical clicks are retained on
// purpose; they are not cascade-deleted.
func (r *MySQLRepository) DeleteLink(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Link{}, id).Error
}

// ExistsSlug checks if a slug is already taken
func (r *MySQLRepository) ExistsSlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// SaveClick saves a click event to MySQL
func (r *MySQLRepository) SaveClick(ctx context.Context, click *model.Click) error {
	return r.db.WithContext(ctx).Create(click).Error
}

// GetClicks retrieves click events for a link
func (r *MySQLRepository) GetClicks(ctx context.Context, linkID int64, limit int) ([]model.Click, error) {
	var clicks []model.Click
	query := r.db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("clicked_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&clicks).Error
	return clicks, err
}

// CountClicks returns the click count for a link
func (r *MySQLRepository) CountClicks(ctx context.Context, linkID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Click{}).
		Where("link_id = ?", linkID).
		Count(&count).Error
	return count, err
}

// Close closes the database connection
func (r *MySQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

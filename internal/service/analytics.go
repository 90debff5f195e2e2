package service

import (
	"context"
	"fmt"
	"time"

	"applink/internal/model"
	"applink/pkg/util"

	"github.com/rs/zerolog/log"
)

// AnalyticsService records click events into Redis for realtime counters.
// Recording is best-effort throughout: a failed counter never affects the
// redirect itself.
type AnalyticsService struct {
	redisRepo RedisRepositoryInterface
}

// NewAnalyticsService creates a new Analytics Service
func NewAnalyticsService(redisRepo RedisRepositoryInterface) *AnalyticsService {
	return &AnalyticsService{
		redisRepo: redisRepo,
	}
}

// RecordClick records a single click event's realtime counters
func (as *AnalyticsService) RecordClick(ctx context.Context, click *model.Click) error {
	slug := click.Slug

	if _, err := as.redisRepo.IncrementPV(ctx, slug); err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to increment PV")
	}

	visitorID := VisitorID(click.ClientIP, click.UserAgent, click.ClickedAt)
	if _, err := as.redisRepo.AddUV(ctx, slug, visitorID); err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to add UV")
	}

	if err := as.redisRepo.IncrementDimension(ctx, slug, "device", click.Device); err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to record device")
	}
	if err := as.redisRepo.IncrementDimension(ctx, slug, "browser", click.Browser); err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to record browser")
	}

	return nil
}

// VisitorID derives a daily unique-visitor id from IP and user agent. The
// day prefix keeps a visitor unique per day, matching the daily UV sets.
func VisitorID(ip, userAgent string, at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}
	return fmt.Sprintf("%s:%x", at.Format("2006-01-02"), util.HashString(ip+"|"+userAgent))
}

// GetAnalytics returns realtime analytics for a slug
func (as *AnalyticsService) GetAnalytics(ctx context.Context, slug string) (*model.AnalyticsResponse, error) {
	pv, err := as.redisRepo.GetPV(ctx, slug)
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to get PV")
		pv = 0
	}

	uv, err := as.redisRepo.GetUV(ctx, slug)
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to get UV")
		uv = 0
	}

	devices, err := as.redisRepo.GetDimension(ctx, slug, "device")
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to get device breakdown")
		devices = map[string]int64{}
	}

	browsers, err := as.redisRepo.GetDimension(ctx, slug, "browser")
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to get browser breakdown")
		browsers = map[string]int64{}
	}

	return &model.AnalyticsResponse{
		Slug:     slug,
		PV:       pv,
		UV:       uv,
		Devices:  devices,
		Browsers: browsers,
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"applink/internal/model"
	"applink/internal/platform"
	"applink/internal/repository"

	"github.com/rs/zerolog/log"
)

var (
	// ErrLinkNotFound is returned when no link exists for a slug or id
	ErrLinkNotFound = errors.New("link not found")
	// ErrSlugTaken is returned when the requested slug already exists
	ErrSlugTaken = errors.New("slug already exists")
	// ErrInvalidSlug is returned when the slug contains characters outside
	// the URL-safe charset
	ErrInvalidSlug = errors.New("invalid slug")
)

var slugRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// LinkService handles smart link operations
type LinkService struct {
	mysqlRepo MySQLRepositoryInterface
	redisRepo RedisRepositoryInterface
	bloomSvc  BloomServiceInterface
}

// NewLinkService creates a new Link Service
func NewLinkService(
	mysqlRepo MySQLRepositoryInterface,
	redisRepo RedisRepositoryInterface,
	bloomSvc BloomServiceInterface,
) *LinkService {
	return &LinkService{
		mysqlRepo: mysqlRepo,
		redisRepo: redisRepo,
		bloomSvc:  bloomSvc,
	}
}

// Create validates the request, enforces slug uniqueness and stores a new
// link. Deep-link fields left empty by the caller are auto-populated from
// the web fallback by the synthesizer; a synthesis failure never blocks
// creation, it only yields a web-only record.
func (s *LinkService) Create(ctx context.Context, req *model.CreateLinkRequest) (*model.Link, error) {
	if !slugRe.MatchString(req.Slug) {
		return nil, ErrInvalidSlug
	}

	if err := s.checkSlugFree(ctx, req.Slug); err != nil {
		return nil, err
	}

	link := &model.Link{
		Slug:                req.Slug,
		WebFallback:         req.WebFallback,
		IOSURL:              req.IOSURL,
		AndroidURL:          req.AndroidURL,
		IOSAppStoreURL:      req.IOSAppStoreURL,
		AndroidPlayStoreURL: req.AndroidPlayStoreURL,
		Title:               req.Title,
	}

	s.autofill(link)

	if err := s.mysqlRepo.SaveLink(ctx, link); err != nil {
		// The unique index is the final arbiter of the check-then-write
		// race on slug creation.
		if existing, lookupErr := s.mysqlRepo.GetLinkBySlug(ctx, req.Slug); lookupErr == nil && existing != nil {
			return nil, ErrSlugTaken
		}
		log.Error().Err(err).Str("slug", req.Slug).Msg("Failed to save link")
		return nil, fmt.Errorf("failed to save link: %w", err)
	}

	// Cache and register the slug; both are best-effort.
	if err := s.redisRepo.CacheLink(ctx, link, repository.LinkCacheTTL); err != nil {
		log.Warn().Err(err).Str("slug", link.Slug).Msg("Failed to cache link")
	}
	if err := s.bloomSvc.Add(ctx, link.Slug); err != nil {
		log.Warn().Err(err).Str("slug", link.Slug).Msg("Failed to add slug to Bloom Filter")
	}

	return link, nil
}

// Resolve retrieves the link record for a slug, cache first
func (s *LinkService) Resolve(ctx context.Context, slug string) (*model.Link, error) {
	if link, err := s.redisRepo.GetCachedLink(ctx, slug); err == nil && link != nil {
		return link, nil
	}

	link, err := s.mysqlRepo.GetLinkBySlug(ctx, slug)
	if err != nil {
		return nil, ErrLinkNotFound
	}

	if err := s.redisRepo.CacheLink(ctx, link, repository.LinkCacheTTL); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Failed to cache link")
	}

	return link, nil
}

// List returns all links with their click counts, newest first
func (s *LinkService) List(ctx context.Context) ([]model.LinkResponse, error) {
	links, err := s.mysqlRepo.ListLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	resp := make([]model.LinkResponse, 0, len(links))
	for _, link := range links {
		count, err := s.mysqlRepo.CountClicks(ctx, link.ID)
		if err != nil {
			log.Warn().Err(err).Str("slug", link.Slug).Msg("Failed to count clicks")
		}
		resp = append(resp, model.LinkResponse{Link: link, ClickCount: count})
	}
	return resp, nil
}

// Update applies partial changes to a link. A slug rename re-checks
// uniqueness. The cache entry for the old slug is invalidated.
func (s *LinkService) Update(ctx context.Context, id int64, req *model.UpdateLinkRequest) (*model.Link, error) {
	link, err := s.mysqlRepo.GetLinkByID(ctx, id)
	if err != nil {
		return nil, ErrLinkNotFound
	}

	oldSlug := link.Slug

	if req.Slug != nil && *req.Slug != link.Slug {
		if !slugRe.MatchString(*req.Slug) {
			return nil, ErrInvalidSlug
		}
		if err := s.checkSlugFree(ctx, *req.Slug); err != nil {
			return nil, err
		}
		link.Slug = *req.Slug
	}
	if req.WebFallback != nil {
		link.WebFallback = *req.WebFallback
		// The platform tag is derived from the web fallback; recompute on change.
		if tag, ok := platform.Detect(link.WebFallback); ok {
			link.Platform = string(tag)
		}
	}
	if req.IOSURL != nil {
		link.IOSURL = *req.IOSURL
	}
	if req.AndroidURL != nil {
		link.AndroidURL = *req.AndroidURL
	}
	if req.IOSAppStoreURL != nil {
		link.IOSAppStoreURL = *req.IOSAppStoreURL
	}
	if req.AndroidPlayStoreURL != nil {
		link.AndroidPlayStoreURL = *req.AndroidPlayStoreURL
	}
	if req.Title != nil {
		link.Title = *req.Title
	}

	if err := s.mysqlRepo.UpdateLink(ctx, link); err != nil {
		log.Error().Err(err).Str("slug", link.Slug).Msg("Failed to update link")
		return nil, fmt.Errorf("failed to update link: %w", err)
	}

	if err := s.redisRepo.InvalidateLink(ctx, oldSlug); err != nil {
		log.Warn().Err(err).Str("slug", oldSlug).Msg("Failed to invalidate link cache")
	}
	if link.Slug != oldSlug {
		if err := s.bloomSvc.Add(ctx, link.Slug); err != nil {
			log.Warn().Err(err).Str("slug", link.Slug).Msg("Failed to add slug to Bloom Filter")
		}
	}

	return link, nil
}

// Delete removes a link record. Historical clicks are kept.
func (s *LinkService) Delete(ctx context.Context, id int64) error {
	link, err := s.mysqlRepo.GetLinkByID(ctx, id)
	if err != nil {
		return ErrLinkNotFound
	}

	if err := s.mysqlRepo.DeleteLink(ctx, id); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	if err := s.redisRepo.InvalidateLink(ctx, link.Slug); err != nil {
		log.Warn().Err(err).Str("slug", link.Slug).Msg("Failed to invalidate link cache")
	}
	return nil
}

// checkSlugFree enforces slug uniqueness. The Bloom Filter answers "definitely
// new" fast; a possible hit is confirmed against MySQL.
func (s *LinkService) checkSlugFree(ctx context.Context, slug string) error {
	maybe, err := s.bloomSvc.Exists(ctx, slug)
	if err != nil || maybe {
		taken, dbErr := s.mysqlRepo.ExistsSlug(ctx, slug)
		if dbErr != nil {
			return fmt.Errorf("failed to check slug: %w", dbErr)
		}
		if taken {
			return ErrSlugTaken
		}
	}
	return nil
}

// autofill populates platform and deep-link fields from the web fallback
// when the caller did not supply them.
func (s *LinkService) autofill(link *model.Link) {
	parsed, err := platform.Synthesize(link.WebFallback)
	if err != nil {
		// Recognized platform without an extractable identifier, or junk
		// input that still passed URL validation. Keep the web-only record.
		if tag, ok := platform.Detect(link.WebFallback); ok {
			link.Platform = string(tag)
		}
		log.Debug().Err(err).Str("slug", link.Slug).Msg("Deep link synthesis skipped")
		return
	}

	link.Platform = string(parsed.Platform)
	if link.IOSURL == "" && !parsed.Guessed {
		link.IOSURL = parsed.IOSURL
	}
	if link.AndroidURL == "" && !parsed.Guessed {
		link.AndroidURL = parsed.AndroidURL
	}
	if link.IOSAppStoreURL == "" {
		link.IOSAppStoreURL = parsed.IOSAppStoreURL
	}
	if link.AndroidPlayStoreURL == "" {
		link.AndroidPlayStoreURL = parsed.AndroidPlayStoreURL
	}
	if link.Title == "" {
		link.Title = parsed.Title
	}
}

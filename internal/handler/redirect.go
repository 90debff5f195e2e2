package handler

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"applink/internal/device"
	"applink/internal/model"
	"applink/internal/mq"
	"applink/internal/redirect"
	"applink/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RedirectHandler handles the smart redirect entry point and landing page
type RedirectHandler struct {
	linkService      service.LinkServiceInterface
	analyticsService service.AnalyticsServiceInterface
	mqProducer       mq.ProducerInterface
	policy           redirect.Policy
}

// NewRedirectHandler creates a new RedirectHandler
func NewRedirectHandler(
	linkService service.LinkServiceInterface,
	analyticsService service.AnalyticsServiceInterface,
	mqProducer mq.ProducerInterface,
	policy redirect.Policy,
) *RedirectHandler {
	return &RedirectHandler{
		linkService:      linkService,
		analyticsService: analyticsService,
		mqProducer:       mqProducer,
		policy:           policy,
	}
}

// Redirect handles GET /s/:slug
// @Summary Smart redirect entry point
// @Description Resolves a slug, logs the click, and redirects by device: desktop straight to the web fallback, mobile to the smart landing page
// @Tags redirect
// @Param slug path string true "Slug"
// @Success 302
// @Router /s/{slug} [get]
func (h *RedirectHandler) Redirect(c *gin.Context) {
	slug := c.Param("slug")

	link, err := h.linkService.Resolve(c.Request.Context(), slug)
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", gin.H{
			"slug": slug,
		})
		return
	}

	cls := device.Classify(c.Request.UserAgent())
	utm := utmValues(c.Request.URL.Query())

	h.logClick(c, link, cls, utm)

	// Server-side redirects to custom schemes do not work; mobile devices
	// go through the smart landing page for client-side invocation.
	if cls.Device == device.DeviceIOS || cls.Device == device.DeviceAndroid {
		target := url.URL{Path: "/smart/" + slug, RawQuery: utm.Encode()}
		c.Redirect(http.StatusFound, target.String())
		return
	}

	plan := redirect.BuildPlan(link, cls, utm, h.policy)
	c.Redirect(http.StatusFound, plan.FallbackURL)
}

// Smart handles GET /smart/:slug
// @Summary Smart redirect landing page
// @Description Renders the countdown page that executes the redirect plan client-side
// @Tags redirect
// @Param slug path string true "Slug"
// @Success 200
// @Router /smart/{slug} [get]
func (h *RedirectHandler) Smart(c *gin.Context) {
	slug := c.Param("slug")

	link, err := h.linkService.Resolve(c.Request.Context(), slug)
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", gin.H{
			"slug": slug,
		})
		return
	}

	cls := device.Classify(c.Request.UserAgent())
	utm := utmValues(c.Request.URL.Query())
	plan := redirect.BuildPlan(link, cls, utm, h.policy)

	title := link.Title
	if title == "" {
		title = "Opening App..."
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		c.Redirect(http.StatusFound, plan.WebFallback)
		return
	}

	c.HTML(http.StatusOK, "smart.html", gin.H{
		"title":       title,
		"webFallback": plan.WebFallback,
		"plan":        template.JS(planJSON),
	})
}

// Plan handles GET /api/v1/links/:slug/plan
// @Summary Get the redirect plan for the requesting device
// @Tags redirect
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} Response{data=redirect.Plan}
// @Router /api/v1/links/{slug}/plan [get]
func (h *RedirectHandler) Plan(c *gin.Context) {
	slug := c.Param("slug")

	link, err := h.linkService.Resolve(c.Request.Context(), slug)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: "Link not found",
		})
		return
	}

	cls := device.Classify(c.Request.UserAgent())
	utm := utmValues(c.Request.URL.Query())
	plan := redirect.BuildPlan(link, cls, utm, h.policy)

	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    plan,
	})
}

// GetAnalytics handles GET /api/v1/analytics/:slug
// @Summary Get analytics for a smart link
// @Tags analytics
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} Response{data=model.AnalyticsResponse}
// @Router /api/v1/analytics/{slug} [get]
func (h *RedirectHandler) GetAnalytics(c *gin.Context) {
	slug := c.Param("slug")

	if _, err := h.linkService.Resolve(c.Request.Context(), slug); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: "Link not found",
		})
		return
	}

	analytics, err := h.analyticsService.GetAnalytics(c.Request.Context(), slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to get analytics",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    analytics,
	})
}

// logClick records the click event, fire and forget. Failures are swallowed;
// analytics never blocks or breaks a redirect.
func (h *RedirectHandler) logClick(c *gin.Context, link *model.Link, cls device.Classification, utm url.Values) {
	click := &model.Click{
		EventID:       uuid.NewString(),
		LinkID:        link.ID,
		Slug:          link.Slug,
		UserAgent:     c.Request.UserAgent(),
		ClientIP:      c.ClientIP(),
		Referrer:      c.Request.Header.Get("Referer"),
		Device:        cls.Device,
		Browser:       cls.Browser,
		PlatformClass: cls.PlatformClass,
		IsSocialApp:   cls.InApp,
		UTMSource:     utm.Get("utm_source"),
		UTMMedium:     utm.Get("utm_medium"),
		UTMCampaign:   utm.Get("utm_campaign"),
		ClickedAt:     time.Now(),
	}

	// The request context dies with the handler; async recording gets its own.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	var wg sync.WaitGroup

	// Realtime counters in Redis
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := h.analyticsService.RecordClick(ctx, click); err != nil {
			log.Error().Err(err).Str("slug", link.Slug).Msg("Failed to record click")
		}
	}()

	// Durable persistence via MQ
	if h.mqProducer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := &mq.ClickMessage{
				EventID:       click.EventID,
				LinkID:        click.LinkID,
				Slug:          click.Slug,
				UserAgent:     click.UserAgent,
				ClientIP:      click.ClientIP,
				Referrer:      click.Referrer,
				Device:        click.Device,
				Browser:       click.Browser,
				PlatformClass: click.PlatformClass,
				IsSocialApp:   click.IsSocialApp,
				UTMSource:     click.UTMSource,
				UTMMedium:     click.UTMMedium,
				UTMCampaign:   click.UTMCampaign,
				ClickedAt:     click.ClickedAt,
			}
			if err := h.mqProducer.SendClick(ctx, msg); err != nil {
				log.Error().Err(err).Str("slug", link.Slug).Msg("Failed to send click event to MQ")
			}
		}()
	}

	go func() {
		wg.Wait()
		cancel()
	}()
}

// utmValues filters the query down to utm_* parameters
func utmValues(query url.Values) url.Values {
	utm := url.Values{}
	for key, values := range query {
		if strings.HasPrefix(key, "utm_") && len(values) > 0 {
			utm.Set(key, values[0])
		}
	}
	return utm
}

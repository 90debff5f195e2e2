package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"applink/internal/config"
	"applink/internal/handler"
	"applink/internal/model"
	"applink/internal/mq"
	"applink/internal/redirect"
	"applink/internal/repository"
	"applink/internal/service"
	"applink/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Smart Link Service API
// @version 1.0
// @description A smart deep-link redirect service with analytics
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.example.com/support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Server.Mode)

	// Initialize repositories
	redisRepo := repository.NewRedisRepository(&cfg.Database.Redis)
	defer redisRepo.Close()

	mysqlRepo := repository.NewMySQLRepository(&cfg.Database.MySQL)
	defer mysqlRepo.Close()

	// Initialize services
	bloomSvc := service.NewBloomService(redisRepo.GetClient(), &cfg.Bloom)
	linkSvc := service.NewLinkService(mysqlRepo, redisRepo, bloomSvc)
	analyticsSvc := service.NewAnalyticsService(redisRepo)

	// Initialize MQ (optional, can be nil)
	var mqProducer *mq.Producer
	if cfg.RocketMQ.NameServer != "" {
		mqProducer, err = mq.NewProducer(&cfg.RocketMQ)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize RocketMQ producer, running without MQ")
		}
	}

	// Setup Gin
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	// Middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(corsMiddleware())

	// Setup templates for the smart landing and 404 pages
	router.LoadHTMLGlob("templates/*")

	policy := redirectPolicy(&cfg.Redirect)
	redirectHandler := handler.NewRedirectHandler(linkSvc, analyticsSvc, mqProducer, policy)
	linksHandler := handler.NewLinksHandler(linkSvc)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/links", linksHandler.Create)
		v1.GET("/links", linksHandler.List)
		v1.GET("/links/:slug", linksHandler.Get)
		v1.PUT("/links/id/:id", linksHandler.Update)
		v1.DELETE("/links/id/:id", linksHandler.Delete)
		v1.POST("/links/parse", linksHandler.Parse)
		v1.GET("/links/:slug/plan", redirectHandler.Plan)
		v1.GET("/analytics/:slug", redirectHandler.GetAnalytics)
	}

	// Redirect entry point and smart landing page
	router.GET("/s/:slug", redirectHandler.Redirect)
	router.GET("/smart/:slug", redirectHandler.Smart)

	// Swagger documentation
	setupSwagger(router)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Start MQ consumer if configured
	var mqConsumer *mq.Consumer
	if cfg.RocketMQ.NameServer != "" {
		// Create consumer with handler that persists clicks to MySQL
		mqConsumer, err = mq.NewConsumer(&cfg.RocketMQ, func(ctx context.Context, msg *mq.ClickMessage) error {
			click := &model.Click{
				EventID:       msg.EventID,
				LinkID:        msg.LinkID,
				Slug:          msg.Slug,
				UserAgent:     msg.UserAgent,
				ClientIP:      msg.ClientIP,
				Referrer:      msg.Referrer,
				Device:        msg.Device,
				Browser:       msg.Browser,
				PlatformClass: msg.PlatformClass,
				IsSocialApp:   msg.IsSocialApp,
				UTMSource:     msg.UTMSource,
				UTMMedium:     msg.UTMMedium,
				UTMCampaign:   msg.UTMCampaign,
				ClickedAt:     msg.ClickedAt,
			}
			return mysqlRepo.SaveClick(ctx, click)
		})

		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize RocketMQ consumer")
		} else {
			go func() {
				if err := mqConsumer.Subscribe(); err != nil {
					log.Error().Err(err).Msg("Failed to subscribe to RocketMQ")
				}
			}()
			defer mqConsumer.Close()
		}
	}

	// Start server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Msgf("Starting server on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Close producer
	if mqProducer != nil {
		mqProducer.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures the logger
func setupLogger(mode string) {
	if mode == "release" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Use console writer for pretty output
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

// redirectPolicy builds the sequencer timeout policy from configuration
func redirectPolicy(rc *config.RedirectConfig) redirect.Policy {
	return redirect.Policy{
		InAppFallback:         rc.InAppFallback(),
		UniversalLinkFallback: rc.UniversalLinkFallback(),
		CustomSchemeFallback:  rc.CustomSchemeFallback(),
		AndroidFallback:       rc.AndroidFallback(),
		Countdown:             rc.Countdown(),
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// setupSwagger sets up Swagger UI
func setupSwagger(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

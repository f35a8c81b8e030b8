package routes

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/meetbot/internal/container"
	"github.com/joshua-takyi/meetbot/internal/handlers"
	"github.com/joshua-takyi/meetbot/internal/middleware"
)

type Options struct {
	CORSOrigins []string
	RateLimit   string
	// Webhook, when set, receives Telegram updates on
	// /telegram/webhook/:secret.
	Webhook       handlers.UpdateParser
	WebhookSecret string
}

// SetupRoutes configures all routes with the dependency container. ctx is
// the bot's lifetime context handed to workflows started by webhooks.
func SetupRoutes(ctx context.Context, container *container.Container, opts Options) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	v1.Use(cors.New(corsConfig(opts.CORSOrigins)))
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "OK",
				"service": "meetbot",
			})
		})
	}

	limit, err := middleware.RateLimiter(opts.RateLimit)
	if err != nil {
		return nil, err
	}
	eventRoutes := v1.Group("/events")
	eventRoutes.Use(limit)
	{
		eventRoutes.GET("", handlers.ListUpcomingEvents(container.EventService))
		eventRoutes.GET("/:id", handlers.GetEvent(container.EventService))
	}

	if opts.Webhook != nil {
		r.POST("/telegram/webhook/:secret",
			middleware.WebhookSecret(opts.WebhookSecret),
			handlers.TelegramWebhook(ctx, opts.Webhook, container.Dispatch()),
		)
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

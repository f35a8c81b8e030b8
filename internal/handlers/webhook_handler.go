package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/meetbot/internal/models"
)

// UpdateParser decodes a webhook request into a bot request.
type UpdateParser interface {
	ParseWebhook(r *http.Request) (*models.BotRequest, bool, error)
}

// TelegramWebhook accepts updates pushed by Telegram. Workflows outlive
// the HTTP request, so they run on the bot's own context.
func TelegramWebhook(ctx context.Context, parser UpdateParser, dispatch func(context.Context, *models.BotRequest)) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok, err := parser.ParseWebhook(c.Request)
		if err != nil {
			c.Error(err)
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid update"))
			return
		}
		if ok {
			dispatch(ctx, req)
		}
		c.Status(http.StatusOK)
	}
}

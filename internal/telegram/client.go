// Package telegram adapts the Telegram Bot API to the transport-neutral
// message types the bot works with.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joshua-takyi/meetbot/internal/models"
)

const pollTimeoutSeconds = 60

// HandlerFunc receives every decoded update.
type HandlerFunc func(ctx context.Context, req *models.BotRequest)

type Client struct {
	api    *tgbotapi.BotAPI
	logger *slog.Logger
}

// NewClient authenticates against the Bot API. endpoint may be empty to use
// the public Telegram server.
func NewClient(token, endpoint string, debug bool, logger *slog.Logger) (*Client, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	api.Debug = debug
	return &Client{api: api, logger: logger}, nil
}

// Username is the bot's own handle.
func (c *Client) Username() string {
	return c.api.Self.UserName
}

func (c *Client) Send(ctx context.Context, msg models.OutgoingMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.api.Send(NewMessageConfig(msg)); err != nil {
		return fmt.Errorf("failed to send message to %d: %w", msg.ChatID, err)
	}
	return nil
}

// AnswerCallback acknowledges a button press so the client stops waiting.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("failed to answer callback %s: %w", callbackID, err)
	}
	return nil
}

// Poll long-polls for updates and hands each one to handle until ctx is
// cancelled.
func (c *Client) Poll(ctx context.Context, handle HandlerFunc) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := c.api.GetUpdatesChan(u)
	c.logger.Info("Polling for updates", "bot", c.Username())

	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if req, ok := ToBotRequest(update); ok {
				handle(ctx, req)
			}
		}
	}
}

// SetWebhook registers webhookURL with Telegram.
func (c *Client) SetWebhook(webhookURL string) error {
	if _, err := url.ParseRequestURI(webhookURL); err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if _, err := c.api.Request(wh); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}

// DeleteWebhook switches the bot back to polling mode.
func (c *Client) DeleteWebhook() error {
	if _, err := c.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return nil
}

// ParseWebhook decodes an update posted by Telegram. ok is false for update
// kinds the bot ignores.
func (c *Client) ParseWebhook(r *http.Request) (req *models.BotRequest, ok bool, err error) {
	update, err := c.api.HandleUpdate(r)
	if err != nil {
		return nil, false, err
	}
	req, ok = ToBotRequest(*update)
	return req, ok, nil
}

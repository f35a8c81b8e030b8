package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/joshua-takyi/meetbot/internal/models"
)

const adminOnlyMessage = "Admins only!"

// BotHandlerFunc handles one inbound bot request.
type BotHandlerFunc func(ctx context.Context, req *models.BotRequest)

// Admins is the allow-list of user ids that may run admin commands.
type Admins map[int64]struct{}

func NewAdmins(ids []int64) Admins {
	admins := make(Admins, len(ids))
	for _, id := range ids {
		admins[id] = struct{}{}
	}
	return admins
}

func (a Admins) IsAdmin(userID int64) bool {
	_, ok := a[userID]
	return ok
}

// AdminOnly lets the request through only for admins; everyone else gets a
// rejection message and nothing else happens.
func AdminOnly(admins Admins, messenger models.Messenger, logger *slog.Logger) func(BotHandlerFunc) BotHandlerFunc {
	return func(next BotHandlerFunc) BotHandlerFunc {
		return func(ctx context.Context, req *models.BotRequest) {
			if !admins.IsAdmin(req.From.ID) {
				logger.Warn("Admin command rejected", "user_id", req.From.ID, "chat_id", req.ChatID)
				err := messenger.Send(ctx, models.OutgoingMessage{ChatID: req.ChatID, Text: adminOnlyMessage})
				if err != nil {
					logger.Error("Failed to send message", "chat_id", req.ChatID, "error", err)
				}
				return
			}
			next(ctx, req)
		}
	}
}

// Recover keeps a panicking handler from taking the process down.
func Recover(logger *slog.Logger) func(BotHandlerFunc) BotHandlerFunc {
	return func(next BotHandlerFunc) BotHandlerFunc {
		return func(ctx context.Context, req *models.BotRequest) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Bot handler panic",
						"chat_id", req.ChatID,
						"panic", r,
						"stack", string(debug.Stack()),
					)
				}
			}()
			next(ctx, req)
		}
	}
}

// LogRequests logs every inbound update once it has been handled.
func LogRequests(logger *slog.Logger) func(BotHandlerFunc) BotHandlerFunc {
	return func(next BotHandlerFunc) BotHandlerFunc {
		return func(ctx context.Context, req *models.BotRequest) {
			start := time.Now()
			next(ctx, req)
			kind := "message"
			if req.IsCallback() {
				kind = "callback"
			}
			logger.Debug("Bot update",
				"update_id", req.UpdateID,
				"kind", kind,
				"chat_id", req.ChatID,
				"user_id", req.From.ID,
				"latency", time.Since(start),
			)
		}
	}
}

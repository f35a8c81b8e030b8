package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/joshua-takyi/meetbot/internal/conversation"
	"github.com/joshua-takyi/meetbot/internal/middleware"
	"github.com/joshua-takyi/meetbot/internal/models"
	"github.com/joshua-takyi/meetbot/internal/services"
)

const (
	msgNoEvents       = "There are no events"
	msgNotRecognized  = "Action not recognized"
	msgCreated        = "✅ Event has been successfully created!"
	msgUpdated        = "✅ Event has been successfully updated!"
	msgJoined         = "✅ You have successfully joined the event!"
	msgLeft           = "You have successfully left the event."
	msgDeleted        = "Event deleted"
	msgCleaned        = "Events cleaned"
	msgNotFound       = "❌ Event not found."
	msgEnded          = "❌ This event has already ended."
	msgFull           = "❌ Sorry, this event is full."
	msgAlreadyJoined  = "⚠️ You have already joined this event."
	msgNoAttendees    = "⚠️ There are no attendees for this event."
	msgNotEnrolled    = "⚠️ You are not enrolled in this event."
	msgNotSaved       = "❌ Error! Event not saved"
	msgSomethingWrong = "❌ Something went wrong."
)

// BotHandler routes inbound messages and button presses. A message from a
// chat with a pending question answers it; anything else may start a
// workflow. Every workflow runs in its own goroutine.
type BotHandler struct {
	engine    *conversation.Engine
	events    *services.EventService
	messenger models.Messenger
	admins    middleware.Admins
	title     string
	logger    *slog.Logger

	commands  map[string]middleware.BotHandlerFunc
	callbacks map[string]middleware.BotHandlerFunc
	recover   func(middleware.BotHandlerFunc) middleware.BotHandlerFunc

	wg sync.WaitGroup
}

func NewBotHandler(
	engine *conversation.Engine,
	events *services.EventService,
	messenger models.Messenger,
	admins middleware.Admins,
	title string,
	logger *slog.Logger,
) *BotHandler {
	h := &BotHandler{
		engine:    engine,
		events:    events,
		messenger: messenger,
		admins:    admins,
		title:     title,
		logger:    logger,
		recover:   middleware.Recover(logger),
	}
	adminOnly := middleware.AdminOnly(admins, messenger, logger)

	h.commands = map[string]middleware.BotHandlerFunc{
		"start":  h.start,
		"list":   h.list,
		"join":   h.selectEvent(services.ActionJoin, false),
		"leave":  h.selectEvent(services.ActionLeave, false),
		"create": adminOnly(h.create),
		"update": adminOnly(h.selectEvent(services.ActionUpdate, false)),
		"delete": adminOnly(h.selectEvent(services.ActionDelete, true)),
		"clean":  adminOnly(h.clean),
	}
	h.callbacks = map[string]middleware.BotHandlerFunc{
		services.ActionJoin:   h.join,
		services.ActionLeave:  h.leave,
		services.ActionUpdate: adminOnly(h.update),
		services.ActionDelete: adminOnly(h.delete),
	}
	return h
}

// Handle dispatches req without blocking on any workflow it starts.
func (h *BotHandler) Handle(ctx context.Context, req *models.BotRequest) {
	if req.IsCallback() {
		h.answerCallback(ctx, req)
		h.spawn(ctx, req, h.callback)
		return
	}

	if h.engine.Resolve(req.ChatID, req.Text) {
		return
	}

	name, ok := parseCommand(req.Text)
	if !ok {
		return
	}
	handler, ok := h.commands[name]
	if !ok {
		h.logger.Debug("Unknown command", "command", name, "chat_id", req.ChatID)
		return
	}
	h.spawn(ctx, req, handler)
}

// Wait blocks until every running workflow has returned.
func (h *BotHandler) Wait() {
	h.wg.Wait()
}

func (h *BotHandler) spawn(ctx context.Context, req *models.BotRequest, fn middleware.BotHandlerFunc) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.recover(fn)(ctx, req)
	}()
}

func (h *BotHandler) callback(ctx context.Context, req *models.BotRequest) {
	var payload models.CallbackPayload
	if err := json.Unmarshal([]byte(req.CallbackData), &payload); err != nil {
		h.logger.Warn("Malformed callback payload", "data", req.CallbackData, "error", err)
		h.reply(ctx, req.ChatID, msgNotRecognized)
		return
	}
	handler, ok := h.callbacks[payload.Action]
	if !ok {
		h.reply(ctx, req.ChatID, msgNotRecognized)
		return
	}
	handler(ctx, req.WithEventID(payload.EventID))
}

func (h *BotHandler) start(ctx context.Context, req *models.BotRequest) {
	h.send(ctx, models.OutgoingMessage{
		ChatID: req.ChatID,
		Text:   services.HelpText(h.title, h.admins.IsAdmin(req.From.ID)),
		HTML:   true,
	})
}

func (h *BotHandler) list(ctx context.Context, req *models.BotRequest) {
	events := h.events.ListEvents(ctx)
	if len(events) == 0 {
		h.reply(ctx, req.ChatID, msgNoEvents)
		return
	}
	h.send(ctx, models.OutgoingMessage{
		ChatID:         req.ChatID,
		Text:           services.RenderEvents(events, h.events.Location()),
		HTML:           true,
		DisablePreview: true,
	})
}

// selectEvent shows the events with one button each for action. Delete
// only offers the caller's own events.
func (h *BotHandler) selectEvent(action string, ownedOnly bool) middleware.BotHandlerFunc {
	return func(ctx context.Context, req *models.BotRequest) {
		var events models.Events
		if ownedOnly {
			events = h.events.ListOwnedEvents(ctx, req.From.ID)
		} else {
			events = h.events.ListEvents(ctx)
		}
		if len(events) == 0 {
			h.reply(ctx, req.ChatID, msgNoEvents)
			return
		}
		h.send(ctx, services.SelectionMessage(req.ChatID, action, events, h.events.Location()))
	}
}

func (h *BotHandler) create(ctx context.Context, req *models.BotRequest) {
	_, err := h.events.CreateEvent(ctx, req.ChatID, req.From)
	h.finish(ctx, req, "create", err, msgCreated)
}

func (h *BotHandler) update(ctx context.Context, req *models.BotRequest) {
	_, err := h.events.UpdateEvent(ctx, req.ChatID, req.EventID)
	h.finish(ctx, req, "update", err, msgUpdated)
}

func (h *BotHandler) join(ctx context.Context, req *models.BotRequest) {
	_, err := h.events.JoinEvent(ctx, req.ChatID, req.From, req.EventID)
	h.finish(ctx, req, "join", err, msgJoined)
}

func (h *BotHandler) leave(ctx context.Context, req *models.BotRequest) {
	_, err := h.events.LeaveEvent(ctx, req.From, req.EventID)
	h.finish(ctx, req, "leave", err, msgLeft)
}

func (h *BotHandler) delete(ctx context.Context, req *models.BotRequest) {
	err := h.events.DeleteEvent(ctx, req.From, req.EventID)
	h.finish(ctx, req, "delete", err, msgDeleted)
}

func (h *BotHandler) clean(ctx context.Context, req *models.BotRequest) {
	_, err := h.events.CleanEvents(ctx)
	h.finish(ctx, req, "clean", err, msgCleaned)
}

// finish sends the one closing message of a workflow.
func (h *BotHandler) finish(ctx context.Context, req *models.BotRequest, action string, err error, success string) {
	if err == nil {
		h.reply(ctx, req.ChatID, success)
		return
	}
	if errors.Is(err, conversation.ErrSuperseded) || errors.Is(err, context.Canceled) {
		h.logger.Debug("Workflow abandoned", "action", action, "chat_id", req.ChatID, "reason", err)
		return
	}
	h.logger.Warn("Workflow failed",
		"action", action,
		"chat_id", req.ChatID,
		"user_id", req.From.ID,
		"event_id", req.EventID,
		"error", err,
	)
	h.reply(ctx, req.ChatID, errorMessage(err))
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrEventNotFound):
		return msgNotFound
	case errors.Is(err, services.ErrEventEnded):
		return msgEnded
	case errors.Is(err, services.ErrEventFull):
		return msgFull
	case errors.Is(err, services.ErrAlreadyJoined):
		return msgAlreadyJoined
	case errors.Is(err, services.ErrNoAttendees):
		return msgNoAttendees
	case errors.Is(err, services.ErrNotAttendee):
		return msgNotEnrolled
	case errors.Is(err, models.ErrSaveFailed):
		return msgNotSaved
	default:
		return msgSomethingWrong
	}
}

func (h *BotHandler) reply(ctx context.Context, chatID int64, text string) {
	h.send(ctx, models.OutgoingMessage{ChatID: chatID, Text: text})
}

func (h *BotHandler) send(ctx context.Context, msg models.OutgoingMessage) {
	if err := h.messenger.Send(ctx, msg); err != nil {
		h.logger.Error("Failed to send message", "chat_id", msg.ChatID, "error", err)
	}
}

func (h *BotHandler) answerCallback(ctx context.Context, req *models.BotRequest) {
	answerer, ok := h.messenger.(models.CallbackAnswerer)
	if !ok {
		return
	}
	if err := answerer.AnswerCallback(ctx, req.CallbackID); err != nil {
		h.logger.Warn("Failed to answer callback", "callback_id", req.CallbackID, "error", err)
	}
}

// parseCommand extracts "create" from "/create@SomeBot extra".
func parseCommand(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", false
	}
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return "", false
	}
	return strings.ToLower(name), true
}

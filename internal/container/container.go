package container

import (
	"log/slog"
	"time"

	"github.com/joshua-takyi/meetbot/internal/conversation"
	"github.com/joshua-takyi/meetbot/internal/handlers"
	"github.com/joshua-takyi/meetbot/internal/middleware"
	"github.com/joshua-takyi/meetbot/internal/models"
	"github.com/joshua-takyi/meetbot/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger       *slog.Logger
	Messenger    models.Messenger
	EventRepo    *models.EventRepo
	Engine       *conversation.Engine
	EventService *services.EventService
	BotHandler   *handlers.BotHandler
	Admins       middleware.Admins
}

// NewContainer wires the bot on top of a messenger and an event store.
// Dates are handled in loc.
func NewContainer(
	logger *slog.Logger,
	messenger models.Messenger,
	store models.EventStore,
	admins []int64,
	title string,
	loc *time.Location,
) *Container {
	now := func() time.Time { return time.Now().In(loc) }

	repo := models.NewEventRepo(store, logger, now)
	engine := conversation.NewEngine(messenger, logger)
	eventService := services.NewEventService(repo, engine, messenger, logger)
	adminList := middleware.NewAdmins(admins)
	botHandler := handlers.NewBotHandler(engine, eventService, messenger, adminList, title, logger)

	return &Container{
		Logger:       logger,
		Messenger:    messenger,
		EventRepo:    repo,
		Engine:       engine,
		EventService: eventService,
		BotHandler:   botHandler,
		Admins:       adminList,
	}
}

// Dispatch is the entry point for every decoded update.
func (c *Container) Dispatch() middleware.BotHandlerFunc {
	return middleware.LogRequests(c.Logger)(c.BotHandler.Handle)
}

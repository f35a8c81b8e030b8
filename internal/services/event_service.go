package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joshua-takyi/meetbot/internal/conversation"
	"github.com/joshua-takyi/meetbot/internal/helpers"
	"github.com/joshua-takyi/meetbot/internal/models"
)

var (
	ErrEventEnded    = errors.New("event has already ended")
	ErrEventFull     = errors.New("event is full")
	ErrAlreadyJoined = errors.New("already joined")
	ErrNoAttendees   = errors.New("event has no attendees")
	ErrNotAttendee   = errors.New("not enrolled in event")
)

// Asker is the part of the conversation engine the workflows need.
type Asker interface {
	AskValidated(ctx context.Context, chatID int64, prompt string, validate conversation.Validator, errorMessage string) (string, error)
}

type EventService struct {
	repo      *models.EventRepo
	asker     Asker
	messenger models.Messenger
	logger    *slog.Logger
}

func NewEventService(repo *models.EventRepo, asker Asker, messenger models.Messenger, logger *slog.Logger) *EventService {
	return &EventService{
		repo:      repo,
		asker:     asker,
		messenger: messenger,
		logger:    logger,
	}
}

// Location is the timezone dates are entered and shown in.
func (es *EventService) Location() *time.Location {
	return es.repo.Now().Location()
}

// CreateEvent runs the creation form in chatID and stores the new event
// owned by owner.
func (es *EventService) CreateEvent(ctx context.Context, chatID int64, owner models.User) (*models.Event, error) {
	events := es.repo.LoadAll(ctx)

	form, err := es.askEventForm(ctx, chatID, nil)
	if err != nil {
		return nil, err
	}

	ev := models.NewEvent(owner)
	for events.Find(ev.ID) != nil {
		ev.ID = models.NewEventID()
	}
	if err := form.apply(ev, es.Location()); err != nil {
		return nil, err
	}

	events = append(events, ev)
	if _, err := es.repo.SaveAll(ctx, events, ev.ID); err != nil {
		return nil, err
	}
	es.logger.Info("Event created", "event_id", ev.ID, "owner_id", owner.ID)
	return ev, nil
}

// UpdateEvent re-asks every field of eventID, showing the current values.
func (es *EventService) UpdateEvent(ctx context.Context, chatID int64, eventID string) (*models.Event, error) {
	events := es.repo.LoadAll(ctx)
	ev := events.Find(eventID)
	if ev == nil {
		return nil, fmt.Errorf("update %s: %w", eventID, models.ErrEventNotFound)
	}

	form, err := es.askEventForm(ctx, chatID, ev)
	if err != nil {
		return nil, err
	}
	if err := form.apply(ev, es.Location()); err != nil {
		return nil, err
	}

	if _, err := es.repo.SaveAll(ctx, events, ev.ID); err != nil {
		return nil, err
	}
	es.logger.Info("Event updated", "event_id", ev.ID)
	return ev, nil
}

// JoinEvent adds user to eventID. Events with a payment link first ask
// whether the user already donated.
func (es *EventService) JoinEvent(ctx context.Context, chatID int64, user models.User, eventID string) (*models.Event, error) {
	events := es.repo.LoadAll(ctx)
	ev := events.Find(eventID)
	if ev == nil {
		return nil, fmt.Errorf("join %s: %w", eventID, models.ErrEventNotFound)
	}
	if !helpers.IsFutureDate(ev.DateTime, es.repo.Now()) {
		return nil, ErrEventEnded
	}
	if ev.IsFull() {
		return nil, ErrEventFull
	}
	if ev.AttendeeIndex(user.ID) >= 0 {
		return nil, ErrAlreadyJoined
	}

	donated := false
	if ev.HasPaymentLink() {
		err := es.messenger.Send(ctx, models.OutgoingMessage{
			ChatID: chatID,
			Text:   donationMessage(ev),
			HTML:   true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to send donation request: %w", err)
		}
		answer, err := es.asker.AskValidated(ctx, chatID, promptDonated, helpers.IsYesNo, errYesNo)
		if err != nil {
			return nil, err
		}
		donated = isYes(answer)
	}

	ev.Attendees = append(ev.Attendees, models.Attendee{User: user, Donated: donated})
	if _, err := es.repo.SaveAll(ctx, events, ev.ID); err != nil {
		return nil, err
	}
	es.logger.Info("User joined event", "event_id", ev.ID, "user_id", user.ID, "donated", donated)
	return ev, nil
}

// LeaveEvent removes user from eventID's attendees.
func (es *EventService) LeaveEvent(ctx context.Context, user models.User, eventID string) (*models.Event, error) {
	events := es.repo.LoadAll(ctx)
	ev := events.Find(eventID)
	if ev == nil {
		return nil, fmt.Errorf("leave %s: %w", eventID, models.ErrEventNotFound)
	}
	if len(ev.Attendees) == 0 {
		return nil, ErrNoAttendees
	}
	i := ev.AttendeeIndex(user.ID)
	if i < 0 {
		return nil, ErrNotAttendee
	}

	ev.Attendees = append(ev.Attendees[:i], ev.Attendees[i+1:]...)
	if _, err := es.repo.SaveAll(ctx, events, ev.ID); err != nil {
		return nil, err
	}
	es.logger.Info("User left event", "event_id", ev.ID, "user_id", user.ID)
	return ev, nil
}

// DeleteEvent removes eventID if it belongs to owner.
func (es *EventService) DeleteEvent(ctx context.Context, owner models.User, eventID string) error {
	if es.repo.LoadOwned(ctx, owner.ID).Find(eventID) == nil {
		return fmt.Errorf("delete %s: %w", eventID, models.ErrEventNotFound)
	}

	events, _ := es.repo.LoadAll(ctx).Remove(eventID)
	if _, err := es.repo.SaveAll(ctx, events); err != nil {
		return err
	}
	es.logger.Info("Event deleted", "event_id", eventID, "owner_id", owner.ID)
	return nil
}

// CleanEvents rewrites the collection so the expiry sweep drops past
// events, and returns how many were dropped.
func (es *EventService) CleanEvents(ctx context.Context) (int, error) {
	return es.repo.SaveAll(ctx, es.repo.LoadAll(ctx))
}

// ListEvents returns every stored event sorted by date.
func (es *EventService) ListEvents(ctx context.Context) models.Events {
	return es.repo.LoadAll(ctx)
}

// ListOwnedEvents returns the events created by ownerID.
func (es *EventService) ListOwnedEvents(ctx context.Context, ownerID int64) models.Events {
	return es.repo.LoadOwned(ctx, ownerID)
}

// UpcomingEvents returns stored events dated today or later, without
// writing anything back.
func (es *EventService) UpcomingEvents(ctx context.Context) models.Events {
	now := es.repo.Now()
	upcoming := models.Events{}
	for _, ev := range es.repo.LoadAll(ctx) {
		if helpers.IsFutureDate(ev.DateTime, now) {
			upcoming = append(upcoming, ev)
		}
	}
	return upcoming
}

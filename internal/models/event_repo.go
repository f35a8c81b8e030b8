package models

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/joshua-takyi/meetbot/internal/helpers"
)

// EventRepo loads and stores the event collection and applies the expiry
// sweep on every write. It holds no collection state of its own: callers
// reload at the start of a workflow and hand the whole collection back.
type EventRepo struct {
	store  EventStore
	logger *slog.Logger
	now    func() time.Time
}

func NewEventRepo(store EventStore, logger *slog.Logger, now func() time.Time) *EventRepo {
	if now == nil {
		now = time.Now
	}
	return &EventRepo{
		store:  store,
		logger: logger,
		now:    now,
	}
}

// LoadAll returns every stored event sorted by date. Store failures are
// logged and produce an empty collection.
func (r *EventRepo) LoadAll(ctx context.Context) Events {
	events, err := r.store.ReadAll(ctx)
	if err != nil {
		r.logger.Error("Failed to read events", "error", err)
		return Events{}
	}
	if events == nil {
		events = Events{}
	}
	events.SortByDate()
	return events
}

// LoadOwned is LoadAll restricted to events created by ownerID.
func (r *EventRepo) LoadOwned(ctx context.Context, ownerID int64) Events {
	return r.LoadAll(ctx).OwnedBy(ownerID)
}

// SaveAll drops past events and overwrites the stored collection with the
// rest. The events named in changed must pass validation or nothing is
// written; other invalid events are logged and written back untouched. It
// returns how many events were evicted.
func (r *EventRepo) SaveAll(ctx context.Context, events Events, changed ...string) (int, error) {
	now := r.now()
	kept := make(Events, 0, len(events))
	for _, ev := range events {
		if ev == nil || !helpers.IsFutureDate(ev.DateTime, now) {
			continue
		}
		if err := Validate.Struct(ev); err != nil {
			if slices.Contains(changed, ev.ID) {
				return 0, fmt.Errorf("%w: invalid event %s: %v", ErrSaveFailed, ev.ID, err)
			}
			r.logger.Warn("Stored event is invalid", "event_id", ev.ID, "error", err)
		}
		kept = append(kept, ev)
	}

	if err := r.store.WriteAll(ctx, kept); err != nil {
		r.logger.Error("Failed to write events", "error", err, "count", len(kept))
		return 0, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	evicted := len(events) - len(kept)
	if evicted > 0 {
		r.logger.Info("Evicted past events", "count", evicted)
	}
	return evicted, nil
}

// Now returns the repository's notion of the current time.
func (r *EventRepo) Now() time.Time {
	return r.now()
}

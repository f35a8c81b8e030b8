package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const eventIDLength = 8

type Event struct {
	ID           string     `bson:"id" json:"id" validate:"required"`
	Name         string     `bson:"name" json:"name" validate:"required"`
	DateTime     time.Time  `bson:"dateTime" json:"dateTime" validate:"required"`
	Place        string     `bson:"place" json:"place" validate:"required"`
	Address      string     `bson:"address" json:"address" validate:"required"`
	Attendees    []Attendee `bson:"attendees" json:"attendees"`
	MaxAttendees int        `bson:"maxAttendees" json:"maxAttendees" validate:"gte=0"`
	Price        float64    `bson:"price" json:"price" validate:"gte=0"`
	PaymentLink  string     `bson:"paymentLink" json:"paymentLink" validate:"omitempty,payment_url"`
	Owner        User       `bson:"owner" json:"owner"`
}

// NewEvent returns an empty event with a fresh short id owned by owner.
func NewEvent(owner User) *Event {
	return &Event{
		ID:        NewEventID(),
		Attendees: []Attendee{},
		Owner:     owner,
	}
}

// NewEventID returns the last 8 characters of a random UUID.
func NewEventID() string {
	id := uuid.New().String()
	return id[len(id)-eventIDLength:]
}

// IsFull reports whether a positive capacity has been reached.
func (e *Event) IsFull() bool {
	return e.MaxAttendees > 0 && len(e.Attendees) >= e.MaxAttendees
}

// AttendeeIndex returns the position of userID in the attendee list or -1.
func (e *Event) AttendeeIndex(userID int64) int {
	for i, at := range e.Attendees {
		if at.ID == userID {
			return i
		}
	}
	return -1
}

// HasPaymentLink reports whether the event asks attendees for a donation.
func (e *Event) HasPaymentLink() bool {
	return strings.TrimSpace(e.PaymentLink) != ""
}

// Events is a collection of events as persisted by the store.
type Events []*Event

// Find returns the event with the given id, or nil.
func (es Events) Find(id string) *Event {
	for _, ev := range es {
		if ev.ID == id {
			return ev
		}
	}
	return nil
}

// Remove returns the collection without the event with the given id and
// whether anything was removed.
func (es Events) Remove(id string) (Events, bool) {
	out := make(Events, 0, len(es))
	removed := false
	for _, ev := range es {
		if ev.ID == id {
			removed = true
			continue
		}
		out = append(out, ev)
	}
	return out, removed
}

// OwnedBy keeps only events created by ownerID.
func (es Events) OwnedBy(ownerID int64) Events {
	out := make(Events, 0, len(es))
	for _, ev := range es {
		if ev.Owner.ID == ownerID {
			out = append(out, ev)
		}
	}
	return out
}

// SortByDate orders the collection ascending by date and time.
func (es Events) SortByDate() {
	sort.SliceStable(es, func(i, j int) bool {
		return es[i].DateTime.Before(es[j].DateTime)
	})
}

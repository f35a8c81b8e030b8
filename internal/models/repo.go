package models

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/meetbot/internal/helpers"
)

var Validate = newValidator()

var (
	ErrEventNotFound = errors.New("event not found")
	ErrSaveFailed    = errors.New("event not saved")
)

// EventStore reads and overwrites the whole event collection.
type EventStore interface {
	ReadAll(ctx context.Context) (Events, error)
	WriteAll(ctx context.Context, events Events) error
}

func newValidator() *validator.Validate {
	v := validator.New()
	// same rule the event form applies to payment link answers
	_ = v.RegisterValidation("payment_url", func(fl validator.FieldLevel) bool {
		return helpers.ValidateURL(fl.Field().String())
	})
	v.RegisterStructValidation(eventStructLevel, Event{})
	return v
}

func eventStructLevel(sl validator.StructLevel) {
	ev := sl.Current().Interface().(Event)
	// a priced event needs somewhere to pay
	if ev.Price > 0 && !ev.HasPaymentLink() {
		sl.ReportError(ev.PaymentLink, "PaymentLink", "paymentLink", "required_with_price", "")
	}
	if ev.MaxAttendees > 0 && len(ev.Attendees) > ev.MaxAttendees {
		sl.ReportError(ev.MaxAttendees, "MaxAttendees", "maxAttendees", "fits_attendees", "")
	}
}

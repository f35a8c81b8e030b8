package services

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/joshua-takyi/meetbot/internal/conversation"
	"github.com/joshua-takyi/meetbot/internal/helpers"
	"github.com/joshua-takyi/meetbot/internal/models"
)

const (
	promptDonated = "Have you already donated? (yes/no)"
	errYesNo      = "Please answer with 'yes' or 'no'."
)

// eventForm holds the raw, already validated answers of the event form.
type eventForm struct {
	name         string
	date         string
	time         string
	place        string
	address      string
	maxAttendees string
	price        string
	paymentLink  string
}

type formStep struct {
	prompt   string
	current  string
	validate conversation.Validator
	errMsg   string
	dst      *string
}

func (s formStep) question(updating bool) string {
	if !updating {
		return s.prompt
	}
	return fmt.Sprintf("New %s (currently: %s)", lowerFirst(s.prompt), s.current)
}

// askEventForm asks every field in order. With a non-nil current event the
// prompts show its values as hints.
func (es *EventService) askEventForm(ctx context.Context, chatID int64, current *models.Event) (*eventForm, error) {
	form := &eventForm{}
	updating := current != nil
	cur := current
	if cur == nil {
		cur = &models.Event{}
	}
	curDate, curTime := "", ""
	if updating {
		curDate, curTime = helpers.SplitDateTime(cur.DateTime.In(es.Location()))
	}

	steps := []formStep{
		{"Event name?", cur.Name, helpers.ValidateNonEmpty, "⚠️ Name cannot be empty.", &form.name},
		{"Event date? (dd/mm/yy)", curDate, es.validateUpcomingDate, "⚠️ Invalid or past date. Use dd/mm/yy format.", &form.date},
		{"Event time? (hh:mm military time)", curTime, helpers.ValidateTime, "⚠️ Invalid time. Use hh:mm format (24-hour).", &form.time},
		{"Event place?", cur.Place, helpers.ValidateNonEmpty, "⚠️ Place cannot be empty.", &form.place},
		{"Address details?", cur.Address, helpers.ValidateNonEmpty, "⚠️ Address cannot be empty.", &form.address},
		{"Maximum number of attendees? Write 0 if there's no limit", strconv.Itoa(cur.MaxAttendees), capacityValidator(len(cur.Attendees)), capacityError(len(cur.Attendees)), &form.maxAttendees},
		{"Event price? Write 0 if event is free", formatPrice(cur.Price) + "€", helpers.ValidateDecimal, "⚠️ Invalid number for price.", &form.price},
	}
	for _, step := range steps {
		answer, err := es.asker.AskValidated(ctx, chatID, step.question(updating), step.validate, step.errMsg)
		if err != nil {
			return nil, err
		}
		*step.dst = answer
	}

	// the link is only mandatory once there is something to pay
	price, _ := helpers.ParseDecimal(form.price)
	link := formStep{
		prompt:   "Payment link?",
		current:  orNone(cur.PaymentLink),
		validate: helpers.ValidateURL,
		errMsg:   "⚠️ Invalid URL.",
		dst:      &form.paymentLink,
	}
	if price == 0 {
		link.prompt = "Payment link? Write - if there is none"
		link.validate = func(text string) bool {
			return helpers.IsSkipAnswer(text) || helpers.ValidateURL(text)
		}
	}
	answer, err := es.asker.AskValidated(ctx, chatID, link.question(updating), link.validate, link.errMsg)
	if err != nil {
		return nil, err
	}
	*link.dst = answer

	return form, nil
}

// capacityValidator accepts 0 (no limit) or a limit that still fits the
// people already enrolled.
func capacityValidator(enrolled int) conversation.Validator {
	return func(text string) bool {
		n, ok := helpers.ParseInt(text)
		return ok && (n == 0 || n >= enrolled)
	}
}

func capacityError(enrolled int) string {
	if enrolled == 0 {
		return "⚠️ Invalid number for attendees."
	}
	return fmt.Sprintf("⚠️ Invalid number for attendees. %d already joined, use 0 or at least %d.", enrolled, enrolled)
}

func (es *EventService) validateUpcomingDate(text string) bool {
	return helpers.ValidateDate(text) && helpers.IsFutureDateText(text, es.repo.Now())
}

// apply writes the form onto ev.
func (f *eventForm) apply(ev *models.Event, loc *time.Location) error {
	dateTime, err := helpers.ComposeDateTime(f.date, f.time, loc)
	if err != nil {
		return fmt.Errorf("invalid event date: %w", err)
	}
	maxAttendees, ok := helpers.ParseInt(f.maxAttendees)
	if !ok {
		return fmt.Errorf("invalid number for attendees: %q", f.maxAttendees)
	}
	price, ok := helpers.ParseDecimal(f.price)
	if !ok {
		return fmt.Errorf("invalid number for price: %q", f.price)
	}

	ev.Name = f.name
	ev.DateTime = dateTime
	ev.Place = f.place
	ev.Address = f.address
	ev.MaxAttendees = maxAttendees
	ev.Price = price
	ev.PaymentLink = ""
	if !helpers.IsSkipAnswer(f.paymentLink) {
		ev.PaymentLink = helpers.NormalizeURL(f.paymentLink)
	}
	return nil
}

func donationMessage(ev *models.Event) string {
	return fmt.Sprintf(
		"Please consider donating if you haven't already 🙏\n\n💳 <b><a href=\"%s\">Click here to donate %s€</a></b>",
		html.EscapeString(ev.PaymentLink), formatPrice(ev.Price),
	)
}

func isYes(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), "yes")
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func lowerFirst(s string) string {
	s = strings.TrimPrefix(s, "Event ")
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

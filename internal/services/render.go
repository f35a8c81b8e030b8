package services

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/joshua-takyi/meetbot/internal/models"
)

const (
	listDateLayout   = "Mon Jan 2 15:04"
	buttonDateLayout = "Mon, Jan 2 15:04"
)

// Selectable actions carried in button payloads.
const (
	ActionJoin   = "join"
	ActionLeave  = "leave"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// RenderEvents formats events as HTML blockquotes, one per event.
func RenderEvents(events models.Events, loc *time.Location) string {
	var b strings.Builder
	for _, ev := range events {
		b.WriteString("<blockquote expandable>")
		fmt.Fprintf(&b, "<b>🔻%s🔻</b>\n📅 %s\n📍 <b>%s</b> <i>(%s)</i>",
			html.EscapeString(strings.ToUpper(ev.Name)),
			ev.DateTime.In(loc).Format(listDateLayout),
			html.EscapeString(ev.Place),
			html.EscapeString(ev.Address),
		)
		for _, at := range ev.Attendees {
			b.WriteString("\n")
			b.WriteString(renderAttendee(at))
		}
		switch {
		case ev.Price > 0 && ev.HasPaymentLink():
			fmt.Fprintf(&b, "\n\n<b><a href=\"%s\">Click here to donate %s€</a></b>",
				html.EscapeString(ev.PaymentLink), formatPrice(ev.Price))
		case ev.Price > 0:
			fmt.Fprintf(&b, "\n🎟 %s€", formatPrice(ev.Price))
		}
		b.WriteString("</blockquote>")
	}
	return b.String()
}

func renderAttendee(at models.Attendee) string {
	name := html.EscapeString(at.DisplayName())
	if at.Username == "" {
		return "<i>" + name + "</i>"
	}
	return fmt.Sprintf("<i><a href=\"t.me/%s\">%s</a></i>", html.EscapeString(at.Username), name)
}

// SelectionMessage lists events with one button per event that triggers
// action on it.
func SelectionMessage(chatID int64, action string, events models.Events, loc *time.Location) models.OutgoingMessage {
	keyboard := make([][]models.Button, 0, len(events))
	for _, ev := range events {
		data, _ := json.Marshal(models.CallbackPayload{Action: action, EventID: ev.ID})
		keyboard = append(keyboard, []models.Button{{
			Text: fmt.Sprintf("%s - %s | 📅 %s", ev.Name, ev.Place, ev.DateTime.In(loc).Format(buttonDateLayout)),
			Data: string(data),
		}})
	}
	return models.OutgoingMessage{
		ChatID:         chatID,
		Text:           fmt.Sprintf("Which event do you want to <b>%s</b>?\n\n%s", action, RenderEvents(events, loc)),
		HTML:           true,
		DisablePreview: true,
		Keyboard:       keyboard,
	}
}

// HelpText lists the available commands; admin commands only for admins.
func HelpText(title string, isAdmin bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome to <b>%s</b>\nAvailable commands:\n", html.EscapeString(title))
	b.WriteString("/list - See all coming events\n")
	b.WriteString("/join - Join an event\n")
	b.WriteString("/leave - Leave an event you joined")
	if isAdmin {
		b.WriteString("\n<i>Only admin commands</i>\n")
		b.WriteString("/create - Create an event\n")
		b.WriteString("/update - Update an event information\n")
		b.WriteString("/delete - Delete an event\n")
		b.WriteString("/clean - Delete all past events")
	}
	return b.String()
}

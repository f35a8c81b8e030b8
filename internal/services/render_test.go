package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/joshua-takyi/meetbot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEvents(t *testing.T) {
	ev := newEvent("e1", 1)
	ev.Name = "Tom & Jerry"
	ev.DateTime = time.Date(2025, time.July, 4, 19, 5, 0, 0, time.UTC)
	ev.Place = "<Bar>"
	ev.Attendees = []models.Attendee{
		{User: models.User{ID: 2, FirstName: "Ann", Username: "ann"}},
		{User: models.User{ID: 3, FirstName: "Bo"}},
	}
	ev.Price = 7.5
	ev.PaymentLink = "https://paypal.me/x"

	out := RenderEvents(models.Events{ev}, time.UTC)
	assert.Contains(t, out, "<blockquote expandable><b>🔻TOM &amp; JERRY🔻</b>")
	assert.Contains(t, out, "📅 Fri Jul 4 19:05")
	assert.Contains(t, out, "📍 <b>&lt;Bar&gt;</b> <i>(1 Road)</i>")
	assert.Contains(t, out, `<i><a href="t.me/ann">Ann</a></i>`)
	assert.Contains(t, out, "<i>Bo</i>")
	assert.Contains(t, out, `<a href="https://paypal.me/x">Click here to donate 7.5€</a>`)

	ev.PaymentLink = ""
	assert.Contains(t, RenderEvents(models.Events{ev}, time.UTC), "🎟 7.5€")
}

func TestSelectionMessage(t *testing.T) {
	ev := newEvent("e1", 1)
	ev.DateTime = time.Date(2025, time.July, 4, 19, 5, 0, 0, time.UTC)

	msg := SelectionMessage(9, ActionJoin, models.Events{ev}, time.UTC)
	assert.Equal(t, int64(9), msg.ChatID)
	assert.True(t, msg.HTML)
	assert.Contains(t, msg.Text, "Which event do you want to <b>join</b>?")
	require.Len(t, msg.Keyboard, 1)
	assert.Equal(t, "Event e1 - Hall | 📅 Fri, Jul 4 19:05", msg.Keyboard[0][0].Text)

	var payload models.CallbackPayload
	require.NoError(t, json.Unmarshal([]byte(msg.Keyboard[0][0].Data), &payload))
	assert.Equal(t, models.CallbackPayload{Action: ActionJoin, EventID: "e1"}, payload)
}

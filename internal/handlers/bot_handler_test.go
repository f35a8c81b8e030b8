package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/joshua-takyi/meetbot/internal/conversation"
	"github.com/joshua-takyi/meetbot/internal/middleware"
	"github.com/joshua-takyi/meetbot/internal/models"
	"github.com/joshua-takyi/meetbot/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID  int64 = 100
	memberID int64 = 200
)

var testNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

type fakeMessenger struct {
	mu       sync.Mutex
	sent     []models.OutgoingMessage
	answered []string
}

func (m *fakeMessenger) Send(_ context.Context, msg models.OutgoingMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMessenger) AnswerCallback(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answered = append(m.answered, id)
	return nil
}

func (m *fakeMessenger) messages() []models.OutgoingMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.OutgoingMessage(nil), m.sent...)
}

func (m *fakeMessenger) last() models.OutgoingMessage {
	msgs := m.messages()
	if len(msgs) == 0 {
		return models.OutgoingMessage{}
	}
	return msgs[len(msgs)-1]
}

type botFixture struct {
	store     *models.MemoryStore
	messenger *fakeMessenger
	engine    *conversation.Engine
	service   *services.EventService
	handler   *BotHandler
}

func newBotFixture(t *testing.T, events ...*models.Event) *botFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &botFixture{
		store:     models.NewMemoryStore(),
		messenger: &fakeMessenger{},
	}
	require.NoError(t, f.store.WriteAll(context.Background(), events))

	repo := models.NewEventRepo(f.store, logger, func() time.Time { return testNow })
	f.engine = conversation.NewEngine(f.messenger, logger)
	f.service = services.NewEventService(repo, f.engine, f.messenger, logger)
	f.handler = NewBotHandler(f.engine, f.service, f.messenger, middleware.NewAdmins([]int64{adminID}), "Meetups", logger)
	return f
}

func (f *botFixture) message(chatID, userID int64, text string) {
	f.handler.Handle(context.Background(), &models.BotRequest{
		ChatID: chatID,
		From:   models.User{ID: userID, FirstName: "User"},
		Text:   text,
	})
}

func (f *botFixture) press(chatID, userID int64, data string) {
	f.handler.Handle(context.Background(), &models.BotRequest{
		ChatID:       chatID,
		From:         models.User{ID: userID, FirstName: "User"},
		CallbackID:   "cb-1",
		CallbackData: data,
	})
}

// answer waits for chatID's pending question and replies to it.
func (f *botFixture) answer(t *testing.T, chatID int64, text string) {
	t.Helper()
	require.Eventually(t, func() bool { return f.engine.Pending(chatID) }, time.Second, time.Millisecond)
	f.message(chatID, adminID, text)
}

func payload(action, id string) string {
	data, _ := json.Marshal(models.CallbackPayload{Action: action, EventID: id})
	return string(data)
}

func storedEvent(id string, owner int64) *models.Event {
	ev := models.NewEvent(models.User{ID: owner, FirstName: "Owner"})
	ev.ID = id
	ev.Name = "Meetup " + id
	ev.DateTime = testNow.AddDate(0, 0, 7)
	ev.Place = "Cafe"
	ev.Address = "2 Lane"
	return ev
}

func TestCreateConversation(t *testing.T) {
	f := newBotFixture(t)

	f.message(adminID, adminID, "/create")
	for _, text := range []string{"Picnic", "25/12/99", "18:30", "Park", "Main st", "0", "0", "-"} {
		f.answer(t, adminID, text)
	}
	f.handler.Wait()
	assert.Equal(t, msgCreated, f.messenger.last().Text)

	f.message(adminID, memberID, "/list")
	f.handler.Wait()
	last := f.messenger.last()
	assert.True(t, last.HTML)
	assert.Contains(t, last.Text, "PICNIC")
	assert.Contains(t, last.Text, "Fri Dec 25 18:30")
}

func TestPendingQuestionTakesCommands(t *testing.T) {
	f := newBotFixture(t)

	f.message(adminID, adminID, "/create")
	f.answer(t, adminID, "/list")
	require.Eventually(t, func() bool {
		return f.messenger.last().Text == "Event date? (dd/mm/yy)"
	}, time.Second, time.Millisecond)

	for _, msg := range f.messenger.messages() {
		assert.NotEqual(t, msgNoEvents, msg.Text, "the command was consumed as an answer")
	}

	// a new command does not start anything while the form is open
	f.answer(t, adminID, "/clean")
	require.Eventually(t, func() bool {
		return f.messenger.last().Text == "Event date? (dd/mm/yy)" && f.engine.Pending(adminID)
	}, time.Second, time.Millisecond)
	assert.Len(t, f.service.ListEvents(context.Background()), 0)
}

func TestNonAdminCannotDelete(t *testing.T) {
	f := newBotFixture(t, storedEvent("e1", adminID))

	f.message(memberID, memberID, "/delete")
	f.handler.Wait()
	assert.Equal(t, "Admins only!", f.messenger.last().Text)

	f.press(memberID, memberID, payload(services.ActionDelete, "e1"))
	f.handler.Wait()
	assert.Equal(t, "Admins only!", f.messenger.last().Text)
	assert.Len(t, f.service.ListEvents(context.Background()), 1)
}

func TestDeleteOffersOwnEventsOnly(t *testing.T) {
	f := newBotFixture(t, storedEvent("mine", adminID), storedEvent("other", 300))

	f.message(adminID, adminID, "/delete")
	f.handler.Wait()
	sel := f.messenger.last()
	require.Len(t, sel.Keyboard, 1)
	assert.Equal(t, payload(services.ActionDelete, "mine"), sel.Keyboard[0][0].Data)
	assert.True(t, strings.HasPrefix(sel.Text, "Which event do you want to <b>delete</b>?"))

	f.press(adminID, adminID, payload(services.ActionDelete, "other"))
	f.handler.Wait()
	assert.Equal(t, msgNotFound, f.messenger.last().Text)

	f.press(adminID, adminID, payload(services.ActionDelete, "mine"))
	f.handler.Wait()
	assert.Equal(t, msgDeleted, f.messenger.last().Text)

	remaining := f.service.ListEvents(context.Background())
	require.Len(t, remaining, 1)
	assert.Equal(t, "other", remaining[0].ID)
}

func TestJoinAndLeaveCallbacks(t *testing.T) {
	ev := storedEvent("e1", adminID)
	ev.MaxAttendees = 1
	f := newBotFixture(t, ev)

	f.press(memberID, memberID, payload(services.ActionJoin, "e1"))
	f.handler.Wait()
	assert.Equal(t, msgJoined, f.messenger.last().Text)
	assert.Contains(t, f.messenger.answered, "cb-1")

	f.press(memberID, memberID, payload(services.ActionJoin, "e1"))
	f.handler.Wait()
	assert.Equal(t, msgFull, f.messenger.last().Text)

	f.press(300, 300, payload(services.ActionLeave, "e1"))
	f.handler.Wait()
	assert.Equal(t, msgNotEnrolled, f.messenger.last().Text)

	f.press(memberID, memberID, payload(services.ActionLeave, "e1"))
	f.handler.Wait()
	assert.Equal(t, msgLeft, f.messenger.last().Text)
}

func TestMalformedCallback(t *testing.T) {
	f := newBotFixture(t, storedEvent("e1", adminID))

	f.press(memberID, memberID, "{not json")
	f.handler.Wait()
	assert.Equal(t, msgNotRecognized, f.messenger.last().Text)

	f.press(memberID, memberID, payload("explode", "e1"))
	f.handler.Wait()
	assert.Equal(t, msgNotRecognized, f.messenger.last().Text)
}

func TestStartAndEmptyList(t *testing.T) {
	f := newBotFixture(t)

	f.message(memberID, memberID, "/start")
	f.handler.Wait()
	help := f.messenger.last().Text
	assert.Contains(t, help, "Meetups")
	assert.NotContains(t, help, "/create")

	f.message(adminID, adminID, "/START@MeetBot")
	f.handler.Wait()
	assert.Contains(t, f.messenger.last().Text, "/create")

	f.message(memberID, memberID, "/join")
	f.handler.Wait()
	assert.Equal(t, msgNoEvents, f.messenger.last().Text)

	before := len(f.messenger.messages())
	f.message(memberID, memberID, "hello there")
	f.message(memberID, memberID, "/unknown")
	f.handler.Wait()
	assert.Len(t, f.messenger.messages(), before)
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"/create", "create", true},
		{"/Create@Bot now", "create", true},
		{"  /list  ", "list", true},
		{"list", "", false},
		{"/", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := parseCommand(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

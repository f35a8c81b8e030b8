package models

import "context"

// Button is one inline keyboard button; Data is echoed back in a callback.
type Button struct {
	Text string
	Data string
}

// OutgoingMessage is a transport-neutral chat message.
type OutgoingMessage struct {
	ChatID         int64
	Text           string
	HTML           bool
	DisablePreview bool
	Keyboard       [][]Button
}

// Messenger delivers messages to a chat.
type Messenger interface {
	Send(ctx context.Context, msg OutgoingMessage) error
}

// CallbackAnswerer is implemented by messengers that must acknowledge
// button presses.
type CallbackAnswerer interface {
	AnswerCallback(ctx context.Context, callbackID string) error
}

// BotRequest is an inbound message or button press.
type BotRequest struct {
	UpdateID int
	ChatID   int64
	From     User
	// Text is set for messages.
	Text string
	// CallbackID and CallbackData are set for button presses.
	CallbackID   string
	CallbackData string
	// EventID is filled in from the callback payload once decoded.
	EventID string
}

// WithEventID returns a copy of r targeting eventID.
func (r *BotRequest) WithEventID(eventID string) *BotRequest {
	out := *r
	out.EventID = eventID
	return &out
}

// IsCallback reports whether the request comes from an inline button.
func (r *BotRequest) IsCallback() bool {
	return r.CallbackID != ""
}

// CallbackPayload is the JSON carried by event selection buttons.
type CallbackPayload struct {
	Action  string `json:"action"`
	EventID string `json:"eventId"`
}

// Package conversation routes each chat's next message to the question that
// chat is waiting on, so a workflow can be written as a straight sequence of
// Ask calls.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/joshua-takyi/meetbot/internal/models"
)

// ErrSuperseded is returned by Ask when a newer question on the same chat
// replaced it before an answer arrived.
var ErrSuperseded = errors.New("question superseded by a newer one")

// Validator reports whether an answer is acceptable.
type Validator func(answer string) bool

type pending struct {
	answer     chan string
	superseded chan struct{}
}

// Engine holds at most one pending question per chat.
type Engine struct {
	messenger models.Messenger
	logger    *slog.Logger

	mu      sync.Mutex
	pending map[int64]*pending
}

func NewEngine(messenger models.Messenger, logger *slog.Logger) *Engine {
	return &Engine{
		messenger: messenger,
		logger:    logger,
		pending:   make(map[int64]*pending),
	}
}

// Ask sends prompt to chatID and blocks until the chat's next message, then
// returns its trimmed text. A later Ask on the same chat takes over the
// chat and this call returns ErrSuperseded.
func (e *Engine) Ask(ctx context.Context, chatID int64, prompt string) (string, error) {
	p := e.register(chatID)

	if err := e.messenger.Send(ctx, models.OutgoingMessage{ChatID: chatID, Text: prompt}); err != nil {
		e.unregister(chatID, p)
		return "", fmt.Errorf("failed to send question: %w", err)
	}

	select {
	case text := <-p.answer:
		return strings.TrimSpace(text), nil
	case <-p.superseded:
		return "", ErrSuperseded
	case <-ctx.Done():
		e.unregister(chatID, p)
		return "", ctx.Err()
	}
}

// AskValidated repeats prompt until validate accepts the answer, sending
// errorMessage after each rejected one. There is no retry limit.
func (e *Engine) AskValidated(ctx context.Context, chatID int64, prompt string, validate Validator, errorMessage string) (string, error) {
	for {
		answer, err := e.Ask(ctx, chatID, prompt)
		if err != nil {
			return "", err
		}
		if validate(answer) {
			return answer, nil
		}
		if err := e.messenger.Send(ctx, models.OutgoingMessage{ChatID: chatID, Text: errorMessage}); err != nil {
			return "", fmt.Errorf("failed to send validation error: %w", err)
		}
	}
}

// Resolve hands text to the chat's pending question and clears it. It
// returns false when nothing was waiting.
func (e *Engine) Resolve(chatID int64, text string) bool {
	e.mu.Lock()
	p, ok := e.pending[chatID]
	if ok {
		delete(e.pending, chatID)
	}
	e.mu.Unlock()

	if !ok {
		return false
	}
	p.answer <- text
	return true
}

// Pending reports whether chatID is waiting for an answer.
func (e *Engine) Pending(chatID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.pending[chatID]
	return ok
}

func (e *Engine) register(chatID int64) *pending {
	p := &pending{
		answer:     make(chan string, 1),
		superseded: make(chan struct{}),
	}

	e.mu.Lock()
	prev := e.pending[chatID]
	e.pending[chatID] = p
	e.mu.Unlock()

	if prev != nil {
		e.logger.Debug("Pending question overwritten", "chat_id", chatID)
		close(prev.superseded)
	}
	return p
}

func (e *Engine) unregister(chatID int64, p *pending) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending[chatID] == p {
		delete(e.pending, chatID)
	}
}

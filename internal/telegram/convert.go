package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joshua-takyi/meetbot/internal/models"
)

// ToBotRequest keeps text messages and button presses; everything else is
// dropped.
func ToBotRequest(update tgbotapi.Update) (*models.BotRequest, bool) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if cb.From == nil {
			return nil, false
		}
		chatID := cb.From.ID
		if cb.Message != nil && cb.Message.Chat != nil {
			chatID = cb.Message.Chat.ID
		}
		return &models.BotRequest{
			UpdateID:     update.UpdateID,
			ChatID:       chatID,
			From:         toUser(cb.From),
			CallbackID:   cb.ID,
			CallbackData: cb.Data,
		}, true

	case update.Message != nil:
		msg := update.Message
		if msg.From == nil || msg.Chat == nil || msg.Text == "" {
			return nil, false
		}
		return &models.BotRequest{
			UpdateID: update.UpdateID,
			ChatID:   msg.Chat.ID,
			From:     toUser(msg.From),
			Text:     msg.Text,
		}, true
	}
	return nil, false
}

func toUser(u *tgbotapi.User) models.User {
	return models.User{
		ID:           u.ID,
		IsBot:        u.IsBot,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     u.UserName,
		LanguageCode: u.LanguageCode,
	}
}

// NewMessageConfig converts msg into a Bot API send request.
func NewMessageConfig(msg models.OutgoingMessage) tgbotapi.MessageConfig {
	m := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	if msg.HTML {
		m.ParseMode = tgbotapi.ModeHTML
	}
	m.DisableWebPagePreview = msg.DisablePreview
	if len(msg.Keyboard) > 0 {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(msg.Keyboard))
		for _, row := range msg.Keyboard {
			buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
		}
		m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	return m
}

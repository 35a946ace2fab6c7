package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/fitness-helper/internal/bot/flow"
	"github.com/vladimiradmaev/fitness-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/fitness-helper/internal/bot/menus"
	"github.com/vladimiradmaev/fitness-helper/internal/logger"
)

const (
	nonTextReply = "Пожалуйста, используйте кнопки меню или отправьте текст."
	busyReply    = "⏳ Ещё обрабатываю предыдущие сообщения, повторите чуть позже."
)

// UpdateHandler turns telegram updates into conversation turns and sends the prompts back
type UpdateHandler struct {
	sender  Sender
	machine TurnHandler
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(sender Sender, machine TurnHandler) *UpdateHandler {
	return &UpdateHandler{
		sender:  sender,
		machine: machine,
	}
}

// UserID returns the author of an update the bot reacts to
func UserID(update tgbotapi.Update) (int64, bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.From.ID, true
	}
	return 0, false
}

func chatOf(update tgbotapi.Update) (int64, bool) {
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil:
		return update.CallbackQuery.Message.Chat.ID, true
	}
	return 0, false
}

// Busy tells the author that the update was not processed and keeps their keyboard
func (h *UpdateHandler) Busy(update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		if _, err := h.sender.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, "")); err != nil {
			logger.Warn("Failed to answer callback query", "error", err)
		}
	}
	id, ok := chatOf(update)
	if !ok {
		return nil
	}
	return h.send(id, menus.Text(busyReply))
}

func displayName(user *tgbotapi.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = user.UserName
	}
	return name
}

// Handle processes a telegram update
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	var (
		chatID int64
		from   *tgbotapi.User
		text   string
	)

	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		// Answer callback query to remove loading state
		if _, err := h.sender.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, "")); err != nil {
			logger.Warn("Failed to answer callback query", "error", err)
		}
		chatID = update.CallbackQuery.Message.Chat.ID
		from = update.CallbackQuery.From
		text = update.CallbackQuery.Data
	case update.Message != nil && update.Message.From != nil:
		chatID = update.Message.Chat.ID
		from = update.Message.From
		text = update.Message.Text
		if text == "" {
			return h.send(chatID, menus.Text(nonTextReply))
		}
	default:
		return nil
	}

	prompts, turnErr := h.machine.Handle(ctx, flow.Event{
		UserID:      from.ID,
		DisplayName: displayName(from),
		Text:        text,
	})
	for _, prompt := range prompts {
		if err := h.send(chatID, prompt); err != nil {
			return err
		}
	}
	if turnErr != nil {
		return fmt.Errorf("turn failed: %w", turnErr)
	}
	return nil
}

func (h *UpdateHandler) send(chatID int64, prompt menus.Prompt) error {
	markup, hasMarkup := keyboards.Reply(prompt.Options)

	if prompt.Attachment != nil {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  prompt.Attachment.FileName,
			Bytes: prompt.Attachment.Data,
		})
		doc.Caption = prompt.Text
		if hasMarkup {
			doc.ReplyMarkup = markup
		}
		if _, err := h.sender.Send(doc); err != nil {
			return fmt.Errorf("failed to send document: %w", err)
		}
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, prompt.Text)
	if hasMarkup {
		msg.ReplyMarkup = markup
	}
	if _, err := h.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

package keyboards

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Reply converts prompt options into a reply keyboard.
// Nil options keep whatever keyboard the user already has, so ok is false.
func Reply(options [][]string) (markup interface{}, ok bool) {
	if options == nil {
		return nil, false
	}
	if len(options) == 0 {
		return tgbotapi.NewRemoveKeyboard(true), true
	}

	rows := make([][]tgbotapi.KeyboardButton, 0, len(options))
	for _, labels := range options {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(labels))
		for _, label := range labels {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(buttons...))
	}

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard, true
}

package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/fitness-helper/internal/bot/flow"
	"github.com/vladimiradmaev/fitness-helper/internal/bot/menus"
)

// Sender is the part of tgbotapi.BotAPI used to answer users
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// TurnHandler runs one conversation turn
type TurnHandler interface {
	Handle(ctx context.Context, ev flow.Event) ([]menus.Prompt, error)
}

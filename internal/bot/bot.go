package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/fitness-helper/internal/bot/handlers"
	"github.com/vladimiradmaev/fitness-helper/internal/logger"
	"github.com/vladimiradmaev/fitness-helper/internal/metrics"
)

type Bot struct {
	api        *tgbotapi.BotAPI
	dispatcher *Dispatcher
}

func NewBot(token string, machine handlers.TurnHandler, metricsManager *metrics.Manager, mailboxSize int) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot authorized", "username", api.Self.UserName)
	updateHandler := handlers.NewUpdateHandler(api, machine)
	return &Bot{
		api:        api,
		dispatcher: NewDispatcher(updateHandler, metricsManager, mailboxSize),
	}, nil
}

func (b *Bot) registerCommands() {
	cmd := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Начать заново"},
		tgbotapi.BotCommand{Command: "menu", Description: "Главное меню"},
		tgbotapi.BotCommand{Command: "help", Description: "Как вводить подходы"},
	)
	if _, err := b.api.Request(cmd); err != nil {
		logger.Warn("Failed to register bot commands", "error", err)
	}
}

// Start long-polls telegram until ctx is cancelled, then waits for queued updates
func (b *Bot) Start(ctx context.Context) error {
	b.registerCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down")
			b.api.StopReceivingUpdates()
			b.dispatcher.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				b.dispatcher.Wait()
				return nil
			}
			if update.Message != nil && update.Message.From != nil {
				logger.Debug("Received message", "user_id", update.Message.From.ID)
			}
			b.dispatcher.Dispatch(ctx, update)
		}
	}
}

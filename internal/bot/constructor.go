package bot

import (
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// NewBot creates a new Telegram bot
func NewBot(token string, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		if deps.Logger != nil {
			deps.Logger.Error("Failed to create bot API", zap.Error(err))
		}
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := newBot(api, deps)
	b.logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))
	return b, nil
}

// newBot wires a bot around any messenger implementation
func newBot(api messenger, deps Deps) *Bot {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Bot{
		api:        api,
		catalog:    deps.Catalog,
		tracker:    deps.Tracker,
		admins:     deps.Admins,
		intake:     deps.Intake,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		logger:     logger,
	}
}

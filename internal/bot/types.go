package bot

import (
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"coursebot/internal/auth"
	"coursebot/internal/intake"
	"coursebot/internal/progress"
	"coursebot/internal/storage"
)

// Bot routes Telegram updates to the course catalog, progress tracker and file intake
type Bot struct {
	api        messenger
	catalog    storage.Store
	tracker    *progress.Tracker
	admins     *auth.AdminSet
	intake     *intake.Intake
	httpClient *http.Client
	logger     *zap.Logger
}

// messenger is the subset of *tgbotapi.BotAPI used by the bot
type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
	GetWebhookInfo() (tgbotapi.WebhookInfo, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Deps groups the collaborators injected into the bot
type Deps struct {
	Catalog storage.Store
	Tracker *progress.Tracker
	Admins  *auth.AdminSet
	Intake  *intake.Intake
	Logger  *zap.Logger
}

// reply is the text and optional inline keyboard produced by a handler
type reply struct {
	text     string
	keyboard *tgbotapi.InlineKeyboardMarkup
}

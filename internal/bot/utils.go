package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// sendMessage sends a chattable and logs delivery failures
func (b *Bot) sendMessage(c tgbotapi.Chattable) {
	if b.api == nil {
		return
	}
	if _, err := b.api.Send(c); err != nil {
		b.logger.Warn("Failed to send message", zap.Error(err))
	}
}

// answerCallback acknowledges a button press
func (b *Bot) answerCallback(queryID string) {
	if b.api == nil || queryID == "" {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(queryID, "")); err != nil {
		b.logger.Warn("Failed to answer callback query", zap.Error(err), zap.String("query_id", queryID))
	}
}

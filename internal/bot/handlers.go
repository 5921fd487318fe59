package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const internalErrorText = "An error occurred while processing your request. Please try again."

// HandleUpdate routes a single update and delivers the reply.
// Reply delivery failures are logged, not returned. A panic inside a handler
// is recovered and returned as an error after the user is told something went wrong.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) (err error) {
	ev := decodeUpdate(update)
	if ev == nil {
		b.logger.Debug("Ignoring update", zap.Int("update_id", update.UpdateID))
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic while handling update",
				zap.Int("update_id", update.UpdateID),
				zap.String("user_id", ev.origin().userID),
				zap.Any("panic", r),
			)
			b.sendMessage(tgbotapi.NewMessage(ev.origin().chatID, internalErrorText))
			err = fmt.Errorf("panic while handling update %d: %v", update.UpdateID, r)
		}
	}()

	if press, ok := ev.(buttonPress); ok {
		// Answer the callback query to remove loading state
		b.answerCallback(press.queryID)
	}

	rep := b.route(ctx, ev)
	if rep == nil {
		return nil
	}
	b.deliver(ev, rep)
	return nil
}

// route dispatches an event to its handler; a nil reply means nothing is sent
func (b *Bot) route(ctx context.Context, ev event) *reply {
	switch e := ev.(type) {
	case startEvent:
		return b.handleStart()
	case commandEvent:
		switch e.name {
		case "update_progress":
			return b.handleUpdateProgress(ctx, e)
		case "add_course":
			return b.handleAddCourse(ctx, e)
		default:
			return &reply{text: "Unknown command. Use /start to see available options."}
		}
	case buttonPress:
		return b.handleCallback(ctx, e)
	case documentEvent:
		return b.handleDocument(ctx, e)
	}
	return nil
}

// deliver edits the pressed message for button presses and sends a new message otherwise
func (b *Bot) deliver(ev event, rep *reply) {
	if press, ok := ev.(buttonPress); ok && press.messageID != 0 {
		if rep.keyboard != nil {
			b.sendMessage(tgbotapi.NewEditMessageTextAndMarkup(press.chatID, press.messageID, rep.text, *rep.keyboard))
		} else {
			b.sendMessage(tgbotapi.NewEditMessageText(press.chatID, press.messageID, rep.text))
		}
		return
	}

	msg := tgbotapi.NewMessage(ev.origin().chatID, rep.text)
	if rep.keyboard != nil {
		msg.ReplyMarkup = *rep.keyboard
	}
	b.sendMessage(msg)
}

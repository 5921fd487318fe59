package bot

import (
	"strconv"
	"strings"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mattn/go-shellwords"

	"coursebot/internal/models"
)

// event is one inbound update reduced to the cases the router handles
type event interface {
	origin() sender
}

// sender identifies who sent an event and where replies go
type sender struct {
	chatID int64
	userID string
}

func (s sender) origin() sender { return s }

// startEvent is the /start command
type startEvent struct {
	sender
}

// commandEvent is any other slash command with its raw argument text
type commandEvent struct {
	sender
	name string
	args string
}

// buttonPress is an inline keyboard click
type buttonPress struct {
	sender
	queryID   string
	messageID int
	data      string
}

// documentEvent is a message carrying a file attachment
type documentEvent struct {
	sender
	doc models.Document
}

// decodeUpdate maps an update to an event; it returns nil for updates the bot ignores
func decodeUpdate(update tgbotapi.Update) event {
	if query := update.CallbackQuery; query != nil {
		if query.From == nil {
			return nil
		}
		press := buttonPress{
			sender:  sender{chatID: query.From.ID, userID: formatUserID(query.From.ID)},
			queryID: query.ID,
			data:    query.Data,
		}
		if query.Message != nil {
			press.chatID = query.Message.Chat.ID
			press.messageID = query.Message.MessageID
		}
		return press
	}

	message := update.Message
	if message == nil || message.From == nil || message.Chat == nil {
		return nil
	}
	from := sender{chatID: message.Chat.ID, userID: formatUserID(message.From.ID)}

	if message.Document != nil {
		return documentEvent{
			sender: from,
			doc: models.Document{
				FileID:   message.Document.FileID,
				FileName: message.Document.FileName,
				Size:     int64(message.Document.FileSize),
				MimeType: message.Document.MimeType,
			},
		}
	}

	if message.IsCommand() {
		name := message.Command()
		if name == "start" {
			return startEvent{sender: from}
		}
		return commandEvent{sender: from, name: name, args: message.CommandArguments()}
	}

	return nil
}

// splitLeadingArg takes the first argument shell-style, so quoted or
// backslash-escaped spaces stay inside it, and returns the remaining text
// untouched. A first word the shell parser rejects or stops early on
// (unbalanced quotes, bare ; & | < >) is taken as plain text.
func splitLeadingArg(raw string) (arg, rest string) {
	raw = strings.TrimLeftFunc(raw, unicode.IsSpace)
	if raw == "" {
		return "", ""
	}

	end := leadingTokenEnd(raw)
	parser := shellwords.NewParser()
	args, err := parser.Parse(raw[:end])
	if err == nil && parser.Position < 0 && len(args) == 1 {
		return args[0], raw[end:]
	}

	end = strings.IndexFunc(raw, unicode.IsSpace)
	if end < 0 {
		return raw, ""
	}
	return raw[:end], raw[end:]
}

// leadingTokenEnd returns the index of the first whitespace outside quotes and escapes
func leadingTokenEnd(raw string) int {
	var escaped, single, double bool
	for i, r := range raw {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && !single:
			escaped = true
		case r == '\'' && !double:
			single = !single
		case r == '"' && !single:
			double = !double
		case unicode.IsSpace(r) && !single && !double:
			return i
		}
	}
	return len(raw)
}

// normalizeSpace collapses whitespace runs to single spaces
func normalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func formatUserID(id int64) string {
	return strconv.FormatInt(id, 10)
}

package bot

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"coursebot/internal/auth"
	"coursebot/internal/intake"
	"coursebot/internal/models"
	"coursebot/internal/progress"
	"coursebot/internal/storage"
	"coursebot/internal/storage/memory"
)

const (
	adminID  = int64(100)
	memberID = int64(200)
)

var seedCourses = []string{"Prayer Basics", "Psalms Intro", "Church History"}

// fakeMessenger records everything the bot sends to Telegram
type fakeMessenger struct {
	mu          sync.Mutex
	sent        []tgbotapi.Chattable
	requests    []tgbotapi.Chattable
	sendErr     error
	requestErr  error
	fileURL     string
	fileErr     error
	webhookInfo tgbotapi.WebhookInfo
	updates     chan tgbotapi.Update
	stopped     bool
}

func (f *fakeMessenger) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.sendErr
}

func (f *fakeMessenger) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeMessenger) GetFileDirectURL(fileID string) (string, error) {
	return f.fileURL, f.fileErr
}

func (f *fakeMessenger) GetWebhookInfo() (tgbotapi.WebhookInfo, error) {
	return f.webhookInfo, nil
}

func (f *fakeMessenger) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeMessenger) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

// lastSent returns the most recent outgoing chattable
func (f *fakeMessenger) lastSent(t *testing.T) tgbotapi.Chattable {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatal("Expected a message to be sent")
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeMessenger) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// recordingLog is an in-memory storage.ProgressLog
type recordingLog struct {
	mu      sync.Mutex
	entries []models.ProgressEntry
	err     error
}

func (l *recordingLog) AppendRow(ctx context.Context, entry models.ProgressEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.err != nil {
		return l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return nil
}

func (l *recordingLog) Close() error { return nil }

// memFiles is an in-memory storage.FileStore
type memFiles struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memFiles) Save(ctx context.Context, key string, content io.Reader) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = data
	return nil
}

// panicStore panics on catalog reads
type panicStore struct {
	*memory.Store
}

func (p panicStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	panic("catalog exploded")
}

type testEnv struct {
	bot   *Bot
	api   *fakeMessenger
	log   *recordingLog
	store *memory.Store
	files *memFiles
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, nil)
}

// newTestEnvWithStore builds a bot; a nil catalog uses the memory store
func newTestEnvWithStore(t *testing.T, catalog storage.Store) *testEnv {
	t.Helper()
	store := memory.NewStore(seedCourses)
	if catalog == nil {
		catalog = store
	}
	log := &recordingLog{}
	files := &memFiles{files: make(map[string][]byte)}
	admins := auth.NewAdminSet([]string{formatUserID(adminID)})
	api := &fakeMessenger{}

	b := newBot(api, Deps{
		Catalog: catalog,
		Tracker: progress.NewTracker(store, log, time.Second),
		Admins:  admins,
		Intake:  intake.New(admins, files),
		Logger:  zap.NewNop(),
	})
	return &testEnv{bot: b, api: api, log: log, store: store, files: files}
}

// commandUpdate builds a message update whose text starts with a bot command
func commandUpdate(userID int64, text string) tgbotapi.Update {
	commandLength := len(text)
	if i := strings.Index(text, " "); i >= 0 {
		commandLength = i
	}
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: userID},
			Chat:      &tgbotapi.Chat{ID: userID},
			Text:      text,
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: commandLength},
			},
		},
	}
}

// callbackUpdate builds a button press on message 10 of the user's chat
func callbackUpdate(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 2,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "query-1",
			From: &tgbotapi.User{ID: userID},
			Message: &tgbotapi.Message{
				MessageID: 10,
				Chat:      &tgbotapi.Chat{ID: userID},
			},
			Data: data,
		},
	}
}

func documentUpdate(userID int64, doc tgbotapi.Document) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 3,
		Message: &tgbotapi.Message{
			MessageID: 5,
			From:      &tgbotapi.User{ID: userID},
			Chat:      &tgbotapi.Chat{ID: userID},
			Document:  &doc,
		},
	}
}

// textOf extracts the text of an outgoing message or edit
func textOf(t *testing.T, c tgbotapi.Chattable) string {
	t.Helper()
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		return m.Text
	case tgbotapi.EditMessageTextConfig:
		return m.Text
	}
	t.Fatalf("Unexpected chattable %T", c)
	return ""
}

// keyboardOf extracts the inline keyboard of an outgoing message or edit
func keyboardOf(t *testing.T, c tgbotapi.Chattable) *tgbotapi.InlineKeyboardMarkup {
	t.Helper()
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		if kb, ok := m.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); ok {
			return &kb
		}
		return nil
	case tgbotapi.EditMessageTextConfig:
		return m.ReplyMarkup
	}
	t.Fatalf("Unexpected chattable %T", c)
	return nil
}

// callbackData flattens a keyboard into rows of callback identifiers
func callbackData(kb *tgbotapi.InlineKeyboardMarkup) [][]string {
	if kb == nil {
		return nil
	}
	var rows [][]string
	for _, row := range kb.InlineKeyboard {
		var ids []string
		for _, button := range row {
			if button.CallbackData != nil {
				ids = append(ids, *button.CallbackData)
			}
		}
		rows = append(rows, ids)
	}
	return rows
}

var errBoom = errors.New("boom")

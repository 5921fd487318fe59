package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// maxWebhookBody caps the size of one webhook payload
const maxWebhookBody = 1 << 20

// HTTPServer exposes the webhook ingress and the service endpoints
type HTTPServer struct {
	bot             *Bot
	webhookPath     string
	webhookEndpoint string // Full external URL registered by /set_webhook
	webhookMode     bool
}

// NewHTTPServer creates the HTTP handlers for the bot
func NewHTTPServer(bot *Bot, webhookPath, webhookEndpoint string, webhookMode bool) *HTTPServer {
	return &HTTPServer{
		bot:             bot,
		webhookPath:     webhookPath,
		webhookEndpoint: webhookEndpoint,
		webhookMode:     webhookMode,
	}
}

// RegisterRoutes registers the bot routes on the provided mux
func (hs *HTTPServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", hs.handleHealth)
	mux.HandleFunc("/set_webhook", hs.handleSetWebhook)
	mux.HandleFunc("/", hs.handleRoot)
	if hs.webhookPath != "/" {
		mux.HandleFunc(hs.webhookPath, hs.handleWebhook)
	}
}

// handleHealth is the health check endpoint
func (hs *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// handleRoot serves liveness text, and the webhook when it is mounted at "/"
func (hs *HTTPServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if hs.webhookPath == "/" && r.URL.Path == "/" && r.Method == http.MethodPost {
		hs.handleWebhook(w, r)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	mode := "polling"
	if hs.webhookMode {
		mode = "webhook"
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "Course Progress Bot is running (mode: %s)", mode)
}

// handleSetWebhook registers the webhook URL with Telegram
func (hs *HTTPServer) handleSetWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if hs.webhookEndpoint == "" {
		http.Error(w, "Webhook URL is not configured", http.StatusBadRequest)
		return
	}

	url, err := hs.bot.SetWebhook(hs.webhookEndpoint)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to set webhook: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "Webhook set to %s", url)
}

// handleWebhook decodes one Telegram update and processes it before responding
func (hs *HTTPServer) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Keep serving after any failure in processing
	defer func() {
		if rec := recover(); rec != nil {
			hs.bot.logger.Error("Recovered from panic in webhook handler", zap.Any("panic", rec))
			http.Error(w, fmt.Sprintf("internal error: %v", rec), http.StatusInternalServerError)
		}
	}()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		hs.bot.logger.Warn("Failed to read webhook body", zap.Error(err))
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		http.Error(w, "empty body", http.StatusBadRequest)
		return
	}

	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		hs.bot.logger.Warn("Error decoding webhook update", zap.Error(err))
		http.Error(w, "malformed update", http.StatusBadRequest)
		return
	}
	// null and {} decode without error but carry no update
	if update == (tgbotapi.Update{}) {
		http.Error(w, "empty update", http.StatusBadRequest)
		return
	}

	hs.bot.logger.Debug("Webhook received", zap.Int("update_id", update.UpdateID))

	// Processing runs to completion even if Telegram drops the connection
	ctx := context.WithoutCancel(r.Context())
	if err := hs.bot.HandleUpdate(ctx, update); err != nil {
		http.Error(w, fmt.Sprintf("internal error: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

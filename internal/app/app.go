package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"coursebot/internal/auth"
	"coursebot/internal/bot"
	"coursebot/internal/config"
	"coursebot/internal/intake"
	"coursebot/internal/progress"
	"coursebot/internal/storage"
	"coursebot/internal/storage/ch"
	"coursebot/internal/storage/files"
	"coursebot/internal/storage/memory"
	"coursebot/internal/storage/sheets"
)

// App represents the application
type App struct {
	config      *config.Config
	logger      *zap.Logger
	store       *memory.Store
	progressLog storage.ProgressLog
	files       storage.FileStore
	bot         *bot.Bot
	server      *http.Server
}

// New creates and initializes a new application instance
func New() (*App, error) {
	// Load .env file if it exists
	envErr := godotenv.Load()

	// Load configuration from environment variables
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if envErr != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	app := &App{config: cfg, logger: logger}

	logger.Info("Starting Course Progress Bot...",
		zap.Bool("webhook_mode", cfg.WebhookMode),
		zap.String("progress_log", cfg.ProgressLogBackend),
		zap.String("file_storage", cfg.FileStorage),
	)

	app.store = memory.NewStore(cfg.Courses)

	ctx := context.Background()
	if err := app.initProgressLog(ctx); err != nil {
		return nil, err
	}
	if err := app.initFileStore(ctx); err != nil {
		return nil, err
	}
	if err := app.initBot(); err != nil {
		return nil, err
	}
	app.initHTTPServer()

	return app, nil
}

// newLogger builds a zap logger for the given mode
func newLogger(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "dev", "development":
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
	}
	return cfg.Build()
}

// initProgressLog connects the configured progress log backend
func (a *App) initProgressLog(ctx context.Context) error {
	switch a.config.ProgressLogBackend {
	case config.ProgressLogSheets:
		log, err := sheets.NewSpreadsheetLog(ctx, a.config.GoogleCredentials, a.config.SpreadsheetID, a.config.SheetName)
		if err != nil {
			return fmt.Errorf("failed to create spreadsheet log: %w", err)
		}
		a.logger.Info("Progress log: Google Sheets",
			zap.String("spreadsheet_id", a.config.SpreadsheetID),
			zap.String("sheet", a.config.SheetName),
		)
		a.progressLog = log

	case config.ProgressLogClickHouse:
		a.logger.Info("Connecting to ClickHouse",
			zap.String("host", a.config.ClickHouseHost),
			zap.Int("port", a.config.ClickHousePort),
			zap.String("database", a.config.ClickHouseDatabase),
			zap.String("user", a.config.ClickHouseUser),
			zap.Bool("tls", a.config.ClickHouseUseTLS),
		)
		db, err := ch.NewProgressLogDB(
			a.config.ClickHouseHost,
			a.config.ClickHousePort,
			a.config.ClickHouseDatabase,
			a.config.ClickHouseUser,
			a.config.ClickHousePassword,
			a.config.ClickHouseUseTLS,
		)
		if err != nil {
			return fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		a.progressLog = db

	default:
		a.logger.Warn("No external progress log configured, rows are only written to the application log")
		a.progressLog = newZapProgressLog(a.logger)
	}
	return nil
}

// initFileStore prepares the upload destination
func (a *App) initFileStore(ctx context.Context) error {
	switch a.config.FileStorage {
	case config.FileStorageGCS:
		store, err := files.NewBucketStore(ctx, a.config.GCSBucket, a.config.GoogleCredentials)
		if err != nil {
			return fmt.Errorf("failed to create bucket store: %w", err)
		}
		a.logger.Info("Uploads go to GCS", zap.String("bucket", a.config.GCSBucket))
		a.files = store

	default:
		store, err := files.NewLocalStore(a.config.UploadDir)
		if err != nil {
			return fmt.Errorf("failed to create upload directory: %w", err)
		}
		a.logger.Info("Uploads go to local disk", zap.String("dir", a.config.UploadDir))
		a.files = store
	}
	return nil
}

// initBot initializes the Telegram bot
func (a *App) initBot() error {
	admins := auth.NewAdminSet(a.config.AdminIDs)

	telegramBot, err := bot.NewBot(a.config.TelegramToken, bot.Deps{
		Catalog: a.store,
		Tracker: progress.NewTracker(a.store, a.progressLog, a.config.ProgressLogTimeout),
		Admins:  admins,
		Intake:  intake.New(admins, a.files),
		Logger:  a.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	a.logger.Info("Bot created successfully", zap.Int("admins", admins.Len()))

	a.bot = telegramBot
	return nil
}

// initHTTPServer initializes the HTTP server for health checks and webhook
func (a *App) initHTTPServer() {
	var endpoint string
	if a.config.WebhookURL != "" {
		endpoint = a.config.WebhookEndpoint()
	}

	mux := http.NewServeMux()
	bot.NewHTTPServer(a.bot, a.config.WebhookPath, endpoint, a.config.WebhookMode).RegisterRoutes(mux)

	a.server = &http.Server{
		Addr:        ":" + a.config.Port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		// Webhook updates are handled before responding, including uploads
		WriteTimeout: 3 * time.Minute,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Start bot in appropriate mode
	if a.config.WebhookMode {
		endpoint := a.config.WebhookEndpoint()
		a.logger.Info("Starting bot in WEBHOOK mode", zap.String("webhook_url", endpoint))
		if _, err := a.bot.SetWebhook(endpoint); err != nil {
			// GET /set_webhook can retry the registration
			a.logger.Error("Failed to setup webhook", zap.Error(err))
		} else {
			a.logger.Info("Webhook configured", zap.String("path", a.config.WebhookPath))
		}
	} else {
		go func() {
			if err := a.bot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("Polling stopped", zap.Error(err))
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("Received shutdown signal")
	case err := <-serverErr:
		a.logger.Error("HTTP server error", zap.Error(err))
		runErr = fmt.Errorf("http server: %w", err)
	}

	a.logger.Info("Shutting down...")
	if err := a.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("HTTP server shutdown error", zap.Error(err))
	}

	var errs []error
	if err := a.progressLog.Close(); err != nil {
		a.logger.Error("Error closing progress log", zap.Error(err))
		errs = append(errs, err)
	}
	if closer, ok := a.files.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Error("Error closing file store", zap.Error(err))
			errs = append(errs, err)
		}
	}

	a.logger.Info("Shutdown complete")
	_ = a.logger.Sync()
	return errors.Join(errs...)
}

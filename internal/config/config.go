package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultSpreadsheetID is the progress spreadsheet used when SPREADSHEET_ID is unset
	DefaultSpreadsheetID = "107KiGCg82U5dkqHHmDbmkgbeYq8XCSI6ECneEfl2j2I"
	DefaultWebhookPath   = "/telegram-webhook"
	DefaultPort          = "8443"
)

// DefaultCourses seeds the catalog when INITIAL_COURSES is unset
var DefaultCourses = []string{"Prayer Basics", "Psalms Intro", "Church History"}

// Progress log backends
const (
	ProgressLogSheets     = "sheets"
	ProgressLogClickHouse = "clickhouse"
	ProgressLogNone       = "none"
)

// File storage backends
const (
	FileStorageLocal = "local"
	FileStorageGCS   = "gcs"
)

// Config holds the application configuration
type Config struct {
	TelegramToken string
	AdminIDs      []string
	Courses       []string

	Port    string
	LogMode string

	// Bot mode configuration
	WebhookMode bool   // If true, use webhook mode; if false, use polling mode
	WebhookURL  string // External base URL (required if WebhookMode is true)
	WebhookPath string

	// Progress log configuration
	ProgressLogBackend string
	ProgressLogTimeout time.Duration
	GoogleCredentials  []byte
	SpreadsheetID      string
	SheetName          string

	// ClickHouse configuration
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseUseTLS   bool

	// Upload configuration
	FileStorage string
	UploadDir   string
	GCSBucket   string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Telegram Bot Token (required)
	config.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if config.TelegramToken == "" {
		config.TelegramToken = os.Getenv("BOT_TOKEN")
	}
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	// Admin IDs (optional, comma-separated)
	config.AdminIDs = splitList(os.Getenv("ADMIN_IDS"))

	config.Courses = splitList(os.Getenv("INITIAL_COURSES"))
	if len(config.Courses) == 0 {
		config.Courses = append([]string(nil), DefaultCourses...)
	}

	config.Port = getEnv("PORT", DefaultPort)
	if _, err := strconv.Atoi(config.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	config.LogMode = getEnv("LOG_MODE", "production")

	// Bot mode configuration (default: webhook)
	config.WebhookMode = os.Getenv("WEBHOOK_MODE") != "false"
	config.WebhookURL = strings.TrimRight(os.Getenv("WEBHOOK_URL"), "/")
	if config.WebhookMode && config.WebhookURL == "" {
		return nil, fmt.Errorf("WEBHOOK_URL is required when WEBHOOK_MODE is true")
	}
	config.WebhookPath = resolveWebhookPath(os.Getenv("WEBHOOK_PATH"), config.TelegramToken)

	if err := config.loadProgressLog(); err != nil {
		return nil, err
	}
	if err := config.loadFileStorage(); err != nil {
		return nil, err
	}

	return config, nil
}

// WebhookEndpoint returns the externally reachable webhook URL
func (c *Config) WebhookEndpoint() string {
	return c.WebhookURL + c.WebhookPath
}

func (c *Config) loadProgressLog() error {
	c.ProgressLogBackend = getEnv("PROGRESS_LOG_BACKEND", ProgressLogSheets)

	timeout, err := time.ParseDuration(getEnv("PROGRESS_LOG_TIMEOUT", "10s"))
	if err != nil {
		return fmt.Errorf("invalid PROGRESS_LOG_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("PROGRESS_LOG_TIMEOUT must be positive")
	}
	c.ProgressLogTimeout = timeout

	// Credentials may be needed for GCS uploads even without the sheets backend
	c.GoogleCredentials = []byte(strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS")))

	switch c.ProgressLogBackend {
	case ProgressLogSheets:
		if len(c.GoogleCredentials) == 0 {
			return fmt.Errorf("GOOGLE_CREDENTIALS is required when PROGRESS_LOG_BACKEND is %s", ProgressLogSheets)
		}
		c.SpreadsheetID = getEnv("SPREADSHEET_ID", DefaultSpreadsheetID)
		c.SheetName = getEnv("SHEET_NAME", "Sheet1")

	case ProgressLogClickHouse:
		c.ClickHouseHost = os.Getenv("CLICKHOUSE_HOST")
		if c.ClickHouseHost == "" {
			return fmt.Errorf("CLICKHOUSE_HOST is required when PROGRESS_LOG_BACKEND is %s", ProgressLogClickHouse)
		}

		portStr := os.Getenv("CLICKHOUSE_PORT")
		if portStr == "" {
			c.ClickHousePort = 9000 // Default ClickHouse native port
		} else {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return fmt.Errorf("invalid CLICKHOUSE_PORT: %w", err)
			}
			c.ClickHousePort = port
		}

		c.ClickHouseDatabase = getEnv("CLICKHOUSE_DATABASE", "default")
		c.ClickHouseUser = getEnv("CLICKHOUSE_USER", "default")
		c.ClickHousePassword = os.Getenv("CLICKHOUSE_PASSWORD")
		c.ClickHouseUseTLS = os.Getenv("CLICKHOUSE_USE_TLS") == "true"

	case ProgressLogNone:

	default:
		return fmt.Errorf("unknown PROGRESS_LOG_BACKEND: %s", c.ProgressLogBackend)
	}
	return nil
}

func (c *Config) loadFileStorage() error {
	c.FileStorage = getEnv("FILE_STORAGE", FileStorageLocal)
	switch c.FileStorage {
	case FileStorageLocal:
		c.UploadDir = getEnv("UPLOAD_DIR", ".")
	case FileStorageGCS:
		c.GCSBucket = os.Getenv("GCS_BUCKET")
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when FILE_STORAGE is %s", FileStorageGCS)
		}
	default:
		return fmt.Errorf("unknown FILE_STORAGE: %s", c.FileStorage)
	}
	return nil
}

// resolveWebhookPath maps WEBHOOK_PATH to a route; "token" derives the path from the bot token
func resolveWebhookPath(raw, token string) string {
	switch raw {
	case "":
		return DefaultWebhookPath
	case "token":
		return "/" + token
	}
	if !strings.HasPrefix(raw, "/") {
		return "/" + raw
	}
	return raw
}

// splitList splits a comma-separated list, trimming blanks
func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"TELEGRAM_BOT_TOKEN", "BOT_TOKEN", "ADMIN_IDS", "INITIAL_COURSES", "PORT", "LOG_MODE",
	"WEBHOOK_MODE", "WEBHOOK_URL", "WEBHOOK_PATH",
	"PROGRESS_LOG_BACKEND", "PROGRESS_LOG_TIMEOUT", "GOOGLE_CREDENTIALS", "SPREADSHEET_ID", "SHEET_NAME",
	"CLICKHOUSE_HOST", "CLICKHOUSE_PORT", "CLICKHOUSE_DATABASE", "CLICKHOUSE_USER", "CLICKHOUSE_PASSWORD", "CLICKHOUSE_USE_TLS",
	"FILE_STORAGE", "UPLOAD_DIR", "GCS_BUCKET",
}

// setEnv clears every configuration variable, then applies the given values
func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
	for key, value := range values {
		t.Setenv(key, value)
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	setEnv(t, map[string]string{
		"TELEGRAM_BOT_TOKEN": "123:abc",
		"WEBHOOK_URL":        "https://bot.example.com/",
		"GOOGLE_CREDENTIALS": `{"type":"service_account"}`,
	})

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Empty(t, cfg.AdminIDs)
	assert.Equal(t, DefaultCourses, cfg.Courses)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.True(t, cfg.WebhookMode)
	assert.Equal(t, "https://bot.example.com", cfg.WebhookURL)
	assert.Equal(t, DefaultWebhookPath, cfg.WebhookPath)
	assert.Equal(t, "https://bot.example.com/telegram-webhook", cfg.WebhookEndpoint())
	assert.Equal(t, ProgressLogSheets, cfg.ProgressLogBackend)
	assert.Equal(t, 10*time.Second, cfg.ProgressLogTimeout)
	assert.Equal(t, DefaultSpreadsheetID, cfg.SpreadsheetID)
	assert.Equal(t, "Sheet1", cfg.SheetName)
	assert.Equal(t, FileStorageLocal, cfg.FileStorage)
	assert.Equal(t, ".", cfg.UploadDir)
}

func TestLoadFromEnv_BotTokenFallback(t *testing.T) {
	setEnv(t, map[string]string{
		"BOT_TOKEN":            "fallback",
		"WEBHOOK_MODE":         "false",
		"PROGRESS_LOG_BACKEND": "none",
	})

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "fallback", cfg.TelegramToken)
	assert.False(t, cfg.WebhookMode)
}

func TestLoadFromEnv_AdminsAndCourses(t *testing.T) {
	setEnv(t, map[string]string{
		"TELEGRAM_BOT_TOKEN":   "t",
		"WEBHOOK_MODE":         "false",
		"PROGRESS_LOG_BACKEND": "none",
		"ADMIN_IDS":            " 100, 200 ,,",
		"INITIAL_COURSES":      "Hebrew,Greek",
	})

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "200"}, cfg.AdminIDs)
	assert.Equal(t, []string{"Hebrew", "Greek"}, cfg.Courses)
}

func TestLoadFromEnv_WebhookPath(t *testing.T) {
	testCases := []struct {
		raw  string
		want string
	}{
		{raw: "", want: "/telegram-webhook"},
		{raw: "token", want: "/123:abc"},
		{raw: "hook", want: "/hook"},
		{raw: "/", want: "/"},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			setEnv(t, map[string]string{
				"TELEGRAM_BOT_TOKEN":   "123:abc",
				"WEBHOOK_URL":          "https://bot.example.com",
				"WEBHOOK_PATH":         tc.raw,
				"PROGRESS_LOG_BACKEND": "none",
			})

			cfg, err := LoadFromEnv()
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.WebhookPath)
		})
	}
}

func TestLoadFromEnv_ClickHouse(t *testing.T) {
	setEnv(t, map[string]string{
		"TELEGRAM_BOT_TOKEN":   "t",
		"WEBHOOK_MODE":         "false",
		"PROGRESS_LOG_BACKEND": "clickhouse",
		"CLICKHOUSE_HOST":      "ch.local",
		"CLICKHOUSE_USE_TLS":   "true",
	})

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "ch.local", cfg.ClickHouseHost)
	assert.Equal(t, 9000, cfg.ClickHousePort)
	assert.Equal(t, "default", cfg.ClickHouseDatabase)
	assert.Equal(t, "default", cfg.ClickHouseUser)
	assert.True(t, cfg.ClickHouseUseTLS)
}

func TestLoadFromEnv_Errors(t *testing.T) {
	base := map[string]string{
		"TELEGRAM_BOT_TOKEN":   "t",
		"WEBHOOK_MODE":         "false",
		"PROGRESS_LOG_BACKEND": "none",
	}

	testCases := []struct {
		name      string
		overrides map[string]string
	}{
		{name: "missing token", overrides: map[string]string{"TELEGRAM_BOT_TOKEN": ""}},
		{name: "webhook without url", overrides: map[string]string{"WEBHOOK_MODE": "true"}},
		{name: "bad port", overrides: map[string]string{"PORT": "http"}},
		{name: "unknown backend", overrides: map[string]string{"PROGRESS_LOG_BACKEND": "postgres"}},
		{name: "sheets without credentials", overrides: map[string]string{"PROGRESS_LOG_BACKEND": "sheets"}},
		{name: "clickhouse without host", overrides: map[string]string{"PROGRESS_LOG_BACKEND": "clickhouse"}},
		{name: "bad clickhouse port", overrides: map[string]string{
			"PROGRESS_LOG_BACKEND": "clickhouse", "CLICKHOUSE_HOST": "h", "CLICKHOUSE_PORT": "x",
		}},
		{name: "bad timeout", overrides: map[string]string{"PROGRESS_LOG_TIMEOUT": "soon"}},
		{name: "negative timeout", overrides: map[string]string{"PROGRESS_LOG_TIMEOUT": "-1s"}},
		{name: "unknown file storage", overrides: map[string]string{"FILE_STORAGE": "ftp"}},
		{name: "gcs without bucket", overrides: map[string]string{"FILE_STORAGE": "gcs"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			values := make(map[string]string)
			for k, v := range base {
				values[k] = v
			}
			for k, v := range tc.overrides {
				values[k] = v
			}
			setEnv(t, values)

			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
log_level: debug
source:
  driver: postgres
  dsn: postgres://cash@db/cash
businesses:
  - id: bakery
    name: Corner Bakery
  - id: florist
telegram:
  bot_token: file-token
  chat_id: "1001"
redis:
  url: redis:6379
  ttl: 6h
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres", cfg.Source.Driver)
	assert.Equal(t, "transactions", cfg.Source.Table)
	require.Len(t, cfg.Businesses, 2)
	assert.Equal(t, "Corner Bakery", cfg.Businesses[0].DisplayName())
	assert.Equal(t, "florist", cfg.Businesses[1].DisplayName())
	assert.Equal(t, 6*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 24*time.Hour, cfg.Dedupe.TTL)
	assert.Equal(t, "0 0 8 * * *", cfg.Schedule.DailyCron)
	assert.Equal(t, 24, cfg.Analysis.HistoryMonths)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("SOURCE_DRIVER", "sqlite")
	t.Setenv("SOURCE_DSN", "file:tx.db")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_TO", "a@example.com, b@example.com,")
	t.Setenv("CRON_MONTHLY", "0 0 7 1 * *")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, "1001", cfg.Telegram.ChatID)
	assert.Equal(t, "sqlite", cfg.Source.Driver)
	assert.Equal(t, "file:tx.db", cfg.Source.DSN)
	assert.Equal(t, 2525, cfg.Email.SMTPPort)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Email.To)
	assert.Equal(t, "0 0 7 1 * *", cfg.Schedule.MonthlyCron)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Source.Driver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Error(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "businesses: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(writeConfig(t, sampleYAML))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad driver", func(c *Config) { c.Source.Driver = "mysql" }, "source.driver"},
		{"no dsn", func(c *Config) { c.Source.DSN = "" }, "source.dsn"},
		{"no businesses", func(c *Config) { c.Businesses = nil }, "at least one business"},
		{"empty id", func(c *Config) { c.Businesses[1].ID = "" }, "businesses[1].id"},
		{"duplicate id", func(c *Config) { c.Businesses[1].ID = "bakery" }, "duplicate business id"},
		{"no channel", func(c *Config) { c.Telegram.ChatID = "" }, "configure telegram"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("email alone is enough", func(t *testing.T) {
		cfg := valid()
		cfg.Telegram.BotToken = ""
		cfg.Email.SMTPHost = "smtp.example.com"
		cfg.Email.From = "s@example.com"
		cfg.Email.To = []string{"o@example.com"}
		assert.NoError(t, cfg.Validate())
	})
}

func TestBusinessLookup(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	b, ok := cfg.Business("bakery")
	assert.True(t, ok)
	assert.Equal(t, "Corner Bakery", b.Name)
	_, ok = cfg.Business("nope")
	assert.False(t, ok)
}

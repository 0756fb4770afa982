package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Business is one monitored business.
type Business struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DisplayName returns Name, or ID when no name is set.
func (b Business) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID
}

// Config holds all application configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`
	Proxy    string `yaml:"proxy"`
	Source   struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
		Table  string `yaml:"table"`
	} `yaml:"source"`
	Analysis struct {
		HistoryMonths int `yaml:"history_months"`
	} `yaml:"analysis"`
	Businesses []Business `yaml:"businesses"`
	Schedule   struct {
		DailyCron   string `yaml:"daily_cron"`
		MonthlyCron string `yaml:"monthly_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Email struct {
		SMTPHost string   `yaml:"smtp_host"`
		SMTPPort int      `yaml:"smtp_port"`
		Username string   `yaml:"username"`
		Password string   `yaml:"password"`
		From     string   `yaml:"from"`
		To       []string `yaml:"to"`
	} `yaml:"email"`
	Redis struct {
		URL string        `yaml:"url"`
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"redis"`
	Dedupe struct {
		StateFile string        `yaml:"state_file"`
		TTL       time.Duration `yaml:"ttl"`
	} `yaml:"dedupe"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
}

// Load reads config from a YAML file, then applies environment variable overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("LOG_LEVEL", &c.LogLevel)
	str("HTTPS_PROXY", &c.Proxy)
	str("SOURCE_DRIVER", &c.Source.Driver)
	str("SOURCE_DSN", &c.Source.DSN)
	str("TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken)
	str("TELEGRAM_CHAT_ID", &c.Telegram.ChatID)
	str("REDIS_URL", &c.Redis.URL)
	str("SMTP_HOST", &c.Email.SMTPHost)
	str("SMTP_USERNAME", &c.Email.Username)
	str("SMTP_PASSWORD", &c.Email.Password)
	str("SMTP_FROM", &c.Email.From)
	str("SQLITE_PATH", &c.Database.SQLitePath)
	str("CRON_DAILY", &c.Schedule.DailyCron)
	str("CRON_MONTHLY", &c.Schedule.MonthlyCron)

	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Email.SMTPPort = port
		}
	}
	if v := os.Getenv("SMTP_TO"); v != "" {
		c.Email.To = nil
		for _, addr := range strings.Split(v, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				c.Email.To = append(c.Email.To, addr)
			}
		}
	}
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Source.Driver == "" {
		c.Source.Driver = "sqlite"
	}
	if c.Source.Table == "" {
		c.Source.Table = "transactions"
	}
	if c.Analysis.HistoryMonths == 0 {
		c.Analysis.HistoryMonths = 24
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 0 8 * * *"
	}
	if c.Schedule.MonthlyCron == "" {
		c.Schedule.MonthlyCron = "0 0 9 1 * *"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = 24 * time.Hour
	}
	if c.Dedupe.StateFile == "" {
		c.Dedupe.StateFile = "data/alert_state.json"
	}
	if c.Dedupe.TTL == 0 {
		c.Dedupe.TTL = 24 * time.Hour
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/cash_sentinel.db"
	}
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// EmailEnabled reports whether an SMTP host, a sender and at least one recipient are set.
func (c *Config) EmailEnabled() bool {
	return c.Email.SMTPHost != "" && c.Email.From != "" && len(c.Email.To) > 0
}

// Business looks up a configured business by id.
func (c *Config) Business(id string) (Business, bool) {
	for _, b := range c.Businesses {
		if b.ID == id {
			return b, true
		}
	}
	return Business{}, false
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.Source.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("source.driver must be sqlite or postgres, got %q", c.Source.Driver)
	}
	if c.Source.DSN == "" {
		return errors.New("source.dsn is required")
	}
	if len(c.Businesses) == 0 {
		return errors.New("at least one business is required")
	}
	seen := make(map[string]bool, len(c.Businesses))
	for i, b := range c.Businesses {
		if b.ID == "" {
			return fmt.Errorf("businesses[%d].id is required", i)
		}
		if seen[b.ID] {
			return fmt.Errorf("duplicate business id %q", b.ID)
		}
		seen[b.ID] = true
	}
	if c.Analysis.HistoryMonths < 1 {
		return errors.New("analysis.history_months must be positive")
	}
	if !c.TelegramEnabled() && !c.EmailEnabled() {
		return errors.New("configure telegram (bot_token, chat_id) or email (smtp_host, from, to)")
	}
	return nil
}

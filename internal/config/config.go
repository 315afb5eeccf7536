package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"GambleBench/internal/house"
	"GambleBench/internal/runner"
)

// Config holds all application configuration.
type Config struct {
	Strategy struct {
		Dir  string `yaml:"dir"`
		File string `yaml:"file"` // explicit file; otherwise the first candidate in Dir
	} `yaml:"strategy"`
	House struct {
		URL            string        `yaml:"url"`
		RequestTimeout time.Duration `yaml:"request_timeout"` // 0 means no per-request timeout
	} `yaml:"house"`
	Run struct {
		InitialBalance float64       `yaml:"initial_balance"`
		NumRounds      int           `yaml:"num_rounds"`
		TimeBudget     time.Duration `yaml:"time_budget"`
		Progress       *bool         `yaml:"progress"`
	} `yaml:"run"`
	Database struct {
		SQLitePath  string `yaml:"sqlite_path"`
		OutcomeFile string `yaml:"outcome_file"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
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

	// .env never overrides variables already set in the environment.
	_ = godotenv.Load()

	if v := os.Getenv("STRATEGY_DIR"); v != "" {
		cfg.Strategy.Dir = v
	}
	if v := os.Getenv("STRATEGY_FILE"); v != "" {
		cfg.Strategy.File = v
	}
	if v := os.Getenv("HOUSE_URL"); v != "" {
		cfg.House.URL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("OUTCOME_FILE"); v != "" {
		cfg.Database.OutcomeFile = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SCHEDULE_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("PROGRESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Run.Progress = &b
		}
	}

	// Defaults
	if cfg.Strategy.Dir == "" {
		cfg.Strategy.Dir = "strategies"
	}
	if cfg.House.URL == "" {
		cfg.House.URL = house.DefaultURL
	}
	if cfg.Run.InitialBalance == 0 {
		cfg.Run.InitialBalance = runner.DefaultInitialBalance
	}
	if cfg.Run.NumRounds == 0 {
		cfg.Run.NumRounds = runner.DefaultNumRounds
	}
	if cfg.Run.TimeBudget == 0 {
		cfg.Run.TimeBudget = runner.DefaultTimeBudget
	}
	if cfg.Run.Progress == nil {
		on := true
		cfg.Run.Progress = &on
	}
	if cfg.Database.OutcomeFile == "" {
		cfg.Database.OutcomeFile = "data/last_outcome.json"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.House.URL == "" {
		return fmt.Errorf("house.url is required")
	}
	if c.House.RequestTimeout < 0 {
		return fmt.Errorf("house.request_timeout must not be negative")
	}
	if err := c.RunnerConfig().Validate(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// RunnerConfig returns the trajectory parameters.
func (c *Config) RunnerConfig() runner.Config {
	return runner.Config{
		InitialBalance: c.Run.InitialBalance,
		NumRounds:      c.Run.NumRounds,
		TimeBudget:     c.Run.TimeBudget,
	}
}

// TelegramEnabled reports whether notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

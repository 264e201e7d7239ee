// Package config loads service configuration from an optional YAML file with
// environment variable overrides for deployment secrets.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Generator GeneratorConfig `yaml:"generator"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Intake    IntakeConfig    `yaml:"intake"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	// URL is empty for in-memory storage.
	URL            string `yaml:"url"`
	MigrationsPath string `yaml:"migrations_path"`
}

type GeneratorConfig struct {
	// URL is empty to use the built-in local generator.
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type TelegramConfig struct {
	BotToken        string `yaml:"bot_token"`
	ClinicianChatID int64  `yaml:"clinician_chat_id"`
}

type IntakeConfig struct {
	// FallbackMessage is shown when response generation fails. It must never
	// expose internal error details.
	FallbackMessage string `yaml:"fallback_message"`
}

const defaultFallbackMessage = "We are experiencing a technical issue. Please try again in a moment, or contact your care provider directly if your symptoms are worsening."

// Default returns a configuration that runs standalone: in-memory store,
// local generator, no messaging.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			MigrationsPath: "file://migrations",
		},
		Generator: GeneratorConfig{Timeout: 30 * time.Second},
		Intake:    IntakeConfig{FallbackMessage: defaultFallbackMessage},
	}
}

// Load reads the YAML file at path (skipped when path is empty), applies env
// overrides, and validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("GENERATOR_URL"); v != "" {
		c.Generator.URL = v
	}
	if v := os.Getenv("GENERATOR_API_KEY"); v != "" {
		c.Generator.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("CLINICIAN_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Telegram.ClinicianChatID = id
		}
	}
}

// Validate collects every configuration problem rather than stopping at the
// first one.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("server port %d out of range", c.Server.Port))
	}
	if c.Generator.Timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("generator timeout must be positive"))
	}
	if c.Generator.URL == "" && c.Generator.APIKey != "" {
		result = multierror.Append(result, fmt.Errorf("generator api_key set without generator url"))
	}
	if c.Telegram.BotToken != "" && c.Telegram.ClinicianChatID == 0 {
		result = multierror.Append(result, fmt.Errorf("telegram bot_token set without clinician_chat_id"))
	}
	if c.Intake.FallbackMessage == "" {
		result = multierror.Append(result, fmt.Errorf("intake fallback_message must not be empty"))
	}

	return result.ErrorOrNil()
}

// Package config loads runtime configuration for chatsync.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/raphaelgruber/chatsync-go/internal/models"
)

// Config holds all configuration values.
type Config struct {
	// Backend REST endpoint
	ServerURL string `yaml:"server_url"`

	// Push transport: "websocket" or "nats"
	Transport  string `yaml:"transport"`
	WSEndpoint string `yaml:"ws_endpoint"`
	NATSURL    string `yaml:"nats_url"`
	NATSStream string `yaml:"nats_stream"`

	// Local user identity for optimistic sends
	UserID   string `yaml:"user_id"`
	UserName string `yaml:"user_name"`

	// Dedup heuristic tolerance for matching an optimistic message against
	// its server echo
	IdentityWindow time.Duration `yaml:"identity_window"`

	// Logging
	LogFile      string     `yaml:"log_file"`
	LogLevelName string     `yaml:"log_level"`
	LogLevel     slog.Level `yaml:"-"`
}

// Load reads configuration from the optional YAML file named by
// CHATSYNC_CONFIG, then applies environment variable overrides.
func Load() (Config, error) {
	cfg := Config{
		ServerURL:      "http://localhost:8080/api/v1",
		Transport:      "websocket",
		WSEndpoint:     "ws://localhost:8080/ws",
		NATSURL:        "nats://localhost:4222",
		NATSStream:     "CHAT_MESSAGES",
		IdentityWindow: models.DefaultIdentityWindow,
		LogFile:        "/tmp/chatsync.log",
		LogLevelName:   "INFO",
	}

	if path := os.Getenv("CHATSYNC_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.ServerURL = getEnv("CHATSYNC_SERVER_URL", cfg.ServerURL)
	cfg.Transport = getEnv("CHATSYNC_TRANSPORT", cfg.Transport)
	cfg.WSEndpoint = getEnv("CHATSYNC_WS_ENDPOINT", cfg.WSEndpoint)
	cfg.NATSURL = getEnv("CHATSYNC_NATS_URL", cfg.NATSURL)
	cfg.NATSStream = getEnv("CHATSYNC_NATS_STREAM", cfg.NATSStream)
	cfg.UserID = getEnv("CHATSYNC_USER_ID", cfg.UserID)
	cfg.UserName = getEnv("CHATSYNC_USER_NAME", cfg.UserName)
	cfg.LogFile = getEnv("CHATSYNC_LOG_FILE", cfg.LogFile)
	cfg.LogLevelName = getEnv("CHATSYNC_LOG_LEVEL", cfg.LogLevelName)
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)

	if w := os.Getenv("CHATSYNC_IDENTITY_WINDOW"); w != "" {
		d, err := time.ParseDuration(w)
		if err != nil {
			return Config{}, fmt.Errorf("parse CHATSYNC_IDENTITY_WINDOW: %w", err)
		}
		cfg.IdentityWindow = d
	}

	switch cfg.Transport {
	case "websocket", "nats":
	default:
		return Config{}, fmt.Errorf("unknown transport %q", cfg.Transport)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Persistence
	SnapshotPath string
	ArchiveDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Insights
	GeminiAPIKey      string
	GeminiModel       string
	InsightTxnLimit   int

	// Worker
	ArchiveInterval  time.Duration
	ArchiveRetention time.Duration
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8082"),
		SnapshotPath:  getEnv("SNAPSHOT_PATH", "./data/finpulse.json"),
		ArchiveDBPath: getEnv("ARCHIVE_DB_PATH", "./data/finpulse-archive.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finpulse"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "mutations"),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		InsightTxnLimit: getEnvInt("INSIGHT_TXN_LIMIT", 20),

		ArchiveInterval:  getEnvDuration("ARCHIVE_INTERVAL", 5*time.Minute),
		ArchiveRetention: getEnvDuration("ARCHIVE_RETENTION", 30*24*time.Hour),
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SnapshotPath == "" {
		errors = append(errors, "snapshot path cannot be empty")
	} else if dir := filepath.Dir(c.SnapshotPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create snapshot directory '%s': %v", dir, err))
			}
		}
	}

	if c.ArchiveDBPath == "" {
		errors = append(errors, "archive database path cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GeminiModel == "" {
		errors = append(errors, "Gemini model name cannot be empty")
	}

	if c.InsightTxnLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid insight transaction limit %d: must be at least 1", c.InsightTxnLimit))
	} else if c.InsightTxnLimit > 500 {
		errors = append(errors, fmt.Sprintf("invalid insight transaction limit %d: must be at most 500", c.InsightTxnLimit))
	}

	if c.ArchiveInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid archive interval %v: must be at least 1 second", c.ArchiveInterval))
	}

	if c.ArchiveRetention < time.Hour {
		errors = append(errors, fmt.Sprintf("invalid archive retention %v: must be at least 1 hour", c.ArchiveRetention))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

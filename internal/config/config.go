package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"cebim/internal/kv"
)

type Config struct {
	// HTTP server
	Port string

	// Storage
	StorageBackend string
	SQLiteDBPath   string

	// AMQP change fan-out. Empty URL disables it.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google sign-in. Empty client ID disables authentication.
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectURL   string
	PostLoginRedirect  string
	SessionSecret      string
	SessionTTL         time.Duration

	// Google Sheets export
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleOAuthClientFile string
	GoogleOAuthTokenFile  string
	GoogleOAuthClientJSON string
	GoogleOAuthTokenJSON  string

	// Export worker
	ExportInterval time.Duration
	ExportDebounce time.Duration

	// Reminder worker cron schedule
	ReminderSchedule string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		StorageBackend: getEnv("STORAGE_BACKEND", "sqlite"),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/cebim.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "cebim"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_changes"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectURL:   getEnv("OAUTH_REDIRECT_URL", ""),
		PostLoginRedirect:  getEnv("POST_LOGIN_REDIRECT", "/"),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionTTL:         getEnvDuration("SESSION_TTL", 720*time.Hour),

		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:       getEnv("GOOGLE_SHEET_NAME", "Snapshot"),
		GoogleOAuthClientFile: getEnv("GOOGLE_OAUTH_CLIENT_FILE", ""),
		GoogleOAuthTokenFile:  getEnv("GOOGLE_OAUTH_TOKEN_FILE", ""),
		GoogleOAuthClientJSON: getEnv("GOOGLE_OAUTH_CLIENT_JSON", ""),
		GoogleOAuthTokenJSON:  getEnv("GOOGLE_OAUTH_TOKEN_JSON", ""),

		ExportInterval: getEnvDuration("EXPORT_INTERVAL", 10*time.Minute),
		ExportDebounce: getEnvDuration("EXPORT_DEBOUNCE", 5*time.Second),

		ReminderSchedule: getEnv("REMINDER_SCHEDULE", "0 6 * * *"),
	}
}

// AuthEnabled reports whether Google sign-in is configured.
func (c *Config) AuthEnabled() bool {
	return c.GoogleClientID != ""
}

// AMQPEnabled reports whether the change fan-out broker is configured.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// ExportEnabled reports whether the Sheets export target is configured.
func (c *Config) ExportEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !kv.BackendType(c.StorageBackend).IsValid() {
		errors = append(errors, fmt.Sprintf("invalid storage backend '%s': must be 'sqlite' or 'memory'", c.StorageBackend))
	}

	if c.StorageBackend == string(kv.SQLiteBackend) {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
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

	if c.AuthEnabled() {
		if c.GoogleClientSecret == "" {
			errors = append(errors, "GOOGLE_CLIENT_SECRET is required when GOOGLE_CLIENT_ID is set")
		}
		if c.OAuthRedirectURL == "" {
			errors = append(errors, "OAUTH_REDIRECT_URL is required when GOOGLE_CLIENT_ID is set")
		}
		if len(c.SessionSecret) < 16 {
			errors = append(errors, "SESSION_SECRET must be at least 16 characters when authentication is enabled")
		}
		if c.SessionTTL < time.Minute {
			errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
		}
	}

	if c.ExportEnabled() {
		hasClient := c.GoogleOAuthClientFile != "" || c.GoogleOAuthClientJSON != ""
		if !hasClient {
			errors = append(errors, "either GOOGLE_OAUTH_CLIENT_FILE or GOOGLE_OAUTH_CLIENT_JSON must be provided for Sheets export")
		}
		hasToken := c.GoogleOAuthTokenFile != "" || c.GoogleOAuthTokenJSON != ""
		if !hasToken {
			errors = append(errors, "either GOOGLE_OAUTH_TOKEN_FILE or GOOGLE_OAUTH_TOKEN_JSON must be provided for Sheets export")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required for Sheets export")
		}
		if c.GoogleOAuthClientFile != "" {
			if _, err := os.Stat(c.GoogleOAuthClientFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google OAuth client file does not exist: %s", c.GoogleOAuthClientFile))
			}
		}
		if c.GoogleOAuthTokenFile != "" {
			if _, err := os.Stat(c.GoogleOAuthTokenFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google OAuth token file does not exist: %s", c.GoogleOAuthTokenFile))
			}
		}
	}

	if c.ExportInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid export interval %v: must be at least 1 second", c.ExportInterval))
	}
	if c.ExportDebounce < 0 {
		errors = append(errors, fmt.Sprintf("invalid export debounce %v: must not be negative", c.ExportDebounce))
	}

	if _, err := cron.ParseStandard(c.ReminderSchedule); err != nil {
		errors = append(errors, fmt.Sprintf("invalid reminder schedule '%s': %v", c.ReminderSchedule, err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// GoogleClientCredentials returns the OAuth client registration JSON for the
// Sheets export, inline value taking precedence over the file.
func (c *Config) GoogleClientCredentials() ([]byte, error) {
	if c.GoogleOAuthClientJSON != "" {
		return []byte(c.GoogleOAuthClientJSON), nil
	}
	return os.ReadFile(c.GoogleOAuthClientFile)
}

// GoogleToken returns the stored OAuth token JSON for the Sheets export.
func (c *Config) GoogleToken() ([]byte, error) {
	if c.GoogleOAuthTokenJSON != "" {
		return []byte(c.GoogleOAuthTokenJSON), nil
	}
	return os.ReadFile(c.GoogleOAuthTokenFile)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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

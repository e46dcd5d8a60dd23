package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"financeai/internal/log"
)

type Config struct {
	// HTTP Server
	Port string

	// Logging
	LogLevel string

	// Session
	ChatReplyDelay      time.Duration
	DashboardWindowDays int
	SeedFixtures        bool

	// AMQP (optional, events are not published when empty)
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// SQLite snapshot export (optional)
	ExportPath string

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// parse problems collected by Load and reported by Validate
	loadErrors []string
}

func Load() *Config {
	cfg := &Config{}
	cfg.Port = getEnv("PORT", "8081")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	cfg.ChatReplyDelay = cfg.getEnvDuration("CHAT_REPLY_DELAY", time.Second)
	cfg.DashboardWindowDays = cfg.getEnvInt("DASHBOARD_WINDOW_DAYS", 7)
	cfg.SeedFixtures = cfg.getEnvBool("SEED_FIXTURES", true)

	cfg.AMQPURL = getEnv("AMQP_URL", "")
	cfg.AMQPExchange = getEnv("AMQP_EXCHANGE", "financeai")
	cfg.AMQPRoutingKey = getEnv("AMQP_ROUTING_KEY", "finance")

	cfg.ExportPath = getEnv("EXPORT_PATH", "")

	cfg.RateLimitRPS = cfg.getEnvFloat("RATE_LIMIT_RPS", 10)
	cfg.RateLimitBurst = cfg.getEnvInt("RATE_LIMIT_BURST", 20)

	return cfg
}

// AMQPEnabled reports whether finance events should be published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// ExportEnabled reports whether snapshots can be exported to SQLite.
func (c *Config) ExportEnabled() bool {
	return c.ExportPath != ""
}

// Validate checks every setting and returns all problems at once.
func (c *Config) Validate() error {
	errors := append([]string(nil), c.loadErrors...)

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.ChatReplyDelay < 0 {
		errors = append(errors, fmt.Sprintf("invalid chat reply delay %v: must not be negative", c.ChatReplyDelay))
	} else if c.ChatReplyDelay > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid chat reply delay %v: must be at most 1 minute", c.ChatReplyDelay))
	}

	if c.DashboardWindowDays < 1 || c.DashboardWindowDays > 366 {
		errors = append(errors, fmt.Sprintf("invalid dashboard window %d: must be between 1 and 366 days", c.DashboardWindowDays))
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
		if c.AMQPRoutingKey == "" {
			errors = append(errors, "AMQP routing key cannot be empty when AMQP URL is provided")
		}
	}

	if c.ExportPath != "" {
		dir := filepath.Dir(c.ExportPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create export directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.RateLimitRPS <= 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %v: must be positive", c.RateLimitRPS))
	}
	if c.RateLimitBurst < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit burst %d: must be at least 1", c.RateLimitBurst))
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

func (c *Config) getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		c.loadErrors = append(c.loadErrors, fmt.Sprintf("%s: '%s' is not an integer", key, value))
		return defaultValue
	}
	return i
}

func (c *Config) getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		c.loadErrors = append(c.loadErrors, fmt.Sprintf("%s: '%s' is not a number", key, value))
		return defaultValue
	}
	return f
}

func (c *Config) getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		c.loadErrors = append(c.loadErrors, fmt.Sprintf("%s: '%s' is not a boolean", key, value))
		return defaultValue
	}
	return b
}

func (c *Config) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		c.loadErrors = append(c.loadErrors, fmt.Sprintf("%s: '%s' is not a duration", key, value))
		return defaultValue
	}
	return d
}

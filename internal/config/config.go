package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the tableside ordering system
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	RabbitMQ      RabbitMQConfig      `yaml:"rabbitmq"`
	Pricing       PricingConfig       `yaml:"pricing"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds database connection configuration. MaxConns and
// MinConns size the pool; zero means the database package default.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// RabbitMQConfig holds RabbitMQ connection configuration.
// When Enabled is false the order service dispatches notifications in process.
type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// PricingConfig holds order pricing configuration
type PricingConfig struct {
	ServiceFeePercent int `yaml:"service_fee_percent"`
}

// NotificationsConfig holds notification channel configuration.
// Credentials (push token, sheet webhook URL) come from the environment,
// never from the config file.
type NotificationsConfig struct {
	PushEnabled           bool   `yaml:"push_enabled"`
	PushRecipient         string `yaml:"push_recipient"`
	SheetEnabled          bool   `yaml:"sheet_enabled"`
	ChannelTimeoutSeconds int    `yaml:"channel_timeout_seconds"`
	AIEnabled             bool   `yaml:"ai_enabled"`
	RecommendURL          string `yaml:"recommend_url"`

	PushToken       string `yaml:"-"`
	SheetWebhookURL string `yaml:"-"`
}

// Load reads configuration from a YAML file, then applies environment overrides.
// A .env file is loaded first if present.
func Load(filename string) (*Config, error) {
	_ = godotenv.Load()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	config := &Config{}
	scanner := bufio.NewScanner(file)

	var currentSection string

	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Section headers sit at column zero. An indented "key:" is a key
		// with an empty value, not a new section.
		indented := strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "\t")
		if !indented && strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			currentSection = strings.TrimSuffix(line, ":")
			continue
		}

		// Parse key-value pairs
		if strings.Contains(line, ":") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := unquote(strings.TrimSpace(parts[1]))

			if err := config.setValue(currentSection, key, value); err != nil {
				return nil, fmt.Errorf("failed to set config value %s.%s: %w", currentSection, key, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config.applyEnvOverrides()

	return config, nil
}

// unquote strips one pair of matching surrounding quotes: the YAML scalar
// `push_recipient: "U123"` means the bare string U123.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first != last || (first != '"' && first != '\'') {
		return s
	}
	return s[1 : len(s)-1]
}

// applyEnvOverrides pulls secrets and deployment overrides from the environment.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("RABBITMQ_PASSWORD"); v != "" {
		c.RabbitMQ.Password = v
	}
	c.Notifications.PushToken = os.Getenv("PUSH_CHANNEL_TOKEN")
	c.Notifications.SheetWebhookURL = os.Getenv("SHEET_WEBHOOK_URL")
}

// setValue sets a configuration value based on section and key
func (c *Config) setValue(section, key, value string) error {
	switch section {
	case "server":
		return c.setServerValue(key, value)
	case "database":
		return c.setDatabaseValue(key, value)
	case "rabbitmq":
		return c.setRabbitMQValue(key, value)
	case "pricing":
		return c.setPricingValue(key, value)
	case "notifications":
		return c.setNotificationsValue(key, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func (c *Config) setServerValue(key, value string) error {
	switch key {
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.Server.Port = port
	default:
		return fmt.Errorf("unknown server key: %s", key)
	}
	return nil
}

func (c *Config) setDatabaseValue(key, value string) error {
	switch key {
	case "host":
		c.Database.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.Database.Port = port
	case "user":
		c.Database.User = value
	case "password":
		c.Database.Password = value
	case "database":
		c.Database.Database = value
	case "max_conns":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid max_conns value: %w", err)
		}
		c.Database.MaxConns = n
	case "min_conns":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid min_conns value: %w", err)
		}
		c.Database.MinConns = n
	default:
		return fmt.Errorf("unknown database key: %s", key)
	}
	return nil
}

func (c *Config) setRabbitMQValue(key, value string) error {
	switch key {
	case "enabled":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid enabled value: %w", err)
		}
		c.RabbitMQ.Enabled = enabled
	case "host":
		c.RabbitMQ.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.RabbitMQ.Port = port
	case "user":
		c.RabbitMQ.User = value
	case "password":
		c.RabbitMQ.Password = value
	default:
		return fmt.Errorf("unknown rabbitmq key: %s", key)
	}
	return nil
}

func (c *Config) setPricingValue(key, value string) error {
	switch key {
	case "service_fee_percent":
		percent, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid service_fee_percent value: %w", err)
		}
		if percent < 0 || percent > 100 {
			return fmt.Errorf("service_fee_percent must be between 0 and 100")
		}
		c.Pricing.ServiceFeePercent = percent
	default:
		return fmt.Errorf("unknown pricing key: %s", key)
	}
	return nil
}

func (c *Config) setNotificationsValue(key, value string) error {
	switch key {
	case "push_enabled":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid push_enabled value: %w", err)
		}
		c.Notifications.PushEnabled = enabled
	case "push_recipient":
		c.Notifications.PushRecipient = value
	case "sheet_enabled":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid sheet_enabled value: %w", err)
		}
		c.Notifications.SheetEnabled = enabled
	case "channel_timeout_seconds":
		seconds, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid channel_timeout_seconds value: %w", err)
		}
		c.Notifications.ChannelTimeoutSeconds = seconds
	case "ai_enabled":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid ai_enabled value: %w", err)
		}
		c.Notifications.AIEnabled = enabled
	case "recommend_url":
		c.Notifications.RecommendURL = value
	default:
		return fmt.Errorf("unknown notifications key: %s", key)
	}
	return nil
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}

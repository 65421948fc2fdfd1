package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the forwarding service
type Config struct {
	Telegram   TelegramConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Logging    LoggingConfig
	Service    ServiceConfig
	Auth       AuthConfig
	Forwarding ForwardingConfig
}

// TelegramConfig holds Telegram MTProto configuration
type TelegramConfig struct {
	APIID       int
	APIHash     string
	SendRate    float64 // outgoing requests per second per connection
	SendBurst   int
	DialTimeout time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled            bool
	Brokers            []string
	TopicForwardEvents string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name            string
	Port            string
	ShutdownTimeout time.Duration
}

// AuthConfig holds login flow configuration
type AuthConfig struct {
	OTPWindow       time.Duration
	OTPLimit        int
	PendingTTL      time.Duration
	CleanupInterval time.Duration
}

// ForwardingConfig holds live forwarding configuration
type ForwardingConfig struct {
	BufferSize        int
	DisconnectTimeout time.Duration
	SendTimeout       time.Duration
}

// Result is fx.Out struct for providing config dependencies
type Result struct {
	fx.Out

	Config           *Config
	TelegramConfig   *TelegramConfig
	DatabaseConfig   *DatabaseConfig
	RedisConfig      *RedisConfig
	KafkaConfig      *KafkaConfig
	LoggingConfig    *LoggingConfig
	ServiceConfig    *ServiceConfig
	AuthConfig       *AuthConfig
	ForwardingConfig *ForwardingConfig
}

// Out returns fx-compatible config result
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:           cfg,
		TelegramConfig:   &cfg.Telegram,
		DatabaseConfig:   &cfg.Database,
		RedisConfig:      &cfg.Redis,
		KafkaConfig:      &cfg.Kafka,
		LoggingConfig:    &cfg.Logging,
		ServiceConfig:    &cfg.Service,
		AuthConfig:       &cfg.Auth,
		ForwardingConfig: &cfg.Forwarding,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	apiID, err := strconv.Atoi(getEnv("TELEGRAM_API_ID", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_API_ID: %w", err)
	}

	sendRate, err := strconv.ParseFloat(getEnv("TELEGRAM_SEND_RATE", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_SEND_RATE: %w", err)
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			APIID:       apiID,
			APIHash:     getEnv("TELEGRAM_API_HASH", ""),
			SendRate:    sendRate,
			SendBurst:   getEnvInt("TELEGRAM_SEND_BURST", 10),
			DialTimeout: getEnvDuration("TELEGRAM_DIAL_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DATABASE_HOST", "localhost"),
			Port:           getEnv("DATABASE_PORT", "5432"),
			User:           getEnv("DATABASE_USER", "autofor"),
			Password:       getEnv("DATABASE_PASSWORD", "autofor"),
			DBName:         getEnv("DATABASE_NAME", "autofor"),
			SSLMode:        getEnv("DATABASE_SSLMODE", "disable"),
			MigrationsPath: getEnv("DATABASE_MIGRATIONS_PATH", "file://migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled:            getEnvBool("KAFKA_ENABLED", false),
			Brokers:            splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			TopicForwardEvents: getEnv("KAFKA_TOPIC_FORWARD_EVENTS", "forwarding.events"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name:            getEnv("SERVICE_NAME", "autofor"),
			Port:            getEnv("SERVICE_PORT", "5000"),
			ShutdownTimeout: getEnvDuration("SERVICE_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			OTPWindow:       getEnvDuration("AUTH_OTP_WINDOW", 10*time.Minute),
			OTPLimit:        getEnvInt("AUTH_OTP_LIMIT", 5),
			PendingTTL:      getEnvDuration("AUTH_PENDING_TTL", 5*time.Minute),
			CleanupInterval: getEnvDuration("AUTH_CLEANUP_INTERVAL", time.Minute),
		},
		Forwarding: ForwardingConfig{
			BufferSize:        getEnvInt("FORWARDING_BUFFER_SIZE", 256),
			DisconnectTimeout: getEnvDuration("FORWARDING_DISCONNECT_TIMEOUT", 10*time.Second),
			SendTimeout:       getEnvDuration("FORWARDING_SEND_TIMEOUT", 30*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.APIID == 0 {
		return fmt.Errorf("TELEGRAM_API_ID is required")
	}

	if c.Telegram.APIHash == "" {
		return fmt.Errorf("TELEGRAM_API_HASH is required")
	}

	if c.Telegram.SendRate <= 0 {
		return fmt.Errorf("TELEGRAM_SEND_RATE must be positive")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DATABASE_HOST is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("DATABASE_NAME is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}

	if c.Auth.OTPLimit <= 0 {
		return fmt.Errorf("AUTH_OTP_LIMIT must be positive")
	}

	if c.Auth.OTPWindow <= 0 {
		return fmt.Errorf("AUTH_OTP_WINDOW must be positive")
	}

	if c.Forwarding.BufferSize <= 0 {
		return fmt.Errorf("FORWARDING_BUFFER_SIZE must be positive")
	}

	return nil
}

// GetDSN returns database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvDuration gets environment variable as duration with default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

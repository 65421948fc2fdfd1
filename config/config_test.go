package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Telegram:   TelegramConfig{APIID: 12345, APIHash: "hash", SendRate: 5, SendBurst: 10},
		Database:   DatabaseConfig{Host: "localhost", DBName: "autofor"},
		Redis:      RedisConfig{Addr: "localhost:6379"},
		Auth:       AuthConfig{OTPWindow: 10 * time.Minute, OTPLimit: 5},
		Forwarding: ForwardingConfig{BufferSize: 16},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing api id", mutate: func(c *Config) { c.Telegram.APIID = 0 }, wantErr: true},
		{name: "missing api hash", mutate: func(c *Config) { c.Telegram.APIHash = "" }, wantErr: true},
		{name: "zero send rate", mutate: func(c *Config) { c.Telegram.SendRate = 0 }, wantErr: true},
		{name: "missing database host", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: true},
		{name: "missing redis addr", mutate: func(c *Config) { c.Redis.Addr = "" }, wantErr: true},
		{name: "kafka enabled without brokers", mutate: func(c *Config) {
			c.Kafka.Enabled = true
			c.Kafka.Brokers = nil
		}, wantErr: true},
		{name: "kafka disabled without brokers", mutate: func(c *Config) { c.Kafka.Brokers = nil }},
		{name: "zero otp limit", mutate: func(c *Config) { c.Auth.OTPLimit = 0 }, wantErr: true},
		{name: "zero buffer", mutate: func(c *Config) { c.Forwarding.BufferSize = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_API_ID", "777")
	t.Setenv("TELEGRAM_API_HASH", "abc")
	t.Setenv("AUTH_OTP_WINDOW", "")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Telegram.APIID != 777 {
		t.Errorf("APIID = %d, want 777", cfg.Telegram.APIID)
	}
	if cfg.Auth.OTPWindow != 10*time.Minute {
		t.Errorf("OTPWindow = %v, want 10m", cfg.Auth.OTPWindow)
	}
	if cfg.Auth.OTPLimit != 5 {
		t.Errorf("OTPLimit = %d, want 5", cfg.Auth.OTPLimit)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "b:9092" {
		t.Errorf("Brokers = %v, want [a:9092 b:9092]", cfg.Kafka.Brokers)
	}
}

func TestLoad_InvalidAPIID(t *testing.T) {
	t.Setenv("TELEGRAM_API_ID", "not-a-number")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid TELEGRAM_API_ID")
	}
}

func TestGetEnvDuration_Invalid(t *testing.T) {
	t.Setenv("SOME_DURATION", "soon")

	if got := getEnvDuration("SOME_DURATION", time.Second); got != time.Second {
		t.Errorf("getEnvDuration() = %v, want default", got)
	}
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}

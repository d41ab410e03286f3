package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Gateway  GatewayConfig
	Notifier NotifierConfig
	SLA      SLAConfig
	Sim      SimConfig
	DB       DatabaseConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type GatewayConfig struct {
	URL     string
	Timeout time.Duration
}

type NotifierConfig struct {
	Workers    int
	BufferSize int
}

type SLAConfig struct {
	CheckInterval time.Duration
}

type SimConfig struct {
	Enabled  bool
	Interval time.Duration
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Gateway: GatewayConfig{
			URL:     getEnv("GATEWAY_URL", "http://localhost:9090/api/alerts/ack"),
			Timeout: getEnvDuration("GATEWAY_TIMEOUT", 5*time.Second),
		},
		Notifier: NotifierConfig{
			Workers:    getEnvInt("NOTIFIER_WORKERS", 2),
			BufferSize: getEnvInt("NOTIFIER_BUFFER_SIZE", 20),
		},
		SLA: SLAConfig{
			CheckInterval: getEnvDuration("SLA_CHECK_INTERVAL", 30*time.Second),
		},
		Sim: SimConfig{
			Enabled:  getEnvBool("SIM_ENABLED", true),
			Interval: getEnvDuration("SIM_INTERVAL", 5*time.Minute),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/ward-monitor.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Gateway.URL == "" {
		return fmt.Errorf("gateway URL must not be empty")
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("gateway timeout must be positive")
	}
	if c.SLA.CheckInterval < 5*time.Second {
		return fmt.Errorf("SLA check interval must be at least 5 seconds")
	}
	if c.Sim.Enabled && c.Sim.Interval < time.Minute {
		return fmt.Errorf("sensor sweep interval must be at least 1 minute")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Ledger drivers accepted in LEDGER_DRIVER
const (
	LedgerMemory   = "memory"
	LedgerFile     = "file"
	LedgerPostgres = "postgres"
)

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	App    AppConfig
	JWT    JWTConfig
	CORS   CORSConfig
	Ledger LedgerConfig
	Kafka  KafkaConfig

	// TaxYearConfigFile optionally replaces the built-in 2024/25 configuration
	TaxYearConfigFile string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// JWTConfig holds JWT configuration. An empty secret disables authentication.
type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// LedgerConfig selects the YTD store
type LedgerConfig struct {
	Driver      string
	Dir         string
	DatabaseURL string
}

// KafkaConfig enables event publishing when brokers are set
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// LoadServerConfig reads configuration from the environment, loading a .env file first
// when one exists
func LoadServerConfig(envFiles ...string) (*ServerConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	cfg := &ServerConfig{
		App: AppConfig{
			Port:     port,
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Ledger: LedgerConfig{
			Driver:      strings.ToLower(getEnv("LEDGER_DRIVER", LedgerMemory)),
			Dir:         getEnv("LEDGER_DIR", "ledger"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", "payroll.calculated.v1"),
		},
		TaxYearConfigFile: getEnv("TAX_YEAR_CONFIG", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *ServerConfig) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.App.Port)
	}
	switch c.Ledger.Driver {
	case LedgerMemory:
	case LedgerFile:
		if c.Ledger.Dir == "" {
			return fmt.Errorf("LEDGER_DIR is required for the file ledger")
		}
	case LedgerPostgres:
		if c.Ledger.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres ledger")
		}
	default:
		return fmt.Errorf("unsupported LEDGER_DRIVER %q", c.Ledger.Driver)
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bigsparsh/inventraX/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DBConfig holds the PostgreSQL connection settings.
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration
	SchemaPath      string
}

// DSN returns the PostgreSQL connection string.
func (c *DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// JWTConfig holds the token signing settings. Secret has no default: startup
// fails when it is unset.
type JWTConfig struct {
	Secret string
}

// NaturalConfig points at the external natural-language query service.
type NaturalConfig struct {
	ServiceURL string
	Timeout    time.Duration
}

// Config holds all application configuration.
type Config struct {
	DB      DBConfig
	Server  ServerConfig
	JWT     JWTConfig
	Natural NaturalConfig
}

// ErrMissingJWTSecret is returned by Load when JWT_SECRET is unset or empty.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{
		DB: DBConfig{
			Host:            utils.Getenv("DB_HOST", "localhost"),
			Port:            utils.Getenv("DB_PORT", "5432"),
			User:            utils.Getenv("DB_USER", "postgres"),
			Password:        utils.Getenv("DB_PASSWORD", ""),
			DBName:          utils.Getenv("DB_NAME", "inventrax"),
			SSLMode:         utils.Getenv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getenvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getenvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxIdleTime: getenvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second),
			ConnectTimeout:  getenvDuration("DB_CONNECT_TIMEOUT", 2*time.Second),
			SchemaPath:      utils.Getenv("DB_SCHEMA_PATH", ""),
		},
		Server: ServerConfig{
			Port:            utils.Getenv("SERVER_PORT", "8080"),
			CORSOrigins:     splitOrigins(utils.Getenv("CORS_ORIGINS", "http://localhost:3000")),
			ShutdownTimeout: getenvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		JWT: JWTConfig{
			Secret: utils.Getenv("JWT_SECRET", ""),
		},
		Natural: NaturalConfig{
			ServiceURL: utils.Getenv("NATURAL_SERVICE_URL", "http://localhost:8000/natural-processing"),
			Timeout:    getenvDuration("NATURAL_SERVICE_TIMEOUT", 15*time.Second),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, ErrMissingJWTSecret
	}
	return cfg, nil
}

func getenvInt(key string, fallback int) int {
	raw := utils.Getenv(key, "")
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("Invalid integer in environment, using default")
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	raw := utils.Getenv(key, "")
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("Invalid duration in environment, using default")
		return fallback
	}
	return parsed
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

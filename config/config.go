package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds every setting read from the environment
type Config struct {
	Env  string `envconfig:"ENV" default:"development"`
	Port string `envconfig:"PORT" default:"8080"`

	Store       string `envconfig:"STORE" default:"postgres"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBHost      string `envconfig:"DB_HOST"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBUser      string `envconfig:"DB_USER"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBName      string `envconfig:"DB_NAME"`
	DBSSLMode   string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns  int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`

	RequestTimeout        time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	CompatibilityCacheTTL time.Duration `envconfig:"COMPATIBILITY_CACHE_TTL" default:"5m"`
	Currency              string        `envconfig:"CURRENCY" default:"USD"`

	KafkaBrokers     []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopicPrefix string   `envconfig:"KAFKA_TOPIC_PREFIX" default:"carmod."`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads .env (outside production) and then the process environment.
func Load() (*Config, error) {
	// In production, variables should be set directly
	if os.Getenv("ENV") != "production" {
		if err := godotenv.Load(".env"); err != nil {
			log.Debugf("⚠️ Load: .env file not found, using system environment variables")
		} else {
			log.Infof("✅ Load: Loaded environment variables from .env")
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to read environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have no usable default
func (c *Config) Validate() error {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	if c.Store != StorePostgres && c.Store != StoreMemory {
		return errors.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	if c.CompatibilityCacheTTL < 0 {
		return errors.New("COMPATIBILITY_CACHE_TTL cannot be negative")
	}
	// Remove leading colon if present
	c.Port = strings.TrimPrefix(c.Port, ":")
	return nil
}

// DSN returns DATABASE_URL or builds a connection string from DB_* variables.
func (c *Config) DSN() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
		return "", errors.New("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode), nil
}

// Addr is the HTTP listen address.
// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker)
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ConfigureLogging applies LOG_LEVEL and LOG_FORMAT to the global logger
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warnf("⚠️ ConfigureLogging: unknown LOG_LEVEL %q, using info", c.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(c.LogFormat, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

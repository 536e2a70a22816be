package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

type Config struct {
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	DatabaseDriver string // Credential store driver (sqlite, postgres) (default: sqlite)
	DatabaseDSN    string // SQLite file or Postgres URL (default: accounts.db)

	ProfileDriver   string // Profile store driver (mongo, memory) (default: mongo)
	MongoURI        string // (default: mongodb://localhost:27017)
	MongoDatabase   string // (default: accounts)
	MongoCollection string // (default: user_profiles)

	SessionDriver string        // Session store driver (redis, memory) (default: redis)
	RedisAddr     string        // (default: 127.0.0.1:6379)
	RedisPassword string        // Optional
	RedisDB       int           // (default: 0)
	SessionPrefix string        // Key prefix for session records (default: accounts_session:)
	SessionTTL    time.Duration // Fixed session lifetime (default: 24h)

	BcryptCost   int           // Password hashing cost (default: 12)
	StoreTimeout time.Duration // Dial and operation timeout for Mongo and Redis (default: 5s)
}

// fileConfig is the optional YAML base layer. Every key is optional and is
// overridden by the matching environment variable.
type fileConfig struct {
	Env                 string `yaml:"env"`
	LogLevel            string `yaml:"log_level"`
	LogFormat           string `yaml:"log_format"`
	Port                int    `yaml:"port"`
	ShutdownGracePeriod string `yaml:"shutdown_grace_period"`

	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`

	Profiles struct {
		Driver     string `yaml:"driver"`
		URI        string `yaml:"uri"`
		Database   string `yaml:"database"`
		Collection string `yaml:"collection"`
	} `yaml:"profiles"`

	Sessions struct {
		Driver   string `yaml:"driver"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
		TTL      string `yaml:"ttl"`
	} `yaml:"sessions"`

	BcryptCost   int    `yaml:"bcrypt_cost"`
	StoreTimeout string `yaml:"store_timeout"`
}

func defaultConfig() Config {
	return Config{
		Env:                 "dev",
		LogLevel:            "info",
		LogFormat:           "json",
		Port:                8080,
		ShutdownGracePeriod: 10 * time.Second,
		DatabaseDriver:      "sqlite",
		DatabaseDSN:         "accounts.db",
		ProfileDriver:       "mongo",
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "accounts",
		MongoCollection:     "user_profiles",
		SessionDriver:       "redis",
		RedisAddr:           "127.0.0.1:6379",
		SessionPrefix:       "accounts_session:",
		SessionTTL:          24 * time.Hour,
		BcryptCost:          12,
		StoreTimeout:        5 * time.Second,
	}
}

// LoadConfig builds the configuration from, in increasing precedence: the
// built-in defaults, the YAML file named by ACCOUNTS_CONFIG_FILE, a .env
// file in the working directory, and the process environment.
func LoadConfig() (Config, error) {
	// A missing .env is normal; variables already set are never overwritten.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv("ACCOUNTS_CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.Port = getEnvIntOrDefault("PORT", cfg.Port)
	cfg.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)

	cfg.DatabaseDriver = getEnvOrDefault("ACCOUNTS_DATABASE_DRIVER", cfg.DatabaseDriver)
	cfg.DatabaseDSN = getEnvOrDefault("ACCOUNTS_DATABASE_DSN", cfg.DatabaseDSN)

	cfg.ProfileDriver = getEnvOrDefault("ACCOUNTS_PROFILE_DRIVER", cfg.ProfileDriver)
	cfg.MongoURI = getEnvOrDefault("ACCOUNTS_MONGO_URI", cfg.MongoURI)
	cfg.MongoDatabase = getEnvOrDefault("ACCOUNTS_MONGO_DATABASE", cfg.MongoDatabase)
	cfg.MongoCollection = getEnvOrDefault("ACCOUNTS_MONGO_COLLECTION", cfg.MongoCollection)

	cfg.SessionDriver = getEnvOrDefault("ACCOUNTS_SESSION_DRIVER", cfg.SessionDriver)
	cfg.RedisAddr = getEnvOrDefault("ACCOUNTS_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnvOrDefault("ACCOUNTS_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvIntOrDefault("ACCOUNTS_REDIS_DB", cfg.RedisDB)
	cfg.SessionPrefix = getEnvOrDefault("ACCOUNTS_SESSION_PREFIX", cfg.SessionPrefix)
	cfg.SessionTTL = getEnvDurationOrDefault("ACCOUNTS_SESSION_TTL", cfg.SessionTTL)

	cfg.BcryptCost = getEnvIntOrDefault("ACCOUNTS_BCRYPT_COST", cfg.BcryptCost)
	cfg.StoreTimeout = getEnvDurationOrDefault("ACCOUNTS_STORE_TIMEOUT", cfg.StoreTimeout)

	return cfg, cfg.validate()
}

func (cfg *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.Env, fc.Env)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setInt(&cfg.Port, fc.Port)
	setString(&cfg.DatabaseDriver, fc.Database.Driver)
	setString(&cfg.DatabaseDSN, fc.Database.DSN)
	setString(&cfg.ProfileDriver, fc.Profiles.Driver)
	setString(&cfg.MongoURI, fc.Profiles.URI)
	setString(&cfg.MongoDatabase, fc.Profiles.Database)
	setString(&cfg.MongoCollection, fc.Profiles.Collection)
	setString(&cfg.SessionDriver, fc.Sessions.Driver)
	setString(&cfg.RedisAddr, fc.Sessions.Addr)
	setString(&cfg.RedisPassword, fc.Sessions.Password)
	setInt(&cfg.RedisDB, fc.Sessions.DB)
	setString(&cfg.SessionPrefix, fc.Sessions.Prefix)
	setInt(&cfg.BcryptCost, fc.BcryptCost)

	for _, d := range []struct {
		dst *time.Duration
		raw string
		key string
	}{
		{&cfg.ShutdownGracePeriod, fc.ShutdownGracePeriod, "shutdown_grace_period"},
		{&cfg.SessionTTL, fc.Sessions.TTL, "sessions.ttl"},
		{&cfg.StoreTimeout, fc.StoreTimeout, "store_timeout"},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("config file %s: %s: %w", path, d.key, err)
		}
		*d.dst = v
	}

	return nil
}

func (cfg Config) validate() error {
	switch cfg.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
	switch cfg.ProfileDriver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("unsupported profile driver %q", cfg.ProfileDriver)
	}
	switch cfg.SessionDriver {
	case "redis", "memory":
	default:
		return fmt.Errorf("unsupported session driver %q", cfg.SessionDriver)
	}
	if cfg.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

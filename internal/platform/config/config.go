package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Token store backends.
const (
	TokenStoreFile  = "file"
	TokenStoreRedis = "redis"
)

// DefaultAPIURL is the local development address of the HR backend.
const DefaultAPIURL = "http://localhost:8000/api"

// Config captures the process level configuration shared by the console and hrctl.
type Config struct {
	APIURL     string
	APITimeout time.Duration

	ConsoleAddr string
	Environment string
	LogLevel    string

	TokenStore string
	TokenFile  string
	Redis      RedisConfig

	EmployeeListLimit int
	HistoryLimit      int
}

// RedisConfig holds the connection settings for the redis token store.
type RedisConfig struct {
	URL         string
	Key         string
	DialTimeout time.Duration
}

// APITimeout bounds a single backend call. Zero disables the bound.
var APITimeout = 30 * time.Second

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		APIURL:            getEnv("HR_API_URL", DefaultAPIURL),
		APITimeout:        getDuration("HR_API_TIMEOUT", APITimeout),
		ConsoleAddr:       getEnv("HR_CONSOLE_ADDR", "127.0.0.1:3000"),
		Environment:       getEnv("HR_ENV", "development"),
		LogLevel:          getEnv("HR_LOG_LEVEL", "info"),
		TokenStore:        getEnv("HR_TOKEN_STORE", TokenStoreFile),
		TokenFile:         getEnv("HR_TOKEN_FILE", defaultTokenFile()),
		EmployeeListLimit: getInt("HR_EMPLOYEE_LIMIT", 500),
		HistoryLimit:      getInt("HR_HISTORY_LIMIT", 10),
		Redis: RedisConfig{
			URL:         getEnv("HR_REDIS_URL", "redis://localhost:6379/0"),
			Key:         getEnv("HR_REDIS_KEY", "hrconsole:token"),
			DialTimeout: getDuration("HR_REDIS_DIAL_TIMEOUT", 5*time.Second),
		},
	}
	return cfg
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "hrconsole", "storage.json")
	}
	return filepath.Join(home, ".hrconsole", "storage.json")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		return d
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	return fallback
}

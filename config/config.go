package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned by Validate when no Pokémon TCG API key is set.
var ErrMissingAPIKey = errors.New("config: POKEMON_TCG_API_KEY is not set")

// Config holds all application configuration loaded from environment variables.
type Config struct {
	APIKey         string
	APIBaseURL     string
	PageSize       int
	MaxRetries     int
	RateLimitMs    int
	RequestTimeout time.Duration

	CSVOutputPath  string
	SQLitePath     string
	ZeroFillCounts bool

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	ChromeBin       string
	ChartAssetsHost string
	LogLevel        string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		// lower-case name kept for older .env files
		APIKey:         getEnv("POKEMON_TCG_API_KEY", os.Getenv("pokemon_tcg_api_key")),
		APIBaseURL:     getEnv("POKEMON_TCG_API_URL", "https://api.pokemontcg.io/v2"),
		PageSize:       getEnvInt("PAGE_SIZE", 250),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 250),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),

		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", "data/raw_pokemon_data.csv"),
		SQLitePath:     getEnv("SQLITE_PATH", ""),
		ZeroFillCounts: getEnvBool("ZERO_FILL_COUNTS", false),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "pokemon"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "pokemon123"),
		PostgresDB:       getEnv("POSTGRES_DB", "tcg_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		ChromeBin:       getEnv("CHROME_BIN", ""),
		ChartAssetsHost: getEnv("CHART_ASSETS_HOST", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports settings the extractor cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.PageSize <= 0 {
		return errors.New("config: PAGE_SIZE must be positive")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
	}
	return fallback
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"

	"github.com/bingbr/League-API-datastore/internal/riot"
)

const (
	riotAPIKeyLength    = 42
	riotAPIKeyPattern   = `^RGAPI-[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`
	defaultRateLimitCfg = "config.toml"
	defaultRegion       = riot.RegionNorthAmerica
)

var riotAPIKeyRegex = regexp.MustCompile(riotAPIKeyPattern)

type Config struct {
	IsDev          bool
	DatabaseURL    string
	SQLitePath     string
	RiotAPIKey     string
	RiotAPIBaseURL string
	StaticBaseURL  string
	RateLimitCfg   string
	DefaultRegion  riot.Region
	MetricsAddr    string
	LogLevel       slog.Level
}

// Load reads an optional dotenv file into the environment and parses it.
// Variables already set in the environment win over the file.
func Load(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return Parse()
}

func Parse() (Config, error) {
	env := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))

	riotAPIKey := strings.TrimSpace(os.Getenv("RIOT_API_KEY"))
	if riotAPIKey == "" {
		return Config{}, fmt.Errorf("RIOT_API_KEY is not set")
	}
	if err := validateRiotAPIKey(riotAPIKey); err != nil {
		return Config{}, err
	}

	rateLimitCfg := strings.TrimSpace(os.Getenv("RIOT_RATE_LIMIT_CONFIG"))
	if rateLimitCfg == "" {
		rateLimitCfg = defaultRateLimitCfg
	}

	region := defaultRegion
	if raw := strings.TrimSpace(os.Getenv("DEFAULT_REGION")); raw != "" {
		parsed, err := riot.ParseRegion(raw)
		if err != nil {
			return Config{}, fmt.Errorf("DEFAULT_REGION: %w", err)
		}
		region = parsed
	}

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	sqlitePath := strings.TrimSpace(os.Getenv("CACHE_SQLITE_PATH"))
	if databaseURL != "" && sqlitePath != "" {
		return Config{}, fmt.Errorf("DATABASE_URL and CACHE_SQLITE_PATH are mutually exclusive")
	}

	return Config{
		IsDev:          env == "dev",
		DatabaseURL:    databaseURL,
		SQLitePath:     sqlitePath,
		RiotAPIKey:     riotAPIKey,
		RiotAPIBaseURL: strings.TrimSpace(os.Getenv("RIOT_API_BASE_URL")),
		StaticBaseURL:  strings.TrimSpace(os.Getenv("DDRAGON_BASE_URL")),
		RateLimitCfg:   rateLimitCfg,
		DefaultRegion:  region,
		MetricsAddr:    strings.TrimSpace(os.Getenv("METRICS_ADDR")),
		LogLevel:       inferLogLevel(env),
	}, nil
}

func inferLogLevel(appEnv string) slog.Level {
	if appEnv == "debug" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func validateRiotAPIKey(key string) error {
	if len(key) != riotAPIKeyLength {
		return fmt.Errorf("RIOT_API_KEY has invalid length %d", len(key))
	}
	if !riotAPIKeyRegex.MatchString(key) {
		return fmt.Errorf("RIOT_API_KEY format is invalid")
	}
	return nil
}

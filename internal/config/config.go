// Package config loads gusto settings from a .env file, an optional YAML
// config file and GUSTO_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Acex619/gusto-food-scanner/internal/app"
)

const envPrefix = "GUSTO"

// Config keys. Each maps to GUSTO_<KEY> in the environment.
const (
	KeyDB                 = "db"
	KeyLogLevel           = "log_level"
	KeyCacheEnabled       = "cache_enabled"
	KeyCacheTTL           = "cache_ttl"
	KeyFetchTimeout       = "fetch_timeout"
	KeyLookupTimeout      = "lookup_timeout"
	KeyEnrichConcurrency  = "enrich_concurrency"
	KeyUSDAAPIKey         = "usda_api_key"
	KeyUPCItemDBAPIKey    = "upcitemdb_api_key"
	KeyUPCItemDBKeyType   = "upcitemdb_key_type"
	KeyWikipediaEnabled   = "wikipedia_enabled"
	KeyWikipediaRateLimit = "wikipedia_rate_limit"
	KeyWikipediaCacheTTL  = "wikipedia_cache_ttl"
)

var secretKeys = map[string]bool{
	KeyUSDAAPIKey:      true,
	KeyUPCItemDBAPIKey: true,
}

type Config struct {
	DBPath             string
	LogLevel           string
	CacheEnabled       bool
	CacheTTL           time.Duration
	FetchTimeout       time.Duration
	LookupTimeout      time.Duration
	EnrichConcurrency  int
	USDAAPIKey         string
	UPCItemDBAPIKey    string
	UPCItemDBKeyType   string
	WikipediaEnabled   bool
	WikipediaRateLimit float64
	WikipediaCacheTTL  time.Duration
	// ConfigFile is the YAML file that was read, if any.
	ConfigFile string
}

type LoadOptions struct {
	// ConfigFile is an explicit YAML path; it must exist when set.
	ConfigFile string
	// EnvFile defaults to ".env" in the working directory. A missing file is
	// not an error.
	EnvFile string
	// SearchPaths are directories searched for gusto.yaml when ConfigFile is
	// empty. Defaults to the working directory and the user config dir.
	SearchPaths []string
}

// Load resolves the effective configuration.
func Load(opts LoadOptions) (Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := setDefaults(v); err != nil {
		return Config{}, err
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("gusto")
		v.SetConfigType("yaml")
		for _, p := range searchPaths(opts.SearchPaths) {
			v.AddConfigPath(p)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	cfg := Config{
		DBPath:             strings.TrimSpace(v.GetString(KeyDB)),
		LogLevel:           strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		CacheEnabled:       v.GetBool(KeyCacheEnabled),
		CacheTTL:           v.GetDuration(KeyCacheTTL),
		FetchTimeout:       v.GetDuration(KeyFetchTimeout),
		LookupTimeout:      v.GetDuration(KeyLookupTimeout),
		EnrichConcurrency:  v.GetInt(KeyEnrichConcurrency),
		USDAAPIKey:         strings.TrimSpace(v.GetString(KeyUSDAAPIKey)),
		UPCItemDBAPIKey:    strings.TrimSpace(v.GetString(KeyUPCItemDBAPIKey)),
		UPCItemDBKeyType:   strings.TrimSpace(v.GetString(KeyUPCItemDBKeyType)),
		WikipediaEnabled:   v.GetBool(KeyWikipediaEnabled),
		WikipediaRateLimit: v.GetFloat64(KeyWikipediaRateLimit),
		WikipediaCacheTTL:  v.GetDuration(KeyWikipediaCacheTTL),
		ConfigFile:         v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) error {
	dbPath, err := app.DefaultDBPath()
	if err != nil {
		return err
	}
	v.SetDefault(KeyDB, dbPath)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyCacheEnabled, true)
	v.SetDefault(KeyCacheTTL, "168h")
	v.SetDefault(KeyFetchTimeout, "15s")
	v.SetDefault(KeyLookupTimeout, "3s")
	v.SetDefault(KeyEnrichConcurrency, 4)
	// FoodData Central's public rate-limited key.
	v.SetDefault(KeyUSDAAPIKey, "DEMO_KEY")
	v.SetDefault(KeyUPCItemDBAPIKey, "")
	v.SetDefault(KeyUPCItemDBKeyType, "3scale")
	v.SetDefault(KeyWikipediaEnabled, true)
	v.SetDefault(KeyWikipediaRateLimit, 5.0)
	v.SetDefault(KeyWikipediaCacheTTL, "24h")
	return nil
}

func searchPaths(paths []string) []string {
	if len(paths) > 0 {
		return paths
	}
	out := []string{"."}
	if dir, err := app.DefaultConfigDir(); err == nil {
		out = append(out, dir)
	}
	return out
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%s must not be empty", KeyDB)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("%s must not be negative", KeyCacheTTL)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyFetchTimeout)
	}
	if c.LookupTimeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyLookupTimeout)
	}
	if c.EnrichConcurrency < 1 {
		return fmt.Errorf("%s must be at least 1", KeyEnrichConcurrency)
	}
	if c.WikipediaRateLimit <= 0 {
		return fmt.Errorf("%s must be positive", KeyWikipediaRateLimit)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported %s %q", KeyLogLevel, c.LogLevel)
	}
	return nil
}

// Entry is one effective setting for display.
type Entry struct {
	Key   string `json:"key"`
	Env   string `json:"env"`
	Value string `json:"value"`
}

// Entries lists the effective settings in a stable order with secrets
// masked.
func (c Config) Entries() []Entry {
	values := []struct {
		key   string
		value string
	}{
		{KeyDB, c.DBPath},
		{KeyLogLevel, c.LogLevel},
		{KeyCacheEnabled, fmt.Sprintf("%t", c.CacheEnabled)},
		{KeyCacheTTL, c.CacheTTL.String()},
		{KeyFetchTimeout, c.FetchTimeout.String()},
		{KeyLookupTimeout, c.LookupTimeout.String()},
		{KeyEnrichConcurrency, fmt.Sprintf("%d", c.EnrichConcurrency)},
		{KeyUSDAAPIKey, c.USDAAPIKey},
		{KeyUPCItemDBAPIKey, c.UPCItemDBAPIKey},
		{KeyUPCItemDBKeyType, c.UPCItemDBKeyType},
		{KeyWikipediaEnabled, fmt.Sprintf("%t", c.WikipediaEnabled)},
		{KeyWikipediaRateLimit, fmt.Sprintf("%g", c.WikipediaRateLimit)},
		{KeyWikipediaCacheTTL, c.WikipediaCacheTTL.String()},
	}
	out := make([]Entry, 0, len(values))
	for _, v := range values {
		value := v.value
		if secretKeys[v.key] {
			value = Mask(value)
		}
		out = append(out, Entry{Key: v.key, Env: EnvName(v.key), Value: value})
	}
	return out
}

// EnvName is the environment variable that overrides key.
func EnvName(key string) string {
	return envPrefix + "_" + strings.ToUpper(key)
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

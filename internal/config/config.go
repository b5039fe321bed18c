package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything pokedex reads from its config file and environment.
type Config struct {
	APIURL         string
	RequestTimeout time.Duration
	SearchDebounce time.Duration
	LogFile        string
	LogLevel       string
	MetricsAddr    string
	OTLPEndpoint   string
	SessionFile    string
}

const (
	defaultConfigPath     = "~/.config/pokedex/config.toml"
	defaultAPIURL         = "http://localhost:8080"
	defaultRequestTimeout = 5 * time.Second
	defaultSearchDebounce = 700 * time.Millisecond
	defaultLogFile        = "~/.local/state/pokedex/pokedex.log"
	defaultLogLevel       = "info"
	defaultSessionFile    = "~/.local/state/pokedex/session.toml"
)

// Environment variables that override file values.
const (
	EnvAPIURL         = "POKEDEX_API_URL"
	EnvRequestTimeout = "POKEDEX_REQUEST_TIMEOUT"
	EnvSearchDebounce = "POKEDEX_SEARCH_DEBOUNCE"
	EnvLogFile        = "POKEDEX_LOG_FILE"
	EnvLogLevel       = "POKEDEX_LOG_LEVEL"
	EnvMetricsAddr    = "POKEDEX_METRICS_ADDR"
	EnvOTLPEndpoint   = "POKEDEX_OTLP_ENDPOINT"
	EnvSessionFile    = "POKEDEX_SESSION_FILE"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		RequestTimeout: defaultRequestTimeout,
		SearchDebounce: defaultSearchDebounce,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		SessionFile:    mustExpand(defaultSessionFile),
	}
}

// Load reads the config file at path (the default location when empty),
// applies environment overrides and validates the result. A missing file is
// not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := loadFile(resolved, &cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	cfg.LogFile = mustExpand(cfg.LogFile)
	cfg.SessionFile = mustExpand(cfg.SessionFile)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		RequestTimeout string `toml:"request_timeout"`
		SearchDebounce string `toml:"search_debounce"`
		LogFile        string `toml:"log_file"`
		LogLevel       string `toml:"log_level"`
		MetricsAddr    string `toml:"metrics_addr"`
		OTLPEndpoint   string `toml:"otlp_endpoint"`
		SessionFile    string `toml:"session_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&cfg.APIURL, raw.APIURL)
	setString(&cfg.LogFile, raw.LogFile)
	setString(&cfg.LogLevel, raw.LogLevel)
	setString(&cfg.MetricsAddr, raw.MetricsAddr)
	setString(&cfg.OTLPEndpoint, raw.OTLPEndpoint)
	setString(&cfg.SessionFile, raw.SessionFile)
	if err := setDuration(&cfg.RequestTimeout, "request_timeout", raw.RequestTimeout); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := setDuration(&cfg.SearchDebounce, "search_debounce", raw.SearchDebounce); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) string {
		value, ok := lookup(key)
		if !ok {
			return ""
		}
		return value
	}

	setString(&cfg.APIURL, get(EnvAPIURL))
	setString(&cfg.LogFile, get(EnvLogFile))
	setString(&cfg.LogLevel, get(EnvLogLevel))
	setString(&cfg.MetricsAddr, get(EnvMetricsAddr))
	setString(&cfg.OTLPEndpoint, get(EnvOTLPEndpoint))
	setString(&cfg.SessionFile, get(EnvSessionFile))
	if err := setDuration(&cfg.RequestTimeout, EnvRequestTimeout, get(EnvRequestTimeout)); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if err := setDuration(&cfg.SearchDebounce, EnvSearchDebounce, get(EnvSearchDebounce)); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.SearchDebounce <= 0 {
		return fmt.Errorf("search_debounce must be positive, got %s", c.SearchDebounce)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	return nil
}

func setString(dst *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dst = trimmed
	}
}

func setDuration(dst *time.Duration, name, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the process configuration read from the environment.
type Config struct {
	// APIKey authenticates server-side places calls.
	APIKey string
	// BrowserKey is handed to the page for the map widget.
	BrowserKey string
	// Country restricts address suggestions (ISO 3166-1 alpha-2).
	Country string
	// Timeout bounds each places call.
	Timeout time.Duration
	// CacheTTL is how long fetched place details are reused.
	CacheTTL time.Duration
	// DataDir holds the details cache database.
	DataDir string
}

// knownEnvVars lists the environment variables the service reads.
var knownEnvVars = []string{
	"GOOGLE_API_KEY",
	"GOOGLE_MAPS_BROWSER_KEY",
	"PARKS_COUNTRY",
	"PARKS_TIMEOUT",
	"PARKS_CACHE_TTL",
	"PARKS_DATA_DIR",
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) (Config, error) {
	cfg := Config{
		APIKey:     getenv("GOOGLE_API_KEY"),
		BrowserKey: getenv("GOOGLE_MAPS_BROWSER_KEY"),
		Country:    strings.ToLower(strings.TrimSpace(getenv("PARKS_COUNTRY"))),
		Timeout:    10 * time.Second,
		CacheTTL:   24 * time.Hour,
		DataDir:    getenv("PARKS_DATA_DIR"),
	}
	if cfg.BrowserKey == "" {
		cfg.BrowserKey = cfg.APIKey
	}
	if cfg.Country == "" {
		cfg.Country = "us"
	}
	if len(cfg.Country) != 2 {
		return Config{}, fmt.Errorf("PARKS_COUNTRY must be a two-letter country code, got %q", cfg.Country)
	}
	if v := getenv("PARKS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid PARKS_TIMEOUT %q", v)
		}
		cfg.Timeout = d
	}
	if v := getenv("PARKS_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("invalid PARKS_CACHE_TTL %q", v)
		}
		cfg.CacheTTL = d
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(os.ExpandEnv("$HOME"), ".parks", "data")
	}
	return cfg, nil
}

// EnvStatus reports which known variables are set, never their values.
func EnvStatus() []StatusCheck {
	checks := make([]StatusCheck, 0, len(knownEnvVars))
	for _, name := range knownEnvVars {
		checks = append(checks, StatusCheck{Name: name, Status: os.Getenv(name) != ""})
	}
	return checks
}

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-slidedeck/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without a config document.
type envConfig struct {
	// Process
	ConfigPath string // SLIDEDECK_CONFIG: config name, path or URL
	Addr       string // SLIDEDECK_ADDR: listen address
	LogLevel   string // SLIDEDECK_LOG_LEVEL: debug, info, warn, error
	LogFormat  string // SLIDEDECK_LOG_FORMAT: console, json
	Clicker    string // SLIDEDECK_CLICKER: remote input device

	// Document overrides
	Lang         string        // SLIDEDECK_LANG: interface language
	Variant      string        // SLIDEDECK_VARIANT: neon, minimal
	AssetPath    string        // SLIDEDECK_ASSET_PATH: custom asset directory
	ProbeWorkers int           // SLIDEDECK_PROBE_WORKERS: concurrent probes
	ProbeTimeout time.Duration // SLIDEDECK_PROBE_TIMEOUT: per-candidate timeout
}

// envPrefix marks variables read by slidedeck.
const envPrefix = "SLIDEDECK_"

// knownEnvVars lists valid SLIDEDECK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"SLIDEDECK_CONFIG":        true,
	"SLIDEDECK_ADDR":          true,
	"SLIDEDECK_LOG_LEVEL":     true,
	"SLIDEDECK_LOG_FORMAT":    true,
	"SLIDEDECK_CLICKER":       true,
	"SLIDEDECK_LANG":          true,
	"SLIDEDECK_VARIANT":       true,
	"SLIDEDECK_ASSET_PATH":    true,
	"SLIDEDECK_PROBE_WORKERS": true,
	"SLIDEDECK_PROBE_TIMEOUT": true,
	"SLIDEDECK_CONTAINER":     true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("SLIDEDECK_CONFIG"),
		Addr:       os.Getenv("SLIDEDECK_ADDR"),
		LogLevel:   os.Getenv("SLIDEDECK_LOG_LEVEL"),
		LogFormat:  os.Getenv("SLIDEDECK_LOG_FORMAT"),
		Clicker:    os.Getenv("SLIDEDECK_CLICKER"),
		Lang:       os.Getenv("SLIDEDECK_LANG"),
		Variant:    os.Getenv("SLIDEDECK_VARIANT"),
		AssetPath:  os.Getenv("SLIDEDECK_ASSET_PATH"),
	}

	if workers := os.Getenv("SLIDEDECK_PROBE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.ProbeWorkers = w
		}
	}
	if timeout := os.Getenv("SLIDEDECK_PROBE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.ProbeTimeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for each unrecognized SLIDEDECK_*
// variable, catching typos like SLIDEDECK_VARIENT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name := strings.SplitN(env, "=", 2)[0]
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment values over the config document.
// Flags are applied afterwards, giving CLI > env > file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Lang != "" {
		cfg.Locale = env.Lang
	}
	if env.Variant != "" {
		cfg.Presentation.Variant = env.Variant
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.ProbeWorkers > 0 {
		cfg.Assets.ProbeWorkers = env.ProbeWorkers
	}
	if env.ProbeTimeout > 0 {
		cfg.Assets.ProbeTimeoutMs = int(env.ProbeTimeout / time.Millisecond)
	}
}

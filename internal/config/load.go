package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-slidedeck/internal/docfmt"
	"github.com/alnah/go-slidedeck/internal/fileutil"
)

// Document formats.
const (
	FormatJSON = docfmt.JSON
	FormatYAML = docfmt.YAML
	FormatTOML = docfmt.TOML
)

// DefaultName is the config name searched when none is given.
const DefaultName = "config"

// FetchTimeout bounds remote config downloads.
var FetchTimeout = 5 * time.Second

// LoadOption configures Load and LoadOrDefault.
type LoadOption func(*loadOptions)

type loadOptions struct {
	client *http.Client
}

// WithHTTPClient sets the client used for remote documents. A nil client
// keeps http.DefaultClient.
func WithHTTPClient(c *http.Client) LoadOption {
	return func(o *loadOptions) {
		if c != nil {
			o.client = c
		}
	}
}

func buildLoadOptions(opts []LoadOption) loadOptions {
	o := loadOptions{client: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Parse decodes data onto a copy of DefaultConfig, so absent fields keep
// their defaults. Strict mode rejects unknown fields.
func Parse(data []byte, format string, strict bool) (*Config, error) {
	cfg := DefaultConfig()
	if err := docfmt.Decode(data, format, cfg, strict); err != nil {
		if errors.Is(err, docfmt.ErrFormat) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(p string) (string, error) {
	f, err := docfmt.FromPath(p)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, p)
	}
	return f, nil
}

// Load reads configuration from a URL, a file path or a config name.
// A name is searched in standard locations (see resolveConfigPath).
// Returns an error if the document is missing or invalid (no fallback).
func Load(ctx context.Context, nameOrPath string, strict bool, opts ...LoadOption) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	if fileutil.IsURL(nameOrPath) {
		data, format, err := fetch(ctx, buildLoadOptions(opts).client, nameOrPath)
		if err != nil {
			return nil, err
		}
		return Parse(data, format, strict)
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) && filepath.Ext(nameOrPath) == "" {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	format, err := FormatFromPath(configPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data, format, strict)
}

// LoadOrDefault never fails: a missing document silently yields the
// defaults, and a broken one yields the defaults with a warning.
func LoadOrDefault(ctx context.Context, nameOrPath string, logger *zap.Logger, opts ...LoadOption) *Config {
	if logger == nil {
		logger = zap.NewNop()
	}
	name := nameOrPath
	if name == "" {
		name = DefaultName
	}

	cfg, err := Load(ctx, name, false, opts...)
	switch {
	case err == nil:
		logger.Debug("configuration loaded", zap.String("source", name))
		return cfg
	case nameOrPath == "" && errors.Is(err, ErrConfigNotFound):
		logger.Debug("no configuration document, using defaults")
	default:
		logger.Warn("configuration unavailable, using defaults", zap.String("source", name), zap.Error(err))
	}
	return DefaultConfig()
}

// Resolve returns the path Load would read for nameOrPath, or the input
// itself for URLs and explicit paths.
func Resolve(nameOrPath string) (string, error) {
	if nameOrPath == "" {
		nameOrPath = DefaultName
	}
	if fileutil.IsURL(nameOrPath) || fileutil.IsFilePath(nameOrPath) || filepath.Ext(nameOrPath) != "" {
		return nameOrPath, nil
	}
	return resolveConfigPath(nameOrPath)
}

func fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrConfigFetch, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrConfigFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", fmt.Errorf("%w: %s", ErrConfigNotFound, rawURL)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: %s: status %d", ErrConfigFetch, rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, int64(docfmt.MaxInputSize)+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrConfigFetch, err)
	}

	return data, formatFromResponse(rawURL, resp.Header.Get("Content-Type")), nil
}

func formatFromResponse(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if f, err := docfmt.FromPath(u.Path); err == nil {
			return f
		}
	}
	return docfmt.FromMediaType(contentType)
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .json, .yaml, .yml, .toml
// Tries locations in order: current directory, ./config/, ~/.config/go-slidedeck/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".json", ".yaml", ".yml", ".toml"}
	dirs := []string{".", "config"}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userConfigDir, "go-slidedeck"))
	}

	triedPaths := make([]string, 0, len(extensions)*len(dirs))
	for _, dir := range dirs {
		for _, ext := range extensions {
			p := filepath.Join(dir, name+ext)
			if fileutil.FileExists(p) {
				return p, nil
			}
			triedPaths = append(triedPaths, p)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

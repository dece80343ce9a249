// Package docfmt decodes configuration documents written as JSON, YAML or
// TOML behind one call, so callers never import the parsers directly.
package docfmt

import (
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// Formats.
const (
	JSON = "json"
	YAML = "yaml"
	TOML = "toml"
)

// MaxInputSize limits documents to prevent memory exhaustion (1MB).
var MaxInputSize = 1 << 20

var (
	ErrEmpty          = errors.New("docfmt: empty document")
	ErrNilDestination = errors.New("docfmt: nil destination pointer")
	ErrTooLarge       = errors.New("docfmt: document exceeds maximum size")
	ErrUnknownFields  = errors.New("docfmt: unknown fields")
	ErrFormat         = errors.New("docfmt: unsupported format")
)

// Decode parses data in format onto v. Fields absent from data keep the
// values already in v. Strict mode rejects keys v does not declare.
func Decode(data []byte, format string, v any, strict bool) error {
	if len(data) == 0 {
		return ErrEmpty
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}

	switch format {
	case JSON, YAML:
		// JSON is a YAML subset; one decoder serves both.
		var opts []yaml.DecodeOption
		if strict {
			opts = append(opts, yaml.Strict())
		}
		if err := yaml.UnmarshalWithOptions(data, v, opts...); err != nil {
			return fmt.Errorf("docfmt: %w", err)
		}
		return nil
	case TOML:
		return decodeTOML(data, v, strict)
	}
	return fmt.Errorf("%w: %q", ErrFormat, format)
}

func decodeTOML(data []byte, v any, strict bool) error {
	md, err := toml.Decode(string(data), v)
	if err != nil {
		return fmt.Errorf("docfmt: %w", err)
	}
	if !strict {
		return nil
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: %s", ErrUnknownFields, strings.Join(keys, ", "))
	}
	return nil
}

// FromPath infers the format from a file extension.
func FromPath(p string) (string, error) {
	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, p)
}

// FromMediaType maps a Content-Type header to a format, defaulting to JSON.
func FromMediaType(contentType string) string {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch {
	case strings.Contains(mediaType, "toml"):
		return TOML
	case strings.Contains(mediaType, "yaml"):
		return YAML
	}
	return JSON
}

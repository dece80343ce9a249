package assets

import (
	"errors"
)

// LayeredLoader combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the asset is not found in the custom location.
type LayeredLoader struct {
	custom   AssetLoader // nil if no custom path configured
	embedded AssetLoader
}

// NewLayeredLoader creates a LayeredLoader.
// If customBasePath is empty, only embedded assets are used.
// Returns error if customBasePath is set but invalid.
func NewLayeredLoader(customBasePath string) (*LayeredLoader, error) {
	l := &LayeredLoader{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		l.custom = fsLoader
	}

	return l, nil
}

// LoadStyle loads a CSS style, trying the custom loader first if available.
func (l *LayeredLoader) LoadStyle(name string) (string, error) {
	return l.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadStyle(name)
	})
}

// LoadScript loads a client script, trying the custom loader first if available.
func (l *LayeredLoader) LoadScript(name string) (string, error) {
	return l.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadScript(name)
	})
}

// LoadTemplate loads an HTML template, trying the custom loader first if available.
func (l *LayeredLoader) LoadTemplate(name string) (string, error) {
	return l.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadTemplate(name)
	})
}

// loadWithFallback implements the custom-first, fallback-to-embedded logic.
func (l *LayeredLoader) loadWithFallback(loadFn func(AssetLoader) (string, error)) (string, error) {
	if l.custom == nil {
		return loadFn(l.embedded)
	}

	content, err := loadFn(l.custom)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !isNotFoundError(err) {
		return "", err
	}

	return loadFn(l.embedded)
}

// isNotFoundError checks if the error indicates the asset was not found.
func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) ||
		errors.Is(err, ErrScriptNotFound) ||
		errors.Is(err, ErrTemplateNotFound)
}

// HasCustomLoader returns true if a custom asset loader is configured.
func (l *LayeredLoader) HasCustomLoader() bool {
	return l.custom != nil
}

// Compile-time interface check.
var _ AssetLoader = (*LayeredLoader)(nil)

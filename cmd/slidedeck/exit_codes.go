package main

import (
	"errors"
	"os"

	slidedeck "github.com/alnah/go-slidedeck"
	"github.com/alnah/go-slidedeck/internal/config"
	"github.com/alnah/go-slidedeck/internal/deck"
	"github.com/alnah/go-slidedeck/internal/kiosk"
	"github.com/alnah/go-slidedeck/internal/logging"
)

// Exit codes for the slidedeck CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Clean shutdown or passing check
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or deck structure
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Kiosk browser errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, kiosk.ErrBrowserConnect) ||
		errors.Is(err, kiosk.ErrPageOpen) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, slidedeck.ErrDeckRead) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/deck errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrUnsupportedFormat) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidColor) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, slidedeck.ErrUnsupportedDeck) ||
		errors.Is(err, slidedeck.ErrInvalidAssetPath) ||
		errors.Is(err, deck.ErrEmptyDeck) ||
		errors.Is(err, deck.ErrDuplicateSlideID) ||
		errors.Is(err, deck.ErrDuplicateImage) ||
		errors.Is(err, deck.ErrDeckParse) ||
		errors.Is(err, logging.ErrInvalidLevel) ||
		errors.Is(err, logging.ErrInvalidFormat) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}

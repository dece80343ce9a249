// Package remote reads presentation clickers and other keyboard-like input
// devices directly from the Linux input subsystem, so a presenter can drive
// the deck when no browser window has focus.
package remote

import (
	"errors"

	"go.uber.org/zap"
)

// Sentinel errors.
var (
	ErrUnsupported = errors.New("input devices are only supported on linux")
	ErrNotKeyboard = errors.New("device reports no navigation keys")
)

// Key values produced by a clicker, named as a browser KeyboardEvent.key.
const (
	KeyNext       = "ArrowRight"
	KeyPrevious   = "ArrowLeft"
	KeyPageDown   = "PageDown"
	KeyPageUp     = "PageUp"
	KeyFirst      = "Home"
	KeyLast       = "End"
	KeyEscape     = "Escape"
	KeySpace      = " "
	KeyFullscreen = "F11"
)

// Device describes an input device found on the system.
type Device struct {
	Path string
	Name string
}

// Option configures a Clicker.
type Option func(*options)

type options struct {
	log  *zap.Logger
	grab bool
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithGrab takes the device exclusively so its keys do not also reach the
// focused window.
func WithGrab(grab bool) Option {
	return func(o *options) { o.grab = grab }
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	o.log = o.log.Named("remote")
	return o
}

// pressed reports whether an EV_KEY value is a key-down or autorepeat.
func pressed(value int32) bool {
	return value == 1 || value == 2
}

//go:build linux

package remote

import (
	"context"
	"fmt"
	"sync"

	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

var keyNames = map[evdev.EvCode]string{
	evdev.KEY_RIGHT:    KeyNext,
	evdev.KEY_DOWN:     KeyNext,
	evdev.KEY_LEFT:     KeyPrevious,
	evdev.KEY_UP:       KeyPrevious,
	evdev.KEY_PAGEDOWN: KeyPageDown,
	evdev.KEY_PAGEUP:   KeyPageUp,
	evdev.KEY_HOME:     KeyFirst,
	evdev.KEY_END:      KeyLast,
	evdev.KEY_ESC:      KeyEscape,
	evdev.KEY_SPACE:    KeySpace,
	evdev.KEY_ENTER:    KeySpace,
	evdev.KEY_F:        KeyFullscreen,
	evdev.KEY_F5:       KeyFullscreen,
}

// keyName maps an evdev key code to a browser key name.
func keyName(code evdev.EvCode) (string, bool) {
	k, ok := keyNames[code]
	return k, ok
}

// Devices lists input devices that report at least one navigation key.
func Devices() ([]Device, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}
	var out []Device
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		ok := hasNavigationKeys(dev)
		_ = dev.Close()
		if ok {
			out = append(out, Device{Path: p.Path, Name: p.Name})
		}
	}
	return out, nil
}

func hasNavigationKeys(dev *evdev.InputDevice) bool {
	for _, code := range dev.CapableEvents(evdev.EV_KEY) {
		if _, ok := keyNames[code]; ok {
			return true
		}
	}
	return false
}

// Clicker reads key presses from one input device.
type Clicker struct {
	dev       *evdev.InputDevice
	info      Device
	opts      options
	closeOnce sync.Once
	closeErr  error
}

// Open opens the device at path.
func Open(path string, opts ...Option) (*Clicker, error) {
	o := buildOptions(opts)
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	if !hasNavigationKeys(dev) {
		_ = dev.Close()
		return nil, fmt.Errorf("%w: %q", ErrNotKeyboard, path)
	}
	name, _ := dev.Name()
	if o.grab {
		if err := dev.Grab(); err != nil {
			o.log.Warn("grab failed, keys reach the focused window too", zap.String("path", path), zap.Error(err))
		}
	}
	return &Clicker{dev: dev, info: Device{Path: path, Name: name}, opts: o}, nil
}

// Device describes the opened device.
func (c *Clicker) Device() Device { return c.info }

// Run calls handle with the key name of every mapped key press until ctx is
// done or the device goes away. Cancellation is not an error.
func (c *Clicker) Run(ctx context.Context, handle func(key string)) error {
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()
	c.opts.log.Info("reading clicker", zap.String("device", c.info.Name), zap.String("path", c.info.Path))

	for {
		ev, err := c.dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read %q: %w", c.info.Path, err)
		}
		if ev.Type != evdev.EV_KEY || !pressed(ev.Value) {
			continue
		}
		key, ok := keyName(ev.Code)
		if !ok {
			continue
		}
		c.opts.log.Debug("key", zap.String("key", key))
		handle(key)
	}
}

// Close releases the device. It is safe to call more than once.
func (c *Clicker) Close() error {
	c.closeOnce.Do(func() { c.closeErr = c.dev.Close() })
	return c.closeErr
}

// Package kiosk opens the served deck in a dedicated browser window and keeps
// the window's fullscreen state in step with the presentation.
//
// Rod downloads Chromium on first run if no browser is found. ROD_BROWSER_BIN
// selects a pre-installed browser.
package kiosk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	slidedeck "github.com/alnah/go-slidedeck"
	"github.com/alnah/go-slidedeck/internal/events"
	"github.com/alnah/go-slidedeck/internal/process"
)

// Sentinel errors.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageOpen       = errors.New("failed to open deck page")
	ErrWindow         = errors.New("failed to change window state")
)

// DefaultLoadTimeout bounds the first page load.
const DefaultLoadTimeout = 30 * time.Second

// Options configures the browser window.
type Options struct {
	// Bin is the browser binary; empty uses ROD_BROWSER_BIN or rod's lookup.
	Bin string
	// Headless runs without a visible window. Used by doctor and tests.
	Headless bool
	// Width and Height size the window; zero keeps the browser default.
	Width, Height int
	// Fullscreen starts the window in kiosk mode.
	Fullscreen  bool
	LoadTimeout time.Duration
	Logger      *zap.Logger
}

// Window is a browser window showing the deck.
type Window struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	log      *zap.Logger

	mu     sync.Mutex // serializes window state changes
	wg     sync.WaitGroup
	closed bool
}

func newLauncher(opts Options) *launcher.Launcher {
	l := launcher.New().Headless(opts.Headless)

	bin := opts.Bin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}
	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || bin != "" {
		l = l.NoSandbox(true)
	}
	if opts.Width > 0 && opts.Height > 0 {
		l = l.Set("window-size", strconv.Itoa(opts.Width)+","+strconv.Itoa(opts.Height))
	}
	if opts.Fullscreen && !opts.Headless {
		l = l.Set("kiosk")
	}
	return l
}

// Open launches a browser and loads url.
func Open(ctx context.Context, url string, opts Options) (*Window, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = DefaultLoadTimeout
	}

	l := newLauncher(opts)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	w := &Window{launcher: l, log: opts.Logger.Named("kiosk")}
	w.browser = rod.New().ControlURL(u)
	if err := w.browser.Connect(); err != nil {
		w.kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	page, err := w.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageOpen, err)
	}
	w.page = page

	timeout := opts.LoadTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageOpen, err)
	}

	w.log.Info("kiosk window opened", zap.String("url", url), zap.Int("pid", l.PID()))
	return w, nil
}

// SetFullscreen switches the window between fullscreen and normal.
func (w *Window) SetFullscreen(on bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.page == nil {
		return nil
	}

	state := proto.BrowserWindowStateNormal
	if on {
		state = proto.BrowserWindowStateFullscreen
	}
	if err := w.page.SetWindow(&proto.BrowserBounds{WindowState: state}); err != nil {
		return fmt.Errorf("%w: %v", ErrWindow, err)
	}
	return nil
}

// Subscriber delivers presentation events.
type Subscriber interface {
	Subscribe(fn slidedeck.Listener) (unsubscribe func())
}

var _ Subscriber = (*slidedeck.Presentation)(nil)

// Follow applies fullscreen changes published through s to the window.
// Listeners run on the presentation's event loop, so each change is applied
// from its own goroutine.
func (w *Window) Follow(s Subscriber) (unsubscribe func()) {
	return s.Subscribe(func(e events.Event, _ slidedeck.State) {
		fc, ok := e.(events.FullscreenChanged)
		if !ok {
			return
		}
		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			return
		}
		w.wg.Add(1)
		w.mu.Unlock()
		go func() {
			defer w.wg.Done()
			if err := w.SetFullscreen(fc.Fullscreen); err != nil {
				w.log.Warn("fullscreen not applied", zap.Bool("fullscreen", fc.Fullscreen), zap.Error(err))
			}
		}()
	})
}

// Close closes the browser and makes sure its process tree is gone.
func (w *Window) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	w.wg.Wait()

	var err error
	if w.browser != nil {
		err = w.browser.Close()
	}
	w.kill()
	return err
}

func (w *Window) kill() {
	if w.launcher == nil {
		return
	}
	if pid := w.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	w.launcher.Kill()
	w.launcher.Cleanup()
}

// Check launches a headless browser and opens a blank page. It backs the
// doctor command.
func Check(ctx context.Context, opts Options) error {
	opts.Headless = true
	opts.Fullscreen = false
	w, err := Open(ctx, "about:blank", opts)
	if err != nil {
		return err
	}
	return w.Close()
}

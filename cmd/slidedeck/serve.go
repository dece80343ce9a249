package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-slidedeck/internal/config"
	"github.com/alnah/go-slidedeck/internal/console"
	"github.com/alnah/go-slidedeck/internal/fileutil"
	"github.com/alnah/go-slidedeck/internal/hints"
	"github.com/alnah/go-slidedeck/internal/kiosk"
	"github.com/alnah/go-slidedeck/internal/logging"
	"github.com/alnah/go-slidedeck/internal/remote"
	"github.com/alnah/go-slidedeck/internal/server"
	"github.com/alnah/go-slidedeck/internal/watch"
)

// errConsoleQuit ends serve when the presenter quits the console.
var errConsoleQuit = errors.New("console closed")

// readHeaderTimeout bounds slow clients sending request headers.
const readHeaderTimeout = 10 * time.Second

// runServe serves a deck until ctx is done, the console quits or a
// component fails.
func runServe(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseServeFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(positional) == 0 {
		return fmt.Errorf("%w: usage: slidedeck serve <deck> [flags]", ErrNoInput)
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: serve takes one deck, got %d", ErrUsage, len(positional))
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	log, err := logging.New(f.common.resolveLogLevel(envCfg), firstNonEmpty(f.common.logFormat, envCfg.LogFormat))
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	b := &builder{
		deckPath:     positional[0],
		configSource: firstNonEmpty(f.common.config, envCfg.ConfigPath),
		env:          envCfg,
		override: func(cfg *config.Config) {
			f.common.applyFlags(cfg)
			f.assets.applyFlags(cfg)
			if f.autoplay {
				cfg.Presentation.Autoplay.StartOnLoad = true
			}
		},
		client: env.HTTPClient,
		log:    log,
	}
	return serve(ctx, f, b, env)
}

// serve runs the server and the optional components in one group. The
// first failure stops the others.
func serve(ctx context.Context, f *serveFlags, b *builder, env *Environment) (err error) {
	// Undone in reverse order when setup fails before the group starts.
	var cleanup []func()
	defer func() {
		if err != nil {
			for i := len(cleanup) - 1; i >= 0; i-- {
				cleanup[i]()
			}
		}
	}()

	first, err := b.build(ctx, f.start)
	if err != nil {
		return err
	}
	live := newLiveDeck(first.p)
	defer func() { _ = live.Close() }()

	srv, err := server.New(server.Options{
		Assets:         first.assets,
		Logger:         b.log,
		DeckStylesheet: f.deckStylesheet || fileutil.IsMarkdown(b.deckPath),
	})
	if err != nil {
		return err
	}
	srv.SetPresentation(first.p, first.doc)
	cleanup = append(cleanup, func() { _ = srv.Close() })

	var watcher *watch.Watcher
	if f.watch {
		if watcher, err = newDeckWatcher(b, b.log); err != nil {
			return err
		}
		cleanup = append(cleanup, func() { _ = watcher.Close() })
	}

	var clicker *remote.Clicker
	if device := firstNonEmpty(f.clicker.device, b.env.Clicker); device != "" {
		if clicker, err = openClicker(device, f.clicker.grab, b.log); err != nil {
			return err
		}
		cleanup = append(cleanup, func() { _ = clicker.Close() })
	}

	addr := firstNonEmpty(env.Listen, f.addr, b.env.Addr, DefaultAddr)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w%s", addr, err, hints.ForAddress())
	}
	url := "http://" + displayAddr(ln.Addr())
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Serving %s at %s\n", b.deckPath, url)
	}

	httpSrv := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          zap.NewStdLog(b.log.Named("http")),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpSrv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		_ = srv.Close()
		return httpSrv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		resolveImages(gctx, first, b.log)
		return nil
	})

	if watcher != nil {
		r := &reloader{b: b, srv: srv, live: live, g: g, log: b.log}
		g.Go(func() error {
			return watcher.Run(gctx, func(changed []string) { r.reload(gctx, changed) })
		})
	}

	if clicker != nil {
		g.Go(func() error {
			return clicker.Run(gctx, func(key string) { live.HandleKey(key) })
		})
	}

	if f.kiosk.enabled {
		opts := kiosk.Options{
			Bin:         f.kiosk.bin,
			Width:       first.cfg.Presentation.Resolution.Width,
			Height:      first.cfg.Presentation.Resolution.Height,
			Fullscreen:  f.kiosk.fullscreen,
			LoadTimeout: f.kiosk.loadTimeout,
			Logger:      b.log,
		}
		g.Go(func() error { return runKiosk(gctx, url, opts, live) })
	}

	if f.console {
		g.Go(func() error {
			err := console.Run(gctx, live, console.Options{
				Localizer: first.loc,
				Viewers:   srv.Viewers,
				Accent:    first.cfg.Design.PrimaryColor,
				Now:       env.Now,
			})
			if err != nil {
				return err
			}
			if gctx.Err() == nil {
				return errConsoleQuit
			}
			return nil
		})
	}

	err = g.Wait()
	if errors.Is(err, errConsoleQuit) || errors.Is(err, context.Canceled) {
		err = nil
	}
	if !f.common.quiet {
		fmt.Fprintln(env.Stdout, "Stopped")
	}
	return err
}

// resolveImages probes the deck's images and logs a summary.
func resolveImages(ctx context.Context, bt *built, log *zap.Logger) {
	results, err := bt.p.ResolveImages(ctx)
	if err != nil {
		log.Debug("image resolution interrupted", zap.Error(err))
		return
	}
	placeholders := 0
	for _, r := range results {
		if !r.Loaded() {
			placeholders++
		}
	}
	log.Info("images resolved", zap.Int("images", len(results)), zap.Int("placeholders", placeholders))
}

// reloader swaps in a rebuilt presentation after a file change.
type reloader struct {
	b    *builder
	srv  *server.Server
	live *liveDeck
	g    *errgroup.Group
	log  *zap.Logger
}

// reload rebuilds the presentation on the current slide. A broken deck
// keeps the running presentation.
func (r *reloader) reload(ctx context.Context, changed []string) {
	old := r.live.current()
	next, err := r.b.build(ctx, "#"+old.CurrentID())
	if err != nil {
		r.log.Warn("reload failed, keeping current deck", zap.Strings("changed", changed), zap.Error(err))
		return
	}

	r.srv.SetPresentation(next.p, next.doc)
	r.live.swap(next.p)
	next.p.Reloaded()
	_ = old.Close()

	r.g.Go(func() error {
		resolveImages(ctx, next, r.log)
		return nil
	})
}

// newDeckWatcher watches the deck and, when it is a local file, the config.
func newDeckWatcher(b *builder, log *zap.Logger) (*watch.Watcher, error) {
	paths := []string{b.deckPath}
	if p, err := config.Resolve(b.configSource); err == nil && fileutil.FileExists(p) {
		paths = append(paths, p)
	}
	return watch.New(paths, watch.WithLogger(log))
}

// openClicker opens device, or the first remote-like device for "auto".
func openClicker(device string, grab bool, log *zap.Logger) (*remote.Clicker, error) {
	if device == "auto" {
		devices, err := remote.Devices()
		if err != nil {
			return nil, fmt.Errorf("listing clickers: %w%s", err, hints.ForClicker())
		}
		if len(devices) == 0 {
			return nil, fmt.Errorf("%w: no clicker found%s", ErrUsage, hints.ForClicker())
		}
		device = devices[0].Path
	}
	c, err := remote.Open(device, remote.WithLogger(log), remote.WithGrab(grab))
	if err != nil {
		return nil, fmt.Errorf("opening clicker %s: %w%s", device, err, hints.ForClicker())
	}
	return c, nil
}

// runKiosk keeps a browser window on the deck until ctx is done.
func runKiosk(ctx context.Context, url string, opts kiosk.Options, live *liveDeck) error {
	w, err := kiosk.Open(ctx, url, opts)
	if err != nil {
		if errors.Is(err, kiosk.ErrPageOpen) {
			return fmt.Errorf("%w%s", err, hints.ForPageLoad())
		}
		return fmt.Errorf("%w%s", err, hints.ForBrowserConnect())
	}
	unsubscribe := w.Follow(live)
	if opts.Fullscreen && !live.State().Overlays.Fullscreen {
		live.ToggleFullscreen()
	}

	<-ctx.Done()
	unsubscribe()
	return w.Close()
}

// displayAddr turns a listen address into something a browser can open.
func displayAddr(a net.Addr) string {
	host, port, err := net.SplitHostPort(a.String())
	if err != nil {
		return a.String()
	}
	if ip := net.ParseIP(host); ip == nil || ip.IsUnspecified() {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}

// looksLikeDeck reports whether arg is a deck file, allowing
// "slidedeck talk.md" as a shorthand for serve.
func looksLikeDeck(arg string) bool {
	if strings.HasPrefix(arg, "-") {
		return false
	}
	return fileutil.IsHTML(arg) || fileutil.IsMarkdown(arg)
}

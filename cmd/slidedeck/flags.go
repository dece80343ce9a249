package main

import (
	"errors"
	"io"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-slidedeck/internal/config"
)

// CLI errors.
var (
	ErrUsage   = errors.New("invalid usage")
	ErrNoInput = errors.New("no deck given")
)

// Defaults for serve.
const (
	DefaultAddr            = "127.0.0.1:8080"
	DefaultShutdownTimeout = 5 * time.Second
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logLevel  string
	logFormat string
	lang      string
	variant   string
}

// assetFlags holds asset and image probing flags.
type assetFlags struct {
	assetPath    string
	probeWorkers int
	probeTimeout time.Duration
}

// kioskFlags holds the browser window flags.
type kioskFlags struct {
	enabled     bool
	fullscreen  bool
	bin         string
	loadTimeout time.Duration
}

// clickerFlags holds presentation remote flags.
type clickerFlags struct {
	device string
	grab   bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common         commonFlags
	assets         assetFlags
	kiosk          kioskFlags
	clicker        clickerFlags
	addr           string
	start          string
	autoplay       bool
	console        bool
	watch          bool
	deckStylesheet bool
}

// checkFlags holds all flags for the check command.
type checkFlags struct {
	common     commonFlags
	assets     assetFlags
	jsonOutput bool
	strict     bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name, path or URL")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console, json")
	fs.StringVar(&f.lang, "lang", "", "interface language, e.g. en, pt-BR")
	fs.StringVar(&f.variant, "variant", "", "presentation variant: neon, minimal")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory (styles, scripts, templates)")
	fs.IntVarP(&f.probeWorkers, "probe-workers", "w", 0, "concurrent image probes (0 = auto)")
	fs.DurationVar(&f.probeTimeout, "probe-timeout", 0, "per-candidate image probe timeout (e.g. 2s)")
}

// addKioskFlags adds browser window flags to a FlagSet.
func addKioskFlags(fs *flag.FlagSet, f *kioskFlags) {
	fs.BoolVarP(&f.enabled, "kiosk", "k", false, "open the deck in a browser window")
	fs.BoolVar(&f.fullscreen, "fullscreen", false, "start the kiosk window fullscreen")
	fs.StringVar(&f.bin, "browser", "", "browser binary for the kiosk window")
	fs.DurationVar(&f.loadTimeout, "load-timeout", 0, "kiosk page load timeout (e.g. 30s)")
}

// addClickerFlags adds presentation remote flags to a FlagSet.
func addClickerFlags(fs *flag.FlagSet, f *clickerFlags) {
	fs.StringVar(&f.device, "clicker", "", "input device of a presentation remote (\"auto\" = first found)")
	fs.BoolVar(&f.grab, "clicker-grab", false, "keep clicker keys from reaching other programs")
}

// buildServeFlagSet registers serve flags on a new FlagSet.
func buildServeFlagSet(f *serveFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default "+DefaultAddr+")")
	fs.StringVarP(&f.start, "start", "s", "", "starting slide id, with or without #")
	fs.BoolVar(&f.autoplay, "autoplay", false, "start autoplay when the deck opens")
	fs.BoolVar(&f.console, "console", false, "show the presenter console in this terminal")
	fs.BoolVar(&f.watch, "watch", false, "reload viewers when the deck or config changes")
	fs.BoolVar(&f.deckStylesheet, "deck-style", false, "link the default deck stylesheet into HTML decks")

	addCommonFlags(fs, &f.common)
	addAssetFlags(fs, &f.assets)
	addKioskFlags(fs, &f.kiosk)
	addClickerFlags(fs, &f.clicker)
	return fs
}

// buildCheckFlagSet registers check flags on a new FlagSet.
func buildCheckFlagSet(f *checkFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)

	fs.BoolVar(&f.jsonOutput, "json", false, "print the report as JSON")
	fs.BoolVar(&f.strict, "strict", false, "fail when an image falls back to its placeholder")

	addCommonFlags(fs, &f.common)
	addAssetFlags(fs, &f.assets)
	return fs
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string, usage io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := buildServeFlagSet(f)
	fs.SetOutput(usage)
	fs.Usage = func() { printServeUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseCheckFlags parses check command flags and returns positional args.
func parseCheckFlags(args []string, usage io.Writer) (*checkFlags, []string, error) {
	f := &checkFlags{}
	fs := buildCheckFlagSet(f)
	fs.SetOutput(usage)
	fs.Usage = func() { printCheckUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// resolveLogLevel returns the effective log level: --quiet and --verbose win over
// --log-level, which wins over the environment.
func (f *commonFlags) resolveLogLevel(env *envConfig) string {
	switch {
	case f.quiet:
		return "error"
	case f.verbose:
		return "debug"
	case f.logLevel != "":
		return f.logLevel
	}
	return env.LogLevel
}

// applyFlags applies explicitly set flags over the config document.
func (f *commonFlags) applyFlags(cfg *config.Config) {
	if f.lang != "" {
		cfg.Locale = f.lang
	}
	if f.variant != "" {
		cfg.Presentation.Variant = f.variant
	}
}

// applyFlags applies asset flags over the config document.
func (f *assetFlags) applyFlags(cfg *config.Config) {
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	if f.probeWorkers > 0 {
		cfg.Assets.ProbeWorkers = f.probeWorkers
	}
	if f.probeTimeout > 0 {
		cfg.Assets.ProbeTimeoutMs = int(f.probeTimeout / time.Millisecond)
	}
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

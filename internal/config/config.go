package config

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound    = errors.New("config file not found")
	ErrEmptyConfigName   = errors.New("config name cannot be empty")
	ErrConfigParse       = errors.New("failed to parse config")
	ErrConfigFetch       = errors.New("failed to fetch config")
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrFieldTooLong      = errors.New("field exceeds maximum length")
	ErrInvalidColor      = errors.New("invalid color")
	ErrInvalidValue      = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxTitleLength    = 200
	MaxCompanyLength  = 100
	MaxSubtitleLength = 300
	MaxAuthorsLength  = 200
	MaxVersionLength  = 50
	MaxFontLength     = 100
	MaxLocaleLength   = 35 // BCP 47 upper bound in practice
	MaxResolution     = 16384
	MaxProbeWorkers   = 64
	MinAutoplayMs     = 500
)

// Variants.
const (
	VariantNeon    = "neon"
	VariantMinimal = "minimal"
)

// Themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config is the presentation configuration document.
type Config struct {
	Site         SiteConfig         `json:"site" yaml:"site" toml:"site"`
	Design       DesignConfig       `json:"design" yaml:"design" toml:"design"`
	Presentation PresentationConfig `json:"presentation" yaml:"presentation" toml:"presentation"`
	Controls     ControlsConfig     `json:"controls" yaml:"controls" toml:"controls"`
	Assets       AssetsConfig       `json:"assets" yaml:"assets" toml:"assets"`
	Locale       string             `json:"locale" yaml:"locale" toml:"locale"`
}

// SiteConfig is the deck metadata.
type SiteConfig struct {
	Title    string `json:"title" yaml:"title" toml:"title"`
	Company  string `json:"company" yaml:"company" toml:"company"`
	Subtitle string `json:"subtitle" yaml:"subtitle" toml:"subtitle"`
	Authors  string `json:"authors" yaml:"authors" toml:"authors"`
	Version  string `json:"version" yaml:"version" toml:"version"`
}

// DesignConfig holds the theme tokens exposed as CSS custom properties.
type DesignConfig struct {
	Theme           string `json:"theme" yaml:"theme" toml:"theme"`
	PrimaryColor    string `json:"primaryColor" yaml:"primaryColor" toml:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor" yaml:"secondaryColor" toml:"secondaryColor"`
	BackgroundColor string `json:"backgroundColor" yaml:"backgroundColor" toml:"backgroundColor"`
	TextColor       string `json:"textColor" yaml:"textColor" toml:"textColor"`
	FontFamily      string `json:"fontFamily" yaml:"fontFamily" toml:"fontFamily"`
}

// PresentationConfig shapes navigation behavior.
type PresentationConfig struct {
	Resolution Resolution       `json:"resolution" yaml:"resolution" toml:"resolution"`
	Variant    string           `json:"variant" yaml:"variant" toml:"variant"`
	Transition TransitionConfig `json:"transition" yaml:"transition" toml:"transition"`
	Autoplay   AutoplayConfig   `json:"autoplay" yaml:"autoplay" toml:"autoplay"`
	// Navigator and ImageModal default from the variant when unset.
	Navigator      *bool   `json:"navigator,omitempty" yaml:"navigator,omitempty" toml:"navigator,omitempty"`
	ImageModal     *bool   `json:"imageModal,omitempty" yaml:"imageModal,omitempty" toml:"imageModal,omitempty"`
	SwipeThreshold float64 `json:"swipeThreshold" yaml:"swipeThreshold" toml:"swipeThreshold"`
}

// Resolution is the authored canvas size the deck is scaled from.
type Resolution struct {
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
}

// TransitionConfig overrides the variant's debounce delays.
type TransitionConfig struct {
	DisplayDelayMs *int `json:"displayDelayMs,omitempty" yaml:"displayDelayMs,omitempty" toml:"displayDelayMs,omitempty"`
	SettleDelayMs  *int `json:"settleDelayMs,omitempty" yaml:"settleDelayMs,omitempty" toml:"settleDelayMs,omitempty"`
}

// AutoplayConfig controls timed advancing.
type AutoplayConfig struct {
	// Enabled makes autoplay available; defaults from the variant.
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	// StartOnLoad starts autoplay as soon as the deck opens.
	StartOnLoad bool `json:"startOnLoad" yaml:"startOnLoad" toml:"startOnLoad"`
	IntervalMs  int  `json:"intervalMs" yaml:"intervalMs" toml:"intervalMs"`
}

// ControlsConfig toggles input surfaces and UI affordances.
type ControlsConfig struct {
	Keyboard   bool `json:"keyboard" yaml:"keyboard" toml:"keyboard"`
	Touch      bool `json:"touch" yaml:"touch" toml:"touch"`
	Navigation bool `json:"navigation" yaml:"navigation" toml:"navigation"`
	Progress   bool `json:"progress" yaml:"progress" toml:"progress"`
	Fullscreen bool `json:"fullscreen" yaml:"fullscreen" toml:"fullscreen"`
}

// AssetsConfig defines web asset and image probing options.
type AssetsConfig struct {
	BasePath       string `json:"basePath" yaml:"basePath" toml:"basePath"` // Empty = use embedded assets
	ProbeTimeoutMs int    `json:"probeTimeoutMs" yaml:"probeTimeoutMs" toml:"probeTimeoutMs"`
	ProbeWorkers   int    `json:"probeWorkers" yaml:"probeWorkers" toml:"probeWorkers"` // 0 = auto
}

// Features is the resolved set of behaviors after applying the variant.
type Features struct {
	Variant        string
	DisplayDelay   time.Duration
	SettleDelay    time.Duration
	Navigator      bool
	ImageModal     bool
	Autoplay       bool
	AutoplayOnLoad bool
	Interval       time.Duration
	SwipeThreshold float64
}

// variantPreset is what a variant implies when the document is silent.
type variantPreset struct {
	display, settle       time.Duration
	navigator, imageModal bool
	autoplay              bool
}

var variantPresets = map[string]variantPreset{
	VariantNeon:    {display: 50 * time.Millisecond, settle: 100 * time.Millisecond, imageModal: true},
	VariantMinimal: {navigator: true, autoplay: true},
}

// Defaults.
const (
	DefaultIntervalMs     = 5000
	DefaultProbeTimeoutMs = 3000
	DefaultSwipeThreshold = 50
	DefaultLocale         = "en"
)

// DefaultConfig returns the built-in configuration used whenever no
// document is available.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Title:    "Academy Neon - Apresentação",
			Company:  "Academy Neon",
			Subtitle: "Uma nova experiência em gestão de treinos",
			Authors:  "Bruno e Gustavo Fernandes",
			Version:  "2.0.0",
		},
		Design: DesignConfig{
			Theme:           ThemeDark,
			PrimaryColor:    "#00ffff",
			SecondaryColor:  "#ffff00",
			BackgroundColor: "#0f0f23",
			TextColor:       "#ffffff",
			FontFamily:      "Inter",
		},
		Presentation: PresentationConfig{
			Resolution:     Resolution{Width: 1366, Height: 768},
			Variant:        VariantNeon,
			Autoplay:       AutoplayConfig{IntervalMs: DefaultIntervalMs},
			SwipeThreshold: DefaultSwipeThreshold,
		},
		Controls: ControlsConfig{
			Keyboard:   true,
			Touch:      true,
			Navigation: true,
			Progress:   true,
			Fullscreen: true,
		},
		Assets: AssetsConfig{ProbeTimeoutMs: DefaultProbeTimeoutMs},
		Locale: DefaultLocale,
	}
}

// Features resolves variant presets against explicit overrides.
func (c *Config) Features() Features {
	variant := c.Presentation.Variant
	preset, ok := variantPresets[variant]
	if !ok {
		variant = VariantNeon
		preset = variantPresets[VariantNeon]
	}

	f := Features{
		Variant:        variant,
		DisplayDelay:   preset.display,
		SettleDelay:    preset.settle,
		Navigator:      preset.navigator,
		ImageModal:     preset.imageModal,
		Autoplay:       preset.autoplay,
		AutoplayOnLoad: c.Presentation.Autoplay.StartOnLoad,
		Interval:       time.Duration(c.Presentation.Autoplay.IntervalMs) * time.Millisecond,
		SwipeThreshold: c.Presentation.SwipeThreshold,
	}
	if t := c.Presentation.Transition.DisplayDelayMs; t != nil {
		f.DisplayDelay = time.Duration(*t) * time.Millisecond
	}
	if t := c.Presentation.Transition.SettleDelayMs; t != nil {
		f.SettleDelay = time.Duration(*t) * time.Millisecond
	}
	if v := c.Presentation.Navigator; v != nil {
		f.Navigator = *v
	}
	if v := c.Presentation.ImageModal; v != nil {
		f.ImageModal = *v
	}
	if v := c.Presentation.Autoplay.Enabled; v != nil {
		f.Autoplay = *v
	}
	if !f.Autoplay {
		f.AutoplayOnLoad = false
	}
	if f.Interval <= 0 {
		f.Interval = DefaultIntervalMs * time.Millisecond
	}
	if f.SwipeThreshold <= 0 {
		f.SwipeThreshold = DefaultSwipeThreshold
	}
	return f
}

// ProbeTimeout returns the per-probe deadline.
func (c *Config) ProbeTimeout() time.Duration {
	if c.Assets.ProbeTimeoutMs <= 0 {
		return DefaultProbeTimeoutMs * time.Millisecond
	}
	return time.Duration(c.Assets.ProbeTimeoutMs) * time.Millisecond
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Validate checks field lengths, colors and numeric ranges.
// Called automatically by Load, but available for consumers
// who build Config programmatically.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"site.title", c.Site.Title, MaxTitleLength},
		{"site.company", c.Site.Company, MaxCompanyLength},
		{"site.subtitle", c.Site.Subtitle, MaxSubtitleLength},
		{"site.authors", c.Site.Authors, MaxAuthorsLength},
		{"site.version", c.Site.Version, MaxVersionLength},
		{"design.fontFamily", c.Design.FontFamily, MaxFontLength},
		{"locale", c.Locale, MaxLocaleLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	colors := []struct{ name, value string }{
		{"design.primaryColor", c.Design.PrimaryColor},
		{"design.secondaryColor", c.Design.SecondaryColor},
		{"design.backgroundColor", c.Design.BackgroundColor},
		{"design.textColor", c.Design.TextColor},
	}
	for _, col := range colors {
		if !hexColorPattern.MatchString(col.value) {
			return fmt.Errorf("%w: %s %q (want #rgb or #rrggbb)", ErrInvalidColor, col.name, col.value)
		}
	}

	switch c.Design.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("%w: design.theme %q (want %q or %q)", ErrInvalidValue, c.Design.Theme, ThemeDark, ThemeLight)
	}

	if _, ok := variantPresets[c.Presentation.Variant]; !ok {
		return fmt.Errorf("%w: presentation.variant %q (want %q or %q)", ErrInvalidValue, c.Presentation.Variant, VariantNeon, VariantMinimal)
	}

	r := c.Presentation.Resolution
	if r.Width <= 0 || r.Height <= 0 || r.Width > MaxResolution || r.Height > MaxResolution {
		return fmt.Errorf("%w: presentation.resolution %dx%d", ErrInvalidValue, r.Width, r.Height)
	}

	if err := nonNegative("presentation.transition.displayDelayMs", c.Presentation.Transition.DisplayDelayMs); err != nil {
		return err
	}
	if err := nonNegative("presentation.transition.settleDelayMs", c.Presentation.Transition.SettleDelayMs); err != nil {
		return err
	}
	if ms := c.Presentation.Autoplay.IntervalMs; ms != 0 && ms < MinAutoplayMs {
		return fmt.Errorf("%w: presentation.autoplay.intervalMs %d (min %d)", ErrInvalidValue, ms, MinAutoplayMs)
	}
	if c.Presentation.SwipeThreshold < 0 {
		return fmt.Errorf("%w: presentation.swipeThreshold %v", ErrInvalidValue, c.Presentation.SwipeThreshold)
	}
	if c.Assets.ProbeTimeoutMs < 0 {
		return fmt.Errorf("%w: assets.probeTimeoutMs %d", ErrInvalidValue, c.Assets.ProbeTimeoutMs)
	}
	if w := c.Assets.ProbeWorkers; w < 0 || w > MaxProbeWorkers {
		return fmt.Errorf("%w: assets.probeWorkers %d (0-%d)", ErrInvalidValue, w, MaxProbeWorkers)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func nonNegative(name string, v *int) error {
	if v != nil && *v < 0 {
		return fmt.Errorf("%w: %s %d", ErrInvalidValue, name, *v)
	}
	return nil
}

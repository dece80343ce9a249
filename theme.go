package slidedeck

import (
	"fmt"
	"strings"

	"github.com/alnah/go-slidedeck/internal/assets"
	"github.com/alnah/go-slidedeck/internal/config"
	"github.com/alnah/go-slidedeck/internal/locale"
)

// defaultFontFamily is appended to the configured font as a fallback stack.
const defaultFontFamily = "Arial, sans-serif"

// Light theme placeholder colors.
const (
	lightPlaceholderBackground = "#f4f4f5"
	lightPlaceholderText       = "#52525b"
)

// ThemeCSS renders the design tokens of cfg as CSS custom properties, plus
// the rules that hide disabled controls.
func ThemeCSS(cfg *config.Config) string {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	d := cfg.Design
	r := cfg.Presentation.Resolution

	var buf strings.Builder
	fmt.Fprintf(&buf, `:root {
  --primary-color: %s;
  --secondary-color: %s;
  --background-color: %s;
  --text-color: %s;
  --font-family: %s;
  --deck-width: %dpx;
  --deck-height: %dpx;
}
`, d.PrimaryColor, d.SecondaryColor, d.BackgroundColor, d.TextColor, fontStack(d.FontFamily), r.Width, r.Height)

	buf.WriteString(buildControlsCSS(cfg.Controls))
	return buf.String()
}

// buildControlsCSS hides the navigation arrows and progress bar when they
// are turned off.
func buildControlsCSS(c config.ControlsConfig) string {
	var buf strings.Builder
	if !c.Navigation {
		buf.WriteString(".navigation { display: none; }\n")
	}
	if !c.Progress {
		buf.WriteString(".progress-bar { display: none; }\n")
	}
	return buf.String()
}

// fontStack quotes the configured family and appends the fallback stack.
func fontStack(family string) string {
	if strings.TrimSpace(family) == "" {
		return defaultFontFamily
	}
	return `"` + escapeCSSString(family) + `", ` + defaultFontFamily
}

// escapeCSSString escapes a string for use inside a quoted CSS value.
// Prevents CSS injection by escaping backslashes, quotes, newlines and
// angle brackets.
func escapeCSSString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\A `)
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "<", `\3C `)
	return s
}

// PlaceholderStyle derives the placeholder look from the design tokens and
// the localized "image not found" line.
func PlaceholderStyle(cfg *config.Config, loc *locale.Localizer) assets.PlaceholderStyle {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := assets.DefaultPlaceholderStyle()
	s.BrandColor = cfg.Design.PrimaryColor
	if cfg.Site.Company != "" {
		s.Brand = cfg.Site.Company
	}
	if cfg.Design.FontFamily != "" {
		s.FontFamily = cfg.Design.FontFamily
	}
	if cfg.Design.Theme == config.ThemeLight {
		s.Background = lightPlaceholderBackground
		s.TextColor = lightPlaceholderText
	}
	if loc != nil {
		s.NotFound = loc.Text(locale.MsgImageNotFound)
	}
	return s
}

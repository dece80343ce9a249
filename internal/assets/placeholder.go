package assets

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
)

// PlaceholderDataPrefix marks a source as a generated placeholder.
const PlaceholderDataPrefix = "data:image/svg+xml;base64,"

// PlaceholderStyle controls the look of generated placeholders.
type PlaceholderStyle struct {
	Width      int
	Height     int
	Background string
	Brand      string // first line, usually the site company
	BrandColor string
	TextColor  string
	FontFamily string
	NotFound   string // localized "image not found" line; omitted when empty
}

// DefaultPlaceholderStyle returns the built-in placeholder look.
func DefaultPlaceholderStyle() PlaceholderStyle {
	return PlaceholderStyle{
		Width:      800,
		Height:     600,
		Background: "#1a1a2e",
		Brand:      "Academy Neon",
		BrandColor: "#00ffff",
		TextColor:  "#a1a1aa",
		FontFamily: "Arial",
		NotFound:   "Image not found",
	}
}

// withDefaults fills zero fields from DefaultPlaceholderStyle.
func (s PlaceholderStyle) withDefaults() PlaceholderStyle {
	d := DefaultPlaceholderStyle()
	if s.Width <= 0 {
		s.Width = d.Width
	}
	if s.Height <= 0 {
		s.Height = d.Height
	}
	if s.Background == "" {
		s.Background = d.Background
	}
	if s.BrandColor == "" {
		s.BrandColor = d.BrandColor
	}
	if s.TextColor == "" {
		s.TextColor = d.TextColor
	}
	if s.FontFamily == "" {
		s.FontFamily = d.FontFamily
	}
	return s
}

// PlaceholderSVG renders the placeholder document for identifier.
// Every interpolated value is XML-escaped.
func PlaceholderSVG(identifier string, style PlaceholderStyle) []byte {
	s := style.withDefaults()

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, s.Width, s.Height)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="%s"/>`, escapeXML(s.Background))
	writeText(&b, "45%", s.BrandColor, s.FontFamily, 24, s.Brand)
	writeText(&b, "55%", s.TextColor, s.FontFamily, 16, identifier)
	if s.NotFound != "" {
		writeText(&b, "63%", s.TextColor, s.FontFamily, 14, s.NotFound)
	}
	b.WriteString(`</svg>`)
	return b.Bytes()
}

// Placeholder returns the placeholder for identifier as a base64 data URI.
func Placeholder(identifier string, style PlaceholderStyle) string {
	return PlaceholderDataPrefix + base64.StdEncoding.EncodeToString(PlaceholderSVG(identifier, style))
}

// IsPlaceholder reports whether src is a generated placeholder.
func IsPlaceholder(src string) bool {
	return len(src) >= len(PlaceholderDataPrefix) && src[:len(PlaceholderDataPrefix)] == PlaceholderDataPrefix
}

func writeText(b *bytes.Buffer, y, fill, font string, size int, text string) {
	fmt.Fprintf(b,
		`<text x="50%%" y="%s" text-anchor="middle" fill="%s" font-family="%s" font-size="%d">%s</text>`,
		y, escapeXML(fill), escapeXML(font), size, escapeXML(text))
}

func escapeXML(s string) string {
	var b bytes.Buffer
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// Package locale provides the translated strings shown by decks, the
// placeholder image and the presenter console.
package locale

import (
	"embed"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var messageFiles embed.FS

// Message IDs.
const (
	MsgCounter           = "Counter"
	MsgSlideTitle        = "SlideTitle"
	MsgDocumentTitle     = "DocumentTitle"
	MsgImageNotFound     = "ImageNotFound"
	MsgPreviousSlide     = "PreviousSlide"
	MsgNextSlide         = "NextSlide"
	MsgCloseImage        = "CloseImage"
	MsgConsoleCurrent    = "ConsoleCurrent"
	MsgConsoleNext       = "ConsoleNext"
	MsgConsoleEnd        = "ConsoleEnd"
	MsgConsoleElapsed    = "ConsoleElapsed"
	MsgConsoleAutoplay   = "ConsoleAutoplay"
	MsgConsoleNavigator  = "ConsoleNavigator"
	MsgConsoleFullscreen = "ConsoleFullscreen"
	MsgConsoleHelp       = "ConsoleHelp"
	MsgConsoleClients    = "ConsoleClients"
)

// DefaultLanguage is used when a requested language is not bundled.
var DefaultLanguage = language.English

var bundle, matcher = mustLoadBundle()

// mustLoadBundle parses the embedded message files. They are compiled in,
// so a failure here is a build defect.
func mustLoadBundle() (*i18n.Bundle, language.Matcher) {
	b := i18n.NewBundle(DefaultLanguage)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := messageFiles.ReadDir(".")
	if err != nil {
		panic(fmt.Sprintf("locale: read embedded messages: %v", err))
	}
	for _, e := range entries {
		if _, err := b.LoadMessageFileFS(messageFiles, e.Name()); err != nil {
			panic(fmt.Sprintf("locale: load %s: %v", e.Name(), err))
		}
	}
	return b, language.NewMatcher(b.LanguageTags())
}

// Supported returns the bundled languages as BCP 47 tags.
func Supported() []string {
	tags := bundle.LanguageTags()
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	return out
}

// Match returns the bundled language closest to lang. Unknown or malformed
// input yields DefaultLanguage.
func Match(lang string) language.Tag {
	if strings.TrimSpace(lang) == "" {
		return DefaultLanguage
	}
	_, index, confidence := matcher.Match(language.Make(lang))
	if confidence == language.No {
		return DefaultLanguage
	}
	return bundle.LanguageTags()[index]
}

// Localizer renders messages in one language.
type Localizer struct {
	tag language.Tag
	loc *i18n.Localizer
}

// New returns a Localizer for the bundled language closest to lang.
func New(lang string) *Localizer {
	tag := Match(lang)
	return &Localizer{
		tag: tag,
		loc: i18n.NewLocalizer(bundle, tag.String(), DefaultLanguage.String()),
	}
}

// Language returns the selected language tag.
func (l *Localizer) Language() string {
	return l.tag.String()
}

// Text renders a message without template data.
func (l *Localizer) Text(id string) string {
	return l.localize(&i18n.LocalizeConfig{MessageID: id})
}

// Counter renders "current / total" with current 1-based.
func (l *Localizer) Counter(current, total int) string {
	return l.localize(&i18n.LocalizeConfig{
		MessageID:    MsgCounter,
		TemplateData: map[string]int{"Current": current, "Total": total},
	})
}

// SlideTitle renders the fallback title for the 1-based slide number.
func (l *Localizer) SlideTitle(number int) string {
	return l.localize(&i18n.LocalizeConfig{
		MessageID:    MsgSlideTitle,
		TemplateData: map[string]int{"Number": number},
	})
}

// DocumentTitle renders the browser title for a slide. The site title alone
// is returned when slide is empty, and the slide title alone when site is.
func (l *Localizer) DocumentTitle(slide, site string) string {
	switch {
	case slide == "":
		return site
	case site == "":
		return slide
	}
	return l.localize(&i18n.LocalizeConfig{
		MessageID:    MsgDocumentTitle,
		TemplateData: map[string]string{"Slide": slide, "Site": site},
	})
}

// Viewers renders the connected-viewer count.
func (l *Localizer) Viewers(n int) string {
	return l.localize(&i18n.LocalizeConfig{
		MessageID:    MsgConsoleClients,
		TemplateData: map[string]int{"Count": n},
		PluralCount:  n,
	})
}

// localize falls back to the message ID so a missing translation is
// visible instead of blank.
func (l *Localizer) localize(cfg *i18n.LocalizeConfig) string {
	s, err := l.loc.Localize(cfg)
	if err != nil || s == "" {
		return cfg.MessageID
	}
	return s
}

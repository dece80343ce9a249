package slidedeck

import (
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-slidedeck/internal/assets"
	"github.com/alnah/go-slidedeck/internal/config"
	"github.com/alnah/go-slidedeck/internal/eventloop"
	"github.com/alnah/go-slidedeck/internal/input"
	"github.com/alnah/go-slidedeck/internal/locale"
	"github.com/alnah/go-slidedeck/internal/sequencer"
)

// Option configures a Presentation.
type Option func(*presentationConfig)

// presentationConfig holds construction settings for a Presentation.
type presentationConfig struct {
	cfg          *config.Config
	logger       *zap.Logger
	sched        eventloop.Scheduler
	fragment     string
	loc          *locale.Localizer
	prober       assets.Prober
	probeTimeout time.Duration
	probeWorkers int
}

// WithConfig sets the presentation configuration. Nil keeps the defaults.
func WithConfig(cfg *config.Config) Option {
	return func(c *presentationConfig) {
		if cfg != nil {
			c.cfg = cfg
		}
	}
}

// WithLogger sets the logger. Nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *presentationConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithScheduler replaces wall-clock timers, typically with an
// eventloop.Manual in tests.
func WithScheduler(s eventloop.Scheduler) Option {
	return func(c *presentationConfig) {
		c.sched = s
	}
}

// WithInitialFragment selects the starting slide by URL fragment ("#id").
// Unknown fragments start on the first slide.
func WithInitialFragment(fragment string) Option {
	return func(c *presentationConfig) {
		c.fragment = fragment
	}
}

// WithLocalizer overrides the localizer derived from the config locale.
func WithLocalizer(l *locale.Localizer) Option {
	return func(c *presentationConfig) {
		if l != nil {
			c.loc = l
		}
	}
}

// WithProber sets how image candidates are checked. Without a prober every
// image resolves to its placeholder.
func WithProber(p assets.Prober) Option {
	return func(c *presentationConfig) {
		c.prober = p
	}
}

// WithProbeTimeout bounds each image probe.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithProbeTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("slidedeck: WithProbeTimeout duration must be positive")
	}
	return func(c *presentationConfig) {
		c.probeTimeout = d
	}
}

// WithProbeWorkers bounds concurrent image resolutions.
// Values outside [MinProbeWorkers, MaxProbeWorkers] are clamped.
func WithProbeWorkers(n int) Option {
	return func(c *presentationConfig) {
		c.probeWorkers = ResolveProbeWorkers(n)
	}
}

// State is the full UI-sync snapshot of a presentation. Clients render it
// as is; it is also the payload of every broadcast.
type State struct {
	View          sequencer.View               `json:"view"`
	Counter       string                       `json:"counter"`
	DocumentTitle string                       `json:"documentTitle"`
	Slides        []SlideInfo                  `json:"slides"`
	Overlays      input.Overlays               `json:"overlays"`
	Controls      input.Controls               `json:"controls"`
	Autoplay      AutoplayState                `json:"autoplay"`
	ModalKey      string                       `json:"modalKey,omitempty"`
	ModalSource   string                       `json:"modalSource,omitempty"`
	ModalAlt      string                       `json:"modalAlt,omitempty"`
	Images        map[string]assets.Resolution `json:"images"`
}

// SlideInfo is one navigator entry with the slide's visibility state.
type SlideInfo struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	Position string               `json:"position"` // localized "n / total"
	State    sequencer.SlideState `json:"state"`
}

// AutoplayState reports the autoplay timer.
type AutoplayState struct {
	Active     bool  `json:"active"`
	Paused     bool  `json:"paused"`
	IntervalMs int64 `json:"intervalMs"`
}

// Next returns the slide after the current one, if any.
func (s State) Next() (SlideInfo, bool) {
	i := s.View.Index + 1
	if i >= len(s.Slides) {
		return SlideInfo{}, false
	}
	return s.Slides[i], true
}

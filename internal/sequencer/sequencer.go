// Package sequencer implements the slide navigation state machine.
//
// A Sequencer owns the current index and the transition guard for one deck.
// It is not safe for concurrent use: callers run it on a single goroutine
// (an eventloop.Loop) and pass that loop as the Scheduler so that deferred
// transition steps come back on the same goroutine.
package sequencer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-slidedeck/internal/deck"
	"github.com/alnah/go-slidedeck/internal/eventloop"
	"github.com/alnah/go-slidedeck/internal/events"
)

// Reasons a navigation request is refused.
var (
	ErrOutOfRange    = errors.New("slide index out of range")
	ErrSameSlide     = errors.New("already on requested slide")
	ErrTransitioning = errors.New("transition in progress")
	ErrUnknownSlide  = errors.New("unknown slide identifier")
)

// Timing holds the two debounce delays of a transition.
type Timing struct {
	// DisplayDelay separates deactivation of the old slide from activation
	// of the new one.
	DisplayDelay time.Duration
	// SettleDelay keeps the guard raised after activation.
	SettleDelay time.Duration
}

// Preset timings.
var (
	NeonTiming      = Timing{DisplayDelay: 50 * time.Millisecond, SettleDelay: 100 * time.Millisecond}
	ImmediateTiming = Timing{}
)

// SlideState is the visibility class a slide carries.
type SlideState string

// Slide states.
const (
	StateHidden SlideState = ""
	StatePrev   SlideState = "prev"
	StateActive SlideState = "active"
)

// Options configures a Sequencer. Zero values are usable.
type Options struct {
	Timing    Timing
	Scheduler eventloop.Scheduler // required when Timing is non-zero
	Bus       *events.Bus
	Logger    *zap.Logger
	// Initial is the starting index; out-of-range values start at 0.
	Initial int
	// FallbackTitle names slides without a title. Defaults to "Slide N".
	FallbackTitle func(n int) string
}

// Sequencer tracks the current slide and guards transitions.
type Sequencer struct {
	deck          *deck.Deck
	timing        Timing
	sched         eventloop.Scheduler
	bus           *events.Bus
	log           *zap.Logger
	fallbackTitle func(int) string

	index         int
	transitioning bool
	states        []SlideState
	pending       []func()
}

// New creates a Sequencer positioned on opts.Initial with that slide active.
// No transition runs and no event is published for the initial slide.
func New(d *deck.Deck, opts Options) *Sequencer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = eventloop.Real{}
	}
	fallback := opts.FallbackTitle
	if fallback == nil {
		fallback = func(n int) string { return "Slide " + strconv.Itoa(n) }
	}

	s := &Sequencer{
		deck:          d,
		timing:        opts.Timing,
		sched:         sched,
		bus:           opts.Bus,
		log:           log.Named("sequencer"),
		fallbackTitle: fallback,
		states:        make([]SlideState, d.Len()),
	}
	if opts.Initial > 0 && opts.Initial < d.Len() {
		s.index = opts.Initial
	}
	s.states[s.index] = StateActive
	return s
}

// InitialIndex maps a URL fragment ("#id" or "id") to a slide index.
// Unknown or empty fragments select the first slide.
func InitialIndex(d *deck.Deck, fragment string) int {
	id := strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	if id == "" {
		return 0
	}
	if i, ok := d.IndexOf(id); ok {
		return i
	}
	return 0
}

// Check reports why GoTo(index) would be refused, or nil.
func (s *Sequencer) Check(index int) error {
	switch {
	case index < 0 || index >= s.deck.Len():
		return fmt.Errorf("%w: %d (count %d)", ErrOutOfRange, index, s.deck.Len())
	case index == s.index:
		return fmt.Errorf("%w: %d", ErrSameSlide, index)
	case s.transitioning:
		return ErrTransitioning
	}
	return nil
}

// GoTo starts a transition to index. Invalid requests are logged and
// ignored; the return value reports whether a transition started.
func (s *Sequencer) GoTo(index int) bool {
	if err := s.Check(index); err != nil {
		if errors.Is(err, ErrOutOfRange) {
			s.log.Warn("invalid slide index", zap.Int("index", index), zap.Int("count", s.deck.Len()))
		} else {
			s.log.Debug("navigation ignored", zap.Int("index", index), zap.Error(err))
		}
		return false
	}

	from := s.index
	s.transitioning = true
	s.states[from] = StatePrev
	s.index = index
	s.bus.Publish(events.TransitionStarted{From: from, To: index})
	s.log.Debug("transition started", zap.Int("from", from), zap.Int("to", index))

	s.after(s.timing.DisplayDelay, func() { s.activate(from, index) })
	return true
}

func (s *Sequencer) activate(from, to int) {
	s.states[from] = StateHidden
	s.states[to] = StateActive
	v := s.View()
	s.bus.Publish(events.SlideChanged{
		Index:    v.Index,
		Count:    v.Count,
		ID:       v.ID,
		Title:    v.Title,
		Progress: v.Progress,
	})
	s.after(s.timing.SettleDelay, func() { s.settle(to) })
}

func (s *Sequencer) settle(index int) {
	s.transitioning = false
	s.pending = s.pending[:0]
	s.bus.Publish(events.TransitionEnded{Index: index})
}

// after runs f now when d is zero, otherwise schedules it.
func (s *Sequencer) after(d time.Duration, f func()) {
	if d <= 0 {
		f()
		return
	}
	s.pending = append(s.pending, s.sched.AfterFunc(d, f))
}

// Next moves forward one slide unless already on the last.
func (s *Sequencer) Next() bool {
	if s.index >= s.deck.Len()-1 {
		s.log.Debug("already on last slide")
		return false
	}
	return s.GoTo(s.index + 1)
}

// Previous moves back one slide unless already on the first.
func (s *Sequencer) Previous() bool {
	if s.index <= 0 {
		s.log.Debug("already on first slide")
		return false
	}
	return s.GoTo(s.index - 1)
}

// First jumps to the first slide.
func (s *Sequencer) First() bool {
	return s.GoTo(0)
}

// Last jumps to the last slide.
func (s *Sequencer) Last() bool {
	return s.GoTo(s.deck.Len() - 1)
}

// GoToID jumps to the slide carrying id.
func (s *Sequencer) GoToID(id string) bool {
	i, ok := s.deck.IndexOf(strings.TrimPrefix(id, "#"))
	if !ok {
		s.log.Warn("unknown slide", zap.String("id", id), zap.Error(ErrUnknownSlide))
		return false
	}
	return s.GoTo(i)
}

// Advance moves to (current+1) mod count, wrapping from the last slide to
// the first.
func (s *Sequencer) Advance() bool {
	return s.GoTo((s.index + 1) % s.deck.Len())
}

// Stop cancels any deferred transition steps. The sequencer is left as is;
// it is meant to be called when the owner shuts down.
func (s *Sequencer) Stop() {
	for _, cancel := range s.pending {
		cancel()
	}
	s.pending = nil
}

// Index returns the current slide index. During a transition it is already
// the target index.
func (s *Sequencer) Index() int { return s.index }

// Count returns the number of slides.
func (s *Sequencer) Count() int { return s.deck.Len() }

// Transitioning reports whether the guard is raised.
func (s *Sequencer) Transitioning() bool { return s.transitioning }

// Deck returns the deck being sequenced.
func (s *Sequencer) Deck() *deck.Deck { return s.deck }

// States returns a copy of every slide's visibility state.
func (s *Sequencer) States() []SlideState {
	out := make([]SlideState, len(s.states))
	copy(out, s.states)
	return out
}

// ActiveCount returns how many slides are currently active.
func (s *Sequencer) ActiveCount() int {
	n := 0
	for _, st := range s.states {
		if st == StateActive {
			n++
		}
	}
	return n
}

// TitleOf returns the display title of slide i, falling back to the
// numbered name.
func (s *Sequencer) TitleOf(i int) string {
	sl, ok := s.deck.Slide(i)
	if !ok {
		return ""
	}
	if sl.Title != "" {
		return sl.Title
	}
	return s.fallbackTitle(i + 1)
}

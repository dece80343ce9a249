package slidedeck

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/alnah/go-slidedeck/internal/assets"
	"github.com/alnah/go-slidedeck/internal/autoplay"
	"github.com/alnah/go-slidedeck/internal/config"
	"github.com/alnah/go-slidedeck/internal/deck"
	"github.com/alnah/go-slidedeck/internal/eventloop"
	"github.com/alnah/go-slidedeck/internal/events"
	"github.com/alnah/go-slidedeck/internal/input"
	"github.com/alnah/go-slidedeck/internal/locale"
	"github.com/alnah/go-slidedeck/internal/sequencer"
)

// Listener receives every published event together with the snapshot taken
// right after it. It runs on the event loop: it must not block and must not
// call back into the Presentation.
type Listener func(e events.Event, s State)

// Presentation is the controller of one deck. It owns the sequencer, the
// input gate, autoplay and image resolution, and runs all of them on a
// single event loop goroutine. Every exported method is safe for
// concurrent use.
type Presentation struct {
	cfg      *config.Config
	features config.Features
	log      *zap.Logger
	loc      *locale.Localizer
	deck     *deck.Deck

	loop     *eventloop.Loop
	bus      *events.Bus
	seq      *sequencer.Sequencer
	auto     *autoplay.Autoplay
	resolver *assets.Resolver

	// Loop-owned state.
	overlays input.Overlays
	controls input.Controls
	modalKey string
	images   map[string]assets.Resolution

	ctx       context.Context
	cancel    context.CancelFunc
	runDone   chan struct{}
	closeOnce sync.Once
}

// NewPresentation creates a Presentation for d and starts its event loop.
// Call Close to stop it.
func NewPresentation(d *deck.Deck, opts ...Option) (*Presentation, error) {
	if d == nil {
		return nil, deck.ErrEmptyDeck
	}

	c := presentationConfig{
		cfg:    config.DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.loc == nil {
		c.loc = locale.New(c.cfg.Locale)
	}
	if c.probeTimeout <= 0 {
		c.probeTimeout = c.cfg.ProbeTimeout()
	}
	if c.probeWorkers <= 0 {
		c.probeWorkers = ResolveProbeWorkers(c.cfg.Assets.ProbeWorkers)
	}

	features := c.cfg.Features()
	ctx, cancel := context.WithCancel(context.Background())
	p := &Presentation{
		cfg:      c.cfg,
		features: features,
		log:      c.logger.Named("presentation"),
		loc:      c.loc,
		deck:     d,
		loop:     eventloop.New(0, c.sched),
		bus:      events.NewBus(),
		controls: input.Controls{
			Keyboard:   c.cfg.Controls.Keyboard,
			Touch:      c.cfg.Controls.Touch,
			Fullscreen: c.cfg.Controls.Fullscreen,
			Navigator:  features.Navigator,
			Autoplay:   features.Autoplay,
		},
		images:  make(map[string]assets.Resolution),
		ctx:     ctx,
		cancel:  cancel,
		runDone: make(chan struct{}),
	}

	p.seq = sequencer.New(d, sequencer.Options{
		Timing: sequencer.Timing{
			DisplayDelay: features.DisplayDelay,
			SettleDelay:  features.SettleDelay,
		},
		Scheduler:     p.loop,
		Bus:           p.bus,
		Logger:        c.logger,
		Initial:       sequencer.InitialIndex(d, c.fragment),
		FallbackTitle: c.loc.SlideTitle,
	})
	p.auto = autoplay.New(autoplay.Options{
		Interval:  features.Interval,
		Scheduler: p.loop,
		Bus:       p.bus,
		Logger:    c.logger,
		Advance:   func() bool { return p.navigate(p.seq.Advance) },
	})
	p.resolver = assets.NewResolver(c.prober,
		assets.WithProbeTimeout(c.probeTimeout),
		assets.WithWorkers(c.probeWorkers),
		assets.WithPlaceholderStyle(PlaceholderStyle(c.cfg, c.loc)),
		assets.WithResolverLogger(c.logger),
	)
	for _, ref := range d.Images() {
		p.images[ref.Key] = assets.Resolution{Key: ref.Key, State: assets.StatePending}
	}

	go func() {
		defer close(p.runDone)
		_ = p.loop.Run(ctx)
	}()

	if features.AutoplayOnLoad {
		if err := p.loop.Call(context.Background(), p.auto.Start); err != nil {
			p.Close()
			return nil, fmt.Errorf("start autoplay: %w", err)
		}
	}

	p.log.Debug("presentation started",
		zap.Int("slides", d.Len()),
		zap.Int("images", len(p.images)),
		zap.String("variant", features.Variant),
		zap.String("locale", c.loc.Language()))
	return p, nil
}

// Close stops autoplay, pending transition steps and the event loop, and
// cancels in-flight image resolution. It is idempotent.
func (p *Presentation) Close() error {
	p.closeOnce.Do(func() {
		_ = p.loop.Call(context.Background(), func() {
			p.auto.Close()
			p.seq.Stop()
		})
		p.loop.Stop()
		p.cancel()
		<-p.runDone
		p.log.Debug("presentation closed")
	})
	return nil
}

// Done is closed once the presentation has been closed.
func (p *Presentation) Done() <-chan struct{} {
	return p.runDone
}

// Deck returns the deck being presented.
func (p *Presentation) Deck() *deck.Deck { return p.deck }

// Config returns the configuration the presentation was built with.
func (p *Presentation) Config() *config.Config { return p.cfg }

// Localizer returns the localizer used for counters and titles.
func (p *Presentation) Localizer() *locale.Localizer { return p.loc }

// PlaceholderFor returns the placeholder data URI for an image key.
func (p *Presentation) PlaceholderFor(key string) string {
	return p.resolver.PlaceholderFor(key)
}

// Subscribe registers fn for every event. The returned function removes it.
func (p *Presentation) Subscribe(fn Listener) (unsubscribe func()) {
	return p.bus.Subscribe(func(e events.Event) {
		fn(e, p.snapshot())
	})
}

// State returns the current UI-sync snapshot. A closed presentation
// returns the zero State.
func (p *Presentation) State() State {
	var s State
	_ = p.loop.Call(context.Background(), func() { s = p.snapshot() })
	return s
}

// Reloaded announces that this presentation replaced a previous one built
// from an edited deck or configuration.
func (p *Presentation) Reloaded() {
	_ = p.loop.Call(context.Background(), func() {
		s, _ := p.deck.Slide(p.seq.Index())
		p.bus.Publish(events.DeckReloaded{Count: p.deck.Len(), ID: s.ID})
	})
}

// CurrentID returns the identifier of the current slide.
func (p *Presentation) CurrentID() string {
	return p.State().View.ID
}

// Next moves to the following slide.
func (p *Presentation) Next() bool {
	return p.callBool(func() bool { return p.navigate(p.seq.Next) })
}

// Previous moves to the preceding slide.
func (p *Presentation) Previous() bool {
	return p.callBool(func() bool { return p.navigate(p.seq.Previous) })
}

// First jumps to the first slide.
func (p *Presentation) First() bool {
	return p.callBool(func() bool { return p.navigate(p.seq.First) })
}

// Last jumps to the last slide.
func (p *Presentation) Last() bool {
	return p.callBool(func() bool { return p.navigate(p.seq.Last) })
}

// GoTo moves to index. Out-of-range indices, the current slide and requests
// made during a transition are ignored and report false.
func (p *Presentation) GoTo(index int) bool {
	return p.callBool(func() bool {
		return p.navigate(func() bool { return p.seq.GoTo(index) })
	})
}

// GoToID moves to the slide carrying id.
func (p *Presentation) GoToID(id string) bool {
	return p.callBool(func() bool {
		return p.navigate(func() bool { return p.seq.GoToID(id) })
	})
}

// Open applies a URL fragment sent by a viewer. Empty or unknown fragments
// leave the shared position untouched.
func (p *Presentation) Open(fragment string) bool {
	return p.callBool(func() bool {
		id := strings.TrimPrefix(strings.TrimSpace(fragment), "#")
		if id == "" {
			return false
		}
		i, ok := p.deck.IndexOf(id)
		if !ok {
			p.log.Debug("unknown fragment ignored", zap.String("fragment", fragment))
			return false
		}
		if i == p.seq.Index() {
			return false
		}
		return p.navigate(func() bool { return p.seq.GoTo(i) })
	})
}

// HandleKey gates a DOM key name and executes the resulting command.
func (p *Presentation) HandleKey(key string) input.Command {
	var cmd input.Command
	_ = p.loop.Call(context.Background(), func() {
		cmd = p.gate().DecideKey(key)
		p.exec(cmd)
		if cmd != input.CmdNone {
			p.log.Debug("key handled", zap.String("key", key), zap.Stringer("command", cmd))
		}
	})
	return cmd
}

// HandleSwipe gates a touch gesture and executes the resulting command.
func (p *Presentation) HandleSwipe(s input.Swipe) input.Command {
	var cmd input.Command
	_ = p.loop.Call(context.Background(), func() {
		cmd = p.gate().DecideSwipe(s, p.features.SwipeThreshold)
		p.exec(cmd)
	})
	return cmd
}

// ToggleNavigator opens or closes the navigator panel and returns whether
// it is open. It does nothing when the navigator is disabled.
func (p *Presentation) ToggleNavigator() bool {
	return p.callBool(func() bool {
		p.setNavigator(!p.overlays.Navigator)
		return p.overlays.Navigator
	})
}

// SelectFromNavigator moves to index and closes the navigator panel.
func (p *Presentation) SelectFromNavigator(index int) bool {
	return p.callBool(func() bool {
		ok := p.navigate(func() bool { return p.seq.GoTo(index) })
		p.setNavigator(false)
		return ok
	})
}

// OpenImage shows an expandable image in the modal. The image must have
// resolved to a real source.
func (p *Presentation) OpenImage(key string) error {
	var err error
	if callErr := p.loop.Call(context.Background(), func() { err = p.openImage(key) }); callErr != nil {
		return ErrClosed
	}
	return err
}

// CloseImage hides the image modal. It reports whether the modal was open.
func (p *Presentation) CloseImage() bool {
	return p.callBool(p.closeImage)
}

// ToggleAutoplay starts or stops autoplay and returns whether it is
// running. While the navigator is open the timer stays off and the call
// only decides whether autoplay resumes when the navigator closes. It
// does nothing when autoplay is disabled.
func (p *Presentation) ToggleAutoplay() bool {
	return p.callBool(func() bool {
		if !p.controls.Autoplay {
			p.log.Debug("autoplay disabled")
			return false
		}
		return p.auto.Toggle()
	})
}

// ToggleFullscreen flips the fullscreen flag and returns it. It does
// nothing when fullscreen is disabled.
func (p *Presentation) ToggleFullscreen() bool {
	return p.callBool(func() bool {
		if p.controls.Fullscreen {
			p.setFullscreen(!p.overlays.Fullscreen)
		}
		return p.overlays.Fullscreen
	})
}

// ResolveImages probes every image of the deck and records the outcome.
// Each image ends loaded or with its placeholder. Results are applied on
// the event loop as they arrive and announced with ImageResolved.
func (p *Presentation) ResolveImages(ctx context.Context) ([]assets.Resolution, error) {
	refs := p.deck.Images()
	reqs := make([]assets.Request, len(refs))
	for i, ref := range refs {
		reqs[i] = assets.Request{Key: ref.Key, Primary: ref.Primary, Alternates: ref.Alternates}
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	unregister := context.AfterFunc(p.ctx, stop)
	defer unregister()

	results := p.resolver.ResolveAll(runCtx, reqs, func(r assets.Resolution) {
		p.loop.Post(func() { p.applyResolution(r) })
	})

	// Posts are FIFO, so this returns once every result above is applied.
	if err := p.loop.Call(context.Background(), func() {}); err != nil {
		return results, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// ---------------------------------------------------------------------------
// Loop-side helpers. Everything below runs on the event loop.
// ---------------------------------------------------------------------------

func (p *Presentation) callBool(f func() bool) bool {
	var ok bool
	if err := p.loop.Call(context.Background(), func() { ok = f() }); err != nil {
		return false
	}
	return ok
}

func (p *Presentation) gate() input.Gate {
	return input.Gate{
		Overlays:      p.overlays,
		Controls:      p.controls,
		Transitioning: p.seq.Transitioning(),
	}
}

// navigate runs a sequencer move and closes the image modal if it started.
func (p *Presentation) navigate(move func() bool) bool {
	if !move() {
		return false
	}
	p.closeImage()
	return true
}

func (p *Presentation) exec(cmd input.Command) {
	switch cmd {
	case input.CmdNext:
		p.navigate(p.seq.Next)
	case input.CmdPrevious:
		p.navigate(p.seq.Previous)
	case input.CmdFirst:
		p.navigate(p.seq.First)
	case input.CmdLast:
		p.navigate(p.seq.Last)
	case input.CmdCloseImage:
		p.closeImage()
	case input.CmdCloseNavigator:
		p.setNavigator(false)
	case input.CmdExitFullscreen:
		p.setFullscreen(false)
	case input.CmdToggleFullscreen:
		p.setFullscreen(!p.overlays.Fullscreen)
	case input.CmdToggleNavigator:
		p.setNavigator(!p.overlays.Navigator)
	case input.CmdToggleAutoplay:
		p.auto.Toggle()
	}
}

// setNavigator opens or closes the panel, pausing autoplay while it is open.
func (p *Presentation) setNavigator(open bool) {
	if open == p.overlays.Navigator {
		return
	}
	if open && !p.controls.Navigator {
		p.log.Debug("navigator disabled")
		return
	}
	p.overlays.Navigator = open
	if open {
		p.auto.Pause()
	} else {
		p.auto.Resume()
	}
	p.bus.Publish(events.OverlayChanged{Overlay: events.OverlayNavigator, Open: open})
}

func (p *Presentation) setFullscreen(on bool) {
	if on == p.overlays.Fullscreen {
		return
	}
	p.overlays.Fullscreen = on
	p.bus.Publish(events.FullscreenChanged{Fullscreen: on})
}

func (p *Presentation) openImage(key string) error {
	if !p.features.ImageModal {
		return ErrImageModalDisabled
	}
	ref, ok := p.deck.Image(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownImage, key)
	}
	if !ref.Expandable {
		return fmt.Errorf("%w: %q", ErrImageNotExpandable, key)
	}
	if res := p.images[key]; !res.Loaded() {
		return fmt.Errorf("%w: %q (%s)", ErrImageUnavailable, key, res.State)
	}
	if p.overlays.ImageModal && p.modalKey == key {
		return nil
	}
	p.overlays.ImageModal = true
	p.modalKey = key
	p.bus.Publish(events.OverlayChanged{Overlay: events.OverlayImageModal, Open: true, ImageKey: key})
	return nil
}

func (p *Presentation) closeImage() bool {
	if !p.overlays.ImageModal {
		return false
	}
	p.overlays.ImageModal = false
	p.modalKey = ""
	p.bus.Publish(events.OverlayChanged{Overlay: events.OverlayImageModal, Open: false})
	return true
}

// applyResolution records a terminal image state. Keys the deck does not
// know are dropped.
func (p *Presentation) applyResolution(r assets.Resolution) {
	if _, ok := p.images[r.Key]; !ok {
		return
	}
	p.images[r.Key] = r
	if p.overlays.ImageModal && p.modalKey == r.Key && !r.Loaded() {
		p.closeImage()
	}
	p.bus.Publish(events.ImageResolved{
		Key:      r.Key,
		Source:   r.Source,
		State:    string(r.State),
		Attempts: r.Attempts,
	})
}

func (p *Presentation) snapshot() State {
	v := p.seq.View()
	states := p.seq.States()
	n := p.deck.Len()

	slides := make([]SlideInfo, n)
	for i, sl := range p.deck.Slides() {
		slides[i] = SlideInfo{
			ID:       sl.ID,
			Title:    p.seq.TitleOf(i),
			Position: p.loc.Counter(i+1, n),
			State:    states[i],
		}
	}

	s := State{
		View:          v,
		Counter:       p.loc.Counter(v.Index+1, v.Count),
		DocumentTitle: p.loc.DocumentTitle(v.Title, p.siteTitle()),
		Slides:        slides,
		Overlays:      p.overlays,
		Controls:      p.controls,
		Autoplay: AutoplayState{
			Active:     p.auto.Active(),
			Paused:     p.auto.Paused(),
			IntervalMs: p.auto.Interval().Milliseconds(),
		},
		Images: maps.Clone(p.images),
	}
	if p.overlays.ImageModal {
		ref, _ := p.deck.Image(p.modalKey)
		s.ModalKey = p.modalKey
		s.ModalSource = p.images[p.modalKey].Source
		s.ModalAlt = ref.Alt
	}
	return s
}

func (p *Presentation) siteTitle() string {
	if p.cfg.Site.Title != "" {
		return p.cfg.Site.Title
	}
	return p.deck.Title
}

// Package autoplay advances a presentation on a fixed interval.
//
// Like the sequencer, an Autoplay is owned by one goroutine. Its scheduler
// must deliver callbacks on that goroutine.
package autoplay

import (
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-slidedeck/internal/eventloop"
	"github.com/alnah/go-slidedeck/internal/events"
)

// DefaultInterval is used when Options.Interval is not positive.
const DefaultInterval = 5 * time.Second

// Options configures an Autoplay.
type Options struct {
	Interval  time.Duration
	Scheduler eventloop.Scheduler
	Bus       *events.Bus
	Logger    *zap.Logger
	// Advance is called on every tick. It normally moves to
	// (current+1) mod count.
	Advance func() bool
}

// Autoplay re-arms a one-shot timer after every tick.
type Autoplay struct {
	interval time.Duration
	sched    eventloop.Scheduler
	bus      *events.Bus
	log      *zap.Logger
	advance  func() bool

	active    bool
	paused    bool
	held      bool
	wasActive bool
	cancel    func()
	ticks     int
}

// New creates a stopped Autoplay.
func New(opts Options) *Autoplay {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Scheduler == nil {
		opts.Scheduler = eventloop.Real{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Advance == nil {
		opts.Advance = func() bool { return false }
	}
	return &Autoplay{
		interval: opts.Interval,
		sched:    opts.Scheduler,
		bus:      opts.Bus,
		log:      opts.Logger.Named("autoplay"),
		advance:  opts.Advance,
	}
}

// Active reports whether the timer is running.
func (a *Autoplay) Active() bool { return a.active }

// Paused reports whether autoplay is suspended and will resume.
func (a *Autoplay) Paused() bool { return a.paused }

// Interval returns the tick interval.
func (a *Autoplay) Interval() time.Duration { return a.interval }

// Ticks returns how many times the timer has fired.
func (a *Autoplay) Ticks() int { return a.ticks }

// Toggle starts or stops autoplay and returns the new state. While held
// by Pause it only flips whether Resume restarts the timer, and returns
// that choice.
func (a *Autoplay) Toggle() bool {
	if a.held {
		a.wasActive = !a.wasActive
		a.paused = a.wasActive
		a.publish()
		return a.wasActive
	}
	a.paused = false
	a.wasActive = false
	if a.active {
		a.Stop()
	} else {
		a.Start()
	}
	return a.active
}

// Start arms the timer if it is not running.
func (a *Autoplay) Start() {
	if a.active {
		return
	}
	a.active = true
	a.arm()
	a.log.Debug("autoplay started", zap.Duration("interval", a.interval))
	a.publish()
}

// Stop disarms the timer.
func (a *Autoplay) Stop() {
	if !a.active {
		return
	}
	a.disarm()
	a.active = false
	a.log.Debug("autoplay stopped")
	a.publish()
}

// Pause suspends autoplay, remembering whether it was running.
func (a *Autoplay) Pause() {
	if a.held {
		return
	}
	a.held = true
	a.wasActive = a.active
	if !a.active {
		return
	}
	a.paused = true
	a.disarm()
	a.active = false
	a.publish()
}

// Resume restarts autoplay only if it was running when paused.
func (a *Autoplay) Resume() {
	if !a.held {
		return
	}
	a.held = false
	a.paused = false
	resume := a.wasActive
	a.wasActive = false
	if resume {
		a.Start()
	}
}

// Close disarms the timer without publishing.
func (a *Autoplay) Close() {
	a.disarm()
	a.active = false
	a.paused = false
	a.held = false
}

func (a *Autoplay) arm() {
	a.cancel = a.sched.AfterFunc(a.interval, a.tick)
}

func (a *Autoplay) disarm() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *Autoplay) tick() {
	if !a.active {
		return
	}
	a.ticks++
	if !a.advance() {
		a.log.Debug("autoplay tick ignored")
	}
	a.arm()
}

func (a *Autoplay) publish() {
	a.bus.Publish(events.AutoplayChanged{Active: a.active, Paused: a.paused})
}

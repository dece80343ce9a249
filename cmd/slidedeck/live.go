package main

import (
	"sync"

	slidedeck "github.com/alnah/go-slidedeck"
	"github.com/alnah/go-slidedeck/internal/console"
	"github.com/alnah/go-slidedeck/internal/events"
	"github.com/alnah/go-slidedeck/internal/input"
	"github.com/alnah/go-slidedeck/internal/kiosk"
)

// Compile-time interface checks.
var (
	_ console.Controller = (*liveDeck)(nil)
	_ kiosk.Subscriber   = (*liveDeck)(nil)
)

// liveDeck forwards to whichever presentation is current. Listeners stay
// attached across reloads.
type liveDeck struct {
	mu          sync.RWMutex
	p           *slidedeck.Presentation
	listeners   map[int]slidedeck.Listener
	nextID      int
	unsubscribe func()
}

func newLiveDeck(p *slidedeck.Presentation) *liveDeck {
	l := &liveDeck{listeners: make(map[int]slidedeck.Listener)}
	l.swap(p)
	return l
}

// swap makes p current and returns the previous presentation.
func (l *liveDeck) swap(p *slidedeck.Presentation) *slidedeck.Presentation {
	l.mu.Lock()
	defer l.mu.Unlock()
	old := l.p
	if l.unsubscribe != nil {
		l.unsubscribe()
	}
	l.p = p
	l.unsubscribe = p.Subscribe(l.dispatch)
	return old
}

func (l *liveDeck) dispatch(e events.Event, s slidedeck.State) {
	l.mu.RLock()
	fns := make([]slidedeck.Listener, 0, len(l.listeners))
	for _, fn := range l.listeners {
		fns = append(fns, fn)
	}
	l.mu.RUnlock()
	for _, fn := range fns {
		fn(e, s)
	}
}

func (l *liveDeck) current() *slidedeck.Presentation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.p
}

func (l *liveDeck) Subscribe(fn slidedeck.Listener) func() {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		delete(l.listeners, id)
		l.mu.Unlock()
	}
}

func (l *liveDeck) State() slidedeck.State          { return l.current().State() }
func (l *liveDeck) HandleKey(k string) input.Command { return l.current().HandleKey(k) }
func (l *liveDeck) ToggleNavigator() bool           { return l.current().ToggleNavigator() }
func (l *liveDeck) ToggleAutoplay() bool            { return l.current().ToggleAutoplay() }
func (l *liveDeck) ToggleFullscreen() bool          { return l.current().ToggleFullscreen() }

// Close detaches from and closes the current presentation.
func (l *liveDeck) Close() error {
	l.mu.Lock()
	if l.unsubscribe != nil {
		l.unsubscribe()
		l.unsubscribe = nil
	}
	p := l.p
	l.mu.Unlock()
	return p.Close()
}

// Package events defines the domain notifications a presentation emits and
// a small synchronous bus to deliver them.
package events

// Kind names an event on the wire and in logs.
type Kind string

// Event kinds.
const (
	KindSlideChanged      Kind = "slideChanged"
	KindTransitionStarted Kind = "transitionStarted"
	KindTransitionEnded   Kind = "transitionEnded"
	KindImageResolved     Kind = "imageResolved"
	KindOverlayChanged    Kind = "overlayChanged"
	KindAutoplayChanged   Kind = "autoplayChanged"
	KindFullscreenChanged Kind = "fullscreenChanged"
	KindDeckReloaded      Kind = "deckReloaded"
)

// Event is implemented by every notification type in this package.
type Event interface {
	Kind() Kind
}

// SlideChanged is published once the target slide of a transition is active.
type SlideChanged struct {
	Index    int     `json:"index"`
	Count    int     `json:"count"`
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Progress float64 `json:"progress"`
}

// TransitionStarted is published when the previous slide is deactivated.
type TransitionStarted struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// TransitionEnded is published when the transition guard is released.
type TransitionEnded struct {
	Index int `json:"index"`
}

// ImageResolved is published when an image reaches a terminal state.
type ImageResolved struct {
	Key      string `json:"key"`
	Source   string `json:"source"`
	State    string `json:"state"`
	Attempts int    `json:"attempts"`
}

// Overlay identifies a dismissible layer shown over the deck.
type Overlay string

// Overlays.
const (
	OverlayImageModal Overlay = "imageModal"
	OverlayNavigator  Overlay = "navigator"
)

// OverlayChanged is published when an overlay opens or closes.
type OverlayChanged struct {
	Overlay Overlay `json:"overlay"`
	Open    bool    `json:"open"`
	// ImageKey is set when the image modal opens.
	ImageKey string `json:"imageKey,omitempty"`
}

// AutoplayChanged is published when autoplay starts, stops or pauses.
type AutoplayChanged struct {
	Active bool `json:"active"`
	Paused bool `json:"paused"`
}

// FullscreenChanged is published when fullscreen is toggled.
type FullscreenChanged struct {
	Fullscreen bool `json:"fullscreen"`
}

// DeckReloaded is published when the deck or its configuration is swapped
// at runtime.
type DeckReloaded struct {
	Count int    `json:"count"`
	ID    string `json:"id"`
}

func (SlideChanged) Kind() Kind      { return KindSlideChanged }
func (TransitionStarted) Kind() Kind { return KindTransitionStarted }
func (TransitionEnded) Kind() Kind   { return KindTransitionEnded }
func (ImageResolved) Kind() Kind     { return KindImageResolved }
func (OverlayChanged) Kind() Kind    { return KindOverlayChanged }
func (AutoplayChanged) Kind() Kind   { return KindAutoplayChanged }
func (FullscreenChanged) Kind() Kind { return KindFullscreenChanged }
func (DeckReloaded) Kind() Kind      { return KindDeckReloaded }

// Package input turns raw key presses and touch gestures into presentation
// commands, applying the overlay and capability gates.
package input

// Action is what a key means before any gating.
type Action int

// Key actions.
const (
	ActionNone Action = iota
	ActionNext
	ActionPrevious
	ActionFirst
	ActionLast
	ActionEscape
	ActionToggleFullscreen
	ActionToggleNavigator
	ActionToggleAutoplay
)

var actionNames = map[Action]string{
	ActionNone:             "none",
	ActionNext:             "next",
	ActionPrevious:         "previous",
	ActionFirst:            "first",
	ActionLast:             "last",
	ActionEscape:           "escape",
	ActionToggleFullscreen: "toggleFullscreen",
	ActionToggleNavigator:  "toggleNavigator",
	ActionToggleAutoplay:   "toggleAutoplay",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// KeyAction maps a DOM KeyboardEvent.key value to an Action.
func KeyAction(key string) Action {
	switch key {
	case "ArrowRight", " ", "Spacebar", "PageDown":
		return ActionNext
	case "ArrowLeft", "PageUp":
		return ActionPrevious
	case "Home":
		return ActionFirst
	case "End":
		return ActionLast
	case "Escape", "Esc":
		return ActionEscape
	case "F11":
		return ActionToggleFullscreen
	case "p", "P":
		return ActionToggleNavigator
	case "a", "A":
		return ActionToggleAutoplay
	}
	return ActionNone
}

// Command is the gated outcome of an input.
type Command int

// Commands.
const (
	CmdNone Command = iota
	CmdNext
	CmdPrevious
	CmdFirst
	CmdLast
	CmdCloseImage
	CmdCloseNavigator
	CmdExitFullscreen
	CmdToggleFullscreen
	CmdToggleNavigator
	CmdToggleAutoplay
)

var commandNames = map[Command]string{
	CmdNone:             "none",
	CmdNext:             "next",
	CmdPrevious:         "previous",
	CmdFirst:            "first",
	CmdLast:             "last",
	CmdCloseImage:       "closeImage",
	CmdCloseNavigator:   "closeNavigator",
	CmdExitFullscreen:   "exitFullscreen",
	CmdToggleFullscreen: "toggleFullscreen",
	CmdToggleNavigator:  "toggleNavigator",
	CmdToggleAutoplay:   "toggleAutoplay",
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return "unknown"
}

// Overlays is the dismissible UI currently shown.
type Overlays struct {
	ImageModal bool `json:"imageModal"`
	Navigator  bool `json:"navigator"`
	Fullscreen bool `json:"fullscreen"`
}

// Controls are the enabled input surfaces and optional capabilities.
type Controls struct {
	Keyboard   bool `json:"keyboard"`
	Touch      bool `json:"touch"`
	Fullscreen bool `json:"fullscreen"`
	Navigator  bool `json:"navigator"`
	Autoplay   bool `json:"autoplay"`
}

// Gate carries everything that decides whether an input is acted upon.
type Gate struct {
	Overlays      Overlays
	Controls      Controls
	Transitioning bool
}

// Decide maps a key action to a command.
//
// Escape always wins: it closes the image modal, else the navigator, else
// leaves fullscreen. The image modal swallows every other key. The
// navigator only lets its own toggle through. While a transition runs,
// nothing but Escape is handled.
func (g Gate) Decide(a Action) Command {
	if !g.Controls.Keyboard || a == ActionNone {
		return CmdNone
	}

	if a == ActionEscape {
		switch {
		case g.Overlays.ImageModal:
			return CmdCloseImage
		case g.Overlays.Navigator:
			return CmdCloseNavigator
		case g.Overlays.Fullscreen:
			return CmdExitFullscreen
		}
		return CmdNone
	}

	if g.Overlays.ImageModal || g.Transitioning {
		return CmdNone
	}

	if g.Overlays.Navigator {
		if a == ActionToggleNavigator {
			return CmdToggleNavigator
		}
		return CmdNone
	}

	switch a {
	case ActionNext:
		return CmdNext
	case ActionPrevious:
		return CmdPrevious
	case ActionFirst:
		return CmdFirst
	case ActionLast:
		return CmdLast
	case ActionToggleFullscreen:
		if g.Controls.Fullscreen {
			return CmdToggleFullscreen
		}
	case ActionToggleNavigator:
		if g.Controls.Navigator {
			return CmdToggleNavigator
		}
	case ActionToggleAutoplay:
		if g.Controls.Autoplay {
			return CmdToggleAutoplay
		}
	}
	return CmdNone
}

// DecideKey is KeyAction followed by Decide.
func (g Gate) DecideKey(key string) Command {
	return g.Decide(KeyAction(key))
}

// DecideSwipe gates a swipe gesture. Swipes are ignored when touch is
// disabled, an overlay is open or a transition runs.
func (g Gate) DecideSwipe(s Swipe, threshold float64) Command {
	if !g.Controls.Touch || g.Overlays.ImageModal || g.Overlays.Navigator || g.Transitioning {
		return CmdNone
	}
	return s.Command(threshold)
}

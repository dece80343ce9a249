// Package console is the terminal presenter view: current and next slide,
// progress, elapsed time and the state of autoplay and overlays. Keys typed
// in the terminal drive the presentation like any other viewer.
package console

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	slidedeck "github.com/alnah/go-slidedeck"
	"github.com/alnah/go-slidedeck/internal/events"
	"github.com/alnah/go-slidedeck/internal/input"
	"github.com/alnah/go-slidedeck/internal/locale"
)

// Controller is the part of a Presentation the console drives.
type Controller interface {
	State() slidedeck.State
	HandleKey(key string) input.Command
	ToggleNavigator() bool
	ToggleAutoplay() bool
	Subscribe(fn slidedeck.Listener) (unsubscribe func())
}

var _ Controller = (*slidedeck.Presentation)(nil)

type keyMap struct {
	Next       key.Binding
	Previous   key.Binding
	First      key.Binding
	Last       key.Binding
	Escape     key.Binding
	Fullscreen key.Binding
	Navigator  key.Binding
	Autoplay   key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:       key.NewBinding(key.WithKeys("right", "l", "pgdown", " ", "enter")),
		Previous:   key.NewBinding(key.WithKeys("left", "h", "pgup", "backspace")),
		First:      key.NewBinding(key.WithKeys("home", "g")),
		Last:       key.NewBinding(key.WithKeys("end", "G")),
		Escape:     key.NewBinding(key.WithKeys("esc")),
		Fullscreen: key.NewBinding(key.WithKeys("f", "f11")),
		Navigator:  key.NewBinding(key.WithKeys("p")),
		Autoplay:   key.NewBinding(key.WithKeys("a")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c")),
	}
}

// stateMsg carries a snapshot pushed by the presentation.
type stateMsg slidedeck.State

type tickMsg time.Time

// Options configures the presenter view.
type Options struct {
	Localizer *locale.Localizer
	// Viewers reports connected browsers; nil hides the count.
	Viewers func() int
	// Accent colors the title; empty uses the default.
	Accent string
	// Now is the clock; nil uses time.Now.
	Now func() time.Time
}

// Model is the bubbletea model of the presenter view.
type Model struct {
	ctrl    Controller
	opts    Options
	keys    keyMap
	styles  Styles
	bar     progress.Model
	state   slidedeck.State
	started time.Time
	now     time.Time
	width   int
}

// New creates a presenter view for ctrl.
func New(ctrl Controller, opts Options) Model {
	if opts.Localizer == nil {
		opts.Localizer = locale.New("")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	now := opts.Now()
	return Model{
		ctrl:    ctrl,
		opts:    opts,
		keys:    defaultKeyMap(),
		styles:  DefaultStyles(opts.Accent),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		state:   ctrl.State(),
		started: now,
		now:     now,
		width:   80,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the elapsed-time clock.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles key presses, state pushes and clock ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case stateMsg:
		m.state = slidedeck.State(msg)
	case tickMsg:
		m.now = m.opts.Now()
		return m, tick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.ctrl.HandleKey("ArrowRight")
	case key.Matches(msg, m.keys.Previous):
		m.ctrl.HandleKey("ArrowLeft")
	case key.Matches(msg, m.keys.First):
		m.ctrl.HandleKey("Home")
	case key.Matches(msg, m.keys.Last):
		m.ctrl.HandleKey("End")
	case key.Matches(msg, m.keys.Escape):
		m.ctrl.HandleKey("Escape")
	case key.Matches(msg, m.keys.Fullscreen):
		m.ctrl.HandleKey("F11")
	case key.Matches(msg, m.keys.Navigator):
		m.ctrl.ToggleNavigator()
	case key.Matches(msg, m.keys.Autoplay):
		m.ctrl.ToggleAutoplay()
	default:
		return m, nil
	}
	m.state = m.ctrl.State()
	return m, nil
}

// View renders the presenter view.
func (m Model) View() string {
	loc := m.opts.Localizer
	st := m.state
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(st.DocumentTitle))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Label.Render(loc.Text(locale.MsgConsoleCurrent)))
	b.WriteString(m.styles.Current.Render(fmt.Sprintf("%s  %s", st.Counter, st.View.Title)))
	b.WriteString("\n")

	b.WriteString(m.styles.Label.Render(loc.Text(locale.MsgConsoleNext)))
	if next, ok := st.Next(); ok {
		b.WriteString(m.styles.Next.Render(fmt.Sprintf("%s  %s", next.Position, next.Title)))
	} else {
		b.WriteString(m.styles.Next.Render(loc.Text(locale.MsgConsoleEnd)))
	}
	b.WriteString("\n\n")

	m.bar.Width = max(m.width-8, 10)
	b.WriteString(m.bar.ViewAs(st.View.Progress))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Label.Render(loc.Text(locale.MsgConsoleElapsed)))
	b.WriteString(formatElapsed(m.now.Sub(m.started)))
	if m.opts.Viewers != nil {
		b.WriteString("   ")
		b.WriteString(loc.Viewers(m.opts.Viewers()))
	}
	b.WriteString("\n")

	b.WriteString(m.flag(loc.Text(locale.MsgConsoleAutoplay), st.Autoplay.Active && !st.Autoplay.Paused))
	b.WriteString("  ")
	b.WriteString(m.flag(loc.Text(locale.MsgConsoleNavigator), st.Overlays.Navigator))
	b.WriteString("  ")
	b.WriteString(m.flag(loc.Text(locale.MsgConsoleFullscreen), st.Overlays.Fullscreen))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Help.Render(loc.Text(locale.MsgConsoleHelp)))
	return m.styles.Frame.Render(b.String())
}

func (m Model) flag(label string, on bool) string {
	if on {
		return m.styles.FlagOn.Render(label)
	}
	return m.styles.FlagOff.Render(label)
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	mnt := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, mnt, s)
}

// Run shows the presenter view until the user quits or ctx is done.
// Extra program options, such as input and output overrides, are passed
// to bubbletea.
func Run(ctx context.Context, ctrl Controller, opts Options, progOpts ...tea.ProgramOption) error {
	prog := tea.NewProgram(New(ctrl, opts), append([]tea.ProgramOption{tea.WithContext(ctx)}, progOpts...)...)

	// Listeners run on the presentation's loop and must not block; only
	// the latest snapshot matters.
	latest := make(chan slidedeck.State, 1)
	unsubscribe := ctrl.Subscribe(func(_ events.Event, s slidedeck.State) {
		select {
		case <-latest:
		default:
		}
		latest <- s
	})
	defer unsubscribe()

	fwdCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() {
		for {
			select {
			case <-fwdCtx.Done():
				return
			case s := <-latest:
				prog.Send(stateMsg(s))
			}
		}
	}()

	_, err := prog.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

package console

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	slidedeck "github.com/alnah/go-slidedeck"
	"github.com/alnah/go-slidedeck/internal/config"
	"github.com/alnah/go-slidedeck/internal/deck"
	"github.com/alnah/go-slidedeck/internal/input"
	"github.com/alnah/go-slidedeck/internal/locale"
	"github.com/alnah/go-slidedeck/internal/sequencer"
)

type fakeController struct {
	state     slidedeck.State
	keys      []string
	navigator int
	autoplay  int
}

func (f *fakeController) State() slidedeck.State { return f.state }

func (f *fakeController) HandleKey(key string) input.Command {
	f.keys = append(f.keys, key)
	return input.CmdNone
}

func (f *fakeController) ToggleNavigator() bool {
	f.navigator++
	return true
}

func (f *fakeController) ToggleAutoplay() bool {
	f.autoplay++
	return true
}

func (f *fakeController) Subscribe(slidedeck.Listener) func() { return func() {} }

func threeSlides(index int) slidedeck.State {
	slides := []slidedeck.SlideInfo{
		{ID: "intro", Title: "Intro", Position: "1 / 3"},
		{ID: "features", Title: "Features", Position: "2 / 3"},
		{ID: "pricing", Title: "Pricing", Position: "3 / 3"},
	}
	return slidedeck.State{
		View: sequencer.View{
			Index: index, Count: 3, ID: slides[index].ID, Title: slides[index].Title,
			Progress: float64(index+1) / 3,
		},
		Counter:       slides[index].Position,
		DocumentTitle: slides[index].Title + " | Demo",
		Slides:        slides,
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "f11":
		return tea.KeyMsg{Type: tea.KeyF11}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// ---------------------------------------------------------------------------
// Keys
// ---------------------------------------------------------------------------

func TestModel_ForwardsKeys(t *testing.T) {
	t.Parallel()

	ctrl := &fakeController{state: threeSlides(0)}
	var m tea.Model = New(ctrl, Options{})

	for _, k := range []string{"right", "space", "left", "home", "end", "esc", "f", "f11", "x"} {
		m, _ = m.Update(keyMsg(k))
	}

	want := []string{"ArrowRight", "ArrowRight", "ArrowLeft", "Home", "End", "Escape", "F11", "F11"}
	if diff := cmp.Diff(want, ctrl.keys); diff != "" {
		t.Errorf("forwarded keys mismatch (-want +got):\n%s", diff)
	}
}

func TestModel_Toggles(t *testing.T) {
	t.Parallel()

	ctrl := &fakeController{state: threeSlides(0)}
	var m tea.Model = New(ctrl, Options{})

	m, _ = m.Update(keyMsg("p"))
	_, _ = m.Update(keyMsg("a"))

	if ctrl.navigator != 1 || ctrl.autoplay != 1 {
		t.Errorf("toggles = navigator %d autoplay %d, want 1 and 1", ctrl.navigator, ctrl.autoplay)
	}
}

func TestModel_DrivesPresentation(t *testing.T) {
	t.Parallel()

	d, err := deck.New("Demo", []deck.Slide{{ID: "intro"}, {ID: "pricing"}})
	if err != nil {
		t.Fatalf("deck.New() error = %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.Presentation.Variant = config.VariantMinimal
	p, err := slidedeck.NewPresentation(d, slidedeck.WithConfig(cfg))
	if err != nil {
		t.Fatalf("NewPresentation() error = %v", err)
	}
	defer func() { _ = p.Close() }()

	var m tea.Model = New(p, Options{})

	m, _ = m.Update(keyMsg("f"))
	if !p.State().Overlays.Fullscreen {
		t.Fatal("Update(f) did not enter fullscreen")
	}
	m, _ = m.Update(keyMsg("right"))
	if got := p.State().View.ID; got != "pricing" {
		t.Errorf("View.ID = %q after right, want pricing", got)
	}
	_, _ = m.Update(keyMsg("f11"))
	if p.State().Overlays.Fullscreen {
		t.Error("Update(f11) did not leave fullscreen")
	}
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()

	m := New(&fakeController{state: threeSlides(0)}, Options{})
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("Update(q) cmd = nil, want quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Update(q) did not quit")
	}
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func TestModel_View(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	clock := start
	ctrl := &fakeController{state: threeSlides(0)}
	var m tea.Model = New(ctrl, Options{
		Viewers: func() int { return 2 },
		Now:     func() time.Time { return clock },
	})

	view := m.View()
	for _, want := range []string{"Intro | Demo", "1 / 3", "Intro", "2 / 3", "Features", "00:00:00", "2 viewers"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	clock = start.Add(65 * time.Minute)
	m, _ = m.Update(tickMsg(clock))
	m, _ = m.Update(stateMsg(threeSlides(2)))

	view = m.View()
	for _, want := range []string{"Pricing", "3 / 3", "End of deck", "01:05:00"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() after update missing %q", want)
		}
	}
}

func TestModel_ViewLocalized(t *testing.T) {
	t.Parallel()

	m := New(&fakeController{state: threeSlides(2)}, Options{Localizer: locale.New("pt-BR")})
	if view := m.View(); strings.Contains(view, "End of deck") {
		t.Errorf("View() not localized:\n%s", view)
	}
}

func TestFormatElapsed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 0, want: "00:00:00"},
		{in: 59*time.Second + 900*time.Millisecond, want: "00:00:59"},
		{in: 2*time.Hour + 3*time.Minute + 4*time.Second, want: "02:03:04"},
	}

	for _, tt := range tests {
		if got := formatElapsed(tt.in); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

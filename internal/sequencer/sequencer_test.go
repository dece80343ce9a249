package sequencer

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-slidedeck/internal/deck"
	"github.com/alnah/go-slidedeck/internal/eventloop"
	"github.com/alnah/go-slidedeck/internal/events"
)

// Notes:
// - Tests drive deferred steps with eventloop.Manual so timing is exact.
// - NeonTiming (50ms + 100ms) is the interesting case; ImmediateTiming must
//   complete synchronously.

func testDeck(t *testing.T, n int) *deck.Deck {
	t.Helper()
	ids := []string{"intro", "dashboard", "clients", "register", "plans", "schedule", "end"}
	slides := make([]deck.Slide, n)
	for i := range slides {
		slides[i] = deck.Slide{ID: ids[i]}
	}
	slides[0].Title = "Welcome"
	d, err := deck.New("test", slides)
	if err != nil {
		t.Fatalf("deck.New() error = %v", err)
	}
	return d
}

type fixture struct {
	seq   *Sequencer
	clock *eventloop.Manual
	rec   *events.Recorder
}

func newFixture(t *testing.T, n int, timing Timing, initial int) fixture {
	t.Helper()
	clock := eventloop.NewManual()
	bus := events.NewBus()
	rec := &events.Recorder{}
	bus.Subscribe(rec.Handle)
	seq := New(testDeck(t, n), Options{
		Timing:    timing,
		Scheduler: clock,
		Bus:       bus,
		Initial:   initial,
	})
	return fixture{seq: seq, clock: clock, rec: rec}
}

func TestNew_InitialState(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 5, NeonTiming, 2)
	if f.seq.Index() != 2 {
		t.Errorf("Index() = %d, want 2", f.seq.Index())
	}
	if f.seq.ActiveCount() != 1 {
		t.Errorf("ActiveCount() = %d, want 1", f.seq.ActiveCount())
	}
	if len(f.rec.Events()) != 0 {
		t.Errorf("initial state published %v", f.rec.Kinds())
	}

	f = newFixture(t, 5, NeonTiming, 9)
	if f.seq.Index() != 0 {
		t.Errorf("out-of-range initial: Index() = %d, want 0", f.seq.Index())
	}
}

func TestInitialIndex(t *testing.T) {
	t.Parallel()

	d := testDeck(t, 5)
	tests := []struct {
		fragment string
		want     int
	}{
		{"", 0},
		{"#", 0},
		{"#clients", 2},
		{"plans", 4},
		{"#nope", 0},
	}
	for _, tt := range tests {
		if got := InitialIndex(d, tt.fragment); got != tt.want {
			t.Errorf("InitialIndex(%q) = %d, want %d", tt.fragment, got, tt.want)
		}
	}
}

func TestGoTo_NeonTransition(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 5, NeonTiming, 0)

	if !f.seq.GoTo(2) {
		t.Fatal("GoTo(2) = false, want true")
	}

	// Old slide deactivated first, new one not active yet.
	if diff := cmp.Diff([]SlideState{StatePrev, "", "", "", ""}, f.seq.States()); diff != "" {
		t.Errorf("states after GoTo mismatch (-want +got):\n%s", diff)
	}
	if !f.seq.Transitioning() {
		t.Error("Transitioning() = false during transition")
	}
	if f.seq.Index() != 2 {
		t.Errorf("Index() = %d, want 2", f.seq.Index())
	}

	f.clock.Advance(49 * time.Millisecond)
	if f.seq.ActiveCount() != 0 {
		t.Error("target activated before display delay")
	}

	f.clock.Advance(time.Millisecond)
	if diff := cmp.Diff([]SlideState{"", "", StateActive, "", ""}, f.seq.States()); diff != "" {
		t.Errorf("states after display delay mismatch (-want +got):\n%s", diff)
	}
	if !f.seq.Transitioning() {
		t.Error("guard released before settle delay")
	}

	f.clock.Advance(100 * time.Millisecond)
	if f.seq.Transitioning() {
		t.Error("guard still raised after settle delay")
	}

	wantKinds := []events.Kind{events.KindTransitionStarted, events.KindSlideChanged, events.KindTransitionEnded}
	if diff := cmp.Diff(wantKinds, f.rec.Kinds()); diff != "" {
		t.Errorf("event kinds mismatch (-want +got):\n%s", diff)
	}

	changed := f.rec.Events()[1].(events.SlideChanged)
	want := events.SlideChanged{Index: 2, Count: 5, ID: "clients", Title: "Slide 3", Progress: 0.6}
	if diff := cmp.Diff(want, changed); diff != "" {
		t.Errorf("SlideChanged mismatch (-want +got):\n%s", diff)
	}
}

func TestGoTo_Immediate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3, ImmediateTiming, 0)
	if !f.seq.GoTo(1) {
		t.Fatal("GoTo(1) = false")
	}
	if f.seq.Transitioning() {
		t.Error("immediate transition left guard raised")
	}
	if f.seq.ActiveCount() != 1 || f.seq.States()[1] != StateActive {
		t.Errorf("States() = %v", f.seq.States())
	}
	if f.clock.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", f.clock.Pending())
	}
}

func TestGoTo_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		index   int
		wantErr error
	}{
		{"negative", -1, ErrOutOfRange},
		{"past end", 5, ErrOutOfRange},
		{"same slide", 0, ErrSameSlide},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, 5, NeonTiming, 0)
			before := f.seq.States()

			if err := f.seq.Check(tt.index); !errors.Is(err, tt.wantErr) {
				t.Errorf("Check(%d) error = %v, want %v", tt.index, err, tt.wantErr)
			}
			if f.seq.GoTo(tt.index) {
				t.Errorf("GoTo(%d) = true, want false", tt.index)
			}
			if f.seq.Index() != 0 || f.seq.Transitioning() {
				t.Errorf("state changed: index=%d transitioning=%v", f.seq.Index(), f.seq.Transitioning())
			}
			if diff := cmp.Diff(before, f.seq.States()); diff != "" {
				t.Errorf("states changed (-before +after):\n%s", diff)
			}
			if len(f.rec.Events()) != 0 {
				t.Errorf("rejected GoTo published %v", f.rec.Kinds())
			}
		})
	}
}

func TestGoTo_WhileTransitioning(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 5, NeonTiming, 0)
	f.seq.GoTo(1)

	if err := f.seq.Check(3); !errors.Is(err, ErrTransitioning) {
		t.Errorf("Check(3) error = %v, want ErrTransitioning", err)
	}
	if f.seq.GoTo(3) {
		t.Error("GoTo(3) during transition = true")
	}
	f.clock.Advance(149 * time.Millisecond)
	if f.seq.GoTo(3) {
		t.Error("GoTo(3) before settle = true")
	}
	f.clock.Advance(time.Millisecond)
	if !f.seq.GoTo(3) {
		t.Error("GoTo(3) after settle = false")
	}
	f.clock.Advance(time.Second)
	if f.seq.Index() != 3 || f.seq.ActiveCount() != 1 {
		t.Errorf("Index() = %d ActiveCount() = %d", f.seq.Index(), f.seq.ActiveCount())
	}
}

func TestNavigationHelpers(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 4, ImmediateTiming, 0)
	s := f.seq

	if s.Previous() {
		t.Error("Previous() on first slide = true")
	}
	if !s.Next() || s.Index() != 1 {
		t.Errorf("Next() -> %d, want 1", s.Index())
	}
	if !s.Last() || s.Index() != 3 {
		t.Errorf("Last() -> %d, want 3", s.Index())
	}
	if s.Next() {
		t.Error("Next() on last slide = true")
	}
	if !s.Advance() || s.Index() != 0 {
		t.Errorf("Advance() from last -> %d, want 0", s.Index())
	}
	if !s.GoToID("#register") || s.Index() != 3 {
		t.Errorf("GoToID(#register) -> %d, want 3", s.Index())
	}
	if s.GoToID("missing") {
		t.Error("GoToID(missing) = true")
	}
	if !s.First() || s.Index() != 0 {
		t.Errorf("First() -> %d, want 0", s.Index())
	}
}

func TestInvariant_ExactlyOneActive(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 7, NeonTiming, 0)
	ops := []func() bool{f.seq.Next, f.seq.Last, f.seq.Previous, f.seq.First, f.seq.Advance}
	for round := 0; round < 20; round++ {
		ops[round%len(ops)]()
		f.clock.Advance(NeonTiming.DisplayDelay + NeonTiming.SettleDelay)

		i := f.seq.Index()
		if i < 0 || i >= f.seq.Count() {
			t.Fatalf("round %d: index %d out of bounds", round, i)
		}
		if f.seq.ActiveCount() != 1 {
			t.Fatalf("round %d: ActiveCount() = %d", round, f.seq.ActiveCount())
		}
		if f.seq.States()[i] != StateActive {
			t.Fatalf("round %d: current slide not active", round)
		}
	}
}

func TestView(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 5, ImmediateTiming, 0)

	got := f.seq.View()
	want := View{
		Index: 0, Count: 5, ID: "intro", Title: "Welcome",
		Progress: 0.2, ProgressPercent: 20,
		PrevEnabled: false, NextEnabled: true, Fragment: "#intro",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("View() at 0 mismatch (-want +got):\n%s", diff)
	}

	f.seq.GoTo(2)
	if got := f.seq.View().ProgressPercent; got != 60 {
		t.Errorf("ProgressPercent at index 2 of 5 = %v, want 60", got)
	}

	f.seq.Last()
	v := f.seq.View()
	if !v.PrevEnabled || v.NextEnabled {
		t.Errorf("at last slide: PrevEnabled=%v NextEnabled=%v", v.PrevEnabled, v.NextEnabled)
	}
	if v.Progress != 1 {
		t.Errorf("Progress at last = %v, want 1", v.Progress)
	}
}

func TestPercent_Exact(t *testing.T) {
	t.Parallel()

	for count := 1; count <= 50; count++ {
		for k := 0; k < count; k++ {
			want := float64(100*(k+1)) / float64(count)
			if got := Percent(k, count); got != want {
				t.Fatalf("Percent(%d, %d) = %v, want %v", k, count, got, want)
			}
		}
	}
	if Percent(0, 0) != 0 || Fraction(0, 0) != 0 {
		t.Error("zero count must yield 0")
	}
}

func TestStop_CancelsPendingSteps(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3, NeonTiming, 0)
	f.seq.GoTo(1)
	f.seq.Stop()
	f.clock.Advance(time.Second)

	if f.seq.ActiveCount() != 0 {
		t.Errorf("activation ran after Stop: %v", f.seq.States())
	}
	if got := f.rec.Kinds(); len(got) != 1 {
		t.Errorf("events after Stop = %v, want only TransitionStarted", got)
	}
}

package kiosk

import (
	"testing"

	"go.uber.org/zap"

	slidedeck "github.com/alnah/go-slidedeck"
	"github.com/alnah/go-slidedeck/internal/events"
)

func TestNewLauncher(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ROD_BROWSER_BIN", "")

	tests := []struct {
		name      string
		opts      Options
		wantKiosk bool
		wantSize  string
	}{
		{name: "presenter window", opts: Options{Width: 1920, Height: 1080, Fullscreen: true}, wantKiosk: true, wantSize: "1920,1080"},
		{name: "headless never kiosk", opts: Options{Headless: true, Fullscreen: true, Width: 800, Height: 600}, wantSize: "800,600"},
		{name: "custom binary", opts: Options{Bin: "/usr/bin/chromium", Width: 1280, Height: 720}, wantSize: "1280,720"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLauncher(tt.opts)
			if got := l.Has("kiosk"); got != tt.wantKiosk {
				t.Errorf("kiosk flag = %v, want %v", got, tt.wantKiosk)
			}
			if got := l.Get("window-size"); got != tt.wantSize {
				t.Errorf("window-size = %q, want %q", got, tt.wantSize)
			}
			if tt.opts.Bin != "" && !l.Has("no-sandbox") {
				t.Error("custom binary should run without sandbox")
			}
		})
	}
}

type fakeSubscriber struct {
	listeners []slidedeck.Listener
}

func (f *fakeSubscriber) Subscribe(fn slidedeck.Listener) func() {
	f.listeners = append(f.listeners, fn)
	return func() { f.listeners = nil }
}

func (f *fakeSubscriber) publish(e events.Event) {
	for _, fn := range f.listeners {
		fn(e, slidedeck.State{})
	}
}

func TestWindow_FollowIgnoresAfterClose(t *testing.T) {
	t.Parallel()

	w := &Window{log: zap.NewNop()}
	sub := &fakeSubscriber{}
	unsubscribe := w.Follow(sub)
	defer unsubscribe()

	sub.publish(events.SlideChanged{Index: 1})
	sub.publish(events.FullscreenChanged{Fullscreen: true})
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	sub.publish(events.FullscreenChanged{Fullscreen: false})

	if err := w.SetFullscreen(true); err != nil {
		t.Errorf("SetFullscreen() on closed window error = %v", err)
	}
}

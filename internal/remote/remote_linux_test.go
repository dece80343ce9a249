//go:build linux

package remote

import (
	"testing"

	"github.com/holoplot/go-evdev"
)

func TestKeyName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		code   evdev.EvCode
		want   string
		wantOK bool
	}{
		{name: "right arrow", code: evdev.KEY_RIGHT, want: KeyNext, wantOK: true},
		{name: "clicker page down", code: evdev.KEY_PAGEDOWN, want: KeyPageDown, wantOK: true},
		{name: "clicker page up", code: evdev.KEY_PAGEUP, want: KeyPageUp, wantOK: true},
		{name: "presenter F5", code: evdev.KEY_F5, want: KeyFullscreen, wantOK: true},
		{name: "escape", code: evdev.KEY_ESC, want: KeyEscape, wantOK: true},
		{name: "unmapped letter", code: evdev.KEY_Q, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := keyName(tt.code)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("keyName(%d) = %q, %v, want %q, %v", tt.code, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

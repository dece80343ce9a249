package locale

import (
	"slices"
	"testing"
)

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", "en"},
		{"en", "en"},
		{"en-US", "en"},
		{"pt-BR", "pt-BR"},
		{"pt", "pt-BR"},
		{"xx-invalid!!", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := Match(tt.in).String(); got != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSupported(t *testing.T) {
	t.Parallel()

	got := Supported()
	for _, want := range []string{"en", "pt-BR"} {
		if !slices.Contains(got, want) {
			t.Errorf("Supported() = %v, missing %q", got, want)
		}
	}
}

func TestLocalizer(t *testing.T) {
	t.Parallel()

	en := New("en")
	pt := New("pt-BR")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"counter", en.Counter(3, 10), "3 / 10"},
		{"slide title", en.SlideTitle(4), "Slide 4"},
		{"document title", en.DocumentTitle("Intro", "Academy Neon"), "Intro | Academy Neon"},
		{"document title without site", en.DocumentTitle("Intro", ""), "Intro"},
		{"document title without slide", en.DocumentTitle("", "Academy Neon"), "Academy Neon"},
		{"placeholder en", en.Text(MsgImageNotFound), "Image not found"},
		{"placeholder pt", pt.Text(MsgImageNotFound), "Imagem não encontrada"},
		{"viewers one", en.Viewers(1), "1 viewer"},
		{"viewers many", en.Viewers(3), "3 viewers"},
		{"unknown id", en.Text("NoSuchMessage"), "NoSuchMessage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestLocalizer_Language(t *testing.T) {
	t.Parallel()

	if got := New("fr").Language(); got != "en" {
		t.Errorf("New(\"fr\").Language() = %q, want \"en\"", got)
	}
}

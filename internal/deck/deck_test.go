package deck

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
)

// Notes:
// - ParseHTML is exercised with small inline documents that follow the
//   data-slide / data-title / img contract.
// - Key derivation mirrors how authors name images: main image by slide,
//   feature images by deck-wide ordinal.

const sampleDeck = `<!DOCTYPE html>
<html><head><title>Academy Neon</title></head>
<body>
<div class="presentation">
  <section class="slide active" data-slide="intro" data-title="Welcome">
    <h1>Hello</h1>
  </section>
  <section class="slide" data-slide="dashboard">
    <img class="main-image" data-src="./assets/imgs/paginainicial.png" alt="Dashboard">
  </section>
  <section class="slide" data-slide="features" data-title="Features">
    <img class="feature-image" src="./assets/imgs/franquias.PNG">
    <img class="feature-image" src="./assets/imgs/login.PNG" data-alternates="a.png, b.png">
    <img src="data:image/png;base64,AAAA">
    <img id="logo" src="logo.svg">
  </section>
  <section class="slide">
    <div class="slide"><p>nested, ignored</p></div>
  </section>
</div>
</body></html>`

func TestParseHTML(t *testing.T) {
	t.Parallel()

	d, err := ParseHTML(strings.NewReader(sampleDeck))
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}

	if d.Title != "Academy Neon" {
		t.Errorf("Title = %q, want %q", d.Title, "Academy Neon")
	}
	if d.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", d.Len())
	}

	wantIDs := []string{"intro", "dashboard", "features", "slide-4"}
	if diff := cmp.Diff(wantIDs, d.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}

	s, _ := d.Slide(0)
	if s.Title != "Welcome" {
		t.Errorf("slide 0 Title = %q, want %q", s.Title, "Welcome")
	}

	want := []ImageRef{
		{Key: "dashboard", SlideID: "dashboard", Primary: "./assets/imgs/paginainicial.png", Alt: "Dashboard", Expandable: true},
		{Key: "feature-0", SlideID: "features", Primary: "./assets/imgs/franquias.PNG", Expandable: true},
		{Key: "feature-1", SlideID: "features", Primary: "./assets/imgs/login.PNG", Alternates: []string{"a.png", "b.png"}, Expandable: true},
		{Key: "logo", SlideID: "features", Primary: "logo.svg"},
	}
	if diff := cmp.Diff(want, d.Images()); diff != "" {
		t.Errorf("Images() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDocument_Annotates(t *testing.T) {
	t.Parallel()

	doc, err := html.Parse(strings.NewReader(`<div class="slide"><img src="x.png"></div>`))
	if err != nil {
		t.Fatalf("html.Parse() error = %v", err)
	}
	if _, err := ParseDocument(doc); err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}

	var buf strings.Builder
	if err := html.Render(&buf, doc); err != nil {
		t.Fatalf("html.Render() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{`data-slide="slide-1"`, `data-image-key="slide-1-img-1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered document missing %s:\n%s", want, out)
		}
	}
}

func TestParseHTML_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"no slides", `<html><body><p>nothing</p></body></html>`, ErrEmptyDeck},
		{"duplicate ids", `<div class="slide" data-slide="a"></div><div class="slide" data-slide="a"></div>`, ErrDuplicateSlideID},
		{"duplicate image keys", `<div class="slide"><img data-image-key="k" src="a"><img data-image-key="k" src="b"></div>`, ErrDuplicateImage},
		{"image key with slash", `<div class="slide" data-slide="a"><img data-image-key="a/1" src="x.png"></div>`, ErrInvalidImageKey},
		{"image id with traversal", `<div class="slide" data-slide="a"><img id="..x" src="x.png"></div>`, ErrInvalidImageKey},
		{"slide id yields bad key", `<div class="slide" data-slide="a/b"><img src="x.png"></div>`, ErrInvalidImageKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseHTML(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseHTML() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeck_Lookup(t *testing.T) {
	t.Parallel()

	d, err := New("t", []Slide{{ID: "a"}, {ID: "b", Images: []ImageRef{{Key: "k", Primary: "k.png"}}}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if i, ok := d.IndexOf("b"); !ok || i != 1 {
		t.Errorf("IndexOf(b) = %d, %v, want 1, true", i, ok)
	}
	if _, ok := d.IndexOf("zzz"); ok {
		t.Error("IndexOf(zzz) found a slide")
	}
	if _, ok := d.Slide(2); ok {
		t.Error("Slide(2) ok for a two-slide deck")
	}
	if _, ok := d.Slide(-1); ok {
		t.Error("Slide(-1) ok")
	}
	img, ok := d.Image("k")
	if !ok || img.SlideID != "b" {
		t.Errorf("Image(k) = %+v, %v", img, ok)
	}
}

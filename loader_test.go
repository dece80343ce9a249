package slidedeck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-slidedeck/internal/config"
	"github.com/alnah/go-slidedeck/internal/deck"
	"github.com/alnah/go-slidedeck/internal/locale"
)

const htmlDeck = `<!DOCTYPE html>
<html><head><title>Academy Neon</title></head>
<body>
<section class="slide" data-slide="intro" data-title="Welcome"><h1>Hi</h1></section>
<section class="slide"><img class="main-image" data-src="img/dash.PNG" alt="Dash"></section>
</body></html>`

const markdownDeck = `---
title: ignored front matter
---
# Intro

![Dashboard](img/dash.PNG)

---

<!-- slide: pricing -->
## Plans and Pricing
`

func newTestLoader(t *testing.T, lang string) *DeckLoader {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Site.Title = "Demo"
	l, err := NewDeckLoader(nil, cfg, locale.New(lang))
	if err != nil {
		t.Fatalf("NewDeckLoader() error = %v", err)
	}
	return l
}

func TestDeckLoader_ParseHTML(t *testing.T) {
	t.Parallel()

	doc, err := newTestLoader(t, "en").ParseHTML(context.Background(), htmlDeck)
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}

	if diff := cmp.Diff([]string{"intro", "slide-2"}, doc.Deck.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
	if doc.Deck.Title != "Academy Neon" {
		t.Errorf("Title = %q, want %q", doc.Deck.Title, "Academy Neon")
	}
	for _, want := range []string{`data-slide="slide-2"`, `data-image-key="slide-2"`, "<!DOCTYPE html>"} {
		if !strings.Contains(doc.Page, want) {
			t.Errorf("Page missing %q", want)
		}
	}
}

func TestDeckLoader_ParseMarkdown(t *testing.T) {
	t.Parallel()

	doc, err := newTestLoader(t, "pt-BR").ParseMarkdown(context.Background(), markdownDeck)
	if err != nil {
		t.Fatalf("ParseMarkdown() error = %v", err)
	}

	if diff := cmp.Diff([]string{"intro", "pricing"}, doc.Deck.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
	second, _ := doc.Deck.Slide(1)
	if second.Title != "Plans and Pricing" {
		t.Errorf("slide 2 title = %q, want %q", second.Title, "Plans and Pricing")
	}

	img, ok := doc.Deck.Image("intro")
	if !ok {
		t.Fatalf("image %q not declared; images = %+v", "intro", doc.Deck.Images())
	}
	if img.Primary != "img/dash.PNG" || !img.Expandable || img.Alt != "Dashboard" {
		t.Errorf("image = %+v, want expandable img/dash.PNG", img)
	}

	for _, want := range []string{`lang="pt-BR"`, "<title>Demo</title>", `id="prev-slide"`, `id="modal-image"`} {
		if !strings.Contains(doc.Page, want) {
			t.Errorf("Page missing %q", want)
		}
	}
}

func TestDeckLoader_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "deck.html")
	mdPath := filepath.Join(dir, "talk.md")
	txtPath := filepath.Join(dir, "notes.txt")
	emptyPath := filepath.Join(dir, "empty.html")
	for path, content := range map[string]string{
		htmlPath:  htmlDeck,
		mdPath:    markdownDeck,
		txtPath:   "nothing",
		emptyPath: "<html><body><p>no slides</p></body></html>",
	} {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	l := newTestLoader(t, "en")

	tests := []struct {
		name      string
		path      string
		wantErr   error
		wantCount int
	}{
		{name: "html deck", path: htmlPath, wantCount: 2},
		{name: "markdown deck", path: mdPath, wantCount: 2},
		{name: "unsupported extension", path: txtPath, wantErr: ErrUnsupportedDeck},
		{name: "missing file", path: filepath.Join(dir, "missing.html"), wantErr: ErrDeckRead},
		{name: "no slides", path: emptyPath, wantErr: deck.ErrEmptyDeck},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := l.Load(context.Background(), tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if doc.Deck.Len() != tt.wantCount {
				t.Errorf("Len() = %d, want %d", doc.Deck.Len(), tt.wantCount)
			}
			if doc.Path != tt.path || doc.Dir != dir {
				t.Errorf("Path, Dir = %q, %q, want %q, %q", doc.Path, doc.Dir, tt.path, dir)
			}
		})
	}
}

func TestDeckLoader_CustomTemplate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	tmpl := `<html><body>{{range .Slides}}<div class="slide custom" data-slide="{{.ID}}">{{.Body}}</div>{{end}}</body></html>`
	if err := os.WriteFile(filepath.Join(dir, "templates", "deck.html"), []byte(tmpl), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	a, err := NewAssetLoader(dir)
	if err != nil {
		t.Fatalf("NewAssetLoader() error = %v", err)
	}
	l, err := NewDeckLoader(a, nil, nil)
	if err != nil {
		t.Fatalf("NewDeckLoader() error = %v", err)
	}

	doc, err := l.ParseMarkdown(context.Background(), "# One\n---\n# Two\n")
	if err != nil {
		t.Fatalf("ParseMarkdown() error = %v", err)
	}
	if !strings.Contains(doc.Page, `class="slide custom"`) {
		t.Errorf("custom template not used: %s", doc.Page)
	}
	if doc.Deck.Len() != 2 {
		t.Errorf("Len() = %d, want 2", doc.Deck.Len())
	}
}

func TestDeckLoader_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := newTestLoader(t, "en")
	if _, err := l.ParseHTML(ctx, htmlDeck); !errors.Is(err, context.Canceled) {
		t.Errorf("ParseHTML() error = %v, want context.Canceled", err)
	}
	if _, err := l.ParseMarkdown(ctx, markdownDeck); !errors.Is(err, context.Canceled) {
		t.Errorf("ParseMarkdown() error = %v, want context.Canceled", err)
	}
}

package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const testDeck = `<!DOCTYPE html><html><head><title>Demo</title></head><body>
<section class="slide" data-slide="intro" data-title="Welcome"><h1>Hi</h1></section>
<section class="slide" data-slide="dashboard"><img class="main-image" data-src="img/dash.png" alt="Dash"></section>
<section class="slide" data-slide="pricing"><img class="main-image" data-src="img/missing.png" alt="Plans"></section>
</body></html>`

const testConfig = `{
  "site": {"title": "Demo"},
  "presentation": {"variant": "minimal"},
  "assets": {"probeTimeoutMs": 500}
}`

// syncBuffer is a bytes.Buffer safe for a writer and a polling reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testEnv() (*Environment, *syncBuffer, *syncBuffer) {
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	env := DefaultEnv()
	env.Stdout = stdout
	env.Stderr = stderr
	env.Now = func() time.Time { return time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC) }
	return env, stdout, stderr
}

// writeDeck creates a deck directory with one real image and a config
// document, and returns the deck and config paths.
func writeDeck(t *testing.T) (deckPath, configPath string) {
	t.Helper()
	dir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(dir, "img"), 0o750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	writeFile(t, filepath.Join(dir, "img", "dash.png"), buf.String())

	deckPath = filepath.Join(dir, "deck.html")
	configPath = filepath.Join(dir, "slides.json")
	writeFile(t, deckPath, testDeck)
	writeFile(t, configPath, testConfig)
	return deckPath, configPath
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// servedURL extracts the URL from serve's startup line.
func servedURL(out string) string {
	_, after, ok := strings.Cut(out, " at ")
	if !ok {
		return ""
	}
	line, _, _ := strings.Cut(after, "\n")
	return strings.TrimSpace(line)
}

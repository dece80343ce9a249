package config

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Notes:
// - Parse always decodes onto DefaultConfig, so partial documents are the
//   common case under test.
// - LoadOrDefault must never return nil or an error, whatever the input.

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.Site.Company != "Academy Neon" {
		t.Errorf("Site.Company = %q", cfg.Site.Company)
	}
	if cfg.Presentation.Resolution != (Resolution{Width: 1366, Height: 768}) {
		t.Errorf("Resolution = %+v", cfg.Presentation.Resolution)
	}
	want := ControlsConfig{Keyboard: true, Touch: true, Navigation: true, Progress: true, Fullscreen: true}
	if cfg.Controls != want {
		t.Errorf("Controls = %+v, want all enabled", cfg.Controls)
	}
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		doc    string
	}{
		{
			name:   "json",
			format: FormatJSON,
			doc:    `{"site": {"title": "Quarterly Review"}, "design": {"primaryColor": "#ff00ff"}, "controls": {"touch": false}}`,
		},
		{
			name:   "yaml",
			format: FormatYAML,
			doc:    "site:\n  title: Quarterly Review\ndesign:\n  primaryColor: \"#ff00ff\"\ncontrols:\n  touch: false\n",
		},
		{
			name:   "toml",
			format: FormatTOML,
			doc:    "[site]\ntitle = \"Quarterly Review\"\n[design]\nprimaryColor = \"#ff00ff\"\n[controls]\ntouch = false\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := Parse([]byte(tt.doc), tt.format, true)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			want := DefaultConfig()
			want.Site.Title = "Quarterly Review"
			want.Design.PrimaryColor = "#ff00ff"
			want.Controls.Touch = false

			if diff := cmp.Diff(want, cfg); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		doc     string
		strict  bool
		wantErr error
	}{
		{"empty", FormatJSON, "", false, ErrConfigParse},
		{"malformed json", FormatJSON, `{"site": `, false, ErrConfigParse},
		{"unknown field strict", FormatJSON, `{"sight": {}}`, true, ErrConfigParse},
		{"unknown field strict toml", FormatTOML, "bogus = 1\n", true, ErrConfigParse},
		{"bad color", FormatJSON, `{"design": {"textColor": "white"}}`, false, ErrInvalidColor},
		{"bad variant", FormatJSON, `{"presentation": {"variant": "fancy"}}`, false, ErrInvalidValue},
		{"bad theme", FormatYAML, "design:\n  theme: neon\n", false, ErrInvalidValue},
		{"zero resolution", FormatJSON, `{"presentation": {"resolution": {"width": 0, "height": 768}}}`, false, ErrInvalidValue},
		{"negative delay", FormatJSON, `{"presentation": {"transition": {"displayDelayMs": -1}}}`, false, ErrInvalidValue},
		{"tiny interval", FormatJSON, `{"presentation": {"autoplay": {"intervalMs": 10}}}`, false, ErrInvalidValue},
		{"too many workers", FormatJSON, `{"assets": {"probeWorkers": 1000}}`, false, ErrInvalidValue},
		{"long title", FormatJSON, `{"site": {"title": "` + strings.Repeat("x", MaxTitleLength+1) + `"}}`, false, ErrFieldTooLong},
		{"unknown format", "ini", "a=b", false, ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.doc), tt.format, tt.strict)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParse_LenientIgnoresUnknownFields(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`{"extra": true, "site": {"title": "T"}}`), FormatJSON, false)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Site.Title != "T" {
		t.Errorf("Site.Title = %q, want T", cfg.Site.Title)
	}
}

func TestFeatures(t *testing.T) {
	t.Parallel()

	yes, no := true, false
	zero, ten := 0, 10

	tests := []struct {
		name   string
		mutate func(*Config)
		want   Features
	}{
		{
			name:   "neon defaults",
			mutate: func(*Config) {},
			want: Features{
				Variant: VariantNeon, DisplayDelay: 50 * time.Millisecond, SettleDelay: 100 * time.Millisecond,
				ImageModal: true, Interval: 5 * time.Second, SwipeThreshold: 50,
			},
		},
		{
			name:   "minimal defaults",
			mutate: func(c *Config) { c.Presentation.Variant = VariantMinimal },
			want: Features{
				Variant: VariantMinimal, Navigator: true, Autoplay: true,
				Interval: 5 * time.Second, SwipeThreshold: 50,
			},
		},
		{
			name: "explicit overrides",
			mutate: func(c *Config) {
				c.Presentation.Transition.DisplayDelayMs = &zero
				c.Presentation.Transition.SettleDelayMs = &ten
				c.Presentation.Navigator = &yes
				c.Presentation.ImageModal = &no
				c.Presentation.Autoplay.Enabled = &yes
				c.Presentation.Autoplay.StartOnLoad = true
				c.Presentation.Autoplay.IntervalMs = 2000
				c.Presentation.SwipeThreshold = 80
			},
			want: Features{
				Variant: VariantNeon, SettleDelay: 10 * time.Millisecond,
				Navigator: true, Autoplay: true, AutoplayOnLoad: true,
				Interval: 2 * time.Second, SwipeThreshold: 80,
			},
		},
		{
			name: "start on load needs autoplay",
			mutate: func(c *Config) {
				c.Presentation.Autoplay.StartOnLoad = true
			},
			want: Features{
				Variant: VariantNeon, DisplayDelay: 50 * time.Millisecond, SettleDelay: 100 * time.Millisecond,
				ImageModal: true, Interval: 5 * time.Second, SwipeThreshold: 50,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			if diff := cmp.Diff(tt.want, cfg.Features()); diff != "" {
				t.Errorf("Features() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "deck.json")
	if err := os.WriteFile(jsonPath, []byte(`{"site": {"title": "From JSON"}}`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	tomlPath := filepath.Join(dir, "deck.toml")
	if err := os.WriteFile(tomlPath, []byte("[site]\ntitle = \"From TOML\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Run("json path", func(t *testing.T) {
		t.Parallel()

		cfg, err := Load(context.Background(), jsonPath, true)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Site.Title != "From JSON" {
			t.Errorf("Site.Title = %q", cfg.Site.Title)
		}
	})

	t.Run("toml path", func(t *testing.T) {
		t.Parallel()

		cfg, err := Load(context.Background(), tomlPath, true)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Site.Title != "From TOML" {
			t.Errorf("Site.Title = %q", cfg.Site.Title)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Load(context.Background(), filepath.Join(dir, "nope.json"), true)
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Load() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		_, err := Load(context.Background(), "", true)
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("Load() error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()

		_, err := Load(context.Background(), filepath.Join(dir, "deck.ini"), true)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Load() error = %v, want ErrUnsupportedFormat", err)
		}
	})
}

func TestLoad_URL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/config/config.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"site": {"company": "Remote Co"}}`))
		case "/settings":
			w.Header().Set("Content-Type", "application/toml")
			_, _ = w.Write([]byte("[site]\ncompany = \"Toml Co\"\n"))
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	cfg, err := Load(context.Background(), srv.URL+"/config/config.json", true)
	if err != nil {
		t.Fatalf("Load(url) error = %v", err)
	}
	if cfg.Site.Company != "Remote Co" {
		t.Errorf("Site.Company = %q", cfg.Site.Company)
	}

	cfg, err = Load(context.Background(), srv.URL+"/settings", true)
	if err != nil {
		t.Fatalf("Load(toml url) error = %v", err)
	}
	if cfg.Site.Company != "Toml Co" {
		t.Errorf("Site.Company = %q", cfg.Site.Company)
	}

	if _, err := Load(context.Background(), srv.URL+"/missing.json", true); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Load(404) error = %v, want ErrConfigNotFound", err)
	}
	if _, err := Load(context.Background(), srv.URL+"/broken", true); !errors.Is(err, ErrConfigFetch) {
		t.Errorf("Load(500) error = %v, want ErrConfigFetch", err)
	}
}

// countingTransport records requests before delegating to the default
// transport.
type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls.Inc()
	return http.DefaultTransport.RoundTrip(r)
}

func TestLoad_URLUsesClient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"site": {"company": "Injected Co"}}`))
	}))
	t.Cleanup(srv.Close)

	tr := &countingTransport{}
	client := &http.Client{Transport: tr}

	cfg, err := Load(context.Background(), srv.URL+"/deck.json", true, WithHTTPClient(client))
	if err != nil {
		t.Fatalf("Load(url) error = %v", err)
	}
	if cfg.Site.Company != "Injected Co" {
		t.Errorf("Site.Company = %q, want Injected Co", cfg.Site.Company)
	}

	cfg = LoadOrDefault(context.Background(), srv.URL+"/deck.json", zap.NewNop(), WithHTTPClient(client))
	if cfg.Site.Company != "Injected Co" {
		t.Errorf("LoadOrDefault Site.Company = %q, want Injected Co", cfg.Site.Company)
	}

	if got := tr.calls.Load(); got != 2 {
		t.Errorf("client requests = %d, want 2", got)
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"design": {"primaryColor": 42`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	tests := []struct {
		name string
		src  string
	}{
		{"missing file", filepath.Join(dir, "absent.json")},
		{"malformed file", bad},
		{"unreachable url", "http://127.0.0.1:1/config.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := LoadOrDefault(context.Background(), tt.src, zap.NewNop())
			if cfg == nil {
				t.Fatal("LoadOrDefault() returned nil")
			}
			if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
				t.Errorf("LoadOrDefault() not defaults (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"a.json": FormatJSON,
		"a.YAML": FormatYAML,
		"a.yml":  FormatYAML,
		"a.toml": FormatTOML,
	}
	for p, want := range tests {
		got, err := FormatFromPath(p)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v, want %q", p, got, err, want)
		}
	}
	if _, err := FormatFromPath("a.txt"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("FormatFromPath(a.txt) error = %v", err)
	}
}

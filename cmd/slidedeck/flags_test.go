package main

import (
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-slidedeck/internal/config"
)

// ---------------------------------------------------------------------------
// TestParseServeFlags - Flag parsing and positionals
// ---------------------------------------------------------------------------

func TestParseServeFlags(t *testing.T) {
	t.Parallel()

	f, positional, err := parseServeFlags([]string{
		"talk.md", "-a", ":9000", "-s", "#pricing", "--autoplay", "--watch",
		"-k", "--fullscreen", "--load-timeout", "20s",
		"--clicker", "auto", "--clicker-grab",
		"-w", "3", "--probe-timeout", "750ms", "--variant", "minimal",
	}, io.Discard)
	if err != nil {
		t.Fatalf("parseServeFlags() error = %v", err)
	}

	if diff := cmp.Diff([]string{"talk.md"}, positional); diff != "" {
		t.Errorf("positional mismatch (-want +got):\n%s", diff)
	}
	if f.addr != ":9000" || f.start != "#pricing" {
		t.Errorf("addr, start = %q, %q", f.addr, f.start)
	}
	if !f.autoplay || !f.watch || f.console {
		t.Errorf("autoplay, watch, console = %v, %v, %v", f.autoplay, f.watch, f.console)
	}
	want := kioskFlags{enabled: true, fullscreen: true, loadTimeout: 20 * time.Second}
	if f.kiosk != want {
		t.Errorf("kiosk = %+v, want %+v", f.kiosk, want)
	}
	if f.clicker != (clickerFlags{device: "auto", grab: true}) {
		t.Errorf("clicker = %+v", f.clicker)
	}
	if f.assets.probeWorkers != 3 || f.assets.probeTimeout != 750*time.Millisecond {
		t.Errorf("assets = %+v", f.assets)
	}
	if f.common.variant != "minimal" {
		t.Errorf("variant = %q, want minimal", f.common.variant)
	}
}

func TestParseCheckFlags_Unknown(t *testing.T) {
	t.Parallel()

	if _, _, err := parseCheckFlags([]string{"deck.html", "--kiosk"}, io.Discard); err == nil {
		t.Fatal("parseCheckFlags(--kiosk) error = nil, want unknown flag")
	}
}

// ---------------------------------------------------------------------------
// TestResolveLogLevel - quiet/verbose > --log-level > env
// ---------------------------------------------------------------------------

func TestResolveLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags commonFlags
		env   string
		want  string
	}{
		{name: "quiet wins", flags: commonFlags{quiet: true, verbose: true, logLevel: "info"}, want: "error"},
		{name: "verbose", flags: commonFlags{verbose: true, logLevel: "warn"}, want: "debug"},
		{name: "explicit level", flags: commonFlags{logLevel: "warn"}, env: "debug", want: "warn"},
		{name: "environment", env: "info", want: "info"},
		{name: "unset", want: ""},
	}

	for _, tt := range tests {
		if got := tt.flags.resolveLogLevel(&envConfig{LogLevel: tt.env}); got != tt.want {
			t.Errorf("%s: resolveLogLevel() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestApplyFlags - Flags over env over file
// ---------------------------------------------------------------------------

func TestApplyFlags_Precedence(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Locale = "en"

	env := &envConfig{Lang: "pt-BR", Variant: "minimal", ProbeWorkers: 2, ProbeTimeout: time.Second}
	applyEnvConfig(env, cfg)

	common := commonFlags{variant: "neon"}
	common.applyFlags(cfg)
	assets := assetFlags{probeTimeout: 250 * time.Millisecond, assetPath: "/srv/assets"}
	assets.applyFlags(cfg)

	if cfg.Locale != "pt-BR" {
		t.Errorf("Locale = %q, want pt-BR from env", cfg.Locale)
	}
	if cfg.Presentation.Variant != "neon" {
		t.Errorf("Variant = %q, want neon from flag", cfg.Presentation.Variant)
	}
	if cfg.Assets.ProbeWorkers != 2 {
		t.Errorf("ProbeWorkers = %d, want 2 from env", cfg.Assets.ProbeWorkers)
	}
	if cfg.Assets.ProbeTimeoutMs != 250 {
		t.Errorf("ProbeTimeoutMs = %d, want 250 from flag", cfg.Assets.ProbeTimeoutMs)
	}
	if cfg.Assets.BasePath != "/srv/assets" {
		t.Errorf("BasePath = %q, want /srv/assets", cfg.Assets.BasePath)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	t.Parallel()

	if got := firstNonEmpty("", "", "b", "c"); got != "b" {
		t.Errorf("firstNonEmpty() = %q, want b", got)
	}
	if got := firstNonEmpty(); got != "" {
		t.Errorf("firstNonEmpty() = %q, want empty", got)
	}
}

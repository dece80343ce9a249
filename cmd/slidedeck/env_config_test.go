package main

import (
	"strings"
	"testing"
	"time"
)

// Notes:
// - t.Setenv forbids t.Parallel, so these tests run sequentially.

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("SLIDEDECK_CONFIG", "talk")
	t.Setenv("SLIDEDECK_ADDR", ":9999")
	t.Setenv("SLIDEDECK_LANG", "pt-BR")
	t.Setenv("SLIDEDECK_VARIANT", "minimal")
	t.Setenv("SLIDEDECK_PROBE_WORKERS", "6")
	t.Setenv("SLIDEDECK_PROBE_TIMEOUT", "1500ms")

	cfg := loadEnvConfig()

	if cfg.ConfigPath != "talk" || cfg.Addr != ":9999" {
		t.Errorf("ConfigPath, Addr = %q, %q", cfg.ConfigPath, cfg.Addr)
	}
	if cfg.Lang != "pt-BR" || cfg.Variant != "minimal" {
		t.Errorf("Lang, Variant = %q, %q", cfg.Lang, cfg.Variant)
	}
	if cfg.ProbeWorkers != 6 {
		t.Errorf("ProbeWorkers = %d, want 6", cfg.ProbeWorkers)
	}
	if cfg.ProbeTimeout != 1500*time.Millisecond {
		t.Errorf("ProbeTimeout = %v, want 1.5s", cfg.ProbeTimeout)
	}
}

func TestLoadEnvConfig_MalformedIgnored(t *testing.T) {
	t.Setenv("SLIDEDECK_PROBE_WORKERS", "many")
	t.Setenv("SLIDEDECK_PROBE_TIMEOUT", "-2s")

	cfg := loadEnvConfig()

	if cfg.ProbeWorkers != 0 {
		t.Errorf("ProbeWorkers = %d, want 0", cfg.ProbeWorkers)
	}
	if cfg.ProbeTimeout != 0 {
		t.Errorf("ProbeTimeout = %v, want 0", cfg.ProbeTimeout)
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("SLIDEDECK_VARIENT", "neon")
	t.Setenv("SLIDEDECK_LANG", "en")

	var buf strings.Builder
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "SLIDEDECK_VARIENT") {
		t.Errorf("warnings = %q, want SLIDEDECK_VARIENT", out)
	}
	if strings.Contains(out, "SLIDEDECK_LANG") {
		t.Errorf("warnings = %q, want no warning for SLIDEDECK_LANG", out)
	}
}

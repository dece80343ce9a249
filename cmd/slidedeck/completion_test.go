package main

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion - Every shell lists commands and flags
// ---------------------------------------------------------------------------

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell Shell
		want  []string
	}{
		{shell: ShellBash, want: []string{"-F _slidedeck slidedeck", "serve", "check", "doctor", "--kiosk", "--probe-timeout", "neon minimal"}},
		{shell: ShellZsh, want: []string{"#compdef slidedeck", "serve", "--clicker", "--watch"}},
		{shell: ShellFish, want: []string{"complete -c slidedeck", "serve", "kiosk", "strict"}},
		{shell: ShellPowerShell, want: []string{"Register-ArgumentCompleter", "serve", "--json"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf strings.Builder
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion() error = %v", err)
			}
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("%s completion missing %q", tt.shell, w)
				}
			}
		})
	}
}

func TestGenerateCompletion_Unsupported(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	err := GenerateCompletion(&buf, Shell("tcsh"))
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Fatalf("GenerateCompletion() error = %v, want %v", err, ErrUnsupportedShell)
	}
	if got := exitCodeFor(err); got != ExitUsage {
		t.Errorf("exitCodeFor() = %d, want %d", got, ExitUsage)
	}
}

// ---------------------------------------------------------------------------
// TestExtractFlagsFromFlagSet - Completion follows the real flags
// ---------------------------------------------------------------------------

func TestExtractFlagsFromFlagSet(t *testing.T) {
	t.Parallel()

	flags := extractFlagsFromFlagSet(buildServeFlagSet(&serveFlags{}))
	byName := make(map[string]flagDef, len(flags))
	for _, f := range flags {
		byName[f.Long] = f
	}

	tests := []struct {
		long  string
		short string
		typ   flagType
	}{
		{long: "addr", short: "a", typ: flagString},
		{long: "kiosk", short: "k", typ: flagBool},
		{long: "probe-workers", short: "w", typ: flagInt},
		{long: "load-timeout", typ: flagDuration},
		{long: "variant", typ: flagEnum},
		{long: "config", short: "c", typ: flagFile},
		{long: "asset-path", typ: flagDir},
	}
	for _, tt := range tests {
		f, ok := byName[tt.long]
		if !ok {
			t.Errorf("flag --%s not extracted", tt.long)
			continue
		}
		if f.Short != tt.short {
			t.Errorf("--%s short = %q, want %q", tt.long, f.Short, tt.short)
		}
		if f.Type != tt.typ {
			t.Errorf("--%s type = %v, want %v", tt.long, f.Type, tt.typ)
		}
	}
}

func TestGlobExtensions(t *testing.T) {
	t.Parallel()

	got := globExtensions(deckGlob)
	for _, ext := range []string{"html", "md", "markdown"} {
		if !strings.Contains(got, ext) {
			t.Errorf("globExtensions() = %q, missing %s", got, ext)
		}
	}
}

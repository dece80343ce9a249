// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-slidedeck/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for kiosk browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "or serve without --kiosk and open the URL yourself")

	return formatHints(hints)
}

// ForPageLoad returns a hint for a kiosk page that did not finish loading.
func ForPageLoad() string {
	return format("decks with many remote images load slower, raise --load-timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-slidedeck/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/config.json"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-slidedeck") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForDeckFormat returns a hint for unsupported deck files.
func ForDeckFormat() string {
	return format("decks are .html pages with .slide elements or .md files split by ---")
}

// ForEmptyDeck returns a hint for decks without slides.
func ForEmptyDeck() string {
	return format(`mark each slide with class="slide" and a unique data-slide id`)
}

// ForClicker returns hints for clicker devices that cannot be opened.
func ForClicker() string {
	return formatHints([]string{
		"add your user to the input group or run with access to /dev/input",
		"list devices with 'slidedeck doctor'",
	})
}

// ForAddress returns a hint for a listen address already in use.
func ForAddress() string {
	return format("pick another port with --addr, e.g. --addr :8081")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: slidedeck <command> [flags] [args]")
	fmt.Fprintln(w, "       slidedeck <deck.html|deck.md> [flags]   (same as serve)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve       Serve a deck to browsers")
	fmt.Fprintln(w, "  check       Validate a deck, its config and its images")
	fmt.Fprintln(w, "  doctor      Diagnose the environment")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'slidedeck help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags shared by serve and check.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Config:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name, path or URL")
	fmt.Fprintln(w, "                            Names are searched as .json, .yaml, .yml, .toml in")
	fmt.Fprintln(w, "                            ., ./config and ~/.config/go-slidedeck")
	fmt.Fprintln(w, "      --variant <s>         Variant: neon, minimal")
	fmt.Fprintln(w, "      --lang <s>            Interface language, e.g. en, pt-BR")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles, scripts and templates")
	fmt.Fprintln(w, "  -w, --probe-workers <n>   Concurrent image probes (0 = auto)")
	fmt.Fprintln(w, "      --probe-timeout <d>   Per-candidate probe timeout (e.g. 2s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w, "      --log-level <s>       debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      console, json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  SLIDEDECK_CONFIG, SLIDEDECK_ADDR, SLIDEDECK_LANG, SLIDEDECK_VARIANT,")
	fmt.Fprintln(w, "  SLIDEDECK_ASSET_PATH, SLIDEDECK_PROBE_WORKERS, SLIDEDECK_PROBE_TIMEOUT,")
	fmt.Fprintln(w, "  SLIDEDECK_LOG_LEVEL, SLIDEDECK_LOG_FORMAT, SLIDEDECK_CLICKER")
	fmt.Fprintln(w, "  Flags win over environment, which wins over the config document.")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: slidedeck serve <deck> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve an HTML or Markdown deck. Every open browser follows the same slide.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default "+DefaultAddr+")")
	fmt.Fprintln(w, "  -s, --start <id>          Starting slide id")
	fmt.Fprintln(w, "      --watch               Reload viewers when the deck or config changes")
	fmt.Fprintln(w, "      --deck-style          Link the default stylesheet into HTML decks")
	fmt.Fprintln(w, "      --autoplay            Start autoplay when the deck opens")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Presenter:")
	fmt.Fprintln(w, "      --console             Presenter console in this terminal")
	fmt.Fprintln(w, "                            (redirect logs with 2>slidedeck.log)")
	fmt.Fprintln(w, "      --clicker <dev>       Presentation remote, e.g. /dev/input/event5 or auto")
	fmt.Fprintln(w, "      --clicker-grab        Keep clicker keys from other programs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Kiosk:")
	fmt.Fprintln(w, "  -k, --kiosk               Open the deck in a browser window")
	fmt.Fprintln(w, "      --fullscreen          Start the window fullscreen")
	fmt.Fprintln(w, "      --browser <path>      Browser binary (default: ROD_BROWSER_BIN or lookup)")
	fmt.Fprintln(w, "      --load-timeout <d>    Page load timeout (e.g. 30s)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: slidedeck check <deck> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Parse the deck, validate the config strictly and resolve every image.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report:")
	fmt.Fprintln(w, "      --json                Print the report as JSON")
	fmt.Fprintln(w, "      --strict              Fail when an image uses its placeholder")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: slidedeck doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the browser, config document, clickers and system.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w, "      --browser-check       Launch a headless browser")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name, path or URL")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: slidedeck version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: slidedeck help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return nil
}

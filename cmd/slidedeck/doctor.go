package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-slidedeck/internal/config"
	"github.com/alnah/go-slidedeck/internal/kiosk"
	"github.com/alnah/go-slidedeck/internal/locale"
	"github.com/alnah/go-slidedeck/internal/remote"
)

// ErrDoctor is returned when doctor finds errors.
var ErrDoctor = errors.New("environment not ready")

// browserCheckTimeout bounds the optional headless launch.
const browserCheckTimeout = 45 * time.Second

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"`
	Chrome   chromeInfo  `json:"chrome"`
	Env      envInfo     `json:"environment"`
	Config   configInfo  `json:"config"`
	Clickers clickerInfo `json:"clickers"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
	Sandbox  bool   `json:"sandbox"`
	Launched *bool  `json:"launched,omitempty"` // set by --browser-check
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string   `json:"os"`
	Arch          string   `json:"arch"`
	Container     bool     `json:"container"`
	ContainerHint string   `json:"container_hint,omitempty"`
	CI            bool     `json:"ci"`
	NoSandbox     string   `json:"rod_no_sandbox"`
	BrowserBin    string   `json:"rod_browser_bin"`
	Languages     []string `json:"languages"`
}

// configInfo reports which config document serve would read.
type configInfo struct {
	Source string `json:"source"`
	Path   string `json:"path,omitempty"`
	Valid  bool   `json:"valid"`
}

// clickerInfo lists presentation remotes.
type clickerInfo struct {
	Supported bool            `json:"supported"`
	Devices   []remote.Device `json:"devices,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	jsonOutput   bool
	browserCheck bool
	config       string
	client       *http.Client
}

// runDoctorCmd executes the doctor command. It fails only when errors are
// found; warnings still pass.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) error {
	f := &doctorFlags{}
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.BoolVar(&f.jsonOutput, "json", false, "print results as JSON")
	fs.BoolVar(&f.browserCheck, "browser-check", false, "launch a headless browser to verify kiosk mode")
	fs.StringVarP(&f.config, "config", "c", "", "config file name, path or URL")
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	f.client = env.HTTPClient
	result := runDoctor(ctx, f)

	if f.jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ErrDoctor
	}
	return nil
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, f *doctorFlags) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
			Languages:  locale.Supported(),
		},
	}

	checkChrome(result)
	if f.browserCheck && result.Chrome.Found {
		checkBrowserLaunch(ctx, result)
	}
	checkEnvironment(result)
	checkConfig(ctx, result, firstNonEmpty(f.config, os.Getenv("SLIDEDECK_CONFIG")), f.client)
	checkClickers(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkChrome detects Chrome/Chromium installation. A missing browser only
// disables kiosk mode, so it is a warning.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found: --kiosk will download one on first use, or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("ROD_BROWSER_BIN points to a missing file: %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	cmd := exec.Command(chromePath, "--version") // #nosec G204 -- path comes from rod lookup or ROD_BROWSER_BIN
	out, err := cmd.Output()
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkBrowserLaunch starts a headless browser the way --kiosk does.
func checkBrowserLaunch(ctx context.Context, result *doctorResult) {
	ctx, cancel := context.WithTimeout(ctx, browserCheckTimeout)
	defer cancel()

	err := kiosk.Check(ctx, kiosk.Options{Bin: result.Chrome.Path})
	ok := err == nil
	result.Chrome.Launched = &ok
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Browser launch failed: %v", err))
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 for --kiosk")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("SLIDEDECK_CONTAINER") == "1" {
		return true, "SLIDEDECK_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkConfig resolves and strictly parses the config document. A missing
// default document is fine; serve falls back to the built-in config.
func checkConfig(ctx context.Context, result *doctorResult, source string, client *http.Client) {
	result.Config.Source = firstNonEmpty(source, config.DefaultName)

	path, err := config.Resolve(source)
	if err != nil {
		if source == "" && errors.Is(err, config.ErrConfigNotFound) {
			result.Config.Valid = true
			return
		}
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		return
	}
	result.Config.Path = path

	if _, err := config.Load(ctx, path, true, config.WithHTTPClient(client)); err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			result.Config.Path = ""
			result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
			return
		}
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Config %s is invalid, serve will use defaults: %v", path, err))
		return
	}
	result.Config.Valid = true
}

// checkClickers lists input devices that look like presentation remotes.
func checkClickers(result *doctorResult) {
	devices, err := remote.Devices()
	if errors.Is(err, remote.ErrUnsupported) {
		return
	}
	result.Clickers.Supported = true
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not list input devices: %v", err))
		return
	}
	result.Clickers.Devices = devices
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "slidedeck-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "slidedeck doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium (kiosk mode)")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
		if r.Chrome.Launched != nil && *r.Chrome.Launched {
			fmt.Fprintln(w, "  [OK] Headless launch: succeeded")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintf(w, "  [OK] Languages: %s\n", strings.Join(r.Env.Languages, ", "))
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	switch {
	case r.Config.Path == "" && r.Config.Valid:
		fmt.Fprintf(w, "  [OK] No %q document, built-in defaults apply\n", r.Config.Source)
	case r.Config.Valid:
		fmt.Fprintf(w, "  [OK] %s\n", r.Config.Path)
	case r.Config.Path != "":
		fmt.Fprintf(w, "  [WARN] %s is invalid\n", r.Config.Path)
	default:
		fmt.Fprintf(w, "  [ERROR] %s not found\n", r.Config.Source)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Clickers")
	switch {
	case !r.Clickers.Supported:
		fmt.Fprintf(w, "  [OK] Not supported on %s\n", r.Env.OS)
	case len(r.Clickers.Devices) == 0:
		fmt.Fprintln(w, "  [OK] None found")
	default:
		for _, d := range r.Clickers.Devices {
			fmt.Fprintf(w, "  [OK] %s (%s)\n", d.Path, d.Name)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to present")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

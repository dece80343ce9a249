package main

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/alnah/go-slidedeck/internal/assets"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	// HTTPClient probes remote images and is shared by every rebuild.
	HTTPClient *http.Client
	// Listen overrides the listen address, e.g. with "127.0.0.1:0" in tests.
	Listen string
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:        time.Now,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		HTTPClient: &http.Client{Timeout: assets.DefaultHTTPProbeTimeout},
	}
}

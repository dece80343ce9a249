package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder for DecodeConfig
	_ "image/jpeg" // register JPEG decoder for DecodeConfig
	_ "image/png"  // register PNG decoder for DecodeConfig
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/webp" // register WebP decoder for DecodeConfig
)

// svgSniffLen is how much of a file is inspected to recognize SVG.
const svgSniffLen = 1024

// Prober checks that an image candidate can be loaded. Probes never touch
// the visible element; the caller assigns the source only after success.
type Prober interface {
	Probe(ctx context.Context, candidate string) error
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, candidate string) error

// Probe calls f(ctx, candidate).
func (f ProberFunc) Probe(ctx context.Context, candidate string) error {
	return f(ctx, candidate)
}

// ---------------------------------------------------------------------------
// FileProber
// ---------------------------------------------------------------------------

// FileProber probes candidates relative to a deck directory. A candidate
// loads when it stays inside the directory and decodes as an image.
type FileProber struct {
	root string
}

// NewFileProber creates a FileProber rooted at dir.
// Returns ErrInvalidBasePath if dir is not a readable directory.
func NewFileProber(dir string) (*FileProber, error) {
	root, err := resolveBaseDir(dir)
	if err != nil {
		return nil, err
	}
	return &FileProber{root: root}, nil
}

// Root returns the resolved deck directory.
func (p *FileProber) Root() string {
	return p.root
}

// Probe opens the candidate and decodes its header.
func (p *FileProber) Probe(ctx context.Context, candidate string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if isRemote(candidate) {
		return fmt.Errorf("%w: %q", ErrUnsupportedSource, candidate)
	}

	rel := strings.TrimPrefix(stripQuery(candidate), "/")
	rel, err := url.PathUnescape(rel)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrImageNotFound, candidate)
	}

	filePath := filepath.Join(p.root, filepath.FromSlash(rel))
	if err := verifyPathContainment(p.root, filePath); err != nil {
		return err
	}

	f, err := os.Open(filePath) // #nosec G304 -- path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %q", ErrImageNotFound, candidate)
		}
		return fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %q is a directory", ErrNotAnImage, candidate)
	}

	return decodeImageHeader(f, candidate)
}

// decodeImageHeader accepts any registered raster format, or SVG markup.
func decodeImageHeader(r io.ReadSeeker, candidate string) error {
	if _, _, err := image.DecodeConfig(r); err == nil {
		return nil
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	head := make([]byte, svgSniffLen)
	n, _ := io.ReadFull(r, head)
	if looksLikeSVG(head[:n]) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrNotAnImage, candidate)
}

func looksLikeSVG(head []byte) bool {
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

// ---------------------------------------------------------------------------
// HTTPProber
// ---------------------------------------------------------------------------

// DefaultHTTPProbeTimeout bounds a single HTTP probe when the caller's
// context carries no deadline.
const DefaultHTTPProbeTimeout = 5 * time.Second

// HTTPProber probes candidates over HTTP. Relative candidates are resolved
// against Base. A candidate loads on a 2xx response with an image content type.
type HTTPProber struct {
	Base   *url.URL
	Client *http.Client
}

// NewHTTPProber creates an HTTPProber. base may be empty when every
// candidate is absolute.
func NewHTTPProber(base string, client *http.Client) (*HTTPProber, error) {
	p := &HTTPProber{Client: client}
	if p.Client == nil {
		p.Client = &http.Client{Timeout: DefaultHTTPProbeTimeout}
	}
	if base != "" {
		u, err := url.Parse(base)
		if err != nil || !isRemote(base) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBasePath, base)
		}
		p.Base = u
	}
	return p, nil
}

// Probe issues a GET and inspects the status and content type.
func (p *HTTPProber) Probe(ctx context.Context, candidate string) error {
	target, err := url.Parse(candidate)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedSource, candidate)
	}
	if !target.IsAbs() {
		if p.Base == nil {
			return fmt.Errorf("%w: relative %q without base URL", ErrUnsupportedSource, candidate)
		}
		target = p.Base.ResolveReference(target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageNotFound, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, svgSniffLen))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %q returned %d", ErrImageNotFound, candidate, resp.StatusCode)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "image/") {
		return fmt.Errorf("%w: %q served as %q", ErrNotAnImage, candidate, mediaType)
	}
	return nil
}

// ---------------------------------------------------------------------------
// RoutingProber
// ---------------------------------------------------------------------------

// RoutingProber sends absolute http(s) candidates to Remote and everything
// else to Local. A nil side rejects its candidates.
type RoutingProber struct {
	Local  Prober
	Remote Prober
}

// Probe dispatches candidate to the matching prober.
func (p RoutingProber) Probe(ctx context.Context, candidate string) error {
	target := p.Local
	if isRemote(candidate) {
		target = p.Remote
	}
	if target == nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedSource, candidate)
	}
	return target.Probe(ctx, candidate)
}

func isRemote(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func stripQuery(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i]
	}
	return s
}

// Compile-time interface checks.
var (
	_ Prober = (*FileProber)(nil)
	_ Prober = (*HTTPProber)(nil)
	_ Prober = RoutingProber{}
	_ Prober = ProberFunc(nil)
)

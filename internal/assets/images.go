package assets

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// State is the resolution state of an image.
type State string

const (
	StatePending     State = "pending"
	StateLoaded      State = "loaded"
	StatePlaceholder State = "placeholder"
)

// Default resolver limits.
const (
	DefaultProbeTimeout = 3 * time.Second
	DefaultWorkers      = 4
)

// Request describes one image to resolve.
type Request struct {
	Key        string   // stable identifier, shown on the placeholder
	Primary    string   // source probed first
	Alternates []string // explicit fallbacks; extension variants when empty
}

// Resolution is the outcome of resolving one image.
type Resolution struct {
	Key      string   `json:"key"`
	Source   string   `json:"source"`
	State    State    `json:"state"`
	Attempts int      `json:"attempts"`
	Tried    []string `json:"tried,omitempty"`
}

// Loaded reports whether the image resolved to a real candidate.
func (r Resolution) Loaded() bool {
	return r.State == StateLoaded
}

// Resolver walks an image's candidates with a Prober and falls back to a
// generated placeholder. Resolve never fails.
type Resolver struct {
	prober  Prober
	timeout time.Duration
	workers int
	style   PlaceholderStyle
	logger  *zap.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithProbeTimeout bounds each probe. Non-positive values keep the default.
func WithProbeTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithWorkers bounds concurrent resolutions in ResolveAll.
func WithWorkers(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithPlaceholderStyle sets the placeholder look.
func WithPlaceholderStyle(s PlaceholderStyle) ResolverOption {
	return func(r *Resolver) {
		r.style = s
	}
}

// WithResolverLogger sets the logger.
func WithResolverLogger(l *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a Resolver probing through p.
func NewResolver(p Prober, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		prober:  p,
		timeout: DefaultProbeTimeout,
		workers: DefaultWorkers,
		style:   DefaultPlaceholderStyle(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("assets")
	return r
}

// Workers returns the ResolveAll concurrency bound.
func (r *Resolver) Workers() int {
	return r.workers
}

// PlaceholderFor returns the placeholder data URI for key.
func (r *Resolver) PlaceholderFor(key string) string {
	return Placeholder(key, r.style)
}

// Resolve probes the primary source, then each alternate in order. The first
// success wins. On exhaustion, or when ctx ends, the placeholder is returned.
func (r *Resolver) Resolve(ctx context.Context, req Request) Resolution {
	res := Resolution{Key: req.Key, State: StatePending}

	for _, candidate := range Candidates(req) {
		if ctx.Err() != nil {
			break
		}
		res.Attempts++
		res.Tried = append(res.Tried, candidate)

		err := r.probe(ctx, candidate)
		if err == nil {
			res.Source = candidate
			res.State = StateLoaded
			r.logger.Debug("image loaded",
				zap.String("key", req.Key),
				zap.String("source", candidate),
				zap.Int("attempts", res.Attempts))
			return res
		}
		r.logger.Debug("image candidate failed",
			zap.String("key", req.Key),
			zap.String("candidate", candidate),
			zap.Error(err))
	}

	res.Source = r.PlaceholderFor(req.Key)
	res.State = StatePlaceholder
	r.logger.Warn("image unresolved, using placeholder",
		zap.String("key", req.Key),
		zap.Strings("tried", res.Tried))
	return res
}

// probe runs one probe under the per-probe timeout. A prober that ignores
// its context is abandoned when the timeout fires.
func (r *Resolver) probe(ctx context.Context, candidate string) error {
	if r.prober == nil {
		return ErrUnsupportedSource
	}

	pctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- r.prober.Probe(pctx, candidate) }()

	select {
	case err := <-done:
		return err
	case <-pctx.Done():
		return pctx.Err()
	}
}

// ResolveAll resolves reqs concurrently, at most Workers at a time. Images
// are independent: one failing never affects another. fn, when non-nil, is
// called as each image finishes; calls are serialized. The returned slice
// follows the order of reqs.
func (r *Resolver) ResolveAll(ctx context.Context, reqs []Request, fn func(Resolution)) []Resolution {
	out := make([]Resolution, len(reqs))

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(r.workers)

	for i, req := range reqs {
		g.Go(func() error {
			res := r.Resolve(ctx, req)
			mu.Lock()
			defer mu.Unlock()
			out[i] = res
			if fn != nil {
				fn(res)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return out
}

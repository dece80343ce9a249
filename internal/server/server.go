// Package server exposes a Presentation over HTTP and WebSocket.
//
// Browsers load the deck page with its state pre-rendered, then keep a
// WebSocket open: input goes up as small JSON messages, and every domain
// event comes back down with the full state snapshot. The server never
// mutates presentation state itself; it only forwards input.
package server

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	slidedeck "github.com/alnah/go-slidedeck"
	"github.com/alnah/go-slidedeck/internal/events"
)

// Route paths.
const (
	PagePath        = "/"
	ClientPath      = "/_deck/client.js"
	StylePath       = "/_deck/deck.css"
	ThemePath       = "/_deck/theme.css"
	StatePath       = "/_deck/api/state"
	ConfigPath      = "/_deck/api/config"
	KeyPath         = "/_deck/api/key"
	PlaceholderPath = "/_deck/placeholder/{key}"
	HealthPath      = "/healthz"
	WSPath          = "/_deck/ws"
)

// Input rate defaults, per connection.
const (
	DefaultInputRate  = 20
	DefaultInputBurst = 40
)

// ErrNoPresentation is returned when the server has nothing to serve yet.
var ErrNoPresentation = errors.New("no presentation loaded")

// Options configures a Server.
type Options struct {
	// Assets loads the client script and default stylesheet. Nil uses the
	// embedded assets.
	Assets slidedeck.AssetLoader
	Logger *zap.Logger
	// InputRate and InputBurst bound inbound messages per connection.
	InputRate  float64
	InputBurst int
	// DeckStylesheet links the default deck stylesheet into the page.
	// Pre-authored HTML decks usually bring their own.
	DeckStylesheet bool
	// CheckOrigin overrides the same-origin WebSocket check.
	CheckOrigin func(r *http.Request) bool
}

// Server serves one presentation at a time. SetPresentation swaps it for
// live reload.
type Server struct {
	opts     Options
	log      *zap.Logger
	hub      *hub
	upgrader websocket.Upgrader
	router   *mux.Router

	clientJS string
	deckCSS  string

	// keyLimiter guards the HTTP key endpoint, shared by all callers.
	keyLimiter *rate.Limiter

	mu   sync.RWMutex
	sess session

	closed atomic.Bool
}

type session struct {
	p           *slidedeck.Presentation
	doc         *slidedeck.Document
	unsubscribe func()
}

// New creates a Server. Call SetPresentation before serving requests.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.InputRate <= 0 {
		opts.InputRate = DefaultInputRate
	}
	if opts.InputBurst <= 0 {
		opts.InputBurst = DefaultInputBurst
	}
	if opts.Assets == nil {
		a, err := slidedeck.NewAssetLoader("")
		if err != nil {
			return nil, err
		}
		opts.Assets = a
	}

	clientJS, err := opts.Assets.LoadScript(slidedeck.ClientScript)
	if err != nil {
		return nil, err
	}
	deckCSS, err := opts.Assets.LoadStyle(slidedeck.DefaultStyle)
	if err != nil {
		return nil, err
	}

	log := opts.Logger.Named("server")
	s := &Server{
		opts:       opts,
		log:        log,
		hub:        newHub(log),
		clientJS:   clientJS,
		deckCSS:    deckCSS,
		keyLimiter: rate.NewLimiter(rate.Limit(opts.InputRate), opts.InputBurst),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     opts.CheckOrigin,
		},
	}
	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetPresentation makes p the served presentation. Connected viewers of a
// previous presentation are told to reload. The caller keeps ownership of
// the old presentation and closes it.
func (s *Server) SetPresentation(p *slidedeck.Presentation, doc *slidedeck.Document) {
	s.mu.Lock()
	old := s.sess
	if old.unsubscribe != nil {
		old.unsubscribe()
	}
	s.sess = session{p: p, doc: doc, unsubscribe: p.Subscribe(s.onEvent)}
	s.mu.Unlock()

	if old.p != nil {
		s.hub.broadcast(encode(outbound{Type: msgReload}))
		s.log.Info("presentation reloaded", zap.Int("slides", p.Deck().Len()), zap.Int64("viewers", s.hub.count.Load()))
	}
}

// Presentation returns the served presentation, or nil.
func (s *Server) Presentation() *slidedeck.Presentation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.p
}

// Viewers returns the number of open WebSocket connections.
func (s *Server) Viewers() int {
	return int(s.hub.count.Load())
}

// Dropped returns how many outbound messages were dropped for slow viewers.
func (s *Server) Dropped() int64 {
	return s.hub.dropped.Load()
}

// Close disconnects every viewer and detaches from the presentation.
// It does not close the presentation.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.mu.Lock()
	if s.sess.unsubscribe != nil {
		s.sess.unsubscribe()
	}
	s.mu.Unlock()
	s.hub.closeAll()
	return nil
}

func (s *Server) session() (session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess.p == nil {
		return session{}, ErrNoPresentation
	}
	return s.sess, nil
}

// onEvent runs on the presentation's event loop and must not block.
func (s *Server) onEvent(e events.Event, st slidedeck.State) {
	s.hub.broadcast(encode(outbound{Type: msgEvent, Kind: e.Kind(), Event: e, State: &st}))
}

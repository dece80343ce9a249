package server

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	slidedeck "github.com/alnah/go-slidedeck"
	"github.com/alnah/go-slidedeck/internal/assets"
)

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc(HealthPath, s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc(ClientPath, s.handleText("text/javascript; charset=utf-8", s.clientJS)).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(StylePath, s.handleText("text/css; charset=utf-8", s.deckCSS)).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(ThemePath, s.handleTheme).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(StatePath, s.handleState).Methods(http.MethodGet)
	r.HandleFunc(ConfigPath, s.handleConfig).Methods(http.MethodGet)
	r.HandleFunc(KeyPath, s.handleKey).Methods(http.MethodPost)
	r.HandleFunc(PlaceholderPath, s.handlePlaceholder).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(WSPath, s.handleWS).Methods(http.MethodGet)
	r.HandleFunc(PagePath, s.handlePage).Methods(http.MethodGet, http.MethodHead)
	r.PathPrefix("/").HandlerFunc(s.handleStatic).Methods(http.MethodGet, http.MethodHead)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := "ok"
	if _, err := s.session(); err != nil {
		status = "empty"
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": status, "viewers": s.Viewers()})
}

func (s *Server) handleText(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write([]byte(body))
	}
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.mustSession(w)
	if !ok {
		return
	}
	s.handleText("text/css; charset=utf-8", slidedeck.ThemeCSS(sess.p.Config()))(w, r)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	sess, ok := s.mustSession(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.p.State())
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	sess, ok := s.mustSession(w)
	if !ok {
		return
	}
	cfg := sess.p.Config()
	writeJSON(w, http.StatusOK, map[string]any{"config": cfg, "features": cfg.Features()})
}

type keyRequest struct {
	Key string `json:"key"`
}

type keyResponse struct {
	Command string          `json:"command"`
	State   slidedeck.State `json:"state"`
}

// handleKey lets remotes without a WebSocket, such as a clicker script,
// send keys. One limiter is shared by all callers.
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	if !s.keyLimiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "input rate exceeded")
		return
	}
	sess, ok := s.mustSession(w)
	if !ok {
		return
	}

	var req keyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize)).Decode(&req); err != nil || req.Key == "" {
		writeError(w, http.StatusBadRequest, "expected {\"key\": \"...\"}")
		return
	}
	cmd := sess.p.HandleKey(req.Key)
	writeJSON(w, http.StatusOK, keyResponse{Command: cmd.String(), State: sess.p.State()})
}

func (s *Server) handlePlaceholder(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if err := assets.ValidateImageKey(key); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, ok := s.mustSession(w)
	if !ok {
		return
	}
	if _, known := sess.p.Deck().Image(key); !known {
		writeError(w, http.StatusNotFound, "unknown image")
		return
	}

	svg := assets.PlaceholderSVG(key, slidedeck.PlaceholderStyle(sess.p.Config(), sess.p.Localizer()))
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(svg)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.mustSession(w)
	if !ok {
		return
	}
	page, err := s.renderPage(r.Context(), sess)
	if err != nil {
		s.log.Error("render page", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(page))
}

// handleStatic serves the deck page under its own file name and every other
// file from the deck's directory, so relative image paths resolve.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.mustSession(w)
	if !ok {
		return
	}
	if sess.doc == nil || sess.doc.Dir == "" {
		http.NotFound(w, r)
		return
	}
	if sess.doc.Path != "" && r.URL.Path == "/"+filepath.Base(sess.doc.Path) {
		s.handlePage(w, r)
		return
	}
	http.FileServer(http.Dir(sess.doc.Dir)).ServeHTTP(w, r)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.closed.Load() {
		writeError(w, http.StatusServiceUnavailable, "server closed")
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("upgrade failed", zap.Error(err))
		return
	}

	c := newClient(uuid.NewString(), conn, rate.NewLimiter(rate.Limit(s.opts.InputRate), s.opts.InputBurst))
	s.hub.add(c)
	go c.writePump()
	c.readPump(s.log, s.handleMessage)
	s.hub.remove(c)
}

func (s *Server) mustSession(w http.ResponseWriter) (session, bool) {
	sess, err := s.session()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return session{}, false
	}
	return sess, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

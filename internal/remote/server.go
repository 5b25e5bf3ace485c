package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/arcade-gym/internal/registry"
)

const (
	maxMessageSize  = 64 * 1024
	shutdownTimeout = 5 * time.Second
	closeWriteWait  = time.Second
)

// Server serves environments over websocket.
type Server struct {
	opts     registry.Options
	logger   *log.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	mu      sync.Mutex
	conns   map[*websocket.Conn]struct{}
	closing bool
	wg      sync.WaitGroup
}

// NewServer creates a server. Every connection builds its environment with
// opts, so all clients see the same configuration.
func NewServer(opts registry.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		opts:   opts,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		mux:   http.NewServeMux(),
		conns: make(map[*websocket.Conn]struct{}),
	}
	s.mux.HandleFunc("GET /v1/envs", s.handleList)
	s.mux.HandleFunc("GET /v1/env/{id}", s.handleEnv)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled. On shutdown open
// sessions receive a going-away close frame and are waited for.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.mux}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.closeSessions()
		s.wg.Wait()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	s.closeSessions()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.wg.Wait()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// closeSessions stops accepting sessions and closes the open ones.
func (s *Server) closeSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closing = true
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for conn := range s.conns {
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteWait))
		conn.Close()
	}
}

// track registers conn with the server. It returns false once shutdown has
// begun.
func (s *Server) track(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closing {
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	s.wg.Done()
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	type entry struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	var out []entry
	for _, info := range registry.List() {
		out = append(out, entry{ID: info.ID, Title: info.Title})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.logger.Warn("list encode failed", "error", err)
	}
}

func (s *Server) handleEnv(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !registry.Exists(id) {
		http.Error(w, "unknown env "+id, http.StatusNotFound)
		return
	}
	if s.isClosing() {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	env, err := registry.Create(id, s.opts)
	if err != nil {
		s.logger.Error("create env failed", "env", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		env.Close()
		s.logger.Warn("upgrade failed", "env", id, "error", err)
		return
	}

	if !s.track(conn) {
		env.Close()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(closeWriteWait))
		conn.Close()
		return
	}
	defer s.untrack(conn)

	sess := &session{env: env, conn: conn, logger: s.logger.With("env", id, "remote", r.RemoteAddr)}
	sess.logger.Info("session opened")
	sess.serve()
	sess.logger.Info("session closed", "steps", sess.steps)
}

// Package server is the development preview server: it serves the
// static roots (including the packed output directory), converts
// changed stylesheet dialect sources on save, and tells connected
// browsers to reload over a websocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/assetforge/assetforge/internal/config"
	"github.com/assetforge/assetforge/internal/format"
	"github.com/assetforge/assetforge/internal/logging"
	"github.com/assetforge/assetforge/internal/metrics"
	"github.com/assetforge/assetforge/internal/pipeline"
	"github.com/assetforge/assetforge/internal/watcher"
)

// watchDebounce groups editor write bursts into one reload.
const watchDebounce = 300 * time.Millisecond

// Server serves assets in development and pushes reload
// notifications.
type Server struct {
	cfg     *config.Config
	runner  *pipeline.Runner
	metrics *metrics.Metrics
	logger  logging.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New creates the server.
func New(cfg *config.Config, runner *pipeline.Runner, m *metrics.Metrics, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{
		cfg:     cfg,
		runner:  runner,
		metrics: m,
		logger:  logger.WithComponent("server"),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns the HTTP handler: static files from the roots,
// /metrics, and the /livereload websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/livereload", s.handleLiveReload)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/", s.handleStatic)
	return mux
}

// Start runs the server and the source watcher until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	fw, err := s.startWatcher(ctx)
	if err != nil {
		return err
	}
	defer fw.Close()

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info(ctx, "development server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) startWatcher(ctx context.Context) (*watcher.FileWatcher, error) {
	fw, err := watcher.NewFileWatcher(watchDebounce, s.logger)
	if err != nil {
		return nil, err
	}
	fw.AddFilter(watcher.ExtFilter(".css", ".js", ".scss", ".sass", ".less"))
	fw.AddHandler(func(events []watcher.ChangeEvent) {
		s.onSourceChange(ctx, events)
	})
	for _, root := range s.cfg.StaticRoots {
		if err := fw.AddRecursive(root); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watching static root %q: %w", root, err)
		}
	}
	fw.Start(ctx)
	return fw, nil
}

// onSourceChange re-converts changed dialect sources (best-effort,
// same fallback semantics as expand mode) and notifies browsers.
func (s *Server) onSourceChange(ctx context.Context, events []watcher.ChangeEvent) {
	for _, event := range events {
		if !format.Detect(event.Path).IsDialect() {
			continue
		}
		if _, err := s.runner.ConvertForExpand(ctx, event.Path); err != nil {
			s.logger.Warn(ctx, err, "dialect conversion on change failed", "source", event.Path)
		}
	}
	s.logger.Debug(ctx, "source change", "files", len(events))
	s.notify(ctx)
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(filepath.Clean("/"+r.URL.Path), "/")
	for _, root := range s.cfg.StaticRoots {
		candidate := filepath.Join(root, filepath.FromSlash(rel))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			http.ServeFile(w, r, candidate)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) handleLiveReload(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), err, "websocket accept failed")
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	// The client never sends application data; CloseRead gives us a
	// context that ends when the connection does.
	ctx := conn.CloseRead(r.Context())
	<-ctx.Done()

	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close(websocket.StatusNormalClosure, "")
}

// notify tells every connected browser to reload.
func (s *Server) notify(ctx context.Context) {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		if err := conn.Write(ctx, websocket.MessageText, []byte("reload")); err != nil {
			s.logger.Debug(ctx, "dropping live-reload client", "error", err.Error())
		}
	}
}

package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path"
	"path/filepath"
	"time"

	"github.com/gitrgoliveira/md-preview/internal/logger"
)

// Poller answers reload checks
type Poller interface {
	Answer(ctx context.Context) string
}

// Renderer produces the preview page and its stylesheet
type Renderer interface {
	Page(ctx context.Context, w io.Writer, path string) error
	Stylesheet() ([]byte, error)
}

// Config holds server configuration
type Config struct {
	// Address is the host:port to listen on
	Address string
	// Document is the markdown file being previewed
	Document string
	// StaticDir is served for paths naming an existing file. Defaults to the
	// document's directory.
	StaticDir string
}

// Server is the HTTP front of the previewer
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	poller     Poller
	renderer   Renderer
	logger     logger.Logger

	document  string
	staticDir string

	// ctx outlives individual requests and ends on Shutdown, so a poll only
	// stops early when the server is going away.
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a server. Nothing listens until Listen is called.
func New(cfg *Config, p Poller, r Renderer, log logger.Logger) (*Server, error) {
	if cfg == nil || cfg.Document == "" {
		return nil, fmt.Errorf("document path cannot be empty")
	}
	if p == nil || r == nil {
		return nil, fmt.Errorf("poller and renderer are required")
	}

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = filepath.Dir(cfg.Document)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		poller:    p,
		renderer:  r,
		logger:    log,
		document:  cfg.Document,
		staticDir: staticDir,
		ctx:       ctx,
		cancel:    cancel,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	return s, nil
}

// Handler returns the routed handler wrapped with access logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /update", s.handleUpdate)
	mux.HandleFunc("GET /style.css", s.handleStylesheet)
	mux.HandleFunc("GET /", s.handleDocument)
	return accessLog(s.logger, mux)
}

// Listen binds the listening socket. A bind failure is returned before any
// request can be served.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or the configured one before Listen
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Serve accepts connections until Shutdown. Each request runs on its own
// goroutine.
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	err := s.httpServer.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown releases in-flight polls and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	err := s.httpServer.Shutdown(ctx)

	// Serve closes its listener; this covers a server that was bound but
	// never served.
	if s.listener != nil {
		if cerr := s.listener.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) && err == nil {
			err = cerr
		}
	}
	return err
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	answer := s.poller.Answer(s.ctx)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.WriteString(w, answer)
}

func (s *Server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	css, err := s.renderer.Stylesheet()
	if err != nil {
		s.logger.Error("Failed to load stylesheet", "error", err)
		http.Error(w, "stylesheet unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(css)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && s.serveStatic(w, r) {
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Page(r.Context(), &buf, s.document); err != nil {
		s.logger.Error("Failed to render page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// serveStatic serves the request from the static directory when it names an
// existing regular file there.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) bool {
	name := path.Clean("/" + r.URL.Path)
	f, err := http.Dir(s.staticDir).Open(name)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gitrgoliveira/md-preview/internal/config"
	"github.com/gitrgoliveira/md-preview/internal/interfaces"
	"github.com/gitrgoliveira/md-preview/internal/logger"
	"github.com/gitrgoliveira/md-preview/internal/notify"
	"github.com/gitrgoliveira/md-preview/internal/poller"
	"github.com/gitrgoliveira/md-preview/internal/render"
	"github.com/gitrgoliveira/md-preview/internal/server"
	"github.com/gitrgoliveira/md-preview/internal/watcher"
)

// ShutdownTimeout bounds how long Shutdown waits for in-flight requests
const ShutdownTimeout = 5 * time.Second

// Service encapsulates the preview service lifecycle
type Service struct {
	cfgMgr   interfaces.ConfigManager
	log      *logger.Switchable
	watcher  interfaces.Watcher
	poller   interfaces.Poller
	renderer interfaces.Renderer
	server   interfaces.Server

	document string
	address  string
	stdout   io.Writer

	cancel       context.CancelFunc
	shutdownOnce sync.Once
	shutdownErr  error
}

// Config holds service configuration
type Config struct {
	// Document is the markdown file to preview
	Document string
	// ConfigFile is an optional HCL file. Empty means defaults only.
	ConfigFile string
	// Overrides are applied on top of the file, e.g. from command-line flags
	Overrides []config.Override
	// Stdout receives the startup banner. Defaults to os.Stdout.
	Stdout io.Writer
}

// ValidateDocument checks that path names an existing regular file
func ValidateDocument(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a file", path)
	}
	return nil
}

// New creates a new service instance. The watch subscription and the
// listening socket are both acquired here, so a failure of either is
// reported before anything is served.
func New(cfg *Config) (*Service, error) {
	if err := ValidateDocument(cfg.Document); err != nil {
		return nil, err
	}

	cfgMgr, err := config.NewManager(cfg.ConfigFile, cfg.Overrides...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	svc := &Service{
		cfgMgr:   cfgMgr,
		document: cfg.Document,
		stdout:   stdout,
	}

	appCfg := cfgMgr.Get()

	// Setup logging
	log, err := newLogger(appCfg.Logging)
	if err != nil {
		return nil, err
	}
	svc.log = logger.NewSwitchable(log)
	if appCfg.Logging.AccessLog {
		svc.log.Info("Access logging enabled", "access_path", appCfg.Logging.AccessPath)
	}

	sig := notify.New()

	// Setup watcher
	w, err := watcher.NewWatcher(&watcher.Config{Target: cfg.Document}, sig, svc.log)
	if err != nil {
		_ = svc.log.Sync()
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	svc.watcher = w

	// Setup poller and renderer
	window := pollWindow(appCfg.Reload)
	p := poller.New(sig, window)
	r := render.New(renderOptions(appCfg.Render, p.Window()), svc.log)
	svc.poller = p
	svc.renderer = r

	// Setup server
	if err := svc.setupServer(appCfg, p, r); err != nil {
		_ = w.Close()
		_ = svc.log.Sync()
		return nil, err
	}

	// Register config reload callback
	svc.registerReloadCallback()

	return svc, nil
}

// newLogger builds a logger from the logging block
func newLogger(cfg *config.LoggingConfig) (logger.Logger, error) {
	opts := []logger.LoggerOption{logger.WithFormat(cfg.Format)}
	if cfg.AccessLog {
		opts = append(opts, logger.WithAccessLog(cfg.AccessPath))
	}

	log, err := logger.New(cfg.Level, cfg.Output, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

func pollWindow(cfg *config.ReloadConfig) poller.Window {
	return poller.Window{
		Iterations: cfg.Iterations(),
		Interval:   cfg.PollInterval(),
	}
}

// renderOptions maps the render block onto renderer options. The page starts
// a new check once the previous one has had its full window.
func renderOptions(cfg *config.RenderConfig, window poller.Window) render.Options {
	return render.Options{
		HardBreaks:     !cfg.DisableHardBreaks,
		GFM:            !cfg.DisableGFM,
		Emoji:          !cfg.DisableEmoji,
		MaxFileSize:    cfg.MaxFileSize,
		Stylesheet:     cfg.Stylesheet,
		ReloadInterval: window.Timeout(),
	}
}

// setupServer creates the HTTP server and binds its socket
func (s *Service) setupServer(cfg *config.Config, p server.Poller, r server.Renderer) error {
	srv, err := server.New(&server.Config{
		Address:   cfg.Address(),
		Document:  s.document,
		StaticDir: cfg.Server.StaticDir,
	}, p, r, s.log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if err := srv.Listen(); err != nil {
		return err
	}

	s.server = srv
	s.address = cfg.Address()
	return nil
}

// registerReloadCallback sets up the config reload handler
func (s *Service) registerReloadCallback() {
	s.cfgMgr.OnReload(s.applyConfig)
}

// applyConfig pushes a reloaded configuration into the running components.
// The listen address and static directory are bound at startup and only
// change on restart.
func (s *Service) applyConfig(newCfg *config.Config) {
	s.log.Info("Configuration reloaded successfully, updating components...")

	// Update logger with new level and output
	if newLog, err := newLogger(newCfg.Logging); err != nil {
		s.log.Error("Failed to create new logger from reloaded config", "error", err)
	} else {
		s.log.Info("Switching to new logger")
		if old := s.log.Swap(newLog); old != nil {
			_ = old.Sync()
		}
	}

	window := pollWindow(newCfg.Reload)
	s.poller.SetWindow(window)
	s.renderer.Update(renderOptions(newCfg.Render, window))
	s.log.Info("Renderer configuration updated", "poll_timeout", window.Timeout())

	if addr := newCfg.Address(); addr != s.address {
		s.log.Info("Listen address change requires a restart", "current", s.address, "configured", addr)
	}
}

// Run starts serving and blocks until shutdown. The watcher stopping on its
// own is fatal: without it the page can no longer learn about changes.
func (s *Service) Run(ctx context.Context, sigChan <-chan os.Signal, isReloadSignal, isShutdownSignal func(os.Signal) bool) error {
	// Create cancellable context
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	defer cancel()

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- s.watcher.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.server.Serve()
	}()

	addr := s.server.Addr()
	_, _ = fmt.Fprintf(s.stdout, "Server running at http://%s\n", addr)
	_, _ = fmt.Fprintln(s.stdout, "Press Ctrl-C to exit")
	s.log.Info("Preview service started", "document", s.document, "address", addr)

	// Handle signals
	for {
		select {
		case sig := <-sigChan:
			if isReloadSignal(sig) {
				s.log.Info("Received reload signal, reloading configuration")
				if err := s.cfgMgr.Reload(); err != nil {
					s.log.Error("Failed to reload configuration", "error", err)
					continue
				}
				// Callback will be triggered automatically
			} else if isShutdownSignal(sig) {
				s.log.Info("Received shutdown signal, gracefully shutting down")
				return s.Shutdown()
			} else {
				s.log.Info("Received unknown signal", "signal", sig)
			}

		case err := <-watchErr:
			if ctx.Err() != nil {
				return s.Shutdown()
			}
			if err == nil {
				err = watcher.ErrWatcherClosed
			}
			s.log.Error("File watcher stopped, shutting down", "error", err)
			_ = s.Shutdown()
			return fmt.Errorf("file watcher stopped: %w", err)

		case err := <-serveErr:
			if err != nil {
				s.log.Error("Server stopped with error", "error", err)
			}
			shutdownErr := s.Shutdown()
			if err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			return shutdownErr

		case <-ctx.Done():
			return s.Shutdown()
		}
	}
}

// Shutdown performs graceful shutdown. Pending reload checks are answered
// "no" before the listener closes. Calling it more than once is safe.
func (s *Service) Shutdown() error {
	s.shutdownOnce.Do(func() {
		// Cancel context to stop the watcher first
		if s.cancel != nil {
			s.cancel()
		}

		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			s.log.Error("Failed to stop server", "error", err)
			s.shutdownErr = fmt.Errorf("failed to stop server: %w", err)
		}

		if err := s.watcher.Close(); err != nil {
			s.log.Error("Failed to close watcher", "error", err)
		}

		s.log.Info("Shutdown complete", "changes_observed", s.watcher.Changes())
	})
	return s.shutdownErr
}

// Close releases all resources
func (s *Service) Close() error {
	if s.log != nil {
		_ = s.log.Sync()
	}
	return nil
}

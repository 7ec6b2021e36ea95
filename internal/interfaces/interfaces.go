package interfaces

import (
	"context"
	"io"

	"github.com/gitrgoliveira/md-preview/internal/config"
	"github.com/gitrgoliveira/md-preview/internal/poller"
	"github.com/gitrgoliveira/md-preview/internal/render"
)

// ConfigManager defines the interface for managing configuration.
type ConfigManager interface {
	Get() *config.Config
	Reload() error
	OnReload(func(*config.Config))
}

// Logger defines the interface for logging.
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Sync() error
}

// Watcher defines the interface for the document watcher.
type Watcher interface {
	Run(ctx context.Context) error
	Changes() uint64
	Close() error
}

// Poller defines the interface for answering reload checks.
type Poller interface {
	Answer(ctx context.Context) string
	SetWindow(w poller.Window)
}

// Renderer defines the interface for the page renderer.
type Renderer interface {
	Page(ctx context.Context, w io.Writer, path string) error
	Stylesheet() ([]byte, error)
	Update(opts render.Options)
}

// Server defines the interface for the HTTP server.
type Server interface {
	Listen() error
	Serve() error
	Addr() string
	Shutdown(ctx context.Context) error
}

package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gitrgoliveira/md-preview/internal/logger"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed assets/github-markdown.css
var assets embed.FS

const defaultStylesheet = "assets/github-markdown.css"

// Options controls how documents are rendered
type Options struct {
	// HardBreaks renders every newline inside a paragraph as <br>
	HardBreaks bool
	// GFM enables tables, strikethrough, autolinks and task lists
	GFM bool
	// Emoji converts :shortcode: sequences
	Emoji bool
	// MaxFileSize is the largest document read, in bytes. Zero means no limit.
	MaxFileSize int
	// Stylesheet overrides the embedded stylesheet when set
	Stylesheet string
	// ReloadInterval is how often the page starts a new /update long-poll
	ReloadInterval time.Duration
}

// DefaultOptions mirrors GitHub rendering with hard line breaks
func DefaultOptions() Options {
	return Options{
		HardBreaks:     true,
		GFM:            true,
		Emoji:          true,
		ReloadInterval: time.Minute,
	}
}

// Renderer turns the markdown document into the preview page
type Renderer struct {
	mu   sync.RWMutex
	md   goldmark.Markdown
	opts Options

	logger logger.Logger
}

// New creates a renderer
func New(opts Options, log logger.Logger) *Renderer {
	return &Renderer{
		md:     newMarkdown(opts),
		opts:   opts,
		logger: log,
	}
}

func newMarkdown(opts Options) goldmark.Markdown {
	var extensions []goldmark.Extender
	if opts.GFM {
		extensions = append(extensions, extension.GFM)
	}
	if opts.Emoji {
		extensions = append(extensions, emoji.Emoji)
	}

	var rendererOpts []renderer.Option
	if opts.HardBreaks {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}

	return goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	)
}

// Update swaps the rendering options, e.g. after a configuration reload
func (r *Renderer) Update(opts Options) {
	md := newMarkdown(opts)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.md = md
	r.opts = opts
}

// Options returns the current options
func (r *Renderer) Options() Options {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.opts
}

// Markdown converts markdown source to HTML
func (r *Renderer) Markdown(src []byte) (template.HTML, error) {
	r.mu.RLock()
	md := r.md
	r.mu.RUnlock()

	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	// #nosec G203 - goldmark output with raw HTML omitted
	return template.HTML(buf.String()), nil
}

// Page reads the document at path and writes the full preview page to w. A
// document that cannot be read or rendered produces a page describing the
// error rather than an error return, so the browser keeps polling and picks
// up the fix on the next change.
func (r *Renderer) Page(ctx context.Context, w io.Writer, path string) error {
	opts := r.Options()
	start := time.Now()

	body, err := r.document(ctx, path, opts)
	if err != nil {
		r.logger.Error("Failed to render document", "file", path, "error", err)
		body = errorBody(err)
	}

	if err := writePage(w, pageData{
		Title:            path,
		Body:             body,
		ReloadIntervalMS: opts.ReloadInterval.Milliseconds(),
	}); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}

	r.logger.Debug("Rendered document", "file", path, "duration", time.Since(start))
	return nil
}

func (r *Renderer) document(ctx context.Context, path string, opts Options) (template.HTML, error) {
	src, err := readDocument(ctx, path, opts.MaxFileSize)
	if err != nil {
		return "", err
	}
	r.logger.Debug("Read document", "file", path, "size", humanize.Bytes(uint64(len(src))))
	return r.Markdown(src)
}

// Stylesheet returns the configured stylesheet, or the embedded one. An
// override is read on every call so edits to it show up on reload.
func (r *Renderer) Stylesheet() ([]byte, error) {
	opts := r.Options()
	if opts.Stylesheet != "" {
		css, err := os.ReadFile(opts.Stylesheet) // #nosec G304 - configured stylesheet path
		if err != nil {
			return nil, fmt.Errorf("failed to read stylesheet: %w", err)
		}
		return css, nil
	}
	return assets.ReadFile(defaultStylesheet)
}

func errorBody(err error) template.HTML {
	// #nosec G203 - the error text is escaped before being wrapped
	return template.HTML("md-preview encountered an error: <br> <pre>" +
		template.HTMLEscapeString(err.Error()) + "</pre>")
}

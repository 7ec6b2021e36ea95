package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gitrgoliveira/md-preview/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestMarkdown_Basic(t *testing.T) {
	r := New(DefaultOptions(), logger.Discard())

	out, err := r.Markdown([]byte("# Title\n\nsome *text*"))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `<h1 id="title">Title</h1>`)
	assert.Contains(t, html, "<em>text</em>")
}

func TestMarkdown_HardBreaks(t *testing.T) {
	src := []byte("line one\nline two")

	hard := New(DefaultOptions(), logger.Discard())
	out, err := hard.Markdown(src)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<br>")

	opts := DefaultOptions()
	opts.HardBreaks = false
	soft := New(opts, logger.Discard())
	out, err = soft.Markdown(src)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<br>")
}

func TestMarkdown_GFM(t *testing.T) {
	src := []byte("| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~\n\n- [x] done\n")

	r := New(DefaultOptions(), logger.Discard())
	out, err := r.Markdown(src)
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<del>gone</del>")
	assert.Contains(t, html, `type="checkbox"`)

	opts := DefaultOptions()
	opts.GFM = false
	plain := New(opts, logger.Discard())
	out, err = plain.Markdown(src)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<table>")
}

func TestMarkdown_RawHTMLOmitted(t *testing.T) {
	r := New(DefaultOptions(), logger.Discard())

	out, err := r.Markdown([]byte("<script>alert(1)</script>\n"))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>")
}

func TestUpdate(t *testing.T) {
	r := New(DefaultOptions(), logger.Discard())

	opts := DefaultOptions()
	opts.HardBreaks = false
	opts.ReloadInterval = 5 * time.Second
	r.Update(opts)

	assert.Equal(t, opts, r.Options())

	out, err := r.Markdown([]byte("a\nb"))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<br>")
}

func TestPage(t *testing.T) {
	path := writeDoc(t, "# Hello\n")
	r := New(DefaultOptions(), logger.Discard())

	var buf bytes.Buffer
	require.NoError(t, r.Page(context.Background(), &buf, path))

	page := buf.String()
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, `<meta http-equiv="Content-Type" content="text/html; charset=utf-8"/>`)
	assert.Contains(t, page, `<link rel="stylesheet" href="/style.css">`)
	assert.Contains(t, page, "<title>"+path+"</title>")
	assert.Contains(t, page, `<article class="markdown-body">`)
	assert.Contains(t, page, `<h1 id="hello">Hello</h1>`)
	assert.Contains(t, page, `xhr.open("GET", "/update", true);`)
	assert.Regexp(t, `window\.setInterval\(reload_check,\s*60000\s*\);`, page)
}

func TestPage_ReloadInterval(t *testing.T) {
	path := writeDoc(t, "text\n")
	opts := DefaultOptions()
	opts.ReloadInterval = 1500 * time.Millisecond
	r := New(opts, logger.Discard())

	var buf bytes.Buffer
	require.NoError(t, r.Page(context.Background(), &buf, path))
	assert.Regexp(t, `window\.setInterval\(reload_check,\s*1500\s*\);`, buf.String())
}

func TestPage_TitleEscaped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "<b>.md")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0600))

	r := New(DefaultOptions(), logger.Discard())
	var buf bytes.Buffer
	require.NoError(t, r.Page(context.Background(), &buf, path))

	assert.NotContains(t, buf.String(), "<title>"+path)
	assert.Contains(t, buf.String(), "&lt;b&gt;.md")
}

func TestPage_MissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.md")
	r := New(DefaultOptions(), logger.Discard())

	var buf bytes.Buffer
	require.NoError(t, r.Page(context.Background(), &buf, path))

	page := buf.String()
	assert.Contains(t, page, "md-preview encountered an error")
	// The reload script is still there so the page recovers on the next change
	assert.Contains(t, page, "/update")
}

func TestPage_TooLarge(t *testing.T) {
	path := writeDoc(t, strings.Repeat("a", 2048))
	opts := DefaultOptions()
	opts.MaxFileSize = 1000
	r := New(opts, logger.Discard())

	var buf bytes.Buffer
	require.NoError(t, r.Page(context.Background(), &buf, path))
	assert.Contains(t, buf.String(), "larger than the 1.0 kB limit")
}

func TestReadDocument_AppearsDuringRetry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")

	go func() {
		time.Sleep(readInitialInterval / 2)
		tmp := path + ".tmp"
		_ = os.WriteFile(tmp, []byte("# late\n"), 0600)
		_ = os.Rename(tmp, path)
	}()

	data, err := readDocument(context.Background(), path, 0)
	require.NoError(t, err)
	assert.Equal(t, "# late\n", string(data))
}

func TestReadDocument_Directory(t *testing.T) {
	_, err := readDocument(context.Background(), t.TempDir(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a file")
}

func TestReadDocument_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := readDocument(ctx, filepath.Join(t.TempDir(), "missing.md"), 0)
	assert.Error(t, err)
}

func TestStylesheet(t *testing.T) {
	r := New(DefaultOptions(), logger.Discard())

	css, err := r.Stylesheet()
	require.NoError(t, err)
	assert.Contains(t, string(css), ".markdown-body")

	custom := filepath.Join(t.TempDir(), "custom.css")
	require.NoError(t, os.WriteFile(custom, []byte("body { color: red; }"), 0600))

	opts := DefaultOptions()
	opts.Stylesheet = custom
	r.Update(opts)

	css, err = r.Stylesheet()
	require.NoError(t, err)
	assert.Equal(t, "body { color: red; }", string(css))

	require.NoError(t, os.Remove(custom))
	_, err = r.Stylesheet()
	assert.Error(t, err)
}

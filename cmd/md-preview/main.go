package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gitrgoliveira/md-preview/internal/config"
	"github.com/gitrgoliveira/md-preview/internal/service"
	"github.com/gitrgoliveira/md-preview/internal/version"
	"github.com/spf13/cobra"
)

// cliFlags holds the values of the command-line flags
type cliFlags struct {
	configFile string
	host       string
	port       int
	staticDir  string
	logLevel   string
	logOutput  string
}

// runFunc starts the previewer for a resolved service configuration
type runFunc func(cfg *service.Config) error

func main() {
	if err := newRootCmd(runPreview).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the md-preview command. run is called with the document
// and configuration once the arguments are valid.
func newRootCmd(run runFunc) *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "md-preview <markdown_file>",
		Short: "Preview a markdown file in the browser with live reload",
		Long: `Serves a markdown file rendered as GitHub-flavoured HTML and reloads the
page in the browser whenever the file is saved.

The page polls /update; the request is held open until the file changes or
the poll window (60 seconds by default) expires.`,
		Example: `  # Preview README.md on http://127.0.0.1:8000
  md-preview README.md

  # Listen on another port
  md-preview --port 9000 docs/guide.md

  # Use a configuration file; send SIGHUP to reload it
  md-preview -c md-preview.hcl notes.md`,
		Version:       version.FullVersion(),
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid from here on, so failures are not usage errors
			cmd.SilenceUsage = true

			return run(&service.Config{
				Document:   args[0],
				ConfigFile: flags.configFile,
				Overrides:  flags.overrides(cmd),
			})
		},
	}

	cmd.Flags().StringVarP(&flags.configFile, "config", "c", "", "Configuration file path (optional)")
	cmd.Flags().StringVar(&flags.host, "host", config.DefaultHost, "IP address to listen on")
	cmd.Flags().IntVarP(&flags.port, "port", "p", config.DefaultPort, "Port to listen on")
	cmd.Flags().StringVar(&flags.staticDir, "static-dir", "", "Directory served for linked files (default: the document's directory)")
	cmd.Flags().StringVarP(&flags.logLevel, "log-level", "l", "info", "Log level (debug, info, error)")
	cmd.Flags().StringVar(&flags.logOutput, "log-output", "stdout", "Log output (stdout, stderr, or file path)")

	return cmd
}

// overrides turns explicitly set flags into configuration overrides, so a
// flag only wins over the configuration file when it was given.
func (f *cliFlags) overrides(cmd *cobra.Command) []config.Override {
	var overrides []config.Override
	changed := cmd.Flags().Changed

	if changed("host") {
		host := f.host
		overrides = append(overrides, func(c *config.Config) { c.Server.Host = host })
	}
	if changed("port") {
		port := f.port
		overrides = append(overrides, func(c *config.Config) { c.Server.Port = port })
	}
	if changed("static-dir") {
		dir := f.staticDir
		overrides = append(overrides, func(c *config.Config) { c.Server.StaticDir = dir })
	}
	if changed("log-level") {
		level := f.logLevel
		overrides = append(overrides, func(c *config.Config) { c.Logging.Level = level })
	}
	if changed("log-output") {
		output := f.logOutput
		overrides = append(overrides, func(c *config.Config) { c.Logging.Output = output })
	}

	return overrides
}

// runPreview runs the preview service until a shutdown signal
func runPreview(cfg *service.Config) error {
	// Create signal handler
	sigChan := setupSignalHandler()
	defer signal.Stop(sigChan)

	svc, err := service.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	return svc.Run(context.Background(), sigChan, isReloadSignal, isShutdownSignal)
}

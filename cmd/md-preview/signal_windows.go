//go:build windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// setupSignalHandler configures OS-specific signal handling.
// Windows has no SIGHUP, so the configuration is only read at startup.
func setupSignalHandler() chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	return sigChan
}

// isReloadSignal checks if the signal is a configuration reload signal.
// Never true on Windows.
func isReloadSignal(sig os.Signal) bool {
	return false
}

// isShutdownSignal checks if the signal is a shutdown signal.
// On Windows, this includes Ctrl+C (Interrupt) and SIGTERM.
func isShutdownSignal(sig os.Signal) bool {
	return sig == os.Interrupt || sig == syscall.SIGTERM
}

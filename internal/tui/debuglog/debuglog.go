// ABOUTME: Debug logger for the TUI that writes slog records to a file
// ABOUTME: Keeps log output off the terminal while the dashboard owns it

package debuglog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/Simtestlab/bess-handbook/logger"
)

var (
	logFile *os.File
	mu      sync.Mutex
	log     = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init opens debug.log under dir and routes the default slog logger to it,
// so engine and store logs land there too. An empty dir discards everything.
func Init(dir string) error {
	mu.Lock()
	defer mu.Unlock()

	if dir == "" {
		setLocked(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	logFile = f
	setLocked(logger.New(f, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")))
	return nil
}

func setLocked(l *slog.Logger) {
	log = l
	slog.SetDefault(l)
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	setLocked(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func current() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return log
}

// Error logs an error with the operation that produced it
func Error(op string, err error) {
	if err == nil {
		return
	}
	current().Error("TUI operation failed", "op", op, "error", err)
}

// Info logs a TUI event
func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

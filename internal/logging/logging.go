// Package logging sends slog output to a file. The terminal belongs to the
// UI, so nothing is ever written to stdout or stderr.
package logging

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger is the global slog instance for the application
var Logger *slog.Logger

// Init opens path for appending and makes it the destination of both slog
// and the standard log package. The returned file should be closed on exit.
func Init(path string, level slog.Level) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	handler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: level,
	})

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	log.SetOutput(file)
	log.SetFlags(log.LstdFlags)

	return file, nil
}

// DefaultPath returns $XDG_STATE_HOME/todo/todo.log, falling back to
// ~/.local/state/todo/todo.log
func DefaultPath() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, "todo", "todo.log"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "state", "todo", "todo.log"), nil
}

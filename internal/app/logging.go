package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

const defaultLogFile = "~/.local/state/crier/crier.log"

// SetupLogging points the global logger at w. The TUI owns the terminal, so
// callers running it should pass a file from OpenLogFile.
func SetupLogging(w io.Writer, verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zlog.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		With().Timestamp().Logger()
}

// OpenLogFile opens path for appending, creating parent directories. An
// empty path uses ~/.local/state/crier/crier.log.
func OpenLogFile(path string) (*os.File, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultLogFile
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

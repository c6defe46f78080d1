package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Window is one display destination. Its index in Config.Windows is its
// destination id.
type Window struct {
	Title string `toml:"title"`
	Trim  int    `toml:"trim"`
}

// Config holds everything crier reads from config.toml.
type Config struct {
	LogPath            string
	LogEncoding        string
	FiltersPath        string
	VisibilityPath     string
	WordsPath          string
	PollInterval       time.Duration
	LoadPrevious       int
	CaseSensitiveWords bool
	WatchConfig        bool
	MetricsAddr        string
	Windows            []Window
}

const (
	defaultConfigPath     = "~/.config/crier/config.toml"
	defaultLogPath        = "~/df/gamelog.txt"
	defaultFiltersPath    = "~/.config/crier/filters.toml"
	defaultVisibilityPath = "~/.config/crier/visibility.toml"
	defaultWordsPath      = "~/.config/crier/words.toml"
	defaultPollInterval   = time.Second
	defaultWindowCount    = 4
	minPollInterval       = 50 * time.Millisecond
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	cfg := Config{
		LogPath:            mustExpand(defaultLogPath),
		FiltersPath:        mustExpand(defaultFiltersPath),
		VisibilityPath:     mustExpand(defaultVisibilityPath),
		WordsPath:          mustExpand(defaultWordsPath),
		PollInterval:       defaultPollInterval,
		CaseSensitiveWords: true,
		WatchConfig:        true,
	}
	cfg.Windows = defaultWindows()
	return cfg
}

func defaultWindows() []Window {
	out := make([]Window, defaultWindowCount)
	for i := range out {
		out[i] = Window{Title: fmt.Sprintf("Window %d", i+1)}
	}
	return out
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		LogPath            string   `toml:"log_path"`
		LogEncoding        string   `toml:"log_encoding"`
		FiltersPath        string   `toml:"filters_path"`
		VisibilityPath     string   `toml:"visibility_path"`
		WordsPath          string   `toml:"words_path"`
		PollMS             int      `toml:"poll_ms"`
		LoadPrevious       int      `toml:"load_previous"`
		CaseSensitiveWords *bool    `toml:"case_sensitive_words"`
		WatchConfig        *bool    `toml:"watch_config"`
		MetricsAddr        string   `toml:"metrics_addr"`
		Windows            []Window `toml:"window"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	cfg.LogPath = pathOr(raw.LogPath, cfg.LogPath)
	cfg.LogEncoding = strings.ToLower(strings.TrimSpace(raw.LogEncoding))
	cfg.FiltersPath = pathOr(raw.FiltersPath, cfg.FiltersPath)
	cfg.VisibilityPath = pathOr(raw.VisibilityPath, cfg.VisibilityPath)
	cfg.WordsPath = pathOr(raw.WordsPath, cfg.WordsPath)

	if raw.PollMS > 0 {
		cfg.PollInterval = time.Duration(raw.PollMS) * time.Millisecond
	}
	if cfg.PollInterval < minPollInterval {
		cfg.PollInterval = minPollInterval
	}
	if raw.LoadPrevious > 0 {
		cfg.LoadPrevious = raw.LoadPrevious
	}
	if raw.CaseSensitiveWords != nil {
		cfg.CaseSensitiveWords = *raw.CaseSensitiveWords
	}
	if raw.WatchConfig != nil {
		cfg.WatchConfig = *raw.WatchConfig
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)

	if len(raw.Windows) > 0 {
		cfg.Windows = make([]Window, len(raw.Windows))
		for i, w := range raw.Windows {
			title := strings.TrimSpace(w.Title)
			if title == "" {
				title = fmt.Sprintf("Window %d", i+1)
			}
			trim := w.Trim
			if trim < 0 {
				trim = 0
			}
			cfg.Windows[i] = Window{Title: title, Trim: trim}
		}
	}

	return cfg, nil
}

func pathOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return mustExpand(value)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

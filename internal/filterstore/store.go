package filterstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/five82/crier/internal/filter"
)

// Store reads and writes the filters and visibility files. It remembers the
// content it last read or wrote for each file so that watchers can ignore
// events caused by its own saves.
type Store struct {
	filtersPath    string
	visibilityPath string

	mu    sync.Mutex
	known map[string][sha256.Size]byte
}

type filtersFile struct {
	Groups []filter.GroupSpec `toml:"group" yaml:"groups"`
}

// New resolves both paths. The files need not exist yet.
func New(filtersPath, visibilityPath string) (*Store, error) {
	fp, err := expandPath(filtersPath)
	if err != nil {
		return nil, fmt.Errorf("filters path: %w", err)
	}
	vp, err := expandPath(visibilityPath)
	if err != nil {
		return nil, fmt.Errorf("visibility path: %w", err)
	}
	return &Store{
		filtersPath:    fp,
		visibilityPath: vp,
		known:          make(map[string][sha256.Size]byte),
	}, nil
}

// FiltersPath returns the resolved filters file path.
func (s *Store) FiltersPath() string { return s.filtersPath }

// VisibilityPath returns the resolved visibility file path.
func (s *Store) VisibilityPath() string { return s.visibilityPath }

// Load builds a model from both files. A missing filters file yields an
// empty model; a missing visibility file leaves inline flags in place.
func (s *Store) Load(ctx context.Context) (*filter.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	groups, err := s.LoadSpec()
	if err != nil {
		return nil, err
	}
	flags, err := s.loadVisibility()
	if err != nil {
		return nil, err
	}
	for gi := range groups {
		g := &groups[gi]
		for ci := range g.Categories {
			c := &g.Categories[ci]
			tag := filter.Tag{Group: strings.TrimSpace(g.Name), Category: strings.TrimSpace(c.Name)}
			if raw, ok := flags[tag.String()]; ok {
				c.Show = raw
			}
		}
	}
	return filter.NewModel(groups...)
}

// LoadSpec parses the filters file without building a model.
func (s *Store) LoadSpec() ([]filter.GroupSpec, error) {
	data, err := s.read(s.filtersPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("path", s.filtersPath).Msg("filters file missing, starting with no groups")
			return nil, nil
		}
		return nil, fmt.Errorf("read filters: %w", err)
	}
	var file filtersFile
	if isYAML(s.filtersPath) {
		err = yaml.Unmarshal(data, &file)
	} else {
		err = toml.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("parse filters: %w", err)
	}
	return file.Groups, nil
}

func (s *Store) loadVisibility() (map[string]map[string]any, error) {
	data, err := s.read(s.visibilityPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read visibility: %w", err)
	}
	var raw map[string]map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse visibility: %w", err)
	}
	return raw, nil
}

// SavePatterns writes groups, colors and patterns. Inline show tables are
// dropped since flags are saved by SaveVisibility.
func (s *Store) SavePatterns(ctx context.Context, groups []filter.GroupSpec) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	file := filtersFile{Groups: make([]filter.GroupSpec, len(groups))}
	for i, g := range groups {
		cats := make([]filter.CategorySpec, len(g.Categories))
		for j, c := range g.Categories {
			cats[j] = filter.CategorySpec{Name: c.Name, Patterns: c.Patterns}
		}
		file.Groups[i] = filter.GroupSpec{Name: g.Name, Color: g.Color, Categories: cats}
	}

	var data []byte
	var err error
	if isYAML(s.filtersPath) {
		data, err = yaml.Marshal(file)
	} else {
		data, err = toml.Marshal(file)
	}
	if err != nil {
		return fmt.Errorf("marshal filters: %w", err)
	}
	return s.write(s.filtersPath, data)
}

// SaveVisibility writes every flag keyed by tag string.
func (s *Store) SaveVisibility(ctx context.Context, flags map[string]filter.Visibility) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw := make(map[string]map[string]any, len(flags))
	for tag, v := range flags {
		raw[tag] = v.Raw()
	}
	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal visibility: %w", err)
	}
	return s.write(s.visibilityPath, data)
}

// Stale reports whether path holds content other than what the store last
// read or wrote. Paths the store does not manage are always stale.
func (s *Store) Stale(path string) bool {
	clean := filepath.Clean(path)
	if clean != s.filtersPath && clean != s.visibilityPath {
		return true
	}
	data, err := os.ReadFile(clean)
	s.mu.Lock()
	defer s.mu.Unlock()
	known, seen := s.known[clean]
	if err != nil {
		return seen
	}
	return !seen || known != sha256.Sum256(data)
}

func (s *Store) read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		delete(s.known, path)
		return nil, err
	}
	s.known[path] = sha256.Sum256(data)
	return data, nil
}

func (s *Store) write(path string, data []byte) error {
	if err := writeIfChanged(path, data); err != nil {
		return err
	}
	s.mu.Lock()
	s.known[path] = sha256.Sum256(data)
	s.mu.Unlock()
	return nil
}

// writeIfChanged replaces path through a temp file in the same directory.
// Identical content is not rewritten, so file watchers are not triggered.
func writeIfChanged(path string, data []byte) error {
	if current, err := os.ReadFile(path); err == nil && bytes.Equal(current, data) {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
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

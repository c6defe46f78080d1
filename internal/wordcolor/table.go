package wordcolor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Color is a named foreground/background pair.
type Color struct {
	FG string `toml:"fg"`
	BG string `toml:"bg"`
}

// Table maps groups to highlight words and words to color names.
type Table struct {
	Colors map[string]Color             `toml:"colors"`
	Words  map[string]map[string]string `toml:"words"`
}

// Color resolves a color name. Unknown names resolve to a zero Color.
func (t Table) Color(name string) (Color, bool) {
	c, ok := t.Colors[name]
	return c, ok
}

// Load reads a word table. A missing file yields an empty table.
func Load(path string) (Table, error) {
	resolved, err := expandPath(path)
	if err != nil {
		return Table{}, err
	}
	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Table{}, nil
		}
		return Table{}, fmt.Errorf("open words: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Table{}, fmt.Errorf("read words: %w", err)
	}
	var table Table
	if err := toml.Unmarshal(bytes, &table); err != nil {
		return Table{}, fmt.Errorf("parse words: %w", err)
	}
	return table, nil
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

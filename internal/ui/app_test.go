package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/crier/internal/config"
	"github.com/five82/crier/internal/engine"
	"github.com/five82/crier/internal/filter"
	"github.com/five82/crier/internal/prefs"
)

type savingLoader struct {
	spec       []filter.GroupSpec
	visibility []map[string]filter.Visibility
}

func (s *savingLoader) Load(context.Context) (*filter.Model, error) {
	return filter.NewModel(s.spec...)
}

func (s *savingLoader) SavePatterns(context.Context, []filter.GroupSpec) error { return nil }

func (s *savingLoader) SaveVisibility(_ context.Context, flags map[string]filter.Visibility) error {
	s.visibility = append(s.visibility, flags)
	return nil
}

type fixture struct {
	model  Model
	engine *engine.Engine
	board  *Board
	loader *savingLoader
	prefs  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loader := &savingLoader{spec: []filter.GroupSpec{{
		Name:  "Combat",
		Color: "#FF5555",
		Categories: []filter.CategorySpec{
			{Name: "Hit", Patterns: []string{`hits?\b`}, Show: map[string]any{"0": true}},
			{Name: "Miss", Patterns: []string{`misses`, `dodges`}},
		},
	}}}
	board := NewBoard(2)
	e, err := engine.New(context.Background(), engine.Options{
		Loader:       loader,
		Sink:         board,
		Destinations: []engine.Destination{{ID: 0}, {ID: 1}},
	})
	require.NoError(t, err)

	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{
		Engine:    e,
		Board:     board,
		Windows:   []config.Window{{Title: "Combat"}, {Title: "Other"}},
		PrefsPath: prefsPath,
	})
	f := &fixture{model: m, engine: e, board: board, loader: loader, prefs: prefsPath}
	f.send(t, tea.WindowSizeMsg{Width: 120, Height: 30})
	return f
}

func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.model.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	f.model = model
	return cmd
}

func (f *fixture) press(t *testing.T, keys ...string) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = f.send(t, keyMsg(k))
	}
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestModel_RendersRoutedLinesWithTags(t *testing.T) {
	f := newFixture(t)
	f.engine.Process("Urist hits the goblin")
	f.send(t, tickMsg{})

	view := f.model.windows[0].viewport.View()
	assert.Contains(t, view, "[Combat][Hit] ")
	assert.Contains(t, view, "Urist hits the goblin")

	f.press(t, "t")
	assert.False(t, f.model.windows[0].showTags)
	view = f.model.windows[0].viewport.View()
	assert.NotContains(t, view, "[Combat][Hit]")
	assert.Contains(t, view, "Urist hits the goblin")
}

func TestModel_SwitchesWindows(t *testing.T) {
	f := newFixture(t)
	f.press(t, "tab")
	assert.Equal(t, 1, f.model.active)
	f.press(t, "tab")
	assert.Equal(t, 0, f.model.active)
	f.press(t, "2")
	assert.Equal(t, 1, f.model.active)
	f.press(t, "9")
	assert.Equal(t, 1, f.model.active, "missing window ignored")
}

func TestModel_PickerTogglesVisibilityForActiveWindow(t *testing.T) {
	f := newFixture(t)
	f.press(t, "2", "c")
	require.True(t, f.model.picker.open)
	require.Len(t, f.model.picker.rows, 2)

	f.press(t, " ")
	visible, err := f.engine.GetVisible(filter.Tag{Group: "Combat", Category: "Hit"}, 1)
	require.NoError(t, err)
	assert.True(t, visible)

	_, dirty := f.model.session.Dirty()
	assert.True(t, dirty)
	assert.Contains(t, f.model.renderHeader(), "unsaved")

	f.press(t, "s")
	require.Len(t, f.loader.visibility, 1)
	assert.Equal(t, filter.Visibility{0: true, 1: true}, f.loader.visibility[0]["Combat.Hit"])

	f.press(t, "esc")
	assert.False(t, f.model.picker.open)
}

func TestModel_PickerShowsHeldCount(t *testing.T) {
	f := newFixture(t)
	f.engine.Process("Urist hits")
	f.engine.Process("Urist hits again")
	f.press(t, "c")
	assert.Contains(t, f.model.renderPicker(), "(2) ")

	f.press(t, "esc", "2", "c")
	assert.NotContains(t, f.model.renderPicker(), "(2) ", "window 2 does not show hits")
}

func TestModel_PatternEditRejectsInvalidRegex(t *testing.T) {
	f := newFixture(t)
	f.press(t, "c", "j", "]", "e")
	require.Equal(t, inputPattern, f.model.mode)
	assert.Equal(t, "dodges", f.model.input.Value())

	f.model.input.SetValue("dodge(")
	f.press(t, "enter")
	assert.Equal(t, inputPattern, f.model.mode, "input stays open on error")
	assert.False(t, f.model.messageOK)

	f.model.input.SetValue("evades")
	f.press(t, "enter")
	assert.Equal(t, inputNone, f.model.mode)
	assert.Equal(t, []string{"misses", "evades"}, f.model.picker.rows[1].patterns)

	rec := f.engine.Process("The goblin evades")
	assert.True(t, rec.Matched)
}

func TestModel_RenameSavesPrefs(t *testing.T) {
	f := newFixture(t)
	f.press(t, "R")
	require.Equal(t, inputRename, f.model.mode)
	f.model.input.SetValue("  Fights ")
	f.press(t, "enter")

	assert.Equal(t, "Fights", f.model.windows[0].title)
	loaded, err := prefs.Load(f.prefs)
	require.NoError(t, err)
	assert.Equal(t, "Fights", loaded.Title(0, ""))
}

func TestModel_QuitAsksOnceWhenDirty(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.model.session.SetVisible(filter.Tag{Group: "Combat", Category: "Miss"}, 0, true))

	cmd := f.press(t, "q")
	assert.Nil(t, cmd)
	assert.True(t, f.model.quitArmed)

	cmd = f.press(t, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_ClearWindow(t *testing.T) {
	f := newFixture(t)
	f.engine.Process("Urist hits")
	f.press(t, "x")
	entries, _ := f.board.Entries(0)
	assert.Empty(t, entries)
	assert.Zero(t, f.engine.Held(0, filter.Tag{Group: "Combat", Category: "Hit"}))
}

func TestModel_OpenAndCloseWindows(t *testing.T) {
	f := newFixture(t)
	hit := filter.Tag{Group: "Combat", Category: "Hit"}

	f.press(t, "n")
	require.Len(t, f.model.windows, 3)
	assert.Equal(t, 2, f.model.active)
	assert.Equal(t, 2, f.model.activeWindow().dest)
	assert.Equal(t, "Window 3", f.model.activeWindow().title)
	assert.Equal(t, []int{0, 1, 2}, f.engine.Destinations())

	f.press(t, "c", " ", "esc")
	visible, err := f.engine.GetVisible(hit, 2)
	require.NoError(t, err)
	assert.True(t, visible)

	f.engine.Process("Urist hits")
	entries, _ := f.board.Entries(2)
	assert.Len(t, entries, 1)

	f.press(t, "2", "X")
	assert.Equal(t, []int{0, 2}, f.engine.Destinations())
	require.Len(t, f.model.windows, 2)
	assert.Equal(t, 2, f.model.activeWindow().dest, "next window takes focus")
	_, err = f.engine.GetVisible(hit, 1)
	assert.ErrorIs(t, err, filter.ErrUnknownDestination)

	f.press(t, "n")
	assert.Equal(t, 1, f.model.activeWindow().dest, "lowest free destination is reused")
	assert.Equal(t, "Window 2", f.model.activeWindow().title)
	assert.Equal(t, []int{0, 1, 2}, f.engine.Destinations())

	f.press(t, "X", "X")
	assert.Equal(t, []int{0}, f.engine.Destinations())
	f.press(t, "X")
	assert.False(t, f.model.messageOK)
	assert.Contains(t, f.model.message, "last window")
	assert.Len(t, f.model.windows, 1)
}

func TestModel_ThemeCycleAndHelp(t *testing.T) {
	f := newFixture(t)
	f.press(t, "T")
	assert.Equal(t, "Slate", f.model.theme.Name)
	loaded, err := prefs.Load(f.prefs)
	require.NoError(t, err)
	assert.Equal(t, "Slate", loaded.Theme)

	f.press(t, "?")
	assert.True(t, strings.Contains(f.model.View(), "Keyboard Shortcuts"))
	f.press(t, "j")
	assert.False(t, f.model.showHelp)
}

func TestModel_ReloadReportsResult(t *testing.T) {
	f := newFixture(t)
	cmd := f.press(t, "r")
	require.NotNil(t, cmd)
	msg := cmd()
	f.send(t, msg)
	assert.False(t, f.model.messageOK, "no reload function configured")
	assert.Contains(t, f.model.message, "reload filters failed")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "", truncate("abc", 0))
	assert.Equal(t, "/a/v...le.txt", truncateMiddle("/a/very/long/path/file.txt", 13))
}

func TestRenderEntries_BodyUsesGroupColor(t *testing.T) {
	f := newFixture(t)
	styles := f.model.theme.Styles()
	palette := f.board.Palette()

	body := f.model.groupStyle(palette, "Combat", styles)
	assert.Equal(t, lipgloss.Color("#FF5555"), body.GetForeground())
	assert.Equal(t, styles.Text.GetForeground(), f.model.groupStyle(palette, "Nobody", styles).GetForeground())

	require.NoError(t, f.engine.Begin().SetGroupColor("Combat", "#00FF00"))
	recolored := f.model.groupStyle(f.board.Palette(), "Combat", styles)
	assert.Equal(t, lipgloss.Color("#00FF00"), recolored.GetForeground())
}

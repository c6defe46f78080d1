package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/five82/crier/internal/prefs"
)

// handleKey routes a key to the active overlay or to the window view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.mode != inputNone {
		return m.handleInputKey(msg)
	}
	if m.picker.open {
		return m.handlePickerKey(msg)
	}

	armed := m.quitArmed
	m.quitArmed = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		if patterns, visibility := m.session.Dirty(); (patterns || visibility) && !armed && msg.String() != "ctrl+c" {
			m.quitArmed = true
			m.setMessage("unsaved changes: s to save, q again to quit", false)
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.refreshActive(true)
		return m, nil

	case key.Matches(msg, m.keys.NextWindow):
		m.selectWindow((m.active + 1) % len(m.windows))
		return m, nil

	case key.Matches(msg, m.keys.PrevWindow):
		m.selectWindow((m.active - 1 + len(m.windows)) % len(m.windows))
		return m, nil

	case key.Matches(msg, m.keys.ToggleTags):
		w := m.activeWindow()
		w.showTags = !w.showTags
		m.refreshActive(true)
		return m, nil

	case key.Matches(msg, m.keys.ToggleFollow):
		w := m.activeWindow()
		w.follow = !w.follow
		if w.follow {
			w.viewport.GotoBottom()
		}
		return m, nil

	case key.Matches(msg, m.keys.Categories):
		m.openPicker()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if err := m.engine.ClearDestination(m.activeWindow().dest); err != nil {
			m.setMessage(fmt.Sprintf("clear failed: %v", err), false)
		} else {
			m.setMessage("cleared "+m.activeWindow().title, true)
		}
		m.refreshActive(true)
		return m, nil

	case key.Matches(msg, m.keys.OpenWindow):
		m.openWindow()
		return m, nil

	case key.Matches(msg, m.keys.CloseWindow):
		m.closeWindow()
		return m, nil

	case key.Matches(msg, m.keys.Rename):
		m.openInput(inputRename, m.activeWindow().title, "Window title")
		return m, nil

	case key.Matches(msg, m.keys.Save):
		m.save()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, reloadCmd(m.ctx, "filters", m.reloadFilters)

	case key.Matches(msg, m.keys.ReloadWords):
		return m, reloadCmd(m.ctx, "word colors", m.reloadWords)
	}

	if isDigit(msg) {
		if idx := int(msg.Runes[0] - '1'); idx < len(m.windows) {
			m.selectWindow(idx)
		}
		return m, nil
	}

	m.scrollActive(msg)
	return m, nil
}

func isDigit(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9'
}

func (m *Model) scrollActive(msg tea.KeyMsg) {
	w := m.activeWindow()
	switch {
	case key.Matches(msg, m.keys.Top):
		w.viewport.GotoTop()
		w.follow = false
	case key.Matches(msg, m.keys.Bottom):
		w.viewport.GotoBottom()
		w.follow = true
	case key.Matches(msg, m.keys.Down):
		w.viewport.ScrollDown(1)
		w.follow = w.viewport.AtBottom()
	case key.Matches(msg, m.keys.Up):
		w.viewport.ScrollUp(1)
		w.follow = false
	case key.Matches(msg, m.keys.HalfPageDown):
		w.viewport.HalfPageDown()
		w.follow = w.viewport.AtBottom()
	case key.Matches(msg, m.keys.HalfPageUp):
		w.viewport.HalfPageUp()
		w.follow = false
	case key.Matches(msg, m.keys.PageDown):
		w.viewport.PageDown()
		w.follow = w.viewport.AtBottom()
	case key.Matches(msg, m.keys.PageUp):
		w.viewport.PageUp()
		w.follow = false
	}
}

func (m *Model) selectWindow(idx int) {
	if idx < 0 || idx >= len(m.windows) || idx == m.active {
		return
	}
	m.active = idx
	m.refreshActive(true)
}

// openWindow registers a new destination and selects its window. The board
// learns about it before the engine so routing never targets a missing pane.
func (m *Model) openWindow() {
	id := m.engine.NextDestination()
	if err := m.board.AddWindow(id); err != nil {
		m.setMessage(fmt.Sprintf("open window failed: %v", err), false)
		return
	}
	if err := m.engine.RegisterDestination(id, m.newTrim); err != nil {
		_ = m.board.RemoveWindow(id)
		m.setMessage(fmt.Sprintf("open window failed: %v", err), false)
		return
	}
	w := window{
		dest:     id,
		title:    m.prefs.Title(id, fmt.Sprintf("Window %d", id+1)),
		showTags: true,
		follow:   true,
		viewport: viewport.New(m.width, m.contentHeight()),
	}
	m.windows = append(m.windows, w)
	log.Info().Int("destination", id).Msg("window opened")
	m.setMessage("opened "+w.title, true)
	m.active = len(m.windows) - 1
	m.refreshActive(true)
}

// closeWindow deregisters the active window's destination. The last window
// stays open.
func (m *Model) closeWindow() {
	if len(m.windows) <= 1 {
		m.setMessage("cannot close the last window", false)
		return
	}
	w := m.windows[m.active]
	if err := m.engine.DeregisterDestination(w.dest); err != nil {
		m.setMessage(fmt.Sprintf("close window failed: %v", err), false)
		return
	}
	if err := m.board.RemoveWindow(w.dest); err != nil {
		log.Warn().Err(err).Int("destination", w.dest).Msg("board had no window")
	}
	if _, ok := m.prefs.Titles[strconv.Itoa(w.dest)]; ok {
		m.prefs.SetTitle(w.dest, "")
		m.savePrefs()
	}
	m.windows = append(m.windows[:m.active], m.windows[m.active+1:]...)
	if m.active >= len(m.windows) {
		m.active = len(m.windows) - 1
	}
	log.Info().Int("destination", w.dest).Msg("window closed")
	m.setMessage("closed "+w.title, true)
	m.refreshActive(true)
}

// save commits pending category edits.
func (m *Model) save() {
	patterns, visibility := m.session.Dirty()
	if !patterns && !visibility {
		m.setMessage("nothing to save", true)
		return
	}
	if err := m.session.Commit(m.ctx); err != nil {
		log.Warn().Err(err).Msg("save failed")
		m.setMessage(fmt.Sprintf("save failed: %v", err), false)
		return
	}
	m.setMessage("saved", true)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		log.Warn().Err(err).Str("path", m.prefsPath).Msg("save prefs failed")
		m.setMessage(fmt.Sprintf("save prefs failed: %v", err), false)
	}
}

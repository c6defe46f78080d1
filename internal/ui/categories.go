package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/crier/internal/filter"
)

type pickerRow struct {
	tag      filter.Tag
	color    string
	patterns []string
}

// pickerState lists every category with its visibility in the active window.
type pickerState struct {
	open       bool
	rows       []pickerRow
	cursor     int
	patternIdx int
}

func (m *Model) openPicker() {
	m.picker = pickerState{open: true}
	m.refreshPicker()
}

// refreshPicker rebuilds the rows from the engine's catalog, keeping the
// cursor on the same tag when it still exists.
func (m *Model) refreshPicker() {
	var current filter.Tag
	if row, ok := m.pickerRow(); ok {
		current = row.tag
	}
	var rows []pickerRow
	for _, g := range m.engine.Catalog() {
		for _, c := range g.Categories {
			rows = append(rows, pickerRow{
				tag:      filter.Tag{Group: g.Name, Category: c.Name},
				color:    g.Color,
				patterns: c.Patterns,
			})
		}
	}
	m.picker.rows = rows
	m.picker.cursor = 0
	for i, r := range rows {
		if r.tag == current {
			m.picker.cursor = i
			break
		}
	}
	m.clampPattern()
}

func (m *Model) pickerRow() (pickerRow, bool) {
	if m.picker.cursor < 0 || m.picker.cursor >= len(m.picker.rows) {
		return pickerRow{}, false
	}
	return m.picker.rows[m.picker.cursor], true
}

func (m *Model) clampPattern() {
	row, ok := m.pickerRow()
	if !ok || m.picker.patternIdx >= len(row.patterns) || m.picker.patternIdx < 0 {
		m.picker.patternIdx = 0
	}
}

func (m *Model) movePicker(delta int) {
	n := len(m.picker.rows)
	if n == 0 {
		return
	}
	m.picker.cursor = min(max(m.picker.cursor+delta, 0), n-1)
	m.picker.patternIdx = 0
}

// handlePickerKey processes keys while the category picker is open.
func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Categories):
		m.picker.open = false
		m.refreshActive(true)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.movePicker(-1)
	case key.Matches(msg, m.keys.Down):
		m.movePicker(1)
	case key.Matches(msg, m.keys.Top):
		m.movePicker(-len(m.picker.rows))
	case key.Matches(msg, m.keys.Bottom):
		m.movePicker(len(m.picker.rows))
	case key.Matches(msg, m.keys.HalfPageDown), key.Matches(msg, m.keys.PageDown):
		m.movePicker(m.contentHeight() / 2)
	case key.Matches(msg, m.keys.HalfPageUp), key.Matches(msg, m.keys.PageUp):
		m.movePicker(-m.contentHeight() / 2)

	case key.Matches(msg, m.keys.NextPattern):
		if row, ok := m.pickerRow(); ok && len(row.patterns) > 0 {
			m.picker.patternIdx = (m.picker.patternIdx + 1) % len(row.patterns)
		}
	case key.Matches(msg, m.keys.PrevPattern):
		if row, ok := m.pickerRow(); ok && len(row.patterns) > 0 {
			m.picker.patternIdx = (m.picker.patternIdx - 1 + len(row.patterns)) % len(row.patterns)
		}

	case key.Matches(msg, m.keys.ToggleShow):
		row, ok := m.pickerRow()
		if !ok {
			return m, nil
		}
		visible, err := m.session.Toggle(row.tag, m.activeWindow().dest)
		if err != nil {
			m.setMessage(fmt.Sprintf("toggle failed: %v", err), false)
			return m, nil
		}
		state := "hidden from"
		if visible {
			state = "shown in"
		}
		m.setMessage(fmt.Sprintf("%s %s %s", row.tag, state, m.activeWindow().title), true)

	case key.Matches(msg, m.keys.EditPattern):
		if row, ok := m.pickerRow(); ok && len(row.patterns) > 0 {
			m.openInput(inputPattern, row.patterns[m.picker.patternIdx],
				fmt.Sprintf("%s pattern %d", row.tag, m.picker.patternIdx+1))
		}

	case key.Matches(msg, m.keys.EditColor):
		if row, ok := m.pickerRow(); ok {
			m.openInput(inputColor, row.color, row.tag.Group+" color")
		}

	case key.Matches(msg, m.keys.Save):
		m.save()

	case key.Matches(msg, m.keys.Quit):
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.picker.open = false
		m.refreshActive(true)
		return m, nil
	}
	return m, nil
}

// renderPicker renders the category list for the active window.
func (m Model) renderPicker() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.width

	if len(m.picker.rows) == 0 {
		return bg.FillLine(bg.Render("No categories defined", styles.MutedText), width)
	}

	height := max(m.contentHeight()-2, 1)
	offset := 0
	if m.picker.cursor >= height {
		offset = m.picker.cursor - height + 1
	}

	var b strings.Builder
	title := fmt.Sprintf("Categories shown in %s", m.windows[m.active].title)
	b.WriteString(bg.FillLine(bg.Render(title, styles.AccentText.Bold(true)), width))
	b.WriteString("\n")

	end := min(offset+height, len(m.picker.rows))
	for i := offset; i < end; i++ {
		row := m.picker.rows[i]
		dest := m.windows[m.active].dest
		visible, _ := m.engine.GetVisible(row.tag, dest)
		held := fmt.Sprintf("(%d) ", m.engine.Held(dest, row.tag))
		mark := "[ ]"
		if visible {
			mark = "[x]"
		}
		tagStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(row.color))

		var line string
		if i == m.picker.cursor {
			sel := NewBgStyle(m.theme.SelectionBg)
			line = sel.Render(mark+" ", styles.Selected) +
				sel.Render(row.tag.Label(), tagStyle) +
				sel.Render(held, styles.Selected) +
				sel.Render(m.patternLabel(row), styles.Selected)
			b.WriteString(sel.FillLine(line, width))
		} else {
			line = bg.Render(mark+" ", styles.MutedText) +
				bg.Render(row.tag.Label(), tagStyle) +
				bg.Render(held, styles.MutedText) +
				bg.Render(m.patternLabel(row), styles.FaintText)
			b.WriteString(bg.FillLine(line, width))
		}
		b.WriteString("\n")
	}

	hint := fmt.Sprintf("%d of %d", m.picker.cursor+1, len(m.picker.rows))
	b.WriteString(bg.FillLine(bg.Render(hint, styles.FaintText), width))
	return b.String()
}

func (m Model) patternLabel(row pickerRow) string {
	if len(row.patterns) == 0 {
		return "(no patterns)"
	}
	idx := 0
	if m.picker.rows[m.picker.cursor].tag == row.tag {
		idx = m.picker.patternIdx
	}
	text := truncate(row.patterns[idx], 60)
	if len(row.patterns) > 1 {
		return fmt.Sprintf("%d/%d %s", idx+1, len(row.patterns), text)
	}
	return text
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) openInput(mode inputMode, value, label string) {
	m.mode = mode
	m.input.Prompt = label + ": "
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Width = max(m.width/2, 30)
	m.input.Focus()
}

func (m *Model) closeInput() {
	m.mode = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

// handleInputKey edits the text field; enter applies it, esc cancels.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeInput()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.applyInput(m.input.Value())
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyInput commits the edited value. A rejected pattern keeps the field
// open so it can be corrected.
func (m *Model) applyInput(value string) {
	switch m.mode {
	case inputRename:
		title := strings.TrimSpace(value)
		dest := m.activeWindow().dest
		m.prefs.SetTitle(dest, title)
		if title == "" {
			title = fmt.Sprintf("Window %d", dest+1)
		}
		m.activeWindow().title = title
		m.savePrefs()
		m.closeInput()

	case inputPattern:
		row, ok := m.pickerRow()
		if !ok {
			m.closeInput()
			return
		}
		if err := m.session.ReplacePattern(row.tag, m.picker.patternIdx, value); err != nil {
			m.setMessage(err.Error(), false)
			return
		}
		m.setMessage("pattern updated for "+row.tag.String(), true)
		m.refreshPicker()
		m.closeInput()

	case inputColor:
		row, ok := m.pickerRow()
		if !ok {
			m.closeInput()
			return
		}
		if err := m.session.SetGroupColor(row.tag.Group, value); err != nil {
			m.setMessage(err.Error(), false)
			return
		}
		m.setMessage("color updated for "+row.tag.Group, true)
		m.refreshPicker()
		m.closeInput()

	default:
		m.closeInput()
	}
}

func (m Model) renderInput() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	if m.message != "" && !m.messageOK {
		b.WriteString(styles.DangerText.Render(truncate(m.message, 80)))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("Enter: Apply  •  Esc: Cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(max(m.width*2/3, 40))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/crier/internal/engine"
)

// chromeHeight is the header, tab bar and command bar.
const chromeHeight = 3

func (m *Model) contentHeight() int {
	return max(m.height-chromeHeight, 1)
}

func (m *Model) resizeViewports() {
	for i := range m.windows {
		m.windows[i].viewport.Width = m.width
		m.windows[i].viewport.Height = m.contentHeight()
	}
}

// refreshActive re-renders the active window when the board changed since
// the last render, or unconditionally when force is set.
func (m *Model) refreshActive(force bool) {
	if !m.ready || m.board == nil || len(m.windows) == 0 {
		return
	}
	w := m.activeWindow()
	if !force && w.rendered != 0 && m.board.Version(w.dest) == w.rendered {
		return
	}
	entries, version := m.board.Entries(w.dest)
	w.viewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	w.viewport.SetContent(m.renderEntries(entries, w.showTags, w.viewport.Width))
	w.rendered = max(version, 1)
	if w.follow {
		w.viewport.GotoBottom()
	}
}

// renderEntries renders one line per entry: the optional tag prefix in the
// plain text color, then the body in the group color. Highlighted words
// take their own colors.
func (m *Model) renderEntries(entries []Entry, showTags bool, width int) string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	if len(entries) == 0 {
		return bg.FillLine(bg.Render("Waiting for announcements", styles.MutedText), width)
	}

	palette := m.board.Palette()
	var b strings.Builder
	for i, e := range entries {
		var line strings.Builder
		if showTags && e.Prefix != "" {
			line.WriteString(bg.Render(e.Prefix, styles.Text))
		}
		body := m.groupStyle(palette, e.Tag.Group, styles)
		for _, s := range e.Spans {
			line.WriteString(m.renderSpan(palette, s.Text, s.Color, bg, body))
		}
		b.WriteString(bg.FillLine(line.String(), width))
		if i < len(entries)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) groupStyle(p engine.Palette, group string, styles Styles) lipgloss.Style {
	if c := p.GroupColor(group); c != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return styles.Text
}

// renderSpan draws text in body unless color names a word color.
func (m *Model) renderSpan(p engine.Palette, text, color string, bg BgStyle, body lipgloss.Style) string {
	if color == "" {
		return bg.Render(text, body)
	}
	c, ok := p.WordColor(color)
	if !ok {
		return bg.Render(text, body)
	}
	style := body
	if c.FG != "" {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(c.FG))
	}
	if c.BG != "" {
		return style.Background(lipgloss.Color(c.BG)).Render(text)
	}
	return bg.Render(text, style)
}

// renderMain stacks header, tabs, content and command bar.
func (m Model) renderMain(content string) string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.FocusBg)).
		Width(m.width).
		Height(m.contentHeight()).
		MaxHeight(m.contentHeight()).
		Render(content))
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	return b.String()
}

func (m Model) renderTabs() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	tabs := make([]string, 0, len(m.windows))
	for i, w := range m.windows {
		label := truncate(w.title, 24)
		if i < 9 {
			label = string(rune('1'+i)) + " " + label
		}
		if i == m.active {
			tabs = append(tabs, styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, styles.InactiveTab.Render(label))
		}
	}
	return bg.FillLine(strings.Join(tabs, bg.Space()), m.width)
}

package ui

import (
	"fmt"
	"strings"
)

// renderHeader renders the status line.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	snap := m.snapshot

	parts := []string{bg.Render("crier", styles.Logo)}

	switch {
	case snap.IsOffline():
		parts = append(parts, bg.Render("● LOG UNREADABLE", styles.DangerText))
	case snap.LastUpdated.IsZero():
		parts = append(parts, bg.Render("● WAITING", styles.WarningText))
	default:
		parts = append(parts, bg.Render("● LIVE", styles.SuccessText))
	}

	parts = append(parts,
		bg.Render("Lines:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", snap.Lines), styles.Text),
		bg.Render("Matched:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", snap.Matched), styles.Text),
	)
	if snap.SinkErrors > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("Errors: %d", snap.SinkErrors), styles.DangerText))
	}
	if patterns, visibility := m.session.Dirty(); patterns || visibility {
		parts = append(parts, bg.Render("● unsaved", styles.WarningText))
	}

	if m.message != "" {
		style := styles.DangerText
		if m.messageOK {
			style = styles.AccentText
		}
		parts = append(parts, bg.Render(truncate(m.message, 60), style))
	} else if m.logPath != "" && m.width >= 100 {
		parts = append(parts, bg.Render(truncateMiddle(m.logPath, 50), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd
	if m.picker.open {
		commands = []cmd{
			{"j/k", "Navigate"},
			{"Space", "Show/Hide"},
			{"[/]", "Pattern"},
			{"e", "Edit"},
			{"C", "Color"},
			{"s", "Save"},
			{"esc", "Close"},
		}
	} else {
		w := m.windows[m.active]
		follow := "Pause"
		if !w.follow {
			follow = "Follow"
		}
		tags := "Hide tags"
		if !w.showTags {
			tags = "Show tags"
		}
		commands = []cmd{
			{"tab", "Window"},
			{"f", follow},
			{"t", tags},
			{"c", "Categories"},
			{"x", "Clear"},
			{"s", "Save"},
			{"r", "Reload"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// truncate shortens s to limit runes with an ellipsis.
func truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 {
		return ""
	}
	if len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}

// truncateMiddle shortens s keeping more of its end, which for paths is
// the file name.
func truncateMiddle(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 {
		return ""
	}
	if len(r) <= limit {
		return s
	}
	if limit <= 5 {
		return string(r[:limit])
	}
	endLen := (limit - 3) * 2 / 3
	startLen := limit - 3 - endLen
	return string(r[:startLen]) + "..." + string(r[len(r)-endLen:])
}

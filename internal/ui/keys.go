package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	NextWindow key.Binding
	PrevWindow key.Binding
	Escape     key.Binding
	Confirm    key.Binding

	// Window actions
	ToggleFollow key.Binding
	ToggleTags   key.Binding
	Categories   key.Binding
	Clear        key.Binding
	Rename       key.Binding
	OpenWindow   key.Binding
	CloseWindow  key.Binding

	// Configuration
	Save        key.Binding
	Reload      key.Binding
	ReloadWords key.Binding

	// Category picker
	ToggleShow  key.Binding
	EditPattern key.Binding
	EditColor   key.Binding
	NextPattern key.Binding
	PrevPattern key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		NextWindow: key.NewBinding(
			key.WithKeys("tab", "l", "right"),
			key.WithHelp("tab", "Next window"),
		),
		PrevWindow: key.NewBinding(
			key.WithKeys("shift+tab", "h", "left"),
			key.WithHelp("shift+tab", "Previous window"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Toggle follow"),
		),
		ToggleTags: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Toggle tags"),
		),
		Categories: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Categories"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear window"),
		),
		Rename: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Rename window"),
		),
		OpenWindow: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New window"),
		),
		CloseWindow: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Close window"),
		),

		Save: key.NewBinding(
			key.WithKeys("s", "ctrl+s"),
			key.WithHelp("s", "Save changes"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload filters"),
		),
		ReloadWords: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Reload word colors"),
		),

		ToggleShow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Show/hide in window"),
		),
		EditPattern: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit pattern"),
		),
		EditColor: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Edit group color"),
		),
		NextPattern: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Next pattern"),
		),
		PrevPattern: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Previous pattern"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextWindow, k.PrevWindow, k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp},
		{k.ToggleFollow, k.ToggleTags, k.Categories, k.Clear, k.Rename, k.OpenWindow, k.CloseWindow},
		{k.ToggleShow, k.PrevPattern, k.NextPattern, k.EditPattern, k.EditColor},
		{k.Save, k.Reload, k.ReloadWords, k.CycleTheme, k.Help, k.Quit},
	}
}

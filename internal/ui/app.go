package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/five82/crier/internal/config"
	"github.com/five82/crier/internal/engine"
	"github.com/five82/crier/internal/prefs"
	"github.com/five82/crier/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Engine    *engine.Engine
	Board     *Board
	Store     *state.Store
	Windows   []config.Window
	LogPath   string
	Prefs     prefs.Prefs
	PrefsPath string
	PollTick  time.Duration

	// ReloadFilters and ReloadWords re-read configuration from disk. They
	// run off the UI goroutine.
	ReloadFilters func(context.Context) error
	ReloadWords   func(context.Context) error
}

type window struct {
	dest     int
	title    string
	showTags bool
	follow   bool
	viewport viewport.Model
	rendered uint64
}

type inputMode int

const (
	inputNone inputMode = iota
	inputRename
	inputPattern
	inputColor
)

// Model is the root Bubble Tea model.
type Model struct {
	ctx           context.Context
	engine        *engine.Engine
	session       *engine.EditSession
	board         *Board
	store         *state.Store
	prefs         prefs.Prefs
	prefsPath     string
	logPath       string
	pollTick      time.Duration
	reloadFilters func(context.Context) error
	reloadWords   func(context.Context) error

	keys   keyMap
	theme  Theme
	width  int
	height int
	ready  bool

	windows []window
	active  int
	newTrim int

	snapshot  state.Snapshot
	message   string
	messageOK bool
	quitArmed bool

	showHelp bool
	picker   pickerState

	mode  inputMode
	input textinput.Model
}

// New creates the model. Configured window i shows destination i; windows
// opened later take the lowest free destination and the first window's trim.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = 250 * time.Millisecond
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	windows := make([]window, len(opts.Windows))
	for i, w := range opts.Windows {
		windows[i] = window{
			dest:     i,
			title:    opts.Prefs.Title(i, w.Title),
			showTags: true,
			follow:   true,
			viewport: viewport.New(0, 0),
		}
	}

	var newTrim int
	if len(opts.Windows) > 0 {
		newTrim = opts.Windows[0].Trim
	}

	ti := textinput.New()
	ti.CharLimit = 256

	return Model{
		ctx:           ctx,
		engine:        opts.Engine,
		session:       opts.Engine.Begin(),
		board:         opts.Board,
		store:         opts.Store,
		prefs:         opts.Prefs,
		prefsPath:     prefsPath,
		logPath:       opts.LogPath,
		pollTick:      pollTick,
		reloadFilters: opts.ReloadFilters,
		reloadWords:   opts.ReloadWords,
		keys:          DefaultKeyMap(),
		theme:         GetTheme(opts.Prefs.Theme),
		windows:       windows,
		newTrim:       newTrim,
		input:         ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, tickCmd(m.pollTick))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewports()
		m.refreshActive(true)
		return m, nil

	case tickMsg:
		if m.store != nil {
			m.snapshot = m.store.Snapshot()
		}
		m.refreshActive(false)
		return m, tickCmd(m.pollTick)

	case reloadMsg:
		if msg.err != nil {
			log.Warn().Err(msg.err).Str("what", msg.what).Msg("reload failed")
			m.setMessage(fmt.Sprintf("reload %s failed: %v", msg.what, msg.err), false)
		} else {
			m.setMessage("reloaded "+msg.what, true)
			if m.picker.open {
				m.refreshPicker()
			}
		}
		m.refreshActive(true)
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.mode != inputNone {
		return m.renderInput()
	}
	if m.picker.open {
		return m.renderMain(m.renderPicker())
	}
	return m.renderMain(m.activeWindow().viewport.View())
}

func (m *Model) setMessage(text string, ok bool) {
	m.message = text
	m.messageOK = ok
}

func (m *Model) activeWindow() *window {
	return &m.windows[m.active]
}

// Messages

type tickMsg time.Time

type reloadMsg struct {
	what string
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func reloadCmd(ctx context.Context, what string, fn func(context.Context) error) tea.Cmd {
	if fn == nil {
		return func() tea.Msg {
			return reloadMsg{what: what, err: fmt.Errorf("not available")}
		}
	}
	return func() tea.Msg {
		return reloadMsg{what: what, err: fn(ctx)}
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is done.
func Run(opts Options) error {
	if len(opts.Windows) == 0 {
		return fmt.Errorf("ui: no windows configured")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

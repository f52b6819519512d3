package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"reelgrip/internal/catalog"
	"reelgrip/internal/config"
	"reelgrip/internal/debounce"
	"reelgrip/internal/domain"
	"reelgrip/internal/eventbus"
	"reelgrip/internal/scope"
	"reelgrip/internal/ui/handlers"
	"reelgrip/internal/ui/viewmodels"
	"reelgrip/internal/ui/views"
)

// StatusDuration is how long a status message stays on screen
const StatusDuration = 5 * time.Second

// Options configures the root model
type Options struct {
	Store     catalog.Store
	Bus       eventbus.EventBus // optional
	Config    *config.Config
	Logger    zerolog.Logger
	Forwarder *Forwarder
	Filter    domain.Filter

	// ScopeOptions are added to every screen scope (tests install a fake clock)
	ScopeOptions []scope.Option
}

// Model is the Bubble Tea root model. It holds the navigation stack; the
// top screen receives keys and is rendered.
type Model struct {
	opts  Options
	log   zerolog.Logger
	quiet time.Duration

	stack []screen

	width    int
	height   int
	spinner  spinner.Model
	spinning bool

	status        string
	statusIsError bool
	statusSeq     int
	inPagerMode   bool

	render       *views.Renderer
	view         *viewmodels.ViewModel
	eventHandler *handlers.EventHandler
	forwarder    *Forwarder

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	opts.Config = cfg

	quiet, err := cfg.QuietPeriod()
	if err != nil {
		quiet = debounce.DefaultQuietPeriod
	}

	fwd := opts.Forwarder
	if fwd == nil {
		fwd = NewForwarder(DefaultForwardBuffer, opts.Logger)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	view := viewmodels.NewViewModel(cfg, textinput.New())
	return &Model{
		opts:         opts,
		log:          opts.Logger.With().Str("component", "ui").Logger(),
		quiet:        quiet,
		spinner:      sp,
		render:       views.NewRenderer(view.ShowRatings(), view.ShowReleaseYear()),
		view:         view,
		eventHandler: handlers.NewEventHandler(),
		forwarder:    fwd,
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// Init opens the movies list
func (m *Model) Init() tea.Cmd {
	return m.push(newMoviesScreen(m, m.opts.Filter, m.quiet))
}

// Close tears down every screen still on the stack
func (m *Model) Close() {
	for i := len(m.stack) - 1; i >= 0; i-- {
		m.stack[i].Close()
	}
	m.stack = nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.SetDimensions(msg.Width, msg.Height)
		for _, s := range m.stack {
			s.Resize(msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		top := m.top()
		if top == nil {
			return m, nil
		}
		cmd := top.HandleKey(msg)
		return m, tea.Batch(cmd, m.startSpinner())

	case stateChangedMsg:
		m.forwarder.ack(msg.scopeID)
		s := m.find(msg.scopeID)
		if s == nil {
			// The screen was closed after the change was queued
			return m, nil
		}
		cmd := s.Refresh()
		return m, tea.Batch(cmd, m.startSpinner())

	case spinner.TickMsg:
		if !m.anyLoading() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EventMsg:
		status, ok := m.eventHandler.HandleEvent(msg.Event)
		if !ok {
			return m, nil
		}
		return m, m.setStatus(status.Message, status.IsError)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusIsError = false
		}
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("pager failed")
			return m, m.setStatus("Pager failed: "+msg.err.Error(), true)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil
	}

	// Cursor blink and other text input messages
	if top, ok := m.top().(*moviesScreen); ok {
		return m, top.input.Update(msg)
	}
	return m, nil
}

// View renders the top screen
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	top := m.top()
	if top == nil {
		return ""
	}
	m.view.SetSpinner(m.spinner.View())
	m.view.SetStatus(m.status, m.statusIsError)
	return top.View(m.view, m.render)
}

func (m *Model) top() screen {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

func (m *Model) find(scopeID string) screen {
	for _, s := range m.stack {
		if s.ID() == scopeID {
			return s
		}
	}
	return nil
}

func (m *Model) anyLoading() bool {
	for _, s := range m.stack {
		if s.Loading() {
			return true
		}
	}
	return false
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning || !m.anyLoading() {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *Model) setStatus(message string, isError bool) tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	m.status = message
	m.statusIsError = isError
	return tea.Tick(StatusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// host

func (m *Model) push(s screen) tea.Cmd {
	m.stack = append(m.stack, s)
	m.log.Debug().Str("screen", s.ID()).Int("depth", len(m.stack)).Msg("push")
	if m.width > 0 || m.height > 0 {
		s.Resize(m.width, m.height)
	}
	return tea.Batch(s.Init(), m.startSpinner())
}

func (m *Model) pop() tea.Cmd {
	if len(m.stack) <= 1 {
		return m.quit()
	}
	top := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	top.Close()
	m.forwarder.ack(top.ID())
	m.log.Debug().Str("screen", top.ID()).Int("depth", len(m.stack)).Msg("pop")
	return nil
}

func (m *Model) changed(scopeID string) {
	m.forwarder.Changed(scopeID)
}

func (m *Model) pager(content string) tea.Cmd {
	return pagerCmd(m.program, content)
}

func (m *Model) quit() tea.Cmd {
	return tea.Quit
}

func (m *Model) deps() viewmodels.Deps {
	return viewmodels.Deps{
		Store:        m.opts.Store,
		Bus:          m.opts.Bus,
		Logger:       m.opts.Logger,
		PageSize:     m.opts.Config.PageSize,
		ScopeOptions: m.opts.ScopeOptions,
	}
}

func (m *Model) renderer() *views.Renderer {
	return m.render
}

func (m *Model) viewModel() *viewmodels.ViewModel {
	return m.view
}

// Package tui is the interactive phase screen: three phase tabs, the phase-1
// analysis with expandable framework cards, and keyboard navigation gated by
// the workflow controller.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/helmcode/strategy-ai/pkg/model"
	"github.com/helmcode/strategy-ai/pkg/presenter"
	"github.com/helmcode/strategy-ai/pkg/workflow"
)

const (
	headerHeight = 6
	footerHeight = 2
)

// phaseResultMsg carries a finished attempt back into Update.
type phaseResultMsg struct {
	result workflow.Result
}

type startMsg struct{}

type Option func(*Model)

// WithMarkdownStyle picks the glamour style for narratives: "auto" (default)
// detects the terminal background, anything else is a glamour style name.
func WithMarkdownStyle(style string) Option {
	return func(m *Model) {
		m.markdownStyle = style
	}
}

// WithAutoStart begins phase 1 as soon as the program starts.
func WithAutoStart() Option {
	return func(m *Model) {
		m.autoStart = true
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

type Model struct {
	runner *workflow.Runner
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger

	styles   Styles
	spinner  spinner.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer

	markdownStyle string
	autoStart     bool

	expanded presenter.ExpandedSet
	cursor   int
	notice   string

	width    int
	height   int
	ready    bool
	quitting bool
}

// New builds the screen over runner. Cancelling ctx, or quitting, aborts an
// in-flight request.
func New(ctx context.Context, runner *workflow.Runner, opts ...Option) Model {
	ctx, cancel := context.WithCancel(ctx)

	styles := DefaultStyles()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	m := Model{
		runner:        runner,
		ctx:           ctx,
		cancel:        cancel,
		logger:        zap.NewNop(),
		styles:        styles,
		spinner:       sp,
		viewport:      viewport.New(80, 20),
		markdownStyle: "auto",
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.renderer = newRenderer(m.markdownStyle, 80)
	return m
}

func newRenderer(style string, width int) *glamour.TermRenderer {
	if width < 20 {
		width = 20
	}
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStylePath(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil
	}
	return r
}

func (m Model) Init() tea.Cmd {
	if m.autoStart {
		return func() tea.Msg { return startMsg{} }
	}
	return nil
}

func (m Model) ctrl() *workflow.Controller {
	return m.runner.Controller()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := m.viewportHeight()
		if !m.ready {
			m.viewport = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = h
		}
		m.renderer = newRenderer(m.markdownStyle, msg.Width-4)
		m.viewport.SetContent(m.body())
		return m, nil

	case spinner.TickMsg:
		if m.ctrl().Status(workflow.PhaseCurrentPosition) != model.StatusLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd

	case startMsg:
		return m.start()

	case phaseResultMsg:
		if m.runner.Apply(msg.result) && msg.result.Err == nil {
			m.expanded = presenter.ExpandedSet{}
			m.cursor = 0
		}
		m.refresh()
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	ctrl := m.ctrl()
	follow := false

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		m.cancel()
		ctrl.Close()
		return m, tea.Quit

	case "1", "2", "3":
		m.navigate(workflow.Phase(msg.String()[0] - '0'))

	case "right", "tab":
		m.navigate(ctrl.Active() + 1)

	case "left", "shift+tab":
		m.navigate(ctrl.Active() - 1)

	case "s":
		return m.start()

	case "r":
		if ctrl.Status(ctrl.Active()) == model.StatusError {
			return m.start()
		}

	case "enter":
		if !m.showingCards() {
			return m.start()
		}
		m.toggleSelected()
		follow = true

	case " ":
		if m.showingCards() {
			m.toggleSelected()
			follow = true
		}

	case "up", "k":
		if m.showingCards() && m.cursor > 0 {
			m.cursor--
			follow = true
		}

	case "down", "j":
		if m.showingCards() && m.cursor < m.cardCount()-1 {
			m.cursor++
			follow = true
		}

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	m.refresh()
	if follow {
		m.followCursor()
	}
	return m, nil
}

func (m *Model) navigate(p workflow.Phase) {
	if !p.Valid() {
		return
	}
	if err := m.ctrl().SetActivePhase(p); err != nil {
		if errors.Is(err, workflow.ErrPhaseLocked) {
			m.notice = p.String() + " unlocks when the previous phase completes"
		}
		return
	}
	m.viewport.GotoTop()
}

// start begins an attempt on the active phase. Rejections (already running,
// already completed, not available) become a notice, never a second request.
func (m Model) start() (tea.Model, tea.Cmd) {
	attempt, err := m.runner.Start(m.ctrl().Active())
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrPhaseUnavailable):
			m.notice = m.ctrl().Active().String() + " analysis is not available yet"
		case errors.Is(err, workflow.ErrInFlight), errors.Is(err, workflow.ErrAlreadyCompleted):
		default:
			m.notice = err.Error()
		}
		m.refresh()
		return m, nil
	}

	m.logger.Debug("Analysis requested", zap.Int("phase", int(attempt.Ticket.Phase)))
	ctx := m.ctx
	run := func() tea.Msg {
		return phaseResultMsg{result: attempt.Run(ctx)}
	}
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, run)
}

func (m Model) showingCards() bool {
	ctrl := m.ctrl()
	return ctrl.Active() == workflow.PhaseCurrentPosition &&
		ctrl.Status(workflow.PhaseCurrentPosition) == model.StatusCompleted &&
		m.cardCount() > 0
}

func (m Model) cardCount() int {
	r := m.ctrl().Report()
	if r == nil {
		return 0
	}
	return len(r.Phase1.FrameworksAnalysis)
}

func (m *Model) toggleSelected() {
	ids := m.ctrl().Report().FrameworkIDs()
	if m.cursor < 0 || m.cursor >= len(ids) {
		return
	}
	m.expanded.Toggle(ids[m.cursor])
}

// Expanded returns a copy of the open card ids.
func (m Model) Expanded() presenter.ExpandedSet {
	return m.expanded.Clone()
}

// viewportHeight is the room left for the body once the header, the footer
// and an optional notice row are drawn.
func (m Model) viewportHeight() int {
	h := m.height - headerHeight - footerHeight
	if m.notice != "" {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) refresh() {
	if m.ready {
		m.viewport.Height = m.viewportHeight()
		m.viewport.SetContent(m.body())
	}
}

// followCursor scrolls the viewport just enough to show the selected card,
// keeping its header in view when the card is taller than the viewport.
func (m *Model) followCursor() {
	if !m.ready {
		return
	}
	_, spans := m.layout(presenter.Build(m.ctrl().Report(), m.expanded))
	if m.cursor < 0 || m.cursor >= len(spans) {
		return
	}
	span := spans[m.cursor]
	top := m.viewport.YOffset
	switch {
	case span.start < top:
		m.viewport.SetYOffset(span.start)
	case span.end > top+m.viewport.Height:
		m.viewport.SetYOffset(min(span.end-m.viewport.Height, span.start))
	}
}

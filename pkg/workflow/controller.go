// Package workflow drives the three-phase analysis: per-phase lifecycle
// status, navigation gating and the application of call results.
//
// A Controller belongs to a single goroutine (the CLI command or the TUI
// event loop) and is not safe for concurrent use.
package workflow

import (
	"errors"
	"fmt"

	"github.com/helmcode/strategy-ai/pkg/client"
	"github.com/helmcode/strategy-ai/pkg/model"
)

// Phase identifies one stage of the workflow, 1 through 3.
type Phase int

const (
	PhaseCurrentPosition Phase = iota + 1
	PhaseDirection
	PhaseExecution
)

// Phases lists every phase in order.
var Phases = []Phase{PhaseCurrentPosition, PhaseDirection, PhaseExecution}

func (p Phase) Valid() bool {
	return p >= PhaseCurrentPosition && p <= PhaseExecution
}

// Title is the question the phase answers.
func (p Phase) Title() string {
	switch p {
	case PhaseCurrentPosition:
		return "Where Are We Now?"
	case PhaseDirection:
		return "Where Should We Go?"
	case PhaseExecution:
		return "How to Get There?"
	default:
		return "Unknown"
	}
}

func (p Phase) String() string {
	return fmt.Sprintf("Phase %d", int(p))
}

var (
	ErrUnknownPhase     = errors.New("unknown phase")
	ErrPhaseUnavailable = errors.New("phase has no analysis available yet")
	ErrPhaseLocked      = errors.New("phase is locked until the previous phase completes")
	ErrInFlight         = errors.New("analysis already in progress")
	ErrAlreadyCompleted = errors.New("analysis already completed")
	ErrControllerClosed = errors.New("workflow closed")
)

// Ticket identifies one attempt of a phase. Results carrying a ticket that is
// no longer current are discarded.
type Ticket struct {
	Phase Phase
	seq   uint64
}

type phaseState struct {
	status  model.PhaseStatus
	current uint64
	history []model.PhaseStatus
}

// Controller holds the workflow state of one analysis run.
type Controller struct {
	active   Phase
	phases   map[Phase]*phaseState
	report   *model.Report
	errMsg   string
	detail   string
	seq      uint64
	closed   bool
	onChange func(Phase, model.PhaseStatus)
}

// NewController returns a controller with every phase idle and phase 1 active.
func NewController() *Controller {
	c := &Controller{
		active: PhaseCurrentPosition,
		phases: make(map[Phase]*phaseState, len(Phases)),
	}
	for _, p := range Phases {
		c.phases[p] = &phaseState{
			status:  model.StatusIdle,
			history: []model.PhaseStatus{model.StatusIdle},
		}
	}
	return c
}

// OnStatusChange registers a hook called after every status transition.
func (c *Controller) OnStatusChange(fn func(Phase, model.PhaseStatus)) {
	c.onChange = fn
}

// Initiable reports whether a phase has an initiating action at all. Only
// phase 1 has a request contract today.
func Initiable(p Phase) bool {
	return p == PhaseCurrentPosition
}

// Begin moves a phase from idle or error to loading and returns the ticket
// of the new attempt. The previous error message is cleared.
func (c *Controller) Begin(p Phase) (Ticket, error) {
	if c.closed {
		return Ticket{}, ErrControllerClosed
	}
	st, ok := c.phases[p]
	if !ok {
		return Ticket{}, fmt.Errorf("%w: %d", ErrUnknownPhase, int(p))
	}
	if !Initiable(p) {
		return Ticket{}, fmt.Errorf("%s: %w", p, ErrPhaseUnavailable)
	}

	switch st.status {
	case model.StatusLoading:
		return Ticket{}, fmt.Errorf("%s: %w", p, ErrInFlight)
	case model.StatusCompleted:
		return Ticket{}, fmt.Errorf("%s: %w", p, ErrAlreadyCompleted)
	}

	c.seq++
	st.current = c.seq
	c.errMsg = ""
	c.detail = ""
	c.transition(p, model.StatusLoading)
	return Ticket{Phase: p, seq: st.current}, nil
}

// Complete stores the report of a successful attempt. It returns false and
// leaves the state untouched when the ticket is stale or the controller is
// closed.
func (c *Controller) Complete(t Ticket, report *model.Report) bool {
	if !c.accepts(t) {
		return false
	}
	c.report = report
	c.transition(t.Phase, model.StatusCompleted)
	return true
}

// Fail records a failed attempt. Like Complete, stale results are ignored.
func (c *Controller) Fail(t Ticket, err error) bool {
	if !c.accepts(t) {
		return false
	}
	c.errMsg = errorMessage(t.Phase, err)
	c.detail = ""
	var pe *client.PhaseError
	if errors.As(err, &pe) {
		c.detail = pe.Detail
	}
	c.transition(t.Phase, model.StatusError)
	return true
}

// Close tears the controller down. Results that arrive afterwards are dropped.
func (c *Controller) Close() {
	c.closed = true
}

func (c *Controller) Closed() bool {
	return c.closed
}

// CanNavigate reports whether phase p can be shown: phase 1 always, later
// phases only once their predecessor completed.
func (c *Controller) CanNavigate(p Phase) bool {
	if !p.Valid() {
		return false
	}
	if p == PhaseCurrentPosition {
		return true
	}
	return c.phases[p-1].status == model.StatusCompleted
}

// SetActivePhase changes the displayed phase and nothing else.
func (c *Controller) SetActivePhase(p Phase) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownPhase, int(p))
	}
	if !c.CanNavigate(p) {
		return fmt.Errorf("%s: %w", p, ErrPhaseLocked)
	}
	c.active = p
	return nil
}

func (c *Controller) Active() Phase {
	return c.active
}

// Status returns the lifecycle status of p; unknown phases read as idle.
func (c *Controller) Status(p Phase) model.PhaseStatus {
	st, ok := c.phases[p]
	if !ok {
		return model.StatusIdle
	}
	return st.status
}

// History returns the ordered statuses phase p has been through.
func (c *Controller) History(p Phase) []model.PhaseStatus {
	st, ok := c.phases[p]
	if !ok {
		return nil
	}
	out := make([]model.PhaseStatus, len(st.history))
	copy(out, st.history)
	return out
}

// Report is the phase-1 report of the latest successful attempt, or nil.
func (c *Controller) Report() *model.Report {
	return c.report
}

// ErrorMessage is the message of the latest failed attempt, or "".
func (c *Controller) ErrorMessage() string {
	return c.errMsg
}

// ErrorDetail is the service-provided detail of the latest failed attempt,
// or "" when the service sent none.
func (c *Controller) ErrorDetail() string {
	return c.detail
}

func (c *Controller) accepts(t Ticket) bool {
	if c.closed {
		return false
	}
	st, ok := c.phases[t.Phase]
	if !ok {
		return false
	}
	return st.status == model.StatusLoading && st.current == t.seq && t.seq != 0
}

func (c *Controller) transition(p Phase, s model.PhaseStatus) {
	st := c.phases[p]
	st.status = s
	st.history = append(st.history, s)
	if c.onChange != nil {
		c.onChange(p, s)
	}
}

// errorMessage normalises any failure into one human-readable line.
func errorMessage(p Phase, err error) string {
	if err == nil || err.Error() == "" {
		return fmt.Sprintf("Failed to generate %s analysis", p)
	}
	return err.Error()
}

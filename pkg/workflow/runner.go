package workflow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/helmcode/strategy-ai/pkg/client"
	"github.com/helmcode/strategy-ai/pkg/model"
	"github.com/helmcode/strategy-ai/pkg/profile"
	"github.com/helmcode/strategy-ai/pkg/store"
)

// Runner issues phase calls on behalf of a Controller. The assessment is
// read from the source on every attempt, never cached.
type Runner struct {
	ctrl     *Controller
	source   store.Source
	analyzer client.Analyzer
	logger   *zap.Logger
}

// NewRunner wires a controller to its data source and analysis service.
// A nil source means an empty assessment. The runner takes over the
// controller's status hook to debug-log every transition.
func NewRunner(ctrl *Controller, source store.Source, analyzer client.Analyzer, logger *zap.Logger) *Runner {
	if source == nil {
		source = store.Static{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctrl.OnStatusChange(func(p Phase, s model.PhaseStatus) {
		logger.Debug("Phase status changed",
			zap.Int("phase", int(p)),
			zap.String("status", string(s)),
			zap.Any("history", ctrl.History(p)),
		)
	})
	return &Runner{
		ctrl:     ctrl,
		source:   source,
		analyzer: analyzer,
		logger:   logger,
	}
}

func (r *Runner) Controller() *Controller {
	return r.ctrl
}

// Attempt is a phase call that has been started on the controller but not
// yet sent. Run touches no controller state, so it may execute on another
// goroutine; its Result must be handed back through Apply.
type Attempt struct {
	Ticket Ticket

	source   store.Source
	analyzer client.Analyzer
	logger   *zap.Logger
}

// Result is the outcome of one Attempt.
type Result struct {
	Ticket Ticket
	Report *model.Report
	Err    error
}

// Start moves phase p to loading and returns the attempt to run.
func (r *Runner) Start(p Phase) (*Attempt, error) {
	t, err := r.ctrl.Begin(p)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Phase started", zap.Int("phase", int(p)))
	return &Attempt{
		Ticket:   t,
		source:   r.source,
		analyzer: r.analyzer,
		logger:   r.logger,
	}, nil
}

// Run loads the assessment, builds the request and performs the single
// network call of the attempt.
func (a *Attempt) Run(ctx context.Context) Result {
	res := Result{Ticket: a.Ticket}
	start := time.Now()

	data, err := a.source.Load(ctx)
	if err != nil {
		res.Err = fmt.Errorf("failed to load assessment: %w", err)
		return res
	}

	req := profile.NewPhase1Request(data)
	res.Report, res.Err = a.analyzer.AnalyzePhase1(ctx, req)

	a.logger.Debug("Phase call finished",
		zap.Int("phase", int(a.Ticket.Phase)),
		zap.Duration("duration", time.Since(start)),
		zap.Bool("ok", res.Err == nil),
	)
	return res
}

// Apply hands a result back to the controller. It returns false when the
// result was discarded because the attempt is stale or the workflow closed.
func (r *Runner) Apply(res Result) bool {
	var applied bool
	if res.Err != nil {
		applied = r.ctrl.Fail(res.Ticket, res.Err)
	} else {
		applied = r.ctrl.Complete(res.Ticket, res.Report)
	}

	if !applied {
		r.logger.Debug("Discarded late phase result",
			zap.Int("phase", int(res.Ticket.Phase)),
			zap.Bool("closed", r.ctrl.Closed()),
		)
		return false
	}
	if res.Err != nil {
		r.logger.Warn("Phase failed", zap.Int("phase", int(res.Ticket.Phase)), zap.Error(res.Err))
	} else {
		r.logger.Info("Phase completed", zap.Int("phase", int(res.Ticket.Phase)))
	}
	return true
}

// Advance runs phase p to completion on the calling goroutine. It returns
// the call error, which is also stored on the controller.
func (r *Runner) Advance(ctx context.Context, p Phase) error {
	attempt, err := r.Start(p)
	if err != nil {
		return err
	}
	res := attempt.Run(ctx)
	if !r.Apply(res) {
		return ErrControllerClosed
	}
	return res.Err
}

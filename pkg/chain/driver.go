package chain

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/ports"
)

// Stats summarises a chain run.
type Stats struct {
	Completed  int
	RangeTotal int
	// LastSequence is the sequence of the last completed cell, 0 if none.
	LastSequence int
	Elapsed      time.Duration
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.Logger = logger
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.JobHooks) Option {
	return func(d *Driver) {
		d.Hooks = hooks
	}
}

// WithJobName sets the job label reported in cell events.
func WithJobName(name string) Option {
	return func(d *Driver) {
		d.JobName = name
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		d.Clock = now
	}
}

// Driver runs jobs one after another against a single session.
type Driver struct {
	Session ports.Session
	Hooks   domain.JobHooks
	JobName string
	Clock   func() time.Time
	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger
}

// NewDriver creates a driver bound to session.
func NewDriver(session ports.Session, opts ...Option) *Driver {
	d := &Driver{
		Session: session,
		JobName: "chain",
		Clock:   time.Now,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run drives jobs until the sequence ends, a job fails, or ctx is cancelled.
// Any error is a *domain.CellError naming the cell that did not complete.
func (d *Driver) Run(ctx context.Context, jobs iter.Seq[Job]) (Stats, error) {
	started := d.Clock()
	var stats Stats

	for job := range jobs {
		step := job.Describe()
		stats.RangeTotal = step.RangeTotal

		if err := ctx.Err(); err != nil {
			return d.finish(stats, started), d.fail(ctx, step, d.Clock(), cellError(step, domain.PhaseWait, err))
		}

		jobStart := d.Clock()
		d.emit(ctx, d.Hooks.OnCellStart, domain.EventCellStart, step, 0, nil)
		d.Logger.Debug("cell started", "job", d.JobName, "posid", step.PosID, "seq", step.Sequence, "range_index", step.RangeIndex)

		if err := d.runJob(ctx, job, step); err != nil {
			return d.finish(stats, started), d.fail(ctx, step, jobStart, err)
		}

		stats.Completed++
		stats.LastSequence = step.Sequence
		elapsed := d.Clock().Sub(jobStart)
		d.emit(ctx, d.Hooks.OnCellDone, domain.EventCellDone, step, elapsed, nil)
		d.Logger.Debug("cell done", "job", d.JobName, "posid", step.PosID, "seq", step.Sequence, "duration", elapsed)
	}

	return d.finish(stats, started), nil
}

func (d *Driver) runJob(ctx context.Context, job Job, step Step) error {
	op, err := job.Run(ctx, d.Session)
	if err != nil {
		return cellError(step, domain.PhaseRun, err)
	}
	if op != nil {
		if err := op.Wait(ctx); err != nil {
			return cellError(step, domain.PhaseWait, err)
		}
	}
	if err := job.Complete(ctx, d.Session); err != nil {
		return cellError(step, domain.PhaseComplete, err)
	}
	return nil
}

func (d *Driver) fail(ctx context.Context, step Step, jobStart time.Time, err error) error {
	d.emit(ctx, d.Hooks.OnCellFailed, domain.EventCellFailed, step, d.Clock().Sub(jobStart), err)
	d.Logger.Debug("cell failed", "job", d.JobName, "posid", step.PosID, "seq", step.Sequence, "err", err)
	return err
}

func (d *Driver) finish(stats Stats, started time.Time) Stats {
	stats.Elapsed = d.Clock().Sub(started)
	return stats
}

func (d *Driver) emit(ctx context.Context, hook func(context.Context, *domain.CellEvent), typ domain.EventType, step Step, elapsed time.Duration, err error) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.CellEvent{
		Timestamp:  d.Clock(),
		Type:       typ,
		Job:        d.JobName,
		PosID:      step.PosID,
		Sequence:   step.Sequence,
		Total:      step.Total,
		RangeIndex: step.RangeIndex,
		RangeTotal: step.RangeTotal,
		Duration:   elapsed,
		Err:        err,
	})
}

// cellError tags err with the step's cell. A job that already returned a
// CellError keeps its own phase.
func cellError(step Step, phase string, err error) error {
	var ce *domain.CellError
	if errors.As(err, &ce) {
		if ce.PosID == "" {
			ce.PosID = step.PosID
		}
		if ce.Sequence == 0 {
			ce.Sequence = step.Sequence
		}
		return ce
	}
	return &domain.CellError{PosID: step.PosID, Sequence: step.Sequence, Phase: phase, Err: err}
}

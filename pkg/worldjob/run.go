package worldjob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/voxport/pkg/chain"
	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/ports"
	"github.com/aretw0/voxport/pkg/progress"
)

// DefaultLockTTL bounds how long a crashed run keeps its world locked.
const DefaultLockTTL = time.Hour

// Option configures an Exporter or an Importer.
type Option func(*runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *runner) {
		r.logger = logger
	}
}

// WithLocker sets the locker guarding the world. Without one, runs are not
// serialised.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(r *runner) {
		r.locker = locker
		r.lockTTL = ttl
	}
}

// WithHooks registers chain lifecycle callbacks, e.g. metrics.
func WithHooks(hooks domain.JobHooks) Option {
	return func(r *runner) {
		r.hooks = append(r.hooks, hooks)
	}
}

// WithOutput sets where the range banner and progress lines are written.
func WithOutput(w io.Writer) Option {
	return func(r *runner) {
		r.out = w
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *runner) {
		r.now = now
	}
}

// runner holds what exports and imports share.
type runner struct {
	session    ports.Session
	manifests  ports.ManifestStore
	schematics ports.SchematicStore
	locker     ports.DistributedLocker
	lockTTL    time.Duration
	hooks      []domain.JobHooks
	out        io.Writer
	now        func() time.Time
	logger     *slog.Logger
}

func newRunner(session ports.Session, manifests ports.ManifestStore, schematics ports.SchematicStore, opts []Option) runner {
	r := runner{
		session:    session,
		manifests:  manifests,
		schematics: schematics,
		lockTTL:    DefaultLockTTL,
		out:        io.Discard,
		now:        time.Now,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// hold acquires the world lock and keeps it alive until release is called.
// The returned context is cancelled, with a cause wrapping
// domain.ErrWorldLocked, if the lease is lost while the run is in progress.
func (r *runner) hold(ctx context.Context, world string) (context.Context, func(), error) {
	if r.locker == nil {
		return ctx, func() {}, nil
	}
	lease, err := r.locker.Lock(ctx, world, r.lockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrWorldLocked) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %s: %w", domain.ErrWorldLocked, world, err)
	}

	runCtx, cancel := context.WithCancelCause(ctx)
	done := make(chan struct{})
	var wg sync.WaitGroup
	if r.lockTTL > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.keepAlive(runCtx, world, lease, done, cancel)
		}()
	}

	release := func() {
		close(done)
		wg.Wait()
		cancel(nil)

		// The run's context may already be cancelled; the lock must still go.
		unlockCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := lease.Unlock(unlockCtx); err != nil {
			r.logger.Warn("failed to release world lock", "world", world, "err", err)
		}
	}
	return runCtx, release, nil
}

// keepAlive refreshes lease three times per TTL. A lease taken over by another
// holder cancels the run; other refresh errors are retried on the next tick.
func (r *runner) keepAlive(ctx context.Context, world string, lease ports.Lease, done <-chan struct{}, cancel context.CancelCauseFunc) {
	ticker := time.NewTicker(max(r.lockTTL/3, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		err := lease.Refresh(ctx, r.lockTTL)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrWorldLocked):
			r.logger.Error("world lock lost", "world", world, "err", err)
			cancel(err)
			return
		case ctx.Err() != nil:
			return
		default:
			r.logger.Warn("failed to refresh world lock", "world", world, "err", err)
		}
	}
}

// leaseError reports a chain stopped by a lost lease as that loss rather than
// as a plain cancellation.
func leaseError(ctx context.Context, err error) error {
	cause := context.Cause(ctx)
	if err == nil || cause == nil || !errors.Is(cause, domain.ErrWorldLocked) {
		return err
	}
	var cellErr *domain.CellError
	if errors.As(err, &cellErr) {
		cellErr.Err = cause
		return cellErr
	}
	return cause
}

// drive runs cells through the chain for job ("export" or "import").
func (r *runner) drive(ctx context.Context, job string, cells iter.Seq[domain.Cell], total int, rng domain.Range, build func(chain.Step) chain.Job) (chain.Stats, error) {
	start := r.now()
	jobs, rangeTotal, err := chain.Plan(cells, total, rng, start, build)
	if err != nil {
		return chain.Stats{}, err
	}
	first, last, _ := rng.Resolve(total)
	fmt.Fprintf(r.out, "%d-%d/%d(%d)\n", first, last, total, rangeTotal)

	tracker := progress.NewTracker(start, r.now)
	report := domain.JobHooks{
		OnCellDone: func(_ context.Context, e *domain.CellEvent) {
			fmt.Fprintln(r.out, tracker.Line(progress.Step{
				Sequence:   e.Sequence,
				Total:      e.Total,
				RangeIndex: e.RangeIndex,
				RangeTotal: e.RangeTotal,
			}))
			r.logger.Debug(progress.MemoryLine(), "posid", e.PosID, "seq", e.Sequence)
		},
	}
	hooks := domain.MergeHooks(append([]domain.JobHooks{report}, r.hooks...)...)

	driver := chain.NewDriver(r.session,
		chain.WithHooks(hooks),
		chain.WithJobName(job),
		chain.WithClock(r.now),
		chain.WithLogger(r.logger),
	)
	stats, err := driver.Run(ctx, jobs)
	return stats, leaseError(ctx, err)
}

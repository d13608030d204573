package chain

import (
	"context"
	"iter"
	"time"

	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/ports"
)

// Step describes one cell job.
type Step struct {
	PosID string
	// Sequence is the 1-based position of the cell in the whole grid.
	Sequence int
	// Total is the number of cells in the whole grid.
	Total int
	// RangeIndex is the 1-based position of the cell inside the selected range.
	RangeIndex int
	RangeTotal int
	From       domain.Vec3
	To         domain.Vec3
	// StartTime is when the chain started; shared by every step of a run.
	StartTime time.Time
}

// IsLast reports whether the step is the last one of its range.
func (s Step) IsLast() bool {
	return s.RangeIndex == s.RangeTotal
}

// Job is one link of the chain.
type Job interface {
	Describe() Step
	// Run is the primary phase. It starts the job's asynchronous operation.
	Run(ctx context.Context, s ports.Session) (ports.Operation, error)
	// Complete is the completion phase, run once the operation has finished.
	Complete(ctx context.Context, s ports.Session) error
}

// Plan yields a job for every cell of the range, in traversal order. Cells
// before the range advance the sequence number without building a job, and
// iteration ends at the last cell of the range.
func Plan(cells iter.Seq[domain.Cell], total int, rng domain.Range, start time.Time, build func(Step) Job) (iter.Seq[Job], int, error) {
	first, last, err := rng.Resolve(total)
	if err != nil {
		return nil, 0, err
	}
	rangeTotal := last - first + 1

	seq := func(yield func(Job) bool) {
		n := 0
		for cell := range cells {
			n++
			if n < first {
				continue
			}
			if n > last {
				return
			}
			step := Step{
				PosID:      cell.PosID(),
				Sequence:   n,
				Total:      total,
				RangeIndex: n - first + 1,
				RangeTotal: rangeTotal,
				From:       cell.From,
				To:         cell.To,
				StartTime:  start,
			}
			if !yield(build(step)) {
				return
			}
		}
	}
	return seq, rangeTotal, nil
}

// Package progress estimates the remaining time of a chain and formats the
// per-cell progress line.
package progress

import (
	"fmt"
	"runtime"
	"time"
)

// Step is the slice of a cell descriptor the tracker needs.
type Step struct {
	Sequence   int
	Total      int
	RangeIndex int
	RangeTotal int
}

// EstimateRemaining extrapolates the average time per completed cell over
// the cells still to run in the range. It returns zero until a cell completes.
func EstimateRemaining(start, now time.Time, totalInRange, completedInRange int) time.Duration {
	if completedInRange <= 0 || totalInRange <= completedInRange {
		return 0
	}
	elapsed := now.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	perCell := elapsed / time.Duration(completedInRange)
	return perCell * time.Duration(totalInRange-completedInRange)
}

// FormatETA renders d as HH:MM:SS. Hours are not capped at 24.
func FormatETA(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// Tracker produces progress lines for one chain run.
type Tracker struct {
	start time.Time
	now   func() time.Time
}

// NewTracker returns a tracker measuring from start. A nil clock uses time.Now.
func NewTracker(start time.Time, clock func() time.Time) *Tracker {
	if clock == nil {
		clock = time.Now
	}
	return &Tracker{start: start, now: clock}
}

// Remaining estimates the time left after step has completed.
func (t *Tracker) Remaining(step Step) time.Duration {
	return EstimateRemaining(t.start, t.now(), step.RangeTotal, step.RangeIndex)
}

// Line formats the completion line of step:
//
//	<seq>/<total>(<rangeIdx>/<rangeTotal>) done. time-left=HH:MM:SS
func (t *Tracker) Line(step Step) string {
	return fmt.Sprintf("%d/%d(%d/%d) done. time-left=%s",
		step.Sequence, step.Total, step.RangeIndex, step.RangeTotal, FormatETA(t.Remaining(step)))
}

// MemoryLine reports heap usage against memory obtained from the OS.
func MemoryLine() string {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return formatMemory(ms.HeapAlloc, ms.Sys)
}

func formatMemory(used, sys uint64) string {
	const mb = 1 << 20
	pct := 0
	if sys > 0 {
		pct = int(used * 100 / sys)
	}
	return fmt.Sprintf("Memory usage: %d%% %d/%dM", pct, used/mb, sys/mb)
}

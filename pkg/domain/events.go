package domain

import (
	"context"
	"time"
)

// EventType defines the category of a cell event.
type EventType string

const (
	EventCellStart  EventType = "cell_start"
	EventCellDone   EventType = "cell_done"
	EventCellFailed EventType = "cell_failed"
)

// CellEvent describes a transition of one cell job.
type CellEvent struct {
	Timestamp  time.Time     `json:"timestamp"`
	Type       EventType     `json:"type"`
	Job        string        `json:"job"`
	PosID      string        `json:"posid"`
	Sequence   int           `json:"sequence"`
	Total      int           `json:"total"`
	RangeIndex int           `json:"range_index"`
	RangeTotal int           `json:"range_total"`
	Duration   time.Duration `json:"duration,omitempty"`
	Err        error         `json:"-"`
}

// JobHooks defines callbacks for chain observability. Nil callbacks are skipped.
type JobHooks struct {
	OnCellStart  func(context.Context, *CellEvent)
	OnCellDone   func(context.Context, *CellEvent)
	OnCellFailed func(context.Context, *CellEvent)
}

// MergeHooks fans each callback out to every non-nil hook in order.
func MergeHooks(hooks ...JobHooks) JobHooks {
	return JobHooks{
		OnCellStart: func(ctx context.Context, e *CellEvent) {
			for _, h := range hooks {
				if h.OnCellStart != nil {
					h.OnCellStart(ctx, e)
				}
			}
		},
		OnCellDone: func(ctx context.Context, e *CellEvent) {
			for _, h := range hooks {
				if h.OnCellDone != nil {
					h.OnCellDone(ctx, e)
				}
			}
		},
		OnCellFailed: func(ctx context.Context, e *CellEvent) {
			for _, h := range hooks {
				if h.OnCellFailed != nil {
					h.OnCellFailed(ctx, e)
				}
			}
		},
	}
}

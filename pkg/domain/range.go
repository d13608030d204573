package domain

import "fmt"

// Range is an inclusive, 1-based sub-interval of the cell sequence.
// To == -1 means "through the last cell".
type Range struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// FullRange selects every cell.
var FullRange = Range{From: 1, To: -1}

// Resolve returns the concrete first and last sequence numbers of the range
// for a sequence of total cells.
func (r Range) Resolve(total int) (first, last int, err error) {
	if total < 1 {
		return 0, 0, fmt.Errorf("%w: empty cell sequence", ErrInvalidArgument)
	}
	if r.From < 1 {
		return 0, 0, fmt.Errorf("%w: from must be >= 1, got %d", ErrInvalidArgument, r.From)
	}
	if r.From > total {
		return 0, 0, fmt.Errorf("%w: from %d is past the last cell (%d)", ErrInvalidArgument, r.From, total)
	}
	last = r.To
	if last == -1 {
		last = total
	}
	if last < r.From {
		return 0, 0, fmt.Errorf("%w: to %d is before from %d", ErrInvalidArgument, r.To, r.From)
	}
	if last > total {
		return 0, 0, fmt.Errorf("%w: to %d is past the last cell (%d)", ErrInvalidArgument, r.To, total)
	}
	return r.From, last, nil
}

// Len returns the number of cells the range selects out of total, or 0 if
// the range is invalid for total.
func (r Range) Len(total int) int {
	first, last, err := r.Resolve(total)
	if err != nil {
		return 0
	}
	return last - first + 1
}

// String renders the range the way the progress banner prints it: "from-to".
func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

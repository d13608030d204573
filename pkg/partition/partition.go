package partition

import (
	"fmt"
	"iter"

	"github.com/aretw0/voxport/pkg/domain"
)

// Partition derives the per-axis cell counts for box with cells no longer than
// maxEdge along any axis.
func Partition(box domain.BoundingBox, maxEdge int) (domain.GridSpec, error) {
	if maxEdge <= 0 {
		return domain.GridSpec{}, fmt.Errorf("%w: max edge must be positive, got %d", domain.ErrInvalidArgument, maxEdge)
	}
	d := box.Diff()
	return domain.GridSpec{
		MaxEdge: maxEdge,
		NumX:    axisCount(d.X, maxEdge),
		NumY:    axisCount(d.Y, maxEdge),
		NumZ:    axisCount(d.Z, maxEdge),
	}, nil
}

// CellBounds returns the from/to corners of the cell at idx.
func CellBounds(box domain.BoundingBox, grid domain.GridSpec, idx domain.CellIndex) (from, to domain.Vec3) {
	d := box.Diff()
	c1, c2 := box.Corner1, box.Corner2

	from.X, to.X = axisBounds(c1.X, c2.X, d.X, grid.NumX, grid.MaxEdge, idx.I)
	from.Y, to.Y = axisBounds(c1.Y, c2.Y, d.Y, grid.NumY, grid.MaxEdge, idx.J)
	from.Z, to.Z = axisBounds(c1.Z, c2.Z, d.Z, grid.NumZ, grid.MaxEdge, idx.K)
	return from, to
}

// Cells lazily yields every cell of the grid in traversal order.
func Cells(box domain.BoundingBox, grid domain.GridSpec) iter.Seq[domain.Cell] {
	return func(yield func(domain.Cell) bool) {
		seq := 0
		for i := 0; i < grid.NumX; i++ {
			for j := 0; j < grid.NumY; j++ {
				for k := 0; k < grid.NumZ; k++ {
					seq++
					idx := domain.CellIndex{I: i, J: j, K: k}
					from, to := CellBounds(box, grid, idx)
					if !yield(domain.Cell{Index: idx, Sequence: seq, From: from, To: to}) {
						return
					}
				}
			}
		}
	}
}

// axisCount is ceil(|diff| / maxEdge), at least 1.
func axisCount(diff, maxEdge int) int {
	n := (abs(diff) + maxEdge - 1) / maxEdge
	return max(n, 1)
}

// axisStep is min(round(diff / count), maxEdge), rounding half up.
func axisStep(diff, count, maxEdge int) int {
	return min(floorDiv(2*diff+count, 2*count), maxEdge)
}

func axisBounds(c1, c2, diff, count, maxEdge, index int) (from, to int) {
	step := axisStep(diff, count, maxEdge)
	from = c1 + step*index
	to = c1 + step*(index+1)
	if index > 0 {
		if diff > 0 {
			from++
		} else {
			from--
		}
	}
	if index+1 == count {
		to = c2
	}
	return from, to
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

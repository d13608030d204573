package domain

import "strconv"

// GridSpec holds the per-axis cell counts derived from a bounding box and a
// maximum cell edge.
type GridSpec struct {
	MaxEdge int `json:"max_edge"`
	NumX    int `json:"num_x"`
	NumY    int `json:"num_y"`
	NumZ    int `json:"num_z"`
}

// Total returns the number of cells in the grid.
func (g GridSpec) Total() int {
	return g.NumX * g.NumY * g.NumZ
}

// LinearIndex returns the 0-based traversal position of idx (X outer, Z inner).
func (g GridSpec) LinearIndex(idx CellIndex) int {
	return idx.I*g.NumY*g.NumZ + idx.J*g.NumZ + idx.K
}

// CellIndexAt is the inverse of LinearIndex.
func (g GridSpec) CellIndexAt(linear int) CellIndex {
	plane := g.NumY * g.NumZ
	return CellIndex{
		I: linear / plane,
		J: (linear % plane) / g.NumZ,
		K: linear % g.NumZ,
	}
}

// CellIndex addresses a cell inside a grid.
type CellIndex struct {
	I int `json:"i"`
	J int `json:"j"`
	K int `json:"k"`
}

// PosID returns the stable "i_j_k" identifier used as a file and key suffix.
func (c CellIndex) PosID() string {
	return strconv.Itoa(c.I) + "_" + strconv.Itoa(c.J) + "_" + strconv.Itoa(c.K)
}

// Cell is one sub-volume of a partitioned box.
type Cell struct {
	Index CellIndex `json:"index"`
	// Sequence is the 1-based position of the cell in traversal order.
	Sequence int  `json:"sequence"`
	From     Vec3 `json:"from"`
	To       Vec3 `json:"to"`
}

// PosID is shorthand for c.Index.PosID().
func (c Cell) PosID() string {
	return c.Index.PosID()
}

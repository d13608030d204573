package manifest

import (
	"fmt"
	"iter"
	"math"
	"math/bits"
	"regexp"
	"strings"

	"github.com/aretw0/voxport/pkg/domain"
)

// Keys of the manifest file.
const (
	KeyWorldName   = "worldname"
	KeyNumX        = "num_x"
	KeyNumY        = "num_y"
	KeyNumZ        = "num_z"
	KeyCoordinates = "exported_coordinates"
)

const (
	cellSeparator   = ","
	cornerSeparator = "~"
)

var worldNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Entry is one serialized cell: its two corners in "x y z" form.
type Entry struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewEntry serializes the bounds of a cell.
func NewEntry(from, to domain.Vec3) Entry {
	return Entry{From: from.String(), To: to.String()}
}

// String renders the entry as stored: "x1 y1 z1~x2 y2 z2".
func (e Entry) String() string {
	return e.From + cornerSeparator + e.To
}

// Bounds parses both corners.
func (e Entry) Bounds() (from, to domain.Vec3, err error) {
	from, err = domain.ParseVec3(e.From)
	if err != nil {
		return domain.Vec3{}, domain.Vec3{}, err
	}
	to, err = domain.ParseVec3(e.To)
	if err != nil {
		return domain.Vec3{}, domain.Vec3{}, err
	}
	return from, to, nil
}

// Manifest records the grid an export produced.
type Manifest struct {
	WorldName string  `json:"worldname"`
	NumX      int     `json:"num_x"`
	NumY      int     `json:"num_y"`
	NumZ      int     `json:"num_z"`
	Cells     []Entry `json:"exported_coordinates"`
}

// New builds a manifest from the cells of grid, which must be supplied in
// traversal order.
func New(world string, grid domain.GridSpec, cells iter.Seq[domain.Cell]) *Manifest {
	m := &Manifest{
		WorldName: world,
		NumX:      grid.NumX,
		NumY:      grid.NumY,
		NumZ:      grid.NumZ,
		Cells:     make([]Entry, 0, grid.Total()),
	}
	for c := range cells {
		m.Cells = append(m.Cells, NewEntry(c.From, c.To))
	}
	return m
}

// Grid returns the grid dimensions recorded in the manifest. MaxEdge is not
// persisted and is left zero.
func (m *Manifest) Grid() domain.GridSpec {
	return domain.GridSpec{NumX: m.NumX, NumY: m.NumY, NumZ: m.NumZ}
}

// Total returns NumX*NumY*NumZ.
func (m *Manifest) Total() int {
	return m.NumX * m.NumY * m.NumZ
}

// Replay yields the stored cells in traversal order. Entries that fail to
// parse stop the iteration; Validate guarantees that never happens.
func (m *Manifest) Replay() iter.Seq[domain.Cell] {
	grid := m.Grid()
	return func(yield func(domain.Cell) bool) {
		for n, e := range m.Cells {
			from, to, err := e.Bounds()
			if err != nil {
				return
			}
			cell := domain.Cell{Index: grid.CellIndexAt(n), Sequence: n + 1, From: from, To: to}
			if !yield(cell) {
				return
			}
		}
	}
}

// Validate checks the manifest invariants. Every failure wraps
// domain.ErrCorruptManifest.
func (m *Manifest) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil manifest", domain.ErrCorruptManifest)
	}
	if err := ValidateWorldName(m.WorldName); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCorruptManifest, err)
	}
	if m.NumX < 1 || m.NumY < 1 || m.NumZ < 1 {
		return fmt.Errorf("%w: grid %dx%dx%d has an empty axis", domain.ErrCorruptManifest, m.NumX, m.NumY, m.NumZ)
	}
	if _, ok := cellCount(m.NumX, m.NumY, m.NumZ); !ok {
		return fmt.Errorf("%w: grid %dx%dx%d overflows the cell count", domain.ErrCorruptManifest, m.NumX, m.NumY, m.NumZ)
	}
	if len(m.Cells) != m.Total() {
		return fmt.Errorf("%w: %d cells recorded, grid %dx%dx%d needs %d",
			domain.ErrCorruptManifest, len(m.Cells), m.NumX, m.NumY, m.NumZ, m.Total())
	}
	for n, e := range m.Cells {
		if _, _, err := e.Bounds(); err != nil {
			return fmt.Errorf("%w: cell %d: %w", domain.ErrCorruptManifest, n+1, err)
		}
	}
	return nil
}

// cellCount multiplies positive axis counts, reporting false when the product
// does not fit in an int.
func cellCount(x, y, z int) (int, bool) {
	hi, lo := bits.Mul64(uint64(x), uint64(y))
	if hi != 0 {
		return 0, false
	}
	hi, lo = bits.Mul64(lo, uint64(z))
	if hi != 0 || lo > math.MaxInt {
		return 0, false
	}
	return int(lo), true
}

// ValidateWorldName rejects names that cannot be used as a file name or key
// suffix.
func ValidateWorldName(name string) error {
	if !worldNamePattern.MatchString(name) {
		return fmt.Errorf("%w: invalid world name %q", domain.ErrInvalidArgument, name)
	}
	return nil
}

func parseEntry(raw string) (Entry, error) {
	from, to, ok := strings.Cut(raw, cornerSeparator)
	if !ok || strings.Contains(to, cornerSeparator) {
		return Entry{}, fmt.Errorf("entry %q: expected exactly one %q", raw, cornerSeparator)
	}
	e := Entry{From: from, To: to}
	if _, _, err := e.Bounds(); err != nil {
		return Entry{}, fmt.Errorf("entry %q: %w", raw, err)
	}
	return e, nil
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/aretw0/voxport/pkg/domain"
)

// Usage lines printed when positional arguments do not parse.
const (
	ExportUsage = "Usage: voxport export x1 y1 z1 x2 y2 z2 max_block_length [from] [to]"
	ImportUsage = "Usage: voxport import [from] [to]"
	PlanUsage   = "Usage: voxport plan x1 y1 z1 x2 y2 z2 max_block_length [from] [to]"
)

// ExportArgs are the positional arguments of the export command.
type ExportArgs struct {
	Box     domain.BoundingBox
	MaxEdge int
	Range   domain.Range
}

// Prefix returns the arguments that identify the export, without the range.
func (a ExportArgs) Prefix() []string {
	c1, c2 := a.Box.Corner1, a.Box.Corner2
	return []string{"export",
		strconv.Itoa(c1.X), strconv.Itoa(c1.Y), strconv.Itoa(c1.Z),
		strconv.Itoa(c2.X), strconv.Itoa(c2.Y), strconv.Itoa(c2.Z),
		strconv.Itoa(a.MaxEdge)}
}

// ParseExportArgs parses "x1 y1 z1 x2 y2 z2 maxEdge [from] [to]".
func ParseExportArgs(args []string) (ExportArgs, error) {
	if len(args) < 7 || len(args) > 9 {
		return ExportArgs{}, fmt.Errorf("%w: expected 7 to 9 arguments, got %d", domain.ErrInvalidArgument, len(args))
	}
	n, err := parseInts(args)
	if err != nil {
		return ExportArgs{}, err
	}
	out := ExportArgs{
		Box:     domain.NewBoundingBox(domain.Vec3{X: n[0], Y: n[1], Z: n[2]}, domain.Vec3{X: n[3], Y: n[4], Z: n[5]}),
		MaxEdge: n[6],
		Range:   rangeFrom(n[7:]),
	}
	if out.MaxEdge < 1 {
		return ExportArgs{}, fmt.Errorf("%w: max_block_length must be positive, got %d", domain.ErrInvalidArgument, out.MaxEdge)
	}
	return out, nil
}

// ParseImportArgs parses "[from] [to]".
func ParseImportArgs(args []string) (domain.Range, error) {
	if len(args) > 2 {
		return domain.Range{}, fmt.Errorf("%w: expected at most 2 arguments, got %d", domain.ErrInvalidArgument, len(args))
	}
	n, err := parseInts(args)
	if err != nil {
		return domain.Range{}, err
	}
	return rangeFrom(n), nil
}

// ParsePlanArgs parses the same arguments as export; the range only
// highlights cells.
func ParsePlanArgs(args []string) (ExportArgs, error) {
	return ParseExportArgs(args)
}

func rangeFrom(n []int) domain.Range {
	rng := domain.FullRange
	if len(n) > 0 {
		rng.From = n[0]
	}
	if len(n) > 1 {
		rng.To = n[1]
	}
	return rng
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d (%q) is not an integer", domain.ErrInvalidArgument, i+1, a)
		}
		out[i] = v
	}
	return out, nil
}

package tui

import (
	"fmt"
	"iter"
	"strings"

	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/partition"
)

// PlanMarkdown describes a partition as a markdown document: the grid
// dimensions followed by one table row per cell, with bounds relative to
// origin.
func PlanMarkdown(box domain.BoundingBox, grid domain.GridSpec, cells iter.Seq[domain.Cell]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Export plan\n\n")
	fmt.Fprintf(&b, "- **Box:** `%s` → `%s`\n", box.Corner1, box.Corner2)
	fmt.Fprintf(&b, "- **Max edge:** %d\n", grid.MaxEdge)
	fmt.Fprintf(&b, "- **Grid:** %d × %d × %d = %d cells\n\n", grid.NumX, grid.NumY, grid.NumZ, grid.Total())
	b.WriteString("| # | posid | from | to | relative |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for c := range cells {
		fmt.Fprintf(&b, "| %d | %s | `%s` | `%s` | `%s` |\n",
			c.Sequence, c.PosID(), c.From, c.To,
			partition.FormatRelative(partition.Offset(box.Corner1, c.From)))
	}
	return b.String()
}

// PlanText is the plain-text form of PlanMarkdown, one cell per line.
func PlanText(box domain.BoundingBox, grid domain.GridSpec, cells iter.Seq[domain.Cell]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "grid %dx%dx%d (%d cells, max edge %d)\n", grid.NumX, grid.NumY, grid.NumZ, grid.Total(), grid.MaxEdge)
	for c := range cells {
		fmt.Fprintf(&b, "%d %s %s~%s %s\n", c.Sequence, c.PosID(), c.From, c.To,
			partition.FormatRelative(partition.Offset(box.Corner1, c.From)))
	}
	return b.String()
}

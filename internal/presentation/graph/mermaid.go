package graph

import (
	"fmt"
	"iter"
	"strings"

	"github.com/aretw0/voxport/pkg/domain"
)

// GraphOverlay contains run state to visualize on the graph.
type GraphOverlay struct {
	// Range highlights the cells a run selects.
	Range domain.Range
	// Current is the sequence number of the cell a run stopped on, 0 for none.
	Current int
}

// GenerateMermaid produces a Mermaid flowchart of the traversal order.
// It applies positional styling:
// - First cell: ((Circle))
// - Last cell: [[Subroutine]]
// - Default: [Rectangle]
// Consecutive cells in the same x-slab are joined by solid arrows; moving to
// the next slab is drawn dotted.
func GenerateMermaid(cells iter.Seq[domain.Cell], total int, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	var prev *domain.Cell
	for c := range cells {
		id := mermaidID(c)

		opener, closer := "[", "]"
		switch c.Sequence {
		case 1:
			opener, closer = "((", "))" // Circle
		case total:
			opener, closer = "[[", "]]" // Subroutine
		}
		fmt.Fprintf(&sb, "    %s%s\"%d: %s\"%s\n", id, opener, c.Sequence, c.PosID(), closer)

		if prev != nil {
			arrow := "-->"
			if prev.Index.I != c.Index.I {
				arrow = "-.->"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", mermaidID(*prev), arrow, id)
		}
		cur := c
		prev = &cur
	}

	if overlay == nil {
		return sb.String()
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
	sb.WriteString("    classDef selected fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

	first, last, err := overlay.Range.Resolve(total)
	if err == nil {
		for c := range cells {
			if c.Sequence >= first && c.Sequence <= last && c.Sequence != overlay.Current {
				fmt.Fprintf(&sb, "    class %s selected;\n", mermaidID(c))
			}
		}
	}
	if overlay.Current > 0 {
		for c := range cells {
			if c.Sequence == overlay.Current {
				fmt.Fprintf(&sb, "    class %s current;\n", mermaidID(c))
				break
			}
		}
	}
	return sb.String()
}

func mermaidID(c domain.Cell) string {
	return "c" + c.PosID()
}

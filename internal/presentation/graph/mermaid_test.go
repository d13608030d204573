package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/voxport/internal/presentation/graph"
	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/partition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cells(t *testing.T) (domain.GridSpec, domain.BoundingBox) {
	t.Helper()
	box := domain.NewBoundingBox(domain.Vec3{}, domain.Vec3{X: 40, Y: 0, Z: 20})
	grid, err := partition.Partition(box, 16)
	require.NoError(t, err)
	return grid, box
}

func TestGenerateMermaid(t *testing.T) {
	grid, box := cells(t)
	out := graph.GenerateMermaid(partition.Cells(box, grid), grid.Total(), nil)

	tests := []struct {
		name     string
		contains []string
	}{
		{"Header", []string{"graph LR\n"}},
		{"First Cell Shape", []string{`c0_0_0(("1: 0_0_0"))`}},
		{"Last Cell Shape", []string{`c2_0_1[["6: 2_0_1"]]`}},
		{"Default Shape", []string{`c1_0_0["3: 1_0_0"]`}},
		{"Same Slab", []string{"c0_0_0 --> c0_0_1", "c2_0_0 --> c2_0_1"}},
		{"Next Slab", []string{"c0_0_1 -.-> c1_0_0", "c1_0_1 -.-> c2_0_0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	grid, box := cells(t)
	out := graph.GenerateMermaid(partition.Cells(box, grid), grid.Total(), &graph.GraphOverlay{
		Range:   domain.Range{From: 2, To: 4},
		Current: 3,
	})

	assert.Contains(t, out, "class c0_0_1 selected;")
	assert.Contains(t, out, "class c1_0_1 selected;")
	assert.Contains(t, out, "class c1_0_0 current;")
	assert.NotContains(t, out, "class c1_0_0 selected;")
	assert.NotContains(t, out, "class c0_0_0 ")
	assert.Equal(t, 1, strings.Count(out, " current;"))
}

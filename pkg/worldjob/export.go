package worldjob

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/voxport/pkg/chain"
	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/manifest"
	"github.com/aretw0/voxport/pkg/partition"
	"github.com/aretw0/voxport/pkg/ports"
)

// ExportRequest describes one export invocation.
type ExportRequest struct {
	World   string
	Box     domain.BoundingBox
	MaxEdge int
	Range   domain.Range
}

// Exporter copies a partitioned volume into per-cell schematics.
type Exporter struct {
	runner
}

// NewExporter creates an exporter driving session.
func NewExporter(session ports.Session, manifests ports.ManifestStore, schematics ports.SchematicStore, opts ...Option) *Exporter {
	return &Exporter{runner: newRunner(session, manifests, schematics, opts)}
}

// Export partitions req.Box, saves the manifest of every cell and then
// exports the cells of req.Range. Arguments are validated before anything
// is written; a manifest that cannot be saved aborts the run before any cell.
func (e *Exporter) Export(ctx context.Context, req ExportRequest) (chain.Stats, error) {
	if err := manifest.ValidateWorldName(req.World); err != nil {
		return chain.Stats{}, err
	}
	grid, err := partition.Partition(req.Box, req.MaxEdge)
	if err != nil {
		return chain.Stats{}, err
	}
	if _, _, err := req.Range.Resolve(grid.Total()); err != nil {
		return chain.Stats{}, err
	}

	ctx, release, err := e.hold(ctx, req.World)
	if err != nil {
		return chain.Stats{}, err
	}
	defer release()

	cells := partition.Cells(req.Box, grid)
	m := manifest.New(req.World, grid, cells)
	if err := e.manifests.Save(ctx, req.World, m); err != nil {
		if !errors.Is(err, domain.ErrResourceIO) {
			err = fmt.Errorf("%w: %w", domain.ErrResourceIO, err)
		}
		return chain.Stats{}, fmt.Errorf("save manifest: %w", err)
	}

	log := e.logger.With("world", req.World)
	log.Info("export started",
		"corner1", req.Box.Corner1.String(), "corner2", req.Box.Corner2.String(),
		"max_edge", req.MaxEdge, "num_x", grid.NumX, "num_y", grid.NumY, "num_z", grid.NumZ,
		"range", req.Range.String())

	stats, err := e.drive(ctx, "export", cells, grid.Total(), req.Range, func(step chain.Step) chain.Job {
		return &ExportCell{Step: step, World: req.World, Schematics: e.schematics, Logger: log}
	})
	if err != nil {
		return stats, err
	}
	log.Info("export finished", "cells", stats.Completed, "elapsed", stats.Elapsed)
	return stats, nil
}

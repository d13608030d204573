package worldjob

import (
	"context"

	"github.com/aretw0/voxport/pkg/chain"
	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/manifest"
	"github.com/aretw0/voxport/pkg/ports"
)

// ImportRequest describes one import invocation.
type ImportRequest struct {
	World string
	Range domain.Range
}

// Importer pastes the schematics of an earlier export back into the world.
type Importer struct {
	runner
}

// NewImporter creates an importer driving session.
func NewImporter(session ports.Session, manifests ports.ManifestStore, schematics ports.SchematicStore, opts ...Option) *Importer {
	return &Importer{runner: newRunner(session, manifests, schematics, opts)}
}

// Import replays the manifest saved for req.World and imports the cells of
// req.Range. A missing or corrupt manifest aborts before any cell.
func (i *Importer) Import(ctx context.Context, req ImportRequest) (chain.Stats, error) {
	if err := manifest.ValidateWorldName(req.World); err != nil {
		return chain.Stats{}, err
	}

	ctx, release, err := i.hold(ctx, req.World)
	if err != nil {
		return chain.Stats{}, err
	}
	defer release()

	m, err := i.manifests.Load(ctx, req.World)
	if err != nil {
		return chain.Stats{}, err
	}
	total := m.Total()
	if _, _, err := req.Range.Resolve(total); err != nil {
		return chain.Stats{}, err
	}

	log := i.logger.With("world", req.World)
	log.Info("import started", "num_x", m.NumX, "num_y", m.NumY, "num_z", m.NumZ, "range", req.Range.String())

	i.session.DisableBuffering()
	stats, err := i.drive(ctx, "import", m.Replay(), total, req.Range, func(step chain.Step) chain.Job {
		return &ImportCell{Step: step, World: req.World, Schematics: i.schematics, Logger: log}
	})
	if err != nil {
		return stats, err
	}
	log.Info("import finished", "cells", stats.Completed, "elapsed", stats.Elapsed)
	return stats, nil
}

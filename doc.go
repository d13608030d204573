/*
Package voxport exports a large box of a voxel world as a grid of schematics and imports it back.

A box too big for one copy is partitioned into cells no longer than a maximum edge on any axis. Export records the exact geometry of every cell in a manifest, then copies the cells one at a time and saves each as a schematic. Import replays the manifest and pastes every schematic back at its original position. Both walk the same deterministic sequence, so any run can be restarted from the cell it stopped on.

# Usage

	world := memory.NewWorld()
	p, err := voxport.New(world, voxport.WithWorldName("spawn"))
	if err != nil {
		log.Fatal(err)
	}

	box := domain.NewBoundingBox(domain.Vec3{X: -8, Y: 0, Z: 3}, domain.Vec3{X: 40, Y: 20, Z: -30})
	if _, err := p.Export(ctx, box, 16, domain.FullRange); err != nil {
		log.Fatal(err)
	}

	// Later, possibly in another process sharing the same stores:
	if _, err := p.Import(ctx, domain.FullRange); err != nil {
		log.Fatal(err)
	}

# Ranges

Cells are numbered from 1 in x-major, then y, then z order. A domain.Range selects a contiguous slice of that sequence; To == -1 runs through the last cell. A failed run returns a *domain.CellError naming the cell, its sequence number and the phase that failed.

# Stores

Manifests and schematics live behind ports.ManifestStore and ports.SchematicStore. The library defaults to in-memory stores; the voxport binary adds a properties file store, Redis, SQLite-backed worlds and S3 schematics.
*/
package voxport

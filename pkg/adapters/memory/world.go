package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/voxport/pkg/domain"
)

// World implements ports.BlockStore as a sparse map of non-air blocks.
type World struct {
	blocks map[domain.Vec3]string
	mu     sync.RWMutex
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{blocks: make(map[domain.Vec3]string)}
}

// Get returns the blocks inside [min, max], sorted by X, then Y, then Z.
func (w *World) Get(ctx context.Context, min, max domain.Vec3) ([]domain.PlacedBlock, error) {
	lo, hi := domain.Min(min, max), domain.Max(min, max)

	w.mu.RLock()
	var out []domain.PlacedBlock
	for pos, state := range w.blocks {
		if inside(pos, lo, hi) {
			out = append(out, domain.PlacedBlock{Pos: pos, State: state})
		}
	}
	w.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return less(out[i].Pos, out[j].Pos) })
	return out, ctx.Err()
}

// Set writes blocks; an empty state clears the position.
func (w *World) Set(ctx context.Context, blocks []domain.PlacedBlock) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, b := range blocks {
		if b.State == "" {
			delete(w.blocks, b.Pos)
			continue
		}
		w.blocks[b.Pos] = b.State
	}
	return nil
}

// Len returns the number of non-air blocks.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.blocks)
}

func inside(p, lo, hi domain.Vec3) bool {
	return p.X >= lo.X && p.X <= hi.X &&
		p.Y >= lo.Y && p.Y <= hi.Y &&
		p.Z >= lo.Z && p.Z <= hi.Z
}

func less(a, b domain.Vec3) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

package session

import (
	"context"

	"github.com/aretw0/voxport/pkg/domain"
)

// operation is the handle of one queued copy or paste.
type operation struct {
	done   chan struct{}
	cancel context.CancelFunc
	err    error
}

// Wait blocks until the work queue is drained. If ctx ends first the queue is
// cancelled and drained, and ctx's error is returned.
func (o *operation) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.err
	case <-ctx.Done():
		o.cancel()
		<-o.done
		return ctx.Err()
	}
}

// start runs work on a background goroutine. Callers hold s.mu and have
// acquired the session.
func (s *Session) start(ctx context.Context, phase string, work func(context.Context) error) *operation {
	opCtx, cancel := context.WithCancel(ctx)
	op := &operation{done: make(chan struct{}), cancel: cancel}

	go func() {
		defer close(op.done)
		defer cancel()
		defer s.release()

		if err := work(opCtx); err != nil {
			op.err = domain.Collaborator(phase, err)
			s.logger.Debug("operation failed", "phase", phase, "err", err)
		}
	}()
	return op
}

func (s *Session) copyRegion(ctx context.Context, origin, lo, hi domain.Vec3) error {
	clip := &domain.Clipboard{Origin: origin, Min: lo, Max: hi}
	step := s.slab(lo, hi)

	for x := lo.X; x <= hi.X; x += step {
		if err := ctx.Err(); err != nil {
			return err
		}
		bLo := domain.Vec3{X: x, Y: lo.Y, Z: lo.Z}
		bHi := domain.Vec3{X: min(x+step-1, hi.X), Y: hi.Y, Z: hi.Z}
		blocks, err := s.world.Get(ctx, bLo, bHi)
		if err != nil {
			return err
		}
		for _, b := range blocks {
			clip.Blocks = append(clip.Blocks, domain.Block{Offset: b.Pos.Sub(origin), State: b.State})
		}
	}

	s.mu.Lock()
	s.clip = clip
	s.mu.Unlock()

	s.logger.Debug("copy finished", "min", lo.String(), "max", hi.String(), "blocks", len(clip.Blocks))
	return nil
}

func (s *Session) pasteClipboard(ctx context.Context, clip *domain.Clipboard, origin domain.Vec3, buffered bool) error {
	shift := origin.Sub(clip.Origin)
	lo, hi := clip.Min.Add(shift), clip.Max.Add(shift)

	byX := make(map[int][]domain.PlacedBlock)
	for _, b := range clip.Blocks {
		pos := origin.Add(b.Offset)
		byX[pos.X] = append(byX[pos.X], domain.PlacedBlock{Pos: pos, State: b.State})
	}

	step := s.slab(lo, hi)
	var pending []domain.PlacedBlock
	applied := 0

	for x := lo.X; x <= hi.X; x += step {
		if err := ctx.Err(); err != nil {
			return err
		}
		bLo := domain.Vec3{X: x, Y: lo.Y, Z: lo.Z}
		bHi := domain.Vec3{X: min(x+step-1, hi.X), Y: hi.Y, Z: hi.Z}

		batch, err := s.diffBatch(ctx, bLo, bHi, byX)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			continue
		}
		if buffered {
			pending = append(pending, batch...)
			continue
		}
		if err := s.apply(ctx, batch); err != nil {
			return err
		}
		applied += len(batch)
	}

	if len(pending) > 0 {
		if err := s.apply(ctx, pending); err != nil {
			return err
		}
		applied += len(pending)
	}

	s.logger.Debug("paste finished", "origin", origin.String(), "changes", applied, "buffered", buffered)
	return nil
}

// diffBatch returns the writes that make [lo, hi] match the clipboard: every
// clipboard block in the slab, plus a clear for each existing block the
// clipboard does not cover.
func (s *Session) diffBatch(ctx context.Context, lo, hi domain.Vec3, byX map[int][]domain.PlacedBlock) ([]domain.PlacedBlock, error) {
	existing, err := s.world.Get(ctx, lo, hi)
	if err != nil {
		return nil, err
	}

	want := make(map[domain.Vec3]string)
	var batch []domain.PlacedBlock
	for x := lo.X; x <= hi.X; x++ {
		for _, b := range byX[x] {
			want[b.Pos] = b.State
			batch = append(batch, b)
		}
	}
	for _, b := range existing {
		if _, ok := want[b.Pos]; !ok {
			batch = append(batch, domain.PlacedBlock{Pos: b.Pos})
		}
	}
	return batch, nil
}

func (s *Session) apply(ctx context.Context, batch []domain.PlacedBlock) error {
	if err := s.reserve(len(batch)); err != nil {
		return err
	}
	return s.world.Set(ctx, batch)
}

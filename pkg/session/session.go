package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/ports"
)

// DefaultBatchSize is the number of block positions processed per batch.
const DefaultBatchSize = 4096

// Unlimited disables the change limit.
const Unlimited = -1

var (
	errClosed      = errors.New("session is closed")
	errBusy        = errors.New("another operation is in progress")
	errNoFrom      = errors.New("selection has no first corner")
	errNoTo        = errors.New("selection has no second corner")
	errEmptyClip   = errors.New("clipboard is empty")
	errChangeLimit = errors.New("change limit reached")
)

// Option configures a Session.
type Option func(*Session)

// WithBatchSize sets how many positions a batch covers. Values below 1 are ignored.
func WithBatchSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithChangeLimit caps the number of block changes; Unlimited disables the cap.
func WithChangeLimit(n int) Option {
	return func(s *Session) {
		s.limit = n
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// Session implements ports.Session over a block store.
// Safe for concurrent use; at most one operation runs at a time.
type Session struct {
	world     ports.BlockStore
	batchSize int
	limit     int
	logger    *slog.Logger

	mu       sync.Mutex
	from     *domain.Vec3
	to       *domain.Vec3
	clip     *domain.Clipboard
	buffered bool
	changes  int
	busy     bool
	closed   bool
}

var _ ports.Session = (*Session)(nil)

// New creates a session editing world.
func New(world ports.BlockStore, opts ...Option) *Session {
	s := &Session{
		world:     world,
		batchSize: DefaultBatchSize,
		limit:     Unlimited,
		buffered:  true,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetFrom sets the first corner of the selection.
func (s *Session) SetFrom(ctx context.Context, pos domain.Vec3) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.Collaborator(domain.PhaseSelect, errClosed)
	}
	s.from = &pos
	return nil
}

// SetTo sets the second corner of the selection.
func (s *Session) SetTo(ctx context.Context, pos domain.Vec3) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.Collaborator(domain.PhaseSelect, errClosed)
	}
	s.to = &pos
	return nil
}

// Copy starts reading the selection into a new clipboard whose origin is the
// first corner. The clipboard is replaced when the operation succeeds.
func (s *Session) Copy(ctx context.Context) (ports.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.acquire(); err != nil {
		return nil, domain.Collaborator(domain.PhaseCopy, err)
	}
	if s.from == nil || s.to == nil {
		s.busy = false
		if s.from == nil {
			return nil, domain.Collaborator(domain.PhaseCopy, errNoFrom)
		}
		return nil, domain.Collaborator(domain.PhaseCopy, errNoTo)
	}

	origin := *s.from
	lo, hi := domain.Min(*s.from, *s.to), domain.Max(*s.from, *s.to)
	return s.start(ctx, domain.PhaseCopy, func(ctx context.Context) error {
		return s.copyRegion(ctx, origin, lo, hi)
	}), nil
}

// Paste starts writing the clipboard with its origin placed at origin. The
// target region is replaced as a whole: positions the clipboard leaves empty
// are cleared.
func (s *Session) Paste(ctx context.Context, origin domain.Vec3) (ports.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.acquire(); err != nil {
		return nil, domain.Collaborator(domain.PhasePaste, err)
	}
	if s.clip == nil {
		s.busy = false
		return nil, domain.Collaborator(domain.PhasePaste, errEmptyClip)
	}

	clip := s.clip
	buffered := s.buffered
	return s.start(ctx, domain.PhasePaste, func(ctx context.Context) error {
		return s.pasteClipboard(ctx, clip, origin, buffered)
	}), nil
}

// Clipboard returns the current clipboard, or nil.
func (s *Session) Clipboard() *domain.Clipboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clip
}

// SetClipboard replaces the clipboard.
func (s *Session) SetClipboard(c *domain.Clipboard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clip = c
}

// ClearClipboard drops the clipboard and its block buffer.
func (s *Session) ClearClipboard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clip.Clear()
	s.clip = nil
}

// DisableBuffering applies every later paste batch immediately.
func (s *Session) DisableBuffering() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffered = false
}

// ChangeCount returns the number of block changes applied so far.
func (s *Session) ChangeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changes
}

// ChangeLimit returns the change cap, or Unlimited.
func (s *Session) ChangeLimit() int {
	return s.limit
}

// Close drops the selection and the clipboard. Further operations fail.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.from, s.to = nil, nil
	s.clip.Clear()
	s.clip = nil
	return nil
}

// acquire marks the session busy. Callers hold s.mu.
func (s *Session) acquire() error {
	if s.closed {
		return errClosed
	}
	if s.busy {
		return errBusy
	}
	s.busy = true
	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

// reserve counts n changes against the limit. It fails without counting
// anything when the limit would be exceeded.
func (s *Session) reserve(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limit != Unlimited && s.changes+n > s.limit {
		return fmt.Errorf("%w: %d changes requested, %d of %d used", errChangeLimit, n, s.changes, s.limit)
	}
	s.changes += n
	return nil
}

// slab returns how many X planes of a region with the given Y/Z extents fit
// in one batch.
func (s *Session) slab(lo, hi domain.Vec3) int {
	plane := (hi.Y - lo.Y + 1) * (hi.Z - lo.Z + 1)
	return max(1, s.batchSize/plane)
}

package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/ports"
)

// Locker implements ports.DistributedLocker inside one process.
// Unlike the redis locker it does not wait: a held key fails immediately.
type Locker struct {
	mu   sync.Mutex
	held map[string]lease
	next uint64
	now  func() time.Time
}

type lease struct {
	id  uint64
	exp time.Time
}

// NewLocker creates an in-process locker.
func NewLocker() *Locker {
	return &Locker{held: make(map[string]lease), now: time.Now}
}

// Lock acquires key for ttl. A ttl of zero never expires.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if cur, ok := l.held[key]; ok && (cur.exp.IsZero() || now.Before(cur.exp)) {
		return nil, fmt.Errorf("%w: %s", domain.ErrWorldLocked, key)
	}

	l.next++
	l.held[key] = lease{id: l.next, exp: expiry(now, ttl)}
	return &heldLease{locker: l, key: key, id: l.next}, nil
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

type heldLease struct {
	locker *Locker
	key    string
	id     uint64
}

// Refresh extends the lease as long as nobody else took the key, even if it
// expired in the meantime.
func (h *heldLease) Refresh(ctx context.Context, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l := h.locker
	l.mu.Lock()
	defer l.mu.Unlock()

	cur, ok := l.held[h.key]
	if !ok || cur.id != h.id {
		return fmt.Errorf("%w: %s: lease lost", domain.ErrWorldLocked, h.key)
	}
	cur.exp = expiry(l.now(), ttl)
	l.held[h.key] = cur
	return nil
}

func (h *heldLease) Unlock(context.Context) error {
	l := h.locker
	l.mu.Lock()
	defer l.mu.Unlock()
	if cur, ok := l.held[h.key]; ok && cur.id == h.id {
		delete(l.held, h.key)
	}
	return nil
}

package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/voxport/pkg/domain"
)

// Schematics implements ports.SchematicStore in memory.
type Schematics struct {
	data map[string]domain.Clipboard
	mu   sync.RWMutex
}

// NewSchematics creates an empty schematic store.
func NewSchematics() *Schematics {
	return &Schematics{data: make(map[string]domain.Clipboard)}
}

// Save keeps a copy of clip under name.
func (s *Schematics) Save(ctx context.Context, name string, clip *domain.Clipboard) error {
	if clip == nil {
		return domain.Collaborator(domain.PhaseSave, errors.New("empty clipboard"))
	}
	c := *clip
	c.Blocks = slices.Clone(clip.Blocks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = c
	return nil
}

// Load returns a copy of the schematic saved under name.
func (s *Schematics) Load(ctx context.Context, name string) (*domain.Clipboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data[name]
	if !ok {
		return nil, domain.Collaborator(domain.PhaseLoad, fmt.Errorf("schematic %q not found", name))
	}
	c.Blocks = slices.Clone(c.Blocks)
	return &c, nil
}

// Names returns the saved schematic names in lexical order.
func (s *Schematics) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.data))
	for n := range s.data {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

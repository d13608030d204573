package schematic

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/voxport/pkg/domain"
)

// FileStore implements ports.SchematicStore on a directory.
type FileStore struct {
	Dir string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Path returns the file a schematic is stored in.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.Dir, name+Ext)
}

// Save writes the schematic through a temp file and rename so a crash never
// leaves a truncated schematic behind.
func (s *FileStore) Save(ctx context.Context, name string, clip *domain.Clipboard) error {
	var buf bytes.Buffer
	if err := Encode(&buf, clip); err != nil {
		return domain.Collaborator(domain.PhaseSave, err)
	}
	if err := writeAtomic(s.Dir, s.Path(name), buf.Bytes()); err != nil {
		return domain.Collaborator(domain.PhaseSave, err)
	}
	return nil
}

// Load reads the schematic saved under name.
func (s *FileStore) Load(ctx context.Context, name string) (*domain.Clipboard, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.Collaborator(domain.PhaseLoad, fmt.Errorf("schematic %q not found", name))
		}
		return nil, domain.Collaborator(domain.PhaseLoad, err)
	}
	defer f.Close()

	clip, err := Decode(f)
	if err != nil {
		return nil, domain.Collaborator(domain.PhaseLoad, fmt.Errorf("%s: %w", f.Name(), err))
	}
	return clip, nil
}

func writeAtomic(dir, dest string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to ensure schematic directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*"+Ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

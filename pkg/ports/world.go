package ports

import (
	"context"

	"github.com/aretw0/voxport/pkg/domain"
)

// Operation is the handle of an asynchronous copy or paste. The engine behind
// it drains an internal work queue; Wait blocks until that queue is empty.
type Operation interface {
	// Wait blocks until the operation finishes and returns its error.
	// Cancelling ctx cancels the operation; Wait then returns ctx's error.
	Wait(ctx context.Context) error
}

// Selection holds the two corners of the active region.
type Selection interface {
	SetFrom(ctx context.Context, pos domain.Vec3) error
	SetTo(ctx context.Context, pos domain.Vec3) error
}

// Editor copies the selection into the clipboard and pastes the clipboard back.
type Editor interface {
	// Copy starts copying the current selection into the clipboard.
	Copy(ctx context.Context) (Operation, error)
	// Paste starts writing the clipboard into the world with its origin at origin.
	Paste(ctx context.Context, origin domain.Vec3) (Operation, error)

	Clipboard() *domain.Clipboard
	SetClipboard(c *domain.Clipboard)
	ClearClipboard()
}

// EditContext exposes the knobs and counters of the underlying edit session.
type EditContext interface {
	// DisableBuffering makes every change visible as soon as it is applied.
	DisableBuffering()
	ChangeCount() int
	// ChangeLimit returns the maximum number of changes, or -1 for unlimited.
	ChangeLimit() int
}

// Session is the editing context threaded through a chain. It is owned by
// exactly one cell job at a time, for the duration of that job's two phases.
type Session interface {
	Selection
	Editor
	EditContext

	// Close releases every buffer the session holds.
	Close() error
}

// SchematicStore saves and loads clipboards by name.
type SchematicStore interface {
	Save(ctx context.Context, name string, clip *domain.Clipboard) error
	// Load fails with an error wrapping domain.ErrCollaboratorFailure when
	// no schematic exists under name.
	Load(ctx context.Context, name string) (*domain.Clipboard, error)
}

// BlockStore is the world a session edits.
type BlockStore interface {
	// Get returns the non-air blocks inside the inclusive region [min, max].
	Get(ctx context.Context, min, max domain.Vec3) ([]domain.PlacedBlock, error)
	// Set writes blocks. A block with an empty state clears the position.
	Set(ctx context.Context, blocks []domain.PlacedBlock) error
}

package worldjob

import (
	"context"
	"log/slog"

	"github.com/aretw0/voxport/pkg/chain"
	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/ports"
)

// SchematicName returns the name under which a cell's schematic is stored.
func SchematicName(world, posID string) string {
	return world + "_" + posID
}

func phaseError(phase string, err error) error {
	return &domain.CellError{Phase: phase, Err: domain.Collaborator(phase, err)}
}

// ExportCell copies one cell into a schematic.
type ExportCell struct {
	Step       chain.Step
	World      string
	Schematics ports.SchematicStore
	Logger     *slog.Logger
}

func (c *ExportCell) Describe() chain.Step { return c.Step }

// Run selects the cell and starts copying it.
func (c *ExportCell) Run(ctx context.Context, s ports.Session) (ports.Operation, error) {
	if err := s.SetFrom(ctx, c.Step.From); err != nil {
		return nil, phaseError(domain.PhaseSelect, err)
	}
	if err := s.SetTo(ctx, c.Step.To); err != nil {
		return nil, phaseError(domain.PhaseSelect, err)
	}
	op, err := s.Copy(ctx)
	if err != nil {
		return nil, phaseError(domain.PhaseCopy, err)
	}
	return op, nil
}

// Complete saves the copied clipboard and clears it.
func (c *ExportCell) Complete(ctx context.Context, s ports.Session) error {
	defer s.ClearClipboard()

	name := SchematicName(c.World, c.Step.PosID)
	if err := c.Schematics.Save(ctx, name, s.Clipboard()); err != nil {
		return phaseError(domain.PhaseSave, err)
	}
	c.Logger.Debug("schematic saved", "schematic", name, "from", c.Step.From.String(), "to", c.Step.To.String())
	return nil
}

// ImportCell pastes one cell's schematic back into the world.
type ImportCell struct {
	Step       chain.Step
	World      string
	Schematics ports.SchematicStore
	Logger     *slog.Logger
}

func (c *ImportCell) Describe() chain.Step { return c.Step }

// Run loads the schematic and starts pasting it at the cell's first corner.
func (c *ImportCell) Run(ctx context.Context, s ports.Session) (ports.Operation, error) {
	clip, err := c.Schematics.Load(ctx, SchematicName(c.World, c.Step.PosID))
	if err != nil {
		return nil, phaseError(domain.PhaseLoad, err)
	}
	s.SetClipboard(clip)
	op, err := s.Paste(ctx, c.Step.From)
	if err != nil {
		s.ClearClipboard()
		return nil, phaseError(domain.PhasePaste, err)
	}
	return op, nil
}

// Complete clears the clipboard.
func (c *ImportCell) Complete(ctx context.Context, s ports.Session) error {
	s.ClearClipboard()
	c.Logger.Debug("edit session", "count", s.ChangeCount(), "limit", s.ChangeLimit())
	return nil
}

package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for bad numeric input such as a non-positive
// maximum cell edge or an out-of-bounds range. Nothing has been written.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrCorruptManifest is returned when a manifest is missing, malformed, or its
// cell count does not match its grid dimensions.
var ErrCorruptManifest = errors.New("corrupt manifest")

// ErrManifestNotFound is joined with ErrCorruptManifest when no manifest
// exists for the requested world.
var ErrManifestNotFound = errors.New("manifest not found")

// ErrCollaboratorFailure is returned when a selection, copy, paste or
// schematic operation fails.
var ErrCollaboratorFailure = errors.New("collaborator failure")

// ErrResourceIO is returned when the manifest cannot be written.
var ErrResourceIO = errors.New("resource i/o failure")

// ErrWorldLocked is returned when another run holds the world lock.
var ErrWorldLocked = errors.New("world is locked by another run")

// CellError reports the cell a chain halted on.
type CellError struct {
	PosID    string
	Sequence int
	Phase    string
	Err      error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("cell %s (seq %d) %s: %v", e.PosID, e.Sequence, e.Phase, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

// Collaborator wraps err as an ErrCollaboratorFailure for the given phase.
func Collaborator(phase string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCollaboratorFailure) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrCollaboratorFailure, phase, err)
}

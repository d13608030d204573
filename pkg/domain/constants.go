package domain

// DefaultWorldName is the implicit world name used when none is configured.
// Manifest files and schematic names are derived from it.
const DefaultWorldName = "exportworldmod"

// Phase names reported in CellError and log attributes.
const (
	PhaseSelect = "select"
	PhaseCopy   = "copy"
	PhaseSave   = "save"
	PhaseLoad   = "load"
	PhasePaste  = "paste"
	PhaseClear  = "clear"
	PhaseWait   = "wait"
)

// Fallback phases for failures a job did not attribute to a collaborator call.
const (
	PhaseRun      = "run"
	PhaseComplete = "complete"
)

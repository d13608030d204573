/*
Package ports defines the driven ports (interfaces) of the voxport job engine.

These interfaces decouple the chain driver and the export/import jobs from the
concrete editing collaborators and storage backends, so the same jobs run
against an in-memory world in tests, a SQLite world on disk, or any other
implementation.

# Key Interfaces

  - ManifestStore: persists the grid geometry between export and import runs.
  - DistributedLocker: guarantees a single run per world at a time.
  - Selection, Editor, EditContext: the editing session a cell job drives.
  - Operation: the asynchronous handle returned by a copy or paste.
  - SchematicStore: saves and loads per-cell clipboards by name.
  - BlockStore: the world a session reads from and writes to.
*/
package ports

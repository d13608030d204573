/*
Package domain contains the core models of the voxport job engine.

It defines the geometry of a partitioned volume (coordinates, bounding boxes,
grid dimensions and cells), the inclusive cell range a single invocation works
on, the clipboard exchanged with the editing collaborators, and the error
taxonomy surfaced to callers. The package is pure: no I/O, no persistence.

# Key Entities

  - Vec3 / BoundingBox: integer block coordinates and the volume to partition.
  - GridSpec / Cell: per-axis cell counts and the boundaries of one cell.
  - Range: a 1-based, inclusive sub-interval of the cell sequence (resume support).
  - Clipboard: the blocks copied from (or pasted into) one cell.
  - CellError: a failure tagged with the cell's posid, sequence and phase.
*/
package domain

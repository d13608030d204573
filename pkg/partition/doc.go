/*
Package partition splits a bounding box into a grid of abutting cells.

Cells are produced in a fixed traversal order (X outer, then Y, then Z) so a
later import can replay an export's geometry by linear index. Adjacent cells
share no voxel: every cell after the first on an axis starts one unit past the
previous cell's far boundary, and the last cell on an axis is pinned to the
box's far corner so integer rounding never leaves a gap.
*/
package partition

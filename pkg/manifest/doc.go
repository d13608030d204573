/*
Package manifest persists the geometry of an export so a later import can
replay it cell by cell.

A manifest is a line-oriented key=value text file:

	worldname=<string>
	num_x=<int>
	num_y=<int>
	num_z=<int>
	exported_coordinates=<cell0>,<cell1>,...

where each cell is "x1 y1 z1~x2 y2 z2" and cells appear in traversal order.
Cell strings are kept verbatim so a save/load cycle is byte-identical; import
never recomputes geometry.
*/
package manifest

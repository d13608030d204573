/*
Package worldjob exports a world volume into per-cell schematics and imports
it back.

An export partitions the requested box, records every cell in a manifest,
saves the manifest and then copies each cell of the selected range into a
schematic named "<world>_<posid>". An import loads the manifest of the same
world, replays its cells in the recorded order and pastes each schematic back
at its cell's first corner. Both run their cells as a chain (see package
chain) and hold the world's lock for the whole run.
*/
package worldjob

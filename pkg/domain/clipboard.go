package domain

// Block is a single non-air block inside a clipboard, positioned relative to
// the clipboard origin.
type Block struct {
	Offset Vec3   `json:"offset"`
	State  string `json:"state"`
}

// PlacedBlock is a block at an absolute world position.
type PlacedBlock struct {
	Pos   Vec3   `json:"pos"`
	State string `json:"state"`
}

// Clipboard is the working buffer filled by a copy and drained by a paste.
// Origin is the selection corner the offsets are relative to; pasting at
// Origin restores the copied region in place.
type Clipboard struct {
	Origin Vec3    `json:"origin"`
	Min    Vec3    `json:"min"`
	Max    Vec3    `json:"max"`
	Blocks []Block `json:"blocks"`
}

// Volume returns the number of block positions spanned by the clipboard.
func (c *Clipboard) Volume() int {
	if c == nil {
		return 0
	}
	d := c.Max.Sub(c.Min)
	return (d.X + 1) * (d.Y + 1) * (d.Z + 1)
}

// Clear drops the block buffer so the clipboard no longer pins memory.
func (c *Clipboard) Clear() {
	if c == nil {
		return
	}
	c.Blocks = nil
}

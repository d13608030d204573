package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Vec3 is an integer block coordinate.
type Vec3 struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

// String renders the coordinate as "x y z", the form used in manifests.
func (v Vec3) String() string {
	return strconv.Itoa(v.X) + " " + strconv.Itoa(v.Y) + " " + strconv.Itoa(v.Z)
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// ParseVec3 parses the "x y z" form produced by Vec3.String.
func ParseVec3(s string) (Vec3, error) {
	parts := strings.Split(s, " ")
	if len(parts) != 3 {
		return Vec3{}, fmt.Errorf("coordinate %q: expected 3 components, got %d", s, len(parts))
	}
	var out [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Vec3{}, fmt.Errorf("coordinate %q: %w", s, err)
		}
		out[i] = n
	}
	return Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

// BoundingBox is the volume spanned by two corners. The corners are not
// normalized: Corner2 may be below Corner1 on any axis.
type BoundingBox struct {
	Corner1 Vec3 `json:"corner1"`
	Corner2 Vec3 `json:"corner2"`
}

// NewBoundingBox returns the box spanned by a and b, in that order.
func NewBoundingBox(a, b Vec3) BoundingBox {
	return BoundingBox{Corner1: a, Corner2: b}
}

// Diff returns Corner2 - Corner1 per axis. Components may be negative.
func (b BoundingBox) Diff() Vec3 {
	return b.Corner2.Sub(b.Corner1)
}

// Min returns the lowest corner of the region spanned by a and b.
func Min(a, b Vec3) Vec3 {
	return Vec3{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)}
}

// Max returns the highest corner of the region spanned by a and b.
func Max(a, b Vec3) Vec3 {
	return Vec3{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)}
}

package partition

import (
	"fmt"

	"github.com/aretw0/voxport/pkg/domain"
)

// Offset returns point - origin with every nonzero component shrunk one unit
// toward zero, so consecutive cell origins do not double count the shared
// boundary voxel.
func Offset(origin, point domain.Vec3) domain.Vec3 {
	d := point.Sub(origin)
	return domain.Vec3{X: shrink(d.X), Y: shrink(d.Y), Z: shrink(d.Z)}
}

// FormatRelative renders v in relative-position notation: "~x ~y ~z".
func FormatRelative(v domain.Vec3) string {
	return fmt.Sprintf("~%d ~%d ~%d", v.X, v.Y, v.Z)
}

func shrink(v int) int {
	switch {
	case v > 0:
		return v - 1
	case v < 0:
		return v + 1
	default:
		return 0
	}
}

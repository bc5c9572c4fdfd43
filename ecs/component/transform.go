package component

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Transform is a node's transform relative to its parent. Rotation is in
// radians. A zero scale on either axis is read as 1 so that specs may omit it.
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

// Identity returns a transform with unit scale and no translation or rotation.
func Identity() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// Matrix returns the affine matrix translate * rotate * scale.
func (t Transform) Matrix() cp.Transform {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	sin, cos := math.Sincos(t.Rotation)
	return cp.NewTransform(
		cos*sx, -sin*sy, t.X,
		sin*sx, cos*sy, t.Y,
	)
}

// Translate returns t moved by (dx, dy).
func (t Transform) Translate(dx, dy float64) Transform {
	t.X += dx
	t.Y += dy
	return t
}

package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Hull is a convex vertex set in world space, inflated by Radius. The zero
// Hull is empty and intersects nothing.
type Hull struct {
	Verts  []cp.Vector
	Radius float64

	bb cp.BB
}

// NewHull builds a hull and caches its bounding box. verts is retained.
func NewHull(verts []cp.Vector, radius float64) Hull {
	h := Hull{Verts: verts, Radius: radius}
	if len(verts) == 0 {
		return h
	}
	bb := cp.BB{L: verts[0].X, B: verts[0].Y, R: verts[0].X, T: verts[0].Y}
	for _, v := range verts[1:] {
		bb.L = math.Min(bb.L, v.X)
		bb.B = math.Min(bb.B, v.Y)
		bb.R = math.Max(bb.R, v.X)
		bb.T = math.Max(bb.T, v.Y)
	}
	bb.L -= radius
	bb.B -= radius
	bb.R += radius
	bb.T += radius
	h.bb = bb
	return h
}

// Empty reports whether the hull has no vertices.
func (h Hull) Empty() bool {
	return len(h.Verts) == 0
}

// BB returns the bounding box including the radius.
func (h Hull) BB() cp.BB {
	return h.bb
}

// Center returns the vertex centroid.
func (h Hull) Center() cp.Vector {
	if len(h.Verts) == 0 {
		return cp.Vector{}
	}
	var sum cp.Vector
	for _, v := range h.Verts {
		sum = sum.Add(v)
	}
	return sum.Mult(1 / float64(len(h.Verts)))
}

// Equal reports whether two hulls match within tol.
func (h Hull) Equal(o Hull, tol float64) bool {
	if len(h.Verts) != len(o.Verts) || math.Abs(h.Radius-o.Radius) > tol {
		return false
	}
	for i := range h.Verts {
		if h.Verts[i].Distance(o.Verts[i]) > tol {
			return false
		}
	}
	return true
}

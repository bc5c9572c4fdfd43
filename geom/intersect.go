package geom

import "github.com/jakecoffman/cp"

// Intersects reports whether two hulls overlap or touch.
func Intersects(a, b Hull) bool {
	if a.Empty() || b.Empty() {
		return false
	}
	if !a.bb.Intersects(b.bb) {
		return false
	}
	if cores(a.Verts, b.Verts) {
		return true
	}
	return distance(a.Verts, b.Verts) <= a.Radius+b.Radius
}

// cores reports whether the un-inflated convex sets overlap through an edge
// crossing or full containment. Touching is left to the distance test.
func cores(a, b []cp.Vector) bool {
	ea, eb := edgeCount(a), edgeCount(b)
	for i := 0; i < ea; i++ {
		a0, a1 := edge(a, i)
		for j := 0; j < eb; j++ {
			b0, b1 := edge(b, j)
			if segmentsCross(a0, a1, b0, b1) {
				return true
			}
		}
	}
	if len(b) >= 3 && containsPoint(b, a[0]) {
		return true
	}
	if len(a) >= 3 && containsPoint(a, b[0]) {
		return true
	}
	return false
}

// distance is the minimum distance between two disjoint convex vertex sets,
// which is always reached between a vertex of one and an edge of the other.
func distance(a, b []cp.Vector) float64 {
	best := -1.0
	consider := func(d float64) {
		if best < 0 || d < best {
			best = d
		}
	}
	for _, p := range a {
		consider(pointSetDistance(p, b))
	}
	for _, p := range b {
		consider(pointSetDistance(p, a))
	}
	return best
}

func pointSetDistance(p cp.Vector, set []cp.Vector) float64 {
	if len(set) == 1 {
		return p.Distance(set[0])
	}
	best := -1.0
	for i := 0; i < edgeCount(set); i++ {
		s0, s1 := edge(set, i)
		d := pointSegmentDistance(p, s0, s1)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

func edgeCount(verts []cp.Vector) int {
	switch len(verts) {
	case 0, 1:
		return 0
	case 2:
		return 1
	default:
		return len(verts)
	}
}

func edge(verts []cp.Vector, i int) (cp.Vector, cp.Vector) {
	return verts[i], verts[(i+1)%len(verts)]
}

func pointSegmentDistance(p, a, b cp.Vector) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return p.Distance(a.Add(ab.Mult(t)))
}

func orient(a, b, c cp.Vector) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// segmentsCross reports a proper crossing: each segment's endpoints lie
// strictly on opposite sides of the other.
func segmentsCross(a0, a1, b0, b1 cp.Vector) bool {
	d1 := orient(b0, b1, a0)
	d2 := orient(b0, b1, a1)
	d3 := orient(a0, a1, b0)
	d4 := orient(a0, a1, b1)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// containsPoint works for either winding. A hull whose vertices are all
// collinear with p contains nothing.
func containsPoint(poly []cp.Vector, p cp.Vector) bool {
	sign := 0.0
	for i := range poly {
		a, b := edge(poly, i)
		o := orient(a, b, p)
		if o == 0 {
			continue
		}
		if sign == 0 {
			sign = o
			continue
		}
		if (o > 0) != (sign > 0) {
			return false
		}
	}
	return sign != 0
}

package geom

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

var (
	ErrDegeneratePolygon = errors.New("geom: polygon needs at least 3 points")
	ErrNotConvex         = errors.New("geom: polygon is not convex")
	ErrUnknownKind       = errors.New("geom: unknown shape kind")
)

// Kind enumerates the built-in descriptors.
type Kind uint8

const (
	KindPoint Kind = iota + 1
	KindCircle
	KindSegment
	KindBox
	KindPolygon
)

var kindNames = map[Kind]string{
	KindPoint:   "point",
	KindCircle:  "circle",
	KindSegment: "segment",
	KindBox:     "box",
	KindPolygon: "polygon",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind resolves a kind from its String form.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Descriptor is a shape in its node's local space.
type Descriptor interface {
	Kind() Kind
	// World derives the world-space hull under the node's world matrix.
	World(t cp.Transform) Hull
}

// radiusScale estimates a uniform scale factor from t by transforming a unit
// diagonal. Non-uniform scale is approximated by the diagonal's stretch.
func radiusScale(t cp.Transform) float64 {
	return t.Vect(cp.Vector{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}).Length()
}

type Point struct {
	At cp.Vector
}

func (Point) Kind() Kind { return KindPoint }

func (p Point) World(t cp.Transform) Hull {
	return NewHull([]cp.Vector{t.Point(p.At)}, 0)
}

type Circle struct {
	Center cp.Vector
	Radius float64
}

func (Circle) Kind() Kind { return KindCircle }

func (c Circle) World(t cp.Transform) Hull {
	return NewHull([]cp.Vector{t.Point(c.Center)}, c.Radius*radiusScale(t))
}

// Segment is a line segment, or a capsule when Radius > 0.
type Segment struct {
	A, B   cp.Vector
	Radius float64
}

func (Segment) Kind() Kind { return KindSegment }

func (s Segment) World(t cp.Transform) Hull {
	return NewHull([]cp.Vector{t.Point(s.A), t.Point(s.B)}, s.Radius*radiusScale(t))
}

// Box is a rectangle centered on Center. Under rotation it becomes oriented.
type Box struct {
	Center     cp.Vector
	HalfWidth  float64
	HalfHeight float64
}

// NewBox returns a width x height box centered at the node origin.
func NewBox(width, height float64) Box {
	return Box{HalfWidth: width / 2, HalfHeight: height / 2}
}

func (Box) Kind() Kind { return KindBox }

func (b Box) World(t cp.Transform) Hull {
	c := b.Center
	return NewHull([]cp.Vector{
		t.Point(cp.Vector{X: c.X - b.HalfWidth, Y: c.Y - b.HalfHeight}),
		t.Point(cp.Vector{X: c.X + b.HalfWidth, Y: c.Y - b.HalfHeight}),
		t.Point(cp.Vector{X: c.X + b.HalfWidth, Y: c.Y + b.HalfHeight}),
		t.Point(cp.Vector{X: c.X - b.HalfWidth, Y: c.Y + b.HalfHeight}),
	}, 0)
}

// Polygon is a convex polygon with optional rounding radius. Build it with
// NewPolygon so convexity is checked once.
type Polygon struct {
	points []cp.Vector
	radius float64
}

func NewPolygon(points []cp.Vector, radius float64) (Polygon, error) {
	if len(points) < 3 {
		return Polygon{}, ErrDegeneratePolygon
	}
	if !convex(points) {
		return Polygon{}, ErrNotConvex
	}
	return Polygon{points: append([]cp.Vector(nil), points...), radius: radius}, nil
}

func (Polygon) Kind() Kind { return KindPolygon }

// Points returns a copy of the local vertices.
func (p Polygon) Points() []cp.Vector {
	return append([]cp.Vector(nil), p.points...)
}

func (p Polygon) Radius() float64 { return p.radius }

func (p Polygon) World(t cp.Transform) Hull {
	verts := make([]cp.Vector, len(p.points))
	for i, v := range p.points {
		verts[i] = t.Point(v)
	}
	return NewHull(verts, p.radius*radiusScale(t))
}

// convex reports whether points turn the same way at every vertex and wind
// around exactly once. The winding check rejects self-intersecting stars.
func convex(points []cp.Vector) bool {
	sign := 0.0
	turning := 0.0
	n := len(points)
	for i := 0; i < n; i++ {
		a, b, c := points[i], points[(i+1)%n], points[(i+2)%n]
		o := orient(a, b, c)
		if o == 0 {
			continue
		}
		if sign == 0 {
			sign = o
		} else if (o > 0) != (sign > 0) {
			return false
		}
		e1, e2 := b.Sub(a), c.Sub(b)
		turning += math.Atan2(e1.Cross(e2), e1.Dot(e2))
	}
	return sign != 0 && math.Abs(math.Abs(turning)-2*math.Pi) < 1e-6
}

package prefabs

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/collide/ecs/component"
	"github.com/milk9111/collide/geom"
)

// ShapeSpec describes a node's collision shape in local coordinates. Which
// fields apply depends on Kind:
//
//	point:   x, y
//	circle:  x, y, radius
//	segment: x, y, x2, y2, radius
//	box:     x, y (center), width, height
//	polygon: points, radius
type ShapeSpec struct {
	Group  string       `yaml:"group"`
	Kind   string       `yaml:"kind"`
	X      float64      `yaml:"x"`
	Y      float64      `yaml:"y"`
	X2     float64      `yaml:"x2"`
	Y2     float64      `yaml:"y2"`
	Radius float64      `yaml:"radius"`
	Width  float64      `yaml:"width"`
	Height float64      `yaml:"height"`
	Points [][2]float64 `yaml:"points"`
}

// Descriptor converts the spec into a geom descriptor.
func (s ShapeSpec) Descriptor() (geom.Descriptor, error) {
	kind, err := geom.ParseKind(s.Kind)
	if err != nil {
		return nil, err
	}
	at := cp.Vector{X: s.X, Y: s.Y}
	switch kind {
	case geom.KindPoint:
		return geom.Point{At: at}, nil
	case geom.KindCircle:
		if s.Radius <= 0 {
			return nil, fmt.Errorf("circle radius must be positive, got %v", s.Radius)
		}
		return geom.Circle{Center: at, Radius: s.Radius}, nil
	case geom.KindSegment:
		return geom.Segment{A: at, B: cp.Vector{X: s.X2, Y: s.Y2}, Radius: s.Radius}, nil
	case geom.KindBox:
		if s.Width <= 0 || s.Height <= 0 {
			return nil, fmt.Errorf("box size must be positive, got %vx%v", s.Width, s.Height)
		}
		return geom.Box{Center: at, HalfWidth: s.Width / 2, HalfHeight: s.Height / 2}, nil
	case geom.KindPolygon:
		points := make([]cp.Vector, len(s.Points))
		for i, p := range s.Points {
			points[i] = cp.Vector{X: p[0], Y: p[1]}
		}
		return geom.NewPolygon(points, s.Radius)
	}
	return nil, fmt.Errorf("%w: %q", geom.ErrUnknownKind, s.Kind)
}

func (t TransformSpec) Component() component.Transform {
	return component.Transform{
		X:        t.X,
		Y:        t.Y,
		ScaleX:   t.ScaleX,
		ScaleY:   t.ScaleY,
		Rotation: t.Rotation,
	}
}

func (v VelocitySpec) Component() component.Velocity {
	return component.Velocity{X: v.X, Y: v.Y, Angular: v.Angular}
}

package system

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/collide/geom"
	"github.com/milk9111/collide/physics"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
	debugStroke         = 1.5
)

// DebugCamera maps world units (y up) onto a screen of Width x Height
// pixels centred on X, Y.
type DebugCamera struct {
	X, Y          float64
	Zoom          float64
	Width, Height int
}

// DrawShapeDebug outlines every shape of groups. Probes are drawn in yellow
// and shapes a probe currently hits in red. Groups are cleaned first, so
// outlines match the current transforms.
func DrawShapeDebug(screen *ebiten.Image, cam DebugCamera, groups []*physics.ShapeGroup, hits []Hit, probes []Probe) {
	if screen == nil {
		return
	}
	d := &shapeDebugDrawer{screen: screen, cam: cam}
	if d.cam.Zoom <= 0 {
		d.cam.Zoom = 1
	}

	hit := make(map[*physics.Shape]bool, len(hits))
	for _, h := range hits {
		if h.Other != nil {
			hit[h.Other] = true
		}
	}
	probe := make(map[*physics.Shape]bool, len(probes))
	for _, p := range probes {
		probe[p.Shape] = true
	}

	for _, g := range groups {
		g.SetClean()
		for _, s := range g.Shapes() {
			hull, ok := s.Geometry()
			if !ok {
				continue
			}
			clr := color.Color(colornames.Limegreen)
			switch {
			case hit[s]:
				clr = colornames.Red
			case probe[s]:
				clr = colornames.Gold
			}
			d.drawHull(hull, clr)
		}
	}
}

type shapeDebugDrawer struct {
	screen *ebiten.Image
	cam    DebugCamera
}

func (d *shapeDebugDrawer) drawHull(h geom.Hull, clr color.Color) {
	switch len(h.Verts) {
	case 0:
		return
	case 1:
		if h.Radius > 0 {
			d.drawCircle(h.Verts[0], h.Radius, clr)
		} else {
			d.drawDot(h.Verts[0], clr)
		}
	case 2:
		d.drawFatSegment(h.Verts[0], h.Verts[1], h.Radius, clr)
	default:
		d.drawPolygon(h.Verts, clr)
		if h.Radius > 0 {
			for _, v := range h.Verts {
				d.drawCircle(v, h.Radius, clr)
			}
		}
	}
}

func (d *shapeDebugDrawer) drawFatSegment(a, b cp.Vector, radius float64, clr color.Color) {
	d.drawLine(a, b, clr)
	if radius > 0 {
		d.drawCircle(a, radius, clr)
		d.drawCircle(b, radius, clr)
	}
}

func (d *shapeDebugDrawer) drawDot(pos cp.Vector, clr color.Color) {
	half := debugDotSize / 2 / d.cam.Zoom
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, clr)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, clr)
}

func (d *shapeDebugDrawer) drawLine(a, b cp.Vector, clr color.Color) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	vector.StrokeLine(d.screen, x1, y1, x2, y2, debugStroke, clr, true)
}

func (d *shapeDebugDrawer) drawPolygon(verts []cp.Vector, clr color.Color) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], clr)
	}
}

func (d *shapeDebugDrawer) drawCircle(center cp.Vector, radius float64, clr color.Color) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, clr)
}

func (d *shapeDebugDrawer) toScreen(v cp.Vector) (float32, float32) {
	x := float64(d.cam.Width)/2 + (v.X-d.cam.X)*d.cam.Zoom
	y := float64(d.cam.Height)/2 - (v.Y-d.cam.Y)*d.cam.Zoom
	return float32(x), float32(y)
}

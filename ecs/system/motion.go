package system

import (
	"github.com/milk9111/collide/ecs"
	"github.com/milk9111/collide/ecs/component"
)

// MotionSystem integrates Velocity into local transforms once per frame.
type MotionSystem struct {
	DT float64
}

func NewMotionSystem(dt float64) *MotionSystem {
	return &MotionSystem{DT: dt}
}

func (m *MotionSystem) Update(w *ecs.World) {
	if m == nil || w == nil || m.DT <= 0 {
		return
	}
	ecs.ForEach(w, component.VelocityComponent, func(e ecs.Entity, v *component.Velocity) {
		if v.X == 0 && v.Y == 0 && v.Angular == 0 {
			return
		}
		t, ok := w.Transform(e)
		if !ok {
			return
		}
		t = t.Translate(v.X*m.DT, v.Y*m.DT)
		t.Rotation += v.Angular * m.DT
		_ = w.SetTransform(e, t)
	})
}

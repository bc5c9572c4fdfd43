package system

import "github.com/milk9111/collide/ecs"

// EventRecorder drains the world queue at the end of a frame and hands every
// collision event to OnCollision. Register it after the systems that emit.
type EventRecorder struct {
	OnCollision func(ecs.CollisionEvent)
	Collisions  []ecs.CollisionEvent
	// Keep bounds Collisions; zero keeps nothing.
	Keep int
}

func (r *EventRecorder) Update(w *ecs.World) {
	if r == nil || w == nil {
		return
	}
	for _, evt := range w.Events().Drain() {
		ce, ok := evt.Data.(ecs.CollisionEvent)
		if evt.Type != ecs.EventTypeCollision || !ok {
			continue
		}
		if r.OnCollision != nil {
			r.OnCollision(ce)
		}
		if r.Keep > 0 {
			r.Collisions = append(r.Collisions, ce)
			if over := len(r.Collisions) - r.Keep; over > 0 {
				r.Collisions = append(r.Collisions[:0], r.Collisions[over:]...)
			}
		}
	}
}

package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/collide/ecs"
	"github.com/milk9111/collide/physics"
)

// Probe queries one shape against one group every frame.
type Probe struct {
	Name  string
	Shape *physics.Shape
	Group *physics.ShapeGroup
}

// Hit is a probe's current first collision. Other is nil when clear.
type Hit struct {
	Probe string
	Group string
	Other *physics.Shape
}

// CollisionSystem runs every probe once per frame and pushes begin/end
// CollisionEvents when a probe's first collision changes.
type CollisionSystem struct {
	probes []Probe
	hits   map[string]*physics.Shape
	names  func(ecs.Entity) string
	log    *zap.Logger
}

func NewCollisionSystem(log *zap.Logger, probes ...Probe) *CollisionSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &CollisionSystem{
		probes: append([]Probe(nil), probes...),
		hits:   map[string]*physics.Shape{},
		log:    log,
	}
}

// SetNamer makes logs use node names instead of handles.
func (c *CollisionSystem) SetNamer(names func(ecs.Entity) string) {
	c.names = names
}

// Probes returns the configured probes in order.
func (c *CollisionSystem) Probes() []Probe {
	return append([]Probe(nil), c.probes...)
}

// Hits returns every probe's current first collision, in probe order.
func (c *CollisionSystem) Hits() []Hit {
	out := make([]Hit, 0, len(c.probes))
	for _, p := range c.probes {
		out = append(out, Hit{Probe: p.Name, Group: p.Group.Name(), Other: c.hits[p.Name]})
	}
	return out
}

func (c *CollisionSystem) Update(w *ecs.World) {
	if c == nil || w == nil {
		return
	}
	for _, p := range c.probes {
		if p.Shape == nil || p.Group == nil {
			continue
		}
		hit := p.Group.FirstCollision(p.Shape)
		prev := c.hits[p.Name]
		if hit == prev {
			continue
		}
		if prev != nil {
			c.emit(w, p, prev, ecs.CollisionEventEnd)
		}
		if hit != nil {
			c.emit(w, p, hit, ecs.CollisionEventBegin)
			c.hits[p.Name] = hit
		} else {
			delete(c.hits, p.Name)
		}
	}
}

func (c *CollisionSystem) emit(w *ecs.World, p Probe, other *physics.Shape, kind ecs.CollisionEventKind) {
	evt := ecs.CollisionEvent{
		Probe:  p.Name,
		Group:  p.Group.Name(),
		Entity: p.Shape.Node(),
		Other:  other.Node(),
		Kind:   kind,
		Frame:  w.Frame(),
	}
	w.Events().Push(ecs.Event{Type: ecs.EventTypeCollision, Data: evt})
	c.log.Info("collision "+string(kind),
		zap.String("probe", p.Name),
		zap.String("group", evt.Group),
		zap.String("other", c.name(evt.Other)),
		zap.Uint64("frame", evt.Frame),
	)
}

func (c *CollisionSystem) name(e ecs.Entity) string {
	if c.names != nil {
		if n := c.names(e); n != "" {
			return n
		}
	}
	return e.String()
}

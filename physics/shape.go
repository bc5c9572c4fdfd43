package physics

import (
	"errors"

	"github.com/milk9111/collide/ecs"
	"github.com/milk9111/collide/ecs/component"
	"github.com/milk9111/collide/geom"
)

var (
	ErrNilGroup       = errors.New("physics: shape group is nil")
	ErrGroupDestroyed = errors.New("physics: shape group destroyed")
)

// Shape is a collidable feature of one scene node. It belongs to exactly one
// group for its whole life and refers to its node by handle only.
type Shape struct {
	group *ShapeGroup
	node  ecs.Entity
	desc  geom.Descriptor
	hull  geom.Hull

	dirty    bool
	member   bool
	queued   bool
	attached bool
}

var _ ecs.Feature = (*Shape)(nil)

// NewShape attaches a shape to node and registers it with g. The shape starts
// dirty. desc may be nil; such a shape never collides until SetDescriptor.
func NewShape(g *ShapeGroup, node ecs.Entity, desc geom.Descriptor) (*Shape, error) {
	if g == nil {
		return nil, ErrNilGroup
	}
	if g.destroyed {
		return nil, ErrGroupDestroyed
	}
	if !g.world.IsAlive(node) {
		return nil, component.ErrEntityNotAlive
	}
	s := &Shape{group: g, node: node, desc: desc, dirty: true}
	if err := g.world.AddFeature(node, s); err != nil {
		return nil, err
	}
	s.attached = true
	g.register(s)
	return s, nil
}

func (s *Shape) Node() ecs.Entity { return s.node }

func (s *Shape) Group() *ShapeGroup { return s.group }

func (s *Shape) Descriptor() geom.Descriptor { return s.desc }

// SetDescriptor swaps the local shape and marks the shape dirty.
func (s *Shape) SetDescriptor(desc geom.Descriptor) {
	s.desc = desc
	s.MarkDirty()
}

// IsDirty reports whether the cached hull may be stale.
func (s *Shape) IsDirty() bool { return s.dirty }

// MarkDirty flags the cached hull stale and raises the group's dirty flag.
// The scene hierarchy calls it when the node's world transform changes.
func (s *Shape) MarkDirty() {
	s.dirty = true
	s.group.enqueue(s)
}

// Geometry returns the cached world hull. ok is false while the shape is
// dirty, since the hull is only guaranteed after a clean pass.
func (s *Shape) Geometry() (hull geom.Hull, ok bool) {
	if s.dirty {
		return geom.Hull{}, false
	}
	return s.hull, true
}

// Destroy detaches the shape from its node and leaves the group. Calling it
// again, or after the group was destroyed, is a no-op.
func (s *Shape) Destroy() {
	if s.attached {
		s.attached = false
		s.group.world.RemoveFeature(s.node, s)
	}
	s.group.deregister(s)
}

// Detach is called by the hierarchy when the node is destroyed.
func (s *Shape) Detach() {
	s.attached = false
	s.group.deregister(s)
}

// clean recomputes the cached hull from the node's current world transform.
// Only the group's clean pass calls it.
func (s *Shape) clean() {
	s.hull, _ = s.derive()
	s.dirty = false
}

// derive resolves the node's world transform even without a descriptor, so
// the node is clean and later moves notify this shape again.
func (s *Shape) derive() (geom.Hull, bool) {
	t, ok := s.group.world.WorldTransform(s.node)
	if !ok || s.desc == nil {
		return geom.Hull{}, false
	}
	return s.desc.World(t), true
}

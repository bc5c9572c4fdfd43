package ecs

import (
	"errors"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/collide/ecs/component"
)

var (
	ErrHierarchyCycle = errors.New("ecs: parent would create a cycle")
	ErrNilFeature     = errors.New("ecs: feature is nil")
)

// Feature is attached to a node and follows its world transform. MarkDirty is
// called every time the node goes from clean to dirty; Detach is called once
// when the node is destroyed with the feature still attached.
type Feature interface {
	MarkDirty()
	Detach()
}

// node is the hierarchy record for an entity. A clean node has a world matrix
// consistent with its own and all its ancestors' local transforms, and every
// ancestor of a clean node is clean.
type node struct {
	local    component.Transform
	world    cp.Transform
	dirty    bool
	parent   Entity
	children []Entity
	features []Feature
}

func (n *node) removeChild(e Entity) {
	for i, c := range n.children {
		if c == e {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

func (w *World) node(e Entity) *node {
	if w == nil || !w.entities.isAlive(e) {
		return nil
	}
	n, _ := w.nodes.Get(e.ID())
	return n
}

// Transform returns e's local transform.
func (w *World) Transform(e Entity) (component.Transform, bool) {
	n := w.node(e)
	if n == nil {
		return component.Transform{}, false
	}
	return n.local, true
}

// SetTransform replaces e's local transform and marks its subtree dirty.
func (w *World) SetTransform(e Entity, t component.Transform) error {
	n := w.node(e)
	if n == nil {
		return component.ErrEntityNotAlive
	}
	n.local = t
	w.markDirty(n)
	return nil
}

// Parent returns e's parent, or the zero Entity for roots.
func (w *World) Parent(e Entity) (Entity, bool) {
	n := w.node(e)
	if n == nil {
		return 0, false
	}
	return n.parent, true
}

// Children returns a copy of e's children in attach order.
func (w *World) Children(e Entity) []Entity {
	n := w.node(e)
	if n == nil || len(n.children) == 0 {
		return nil
	}
	return append([]Entity(nil), n.children...)
}

// SetParent moves child under parent. The zero Entity makes child a root.
func (w *World) SetParent(child, parent Entity) error {
	cn := w.node(child)
	if cn == nil {
		return component.ErrEntityNotAlive
	}
	if cn.parent == parent {
		return nil
	}
	if parent.Valid() {
		pn := w.node(parent)
		if pn == nil {
			return component.ErrEntityNotAlive
		}
		for a := parent; a.Valid(); {
			if a == child {
				return ErrHierarchyCycle
			}
			a = w.node(a).parent
		}
		pn.children = append(pn.children, child)
	}
	if cn.parent.Valid() {
		if old := w.node(cn.parent); old != nil {
			old.removeChild(child)
		}
	}
	cn.parent = parent
	w.markDirty(cn)
	return nil
}

// AddFeature attaches f to e. The feature is not marked dirty here; features
// start dirty on their own.
func (w *World) AddFeature(e Entity, f Feature) error {
	if f == nil {
		return ErrNilFeature
	}
	n := w.node(e)
	if n == nil {
		return component.ErrEntityNotAlive
	}
	for _, existing := range n.features {
		if existing == f {
			return nil
		}
	}
	n.features = append(n.features, f)
	return nil
}

// RemoveFeature detaches f from e without calling Detach.
func (w *World) RemoveFeature(e Entity, f Feature) bool {
	n := w.node(e)
	if n == nil {
		return false
	}
	for i, existing := range n.features {
		if existing == f {
			n.features = append(n.features[:i], n.features[i+1:]...)
			return true
		}
	}
	return false
}

// Features returns a copy of the features attached to e.
func (w *World) Features(e Entity) []Feature {
	n := w.node(e)
	if n == nil || len(n.features) == 0 {
		return nil
	}
	return append([]Feature(nil), n.features...)
}

// IsDirty reports whether e's cached world transform is stale. Dead entities
// report false.
func (w *World) IsDirty(e Entity) bool {
	n := w.node(e)
	return n != nil && n.dirty
}

// MarkDirty forces e and its subtree dirty without changing any transform.
func (w *World) MarkDirty(e Entity) {
	if n := w.node(e); n != nil {
		w.markDirty(n)
	}
}

// WorldTransform returns e's world matrix, recomputing it and any dirty
// ancestors on the way. Siblings and descendants are left dirty.
func (w *World) WorldTransform(e Entity) (cp.Transform, bool) {
	n := w.node(e)
	if n == nil {
		return cp.Transform{}, false
	}
	w.clean(n)
	return n.world, true
}

// SetClean cleans every listed entity. Shared ancestors are computed once.
func (w *World) SetClean(entities ...Entity) {
	for _, e := range entities {
		if n := w.node(e); n != nil {
			w.clean(n)
		}
	}
}

func (w *World) markDirty(n *node) {
	if n.dirty {
		return
	}
	n.dirty = true
	for _, f := range n.features {
		f.MarkDirty()
	}
	for _, c := range n.children {
		if cn := w.node(c); cn != nil {
			w.markDirty(cn)
		}
	}
}

func (w *World) clean(n *node) {
	if !n.dirty {
		return
	}
	// Collect the dirty path up to the first clean ancestor (or the root),
	// then resolve it top-down.
	path := []*node{n}
	for p := w.node(n.parent); p != nil && p.dirty; p = w.node(p.parent) {
		path = append(path, p)
	}
	for i := len(path) - 1; i >= 0; i-- {
		cur := path[i]
		local := cur.local.Matrix()
		if parent := w.node(cur.parent); parent != nil {
			cur.world = parent.world.Mult(local)
		} else {
			cur.world = local
		}
		cur.dirty = false
	}
}

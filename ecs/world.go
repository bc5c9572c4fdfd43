package ecs

import "github.com/milk9111/collide/ecs/component"

// World owns entities, their components, the scene hierarchy and system order.
type World struct {
	entities  entityStore
	scheduler Scheduler
	events    EventQueue
	frame     uint64

	stores map[component.ComponentID]*SparseSet[any]
	nodes  SparseSet[*node]
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet[any])}
}

// CreateEntity allocates a new root node with an identity transform.
func (w *World) CreateEntity() Entity {
	e := w.entities.create()
	w.nodes.Set(e.ID(), &node{local: component.Identity(), dirty: true})
	return e
}

// DestroyEntity destroys e and its whole subtree, children first. Features
// attached to destroyed nodes are detached before their storage is released.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	n := w.node(e)
	for len(n.children) > 0 {
		w.DestroyEntity(n.children[len(n.children)-1])
	}
	features := n.features
	n.features = nil
	for _, f := range features {
		f.Detach()
	}
	if n.parent.Valid() {
		if p := w.node(n.parent); p != nil {
			p.removeChild(e)
		}
	}
	for _, set := range w.stores {
		set.Remove(e.ID())
	}
	w.nodes.Remove(e.ID())
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns the live entities in slot order.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.entities.alive)
	for id := 1; id <= len(w.entities.gen); id++ {
		if w.nodes.Has(id) {
			out = append(out, w.entities.handle(id))
		}
	}
	return out
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil {
		return
	}
	w.scheduler.Add(s)
}

// Systems returns a copy of the update order.
func (w *World) Systems() []System {
	if w == nil {
		return nil
	}
	return w.scheduler.Systems()
}

// Update runs all systems once and drops any events nobody drained.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.frame++
	w.scheduler.Update(w)
	w.events.flush()
}

// Frame returns the number of completed or in-progress Update calls.
func (w *World) Frame() uint64 {
	if w == nil {
		return 0
	}
	return w.frame
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) addComponent(e Entity, id component.ComponentID, value any) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet[any])
	}
	set := w.stores[id]
	if set == nil {
		set = &SparseSet[any]{}
		w.stores[id] = set
	}
	set.Set(e.ID(), value)
	return nil
}

func (w *World) removeComponent(e Entity, id component.ComponentID) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.stores[id].Remove(e.ID())
}

func (w *World) component(e Entity, id component.ComponentID) (any, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	return w.stores[id].Get(e.ID())
}

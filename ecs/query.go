package ecs

import "github.com/milk9111/collide/ecs/component"

// Query returns the live entities that carry every listed component, in the
// dense order of the smallest store.
func (w *World) Query(ids ...component.ComponentID) []Entity {
	if w == nil || len(ids) == 0 {
		return nil
	}
	sets := make([]*SparseSet[any], 0, len(ids))
	for _, id := range ids {
		set := w.stores[id]
		if set == nil || set.Len() == 0 {
			return nil
		}
		sets = append(sets, set)
	}
	smallest := sets[0]
	for _, set := range sets[1:] {
		if set.Len() < smallest.Len() {
			smallest = set
		}
	}
	out := make([]Entity, 0, smallest.Len())
	for _, id := range smallest.IDs() {
		ok := true
		for _, set := range sets {
			if set != smallest && !set.Has(id) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, w.entities.handle(id))
		}
	}
	return out
}

// First returns the first entity carrying every listed component.
func (w *World) First(ids ...component.ComponentID) (Entity, bool) {
	ents := w.Query(ids...)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

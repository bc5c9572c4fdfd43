package ecs

import "github.com/milk9111/collide/ecs/component"

// Add stores value as e's component of the handle's kind, replacing any
// previous value.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	if !handle.Kind().Valid() {
		return component.ErrInvalidComponentKind
	}
	v := value
	return w.addComponent(e, handle.ID(), &v)
}

// AddPtr stores an existing pointer so callers can keep mutating it.
func AddPtr[T any](w *World, e Entity, handle component.ComponentHandle[T], value *T) error {
	if !handle.Kind().Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	return w.addComponent(e, handle.ID(), value)
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.removeComponent(e, handle.ID())
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	_, ok := w.component(e, handle.ID())
	return ok
}

// Get returns a pointer to e's component; mutations through it are visible to
// later Gets.
func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	value, ok := w.component(e, handle.ID())
	if !ok {
		return nil, false
	}
	cast, ok := value.(*T)
	if !ok {
		return nil, false
	}
	return cast, true
}

// ForEach calls fn for every live entity carrying the handle's component.
func ForEach[T any](w *World, handle component.ComponentHandle[T], fn func(e Entity, value *T)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range w.Query(handle.ID()) {
		if v, ok := Get(w, e, handle); ok {
			fn(e, v)
		}
	}
}

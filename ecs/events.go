package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// CollisionEventKind identifies collision event types.
type CollisionEventKind string

const (
	CollisionEventBegin CollisionEventKind = "begin"
	CollisionEventEnd   CollisionEventKind = "end"
)

// EventTypeCollision is the Event.Type used for CollisionEvent payloads.
const EventTypeCollision = "collision"

// CollisionEvent is emitted when the first collision reported for a probe
// changes. Other is the node that started or stopped colliding.
type CollisionEvent struct {
	Probe  string
	Group  string
	Entity Entity
	Other  Entity
	Kind   CollisionEventKind
	Frame  uint64
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len reports the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}

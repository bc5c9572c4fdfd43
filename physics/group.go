package physics

import (
	"go.uber.org/zap"

	"github.com/milk9111/collide/ecs"
	"github.com/milk9111/collide/geom"
)

// Stats counts work done by a group since it was created.
type Stats struct {
	CleanPasses uint64
	Recomputed  uint64
	Queries     uint64
	Hits        uint64
}

type GroupOption func(*ShapeGroup)

// WithName labels the group in logs.
func WithName(name string) GroupOption {
	return func(g *ShapeGroup) { g.name = name }
}

// WithLogger sets the group's logger. Clean passes and hits log at debug level.
func WithLogger(log *zap.Logger) GroupOption {
	return func(g *ShapeGroup) {
		if log != nil {
			g.log = log
		}
	}
}

// ShapeGroup is an ordered set of shapes on nodes of one world. It does not
// own its members: shapes belong to their nodes and deregister themselves.
//
// The group is dirty whenever any member is dirty. Only SetClean clears it.
type ShapeGroup struct {
	world   *ecs.World
	name    string
	log     *zap.Logger
	members []*Shape
	// pending holds every member whose dirty flag was raised since the last
	// clean pass, each at most once.
	pending   []*Shape
	dirty     bool
	destroyed bool
	stats     Stats
}

// NewShapeGroup creates an empty, dirty group over w.
func NewShapeGroup(w *ecs.World, opts ...GroupOption) *ShapeGroup {
	g := &ShapeGroup{world: w, dirty: true, log: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With(zap.String("group", g.name))
	return g
}

func (g *ShapeGroup) Name() string { return g.name }

// World returns the world whose nodes this group's shapes follow.
func (g *ShapeGroup) World() *ecs.World { return g.world }

// IsDirty reports whether any member may have a stale hull.
func (g *ShapeGroup) IsDirty() bool { return g.dirty }

// SetDirty raises the aggregate flag without touching members.
func (g *ShapeGroup) SetDirty() { g.dirty = true }

// Len returns the number of members.
func (g *ShapeGroup) Len() int { return len(g.members) }

// Shapes returns the members in registration order.
func (g *ShapeGroup) Shapes() []*Shape {
	return append([]*Shape(nil), g.members...)
}

// Contains reports whether s is currently a member.
func (g *ShapeGroup) Contains(s *Shape) bool {
	return s != nil && s.group == g && s.member
}

func (g *ShapeGroup) Stats() Stats { return g.stats }

// SetClean recomputes the hull of every dirty member and clears the aggregate
// flag. A second call with no changes in between recomputes nothing.
func (g *ShapeGroup) SetClean() {
	recomputed := 0
	for _, s := range g.pending {
		s.queued = false
		if s.dirty {
			s.clean()
			recomputed++
		}
	}
	clear(g.pending)
	g.pending = g.pending[:0]
	g.dirty = false
	g.stats.CleanPasses++
	g.stats.Recomputed += uint64(recomputed)

	if recomputed > 0 {
		if ce := g.log.Check(zap.DebugLevel, "shape group cleaned"); ce != nil {
			ce.Write(zap.Int("recomputed", recomputed), zap.Int("members", len(g.members)))
		}
	}
}

// FirstCollision cleans the group and returns the first member, in
// registration order, whose hull intersects query's. query itself is never
// returned. It returns nil when nothing collides, when query has no
// descriptor, or when query's node is gone.
//
// query need not be a member. A non-member's hull is derived from its node's
// current world transform for this call only; its dirty state is untouched.
func (g *ShapeGroup) FirstCollision(query *Shape) *Shape {
	g.stats.Queries++
	g.SetClean()
	if query == nil || query.desc == nil {
		return nil
	}

	hull, ok := g.queryHull(query)
	if !ok {
		return nil
	}
	for _, m := range g.members {
		if m == query || m.desc == nil {
			continue
		}
		if geom.Intersects(hull, m.hull) {
			g.stats.Hits++
			if ce := g.log.Check(zap.DebugLevel, "first collision"); ce != nil {
				ce.Write(zap.Stringer("query", query.node), zap.Stringer("hit", m.node))
			}
			return m
		}
	}
	return nil
}

func (g *ShapeGroup) queryHull(query *Shape) (geom.Hull, bool) {
	if g.Contains(query) {
		return query.hull, !query.hull.Empty()
	}
	hull, ok := query.derive()
	return hull, ok && !hull.Empty()
}

// Destroy drops every member. Shapes stay attached to their nodes but are no
// longer registered anywhere; their later Destroy calls are no-ops here.
func (g *ShapeGroup) Destroy() {
	for _, s := range g.members {
		s.member = false
		s.queued = false
	}
	clear(g.members)
	g.members = nil
	clear(g.pending)
	g.pending = nil
	g.destroyed = true
}

func (g *ShapeGroup) register(s *Shape) {
	if s.member || g.destroyed {
		return
	}
	s.member = true
	g.members = append(g.members, s)
	s.MarkDirty()
}

func (g *ShapeGroup) deregister(s *Shape) {
	if !s.member {
		return
	}
	s.member = false
	g.members = remove(g.members, s)
	if s.queued {
		s.queued = false
		g.pending = remove(g.pending, s)
	}
}

// enqueue records a member that just became dirty and raises the aggregate
// flag. The flag is raised even for non-members so a forced mark is never lost.
func (g *ShapeGroup) enqueue(s *Shape) {
	if s.member && !s.queued {
		s.queued = true
		g.pending = append(g.pending, s)
	}
	g.dirty = true
}

func remove(list []*Shape, s *Shape) []*Shape {
	for i, m := range list {
		if m == s {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = nil
			return list[:len(list)-1]
		}
	}
	return list
}

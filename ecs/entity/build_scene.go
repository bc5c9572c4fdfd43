package entity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milk9111/collide/ecs"
	"github.com/milk9111/collide/ecs/component"
	"github.com/milk9111/collide/ecs/system"
	"github.com/milk9111/collide/physics"
	"github.com/milk9111/collide/prefabs"
)

// DefaultDT is the fixed frame step used when no option overrides it.
const DefaultDT = 1.0 / 60.0

// Scene is a world built from a SceneSpec, with its groups, shapes and
// systems wired. Advance it with World.Update.
type Scene struct {
	ID     uuid.UUID
	Name   string
	World  *ecs.World
	Groups map[string]*physics.ShapeGroup
	Nodes  map[string]ecs.Entity
	Shapes map[string]*physics.Shape
	Probes []system.Probe

	Motion     *system.MotionSystem
	Scripts    *system.ScriptSystem
	Collisions *system.CollisionSystem
	Recorder   *system.EventRecorder

	names map[ecs.Entity]string
}

type BuildOption func(*buildContext)

// WithDT sets the frame step used by motion and scripts.
func WithDT(dt float64) BuildOption {
	return func(c *buildContext) {
		if dt > 0 {
			c.dt = dt
		}
	}
}

func WithLogger(log *zap.Logger) BuildOption {
	return func(c *buildContext) {
		if log != nil {
			c.log = log
		}
	}
}

// WithScriptLoader overrides where ScriptSystem reads sources from.
func WithScriptLoader(load func(string) ([]byte, error)) BuildOption {
	return func(c *buildContext) { c.loadScript = load }
}

// WithRecorder sets a callback for every collision event.
func WithRecorder(onCollision func(ecs.CollisionEvent)) BuildOption {
	return func(c *buildContext) { c.onCollision = onCollision }
}

type buildContext struct {
	dt          float64
	log         *zap.Logger
	loadScript  func(string) ([]byte, error)
	onCollision func(ecs.CollisionEvent)

	scene  *Scene
	probes []system.Probe
}

type nodeBuildFn func(ctx *buildContext, e ecs.Entity, spec prefabs.NodeSpec) error

var nodeBuildRegistry = map[string]nodeBuildFn{
	"name":      addName,
	"transform": addTransform,
	"velocity":  addVelocity,
	"script":    addScript,
	"shape":     addShape,
	"probe":     addProbe,
}

var nodeBuildOrder = []string{
	"name",
	"transform",
	"velocity",
	"script",
	"shape",
	"probe",
}

// BuildScene validates spec and builds a runnable Scene. Nodes are created
// first and parented second, so specs may list children before parents.
func BuildScene(spec prefabs.SceneSpec, opts ...BuildOption) (*Scene, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	ctx := &buildContext{dt: DefaultDT, log: zap.NewNop()}
	for _, opt := range opts {
		opt(ctx)
	}

	id := uuid.New()
	log := ctx.log.With(zap.String("scene", spec.Name), zap.Stringer("scene_id", id))
	ctx.log = log

	w := ecs.NewWorld()
	scene := &Scene{
		ID:     id,
		Name:   spec.Name,
		World:  w,
		Groups: make(map[string]*physics.ShapeGroup, len(spec.Groups)),
		Nodes:  make(map[string]ecs.Entity, len(spec.Nodes)),
		Shapes: make(map[string]*physics.Shape),
		names:  make(map[ecs.Entity]string, len(spec.Nodes)),
	}
	ctx.scene = scene

	for _, name := range spec.Groups {
		scene.Groups[name] = physics.NewShapeGroup(w, physics.WithName(name), physics.WithLogger(log))
	}
	for _, n := range spec.Nodes {
		e := w.CreateEntity()
		scene.Nodes[n.Name] = e
		scene.names[e] = n.Name
	}
	for _, n := range spec.Nodes {
		if n.Parent == "" {
			continue
		}
		if err := w.SetParent(scene.Nodes[n.Name], scene.Nodes[n.Parent]); err != nil {
			scene.Destroy()
			return nil, fmt.Errorf("entity: parent %s -> %s: %w", n.Name, n.Parent, err)
		}
	}
	for _, n := range spec.Nodes {
		e := scene.Nodes[n.Name]
		for _, key := range nodeBuildOrder {
			if err := nodeBuildRegistry[key](ctx, e, n); err != nil {
				scene.Destroy()
				return nil, fmt.Errorf("entity: build %s %s: %w", n.Name, key, err)
			}
		}
	}

	scene.Motion = system.NewMotionSystem(ctx.dt)
	scene.Scripts = system.NewScriptSystem(ctx.dt, log)
	if ctx.loadScript != nil {
		scene.Scripts.SetLoader(ctx.loadScript)
	}
	scene.Probes = ctx.probes
	scene.Collisions = system.NewCollisionSystem(log, ctx.probes...)
	scene.Collisions.SetNamer(scene.NameOf)
	scene.Recorder = &system.EventRecorder{OnCollision: ctx.onCollision, Keep: 256}

	w.AddSystem(scene.Motion)
	w.AddSystem(scene.Scripts)
	w.AddSystem(scene.Collisions)
	w.AddSystem(scene.Recorder)

	log.Info("scene built",
		zap.Int("nodes", len(spec.Nodes)),
		zap.Int("groups", len(spec.Groups)),
		zap.Int("shapes", len(scene.Shapes)),
		zap.Int("probes", len(ctx.probes)),
	)
	return scene, nil
}

// Node returns the entity for a spec node name.
func (s *Scene) Node(name string) (ecs.Entity, bool) {
	e, ok := s.Nodes[name]
	return e, ok && s.World.IsAlive(e)
}

// Shape returns the shape attached to a spec node.
func (s *Scene) Shape(name string) (*physics.Shape, bool) {
	sh, ok := s.Shapes[name]
	return sh, ok
}

// NameOf returns the spec name of a node, or "".
func (s *Scene) NameOf(e ecs.Entity) string {
	return s.names[e]
}

// Label is NameOf with the handle as fallback.
func (s *Scene) Label(e ecs.Entity) string {
	if n := s.names[e]; n != "" {
		return n
	}
	return e.String()
}

// Report lists each probe's current first collision, one line per probe.
func (s *Scene) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scene %s after %d frames\n", s.Name, s.World.Frame())
	for _, h := range s.Collisions.Hits() {
		other := "-"
		if h.Other != nil {
			other = s.Label(h.Other.Node())
		}
		fmt.Fprintf(&b, "  %-12s %-10s %s\n", h.Probe, h.Group, other)
	}
	return b.String()
}

// Destroy tears down every node, which deregisters their shapes, and then
// the groups.
func (s *Scene) Destroy() {
	for _, e := range s.World.Entities() {
		if p, ok := s.World.Parent(e); ok && !p.Valid() {
			s.World.DestroyEntity(e)
		}
	}
	for _, g := range s.Groups {
		g.Destroy()
	}
}

func addName(ctx *buildContext, e ecs.Entity, spec prefabs.NodeSpec) error {
	return ecs.Add(ctx.scene.World, e, component.NameComponent, component.Name{Value: spec.Name})
}

func addTransform(ctx *buildContext, e ecs.Entity, spec prefabs.NodeSpec) error {
	return ctx.scene.World.SetTransform(e, spec.Transform.Component())
}

func addVelocity(ctx *buildContext, e ecs.Entity, spec prefabs.NodeSpec) error {
	if spec.Velocity == nil {
		return nil
	}
	return ecs.Add(ctx.scene.World, e, component.VelocityComponent, spec.Velocity.Component())
}

func addScript(ctx *buildContext, e ecs.Entity, spec prefabs.NodeSpec) error {
	if spec.Script == "" {
		return nil
	}
	return ecs.Add(ctx.scene.World, e, component.ScriptComponent, component.Script{Path: spec.Script})
}

func addShape(ctx *buildContext, e ecs.Entity, spec prefabs.NodeSpec) error {
	if spec.Shape == nil {
		return nil
	}
	desc, err := spec.Shape.Descriptor()
	if err != nil {
		return err
	}
	shape, err := physics.NewShape(ctx.scene.Groups[spec.Shape.Group], e, desc)
	if err != nil {
		return err
	}
	ctx.scene.Shapes[spec.Name] = shape
	return nil
}

func addProbe(ctx *buildContext, e ecs.Entity, spec prefabs.NodeSpec) error {
	if spec.Probe == "" {
		return nil
	}
	if err := ecs.Add(ctx.scene.World, e, component.ProbeTagComponent, component.ProbeTag{Group: spec.Probe}); err != nil {
		return err
	}
	ctx.probes = append(ctx.probes, system.Probe{
		Name:  spec.Name,
		Shape: ctx.scene.Shapes[spec.Name],
		Group: ctx.scene.Groups[spec.Probe],
	})
	return nil
}

package system

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/milk9111/collide/ecs"
	"github.com/milk9111/collide/ecs/component"
	"github.com/milk9111/collide/geom"
	"github.com/milk9111/collide/physics"
)

func TestMotionSystemAppliesVelocity(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	require.NoError(t, ecs.Add(w, e, component.VelocityComponent, component.Velocity{X: 2, Y: -1, Angular: 0.5}))
	w.SetClean(e)

	m := NewMotionSystem(0.5)
	m.Update(w)

	tr, ok := w.Transform(e)
	require.True(t, ok)
	assert.InDelta(t, 1, tr.X, 1e-9)
	assert.InDelta(t, -0.5, tr.Y, 1e-9)
	assert.InDelta(t, 0.25, tr.Rotation, 1e-9)
	assert.True(t, w.IsDirty(e))
}

func TestMotionSystemSkipsStillEntities(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	require.NoError(t, ecs.Add(w, e, component.VelocityComponent, component.Velocity{}))
	w.SetClean(e)

	NewMotionSystem(1).Update(w)
	assert.False(t, w.IsDirty(e))
}

func scriptLoader(sources map[string]string) func(string) ([]byte, error) {
	return func(path string) ([]byte, error) {
		src, ok := sources[path]
		if !ok {
			return nil, errors.New("not found")
		}
		return []byte(src), nil
	}
}

func TestScriptSystemRunsUpdate(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	require.NoError(t, ecs.Add(w, e, component.ScriptComponent, component.Script{Path: "step.tengo"}))

	s := NewScriptSystem(0.1, zaptest.NewLogger(t))
	s.SetLoader(scriptLoader(map[string]string{
		"step.tengo": `
update := func(engine) {
	pos := engine.get_position()
	engine.set_position(pos[0] + 2, pos[1] + engine.dt())
	engine.set_rotation(engine.get_rotation() + 1)
}`,
	}))
	w.AddSystem(s)

	w.Update()
	w.Update()

	tr, _ := w.Transform(e)
	assert.InDelta(t, 4, tr.X, 1e-9)
	assert.InDelta(t, 0.2, tr.Y, 1e-9)
	assert.InDelta(t, 2, tr.Rotation, 1e-9)
}

func TestScriptSystemFrameClock(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	require.NoError(t, ecs.Add(w, e, component.ScriptComponent, component.Script{Path: "clock.tengo"}))

	s := NewScriptSystem(0.5, nil)
	s.SetLoader(scriptLoader(map[string]string{
		"clock.tengo": `
update := func(engine) {
	engine.set_position(engine.frame(), engine.time())
}`,
	}))
	w.AddSystem(s)
	for i := 0; i < 3; i++ {
		w.Update()
	}

	tr, _ := w.Transform(e)
	assert.InDelta(t, 3, tr.X, 1e-9)
	assert.InDelta(t, 1.5, tr.Y, 1e-9)
}

func TestScriptSystemBadScriptsDoNotStopOthers(t *testing.T) {
	w := ecs.NewWorld()
	broken := w.CreateEntity()
	missing := w.CreateEntity()
	noUpdate := w.CreateEntity()
	good := w.CreateEntity()
	require.NoError(t, ecs.Add(w, broken, component.ScriptComponent, component.Script{Path: "broken.tengo"}))
	require.NoError(t, ecs.Add(w, missing, component.ScriptComponent, component.Script{Path: "missing.tengo"}))
	require.NoError(t, ecs.Add(w, noUpdate, component.ScriptComponent, component.Script{Path: "idle.tengo"}))
	require.NoError(t, ecs.Add(w, good, component.ScriptComponent, component.Script{Path: "good.tengo"}))

	s := NewScriptSystem(1, zaptest.NewLogger(t))
	s.SetLoader(scriptLoader(map[string]string{
		"broken.tengo": `update := func(engine) {`,
		"idle.tengo":   `x := 1`,
		"good.tengo":   `update := func(engine) { engine.set_position(7, 7) }`,
	}))
	w.AddSystem(s)
	w.Update()
	w.Update()

	tr, _ := w.Transform(good)
	assert.Equal(t, 7.0, tr.X)
	for _, e := range []ecs.Entity{broken, missing, noUpdate} {
		tr, _ := w.Transform(e)
		assert.Zero(t, tr.X)
	}
}

func TestScriptSystemInvalidateReloads(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	require.NoError(t, ecs.Add(w, e, component.ScriptComponent, component.Script{Path: "s.tengo"}))

	sources := map[string]string{"s.tengo": `update := func(engine) { engine.set_position(1, 0) }`}
	s := NewScriptSystem(1, nil)
	s.SetLoader(scriptLoader(sources))
	s.Update(w)

	sources["s.tengo"] = `update := func(engine) { engine.set_position(2, 0) }`
	s.Update(w)
	tr, _ := w.Transform(e)
	assert.Equal(t, 1.0, tr.X)

	s.Invalidate()
	s.Update(w)
	tr, _ = w.Transform(e)
	assert.Equal(t, 2.0, tr.X)
}

type collisionFixture struct {
	world    *ecs.World
	group    *physics.ShapeGroup
	probe    *physics.Shape
	target   ecs.Entity
	system   *CollisionSystem
	recorder *EventRecorder
}

func newCollisionFixture(t *testing.T) *collisionFixture {
	t.Helper()
	w := ecs.NewWorld()
	g := physics.NewShapeGroup(w, physics.WithName("boxes"))

	probeNode := w.CreateEntity()
	probe, err := physics.NewShape(g, probeNode, geom.NewBox(2, 2))
	require.NoError(t, err)

	target := w.CreateEntity()
	_, err = physics.NewShape(g, target, geom.NewBox(2, 2))
	require.NoError(t, err)

	sys := NewCollisionSystem(zaptest.NewLogger(t), Probe{Name: "probe", Shape: probe, Group: g})
	rec := &EventRecorder{Keep: 8}
	w.AddSystem(sys)
	w.AddSystem(rec)
	return &collisionFixture{world: w, group: g, probe: probe, target: target, system: sys, recorder: rec}
}

func TestCollisionSystemBeginAndEnd(t *testing.T) {
	f := newCollisionFixture(t)

	f.world.Update()
	require.Len(t, f.recorder.Collisions, 1)
	begin := f.recorder.Collisions[0]
	assert.Equal(t, ecs.CollisionEventBegin, begin.Kind)
	assert.Equal(t, "probe", begin.Probe)
	assert.Equal(t, "boxes", begin.Group)
	assert.Equal(t, f.probe.Node(), begin.Entity)
	assert.Equal(t, f.target, begin.Other)
	assert.Equal(t, uint64(1), begin.Frame)

	f.world.Update()
	assert.Len(t, f.recorder.Collisions, 1, "unchanged hit emits nothing")

	require.NoError(t, f.world.SetTransform(f.target, component.Transform{X: 10}))
	f.world.Update()
	require.Len(t, f.recorder.Collisions, 2)
	end := f.recorder.Collisions[1]
	assert.Equal(t, ecs.CollisionEventEnd, end.Kind)
	assert.Equal(t, f.target, end.Other)
	assert.Equal(t, uint64(3), end.Frame)

	hits := f.system.Hits()
	require.Len(t, hits, 1)
	assert.Equal(t, "probe", hits[0].Probe)
	assert.Nil(t, hits[0].Other)
}

func TestCollisionSystemSwitchesTarget(t *testing.T) {
	f := newCollisionFixture(t)
	other := f.world.CreateEntity()
	require.NoError(t, f.world.SetTransform(other, component.Transform{X: 20}))
	_, err := physics.NewShape(f.group, other, geom.NewBox(2, 2))
	require.NoError(t, err)

	f.world.Update()
	require.NoError(t, f.world.SetTransform(f.target, component.Transform{X: -20}))
	require.NoError(t, f.world.SetTransform(f.probe.Node(), component.Transform{X: 19}))
	f.world.Update()

	var kinds []ecs.CollisionEventKind
	var others []ecs.Entity
	for _, evt := range f.recorder.Collisions {
		kinds = append(kinds, evt.Kind)
		others = append(others, evt.Other)
	}
	assert.Equal(t, []ecs.CollisionEventKind{ecs.CollisionEventBegin, ecs.CollisionEventEnd, ecs.CollisionEventBegin}, kinds)
	assert.Equal(t, []ecs.Entity{f.target, f.target, other}, others)
}

func TestEventRecorderCallbackAndBound(t *testing.T) {
	w := ecs.NewWorld()
	var seen int
	rec := &EventRecorder{Keep: 2, OnCollision: func(ecs.CollisionEvent) { seen++ }}
	for i := 0; i < 3; i++ {
		w.Events().Push(ecs.Event{Type: ecs.EventTypeCollision, Data: ecs.CollisionEvent{Frame: uint64(i)}})
	}
	w.Events().Push(ecs.Event{Type: "other"})
	rec.Update(w)

	assert.Equal(t, 3, seen)
	require.Len(t, rec.Collisions, 2)
	assert.Equal(t, uint64(1), rec.Collisions[0].Frame)
	assert.Equal(t, uint64(2), rec.Collisions[1].Frame)
	assert.Zero(t, w.Events().Len())
}

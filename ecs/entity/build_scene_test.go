package entity

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/milk9111/collide/ecs"
	"github.com/milk9111/collide/prefabs"
)

func TestBuildSceneBoxesBeginThenEnd(t *testing.T) {
	spec, err := prefabs.LoadScene("boxes")
	require.NoError(t, err)

	var got []ecs.CollisionEvent
	scene, err := BuildScene(spec,
		WithLogger(zaptest.NewLogger(t)),
		WithRecorder(func(evt ecs.CollisionEvent) { got = append(got, evt) }),
	)
	require.NoError(t, err)
	require.NotNil(t, scene)
	assert.NotEqual(t, uuid.Nil, scene.ID)
	require.Len(t, scene.Probes, 1)

	s2, ok := scene.Node("s2")
	require.True(t, ok)

	for i := 0; i < 6; i++ {
		scene.World.Update()
	}

	require.Len(t, got, 2)
	assert.Equal(t, ecs.CollisionEventBegin, got[0].Kind)
	assert.Equal(t, s2, got[0].Other)
	assert.Equal(t, uint64(1), got[0].Frame)
	assert.Equal(t, ecs.CollisionEventEnd, got[1].Kind)
	assert.Equal(t, s2, got[1].Other)
	assert.Equal(t, uint64(5), got[1].Frame)

	hits := scene.Collisions.Hits()
	require.Len(t, hits, 1)
	assert.Nil(t, hits[0].Other)
}

func TestBuildSceneParentDeclaredAfterChild(t *testing.T) {
	spec, err := prefabs.ParseScene([]byte(`
name: nested
groups: [g]
nodes:
  - name: child
    parent: root
    transform: {x: 5}
    shape: {group: g, kind: point}
  - name: root
    transform: {x: 10}
`))
	require.NoError(t, err)

	scene, err := BuildScene(spec)
	require.NoError(t, err)

	child, ok := scene.Node("child")
	require.True(t, ok)
	root, _ := scene.Node("root")
	parent, _ := scene.World.Parent(child)
	assert.Equal(t, root, parent)

	shape, ok := scene.Shape("child")
	require.True(t, ok)
	scene.Groups["g"].SetClean()
	hull, ok := shape.Geometry()
	require.True(t, ok)
	assert.InDelta(t, 15, hull.Verts[0].X, 1e-9)
	assert.Equal(t, "child", scene.NameOf(child))
}

func TestBuildSceneRejectsInvalidSpec(t *testing.T) {
	spec := prefabs.SceneSpec{
		Name:  "bad",
		Nodes: []prefabs.NodeSpec{{Name: "a", Parent: "missing"}},
	}
	_, err := BuildScene(spec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, prefabs.ErrInvalidScene))
}

func TestBuildSceneDemoRuns(t *testing.T) {
	spec, err := prefabs.LoadScene("demo")
	require.NoError(t, err)

	scene, err := BuildScene(spec, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	assert.Len(t, scene.Groups, 2)
	assert.Len(t, scene.Shapes, 6)
	assert.Len(t, scene.Probes, 3)

	for i := 0; i < 240; i++ {
		scene.World.Update()
	}
	runner, _ := scene.Node("runner")
	tr, ok := scene.World.Transform(runner)
	require.True(t, ok)
	assert.InDelta(t, -40+12*240*DefaultDT, tr.X, 1e-6)
}

func TestSceneDestroyDeregistersShapes(t *testing.T) {
	spec, err := prefabs.LoadScene("boxes")
	require.NoError(t, err)
	scene, err := BuildScene(spec)
	require.NoError(t, err)

	group := scene.Groups["boxes"]
	require.Equal(t, 3, group.Len())

	scene.Destroy()
	assert.Equal(t, 0, group.Len())
	assert.Empty(t, scene.World.Entities())
}

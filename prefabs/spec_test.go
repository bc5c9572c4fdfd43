package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/collide/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedScenes(t *testing.T) {
	cases := []struct {
		name   string
		file   string
		groups []string
		nodes  int
	}{
		{"demo", "demo.yaml", []string{"solids", "sensors"}, 7},
		{"boxes_prefixed", "scenes/boxes.yaml", []string{"boxes"}, 3},
		{"boxes_full_path", "prefabs/scenes/boxes.yaml", []string{"boxes"}, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec, err := LoadScene(c.file)
			require.NoError(t, err)
			assert.Equal(t, c.groups, spec.Groups)
			assert.Len(t, spec.Nodes, c.nodes)
		})
	}

	_, err := LoadScene("missing.yaml")
	assert.Error(t, err)
}

func TestDemoSceneShapes(t *testing.T) {
	spec, err := LoadScene("demo.yaml")
	require.NoError(t, err)

	kinds := map[string]geom.Kind{}
	for _, n := range spec.Nodes {
		if n.Shape == nil {
			continue
		}
		d, err := n.Shape.Descriptor()
		require.NoError(t, err, n.Name)
		kinds[n.Name] = d.Kind()
	}
	assert.Equal(t, map[string]geom.Kind{
		"ground":  geom.KindBox,
		"wall":    geom.KindBox,
		"runner":  geom.KindCircle,
		"blade":   geom.KindSegment,
		"orbiter": geom.KindPolygon,
		"beacon":  geom.KindPoint,
	}, kinds)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"duplicate_group", "groups: [a, a]"},
		{"unnamed_node", "nodes: [{transform: {x: 1}}]"},
		{"duplicate_node", "nodes: [{name: n}, {name: n}]"},
		{"unknown_parent", "nodes: [{name: n, parent: p}]"},
		{"self_parent", "nodes: [{name: n, parent: n}]"},
		{"unknown_group", "groups: [a]\nnodes: [{name: n, shape: {group: b, kind: point}}]"},
		{"unknown_kind", "groups: [a]\nnodes: [{name: n, shape: {group: a, kind: torus}}]"},
		{"bad_circle", "groups: [a]\nnodes: [{name: n, shape: {group: a, kind: circle}}]"},
		{"bad_box", "groups: [a]\nnodes: [{name: n, shape: {group: a, kind: box, width: 1}}]"},
		{"concave", "groups: [a]\nnodes: [{name: n, shape: {group: a, kind: polygon, points: [[0,0],[2,0],[1,0.5],[2,2],[0,2]]}}]"},
		{"probe_unknown_group", "groups: [a]\nnodes: [{name: n, probe: b, shape: {group: a, kind: point}}]"},
		{"probe_without_shape", "groups: [a]\nnodes: [{name: n, probe: a}]"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseScene([]byte(c.yaml))
			assert.ErrorIs(t, err, ErrInvalidScene)
		})
	}

	_, err := ParseScene([]byte("nodes: {"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidScene)

	spec, err := ParseScene([]byte("groups: [a]\nnodes: [{name: c, parent: p, shape: {group: a, kind: point}, probe: a}, {name: p}]"))
	require.NoError(t, err, "parents may be declared after children")
	assert.Len(t, spec.Nodes, 2)
}

func TestTransformSpecComponent(t *testing.T) {
	c := TransformSpec{X: 1, Y: 2, ScaleX: 3, ScaleY: 4, Rotation: 0.5}.Component()
	assert.Equal(t, 1.0, c.X)
	assert.Equal(t, 2.0, c.Y)
	assert.Equal(t, 3.0, c.ScaleX)
	assert.Equal(t, 4.0, c.ScaleY)
	assert.Equal(t, 0.5, c.Rotation)

	v := VelocitySpec{X: 1, Angular: 2}.Component()
	assert.Equal(t, 1.0, v.X)
	assert.Equal(t, 2.0, v.Angular)
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"orbit.tengo", "scripts/orbit.tengo", "prefabs/scripts/orbit.tengo"} {
		data, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "update")
	}
}

func TestContentHashes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	h := newContentHashes()

	assert.False(t, h.changed(path), "missing and never seen")

	require.NoError(t, os.WriteFile(path, []byte("name: a"), 0o644))
	assert.True(t, h.changed(path))
	assert.False(t, h.changed(path), "same bytes")

	require.NoError(t, os.WriteFile(path, []byte("name: b"), 0o644))
	assert.True(t, h.changed(path))

	require.NoError(t, os.Remove(path))
	assert.True(t, h.changed(path), "removal is reported once")
	assert.False(t, h.changed(path))
}

func TestWatcherReportsSpecChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: a"), 0o644))

	select {
	case got := <-w.Events:
		assert.Equal(t, path, got)
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for spec file")
	}
}

func TestWatcherWaitsForBurstToSettle(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(dir, "scene.yaml")
	full := []byte("name: burst\ngroups: [a]\n")
	f, err := os.Create(path)
	require.NoError(t, err)
	for _, chunk := range [][]byte{full[:6], full[6:14], full[14:]} {
		_, err := f.Write(chunk)
		require.NoError(t, err)
		time.Sleep(20 * time.Millisecond)
	}
	lastWrite := time.Now()
	require.NoError(t, f.Close())

	select {
	case got := <-w.Events:
		assert.Equal(t, path, got)
		assert.GreaterOrEqual(t, time.Since(lastWrite), watchDebounce)
		data, err := os.ReadFile(got)
		require.NoError(t, err)
		assert.Equal(t, full, data)
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for burst")
	}

	select {
	case got := <-w.Events:
		t.Fatalf("burst reported twice: %s", got)
	case <-time.After(3 * watchDebounce):
	}
}

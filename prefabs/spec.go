package prefabs

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrInvalidScene = errors.New("prefabs: invalid scene")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type SceneSpec struct {
	Name   string     `yaml:"name"`
	Groups []string   `yaml:"groups"`
	Nodes  []NodeSpec `yaml:"nodes"`
}

type NodeSpec struct {
	Name      string        `yaml:"name"`
	Parent    string        `yaml:"parent"`
	Transform TransformSpec `yaml:"transform"`
	Velocity  *VelocitySpec `yaml:"velocity"`
	Script    string        `yaml:"script"`
	Shape     *ShapeSpec    `yaml:"shape"`
	// Probe names a group this node's shape is queried against every frame.
	Probe string `yaml:"probe"`
}

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type VelocitySpec struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Angular float64 `yaml:"angular"`
}

// LoadScene loads a scene by name, e.g. "demo.yaml" or "scenes/demo.yaml".
func LoadScene(name string) (SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](cleanScenePath(name))
	if err != nil {
		return SceneSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return SceneSpec{}, err
	}
	return spec, nil
}

// ParseScene decodes and validates a scene from memory.
func ParseScene(data []byte) (SceneSpec, error) {
	var spec SceneSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return SceneSpec{}, fmt.Errorf("prefabs: unmarshal scene: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return SceneSpec{}, err
	}
	return spec, nil
}

// Validate checks names, parents, groups and shape parameters.
func (s SceneSpec) Validate() error {
	groups := make(map[string]bool, len(s.Groups))
	for _, g := range s.Groups {
		if g == "" {
			return fmt.Errorf("%w: empty group name", ErrInvalidScene)
		}
		if groups[g] {
			return fmt.Errorf("%w: duplicate group %q", ErrInvalidScene, g)
		}
		groups[g] = true
	}

	names := make(map[string]bool, len(s.Nodes))
	for i, n := range s.Nodes {
		if n.Name == "" {
			return fmt.Errorf("%w: node %d has no name", ErrInvalidScene, i)
		}
		if names[n.Name] {
			return fmt.Errorf("%w: duplicate node %q", ErrInvalidScene, n.Name)
		}
		names[n.Name] = true
	}

	for _, n := range s.Nodes {
		if n.Parent != "" && !names[n.Parent] {
			return fmt.Errorf("%w: node %q has unknown parent %q", ErrInvalidScene, n.Name, n.Parent)
		}
		if n.Parent == n.Name {
			return fmt.Errorf("%w: node %q is its own parent", ErrInvalidScene, n.Name)
		}
		if n.Shape != nil {
			if !groups[n.Shape.Group] {
				return fmt.Errorf("%w: node %q shape uses unknown group %q", ErrInvalidScene, n.Name, n.Shape.Group)
			}
			if _, err := n.Shape.Descriptor(); err != nil {
				return fmt.Errorf("%w: node %q: %w", ErrInvalidScene, n.Name, err)
			}
		}
		if n.Probe != "" {
			if !groups[n.Probe] {
				return fmt.Errorf("%w: node %q probes unknown group %q", ErrInvalidScene, n.Name, n.Probe)
			}
			if n.Shape == nil {
				return fmt.Errorf("%w: node %q probes without a shape", ErrInvalidScene, n.Name)
			}
		}
	}
	return nil
}

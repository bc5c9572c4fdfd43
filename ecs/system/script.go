package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"

	"github.com/milk9111/collide/ecs"
	"github.com/milk9111/collide/ecs/component"
	"github.com/milk9111/collide/prefabs"
)

// ScriptSystem runs a tengo motion script per node. A script defines
// update(engine); engine exposes the node's transform and the frame clock.
type ScriptSystem struct {
	DT     float64
	log    *zap.Logger
	load   func(path string) ([]byte, error)
	cache  map[ecs.Entity]*scriptRuntime
	failed map[ecs.Entity]string
}

type scriptRuntime struct {
	path     string
	compiled *tengo.Compiled
}

const scriptDispatch = `
if __phase == "update" {
	update(__engine)
}
`

func NewScriptSystem(dt float64, log *zap.Logger) *ScriptSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScriptSystem{
		DT:     dt,
		log:    log,
		load:   prefabs.LoadScript,
		cache:  map[ecs.Entity]*scriptRuntime{},
		failed: map[ecs.Entity]string{},
	}
}

// SetLoader replaces how script sources are read. Tests use it to run
// scripts from memory.
func (s *ScriptSystem) SetLoader(load func(path string) ([]byte, error)) {
	s.load = load
	s.Invalidate()
}

// Invalidate drops every compiled script so edited sources are reloaded.
func (s *ScriptSystem) Invalidate() {
	clear(s.cache)
	clear(s.failed)
}

func (s *ScriptSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	for e := range s.cache {
		if !w.IsAlive(e) {
			delete(s.cache, e)
		}
	}
	ecs.ForEach(w, component.ScriptComponent, func(e ecs.Entity, sc *component.Script) {
		rt, err := s.runtime(e, sc.Path)
		if err != nil {
			if s.failed[e] != sc.Path {
				s.failed[e] = sc.Path
				s.log.Error("script load failed", zap.Stringer("entity", e), zap.String("script", sc.Path), zap.Error(err))
			}
			return
		}
		if err := rt.run("update", buildScriptEngine(w, e, s.DT)); err != nil {
			s.log.Error("script update failed", zap.Stringer("entity", e), zap.String("script", sc.Path), zap.Error(err))
		}
	})
}

func (s *ScriptSystem) runtime(e ecs.Entity, path string) (*scriptRuntime, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty script path")
	}
	if rt, ok := s.cache[e]; ok && rt.path == path {
		return rt, nil
	}
	if s.failed[e] == path {
		return nil, fmt.Errorf("script %s failed to load earlier", path)
	}

	src, err := s.load(path)
	if err != nil {
		return nil, err
	}
	script := tengo.NewScript([]byte(string(src) + "\n" + scriptDispatch))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	rt := &scriptRuntime{path: path, compiled: compiled}
	// Run once with no phase so top-level definitions are evaluated.
	if err := rt.run("", &tengo.ImmutableMap{Value: map[string]tengo.Object{}}); err != nil {
		return nil, err
	}
	if !compiled.IsDefined("update") {
		return nil, fmt.Errorf("script %s does not define update", path)
	}
	s.cache[e] = rt
	delete(s.failed, e)
	return rt, nil
}

func (rt *scriptRuntime) run(phase string, engine *tengo.ImmutableMap) error {
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func buildScriptEngine(w *ecs.World, e ecs.Entity, dt float64) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t, _ := w.Transform(e)
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: t.X}, &tengo.Float{Value: t.Y}}}, nil
	}}

	values["set_position"] = &tengo.UserFunction{Name: "set_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		x, ok1 := objectAsFloat(args[0])
		y, ok2 := objectAsFloat(args[1])
		if !ok1 || !ok2 {
			return tengo.FalseValue, nil
		}
		t, ok := w.Transform(e)
		if !ok {
			return tengo.FalseValue, nil
		}
		t.X, t.Y = x, y
		if err := w.SetTransform(e, t); err != nil {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["get_rotation"] = &tengo.UserFunction{Name: "get_rotation", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t, _ := w.Transform(e)
		return &tengo.Float{Value: t.Rotation}, nil
	}}

	values["set_rotation"] = &tengo.UserFunction{Name: "set_rotation", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		r, ok := objectAsFloat(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		t, ok := w.Transform(e)
		if !ok {
			return tengo.FalseValue, nil
		}
		t.Rotation = r
		if err := w.SetTransform(e, t); err != nil {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["frame"] = &tengo.UserFunction{Name: "frame", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(w.Frame())}, nil
	}}

	values["dt"] = &tengo.UserFunction{Name: "dt", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: dt}, nil
	}}

	values["time"] = &tengo.UserFunction{Name: "time", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: float64(w.Frame()) * dt}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsFloat(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value, true
	case *tengo.Int:
		return float64(v.Value), true
	default:
		return 0, false
	}
}

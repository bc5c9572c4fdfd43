package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/milk9111/collide/config"
	"github.com/milk9111/collide/ecs"
	"github.com/milk9111/collide/ecs/entity"
	"github.com/milk9111/collide/prefabs"
)

type runner struct {
	cfg config.Config
	log *zap.Logger
	out io.Writer
}

func (r *runner) build() (*entity.Scene, error) {
	spec, err := prefabs.LoadScene(r.cfg.Scene)
	if err != nil {
		return nil, err
	}
	var scene *entity.Scene
	scene, err = entity.BuildScene(spec,
		entity.WithDT(r.cfg.DT),
		entity.WithLogger(r.log),
		entity.WithRecorder(func(evt ecs.CollisionEvent) { r.printEvent(scene, evt) }),
	)
	return scene, err
}

// once simulates cfg.Frames frames and prints every collision change and
// the final hits.
func (r *runner) once() error {
	scene, err := r.build()
	if err != nil {
		return err
	}
	defer scene.Destroy()
	for i := 0; i < r.cfg.Frames; i++ {
		scene.World.Update()
	}
	r.printHits(scene)
	return nil
}

// watch steps the scene in real time and rebuilds it whenever a scene or
// script file changes. All scene access stays on the frame goroutine.
func (r *runner) watch(ctx context.Context) error {
	w, err := prefabs.NewWatcher(r.cfg.Watch.Dirs...)
	if err != nil {
		return fmt.Errorf("watch %s: %w", strings.Join(r.cfg.Watch.Dirs, ","), err)
	}
	g, ctx := errgroup.WithContext(ctx)
	reload := make(chan string, 1)

	g.Go(func() error {
		<-ctx.Done()
		return w.Close()
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case path, ok := <-w.Events:
				if !ok {
					return nil
				}
				select {
				case reload <- path:
				default:
				}
			case err, ok := <-w.Errors:
				if ok {
					r.log.Warn("watch error", zap.Error(err))
				}
			}
		}
	})
	g.Go(func() error { return r.loop(ctx, reload) })
	return g.Wait()
}

func (r *runner) loop(ctx context.Context, reload <-chan string) error {
	scene, err := r.build()
	if err != nil {
		return err
	}
	defer func() { scene.Destroy() }()

	ticker := time.NewTicker(time.Duration(r.cfg.DT * float64(time.Second)))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.printHits(scene)
			return nil
		case path := <-reload:
			next, err := r.build()
			if err != nil {
				r.log.Error("reload failed, keeping current scene", zap.String("path", filepath.ToSlash(path)), zap.Error(err))
				continue
			}
			scene.Destroy()
			scene = next
			r.log.Info("scene reloaded", zap.String("path", filepath.ToSlash(path)), zap.Stringer("scene_id", scene.ID))
		case <-ticker.C:
			scene.World.Update()
		}
	}
}

func (r *runner) printEvent(scene *entity.Scene, evt ecs.CollisionEvent) {
	fmt.Fprintf(r.out, "frame %d: %s %s %s in %s\n",
		evt.Frame, evt.Probe, evt.Kind, nodeName(scene, evt.Other), evt.Group)
}

func (r *runner) printHits(scene *entity.Scene) {
	fmt.Fprint(r.out, scene.Report())
}

func nodeName(scene *entity.Scene, e ecs.Entity) string {
	if scene == nil {
		return e.String()
	}
	return scene.Label(e)
}

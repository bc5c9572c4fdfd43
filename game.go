package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
	"golang.design/x/clipboard"

	"github.com/milk9111/collide/common"
	"github.com/milk9111/collide/config"
	"github.com/milk9111/collide/ecs/entity"
	"github.com/milk9111/collide/ecs/system"
	"github.com/milk9111/collide/physics"
	"github.com/milk9111/collide/prefabs"
)

const (
	panSpeed    = 40.0
	cameraEase  = 0.2
	minZoom     = 0.5
	maxZoom     = 40
	zoomPerStep = 1.1
)

var background = color.RGBA{R: 0x12, G: 0x14, B: 0x1c, A: 0xff}

// Game steps a scene and draws its shapes. Space pauses, N steps one frame
// while paused, R rebuilds the scene from disk, C copies the hit report.
type Game struct {
	cfg    config.Config
	log    *zap.Logger
	scene  *entity.Scene
	groups []*physics.ShapeGroup
	paused bool

	camX, camY     float64
	targetX        float64
	targetY        float64
	zoom           float64
	clipboardReady bool
	status         string
	watcher        *prefabs.Watcher
}

func NewGame(cfg config.Config, log *zap.Logger) (*Game, error) {
	g := &Game{cfg: cfg, log: log, zoom: cfg.Viewer.Zoom}
	if err := g.rebuild(); err != nil {
		return nil, err
	}
	if err := clipboard.Init(); err != nil {
		log.Warn("clipboard unavailable", zap.Error(err))
	} else {
		g.clipboardReady = true
	}
	if cfg.Watch.Enabled {
		w, err := prefabs.NewWatcher(cfg.Watch.Dirs...)
		if err != nil {
			log.Warn("watch disabled", zap.Error(err))
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.scene != nil {
		g.scene.Destroy()
	}
}

func (g *Game) rebuild() error {
	spec, err := prefabs.LoadScene(g.cfg.Scene)
	if err != nil {
		return err
	}
	scene, err := entity.BuildScene(spec, entity.WithDT(g.cfg.DT), entity.WithLogger(g.log))
	if err != nil {
		return err
	}
	if g.scene != nil {
		g.scene.Destroy()
	}
	g.scene = scene
	g.groups = g.groups[:0]
	for _, name := range spec.Groups {
		g.groups = append(g.groups, scene.Groups[name])
	}
	g.status = "loaded " + spec.Name
	return nil
}

func (g *Game) Update() error {
	g.pollWatcher()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := g.rebuild(); err != nil {
			g.status = "reload failed: " + err.Error()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.copyReport()
	}

	g.updateCamera()

	if !g.paused || inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.scene.World.Update()
	}
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.rebuild(); err != nil {
				g.status = "reload failed: " + err.Error()
				g.log.Error("reload failed", zap.String("path", path), zap.Error(err))
			}
		default:
			return
		}
	}
}

func (g *Game) updateCamera() {
	step := panSpeed * g.cfg.DT
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.targetX -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.targetX += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.targetY += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.targetY -= step
	}
	if _, wy := ebiten.Wheel(); wy > 0 {
		g.zoom *= zoomPerStep
	} else if wy < 0 {
		g.zoom /= zoomPerStep
	}
	g.zoom = common.Clamp(g.zoom, minZoom, maxZoom)
	g.camX = common.Lerp(g.camX, g.targetX, cameraEase)
	g.camY = common.Lerp(g.camY, g.targetY, cameraEase)
}

func (g *Game) copyReport() {
	if !g.clipboardReady {
		g.status = "clipboard unavailable"
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(g.scene.Report()))
	g.status = "report copied"
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	cam := system.DebugCamera{
		X:      g.camX,
		Y:      g.camY,
		Zoom:   g.zoom,
		Width:  g.cfg.Viewer.Width,
		Height: g.cfg.Viewer.Height,
	}
	system.DrawShapeDebug(screen, cam, g.groups, g.scene.Collisions.Hits(), g.scene.Probes)

	state := "running"
	if g.paused {
		state = "paused"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  %s  %s\n%s", ebiten.ActualFPS(), state, g.status, g.scene.Report()))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Viewer.Width, g.cfg.Viewer.Height
}

package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/collide/config"
	"github.com/milk9111/collide/logging"
)

func main() {
	configPath := flag.String("config", "collide.yaml", "run configuration (YAML)")
	sceneName := flag.String("scene", "", "scene name in prefabs/scenes (overrides config)")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *sceneName != "" {
		cfg.Scene = *sceneName
	}
	if *debug {
		cfg.LogLevel = "debug"
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Viewer.Width, cfg.Viewer.Height)
	ebiten.SetWindowTitle("collide - " + cfg.Scene)
	ebiten.SetTPS(int(1/cfg.DT + 0.5))

	game, err := NewGame(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/milk9111/collide/config"
	"github.com/milk9111/collide/logging"
)

func main() {
	configPath := flag.String("config", "collide.yaml", "run configuration (YAML); missing file means defaults")
	sceneName := flag.String("scene", "", "scene name in prefabs/scenes (overrides config)")
	frames := flag.Int("frames", -1, "frames to simulate (overrides config)")
	level := flag.String("log", "", "log level: debug, info, warn, error (overrides config)")
	watch := flag.Bool("watch", false, "keep running and rebuild the scene when its files change")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *sceneName != "" {
		cfg.Scene = *sceneName
	}
	if *frames >= 0 {
		cfg.Frames = *frames
	}
	if *level != "" {
		cfg.LogLevel = *level
	}
	if *watch {
		cfg.Watch.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &runner{cfg: cfg, log: log, out: os.Stdout}
	if cfg.Watch.Enabled {
		err = r.watch(ctx)
	} else {
		err = r.once()
	}
	if err != nil && ctx.Err() == nil {
		log.Error("collide failed", zap.Error(err))
		os.Exit(1)
	}
}

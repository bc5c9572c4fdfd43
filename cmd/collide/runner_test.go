package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/milk9111/collide/config"
)

func TestRunnerOncePrintsEventsAndHits(t *testing.T) {
	cfg := config.Default()
	cfg.Scene = "boxes"
	cfg.Frames = 6

	var out bytes.Buffer
	r := &runner{cfg: cfg, log: zaptest.NewLogger(t), out: &out}
	require.NoError(t, r.once())

	assert.Equal(t, "frame 1: s1 begin s2 in boxes\n"+
		"frame 5: s1 end s2 in boxes\n"+
		"scene boxes after 6 frames\n"+
		"  s1           boxes      -\n", out.String())
}

func TestRunnerUnknownScene(t *testing.T) {
	cfg := config.Default()
	cfg.Scene = "nowhere"
	r := &runner{cfg: cfg, log: zaptest.NewLogger(t), out: &bytes.Buffer{}}
	require.Error(t, r.once())
}

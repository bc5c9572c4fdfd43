package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLerp(t *testing.T) {
	assert.Equal(t, 0.0, Lerp(0, 10, 0))
	assert.Equal(t, 10.0, Lerp(0, 10, 1))
	assert.InDelta(t, 2.5, Lerp(0, 10, 0.25), 1e-12)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(-3, 1, 4))
	assert.Equal(t, 4.0, Clamp(9, 1, 4))
	assert.Equal(t, 2.0, Clamp(2, 1, 4))
}

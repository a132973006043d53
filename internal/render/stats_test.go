package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameStats(t *testing.T) {
	var clock time.Duration
	s := NewFrameStats()
	s.now = func() time.Duration { return clock }

	assert.Zero(t, s.Mean())

	for _, d := range []time.Duration{10 * time.Millisecond, 30 * time.Millisecond, 20 * time.Millisecond} {
		s.Begin()
		clock += d
		s.End()
	}

	assert.Equal(t, 3, s.Frames)
	assert.Equal(t, 60*time.Millisecond, s.Total)
	assert.Equal(t, 30*time.Millisecond, s.Max)
	assert.Equal(t, 20*time.Millisecond, s.Mean())
	assert.Equal(t, 3, s.Fields()["frames"])
}

package window

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestHandleEvent(t *testing.T) {
	log, _ := test.NewNullLogger()

	cases := []struct {
		name   string
		event  sdl.Event
		closes bool
	}{
		{name: "quit", event: &sdl.QuitEvent{Type: sdl.QUIT}, closes: true},
		{name: "escape pressed", event: &sdl.KeyboardEvent{Type: sdl.KEYDOWN, State: sdl.PRESSED, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}}, closes: true},
		{name: "escape released", event: &sdl.KeyboardEvent{Type: sdl.KEYUP, State: sdl.RELEASED, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}}},
		{name: "other key", event: &sdl.KeyboardEvent{Type: sdl.KEYDOWN, State: sdl.PRESSED, Keysym: sdl.Keysym{Sym: sdl.K_SPACE}}},
		{name: "mouse", event: &sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := &Window{log: log}
			w.handleEvent(tc.event)
			assert.Equal(t, tc.closes, w.ShouldClose())
		})
	}
}

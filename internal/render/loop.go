package render

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

// Window is the part of the windowing system the frame loop needs.
type Window interface {
	// FramebufferSize returns the drawable size in pixels, which can differ from
	// the window size on high density displays.
	FramebufferSize() (width, height int)
	ShouldClose() bool
	PollEvents()
}

// Loop draws frames until the window asks to close, the context is cancelled
// or MaxFrames frames have been drawn.
type Loop struct {
	Window    Window
	Device    gpu.Device
	Sync      *FrameSync
	Stats     *FrameStats
	MaxFrames int
	Log       logrus.FieldLogger
}

// Run drives the loop. Whatever the reason it stops, it waits for the device to
// go idle before returning so the caller can tear down safely.
func (l *Loop) Run(ctx context.Context) (err error) {
	defer func() {
		if idleErr := l.Device.WaitIdle(); idleErr != nil {
			err = errors.CombineErrors(err, errors.Wrap(idleErr, "waiting for device idle"))
		}
	}()

	for frame := 0; ; frame++ {
		if l.Window.ShouldClose() {
			l.Log.WithField("frame", frame).Debug("Window closed")
			return nil
		}
		if ctx.Err() != nil {
			l.Log.WithField("frame", frame).Debug("Context cancelled")
			return nil
		}
		if l.MaxFrames > 0 && frame >= l.MaxFrames {
			l.Log.WithField("frame", frame).Debug("Frame budget reached")
			return nil
		}

		l.Window.PollEvents()

		l.Stats.Begin()
		if err := l.Sync.DrawFrame(); err != nil {
			return errors.Wrapf(err, "frame %d", frame)
		}
		l.Stats.End()
	}
}

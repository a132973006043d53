package render

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/hellotriangle/internal/assets"
	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

type Options struct {
	// DeviceExtensions defaults to DeviceExtensions.
	DeviceExtensions []string
	// PreferredAdapter selects an adapter by pipeline cache UUID when it is
	// suitable.
	PreferredAdapter uuid.UUID
	ClearColor       mgl32.Vec4
	// FenceTimeout defaults to gpu.NoTimeout.
	FenceTimeout time.Duration
	// MaxFrames stops the loop after that many frames. Zero runs until the
	// window closes.
	MaxFrames int
}

// Renderer owns every object the triangle renderer creates and destroys them in
// reverse order of creation.
type Renderer struct {
	Surface   gpu.Surface
	Device    *DeviceContext
	Swapchain *Swapchain
	Targets   *RenderTargets
	Commands  *CommandUnit
	Sync      *FrameSync
	Stats     *FrameStats

	loop  *Loop
	owned gpu.Stack
	log   logrus.FieldLogger
}

// New builds the renderer for window on inst. Invalid shaders are reported
// before any object is created. On failure everything created so far is
// destroyed again.
func New(inst gpu.Instance, createSurface SurfaceFactory, window Window, shaders assets.Shaders, opts Options, log logrus.FieldLogger) (_ *Renderer, err error) {
	if err := shaders.Validate(); err != nil {
		return nil, err
	}
	if opts.DeviceExtensions == nil {
		opts.DeviceExtensions = DeviceExtensions
	}
	if opts.FenceTimeout <= 0 {
		opts.FenceTimeout = gpu.NoTimeout
	}

	r := &Renderer{log: log, Stats: NewFrameStats()}
	defer func() {
		if err != nil {
			r.Destroy()
		}
	}()

	r.Surface, err = createSurface()
	if err != nil {
		return nil, errors.Wrap(err, "creating surface")
	}
	r.owned.Push("surface", r.Surface)

	adapters, err := inst.Adapters()
	if err != nil {
		return nil, errors.Wrap(err, "enumerating adapters")
	}
	caps, err := SelectAdapter(adapters, r.Surface, opts.DeviceExtensions, opts.PreferredAdapter, log)
	if err != nil {
		return nil, err
	}

	r.Device, err = NewDeviceContext(caps, opts.DeviceExtensions)
	if err != nil {
		return nil, err
	}
	r.owned.Push("device", r.Device)

	width, height := window.FramebufferSize()
	r.Swapchain, err = NewSwapchain(r.Device, r.Surface, width, height, log)
	if err != nil {
		return nil, err
	}
	r.owned.Push("swapchain", r.Swapchain)

	r.Targets, err = NewRenderTargets(r.Device.Device, r.Swapchain, shaders)
	if err != nil {
		return nil, err
	}
	r.owned.Push("render targets", r.Targets)

	r.Commands, err = NewCommandUnit(r.Device, r.Targets, opts.ClearColor)
	if err != nil {
		return nil, err
	}
	r.owned.Push("command unit", r.Commands)

	r.Sync, err = NewFrameSync(r.Device, r.Swapchain, r.Commands, opts.FenceTimeout, log)
	if err != nil {
		return nil, err
	}
	r.owned.Push("frame sync", r.Sync)

	r.loop = &Loop{
		Window:    window,
		Device:    r.Device.Device,
		Sync:      r.Sync,
		Stats:     r.Stats,
		MaxFrames: opts.MaxFrames,
		Log:       log,
	}
	return r, nil
}

func (r *Renderer) Run(ctx context.Context) error {
	return r.loop.Run(ctx)
}

// Destroy waits for the device to go idle and tears the renderer down. It is
// safe to call more than once.
func (r *Renderer) Destroy() {
	if r.owned.Len() == 0 {
		return
	}
	if r.Device != nil {
		if err := r.Device.Device.WaitIdle(); err != nil {
			r.log.WithError(err).Warn("Device did not go idle before teardown")
		}
	}

	r.log.WithField("objects", r.owned.Names()).Debug("Destroying renderer")
	r.owned.Unwind()
	r.Device = nil
}

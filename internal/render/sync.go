package render

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

// FrameSync paces a single frame in flight. ImageAvailable orders rendering after
// the acquired image is ready, RenderFinished orders presentation after
// rendering, and InFlight lets the host wait for the previous frame to retire
// before it touches the command buffer again.
type FrameSync struct {
	ImageAvailable gpu.Semaphore
	RenderFinished gpu.Semaphore
	InFlight       gpu.Fence

	// Timeout bounds the wait on InFlight. gpu.NoTimeout waits forever.
	Timeout time.Duration

	dc        *DeviceContext
	swapchain *Swapchain
	commands  *CommandUnit
	log       logrus.FieldLogger
	owned     gpu.Stack
}

// NewFrameSync creates the semaphores unsignaled and the fence signaled, so the
// first frame does not wait.
func NewFrameSync(dc *DeviceContext, sc *Swapchain, commands *CommandUnit, timeout time.Duration, log logrus.FieldLogger) (_ *FrameSync, err error) {
	s := &FrameSync{
		Timeout:   timeout,
		dc:        dc,
		swapchain: sc,
		commands:  commands,
		log:       log,
	}
	defer func() {
		if err != nil {
			s.owned.Unwind()
		}
	}()

	s.ImageAvailable, err = dc.Device.CreateSemaphore()
	if err != nil {
		return nil, errors.Wrap(err, "creating image-available semaphore")
	}
	s.owned.Push("image available", s.ImageAvailable)

	s.RenderFinished, err = dc.Device.CreateSemaphore()
	if err != nil {
		return nil, errors.Wrap(err, "creating render-finished semaphore")
	}
	s.owned.Push("render finished", s.RenderFinished)

	s.InFlight, err = dc.Device.CreateFence(true)
	if err != nil {
		return nil, errors.Wrap(err, "creating in-flight fence")
	}
	s.owned.Push("in flight", s.InFlight)

	return s, nil
}

// DrawFrame renders and presents one frame. It blocks until the previous frame
// has retired, so the command buffer is never recorded while the GPU reads it.
func (s *FrameSync) DrawFrame() error {
	device := s.dc.Device

	if err := device.WaitForFence(s.InFlight, s.Timeout); err != nil {
		return errors.Wrap(err, "waiting for previous frame")
	}
	if err := device.ResetFence(s.InFlight); err != nil {
		return errors.Wrap(err, "resetting in-flight fence")
	}

	imageIndex, suboptimal, err := s.swapchain.Handle.AcquireNextImage(gpu.NoTimeout, s.ImageAvailable)
	if err != nil {
		return errors.Wrap(err, "acquiring swapchain image")
	}
	if suboptimal {
		s.log.WithField("image", imageIndex).Debug("Acquired image from suboptimal swapchain")
	}

	if err := s.commands.Record(imageIndex); err != nil {
		return errors.Wrapf(err, "recording frame for image %d", imageIndex)
	}

	err = s.dc.Graphics.Submit(gpu.SubmitInfo{
		WaitSemaphores:   []gpu.Semaphore{s.ImageAvailable},
		WaitStages:       []gpu.PipelineStage{gpu.PipelineStageColorAttachmentOutput},
		CommandBuffers:   []gpu.CommandBuffer{s.commands.Buffer},
		SignalSemaphores: []gpu.Semaphore{s.RenderFinished},
		Fence:            s.InFlight,
	})
	if err != nil {
		return errors.Wrap(err, "submitting frame")
	}

	suboptimal, err = s.dc.Present.Present(gpu.PresentInfo{
		WaitSemaphores: []gpu.Semaphore{s.RenderFinished},
		Swapchain:      s.swapchain.Handle,
		ImageIndex:     imageIndex,
	})
	if err != nil {
		return errors.Wrap(err, "presenting frame")
	}
	if suboptimal {
		s.log.WithField("image", imageIndex).Debug("Presented to suboptimal swapchain")
	}

	return nil
}

func (s *FrameSync) Destroy() {
	s.owned.Unwind()
}

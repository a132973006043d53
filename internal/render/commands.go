package render

import (
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

// TriangleVertices is the number of vertices the vertex shader emits.
const TriangleVertices = 3

// CommandUnit owns a command pool on the graphics family and the single primary
// command buffer that is re-recorded every frame.
type CommandUnit struct {
	Pool   gpu.CommandPool
	Buffer gpu.CommandBuffer
	Clear  gpu.ClearColor

	targets *RenderTargets
}

func NewCommandUnit(dc *DeviceContext, targets *RenderTargets, clear mgl32.Vec4) (*CommandUnit, error) {
	pool, err := dc.Device.CreateCommandPool(gpu.CommandPoolCreateInfo{
		QueueFamily:  dc.Adapter.Families.Graphics,
		ResetBuffers: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating command pool")
	}

	buffer, err := pool.AllocateCommandBuffer()
	if err != nil {
		pool.Destroy()
		return nil, errors.Wrap(err, "allocating command buffer")
	}

	return &CommandUnit{
		Pool:    pool,
		Buffer:  buffer,
		Clear:   gpu.ClearColor(clear),
		targets: targets,
	}, nil
}

// Record re-records the command buffer to clear and draw into the framebuffer
// of the given swapchain image. The caller must know the GPU is done with the
// buffer.
func (c *CommandUnit) Record(imageIndex int) error {
	t := c.targets
	if imageIndex < 0 || imageIndex >= len(t.Framebuffers) {
		return errors.Errorf("image index %d out of range for %d framebuffers", imageIndex, len(t.Framebuffers))
	}

	if err := c.Buffer.Reset(); err != nil {
		return errors.Wrap(err, "resetting command buffer")
	}
	if err := c.Buffer.Begin(); err != nil {
		return errors.Wrap(err, "beginning command buffer")
	}

	area := gpu.Rect2D{Extent: t.Extent}
	err := c.Buffer.BeginRenderPass(gpu.RenderPassBeginInfo{
		RenderPass:  t.RenderPass,
		Framebuffer: t.Framebuffers[imageIndex],
		RenderArea:  area,
		ClearColor:  c.Clear,
	})
	if err != nil {
		return errors.Wrap(err, "beginning render pass")
	}

	c.Buffer.BindPipeline(t.Pipeline)
	c.Buffer.SetViewport(gpu.Viewport{
		Width:    float32(t.Extent.Width),
		Height:   float32(t.Extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	})
	c.Buffer.SetScissor(area)
	c.Buffer.Draw(TriangleVertices, 1, 0, 0)
	c.Buffer.EndRenderPass()

	if err := c.Buffer.End(); err != nil {
		return errors.Wrap(err, "ending command buffer")
	}
	return nil
}

// Destroy frees the pool and with it the command buffer.
func (c *CommandUnit) Destroy() {
	c.Pool.Destroy()
}

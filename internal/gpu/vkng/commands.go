package vkng

import (
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

type CommandPool struct {
	device *Device
	handle core1_0.CommandPool
}

func (p *CommandPool) AllocateCommandBuffer() (gpu.CommandBuffer, error) {
	buffers, res, err := p.device.driver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        p.handle,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return nil, check(res, err)
	}
	return &CommandBuffer{device: p.device, handle: buffers[0]}, nil
}

// Destroy frees the pool along with every buffer allocated from it.
func (p *CommandPool) Destroy() {
	p.device.driver.DestroyCommandPool(p.handle, nil)
}

type CommandBuffer struct {
	device *Device
	handle core1_0.CommandBuffer
}

func (b *CommandBuffer) driver() core1_0.CoreDeviceDriver {
	return b.device.driver
}

func (b *CommandBuffer) Reset() error {
	return check(b.driver().ResetCommandBuffer(b.handle, 0))
}

func (b *CommandBuffer) Begin() error {
	return check(b.driver().BeginCommandBuffer(b.handle, core1_0.CommandBufferBeginInfo{}))
}

func (b *CommandBuffer) BeginRenderPass(info gpu.RenderPassBeginInfo) error {
	c := info.ClearColor
	return b.driver().CmdBeginRenderPass(b.handle, core1_0.SubpassContentsInline, core1_0.RenderPassBeginInfo{
		RenderPass:  info.RenderPass.(*RenderPass).handle,
		Framebuffer: info.Framebuffer.(*Framebuffer).handle,
		RenderArea:  rectToCore(info.RenderArea),
		ClearValues: []core1_0.ClearValue{
			core1_0.ClearValueFloat{c[0], c[1], c[2], c[3]},
		},
	})
}

func (b *CommandBuffer) BindPipeline(pipeline gpu.Pipeline) {
	b.driver().CmdBindPipeline(b.handle, core1_0.PipelineBindPointGraphics, pipeline.(*Pipeline).handle)
}

func (b *CommandBuffer) SetViewport(viewport gpu.Viewport) {
	b.driver().CmdSetViewport(b.handle, viewportToCore(viewport))
}

func (b *CommandBuffer) SetScissor(scissor gpu.Rect2D) {
	b.driver().CmdSetScissor(b.handle, rectToCore(scissor))
}

func (b *CommandBuffer) Draw(vertexCount, instanceCount, firstVertex, firstInstance int) {
	b.driver().CmdDraw(b.handle, vertexCount, instanceCount, uint32(firstVertex), uint32(firstInstance))
}

func (b *CommandBuffer) EndRenderPass() {
	b.driver().CmdEndRenderPass(b.handle)
}

func (b *CommandBuffer) End() error {
	return check(b.driver().EndCommandBuffer(b.handle))
}

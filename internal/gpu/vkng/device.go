package vkng

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

type Device struct {
	adapter    *Adapter
	driver     core1_0.CoreDeviceDriver
	swapchains khr_swapchain.ExtensionDriver
}

func (d *Device) Destroy() {
	d.driver.DestroyDevice(nil)
}

func (d *Device) Queue(family int) gpu.Queue {
	return &Queue{device: d, handle: d.driver.GetQueue(family, 0)}
}

func (d *Device) WaitIdle() error {
	return check(d.driver.DeviceWaitIdle())
}

func (d *Device) CreateImageView(info gpu.ImageViewCreateInfo) (gpu.ImageView, error) {
	view, res, err := d.driver.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    info.Image.(core1_0.Image),
		ViewType: core1_0.ImageViewType2D,
		Format:   core1_0.Format(info.Format),
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     core1_0.ImageAspectColor,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	if err != nil {
		return nil, check(res, err)
	}
	return &ImageView{device: d, handle: view}, nil
}

func (d *Device) CreateRenderPass(info gpu.RenderPassCreateInfo) (gpu.RenderPass, error) {
	renderPass, res, err := d.driver.CreateRenderPass(nil, renderPassToCore(info))
	if err != nil {
		return nil, check(res, err)
	}
	return &RenderPass{device: d, handle: renderPass}, nil
}

func (d *Device) CreateShaderModule(code []uint32) (gpu.ShaderModule, error) {
	module, res, err := d.driver.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: code,
	})
	if err != nil {
		return nil, check(res, err)
	}
	return &ShaderModule{device: d, handle: module}, nil
}

func (d *Device) CreatePipelineLayout(info gpu.PipelineLayoutCreateInfo) (gpu.PipelineLayout, error) {
	if info.SetLayoutCount != 0 || info.PushConstantCount != 0 {
		return nil, errors.New("descriptor set layouts and push constants are not supported")
	}

	layout, res, err := d.driver.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{})
	if err != nil {
		return nil, check(res, err)
	}
	return &PipelineLayout{device: d, handle: layout}, nil
}

func (d *Device) CreateGraphicsPipeline(info gpu.GraphicsPipelineCreateInfo) (gpu.Pipeline, error) {
	if info.VertexBindings != 0 {
		return nil, errors.New("vertex buffer bindings are not supported")
	}

	pipelines, res, err := d.driver.CreateGraphicsPipelines(nil, nil, pipelineToCore(info))
	if err != nil {
		return nil, check(res, err)
	}
	return &Pipeline{device: d, handle: pipelines[0]}, nil
}

func (d *Device) CreateFramebuffer(info gpu.FramebufferCreateInfo) (gpu.Framebuffer, error) {
	attachments := make([]core1_0.ImageView, len(info.Attachments))
	for i, a := range info.Attachments {
		attachments[i] = a.(*ImageView).handle
	}

	framebuffer, res, err := d.driver.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
		RenderPass:  info.RenderPass.(*RenderPass).handle,
		Layers:      1,
		Attachments: attachments,
		Width:       info.Extent.Width,
		Height:      info.Extent.Height,
	})
	if err != nil {
		return nil, check(res, err)
	}
	return &Framebuffer{device: d, handle: framebuffer}, nil
}

func (d *Device) CreateCommandPool(info gpu.CommandPoolCreateInfo) (gpu.CommandPool, error) {
	var flags core1_0.CommandPoolCreateFlags
	if info.ResetBuffers {
		flags |= core1_0.CommandPoolCreateResetBuffer
	}

	pool, res, err := d.driver.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		Flags:            flags,
		QueueFamilyIndex: info.QueueFamily,
	})
	if err != nil {
		return nil, check(res, err)
	}
	return &CommandPool{device: d, handle: pool}, nil
}

func (d *Device) CreateSemaphore() (gpu.Semaphore, error) {
	semaphore, res, err := d.driver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
	if err != nil {
		return nil, check(res, err)
	}
	return &Semaphore{device: d, handle: semaphore}, nil
}

func (d *Device) CreateFence(signaled bool) (gpu.Fence, error) {
	var flags core1_0.FenceCreateFlags
	if signaled {
		flags |= core1_0.FenceCreateSignaled
	}

	fence, res, err := d.driver.CreateFence(nil, core1_0.FenceCreateInfo{Flags: flags})
	if err != nil {
		return nil, check(res, err)
	}
	return &Fence{device: d, handle: fence}, nil
}

func (d *Device) WaitForFence(fence gpu.Fence, wait time.Duration) error {
	res, err := d.driver.WaitForFences(true, timeout(wait), fence.(*Fence).handle)
	if err != nil {
		return check(res, err)
	}
	if res == core1_0.VKTimeout {
		return errors.Wrapf(gpu.ErrTimeout, "fence not signaled after %s", wait)
	}
	return nil
}

func (d *Device) ResetFence(fence gpu.Fence) error {
	return check(d.driver.ResetFences(fence.(*Fence).handle))
}

type Queue struct {
	device *Device
	handle core1_0.Queue
}

func (q *Queue) Submit(info gpu.SubmitInfo) error {
	stages := make([]core1_0.PipelineStageFlags, len(info.WaitStages))
	for i, s := range info.WaitStages {
		stages[i] = core1_0.PipelineStageFlags(s)
	}
	buffers := make([]core1_0.CommandBuffer, len(info.CommandBuffers))
	for i, b := range info.CommandBuffers {
		buffers[i] = b.(*CommandBuffer).handle
	}

	var fence *core1_0.Fence
	if info.Fence != nil {
		fence = &info.Fence.(*Fence).handle
	}

	return check(q.device.driver.QueueSubmit(q.handle, fence, core1_0.SubmitInfo{
		WaitSemaphores:   semaphores(info.WaitSemaphores),
		WaitDstStageMask: stages,
		CommandBuffers:   buffers,
		SignalSemaphores: semaphores(info.SignalSemaphores),
	}))
}

func (q *Queue) Present(info gpu.PresentInfo) (bool, error) {
	res, err := q.device.swapchains.QueuePresent(q.handle, khr_swapchain.PresentInfo{
		WaitSemaphores: semaphores(info.WaitSemaphores),
		Swapchains:     []khr_swapchain.Swapchain{info.Swapchain.(*Swapchain).handle},
		ImageIndices:   []int{info.ImageIndex},
	})
	if err != nil {
		return false, check(res, err)
	}
	return res == khr_swapchain.VKSuboptimal, nil
}

type ImageView struct {
	device *Device
	handle core1_0.ImageView
}

func (v *ImageView) Destroy() {
	v.device.driver.DestroyImageView(v.handle, nil)
}

type RenderPass struct {
	device *Device
	handle core1_0.RenderPass
}

func (rp *RenderPass) Destroy() {
	rp.device.driver.DestroyRenderPass(rp.handle, nil)
}

type ShaderModule struct {
	device *Device
	handle core1_0.ShaderModule
}

func (m *ShaderModule) Destroy() {
	m.device.driver.DestroyShaderModule(m.handle, nil)
}

type PipelineLayout struct {
	device *Device
	handle core1_0.PipelineLayout
}

func (l *PipelineLayout) Destroy() {
	l.device.driver.DestroyPipelineLayout(l.handle, nil)
}

type Pipeline struct {
	device *Device
	handle core1_0.Pipeline
}

func (p *Pipeline) Destroy() {
	p.device.driver.DestroyPipeline(p.handle, nil)
}

type Framebuffer struct {
	device *Device
	handle core1_0.Framebuffer
}

func (fb *Framebuffer) Destroy() {
	fb.device.driver.DestroyFramebuffer(fb.handle, nil)
}

type Semaphore struct {
	device *Device
	handle core1_0.Semaphore
}

func (s *Semaphore) Destroy() {
	s.device.driver.DestroySemaphore(s.handle, nil)
}

type Fence struct {
	device *Device
	handle core1_0.Fence
}

func (f *Fence) Destroy() {
	f.device.driver.DestroyFence(f.handle, nil)
}

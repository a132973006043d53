package gputest

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

type Device struct {
	object
	adapter *Adapter

	Info            gpu.DeviceCreateInfo
	SwapchainInfo   gpu.SwapchainCreateInfo
	RenderPassInfo  gpu.RenderPassCreateInfo
	LayoutInfo      gpu.PipelineLayoutCreateInfo
	PipelineInfo    gpu.GraphicsPipelineCreateInfo
	CommandPoolInfo gpu.CommandPoolCreateInfo

	AcquireErr        error
	AcquireSuboptimal bool
	PresentErr        error
	PresentSuboptimal bool

	queues map[int]*Queue
}

func (d *Device) Destroy() {
	for _, name := range d.rec.Live() {
		obj := d.rec.live[name]
		switch obj.(type) {
		case *Instance, *Surface, *Device:
		default:
			d.rec.violate("%s destroyed while %s is alive", d.name, name)
		}
	}
	d.destroy()
}

func (d *Device) Queue(family int) gpu.Queue {
	if q, ok := d.queues[family]; ok {
		return q
	}

	requested := false
	for _, f := range d.Info.QueueFamilies {
		requested = requested || f == family
	}
	if !requested {
		d.rec.violate("queue family %d was not requested at device creation", family)
	}

	q := &Queue{device: d, name: fmt.Sprintf("queue(%d)", family), Family: family}
	d.queues[family] = q
	return q
}

// WaitIdle retires the work pending on every fence.
func (d *Device) WaitIdle() error {
	if err := d.rec.call("WaitIdle", d.name, ""); err != nil {
		return err
	}
	for _, obj := range d.rec.live {
		if f, ok := obj.(*Fence); ok {
			f.retire()
		}
	}
	return nil
}

func (d *Device) CreateSwapchain(info gpu.SwapchainCreateInfo) (gpu.Swapchain, error) {
	sc := &Swapchain{object: d.rec.newObject("swapchain"), device: d}
	if err := d.rec.call("CreateSwapchain", sc.name, fmt.Sprintf("min=%d", info.MinImageCount)); err != nil {
		return nil, err
	}
	d.rec.requireLive("CreateSwapchain", nameOf(info.Surface))

	d.SwapchainInfo = info
	count := d.adapter.SwapchainImages
	if count == 0 {
		count = info.MinImageCount
	}
	for i := 0; i < count; i++ {
		sc.images = append(sc.images, &Image{name: d.rec.newName("image"), swapchain: sc})
	}

	d.rec.add(sc.name, sc)
	return sc, nil
}

func (d *Device) CreateImageView(info gpu.ImageViewCreateInfo) (gpu.ImageView, error) {
	v := &ImageView{object: d.rec.newObject("view")}
	if err := d.rec.call("CreateImageView", v.name, nameOf(info.Image)); err != nil {
		return nil, err
	}
	if img, ok := info.Image.(*Image); ok {
		v.Image = img
		d.rec.requireLive("CreateImageView", img.swapchain.name)
	}
	d.rec.add(v.name, v)
	return v, nil
}

func (d *Device) CreateRenderPass(info gpu.RenderPassCreateInfo) (gpu.RenderPass, error) {
	rp := &RenderPass{object: d.rec.newObject("renderpass")}
	if err := d.rec.call("CreateRenderPass", rp.name, ""); err != nil {
		return nil, err
	}
	d.RenderPassInfo = info
	d.rec.add(rp.name, rp)
	return rp, nil
}

func (d *Device) CreateShaderModule(code []uint32) (gpu.ShaderModule, error) {
	m := &ShaderModule{object: d.rec.newObject("shader"), Words: len(code)}
	if err := d.rec.call("CreateShaderModule", m.name, fmt.Sprintf("words=%d", len(code))); err != nil {
		return nil, err
	}
	if len(code) == 0 {
		d.rec.violate("%s created from empty bytecode", m.name)
	}
	d.rec.add(m.name, m)
	return m, nil
}

func (d *Device) CreatePipelineLayout(info gpu.PipelineLayoutCreateInfo) (gpu.PipelineLayout, error) {
	l := &PipelineLayout{object: d.rec.newObject("layout")}
	if err := d.rec.call("CreatePipelineLayout", l.name, ""); err != nil {
		return nil, err
	}
	d.LayoutInfo = info
	d.rec.add(l.name, l)
	return l, nil
}

func (d *Device) CreateGraphicsPipeline(info gpu.GraphicsPipelineCreateInfo) (gpu.Pipeline, error) {
	p := &Pipeline{object: d.rec.newObject("pipeline")}
	if err := d.rec.call("CreateGraphicsPipeline", p.name, ""); err != nil {
		return nil, err
	}
	for _, stage := range info.Stages {
		d.rec.requireLive("CreateGraphicsPipeline", nameOf(stage.Module))
	}
	d.rec.requireLive("CreateGraphicsPipeline", nameOf(info.Layout))
	d.rec.requireLive("CreateGraphicsPipeline", nameOf(info.RenderPass))

	d.PipelineInfo = info
	d.rec.add(p.name, p)
	return p, nil
}

func (d *Device) CreateFramebuffer(info gpu.FramebufferCreateInfo) (gpu.Framebuffer, error) {
	fb := &Framebuffer{object: d.rec.newObject("framebuffer"), Extent: info.Extent}
	var attached []string
	for _, a := range info.Attachments {
		attached = append(attached, nameOf(a))
	}
	if err := d.rec.call("CreateFramebuffer", fb.name, fmt.Sprint(attached)); err != nil {
		return nil, err
	}
	for _, name := range attached {
		d.rec.requireLive("CreateFramebuffer", name)
	}
	d.rec.requireLive("CreateFramebuffer", nameOf(info.RenderPass))

	fb.Attachments = attached
	d.rec.add(fb.name, fb)
	return fb, nil
}

func (d *Device) CreateCommandPool(info gpu.CommandPoolCreateInfo) (gpu.CommandPool, error) {
	p := &CommandPool{object: d.rec.newObject("pool"), info: info}
	if err := d.rec.call("CreateCommandPool", p.name, fmt.Sprintf("family=%d", info.QueueFamily)); err != nil {
		return nil, err
	}
	d.CommandPoolInfo = info
	d.rec.add(p.name, p)
	return p, nil
}

func (d *Device) CreateSemaphore() (gpu.Semaphore, error) {
	s := &Semaphore{object: d.rec.newObject("semaphore")}
	if err := d.rec.call("CreateSemaphore", s.name, ""); err != nil {
		return nil, err
	}
	d.rec.add(s.name, s)
	return s, nil
}

func (d *Device) CreateFence(signaled bool) (gpu.Fence, error) {
	f := &Fence{object: d.rec.newObject("fence"), Signaled: signaled}
	if err := d.rec.call("CreateFence", f.name, fmt.Sprintf("signaled=%t", signaled)); err != nil {
		return nil, err
	}
	d.rec.add(f.name, f)
	return f, nil
}

// WaitForFence retires any work pending on the fence, so a submitted fence is
// always signaled by the time it is waited on. A fence that was reset and never
// submitted times out.
func (d *Device) WaitForFence(fence gpu.Fence, timeout time.Duration) error {
	f := fence.(*Fence)
	f.retire()

	detail := "signaled"
	if !f.Signaled {
		detail = "timeout"
	}
	if err := d.rec.call("WaitForFence", f.name, detail); err != nil {
		return err
	}
	d.rec.requireLive("WaitForFence", f.name)

	if !f.Signaled {
		return errors.Wrapf(gpu.ErrTimeout, "waiting on %s", f.name)
	}
	return nil
}

func (d *Device) ResetFence(fence gpu.Fence) error {
	f := fence.(*Fence)
	if err := d.rec.call("ResetFence", f.name, ""); err != nil {
		return err
	}
	if f.pending != nil {
		d.rec.violate("%s reset while its work is pending", f.name)
	}
	f.Signaled = false
	return nil
}

type Queue struct {
	device *Device
	name   string
	Family int
}

func (q *Queue) Name() string {
	return q.name
}

func (q *Queue) Submit(info gpu.SubmitInfo) error {
	rec := q.device.rec
	if err := rec.call("Submit", q.name, nameOf(info.Fence)); err != nil {
		return err
	}

	if len(info.WaitSemaphores) != len(info.WaitStages) {
		rec.violate("submit with %d wait semaphores and %d wait stages", len(info.WaitSemaphores), len(info.WaitStages))
	}
	for _, s := range info.WaitSemaphores {
		sem := s.(*Semaphore)
		if !sem.Signaled {
			rec.violate("submit waits on %s which nothing signals", sem.name)
		}
		sem.Signaled = false
	}

	var buffers []*CommandBuffer
	for _, b := range info.CommandBuffers {
		buf := b.(*CommandBuffer)
		if buf.state != stateExecutable {
			rec.violate("submitted %s while it is %s", buf.name, buf.state)
		}
		buf.inFlight = true
		buffers = append(buffers, buf)
	}

	for _, s := range info.SignalSemaphores {
		s.(*Semaphore).Signaled = true
	}

	if info.Fence != nil {
		f := info.Fence.(*Fence)
		if f.Signaled || f.pending != nil {
			rec.violate("submitted with %s which was not reset", f.name)
		}
		f.pending = buffers
		if f.pending == nil {
			f.pending = []*CommandBuffer{}
		}
	}
	return nil
}

func (q *Queue) Present(info gpu.PresentInfo) (bool, error) {
	rec := q.device.rec
	if err := rec.call("Present", q.name, fmt.Sprintf("image=%d", info.ImageIndex)); err != nil {
		return false, err
	}

	for _, s := range info.WaitSemaphores {
		sem := s.(*Semaphore)
		if !sem.Signaled {
			rec.violate("present waits on %s which nothing signals", sem.name)
		}
		sem.Signaled = false
	}
	rec.requireLive("Present", nameOf(info.Swapchain))

	if q.device.PresentErr != nil {
		return false, q.device.PresentErr
	}
	return q.device.PresentSuboptimal, nil
}

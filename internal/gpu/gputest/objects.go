package gputest

import (
	"fmt"
	"time"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

type Swapchain struct {
	object
	device *Device
	images []*Image
	next   int
}

func (s *Swapchain) Images() ([]gpu.Image, error) {
	if err := s.rec.call("GetSwapchainImages", s.name, fmt.Sprintf("count=%d", len(s.images))); err != nil {
		return nil, err
	}
	images := make([]gpu.Image, len(s.images))
	for i, img := range s.images {
		images[i] = img
	}
	return images, nil
}

// AcquireNextImage hands out images round-robin.
func (s *Swapchain) AcquireNextImage(timeout time.Duration, signal gpu.Semaphore) (int, bool, error) {
	index := s.next
	if err := s.rec.call("AcquireNextImage", s.name, fmt.Sprintf("image=%d", index)); err != nil {
		return 0, false, err
	}
	if s.device.AcquireErr != nil {
		return 0, false, s.device.AcquireErr
	}

	sem := signal.(*Semaphore)
	if sem.Signaled {
		s.rec.violate("acquire armed %s while it was already signaled", sem.name)
	}
	sem.Signaled = true

	s.next = (s.next + 1) % len(s.images)
	return index, s.device.AcquireSuboptimal, nil
}

func (s *Swapchain) Destroy() {
	for _, name := range s.rec.Live() {
		if v, ok := s.rec.live[name].(*ImageView); ok && v.Image != nil && v.Image.swapchain == s {
			s.rec.violate("%s destroyed while %s still views one of its images", s.name, name)
		}
	}
	s.destroy()
}

// Image belongs to its swapchain and is never destroyed on its own.
type Image struct {
	name      string
	swapchain *Swapchain
}

func (i *Image) Name() string {
	return i.name
}

type ImageView struct {
	object
	Image *Image
}

func (v *ImageView) Destroy() { v.destroy() }

type RenderPass struct {
	object
}

func (rp *RenderPass) Destroy() { rp.destroy() }

type ShaderModule struct {
	object
	Words int
}

func (m *ShaderModule) Destroy() { m.destroy() }

type PipelineLayout struct {
	object
}

func (l *PipelineLayout) Destroy() { l.destroy() }

type Pipeline struct {
	object
}

func (p *Pipeline) Destroy() { p.destroy() }

type Framebuffer struct {
	object
	Attachments []string
	Extent      gpu.Extent2D
}

func (fb *Framebuffer) Destroy() { fb.destroy() }

type Semaphore struct {
	object
	Signaled bool
}

func (s *Semaphore) Destroy() { s.destroy() }

type Fence struct {
	object
	Signaled bool
	// pending holds the buffers of a submission the fence has not yet observed
	// retiring. It is nil when nothing is outstanding.
	pending []*CommandBuffer
}

func (f *Fence) retire() {
	if f.pending == nil {
		return
	}
	for _, buf := range f.pending {
		buf.inFlight = false
	}
	f.pending = nil
	f.Signaled = true
}

func (f *Fence) Destroy() {
	if f.pending != nil {
		f.rec.violate("%s destroyed while its work is pending", f.name)
	}
	f.destroy()
}

type CommandPool struct {
	object
	info    gpu.CommandPoolCreateInfo
	Buffers []*CommandBuffer
}

func (p *CommandPool) AllocateCommandBuffer() (gpu.CommandBuffer, error) {
	buf := &CommandBuffer{pool: p, name: p.rec.newName("cmd")}
	if err := p.rec.call("AllocateCommandBuffer", buf.name, p.name); err != nil {
		return nil, err
	}
	p.Buffers = append(p.Buffers, buf)
	return buf, nil
}

func (p *CommandPool) Destroy() {
	for _, buf := range p.Buffers {
		if buf.inFlight {
			p.rec.violate("%s destroyed while %s is in flight", p.name, buf.name)
		}
	}
	p.destroy()
}

type bufferState int

const (
	stateInitial bufferState = iota
	stateRecording
	stateExecutable
)

func (s bufferState) String() string {
	switch s {
	case stateInitial:
		return "initial"
	case stateRecording:
		return "recording"
	case stateExecutable:
		return "executable"
	}
	return "invalid"
}

type CommandBuffer struct {
	pool     *CommandPool
	name     string
	state    bufferState
	inPass   bool
	inFlight bool

	LastBegin    gpu.RenderPassBeginInfo
	LastViewport gpu.Viewport
	LastScissor  gpu.Rect2D
}

func (b *CommandBuffer) Name() string {
	return b.name
}

func (b *CommandBuffer) rec() *Recorder {
	return b.pool.rec
}

func (b *CommandBuffer) Reset() error {
	if err := b.rec().call("Reset", b.name, ""); err != nil {
		return err
	}
	if !b.pool.info.ResetBuffers {
		b.rec().violate("%s reset but %s does not allow individual resets", b.name, b.pool.name)
	}
	if b.inFlight {
		b.rec().violate("%s reset while the GPU may still read it", b.name)
	}
	b.state = stateInitial
	return nil
}

func (b *CommandBuffer) Begin() error {
	if err := b.rec().call("Begin", b.name, ""); err != nil {
		return err
	}
	if b.state == stateRecording {
		b.rec().violate("%s begun twice", b.name)
	}
	if b.inFlight {
		b.rec().violate("%s re-recorded while the GPU may still read it", b.name)
	}
	b.state = stateRecording
	return nil
}

func (b *CommandBuffer) BeginRenderPass(info gpu.RenderPassBeginInfo) error {
	if err := b.rec().call("BeginRenderPass", b.name, nameOf(info.Framebuffer)); err != nil {
		return err
	}
	if b.state != stateRecording {
		b.rec().violate("%s began a render pass while %s", b.name, b.state)
	}
	b.rec().requireLive("BeginRenderPass", nameOf(info.Framebuffer))
	b.inPass = true
	b.LastBegin = info
	return nil
}

func (b *CommandBuffer) BindPipeline(pipeline gpu.Pipeline) {
	_ = b.rec().call("BindPipeline", b.name, nameOf(pipeline))
	b.rec().requireLive("BindPipeline", nameOf(pipeline))
}

func (b *CommandBuffer) SetViewport(viewport gpu.Viewport) {
	_ = b.rec().call("SetViewport", b.name, fmt.Sprintf("%gx%g", viewport.Width, viewport.Height))
	b.LastViewport = viewport
}

func (b *CommandBuffer) SetScissor(scissor gpu.Rect2D) {
	_ = b.rec().call("SetScissor", b.name, fmt.Sprintf("%dx%d", scissor.Extent.Width, scissor.Extent.Height))
	b.LastScissor = scissor
}

func (b *CommandBuffer) Draw(vertexCount, instanceCount, firstVertex, firstInstance int) {
	_ = b.rec().call("Draw", b.name, fmt.Sprintf("%d,%d,%d,%d", vertexCount, instanceCount, firstVertex, firstInstance))
	if !b.inPass {
		b.rec().violate("%s drew outside a render pass", b.name)
	}
}

func (b *CommandBuffer) EndRenderPass() {
	_ = b.rec().call("EndRenderPass", b.name, "")
	b.inPass = false
}

func (b *CommandBuffer) End() error {
	if err := b.rec().call("End", b.name, ""); err != nil {
		return err
	}
	if b.inPass {
		b.rec().violate("%s ended inside a render pass", b.name)
	}
	b.state = stateExecutable
	return nil
}

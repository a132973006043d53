// Package gpu describes the slice of an explicit graphics API that the renderer
// drives: adapters, a logical device, a swapchain and the handful of objects a
// single-subpass forward renderer needs. The vkng subpackage implements it on top
// of vkngwrapper; gputest implements it as an instrumented fake.
package gpu

import (
	"time"
)

// Destroyer is implemented by every native object the renderer creates.
type Destroyer interface {
	Destroy()
}

type Instance interface {
	Destroyer
	Adapters() ([]Adapter, error)
}

// Surface is the platform presentation target. It is created from the window and
// must outlive every swapchain built on it.
type Surface interface {
	Destroyer
}

type Adapter interface {
	Properties() (AdapterProperties, error)
	QueueFamilies() ([]QueueFamily, error)
	PresentSupport(surface Surface, family int) (bool, error)
	Extensions() ([]string, error)
	SurfaceCapabilities(surface Surface) (SurfaceCapabilities, error)
	SurfaceFormats(surface Surface) ([]SurfaceFormat, error)
	PresentModes(surface Surface) ([]PresentMode, error)
	CreateDevice(info DeviceCreateInfo) (Device, error)
}

type Device interface {
	Destroyer

	// Queue returns queue 0 of the family. The family must have been requested
	// when the device was created.
	Queue(family int) Queue
	WaitIdle() error

	CreateSwapchain(info SwapchainCreateInfo) (Swapchain, error)
	CreateImageView(info ImageViewCreateInfo) (ImageView, error)
	CreateRenderPass(info RenderPassCreateInfo) (RenderPass, error)
	CreateShaderModule(code []uint32) (ShaderModule, error)
	CreatePipelineLayout(info PipelineLayoutCreateInfo) (PipelineLayout, error)
	CreateGraphicsPipeline(info GraphicsPipelineCreateInfo) (Pipeline, error)
	CreateFramebuffer(info FramebufferCreateInfo) (Framebuffer, error)
	CreateCommandPool(info CommandPoolCreateInfo) (CommandPool, error)
	CreateSemaphore() (Semaphore, error)
	CreateFence(signaled bool) (Fence, error)

	// WaitForFence blocks until the fence is signaled. A timeout of NoTimeout waits
	// forever; any other expiry returns ErrTimeout.
	WaitForFence(fence Fence, timeout time.Duration) error
	ResetFence(fence Fence) error
}

type Queue interface {
	Submit(info SubmitInfo) error
	// Present reports suboptimal=true when the image was shown but the surface no
	// longer matches the swapchain exactly.
	Present(info PresentInfo) (suboptimal bool, err error)
}

type Swapchain interface {
	Destroyer
	// Images returns the presentable images owned by the platform. Their count may
	// differ from the requested minimum and is authoritative.
	Images() ([]Image, error)
	AcquireNextImage(timeout time.Duration, signal Semaphore) (index int, suboptimal bool, err error)
}

// Image is a presentable image owned by the swapchain. It is never destroyed
// directly.
type Image interface{}

type ImageView interface{ Destroyer }

type RenderPass interface{ Destroyer }

type ShaderModule interface{ Destroyer }

type PipelineLayout interface{ Destroyer }

type Pipeline interface{ Destroyer }

type Framebuffer interface{ Destroyer }

type Semaphore interface{ Destroyer }

type Fence interface{ Destroyer }

type CommandPool interface {
	Destroyer
	// AllocateCommandBuffer allocates one primary buffer. It is freed with the pool.
	AllocateCommandBuffer() (CommandBuffer, error)
}

type CommandBuffer interface {
	Reset() error
	Begin() error
	BeginRenderPass(info RenderPassBeginInfo) error
	BindPipeline(pipeline Pipeline)
	SetViewport(viewport Viewport)
	SetScissor(scissor Rect2D)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance int)
	EndRenderPass()
	End() error
}

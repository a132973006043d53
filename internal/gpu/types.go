package gpu

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Enumerations below carry the numeric values of their Vulkan counterparts so a
// backend can convert them directly.

const (
	SwapchainExtension         = "VK_KHR_swapchain"
	PortabilitySubsetExtension = "VK_KHR_portability_subset"
	ValidationLayer            = "VK_LAYER_KHRONOS_validation"
)

// NoTimeout makes a wait block until the object is signaled.
const NoTimeout = time.Duration(math.MaxInt64)

type Format int32

const (
	FormatUndefined     Format = 0
	FormatR8G8B8A8UNorm Format = 37
	FormatR8G8B8A8SRGB  Format = 43
	FormatB8G8R8A8UNorm Format = 44
	FormatB8G8R8A8SRGB  Format = 50
)

func (f Format) String() string {
	switch f {
	case FormatUndefined:
		return "undefined"
	case FormatR8G8B8A8UNorm:
		return "R8G8B8A8_UNORM"
	case FormatR8G8B8A8SRGB:
		return "R8G8B8A8_SRGB"
	case FormatB8G8R8A8UNorm:
		return "B8G8R8A8_UNORM"
	case FormatB8G8R8A8SRGB:
		return "B8G8R8A8_SRGB"
	}
	return fmt.Sprintf("format(%d)", int32(f))
}

type ColorSpace int32

const ColorSpaceSRGBNonlinear ColorSpace = 0

type PresentMode int32

const (
	PresentModeImmediate   PresentMode = 0
	PresentModeMailbox     PresentMode = 1
	PresentModeFIFO        PresentMode = 2
	PresentModeFIFORelaxed PresentMode = 3
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeImmediate:
		return "immediate"
	case PresentModeMailbox:
		return "mailbox"
	case PresentModeFIFO:
		return "fifo"
	case PresentModeFIFORelaxed:
		return "fifo-relaxed"
	}
	return "unknown"
}

type SharingMode int32

const (
	SharingModeExclusive  SharingMode = 0
	SharingModeConcurrent SharingMode = 1
)

type LoadOp int32

const (
	LoadOpLoad     LoadOp = 0
	LoadOpClear    LoadOp = 1
	LoadOpDontCare LoadOp = 2
)

type StoreOp int32

const (
	StoreOpStore    StoreOp = 0
	StoreOpDontCare StoreOp = 1
)

type ImageLayout int32

const (
	ImageLayoutUndefined              ImageLayout = 0
	ImageLayoutColorAttachmentOptimal ImageLayout = 2
	ImageLayoutPresentSrc             ImageLayout = 1000001002
)

type PipelineStage uint32

const (
	PipelineStageTopOfPipe             PipelineStage = 0x00000001
	PipelineStageColorAttachmentOutput PipelineStage = 0x00000400
)

type Access uint32

const (
	AccessColorAttachmentRead  Access = 0x00000080
	AccessColorAttachmentWrite Access = 0x00000100
)

// SubpassExternal names the implicit subpass outside the render pass.
const SubpassExternal = -1

type ShaderStage uint32

const (
	ShaderStageVertex   ShaderStage = 0x01
	ShaderStageFragment ShaderStage = 0x10
)

type PrimitiveTopology int32

const PrimitiveTopologyTriangleList PrimitiveTopology = 3

type PolygonMode int32

const PolygonModeFill PolygonMode = 0

type CullMode uint32

const (
	CullModeNone CullMode = 0
	CullModeBack CullMode = 2
)

type FrontFace int32

const (
	FrontFaceCounterClockwise FrontFace = 0
	FrontFaceClockwise        FrontFace = 1
)

type DynamicState int32

const (
	DynamicStateViewport DynamicState = 0
	DynamicStateScissor  DynamicState = 1
)

type ColorComponents uint32

const (
	ColorComponentR ColorComponents = 0x1
	ColorComponentG ColorComponents = 0x2
	ColorComponentB ColorComponents = 0x4
	ColorComponentA ColorComponents = 0x8

	ColorComponentAll = ColorComponentR | ColorComponentG | ColorComponentB | ColorComponentA
)

type Extent2D struct {
	Width  int
	Height int
}

func (e Extent2D) String() string {
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

type Offset2D struct {
	X int
	Y int
}

type Rect2D struct {
	Offset Offset2D
	Extent Extent2D
}

type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

type AdapterProperties struct {
	Name              string
	PipelineCacheUUID uuid.UUID
}

type QueueFamily struct {
	Index      int
	QueueCount int
	Graphics   bool
}

type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

// UndefinedExtent is reported as SurfaceCapabilities.CurrentExtent.Width when the
// swapchain extent is decided by the application rather than the surface.
const UndefinedExtent = -1

type SurfaceCapabilities struct {
	MinImageCount int
	// MaxImageCount is zero when the surface imposes no upper bound.
	MaxImageCount  int
	CurrentExtent  Extent2D
	MinImageExtent Extent2D
	MaxImageExtent Extent2D
}

type DeviceCreateInfo struct {
	QueueFamilies []int
	Extensions    []string
}

type SwapchainCreateInfo struct {
	Surface            Surface
	MinImageCount      int
	Format             SurfaceFormat
	Extent             Extent2D
	PresentMode        PresentMode
	SharingMode        SharingMode
	QueueFamilyIndices []int
}

type ImageViewCreateInfo struct {
	Image  Image
	Format Format
}

type AttachmentDescription struct {
	Format        Format
	LoadOp        LoadOp
	StoreOp       StoreOp
	InitialLayout ImageLayout
	FinalLayout   ImageLayout
}

type AttachmentReference struct {
	Attachment int
	Layout     ImageLayout
}

type SubpassDescription struct {
	ColorAttachments []AttachmentReference
}

type SubpassDependency struct {
	SrcSubpass    int
	DstSubpass    int
	SrcStageMask  PipelineStage
	DstStageMask  PipelineStage
	SrcAccessMask Access
	DstAccessMask Access
}

type RenderPassCreateInfo struct {
	Attachments  []AttachmentDescription
	Subpasses    []SubpassDescription
	Dependencies []SubpassDependency
}

type PipelineLayoutCreateInfo struct {
	SetLayoutCount    int
	PushConstantCount int
}

type ShaderStageInfo struct {
	Stage  ShaderStage
	Module ShaderModule
	Entry  string
}

type RasterizationState struct {
	PolygonMode PolygonMode
	CullMode    CullMode
	FrontFace   FrontFace
	LineWidth   float32
}

type ColorBlendAttachment struct {
	BlendEnabled bool
	WriteMask    ColorComponents
}

type GraphicsPipelineCreateInfo struct {
	Stages []ShaderStageInfo

	// VertexBindings is the number of vertex buffer bindings; zero means the
	// vertex shader produces geometry on its own.
	VertexBindings int
	Topology       PrimitiveTopology

	// Viewports and Scissors are consulted only when the matching state is not
	// listed in DynamicStates.
	Viewports     []Viewport
	Scissors      []Rect2D
	DynamicStates []DynamicState

	Rasterization    RasterizationState
	ColorAttachments []ColorBlendAttachment

	Layout     PipelineLayout
	RenderPass RenderPass
	Subpass    int
}

type FramebufferCreateInfo struct {
	RenderPass  RenderPass
	Attachments []ImageView
	Extent      Extent2D
}

type CommandPoolCreateInfo struct {
	QueueFamily int
	// ResetBuffers lets individual buffers be reset instead of only the whole pool.
	ResetBuffers bool
}

type ClearColor [4]float32

type RenderPassBeginInfo struct {
	RenderPass  RenderPass
	Framebuffer Framebuffer
	RenderArea  Rect2D
	ClearColor  ClearColor
}

type SubmitInfo struct {
	WaitSemaphores   []Semaphore
	WaitStages       []PipelineStage
	CommandBuffers   []CommandBuffer
	SignalSemaphores []Semaphore
	// Fence, if set, is signaled once the submitted work has retired.
	Fence Fence
}

type PresentInfo struct {
	WaitSemaphores []Semaphore
	Swapchain      Swapchain
	ImageIndex     int
}

package render

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/hellotriangle/internal/assets"
	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

const shaderEntryPoint = "main"

// RenderPassInfo describes a single subpass clearing and writing one colour
// attachment that ends up ready for presentation.
func RenderPassInfo(format gpu.Format) gpu.RenderPassCreateInfo {
	return gpu.RenderPassCreateInfo{
		Attachments: []gpu.AttachmentDescription{
			{
				Format:        format,
				LoadOp:        gpu.LoadOpClear,
				StoreOp:       gpu.StoreOpStore,
				InitialLayout: gpu.ImageLayoutUndefined,
				FinalLayout:   gpu.ImageLayoutPresentSrc,
			},
		},
		Subpasses: []gpu.SubpassDescription{
			{
				ColorAttachments: []gpu.AttachmentReference{
					{Attachment: 0, Layout: gpu.ImageLayoutColorAttachmentOptimal},
				},
			},
		},
		Dependencies: []gpu.SubpassDependency{
			{
				SrcSubpass: gpu.SubpassExternal,
				DstSubpass: 0,

				SrcStageMask:  gpu.PipelineStageColorAttachmentOutput,
				SrcAccessMask: 0,

				DstStageMask:  gpu.PipelineStageColorAttachmentOutput,
				DstAccessMask: gpu.AccessColorAttachmentWrite,
			},
		},
	}
}

// PipelineInfo describes the triangle pipeline. Geometry comes from the vertex
// shader alone, and viewport and scissor are set while recording.
func PipelineInfo(vert, frag gpu.ShaderModule, layout gpu.PipelineLayout, renderPass gpu.RenderPass) gpu.GraphicsPipelineCreateInfo {
	return gpu.GraphicsPipelineCreateInfo{
		Stages: []gpu.ShaderStageInfo{
			{Stage: gpu.ShaderStageVertex, Module: vert, Entry: shaderEntryPoint},
			{Stage: gpu.ShaderStageFragment, Module: frag, Entry: shaderEntryPoint},
		},
		VertexBindings: 0,
		Topology:       gpu.PrimitiveTopologyTriangleList,
		DynamicStates:  []gpu.DynamicState{gpu.DynamicStateViewport, gpu.DynamicStateScissor},
		Rasterization: gpu.RasterizationState{
			PolygonMode: gpu.PolygonModeFill,
			CullMode:    gpu.CullModeBack,
			FrontFace:   gpu.FrontFaceClockwise,
			LineWidth:   1.0,
		},
		ColorAttachments: []gpu.ColorBlendAttachment{
			{BlendEnabled: false, WriteMask: gpu.ColorComponentAll},
		},
		Layout:     layout,
		RenderPass: renderPass,
		Subpass:    0,
	}
}

// RenderTargets owns the render pass, the pipeline drawn with it and one
// framebuffer per swapchain image.
type RenderTargets struct {
	device gpu.Device

	RenderPass   gpu.RenderPass
	Layout       gpu.PipelineLayout
	Pipeline     gpu.Pipeline
	Framebuffers []gpu.Framebuffer
	Extent       gpu.Extent2D

	owned gpu.Stack
}

// NewRenderTargets builds the pipeline from shaders and the framebuffers for
// every view of sc. Shader bytecode is validated before any object is created.
func NewRenderTargets(device gpu.Device, sc *Swapchain, shaders assets.Shaders) (_ *RenderTargets, err error) {
	if err := shaders.Validate(); err != nil {
		return nil, err
	}

	t := &RenderTargets{device: device}
	defer func() {
		if err != nil {
			t.Destroy()
		}
	}()

	t.RenderPass, err = device.CreateRenderPass(RenderPassInfo(sc.Format.Format))
	if err != nil {
		return nil, errors.Wrap(err, "creating render pass")
	}
	t.owned.Push("render pass", t.RenderPass)

	t.Layout, err = device.CreatePipelineLayout(gpu.PipelineLayoutCreateInfo{})
	if err != nil {
		return nil, errors.Wrap(err, "creating pipeline layout")
	}
	t.owned.Push("pipeline layout", t.Layout)

	t.Pipeline, err = t.createPipeline(shaders)
	if err != nil {
		return nil, err
	}
	t.owned.Push("pipeline", t.Pipeline)

	if err := t.RebuildFramebuffers(sc); err != nil {
		return nil, err
	}
	return t, nil
}

// createPipeline compiles both stages, which are only needed until the pipeline
// exists.
func (t *RenderTargets) createPipeline(shaders assets.Shaders) (gpu.Pipeline, error) {
	var modules gpu.Stack
	defer modules.Unwind()

	vert, err := t.device.CreateShaderModule(assets.Bytecode(shaders.Vertex))
	if err != nil {
		return nil, errors.Wrap(err, "creating vertex shader module")
	}
	modules.Push("vertex shader", vert)

	frag, err := t.device.CreateShaderModule(assets.Bytecode(shaders.Fragment))
	if err != nil {
		return nil, errors.Wrap(err, "creating fragment shader module")
	}
	modules.Push("fragment shader", frag)

	pipeline, err := t.device.CreateGraphicsPipeline(PipelineInfo(vert, frag, t.Layout, t.RenderPass))
	if err != nil {
		return nil, errors.Wrap(err, "creating graphics pipeline")
	}
	return pipeline, nil
}

// RebuildFramebuffers replaces the framebuffer set with one framebuffer per view
// of sc at its current extent.
func (t *RenderTargets) RebuildFramebuffers(sc *Swapchain) error {
	t.destroyFramebuffers()

	t.Extent = sc.Extent
	for i, view := range sc.Views {
		fb, err := t.device.CreateFramebuffer(gpu.FramebufferCreateInfo{
			RenderPass:  t.RenderPass,
			Attachments: []gpu.ImageView{view},
			Extent:      sc.Extent,
		})
		if err != nil {
			t.destroyFramebuffers()
			return errors.Wrapf(err, "creating framebuffer %d", i)
		}
		t.Framebuffers = append(t.Framebuffers, fb)
	}

	if len(t.Framebuffers) != len(sc.Images) {
		t.destroyFramebuffers()
		return errors.Errorf("built %d framebuffers for %d swapchain images", len(t.Framebuffers), len(sc.Images))
	}
	return nil
}

func (t *RenderTargets) destroyFramebuffers() {
	for i := len(t.Framebuffers) - 1; i >= 0; i-- {
		t.Framebuffers[i].Destroy()
	}
	t.Framebuffers = nil
}

// Destroy releases everything in reverse creation order.
func (t *RenderTargets) Destroy() {
	t.destroyFramebuffers()
	t.owned.Unwind()
}

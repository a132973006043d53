package vkng

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

// check marks driver errors that callers are expected to tell apart.
func check(res common.VkResult, err error) error {
	if err == nil {
		return nil
	}

	switch res {
	case khr_swapchain.VKErrorOutOfDate:
		return errors.Mark(err, gpu.ErrOutOfDate)
	case core1_0.VKErrorDeviceLost:
		return errors.Mark(err, gpu.ErrDeviceLost)
	}
	return err
}

func timeout(d time.Duration) time.Duration {
	if d == gpu.NoTimeout || d < 0 {
		return common.NoTimeout
	}
	return d
}

func extentFromCore(e core1_0.Extent2D) gpu.Extent2D {
	return gpu.Extent2D{Width: e.Width, Height: e.Height}
}

// isUndefinedExtent reports the 0xFFFFFFFF sentinel, which the driver hands over
// widened to int.
func isUndefinedExtent(v int) bool {
	return uint32(v) == ^uint32(0)
}

func capabilitiesFromCore(caps *khr_surface.SurfaceCapabilities) gpu.SurfaceCapabilities {
	current := extentFromCore(caps.CurrentExtent)
	if isUndefinedExtent(current.Width) || isUndefinedExtent(current.Height) {
		current = gpu.Extent2D{Width: gpu.UndefinedExtent, Height: gpu.UndefinedExtent}
	}

	return gpu.SurfaceCapabilities{
		MinImageCount:  caps.MinImageCount,
		MaxImageCount:  caps.MaxImageCount,
		CurrentExtent:  current,
		MinImageExtent: extentFromCore(caps.MinImageExtent),
		MaxImageExtent: extentFromCore(caps.MaxImageExtent),
	}
}

func extentToCore(e gpu.Extent2D) core1_0.Extent2D {
	return core1_0.Extent2D{Width: e.Width, Height: e.Height}
}

func rectToCore(r gpu.Rect2D) core1_0.Rect2D {
	return core1_0.Rect2D{
		Offset: core1_0.Offset2D{X: r.Offset.X, Y: r.Offset.Y},
		Extent: extentToCore(r.Extent),
	}
}

func viewportToCore(v gpu.Viewport) core1_0.Viewport {
	return core1_0.Viewport{
		X:        v.X,
		Y:        v.Y,
		Width:    v.Width,
		Height:   v.Height,
		MinDepth: v.MinDepth,
		MaxDepth: v.MaxDepth,
	}
}

func subpassToCore(index int) int {
	if index == gpu.SubpassExternal {
		return core1_0.SubpassExternal
	}
	return index
}

func semaphores(in []gpu.Semaphore) []core1_0.Semaphore {
	out := make([]core1_0.Semaphore, len(in))
	for i, s := range in {
		out[i] = s.(*Semaphore).handle
	}
	return out
}

func renderPassToCore(info gpu.RenderPassCreateInfo) core1_0.RenderPassCreateInfo {
	var out core1_0.RenderPassCreateInfo

	for _, a := range info.Attachments {
		out.Attachments = append(out.Attachments, core1_0.AttachmentDescription{
			Format:         core1_0.Format(a.Format),
			Samples:        core1_0.Samples1,
			LoadOp:         core1_0.AttachmentLoadOp(a.LoadOp),
			StoreOp:        core1_0.AttachmentStoreOp(a.StoreOp),
			StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
			StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
			InitialLayout:  core1_0.ImageLayout(a.InitialLayout),
			FinalLayout:    core1_0.ImageLayout(a.FinalLayout),
		})
	}

	for _, sp := range info.Subpasses {
		subpass := core1_0.SubpassDescription{PipelineBindPoint: core1_0.PipelineBindPointGraphics}
		for _, ref := range sp.ColorAttachments {
			subpass.ColorAttachments = append(subpass.ColorAttachments, core1_0.AttachmentReference{
				Attachment: ref.Attachment,
				Layout:     core1_0.ImageLayout(ref.Layout),
			})
		}
		out.Subpasses = append(out.Subpasses, subpass)
	}

	for _, dep := range info.Dependencies {
		out.SubpassDependencies = append(out.SubpassDependencies, core1_0.SubpassDependency{
			SrcSubpass:    subpassToCore(dep.SrcSubpass),
			DstSubpass:    subpassToCore(dep.DstSubpass),
			SrcStageMask:  core1_0.PipelineStageFlags(dep.SrcStageMask),
			DstStageMask:  core1_0.PipelineStageFlags(dep.DstStageMask),
			SrcAccessMask: core1_0.AccessFlags(dep.SrcAccessMask),
			DstAccessMask: core1_0.AccessFlags(dep.DstAccessMask),
		})
	}

	return out
}

func pipelineToCore(info gpu.GraphicsPipelineCreateInfo) core1_0.GraphicsPipelineCreateInfo {
	stages := make([]core1_0.PipelineShaderStageCreateInfo, len(info.Stages))
	for i, s := range info.Stages {
		stages[i] = core1_0.PipelineShaderStageCreateInfo{
			Stage:  core1_0.ShaderStageFlags(s.Stage),
			Module: s.Module.(*ShaderModule).handle,
			Name:   s.Entry,
		}
	}

	// Viewport and scissor counts are taken from these slices, so dynamic state
	// still needs one placeholder each.
	viewports := []core1_0.Viewport{{}}
	if len(info.Viewports) > 0 {
		viewports = viewports[:0]
		for _, v := range info.Viewports {
			viewports = append(viewports, viewportToCore(v))
		}
	}
	scissors := []core1_0.Rect2D{{}}
	if len(info.Scissors) > 0 {
		scissors = scissors[:0]
		for _, r := range info.Scissors {
			scissors = append(scissors, rectToCore(r))
		}
	}

	var dynamic *core1_0.PipelineDynamicStateCreateInfo
	if len(info.DynamicStates) > 0 {
		dynamic = &core1_0.PipelineDynamicStateCreateInfo{}
		for _, s := range info.DynamicStates {
			dynamic.DynamicStates = append(dynamic.DynamicStates, core1_0.DynamicState(s))
		}
	}

	blend := make([]core1_0.PipelineColorBlendAttachmentState, len(info.ColorAttachments))
	for i, a := range info.ColorAttachments {
		blend[i] = core1_0.PipelineColorBlendAttachmentState{
			BlendEnabled:   a.BlendEnabled,
			ColorWriteMask: core1_0.ColorComponentFlags(a.WriteMask),
		}
	}

	return core1_0.GraphicsPipelineCreateInfo{
		Stages:           stages,
		VertexInputState: &core1_0.PipelineVertexInputStateCreateInfo{},
		InputAssemblyState: &core1_0.PipelineInputAssemblyStateCreateInfo{
			Topology: core1_0.PrimitiveTopology(info.Topology),
		},
		ViewportState: &core1_0.PipelineViewportStateCreateInfo{
			Viewports: viewports,
			Scissors:  scissors,
		},
		RasterizationState: &core1_0.PipelineRasterizationStateCreateInfo{
			PolygonMode: core1_0.PolygonMode(info.Rasterization.PolygonMode),
			CullMode:    core1_0.CullModeFlags(info.Rasterization.CullMode),
			FrontFace:   core1_0.FrontFace(info.Rasterization.FrontFace),
			LineWidth:   info.Rasterization.LineWidth,
		},
		MultisampleState: &core1_0.PipelineMultisampleStateCreateInfo{
			RasterizationSamples: core1_0.Samples1,
			MinSampleShading:     1.0,
		},
		ColorBlendState: &core1_0.PipelineColorBlendStateCreateInfo{
			LogicOp:     core1_0.LogicOpCopy,
			Attachments: blend,
		},
		DynamicState:      dynamic,
		Layout:            info.Layout.(*PipelineLayout).handle,
		RenderPass:        info.RenderPass.(*RenderPass).handle,
		Subpass:           info.Subpass,
		BasePipelineIndex: -1,
	}
}

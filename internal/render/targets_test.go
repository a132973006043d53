package render

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/hellotriangle/internal/assets"
	"github.com/vkngwrapper/hellotriangle/internal/gpu"
	"github.com/vkngwrapper/hellotriangle/internal/gpu/gputest"
)

func TestRenderPassInfo(t *testing.T) {
	info := RenderPassInfo(gpu.FormatB8G8R8A8SRGB)

	require.Len(t, info.Attachments, 1)
	a := info.Attachments[0]
	assert.Equal(t, gpu.FormatB8G8R8A8SRGB, a.Format)
	assert.Equal(t, gpu.LoadOpClear, a.LoadOp)
	assert.Equal(t, gpu.StoreOpStore, a.StoreOp)
	assert.Equal(t, gpu.ImageLayoutUndefined, a.InitialLayout)
	assert.Equal(t, gpu.ImageLayoutPresentSrc, a.FinalLayout)

	require.Len(t, info.Subpasses, 1)
	assert.Equal(t, []gpu.AttachmentReference{{Attachment: 0, Layout: gpu.ImageLayoutColorAttachmentOptimal}}, info.Subpasses[0].ColorAttachments)

	require.Len(t, info.Dependencies, 1)
	dep := info.Dependencies[0]
	assert.Equal(t, gpu.SubpassExternal, dep.SrcSubpass)
	assert.Equal(t, 0, dep.DstSubpass)
	assert.Equal(t, gpu.PipelineStageColorAttachmentOutput, dep.SrcStageMask)
	assert.Equal(t, gpu.PipelineStageColorAttachmentOutput, dep.DstStageMask)
	assert.Equal(t, gpu.AccessColorAttachmentWrite, dep.DstAccessMask)
}

func TestNewRenderTargets(t *testing.T) {
	h := newHarness()
	dc, sc := h.deviceContext(t)

	targets, err := NewRenderTargets(dc.Device, sc, testShaders())
	require.NoError(t, err)
	t.Cleanup(targets.Destroy)

	assert.Len(t, targets.Framebuffers, len(sc.Images))
	assert.Equal(t, sc.Extent, targets.Extent)
	for i, fb := range targets.Framebuffers {
		assert.Equal(t, []string{sc.Views[i].(*gputest.ImageView).Name()}, fb.(*gputest.Framebuffer).Attachments)
	}

	pipeline := h.adapter.Device.PipelineInfo
	require.Len(t, pipeline.Stages, 2)
	assert.Equal(t, gpu.ShaderStageVertex, pipeline.Stages[0].Stage)
	assert.Equal(t, gpu.ShaderStageFragment, pipeline.Stages[1].Stage)
	assert.Equal(t, "main", pipeline.Stages[0].Entry)
	assert.Zero(t, pipeline.VertexBindings)
	assert.Equal(t, gpu.PrimitiveTopologyTriangleList, pipeline.Topology)
	assert.ElementsMatch(t, []gpu.DynamicState{gpu.DynamicStateViewport, gpu.DynamicStateScissor}, pipeline.DynamicStates)
	assert.Equal(t, gpu.CullModeBack, pipeline.Rasterization.CullMode)
	assert.Equal(t, gpu.FrontFaceClockwise, pipeline.Rasterization.FrontFace)
	assert.Equal(t, float32(1), pipeline.Rasterization.LineWidth)
	assert.Equal(t, []gpu.ColorBlendAttachment{{WriteMask: gpu.ColorComponentAll}}, pipeline.ColorAttachments)
	assert.Equal(t, gpu.PipelineLayoutCreateInfo{}, h.adapter.Device.LayoutInfo)

	assert.Equal(t, []string{"shader#2", "shader#1"}, h.rec.Destroyed(), "shader modules are released once the pipeline exists")
	assert.Empty(t, h.rec.Violations)
}

func TestNewRenderTargetsRejectsEmptyShader(t *testing.T) {
	for name, shaders := range map[string]assets.Shaders{
		"empty vertex":   {Vertex: nil, Fragment: testShaders().Fragment},
		"empty fragment": {Vertex: testShaders().Vertex, Fragment: []byte{}},
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness()
			dc, sc := h.deviceContext(t)
			before := len(h.rec.Entries)

			_, err := NewRenderTargets(dc.Device, sc, shaders)
			assert.True(t, errors.Is(err, assets.ErrInvalidShader), "%+v", err)
			assert.Len(t, h.rec.Entries, before, "no device call may follow an invalid shader: %v", h.rec.Entries[before:])
			assert.Zero(t, h.rec.Count("CreateShaderModule"))
			assert.Zero(t, h.rec.Count("CreatePipelineLayout"))
			assert.Zero(t, h.rec.Count("CreateGraphicsPipeline"))
		})
	}
}

func TestNewRenderTargetsPipelineFailure(t *testing.T) {
	h := newHarness()
	dc, sc := h.deviceContext(t)
	h.rec.Fail["CreateGraphicsPipeline"] = errors.New("compile failed")

	_, err := NewRenderTargets(dc.Device, sc, testShaders())
	require.ErrorContains(t, err, "compile failed")

	assert.Equal(t, []string{"shader#2", "shader#1", "layout#1", "renderpass#1"}, h.rec.Destroyed())
	assert.Empty(t, h.rec.Violations)
}

func TestRebuildFramebuffers(t *testing.T) {
	h := newHarness()
	dc, sc := h.deviceContext(t)

	targets, err := NewRenderTargets(dc.Device, sc, testShaders())
	require.NoError(t, err)
	t.Cleanup(targets.Destroy)

	first := append([]gpu.Framebuffer(nil), targets.Framebuffers...)
	require.NoError(t, targets.RebuildFramebuffers(sc))

	assert.Len(t, targets.Framebuffers, len(sc.Images))
	for i := range first {
		assert.NotSame(t, first[i], targets.Framebuffers[i])
	}
	assert.Equal(t, 2*len(sc.Images), h.rec.Count("CreateFramebuffer"))
	assert.Empty(t, h.rec.Violations)
}

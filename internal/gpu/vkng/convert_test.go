package vkng

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
	"github.com/vkngwrapper/hellotriangle/internal/render"
)

func TestCheckMarksKnownResults(t *testing.T) {
	assert.NoError(t, check(core1_0.VKSuccess, nil))

	err := check(khr_swapchain.VKErrorOutOfDate, errors.New("out of date"))
	assert.True(t, errors.Is(err, gpu.ErrOutOfDate))

	err = check(core1_0.VKErrorDeviceLost, errors.New("lost"))
	assert.True(t, errors.Is(err, gpu.ErrDeviceLost))

	err = check(core1_0.VKErrorOutOfHostMemory, errors.New("oom"))
	assert.False(t, errors.Is(err, gpu.ErrOutOfDate))
	assert.False(t, errors.Is(err, gpu.ErrDeviceLost))
}

func TestTimeout(t *testing.T) {
	assert.Equal(t, common.NoTimeout, timeout(gpu.NoTimeout))
	assert.Equal(t, common.NoTimeout, timeout(-time.Second))
	assert.Equal(t, time.Second, timeout(time.Second))
}

func TestCapabilitiesFromCore(t *testing.T) {
	sentinel := uint32(0xFFFFFFFF)
	raw := &khr_surface.SurfaceCapabilities{
		MinImageCount:  2,
		MaxImageCount:  0,
		CurrentExtent:  core1_0.Extent2D{Width: int(sentinel), Height: int(sentinel)},
		MinImageExtent: core1_0.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: core1_0.Extent2D{Width: 4096, Height: 4096},
	}

	caps := capabilitiesFromCore(raw)
	assert.Equal(t, 2, caps.MinImageCount)
	assert.Equal(t, 0, caps.MaxImageCount)
	assert.Equal(t, gpu.Extent2D{Width: gpu.UndefinedExtent, Height: gpu.UndefinedExtent}, caps.CurrentExtent)
	assert.Equal(t, gpu.Extent2D{Width: 4096, Height: 4096}, caps.MaxImageExtent)

	assert.Equal(t, gpu.Extent2D{Width: 800, Height: 600}, render.ChooseExtent(caps, 800, 600))
	assert.Equal(t, gpu.Extent2D{Width: 4096, Height: 1}, render.ChooseExtent(caps, 5000, 0))

	raw.CurrentExtent = core1_0.Extent2D{Width: 1280, Height: 720}
	caps = capabilitiesFromCore(raw)
	assert.Equal(t, gpu.Extent2D{Width: 1280, Height: 720}, render.ChooseExtent(caps, 800, 600))
}

func TestSubpassToCore(t *testing.T) {
	assert.Equal(t, core1_0.SubpassExternal, subpassToCore(gpu.SubpassExternal))
	assert.Equal(t, 0, subpassToCore(0))
}

func TestRenderPassToCore(t *testing.T) {
	info := renderPassToCore(gpu.RenderPassCreateInfo{
		Attachments: []gpu.AttachmentDescription{{
			Format:        gpu.FormatB8G8R8A8SRGB,
			LoadOp:        gpu.LoadOpClear,
			StoreOp:       gpu.StoreOpStore,
			InitialLayout: gpu.ImageLayoutUndefined,
			FinalLayout:   gpu.ImageLayoutPresentSrc,
		}},
		Subpasses: []gpu.SubpassDescription{{
			ColorAttachments: []gpu.AttachmentReference{{Attachment: 0, Layout: gpu.ImageLayoutColorAttachmentOptimal}},
		}},
		Dependencies: []gpu.SubpassDependency{{
			SrcSubpass:    gpu.SubpassExternal,
			DstSubpass:    0,
			SrcStageMask:  gpu.PipelineStageColorAttachmentOutput,
			DstStageMask:  gpu.PipelineStageColorAttachmentOutput,
			DstAccessMask: gpu.AccessColorAttachmentWrite,
		}},
	})

	require.Len(t, info.Attachments, 1)
	a := info.Attachments[0]
	assert.Equal(t, core1_0.FormatB8G8R8A8SRGB, a.Format)
	assert.Equal(t, core1_0.Samples1, a.Samples)
	assert.Equal(t, core1_0.AttachmentLoadOpClear, a.LoadOp)
	assert.Equal(t, core1_0.AttachmentStoreOpStore, a.StoreOp)
	assert.Equal(t, core1_0.ImageLayoutUndefined, a.InitialLayout)
	assert.Equal(t, khr_swapchain.ImageLayoutPresentSrc, a.FinalLayout)

	require.Len(t, info.Subpasses, 1)
	assert.Equal(t, core1_0.PipelineBindPointGraphics, info.Subpasses[0].PipelineBindPoint)
	assert.Equal(t, core1_0.ImageLayoutColorAttachmentOptimal, info.Subpasses[0].ColorAttachments[0].Layout)

	require.Len(t, info.SubpassDependencies, 1)
	dep := info.SubpassDependencies[0]
	assert.Equal(t, core1_0.SubpassExternal, dep.SrcSubpass)
	assert.Equal(t, core1_0.PipelineStageColorAttachmentOutput, dep.SrcStageMask)
	assert.Equal(t, core1_0.AccessColorAttachmentWrite, dep.DstAccessMask)
}

func TestConvertSeverity(t *testing.T) {
	cases := []struct {
		in   ext_debug_utils.DebugUtilsMessageSeverityFlags
		want gpu.Severity
	}{
		{ext_debug_utils.SeverityVerbose, gpu.SeverityVerbose},
		{ext_debug_utils.SeverityInfo, gpu.SeverityInfo},
		{ext_debug_utils.SeverityWarning, gpu.SeverityWarning},
		{ext_debug_utils.SeverityError, gpu.SeverityError},
		{ext_debug_utils.SeverityWarning | ext_debug_utils.SeverityError, gpu.SeverityError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, convertSeverity(tc.in), "severity %v", tc.in)
	}
}

func TestMessageKind(t *testing.T) {
	assert.Equal(t, "validation", messageKind(ext_debug_utils.TypeValidation))
	assert.Equal(t, "performance", messageKind(ext_debug_utils.TypePerformance))
	assert.Equal(t, "general", messageKind(ext_debug_utils.TypeGeneral))
}

type capturingSink struct {
	severity gpu.Severity
	kind     string
	message  string
}

func (s *capturingSink) Diagnostic(severity gpu.Severity, kind, message string) {
	s.severity, s.kind, s.message = severity, kind, message
}

func TestDebugMessengerForwardsToSink(t *testing.T) {
	sink := &capturingSink{}
	info := debugMessengerInfo(sink)

	assert.NotZero(t, info.MessageSeverity&ext_debug_utils.SeverityVerbose)
	assert.Zero(t, info.MessageSeverity&ext_debug_utils.SeverityInfo)

	keep := info.UserCallback(ext_debug_utils.TypeValidation, ext_debug_utils.SeverityWarning, &ext_debug_utils.DebugUtilsMessengerCallbackData{
		Message: "vkCreateSwapchainKHR: bad extent",
	})
	assert.False(t, keep)
	assert.Equal(t, gpu.SeverityWarning, sink.severity)
	assert.Equal(t, "validation", sink.kind)
	assert.Equal(t, "vkCreateSwapchainKHR: bad extent", sink.message)
}

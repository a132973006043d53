package render

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/hellotriangle/internal/assets"
	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

func TestRendererImageCountScenario(t *testing.T) {
	h := newHarness()
	h.adapter.Caps.MinImageCount = 2
	h.adapter.Caps.MaxImageCount = 0

	r := h.renderer(t, Options{})

	assert.Equal(t, 3, h.adapter.Device.SwapchainInfo.MinImageCount)
	assert.Len(t, r.Swapchain.Images, 3)
	assert.Len(t, r.Swapchain.Views, 3)
	assert.Len(t, r.Targets.Framebuffers, 3)
}

func TestRendererFramebufferCountFollowsSwapchain(t *testing.T) {
	for _, images := range []int{1, 2, 4, 6} {
		h := newHarness()
		h.adapter.SwapchainImages = images

		r := h.renderer(t, Options{})
		assert.Len(t, r.Targets.Framebuffers, images)
		assert.Len(t, r.Targets.Framebuffers, len(r.Swapchain.Images))
	}
}

func TestRendererDestroysInReverse(t *testing.T) {
	h := newHarness()
	h.window.closeAfter = 2
	r, err := New(h.inst, h.inst.CreateSurface, h.window, testShaders(), Options{ClearColor: yellow}, h.log)
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))

	r.Destroy()
	r.Destroy()

	assert.Equal(t, []string{
		"shader#2", "shader#1",
		"fence#1", "semaphore#2", "semaphore#1",
		"pool#1",
		"framebuffer#3", "framebuffer#2", "framebuffer#1",
		"pipeline#1", "layout#1", "renderpass#1",
		"view#3", "view#2", "view#1", "swapchain#1",
		"device#1",
		"surface#1",
	}, h.rec.Destroyed())
	assert.Equal(t, []string{"instance#1"}, h.rec.Live())
	assert.Empty(t, h.rec.Violations)

	h.inst.Destroy()
	assert.Empty(t, h.rec.Live())
	assert.Empty(t, h.rec.Violations)
}

func TestRendererUnwindsPartialConstruction(t *testing.T) {
	for _, op := range []string{
		"CreateSurface",
		"EnumerateAdapters",
		"CreateDevice",
		"CreateSwapchain",
		"CreateImageView",
		"CreateRenderPass",
		"CreateGraphicsPipeline",
		"CreateFramebuffer",
		"CreateCommandPool",
		"AllocateCommandBuffer",
		"CreateSemaphore",
		"CreateFence",
	} {
		t.Run(op, func(t *testing.T) {
			h := newHarness()
			h.rec.Fail[op] = errors.New("injected")

			_, err := New(h.inst, h.inst.CreateSurface, h.window, testShaders(), Options{}, h.log)
			require.ErrorContains(t, err, "injected")
			assert.Equal(t, []string{"instance#1"}, h.rec.Live())
			assert.Empty(t, h.rec.Violations)
		})
	}
}

func TestRendererRejectsEmptyShaderBeforeAnyObject(t *testing.T) {
	h := newHarness()
	shaders := assets.Shaders{Vertex: testShaders().Vertex}

	_, err := New(h.inst, h.inst.CreateSurface, h.window, shaders, Options{}, h.log)
	assert.True(t, errors.Is(err, assets.ErrInvalidShader), "%+v", err)
	assert.Empty(t, h.rec.Entries)
}

func TestRendererNoSuitableAdapter(t *testing.T) {
	h := newHarness()
	h.adapter.ExtensionNames = nil

	_, err := New(h.inst, h.inst.CreateSurface, h.window, testShaders(), Options{}, h.log)
	assert.True(t, errors.Is(err, ErrNoSuitableAdapter), "%+v", err)
	assert.Equal(t, []string{"instance#1"}, h.rec.Live())
}

func TestLoopStops(t *testing.T) {
	t.Run("window closed", func(t *testing.T) {
		h := newHarness()
		h.window.closeAfter = 4
		r := h.renderer(t, Options{})

		require.NoError(t, r.Run(context.Background()))
		assert.Equal(t, 4, h.rec.Count("Present"))
		assert.Equal(t, 4, h.window.polls)
		assert.Equal(t, 4, r.Stats.Frames)
		assert.Equal(t, 1, h.rec.Count("WaitIdle"))
	})

	t.Run("frame budget", func(t *testing.T) {
		h := newHarness()
		r := h.renderer(t, Options{MaxFrames: 5})

		require.NoError(t, r.Run(context.Background()))
		assert.Equal(t, 5, h.rec.Count("Present"))
	})

	t.Run("context cancelled", func(t *testing.T) {
		h := newHarness()
		r := h.renderer(t, Options{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.NoError(t, r.Run(ctx))
		assert.Zero(t, h.rec.Count("Present"))
		assert.Zero(t, h.window.polls)
		assert.Equal(t, 1, h.rec.Count("WaitIdle"))
	})

	t.Run("device idle before teardown after failure", func(t *testing.T) {
		h := newHarness()
		r := h.renderer(t, Options{})
		h.rec.Fail["Submit"] = gpu.ErrDeviceLost

		err := r.Run(context.Background())
		assert.True(t, errors.Is(err, gpu.ErrDeviceLost), "%+v", err)

		entries := h.rec.Ops("Submit", "WaitIdle", "Destroy")
		require.NotEmpty(t, entries)
		assert.Equal(t, "WaitIdle", entries[len(entries)-1].Op)
	})

	t.Run("fence timeout is passed through", func(t *testing.T) {
		h := newHarness()
		r := h.renderer(t, Options{})
		assert.Equal(t, gpu.NoTimeout, r.Sync.Timeout)
	})
}

package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/hellotriangle/internal/assets"
	"github.com/vkngwrapper/hellotriangle/internal/gpu/gputest"
)

type fakeWindow struct {
	width, height int
	// closeAfter makes ShouldClose report true once events have been polled that
	// many times. Zero never closes.
	closeAfter int
	polls      int
}

func (w *fakeWindow) FramebufferSize() (int, int) {
	return w.width, w.height
}

func (w *fakeWindow) ShouldClose() bool {
	return w.closeAfter > 0 && w.polls >= w.closeAfter
}

func (w *fakeWindow) PollEvents() {
	w.polls++
}

func testShaders() assets.Shaders {
	return assets.Shaders{
		Vertex:   []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0},
		Fragment: []byte{0x03, 0x02, 0x23, 0x07},
	}
}

var yellow = mgl32.Vec4{1, 1, 0, 1}

type harness struct {
	rec     *gputest.Recorder
	adapter *gputest.Adapter
	inst    *gputest.Instance
	window  *fakeWindow
	log     *logrus.Logger
	hook    *test.Hook
}

func newHarness() *harness {
	rec := gputest.NewRecorder()
	adapter := rec.NewAdapter("test gpu")
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	return &harness{
		rec:     rec,
		adapter: adapter,
		inst:    rec.NewInstance(adapter),
		window:  &fakeWindow{width: 800, height: 600},
		log:     log,
		hook:    hook,
	}
}

func (h *harness) renderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	if opts.ClearColor == (mgl32.Vec4{}) {
		opts.ClearColor = yellow
	}

	r, err := New(h.inst, h.inst.CreateSurface, h.window, testShaders(), opts, h.log)
	require.NoError(t, err)
	t.Cleanup(r.Destroy)
	return r
}

// deviceContext builds the pieces leading up to the render targets by hand.
func (h *harness) deviceContext(t *testing.T) (*DeviceContext, *Swapchain) {
	t.Helper()

	surface, err := h.inst.CreateSurface()
	require.NoError(t, err)

	caps, err := QueryAdapter(h.adapter, surface)
	require.NoError(t, err)

	dc, err := NewDeviceContext(caps, DeviceExtensions)
	require.NoError(t, err)

	sc, err := NewSwapchain(dc, surface, h.window.width, h.window.height, h.log)
	require.NoError(t, err)

	t.Cleanup(func() {
		sc.Destroy()
		dc.Destroy()
		surface.Destroy()
	})
	return dc, sc
}

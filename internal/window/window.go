// Package window owns the SDL window the renderer presents to.
package window

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

type Window struct {
	handle *sdl.Window
	closed bool
	log    logrus.FieldLogger
}

// New initialises SDL video and opens a fixed-size window that Vulkan can
// present to. It must be called from the thread that will pump events.
func New(title string, width, height int, log logrus.FieldLogger) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, errors.Wrap(err, "initialising SDL")
	}

	handle, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(width), int32(height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN)
	if err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "creating window")
	}

	return &Window{handle: handle, log: log}, nil
}

// SDL exposes the native window for surface creation.
func (w *Window) SDL() *sdl.Window {
	return w.handle
}

// InstanceExtensions lists the instance extensions needed to present to this
// window.
func (w *Window) InstanceExtensions() []string {
	return w.handle.VulkanGetInstanceExtensions()
}

func (w *Window) ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

func (w *Window) FramebufferSize() (int, int) {
	width, height := w.handle.VulkanGetDrawableSize()
	return int(width), int(height)
}

func (w *Window) ShouldClose() bool {
	return w.closed
}

func (w *Window) PollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		w.handleEvent(event)
	}
}

func (w *Window) handleEvent(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		w.closed = true
	case *sdl.KeyboardEvent:
		if e.State == sdl.PRESSED && e.Keysym.Sym == sdl.K_ESCAPE {
			w.log.Debug("Escape pressed")
			w.closed = true
		}
	}
}

func (w *Window) Destroy() {
	if w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
	}
	sdl.Quit()
}

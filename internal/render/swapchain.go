package render

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

// SurfaceFactory creates the presentation surface for the window being rendered
// to.
type SurfaceFactory func() (gpu.Surface, error)

// ChooseSurfaceFormat prefers 8-bit BGRA sRGB in the sRGB non-linear colour
// space, falling back to the first advertised format.
func ChooseSurfaceFormat(formats []gpu.SurfaceFormat) gpu.SurfaceFormat {
	for _, format := range formats {
		if format.Format == gpu.FormatB8G8R8A8SRGB && format.ColorSpace == gpu.ColorSpaceSRGBNonlinear {
			return format
		}
	}

	return formats[0]
}

func ChoosePresentMode(modes []gpu.PresentMode) gpu.PresentMode {
	for _, mode := range modes {
		if mode == gpu.PresentModeMailbox {
			return mode
		}
	}

	return gpu.PresentModeFIFO
}

// ChooseExtent returns the surface's current extent unless the surface leaves
// the choice to the application, in which case the framebuffer size is clamped
// to the supported range.
func ChooseExtent(caps gpu.SurfaceCapabilities, width, height int) gpu.Extent2D {
	if caps.CurrentExtent.Width != gpu.UndefinedExtent {
		return caps.CurrentExtent
	}

	return gpu.Extent2D{
		Width:  clamp(width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func RequestedImageCount(caps gpu.SurfaceCapabilities) int {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// SharingFor shares swapchain images between the graphics and present families
// when they differ.
func SharingFor(families QueueFamilyIndices) (gpu.SharingMode, []int) {
	if families.Shared() {
		return gpu.SharingModeExclusive, nil
	}
	return gpu.SharingModeConcurrent, []int{families.Graphics, families.Present}
}

type Swapchain struct {
	Handle      gpu.Swapchain
	Images      []gpu.Image
	Views       []gpu.ImageView
	Format      gpu.SurfaceFormat
	PresentMode gpu.PresentMode
	Extent      gpu.Extent2D

	owned gpu.Stack
}

// NewSwapchain creates a swapchain on surface sized for a framebuffer of
// width x height pixels, and one view per image it returns.
func NewSwapchain(dc *DeviceContext, surface gpu.Surface, width, height int, log logrus.FieldLogger) (_ *Swapchain, err error) {
	support := dc.Adapter.Surface
	sc := &Swapchain{
		Format:      ChooseSurfaceFormat(support.Formats),
		PresentMode: ChoosePresentMode(support.PresentModes),
		Extent:      ChooseExtent(support.Capabilities, width, height),
	}
	defer func() {
		if err != nil {
			sc.owned.Unwind()
		}
	}()

	sharing, families := SharingFor(dc.Adapter.Families)
	sc.Handle, err = dc.Device.CreateSwapchain(gpu.SwapchainCreateInfo{
		Surface:            surface,
		MinImageCount:      RequestedImageCount(support.Capabilities),
		Format:             sc.Format,
		Extent:             sc.Extent,
		PresentMode:        sc.PresentMode,
		SharingMode:        sharing,
		QueueFamilyIndices: families,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating swapchain")
	}
	sc.owned.Push("swapchain", sc.Handle)

	sc.Images, err = sc.Handle.Images()
	if err != nil {
		return nil, errors.Wrap(err, "retrieving swapchain images")
	}

	for i, image := range sc.Images {
		view, err := dc.Device.CreateImageView(gpu.ImageViewCreateInfo{
			Image:  image,
			Format: sc.Format.Format,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "creating view for swapchain image %d", i)
		}
		sc.owned.Push("image view", view)
		sc.Views = append(sc.Views, view)
	}

	log.WithFields(logrus.Fields{
		"format":       sc.Format.Format,
		"present_mode": sc.PresentMode,
		"extent":       sc.Extent,
		"images":       len(sc.Images),
	}).Info("Created swapchain")
	return sc, nil
}

// Destroy releases the image views and then the swapchain. The images belong to
// the swapchain and go with it.
func (s *Swapchain) Destroy() {
	s.owned.Unwind()
	s.Views = nil
	s.Images = nil
}

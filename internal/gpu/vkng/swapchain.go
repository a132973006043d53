package vkng

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

type Swapchain struct {
	device *Device
	handle khr_swapchain.Swapchain
}

func (d *Device) CreateSwapchain(info gpu.SwapchainCreateInfo) (gpu.Swapchain, error) {
	surface := surfaceHandle(info.Surface)

	// The pre-transform is not part of gpu.SurfaceCapabilities, so ask again.
	caps, _, err := d.adapter.instance.surfaces.GetPhysicalDeviceSurfaceCapabilities(surface, d.adapter.handle)
	if err != nil {
		return nil, errors.Wrap(err, "querying surface capabilities")
	}

	handle, res, err := d.swapchains.CreateSwapchain(nil, khr_swapchain.SwapchainCreateInfo{
		Surface: surface,

		MinImageCount:    info.MinImageCount,
		ImageFormat:      core1_0.Format(info.Format.Format),
		ImageColorSpace:  khr_surface.ColorSpace(info.Format.ColorSpace),
		ImageExtent:      extentToCore(info.Extent),
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   core1_0.SharingMode(info.SharingMode),
		QueueFamilyIndices: info.QueueFamilyIndices,

		PreTransform:   caps.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    khr_surface.PresentMode(info.PresentMode),
		Clipped:        true,
	})
	if err != nil {
		return nil, check(res, err)
	}

	return &Swapchain{device: d, handle: handle}, nil
}

func (s *Swapchain) Images() ([]gpu.Image, error) {
	images, res, err := s.device.swapchains.GetSwapchainImages(s.handle)
	if err != nil {
		return nil, check(res, err)
	}

	out := make([]gpu.Image, len(images))
	for i, image := range images {
		out[i] = image
	}
	return out, nil
}

func (s *Swapchain) AcquireNextImage(wait time.Duration, signal gpu.Semaphore) (int, bool, error) {
	semaphore := signal.(*Semaphore).handle

	index, res, err := s.device.swapchains.AcquireNextImage(s.handle, timeout(wait), &semaphore, nil)
	if err != nil {
		return 0, false, check(res, err)
	}

	switch res {
	case core1_0.VKTimeout, core1_0.VKNotReady:
		return 0, false, errors.Wrap(gpu.ErrTimeout, "no swapchain image available")
	case khr_swapchain.VKSuboptimal:
		return index, true, nil
	}
	return index, false, nil
}

func (s *Swapchain) Destroy() {
	s.device.swapchains.DestroySwapchain(s.handle, nil)
}

package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

type Adapter struct {
	instance *Instance
	handle   core1_0.PhysicalDevice
}

func (a *Adapter) Properties() (gpu.AdapterProperties, error) {
	props, err := a.instance.driver.GetPhysicalDeviceProperties(a.handle)
	if err != nil {
		return gpu.AdapterProperties{}, errors.Wrap(err, "querying physical device properties")
	}
	return gpu.AdapterProperties{
		Name:              props.DeviceName,
		PipelineCacheUUID: props.PipelineCacheUUID,
	}, nil
}

func (a *Adapter) QueueFamilies() ([]gpu.QueueFamily, error) {
	props := a.instance.driver.GetPhysicalDeviceQueueFamilyProperties(a.handle)

	families := make([]gpu.QueueFamily, len(props))
	for idx, family := range props {
		families[idx] = gpu.QueueFamily{
			Index:      idx,
			QueueCount: family.QueueCount,
			Graphics:   family.QueueFlags&core1_0.QueueGraphics != 0,
		}
	}
	return families, nil
}

func (a *Adapter) PresentSupport(surface gpu.Surface, family int) (bool, error) {
	supported, _, err := a.instance.surfaces.GetPhysicalDeviceSurfaceSupport(surfaceHandle(surface), a.handle, family)
	return supported, err
}

func (a *Adapter) Extensions() ([]string, error) {
	props, _, err := a.instance.driver.EnumerateDeviceExtensionProperties(a.handle)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	return names, nil
}

func (a *Adapter) SurfaceCapabilities(surface gpu.Surface) (gpu.SurfaceCapabilities, error) {
	caps, _, err := a.instance.surfaces.GetPhysicalDeviceSurfaceCapabilities(surfaceHandle(surface), a.handle)
	if err != nil {
		return gpu.SurfaceCapabilities{}, err
	}
	return capabilitiesFromCore(caps), nil
}

func (a *Adapter) SurfaceFormats(surface gpu.Surface) ([]gpu.SurfaceFormat, error) {
	formats, _, err := a.instance.surfaces.GetPhysicalDeviceSurfaceFormats(surfaceHandle(surface), a.handle)
	if err != nil {
		return nil, err
	}

	out := make([]gpu.SurfaceFormat, len(formats))
	for i, f := range formats {
		out[i] = gpu.SurfaceFormat{Format: gpu.Format(f.Format), ColorSpace: gpu.ColorSpace(f.ColorSpace)}
	}
	return out, nil
}

func (a *Adapter) PresentModes(surface gpu.Surface) ([]gpu.PresentMode, error) {
	modes, _, err := a.instance.surfaces.GetPhysicalDeviceSurfacePresentModes(surfaceHandle(surface), a.handle)
	if err != nil {
		return nil, err
	}

	out := make([]gpu.PresentMode, len(modes))
	for i, m := range modes {
		out[i] = gpu.PresentMode(m)
	}
	return out, nil
}

func (a *Adapter) CreateDevice(info gpu.DeviceCreateInfo) (gpu.Device, error) {
	queues := make([]core1_0.DeviceQueueCreateInfo, len(info.QueueFamilies))
	for i, family := range info.QueueFamilies {
		queues[i] = core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: family,
			QueuePriorities:  []float32{1.0},
		}
	}

	driver, _, err := a.instance.driver.CreateDevice(a.handle, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queues,
		EnabledExtensionNames: info.Extensions,
	})
	if err != nil {
		return nil, err
	}

	return &Device{
		adapter:    a,
		driver:     driver,
		swapchains: khr_swapchain.CreateExtensionDriverFromCoreDriver(driver),
	}, nil
}

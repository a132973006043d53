// Package vkng implements the gpu interfaces with vkngwrapper.
package vkng

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_surface"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

type InstanceOptions struct {
	// ProcAddr is vkGetInstanceProcAddr as handed out by the windowing system.
	ProcAddr        unsafe.Pointer
	ApplicationName string
	// Extensions are the instance extensions the window needs for presentation.
	Extensions []string

	// Validation enables the Khronos validation layer. NewInstance fails with
	// gpu.ErrValidationUnavailable if the layer is not installed.
	Validation  bool
	Diagnostics gpu.DiagnosticsSink
}

type Instance struct {
	driver    core1_0.CoreInstanceDriver
	surfaces  khr_surface.ExtensionDriver
	messenger gpu.Destroyer
}

func NewInstance(opts InstanceOptions) (*Instance, error) {
	global, err := core.CreateDriverFromProcAddr(opts.ProcAddr)
	if err != nil {
		return nil, errors.Wrap(err, "loading vulkan")
	}

	info := core1_0.InstanceCreateInfo{
		ApplicationName:    opts.ApplicationName,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	available, _, err := global.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "enumerating instance extensions")
	}
	for _, ext := range opts.Extensions {
		if _, ok := available[ext]; !ok {
			return nil, errors.Errorf("window requires missing instance extension %s", ext)
		}
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, ext)
	}

	if _, ok := available[khr_portability_enumeration.ExtensionName]; ok {
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		info.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	var debugInfo *ext_debug_utils.DebugUtilsMessengerCreateInfo
	if opts.Validation {
		layers, _, err := global.AvailableLayers()
		if err != nil {
			return nil, errors.Wrap(err, "enumerating instance layers")
		}
		if _, ok := layers[gpu.ValidationLayer]; !ok {
			return nil, errors.Wrapf(gpu.ErrValidationUnavailable, "layer %s is not installed", gpu.ValidationLayer)
		}
		info.EnabledLayerNames = append(info.EnabledLayerNames, gpu.ValidationLayer)

		if _, ok := available[ext_debug_utils.ExtensionName]; ok {
			sink := opts.Diagnostics
			if sink == nil {
				sink = gpu.NopSink{}
			}
			messengerInfo := debugMessengerInfo(sink)
			debugInfo = &messengerInfo
			info.EnabledExtensionNames = append(info.EnabledExtensionNames, ext_debug_utils.ExtensionName)
			// Chained so instance creation and destruction are reported too.
			info.Next = messengerInfo
		}
	}

	driver, _, err := global.CreateInstance(nil, info)
	if err != nil {
		return nil, errors.Wrap(err, "creating instance")
	}

	inst := &Instance{
		driver:    driver,
		surfaces:  khr_surface.CreateExtensionDriverFromCoreDriver(driver),
		messenger: gpu.DestroyFunc(func() {}),
	}

	if debugInfo != nil {
		inst.messenger, err = newDebugMessenger(driver, *debugInfo)
		if err != nil {
			driver.DestroyInstance(nil)
			return nil, err
		}
	}

	return inst, nil
}

func (i *Instance) Adapters() ([]gpu.Adapter, error) {
	devices, _, err := i.driver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, errors.Wrap(err, "enumerating physical devices")
	}

	adapters := make([]gpu.Adapter, len(devices))
	for idx, device := range devices {
		adapters[idx] = &Adapter{instance: i, handle: device}
	}
	return adapters, nil
}

// Destroy releases the debug messenger and the instance. Every surface and
// device created from the instance must already be destroyed.
func (i *Instance) Destroy() {
	i.messenger.Destroy()
	i.driver.DestroyInstance(nil)
}

type Surface struct {
	instance *Instance
	handle   khr_surface.Surface
}

func (s *Surface) Destroy() {
	s.instance.surfaces.DestroySurface(s.handle, nil)
}

func surfaceHandle(s gpu.Surface) khr_surface.Surface {
	return s.(*Surface).handle
}

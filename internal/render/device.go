// Package render builds and drives a single-subpass forward renderer on top of
// the gpu interfaces: adapter selection, swapchain, render targets, command
// recording and frame pacing with one frame in flight.
package render

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

var ErrNoSuitableAdapter = errors.New("no suitable adapter")

// DeviceExtensions lists the device extensions every adapter must support.
var DeviceExtensions = []string{gpu.SwapchainExtension}

const noFamily = -1

type QueueFamilyIndices struct {
	Graphics int
	Present  int
}

func (i QueueFamilyIndices) Complete() bool {
	return i.Graphics != noFamily && i.Present != noFamily
}

func (i QueueFamilyIndices) Shared() bool {
	return i.Graphics == i.Present
}

// Unique returns each family that needs a queue exactly once.
func (i QueueFamilyIndices) Unique() []int {
	if i.Shared() {
		return []int{i.Graphics}
	}
	return []int{i.Graphics, i.Present}
}

// FindQueueFamilies looks for a family that can both draw and present to the
// surface. When no single family can, the first family with each capability is
// used.
func FindQueueFamilies(adapter gpu.Adapter, surface gpu.Surface) (QueueFamilyIndices, error) {
	indices := QueueFamilyIndices{Graphics: noFamily, Present: noFamily}

	families, err := adapter.QueueFamilies()
	if err != nil {
		return indices, errors.Wrap(err, "querying queue families")
	}

	for _, family := range families {
		present, err := adapter.PresentSupport(surface, family.Index)
		if err != nil {
			return indices, errors.Wrapf(err, "querying present support of family %d", family.Index)
		}

		if family.Graphics && present {
			return QueueFamilyIndices{Graphics: family.Index, Present: family.Index}, nil
		}
		if family.Graphics && indices.Graphics == noFamily {
			indices.Graphics = family.Index
		}
		if present && indices.Present == noFamily {
			indices.Present = family.Index
		}
	}

	return indices, nil
}

type SurfaceSupport struct {
	Capabilities gpu.SurfaceCapabilities
	Formats      []gpu.SurfaceFormat
	PresentModes []gpu.PresentMode
}

// AdapterCapabilities is everything the renderer needs to know about an adapter
// to decide whether it can be used and how to configure it.
type AdapterCapabilities struct {
	Adapter    gpu.Adapter
	Properties gpu.AdapterProperties
	Families   QueueFamilyIndices
	Extensions map[string]bool
	Surface    SurfaceSupport
}

func QueryAdapter(adapter gpu.Adapter, surface gpu.Surface) (AdapterCapabilities, error) {
	caps := AdapterCapabilities{Adapter: adapter, Extensions: map[string]bool{}}

	var err error
	caps.Properties, err = adapter.Properties()
	if err != nil {
		return caps, errors.Wrap(err, "querying adapter properties")
	}

	caps.Families, err = FindQueueFamilies(adapter, surface)
	if err != nil {
		return caps, err
	}

	extensions, err := adapter.Extensions()
	if err != nil {
		return caps, errors.Wrap(err, "querying device extensions")
	}
	for _, ext := range extensions {
		caps.Extensions[ext] = true
	}

	caps.Surface.Capabilities, err = adapter.SurfaceCapabilities(surface)
	if err != nil {
		return caps, errors.Wrap(err, "querying surface capabilities")
	}
	caps.Surface.Formats, err = adapter.SurfaceFormats(surface)
	if err != nil {
		return caps, errors.Wrap(err, "querying surface formats")
	}
	caps.Surface.PresentModes, err = adapter.PresentModes(surface)
	if err != nil {
		return caps, errors.Wrap(err, "querying present modes")
	}

	return caps, nil
}

// Unsuitable returns why the adapter cannot be used, or the empty string if it
// can.
func (c AdapterCapabilities) Unsuitable(required []string) string {
	switch {
	case c.Families.Graphics == noFamily:
		return "no graphics queue family"
	case c.Families.Present == noFamily:
		return "no queue family can present to the surface"
	}
	for _, ext := range required {
		if !c.Extensions[ext] {
			return "missing device extension " + ext
		}
	}
	switch {
	case len(c.Surface.Formats) == 0:
		return "surface advertises no formats"
	case len(c.Surface.PresentModes) == 0:
		return "surface advertises no present modes"
	}
	return ""
}

// SelectAdapter returns the first adapter able to render to the surface with
// the required extensions. If preferred is not uuid.Nil, an adapter with that
// pipeline cache UUID is chosen over the others as long as it is suitable.
func SelectAdapter(adapters []gpu.Adapter, surface gpu.Surface, required []string, preferred uuid.UUID, log logrus.FieldLogger) (AdapterCapabilities, error) {
	var first *AdapterCapabilities

	for _, adapter := range adapters {
		caps, err := QueryAdapter(adapter, surface)
		if err != nil {
			log.WithError(err).Debug("Skipping adapter")
			continue
		}

		entry := log.WithFields(logrus.Fields{
			"adapter": caps.Properties.Name,
			"uuid":    caps.Properties.PipelineCacheUUID,
		})
		if reason := caps.Unsuitable(required); reason != "" {
			entry.WithField("reason", reason).Debug("Adapter unsuitable")
			continue
		}

		if preferred != uuid.Nil && caps.Properties.PipelineCacheUUID == preferred {
			entry.Info("Selected preferred adapter")
			return caps, nil
		}
		if first == nil {
			first = &caps
		}
		if preferred == uuid.Nil {
			break
		}
	}

	if first == nil {
		return AdapterCapabilities{}, errors.Wrapf(ErrNoSuitableAdapter, "checked %d adapters", len(adapters))
	}
	if preferred != uuid.Nil {
		log.WithField("preferred", preferred).Warn("Preferred adapter not found or unsuitable")
	}
	log.WithField("adapter", first.Properties.Name).Info("Selected adapter")
	return *first, nil
}

// DeviceContext owns the logical device and the queues taken from it.
type DeviceContext struct {
	Adapter  AdapterCapabilities
	Device   gpu.Device
	Graphics gpu.Queue
	Present  gpu.Queue
}

// NewDeviceContext creates a logical device with one queue per unique family.
// VK_KHR_portability_subset is enabled whenever the adapter advertises it.
func NewDeviceContext(caps AdapterCapabilities, required []string) (*DeviceContext, error) {
	extensions := append([]string(nil), required...)
	if caps.Extensions[gpu.PortabilitySubsetExtension] {
		extensions = append(extensions, gpu.PortabilitySubsetExtension)
	}

	device, err := caps.Adapter.CreateDevice(gpu.DeviceCreateInfo{
		QueueFamilies: caps.Families.Unique(),
		Extensions:    extensions,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "creating logical device on %s", caps.Properties.Name)
	}

	return &DeviceContext{
		Adapter:  caps,
		Device:   device,
		Graphics: device.Queue(caps.Families.Graphics),
		Present:  device.Queue(caps.Families.Present),
	}, nil
}

func (d *DeviceContext) Destroy() {
	d.Device.Destroy()
}

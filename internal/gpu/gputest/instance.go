package gputest

import (
	"github.com/google/uuid"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

type Instance struct {
	object
	AdapterList []*Adapter
}

func (r *Recorder) NewInstance(adapters ...*Adapter) *Instance {
	inst := &Instance{object: r.newObject("instance"), AdapterList: adapters}
	r.add(inst.name, inst)
	return inst
}

func (i *Instance) Adapters() ([]gpu.Adapter, error) {
	if err := i.rec.call("EnumerateAdapters", i.name, ""); err != nil {
		return nil, err
	}

	adapters := make([]gpu.Adapter, len(i.AdapterList))
	for idx, a := range i.AdapterList {
		adapters[idx] = a
	}
	return adapters, nil
}

// CreateSurface has the shape of a surface factory.
func (i *Instance) CreateSurface() (gpu.Surface, error) {
	s := &Surface{object: i.rec.newObject("surface")}
	if err := i.rec.call("CreateSurface", s.name, ""); err != nil {
		return nil, err
	}
	i.rec.add(s.name, s)
	return s, nil
}

func (i *Instance) Destroy() {
	for _, name := range i.rec.Live() {
		if name != i.name {
			i.rec.violate("%s destroyed while %s is alive", i.name, name)
		}
	}
	i.destroy()
}

type Surface struct {
	object
}

func (s *Surface) Destroy() {
	s.destroy()
}

type Adapter struct {
	rec *Recorder

	Name            string
	UUID            uuid.UUID
	Families        []gpu.QueueFamily
	PresentFamilies []int
	ExtensionNames  []string
	Caps            gpu.SurfaceCapabilities
	Formats         []gpu.SurfaceFormat
	Modes           []gpu.PresentMode

	// SwapchainImages is the number of images a swapchain hands back. Zero
	// returns exactly the requested minimum.
	SwapchainImages int

	// QueryErr fails every capability query.
	QueryErr error

	// Device is the last device created on the adapter.
	Device *Device
}

// NewAdapter returns an adapter that satisfies every requirement of the
// renderer: one family with graphics and present support, the swapchain
// extension, an sRGB surface format and both FIFO and mailbox presentation.
func (r *Recorder) NewAdapter(name string) *Adapter {
	return &Adapter{
		rec:             r,
		Name:            name,
		UUID:            uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		Families:        []gpu.QueueFamily{{Index: 0, QueueCount: 1, Graphics: true}},
		PresentFamilies: []int{0},
		ExtensionNames:  []string{gpu.SwapchainExtension},
		Caps: gpu.SurfaceCapabilities{
			MinImageCount:  2,
			MaxImageCount:  0,
			CurrentExtent:  gpu.Extent2D{Width: 800, Height: 600},
			MinImageExtent: gpu.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: gpu.Extent2D{Width: 4096, Height: 4096},
		},
		Formats: []gpu.SurfaceFormat{
			{Format: gpu.FormatB8G8R8A8UNorm, ColorSpace: gpu.ColorSpaceSRGBNonlinear},
			{Format: gpu.FormatB8G8R8A8SRGB, ColorSpace: gpu.ColorSpaceSRGBNonlinear},
		},
		Modes: []gpu.PresentMode{gpu.PresentModeFIFO, gpu.PresentModeMailbox},
	}
}

func (a *Adapter) Properties() (gpu.AdapterProperties, error) {
	if a.QueryErr != nil {
		return gpu.AdapterProperties{}, a.QueryErr
	}
	return gpu.AdapterProperties{Name: a.Name, PipelineCacheUUID: a.UUID}, nil
}

func (a *Adapter) QueueFamilies() ([]gpu.QueueFamily, error) {
	if a.QueryErr != nil {
		return nil, a.QueryErr
	}
	return a.Families, nil
}

func (a *Adapter) PresentSupport(surface gpu.Surface, family int) (bool, error) {
	if a.QueryErr != nil {
		return false, a.QueryErr
	}
	for _, f := range a.PresentFamilies {
		if f == family {
			return true, nil
		}
	}
	return false, nil
}

func (a *Adapter) Extensions() ([]string, error) {
	if a.QueryErr != nil {
		return nil, a.QueryErr
	}
	return a.ExtensionNames, nil
}

func (a *Adapter) SurfaceCapabilities(surface gpu.Surface) (gpu.SurfaceCapabilities, error) {
	if a.QueryErr != nil {
		return gpu.SurfaceCapabilities{}, a.QueryErr
	}
	return a.Caps, nil
}

func (a *Adapter) SurfaceFormats(surface gpu.Surface) ([]gpu.SurfaceFormat, error) {
	if a.QueryErr != nil {
		return nil, a.QueryErr
	}
	return a.Formats, nil
}

func (a *Adapter) PresentModes(surface gpu.Surface) ([]gpu.PresentMode, error) {
	if a.QueryErr != nil {
		return nil, a.QueryErr
	}
	return a.Modes, nil
}

func (a *Adapter) CreateDevice(info gpu.DeviceCreateInfo) (gpu.Device, error) {
	d := &Device{
		object:  a.rec.newObject("device"),
		adapter: a,
		Info:    info,
		queues:  map[int]*Queue{},
	}
	if err := a.rec.call("CreateDevice", d.name, a.Name); err != nil {
		return nil, err
	}

	seen := map[int]bool{}
	for _, f := range info.QueueFamilies {
		if seen[f] {
			a.rec.violate("queue family %d requested twice", f)
		}
		seen[f] = true
	}

	a.rec.add(d.name, d)
	a.Device = d
	return d, nil
}

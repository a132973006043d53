package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

// CreateSDLSurface creates a presentation surface for an SDL window that was
// created with sdl.WINDOW_VULKAN.
func (i *Instance) CreateSDLSurface(window *sdl.Window) (gpu.Surface, error) {
	handle, err := vkng_sdl2.CreateSurface(i.driver.Instance(), i.surfaces, window)
	if err != nil {
		return nil, errors.Wrap(err, "creating SDL surface")
	}
	return &Surface{instance: i, handle: handle}, nil
}

package gpu

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrOutOfDate means the surface changed and the swapchain can no longer be
	// presented to.
	ErrOutOfDate  = errors.New("swapchain out of date")
	ErrDeviceLost = errors.New("device lost")
	ErrTimeout    = errors.New("wait timed out")

	ErrValidationUnavailable = errors.New("validation layer unavailable")
)

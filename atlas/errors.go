package atlas

import (
	"errors"
	"fmt"
)

// Package errors.
var (
	// ErrInvalidHandle is returned by Lookup for a zero or foreign handle.
	ErrInvalidHandle = errors.New("atlas: invalid texture handle")

	// ErrBadPixels is returned by Register when the pixel slice does not
	// match the stated dimensions.
	ErrBadPixels = errors.New("atlas: pixel data does not match dimensions")
)

// CapacityError reports that a texture could not be packed. It is
// returned at registration time only; a handle, once issued, always
// resolves. No page is created for a failed registration.
type CapacityError struct {
	// Width and Height are the dimensions of the rejected texture.
	Width, Height int

	// Pages is the page count at the time of rejection.
	Pages int

	// MaxPages is the configured page limit.
	MaxPages int

	// Oversized is true when the texture cannot fit any page regardless
	// of the page limit.
	Oversized bool
}

func (e *CapacityError) Error() string {
	if e.Oversized {
		return fmt.Sprintf("atlas: texture %dx%d exceeds page dimension", e.Width, e.Height)
	}
	return fmt.Sprintf("atlas: no room for %dx%d texture (%d/%d pages full)",
		e.Width, e.Height, e.Pages, e.MaxPages)
}

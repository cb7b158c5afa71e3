package renderer

import (
	"context"

	"github.com/achilleasa/lumen/frame"
)

type Renderer interface {
	// Render frame. Cancelling the context aborts the render with
	// ErrInterrupted.
	Render(ctx context.Context) (*frame.Frame, error)

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}

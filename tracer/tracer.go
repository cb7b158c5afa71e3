package tracer

import (
	"context"
	"errors"
	"time"

	"github.com/achilleasa/lumen/frame"
	"github.com/achilleasa/lumen/scene"
)

var (
	ErrNoSceneData       = errors.New("tracer: no scene data")
	ErrBlockOutOfBounds  = errors.New("tracer: block exceeds frame bounds")
	ErrTracerBusy        = errors.New("tracer: worker did not accept block request")
	ErrCameraNotAttached = errors.New("tracer: scene has no camera")
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// Reflection/refraction bounce budget for primary rays.
	MaxDepth int

	// An optional context; tracers abandon the block at the next row once
	// it is done.
	Ctx context.Context

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error

	// An optional channel that receives the index of each completed row.
	RowChan chan<- uint32
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering this block
	RenderTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Shutdown and cleanup tracer.
	Close()

	// Get the tracer's relative computation speed estimate.
	Speed() uint32

	// Attach the scene to trace and the frame to write results to.
	Setup(sc *scene.Scene, fr *frame.Frame) error

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Retrieve last frame statistics.
	Stats() *Stats
}

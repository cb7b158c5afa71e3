package renderer

import "github.com/achilleasa/lumen/frame"

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of reflection/refraction bounces. A nil value selects the
	// scene depth; zero limits shading to local lighting.
	MaxDepth *int

	// Number of cpu tracers to attach. Zero selects one tracer per
	// available cpu.
	NumTracers int

	// An optional callback invoked with the frame being rendered and the
	// index of each completed row. It is always invoked from the go-routine
	// that called Render; only row y may be read while the render is in
	// progress.
	OnRowDone func(fr *frame.Frame, y uint32)
}

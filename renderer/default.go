package renderer

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/achilleasa/lumen/frame"
	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/tracer"
	"github.com/achilleasa/lumen/tracer/cpu"
)

// The default renderer splits each frame into row blocks and distributes
// them to a pool of cpu tracers.
type defaultRenderer struct {
	sync.Mutex

	logger log.Logger

	// The scene to render. The renderer owns a private copy of the camera
	// sized to the frame; the world is shared read-only.
	scene *scene.Scene

	// Render options.
	options Options

	// The list of attached tracers.
	tracers []tracer.Tracer

	// A block scheduler implementation for distributing the rows of each
	// frame to the attached tracers.
	scheduler tracer.BlockScheduler

	// The block assignments for the last frame.
	blockAssignments []uint32

	// Render statistics.
	stats FrameStats
}

// Create a new default renderer using the specified block scheduler.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	if sc == nil || sc.World == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameSize
	}

	maxDepth := sc.MaxDepth
	if opts.MaxDepth != nil {
		maxDepth = *opts.MaxDepth
	}
	if maxDepth < 0 {
		return nil, ErrInvalidMaxDepth
	}

	numTracers := opts.NumTracers
	if numTracers == 0 {
		numTracers = runtime.NumCPU()
	}
	if numTracers <= 0 {
		return nil, ErrNoTracers
	}

	camera := *sc.Camera
	camera.Resize(opts.FrameW, opts.FrameH)

	r := &defaultRenderer{
		logger: log.New("renderer"),
		scene: &scene.Scene{
			Camera:   &camera,
			World:    sc.World,
			MaxDepth: maxDepth,
		},
		options:   opts,
		scheduler: scheduler,
		tracers:   make([]tracer.Tracer, 0, numTracers),
	}

	for idx := 0; idx < numTracers; idx++ {
		r.tracers = append(r.tracers, cpu.NewTracer(fmt.Sprintf("cpu-%d", idx)))
	}
	r.logger.Infof("attached %d tracers", len(r.tracers))

	return r, nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	r.Lock()
	defer r.Unlock()

	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get last frame stats.
func (r *defaultRenderer) Stats() FrameStats {
	r.Lock()
	defer r.Unlock()
	return r.stats
}

// Render frame.
func (r *defaultRenderer) Render(ctx context.Context) (*frame.Frame, error) {
	r.Lock()
	defer r.Unlock()

	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	start := time.Now()
	fr, err := r.renderFrame(ctx)
	if err != nil {
		return nil, err
	}

	r.updateStats(time.Since(start))
	r.logger.Debugf("rendered %dx%d frame in %s", r.options.FrameW, r.options.FrameH, r.stats.RenderTime)
	return fr, nil
}

func (r *defaultRenderer) renderFrame(ctx context.Context) (*frame.Frame, error) {
	frameH := r.options.FrameH
	fr := frame.New(r.options.FrameW, frameH)

	for _, tr := range r.tracers {
		if err := tr.Setup(r.scene, fr); err != nil {
			return nil, err
		}
	}

	r.blockAssignments = r.scheduler.Schedule(r.tracers, frameH)

	// All channels are buffered so that tracers never block on a renderer
	// that has given up on the frame.
	doneChan := make(chan uint32, len(r.tracers))
	errChan := make(chan error, len(r.tracers))
	var rowChan chan uint32
	if r.options.OnRowDone != nil {
		rowChan = make(chan uint32, frameH)
	}

	var blockY uint32
	pending := 0
	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		if blockH == 0 {
			continue
		}

		req := tracer.BlockRequest{
			BlockY:   blockY,
			BlockH:   blockH,
			MaxDepth: r.scene.MaxDepth,
			Ctx:      ctx,
			DoneChan: doneChan,
			ErrChan:  errChan,
			RowChan:  rowChan,
		}
		tr.Enqueue(req)

		blockY += blockH
		pending++
	}

	for pending > 0 {
		select {
		case <-doneChan:
			pending--
		case y := <-rowChan:
			r.options.OnRowDone(fr, y)
		case err := <-errChan:
			if ctx.Err() != nil {
				return nil, ErrInterrupted
			}
			return nil, err
		case <-ctx.Done():
			return nil, ErrInterrupted
		}
	}

	// Rows are reported before their block completes so any leftovers are
	// already buffered.
	for rowChan != nil && len(rowChan) > 0 {
		r.options.OnRowDone(fr, <-rowChan)
	}

	return fr, nil
}

func (r *defaultRenderer) updateStats(renderTime time.Duration) {
	r.stats = FrameStats{
		Tracers:    make([]TracerStat, 0, len(r.tracers)),
		RenderTime: renderTime,
	}

	for idx, tr := range r.tracers {
		stat := TracerStat{
			Id:           tr.Id(),
			BlockH:       r.blockAssignments[idx],
			FramePercent: 100.0 * float32(r.blockAssignments[idx]) / float32(r.options.FrameH),
		}
		if stat.BlockH > 0 {
			stat.RenderTime = tr.Stats().RenderTime
		}
		r.stats.Tracers = append(r.stats.Tracers, stat)
	}
}

package cpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/lumen/frame"
	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/tracer"
)

// All cpu tracers run on identical cores so they share the same baseline
// speed estimate.
const baselineSpeed uint32 = 1

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered frame.
	stats *tracer.Stats

	// The scene to trace and the frame that receives the results.
	sceneData *scene.Scene
	frame     *frame.Frame
}

// Create a new cpu tracer. The tracer runs a single worker go-routine; the
// renderer achieves parallelism by attaching several tracers.
func NewTracer(id string) tracer.Tracer {
	tr := &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		blockReqChan: make(chan tracer.BlockRequest, 1),
		stats:        &tracer.Stats{},
	}
	tr.startWorker()
	return tr
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get the computation speed estimate.
func (tr *cpuTracer) Speed() uint32 {
	return baselineSpeed
}

// Attach the scene and target frame. Must not be called while a block is
// being processed.
func (tr *cpuTracer) Setup(sc *scene.Scene, fr *frame.Frame) error {
	if sc == nil || sc.World == nil {
		return tracer.ErrNoSceneData
	}
	if sc.Camera == nil {
		return tracer.ErrCameraNotAttached
	}

	tr.Lock()
	defer tr.Unlock()
	tr.sceneData = sc
	tr.frame = fr
	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	closeChan := tr.closeChan
	tr.closeChan = nil
	tr.Unlock()

	// If the worker is running shut it down; it may need the lock to
	// finish its current block.
	if closeChan != nil {
		close(closeChan)
		tr.wg.Wait()
	}

	tr.Lock()
	tr.sceneData = nil
	tr.frame = nil
	tr.Unlock()
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	default:
		// drop the request if worker is not listening
		tr.logger.Error("request processor did not receive block request")
		blockReq.ErrChan <- tracer.ErrTracerBusy
	}
}

// Retrieve last frame statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	// Worker already running
	if tr.closeChan != nil {
		return
	}

	tr.closeChan = make(chan struct{})
	closeChan := tr.closeChan
	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		close(readyChan)
		for {
			select {
			case blockReq := <-tr.blockReqChan:
				startTime := time.Now()

				// Render block and reply with our completion status
				err := tr.renderBlock(&blockReq)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)
				tr.logger.Debugf("rendered rows [%d, %d) in %s", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, tr.stats.RenderTime)

				blockReq.DoneChan <- blockReq.BlockH
			case <-closeChan:
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render block.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) error {
	tr.Lock()
	sc, fr := tr.sceneData, tr.frame
	tr.Unlock()

	if sc == nil || fr == nil {
		return tracer.ErrNoSceneData
	}
	if blockReq.BlockY+blockReq.BlockH > fr.H {
		return tracer.ErrBlockOutOfBounds
	}

	camera := sc.Camera
	world := sc.World
	for y := blockReq.BlockY; y < blockReq.BlockY+blockReq.BlockH; y++ {
		if blockReq.Ctx != nil && blockReq.Ctx.Err() != nil {
			return blockReq.Ctx.Err()
		}

		row := fr.Row(y)
		for x := uint32(0); x < fr.W; x++ {
			row[x] = world.ColorAt(camera.RayForPixel(x, y), blockReq.MaxDepth)
		}

		if blockReq.RowChan != nil {
			blockReq.RowChan <- y
		}
	}

	return nil
}

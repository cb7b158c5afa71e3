package tracer

import (
	"fmt"
	"math"
)

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split frame into blocks of variable height and assign to the pool
	// of tracers using feedback collected from previous frames.
	//
	// This function returns the block height assignment for each tracer
	// in the input list. Assignments always add up to frameH.
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

// The naive scheduler splits the frame proportionally to each tracer's
// speed estimate.
type naiveScheduler struct{}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return naiveScheduler{}
}

func (naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	weights := make([]float64, len(tracers))
	for idx, tr := range tracers {
		weights[idx] = float64(tr.Speed())
	}
	return distribute(weights, frameH)
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split frame into blocks of variable height and assign to the pool
// of tracers using feedback collected from previous frames.
//
// When previous frame information is available the scheduler uses the
// following formula for estimating the workload for tracer w and frame i+1:
// w_i, f_i+1 = (blockH,w_i / time,w_i) / Σ(blockH_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	// If this is the first time we try to schedule or the number of tracers
	// has changed we need to reset the block assignments
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = NaiveScheduler().Schedule(tracers, frameH)
		return sch.blockAssignment
	}

	// Use last frame statistics; fall back to speed estimates if any
	// tracer has no usable timing.
	weights := make([]float64, len(tracers))
	for idx, tr := range tracers {
		stats := tr.Stats()
		if stats.BlockH == 0 || stats.RenderTime <= 0 {
			sch.blockAssignment = NaiveScheduler().Schedule(tracers, frameH)
			return sch.blockAssignment
		}
		weights[idx] = float64(stats.BlockH) / float64(stats.RenderTime)
	}

	sch.blockAssignment = distribute(weights, frameH)
	return sch.blockAssignment
}

// Split frameH rows proportionally to weights. Every tracer gets at least
// one row as long as there are enough rows to go around; rows lost to
// rounding are appended to the first tracer.
func distribute(weights []float64, frameH uint32) []uint32 {
	assignment := make([]uint32, len(weights))
	if len(weights) == 0 {
		return assignment
	}

	if frameH < uint32(len(weights)) {
		for idx := uint32(0); idx < frameH; idx++ {
			assignment[idx] = 1
		}
		return assignment
	}

	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		// No usable weights; split evenly.
		for idx := range weights {
			weights[idx] = 1
		}
		total = float64(len(weights))
	}

	scaler := float64(frameH) / total
	var scheduledRows uint32
	for idx, w := range weights {
		assignment[idx] = uint32(math.Max(1.0, math.Floor(w*scaler)))
		scheduledRows += assignment[idx]
	}

	// Forcing a minimum of one row may overshoot; take the excess from
	// the largest blocks.
	for scheduledRows > frameH {
		largest := 0
		for idx := range assignment {
			if assignment[idx] > assignment[largest] {
				largest = idx
			}
		}
		assignment[largest]--
		scheduledRows--
	}

	// In case rows don't add up to the frame height append the missing ones to the first tracer
	assignment[0] += frameH - scheduledRows
	return assignment
}

// Create a scheduler by name ("naive" or "perfect").
func NewScheduler(name string) (BlockScheduler, error) {
	switch name {
	case "naive":
		return NaiveScheduler(), nil
	case "perfect":
		return PerfectScheduler(), nil
	}
	return nil, fmt.Errorf("tracer: unknown block scheduler '%s'", name)
}

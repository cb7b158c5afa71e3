package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"

	"github.com/achilleasa/lumen/frame"
	"github.com/achilleasa/lumen/renderer"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/scene/reader"
	"github.com/achilleasa/lumen/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Load the scene argument and apply camera overrides from the command flags.
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	if ctx.NArg() != 1 {
		return nil, errors.New("missing scene file argument")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return nil, err
	}

	if fov := ctx.Float64("fov"); fov > 0 {
		if fov >= 180 {
			return nil, fmt.Errorf("invalid fov %.1f; expected a value in the (0, 180) range", fov)
		}
		sc.Camera.FOV = fov * math.Pi / 180.0
	}
	return sc, nil
}

// Get the frame dims; unset flags fall back to the scene camera.
// Get the bounce budget requested via --depth; nil selects the scene depth.
func depthOverride(ctx *cli.Context) *int {
	if !ctx.IsSet("depth") {
		return nil
	}
	depth := ctx.Int("depth")
	return &depth
}

func frameDims(ctx *cli.Context, sc *scene.Scene) (uint32, uint32) {
	frameW, frameH := sc.Camera.HSize, sc.Camera.VSize
	if w := ctx.Int("width"); w > 0 {
		frameW = uint32(w)
	}
	if h := ctx.Int("height"); h > 0 {
		frameH = uint32(h)
	}
	return frameW, frameH
}

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	scheduler, err := tracer.NewScheduler(ctx.String("scheduler"))
	if err != nil {
		return err
	}

	opts := renderer.Options{
		MaxDepth:   depthOverride(ctx),
		NumTracers: ctx.Int("tracers"),
	}
	opts.FrameW, opts.FrameH = frameDims(ctx, sc)

	// Log progress in 10% steps.
	var rowsDone, nextReport uint32
	opts.OnRowDone = func(_ *frame.Frame, _ uint32) {
		rowsDone++
		if percent := 100 * rowsDone / opts.FrameH; percent >= nextReport {
			logger.Infof("rendered %d%% of frame", percent)
			nextReport = percent + 10
		}
	}

	r, err := renderer.NewDefault(sc, scheduler, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering %dx%d frame", opts.FrameW, opts.FrameH)
	fr, err := r.Render(renderCtx)
	if err != nil {
		return err
	}

	out := ctx.String("out")
	if err = fr.Save(out); err != nil {
		return err
	}
	logger.Noticef("saved frame to %s", out)

	displayFrameStats(r.Stats())
	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block height", "% of frame", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}

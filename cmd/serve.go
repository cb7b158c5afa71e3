package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/achilleasa/lumen/server"
	"github.com/urfave/cli"
)

// Serve progressive previews of a scene over websockets.
func ServeScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	opts := server.Options{
		MaxDepth:   depthOverride(ctx),
		NumTracers: ctx.Int("tracers"),
		Scheduler:  ctx.String("scheduler"),
	}
	opts.FrameW, opts.FrameH = frameDims(ctx, sc)

	srv, err := server.New(sc, opts)
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", ctx.Int("port")),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-sigCtx.Done()
		srv.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Noticef("serving %dx%d previews on %s", opts.FrameW, opts.FrameH, httpServer.Addr)
	if err = httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package cmd

import (
	"errors"
	"strings"

	"github.com/achilleasa/lumen/scene/reader"
	"github.com/achilleasa/lumen/scene/writer"
	"github.com/urfave/cli"
)

// Compile text scenes into zip bundles.
func CompileScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		return errors.New("missing scene file argument")
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(sceneFile, ".scn") {
			logger.Warningf("skipping unsupported file %s", sceneFile)
			continue
		}

		logger.Noticef("parsing and compiling scene: %s", sceneFile)
		desc, err := reader.ReadDescription(sceneFile)
		if err != nil {
			return err
		}

		// Building validates materials and transforms before anything
		// is written out.
		sc, err := desc.Build()
		if err != nil {
			return err
		}
		logger.Noticef("scene information:\n%s", sc.Stats())

		zipFile := strings.TrimSuffix(sceneFile, ".scn") + ".zip"
		if err = writer.WriteScene(desc, zipFile); err != nil {
			return err
		}
	}

	return nil
}

// Display scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", sc.Stats())
	return nil
}

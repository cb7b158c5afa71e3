package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/lumen/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	renderFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Usage: "frame width (defaults to the scene camera width)",
		},
		cli.IntFlag{
			Name:  "height",
			Usage: "frame height (defaults to the scene camera height)",
		},
		cli.Float64Flag{
			Name:  "fov",
			Usage: "override the camera field of view (degrees)",
		},
		cli.IntFlag{
			Name:  "depth",
			Usage: "max reflection/refraction bounces; 0 disables them (defaults to the scene setting)",
		},
		cli.IntFlag{
			Name:  "tracers",
			Usage: "number of cpu tracers (defaults to one per cpu)",
		},
		cli.StringFlag{
			Name:  "scheduler",
			Value: "perfect",
			Usage: "block scheduler: naive or perfect",
		},
	}

	app := cli.NewApp()
	app.Name = "lumen"
	app.Usage = "render scenes using recursive ray tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level: debug, info, notice, warning or error",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile text scene representation into a binary compressed format",
			Description: `
Parse one or more .scn scene files, validate their materials and transforms
and package them into zip archives that can be supplied as an argument to the
render and serve commands.`,
			ArgsUsage: "scene_file1.scn scene_file2.scn ...",
			Action:    cmd.CompileScene,
		},
		{
			Name:      "info",
			Usage:     "print scene statistics",
			ArgsUsage: "scene_file.(scn|zip)",
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:  "render",
			Usage: "render scene",
			Subcommands: []cli.Command{
				{
					Name:        "frame",
					Usage:       "render single frame",
					Description: `Render a single frame. Press ctrl+c to abort the render.`,
					ArgsUsage:   "scene_file.(scn|zip)",
					Flags: append(renderFlags,
						cli.StringFlag{
							Name:  "out, o",
							Value: "frame.png",
							Usage: "image filename for the rendered frame (.png, .ppm, .ppm.zst or .ppm.sz)",
						},
					),
					Action: cmd.RenderFrame,
				},
			},
		},
		{
			Name:  "serve",
			Usage: "stream progressive scene previews over websockets",
			Description: `
Start an http server exposing a /ws websocket endpoint. Every connection
renders the scene and receives each row as soon as it is traced.`,
			ArgsUsage: "scene_file.(scn|zip)",
			Flags: append(renderFlags,
				cli.IntFlag{
					Name:  "port",
					Value: 8080,
					Usage: "http port to listen on",
				},
			),
			Action: cmd.ServeScene,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

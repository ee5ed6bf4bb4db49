package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	. "github.com/dexkit/dexload"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	app := cli.NewApp()
	app.Usage = "dex container compiler"
	app.Name = "dexc"
	app.Description = "dex container compiler which compiles HCL class manifests into dex containers or jar archives"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}},
	}
	app.Before = func(ctx *cli.Context) error {
		if ctx.Bool("debug") {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
		return nil
	}
	app.Args = true
	app.Commands = []*cli.Command{
		{
			Name:   "compile",
			Action: compile,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, only with a single manifest"},
			},
			Args:  true,
			Usage: "compile HCL manifests to raw dex containers, resources are dropped",
		},
		{
			Name:   "jar",
			Action: jar,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, only with a single manifest"},
			},
			Args:  true,
			Usage: "compile HCL manifests to jar archives bundling classes and resources",
		},
		{
			Name:   "inspect",
			Action: inspect,
			Usage:  "display classes and resources of dex container or jar archive files",
			Args:   true,
		},
		{
			Name:   "optimize",
			Action: optimize,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "dir", Aliases: []string{"p"}, Usage: "optimized artifact directory, default working directory", Value: "."},
			},
			Usage: "pre-extract the optimized artifact of jar archives",
			Args:  true,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failure")
	}
}

func compile(ctx *cli.Context) error {
	return build(ctx, false, ".dex")
}

func jar(ctx *cli.Context) error {
	return build(ctx, true, ".jar")
}

func build(ctx *cli.Context, asJar bool, ext string) (err error) {
	m := ctx.Args().Slice()
	if len(m) == 0 {
		return fmt.Errorf("missing target manifest list")
	}
	out := ctx.String("out")
	if out != "" && len(m) > 1 {
		return fmt.Errorf("--out requires a single manifest")
	}
	for _, s := range m {
		o := out
		if o == "" {
			o = strings.TrimSuffix(s, filepath.Ext(s)) + ext
		}
		log.Debug().Str("manifest", s).Str("out", o).Msg("compile")
		if err = CompileManifest(s, o, asJar); err != nil {
			return fmt.Errorf("compile %s: %w", s, err)
		}
		log.Info().Str("out", o).Msg("written")
	}
	return
}

func inspect(ctx *cli.Context) (err error) {
	for _, s := range ctx.Args().Slice() {
		var v *ContainerInfo
		if v, err = Inspect(s); err != nil {
			return
		}
		log.Info().Msgf("%s:\n%s", s, v.String())
	}
	return
}

func optimize(ctx *cli.Context) (err error) {
	dir := ctx.String("dir")
	for _, s := range ctx.Args().Slice() {
		var odex string
		if odex, err = Optimize(s, dir); err != nil {
			return
		}
		log.Info().Str("jar", s).Str("odex", odex).Msg("optimized")
	}
	return
}

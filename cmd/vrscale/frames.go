package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/Carmen-Shannon/vrscale/config"
	"github.com/Carmen-Shannon/vrscale/demo"
)

// framesCommand exports scenarios as numbered PNG frames without opening a window.
func framesCommand(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("frames", flag.ContinueOnError)
	fs.SetOutput(stderr)
	scenario := fs.String("scenario", "", fmt.Sprintf("scenario to export, empty for all of %v", demo.Scenarios()))
	frames := fs.Uint64("n", cfg.Render.FrameBudget, "frames per scenario (0 exports 60)")
	out := fs.String("out", cfg.Render.OutputDir, "output directory")
	fps := fs.Float64("fps", 30, "animation frames per second")
	if err := fs.Parse(args); err != nil {
		return err
	}

	names := demo.Scenarios()
	if *scenario != "" {
		if !slices.Contains(names, *scenario) {
			return fmt.Errorf("%q: %w", *scenario, demo.ErrUnknownScenario)
		}
		names = []string{*scenario}
	}

	written, err := demo.ExportAll(ctx, names, cfg.DemoConfig(), demo.ExportOptions{
		Dir:    *out,
		Frames: *frames,
		Width:  cfg.Window.Width,
		FPS:    *fps,
		Logger: logger,
	})
	for _, name := range names {
		logger.Info("export finished", "scenario", name, "frames", written[name])
	}
	return err
}

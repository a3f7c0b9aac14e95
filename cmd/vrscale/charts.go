package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/Carmen-Shannon/vrscale/chart"
	"github.com/Carmen-Shannon/vrscale/config"
)

// chartsCommand renders the chart descriptors to PNG files, optionally re-rendering on change.
func chartsCommand(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("charts", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", cfg.Charts.Input, "descriptor file (.yaml, .toml or .json); empty for the built-in charts")
	out := fs.String("out", cfg.Charts.OutputDir, "output directory")
	workers := fs.Int("workers", cfg.Charts.Workers, "charts rendered in parallel (0 for GOMAXPROCS)")
	watch := fs.Bool("watch", false, "re-render when the input file changes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	theme := cfg.ChartTheme()
	opts := []chart.BatchOption{chart.WithWorkers(*workers), chart.WithBatchLogger(logger)}

	if *watch {
		if *input == "" {
			return fmt.Errorf("-watch needs -input: %w", errUsage)
		}
		logger.Info("watching charts", "input", *input, "out", *out)
		return chart.Watch(ctx, *input, theme, *out, nil, opts...)
	}

	descs := chart.Embedded()
	if *input != "" {
		var err error
		if descs, err = chart.Load(*input); err != nil {
			return err
		}
	}
	results, err := chart.RenderAll(descs, theme, *out, opts...)
	for _, r := range results {
		if r.Err == nil {
			logger.Info("chart written", "canvas", r.Descriptor.CanvasID, "path", r.Path)
		}
	}
	return err
}

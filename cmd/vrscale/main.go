// Command vrscale runs the VR scale demos in a window, exports them as PNG frames,
// and renders the benchmark bar charts.
//
// Usage:
//
//	vrscale [-config file] [-log-level level] run [-scenario name] [-profile] [-profile-interval d]
//	vrscale [-config file] [-log-level level] frames [-scenario name] [-n frames] [-out dir]
//	vrscale [-config file] [-log-level level] charts [-input file] [-out dir] [-workers n] [-watch]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/Carmen-Shannon/vrscale/config"
	"github.com/gogpu/gg"
)

var errUsage = errors.New("usage: vrscale [-config file] [-log-level level] <run|frames|charts> [flags]")

func init() {
	// GLFW must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stderr)
	stop()
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "vrscale:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("vrscale", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "TOML config file")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := newLogger(stderr, *logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	gg.SetLogger(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errUsage
	}
	switch rest[0] {
	case "run":
		return runCommand(ctx, cfg, logger, rest[1:], stderr)
	case "frames":
		return framesCommand(ctx, cfg, logger, rest[1:], stderr)
	case "charts":
		return chartsCommand(ctx, cfg, logger, rest[1:], stderr)
	}
	return fmt.Errorf("unknown command %q: %w", rest[0], errUsage)
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

// Command pulseinfo estimates a heart-rate-like periodic rate from
// timestamped RGB samples.
//
// Usage:
//
//	pulseinfo [flags] [samples.csv]
//
// Each input row is "timestamp,r,g,b". Timestamps are integers in ticks;
// -basis gives the ticks per second (1000 for milliseconds).
//
// Examples:
//
//	pulseinfo -capacity 300 -basis 1000 face.csv
//	pulseinfo -mode multi -every 15 < face.csv
//	pulseinfo -config pulse.yaml -v face.csv
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-pulse/dsp/separate"
	"github.com/cwbudde/algo-pulse/dsp/spectrum"
	"github.com/cwbudde/algo-pulse/dsp/window"
	"github.com/cwbudde/algo-pulse/measure/pulse"
	"github.com/cwbudde/algo-pulse/stats/robust"
)

func main() {
	cfg, args, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	var logLevel slog.LevelVar
	level, _ := parseLevel(cfg.LogLevel)
	logLevel.Set(level)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &logLevel}))

	in := io.Reader(os.Stdin)
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			logger.Error("failed to open input", slog.String("path", args[0]), slog.Any("error", err))
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	if err := run(cfg, in, os.Stdout, logger); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// run streams samples from in through a processor and writes one row per
// completed estimation cycle to out.
func run(cfg Config, in io.Reader, out io.Writer, logger *slog.Logger) error {
	mode, err := separate.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	win, err := window.ParseType(cfg.Window)
	if err != nil {
		return err
	}

	p, err := pulse.New(cfg.Capacity,
		pulse.WithMode(mode),
		pulse.WithTracker(robust.NewTracker(robust.WithWindow(cfg.TrackerWindow))),
		pulse.WithEstimatorOptions(
			spectrum.WithBand(cfg.LowBin, cfg.HighBin),
			spectrum.WithWindow(win, window.WithAlpha(cfg.TukeyAlpha)),
		),
		pulse.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create processor: %w", err)
	}

	logger.Info("processing samples",
		slog.Int("capacity", cfg.Capacity),
		slog.String("mode", mode.String()),
		slog.String("window", win.String()),
		slog.Float64("basis", cfg.Basis),
	)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Sample\tTime\tCurrent\tMin\tMax\tTracked\n")
	fmt.Fprintf(tw, "------\t----\t-------\t---\t---\t-------\n")

	samples := newSampleReader(in)
	n := 0
	for {
		s, err := samples.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read samples: %w", err)
		}

		if err := p.AddMeasure(s.Time, s.Value); err != nil {
			return fmt.Errorf("sample %d: %w", n, err)
		}
		n++

		if n%cfg.Every != 0 {
			continue
		}
		ran, err := p.MeasureFrequency(cfg.Basis)
		if err != nil {
			logger.Warn("estimation cycle failed", slog.Int("sample", n), slog.Any("error", err))
			continue
		}
		if !ran {
			continue
		}

		est := p.Estimate()
		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%.2f\t%.2f\t%.2f\n", n, s.Time, est.Current, est.Min, est.Max, p.Freq())
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	logger.Info("done", slog.Int("samples", n), slog.Float64("rate", p.Freq()), slog.Any("robust", p.RobustFreqs()))
	return nil
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-pulse/dsp/separate"
	"github.com/cwbudde/algo-pulse/dsp/spectrum"
	"github.com/cwbudde/algo-pulse/dsp/window"
)

// Config holds the run settings. Values come from an optional YAML file and
// are overridden by explicitly set flags.
type Config struct {
	Capacity      int     `yaml:"capacity"`
	Mode          string  `yaml:"mode"`
	Basis         float64 `yaml:"basis"`
	Every         int     `yaml:"every"`
	LowBin        int     `yaml:"lowBin"`
	HighBin       int     `yaml:"highBin"`
	Window        string  `yaml:"window"`
	TukeyAlpha    float64 `yaml:"tukeyAlpha"`
	TrackerWindow int     `yaml:"trackerWindow"`
	LogLevel      string  `yaml:"logLevel"`
}

// NewConfig returns the defaults: 256 samples, millisecond timestamps.
func NewConfig() Config {
	return Config{
		Capacity:      256,
		Mode:          separate.SingleChannel.String(),
		Basis:         1000,
		Every:         1,
		LowBin:        spectrum.DefaultLowBin,
		HighBin:       spectrum.DefaultHighBin,
		Window:        window.TypeRectangular.String(),
		TukeyAlpha:    window.DefaultTukeyAlpha,
		TrackerWindow: 20,
		LogLevel:      "info",
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.Capacity < 4 {
		return fmt.Errorf("capacity must be >= 4: %d", c.Capacity)
	}
	if _, err := separate.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := window.ParseType(c.Window); err != nil {
		return err
	}
	if c.TukeyAlpha < 0 || c.TukeyAlpha > 1 {
		return fmt.Errorf("tukey alpha must be in [0,1]: %f", c.TukeyAlpha)
	}
	if !(c.Basis > 0) {
		return fmt.Errorf("basis must be > 0: %f", c.Basis)
	}
	if c.Every <= 0 {
		return fmt.Errorf("every must be > 0: %d", c.Every)
	}
	if c.TrackerWindow <= 0 {
		return fmt.Errorf("tracker window must be > 0: %d", c.TrackerWindow)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// parseArgs builds the Config from args (without the program name) and
// returns the remaining positional arguments.
func parseArgs(args []string, stderr io.Writer) (Config, []string, error) {
	fs := flag.NewFlagSet("pulseinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaults := NewConfig()
	var (
		flagCfg    = defaults
		configPath string
		verbose    bool
	)
	fs.StringVar(&configPath, "config", "", "path to a YAML configuration file")
	fs.IntVar(&flagCfg.Capacity, "capacity", defaults.Capacity, "measurement buffer capacity in samples")
	fs.StringVar(&flagCfg.Mode, "mode", defaults.Mode, "channel separation mode: single (PCA) or multi (FastICA)")
	fs.Float64Var(&flagCfg.Basis, "basis", defaults.Basis, "timestamp ticks per second")
	fs.IntVar(&flagCfg.Every, "every", defaults.Every, "estimate after every N samples")
	fs.IntVar(&flagCfg.LowBin, "low-bin", defaults.LowBin, "mask spectrum bins 0..N")
	fs.IntVar(&flagCfg.HighBin, "high-bin", defaults.HighBin, "mask spectrum bins N..end")
	fs.StringVar(&flagCfg.Window, "window", defaults.Window, "taper applied before the transform: rectangular, hann, hamming, blackman, tukey")
	fs.Float64Var(&flagCfg.TukeyAlpha, "tukey-alpha", defaults.TukeyAlpha, "tapered fraction of the tukey window")
	fs.IntVar(&flagCfg.TrackerWindow, "tracker-window", defaults.TrackerWindow, "observations kept by the rate tracker")
	fs.BoolVar(&verbose, "v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: pulseinfo [flags] [samples.csv]\n\n")
		fmt.Fprintf(stderr, "Estimates the dominant rate (per minute) of timestamped RGB samples.\n")
		fmt.Fprintf(stderr, "Input rows are timestamp,r,g,b; stdin is read when no file is given.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}

	cfg := defaults
	if configPath != "" {
		var err error
		if cfg, err = LoadConfig(configPath); err != nil {
			return Config{}, nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "capacity":
			cfg.Capacity = flagCfg.Capacity
		case "mode":
			cfg.Mode = flagCfg.Mode
		case "basis":
			cfg.Basis = flagCfg.Basis
		case "every":
			cfg.Every = flagCfg.Every
		case "low-bin":
			cfg.LowBin = flagCfg.LowBin
		case "high-bin":
			cfg.HighBin = flagCfg.HighBin
		case "window":
			cfg.Window = flagCfg.Window
		case "tukey-alpha":
			cfg.TukeyAlpha = flagCfg.TukeyAlpha
		case "tracker-window":
			cfg.TrackerWindow = flagCfg.TrackerWindow
		case "v":
			if verbose {
				cfg.LogLevel = "debug"
			}
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}
	return cfg, fs.Args(), nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

// Command nmrfit fits a sum of pseudo-Voigt peaks to an NMR spectrum.
//
// Usage:
//
//	nmrfit [flags] spectrum.csv|spectrum.parquet
//
// The input holds frequency, real and optionally imaginary columns. Peaks
// are picked automatically unless the config file lists them.
//
// Examples:
//
//	nmrfit spectrum.csv
//	nmrfit -lo 1.2 -hi 4.8 -threshold 0.1 spectrum.csv
//	nmrfit -config fit.yaml -out fitted.parquet spectrum.parquet
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-nmr/fit"
	"github.com/cwbudde/algo-nmr/internal/logging"
	"github.com/cwbudde/algo-nmr/nmr/model"
	"github.com/cwbudde/algo-nmr/nmr/objective"
	"github.com/cwbudde/algo-nmr/nmr/peakpick"
	"github.com/cwbudde/algo-nmr/nmr/spectrum"
	"github.com/cwbudde/algo-nmr/nmr/tableio"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type flags struct {
	config    string
	lo, hi    float64
	threshold float64
	window    float64
	scale     int
	seed      uint64
	workers   int
	out       string
	level     string
	json      bool
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("nmrfit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var f flags
	fs.StringVar(&f.config, "config", "", "YAML configuration file")
	fs.Float64Var(&f.lo, "lo", 0, "lower end of the frequency window")
	fs.Float64Var(&f.hi, "hi", 0, "upper end of the frequency window")
	fs.Float64Var(&f.threshold, "threshold", 0, "picker threshold as a fraction of the tallest peak")
	fs.Float64Var(&f.window, "window", 0, "picker suppression window in frequency units")
	fs.IntVar(&f.scale, "scale", 0, "upsampling factor of the reconstructed spectrum")
	fs.Uint64Var(&f.seed, "seed", 0, "swarm random seed")
	fs.IntVar(&f.workers, "workers", 0, "concurrent objective evaluations")
	fs.StringVar(&f.out, "out", "", "write the fitted spectrum to a .csv or .parquet file")
	fs.StringVar(&f.level, "v", "", "log level (debug, info, warn, error)")
	fs.BoolVar(&f.json, "json", false, "log as JSON")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: nmrfit [flags] spectrum.csv|spectrum.parquet\n\n")
		fmt.Fprintf(stderr, "Fits pseudo-Voigt peaks to an NMR spectrum.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(f.config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	f.apply(&cfg, set)

	if err := fitFile(ctx, fs.Arg(0), f, set, cfg, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFail
	}

	return exitOK
}

// apply overrides cfg with the flags that were given on the command line.
func (f flags) apply(cfg *fileConfig, set map[string]bool) {
	if set["threshold"] {
		cfg.Picker.Threshold = f.threshold
	}
	if set["window"] {
		cfg.Picker.Window = f.window
	}
	if set["scale"] {
		cfg.Scale = f.scale
	}
	if set["seed"] {
		cfg.Swarm.Seed = f.seed
	}
	if set["workers"] {
		cfg.Swarm.Workers = f.workers
	}
	if set["v"] {
		cfg.Log.Level = f.level
	}
	if set["json"] {
		cfg.Log.JSON = f.json
	}
}

func fitFile(ctx context.Context, path string, f flags, set map[string]bool, cfg fileConfig, stdout, stderr io.Writer) error {
	log, err := logging.New(
		logging.WithLevel(cfg.Log.Level),
		logging.WithJSON(cfg.Log.JSON),
		logging.WithOutput(stderr),
		logging.WithFields(map[string]any{"input": filepath.Base(path)}),
	)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	s, err := readSpectrum(path)
	if err != nil {
		return err
	}

	if set["lo"] || set["hi"] {
		lo, hi := math.Inf(-1), math.Inf(1)
		if set["lo"] {
			lo = f.lo
		}
		if set["hi"] {
			hi = f.hi
		}

		if s, err = s.Range(lo, hi); err != nil {
			return err
		}
	}

	if cfg.Picker.BrutePhase {
		phase, err := s.BrutePhase(0)
		if err != nil {
			return err
		}

		log.Info("phase corrected", zap.Float64("phase", phase))
		s = s.Rotate(phase)
	}

	peaks, regions, err := selectPeaks(s, cfg)
	if err != nil {
		return err
	}

	log.Info("peaks selected", zap.Int("count", len(peaks)))

	opts, err := cfg.fitOptions(regions)
	if err != nil {
		return err
	}

	opts = append(opts, fit.WithLogger(log))

	out, err := fit.New(opts...).Fit(ctx, s, peaks)
	if err != nil {
		return err
	}

	if out.Warning != nil {
		fmt.Fprintf(stderr, "warning: %v\n", out.Warning)
	}

	if err := printOutcome(stdout, out); err != nil {
		return err
	}

	if f.out != "" {
		return writeResult(f.out, out)
	}

	return nil
}

func selectPeaks(s *spectrum.Spectrum, cfg fileConfig) ([]model.Peak, []objective.Region, error) {
	if len(cfg.Peaks) > 0 {
		peaks := make([]model.Peak, len(cfg.Peaks))
		for i, p := range cfg.Peaks {
			peaks[i] = model.Peak{Center: p.Center, Width: p.Width, Area: p.Area}
		}

		return peaks, peakpick.PeakRegions(peaks), nil
	}

	pc, err := cfg.picker()
	if err != nil {
		return nil, nil, err
	}

	sel, err := peakpick.Find(s, pc)
	if err != nil {
		return nil, nil, err
	}

	return peakpick.Peaks(sel), peakpick.Regions(sel), nil
}

func readSpectrum(path string) (*spectrum.Spectrum, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		info, err := file.Stat()
		if err != nil {
			return nil, err
		}

		return tableio.ReadParquet(file, info.Size())
	default:
		return tableio.ReadCSV(bufio.NewReader(file))
	}
}

func writeResult(path string, out *fit.Outcome) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		err = tableio.WriteParquet(w, out.Result)
	default:
		err = tableio.WriteCSV(w, out.Result)
	}

	if err == nil {
		err = w.Flush()
	}

	if cerr := file.Close(); err == nil {
		err = cerr
	}

	return err
}

func printOutcome(w io.Writer, out *fit.Outcome) error {
	r := out.Result
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Peak\tCenter\tWidth\tArea\n")
	fmt.Fprintf(tw, "----\t------\t-----\t----\n")

	for i, p := range r.Peaks() {
		fmt.Fprintf(tw, "%d\t%.6f\t%.6f\t%.6g\n", i+1, p.Center, p.Width, p.Area)
	}

	fmt.Fprintf(tw, "\n")
	fmt.Fprintf(tw, "Phase\t%.6f\n", r.Globals.Phase)
	fmt.Fprintf(tw, "Mix\t%.4f\n", r.Globals.Mix)
	fmt.Fprintf(tw, "Offset\t%.6g\n", r.Globals.Offset)
	fmt.Fprintf(tw, "Error\t%.6g\n", r.Error)
	fmt.Fprintf(tw, "Relative error\t%.6g\n", r.RelativeError)
	fmt.Fprintf(tw, "Satellite area\t%.4f\n", r.AreaFraction)
	fmt.Fprintf(tw, "Residual RMS\t%.6g\n", r.Residual.RMS)
	fmt.Fprintf(tw, "Status\t%s\n", out.Status)
	fmt.Fprintf(tw, "Iterations\t%d\n", out.Iterations)
	fmt.Fprintf(tw, "Evaluations\t%d\n", out.Evaluations)
	fmt.Fprintf(tw, "Refined\t%t\n", out.Refined)
	fmt.Fprintf(tw, "Elapsed\t%s\n", out.Elapsed.Round(time.Millisecond))

	return tw.Flush()
}

//go:build linux

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ja7ad/slowion/pkg/sim"
	"github.com/ja7ad/slowion/pkg/system/res"
	"github.com/ja7ad/slowion/pkg/types"
)

const version = "0.1.0"

func main() {
	o := sim.Default()
	verbose := 1

	root := &cobra.Command{
		Use:   "slowion",
		Short: "Nanopore sequencing instrument simulator",
		Long: `slowion emulates a fleet of sequencing positions, each with many
parallel channels continuously generating synthetic signal, and drives a
realistic three-stage streaming pipeline per position: real-time chunked
acquisition, consolidation of intermediate spill files into a compressed
signal container, and a pseudo-basecaller that reads records back as soon
as they are advertised. It exists to stress the end-to-end data path
(file creation rate, I/O throughput, compression, cross-stage
synchronisation) under real-time deadlines.

Examples:
  slowion -d /data/bench/run1
  slowion -p 4 -c 512 -T 600 -r 20000 -d /scratch/out`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(o, verbose)
		},
	}

	root.Flags().IntVarP(&o.NPos, "positions", "p", o.NPos, "number of positions")
	root.Flags().IntVarP(&o.NChan, "channels", "c", o.NChan, "channels per position")
	root.Flags().IntVarP(&o.SimTime, "time", "T", o.SimTime, "simulation time in seconds")
	root.Flags().IntVarP(&o.MeanRlen, "rlen", "r", o.MeanRlen, "mean read length (num bases)")
	root.Flags().IntVarP(&o.Freq, "sample-rate", "f", o.Freq, "sample rate in Hz")
	root.Flags().IntVarP(&o.BPS, "bps", "b", o.BPS, "average translocation speed (bases per second)")
	root.Flags().StringVarP(&o.Dir, "output", "d", o.Dir, "output directory (must not exist)")
	root.Flags().Int64Var(&o.Seed, "seed", o.Seed, "base seed for the random generators")
	root.Flags().IntVar(&verbose, "verbose", verbose, "log level (0=warn, 1=info, 2=debug)")
	root.Flags().BoolP("version", "V", false, "print version")
	root.SetVersionTemplate("slowion {{.Version}}\n")

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(o *sim.Opt, verbose int) error {
	setupLogging(verbose)

	if err := validate(o); err != nil {
		return err
	}
	if err := o.Derive(); err != nil {
		return err
	}

	slog.Info("simulation",
		"positions", o.NPos, "channels", o.NChan, "sample_rate", o.Freq,
		"speed", o.BPS, "readlen", o.MeanRlen)
	scratch := types.SamplesBytes(uint64(o.CZ) * uint64(o.NPos) * uint64(o.NChan))
	slog.Info("derived",
		"sim_time", o.SimTime, "ct", o.CT, "cz", o.CZ,
		"iterations", o.Iterations, "memreq", scratch.Humanized())

	// long reads keep one spill file open per busy channel; large fleets
	// blow through the default soft limit
	if err := res.RaiseFileLimit(); err != nil {
		return fmt.Errorf("raising open file limit: %w", err)
	}

	t0 := time.Now()
	if err := sim.Run(o); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "slowion %s\n", version)
	fmt.Fprintf(os.Stderr, "CMD: %s\n", strings.Join(os.Args, " "))
	fmt.Fprintf(os.Stderr, "Real time: %.3f sec; CPU time: %.3f sec; Peak RAM: %s\n",
		time.Since(t0).Seconds(), res.CPUTime(), res.PeakRSS().Humanized())
	return nil
}

// validate applies the option acceptance policy: structural limits are
// hard errors, physically unusual values only warn and continue.
func validate(o *sim.Opt) error {
	if o.NPos < 0 || o.NPos > 100 {
		return fmt.Errorf("number of positions must be between 0 and 100, got %d", o.NPos)
	}
	if o.NChan < 0 || o.NChan > 3000 {
		return fmt.Errorf("number of channels must be between 0 and 3000, got %d", o.NChan)
	}
	if o.MeanRlen < 3000 {
		return fmt.Errorf("mean read length must be >=3000, got %d; shorter reads fit "+
			"in memory whole and need no chunked writing, which is what this benchmark exercises", o.MeanRlen)
	}
	if o.MeanRlen > 50000 {
		slog.Warn("mean read length above 50000; no library with such long reads seen yet, continuing anyway", "rlen", o.MeanRlen)
	}
	if o.Freq < 3000 || o.Freq > 10000 {
		slog.Warn("sample rate outside [3000, 10000], continuing anyway", "sample_rate", o.Freq)
	}
	if o.BPS < 50 || o.BPS > 500 {
		slog.Warn("translocation speed outside [50, 500], continuing anyway", "bps", o.BPS)
	}
	return nil
}

func setupLogging(verbose int) {
	level := slog.LevelInfo
	switch {
	case verbose <= 0:
		level = slog.LevelWarn
	case verbose >= 2:
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

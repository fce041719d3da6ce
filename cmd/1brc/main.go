package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oarkflow/log"
	"github.com/pkg/profile"

	"github.com/jkroepke/1brc-engine/internal/engine"
	"github.com/jkroepke/1brc-engine/internal/report"
	"github.com/jkroepke/1brc-engine/internal/table"
)

type options struct {
	cfg        engine.Config
	hash       string
	cpuprofile string
	quiet      bool
	path       string
}

func parseFlags(args []string) (options, error) {
	opts := options{cfg: engine.DefaultConfig()}

	fs := flag.NewFlagSet("1brc", flag.ContinueOnError)
	fs.IntVar(&opts.cfg.Workers, "workers", opts.cfg.Workers, "number of parallel workers")
	fs.IntVar(&opts.cfg.Capacity, "capacity", opts.cfg.Capacity, "hash table slots per worker, a power of two")
	fs.StringVar(&opts.hash, "hash", "fnv", "key hash: fnv or xxh3")
	fs.StringVar(&opts.cpuprofile, "cpuprofile", "", "write a CPU profile into this directory")
	fs.BoolVar(&opts.quiet, "quiet", false, "do not log run statistics")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: 1brc [flags] [measurements.txt]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch fs.NArg() {
	case 0:
		opts.path = "measurements.txt"
	case 1:
		opts.path = fs.Arg(0)
	default:
		return opts, fmt.Errorf("expected one measurements file, got %d", fs.NArg())
	}

	h, err := table.HashByName(opts.hash)
	if err != nil {
		return opts, err
	}
	opts.cfg.Hash = h

	return opts, opts.cfg.Validate()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		log.Error().Err(err).Msg("invalid arguments")
		return 2
	}

	if opts.cpuprofile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.cpuprofile), profile.NoShutdownHook).Stop()
	}

	start := time.Now()

	res, err := execute(opts.path, os.Stdout, opts.cfg)
	if err != nil {
		log.Error().Err(err).Str("file", opts.path).Msg("aggregation failed")
		return 1
	}

	if !opts.quiet {
		log.Info().
			Str("file", opts.path).
			Str("elapsed", time.Since(start).String()).
			Int("workers", int(res.Stats.Workers.Value())).
			Int("records", int(res.Stats.Records.Value())).
			Int("bytes", int(res.Stats.Bytes.Value())).
			Int("stations", res.Stations.Len()).
			Msg("done")
	}

	return 0
}

func execute(fileName string, out io.Writer, cfg engine.Config) (*engine.Result, error) {
	res, err := engine.Run(fileName, cfg)
	if err != nil {
		return nil, err
	}

	if err := report.Write(out, res.Stations); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	return res, nil
}

// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Command sparsebit loads IPv4 and IPv6 addresses, CIDRs and ranges into
// sparse bit sets and probes addresses against them.
//
// Usage:
//
//	sparsebit [flags] [probe-addr ...]
//
// The input, stdin or the -load file (gzipped if it ends in .gz), has one
// item per line, an address, a CIDR or a range "from-to", optionally
// prefixed by '+' (set, default), '-' (clear) or '~' (flip).
// Every probe prints "addr<TAB>true|false" to stdout.
package main

import (
	"bufio"
	"compress/gzip"
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

	"golang.org/x/sync/errgroup"
)

type config struct {
	occupancy int
	workers   int
	load      string
	verbose   bool
	json      bool
	dump      bool
	validate  bool
	probes    []string
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("sparsebit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.IntVar(&cfg.occupancy, "occupancy", 256, "maximum occupancy per level, 2..256, below 256 the sets are lossy")
	fs.IntVar(&cfg.workers, "workers", runtime.GOMAXPROCS(0), "number of parallel probes")
	fs.StringVar(&cfg.load, "load", "-", "input file, '-' for stdin")
	fs.BoolVar(&cfg.verbose, "v", false, "verbose, log at debug level")
	fs.BoolVar(&cfg.json, "json", false, "log in JSON format")
	fs.BoolVar(&cfg.dump, "dump", false, "dump the tree structure after loading")
	fs.BoolVar(&cfg.validate, "validate", false, "validate the tree structure after loading")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.workers < 1 {
		return cfg, fmt.Errorf("workers must be positive: %d", cfg.workers)
	}

	cfg.probes = fs.Args()
	return cfg, nil
}

func newLogger(cfg config, w io.Writer) *Logger {
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	if cfg.json {
		return NewJSONLogger(w, level)
	}
	return NewTextLogger(w, level)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	log := newLogger(cfg, os.Stderr)
	if err := run(ctx, cfg, os.Stdin, os.Stdout, log); err != nil {
		log.Error("sparsebit failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, stdin io.Reader, stdout io.Writer, log *Logger) error {
	set, err := newAddrSet(cfg.occupancy)
	if err != nil {
		return err
	}

	r, name, closeFn, err := openInput(cfg.load, stdin)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, _, err := load(ctx, set, r, log.WithSource(name)); err != nil {
		return err
	}

	if cfg.validate {
		if err := set.validate(); err != nil {
			return err
		}
		log.InfoContext(ctx, "validate completed")
	}

	if cfg.dump {
		set.dump(stdout)
	}

	if len(cfg.probes) == 0 {
		return nil
	}

	hits, err := probe(ctx, set, cfg.probes, cfg.workers, log)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(stdout)
	for i, addr := range cfg.probes {
		fmt.Fprintf(w, "%s\t%t\n", addr, hits[i])
	}
	return w.Flush()
}

// openInput returns the reader for name, gunzipped for a .gz suffix.
func openInput(name string, stdin io.Reader) (io.Reader, string, func(), error) {
	if name == "-" {
		return stdin, "stdin", func() {}, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, "", nil, err
	}

	if !strings.HasSuffix(name, ".gz") {
		return f, name, func() { _ = f.Close() }, nil
	}

	rgz, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, "", nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return rgz, name, func() { _ = rgz.Close(); _ = f.Close() }, nil
}

// load applies all lines of r in input order. Malformed lines and
// lines rejected by the set are logged and counted, not fatal.
func load(ctx context.Context, set *addrSet, r io.Reader, log *Logger) (applied, rejected int, err error) {
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return applied, rejected, err
		}

		lineNo++
		line := scanner.Text()

		e, err := parseLine(line)
		if errors.Is(err, errSkip) {
			continue
		}
		if err == nil {
			err = set.apply(e.op, e.from, e.to)
		}
		if err != nil {
			rejected++
			log.LogRejected(ctx, lineNo, line, err)
			continue
		}

		applied++
		log.DebugContext(ctx, "line applied", "line", lineNo, "op", e.op, "from", e.from, "to", e.to)
	}

	if err := scanner.Err(); err != nil {
		return applied, rejected, err
	}

	log.LogLoad(ctx, applied, rejected)
	return applied, rejected, nil
}

// probe looks up all addrs in parallel, the result is in input order.
func probe(ctx context.Context, set *addrSet, addrs []string, workers int, log *Logger) ([]bool, error) {
	hits := make([]bool, len(addrs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, s := range addrs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			addr, err := parseAddr(s)
			if err != nil {
				log.LogProbe(ctx, s, false, err)
				return fmt.Errorf("probe %q: %w", s, err)
			}

			hit, err := set.contains(addr)
			log.LogProbe(ctx, s, hit, err)
			if err != nil {
				return err
			}

			hits[i] = hit
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return hits, nil
}

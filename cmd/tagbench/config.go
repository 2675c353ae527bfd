// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"tagbench/internal/bench"
)

var (
	errHelp  = errors.New("help requested")
	errUsage = errors.New("invalid usage")
)

const usageText = `Benchmark integrity-tag throughput over large memory arenas
-t n	maximal number of threads
-c	output in CSV format
-h	print this help

Environment:
  TAGBENCH_ARENA_SIZE    arena size per worker (default 512MiB)
  TAGBENCH_ARENA_MODE    exclusive | shared (default exclusive)
  TAGBENCH_PRIMITIVES    comma list of primitives (default highwayhash,siphash,aesgcm)
                         known: blake2b, blake3, chacha20poly1305, aesgcm, highwayhash, siphash
  TAGBENCH_RECORD_LENS   comma list of payload lengths in bytes
  TAGBENCH_METRICS_ADDR  serve Prometheus /metrics on this address while running
`

// loadConfig resolves the run configuration from the command line and
// TAGBENCH_* environment variables. Only -t, -c and -h exist as flags;
// anything else on the command line is ignored.
func loadConfig(args []string, stderr io.Writer) (bench.Config, error) {
	cfg := bench.DefaultConfig()

	fs := pflag.NewFlagSet("tagbench", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	// Unknown flags are dropped. A following argument that does not start
	// with "-" is taken as the unknown flag's value and dropped with it, so
	// "-x 4 -c" ignores the 4.
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.IntP("threads", "t", cfg.MaxThreads, "maximal number of threads")
	fs.BoolP("csv", "c", cfg.CSV, "output in CSV format")
	help := fs.BoolP("help", "h", false, "print usage")
	fs.Usage = func() { fmt.Fprint(stderr, usageText) }

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "tagbench: %v\n", err)
		fs.Usage()
		return cfg, fmt.Errorf("%w: %v", errUsage, err)
	}
	if *help {
		fs.Usage()
		return cfg, errHelp
	}

	v := viper.New()
	v.SetEnvPrefix("TAGBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("arena-size", humanize.IBytes(uint64(cfg.ArenaSize)))
	v.SetDefault("arena-mode", cfg.Mode.String())
	v.SetDefault("primitives", strings.Join(cfg.Primitives, ","))
	v.SetDefault("record-lens", joinInts(cfg.RecordLens))
	v.SetDefault("metrics-addr", "")
	if err := v.BindPFlags(fs); err != nil {
		return cfg, fmt.Errorf("bind flags: %w", err)
	}

	threads, err := strconv.Atoi(strings.TrimSpace(v.GetString("threads")))
	if err != nil || threads < 1 {
		fmt.Fprintf(stderr, "tagbench: thread count must be a positive integer, got %q\n", v.GetString("threads"))
		fs.Usage()
		return cfg, fmt.Errorf("%w: threads %q", errUsage, v.GetString("threads"))
	}
	cfg.MaxThreads = threads
	cfg.CSV = v.GetBool("csv")

	size, err := humanize.ParseBytes(v.GetString("arena-size"))
	if err != nil {
		return cfg, fmt.Errorf("TAGBENCH_ARENA_SIZE: %w", err)
	}
	if size == 0 || size > math.MaxInt {
		return cfg, fmt.Errorf("TAGBENCH_ARENA_SIZE: %s out of range", v.GetString("arena-size"))
	}
	cfg.ArenaSize = int(size)

	if cfg.Mode, err = bench.ParseArenaMode(v.GetString("arena-mode")); err != nil {
		return cfg, fmt.Errorf("TAGBENCH_ARENA_MODE: %w", err)
	}
	if cfg.RecordLens, err = parseInts(v.GetString("record-lens")); err != nil {
		return cfg, fmt.Errorf("TAGBENCH_RECORD_LENS: %w", err)
	}
	cfg.Primitives = splitList(v.GetString("primitives"))
	cfg.MetricsAddr = strings.TrimSpace(v.GetString("metrics-addr"))

	return cfg, cfg.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func parseInts(s string) ([]int, error) {
	fields := splitList(s)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}

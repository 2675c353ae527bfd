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

// Command tagbench measures multi-threaded throughput of integrity-tag
// primitives over fixed-size records in a large memory arena.
//
// Usage:
//
//	tagbench [-t n] [-c] [-h]
//
// Every primitive is run for 1..n threads and every record length. Each
// worker tags all records of its arena and then verifies them. A tag
// mismatch terminates the process with exit code 128.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/cpuid/v2"

	"tagbench/internal/bench"
	"tagbench/internal/primitive"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitTagMismatch = 128
	exitInterrupted = 130
)

// Swapped in tests.
var (
	osExit    = os.Exit
	newRunner = bench.NewRunner
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "tagbench: ", 0)

	cfg, err := loadConfig(args, stderr)
	if errors.Is(err, errHelp) || errors.Is(err, errUsage) {
		return exitFailure
	}
	if err != nil {
		logger.Printf("configuration: %v", err)
		return exitFailure
	}
	prims, err := primitive.Resolve(cfg.Primitives)
	if err != nil {
		logger.Printf("configuration: %v", err)
		return exitFailure
	}

	arenas, err := bench.NewArenaSet(cfg.Mode, cfg.MaxThreads, cfg.ArenaSize)
	if err != nil {
		logger.Printf("allocate arenas: %v", err)
		return exitFailure
	}
	defer func() {
		if err := arenas.Close(); err != nil {
			logger.Printf("release arenas: %v", err)
		}
	}()

	if cfg.MetricsAddr != "" {
		srv := bench.ServeMetrics(cfg.MetricsAddr, func(err error) {
			logger.Printf("metrics endpoint: %v", err)
		})
		defer srv.Close()
		logger.Printf("serving metrics on %s/metrics", cfg.MetricsAddr)
	}

	logger.Print(banner(cfg, arenas.Mapped()))
	for _, p := range prims {
		logger.Printf("primitive %s: %s, %d-byte tag", p.Name(), p.Kind(), p.TagSize())
	}

	runner := newRunner(arenas, cfg.Keys)
	runner.OnMismatch = func(err error) {
		logger.Printf("fatal: %v", err)
		osExit(exitTagMismatch)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = runner.Sweep(ctx, prims, cfg.MaxThreads, cfg.RecordLens, bench.NewReporter(stdout, cfg.CSV))
	return exitCode(err, logger)
}

// exitCode maps the outcome of a sweep to the process exit status.
func exitCode(err error, logger *log.Logger) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, bench.ErrTagMismatch):
		logger.Printf("fatal: %v", err)
		return exitTagMismatch
	case errors.Is(err, context.Canceled):
		logger.Print("interrupted")
		return exitInterrupted
	default:
		logger.Printf("%v", err)
		return exitFailure
	}
}

// banner describes the host and the arena layout of this run.
func banner(cfg bench.Config, mapped bool) string {
	cpu := cpuid.CPU
	aes := cpu.Supports(cpuid.AESNI) || cpu.Supports(cpuid.AESARM)
	arenas := cfg.MaxThreads
	if cfg.Mode == bench.ModeShared {
		arenas = 1
	}
	backing := "heap"
	if mapped {
		backing = "mmap"
	}
	brand := cpu.BrandName
	if brand == "" {
		brand = runtime.GOARCH
	}
	return fmt.Sprintf("%s, %d cores / %d threads, aes=%t, GOMAXPROCS=%d; %d x %s arena (%s, %s), %d primitive(s), %d record length(s)",
		brand, cpu.PhysicalCores, cpu.LogicalCores, aes, runtime.GOMAXPROCS(0),
		arenas, humanize.IBytes(uint64(cfg.ArenaSize)), cfg.Mode, backing, len(cfg.Primitives), len(cfg.RecordLens))
}

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

// Package bench is the benchmark engine: it drives a fixed number of worker
// goroutines over large memory arenas, each writing and then verifying
// integrity tags over packed records, and turns the wall time of every
// configuration into a throughput figure.
package bench

import (
	"errors"
	"fmt"
	"strings"

	"tagbench/internal/primitive"
	"tagbench/pkg/arena"
)

var (
	ErrInvalidThreads   = errors.New("thread count must be at least 1")
	ErrTooManyThreads   = errors.New("thread count exceeds allocated arenas")
	ErrInvalidRecordLen = errors.New("record length must be positive")
	ErrRecordTooLarge   = errors.New("record does not fit in arena")
	ErrNoRecordLens     = errors.New("no record lengths configured")
	ErrNoPrimitives     = errors.New("no primitives configured")
	ErrInvalidArenaMode = errors.New("invalid arena mode")
)

// ArenaMode selects how workers map onto arenas.
type ArenaMode int

const (
	// ModeExclusive gives every worker its own arena and walks it record by
	// record.
	ModeExclusive ArenaMode = iota
	// ModeShared points every worker at one arena and at the record at
	// offset 0 for every iteration. Workers race on the same cache lines
	// without synchronization.
	ModeShared
)

func (m ArenaMode) String() string {
	switch m {
	case ModeExclusive:
		return "exclusive"
	case ModeShared:
		return "shared"
	default:
		return fmt.Sprintf("ArenaMode(%d)", int(m))
	}
}

// ParseArenaMode accepts "exclusive" or "shared" (case-insensitive).
func ParseArenaMode(s string) (ArenaMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exclusive":
		return ModeExclusive, nil
	case "shared":
		return ModeShared, nil
	default:
		return 0, fmt.Errorf("%w: %q (want exclusive or shared)", ErrInvalidArenaMode, s)
	}
}

// DefaultRecordLens returns the record-length sweep used when none is
// configured.
func DefaultRecordLens() []int {
	return []int{1, 2, 4, 6, 8, 12, 16, 24, 32, 48, 64, 128, 256, 512, 1024, 2048}
}

// Config is the fully resolved run configuration.
type Config struct {
	MaxThreads  int
	CSV         bool
	ArenaSize   int
	Mode        ArenaMode
	RecordLens  []int
	Primitives  []string
	MetricsAddr string
	Keys        primitive.KeyMaterial
}

// DefaultConfig mirrors the classic benchmark: one thread, 512 MiB
// exclusive arenas, the three reference primitives.
func DefaultConfig() Config {
	return Config{
		MaxThreads: 1,
		ArenaSize:  arena.DefaultSize,
		Mode:       ModeExclusive,
		RecordLens: DefaultRecordLens(),
		Primitives: append([]string(nil), primitive.DefaultNames...),
		Keys:       primitive.DefaultKeyMaterial(),
	}
}

// Validate checks the configuration before any memory is allocated.
func (c Config) Validate() error {
	if c.MaxThreads < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidThreads, c.MaxThreads)
	}
	if c.ArenaSize <= 0 {
		return fmt.Errorf("%w: %d", arena.ErrInvalidSize, c.ArenaSize)
	}
	if c.Mode != ModeExclusive && c.Mode != ModeShared {
		return fmt.Errorf("%w: %d", ErrInvalidArenaMode, int(c.Mode))
	}
	if len(c.RecordLens) == 0 {
		return ErrNoRecordLens
	}
	for _, l := range c.RecordLens {
		if err := checkRecordLen(c.ArenaSize, l); err != nil {
			return err
		}
	}
	if len(c.Primitives) == 0 {
		return ErrNoPrimitives
	}
	if _, err := primitive.Resolve(c.Primitives); err != nil {
		return err
	}
	return nil
}

func checkRecordLen(arenaSize, recordLen int) error {
	if recordLen <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRecordLen, recordLen)
	}
	if Records(arenaSize, recordLen) == 0 {
		return fmt.Errorf("%w: record %d+%d bytes, arena %d bytes", ErrRecordTooLarge, recordLen, primitive.TagSlot, arenaSize)
	}
	return nil
}

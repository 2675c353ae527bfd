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

package bench

import (
	"errors"
	"fmt"

	"tagbench/pkg/arena"
)

// ArenaSet owns the arenas of a benchmark process: one per worker slot in
// ModeExclusive, a single one in ModeShared. It is allocated once and reused
// by every run.
type ArenaSet struct {
	mode    ArenaMode
	size    int
	workers int
	arenas  []*arena.Arena
}

// NewArenaSet allocates arenas of size bytes for up to workers concurrent
// workers.
func NewArenaSet(mode ArenaMode, workers, size int) (*ArenaSet, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidThreads, workers)
	}
	n := workers
	switch mode {
	case ModeExclusive:
	case ModeShared:
		n = 1
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidArenaMode, int(mode))
	}
	s := &ArenaSet{mode: mode, size: size, workers: workers}
	for i := 0; i < n; i++ {
		a, err := arena.New(size)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("arena %d of %d: %w", i+1, n, err)
		}
		s.arenas = append(s.arenas, a)
	}
	return s, nil
}

func (s *ArenaSet) Mode() ArenaMode { return s.mode }

// Size is the size of each arena in bytes.
func (s *ArenaSet) Size() int { return s.size }

// Workers is the maximum number of workers the set was allocated for.
func (s *ArenaSet) Workers() int { return s.workers }

// Mapped reports whether every arena is an OS memory mapping.
func (s *ArenaSet) Mapped() bool {
	for _, a := range s.arenas {
		if !a.Mapped() {
			return false
		}
	}
	return len(s.arenas) > 0
}

// Region returns the memory worker i operates on.
func (s *ArenaSet) Region(i int) []byte {
	if s.mode == ModeShared {
		return s.arenas[0].Bytes()
	}
	return s.arenas[i].Bytes()
}

// Close releases every arena.
func (s *ArenaSet) Close() error {
	var errs []error
	for _, a := range s.arenas {
		if err := a.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.arenas = nil
	return errors.Join(errs...)
}

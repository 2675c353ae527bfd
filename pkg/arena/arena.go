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

// Package arena provides the large, contiguous memory buffers the benchmark
// writes its records into. An Arena is allocated once, pre-faulted where the
// platform allows it, and reused for every benchmark configuration.
package arena

import (
	"errors"
	"fmt"
)

// MiB is the unit used for arena sizes and throughput accounting.
const MiB = 1024 * 1024

// DefaultSize is the arena size used by the benchmark unless configured.
const DefaultSize = 512 * MiB

var (
	ErrInvalidSize = errors.New("arena size must be positive")
	ErrClosed      = errors.New("arena already closed")
)

// Arena is a fixed-size byte buffer. It is not safe to Close concurrently
// with readers of Bytes.
type Arena struct {
	buf    []byte
	mapped bool
	closed bool
}

// New allocates an arena of size bytes.
func New(size int) (*Arena, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	buf, mapped, err := allocate(size)
	if err != nil {
		return nil, fmt.Errorf("allocate arena of %d bytes: %w", size, err)
	}
	return &Arena{buf: buf, mapped: mapped}, nil
}

// Bytes returns the whole buffer. The slice is invalid after Close.
func (a *Arena) Bytes() []byte { return a.buf }

// Len returns the arena size in bytes.
func (a *Arena) Len() int { return len(a.buf) }

// Mapped reports whether the buffer is an OS memory mapping rather than a
// heap slice.
func (a *Arena) Mapped() bool { return a.mapped }

// Close releases the buffer. Calling Close twice returns ErrClosed.
func (a *Arena) Close() error {
	if a.closed {
		return ErrClosed
	}
	a.closed = true
	buf := a.buf
	a.buf = nil
	if a.mapped {
		return release(buf)
	}
	return nil
}

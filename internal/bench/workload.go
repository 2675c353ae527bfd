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
	"bytes"
	"errors"
	"fmt"

	"tagbench/internal/primitive"
)

// ErrTagMismatch means a stored tag no longer matches its payload. The run
// that produced it is invalid.
var ErrTagMismatch = errors.New("tag mismatch")

// MismatchError reports the first record that failed verification.
type MismatchError struct {
	Primitive string
	Offset    int
	RecordLen int
	Stored    []byte
	Computed  []byte
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: tag mismatch at offset %d (record %d bytes): stored %x, computed %x",
		e.Primitive, e.Offset, e.RecordLen, e.Stored, e.Computed)
}

func (e *MismatchError) Unwrap() error { return ErrTagMismatch }

// Records is the number of whole records of recordLen payload bytes plus a
// tag slot that fit in size bytes.
func Records(size, recordLen int) int {
	if recordLen <= 0 || size <= 0 {
		return 0
	}
	return size / (recordLen + primitive.TagSlot)
}

// Workload writes and verifies tags over one region with one tagger.
type Workload struct {
	Primitive string
	Tagger    primitive.Tagger
	TagSize   int
	RecordLen int
	Mode      ArenaMode
}

func (w *Workload) stride() int { return w.RecordLen + primitive.TagSlot }

// offset maps the logical record position onto the region.
func (w *Workload) offset(pos int) int {
	if w.Mode == ModeShared {
		return 0
	}
	return pos
}

// Generate tags every whole record in region and returns how many it
// tagged. The trailing partial record is left alone.
func (w *Workload) Generate(region []byte) int {
	stride, l := w.stride(), w.RecordLen
	n := 0
	for pos := 0; pos+stride <= len(region); pos += stride {
		rec := region[w.offset(pos):][:stride]
		w.Tagger.Tag(rec[l:], rec[:l])
		n++
	}
	return n
}

// Verify recomputes every tag written by Generate and stops at the first
// mismatch.
func (w *Workload) Verify(region []byte) error {
	stride, l := w.stride(), w.RecordLen
	var tag [primitive.TagSlot]byte
	for pos := 0; pos+stride <= len(region); pos += stride {
		off := w.offset(pos)
		rec := region[off:][:stride]
		w.Tagger.Tag(tag[:], rec[:l])
		stored := rec[l : l+w.TagSize]
		if !bytes.Equal(tag[:w.TagSize], stored) {
			return &MismatchError{
				Primitive: w.Primitive,
				Offset:    off,
				RecordLen: l,
				Stored:    append([]byte(nil), stored...),
				Computed:  append([]byte(nil), tag[:w.TagSize]...),
			}
		}
	}
	return nil
}

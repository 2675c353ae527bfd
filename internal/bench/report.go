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
	"fmt"
	"io"
	"time"

	"tagbench/pkg/arena"
)

// Result is the measurement of one configuration.
type Result struct {
	Primitive string
	Threads   int
	RecordLen int
	ArenaSize int
	Records   int64 // records tagged across all workers, one pass
	Elapsed   time.Duration
}

// PayloadBytes counts payload bytes touched by the run: every worker walks
// floor(arena/(L+16)) records of L bytes, once to tag and once to verify.
// Tag bytes are not counted.
func (r Result) PayloadBytes() uint64 {
	perWorker := uint64(Records(r.ArenaSize, r.RecordLen)) * uint64(r.RecordLen)
	return uint64(r.Threads) * perWorker * 2
}

// SizeMB is PayloadBytes in whole MiB.
func (r Result) SizeMB() uint64 { return r.PayloadBytes() / arena.MiB }

// Seconds is the elapsed wall time in seconds.
func (r Result) Seconds() float64 { return r.Elapsed.Seconds() }

// Throughput is MiB of payload per second. A zero-length measurement
// reports 0.
func (r Result) Throughput() float64 {
	secs := r.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(r.PayloadBytes()) / arena.MiB / secs
}

// Reporter emits results as they are produced.
type Reporter interface {
	Header() error
	Report(Result) error
}

// CSVHeader is the first line written by the CSV reporter.
const CSVHeader = "name,threads,record_len,size,seconds,throughput"

// TextReporter writes one human-readable line per result.
type TextReporter struct {
	w io.Writer
}

func NewTextReporter(w io.Writer) *TextReporter { return &TextReporter{w: w} }

func (t *TextReporter) Header() error { return nil }

func (t *TextReporter) Report(r Result) error {
	_, err := fmt.Fprintf(t.w, "%s: %d Threads Record: %d %d MB in %f secs %f MB/s\n",
		r.Primitive, r.Threads, r.RecordLen, r.SizeMB(), r.Seconds(), r.Throughput())
	return err
}

// CSVReporter writes a header once and then one row per result.
type CSVReporter struct {
	w           io.Writer
	wroteHeader bool
}

func NewCSVReporter(w io.Writer) *CSVReporter { return &CSVReporter{w: w} }

func (c *CSVReporter) Header() error {
	if c.wroteHeader {
		return nil
	}
	c.wroteHeader = true
	_, err := fmt.Fprintln(c.w, CSVHeader)
	return err
}

func (c *CSVReporter) Report(r Result) error {
	_, err := fmt.Fprintf(c.w, "%s,%d,%d,%d,%f,%f\n",
		r.Primitive, r.Threads, r.RecordLen, r.SizeMB(), r.Seconds(), r.Throughput())
	return err
}

// NewReporter picks the CSV or text reporter.
func NewReporter(w io.Writer, csv bool) Reporter {
	if csv {
		return NewCSVReporter(w)
	}
	return NewTextReporter(w)
}

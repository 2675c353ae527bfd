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
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"tagbench/internal/primitive"
)

// Phase is the coordinator state of a single run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSpawning
	PhaseBarrierWait
	PhaseRunning
	PhaseJoining
	PhaseDone
)

var phaseNames = [...]string{"idle", "spawning", "barrier-wait", "running", "joining", "done"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// cache line size varies; over-pad to 128 bytes so workers updating their
// own state do not false-share
const statePad = 128 - 8*5

// threadState is the per-worker record for one run.
type threadState struct {
	region    []byte // 3 words
	recordLen int
	records   int
	_         [statePad]byte
}

// Runner executes benchmark configurations against a fixed ArenaSet.
// A Runner executes one configuration at a time.
type Runner struct {
	arenas *ArenaSet
	keys   primitive.KeyMaterial

	// OnMismatch, if set, is called from the worker goroutine that detected
	// a tag mismatch, before that worker returns. The CLI uses it to
	// terminate the process immediately.
	OnMismatch func(error)

	// OnPhase, if set, observes coordinator state transitions.
	OnPhase func(Phase)

	// BetweenPasses, if set, runs in every worker after generation and
	// before verification. It runs inside the timed region.
	BetweenPasses func(worker int, region []byte)

	now func() time.Time
}

// NewRunner creates a Runner over arenas using keys for every tagger.
func NewRunner(arenas *ArenaSet, keys primitive.KeyMaterial) *Runner {
	return &Runner{arenas: arenas, keys: keys, now: time.Now}
}

func (r *Runner) phase(p Phase) {
	if r.OnPhase != nil {
		r.OnPhase(p)
	}
}

// Run executes one configuration: threads workers, each generating and
// verifying tags of p over its region with recordLen-byte payloads. The
// timed section starts when the barrier opens and ends when the last worker
// has been joined. Tagger setup happens before the barrier and is not timed.
//
// ctx is only consulted before the run starts; a run in progress is never
// interrupted.
func (r *Runner) Run(ctx context.Context, p primitive.Primitive, threads, recordLen int) (Result, error) {
	r.phase(PhaseIdle)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if threads < 1 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidThreads, threads)
	}
	if r.arenas.Mode() == ModeExclusive && threads > r.arenas.Workers() {
		return Result{}, fmt.Errorf("%w: %d > %d", ErrTooManyThreads, threads, r.arenas.Workers())
	}
	if err := checkRecordLen(r.arenas.Size(), recordLen); err != nil {
		return Result{}, err
	}

	r.phase(PhaseSpawning)
	barrier := NewBarrier(threads)
	states := make([]threadState, threads)
	var g errgroup.Group
	for i := range states {
		st := &states[i]
		st.region = r.arenas.Region(i)
		st.recordLen = recordLen
		g.Go(func() error { return r.work(i, p, st, barrier) })
	}

	r.phase(PhaseBarrierWait)
	barrier.AwaitArrivals()
	timer := startTimer(r.now)
	barrier.Release()
	r.phase(PhaseRunning)

	r.phase(PhaseJoining)
	err := g.Wait()
	elapsed := timer.Elapsed()
	if err != nil {
		observeFailure(p.Name(), err)
		return Result{}, err
	}
	r.phase(PhaseDone)

	res := Result{
		Primitive: p.Name(),
		Threads:   threads,
		RecordLen: recordLen,
		ArenaSize: r.arenas.Size(),
		Elapsed:   elapsed,
	}
	for i := range states {
		res.Records += int64(states[i].records)
	}
	observeRun(res)
	return res, nil
}

func (r *Runner) work(id int, p primitive.Primitive, st *threadState, barrier *Barrier) error {
	tagger, err := p.NewTagger(r.keys)
	// Arrive even on failure so the coordinator is never left waiting.
	barrier.Wait()
	if err != nil {
		return fmt.Errorf("worker %d: %w", id, err)
	}

	w := Workload{
		Primitive: p.Name(),
		Tagger:    tagger,
		TagSize:   p.TagSize(),
		RecordLen: st.recordLen,
		Mode:      r.arenas.Mode(),
	}
	st.records = w.Generate(st.region)
	if r.BetweenPasses != nil {
		r.BetweenPasses(id, st.region)
	}
	if err := w.Verify(st.region); err != nil {
		if r.OnMismatch != nil {
			r.OnMismatch(err)
		}
		return fmt.Errorf("worker %d: %w", id, err)
	}
	return nil
}

// Sweep runs every primitive for every thread count from 1 to maxThreads
// and every record length, in that nesting order, and hands each result to
// rep. It stops at the first error. Cancellation of ctx is noticed between
// configurations.
func (r *Runner) Sweep(ctx context.Context, prims []primitive.Primitive, maxThreads int, recordLens []int, rep Reporter) error {
	if err := rep.Header(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range prims {
		for t := 1; t <= maxThreads; t++ {
			for _, l := range recordLens {
				res, err := r.Run(ctx, p, t, l)
				if err != nil {
					return err
				}
				if err := rep.Report(res); err != nil {
					return fmt.Errorf("write result: %w", err)
				}
			}
		}
	}
	return nil
}

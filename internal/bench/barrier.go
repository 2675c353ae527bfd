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

import "sync"

// Barrier is a one-shot start gate for n workers plus one coordinator.
// Workers call Wait; the coordinator calls AwaitArrivals and then Release.
// No worker returns from Wait before every worker has arrived and the
// coordinator has released the gate.
type Barrier struct {
	arrivals sync.WaitGroup
	release  chan struct{}
	once     sync.Once
}

// NewBarrier creates a gate for workers worker goroutines.
func NewBarrier(workers int) *Barrier {
	b := &Barrier{release: make(chan struct{})}
	b.arrivals.Add(workers)
	return b
}

// Wait marks the calling worker as arrived and blocks until Release.
// Each worker calls it exactly once.
func (b *Barrier) Wait() {
	b.arrivals.Done()
	<-b.release
}

// AwaitArrivals blocks until every worker is inside Wait.
func (b *Barrier) AwaitArrivals() {
	b.arrivals.Wait()
}

// Release opens the gate. Extra calls are no-ops.
func (b *Barrier) Release() {
	b.once.Do(func() { close(b.release) })
}

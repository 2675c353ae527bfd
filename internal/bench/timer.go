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

import "time"

// Timer measures wall time on the monotonic clock. Only the coordinating
// goroutine reads it.
type Timer struct {
	start time.Time
	now   func() time.Time
}

func startTimer(now func() time.Time) Timer {
	return Timer{start: now(), now: now}
}

// Elapsed returns the time since the timer was started.
func (t Timer) Elapsed() time.Duration { return t.now().Sub(t.start) }

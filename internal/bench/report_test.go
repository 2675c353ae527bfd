package bench

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"tagbench/pkg/arena"
)

func TestResult_Accounting(t *testing.T) {
	t.Run("CountsPayloadOnlyTwice", func(t *testing.T) {
		r := Result{Threads: 1, RecordLen: 16, ArenaSize: arena.MiB, Elapsed: time.Second}
		// 32768 records * 16 payload bytes * 2 passes = 1 MiB
		if got := r.PayloadBytes(); got != arena.MiB {
			t.Errorf("PayloadBytes() = %d, want %d", got, arena.MiB)
		}
		if r.SizeMB() != 1 || r.Throughput() != 1 {
			t.Errorf("SizeMB() = %d, Throughput() = %f, want 1 and 1", r.SizeMB(), r.Throughput())
		}
	})

	t.Run("DefaultArena", func(t *testing.T) {
		r := Result{Threads: 2, RecordLen: 1, ArenaSize: arena.DefaultSize, Elapsed: 2 * time.Second}
		perThread := uint64(arena.DefaultSize/17) * 1
		want := 2 * perThread * 2
		if r.PayloadBytes() != want {
			t.Errorf("PayloadBytes() = %d, want %d", r.PayloadBytes(), want)
		}
		if r.SizeMB() != want/arena.MiB {
			t.Errorf("SizeMB() = %d, want %d", r.SizeMB(), want/arena.MiB)
		}
	})

	t.Run("ScalesWithThreads", func(t *testing.T) {
		for _, l := range DefaultRecordLens() {
			prevMB, prevRate := uint64(0), 0.0
			for threads := 1; threads <= 16; threads++ {
				r := Result{Threads: threads, RecordLen: l, ArenaSize: 64 * arena.MiB, Elapsed: 3 * time.Second}
				if r.SizeMB() < prevMB || r.Throughput() < prevRate {
					t.Fatalf("L=%d T=%d: size %d MB / %f MB/s decreased from %d / %f", l, threads, r.SizeMB(), r.Throughput(), prevMB, prevRate)
				}
				one := Result{Threads: 1, RecordLen: l, ArenaSize: 64 * arena.MiB}
				if r.PayloadBytes() != uint64(threads)*one.PayloadBytes() {
					t.Fatalf("L=%d T=%d: payload bytes not linear in threads", l, threads)
				}
				prevMB, prevRate = r.SizeMB(), r.Throughput()
			}
		}
	})

	t.Run("ZeroElapsed", func(t *testing.T) {
		r := Result{Threads: 1, RecordLen: 8, ArenaSize: arena.MiB}
		if r.Throughput() != 0 {
			t.Errorf("Throughput() = %f, want 0", r.Throughput())
		}
	})
}

func TestTextReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf, false)
	if err := rep.Header(); err != nil {
		t.Fatalf("Header() error = %v", err)
	}
	res := Result{Primitive: "siphash", Threads: 2, RecordLen: 16, ArenaSize: 4 * arena.MiB, Elapsed: 500 * time.Millisecond}
	if err := rep.Report(res); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	want := "siphash: 2 Threads Record: 16 8 MB in 0.500000 secs 16.000000 MB/s\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestCSVReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf, true)
	_ = rep.Header()
	_ = rep.Header()
	_ = rep.Report(Result{Primitive: "aesgcm", Threads: 1, RecordLen: 16, ArenaSize: arena.MiB, Elapsed: 250 * time.Millisecond})
	_ = rep.Report(Result{Primitive: "aesgcm", Threads: 4, RecordLen: 16, ArenaSize: arena.MiB, Elapsed: time.Second})

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{
		CSVHeader,
		"aesgcm,1,16,1,0.250000,4.000000",
		"aesgcm,4,16,4,1.000000,4.000000",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(lines), lines, len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

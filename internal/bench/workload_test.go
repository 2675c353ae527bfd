package bench

import (
	"errors"
	"testing"

	"tagbench/internal/primitive"
	"tagbench/pkg/arena"
)

func newWorkload(t *testing.T, name string, recordLen int, mode ArenaMode) *Workload {
	t.Helper()
	p, err := primitive.Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q) error = %v", name, err)
	}
	tg, err := p.NewTagger(primitive.DefaultKeyMaterial())
	if err != nil {
		t.Fatalf("NewTagger() error = %v", err)
	}
	return &Workload{Primitive: p.Name(), Tagger: tg, TagSize: p.TagSize(), RecordLen: recordLen, Mode: mode}
}

func TestRecords(t *testing.T) {
	testCases := []struct {
		size, recordLen, want int
	}{
		{arena.MiB, 16, arena.MiB / 32},
		{100, 1, 5}, // 17-byte stride, 15 trailing bytes
		{32, 16, 1}, // exact fit
		{31, 16, 0}, // no whole record
		{100, 0, 0}, // invalid length
		{0, 8, 0},   // empty region
		{1000, 84, 10},
	}
	for _, tc := range testCases {
		if got := Records(tc.size, tc.recordLen); got != tc.want {
			t.Errorf("Records(%d, %d) = %d, want %d", tc.size, tc.recordLen, got, tc.want)
		}
	}
}

func TestWorkload_RoundTrip(t *testing.T) {
	region := make([]byte, 64*1024)
	for _, name := range primitive.Names() {
		for _, l := range DefaultRecordLens() {
			w := newWorkload(t, name, l, ModeExclusive)
			clear(region)
			n := w.Generate(region)
			if want := Records(len(region), l); n != want {
				t.Fatalf("%s/L=%d: Generate() = %d records, want %d", name, l, n, want)
			}
			if err := w.Verify(region); err != nil {
				t.Fatalf("%s/L=%d: Verify() error = %v", name, l, err)
			}
		}
	}
}

func TestWorkload_GenerateIsIdempotent(t *testing.T) {
	region := make([]byte, 8*1024)
	for _, name := range primitive.Names() {
		w := newWorkload(t, name, 24, ModeExclusive)
		clear(region)
		w.Generate(region)
		first := append([]byte(nil), region...)
		w.Generate(region)
		if string(first) != string(region) {
			t.Fatalf("%s: second Generate() changed the arena", name)
		}
		if err := w.Verify(region); err != nil {
			t.Fatalf("%s: Verify() after regenerate error = %v", name, err)
		}
	}
}

func TestWorkload_SkipsTrailingPartialRecord(t *testing.T) {
	const l = 5 // stride 21
	size := 10*(l+primitive.TagSlot) + 13
	region := make([]byte, size+64)
	for i := range region {
		region[i] = 0xA5
	}
	w := newWorkload(t, "aesgcm", l, ModeExclusive)

	if n := w.Generate(region[:size]); n != 10 {
		t.Fatalf("Generate() = %d records, want 10", n)
	}
	if err := w.Verify(region[:size]); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	for i := 10 * (l + primitive.TagSlot); i < len(region); i++ {
		if region[i] != 0xA5 {
			t.Fatalf("byte %d past the last whole record was written", i)
		}
	}
}

func TestWorkload_DetectsCorruption(t *testing.T) {
	t.Run("Tag", func(t *testing.T) {
		region := make([]byte, 4096)
		w := newWorkload(t, "siphash", 16, ModeExclusive)
		w.Generate(region)
		// third record's tag
		off := 2 * 32
		region[off+16] ^= 0x01

		err := w.Verify(region)
		if !errors.Is(err, ErrTagMismatch) {
			t.Fatalf("Verify() error = %v, want ErrTagMismatch", err)
		}
		var me *MismatchError
		if !errors.As(err, &me) {
			t.Fatalf("Verify() error %T is not *MismatchError", err)
		}
		if me.Offset != off || me.RecordLen != 16 || me.Primitive != "siphash" {
			t.Errorf("MismatchError = %+v, want offset %d", me, off)
		}
		if len(me.Stored) != 8 || len(me.Computed) != 8 {
			t.Errorf("compared %d/%d bytes, want siphash's 8", len(me.Stored), len(me.Computed))
		}
	})

	t.Run("Payload", func(t *testing.T) {
		region := make([]byte, 4096)
		w := newWorkload(t, "highwayhash", 48, ModeExclusive)
		w.Generate(region)
		region[64+3] ^= 0x80 // payload of the second record
		if err := w.Verify(region); !errors.Is(err, ErrTagMismatch) {
			t.Fatalf("Verify() error = %v, want ErrTagMismatch", err)
		}
	})

	t.Run("UnusedSlotBytesIgnored", func(t *testing.T) {
		region := make([]byte, 4096)
		w := newWorkload(t, "siphash", 16, ModeExclusive)
		w.Generate(region)
		region[16+12] ^= 0xFF // past siphash's 8 tag bytes
		if err := w.Verify(region); err != nil {
			t.Fatalf("Verify() error = %v, want nil", err)
		}
	})
}

func TestWorkload_SharedModeUsesHotRecord(t *testing.T) {
	region := make([]byte, 4096)
	w := newWorkload(t, "blake3", 8, ModeShared)

	n := w.Generate(region)
	if want := Records(len(region), 8); n != want {
		t.Fatalf("Generate() = %d, want %d iterations", n, want)
	}
	if err := w.Verify(region); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	for i := 8 + primitive.TagSlot; i < len(region); i++ {
		if region[i] != 0 {
			t.Fatalf("shared mode wrote byte %d outside the hot record", i)
		}
	}
}

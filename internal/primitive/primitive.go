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

// Package primitive wraps the integrity primitives the benchmark measures
// behind one small contract: a Tagger computes a short tag over a payload
// and writes it into a caller-provided slot. The primitives themselves come
// from their upstream libraries; this package only adapts key material and
// output placement.
package primitive

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// TagSlot is the number of bytes reserved after every record payload.
// A primitive writes TagSize() <= TagSlot bytes into it.
const TagSlot = 16

// Kind classifies a primitive for reporting.
type Kind int

const (
	KindTreeHash Kind = iota
	KindKeyedHash
	KindAEAD
)

func (k Kind) String() string {
	switch k {
	case KindTreeHash:
		return "tree-hash"
	case KindKeyedHash:
		return "keyed-hash"
	case KindAEAD:
		return "aead"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrUnknownPrimitive is returned by Lookup for names not in the registry.
var ErrUnknownPrimitive = errors.New("unknown primitive")

// Tagger computes integrity tags. Tag must be deterministic for a given key
// and payload, must not allocate, and writes exactly TagSize bytes to the
// front of dst, which must be at least TagSlot bytes long. A Tagger is owned
// by a single goroutine.
type Tagger interface {
	Tag(dst, payload []byte)
}

// Primitive describes one benchmarkable integrity primitive.
type Primitive struct {
	name      string
	kind      Kind
	tagSize   int
	newTagger func(KeyMaterial) (Tagger, error)
}

func (p Primitive) Name() string { return p.name }
func (p Primitive) Kind() Kind   { return p.kind }

// TagSize is the number of meaningful tag bytes; the rest of the slot is
// left untouched.
func (p Primitive) TagSize() int { return p.tagSize }

// NewTagger prepares per-goroutine state (key schedules, hash states).
// Callers do this outside any timed region.
func (p Primitive) NewTagger(km KeyMaterial) (Tagger, error) {
	t, err := p.newTagger(km)
	if err != nil {
		return nil, fmt.Errorf("%s: prepare tagger: %w", p.name, err)
	}
	return t, nil
}

// New describes a primitive. The registry is built with it; callers may use
// it for primitives outside the registry. newTagger is called once per
// worker before the timed region.
func New(name string, kind Kind, tagSize int, newTagger func(KeyMaterial) (Tagger, error)) (Primitive, error) {
	if name == "" || newTagger == nil {
		return Primitive{}, errors.New("primitive needs a name and a tagger constructor")
	}
	if tagSize <= 0 || tagSize > TagSlot {
		return Primitive{}, fmt.Errorf("%s: tag size %d outside 1..%d", name, tagSize, TagSlot)
	}
	return Primitive{name: name, kind: kind, tagSize: tagSize, newTagger: newTagger}, nil
}

var registry = func() map[string]Primitive {
	m := make(map[string]Primitive)
	for _, d := range []struct {
		name      string
		kind      Kind
		tagSize   int
		newTagger func(KeyMaterial) (Tagger, error)
	}{
		{"highwayhash", KindTreeHash, 8, newHighwayTagger},
		{"siphash", KindKeyedHash, 8, newSipTagger},
		{"aesgcm", KindAEAD, 16, newAESGCMTagger},
		{"chacha20poly1305", KindAEAD, 16, newChaChaTagger},
		{"blake2b", KindKeyedHash, 16, newBlake2bTagger},
		{"blake3", KindKeyedHash, 16, newBlake3Tagger},
	} {
		p, err := New(d.name, d.kind, d.tagSize, d.newTagger)
		if err != nil {
			panic(err)
		}
		m[d.name] = p
	}
	return m
}()

// DefaultNames is the sweep order used when no primitives are configured.
var DefaultNames = []string{"highwayhash", "siphash", "aesgcm"}

// Lookup returns the registered primitive with the given name
// (case-insensitive).
func Lookup(name string) (Primitive, error) {
	p, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Primitive{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownPrimitive, name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Resolve looks up every name in order. Duplicates are kept; the caller
// asked for them.
func Resolve(names []string) ([]Primitive, error) {
	out := make([]Primitive, 0, len(names))
	for _, n := range names {
		p, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Names lists all registered primitives, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

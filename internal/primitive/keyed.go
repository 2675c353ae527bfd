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

package primitive

import (
	"hash"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// blake2bTagger is keyed BLAKE2b with a 128-bit output.
type blake2bTagger struct {
	h hash.Hash
}

func newBlake2bTagger(km KeyMaterial) (Tagger, error) {
	h, err := blake2b.New(TagSlot, km.Key[:])
	if err != nil {
		return nil, err
	}
	return &blake2bTagger{h: h}, nil
}

func (b *blake2bTagger) Tag(dst, payload []byte) {
	b.h.Reset()
	b.h.Write(payload)
	b.h.Sum(dst[:0:TagSlot])
}

// blake3Tagger is keyed BLAKE3 truncated to 128 bits.
type blake3Tagger struct {
	h   *blake3.Hasher
	out [32]byte
}

func newBlake3Tagger(km KeyMaterial) (Tagger, error) {
	h, err := blake3.NewKeyed(km.Key[:])
	if err != nil {
		return nil, err
	}
	return &blake3Tagger{h: h}, nil
}

func (b *blake3Tagger) Tag(dst, payload []byte) {
	b.h.Reset()
	b.h.Write(payload)
	b.h.Sum(b.out[:0])
	copy(dst[:TagSlot], b.out[:TagSlot])
}

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
	"encoding/binary"

	"github.com/dchest/siphash"
	"github.com/minio/highwayhash"
)

// highwayTagger computes HighwayHash-64 with a 256-bit key.
type highwayTagger struct {
	key []byte
}

func newHighwayTagger(km KeyMaterial) (Tagger, error) {
	key := make([]byte, len(km.Key))
	copy(key, km.Key[:])
	// New64 validates the key length; Sum64 would panic instead.
	if _, err := highwayhash.New64(key); err != nil {
		return nil, err
	}
	return &highwayTagger{key: key}, nil
}

func (h *highwayTagger) Tag(dst, payload []byte) {
	binary.LittleEndian.PutUint64(dst[:8], highwayhash.Sum64(payload, h.key))
}

// sipTagger computes SipHash-2-4 with the first 128 key bits.
type sipTagger struct {
	k0, k1 uint64
}

func newSipTagger(km KeyMaterial) (Tagger, error) {
	return &sipTagger{
		k0: binary.LittleEndian.Uint64(km.Key[0:8]),
		k1: binary.LittleEndian.Uint64(km.Key[8:16]),
	}, nil
}

func (s *sipTagger) Tag(dst, payload []byte) {
	binary.LittleEndian.PutUint64(dst[:8], siphash.Hash(s.k0, s.k1, payload))
}

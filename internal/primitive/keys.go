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

// Benchmark constants. They are arbitrary, public and fixed so runs are
// comparable across machines.
const (
	benchKey   = "DEADBEEFCAFEBABEDEADBABECAFEBEEFDEADBEEFCAFEBABEDEADBABECAFEBEEF"
	benchNonce = "DEADBEEFDEADBEEFDEADBEEFDEADBEEF"
)

// KeyMaterial is the key and nonce shared by every worker. Each primitive
// takes the prefix it needs: HighwayHash, ChaCha20-Poly1305, BLAKE2b and
// BLAKE3 use all 32 key bytes, SipHash the first 16, AES-128-GCM the first 16.
type KeyMaterial struct {
	Key   [32]byte
	Nonce [12]byte
}

// DefaultKeyMaterial returns the fixed benchmark key and nonce.
func DefaultKeyMaterial() KeyMaterial {
	var km KeyMaterial
	copy(km.Key[:], benchKey)
	copy(km.Nonce[:], benchNonce)
	return km
}

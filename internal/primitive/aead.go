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
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"
)

// aeadTagger authenticates the payload as additional data with an empty
// plaintext, so Seal produces only the 16-byte tag and never rewrites the
// payload. For AES-GCM this is GMAC.
type aeadTagger struct {
	aead  cipher.AEAD
	nonce []byte
}

func newAESGCMTagger(km KeyMaterial) (Tagger, error) {
	block, err := aes.NewCipher(km.Key[:16])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return newAEADTagger(gcm, km.Nonce[:gcm.NonceSize()]), nil
}

func newChaChaTagger(km KeyMaterial) (Tagger, error) {
	aead, err := chacha20poly1305.New(km.Key[:])
	if err != nil {
		return nil, err
	}
	return newAEADTagger(aead, km.Nonce[:aead.NonceSize()]), nil
}

func newAEADTagger(aead cipher.AEAD, nonce []byte) *aeadTagger {
	n := make([]byte, len(nonce))
	copy(n, nonce)
	return &aeadTagger{aead: aead, nonce: n}
}

func (a *aeadTagger) Tag(dst, payload []byte) {
	// dst has room for the whole tag, so Seal writes in place.
	a.aead.Seal(dst[:0:TagSlot], a.nonce, nil, payload)
}

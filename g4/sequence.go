// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package g4 implements the core of a G-quadruplex (G4) discovery engine:
// candidate enumeration, window scheduling, and consolidation over DNA/RNA
// byte sequences.
package g4

import (
	"bytes"

	farm "github.com/dgryski/go-farm"
)

// SequenceBuffer is an immutable, lowercase-normalized byte buffer
// representing one chromosome or one inline sequence. It carries no
// chromosome identity; that's the caller's concern. Many scanners may hold
// the same *SequenceBuffer concurrently -- it is never mutated after
// construction, so no synchronization is needed for readers.
type SequenceBuffer struct {
	data []byte
}

// NewSequenceBuffer builds a SequenceBuffer from raw bytes, normalizing case
// in place on a private copy. Non-alphabetic bytes are passed through
// untouched; fastaio does not remove them either, so they stay in the
// buffer.
func NewSequenceBuffer(raw []byte) *SequenceBuffer {
	data := make([]byte, len(raw))
	copy(data, raw)
	lowercaseASCIIInplace(data)
	return &SequenceBuffer{data: data}
}

// lowercaseASCIIInplace lowercases 'A'-'Z' bytes in place, leaving everything
// else (including bytes already lowercase, digits, and ambiguity codes)
// untouched.
func lowercaseASCIIInplace(b []byte) {
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
}

// Len returns the number of bytes in the buffer.
func (b *SequenceBuffer) Len() int {
	return len(b.data)
}

// At returns the byte at index i.
func (b *SequenceBuffer) At(i int) byte {
	return b.data[i]
}

// Bytes returns the full underlying byte slice. Callers must not mutate it.
func (b *SequenceBuffer) Bytes() []byte {
	return b.data
}

// Slice returns the sub-slice [start, start+length). Callers must not
// mutate it.
func (b *SequenceBuffer) Slice(start, length int) []byte {
	return b.data[start : start+length]
}

// SequenceSlice identifies a (buffer, start, length) region of a
// SequenceBuffer. Equality and hashing are defined over the byte contents of
// the slice, not the identity of the buffer, so that two hits with identical
// coordinates and bytes -- produced by two different SequenceBuffers, e.g.
// two windows of a streaming scan -- collide correctly in a dedup map. See
// Consolidator.
type SequenceSlice struct {
	Buf    *SequenceBuffer
	Start  int
	Length int
}

// Bytes returns the referenced bytes.
func (s SequenceSlice) Bytes() []byte {
	return s.Buf.Slice(s.Start, s.Length)
}

// contentKey is the comparable, content-hashed form of a SequenceSlice used
// as (part of) a dedup map key. It embeds a 64-bit content hash (computed
// with farmhash, the same hash family fusion/kmer_index.go uses for its
// kmer -> genelist map) alongside the raw byte string so that hash
// collisions never cause incorrect dedup merges -- the string comparison
// inside the map is still exact.
type contentKey struct {
	hash uint64
	body string
}

func newContentKey(b []byte) contentKey {
	return contentKey{hash: farm.Hash64(b), body: string(b)}
}

// equalBytes reports whether a and b hold identical byte content. Used only
// in tests and assertions; dedup itself relies on Go's built-in string
// equality via contentKey.
func equalBytes(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package g4

import "bytes"

// Run identifies one maximal run of 'g' bytes: [Start, Start+Length).
type Run struct {
	Start  int
	Length int
}

// GRunScanner enumerates (run_start, run_length) pairs for every maximal run
// of 'g' bytes of length >= minLen within a byte slice.
//
// Because SequenceBuffer is normalized to lowercase ASCII on construction
// (see NewSequenceBuffer), the only byte this scanner ever looks for is
// 'g' -- a classic "memchr" search, not "memchr2". We use the standard
// library's bytes.IndexByte as the vectorized search primitive: on amd64 and
// arm64 the Go runtime implements it with hand-written SIMD assembly (see
// runtime/asm_*.s). grailbio/base/simd does not expose a byte-position
// search (its public surface is limited to fixed-position primitives and
// Count2Bytes/Count3Bytes occurrence counts, per the retrieved base/simd
// test corpus), so there is no pack primitive to prefer here; see
// DESIGN.md.
type GRunScanner struct {
	data      []byte
	minLen    int
	pos       int
	windowEnd int
}

// NewGRunScanner creates a scanner over all of data, restartable from an
// arbitrary offset via Reset. Reset's windowEnd bounds the search so that
// window scheduling (§4.4/§4.5) can restrict a scan to a window without
// copying a sub-slice.
func NewGRunScanner(data []byte, minLen int) *GRunScanner {
	s := &GRunScanner{data: data, minLen: minLen}
	s.Reset(0, len(data))
	return s
}

// Reset restarts the scanner at byte offset start, bounding the search to
// data[:windowEnd). Used by window scheduling to resume a scan of the same
// underlying buffer from an arbitrary offset without re-walking earlier
// bytes.
func (s *GRunScanner) Reset(start, windowEnd int) {
	s.pos = start
	s.windowEnd = windowEnd
}

// Next returns the next maximal g-run of length >= minLen whose start lies
// at or after the scanner's current position, in ascending run_start order.
// It walks the slice exactly once (amortized across calls) and never
// materializes a copy. The second return value is false once no further
// qualifying run exists before windowEnd.
func (s *GRunScanner) Next() (Run, bool) {
	for s.pos < s.windowEnd {
		rel := bytes.IndexByte(s.data[s.pos:s.windowEnd], 'g')
		if rel < 0 {
			s.pos = s.windowEnd
			return Run{}, false
		}
		start := s.pos + rel
		end := start
		for end < s.windowEnd && s.data[end] == 'g' {
			end++
		}
		s.pos = end
		if length := end - start; length >= s.minLen {
			return Run{Start: start, Length: length}, true
		}
		// Run too short; keep scanning from the byte after it.
	}
	return Run{}, false
}

// Runs drains the scanner into a slice, for callers (mainly tests and the
// CandidateEngine's seed stage) that want the whole ordered list of runs
// starting at or after start and lying within data[:windowEnd).
func Runs(data []byte, start, windowEnd, minLen int) []Run {
	s := NewGRunScanner(data, minLen)
	s.Reset(start, windowEnd)
	var out []Run
	for {
		r, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, r)
	}
	return out
}

// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package g4

// ChromosomeResult is delivered to a StreamScheduler's callback once per
// completed chromosome (§6's callback contract).
type ChromosomeResult struct {
	ChromosomeName string
	FinalHits      []FinalHit
	RawHits        []RawHit // optional; nil unless the scheduler was built with KeepRawHits
	FamilyRanges   []FamilyRange
}

// streamState is the per-chromosome state machine of §4.5: Idle ->
// Buffering -> (repeatedly) Buffering -> Finalizing.
type streamState int

const (
	streamIdle streamState = iota
	streamBuffering
)

// StreamScheduler is the streaming variant of ChunkScheduler: the same
// window contract (§4.4), but driven by a byte source that delivers input
// incrementally, one chromosome at a time. Workers never subdivide their
// given window further, and hit Start coordinates are always expressed in
// chromosome-global terms (§4.5).
type StreamScheduler struct {
	limits       ScanLimits
	keepRawHits  bool
	chunkSpan    int
	overlap      int
	state        streamState
	buf          []byte
	bufStart     int // chromosome-global offset of buf[0]
	chromName    string
	rawHits      []RawHit
}

// NewStreamScheduler validates limits and returns a StreamScheduler. When
// keepRawHits is true, ChromosomeResult.RawHits is populated in addition to
// FinalHits (useful for debugging and for §8's cross-window tests).
func NewStreamScheduler(limits ScanLimits, keepRawHits bool) (*StreamScheduler, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	return &StreamScheduler{
		limits:      limits,
		keepRawHits: keepRawHits,
		chunkSpan:   chunkSpanFor(limits),
		overlap:     limits.MaxG4Length,
		state:       streamIdle,
	}, nil
}

// StartChromosome begins (or restarts, if a previous chromosome was not
// finalized) accumulation for a newly named chromosome.
func (s *StreamScheduler) StartChromosome(name string) {
	s.chromName = name
	s.buf = s.buf[:0]
	s.bufStart = 0
	s.rawHits = nil
	s.state = streamIdle
}

// Push ingests the next chunk of bytes for the current chromosome. The
// external FASTA reader (fastaio.Stream) skips header lines and pushes each
// sequence line as read; it neither lowercases nor removes non-alphabetic
// bytes. Push itself only buffers: dispatchWindow lowercases each window via
// NewSequenceBuffer, and non-alphabetic bytes stay in the sequence. It
// dispatches any window that becomes complete as a result of this push.
func (s *StreamScheduler) Push(data []byte) {
	if len(data) == 0 {
		return
	}
	s.state = streamBuffering
	s.buf = append(s.buf, data...)

	threshold := s.chunkSpan + s.overlap
	for len(s.buf) >= threshold {
		s.dispatchWindow(s.chunkSpan, threshold)
		// The overlap region (buf[chunkSpan:threshold]) stays buffered as
		// the next window's prefix; only the primary region is consumed.
		s.bufStart += s.chunkSpan
		s.buf = append(s.buf[:0], s.buf[s.chunkSpan:]...)
	}
}

// dispatchWindow runs the CandidateEngine over buf[0:dispatchLen), with a
// primary region of buf[0:primaryLen), and records the resulting raw hits
// translated into chromosome-global coordinates. Per §4.5, a worker never
// subdivides this window further.
func (s *StreamScheduler) dispatchWindow(primaryLen, dispatchLen int) {
	if dispatchLen > len(s.buf) {
		dispatchLen = len(s.buf)
	}
	if primaryLen > dispatchLen {
		primaryLen = dispatchLen
	}
	windowBuf := NewSequenceBuffer(s.buf[:dispatchLen])
	engine := NewCandidateEngine(windowBuf, s.limits)
	hits := engine.Scan(0, primaryLen, dispatchLen)
	for i := range hits {
		hits[i].Start += s.bufStart
	}
	s.rawHits = append(s.rawHits, hits...)
}

// FinishChromosome finalizes the current chromosome per §4.5's Finalizing
// state: dispatch whatever remains in the buffer as a last window (primary
// = everything buffered, tail empty), consolidate, and return the result.
// The StreamScheduler is left ready for StartChromosome to be called again.
func (s *StreamScheduler) FinishChromosome() ChromosomeResult {
	if len(s.buf) > 0 {
		s.dispatchWindow(len(s.buf), len(s.buf))
	}
	final, families := NewConsolidator().ConsolidateDetailed(s.rawHits)
	ranges := make([]FamilyRange, len(families))
	for i, f := range families {
		ranges[i] = f.Range()
	}
	result := ChromosomeResult{
		ChromosomeName: s.chromName,
		FinalHits:      final,
		FamilyRanges:   ranges,
	}
	if s.keepRawHits {
		result.RawHits = s.rawHits
	}
	s.buf = nil
	s.bufStart = 0
	s.rawHits = nil
	s.state = streamIdle
	return result
}

// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package g4

import (
	"runtime"

	"github.com/grailbio/base/traverse"
)

// safetyPadding is added to MaxG4Length before clamping to compute
// chunk_span (§4.4). It gives the primary region a little slack over the
// largest possible candidate so that typical inputs produce more than one
// window per chromosome even at small MaxG4Length values; the exact value
// is not specified upstream, so we pick a small constant and document it
// here rather than in code comments scattered across call sites.
const safetyPadding = 4

const (
	minChunkSpan = 32
	maxChunkSpan = 64
)

// Window is one unit of work dispatched to a CandidateEngine: a primary
// region ([Start, PrimaryEnd)) where seeds may begin, and a non-seeding
// overlap tail ([PrimaryEnd, End)) that exists solely so hits seeded in the
// primary region can extend without truncation. Modeled on
// encoding/bam.Shard's start/end-plus-validate shape.
type Window struct {
	Start      int
	PrimaryEnd int
	End        int
}

// ValidateWindowList panics if ws is not strictly increasing and
// non-overlapping in its primary regions, mirroring
// encoding/bam.ValidateShardList. It is used in tests; the scheduler does
// not call it in the hot path because its window construction is total by
// inspection.
func ValidateWindowList(ws []Window) {
	for i, w := range ws {
		if w.Start >= w.PrimaryEnd {
			panic("g4: inverted window")
		}
		if i > 0 && w.Start != ws[i-1].PrimaryEnd {
			panic("g4: window list is not contiguous")
		}
	}
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// chunkSpanFor returns chunk_span per §4.4's policy.
func chunkSpanFor(limits ScanLimits) int {
	return clamp(limits.MaxG4Length+safetyPadding, minChunkSpan, maxChunkSpan)
}

// Windows computes the window list for a sequence of length l, per §4.4.
func Windows(l int, limits ScanLimits) []Window {
	chunkSpan := chunkSpanFor(limits)
	overlap := limits.MaxG4Length
	var ws []Window
	for i := 0; i*chunkSpan < l; i++ {
		start := i * chunkSpan
		primaryEnd := minInt((i+1)*chunkSpan, l)
		end := minInt((i+1)*chunkSpan+overlap, l)
		ws = append(ws, Window{Start: start, PrimaryEnd: primaryEnd, End: end})
	}
	return ws
}

// ChunkScheduler splits a whole sequence into overlapping windows and fans
// them out across a fixed-size worker pool (§4.4). Worker count is fixed at
// construction time; it is never derived from the environment, to preserve
// reproducibility (§5).
type ChunkScheduler struct {
	limits      ScanLimits
	parallelism int
}

// NewChunkScheduler validates limits and returns a scheduler that will use
// parallelism workers (runtime.NumCPU() if parallelism <= 0).
func NewChunkScheduler(limits ScanLimits, parallelism int) (*ChunkScheduler, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	return &ChunkScheduler{limits: limits, parallelism: parallelism}, nil
}

// ScanRaw runs every window of buf across the worker pool and concatenates
// their raw hits in window order (§4.4). Short sequences take the fast
// path of a single direct CandidateEngine call, bypassing traverse.Each
// entirely.
func (s *ChunkScheduler) ScanRaw(buf *SequenceBuffer) []RawHit {
	l := buf.Len()
	chunkSpan := chunkSpanFor(s.limits)
	overlap := s.limits.MaxG4Length
	if l <= chunkSpan+overlap {
		if l == 0 {
			return nil
		}
		engine := NewCandidateEngine(buf, s.limits)
		return engine.Scan(0, l, l)
	}

	windows := Windows(l, s.limits)
	nJobs := s.parallelism
	if nJobs > len(windows) {
		nJobs = len(windows)
	}
	perWindow := make([][]RawHit, len(windows))
	// Pre-shard the window list into nJobs contiguous groups and hand one
	// group to each traverse.Each worker, the same shape
	// pileup/snp/pileup.go uses to divide opts.shards across parallelism
	// jobs.
	_ = traverse.Each(nJobs, func(jobIdx int) error {
		startIdx := (jobIdx * len(windows)) / nJobs
		endIdx := ((jobIdx + 1) * len(windows)) / nJobs
		engine := NewCandidateEngine(buf, s.limits)
		for i := startIdx; i < endIdx; i++ {
			w := windows[i]
			perWindow[i] = engine.Scan(w.Start, w.PrimaryEnd, w.End)
		}
		return nil
	})

	var total int
	for _, h := range perWindow {
		total += len(h)
	}
	out := make([]RawHit, 0, total)
	for _, h := range perWindow {
		out = append(out, h...)
	}
	return out
}

// Scan runs ScanRaw followed by Consolidator.Consolidate, producing the
// deterministic final-hit list for the whole sequence (§8 P1/P2).
func (s *ChunkScheduler) Scan(buf *SequenceBuffer) []FinalHit {
	return NewConsolidator().Consolidate(s.ScanRaw(buf))
}

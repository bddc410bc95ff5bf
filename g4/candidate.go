// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package g4

// unset marks a loop length that has not yet been assigned by the BFS.
const unset = -1

// RawCandidate is internal BFS state for one partially- or fully-assigned
// G4 candidate.
type RawCandidate struct {
	T          int // tetrad width
	S          int // 0-based start within the buffer
	Y1, Y2, Y3 int // loop lengths, unset until assigned
}

func (c RawCandidate) complete() bool { return c.Y3 != unset }

// partialLength returns the span, in bytes, of the prefix of c that has
// already been fixed: one tetrad per assigned loop boundary, plus the
// assigned loops themselves.
func (c RawCandidate) partialLength() int {
	n := c.T
	if c.Y1 != unset {
		n += c.Y1 + c.T
	}
	if c.Y2 != unset {
		n += c.Y2 + c.T
	}
	return n
}

// cursor returns the buffer position at which the next unset loop's
// replacement tetrad must begin searching, per §4.3.2.
func (c RawCandidate) cursor() int {
	return c.S + c.partialLength()
}

// minLoop implements §4.3.3 rule 1: a loop must be >= 1 if any
// already-assigned loop is exactly 0, else it may be 0. This asymmetry --
// y3 may be the first zero-length loop even when y1 or y2 is nonzero -- is
// inherited from the legacy reference and is deliberately not "fixed" (see
// spec §9 Open Question).
func (c RawCandidate) minLoop() int {
	if (c.Y1 != unset && c.Y1 == 0) || (c.Y2 != unset && c.Y2 == 0) {
		return 1
	}
	return 0
}

// withLoop returns a copy of c with the next unset loop set to y.
func (c RawCandidate) withLoop(y int) RawCandidate {
	switch {
	case c.Y1 == unset:
		c.Y1 = y
	case c.Y2 == unset:
		c.Y2 = y
	default:
		c.Y3 = y
	}
	return c
}

// length returns 4t + y1 + y2 + y3 for a complete candidate.
func (c RawCandidate) length() int {
	return 4*c.T + c.Y1 + c.Y2 + c.Y3
}

// RawHit is a complete candidate that passed the score threshold.
type RawHit struct {
	Start         int
	Length        int
	Tetrads       int
	Y1, Y2, Y3    int
	GScore        int
	SequenceSlice SequenceSlice
}

// score computes gscore per §4.3.4 / P6, performed entirely in integer
// arithmetic (scaled by 3) so the floor is bit-exact against the legacy
// reference -- see spec §9's second Open Question. gmax*(t-1) is an
// integer; gavg's only fractional contribution is sumAbs/3, so
//
//	floor(gmax*(t-1) - sumAbs/3) = gmax*(t-1) - ceilDiv3(sumAbs)
//
// where ceilDiv3(n) = (n+2)/3 using truncating integer division (n >= 0).
func score(t, y1, y2, y3, maxG4Length int) int {
	gmax := maxG4Length - (4*t + 1)
	sumAbs := absInt(y1-y2) + absInt(y2-y3) + absInt(y1-y3)
	x := gmax * (t - 1)
	return x - (sumAbs+2)/3
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// viable reports whether a complete candidate passes §4.3.4: length within
// budget and gscore at or above the configured floor.
func viable(c RawCandidate, limits ScanLimits) (gscore int, ok bool) {
	length := c.length()
	if length > limits.MaxG4Length {
		return 0, false
	}
	gscore = score(c.T, c.Y1, c.Y2, c.Y3, limits.MaxG4Length)
	return gscore, gscore >= limits.MinScore
}

// consecutiveG returns the number of consecutive 'g' bytes starting at pos,
// never reading past limit.
func consecutiveG(buf *SequenceBuffer, pos, limit int) int {
	n := 0
	for pos+n < limit && buf.At(pos+n) == 'g' {
		n++
	}
	return n
}

// findLoopLengths implements §4.3.3: every y such that (1) the
// non-degeneracy rule is satisfied, (2) the partial span stays within
// budget, and (3) at least t consecutive G bytes begin at cursor+y. Returned
// in ascending order; an empty result is a valid dead branch.
func findLoopLengths(cursor int, c RawCandidate, limits ScanLimits, buf *SequenceBuffer, windowEnd int) []int {
	minY := c.minLoop()
	maxY := limits.MaxG4Length - c.partialLength() - c.T
	if maxY < minY {
		return nil
	}
	limit := buf.Len()
	if windowEnd < limit {
		limit = windowEnd
	}
	var ys []int
	for y := minY; y <= maxY; y++ {
		pos := cursor + y
		if pos+c.T > limit {
			break
		}
		if consecutiveG(buf, pos, limit) >= c.T {
			ys = append(ys, y)
		}
	}
	return ys
}

// CandidateEngine is the BFS enumerator described in spec §4.3. It is
// purely CPU-bound, owns no shared mutable state, and cannot fail: every
// branch is total (see spec §7).
type CandidateEngine struct {
	buf    *SequenceBuffer
	limits ScanLimits
}

// NewCandidateEngine constructs an engine over buf with the given limits.
// limits must already have passed Validate.
func NewCandidateEngine(buf *SequenceBuffer, limits ScanLimits) *CandidateEngine {
	return &CandidateEngine{buf: buf, limits: limits}
}

// Scan produces every RawHit whose seed position falls in
// [windowStart, primaryEnd) and whose full span does not exceed windowEnd,
// per §4.3 and §4.3.5. Output order is an artifact of BFS traversal;
// Consolidator is responsible for determinism downstream.
func (e *CandidateEngine) Scan(windowStart, primaryEnd, windowEnd int) []RawHit {
	var hits []RawHit
	maxTAllowed := e.limits.maxTAllowed()

	runs := Runs(e.buf.Bytes(), windowStart, windowEnd, e.limits.MinTetrads)
	var queue []RawCandidate
	for _, run := range runs {
		if run.Start >= primaryEnd {
			continue
		}
		maxT := run.Length
		if maxTAllowed < maxT {
			maxT = maxTAllowed
		}
		for t := e.limits.MinTetrads; t <= maxT; t++ {
			if 4*t > e.limits.MaxG4Length {
				break
			}
			lastOffset := run.Length - t
			// Cap offsets so the seed position s = run.Start+offset stays
			// within the window's primary region (§4.3.5); the remainder of
			// this run (if any) is attributed to the next window, whose
			// GRunScanner will rediscover it starting at its own
			// window_start.
			if cap := primaryEnd - run.Start - 1; cap < lastOffset {
				lastOffset = cap
			}
			for offset := 0; offset <= lastOffset; offset++ {
				queue = append(queue, RawCandidate{
					T:  t,
					S:  run.Start + offset,
					Y1: unset, Y2: unset, Y3: unset,
				})
			}
		}
	}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c.complete() {
			if gscore, ok := viable(c, e.limits); ok {
				hits = append(hits, RawHit{
					Start:   c.S,
					Length:  c.length(),
					Tetrads: c.T,
					Y1:      c.Y1, Y2: c.Y2, Y3: c.Y3,
					GScore: gscore,
					SequenceSlice: SequenceSlice{
						Buf: e.buf, Start: c.S, Length: c.length(),
					},
				})
			}
			continue
		}
		cursor := c.cursor()
		for _, y := range findLoopLengths(cursor, c, e.limits, e.buf, windowEnd) {
			queue = append(queue, c.withLoop(y))
		}
	}
	return hits
}

// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package g4

import "sort"

// FinalHit has the same shape as RawHit; it is emitted as the unique
// representative of its overlap family.
type FinalHit = RawHit

// Family is an unordered multiset of RawHits sharing a transitive overlap
// relation (§4.6.3). It is ephemeral: it lives only inside one
// Consolidate call.
type Family struct {
	Members []RawHit
}

// FamilyRange is the genomic span covered by a Family: the union of all its
// members' [Start, Start+Length) intervals. Exposed to the streaming
// callback (§6) so callers can see overlap-group extents without having to
// recompute them from the raw hits.
type FamilyRange struct {
	Start, End int
}

// Range returns the union span of f's members.
func (f Family) Range() FamilyRange {
	r := FamilyRange{Start: f.Members[0].Start, End: f.Members[0].Start + f.Members[0].Length}
	for _, m := range f.Members[1:] {
		if m.Start < r.Start {
			r.Start = m.Start
		}
		if end := m.Start + m.Length; end > r.End {
			r.End = end
		}
	}
	return r
}

type dedupKey struct {
	start, end int
	content    contentKey
}

// Consolidator turns an unordered batch of RawHits into a deterministic
// final-hit list: dedup, then overlap-family grouping, then per-family
// winner selection. It is the single authority that turns raw hits into
// final hits (§4.6), and -- like CandidateEngine -- it cannot fail.
type Consolidator struct{}

// NewConsolidator returns a Consolidator. It holds no state; a value of
// this type would do just as well, but a constructor keeps the call site
// symmetric with NewCandidateEngine/NewChunkScheduler.
func NewConsolidator() *Consolidator { return &Consolidator{} }

// Consolidate implements §4.6 end to end: dedup (§4.6.1), sort (§4.6.2),
// family grouping (§4.6.3), and winner selection (§4.6.4). The result is
// independent of the input order of raw (§P1/§P2).
func (c *Consolidator) Consolidate(raw []RawHit) []FinalHit {
	final, _ := c.ConsolidateDetailed(raw)
	return final
}

// ConsolidateDetailed is Consolidate plus the intermediate family list, for
// callers (the streaming callback, §6) that want family extents alongside
// the winners.
func (*Consolidator) ConsolidateDetailed(raw []RawHit) ([]FinalHit, []Family) {
	deduped := dedup(raw)
	sort.Slice(deduped, func(i, j int) bool {
		a, b := deduped[i], deduped[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Start+a.Length < b.Start+b.Length
	})
	families := groupFamilies(deduped)
	out := make([]FinalHit, len(families))
	for i, f := range families {
		out[i] = winner(f)
	}
	return out, families
}

// dedup implements §4.6.1: insert if absent; on collision keep the entry
// with the higher gscore, and the incumbent on a tie.
func dedup(raw []RawHit) []RawHit {
	seen := make(map[dedupKey]RawHit, len(raw))
	order := make([]dedupKey, 0, len(raw))
	for _, h := range raw {
		key := dedupKey{
			start:   h.Start,
			end:     h.Start + h.Length,
			content: newContentKey(h.SequenceSlice.Bytes()),
		}
		if existing, ok := seen[key]; ok {
			if h.GScore > existing.GScore {
				seen[key] = h
			}
			continue
		}
		seen[key] = h
		order = append(order, key)
	}
	out := make([]RawHit, 0, len(order))
	for _, key := range order {
		out = append(out, seen[key])
	}
	return out
}

// overlapped implements the closed-closed interval intersection test of
// §4.6.3: endpoints count as overlapping.
func overlapped(a, b RawHit) bool {
	aEnd, bEnd := a.Start+a.Length, b.Start+b.Length
	lo := a.Start
	if b.Start > lo {
		lo = b.Start
	}
	hi := aEnd
	if bEnd < hi {
		hi = bEnd
	}
	return lo <= hi
}

// groupFamilies implements §4.6.3. Hits must already be sorted ascending by
// (start, start+length) -- that ordering is what makes the result
// independent of input order and worker count (§8 P1/P2). Membership is
// transitive: h joins the first family containing any member it overlaps,
// even if it doesn't directly overlap every member of that family.
func groupFamilies(sorted []RawHit) []Family {
	var families []Family
	for _, h := range sorted {
		placed := false
		for i := range families {
			for _, m := range families[i].Members {
				if overlapped(h, m) {
					families[i].Members = append(families[i].Members, h)
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
		if !placed {
			families = append(families, Family{Members: []RawHit{h}})
		}
	}
	return families
}

// winner implements §4.6.4: the member with the highest gscore; ties break
// by lowest start, then lowest length.
func winner(f Family) RawHit {
	best := f.Members[0]
	for _, m := range f.Members[1:] {
		switch {
		case m.GScore > best.GScore:
			best = m
		case m.GScore == best.GScore && m.Start < best.Start:
			best = m
		case m.GScore == best.GScore && m.Start == best.Start && m.Length < best.Length:
			best = m
		}
	}
	return best
}

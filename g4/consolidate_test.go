// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package g4

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkHit(start, length, gscore int, buf *SequenceBuffer) RawHit {
	return RawHit{
		Start:         start,
		Length:        length,
		Tetrads:       2,
		Y1:            1,
		Y2:            1,
		Y3:            1,
		GScore:        gscore,
		SequenceSlice: SequenceSlice{Buf: buf, Start: start, Length: length},
	}
}

func TestDedupKeepsHigherScoreOnCollision(t *testing.T) {
	buf := NewSequenceBuffer([]byte("gggaaaggg"))
	a := mkHit(0, 9, 10, buf)
	b := mkHit(0, 9, 20, buf) // identical coordinates and content, higher score

	out := dedup([]RawHit{a, b})
	require.Len(t, out, 1)
	assert.Equal(t, 20, out[0].GScore)
}

func TestDedupIncumbentWinsTie(t *testing.T) {
	buf := NewSequenceBuffer([]byte("gggaaaggg"))
	a := mkHit(0, 9, 10, buf)
	b := mkHit(0, 9, 10, buf)

	out := dedup([]RawHit{a, b})
	require.Len(t, out, 1)
	assert.Equal(t, 10, out[0].GScore)
}

func TestDedupDistinguishesByContentNotJustCoordinates(t *testing.T) {
	bufA := NewSequenceBuffer([]byte("gggaaaggg"))
	bufB := NewSequenceBuffer([]byte("gggtttggg"))
	a := mkHit(0, 9, 10, bufA)
	b := mkHit(0, 9, 10, bufB)

	out := dedup([]RawHit{a, b})
	assert.Len(t, out, 2, "same coordinates but different content must not collide")
}

func TestOverlappedClosedInterval(t *testing.T) {
	buf := NewSequenceBuffer([]byte("gggggggggggggggggg"))
	a := mkHit(0, 5, 10, buf)  // [0,5)
	b := mkHit(5, 5, 10, buf)  // [5,10) -- touches at endpoint 5
	c := mkHit(6, 5, 10, buf)  // [6,11) -- disjoint from a
	assert.True(t, overlapped(a, b))
	assert.False(t, overlapped(a, c))
}

func TestGroupFamiliesTransitiveChain(t *testing.T) {
	buf := NewSequenceBuffer([]byte("gggggggggggggggggggggggg"))
	a := mkHit(0, 5, 10, buf)  // [0,5)
	b := mkHit(4, 5, 10, buf)  // [4,9) overlaps a
	c := mkHit(8, 5, 10, buf)  // [8,13) overlaps b but not a directly
	d := mkHit(20, 3, 10, buf) // disjoint from everything

	families := groupFamilies([]RawHit{a, b, c, d})
	require.Len(t, families, 2)
	assert.Len(t, families[0].Members, 3)
	assert.Len(t, families[1].Members, 1)
}

func TestWinnerTieBreaksByStartThenLength(t *testing.T) {
	buf := NewSequenceBuffer([]byte("gggggggggggggggggg"))
	f := Family{Members: []RawHit{
		mkHit(2, 5, 50, buf),
		mkHit(0, 5, 50, buf),
		mkHit(0, 3, 50, buf),
	}}
	w := winner(f)
	assert.Equal(t, 0, w.Start)
	assert.Equal(t, 3, w.Length)
}

func TestConsolidateIsOrderIndependent(t *testing.T) {
	buf := NewSequenceBuffer([]byte("gggggggggggggggggggggggggggg"))
	raw := []RawHit{
		mkHit(0, 5, 10, buf),
		mkHit(2, 6, 30, buf),
		mkHit(15, 4, 5, buf),
		mkHit(16, 5, 8, buf),
	}
	shuffled := make([]RawHit, len(raw))
	copy(shuffled, raw)
	rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	out1 := NewConsolidator().Consolidate(raw)
	out2 := NewConsolidator().Consolidate(shuffled)
	assert.Equal(t, out1, out2)
}

func TestFamilyRange(t *testing.T) {
	buf := NewSequenceBuffer([]byte("gggggggggggggggggg"))
	f := Family{Members: []RawHit{mkHit(2, 5, 10, buf), mkHit(0, 4, 20, buf)}}
	r := f.Range()
	assert.Equal(t, FamilyRange{Start: 0, End: 7}, r)
}

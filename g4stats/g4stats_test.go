// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package g4stats

import (
	"testing"

	"github.com/grailbio/quadscan/g4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hit(length, gscore, tetrads int) g4.FinalHit {
	return g4.FinalHit{Length: length, GScore: gscore, Tetrads: tetrads}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Count)
	assert.Empty(t, s.GScoreBuckets)
}

func TestSummarizeBasicStats(t *testing.T) {
	hits := []g4.FinalHit{
		hit(15, 20, 3),
		hit(20, 40, 2),
		hit(25, 60, 2),
	}
	s := Summarize(hits)
	require.Equal(t, 3, s.Count)
	assert.InDelta(t, 20.0, s.MeanLength, 1e-9)
	assert.InDelta(t, 40.0, s.MeanGScore, 1e-9)
	assert.InDelta(t, 7.0/3.0, s.MeanTetrads, 1e-9)
	assert.Len(t, s.GScoreBuckets, len(DefaultGScoreDividers)-1)

	var total float64
	for _, c := range s.GScoreBuckets {
		total += c
	}
	assert.Equal(t, float64(len(hits)), total)
}

// TestSummarizeBelowDefaultFloor covers a -min-score below
// DefaultGScoreDividers[0]: stat.Histogram panics if any score falls below
// its first divider, so Summarize must widen the range to fit.
func TestSummarizeBelowDefaultFloor(t *testing.T) {
	hits := []g4.FinalHit{
		hit(10, 5, 2),
		hit(12, 10, 2),
	}
	require.NotPanics(t, func() {
		s := Summarize(hits)
		require.Equal(t, 2, s.Count)
		var total float64
		for _, c := range s.GScoreBuckets {
			total += c
		}
		assert.Equal(t, float64(len(hits)), total)
	})
}

// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package g4stats computes corpus-level summary statistics over a set of
// g4.FinalHits, for the -summary flag of cmd/quadscan. It is the one
// place in this module that reaches for gonum.org/v1/gonum/stat rather than
// hand-rolled arithmetic, the way a component doing real statistics (as
// opposed to the bit-exact integer scoring in g4) should.
package g4stats

import (
	"sort"

	"github.com/grailbio/quadscan/g4"
	"gonum.org/v1/gonum/stat"
)

// Summary is a corpus-level rollup of a batch of final hits.
type Summary struct {
	Count          int
	MeanLength     float64
	StdDevLength   float64
	MeanGScore     float64
	StdDevGScore   float64
	MeanTetrads    float64
	GScoreBuckets  []float64 // counts falling in each [dividers[i], dividers[i+1]) bucket
	GScoreDividers []float64
}

// DefaultGScoreDividers buckets gscore in steps of 16 from the configured
// floor up to a generous ceiling; Summarize widens the first and last
// dividers (see dividersFor) so outliers fall into the first or last bucket.
var DefaultGScoreDividers = []float64{17, 33, 49, 65, 81, 97, 1 << 30}

// Summarize computes a Summary over hits. An empty hits produces a
// zero-value Summary with Count 0 and no buckets.
func Summarize(hits []g4.FinalHit) Summary {
	if len(hits) == 0 {
		return Summary{}
	}

	lengths := make([]float64, len(hits))
	gscores := make([]float64, len(hits))
	tetrads := make([]float64, len(hits))
	for i, h := range hits {
		lengths[i] = float64(h.Length)
		gscores[i] = float64(h.GScore)
		tetrads[i] = float64(h.Tetrads)
	}

	meanLength, stdLength := stat.MeanStdDev(lengths, nil)
	meanGScore, stdGScore := stat.MeanStdDev(gscores, nil)
	meanTetrads := stat.Mean(tetrads, nil)

	sortedScores := append([]float64(nil), gscores...)
	sort.Float64s(sortedScores)
	dividers := dividersFor(sortedScores)
	buckets := make([]float64, len(dividers)-1)
	stat.Histogram(buckets, dividers, sortedScores, nil)

	return Summary{
		Count:          len(hits),
		MeanLength:     meanLength,
		StdDevLength:   stdLength,
		MeanGScore:     meanGScore,
		StdDevGScore:   stdGScore,
		MeanTetrads:    meanTetrads,
		GScoreBuckets:  buckets,
		GScoreDividers: dividers,
	}
}

// dividersFor returns DefaultGScoreDividers widened, if necessary, so that
// stat.Histogram's precondition (sorted[0] >= dividers[0] and sorted[last] <
// dividers[last]) holds for sorted. MinScore is an unconstrained integer
// (quadscan's -min-score flag accepts any value, including below the
// default floor of 17), so a batch of hits is not guaranteed to fall inside
// the default range.
func dividersFor(sorted []float64) []float64 {
	dividers := append([]float64(nil), DefaultGScoreDividers...)
	if len(sorted) == 0 {
		return dividers
	}
	if sorted[0] < dividers[0] {
		dividers[0] = sorted[0]
	}
	last := len(dividers) - 1
	if sorted[len(sorted)-1] >= dividers[last] {
		dividers[last] = sorted[len(sorted)-1] + 1
	}
	return dividers
}

// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package g4

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkSpanForClamps(t *testing.T) {
	l := DefaultScanLimits // MaxG4Length=45
	assert.Equal(t, clamp(45+safetyPadding, minChunkSpan, maxChunkSpan), chunkSpanFor(l))

	tiny := l
	tiny.MaxG4Length = 8
	assert.Equal(t, minChunkSpan, chunkSpanFor(tiny))

	huge := l
	huge.MaxG4Length = 1000
	assert.Equal(t, maxChunkSpan, chunkSpanFor(huge))
}

func TestWindowsContiguousAndCovering(t *testing.T) {
	l := DefaultScanLimits
	const seqLen = 500
	ws := Windows(seqLen, l)
	require.NotEmpty(t, ws)
	ValidateWindowList(ws) // must not panic

	assert.Equal(t, 0, ws[0].Start)
	assert.Equal(t, seqLen, ws[len(ws)-1].PrimaryEnd)
	for _, w := range ws {
		assert.LessOrEqual(t, w.PrimaryEnd, w.End)
		assert.LessOrEqual(t, w.End, seqLen)
	}
}

func TestWindowsEmptySequence(t *testing.T) {
	assert.Empty(t, Windows(0, DefaultScanLimits))
}

func TestChunkSchedulerWorkerCountDoesNotChangeResult(t *testing.T) {
	// A long repetitive sequence forces multiple windows (neither scheduler
	// takes the short-sequence fast path); compare parallelism=1 against
	// parallelism=4 on the same buffer to confirm worker count doesn't change
	// the final result (§P1).
	seq := strings.Repeat("gggagggagggaggg", 20)
	buf := NewSequenceBuffer([]byte(seq))

	s1, err := NewChunkScheduler(DefaultScanLimits, 1)
	require.NoError(t, err)
	s4, err := NewChunkScheduler(DefaultScanLimits, 4)
	require.NoError(t, err)

	out1 := s1.Scan(buf)
	out4 := s4.Scan(buf)
	assert.Equal(t, out1, out4)
	assert.NotEmpty(t, out1)
}

func TestNewChunkSchedulerRejectsInvalidLimits(t *testing.T) {
	bad := DefaultScanLimits
	bad.MinTetrads = 0
	_, err := NewChunkScheduler(bad, 1)
	require.Error(t, err)
}

func TestChunkSchedulerEmptyBuffer(t *testing.T) {
	s, err := NewChunkScheduler(DefaultScanLimits, 1)
	require.NoError(t, err)
	assert.Empty(t, s.Scan(NewSequenceBuffer(nil)))
}

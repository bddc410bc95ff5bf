// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fastaio

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/quadscan/g4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFasta = `>chr1 a test chromosome
GGGAGGG
AGGGAGGG
>chr2
AAAACCCC
`

func writeTempFasta(t *testing.T, content string) string {
	dir, err := ioutil.TempDir("", "fastaio_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "ref.fasta")
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConcatenatesLinesPerRecord(t *testing.T) {
	path := writeTempFasta(t, testFasta)
	seqs, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, seqs, 2)

	assert.Equal(t, "chr1", seqs[0].Name)
	assert.Equal(t, "gggagggagggaggg", string(seqs[0].Buffer.Bytes()))
	assert.Equal(t, "chr2", seqs[1].Name)
	assert.Equal(t, "aaaacccc", string(seqs[1].Buffer.Bytes()))
}

func TestStreamMatchesLoadForWholeFile(t *testing.T) {
	path := writeTempFasta(t, testFasta)
	loaded, err := Load(context.Background(), path)
	require.NoError(t, err)

	sched, err := g4.NewStreamScheduler(g4.DefaultScanLimits, false)
	require.NoError(t, err)
	chunked, err := g4.NewChunkScheduler(g4.DefaultScanLimits, 1)
	require.NoError(t, err)

	var results []g4.ChromosomeResult
	err = Stream(context.Background(), path, sched, func(r g4.ChromosomeResult) {
		results = append(results, r)
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for i, seq := range loaded {
		want := chunked.Scan(seq.Buffer)
		assert.Equal(t, want, results[i].FinalHits, "mismatch for %s", seq.Name)
		assert.Equal(t, seq.Name, results[i].ChromosomeName)
	}
}

// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package fastaio reads FASTA-formatted sequence data and feeds it to the g4
// package's scanners, in two modes: Load for small references that fit
// comfortably in memory (paired with g4.ChunkScheduler, delegating parsing
// to encoding/fasta), and Stream for references too large to buffer whole,
// or for callers that want results chromosome-by-chromosome as the file is
// read (paired with g4.StreamScheduler, via its own line-oriented loop,
// since encoding/fasta has no incremental parse mode).
package fastaio

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/quadscan/encoding/fasta"
	"github.com/grailbio/quadscan/g4"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

const bufferInitSize = 1 << 20

// Sequence is one named record loaded whole into memory.
type Sequence struct {
	Name   string
	Buffer *g4.SequenceBuffer
}

// openRawReader opens path for reading via grailbio/base/file (which
// transparently handles local paths and the object-storage schemes that
// package supports), transparently gzip-decompressing when the path ends in
// ".gz" -- the same convention cmd/bio-pileup's output flags use for
// "-tsv-bgz"-style suffixes, generalized to input decompression via
// klauspost/compress/gzip rather than the bgzf-specific reader those tools
// use, since plain gzip is what reference FASTA downloads are normally
// distributed as.
func openRawReader(ctx context.Context, path string) (io.Reader, func() error, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "fastaio: open %s", path)
	}
	var r io.Reader = f.Reader(ctx)
	closers := []func() error{func() error { return f.Close(ctx) }}
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			_ = f.Close(ctx)
			return nil, nil, errors.Wrapf(err, "fastaio: gzip %s", path)
		}
		r = gz
		closers = append([]func() error{gz.Close}, closers...)
	}
	closeAll := func() error {
		var first error
		for _, c := range closers {
			if err := c(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
	return r, closeAll, nil
}

func openScanner(ctx context.Context, path string) (*bufio.Scanner, func() error, error) {
	r, closeAll, err := openRawReader(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, bufferInitSize)
	return scanner, closeAll, nil
}

// headerName extracts the sequence name from a ">name description..." header
// line: the run of non-space characters immediately after '>'.
func headerName(line string) string {
	return strings.SplitN(line[1:], " ", 2)[0]
}

// Load reads every record in path into memory and returns them in file
// order, for use with g4.ChunkScheduler. Parsing itself is delegated to
// encoding/fasta.New -- this package's job is just to open (and
// gzip-decompress) the reader and bridge fasta.Fasta's strings into
// g4.SequenceBuffers.
func Load(ctx context.Context, path string) ([]Sequence, error) {
	r, closeAll, err := openRawReader(ctx, path)
	if err != nil {
		return nil, err
	}
	defer closeAll() // nolint: errcheck

	fa, err := fasta.New(r)
	if err != nil {
		return nil, errors.Wrapf(err, "fastaio: parse %s", path)
	}
	names := fa.SeqNames()
	out := make([]Sequence, 0, len(names))
	for _, name := range names {
		n, err := fa.Len(name)
		if err != nil {
			return nil, errors.Wrapf(err, "fastaio: length of %s in %s", name, path)
		}
		var s string
		if n > 0 {
			// fasta.Get errors on a zero-length range, so an empty record (a
			// header with no sequence lines) is handled without calling it.
			if s, err = fa.Get(name, 0, n); err != nil {
				return nil, errors.Wrapf(err, "fastaio: read %s from %s", name, path)
			}
		}
		out = append(out, Sequence{Name: name, Buffer: g4.NewSequenceBuffer([]byte(s))})
	}
	return out, nil
}

// Stream reads path one line at a time, driving sched through its
// StartChromosome/Push/FinishChromosome contract (§4.5) without ever holding
// a whole chromosome in memory. onResult is called once per record, in file
// order, with the ChromosomeResult FinishChromosome returned for it.
func Stream(ctx context.Context, path string, sched *g4.StreamScheduler, onResult func(g4.ChromosomeResult)) error {
	scanner, closeAll, err := openScanner(ctx, path)
	if err != nil {
		return err
	}
	defer closeAll() // nolint: errcheck

	started := false
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if started {
				onResult(sched.FinishChromosome())
			}
			sched.StartChromosome(headerName(line))
			started = true
			continue
		}
		sched.Push([]byte(line))
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "fastaio: read %s", path)
	}
	if started {
		onResult(sched.FinishChromosome())
	}
	return nil
}

// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package g4view renders g4.FinalHit results as text, the way
// pileup/snp/output.go renders pileup rows: a tsv.Writer over one header
// line followed by one row per record, with genomic coordinates translated
// from the core's 0-based half-open convention to the 1-based inclusive
// convention text output uses throughout this domain.
package g4view

import (
	"io"
	"strings"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/quadscan/g4"
)

// Header is the column line written by Writer.WriteHeader.
const Header = "#CHROM\tSTART\tEND\tLENGTH\tTETRADS\tY1\tY2\tY3\tGSCORE\tSEQUENCE"

// Writer renders FinalHits for one or more chromosomes as TSV, matching the
// column set a reviewer would expect from a *.bed-adjacent annotation track:
// one row per hit, sorted as the caller presents it (g4view does not
// re-sort; Consolidator already produced a deterministic order).
type Writer struct {
	tsv *tsv.Writer
}

// NewWriter wraps w. Callers must call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{tsv: tsv.NewWriter(w)}
}

// WriteHeader writes the column header line.
func (w *Writer) WriteHeader() error {
	w.tsv.WriteString(Header)
	return w.tsv.EndLine()
}

// WriteHit writes one row for hit on chrom, translating coordinates to
// 1-based inclusive (§6): a hit covering 0-based half-open [Start,
// Start+Length) is reported as [Start+1, Start+Length].
func (w *Writer) WriteHit(chrom string, hit g4.FinalHit) error {
	w.tsv.WriteString(chrom)
	w.tsv.WriteInt64(int64(hit.Start + 1))
	w.tsv.WriteInt64(int64(hit.Start + hit.Length))
	w.tsv.WriteInt64(int64(hit.Length))
	w.tsv.WriteInt64(int64(hit.Tetrads))
	w.tsv.WriteInt64(int64(hit.Y1))
	w.tsv.WriteInt64(int64(hit.Y2))
	w.tsv.WriteInt64(int64(hit.Y3))
	w.tsv.WriteInt64(int64(hit.GScore))
	w.tsv.WriteString(strings.ToUpper(string(hit.SequenceSlice.Bytes())))
	return w.tsv.EndLine()
}

// WriteChromosome writes every hit in hits for chrom, in order.
func (w *Writer) WriteChromosome(chrom string, hits []g4.FinalHit) error {
	for _, h := range hits {
		if err := w.WriteHit(chrom, h); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying tsv.Writer.
func (w *Writer) Flush() error {
	return w.tsv.Flush()
}

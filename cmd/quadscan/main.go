// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

/*
quadscan finds candidate G-quadruplex (G4) structures in FASTA-formatted
DNA/RNA sequences and reports them as a TSV annotation track.
*/

import (
	"compress/flate"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/quadscan/encoding/bgzf"
	"github.com/grailbio/quadscan/fastaio"
	"github.com/grailbio/quadscan/g4"
	"github.com/grailbio/quadscan/g4stats"
	"github.com/grailbio/quadscan/g4view"
)

var (
	outPath     = flag.String("out", "", "Output TSV path (default stdout)")
	bgzipOut    = flag.Bool("bgzip", false, "Block-gzip the output TSV (the same .bgzf format bio-pileup's -tsv-bgz option produces)")
	parallelism = flag.Int("parallelism", 0, "Number of chunk-scan workers; 0 = runtime.NumCPU(). Ignored with -stream")
	stream      = flag.Bool("stream", false, "Scan with bounded memory via the streaming scheduler instead of loading the whole reference")
	minTetrads  = flag.Int("min-tetrads", g4.DefaultScanLimits.MinTetrads, "Minimum tetrad width")
	minScore    = flag.Int("min-score", g4.DefaultScanLimits.MinScore, "Minimum gscore")
	maxGRun     = flag.Int("max-g-run", g4.DefaultScanLimits.MaxGRun, "Maximum tetrad width drawn from a single G-run")
	maxG4Length = flag.Int("max-g4-length", g4.DefaultScanLimits.MaxG4Length, "Maximum total span of a candidate G4")
	summary     = flag.Bool("summary", false, "Log a corpus-level summary to stderr after scanning")
)

func quadscanUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] fasta-path\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Other options:\n")
	flag.PrintDefaults()
}

func limitsFromFlags() g4.ScanLimits {
	return g4.ScanLimits{
		MinTetrads:  *minTetrads,
		MinScore:    *minScore,
		MaxGRun:     *maxGRun,
		MaxG4Length: *maxG4Length,
	}
}

func main() {
	flag.Usage = quadscanUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("exactly one positional argument (fasta-path) required, got %d", flag.NArg())
	}
	fastaPath := flag.Arg(0)
	ctx := vcontext.Background()

	limits := limitsFromFlags()
	if err := limits.Validate(); err != nil {
		log.Panicf("invalid scan limits: %v", err)
	}

	w, closeOutput := openOutputWriter(ctx)
	runScan(ctx, fastaPath, limits, w)
	closeOutput()
}

// openOutputWriter opens -out (or wraps os.Stdout), optionally block-gzipping
// per -bgzip, and returns a g4view.Writer plus a func that closes everything
// it opened, in the order bio-pileup's own -tsv-bgz path closes its layers
// (innermost bgzf.Writer first, then the underlying file).
func openOutputWriter(ctx context.Context) (*g4view.Writer, func()) {
	var (
		sink    io.Writer = os.Stdout
		closers []func()
	)
	if *outPath != "" {
		f, err := file.Create(ctx, *outPath)
		if err != nil {
			log.Panicf("create %s: %v", *outPath, err)
		}
		sink = f.Writer(ctx)
		closers = append(closers, func() {
			if err := f.Close(ctx); err != nil {
				log.Panicf("close %s: %v", *outPath, err)
			}
		})
	}
	if *bgzipOut {
		bw, err := bgzf.NewWriter(sink, flate.DefaultCompression)
		if err != nil {
			log.Panicf("new bgzf writer: %v", err)
		}
		sink = bw
		closers = append([]func(){func() {
			if err := bw.Close(); err != nil {
				log.Panicf("close bgzf writer: %v", err)
			}
		}}, closers...)
	}
	return g4view.NewWriter(sink), func() {
		for _, c := range closers {
			c()
		}
	}
}

// runScan dispatches to the chunked or streaming scheduler per -stream and
// writes every chromosome's hits through w, tallying a corpus-wide
// g4stats.Summary if -summary was requested.
func runScan(ctx context.Context, fastaPath string, limits g4.ScanLimits, w *g4view.Writer) {
	if err := w.WriteHeader(); err != nil {
		log.Panicf("write header: %v", err)
	}

	var allHits []g4.FinalHit
	record := func(chrom string, hits []g4.FinalHit) {
		if err := w.WriteChromosome(chrom, hits); err != nil {
			log.Panicf("write %s: %v", chrom, err)
		}
		if *summary {
			allHits = append(allHits, hits...)
		}
	}

	if *stream {
		sched, err := g4.NewStreamScheduler(limits, false)
		if err != nil {
			log.Panicf("new stream scheduler: %v", err)
		}
		err = fastaio.Stream(ctx, fastaPath, sched, func(res g4.ChromosomeResult) {
			record(res.ChromosomeName, res.FinalHits)
		})
		if err != nil {
			log.Panicf("stream %s: %v", fastaPath, err)
		}
	} else {
		sched, err := g4.NewChunkScheduler(limits, *parallelism)
		if err != nil {
			log.Panicf("new chunk scheduler: %v", err)
		}
		seqs, err := fastaio.Load(ctx, fastaPath)
		if err != nil {
			log.Panicf("load %s: %v", fastaPath, err)
		}
		for _, seq := range seqs {
			record(seq.Name, sched.Scan(seq.Buffer))
		}
	}

	if err := w.Flush(); err != nil {
		log.Panicf("flush output: %v", err)
	}
	if *summary {
		s := g4stats.Summarize(allHits)
		log.Printf("quadscan summary: count=%d mean_length=%.2f mean_gscore=%.2f mean_tetrads=%.2f",
			s.Count, s.MeanLength, s.MeanGScore, s.MeanTetrads)
	}
}

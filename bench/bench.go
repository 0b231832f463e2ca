// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package bench runs the Huffman versus fixed-length comparison.

Run generates one random input file per configured size, then compresses and decompresses each file with each
configured codec.  It times both directions, derives the size figures, and checks the decoded output against the
input by Skein digest.  The caller's context is checked between stages, so a deadline stops a run at the next
file or codec boundary.
*/
package bench

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/op/go-logging"

	"github.com/textpack/huffpack/codec"
	"github.com/textpack/huffpack/config"
	"github.com/textpack/huffpack/digest"
	"github.com/textpack/huffpack/stats"
	"github.com/textpack/huffpack/textgen"
)

var log = logging.MustGetLogger("huffpack/bench")

// ErrNotVerified is returned by Run, along with the full report, when some decoded output did not match its
// input.
var ErrNotVerified = errors.New("bench: decoded output differs from input")

// Row is one (file, codec) measurement.
type Row struct {
	File   string
	Method string
	stats.Stats
	stats.Timing
	Verified bool
}

// Sample keeps the compression result of one file so its code table can be shown.
type Sample struct {
	File   string
	Result *codec.Result
}

// Report is the outcome of a run.  Samples holds the Huffman result for the first file only, and only when
// the parameters ask for code tables.
type Report struct {
	Rows    []Row
	Samples []Sample
}

// FileName returns the name Run uses for a generated input of size bytes.
func FileName(size int) string {
	return "file_" + config.FormatSize(size) + ".txt"
}

// Measure runs one codec over input and checks the round trip.
func Measure(ctx context.Context, c codec.Codec, file string, input []byte) (Row, *codec.Result, error) {
	row := Row{File: file, Method: c.Name()}

	sw := stats.Start()
	result, err := c.Compress(input)
	if err != nil {
		return row, nil, err
	}
	row.Timing.Encode = sw.Lap()

	row.Stats, err = stats.Compute(int64(len(input)), int64(result.Bits.BitLength))
	if err != nil && !errors.Is(err, stats.ErrZeroLength) {
		return row, nil, err
	}

	if err := ctx.Err(); err != nil {
		return row, nil, err
	}

	sw.Lap()
	output, err := c.Decompress(result)
	if err != nil {
		return row, nil, err
	}
	row.Timing.Decode = sw.Lap()

	row.Verified = digest.Equal(input, output)
	return row, result, nil
}

// Run carries out the benchmark described by bp.
func Run(ctx context.Context, bp *config.BenchParams) (*Report, error) {
	if err := bp.Validate(); err != nil {
		return nil, err
	}

	codecs := make([]codec.Codec, 0, len(bp.Codecs))
	for _, name := range bp.Codecs {
		c, err := codec.Lookup(name)
		if err != nil {
			return nil, err
		}
		codecs = append(codecs, c)
	}

	if err := os.MkdirAll(bp.Dir, 0755); err != nil {
		return nil, err
	}

	report := &Report{}
	allVerified := true
	for i, size := range bp.Sizes {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := FileName(size)
		path := filepath.Join(bp.Dir, name)
		content, err := textgen.Generate(size, textgen.Options{
			Alphabet:     bp.Alphabet,
			Distribution: bp.Distribution,
			Seed:         bp.Seed + int64(i),
		})
		if err != nil {
			return report, err
		}
		if err := textgen.SaveFile(path, content); err != nil {
			return report, err
		}

		input, err := os.ReadFile(path)
		if err != nil {
			return report, err
		}

		for _, c := range codecs {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			row, result, err := Measure(ctx, c, name, input)
			if err != nil {
				log.Errorf("%s on %s: %v", c.Name(), name, err)
				return report, err
			}

			if row.Verified {
				log.Infof("%s on %s: %d -> %d bytes, ratio %s, verified", row.Method, name,
					row.OriginalBytes, row.CompressedBytes, row.RatioString())
			} else {
				log.Errorf("%s on %s: decoded output does not match input", row.Method, name)
				allVerified = false
			}
			report.Rows = append(report.Rows, row)

			if i == 0 && bp.ShowCodes > 0 && c.Name() == codec.HuffmanName {
				report.Samples = append(report.Samples, Sample{name, result})
			}
		}
	}

	if !allVerified {
		return report, ErrNotVerified
	}
	return report, nil
}

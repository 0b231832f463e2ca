// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package stats derives size and ratio figures from the output of a codec.
*/
package stats

import (
	"errors"
	"fmt"
	"time"
)

// ErrZeroLength is returned by Compute when the original input was empty.  The accompanying Stats has a
// Ratio of zero, which callers should report as undefined.
var ErrZeroLength = errors.New("stats: ratio undefined for zero-length input")

// ErrNegativeSize is returned by Compute for negative byte or bit counts.
var ErrNegativeSize = errors.New("stats: negative size")

// Stats describes one compression result.
type Stats struct {
	OriginalBytes   int64
	CompressedBits  int64
	CompressedBytes int64

	// Ratio is CompressedBytes / OriginalBytes.  Smaller is better; 1.0 means no gain.
	Ratio float64

	// SpaceSaving is 1 - Ratio.
	SpaceSaving float64
}

// CeilBytes returns the number of octets needed to hold bits.
func CeilBytes(bits int64) int64 {
	return (bits + 7) / 8
}

// Compute derives Stats from an original byte length and a compressed bit length.
func Compute(originalBytes, compressedBits int64) (Stats, error) {
	if originalBytes < 0 || compressedBits < 0 {
		return Stats{}, ErrNegativeSize
	}

	st := Stats{
		OriginalBytes:   originalBytes,
		CompressedBits:  compressedBits,
		CompressedBytes: CeilBytes(compressedBits),
	}
	if originalBytes == 0 {
		return st, ErrZeroLength
	}

	st.Ratio = float64(st.CompressedBytes) / float64(originalBytes)
	st.SpaceSaving = 1 - st.Ratio
	return st, nil
}

// RatioString renders the ratio with four decimals, or "n/a" for empty input.
func (st Stats) RatioString() string {
	if st.OriginalBytes == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", st.Ratio)
}

// Timing holds wall-clock durations for one encode and one decode.
type Timing struct {
	Encode time.Duration
	Decode time.Duration
}

// Millis returns a duration in fractional milliseconds, as reports show it.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Stopwatch measures successive stages.  Each call to Lap returns the time since the previous Lap or since
// Start.
type Stopwatch struct {
	last time.Time
}

// Start begins a stopwatch.
func Start() *Stopwatch {
	return &Stopwatch{time.Now()}
}

// Lap returns the duration since the previous lap and starts the next one.
func (sw *Stopwatch) Lap() time.Duration {
	now := time.Now()
	d := now.Sub(sw.last)
	sw.last = now
	return d
}

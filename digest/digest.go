// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

// Package digest computes the Skein-512-256 content digests used to check that a decoded output matches its
// input.
package digest

import (
	"encoding/hex"
	"io"

	"github.com/dchest/skein"
)

// Size is the digest length in octets.
const Size = 32

// Digest is a Skein-512 hash with a 256-bit output.
type Digest struct {
	*skein.Hash
}

func New() Digest {
	return Digest{skein.New(Size, nil)}
}

// Sum returns the digest of data.
func Sum(data []byte) (out [Size]byte) {
	d := New()
	_, _ = d.Write(data)
	copy(out[:], d.Hash.Sum(nil))
	return
}

// SumReader returns the digest of everything read from r.
func SumReader(r io.Reader) (out [Size]byte, err error) {
	d := New()
	if _, err = io.Copy(d, r); err != nil {
		return
	}
	copy(out[:], d.Hash.Sum(nil))
	return
}

// Hex renders the digest of data in lowercase hexadecimal.
func Hex(data []byte) string {
	sum := Sum(data)
	return hex.EncodeToString(sum[:])
}

// Equal reports whether a and b have the same digest.
func Equal(a, b []byte) bool {
	return Sum(a) == Sum(b)
}

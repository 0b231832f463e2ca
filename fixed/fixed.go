// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package fixed implements the fixed-length baseline codec: every symbol is written at exactly eight bits.  It
never compresses; it exists so that Huffman results have something to be compared against.
*/
package fixed

import (
	"bytes"
	"errors"
	"io"

	bitstream "github.com/dgryski/go-bitstream"

	"github.com/textpack/huffpack/huffman"
)

// BitsPerSymbol is the width of every codeword.
const BitsPerSymbol = 8

// ErrMisaligned is returned when decoding a bit string whose length is not a whole number of codewords.
var ErrMisaligned = errors.New("fixed: bit length not a multiple of the codeword width")

// EncodedBits returns the encoded size of n symbols.
func EncodedBits(n int64) int64 {
	return n * BitsPerSymbol
}

// Encode writes each symbol of input as a BitsPerSymbol-bit codeword.
func Encode(input []byte) (huffman.BitString, error) {
	var buf bytes.Buffer
	buf.Grow(len(input))
	bw := bitstream.NewWriter(&buf)
	for _, s := range input {
		if err := bw.WriteBits(uint64(s), BitsPerSymbol); err != nil {
			return huffman.BitString{}, err
		}
	}
	if err := bw.Flush(bitstream.Zero); err != nil {
		return huffman.BitString{}, err
	}

	return huffman.BitString{Packed: buf.Bytes(), BitLength: len(input) * BitsPerSymbol}, nil
}

// Decode reads back the symbols written by Encode.
func Decode(bits huffman.BitString) ([]byte, error) {
	if bits.BitLength%BitsPerSymbol != 0 {
		return nil, ErrMisaligned
	}

	n := bits.BitLength / BitsPerSymbol
	dst := make([]byte, 0, n)
	br := bitstream.NewReader(bytes.NewReader(bits.Packed[:bits.Bytes()]))
	for len(dst) < n {
		word, err := br.ReadBits(BitsPerSymbol)
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		} else if err != nil {
			return nil, err
		}
		dst = append(dst, uint8(word))
	}
	return dst, nil
}

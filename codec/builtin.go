// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package codec

import (
	"github.com/textpack/huffpack/fixed"
	"github.com/textpack/huffpack/huffman"
)

const (
	HuffmanName = "huffman"
	FixedName   = "fixed"
)

type huffmanCodec struct{}

func (huffmanCodec) Name() string {
	return HuffmanName
}

func (huffmanCodec) Compress(input []byte) (*Result, error) {
	sess, err := huffman.Compress(input)
	if err != nil {
		return nil, err
	}

	log.Debugf("huffman: %d symbols, %d distinct -> %d bits", len(input), sess.Freqs.Len(), sess.Bits.BitLength)
	return &Result{
		Codec:       HuffmanName,
		OriginalLen: len(input),
		Bits:        sess.Bits,
		Tree:        sess.Tree,
		Codes:       sess.Codes,
		Freqs:       sess.Freqs,
	}, nil
}

func (huffmanCodec) Decompress(result *Result) ([]byte, error) {
	if result.Codec != HuffmanName {
		return nil, ErrWrongCodec
	}

	sess := &huffman.Session{Freqs: result.Freqs, Tree: result.Tree, Codes: result.Codes}
	return sess.DecompressBits(result.Bits)
}

type fixedCodec struct{}

func (fixedCodec) Name() string {
	return FixedName
}

func (fixedCodec) Compress(input []byte) (*Result, error) {
	bits, err := fixed.Encode(input)
	if err != nil {
		return nil, err
	}

	log.Debugf("fixed: %d symbols -> %d bits", len(input), bits.BitLength)
	return &Result{
		Codec:       FixedName,
		OriginalLen: len(input),
		Bits:        bits,
		Freqs:       huffman.BuildFrequencyTable(input),
	}, nil
}

func (fixedCodec) Decompress(result *Result) ([]byte, error) {
	if result.Codec != FixedName {
		return nil, ErrWrongCodec
	}
	return fixed.Decode(result.Bits)
}

// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"errors"
)

// Session holds everything produced by compressing one input.  Bits can only be decoded with the Tree from
// the same Session.
type Session struct {
	Freqs *FrequencyTable
	Tree  *Tree
	Codes *CodeTable
	Bits  BitString
}

// Compress runs the whole pipeline on input: frequency count, tree, codes, encoding.  Empty input is not an
// error here; it yields a Session with no tree, empty tables and no bits.
func Compress(input []byte) (*Session, error) {
	freqs := BuildFrequencyTable(input)
	tree, err := BuildTree(freqs)
	if errors.Is(err, ErrEmptyInput) {
		return &Session{Freqs: freqs, Codes: &CodeTable{}}, nil
	} else if err != nil {
		return nil, err
	}

	codes, err := DeriveCodes(tree)
	if err != nil {
		return nil, err
	}

	bits, err := Encode(input, codes)
	if err != nil {
		return nil, err
	}

	return &Session{freqs, tree, codes, bits}, nil
}

// Decompress decodes the session's bits with its tree.
func (sess *Session) Decompress() ([]byte, error) {
	return sess.DecompressBits(sess.Bits)
}

// DecompressBits decodes bits, which must come from this session's codes, with the session's tree.
func (sess *Session) DecompressBits(bits BitString) ([]byte, error) {
	if err := bits.validate(); err != nil {
		return nil, err
	}
	if sess.Tree == nil {
		if bits.BitLength != 0 {
			return nil, &CorruptStreamError{0}
		}
		return []byte{}, nil
	}
	return Decode(bits, sess.Tree)
}

// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when a tree is requested for a frequency table with no entries.  Callers may
// treat it as a zero-length result rather than a failure.
var ErrEmptyInput = errors.New("huffman: empty input")

// ErrCountOverflow is returned when the counts of a frequency table do not sum within uint64.  Every
// internal node weight of a tree is bounded by that sum.
var ErrCountOverflow = errors.New("huffman: symbol counts overflow")

// ErrMalformedBits is returned when a BitString passed in from outside has a negative length, too few
// octets for its length, or nonzero padding bits.
var ErrMalformedBits = errors.New("huffman: malformed bit string")

// UnknownSymbolError reports an input symbol with no codeword in the code table used to encode it.  This
// means the table was derived from a different alphabet than the input.
type UnknownSymbolError struct {
	Symbol Symbol
	Offset int
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("huffman: no codeword for symbol 0x%02x at input offset %d", e.Symbol, e.Offset)
}

// TruncatedStreamError reports a bit string that ended partway down the tree.  Nothing decoded before the
// truncation is returned alongside it.
type TruncatedStreamError struct {
	BitsConsumed   int
	SymbolsDecoded int
}

func (e *TruncatedStreamError) Error() string {
	return fmt.Sprintf("huffman: stream truncated mid-codeword after %d bits (%d symbols)",
		e.BitsConsumed, e.SymbolsDecoded)
}

// CorruptStreamError reports a bit that selects a branch the tree does not have.  Only the single-symbol
// tree has such a branch.
type CorruptStreamError struct {
	Offset int
}

func (e *CorruptStreamError) Error() string {
	return fmt.Sprintf("huffman: no branch for bit at offset %d", e.Offset)
}

// DegenerateTreeError reports an internal node without two children outside the single-symbol case.  It
// indicates a defect in tree construction, never bad input.
type DegenerateTreeError struct {
	Depth int
}

func (e *DegenerateTreeError) Error() string {
	return fmt.Sprintf("huffman: degenerate internal node at depth %d", e.Depth)
}

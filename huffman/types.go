// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package huffman implements Huffman coding for 256-symbol alphabets: frequency analysis, greedy tree
construction, prefix-free code derivation, and the encode/decode transforms between byte sequences and
packed bit strings.

The tree built for an input is the only description of its codewords.  Nothing in this package serializes
it; Decode must be handed the same Tree that produced the CodeTable used by Encode.  The package performs no
I/O and keeps no shared mutable state.
*/
package huffman

import (
	"errors"
	"fmt"
)

// Symbol is one unit of input.  Texts are plain byte sequences; there is no multi-byte decoding.
type Symbol = uint8

const totalSymbols = 256

// ErrBitSyntax is returned by ParseBitString for characters other than '0' and '1'.
var ErrBitSyntax = errors.New("huffman: bit string syntax")

// BitString represents a packed bit string.  Within each octet, bits are addressed most significant first.
//
// Invariants:
//   - 0 <= BitLength <= len(Packed)*8
//   - if BitLength%8 != 0, the low (8 - BitLength%8) bits of Packed[BitLength/8] are zero
type BitString struct {
	Packed    []uint8
	BitLength int
}

// Bit returns the bit at offset i as 0 or 1.  i must be in [0, BitLength).
func (bs BitString) Bit(i int) uint8 {
	if !(0 <= i && i < bs.BitLength) {
		panic("huffman: bit offset out of range")
	}

	return (bs.Packed[i/8] >> uint(7-i%8)) & 1
}

// AppendBit appends one bit (any nonzero bit counts as 1).  The receiver may share its backing array with
// other bit strings only if it was never appended to before being copied; use Clone to be sure.
func (bs *BitString) AppendBit(bit uint8) {
	if bs.BitLength%8 == 0 {
		octet := bs.BitLength / 8
		if octet < len(bs.Packed) {
			bs.Packed = bs.Packed[:octet+1]
			bs.Packed[octet] = 0
		} else {
			bs.Packed = append(bs.Packed, 0)
		}
	}

	if bit != 0 {
		bs.Packed[bs.BitLength/8] |= 1 << uint(7-bs.BitLength%8)
	}
	bs.BitLength++
}

// Append appends all the bits of other.
func (bs *BitString) Append(other BitString) {
	if bs.BitLength%8 == 0 {
		// Aligned: whole octets can be copied.  Trailing bits of other are zero by invariant.
		bs.Packed = append(bs.Packed[:bs.BitLength/8], other.Packed[:other.Bytes()]...)
		bs.BitLength += other.BitLength
		return
	}

	for offset := 0; offset < other.BitLength; {
		packed, n := other.extract(offset, 8)
		for k := 0; k < n; k++ {
			bs.AppendBit((packed >> uint(n-1-k)) & 1)
		}
		offset += n
	}
}

// Bytes returns the number of octets needed to hold the bit string, rounding up.
func (bs BitString) Bytes() int {
	return (bs.BitLength + 7) / 8
}

// Clone returns a copy of bs that shares no storage with it.
func (bs BitString) Clone() BitString {
	packed := make([]uint8, bs.Bytes())
	copy(packed, bs.Packed)
	return BitString{packed, bs.BitLength}
}

// Prefix returns a copy of the first n bits of bs.
func (bs BitString) Prefix(n int) BitString {
	if !(0 <= n && n <= bs.BitLength) {
		panic("huffman: prefix length out of range")
	}

	prefix := BitString{make([]uint8, (n+7)/8), n}
	copy(prefix.Packed, bs.Packed)
	if n%8 != 0 {
		prefix.Packed[n/8] &^= uint8(1)<<uint(8-n%8) - 1
	}
	return prefix
}

// HasPrefix reports whether prefix is a prefix of bs.  Every bit string has the empty prefix.
func (bs BitString) HasPrefix(prefix BitString) bool {
	if prefix.BitLength > bs.BitLength {
		return false
	}

	for offset := 0; offset < prefix.BitLength; offset += 8 {
		a, n := prefix.extract(offset, 8)
		b, _ := bs.extract(offset, n)
		if a != b {
			return false
		}
	}
	return true
}

// Equal reports whether bs and other hold the same bits.
func (bs BitString) Equal(other BitString) bool {
	return bs.BitLength == other.BitLength && bs.HasPrefix(other)
}

// extract extracts req bits starting from offset, where 0 <= req <= 8 and 0 <= offset.  offset may point
// outside the BitString.  The bits are returned right-aligned in packed.
func (bs BitString) extract(offset int, req int) (packed uint8, n int) {
	avail := bs.BitLength - offset
	switch {
	case offset < 0:
		panic("huffman: extract from invalid negative offset")
	case req < 0:
		panic("huffman: extract invalid negative number of bits")
	case 8 < req:
		panic("huffman: extract too many bits")
	case req == 0 || avail <= 0:
		return
	case req < avail:
		n = req
	default:
		n = avail
	}

	// Conversion safety: 0 < n above.
	nu := uint(n)
	octetOffset := offset / 8
	// Conversion safety: 0 <= offset above, so 0 <= offset%8 <= 7.
	shift := uint(8 - offset%8)
	packed = bs.Packed[octetOffset] & (1<<shift - 1)
	if nu <= shift {
		packed >>= shift - nu
		return
	}

	fromNext := nu - shift
	packed <<= fromNext
	packed |= bs.Packed[octetOffset+1] >> (8 - fromNext)
	return
}

// check panics if any of the invariants are invalid for bs.
// validate reports a violation of the BitString invariants as an error wrapping ErrMalformedBits.
func (bs BitString) validate() error {
	switch {
	case !(0 <= bs.BitLength):
		return fmt.Errorf("%w: negative length %d", ErrMalformedBits, bs.BitLength)
	case !(bs.BitLength <= len(bs.Packed)*8):
		return fmt.Errorf("%w: %d bits in %d octets", ErrMalformedBits, bs.BitLength, len(bs.Packed))
	}

	if bs.BitLength%8 != 0 {
		// Conversion safety: 0 < bs.BitLength%8 <= 7.
		shift := uint(8 - bs.BitLength%8)
		lowBits := bs.Packed[bs.BitLength/8] & (uint8(1)<<shift - 1)
		if lowBits != 0 {
			return fmt.Errorf("%w: nonzero padding bits", ErrMalformedBits)
		}
	}
	return nil
}

// check is validate for bit strings built inside this package, where a violation is a defect.
func (bs BitString) check() {
	if err := bs.validate(); err != nil {
		panic(err)
	}
}

// Digits renders the bits as a string of '0' and '1' characters.
func (bs BitString) Digits() string {
	digits := make([]byte, bs.BitLength)
	for i := range digits {
		digits[i] = '0' + bs.Bit(i)
	}
	return string(digits)
}

func (bs BitString) String() string {
	return "#*" + bs.Digits()
}

// ParseBitString parses a string of '0' and '1' characters.  An optional "#*" prefix, as produced by String,
// is accepted.
func ParseBitString(digits string) (BitString, error) {
	if len(digits) >= 2 && digits[:2] == "#*" {
		digits = digits[2:]
	}

	var bs BitString
	bs.Packed = make([]uint8, 0, (len(digits)+7)/8)
	for i := 0; i < len(digits); i++ {
		switch digits[i] {
		case '0':
			bs.AppendBit(0)
		case '1':
			bs.AppendBit(1)
		default:
			return BitString{}, ErrBitSyntax
		}
	}
	return bs, nil
}

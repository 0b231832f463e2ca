// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

// bitWriter accumulates bits into a growing packed buffer, most significant bit first.
type bitWriter struct {
	dst      []byte
	bits     int
	lowAvail int
}

func newBitWriter(sizeHint int) bitWriter {
	return bitWriter{make([]byte, 0, sizeHint), 0, 0}
}

// writeBits appends all of src.
func (bwr *bitWriter) writeBits(src BitString) {
	for offset := 0; offset < src.BitLength; {
		packed, n := src.extract(offset, 8)
		offset += n

		if bwr.lowAvail == 0 {
			bwr.dst = append(bwr.dst, 0)
			bwr.lowAvail = 8
		}

		// Conversion safety: 0 < n <= 8 and 0 < bwr.lowAvail <= 8.
		if n <= bwr.lowAvail {
			bwr.dst[len(bwr.dst)-1] |= packed << uint(bwr.lowAvail-n)
			bwr.lowAvail -= n
		} else {
			spill := n - bwr.lowAvail
			bwr.dst[len(bwr.dst)-1] |= packed >> uint(spill)
			bwr.dst = append(bwr.dst, packed<<uint(8-spill))
			bwr.lowAvail = 8 - spill
		}
		bwr.bits += n
	}
}

func (bwr *bitWriter) bitString() BitString {
	return BitString{bwr.dst, bwr.bits}
}

// Encode concatenates the codeword of each input symbol.  The result holds exactly
// codes.EncodedBits(BuildFrequencyTable(input)) bits.  It returns an *UnknownSymbolError if some symbol has
// no codeword.
func Encode(input []byte, codes *CodeTable) (BitString, error) {
	bwr := newBitWriter(len(input) / 2)
	for si, s := range input {
		if !codes.present[s] {
			return BitString{}, &UnknownSymbolError{s, si}
		}
		bwr.writeBits(codes.codeTable[s])
	}

	result := bwr.bitString()
	result.check()
	return result, nil
}

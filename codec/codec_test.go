// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package codec_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/textpack/huffpack/codec"
)

func TestAvailable(t *testing.T) {
	require.Equal(t, []string{"fixed", "huffman"}, codec.Available())
}

func TestLookupUnknown(t *testing.T) {
	_, err := codec.Lookup("lzw")
	require.ErrorIs(t, err, codec.ErrUnknownCodec)
}

func TestRegisterTwicePanics(t *testing.T) {
	require.Panics(t, func() {
		codec.Register(codec.HuffmanName, nil)
	})
}

func TestBuiltinsRoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		[]byte("AAAA"),
		[]byte("AAABBC"),
		bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 50),
	}

	for _, name := range codec.Available() {
		c, err := codec.Lookup(name)
		require.NoError(t, err)
		require.Equal(t, name, c.Name())

		for _, input := range inputs {
			result, err := c.Compress(input)
			require.NoError(t, err, "%s on %q", name, input)
			require.Equal(t, len(input), result.OriginalLen)

			out, err := c.Decompress(result)
			require.NoError(t, err, "%s on %q", name, input)
			require.True(t, bytes.Equal(input, out), "%s mangled %q into %q", name, input, out)
		}
	}
}

func TestHuffmanBeatsFixedOnSkewedText(t *testing.T) {
	input := bytes.Repeat([]byte("aaaaaaab"), 100)

	h, _ := codec.Lookup(codec.HuffmanName)
	f, _ := codec.Lookup(codec.FixedName)
	hr, err := h.Compress(input)
	require.NoError(t, err)
	fr, err := f.Compress(input)
	require.NoError(t, err)

	require.Equal(t, len(input), hr.Bits.BitLength)
	require.Equal(t, 8*len(input), fr.Bits.BitLength)
}

func TestWrongCodec(t *testing.T) {
	h, _ := codec.Lookup(codec.HuffmanName)
	f, _ := codec.Lookup(codec.FixedName)

	result, err := f.Compress([]byte("abc"))
	require.NoError(t, err)
	_, err = h.Decompress(result)
	require.ErrorIs(t, err, codec.ErrWrongCodec)
}

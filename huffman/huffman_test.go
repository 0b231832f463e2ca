// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman_test

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/textpack/huffpack/huffman"
)

const (
	randSeed   = 0x5a025ca11825a5e7
	iterations = 50
)

var rng *rand.Rand

// randomInput draws up to maxLen symbols from an alphabet of the given size, skewed so that low symbols
// are much more common than high ones.
func randomInput(maxLen, alphabet int) []byte {
	n := rng.Intn(maxLen + 1)
	input := make([]byte, n)
	for i := range input {
		a := rng.Intn(alphabet)
		b := rng.Intn(alphabet)
		if b < a {
			a = b
		}
		input[i] = uint8(a)
	}
	return input
}

func showBinaryOctets(b []byte) string {
	parts := make([]string, len(b))
	for i, x := range b {
		parts[i] = fmt.Sprintf("%08b", x)
	}
	return strings.Join(parts, " ")
}

func compress(t *testing.T, input []byte) (*huffman.Tree, *huffman.CodeTable, huffman.BitString) {
	t.Helper()
	tree, err := huffman.BuildTree(huffman.BuildFrequencyTable(input))
	if err != nil {
		t.Fatalf("building tree for %q: %v", input, err)
	}
	codes, err := huffman.DeriveCodes(tree)
	if err != nil {
		t.Fatalf("deriving codes for %q: %v", input, err)
	}
	bits, err := huffman.Encode(input, codes)
	if err != nil {
		t.Fatalf("encoding %q: %v", input, err)
	}
	return tree, codes, bits
}

func TestEmptyInput(t *testing.T) {
	freqs := huffman.BuildFrequencyTable(nil)
	if freqs.Len() != 0 || freqs.Total() != 0 {
		t.Fatalf("empty input gave %d entries totalling %d", freqs.Len(), freqs.Total())
	}

	tree, err := huffman.BuildTree(freqs)
	if !errors.Is(err, huffman.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got tree %v, err %v", tree, err)
	}

	sess, err := huffman.Compress([]byte{})
	if err != nil {
		t.Fatalf("compressing empty input: %v", err)
	}
	if sess.Bits.BitLength != 0 || sess.Tree != nil {
		t.Fatalf("empty input produced %v with tree %v", sess.Bits, sess.Tree)
	}
	out, err := sess.Decompress()
	if err != nil || len(out) != 0 {
		t.Fatalf("decompressing empty session: %q, %v", out, err)
	}
}

func TestSingleSymbol(t *testing.T) {
	input := []byte("AAAA")
	tree, codes, bits := compress(t, input)

	if leaves := tree.Leaves(); leaves != 1 {
		t.Fatalf("expected one leaf, got %d in %v", leaves, tree)
	}
	if !tree.Single() {
		t.Fatalf("tree %v not reported as single-symbol", tree)
	}

	code, ok := codes.Code('A')
	if !ok || code.Digits() != "0" {
		t.Fatalf("expected codeword 0 for A, got %v (present %v)", code, ok)
	}
	if bits.BitLength != 4 || bits.Bytes() != 1 {
		t.Fatalf("expected 4 bits in 1 byte, got %d bits in %d bytes", bits.BitLength, bits.Bytes())
	}

	out, err := huffman.Decode(bits, tree)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("decoded %q, expected %q", out, input)
	}
}

func TestSingleSymbolCorruptBit(t *testing.T) {
	tree, _, _ := compress(t, []byte("ZZ"))
	bits, _ := huffman.ParseBitString("01")

	_, err := huffman.Decode(bits, tree)
	var corrupt *huffman.CorruptStreamError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected CorruptStreamError, got %v", err)
	}
	if corrupt.Offset != 1 {
		t.Fatalf("expected corruption at offset 1, got %d", corrupt.Offset)
	}
}

func TestKnownSmallExample(t *testing.T) {
	input := []byte("AAABBC")
	tree, codes, bits := compress(t, input)

	expected := map[byte]string{'A': "0", 'C': "10", 'B': "11"}
	for s, digits := range expected {
		code, ok := codes.Code(s)
		if !ok || code.Digits() != digits {
			t.Errorf("codeword for %c: got %v, expected %s", s, code, digits)
		}
	}

	lengths := codes.Lengths()
	if !(lengths['A'] <= lengths['B'] && lengths['B'] <= lengths['C']) {
		t.Errorf("lengths out of order: %v", lengths)
	}

	total := 3*lengths['A'] + 2*lengths['B'] + 1*lengths['C']
	if bits.BitLength != total {
		t.Errorf("encoded %d bits, expected %d", bits.BitLength, total)
	}
	if bits.Digits() != "000111110" {
		t.Errorf("encoded %v", bits)
	}
	if uint64(bits.BitLength) != codes.EncodedBits(huffman.BuildFrequencyTable(input)) {
		t.Errorf("EncodedBits disagrees with Encode")
	}

	out, err := huffman.Decode(bits, tree)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("decoded %q, expected %q", out, input)
	}
}

func TestLoopback(t *testing.T) {
	rng = rand.New(rand.NewSource(randSeed))

	for iteration := 0; iteration < iterations; iteration++ {
		alphabet := 1 + rng.Intn(256)
		dataIn := randomInput(2000, alphabet)

		sess, err := huffman.Compress(dataIn)
		if err != nil {
			t.Fatalf("iteration #%d: compress: %v", iteration, err)
		}

		dataOut, err := sess.Decompress()
		if err != nil {
			t.Fatalf("iteration #%d: decompress: %v", iteration, err)
		}
		if !bytes.Equal(dataOut, dataIn) {
			t.Logf("huffed: %s", showBinaryOctets(sess.Bits.Packed))
			t.Fatalf("iteration #%d failed to loop around %d -> %d -> %d bytes of data",
				iteration, len(dataIn), sess.Bits.Bytes(), len(dataOut))
		}
	}
}

func TestAllSymbolsOnce(t *testing.T) {
	dataIn := make([]byte, 256)
	for i := range dataIn {
		dataIn[i] = uint8(i)
	}

	tree, codes, bits := compress(t, dataIn)
	if codes.Len() != 256 {
		t.Fatalf("expected 256 codewords, got %d", codes.Len())
	}
	// Equal frequencies over 256 symbols give a perfectly balanced tree.
	if depth := tree.Depth(); depth != 8 {
		t.Fatalf("expected depth 8, got %d", depth)
	}
	if bits.BitLength != 256*8 {
		t.Fatalf("expected %d bits, got %d", 256*8, bits.BitLength)
	}

	dataOut, err := huffman.Decode(bits, tree)
	if err != nil || !bytes.Equal(dataOut, dataIn) {
		t.Fatalf("loopback of all symbols failed: %v", err)
	}
}

func TestPrefixFree(t *testing.T) {
	rng = rand.New(rand.NewSource(randSeed))

	for iteration := 0; iteration < iterations; iteration++ {
		dataIn := randomInput(4000, 1+rng.Intn(256))
		if len(dataIn) == 0 {
			continue
		}
		_, codes, _ := compress(t, dataIn)

		if err := codes.CheckPrefixFree(); err != nil {
			t.Fatalf("iteration #%d: %v", iteration, err)
		}

		var all []huffman.BitString
		codes.Each(func(_ huffman.Symbol, code huffman.BitString) {
			all = append(all, code)
		})
		for i := range all {
			for j := range all {
				if i != j && all[j].HasPrefix(all[i]) {
					t.Fatalf("iteration #%d: %v prefixes %v", iteration, all[i], all[j])
				}
			}
		}
	}
}

func TestLengthsFollowFrequencies(t *testing.T) {
	rng = rand.New(rand.NewSource(randSeed))

	for iteration := 0; iteration < iterations; iteration++ {
		dataIn := randomInput(4000, 2+rng.Intn(255))
		if len(dataIn) == 0 {
			continue
		}
		freqs := huffman.BuildFrequencyTable(dataIn)
		_, codes, _ := compress(t, dataIn)
		lengths := codes.Lengths()

		freqs.Each(func(a huffman.Symbol, fa uint64) {
			freqs.Each(func(b huffman.Symbol, fb uint64) {
				if fa > fb && lengths[a] > lengths[b] {
					t.Fatalf("iteration #%d: 0x%02x (freq %d) has %d bits but 0x%02x (freq %d) has %d",
						iteration, a, fa, lengths[a], b, fb, lengths[b])
				}
			})
		})
	}
}

func TestDeterministic(t *testing.T) {
	dataIn := []byte("deterministic-test-abc123 with ties: aabbccddeeff")
	_, _, first := compress(t, dataIn)
	for i := 0; i < 5; i++ {
		_, _, again := compress(t, dataIn)
		if !again.Equal(first) {
			t.Fatalf("encoding differs between runs: %v vs %v", first, again)
		}
	}
}

func TestTruncatedStream(t *testing.T) {
	dataIn := []byte("AAABBC")
	tree, codes, bits := compress(t, dataIn)

	boundaries := map[int]bool{}
	offset := 0
	for _, s := range dataIn {
		code, _ := codes.Code(s)
		offset += code.BitLength
		boundaries[offset] = true
	}

	for n := 1; n < bits.BitLength; n++ {
		out, err := huffman.Decode(bits.Prefix(n), tree)
		if boundaries[n] {
			if err != nil {
				t.Errorf("prefix of %d bits ends on a codeword boundary but failed: %v", n, err)
			}
			continue
		}

		var truncated *huffman.TruncatedStreamError
		if !errors.As(err, &truncated) {
			t.Errorf("prefix of %d bits: expected TruncatedStreamError, got %q, %v", n, out, err)
			continue
		}
		if out != nil {
			t.Errorf("prefix of %d bits returned partial output %q", n, out)
		}
		if truncated.BitsConsumed != n {
			t.Errorf("prefix of %d bits reported %d consumed", n, truncated.BitsConsumed)
		}
	}
}

func TestMalformedBits(t *testing.T) {
	tree, _, _ := compress(t, []byte("AAABBC"))
	sess, err := huffman.Compress([]byte("AAABBC"))
	if err != nil {
		t.Fatalf("compressing: %v", err)
	}
	empty, err := huffman.Compress(nil)
	if err != nil {
		t.Fatalf("compressing empty input: %v", err)
	}

	malformed := []huffman.BitString{
		{Packed: []byte{0xff}, BitLength: 9},
		{Packed: []byte{0x01}, BitLength: 4},
		{Packed: nil, BitLength: -1},
	}
	for _, bits := range malformed {
		if _, err := huffman.Decode(bits, tree); !errors.Is(err, huffman.ErrMalformedBits) {
			t.Errorf("Decode(%v): expected ErrMalformedBits, got %v", bits.Packed, err)
		}
		if _, err := sess.DecompressBits(bits); !errors.Is(err, huffman.ErrMalformedBits) {
			t.Errorf("DecompressBits(%v): expected ErrMalformedBits, got %v", bits.Packed, err)
		}
		if _, err := empty.DecompressBits(bits); !errors.Is(err, huffman.ErrMalformedBits) {
			t.Errorf("empty DecompressBits(%v): expected ErrMalformedBits, got %v", bits.Packed, err)
		}
	}
}

func TestUnknownSymbol(t *testing.T) {
	_, codes, _ := compress(t, []byte("abcabc"))

	_, err := huffman.Encode([]byte("abcd"), codes)
	var unknown *huffman.UnknownSymbolError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownSymbolError, got %v", err)
	}
	if unknown.Symbol != 'd' || unknown.Offset != 3 {
		t.Fatalf("wrong details in %v", unknown)
	}
}

func TestFrequencyTable(t *testing.T) {
	freqs := huffman.BuildFrequencyTable([]byte("hello, world"))

	if freqs.Total() != 12 {
		t.Errorf("expected total 12, got %d", freqs.Total())
	}
	if count, ok := freqs.Count('l'); !ok || count != 3 {
		t.Errorf("expected 3 l, got %d (%v)", count, ok)
	}
	if _, ok := freqs.Count('z'); ok {
		t.Errorf("z reported present")
	}
	if got := string(freqs.Symbols()); got != " ,dehlorw" {
		t.Errorf("symbols %q", got)
	}
	if freqs.Map()['o'] != 2 {
		t.Errorf("map lost o")
	}

	same, err := huffman.NewFrequencyTable(freqs.Map())
	if err != nil {
		t.Fatalf("NewFrequencyTable: %v", err)
	}
	if same.Len() != freqs.Len() || same.Total() != freqs.Total() {
		t.Errorf("NewFrequencyTable round trip: %d/%d vs %d/%d",
			same.Len(), same.Total(), freqs.Len(), freqs.Total())
	}
}

func TestLargeFrequencies(t *testing.T) {
	// Frequencies whose difference overflows int must still order correctly.
	freqs, err := huffman.NewFrequencyTable(map[huffman.Symbol]uint64{
		'a': 1 << 62,
		'b': 1,
		'c': 1 << 61,
		'd': 2,
	})
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	tree, err := huffman.BuildTree(freqs)
	if err != nil {
		t.Fatalf("building tree: %v", err)
	}
	codes, err := huffman.DeriveCodes(tree)
	if err != nil {
		t.Fatalf("deriving codes: %v", err)
	}

	lengths := codes.Lengths()
	if !(lengths['a'] <= lengths['c'] && lengths['c'] <= lengths['d'] && lengths['d'] <= lengths['b']) {
		t.Fatalf("lengths out of order: %v", lengths)
	}
}

func TestCountOverflow(t *testing.T) {
	_, err := huffman.NewFrequencyTable(map[huffman.Symbol]uint64{
		'a': ^uint64(0),
		'b': 1,
	})
	if !errors.Is(err, huffman.ErrCountOverflow) {
		t.Fatalf("expected ErrCountOverflow, got %v", err)
	}

	// The largest sum that fits is accepted.
	freqs, err := huffman.NewFrequencyTable(map[huffman.Symbol]uint64{
		'a': ^uint64(0) - 1,
		'b': 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if freqs.Total() != ^uint64(0) {
		t.Fatalf("total %d", freqs.Total())
	}
}

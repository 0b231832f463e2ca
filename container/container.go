// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package container stores a compressed result in a self-describing file.

The core Huffman package never serializes its tree; a file written here carries the frequency table instead.
Tree construction is deterministic, so rebuilding the tree from the stored table reproduces the codewords
exactly.  Layout:

	magic "HPK1"
	codec id             1 octet (1 = huffman, 2 = fixed)
	original length      uvarint
	bit length           uvarint
	xxhash64 of original 8 octets, big-endian
	frequency table      huffman only; bit-packed, padded to an octet:
	                       9-bit entry count
	                       per entry: 8-bit symbol, 7-bit width w, w-bit count
	payload              ceil(bit length / 8) octets
*/
package container

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"

	"github.com/cespare/xxhash/v2"
	"github.com/icza/bitio"
	"github.com/op/go-logging"

	"github.com/textpack/huffpack/codec"
	"github.com/textpack/huffpack/fixed"
	"github.com/textpack/huffpack/huffman"
)

var log = logging.MustGetLogger("huffpack/container")

const (
	magic = "HPK1"

	codecIdHuffman = 1
	codecIdFixed   = 2

	countBits = 9
	widthBits = 7

	// MaxPayload bounds the payload a reader is willing to allocate.
	MaxPayload = 1 << 32
)

var (
	ErrBadMagic       = errors.New("container: not a huffpack file")
	ErrUnknownCodec   = errors.New("container: unknown codec id")
	ErrTableSyntax    = errors.New("container: malformed frequency table")
	ErrTooLarge       = errors.New("container: payload too large")
	ErrChecksum       = errors.New("container: checksum mismatch")
	ErrLengthMismatch = errors.New("container: decoded length differs from header")
)

// File is the in-memory form of a container.
type File struct {
	Codec       string
	OriginalLen uint64
	Checksum    uint64
	Freqs       *huffman.FrequencyTable
	Tree        *huffman.Tree
	Bits        huffman.BitString
}

// Pack builds a File from a codec result and the original input it was produced from.
func Pack(result *codec.Result, original []byte) (*File, error) {
	switch result.Codec {
	case codec.HuffmanName, codec.FixedName:
	default:
		return nil, ErrUnknownCodec
	}

	freqs := result.Freqs
	if freqs == nil {
		freqs = huffman.BuildFrequencyTable(original)
	}
	return &File{
		Codec:       result.Codec,
		OriginalLen: uint64(len(original)),
		Checksum:    xxhash.Sum64(original),
		Freqs:       freqs,
		Tree:        result.Tree,
		Bits:        result.Bits,
	}, nil
}

// Result converts the file back into a codec result suitable for codec.Codec.Decompress.
func (f *File) Result() *codec.Result {
	return &codec.Result{
		Codec:       f.Codec,
		OriginalLen: int(f.OriginalLen),
		Bits:        f.Bits,
		Tree:        f.Tree,
		Freqs:       f.Freqs,
	}
}

// Unpack decodes the payload and checks it against the stored length and checksum.
func (f *File) Unpack() ([]byte, error) {
	c, err := codec.Lookup(f.Codec)
	if err != nil {
		return nil, err
	}

	out, err := c.Decompress(f.Result())
	if err != nil {
		return nil, err
	}

	if uint64(len(out)) != f.OriginalLen {
		return nil, ErrLengthMismatch
	}
	if xxhash.Sum64(out) != f.Checksum {
		return nil, ErrChecksum
	}
	return out, nil
}

// Write serializes f to w.
func Write(w io.Writer, f *File) error {
	var id byte
	switch f.Codec {
	case codec.HuffmanName:
		id = codecIdHuffman
	case codec.FixedName:
		id = codecIdFixed
	default:
		return ErrUnknownCodec
	}

	header := make([]byte, 0, 32)
	header = append(header, magic...)
	header = append(header, id)
	header = binary.AppendUvarint(header, f.OriginalLen)
	header = binary.AppendUvarint(header, uint64(f.Bits.BitLength))
	header = binary.BigEndian.AppendUint64(header, f.Checksum)

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(header); err != nil {
		return err
	}

	if id == codecIdHuffman {
		if err := MarshalFrequencies(bw, f.Freqs); err != nil {
			return err
		}
	}

	if _, err := bw.Write(f.Bits.Packed[:f.Bits.Bytes()]); err != nil {
		return err
	}

	log.Debugf("wrote %s container: %d bytes in, %d bits payload", f.Codec, f.OriginalLen, f.Bits.BitLength)
	return bw.Flush()
}

// Read parses a container from r.  For Huffman files the tree is rebuilt from the stored frequencies.
func Read(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)

	head := make([]byte, len(magic)+1)
	if _, err := io.ReadFull(br, head); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrBadMagic
		}
		return nil, err
	}
	if string(head[:len(magic)]) != magic {
		return nil, ErrBadMagic
	}

	f := &File{}
	switch head[len(magic)] {
	case codecIdHuffman:
		f.Codec = codec.HuffmanName
	case codecIdFixed:
		f.Codec = codec.FixedName
	default:
		return nil, ErrUnknownCodec
	}

	var err error
	if f.OriginalLen, err = binary.ReadUvarint(br); err != nil {
		return nil, fmt.Errorf("container: reading original length: %w", err)
	}
	bitLength, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("container: reading bit length: %w", err)
	}
	if bitLength/8 > MaxPayload {
		return nil, ErrTooLarge
	}

	var sum [8]byte
	if _, err := io.ReadFull(br, sum[:]); err != nil {
		return nil, fmt.Errorf("container: reading checksum: %w", err)
	}
	f.Checksum = binary.BigEndian.Uint64(sum[:])

	if f.Codec == codec.HuffmanName {
		if f.Freqs, err = UnmarshalFrequencies(br); err != nil {
			return nil, err
		}
		if f.Freqs.Total() != f.OriginalLen {
			return nil, ErrTableSyntax
		}
		if f.Freqs.Len() > 0 {
			if f.Tree, err = huffman.BuildTree(f.Freqs); err != nil {
				return nil, err
			}
		}
	} else if bitLength != uint64(fixed.EncodedBits(int64(f.OriginalLen))) {
		return nil, ErrLengthMismatch
	}

	f.Bits.BitLength = int(bitLength)
	f.Bits.Packed = make([]byte, f.Bits.Bytes())
	if _, err := io.ReadFull(br, f.Bits.Packed); err != nil {
		return nil, fmt.Errorf("container: reading payload: %w", err)
	}
	if f.Bits.BitLength%8 != 0 {
		// Keep the BitString invariant even if the writer left junk in the padding.
		last := len(f.Bits.Packed) - 1
		f.Bits.Packed[last] &^= uint8(1)<<uint(8-f.Bits.BitLength%8) - 1
	}

	return f, nil
}

// MarshalFrequencies writes freqs in bit-packed form, padded to a whole octet.
func MarshalFrequencies(w io.Writer, freqs *huffman.FrequencyTable) error {
	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)

	if err := bw.WriteBits(uint64(freqs.Len()), countBits); err != nil {
		return err
	}
	var werr error
	freqs.Each(func(s huffman.Symbol, count uint64) {
		if werr != nil {
			return
		}
		width := uint8(bits.Len64(count))
		if werr = bw.WriteBits(uint64(s), 8); werr != nil {
			return
		}
		if werr = bw.WriteBits(uint64(width), widthBits); werr != nil {
			return
		}
		werr = bw.WriteBits(count, width)
	})
	if werr != nil {
		return werr
	}
	if err := bw.Close(); err != nil {
		return err
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// UnmarshalFrequencies reads a table written by MarshalFrequencies.  It consumes whole octets only.
func UnmarshalFrequencies(r io.Reader) (*huffman.FrequencyTable, error) {
	br := bitio.NewReader(r)

	entries, err := br.ReadBits(countBits)
	if err != nil {
		return nil, fmt.Errorf("container: reading table size: %w", err)
	}
	if entries > 256 {
		return nil, ErrTableSyntax
	}

	counts := make(map[huffman.Symbol]uint64, entries)
	var total uint64
	for i := uint64(0); i < entries; i++ {
		s, err := br.ReadBits(8)
		if err != nil {
			return nil, fmt.Errorf("container: reading table entry %d: %w", i, err)
		}
		width, err := br.ReadBits(widthBits)
		if err != nil {
			return nil, fmt.Errorf("container: reading table entry %d: %w", i, err)
		}
		if width == 0 || width > 64 {
			return nil, ErrTableSyntax
		}
		count, err := br.ReadBits(uint8(width))
		if err != nil {
			return nil, fmt.Errorf("container: reading table entry %d: %w", i, err)
		}

		if _, dup := counts[huffman.Symbol(s)]; dup {
			return nil, ErrTableSyntax
		}
		if total+count < total {
			return nil, ErrTableSyntax
		}
		total += count
		counts[huffman.Symbol(s)] = count
	}

	freqs, err := huffman.NewFrequencyTable(counts)
	if err != nil {
		return nil, ErrTableSyntax
	}
	return freqs, nil
}

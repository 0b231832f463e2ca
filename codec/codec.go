// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package codec gives the Huffman and fixed-length codecs a common interface and a registry by name, so that
benchmarks, the command-line tool and the HTTP service can treat them uniformly.

The built-in codecs "huffman" and "fixed" are registered at initialization time.  Attempting to register the
same codec name twice panics.
*/
package codec

import (
	"errors"
	"sort"
	"sync"

	"github.com/op/go-logging"

	"github.com/textpack/huffpack/huffman"
)

var log = logging.MustGetLogger("huffpack/codec")

var (
	ErrUnknownCodec = errors.New("codec: no codec registered under that name")
	ErrWrongCodec   = errors.New("codec: result was produced by a different codec")
)

// Result is the output of one Compress call.  Tree, Codes and Freqs are only set by codecs that use them.
type Result struct {
	Codec       string
	OriginalLen int
	Bits        huffman.BitString
	Tree        *huffman.Tree
	Codes       *huffman.CodeTable
	Freqs       *huffman.FrequencyTable
}

// Codec compresses and decompresses whole in-memory inputs.
type Codec interface {
	Name() string
	Compress(input []byte) (*Result, error)
	Decompress(result *Result) ([]byte, error)
}

// Constructor builds a codec.  Codecs are cheap and hold no per-input state, so one may be shared.
type Constructor func() Codec

var registeredCodecs = make(map[string]Constructor)
var registeredCodecMutex sync.Mutex

// Register registers constructor under name.  It panics if the name is already taken.
func Register(name string, constructor Constructor) {
	registeredCodecMutex.Lock()
	defer registeredCodecMutex.Unlock()
	_, already := registeredCodecs[name]
	if already {
		panic("codec: registering codec '" + name + "' twice")
	}

	registeredCodecs[name] = constructor
}

// Available returns the registered codec names in sorted order.
func Available() []string {
	registeredCodecMutex.Lock()
	defer registeredCodecMutex.Unlock()

	names := []string{}
	for name := range registeredCodecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup constructs the codec registered under name.
func Lookup(name string) (Codec, error) {
	registeredCodecMutex.Lock()
	constructor, ok := registeredCodecs[name]
	registeredCodecMutex.Unlock()

	if !ok {
		return nil, ErrUnknownCodec
	}
	return constructor(), nil
}

func init() {
	Register(HuffmanName, func() Codec { return huffmanCodec{} })
	Register(FixedName, func() Codec { return fixedCodec{} })
}

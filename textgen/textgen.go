// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package textgen generates random benchmark text over a small alphabet.

An alphabet is written as a sequence of single characters and ranges, e.g. "A-Z" or "a-z0-9 ".  Symbols keep
the order in which they are first named.  A '-' that is first or last stands for itself.
*/
package textgen

import (
	"errors"
	"math/rand"
	"os"

	"github.com/op/go-logging"

	"github.com/textpack/huffpack/dist"
)

var log = logging.MustGetLogger("huffpack/textgen")

const (
	DistUniform     = "uniform"
	DistExponential = "exponential"

	// DefaultSkew makes the first symbol of the alphabet about e^4 ≈ 55 times as likely as the last.
	DefaultSkew = 4.0
)

var (
	ErrEmptyAlphabet  = errors.New("textgen: empty alphabet")
	ErrBadRange       = errors.New("textgen: alphabet range runs backwards")
	ErrNonASCII       = errors.New("textgen: alphabet must be single-octet characters")
	ErrUnknownDist    = errors.New("textgen: unknown distribution")
	ErrNegativeLength = errors.New("textgen: negative length")
)

// Options selects what Generate produces.  The zero value draws uniformly from A-Z with seed 0.
type Options struct {
	Alphabet     string
	Distribution string
	Skew         float64
	Seed         int64

	// Source overrides Seed when set.
	Source *rand.Rand
}

// ExpandAlphabet turns an alphabet description into the list of symbols it names.
func ExpandAlphabet(desc string) ([]byte, error) {
	for i := 0; i < len(desc); i++ {
		if desc[i] >= 0x80 {
			return nil, ErrNonASCII
		}
	}

	var seen [256]bool
	var symbols []byte
	add := func(s byte) {
		if !seen[s] {
			seen[s] = true
			symbols = append(symbols, s)
		}
	}

	for i := 0; i < len(desc); i++ {
		if i+2 < len(desc) && desc[i+1] == '-' {
			lo, hi := desc[i], desc[i+2]
			if lo > hi {
				return nil, ErrBadRange
			}
			for s := int(lo); s <= int(hi); s++ {
				add(byte(s))
			}
			i += 2
			continue
		}
		add(desc[i])
	}

	if len(symbols) == 0 {
		return nil, ErrEmptyAlphabet
	}
	return symbols, nil
}

// Generate returns n random symbols drawn from the alphabet in opts.
func Generate(n int, opts Options) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}

	desc := opts.Alphabet
	if desc == "" {
		desc = "A-Z"
	}
	alphabet, err := ExpandAlphabet(desc)
	if err != nil {
		return nil, err
	}

	source := opts.Source
	if source == nil {
		source = rand.New(rand.NewSource(opts.Seed))
	}

	var ix dist.Index
	switch opts.Distribution {
	case "", DistUniform:
		ix = dist.NewUniformIndex(len(alphabet), source)
	case DistExponential:
		skew := opts.Skew
		if skew == 0 {
			skew = DefaultSkew
		}
		ix = dist.NewExponentialIndex(len(alphabet), skew, source)
	default:
		return nil, ErrUnknownDist
	}

	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[ix.Rand()]
	}
	return out, nil
}

// SaveFile writes content to path, replacing any existing file.
func SaveFile(path string, content []byte) error {
	if err := os.WriteFile(path, content, 0644); err != nil {
		return err
	}

	log.Infof("generated %s: %d characters", path, len(content))
	return nil
}

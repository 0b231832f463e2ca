// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ./LICENSE.md.

/*
Package huffpack compares Huffman coding against fixed-length coding on text.

The work is split across subpackages.  huffman holds the core: frequency counting, tree construction, code
derivation, encoding and decoding.  fixed holds the eight-bit baseline.  codec puts both behind one interface.
container stores a result in a file.  stats derives sizes and ratios.  textgen and dist generate benchmark
input.  bench runs the comparison and renders its report.  service exposes the codecs over HTTP.  The
command-line tool lives in cmd/huffpack.
*/
package huffpack

// LogModules names the go-logging modules used by this library, for setting levels individually.
var LogModules = []string{
	"huffpack/bench",
	"huffpack/codec",
	"huffpack/config",
	"huffpack/container",
	"huffpack/service",
	"huffpack/textgen",
}

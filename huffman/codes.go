// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"fmt"
	"sort"
	"strings"
)

// CodeTable maps each symbol of one input to its codeword.  The codewords are prefix-free and each one is as
// long as its symbol's depth in the tree it was derived from.
type CodeTable struct {
	codeTable [totalSymbols]BitString
	present   [totalSymbols]bool
	entries   int
}

// DeriveCodes walks tree depth first, appending 0 for each left edge and 1 for each right edge, and records
// the accumulated bits at each leaf.  It returns a *DegenerateTreeError if an internal node is missing a
// child anywhere other than the root of a single-symbol tree.
func DeriveCodes(tree *Tree) (*CodeTable, error) {
	ct := &CodeTable{}
	if err := ct.walk(tree.root, BitString{}, 0, true); err != nil {
		return nil, err
	}
	return ct, nil
}

func (ct *CodeTable) walk(node *Node, prefix BitString, depth int, atRoot bool) error {
	if node.Leaf() {
		ct.codeTable[node.Symbol] = prefix
		ct.present[node.Symbol] = true
		ct.entries++
		return nil
	}

	switch {
	case node.Left == nil:
		return &DegenerateTreeError{depth}
	case node.Right == nil:
		if !(atRoot && node.Left.Leaf()) {
			return &DegenerateTreeError{depth}
		}
	}

	left := prefix.Clone()
	left.AppendBit(0)
	if err := ct.walk(node.Left, left, depth+1, false); err != nil {
		return err
	}

	if node.Right != nil {
		right := prefix.Clone()
		right.AppendBit(1)
		if err := ct.walk(node.Right, right, depth+1, false); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of symbols with codewords.
func (ct *CodeTable) Len() int {
	return ct.entries
}

// Code returns the codeword for s, and whether s has one.
func (ct *CodeTable) Code(s Symbol) (BitString, bool) {
	return ct.codeTable[s], ct.present[s]
}

// Symbols returns the symbols with codewords, in ascending order.
func (ct *CodeTable) Symbols() []Symbol {
	symbols := make([]Symbol, 0, ct.entries)
	ct.Each(func(s Symbol, _ BitString) {
		symbols = append(symbols, s)
	})
	return symbols
}

// Each calls fn for each codeword, in ascending symbol order.
func (ct *CodeTable) Each(fn func(s Symbol, code BitString)) {
	for i := 0; i < totalSymbols; i++ {
		if ct.present[i] {
			fn(Symbol(i), ct.codeTable[i])
		}
	}
}

// Lengths returns the codeword length of every symbol with a codeword.
func (ct *CodeTable) Lengths() map[Symbol]int {
	lengths := make(map[Symbol]int, ct.entries)
	ct.Each(func(s Symbol, code BitString) {
		lengths[s] = code.BitLength
	})
	return lengths
}

// EncodedBits returns the number of bits Encode would produce for an input with the given frequencies.
func (ct *CodeTable) EncodedBits(freq *FrequencyTable) uint64 {
	var total uint64
	freq.Each(func(s Symbol, count uint64) {
		total += count * uint64(ct.codeTable[s].BitLength)
	})
	return total
}

// CheckPrefixFree returns an error naming the first pair of symbols where one codeword is a prefix of the
// other.
func (ct *CodeTable) CheckPrefixFree() error {
	type entry struct {
		symbol Symbol
		digits string
	}

	var entries []entry
	ct.Each(func(s Symbol, code BitString) {
		entries = append(entries, entry{s, code.Digits()})
	})

	// After sorting, any codeword that prefixes another sorts immediately before some codeword it prefixes.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].digits < entries[j].digits
	})
	for i := 1; i < len(entries); i++ {
		if strings.HasPrefix(entries[i].digits, entries[i-1].digits) {
			return fmt.Errorf("huffman: codeword of 0x%02x (%s) prefixes codeword of 0x%02x (%s)",
				entries[i-1].symbol, entries[i-1].digits, entries[i].symbol, entries[i].digits)
		}
	}
	return nil
}

func (ct *CodeTable) String() string {
	var parts []string
	ct.Each(func(s Symbol, code BitString) {
		parts = append(parts, fmt.Sprintf("\t%02x: %v\n", s, code))
	})
	return "CODES{\n" + strings.Join(parts, "") + "}"
}

// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

// FrequencyTable counts the occurrences of each symbol in one input.  Only symbols that occur are entries;
// there are never zero counts.  A FrequencyTable is not modified after construction.
type FrequencyTable struct {
	counts  [totalSymbols]uint64
	present [totalSymbols]bool
	entries int
	total   uint64
}

// BuildFrequencyTable scans input once and counts each symbol.  Empty input gives an empty table.
func BuildFrequencyTable(input []byte) *FrequencyTable {
	ft := &FrequencyTable{}
	for _, s := range input {
		ft.counts[s]++
	}

	for s, count := range ft.counts {
		if count != 0 {
			ft.present[s] = true
			ft.entries++
			ft.total += count
		}
	}
	return ft
}

// NewFrequencyTable builds a table from explicit counts.  Symbols mapped to zero are dropped.  If the counts
// sum past the range of uint64, it returns ErrCountOverflow.
func NewFrequencyTable(counts map[Symbol]uint64) (*FrequencyTable, error) {
	ft := &FrequencyTable{}
	for s, count := range counts {
		if count == 0 {
			continue
		}
		if ft.total+count < ft.total {
			return nil, ErrCountOverflow
		}
		ft.counts[s] = count
		ft.present[s] = true
		ft.entries++
		ft.total += count
	}
	return ft, nil
}

// Len returns the number of distinct symbols.
func (ft *FrequencyTable) Len() int {
	return ft.entries
}

// Total returns the sum of all counts, which is the length of the input.
func (ft *FrequencyTable) Total() uint64 {
	return ft.total
}

// Count returns the number of occurrences of s, and whether s occurred at all.
func (ft *FrequencyTable) Count(s Symbol) (uint64, bool) {
	return ft.counts[s], ft.present[s]
}

// Symbols returns the symbols present, in ascending order.
func (ft *FrequencyTable) Symbols() []Symbol {
	symbols := make([]Symbol, 0, ft.entries)
	ft.Each(func(s Symbol, _ uint64) {
		symbols = append(symbols, s)
	})
	return symbols
}

// Each calls fn for each entry, in ascending symbol order.
func (ft *FrequencyTable) Each(fn func(s Symbol, count uint64)) {
	for i := 0; i < totalSymbols; i++ {
		if ft.present[i] {
			fn(Symbol(i), ft.counts[i])
		}
	}
}

// Map returns the entries as a fresh map.
func (ft *FrequencyTable) Map() map[Symbol]uint64 {
	result := make(map[Symbol]uint64, ft.entries)
	ft.Each(func(s Symbol, count uint64) {
		result[s] = count
	})
	return result
}

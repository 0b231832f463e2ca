// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

// Decode walks tree one bit at a time, going left on 0 and right on 1, and emits a symbol and returns to
// the root at each leaf.  tree must be the tree whose codes produced bits.
//
// If the bits run out anywhere but at the root, Decode returns a *TruncatedStreamError and no output.  A
// bit selecting a missing branch yields a *CorruptStreamError.  A bits value that breaks the BitString
// invariants yields an error wrapping ErrMalformedBits.
func Decode(bits BitString, tree *Tree) ([]byte, error) {
	if err := bits.validate(); err != nil {
		return nil, err
	}

	root := tree.root
	dst := make([]byte, 0, bits.BitLength/2+1)
	cursor := root
	for offset := 0; offset < bits.BitLength; {
		packed, n := bits.extract(offset, 8)
		for k := n - 1; k >= 0; k-- {
			if (packed>>uint(k))&1 == 0 {
				cursor = cursor.Left
			} else {
				cursor = cursor.Right
			}

			if cursor == nil {
				return nil, &CorruptStreamError{offset + n - 1 - k}
			}
			if cursor.Leaf() {
				dst = append(dst, cursor.Symbol)
				cursor = root
			}
		}
		offset += n
	}

	if cursor != root {
		return nil, &TruncatedStreamError{bits.BitLength, len(dst)}
	}
	return dst, nil
}

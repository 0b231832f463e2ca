// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"container/heap"
	"fmt"
	"strings"
)

// Node is one node of a Huffman tree.  A leaf has no children and carries a symbol; an internal node
// exclusively owns its children and carries the sum of their frequencies.  Nodes are not modified after
// construction.
type Node struct {
	Freq        uint64
	Symbol      Symbol
	Left, Right *Node

	// seq orders nodes of equal frequency by creation.
	seq int
}

// Leaf reports whether n is a leaf.
func (n *Node) Leaf() bool {
	return n.Left == nil && n.Right == nil
}

func (n *Node) String() string {
	if n == nil {
		return "-"
	}
	if n.Leaf() {
		return fmt.Sprintf("@%02x:%d", n.Symbol, n.Freq)
	}
	return fmt.Sprintf("(%d %v %v)", n.Freq, n.Left, n.Right)
}

// Tree is the Huffman tree for one input.  It is immutable and may be shared between the encoding and
// decoding of the same input.
//
// When the input has exactly one distinct symbol, the root is a synthetic internal node whose only child is
// Left, so that the symbol gets the one-bit codeword 0.
type Tree struct {
	root *Node
}

// nodeQueue is a min-heap by (Freq, seq).
type nodeQueue []*Node

func (q nodeQueue) Len() int {
	return len(q)
}

func (q nodeQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.Freq != b.Freq {
		return a.Freq < b.Freq
	}
	return a.seq < b.seq
}

func (q nodeQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *nodeQueue) Push(x interface{}) {
	*q = append(*q, x.(*Node))
}

func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

// BuildTree builds the Huffman tree for freq by repeatedly merging the two lowest-frequency nodes.  The
// first node removed becomes the left child.  Ties are broken by creation order, with leaves created in
// ascending symbol order, so the same table always yields the same tree.  It returns ErrEmptyInput if freq
// has no entries.
func BuildTree(freq *FrequencyTable) (*Tree, error) {
	if freq.Len() == 0 {
		return nil, ErrEmptyInput
	}

	seq := 0
	queue := make(nodeQueue, 0, freq.Len())
	freq.Each(func(s Symbol, count uint64) {
		queue = append(queue, &Node{Freq: count, Symbol: s, seq: seq})
		seq++
	})
	heap.Init(&queue)

	if queue.Len() == 1 {
		leaf := queue[0]
		return &Tree{&Node{Freq: leaf.Freq, Left: leaf, seq: seq}}, nil
	}

	for queue.Len() > 1 {
		left := heap.Pop(&queue).(*Node)
		right := heap.Pop(&queue).(*Node)
		heap.Push(&queue, &Node{
			Freq:  left.Freq + right.Freq,
			Left:  left,
			Right: right,
			seq:   seq,
		})
		seq++
	}

	return &Tree{queue[0]}, nil
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Single reports whether t was built from exactly one distinct symbol.
func (t *Tree) Single() bool {
	return t.root.Right == nil && t.root.Left != nil && t.root.Left.Leaf()
}

// Depth returns the length of the longest root-to-leaf path.
func (t *Tree) Depth() int {
	var walk func(n *Node) int
	walk = func(n *Node) int {
		if n == nil || n.Leaf() {
			return 0
		}
		l, r := walk(n.Left), walk(n.Right)
		if l < r {
			l = r
		}
		return l + 1
	}
	return walk(t.root)
}

// Leaves returns the number of leaves, which is the number of distinct symbols.
func (t *Tree) Leaves() int {
	var walk func(n *Node) int
	walk = func(n *Node) int {
		switch {
		case n == nil:
			return 0
		case n.Leaf():
			return 1
		default:
			return walk(n.Left) + walk(n.Right)
		}
	}
	return walk(t.root)
}

func (t *Tree) String() string {
	var sb strings.Builder
	sb.WriteString("TREE")
	sb.WriteString(t.root.String())
	return sb.String()
}

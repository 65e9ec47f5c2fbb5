// Package trie builds the prefix tree that backs generated matchers.
//
// A Node maps byte sequences to payload expressions. Keys that share a
// prefix share the nodes along that prefix, and a key that is a prefix
// of another key simply marks a value on an interior node. The tree is
// built once, handed to a compiler, and discarded; it is not safe for
// concurrent mutation.
package trie

import (
	"bytes"
	"sort"
)

// Entry is a single complete (key, payload) pair, independent of tree
// structure.
type Entry struct {
	Key   []byte
	Value string
}

// Child pairs a branch byte with the node it leads to.
type Child struct {
	Byte byte
	Node *Node
}

// Node is one state in the matcher automaton.
//
// If a registered key ends exactly at this node the node carries that
// key's payload. Children are the bytes that could extend the match; if
// none of them match the input, the deepest payload seen so far along
// the path is the answer.
type Node struct {
	value    string
	hasValue bool
	children map[byte]*Node
}

// New returns an empty root node.
func New() *Node {
	return &Node{}
}

// Add registers key with the given payload expression, creating nodes
// as needed. Re-adding an existing key overwrites its payload; the
// empty key is legal and sets the payload of this node itself.
//
// Add returns the receiver so calls can be chained:
//
//	root := trie.New().
//		Add([]byte("a"), "1").
//		Add([]byte("ab"), "2")
func (t *Node) Add(key []byte, value string) *Node {
	node := t
	for _, b := range key {
		if node.children == nil {
			node.children = make(map[byte]*Node)
		}
		child, ok := node.children[b]
		if !ok {
			child = &Node{}
			node.children[b] = child
		}
		node = child
	}
	node.value = value
	node.hasValue = true
	return t
}

// AddString is Add with a string key.
func (t *Node) AddString(key, value string) *Node {
	return t.Add([]byte(key), value)
}

// Extend registers every entry in order. Later duplicates overwrite
// earlier ones, so the slice order decides the final payload for a
// repeated key.
func (t *Node) Extend(entries []Entry) *Node {
	for _, e := range entries {
		t.Add(e.Key, e.Value)
	}
	return t
}

// Value returns the payload registered to end at this node, if any.
func (t *Node) Value() (string, bool) {
	return t.value, t.hasValue
}

// Child returns the node reached by b, or nil.
func (t *Node) Child(b byte) *Node {
	return t.children[b]
}

// Children returns the branches of this node in ascending byte order.
// The map behind a node is unordered; every consumer that emits or
// walks branches goes through this accessor so output is reproducible.
func (t *Node) Children() []Child {
	if len(t.children) == 0 {
		return nil
	}
	out := make([]Child, 0, len(t.children))
	for b, node := range t.children {
		out = append(out, Child{Byte: b, Node: node})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Byte < out[j].Byte })
	return out
}

// Len reports the number of registered keys.
func (t *Node) Len() int {
	n := 0
	if t.hasValue {
		n++
	}
	for _, child := range t.children {
		n += child.Len()
	}
	return n
}

// Entries flattens the tree into its complete (key, payload) set,
// ordered lexicographically by key. The flat compiler consumes this and
// imposes its own ordering.
func (t *Node) Entries() []Entry {
	var out []Entry
	t.appendEntries(&out, nil)
	return out
}

func (t *Node) appendEntries(out *[]Entry, prefix []byte) {
	if t.hasValue {
		key := make([]byte, len(prefix))
		copy(key, prefix)
		*out = append(*out, Entry{Key: key, Value: t.value})
	}
	for _, c := range t.Children() {
		c.Node.appendEntries(out, append(prefix, c.Byte))
	}
}

// Lookup runs longest-prefix matching directly against the tree and
// returns the payload of the longest registered key that prefixes
// input, along with the number of bytes it covers. It is the reference
// for what compiled matchers must do; generated code never calls it.
func (t *Node) Lookup(input []byte) (value string, n int, ok bool) {
	if t.hasValue {
		value, n, ok = t.value, 0, true
	}
	node := t
	for i, b := range input {
		node = node.children[b]
		if node == nil {
			break
		}
		if node.hasValue {
			value, n, ok = node.value, i+1, true
		}
	}
	return value, n, ok
}

// SortEntries orders entries by key length descending, then by
// bytes.Compare within a length. Longest-first is what makes a flat
// matcher honor maximal munch when one key prefixes another; the
// within-length order only keeps output stable.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Key, entries[j].Key
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return bytes.Compare(a, b) < 0
	})
}

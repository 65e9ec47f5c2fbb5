// Package munchgen compiles tables of (byte sequence → Go expression)
// pairs into Go source for deterministic longest-match scanners.
//
// The generated function finds the longest registered key that is a
// prefix of its input and yields the associated expression, consuming
// exactly the matched bytes; on a miss it consumes nothing. This is
// the maximal-munch discipline used by lexers and escape decoders.
//
// # Basic Usage
//
// Build a matcher in a go:generate step and write it to a file:
//
//	var buf bytes.Buffer
//	err := munchgen.GenerateTree(&buf, []munchgen.Entry{
//	    {Key: []byte("&amp;"), Value: `"&"`},
//	    {Key: []byte("&lt;"), Value: `"<"`},
//	}, "matchEntity", "string")
//
// The rendered function has the shape:
//
//	func matchEntity(input []byte) (match string, rest []byte, ok bool)
//
// # Strategies and input models
//
// Two compilers share the same matching semantics: Tree walks the
// input byte by byte through nested switches with longest-match
// fallback, Flat probes whole keys longest-first in a single switch.
// Either can target a byte slice or a forward-only cursor (see
// pkg/cursor); select with WithInput(InputCursor).
package munchgen

import (
	"io"

	"github.com/munchgen/munchgen/pkg/gen"
	"github.com/munchgen/munchgen/pkg/trie"
)

// Re-export the core types so callers can import just
// "github.com/munchgen/munchgen" without subpackages.
type (
	// Entry is a single (key, payload expression) pair.
	Entry = trie.Entry

	// Trie is the prefix tree accumulated by repeated insertions.
	Trie = trie.Node

	// Flat is the single-switch longest-first compiler.
	Flat = gen.Flat

	// Tree is the nested byte-by-byte compiler.
	Tree = gen.Tree

	// Input selects the generated matcher's input model.
	Input = gen.Input
)

// Input model constants.
const (
	InputSlice  = gen.Slice
	InputCursor = gen.Cursor
)

// config collects the cosmetic and model options shared by both
// compilers.
type config struct {
	input       gen.Input
	returnIndex bool
	mustUse     bool
	doc         string
	stub        bool
	guard       string
	stubGuard   string
}

func defaultConfig() config {
	return config{
		mustUse:   true,
		guard:     gen.DefaultGuard,
		stubGuard: gen.DefaultStubGuard,
	}
}

// Option configures a compiler built through this package.
type Option func(*config)

// WithInput selects the input model: InputSlice (default) or
// InputCursor.
func WithInput(input Input) Option {
	return func(c *config) {
		c.input = input
	}
}

// WithReturnIndex makes a slice-model Flat matcher report the residual
// input as a numeric index instead of a trimmed slice. The two result
// shapes are mutually exclusive; this selects the index once.
func WithReturnIndex() Option {
	return func(c *config) {
		c.returnIndex = true
	}
}

// WithDoc prepends documentation text to the generated function.
func WithDoc(doc string) Option {
	return func(c *config) {
		c.doc = doc
	}
}

// WithoutMustUse drops the advisory doc line stating that the result
// must be used.
func WithoutMustUse() Option {
	return func(c *config) {
		c.mustUse = false
	}
}

// WithStub also emits an always-no-match stub with the identical
// calling contract, each rendition under its build constraint, so
// slow analysis tooling can build against the stub instead of the full
// matcher body.
func WithStub() Option {
	return func(c *config) {
		c.stub = true
	}
}

// WithGuards overrides the build constraints used by WithStub for the
// real function and the stub.
func WithGuards(guard, stubGuard string) Option {
	return func(c *config) {
		c.guard = guard
		c.stubGuard = stubGuard
	}
}

// NewTrie returns an empty trie builder.
func NewTrie() *Trie {
	return trie.New()
}

// NewFlat creates a flat compiler with the given options applied.
func NewFlat(fnName, returnType string, opts ...Option) *Flat {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	f := gen.NewFlat(fnName, returnType)
	f.Input = c.input
	f.ReturnIndex = c.returnIndex
	f.MustUse = c.mustUse
	f.Doc = c.doc
	f.EmitStub = c.stub
	f.Guard = c.guard
	f.StubGuard = c.stubGuard
	return f
}

// NewTree creates a tree compiler with the given options applied.
func NewTree(fnName, returnType string, opts ...Option) *Tree {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	t := gen.NewTree(fnName, returnType)
	t.Input = c.input
	t.MustUse = c.mustUse
	t.Doc = c.doc
	t.EmitStub = c.stub
	t.Guard = c.guard
	t.StubGuard = c.stubGuard
	return t
}

// GenerateFlat renders a flat matcher for entries to w in one pass.
// Entry order decides duplicate-key overwrites; emission order is
// longest key first.
func GenerateFlat(w io.Writer, entries []Entry, fnName, returnType string, opts ...Option) error {
	return NewFlat(fnName, returnType, opts...).Extend(entries).Render(w)
}

// GenerateTree renders a tree matcher for entries to w in one pass.
func GenerateTree(w io.Writer, entries []Entry, fnName, returnType string, opts ...Option) error {
	return NewTree(fnName, returnType, opts...).Extend(entries).Render(w)
}

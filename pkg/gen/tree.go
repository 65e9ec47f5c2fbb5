package gen

import (
	"io"

	"github.com/munchgen/munchgen/pkg/trie"
)

// Tree compiles a prefix trie into a matcher built from nested
// byte-by-byte switches.
//
// The walk carries the deepest payload confirmed so far as a fallback:
// when a longer candidate dies, the generated code resumes immediately
// after that shorter match, never at the original start and never where
// the deeper attempt stalled. For the slice model the resume offset is
// a literal computed at generation time; the cursor model snapshots the
// cursor right after each confirmed match and resets to it.
//
// The generated slice-model function for {"a": 1, "ab": 2} is:
//
//	func MatchA(input []byte) (match int, rest []byte, ok bool) {
//		if len(input) > 0 {
//			switch input[0] {
//			case 'a':
//				if len(input) > 1 {
//					switch input[1] {
//					case 'b':
//						return 2, input[2:], true
//					}
//				}
//				return 1, input[1:], true
//			}
//		}
//		return match, input, false
//	}
//
// Branches are emitted in ascending byte order; the order is cosmetic
// but reproducible.
type Tree struct {
	// FnName names the generated function, e.g. "MatchEntity".
	FnName string

	// ReturnType is the declared match type, spliced verbatim.
	ReturnType string

	// Input selects the slice or cursor model.
	Input Input

	// MustUse adds an advisory doc line that the result must be used.
	MustUse bool

	// Doc is prepended as a doc comment, one line per input line.
	Doc string

	// EmitStub also renders an always-no-match stub with the identical
	// calling contract, each rendition preceded by its build
	// constraint (Guard and StubGuard).
	EmitStub  bool
	Guard     string
	StubGuard string

	root *trie.Node
}

// NewTree creates a tree compiler over a fresh trie.
func NewTree(fnName, returnType string) *Tree {
	return NewTreeFrom(trie.New(), fnName, returnType)
}

// NewTreeFrom creates a tree compiler over an already-built trie. The
// compiler reads the trie during Render and never mutates it except
// through Add.
func NewTreeFrom(root *trie.Node, fnName, returnType string) *Tree {
	return &Tree{
		FnName:     fnName,
		ReturnType: returnType,
		MustUse:    true,
		Guard:      DefaultGuard,
		StubGuard:  DefaultStubGuard,
		root:       root,
	}
}

// Add registers a key with its payload expression. Re-adding a key
// overwrites the previous payload; the empty key is legal and becomes
// the procedure's zero-consumption default.
func (t *Tree) Add(key []byte, value string) *Tree {
	t.trie().Add(key, value)
	return t
}

// AddString is Add with a string key.
func (t *Tree) AddString(key, value string) *Tree {
	return t.Add([]byte(key), value)
}

// Extend adds every entry in order; later duplicates win.
func (t *Tree) Extend(entries []trie.Entry) *Tree {
	t.trie().Extend(entries)
	return t
}

// Trie returns the underlying trie.
func (t *Tree) Trie() *trie.Node {
	return t.trie()
}

// trie returns the root, allocating it on first use so a zero-value
// Tree works like one from NewTree.
func (t *Tree) trie() *trie.Node {
	if t.root == nil {
		t.root = trie.New()
	}
	return t.root
}

// Render writes the matcher, and the stub when EmitStub is set, to w
// in a single pass. Any write error aborts the render; the caller must
// discard whatever was written.
func (t *Tree) Render(w io.Writer) error {
	e := &emitter{w: w}
	if t.EmitStub {
		writeGuard(e, t.Guard)
	}
	t.renderFunc(e)
	if t.EmitStub {
		e.printf("\n")
		writeGuard(e, t.StubGuard)
		t.renderStub(e)
	}
	return e.err
}

// RenderFunc writes only the matching function, without guards.
func (t *Tree) RenderFunc(w io.Writer) error {
	e := &emitter{w: w}
	t.renderFunc(e)
	return e.err
}

// RenderStub writes only the always-no-match stub, without guards.
func (t *Tree) RenderStub(w io.Writer) error {
	e := &emitter{w: w}
	t.renderStub(e)
	return e.err
}

func (t *Tree) signature(param string) string {
	if t.Input == Cursor {
		return "func " + t.FnName + "(" + param + " cursor.Cursor) (match " + t.ReturnType + ", ok bool)"
	}
	return "func " + t.FnName + "(" + param + " []byte) (match " + t.ReturnType + ", rest []byte, ok bool)"
}

func (t *Tree) renderFunc(e *emitter) {
	writeHeader(e, t.Doc, t.MustUse)
	if t.Input == Cursor {
		t.renderCursor(e, t.trie())
		return
	}
	t.renderSlice(e, t.trie())
}

func (t *Tree) renderStub(e *emitter) {
	writeHeader(e, t.Doc, t.MustUse)
	if t.Input == Cursor {
		t.renderCursor(e, trie.New())
		return
	}
	t.renderSlice(e, trie.New())
}

// fallback is the deepest payload confirmed on the path so far, and
// (for the slice model) the input offset right after it.
type fallback struct {
	value string
	depth int
	ok    bool
}

func (t *Tree) renderSlice(e *emitter, root *trie.Node) {
	e.printf("%s {\n", t.signature("input"))
	t.renderSliceNode(e, root, 0, fallback{})
	e.printf("}\n")
}

// renderSliceNode emits the code for one node: a bounds-checked switch
// over the node's branches, then an unconditional resolution to the
// node's own payload, the inherited fallback, or no match. Falling out
// of the switch covers both an unmatched byte and exhausted input.
func (t *Tree) renderSliceNode(e *emitter, n *trie.Node, depth int, fb fallback) {
	ind := 2*depth + 1
	value, has := n.Value()

	if children := n.Children(); len(children) > 0 {
		next := fb
		if has {
			next = fallback{value: value, depth: depth, ok: true}
		}
		e.line(ind, "if len(input) > %d {", depth)
		e.line(ind+1, "switch input[%d] {", depth)
		for _, c := range children {
			e.line(ind+1, "case %s:", byteLit(c.Byte))
			t.renderSliceNode(e, c.Node, depth+1, next)
		}
		e.line(ind+1, "}")
		e.line(ind, "}")
	}

	switch {
	case has:
		e.line(ind, "return %s, %s, true", value, sliceExpr(depth))
	case fb.ok:
		e.line(ind, "return %s, %s, true", fb.value, sliceExpr(fb.depth))
	default:
		e.line(ind, "return match, input, false")
	}
}

func (t *Tree) renderCursor(e *emitter, root *trie.Node) {
	value, has := root.Value()
	if len(root.Children()) == 0 {
		// Nothing consumes input: an empty matcher, or one matching
		// only the empty key.
		e.printf("%s {\n", t.signature("_"))
		if has {
			e.line(1, "return %s, true", value)
		} else {
			e.line(1, "return match, false")
		}
		e.printf("}\n")
		return
	}
	e.printf("%s {\n", t.signature("c"))
	t.renderCursorNode(e, root, 0, fallback{})
	e.printf("}\n")
}

// renderCursorNode mirrors renderSliceNode for the cursor model. A
// node whose key is itself registered snapshots the cursor before
// branching deeper; failure paths reset to the nearest enclosing
// snapshot, which is exactly the position after the fallback match.
// The root snapshots unconditionally so an overall miss rewinds to the
// start.
func (t *Tree) renderCursorNode(e *emitter, n *trie.Node, depth int, fb fallback) {
	ind := 2*depth + 1
	value, has := n.Value()
	children := n.Children()

	if len(children) == 0 {
		// Terminal: the cursor sits exactly past a registered key.
		if has {
			e.line(ind, "return %s, true", value)
			return
		}
		e.line(ind, "c.Reset(mark)")
		if fb.ok {
			e.line(ind, "return %s, true", fb.value)
		} else {
			e.line(ind, "return match, false")
		}
		return
	}

	next := fb
	if has {
		next = fallback{value: value, ok: true}
	}
	if has || depth == 0 {
		e.line(ind, "mark := c.Mark()")
	}
	e.line(ind, "if b, ok := c.Next(); ok {")
	e.line(ind+1, "switch b {")
	for _, c := range children {
		e.line(ind+1, "case %s:", byteLit(c.Byte))
		t.renderCursorNode(e, c.Node, depth+1, next)
	}
	e.line(ind+1, "}")
	e.line(ind, "}")
	e.line(ind, "c.Reset(mark)")

	switch {
	case has:
		e.line(ind, "return %s, true", value)
	case fb.ok:
		e.line(ind, "return %s, true", fb.value)
	default:
		e.line(ind, "return match, false")
	}
}

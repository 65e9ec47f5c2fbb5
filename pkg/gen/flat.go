package gen

import (
	"io"

	"github.com/munchgen/munchgen/pkg/trie"
)

// Flat compiles an entry set into a matcher built from a single switch
// that probes whole keys.
//
// Entries are emitted longest key first, so a key that prefixes a
// longer key can never shadow it; within one length the order is
// bytes.Compare, which only keeps output reproducible. The generated
// slice-model function looks like:
//
//	func MatchDigit(input []byte) (match int, rest []byte, ok bool) {
//		switch {
//		case bytes.HasPrefix(input, []byte("one")):
//			return 1, input[3:], true
//		case bytes.HasPrefix(input, []byte("two")):
//			return 2, input[3:], true
//		}
//		return match, input, false
//	}
//
// Slice-model output references the bytes package; cursor-model output
// references github.com/munchgen/munchgen/pkg/cursor. The file the
// orchestrator assembles around the function imports accordingly.
type Flat struct {
	// FnName names the generated function, e.g. "MatchEntity".
	FnName string

	// ReturnType is the declared match type, spliced verbatim.
	ReturnType string

	// Input selects the slice or cursor model.
	Input Input

	// ReturnIndex makes the slice-model function report the residual
	// input as the number of bytes consumed instead of a trimmed
	// slice. Ignored for the cursor model.
	ReturnIndex bool

	// MustUse adds an advisory doc line that the result must be used.
	MustUse bool

	// Doc is prepended as a doc comment, one line per input line.
	Doc string

	// EmitStub also renders an always-no-match stub with the identical
	// calling contract, each rendition preceded by its build
	// constraint (Guard and StubGuard). Analysis tooling that should
	// not chew through a large matcher builds the stub side.
	EmitStub  bool
	Guard     string
	StubGuard string

	arms map[string]string
}

// NewFlat creates a flat compiler. The defaults match the common case:
// slice input, residual slice result, must-use advisory on, default
// stub guards (stub emission itself is off).
func NewFlat(fnName, returnType string) *Flat {
	return &Flat{
		FnName:     fnName,
		ReturnType: returnType,
		MustUse:    true,
		Guard:      DefaultGuard,
		StubGuard:  DefaultStubGuard,
		arms:       make(map[string]string),
	}
}

// Add registers a key with its payload expression. Re-adding a key
// overwrites the previous payload. The empty key is legal and becomes
// the procedure's default result.
func (f *Flat) Add(key []byte, value string) *Flat {
	if f.arms == nil {
		f.arms = make(map[string]string)
	}
	f.arms[string(key)] = value
	return f
}

// AddString is Add with a string key.
func (f *Flat) AddString(key, value string) *Flat {
	return f.Add([]byte(key), value)
}

// Extend adds every entry in order; later duplicates win.
func (f *Flat) Extend(entries []trie.Entry) *Flat {
	for _, e := range entries {
		f.Add(e.Key, e.Value)
	}
	return f
}

// Len reports the number of registered keys.
func (f *Flat) Len() int {
	return len(f.arms)
}

// Entries returns the entry set in emission order: key length
// descending, bytes.Compare ascending within a length.
func (f *Flat) Entries() []trie.Entry {
	out := make([]trie.Entry, 0, len(f.arms))
	for k, v := range f.arms {
		out = append(out, trie.Entry{Key: []byte(k), Value: v})
	}
	trie.SortEntries(out)
	return out
}

// Render writes the matcher, and the stub when EmitStub is set, to w
// in a single pass. Any write error aborts the render; the caller must
// discard whatever was written.
func (f *Flat) Render(w io.Writer) error {
	e := &emitter{w: w}
	if f.EmitStub {
		writeGuard(e, f.Guard)
	}
	f.renderFunc(e)
	if f.EmitStub {
		e.printf("\n")
		writeGuard(e, f.StubGuard)
		f.renderStub(e)
	}
	return e.err
}

// RenderFunc writes only the matching function, without guards. Useful
// when the orchestrator splits function and stub into separate files.
func (f *Flat) RenderFunc(w io.Writer) error {
	e := &emitter{w: w}
	f.renderFunc(e)
	return e.err
}

// RenderStub writes only the always-no-match stub, without guards.
func (f *Flat) RenderStub(w io.Writer) error {
	e := &emitter{w: w}
	f.renderStub(e)
	return e.err
}

// split separates the non-empty keys, in emission order, from the
// optional empty-key payload.
func (f *Flat) split() (arms []trie.Entry, empty *trie.Entry) {
	for _, a := range f.Entries() {
		if len(a.Key) == 0 {
			empty = &trie.Entry{Value: a.Value}
			continue
		}
		arms = append(arms, a)
	}
	return arms, empty
}

func (f *Flat) signature(param string) string {
	switch {
	case f.Input == Cursor:
		return "func " + f.FnName + "(" + param + " cursor.Cursor) (match " + f.ReturnType + ", ok bool)"
	case f.ReturnIndex:
		return "func " + f.FnName + "(" + param + " []byte) (match " + f.ReturnType + ", n int, ok bool)"
	default:
		return "func " + f.FnName + "(" + param + " []byte) (match " + f.ReturnType + ", rest []byte, ok bool)"
	}
}

func (f *Flat) renderFunc(e *emitter) {
	writeHeader(e, f.Doc, f.MustUse)
	arms, empty := f.split()
	if f.Input == Cursor {
		f.renderCursorFunc(e, arms, empty)
		return
	}
	f.renderSliceFunc(e, arms, empty)
}

func (f *Flat) renderSliceFunc(e *emitter, arms []trie.Entry, empty *trie.Entry) {
	param := "input"
	if len(arms) == 0 && f.ReturnIndex {
		// Nothing reads the input; the result is fixed.
		param = "_"
	}
	e.printf("%s {\n", f.signature(param))

	if len(arms) > 0 {
		e.line(1, "switch {")
		for _, a := range arms {
			e.line(1, "case bytes.HasPrefix(input, %s):", keyLit(a.Key))
			if f.ReturnIndex {
				e.line(2, "return %s, %d, true", a.Value, len(a.Key))
			} else {
				e.line(2, "return %s, %s, true", a.Value, sliceExpr(len(a.Key)))
			}
		}
		e.line(1, "}")
	}

	switch {
	case empty != nil && f.ReturnIndex:
		e.line(1, "return %s, 0, true", empty.Value)
	case empty != nil:
		e.line(1, "return %s, input, true", empty.Value)
	case f.ReturnIndex:
		e.line(1, "return match, 0, false")
	default:
		e.line(1, "return match, input, false")
	}
	e.printf("}\n")
}

// renderCursorFunc emits one atomic probe per entry: consume-compare
// the key bytes, reset to the start mark on any mismatch, fall through
// to the next entry.
func (f *Flat) renderCursorFunc(e *emitter, arms []trie.Entry, empty *trie.Entry) {
	param := "c"
	if len(arms) == 0 {
		param = "_"
	}
	e.printf("%s {\n", f.signature(param))

	if len(arms) > 0 {
		e.line(1, "mark := c.Mark()")
		for _, a := range arms {
			for i, b := range a.Key {
				e.line(1+i, "if b, ok := c.Next(); ok && b == %s {", byteLit(b))
			}
			e.line(1+len(a.Key), "return %s, true", a.Value)
			for i := len(a.Key); i >= 1; i-- {
				e.line(i, "}")
			}
			e.line(1, "c.Reset(mark)")
		}
	}

	if empty != nil {
		e.line(1, "return %s, true", empty.Value)
	} else {
		e.line(1, "return match, false")
	}
	e.printf("}\n")
}

func (f *Flat) renderStub(e *emitter) {
	writeHeader(e, f.Doc, f.MustUse)
	switch {
	case f.Input == Cursor:
		e.printf("%s {\n", f.signature("_"))
		e.line(1, "return match, false")
	case f.ReturnIndex:
		e.printf("%s {\n", f.signature("_"))
		e.line(1, "return match, 0, false")
	default:
		e.printf("%s {\n", f.signature("input"))
		e.line(1, "return match, input, false")
	}
	e.printf("}\n")
}

// Package gen compiles an entry set or a prefix trie into Go source
// for a longest-match scanner.
//
// Two compilers share one data model and one matching discipline. Flat
// emits a single switch that probes whole keys, longest first. Tree
// emits a nested byte-by-byte walk with fallback to the deepest
// confirmed shorter match. Each can target a random-access byte slice
// or a forward-only cursor (see the cursor package).
//
// Payload values are Go expression text and are spliced into the output
// verbatim; the compilers never interpret them. Rendering is a single
// pass: either the whole procedure is written, or the first write error
// aborts the render and callers must discard the partial output.
package gen

import (
	"fmt"
	"io"
	"strings"
)

// Input selects what kind of input the generated matcher accepts.
type Input int

const (
	// Slice generates a matcher over a byte slice. The function returns
	// the match, the residual input, and whether anything matched.
	Slice Input = iota

	// Cursor generates a matcher over a cursor.Cursor. On a match the
	// cursor is left just past the matched key; otherwise it is reset
	// to where it started. Consumers import
	// github.com/munchgen/munchgen/pkg/cursor alongside the generated
	// code.
	Cursor
)

func (i Input) String() string {
	switch i {
	case Slice:
		return "slice"
	case Cursor:
		return "cursor"
	default:
		return fmt.Sprintf("Input(%d)", int(i))
	}
}

// Default build constraints for the real function and the bypass stub
// when stub emission is enabled. The two renditions go in separate
// files; slow analysis tooling builds with the munchgen_stub tag and
// never sees the full matcher body.
const (
	DefaultGuard     = "!munchgen_stub"
	DefaultStubGuard = "munchgen_stub"
)

// mustUseAdvisory is the doc line added when MustUse is set.
const mustUseAdvisory = "The caller must use the returned match."

// emitter wraps the output sink with a sticky error so render code can
// stay linear. The first failed write wins.
type emitter struct {
	w   io.Writer
	err error
}

func (e *emitter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// indent writes n tabs.
func (e *emitter) indent(n int) {
	if e.err != nil {
		return
	}
	for i := 0; i < n; i++ {
		if _, e.err = io.WriteString(e.w, "\t"); e.err != nil {
			return
		}
	}
}

// line writes n tabs, the formatted text, and a newline.
func (e *emitter) line(n int, format string, args ...any) {
	e.indent(n)
	e.printf(format+"\n", args...)
}

// writeHeader emits the doc comment and advisory for a generated
// function or stub.
func writeHeader(e *emitter, doc string, mustUse bool) {
	if doc != "" {
		for _, l := range strings.Split(strings.TrimRight(doc, "\n"), "\n") {
			if l == "" {
				e.printf("//\n")
			} else {
				e.printf("// %s\n", l)
			}
		}
	}
	if mustUse {
		if doc != "" {
			e.printf("//\n")
		}
		e.printf("// %s\n", mustUseAdvisory)
	}
}

// writeGuard emits a build constraint line for one rendition. The
// orchestrating build step is expected to place the function and its
// stub in separate files when guards are in play.
func writeGuard(e *emitter, guard string) {
	if guard != "" {
		e.printf("//go:build %s\n\n", guard)
	}
}

// byteLit renders a byte as a Go literal: a rune literal for printable
// ASCII, hex otherwise.
func byteLit(b byte) string {
	switch {
	case b == '\'':
		return `'\''`
	case b == '\\':
		return `'\\'`
	case b >= 0x20 && b <= 0x7e:
		return fmt.Sprintf("'%c'", b)
	default:
		return fmt.Sprintf("0x%02x", b)
	}
}

// keyLit renders a whole key as a []byte literal, preferring a string
// conversion when every byte is printable ASCII.
func keyLit(key []byte) string {
	printable := true
	for _, b := range key {
		if b < 0x20 || b > 0x7e || b == '"' || b == '\\' {
			printable = false
			break
		}
	}
	if printable {
		return fmt.Sprintf("[]byte(%q)", string(key))
	}
	lits := make([]string, len(key))
	for i, b := range key {
		lits[i] = byteLit(b)
	}
	return fmt.Sprintf("[]byte{%s}", strings.Join(lits, ", "))
}

// sliceExpr renders the residual-input expression for a match that
// consumed n bytes.
func sliceExpr(n int) string {
	if n == 0 {
		return "input"
	}
	return fmt.Sprintf("input[%d:]", n)
}

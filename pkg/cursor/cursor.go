// Package cursor provides the forward-only input abstraction consumed
// by generated cursor-model matchers.
//
// A matcher has to consume bytes to decide which branch to take, then
// roll back when a longer candidate fails. Cursor exposes exactly that:
// sequential consumption plus a cheap snapshot (Mark) and restore
// (Reset). The package is dependency-free so importing generated code
// pulls in nothing else.
package cursor

import "io"

// Mark is an opaque snapshot of a cursor position. Marks are only
// meaningful on the cursor that produced them.
type Mark int64

// Cursor is forward-only byte input with snapshot and rollback.
type Cursor interface {
	// Next consumes and returns the next byte. It reports false at end
	// of input.
	Next() (byte, bool)

	// Mark snapshots the current position.
	Mark() Mark

	// Reset moves the cursor back to a previously taken Mark.
	Reset(Mark)
}

// Bytes is a Cursor over a byte slice.
type Bytes struct {
	data []byte
	pos  int
}

// NewBytes returns a cursor positioned at the start of data. The slice
// is not copied.
func NewBytes(data []byte) *Bytes {
	return &Bytes{data: data}
}

// NewString returns a cursor over the bytes of s.
func NewString(s string) *Bytes {
	return &Bytes{data: []byte(s)}
}

// Next implements Cursor.
func (c *Bytes) Next() (byte, bool) {
	if c.pos >= len(c.data) {
		return 0, false
	}
	b := c.data[c.pos]
	c.pos++
	return b, true
}

// Mark implements Cursor.
func (c *Bytes) Mark() Mark {
	return Mark(c.pos)
}

// Reset implements Cursor.
func (c *Bytes) Reset(m Mark) {
	c.pos = int(m)
}

// Pos returns the number of bytes consumed so far.
func (c *Bytes) Pos() int {
	return c.pos
}

// Rest returns the unconsumed remainder of the input.
func (c *Bytes) Rest() []byte {
	return c.data[c.pos:]
}

// Reader is a Cursor over an io.Reader. Bytes read from the underlying
// reader are retained so the cursor can be Reset to any Mark taken
// since the last Compact.
type Reader struct {
	r    io.Reader
	buf  []byte // retained bytes starting at absolute offset base
	base int64
	pos  int64
	err  error
}

// emptyReadLimit bounds successive zero-byte nil-error reads before the
// cursor gives up, matching the stdlib's tolerance.
const emptyReadLimit = 100

// NewReader returns a cursor reading from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next implements Cursor.
func (c *Reader) Next() (byte, bool) {
	empty := 0
	for c.pos >= c.base+int64(len(c.buf)) {
		if c.err != nil {
			return 0, false
		}
		var scratch [512]byte
		n, err := c.r.Read(scratch[:])
		if n > 0 {
			c.buf = append(c.buf, scratch[:n]...)
		}
		if err != nil {
			c.err = err
		} else if n == 0 {
			empty++
			if empty >= emptyReadLimit {
				c.err = io.ErrNoProgress
			}
		}
	}
	b := c.buf[c.pos-c.base]
	c.pos++
	return b, true
}

// Mark implements Cursor.
func (c *Reader) Mark() Mark {
	return Mark(c.pos)
}

// Reset implements Cursor. Resetting to a Mark taken before the last
// Compact panics: the bytes it points at are gone.
func (c *Reader) Reset(m Mark) {
	if int64(m) < c.base {
		panic("cursor: Reset to a Mark from before Compact")
	}
	c.pos = int64(m)
}

// Pos returns the number of bytes consumed so far.
func (c *Reader) Pos() int64 {
	return c.pos
}

// Compact drops the replay history behind the current position. A
// matcher only ever rewinds within a single call, so callers scanning a
// long stream should Compact between matches to keep memory bounded.
func (c *Reader) Compact() {
	drop := c.pos - c.base
	if drop > 0 {
		c.buf = append(c.buf[:0], c.buf[drop:]...)
		c.base = c.pos
	}
}

// Err returns the first read error other than io.EOF.
func (c *Reader) Err() error {
	if c.err == io.EOF {
		return nil
	}
	return c.err
}

package codegen

import (
	"bytes"
	"fmt"
)

// writer is the teacher's Builder write pattern (nex/nex.go): every helper
// checks the sticky error first, so a long chain of emission calls can be
// written without checking err after each one.
type writer struct {
	buf *bytes.Buffer
	err error
}

func newWriter() *writer {
	return &writer{buf: &bytes.Buffer{}}
}

func (w *writer) writeString(s string) {
	if w.err != nil {
		return
	}
	_, w.err = w.buf.WriteString(s)
}

func (w *writer) writeByte(c byte) {
	if w.err != nil {
		return
	}
	w.err = w.buf.WriteByte(c)
}

func (w *writer) writef(format string, a ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.buf, format, a...)
}

func (w *writer) result() (string, error) {
	if w.err != nil {
		return "", w.err
	}
	return w.buf.String(), nil
}

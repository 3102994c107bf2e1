// Package texedit implements buffered editing of byte slices, used to
// apply regex-located repairs to generated LaTeX. Edits are queued
// against the original data and applied in a single pass, so an edit
// never rescans text produced by another edit.
package texedit

import (
	"regexp"

	"rsc.io/edit"
)

// A Buffer is a queue of edits to apply to a given byte slice.
type Buffer struct {
	ed  edit.Buffer
	buf []byte
}

// NewBuffer returns a new buffer to accumulate changes to an initial
// data slice. The returned buffer maintains a reference to the data, so
// the caller must ensure the data is not modified until after the
// Buffer is done being used.
func NewBuffer(data []byte) *Buffer {
	b := &Buffer{}
	b.buf = data
	b.ed = *edit.NewBuffer(data)
	return b
}

// ReplaceAllSubmatchFunc queues one edit per non-overlapping match of
// re, replacing the whole match with fn applied to the first submatch.
// The expression must contain at least one capturing group that
// participates in every match.
func (b *Buffer) ReplaceAllSubmatchFunc(re *regexp.Regexp, fn func(inner []byte) []byte) {
	for _, m := range re.FindAllSubmatchIndex(b.buf, -1) {
		inner := b.buf[m[2]:m[3]]
		b.ed.Replace(m[0], m[1], string(fn(inner)))
	}
}

// Bytes returns a new byte slice containing the original data with the
// queued edits applied.
func (b *Buffer) Bytes() []byte {
	return b.ed.Bytes()
}

// String returns a string containing the original data with the queued
// edits applied.
func (b *Buffer) String() string {
	return string(b.ed.Bytes())
}

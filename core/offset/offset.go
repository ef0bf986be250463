// Package offset maps token positions to character offsets in the source
// text of a whole document.
package offset

import (
	"unicode/utf8"

	cerrors "github.com/FocuswithJustin/correctir/core/errors"
	"github.com/FocuswithJustin/correctir/core/ir"
)

// Tracker accumulates character offsets across the sentences of one
// document. Offsets count runes, not bytes. A Tracker must not be shared
// between documents.
type Tracker struct {
	offset int
}

// NewTracker returns a tracker positioned at offset zero.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Offset returns the running offset after the last tracked token.
func (t *Tracker) Offset() int {
	return t.offset
}

// Track records the starting offset of every token of sentence and
// advances the running offset past it.
func (t *Tracker) Track(sentence []ir.Token) *Offsets {
	starts := make([]int, len(sentence))
	for i := range sentence {
		starts[i] = t.offset
		t.offset += utf8.RuneCountInString(sentence[i].Surface())
	}
	return &Offsets{
		starts: starts,
		base:   ir.Base(sentence),
		final:  t.offset,
	}
}

// Offsets holds the starting offsets of one sentence's tokens, addressed by
// annotation position (the begin marker excluded).
type Offsets struct {
	starts []int
	base   int
	final  int
}

// Len returns the number of addressable positions.
func (o *Offsets) Len() int {
	return len(o.starts) - o.base
}

// Final returns the running offset after the whole sentence.
func (o *Offsets) Final() int {
	return o.final
}

// Start returns the starting offset of the token at position pos.
func (o *Offsets) Start(pos int) (int, bool) {
	i := pos + o.base
	if pos < 0 || i >= len(o.starts) {
		return 0, false
	}
	return o.starts[i], true
}

// Span returns the inclusive character range covered by positions
// [start, end]: the offset of start, and one before the offset of end+1,
// or one before the sentence's final offset when end is the last position.
func (o *Offsets) Span(start, end int) (startChar, endChar int, err error) {
	if start > end {
		return 0, 0, cerrors.NewSpan(start, end, o.Len(), "start after end")
	}
	startChar, ok := o.Start(start)
	if !ok {
		return 0, 0, cerrors.NewSpan(start, end, o.Len(), "start out of range")
	}
	if end >= o.Len() {
		return 0, 0, cerrors.NewSpan(start, end, o.Len(), "end out of range")
	}
	if next, ok := o.Start(end + 1); ok {
		return startChar, next - 1, nil
	}
	return startChar, o.final - 1, nil
}

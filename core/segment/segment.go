// Package segment groups a flat token stream into sentences.
package segment

import (
	"iter"

	"github.com/FocuswithJustin/correctir/core/ir"
)

// Segmenter is a one-pass sentence reader over a token sequence. A sentence
// ends with, and includes, the first token whose kind is a terminator. A
// trailing run of tokens without a terminator is returned as a final
// sentence. A paragraph begin marker read before any other token is
// returned as a unit of its own. Once exhausted, a Segmenter cannot be restarted.
type Segmenter struct {
	next    func() (ir.Token, bool)
	stop    func()
	current []ir.Token
	done    bool
	used    bool
}

// New creates a Segmenter pulling tokens from seq on demand.
func New(seq iter.Seq[ir.Token]) *Segmenter {
	next, stop := iter.Pull(seq)
	return &Segmenter{next: next, stop: stop}
}

// Next advances to the next sentence, reporting whether one is available.
func (s *Segmenter) Next() bool {
	s.current = nil
	if s.done {
		return false
	}
	var buf []ir.Token
	for {
		tok, ok := s.next()
		if !ok {
			s.Close()
			if len(buf) == 0 {
				return false
			}
			s.current = buf
			return true
		}
		buf = append(buf, tok)
		// A paragraph begin marker ahead of any text stands alone.
		if tok.Kind.IsTerminator() || (tok.Kind == ir.KindParagraphBegin && len(buf) == 1) {
			s.current = buf
			return true
		}
	}
}

// Sentence returns the sentence read by the last successful Next call.
func (s *Segmenter) Sentence() []ir.Token {
	return s.current
}

// Close releases the underlying token sequence. It is safe to call more
// than once; Next returns false afterwards.
func (s *Segmenter) Close() {
	if !s.done {
		s.done = true
		s.stop()
	}
}

// All returns the remaining sentences as a single-use sequence. A second
// call yields nothing.
func (s *Segmenter) All() iter.Seq[[]ir.Token] {
	if s.used {
		return func(func([]ir.Token) bool) {}
	}
	s.used = true
	return func(yield func([]ir.Token) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.Sentence()) {
				return
			}
		}
	}
}

// Sentences is a convenience wrapper returning all sentences of seq.
func Sentences(seq iter.Seq[ir.Token]) [][]ir.Token {
	var out [][]ir.Token
	for sent := range New(seq).All() {
		out = append(out, sent)
	}
	return out
}

// Package splice applies annotation suggestions to a sentence's token list.
//
// Splicing runs in two phases. Plan turns annotations into edits over list
// positions and rejects spans that are out of range or overlap. Apply then
// performs the edits from the end of the list towards the start, so that
// removing tokens for one edit never moves the positions of the edits still
// to come.
package splice

import (
	"sort"

	cerrors "github.com/FocuswithJustin/correctir/core/errors"
	"github.com/FocuswithJustin/correctir/core/ir"
)

// Edit replaces list positions First..Last (inclusive) with a single token
// carrying Text.
type Edit struct {
	First int
	Last  int
	Text  string
}

// Plan converts the annotations that carry a suggestion into edits over the
// list positions of tokens, ordered by descending (First, Last).
// Annotations without a suggestion are diagnostics and produce no edit.
func Plan(tokens []ir.Token, anns []ir.Annotation) ([]Edit, error) {
	base := ir.Base(tokens)
	n := len(tokens) - base
	var edits []Edit
	for _, a := range anns {
		if a.Suggest == "" {
			continue
		}
		switch {
		case a.Start < 0:
			return nil, cerrors.NewSpan(a.Start, a.End, n, "start out of range")
		case a.End < a.Start:
			return nil, cerrors.NewSpan(a.Start, a.End, n, "start after end")
		case a.End >= n:
			return nil, cerrors.NewSpan(a.Start, a.End, n, "end out of range")
		}
		edits = append(edits, Edit{First: a.Start + base, Last: a.End + base, Text: a.Suggest})
	}
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].First != edits[j].First {
			return edits[i].First > edits[j].First
		}
		return edits[i].Last > edits[j].Last
	})
	// Descending order: each edit must end before the previous one starts.
	for i := 1; i < len(edits); i++ {
		if edits[i].Last >= edits[i-1].First {
			e := edits[i]
			return nil, cerrors.NewSpan(e.First-base, e.Last-base, n, "overlaps another suggestion")
		}
	}
	return edits, nil
}

// Apply performs edits, which must be ordered as returned by Plan, on a
// copy of tokens. The input slice and its tokens are left untouched.
func Apply(tokens []ir.Token, edits []Edit) []ir.Token {
	out := make([]ir.Token, len(tokens))
	copy(out, tokens)
	for _, e := range edits {
		out[e.First] = out[e.First].WithText(e.Text)
		if e.Last > e.First {
			// Only the first token of a span survives, holding the whole
			// corrected text.
			out = append(out[:e.First+1], out[e.Last+1:]...)
		}
	}
	return out
}

// Splice plans and applies the suggestions of anns to tokens.
func Splice(tokens []ir.Token, anns []ir.Annotation) ([]ir.Token, error) {
	edits, err := Plan(tokens, anns)
	if err != nil {
		return nil, err
	}
	return Apply(tokens, edits), nil
}

// Detokenizer renders a token list as text.
type Detokenizer interface {
	Detokenize(tokens []ir.Token, normalize bool) string
}

// Corrected returns the normalized text of tokens with the suggestions of
// anns applied.
func Corrected(tokens []ir.Token, anns []ir.Annotation, d Detokenizer) (string, error) {
	spliced, err := Splice(tokens, anns)
	if err != nil {
		return "", err
	}
	return d.Detokenize(spliced, true), nil
}

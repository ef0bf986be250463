// Package check defines the sentence checker contract and a lexicon-driven
// implementation of it.
package check

import (
	"context"
	"errors"
	"sort"

	"github.com/FocuswithJustin/correctir/core/ir"
)

// ErrNoResult is returned by a Checker that produced nothing for a
// sentence. The pipeline skips such sentences.
var ErrNoResult = errors.New("checker produced no result")

// Options control a single Check call.
type Options struct {
	// IgnoreRules holds error codes whose annotations are dropped.
	IgnoreRules map[string]struct{}

	// AnnotateUnparsedSentences adds a whole-sentence annotation to
	// sentences that could not be parsed.
	AnnotateUnparsedSentences bool

	// GenerateSuggestionList fills Annotation.SuggestList with every
	// acceptable replacement, not just the preferred one.
	GenerateSuggestionList bool
}

// NewOptions builds options from an ignore list.
func NewOptions(annotateUnparsed bool, ignore ...string) Options {
	o := Options{AnnotateUnparsedSentences: annotateUnparsed}
	if len(ignore) > 0 {
		o.IgnoreRules = make(map[string]struct{}, len(ignore))
		for _, code := range ignore {
			o.IgnoreRules[code] = struct{}{}
		}
	}
	return o
}

// Ignored reports whether annotations with code are dropped.
func (o Options) Ignored(code string) bool {
	_, ok := o.IgnoreRules[code]
	return ok
}

// IgnoredCodes returns the ignored codes in sorted order.
func (o Options) IgnoredCodes() []string {
	out := make([]string, 0, len(o.IgnoreRules))
	for code := range o.IgnoreRules {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Checker checks one sentence. The token list includes the sentence's
// begin marker and terminator when present.
type Checker interface {
	Check(ctx context.Context, tokens []ir.Token, opts Options) (*ir.CheckedSentence, error)
}

// Speller corrects tokens one at a time without sentence analysis.
type Speller interface {
	CorrectTokens(ctx context.Context, tokens []ir.Token, opts Options) ([]ir.Token, error)
}

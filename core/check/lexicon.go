package check

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/FocuswithJustin/correctir/core/detok"
	"github.com/FocuswithJustin/correctir/core/errors"
	"github.com/FocuswithJustin/correctir/core/ir"
	"github.com/FocuswithJustin/correctir/core/lexicon"
	"github.com/FocuswithJustin/correctir/core/rules"
	"github.com/FocuswithJustin/correctir/core/splice"
)

const (
	// MaxParseTokens is the longest sentence the shallow parser accepts.
	MaxParseTokens = 90

	// UnparsedCode is the code of the whole-sentence annotation added to
	// sentences that do not parse.
	UnparsedCode = "E001"
	UnparsedText = "Málsgreinin fellur ekki að reglum"
)

// LexiconChecker checks sentences against correction rules from a lexicon.
// It is safe for concurrent use when its Source is.
type LexiconChecker struct {
	src lexicon.Source
}

// NewLexiconChecker creates a checker backed by src.
func NewLexiconChecker(src lexicon.Source) *LexiconChecker {
	return &LexiconChecker{src: src}
}

// Check implements Checker.
func (c *LexiconChecker) Check(ctx context.Context, tokens []ir.Token, opts Options) (*ir.CheckedSentence, error) {
	body := ir.Body(tokens)
	if len(body) == 0 || ir.MarkersOnly(body) {
		return nil, ErrNoResult
	}
	checked := make([]ir.Token, len(body))
	copy(checked, body)

	var anns []ir.Annotation
	for i := 0; i < len(checked); {
		r, n, err := c.match(ctx, checked, i)
		if err != nil {
			return nil, err
		}
		if r == nil {
			i++
			continue
		}
		if !opts.Ignored(r.Code) {
			ann := annotate(r, checked[i:i+n], i, opts.GenerateSuggestionList)
			checked[i].Error = &ir.TokenError{
				Code:     ann.Code,
				Text:     ann.Text,
				Detail:   ann.Detail,
				Original: ann.Original,
				Suggest:  ann.Suggest,
			}
			anns = append(anns, ann)
		}
		i += n
	}

	sent := &ir.CheckedSentence{Tokens: checked}
	if parseable(checked) {
		sent.Tree, sent.Terminals = parse(checked)
	} else if opts.AnnotateUnparsedSentences && !opts.Ignored(UnparsedCode) {
		anns = append(anns, ir.Annotation{
			Start: 0,
			End:   len(checked) - 1,
			Code:  UnparsedCode,
			Text:  UnparsedText,
		})
	}
	ir.SortAnnotations(anns)
	sent.Annotations = anns

	tidy, err := splice.Splice(checked, anns)
	if err != nil {
		return nil, err
	}
	sent.TidyText = detok.Detokenize(tidy, true)
	return sent, nil
}

// CorrectTokens implements Speller. Only single-word rules apply. Markers
// and tokens without a matching rule are returned unchanged.
func (c *LexiconChecker) CorrectTokens(ctx context.Context, tokens []ir.Token, opts Options) ([]ir.Token, error) {
	out := make([]ir.Token, len(tokens))
	copy(out, tokens)
	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !isWord(out[i]) {
			continue
		}
		rs, err := c.src.Lookup(ctx, strings.ToLower(out[i].Text))
		if err != nil {
			return nil, errors.Wrapf(err, "looking up %q", out[i].Text)
		}
		for j := range rs {
			r := &rs[j]
			if len(r.Pattern) != 1 || opts.Ignored(r.Code) {
				continue
			}
			suggest := matchCase(out[i].Text, r.Suggest)
			out[i].Error = &ir.TokenError{
				Code:     r.Code,
				Text:     r.Text,
				Detail:   r.Detail,
				Original: out[i].Text,
				Suggest:  suggest,
			}
			if suggest != "" {
				out[i].Text = suggest
			}
			break
		}
	}
	return out, nil
}

// match finds the longest rule whose pattern starts at position i and
// returns it with the number of tokens it covers.
func (c *LexiconChecker) match(ctx context.Context, toks []ir.Token, i int) (*rules.Rule, int, error) {
	if !isWord(toks[i]) {
		return nil, 0, nil
	}
	rs, err := c.src.Lookup(ctx, strings.ToLower(toks[i].Text))
	if err != nil {
		return nil, 0, errors.Wrapf(err, "looking up %q", toks[i].Text)
	}
	for j := range rs {
		r := &rs[j]
		n := len(r.Pattern)
		if n == 0 || i+n > len(toks) {
			continue
		}
		ok := true
		for k := 1; k < n; k++ {
			if !isWord(toks[i+k]) || strings.ToLower(toks[i+k].Text) != r.Pattern[k] {
				ok = false
				break
			}
		}
		if ok {
			return r, n, nil
		}
	}
	return nil, 0, nil
}

// annotate builds the annotation of rule r over span. The suggestion list
// is only filled when asked for.
func annotate(r *rules.Rule, span []ir.Token, start int, suggestList bool) ir.Annotation {
	words := make([]string, len(span))
	for i := range span {
		words[i] = span[i].Text
	}
	original := strings.Join(words, " ")
	ann := ir.Annotation{
		Start:    start,
		End:      start + len(span) - 1,
		Code:     r.Code,
		Text:     r.Text,
		Detail:   r.Detail,
		Original: original,
		Suggest:  matchCase(original, r.Suggest),
	}
	if suggestList {
		for _, s := range r.SuggestList() {
			ann.SuggestList = append(ann.SuggestList, matchCase(original, s))
		}
	}
	return ann
}

func isWord(t ir.Token) bool {
	switch t.Kind {
	case ir.KindWord, ir.KindPerson, ir.KindEntity, ir.KindCompany:
		return t.Text != ""
	}
	return false
}

// matchCase carries the capitalization of original over to replacement:
// all caps stays all caps, an initial capital stays initial.
func matchCase(original, replacement string) string {
	if replacement == "" || original == "" {
		return replacement
	}
	letters, upper := 0, 0
	for _, r := range original {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters > 1 && upper == letters {
		return strings.ToUpper(replacement)
	}
	first, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(replacement)
		return string(unicode.ToUpper(r)) + replacement[size:]
	}
	return replacement
}

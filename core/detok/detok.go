// Package detok turns token lists back into display text.
package detok

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/FocuswithJustin/correctir/core/ir"
)

// Spacing classes of a token. The numbering matches ir.Punctuation.Space.
const (
	SpaceLeft   = 1 // whitespace to the left only, e.g. "("
	SpaceCenter = 2 // whitespace on both sides, e.g. "&"
	SpaceRight  = 3 // whitespace to the right only, e.g. ","
	SpaceNone   = 4 // no whitespace, e.g. "/"
	SpaceWord   = 5 // ordinary word spacing
)

const (
	leftPunctuation   = "([„‚«#$€£¥₽<"
	rightPunctuation  = ".,:;)]!%?“»”’‛‘…>°"
	centerPunctuation = "\"*•&+=@©|"
	nonePunctuation   = "/±'´~\\-–"
)

// spaceBefore[prev-1][cur-1] reports whether a space separates two tokens.
var spaceBefore = [5][5]bool{
	// LEFT  CENTER RIGHT  NONE   WORD
	{false, true, false, false, false}, // after LEFT
	{true, true, true, true, true},     // after CENTER
	{true, true, false, false, true},   // after RIGHT
	{false, true, false, false, false}, // after NONE
	{true, true, false, false, true},   // after WORD
}

// Class returns the spacing class of t.
func Class(t ir.Token) int {
	if t.Kind != ir.KindPunctuation {
		return SpaceWord
	}
	if p, ok := t.Value.(ir.Punctuation); ok && p.Space >= SpaceLeft && p.Space <= SpaceNone {
		return p.Space
	}
	return ClassOf(t.Text)
}

// ClassOf returns the spacing class of a punctuation mark.
func ClassOf(punct string) int {
	switch {
	case punct == "":
		return SpaceWord
	case utf8.RuneCountInString(punct) > 1:
		if strings.Trim(punct, ".") == "" {
			return SpaceRight
		}
		return SpaceCenter
	case strings.Contains(leftPunctuation, punct):
		return SpaceLeft
	case strings.Contains(rightPunctuation, punct):
		return SpaceRight
	case strings.Contains(centerPunctuation, punct):
		return SpaceCenter
	case strings.Contains(nonePunctuation, punct):
		return SpaceNone
	}
	return SpaceCenter
}

// display returns the text to print for t.
func display(t ir.Token, normalize bool) string {
	if normalize && t.Kind == ir.KindPunctuation {
		if p, ok := t.Value.(ir.Punctuation); ok && p.Normalized != "" {
			return p.Normalized
		}
	}
	return t.Text
}

// Detokenize reconstructs natural text from tokens, inserting spaces
// according to the spacing class of neighbouring tokens. With normalize set,
// punctuation is replaced by its normalized form and the result is NFC.
func Detokenize(tokens []ir.Token, normalize bool) string {
	var b strings.Builder
	prev := 0
	for _, t := range tokens {
		txt := display(t, normalize)
		if txt == "" {
			continue
		}
		cls := Class(t)
		if prev != 0 && spaceBefore[prev-1][cls-1] {
			b.WriteByte(' ')
		}
		b.WriteString(txt)
		prev = cls
	}
	if normalize {
		return norm.NFC.String(b.String())
	}
	return b.String()
}

// TextFromTokens joins the text of tokens with single spaces.
func TextFromTokens(tokens []ir.Token) string {
	return joinSpaced(tokens, false)
}

// NormalizedTextFromTokens joins tokens with single spaces, using the
// normalized form of punctuation.
func NormalizedTextFromTokens(tokens []ir.Token) string {
	return norm.NFC.String(joinSpaced(tokens, true))
}

func joinSpaced(tokens []ir.Token, normalize bool) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if txt := display(t, normalize); txt != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, " ")
}

// OriginalText concatenates the original text of tokens, preserving the
// spacing of the source.
func OriginalText(tokens []ir.Token) string {
	var b strings.Builder
	for i := range tokens {
		b.WriteString(tokens[i].Surface())
	}
	return b.String()
}

// Detokenizer exposes the package functions as a value, for callers that
// take the rendering strategy as a dependency.
type Detokenizer struct{}

// New returns a Detokenizer.
func New() Detokenizer {
	return Detokenizer{}
}

// Detokenize calls the package-level Detokenize.
func (Detokenizer) Detokenize(tokens []ir.Token, normalize bool) string {
	return Detokenize(tokens, normalize)
}

// TextFromTokens calls the package-level TextFromTokens.
func (Detokenizer) TextFromTokens(tokens []ir.Token) string {
	return TextFromTokens(tokens)
}

// NormalizedTextFromTokens calls the package-level NormalizedTextFromTokens.
func (Detokenizer) NormalizedTextFromTokens(tokens []ir.Token) string {
	return NormalizedTextFromTokens(tokens)
}

// OriginalText calls the package-level OriginalText.
func (Detokenizer) OriginalText(tokens []ir.Token) string {
	return OriginalText(tokens)
}

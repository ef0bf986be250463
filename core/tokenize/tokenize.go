// Package tokenize splits text into typed tokens grouped in sentences.
//
// Each token's Original holds its source text including the whitespace that
// precedes it, so concatenating the originals of all tokens reproduces the
// input up to trailing whitespace. Every sentence is wrapped in begin and end
// markers. A blank line always ends the current sentence and the paragraph:
// a paragraph end marker follows the sentence, and a paragraph begin marker
// precedes the first sentence after the break.
package tokenize

import (
	"iter"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/FocuswithJustin/correctir/core/detok"
	"github.com/FocuswithJustin/correctir/core/ir"
)

var (
	emailRe   = regexp.MustCompile(`^[\p{L}\d._%+-]+@[\p{L}\d-]+(\.[\p{L}\d-]+)+$`)
	urlRe     = regexp.MustCompile(`^(https?://|www\.)\S+$`)
	timeRe    = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	dateRe    = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
	telnoRe   = regexp.MustCompile(`^(\d{3})-?(\d{4})$`)
	percentRe = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)%$`)
	numberRe  = regexp.MustCompile(`^(?:\d{1,3}(?:\.\d{3})+|\d+)(?:,\d+)?$`)
	ordinalRe = regexp.MustCompile(`^\d{1,2}\.$`)
	prefixRe  = regexp.MustCompile(`^([$€£])(\d+(?:[.,]\d+)?)$`)
)

// currencies maps currency words and symbols to ISO codes.
var currencies = map[string]string{
	"kr.":      "ISK",
	"kr":       "ISK",
	"krónur":   "ISK",
	"krónum":   "ISK",
	"isk":      "ISK",
	"usd":      "USD",
	"dollarar": "USD",
	"eur":      "EUR",
	"evrur":    "EUR",
	"gbp":      "GBP",
	"$":        "USD",
	"€":        "EUR",
	"£":        "GBP",
}

// defaultAbbreviations keep their periods and never end a sentence.
var defaultAbbreviations = []string{
	"t.d.", "o.s.frv.", "þ.e.", "þ.e.a.s.", "m.a.", "o.fl.", "kr.", "dr.",
	"nr.", "bls.", "sbr.", "skv.", "u.þ.b.", "ca.", "e.g.", "i.e.", "etc.",
}

// Tokenizer is a rule-based tokenizer. It is safe for concurrent use.
type Tokenizer struct {
	abbreviations map[string]bool
}

// New creates a tokenizer. Extra abbreviations are added to the built-in set.
func New(abbreviations ...string) *Tokenizer {
	t := &Tokenizer{abbreviations: make(map[string]bool)}
	for _, a := range defaultAbbreviations {
		t.abbreviations[a] = true
	}
	for _, a := range abbreviations {
		t.abbreviations[strings.ToLower(a)] = true
	}
	return t
}

// chunk is a run of non-space text with the whitespace before it.
type chunk struct {
	space string
	text  string
}

func chunks(text string) []chunk {
	var out []chunk
	i := 0
	for i < len(text) {
		start := i
		for i < len(text) {
			r, size := utf8.DecodeRuneInString(text[i:])
			if !unicode.IsSpace(r) {
				break
			}
			i += size
		}
		wsEnd := i
		for i < len(text) {
			r, size := utf8.DecodeRuneInString(text[i:])
			if unicode.IsSpace(r) {
				break
			}
			i += size
		}
		if i > wsEnd {
			out = append(out, chunk{space: text[start:wsEnd], text: text[wsEnd:i]})
		}
	}
	return out
}

// Tokenize returns the tokens of text as a lazy sequence.
func (t *Tokenizer) Tokenize(text string) iter.Seq[ir.Token] {
	return func(yield func(ir.Token) bool) {
		cs := chunks(text)
		open := false
		// paragraph is set once anything was emitted; broken marks a
		// paragraph break that has not been followed by text yet.
		paragraph, broken := false, false
		emit := func(tok ir.Token) bool {
			if broken {
				if !yield(ir.Token{Kind: ir.KindParagraphBegin}) {
					return false
				}
				broken = false
			}
			paragraph = true
			if !open {
				if !yield(ir.Token{Kind: ir.KindSentenceBegin}) {
					return false
				}
				open = true
			}
			return yield(tok)
		}
		closeSentence := func() bool {
			if !open {
				return true
			}
			open = false
			return yield(ir.Token{Kind: ir.KindSentenceEnd})
		}
		endParagraph := func() bool {
			if !closeSentence() {
				return false
			}
			if !paragraph || broken {
				return true
			}
			broken = true
			return yield(ir.Token{Kind: ir.KindParagraphEnd})
		}

		for i := 0; i < len(cs); i++ {
			c := cs[i]
			if strings.Count(c.space, "\n") >= 2 && !endParagraph() {
				return
			}
			var next *chunk
			if i+1 < len(cs) {
				next = &cs[i+1]
			}

			var pieces []ir.Token
			if amt, ok := t.amount(c, next); ok {
				pieces = []ir.Token{amt}
				i++
				if i+1 < len(cs) {
					next = &cs[i+1]
				} else {
					next = nil
				}
			} else {
				pieces = t.split(c.text, next)
				pieces[0].Original = c.space + pieces[0].Original
			}

			ending := false
			for _, p := range pieces {
				if !emit(p) {
					return
				}
				switch {
				case isSentenceFinal(p):
					ending = true
				case ending && isClosing(p):
				default:
					ending = false
				}
			}
			if ending && (next == nil || startsSentence(next.text)) {
				if !closeSentence() {
					return
				}
			}
		}
		closeSentence()
	}
}

// amount merges a number and a following currency word into one token.
func (t *Tokenizer) amount(c chunk, next *chunk) (ir.Token, bool) {
	if next == nil || strings.Count(next.space, "\n") >= 2 || !numberRe.MatchString(c.text) {
		return ir.Token{}, false
	}
	iso, ok := currencies[strings.ToLower(next.text)]
	if !ok {
		return ir.Token{}, false
	}
	return ir.Token{
		Kind:     ir.KindAmount,
		Text:     c.text + " " + next.text,
		Original: c.space + c.text + next.space + next.text,
		Value:    ir.Amount{Amount: parseNumber(c.text), ISO: iso},
	}, true
}

// split breaks a chunk into tokens: leading punctuation, a core and
// trailing punctuation.
func (t *Tokenizer) split(text string, next *chunk) []ir.Token {
	if tok, ok := t.whole(text, next); ok {
		return []ir.Token{tok}
	}
	if text == "..." {
		tok := punctuation(text, false)
		tok.Original = text
		return []ir.Token{tok}
	}

	var lead []ir.Token
	for text != "" {
		r, size := utf8.DecodeRuneInString(text)
		if !isPunct(r) {
			break
		}
		lead = append(lead, punctuation(text[:size], true))
		text = text[size:]
	}

	var trail []ir.Token
	for text != "" {
		if strings.HasSuffix(text, "...") {
			trail = append([]ir.Token{punctuation("...", false)}, trail...)
			text = strings.TrimSuffix(text, "...")
			continue
		}
		r, size := utf8.DecodeLastRuneInString(text)
		if !isPunct(r) {
			break
		}
		mark := text[len(text)-size:]
		if mark == "." && t.abbreviations[strings.ToLower(text)] {
			break
		}
		trail = append([]ir.Token{punctuation(mark, false)}, trail...)
		text = text[:len(text)-size]
	}

	out := lead
	if text != "" {
		if tok, ok := t.whole(text, next); ok {
			out = append(out, tok)
		} else {
			out = append(out, core(text))
		}
	}
	out = append(out, trail...)
	for i := range out {
		out[i].Original = out[i].Text
	}
	return out
}

// whole classifies text that forms a single token as a whole.
func (t *Tokenizer) whole(text string, next *chunk) (ir.Token, bool) {
	tok := ir.Token{Text: text, Original: text}
	lower := strings.ToLower(text)
	switch {
	case t.abbreviations[lower]:
		tok.Kind = ir.KindWord
	case emailRe.MatchString(text):
		tok.Kind, tok.Value = ir.KindEmail, text
	case urlRe.MatchString(text):
		tok.Kind, tok.Value = ir.KindURL, text
	case timeRe.MatchString(text):
		m := timeRe.FindStringSubmatch(text)
		tok.Kind, tok.Value = ir.KindTime, ir.Components{atoi(m[1]), atoi(m[2]), atoi(m[3])}
	case dateRe.MatchString(text):
		m := dateRe.FindStringSubmatch(text)
		tok.Kind, tok.Value = ir.KindDateAbs, ir.Components{atoi(m[3]), atoi(m[2]), atoi(m[1])}
	case telnoRe.MatchString(text):
		m := telnoRe.FindStringSubmatch(text)
		tok.Kind, tok.Value = ir.KindTelno, ir.Components{m[1] + "-" + m[2], "354"}
	case percentRe.MatchString(text):
		m := percentRe.FindStringSubmatch(text)
		tok.Kind, tok.Value = ir.KindPercent, ir.Number{Value: parseNumber(m[1])}
	case numberRe.MatchString(text):
		tok.Kind, tok.Value = ir.KindNumber, ir.Number{Value: parseNumber(text)}
	case prefixRe.MatchString(text):
		m := prefixRe.FindStringSubmatch(text)
		tok.Kind, tok.Value = ir.KindAmount, ir.Amount{Amount: parseNumber(m[2]), ISO: currencies[m[1]]}
	case ordinalRe.MatchString(text) && next != nil && startsLower(next.text):
		tok.Kind, tok.Value = ir.KindOrdinal, atoi(strings.TrimSuffix(text, "."))
	case currencies[lower] != "" && len(text) == 3 && strings.ToUpper(text) == text:
		tok.Kind, tok.Value = ir.KindCurrency, ir.Currency{ISO: currencies[lower]}
	default:
		return ir.Token{}, false
	}
	return tok, true
}

// core classifies the inner part of a chunk after punctuation is peeled.
func core(text string) ir.Token {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return ir.Token{Kind: ir.KindWord, Text: text}
		}
	}
	return ir.Token{Kind: ir.KindUnknown, Text: text, Value: text}
}

// punctuation builds a punctuation token with its normalized form. Opening
// marks are those found at the start of a chunk.
func punctuation(mark string, opening bool) ir.Token {
	normalized := mark
	switch mark {
	case `"`:
		if opening {
			normalized = "„"
		} else {
			normalized = "“"
		}
	case "...":
		normalized = "…"
	case "--":
		normalized = "–"
	}
	return ir.Token{
		Kind:  ir.KindPunctuation,
		Text:  mark,
		Value: ir.Punctuation{Space: detok.ClassOf(normalized), Normalized: normalized},
	}
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func isSentenceFinal(t ir.Token) bool {
	if t.Kind != ir.KindPunctuation {
		return false
	}
	switch t.Text {
	case ".", "!", "?", "...", "…":
		return true
	}
	return false
}

func isClosing(t ir.Token) bool {
	if t.Kind != ir.KindPunctuation {
		return false
	}
	switch t.Text {
	case ")", "]", `"`, "“", "”", "»", "'", "’", "!", "?":
		return true
	}
	return false
}

func startsSentence(text string) bool {
	r, _ := utf8.DecodeRuneInString(text)
	switch r {
	case '"', '„', '«', '(', '[':
		return true
	}
	return unicode.IsUpper(r) || unicode.IsDigit(r)
}

func startsLower(text string) bool {
	r, _ := utf8.DecodeRuneInString(text)
	return unicode.IsLower(r)
}

// parseNumber reads a number written with '.' as thousands separator and
// ',' as decimal separator. A lone '.' followed by other than three digits
// is read as a decimal point.
func parseNumber(s string) float64 {
	if strings.Contains(s, ",") || strings.Count(s, ".") > 1 ||
		(strings.Count(s, ".") == 1 && len(s)-strings.Index(s, ".") == 4) {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

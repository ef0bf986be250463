package ir

// types.go - Token and sentence type definitions shared by every stage of
// the correction pipeline.

// Token is a lexical unit produced by the tokenizer.
type Token struct {
	// Kind is the lexical kind of the token.
	Kind Kind `json:"k"`

	// Text is the current, possibly corrected, surface form.
	Text string `json:"t,omitempty"`

	// Original is the pristine source substring, including any whitespace
	// preceding the token. Empty means absent.
	Original string `json:"o,omitempty"`

	// Value is the kind-dependent decoded payload (Number, Currency, Amount,
	// Punctuation, Components, string or nil).
	Value any `json:"v,omitempty"`

	// Error is the diagnostic attached by a checker, if any.
	Error *TokenError `json:"e,omitempty"`
}

// Surface returns the original source text of the token, falling back to
// the current text when no original is recorded.
func (t *Token) Surface() string {
	if t.Original != "" {
		return t.Original
	}
	return t.Text
}

// WithText returns a copy of the token carrying new text.
func (t Token) WithText(text string) Token {
	t.Text = text
	return t
}

// Number is the value of number, percent and ordinal tokens.
type Number struct {
	Value   float64  `json:"value"`
	Cases   []string `json:"cases,omitempty"`
	Genders []string `json:"genders,omitempty"`
}

// Currency is the value of currency tokens.
type Currency struct {
	ISO     string   `json:"iso"`
	Cases   []string `json:"cases,omitempty"`
	Genders []string `json:"genders,omitempty"`
}

// Amount is the value of amount tokens, e.g. 100 kr.
type Amount struct {
	Amount  float64  `json:"amount"`
	ISO     string   `json:"iso"`
	Cases   []string `json:"cases,omitempty"`
	Genders []string `json:"genders,omitempty"`
}

// Punctuation is the value of punctuation tokens.
type Punctuation struct {
	// Space is the spacing class of the mark (see core/detok).
	Space int `json:"space"`

	// Normalized is the normalized form of the mark.
	Normalized string `json:"normalized"`
}

// Components is the value of date, time, telephone and measurement tokens:
// an ordered tuple such as (year, month, day) or (unit, quantity).
type Components []any

// TokenError is a diagnostic attached to a single token.
type TokenError struct {
	Code     string `json:"code"`
	Text     string `json:"text"`
	Detail   string `json:"detail,omitempty"`
	Original string `json:"original,omitempty"`
	Suggest  string `json:"suggest,omitempty"`
}

func (e *TokenError) String() string {
	return e.Code + ": " + e.Text
}

// ToMap returns the error as a JSON-friendly map.
func (e *TokenError) ToMap() map[string]any {
	m := map[string]any{
		"code": e.Code,
		"text": e.Text,
	}
	if e.Detail != "" {
		m["detail"] = e.Detail
	}
	if e.Original != "" {
		m["original"] = e.Original
	}
	if e.Suggest != "" {
		m["suggest"] = e.Suggest
	}
	return m
}

// Terminal is a parser leaf covering one token.
type Terminal struct {
	// Index is the sentence-relative token position.
	Index int `json:"index"`

	// Text is the display text of the terminal.
	Text string `json:"text"`

	// Category is the terminal category (e.g. "no", "so", "p").
	Category string `json:"category,omitempty"`
}

// Tree is a parse tree node. Leaves carry a terminal.
type Tree struct {
	Label    string    `json:"label"`
	Children []*Tree   `json:"children,omitempty"`
	Terminal *Terminal `json:"terminal,omitempty"`
}

// CheckedSentence is a checker's result for one sentence.
type CheckedSentence struct {
	// Tokens are the sentence tokens without begin/end markers, so that
	// Tokens[i] is the token at annotation position i.
	Tokens []Token `json:"tokens"`

	// Tree is the parse tree, nil when the sentence did not parse.
	Tree *Tree `json:"tree,omitempty"`

	// Terminals are the parser leaves, present only with a tree.
	Terminals []Terminal `json:"terminals,omitempty"`

	// TidyText is the normalized, corrected text of the sentence.
	TidyText string `json:"tidy_text"`

	// Annotations are the diagnostics found in the sentence.
	Annotations []Annotation `json:"annotations"`
}

// Parsed reports whether the sentence has a parse tree.
func (s *CheckedSentence) Parsed() bool {
	return s.Tree != nil
}

// Base returns the list position of annotation index 0: 1 when the
// sentence starts with a begin marker, otherwise 0.
func Base(tokens []Token) int {
	if len(tokens) > 0 && tokens[0].Kind == KindSentenceBegin {
		return 1
	}
	return 0
}

// MarkersOnly reports whether tokens holds nothing but structural markers,
// as in a unit made of a paragraph begin or end marker alone.
func MarkersOnly(tokens []Token) bool {
	for _, t := range tokens {
		if !t.Kind.IsMarker() {
			return false
		}
	}
	return true
}

// Body returns the tokens between the begin marker and the terminator.
func Body(tokens []Token) []Token {
	start := Base(tokens)
	end := len(tokens)
	if end > start && tokens[end-1].Kind.IsTerminator() {
		end--
	}
	return tokens[start:end]
}

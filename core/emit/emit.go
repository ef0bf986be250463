// Package emit renders checked sentences in the text, json, csv and m2
// output formats and joins the per-sentence units of a document.
package emit

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/FocuswithJustin/correctir/core/config"
	"github.com/FocuswithJustin/correctir/core/errors"
	"github.com/FocuswithJustin/correctir/core/ir"
	"github.com/FocuswithJustin/correctir/core/offset"
)

// Format is an output format.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatCSV
	FormatM2
)

var formatNames = map[Format]string{
	FormatText: config.FormatText,
	FormatJSON: config.FormatJSON,
	FormatCSV:  config.FormatCSV,
	FormatM2:   config.FormatM2,
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return 0, &errors.ValidationError{Field: "format", Value: s, Message: "unknown format " + `"` + s + `"`}
}

// Detokenizer turns token lists back into text.
type Detokenizer interface {
	Detokenize(tokens []ir.Token, normalize bool) string
	TextFromTokens(tokens []ir.Token) string
	NormalizedTextFromTokens(tokens []ir.Token) string
	OriginalText(tokens []ir.Token) string
}

// SentenceInput is everything needed to render one checked sentence.
type SentenceInput struct {
	// Tokens is the sentence as segmented, markers included.
	Tokens []ir.Token

	// Checked is the checker's result for the sentence.
	Checked *ir.CheckedSentence

	// Offsets are the character offsets of the sentence tokens.
	Offsets *offset.Offsets

	// Corrected is the sentence text with suggestions applied.
	Corrected string

	// Original is the normalized text of the uncorrected sentence.
	Original string
}

// Unit is the rendered output of one sentence.
type Unit struct {
	// Text is the unit body. It may span several lines.
	Text string `json:"text"`

	// Deferred holds annotation lines to print after the whole document.
	Deferred []string `json:"deferred,omitempty"`
}

// Emitter renders sentences in one format. It holds no per-document state.
type Emitter struct {
	format      Format
	annotations bool
	printAll    bool
	spaced      bool
	normalize   bool
	detok       Detokenizer
}

// New creates an emitter for cfg. The configuration must be valid.
func New(cfg config.Config, d Detokenizer) (*Emitter, error) {
	f, err := ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	return &Emitter{
		format:      f,
		annotations: cfg.Annotations,
		printAll:    cfg.PrintAll,
		spaced:      cfg.Spaced,
		normalize:   cfg.Normalize,
		detok:       d,
	}, nil
}

// Format returns the emitter's output format.
func (e *Emitter) Format() Format {
	return e.format
}

// Separator returns the string placed between units of a document. Only
// text output runs sentences together; m2 blocks are kept one blank line
// apart so every S line starts its own line.
func (e *Emitter) Separator() string {
	if e.printAll && e.format == FormatText {
		return " "
	}
	return "\n"
}

// NewAccumulator returns an empty accumulator for one document.
func (e *Emitter) NewAccumulator() *Accumulator {
	return &Accumulator{sep: e.Separator()}
}

// withAnnotations returns the unit for text with annotation lines, either
// appended or deferred depending on print-all mode.
func (e *Emitter) withAnnotations(text string, lines []string) Unit {
	if !e.annotations || len(lines) == 0 {
		return Unit{Text: text}
	}
	if e.printAll {
		return Unit{Text: text, Deferred: lines}
	}
	return Unit{Text: text + "\n" + strings.Join(lines, "\n")}
}

// marshal encodes v compactly without escaping HTML or non-ASCII.
func marshal(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", errors.Wrap(err, "encoding JSON")
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Accumulator joins the units of one document.
type Accumulator struct {
	sep      string
	units    []string
	deferred []string
}

// Add appends a unit.
func (a *Accumulator) Add(u Unit) {
	a.units = append(a.units, u.Text)
	a.deferred = append(a.deferred, u.Deferred...)
}

// Len returns the number of units added.
func (a *Accumulator) Len() int {
	return len(a.units)
}

// String returns the document output: the units joined by the separator,
// followed by any deferred annotation lines.
func (a *Accumulator) String() string {
	out := strings.Join(a.units, a.sep)
	if len(a.deferred) > 0 {
		out += "\n" + strings.Join(a.deferred, "\n")
	}
	return out
}

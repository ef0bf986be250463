package emit

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/FocuswithJustin/correctir/core/encoding"
	"github.com/FocuswithJustin/correctir/core/errors"
	"github.com/FocuswithJustin/correctir/core/ir"
	"github.com/FocuswithJustin/correctir/core/value"
)

type jsonTokenRecord struct {
	K string         `json:"k"`
	T string         `json:"t,omitempty"`
	V any            `json:"v,omitempty"`
	E map[string]any `json:"e,omitempty"`
}

// Tokens renders a sentence of individually corrected tokens, as produced
// by the spelling-only pass.
func (e *Emitter) Tokens(tokens []ir.Token) (Unit, error) {
	switch e.format {
	case FormatText:
		var lines []string
		for i := range tokens {
			if tokens[i].Error != nil {
				lines = append(lines, tokens[i].Error.String())
			}
		}
		return e.withAnnotations(e.tokenText(tokens), lines), nil
	case FormatJSON:
		lines := make([]string, 0, len(tokens))
		for i := range tokens {
			s, err := marshal(tokenRecord(tokens[i]))
			if err != nil {
				return Unit{}, err
			}
			lines = append(lines, s)
		}
		return Unit{Text: strings.Join(lines, "\n")}, nil
	case FormatCSV:
		return Unit{Text: csvLines(tokens, nil)}, nil
	}
	return Unit{}, errors.NewUnsupported("format "+e.format.String(), "requires sentence-level checking")
}

func (e *Emitter) tokenText(tokens []ir.Token) string {
	switch {
	case e.spaced && e.normalize:
		return e.detok.NormalizedTextFromTokens(tokens)
	case e.spaced:
		return e.detok.TextFromTokens(tokens)
	}
	return e.detok.Detokenize(tokens, true)
}

func tokenRecord(t ir.Token) jsonTokenRecord {
	rec := jsonTokenRecord{K: t.Kind.String(), T: t.Text}
	switch t.Kind {
	case ir.KindWord, ir.KindPerson, ir.KindEntity:
	default:
		rec.V = jsonValue(value.Extract(t, false))
	}
	if t.Error != nil {
		rec.E = t.Error.ToMap()
	}
	return rec
}

// jsonValue renders floats with encoding.FormatNumber so json and csv print
// the same number ("17.0").
func jsonValue(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return json.Number(encoding.FormatNumber(x))
	case ir.Components:
		return jsonList(x)
	case []any:
		return jsonList(x)
	}
	return v
}

func jsonList(parts []any) []any {
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = jsonValue(p)
	}
	return out
}

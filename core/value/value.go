// Package value decodes the kind-dependent payload of a token into a form
// the output encoders can serialize.
package value

import (
	"strings"

	"github.com/FocuswithJustin/correctir/core/encoding"
	"github.com/FocuswithJustin/correctir/core/ir"
)

// Extract returns the serializable value of t, or nil when the token has
// none worth reporting. With quoted set, string results are returned in the
// quoted form used by the csv encoding.
func Extract(t ir.Token, quoted bool) any {
	if t.Value == nil {
		return nil
	}
	switch t.Kind {
	case ir.KindWord, ir.KindPerson, ir.KindEntity:
		// Meanings are not part of the output
		return nil

	case ir.KindPercent, ir.KindNumber, ir.KindCurrency:
		return first(t.Value)

	case ir.KindAmount:
		a, ok := t.Value.(ir.Amount)
		if !ok {
			return passthrough(t.Value, quoted)
		}
		if quoted {
			return `"` + encoding.FormatNumber(a.Amount) + "|" + a.ISO + `"`
		}
		return []any{a.Amount, a.ISO}

	case ir.KindSentenceBegin:
		return nil

	case ir.KindPunctuation:
		punct := punctuation(t)
		if quoted {
			return encoding.Quote(punct)
		}
		return punct

	case ir.KindDate, ir.KindTime, ir.KindDateAbs, ir.KindDateRel,
		ir.KindTimestamp, ir.KindTimestampAbs, ir.KindTimestampRel,
		ir.KindTelno, ir.KindNumWLetter, ir.KindMeasurement:
		if !quoted {
			return t.Value
		}
		if c, ok := t.Value.(ir.Components); ok {
			return encoding.Quote(encoding.PipeJoin(c))
		}
		return passthrough(t.Value, quoted)

	case ir.KindYear, ir.KindURL, ir.KindOrdinal, ir.KindEmail,
		ir.KindUnknown, ir.KindDomain, ir.KindHashtag, ir.KindMolecule,
		ir.KindSSN, ir.KindUsername, ir.KindSerialNumber, ir.KindCompany,
		ir.KindSentenceSplit, ir.KindParagraphBegin, ir.KindParagraphEnd,
		ir.KindSentenceEnd, ir.KindEnd:
		return passthrough(t.Value, quoted)
	}
	return passthrough(t.Value, quoted)
}

// passthrough quotes string values in quoted mode and returns everything
// else unchanged.
func passthrough(v any, quoted bool) any {
	if s, ok := v.(string); ok && quoted {
		return encoding.Quote(s)
	}
	return v
}

// first returns the leading element of a decoded tuple.
func first(v any) any {
	switch x := v.(type) {
	case ir.Number:
		return x.Value
	case ir.Currency:
		return x.ISO
	case ir.Amount:
		return x.Amount
	case ir.Components:
		if len(x) == 0 {
			return nil
		}
		return x[0]
	case []any:
		if len(x) == 0 {
			return nil
		}
		return x[0]
	}
	return v
}

// punctuation returns the normalized punctuation mark of t.
func punctuation(t ir.Token) string {
	switch p := t.Value.(type) {
	case ir.Punctuation:
		if p.Normalized != "" {
			return p.Normalized
		}
	case string:
		if p != "" {
			return p
		}
	}
	return t.Text
}

// IsEmpty reports whether v would print as nothing: nil, an empty string,
// a zero number or false. Such values are replaced by empty quotes in csv.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case float64:
		return x == 0
	case int:
		return x == 0
	case bool:
		return !x
	case ir.Components:
		return len(x) == 0
	case []any:
		return len(x) == 0
	}
	return false
}

// Format renders an extracted value for line-oriented output.
func Format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case ir.Components:
		return "(" + joinComma(x) + ")"
	case []any:
		return "(" + joinComma(x) + ")"
	}
	return encoding.Stringify(v)
}

func joinComma(parts []any) string {
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = encoding.Stringify(p)
	}
	return strings.Join(strs, ", ")
}

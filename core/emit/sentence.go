package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/correctir/core/encoding"
	"github.com/FocuswithJustin/correctir/core/errors"
	"github.com/FocuswithJustin/correctir/core/ir"
	"github.com/FocuswithJustin/correctir/core/value"
)

type jsonToken struct {
	K ir.Kind `json:"k"`
	X string  `json:"x"`
	O string  `json:"o"`
}

type jsonAnnotation struct {
	Start       int      `json:"start"`
	End         int      `json:"end"`
	StartChar   int      `json:"start_char"`
	EndChar     int      `json:"end_char"`
	Code        string   `json:"code"`
	Text        string   `json:"text"`
	Detail      string   `json:"detail"`
	Suggest     string   `json:"suggest"`
	SuggestList []string `json:"suggestlist,omitempty"`
}

type jsonSentence struct {
	Original    string           `json:"original"`
	Corrected   string           `json:"corrected"`
	Tokens      []jsonToken      `json:"tokens"`
	Annotations []jsonAnnotation `json:"annotations"`
}

// Sentence renders one checked sentence.
func (e *Emitter) Sentence(in SentenceInput) (Unit, error) {
	if in.Checked == nil {
		return Unit{}, errors.NewValidation("checked", "missing checker result")
	}
	switch e.format {
	case FormatText:
		lines := make([]string, len(in.Checked.Annotations))
		for i, a := range in.Checked.Annotations {
			lines[i] = a.String()
		}
		return e.withAnnotations(in.Corrected, lines), nil
	case FormatJSON:
		return e.sentenceJSON(in)
	case FormatCSV:
		return Unit{Text: csvLines(in.Tokens, in.Checked)}, nil
	case FormatM2:
		return Unit{Text: m2(in)}, nil
	}
	return Unit{}, errors.NewUnsupported("format "+e.format.String(), "")
}

func (e *Emitter) sentenceJSON(in SentenceInput) (Unit, error) {
	c := in.Checked
	terms := make(map[int]string, len(c.Terminals))
	if c.Tree != nil {
		for _, t := range c.Terminals {
			terms[t.Index] = t.Text
		}
	}
	rec := jsonSentence{
		Original:    in.Original,
		Corrected:   c.TidyText,
		Tokens:      make([]jsonToken, len(c.Tokens)),
		Annotations: make([]jsonAnnotation, 0, len(c.Annotations)),
	}
	for i := range c.Tokens {
		t := &c.Tokens[i]
		x, ok := terms[i]
		if !ok {
			x = t.Text
		}
		o := t.Original
		if o == "" {
			o = t.Text
		}
		rec.Tokens[i] = jsonToken{K: t.Kind, X: x, O: o}
	}
	for _, a := range c.Annotations {
		start, end, err := in.Offsets.Span(a.Start, a.End)
		if err != nil {
			return Unit{}, err
		}
		rec.Annotations = append(rec.Annotations, jsonAnnotation{
			Start:       a.Start,
			End:         a.End,
			StartChar:   start,
			EndChar:     end,
			Code:        a.Code,
			Text:        a.Text,
			Detail:      a.Detail,
			Suggest:     a.Suggest,
			SuggestList: a.SuggestList,
		})
	}
	s, err := marshal(rec)
	if err != nil {
		return Unit{}, err
	}
	return Unit{Text: s}, nil
}

// csvLines renders one line per token with text. Errors come from the
// checked copy of the token when a checker result is available.
func csvLines(tokens []ir.Token, checked *ir.CheckedSentence) string {
	base := ir.Base(tokens)
	var lines []string
	for i := range tokens {
		t := tokens[i]
		if checked != nil {
			if j := i - base; j >= 0 && j < len(checked.Tokens) {
				t.Error = checked.Tokens[j].Error
			}
		}
		if line, ok := csvLine(t); ok {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func csvLine(t ir.Token) (string, bool) {
	if t.Text == "" {
		if t.Kind == ir.KindSentenceEnd {
			return `0,"",""`, true
		}
		return "", false
	}
	v := value.Extract(t, true)
	val := encoding.EmptyQuotes
	if !value.IsEmpty(v) {
		val = value.Format(v)
	}
	errText := ""
	if t.Error != nil {
		errText = t.Error.String()
	}
	return strconv.Itoa(int(t.Kind)) + "," + encoding.Quote(t.Text) + "," + val + "," + encoding.Quote(errText), true
}

func m2(in SentenceInput) string {
	var b strings.Builder
	b.WriteString("S " + in.Original + "\n")
	for _, a := range in.Checked.Annotations {
		fmt.Fprintf(&b, "A %d %d|||%s|||%s|||REQUIRED|||-NONE-|||0\n", a.Start, a.End, a.Code, m2Corrections(a))
	}
	return b.String()
}

// m2Corrections returns the correction field of an A line: the suggestion
// list joined by "||" when there is one, else the single suggestion.
func m2Corrections(a ir.Annotation) string {
	if len(a.SuggestList) > 0 {
		return strings.Join(a.SuggestList, "||")
	}
	return a.Suggest
}

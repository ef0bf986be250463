package splice

import (
	"errors"
	"strings"
	"testing"

	"github.com/FocuswithJustin/correctir/core/detok"
	cerrors "github.com/FocuswithJustin/correctir/core/errors"
	"github.com/FocuswithJustin/correctir/core/ir"
)

func sentence(words ...string) []ir.Token {
	toks := []ir.Token{{Kind: ir.KindSentenceBegin}}
	for i, w := range words {
		orig := w
		if i > 0 {
			orig = " " + w
		}
		toks = append(toks, ir.Token{Kind: ir.KindWord, Text: w, Original: orig})
	}
	return append(toks, ir.Token{Kind: ir.KindSentenceEnd})
}

func texts(tokens []ir.Token) []string {
	var out []string
	for _, t := range tokens {
		if t.Text != "" {
			out = append(out, t.Text)
		}
	}
	return out
}

func TestSingleTokenSuggestion(t *testing.T) {
	tokens := sentence("Ég", "fer", "til", "Spánar")
	anns := []ir.Annotation{{Start: 3, End: 3, Code: "X", Suggest: "Spáni"}}

	got, err := Corrected(tokens, anns, detok.New())
	if err != nil {
		t.Fatal(err)
	}
	if want := "Ég fer til Spáni"; got != want {
		t.Errorf("Corrected() = %q, want %q", got, want)
	}

	spliced, _ := Splice(tokens, anns)
	if len(spliced) != len(tokens) {
		t.Errorf("token count changed: %d -> %d", len(tokens), len(spliced))
	}
	if tokens[4].Text != "Spánar" {
		t.Error("input tokens must not be modified")
	}
	if spliced[4].Original != " Spánar" {
		t.Errorf("original text lost: %q", spliced[4].Original)
	}
}

func TestMultiTokenSuggestion(t *testing.T) {
	tokens := sentence("Leita", "að", "kílómeter", "af", "féinu")
	anns := []ir.Annotation{{Start: 2, End: 4, Code: "P001", Suggest: "kílómetra af fénu"}}

	spliced, err := Splice(tokens, anns)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(spliced), len(tokens)-2; got != want {
		t.Errorf("len = %d, want %d", got, want)
	}
	want := []string{"Leita", "að", "kílómetra af fénu"}
	got := texts(spliced)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("texts = %v, want %v", got, want)
	}
	text := detok.Detokenize(spliced, true)
	if strings.Count(text, "kílómetra af fénu") != 1 {
		t.Errorf("suggestion should appear exactly once in %q", text)
	}
}

func TestTwoTokenSpanRemovesSecond(t *testing.T) {
	tokens := sentence("dást", "af", "þeim")
	anns := []ir.Annotation{{Start: 0, End: 1, Suggest: "dást að"}}
	spliced, err := Splice(tokens, anns)
	if err != nil {
		t.Fatal(err)
	}
	if got := texts(spliced); len(got) != 2 || got[0] != "dást að" || got[1] != "þeim" {
		t.Errorf("texts = %v", got)
	}
}

func TestMixedEditsKeepLaterIndices(t *testing.T) {
	tokens := sentence("a", "b", "c", "d", "e", "f")
	anns := []ir.Annotation{
		{Start: 0, End: 1, Suggest: "AB"},
		{Start: 2, End: 2, Code: "diag"},
		{Start: 3, End: 4, Suggest: "DE"},
		{Start: 5, End: 5, Suggest: "F"},
	}
	spliced, err := Splice(tokens, anns)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := strings.Join(texts(spliced), " "), "AB c DE F"; got != want {
		t.Errorf("texts = %q, want %q", got, want)
	}
	if got, want := len(spliced), len(tokens)-2; got != want {
		t.Errorf("len = %d, want %d", got, want)
	}
}

func TestDiagnosticsLeaveTokens(t *testing.T) {
	tokens := sentence("a", "b", "c")
	anns := []ir.Annotation{{Start: 0, End: 2, Code: "E001"}, {Start: 1, End: 1, Code: "W"}}
	spliced, err := Splice(tokens, anns)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(texts(spliced), " ") != "a b c" {
		t.Errorf("texts = %v", texts(spliced))
	}
}

func TestPlanOrder(t *testing.T) {
	tokens := sentence("a", "b", "c", "d")
	anns := []ir.Annotation{
		{Start: 0, End: 0, Suggest: "x"},
		{Start: 2, End: 3, Suggest: "y"},
		{Start: 1, End: 1, Suggest: "z"},
	}
	edits, err := Plan(tokens, anns)
	if err != nil {
		t.Fatal(err)
	}
	want := []Edit{{First: 3, Last: 4, Text: "y"}, {First: 2, Last: 2, Text: "z"}, {First: 1, Last: 1, Text: "x"}}
	if len(edits) != len(want) {
		t.Fatalf("got %d edits, want %d", len(edits), len(want))
	}
	for i := range want {
		if edits[i] != want[i] {
			t.Errorf("edit %d = %+v, want %+v", i, edits[i], want[i])
		}
	}
}

func TestPlanRejectsBadSpans(t *testing.T) {
	tokens := sentence("a", "b", "c")
	tests := []struct {
		name string
		anns []ir.Annotation
	}{
		{"negative start", []ir.Annotation{{Start: -1, End: 0, Suggest: "x"}}},
		{"inverted", []ir.Annotation{{Start: 2, End: 1, Suggest: "x"}}},
		{"end past sentence", []ir.Annotation{{Start: 2, End: 9, Suggest: "x"}}},
		{"overlap", []ir.Annotation{{Start: 0, End: 1, Suggest: "x"}, {Start: 1, End: 2, Suggest: "y"}}},
		{"nested", []ir.Annotation{{Start: 0, End: 2, Suggest: "x"}, {Start: 1, End: 1, Suggest: "y"}}},
		{"same token twice", []ir.Annotation{{Start: 1, End: 1, Suggest: "x"}, {Start: 1, End: 1, Suggest: "y"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Splice(tokens, tt.anns)
			if !errors.Is(err, cerrors.ErrInvalidSpan) {
				t.Errorf("Splice() error = %v, want ErrInvalidSpan", err)
			}
		})
	}
}

func TestPartialSentenceWithoutBeginMarker(t *testing.T) {
	tokens := []ir.Token{{Kind: ir.KindWord, Text: "halo"}, {Kind: ir.KindWord, Text: "heimur"}}
	spliced, err := Splice(tokens, []ir.Annotation{{Start: 0, End: 0, Suggest: "halló"}})
	if err != nil {
		t.Fatal(err)
	}
	if spliced[0].Text != "halló" {
		t.Errorf("first token = %q, want %q", spliced[0].Text, "halló")
	}
}

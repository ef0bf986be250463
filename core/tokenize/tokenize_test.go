package tokenize

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/FocuswithJustin/correctir/core/detok"
	"github.com/FocuswithJustin/correctir/core/ir"
	"github.com/FocuswithJustin/correctir/core/segment"
)

func collect(text string) []ir.Token {
	return slices.Collect(New().Tokenize(text))
}

func TestTokenizeSentence(t *testing.T) {
	toks := collect("Ég fer til Spánar.")
	var kinds []ir.Kind
	var texts []string
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text)
	}
	wantKinds := []ir.Kind{ir.KindSentenceBegin, ir.KindWord, ir.KindWord, ir.KindWord, ir.KindWord, ir.KindPunctuation, ir.KindSentenceEnd}
	if !reflect.DeepEqual(kinds, wantKinds) {
		t.Errorf("kinds = %v, want %v", kinds, wantKinds)
	}
	wantTexts := []string{"", "Ég", "fer", "til", "Spánar", ".", ""}
	if !reflect.DeepEqual(texts, wantTexts) {
		t.Errorf("texts = %q, want %q", texts, wantTexts)
	}
	if toks[2].Original != " fer" {
		t.Errorf("original of second word = %q, want %q", toks[2].Original, " fer")
	}
}

func TestOriginalsReproduceSource(t *testing.T) {
	inputs := []string{
		"Ég fer til Spánar.",
		"  Hann sagði \"já\"  og fór (heim). Hún kom 17.5.2020 kl. 14:30!",
		"Verðið er 100 kr. og 12,5% afsláttur.\n\nNý málsgrein, t.d. hér...",
	}
	for _, in := range inputs {
		got := detok.OriginalText(collect(in))
		if got != strings.TrimRight(in, " \n") {
			t.Errorf("OriginalText = %q, want %q", got, in)
		}
	}
}

func TestSentenceSplitting(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"two sentences", "Hann kom. Hún fór.", 2},
		{"abbreviation does not split", "Til dæmis t.d. Jón kom.", 1},
		{"lowercase after period does not split", "Þetta er 3. kafli.", 1},
		{"question and exclamation", "Kemur þú? Já! Gott.", 3},
		{"closing quote stays with sentence", "Hann sagði „já.“ Svo fór hann.", 2},
		{"paragraph break", "Fyrsta lína\n\nÖnnur lína", 2},
		{"paragraph break after period", "Hann kom.\n\n\nHún fór.", 2},
		{"no final punctuation", "engin greinarmerki hér", 1},
		{"empty", "   ", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sents [][]ir.Token
			for _, s := range segment.Sentences(New().Tokenize(tt.text)) {
				if !ir.MarkersOnly(s) {
					sents = append(sents, s)
				}
			}
			if len(sents) != tt.want {
				t.Fatalf("got %d sentences, want %d", len(sents), tt.want)
			}
			for _, s := range sents {
				if s[0].Kind != ir.KindSentenceBegin || s[len(s)-1].Kind != ir.KindSentenceEnd {
					t.Errorf("sentence not wrapped in markers: %v", s)
				}
			}
		})
	}
}

func TestParagraphMarkers(t *testing.T) {
	sb, se := ir.KindSentenceBegin, ir.KindSentenceEnd
	pb, pe := ir.KindParagraphBegin, ir.KindParagraphEnd
	w, p := ir.KindWord, ir.KindPunctuation
	tests := []struct {
		name string
		text string
		want []ir.Kind
	}{
		{"single paragraph", "Hann kom.", []ir.Kind{sb, w, w, p, se}},
		{"open sentence at break", "Hann kom\n\nHún fór.", []ir.Kind{sb, w, w, se, pe, pb, sb, w, w, p, se}},
		{"closed sentence at break", "Hann kom.\n\nHún fór.", []ir.Kind{sb, w, w, p, se, pe, pb, sb, w, w, p, se}},
		{"leading blank lines", "\n\nHann kom.", []ir.Kind{sb, w, w, p, se}},
		{"trailing blank lines", "Hann kom.\n\n", []ir.Kind{sb, w, w, p, se}},
		{"single newline", "Hann kom\nHún fór.", []ir.Kind{sb, w, w, w, w, p, se}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []ir.Kind
			for tok := range New().Tokenize(tt.text) {
				got = append(got, tok.Kind)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenKinds(t *testing.T) {
	tests := []struct {
		text  string
		kind  ir.Kind
		value any
	}{
		{"17", ir.KindNumber, ir.Number{Value: 17}},
		{"1.000", ir.KindNumber, ir.Number{Value: 1000}},
		{"12,5", ir.KindNumber, ir.Number{Value: 12.5}},
		{"12,5%", ir.KindPercent, ir.Number{Value: 12.5}},
		{"14:30", ir.KindTime, ir.Components{14, 30, 0}},
		{"17.5.2020", ir.KindDateAbs, ir.Components{2020, 5, 17}},
		{"555-1234", ir.KindTelno, ir.Components{"555-1234", "354"}},
		{"jon@example.is", ir.KindEmail, "jon@example.is"},
		{"https://greynir.is", ir.KindURL, "https://greynir.is"},
		{"$5", ir.KindAmount, ir.Amount{Amount: 5, ISO: "USD"}},
		{"ISK", ir.KindCurrency, ir.Currency{ISO: "ISK"}},
		{"hestur", ir.KindWord, nil},
		{"###", ir.KindPunctuation, nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			toks := collect(tt.text)
			tok := toks[1]
			if tok.Kind != tt.kind {
				t.Fatalf("kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tt.value != nil && !reflect.DeepEqual(tok.Value, tt.value) {
				t.Errorf("value = %#v, want %#v", tok.Value, tt.value)
			}
		})
	}
}

func TestAmountMerge(t *testing.T) {
	toks := collect("Það kostar 100 kr. á dag.")
	var amt *ir.Token
	for i := range toks {
		if toks[i].Kind == ir.KindAmount {
			amt = &toks[i]
		}
	}
	if amt == nil {
		t.Fatal("no amount token")
	}
	if amt.Text != "100 kr." || amt.Original != " 100 kr." {
		t.Errorf("amount text/original = %q/%q", amt.Text, amt.Original)
	}
	if v, ok := amt.Value.(ir.Amount); !ok || v.Amount != 100 || v.ISO != "ISK" {
		t.Errorf("amount value = %#v", amt.Value)
	}
}

func TestQuoteNormalization(t *testing.T) {
	toks := collect(`Hann sagði "já".`)
	var norms []string
	for _, tok := range toks {
		if p, ok := tok.Value.(ir.Punctuation); ok {
			norms = append(norms, p.Normalized)
		}
	}
	if want := []string{"„", "“", "."}; !reflect.DeepEqual(norms, want) {
		t.Errorf("normalized punctuation = %q, want %q", norms, want)
	}
	if got, want := detok.Detokenize(toks, true), "Hann sagði „já“."; got != want {
		t.Errorf("Detokenize() = %q, want %q", got, want)
	}
}

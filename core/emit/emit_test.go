package emit

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/correctir/core/config"
	"github.com/FocuswithJustin/correctir/core/detok"
	"github.com/FocuswithJustin/correctir/core/errors"
	"github.com/FocuswithJustin/correctir/core/ir"
	"github.com/FocuswithJustin/correctir/core/offset"
)

func punct(mark string) ir.Token {
	return ir.Token{
		Kind:     ir.KindPunctuation,
		Text:     mark,
		Original: mark,
		Value:    ir.Punctuation{Space: detok.ClassOf(mark), Normalized: mark},
	}
}

func word(text, original string) ir.Token {
	return ir.Token{Kind: ir.KindWord, Text: text, Original: original}
}

// spanarSentence is "Ég fer til Spánar." with one suggestion on position 3.
func spanarSentence() SentenceInput {
	tokens := []ir.Token{
		{Kind: ir.KindSentenceBegin},
		word("Ég", "Ég"),
		word("fer", " fer"),
		word("til", " til"),
		word("Spánar", " Spánar"),
		punct("."),
		{Kind: ir.KindSentenceEnd},
	}
	body := make([]ir.Token, 5)
	copy(body, tokens[1:6])
	ann := ir.Annotation{Start: 3, End: 3, Code: "S004", Text: "Rangt fall", Original: "Spánar", Suggest: "Spáni"}
	body[3].Error = &ir.TokenError{Code: "S004", Text: "Rangt fall", Original: "Spánar", Suggest: "Spáni"}
	return SentenceInput{
		Tokens: tokens,
		Checked: &ir.CheckedSentence{
			Tokens:      body,
			TidyText:    "Ég fer til Spáni.",
			Annotations: []ir.Annotation{ann},
		},
		Offsets:   offset.NewTracker().Track(tokens),
		Corrected: "Ég fer til Spáni.",
		Original:  "Ég fer til Spánar.",
	}
}

func newEmitter(t *testing.T, mutate func(*config.Config)) *Emitter {
	t.Helper()
	cfg := config.Default()
	mutate(&cfg)
	e, err := New(cfg, detok.New())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestParseFormat(t *testing.T) {
	for _, name := range config.Formats {
		f, err := ParseFormat(strings.ToUpper(name))
		if err != nil || f.String() != name {
			t.Errorf("ParseFormat(%q) = %v, %v", name, f, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("ParseFormat(xml) error = %v", err)
	}
}

func TestSentenceJSON(t *testing.T) {
	e := newEmitter(t, func(c *config.Config) { c.Format = "json" })
	u, err := e.Sentence(spanarSentence())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"original":"Ég fer til Spánar.","corrected":"Ég fer til Spáni.",` +
		`"tokens":[{"k":6,"x":"Ég","o":"Ég"},{"k":6,"x":"fer","o":" fer"},{"k":6,"x":"til","o":" til"},` +
		`{"k":6,"x":"Spánar","o":" Spánar"},{"k":1,"x":".","o":"."}],` +
		`"annotations":[{"start":3,"end":3,"start_char":10,"end_char":16,"code":"S004","text":"Rangt fall","detail":"","suggest":"Spáni"}]}`
	if u.Text != want {
		t.Errorf("json =\n%s\nwant\n%s", u.Text, want)
	}
}

func TestSentenceJSONLastTokenEndChar(t *testing.T) {
	in := spanarSentence()
	in.Checked.Annotations = []ir.Annotation{{Start: 4, End: 4, Code: "P001", Text: "Greinarmerki"}}
	e := newEmitter(t, func(c *config.Config) { c.Format = "json" })
	u, err := e.Sentence(in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(u.Text, `"start_char":17,"end_char":17`) {
		t.Errorf("json = %s, want end_char = final offset - 1", u.Text)
	}
}

func TestSentenceJSONTerminalText(t *testing.T) {
	in := spanarSentence()
	in.Checked.Tree = &ir.Tree{Label: "S0"}
	in.Checked.Terminals = []ir.Terminal{{Index: 1, Text: "FER"}}
	e := newEmitter(t, func(c *config.Config) { c.Format = "json" })
	u, err := e.Sentence(in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(u.Text, `{"k":6,"x":"FER","o":" fer"}`) || !strings.Contains(u.Text, `{"k":6,"x":"til","o":" til"}`) {
		t.Errorf("json = %s, want terminal text where a terminal covers the token", u.Text)
	}
}

func TestSentenceJSONBadSpan(t *testing.T) {
	in := spanarSentence()
	in.Checked.Annotations = []ir.Annotation{{Start: 3, End: 9, Code: "X"}}
	e := newEmitter(t, func(c *config.Config) { c.Format = "json" })
	if _, err := e.Sentence(in); !errors.Is(err, errors.ErrInvalidSpan) {
		t.Errorf("Sentence() error = %v, want ErrInvalidSpan", err)
	}
}

func TestSentenceM2(t *testing.T) {
	in := spanarSentence()
	in.Checked.Annotations = []ir.Annotation{{Start: 0, End: 1, Code: "SPELL", Suggest: "rétt"}}
	e := newEmitter(t, func(c *config.Config) { c.Format = "m2" })
	u, err := e.Sentence(in)
	if err != nil {
		t.Fatal(err)
	}
	want := "S Ég fer til Spánar.\nA 0 1|||SPELL|||rétt|||REQUIRED|||-NONE-|||0\n"
	if u.Text != want {
		t.Errorf("m2 = %q, want %q", u.Text, want)
	}
}

func TestSentenceSuggestionList(t *testing.T) {
	in := spanarSentence()
	in.Checked.Annotations[0].SuggestList = []string{"Spáni", "Spánn"}

	u, err := newEmitter(t, func(c *config.Config) { c.Format = "m2" }).Sentence(in)
	if err != nil {
		t.Fatal(err)
	}
	if want := "A 3 3|||S004|||Spáni||Spánn|||REQUIRED|||-NONE-|||0\n"; !strings.HasSuffix(u.Text, want) {
		t.Errorf("m2 = %q, want A line %q", u.Text, want)
	}

	u, err = newEmitter(t, func(c *config.Config) { c.Format = "json" }).Sentence(in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(u.Text, `"suggest":"Spáni","suggestlist":["Spáni","Spánn"]}`) {
		t.Errorf("json = %s, want suggestlist", u.Text)
	}
}

func TestSentenceCSV(t *testing.T) {
	e := newEmitter(t, func(c *config.Config) { c.Format = "csv" })
	u, err := e.Sentence(spanarSentence())
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		`6,"Ég","",""`,
		`6,"fer","",""`,
		`6,"til","",""`,
		`6,"Spánar","","S004: Rangt fall"`,
		`1,".",".",""`,
		`0,"",""`,
	}, "\n")
	if u.Text != want {
		t.Errorf("csv =\n%s\nwant\n%s", u.Text, want)
	}
}

func TestCSVValues(t *testing.T) {
	tests := []struct {
		name string
		tok  ir.Token
		want string
	}{
		{"zero number", ir.Token{Kind: ir.KindNumber, Text: "0", Value: ir.Number{Value: 0}}, `5,"0","",""`},
		{"number", ir.Token{Kind: ir.KindNumber, Text: "5", Value: ir.Number{Value: 5}}, `5,"5",5.0,""`},
		{"amount", ir.Token{Kind: ir.KindAmount, Text: "100 kr.", Value: ir.Amount{Amount: 100, ISO: "ISK"}}, `13,"100 kr.","100.0|ISK",""`},
		{"time", ir.Token{Kind: ir.KindTime, Text: "14:30", Value: ir.Components{14, 30, 0}}, `2,"14:30","14|30|0",""`},
		{"quote in text", ir.Token{Kind: ir.KindPunctuation, Text: `"`, Value: ir.Punctuation{Normalized: "„"}}, `1,"\"","„",""`},
		{"sentence end", ir.Token{Kind: ir.KindSentenceEnd}, `0,"",""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := csvLine(tt.tok)
			if !ok || got != tt.want {
				t.Errorf("csvLine() = %q, %v, want %q", got, ok, tt.want)
			}
		})
	}
	if _, ok := csvLine(ir.Token{Kind: ir.KindSentenceBegin}); ok {
		t.Error("begin marker without text should not produce a line")
	}
}

func TestSentenceText(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*config.Config)
		wantText  string
		wantDefer int
	}{
		{"plain", func(c *config.Config) { c.Format = "text" }, "Ég fer til Spáni.", 0},
		{
			"annotations inline",
			func(c *config.Config) { c.Format = "text"; c.Annotations = true; c.PrintAll = false },
			"Ég fer til Spáni.\n003-003: S004   Rangt fall | 'Spánar' -> 'Spáni'",
			0,
		},
		{
			"annotations deferred",
			func(c *config.Config) { c.Format = "text"; c.Annotations = true },
			"Ég fer til Spáni.",
			1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := newEmitter(t, tt.mutate).Sentence(spanarSentence())
			if err != nil {
				t.Fatal(err)
			}
			if u.Text != tt.wantText || len(u.Deferred) != tt.wantDefer {
				t.Errorf("unit = %+v", u)
			}
		})
	}
}

func TestAccumulator(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		units  []Unit
		want   string
	}{
		{
			"text print all",
			func(c *config.Config) { c.Format = "text" },
			[]Unit{{Text: "A."}, {Text: "B.", Deferred: []string{"x"}}, {Text: "C.", Deferred: []string{"y"}}},
			"A. B. C.\nx\ny",
		},
		{
			"text one per line",
			func(c *config.Config) { c.Format = "text"; c.PrintAll = false },
			[]Unit{{Text: "A."}, {Text: "B."}},
			"A.\nB.",
		},
		{
			"m2 print all",
			func(c *config.Config) { c.Format = "m2" },
			[]Unit{{Text: "S a\nA 0 0|||X|||y|||REQUIRED|||-NONE-|||0\n"}, {Text: "S b\n"}},
			"S a\nA 0 0|||X|||y|||REQUIRED|||-NONE-|||0\n\nS b\n",
		},
		{
			"m2 one per line",
			func(c *config.Config) { c.Format = "m2"; c.PrintAll = false },
			[]Unit{{Text: "S a\n"}, {Text: "S b\n"}},
			"S a\n\nS b\n",
		},
		{
			"json always newline",
			func(c *config.Config) { c.Format = "json" },
			[]Unit{{Text: "{}"}, {Text: "{}"}},
			"{}\n{}",
		},
		{
			"csv always newline",
			func(c *config.Config) { c.Format = "csv" },
			[]Unit{{Text: "a"}, {Text: "b"}},
			"a\nb",
		},
		{"empty", func(c *config.Config) {}, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := newEmitter(t, tt.mutate).NewAccumulator()
			for _, u := range tt.units {
				acc.Add(u)
			}
			if got := acc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if acc.Len() != len(tt.units) {
				t.Errorf("Len() = %d", acc.Len())
			}
		})
	}
}

func spelledTokens() []ir.Token {
	fer := word("fór", " fer")
	fer.Error = &ir.TokenError{Code: "S004", Text: "Rangt orð", Original: "fer", Suggest: "fór"}
	return []ir.Token{
		{Kind: ir.KindSentenceBegin},
		word("Ég", "Ég"),
		fer,
		{Kind: ir.KindNumber, Text: "17", Original: " 17", Value: ir.Number{Value: 17}},
		punct("."),
		{Kind: ir.KindSentenceEnd},
	}
}

func TestTokensJSON(t *testing.T) {
	u, err := newEmitter(t, func(c *config.Config) { c.Format = "json"; c.AllErrors = false }).Tokens(spelledTokens())
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(u.Text, "\n")
	want := []string{
		`{"k":"BEGIN SENT"}`,
		`{"k":"WORD","t":"Ég"}`,
		`{"k":"WORD","t":"fór","e":{"code":"S004","original":"fer","suggest":"fór","text":"Rangt orð"}}`,
		`{"k":"NUMBER","t":"17","v":17.0}`,
		`{"k":"PUNCTUATION","t":".","v":"."}`,
		`{"k":"END SENT"}`,
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), u.Text)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %s, want %s", i, lines[i], want[i])
		}
	}
}

func TestTokenRecordNumbersMatchCSV(t *testing.T) {
	tests := []struct {
		name string
		tok  ir.Token
		want string
	}{
		{"integral number", ir.Token{Kind: ir.KindNumber, Text: "50", Value: ir.Number{Value: 50}}, `{"k":"NUMBER","t":"50","v":50.0}`},
		{"fraction", ir.Token{Kind: ir.KindNumber, Text: "2,5", Value: ir.Number{Value: 2.5}}, `{"k":"NUMBER","t":"2,5","v":2.5}`},
		{"amount", ir.Token{Kind: ir.KindAmount, Text: "100 kr.", Value: ir.Amount{Amount: 100, ISO: "ISK"}}, `{"k":"AMOUNT","t":"100 kr.","v":[100.0,"ISK"]}`},
		{"time", ir.Token{Kind: ir.KindTime, Text: "14:30", Value: ir.Components{14, 30, 0}}, `{"k":"TIME","t":"14:30","v":[14,30,0]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := marshal(tokenRecord(tt.tok))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("tokenRecord() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTokensText(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"detokenized", func(c *config.Config) {}, "Ég fór 17."},
		{"spaced", func(c *config.Config) { c.Spaced = true }, "Ég fór 17 ."},
		{"annotations", func(c *config.Config) { c.Annotations = true; c.PrintAll = false }, "Ég fór 17.\nS004: Rangt orð"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEmitter(t, func(c *config.Config) {
				c.Format = "text"
				c.AllErrors = false
				tt.mutate(c)
			})
			u, err := e.Tokens(spelledTokens())
			if err != nil {
				t.Fatal(err)
			}
			if u.Text != tt.want {
				t.Errorf("text = %q, want %q", u.Text, tt.want)
			}
		})
	}
}

func TestTokensCSVAndM2(t *testing.T) {
	u, err := newEmitter(t, func(c *config.Config) { c.Format = "csv" }).Tokens(spelledTokens())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(u.Text, `6,"fór","","S004: Rangt orð"`) || !strings.HasSuffix(u.Text, `0,"",""`) {
		t.Errorf("csv = %s", u.Text)
	}
	if _, err := newEmitter(t, func(c *config.Config) { c.Format = "m2" }).Tokens(spelledTokens()); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("m2 Tokens() error = %v, want ErrUnsupported", err)
	}
}

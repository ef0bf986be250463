package rules

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/correctir/core/errors"
)

// ruleFile is the parse tree of a text rules file.
type ruleFile struct {
	Rules []*ruleLine `parser:"@@*"`
}

type ruleLine struct {
	Pattern      string   `parser:"@String \"->\""`
	Suggest      string   `parser:"@String"`
	Alternatives []string `parser:"( \"|\" @String )*"`
	Code         string   `parser:"\":\" @Ident"`
	Text         string   `parser:"@String"`
	Detail       string   `parser:"( \"~\" @String )? \";\""`
}

var ruleLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\r\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_-]*`},
	{Name: "Punct", Pattern: `->|[|:;~]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

var ruleParser = participle.MustBuild[ruleFile](
	participle.Lexer(ruleLexer),
	participle.Unquote("String"),
	participle.Elide("Comment", "Whitespace"),
)

// ParseText parses rules in the text format. The path is used in error
// messages only.
func ParseText(path, input string) ([]Rule, error) {
	file, err := ruleParser.ParseString(path, input)
	if err != nil {
		return nil, &errors.ParseError{Format: "rules", Path: path, Message: err.Error(), Err: err}
	}
	out := make([]Rule, 0, len(file.Rules))
	for _, l := range file.Rules {
		out = append(out, Rule{
			Pattern:      SplitPattern(l.Pattern),
			Suggest:      l.Suggest,
			Alternatives: l.Alternatives,
			Code:         l.Code,
			Text:         l.Text,
			Detail:       l.Detail,
		})
	}
	if err := validateAll(path, out); err != nil {
		return nil, err
	}
	return out, nil
}

// String formats the rule as one line of the text format, so that the
// output of ParseText can be parsed again.
func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString(strconv.Quote(r.Phrase()))
	b.WriteString(" -> ")
	b.WriteString(strconv.Quote(r.Suggest))
	for _, alt := range r.Alternatives {
		b.WriteString(" | ")
		b.WriteString(strconv.Quote(alt))
	}
	b.WriteString(" : ")
	b.WriteString(r.Code)
	b.WriteString(" ")
	b.WriteString(strconv.Quote(r.Text))
	if r.Detail != "" {
		b.WriteString(" ~ ")
		b.WriteString(strconv.Quote(r.Detail))
	}
	b.WriteString(" ;")
	return b.String()
}

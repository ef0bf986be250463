package check

import (
	"strings"

	"github.com/FocuswithJustin/correctir/core/ir"
)

// parseable reports whether the shallow parser accepts the sentence: it
// must contain a word, no unknown token and at most MaxParseTokens tokens.
func parseable(toks []ir.Token) bool {
	if len(toks) > MaxParseTokens {
		return false
	}
	hasWord := false
	for _, t := range toks {
		switch t.Kind {
		case ir.KindUnknown:
			return false
		case ir.KindWord, ir.KindPerson, ir.KindEntity, ir.KindCompany:
			hasWord = true
		}
	}
	return hasWord
}

// parse builds a flat tree with one terminal per token.
func parse(toks []ir.Token) (*ir.Tree, []ir.Terminal) {
	root := &ir.Tree{Label: "S0"}
	terms := make([]ir.Terminal, len(toks))
	for i, t := range toks {
		terms[i] = ir.Terminal{
			Index:    i,
			Text:     terminalText(toks, i),
			Category: category(t.Kind),
		}
		term := terms[i]
		root.Children = append(root.Children, &ir.Tree{Label: term.Category, Terminal: &term})
	}
	return root, terms
}

// terminalText normalizes dashes: a hyphen standing alone between two
// words becomes an en dash.
func terminalText(toks []ir.Token, i int) string {
	t := toks[i]
	if t.Kind != ir.KindPunctuation {
		return t.Text
	}
	switch t.Text {
	case "--":
		return "–"
	case "-":
		if i > 0 && i+1 < len(toks) && strings.HasPrefix(t.Original, " ") {
			return "–"
		}
	}
	return t.Text
}

func category(k ir.Kind) string {
	switch k {
	case ir.KindWord:
		return "orð"
	case ir.KindPerson:
		return "person"
	case ir.KindEntity, ir.KindCompany:
		return "sérnafn"
	case ir.KindPunctuation:
		return "p"
	case ir.KindNumber, ir.KindOrdinal, ir.KindYear, ir.KindPercent:
		return "tala"
	}
	return strings.ToLower(k.String())
}

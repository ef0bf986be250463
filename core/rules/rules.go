// Package rules loads correction rules for the lexicon checker.
//
// A rule maps a word or phrase pattern to a suggested replacement together
// with the error code and message reported when the pattern is found. Rules
// are read from a line-based text format or from XML.
//
// Text format:
//
//	# comment
//	"kílómeter" -> "kílómetri" : S004 "Rangt beygt orð" ;
//	"að sama skapi" -> "að sama skapi" | "eins" : P001 "Orðasamband" ~ "Sjá stíl" ;
//
// XML format:
//
//	<rules>
//	  <rule code="S004" text="Rangt beygt orð">
//	    <pattern>kílómeter</pattern>
//	    <suggest>kílómetri</suggest>
//	    <detail>...</detail>
//	  </rule>
//	</rules>
package rules

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/correctir/core/errors"
)

// Rule is one correction rule.
type Rule struct {
	// Pattern is the lowercased word sequence the rule matches.
	Pattern []string `json:"pattern"`

	// Suggest is the preferred replacement text. Empty means the rule
	// reports a diagnostic without a suggestion.
	Suggest string `json:"suggest,omitempty"`

	// Alternatives are further acceptable replacements.
	Alternatives []string `json:"alternatives,omitempty"`

	Code   string `json:"code"`
	Text   string `json:"text"`
	Detail string `json:"detail,omitempty"`
}

// Head returns the first word of the pattern, used as lookup key.
func (r *Rule) Head() string {
	if len(r.Pattern) == 0 {
		return ""
	}
	return r.Pattern[0]
}

// Phrase returns the pattern joined with single spaces.
func (r *Rule) Phrase() string {
	return strings.Join(r.Pattern, " ")
}

// SuggestList returns the suggestion followed by the alternatives.
func (r *Rule) SuggestList() []string {
	if r.Suggest == "" {
		return append([]string(nil), r.Alternatives...)
	}
	return append([]string{r.Suggest}, r.Alternatives...)
}

// Validate checks that the rule can be applied.
func (r *Rule) Validate() error {
	if len(r.Pattern) == 0 {
		return errors.NewValidation("pattern", "empty pattern")
	}
	if r.Code == "" {
		return errors.NewValidation("code", "missing error code for "+r.Phrase())
	}
	return nil
}

// SplitPattern lowercases a pattern and splits it on whitespace.
func SplitPattern(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// Load reads rules from a file, choosing the format by extension: .xml
// files are parsed as XML, everything else as text.
func Load(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.NotFoundError{Resource: "rules file", ID: path, Err: err}
		}
		return nil, errors.NewIO("read", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return ParseXML(path, data)
	}
	return ParseText(path, string(data))
}

func validateAll(path string, rules []Rule) error {
	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return errors.Wrapf(err, "%s: rule %d", path, i+1)
		}
	}
	return nil
}

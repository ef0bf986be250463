package rules

import (
	"bytes"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/correctir/core/errors"
)

var (
	ruleExpr = xpath.MustCompile("/rules/rule")
	altExpr  = xpath.MustCompile("alternative")
)

// ParseXML parses rules in the XML format.
func ParseXML(path string, data []byte) ([]Rule, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &errors.ParseError{Format: "XML", Path: path, Message: err.Error(), Err: err}
	}
	if xmlquery.FindOne(doc, "/rules") == nil {
		return nil, errors.NewParse("XML", path, "missing <rules> root element")
	}

	var out []Rule
	for _, n := range xmlquery.QuerySelectorAll(doc, ruleExpr) {
		r := Rule{
			Code:    n.SelectAttr("code"),
			Text:    n.SelectAttr("text"),
			Pattern: SplitPattern(childText(n, "pattern")),
			Suggest: childText(n, "suggest"),
			Detail:  childText(n, "detail"),
		}
		for _, alt := range xmlquery.QuerySelectorAll(n, altExpr) {
			r.Alternatives = append(r.Alternatives, strings.TrimSpace(alt.InnerText()))
		}
		out = append(out, r)
	}
	if err := validateAll(path, out); err != nil {
		return nil, err
	}
	return out, nil
}

func childText(n *xmlquery.Node, name string) string {
	c := n.SelectElement(name)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.InnerText())
}

// Package config holds the options that control a correction run.
package config

import (
	"strings"

	"github.com/FocuswithJustin/correctir/core/check"
	"github.com/FocuswithJustin/correctir/core/errors"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatM2   = "m2"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatText, FormatJSON, FormatCSV, FormatM2}

// Config controls a correction run.
type Config struct {
	// Format is the output format: text, json, csv or m2.
	Format string `json:"format"`

	// AllErrors selects sentence-level checking. When false only the
	// token-level spelling pass runs.
	AllErrors bool `json:"all_errors"`

	// AnnotateUnparsedSentences annotates sentences that do not parse.
	AnnotateUnparsedSentences bool `json:"annotate_unparsed_sentences"`

	// Annotations echoes annotations beneath corrected text in text format.
	Annotations bool `json:"annotations"`

	// GenerateSuggestionList asks the checker for every acceptable
	// replacement of an error. The list appears in json annotations and
	// in the correction field of m2 A lines.
	GenerateSuggestionList bool `json:"generate_suggestion_list"`

	// IgnoreRules lists error codes to suppress.
	IgnoreRules []string `json:"ignore_rules,omitempty"`

	// PrintAll joins the text output of a document on one line and
	// buffers annotation lines until the end of the document.
	PrintAll bool `json:"print_all"`

	// Spaced separates tokens with single spaces in spelling-only text
	// output instead of detokenizing.
	Spaced bool `json:"spaced"`

	// Normalize uses normalized punctuation in spelling-only text output.
	Normalize bool `json:"normalize"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Format:                    FormatJSON,
		AllErrors:                 true,
		AnnotateUnparsedSentences: true,
		PrintAll:                  true,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	known := false
	for _, f := range Formats {
		if c.Format == f {
			known = true
			break
		}
	}
	if !known {
		return &errors.ValidationError{
			Field:   "format",
			Value:   c.Format,
			Message: "unknown format " + `"` + c.Format + `"` + ", expected one of " + strings.Join(Formats, ", "),
		}
	}
	if !c.AllErrors && c.Format == FormatM2 {
		return &errors.ValidationError{
			Field:   "format",
			Value:   c.Format,
			Message: "m2 output requires all_errors",
			Err:     errors.ErrUnsupported,
		}
	}
	for _, code := range c.IgnoreRules {
		if strings.TrimSpace(code) == "" {
			return errors.NewValidation("ignore_rules", "empty error code")
		}
	}
	return nil
}

// CheckOptions returns the checker options derived from the configuration.
func (c *Config) CheckOptions() check.Options {
	opts := check.NewOptions(c.AnnotateUnparsedSentences, c.IgnoreRules...)
	opts.GenerateSuggestionList = c.GenerateSuggestionList
	return opts
}

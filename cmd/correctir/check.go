package main

import (
	"context"

	"github.com/FocuswithJustin/correctir/core/config"
	"github.com/FocuswithJustin/correctir/internal/fileio"
	"github.com/FocuswithJustin/correctir/internal/logging"
)

// CheckCmd checks a document and writes the corrections.
type CheckCmd struct {
	SourceFlags `embed:""`

	File string `arg:"" optional:"" default:"-" help:"Input file (- for stdin; .xz and .gz are decompressed)"`
	Out  string `short:"o" default:"-" help:"Output file (- for stdout; .xz and .gz are compressed)"`

	Format                    string   `short:"f" default:"json" enum:"text,json,csv,m2" help:"Output format (text, json, csv, m2)"`
	AllErrors                 bool     `default:"true" negatable:"" help:"Run the sentence checker; without it only single words are corrected"`
	AnnotateUnparsedSentences bool     `default:"true" negatable:"" help:"Annotate sentences that do not parse"`
	Annotations               bool     `short:"a" help:"Print annotations beneath corrected text"`
	SuggestionList            bool     `name:"suggestion-list" help:"List every acceptable replacement in json and m2 annotations"`
	IgnoreRules               []string `name:"ignore-rule" sep:"," help:"Error codes to suppress"`
	PrintAll                  bool     `default:"true" negatable:"" help:"Join the document on one line and print annotations at the end"`
	Spaced                    bool     `help:"Separate tokens with single spaces in spelling-only text output"`
	Normalize                 bool     `help:"Use normalized punctuation in spelling-only text output"`
}

// config returns the run configuration given by the flags.
func (c *CheckCmd) config() config.Config {
	return config.Config{
		Format:                    c.Format,
		AllErrors:                 c.AllErrors,
		AnnotateUnparsedSentences: c.AnnotateUnparsedSentences,
		Annotations:               c.Annotations,
		GenerateSuggestionList:    c.SuggestionList,
		IgnoreRules:               c.IgnoreRules,
		PrintAll:                  c.PrintAll,
		Spaced:                    c.Spaced,
		Normalize:                 c.Normalize,
	}
}

func (c *CheckCmd) Run() error {
	cfg := c.config()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := runContext(context.Background())
	corrector, release, err := c.corrector(ctx)
	if err != nil {
		return err
	}
	defer release()

	text, err := fileio.ReadAll(c.File)
	if err != nil {
		return err
	}
	res, err := corrector.CheckErrors(ctx, text, cfg)
	if err != nil {
		return err
	}

	out, err := fileio.CreateOutput(c.Out)
	if err != nil {
		return err
	}
	if err := out.WriteLine(res.Output); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	logging.LoggerFromContext(ctx).Info("check complete",
		"input", c.File,
		"output", c.Out,
		"sentences", res.Sentences,
		"annotations", res.Annotations)
	return nil
}

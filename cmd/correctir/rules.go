package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/FocuswithJustin/correctir/core/lexicon"
	"github.com/FocuswithJustin/correctir/core/rules"
	"github.com/FocuswithJustin/correctir/internal/logging"
)

// RulesGroup contains lexicon database operations.
type RulesGroup struct {
	Import RulesImportCmd `cmd:"" help:"Import rule files into a lexicon database"`
	Lookup RulesLookupCmd `cmd:"" help:"Show the rules starting with a word"`
	List   RulesListCmd   `cmd:"" help:"List all rules in a lexicon database"`
}

// RulesImportCmd imports rule files into a lexicon.
type RulesImportCmd struct {
	Lexicon string   `arg:"" help:"Lexicon database (created if missing)" type:"path"`
	Files   []string `arg:"" help:"Rule files (.txt or .xml)" type:"existingfile"`
}

func (c *RulesImportCmd) Run(out io.Writer) error {
	ctx := context.Background()
	var all []rules.Rule
	for _, path := range c.Files {
		rs, err := rules.Load(path)
		if err != nil {
			return err
		}
		logging.RulesLoaded(path, len(rs))
		all = append(all, rs...)
	}

	store, err := lexicon.Open(c.Lexicon)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Import(ctx, all)
	if err != nil {
		return err
	}
	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %d rules into %s (%d total)\n", n, store.Path(), total)
	return nil
}

// RulesLookupCmd prints the rules whose pattern starts with a word.
type RulesLookupCmd struct {
	Lexicon string `arg:"" help:"Lexicon database" type:"existingfile"`
	Word    string `arg:"" help:"First word of the pattern"`
	JSON    bool   `help:"Print rules as JSON"`
}

func (c *RulesLookupCmd) Run(out io.Writer) error {
	ctx := context.Background()
	store, err := lexicon.Open(c.Lexicon)
	if err != nil {
		return err
	}
	defer store.Close()

	words := rules.SplitPattern(c.Word)
	if len(words) == 0 {
		return fmt.Errorf("empty word")
	}
	rs, err := store.Lookup(ctx, words[0])
	if err != nil {
		return err
	}
	return printRules(out, rs, c.JSON)
}

// RulesListCmd prints every rule of a lexicon.
type RulesListCmd struct {
	Lexicon string `arg:"" help:"Lexicon database" type:"existingfile"`
	JSON    bool   `help:"Print rules as JSON"`
	Count   bool   `help:"Print only the number of rules"`
}

func (c *RulesListCmd) Run(out io.Writer) error {
	ctx := context.Background()
	store, err := lexicon.Open(c.Lexicon)
	if err != nil {
		return err
	}
	defer store.Close()

	if c.Count {
		n, err := store.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, n)
		return nil
	}
	rs, err := store.All(ctx)
	if err != nil {
		return err
	}
	return printRules(out, rs, c.JSON)
}

// printRules writes rules in the text rule format, one per line, or as a
// JSON array.
func printRules(out io.Writer, rs []rules.Rule, asJSON bool) error {
	if asJSON {
		if rs == nil {
			rs = []rules.Rule{}
		}
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(rs)
	}
	for i := range rs {
		if _, err := fmt.Fprintln(out, rs[i].String()); err != nil {
			return err
		}
	}
	return nil
}

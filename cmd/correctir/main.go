// Command correctir checks text against a rule lexicon and prints the
// corrections as text, JSON, CSV or M2.
package main

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/correctir/core/check"
	"github.com/FocuswithJustin/correctir/core/correct"
	"github.com/FocuswithJustin/correctir/core/detok"
	"github.com/FocuswithJustin/correctir/core/errors"
	"github.com/FocuswithJustin/correctir/core/lexicon"
	"github.com/FocuswithJustin/correctir/core/rules"
	"github.com/FocuswithJustin/correctir/core/tokenize"
	"github.com/FocuswithJustin/correctir/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"warn" enum:"debug,info,warn,error"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" default:"text" enum:"text,json"`
}

// initLogging configures the global logger from the flags.
func (g *Globals) initLogging() error {
	level, err := logging.ParseLevel(g.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(g.LogFormat)
	if err != nil {
		return err
	}
	logging.InitLogger(level, format)
	return nil
}

// CLI defines the command-line interface for correctir.
type CLI struct {
	Globals `embed:""`

	Check   CheckCmd   `cmd:"" help:"Check text and print the corrections"`
	Rules   RulesGroup `cmd:"" help:"Rule lexicon management"`
	Serve   ServeCmd   `cmd:"" help:"Start the correction API server"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// SourceFlags select where rules come from. Rule files are loaded into
// memory; a lexicon database is queried directly unless rule files are
// given too, in which case both are merged with files taking precedence.
type SourceFlags struct {
	Rules         []string `help:"Rule files (.txt or .xml)" type:"existingfile" sep:","`
	Lexicon       string   `help:"SQLite lexicon database" type:"path"`
	Abbreviations []string `help:"Extra abbreviations that never end a sentence" sep:","`
}

// open returns the rule source and a function releasing it.
func (f *SourceFlags) open(ctx context.Context) (lexicon.Source, func() error, error) {
	noop := func() error { return nil }
	if len(f.Rules) == 0 && f.Lexicon == "" {
		return nil, noop, errors.NewValidation("rules", "no rules given, use --rules or --lexicon")
	}

	var (
		store  *lexicon.Store
		loaded []rules.Rule
	)
	if f.Lexicon != "" {
		var err error
		if store, err = lexicon.Open(f.Lexicon); err != nil {
			return nil, noop, err
		}
		if len(f.Rules) == 0 {
			n, err := store.Count(ctx)
			if err != nil {
				store.Close()
				return nil, noop, err
			}
			logging.RulesLoaded(f.Lexicon, n)
			return store, store.Close, nil
		}
		all, err := store.All(ctx)
		store.Close()
		if err != nil {
			return nil, noop, err
		}
		loaded = all
		logging.RulesLoaded(f.Lexicon, len(all))
	}

	for _, path := range f.Rules {
		rs, err := rules.Load(path)
		if err != nil {
			return nil, noop, err
		}
		logging.RulesLoaded(path, len(rs))
		loaded = append(loaded, rs...)
	}
	return lexicon.NewIndex(loaded), noop, nil
}

// corrector builds the pipeline over the selected rules.
func (f *SourceFlags) corrector(ctx context.Context) (*correct.Corrector, func() error, error) {
	src, release, err := f.open(ctx)
	if err != nil {
		return nil, release, err
	}
	c := correct.New(tokenize.New(f.Abbreviations...), check.NewLexiconChecker(src), detok.New())
	return c, release, nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(out io.Writer) error {
	_, err := io.WriteString(out, "correctir version "+version+"\n")
	return err
}

// runContext returns a context carrying a fresh run ID for log correlation.
func runContext(parent context.Context) context.Context {
	return logging.WithRequestID(parent, uuid.NewString())
}

func newParser(cli *CLI, stdout io.Writer, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("correctir"),
		kong.Description("Rule-based text correction with annotation output"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.BindTo(stdout, (*io.Writer)(nil)),
	}, options...)
	return kong.New(cli, options...)
}

// run parses args and executes the selected command.
func run(args []string, stdout io.Writer, options ...kong.Option) error {
	var cli CLI
	parser, err := newParser(&cli, stdout, options...)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	if err := cli.Globals.initLogging(); err != nil {
		return err
	}
	return ctx.Run(&cli.Globals)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli, os.Stdout,
		kong.Configuration(kong.JSON, "/etc/correctir.json", "~/.config/correctir.json"),
	)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	parser.FatalIfErrorf(cli.Globals.initLogging())
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}

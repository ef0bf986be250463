// Package correct runs the correction pipeline over a document: it
// segments the token stream into sentences, checks each sentence, tracks
// character offsets, applies suggestions and renders the output format.
package correct

import (
	"context"
	"iter"
	"time"

	"github.com/FocuswithJustin/correctir/core/check"
	"github.com/FocuswithJustin/correctir/core/config"
	"github.com/FocuswithJustin/correctir/core/emit"
	"github.com/FocuswithJustin/correctir/core/errors"
	"github.com/FocuswithJustin/correctir/core/ir"
	"github.com/FocuswithJustin/correctir/core/offset"
	"github.com/FocuswithJustin/correctir/core/segment"
	"github.com/FocuswithJustin/correctir/core/splice"
	"github.com/FocuswithJustin/correctir/internal/logging"
)

// Tokenizer turns text into a token stream with sentence markers.
type Tokenizer interface {
	Tokenize(text string) iter.Seq[ir.Token]
}

// Detokenizer turns token lists back into text.
type Detokenizer = emit.Detokenizer

// Sink receives each rendered unit as soon as it is ready. Returning an
// error stops the run.
type Sink func(index int, u emit.Unit) error

// Result summarizes a correction run.
type Result struct {
	// Output is the joined document output.
	Output string `json:"output"`

	// Sentences is the number of sentences rendered.
	Sentences int `json:"sentences"`

	// Skipped is the number of sentences the checker gave no result for.
	Skipped int `json:"skipped"`

	// Annotations is the number of annotations (or token errors in the
	// spelling-only pass) reported.
	Annotations int `json:"annotations"`
}

// Corrector wires a tokenizer, a checker and a detokenizer together. It
// keeps no per-document state and may be shared between goroutines when
// its collaborators can.
type Corrector struct {
	tokenizer Tokenizer
	checker   check.Checker
	detok     Detokenizer
}

// New creates a corrector.
func New(tokenizer Tokenizer, checker check.Checker, d Detokenizer) *Corrector {
	return &Corrector{tokenizer: tokenizer, checker: checker, detok: d}
}

// CheckErrors corrects text and returns the whole output.
func (c *Corrector) CheckErrors(ctx context.Context, text string, cfg config.Config) (*Result, error) {
	return c.Run(ctx, text, cfg, nil)
}

// Run corrects text, passing each unit to sink (which may be nil) and
// returning the joined output. With cfg.AllErrors the sentence checker
// runs; otherwise only the token-level spelling pass does.
func (c *Corrector) Run(ctx context.Context, text string, cfg config.Config, sink Sink) (*Result, error) {
	start := time.Now()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	em, err := emit.New(cfg, c.detok)
	if err != nil {
		return nil, err
	}

	seg := segment.New(c.tokenizer.Tokenize(text))
	defer seg.Close()

	st := &run{
		c:       c,
		opts:    cfg.CheckOptions(),
		emitter: em,
		acc:     em.NewAccumulator(),
		tracker: offset.NewTracker(),
		sink:    sink,
	}
	step := st.sentence
	if !cfg.AllErrors {
		speller, ok := c.checker.(check.Speller)
		if !ok {
			return nil, errors.NewUnsupported("spelling-only mode", "checker cannot correct single tokens")
		}
		st.speller = speller
		step = st.tokens
	}

	n := 0
	for seg.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sent := seg.Sentence()
		if ir.MarkersOnly(sent) {
			// Paragraph markers carry no text and are not sentences.
			st.tracker.Track(sent)
			continue
		}
		if err := step(ctx, n, sent); err != nil {
			return nil, err
		}
		n++
	}

	st.res.Output = st.acc.String()
	logging.DocumentProcessed(ctx, cfg.Format, st.res.Sentences, st.res.Skipped, st.res.Annotations, time.Since(start))
	return &st.res, nil
}

// run holds the state of one document.
type run struct {
	c       *Corrector
	opts    check.Options
	speller check.Speller
	emitter *emit.Emitter
	acc     *emit.Accumulator
	tracker *offset.Tracker
	sink    Sink
	res     Result
}

func (r *run) sentence(ctx context.Context, n int, sent []ir.Token) error {
	// Offsets advance for skipped sentences too, so later sentences keep
	// pointing at the right characters.
	offs := r.tracker.Track(sent)

	checked, err := r.c.checker.Check(ctx, sent, r.opts)
	if errors.Is(err, check.ErrNoResult) {
		r.res.Skipped++
		logging.SentenceSkipped(ctx, n, err.Error())
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "sentence %d", n)
	}

	corrected, err := splice.Corrected(sent, checked.Annotations, r.c.detok)
	if err != nil {
		return errors.Wrapf(err, "sentence %d", n)
	}
	u, err := r.emitter.Sentence(emit.SentenceInput{
		Tokens:    sent,
		Checked:   checked,
		Offsets:   offs,
		Corrected: corrected,
		Original:  r.c.detok.Detokenize(sent, true),
	})
	if err != nil {
		return errors.Wrapf(err, "sentence %d", n)
	}
	r.res.Annotations += len(checked.Annotations)
	return r.add(n, u)
}

func (r *run) tokens(ctx context.Context, n int, sent []ir.Token) error {
	toks, err := r.speller.CorrectTokens(ctx, sent, r.opts)
	if err != nil {
		return errors.Wrapf(err, "sentence %d", n)
	}
	u, err := r.emitter.Tokens(toks)
	if err != nil {
		return err
	}
	for i := range toks {
		if toks[i].Error != nil {
			r.res.Annotations++
		}
	}
	return r.add(n, u)
}

func (r *run) add(n int, u emit.Unit) error {
	r.res.Sentences++
	r.acc.Add(u)
	if r.sink != nil {
		if err := r.sink(n, u); err != nil {
			return err
		}
	}
	return nil
}

package lexicon

import (
	"context"
	"reflect"
	"testing"

	"github.com/FocuswithJustin/correctir/core/errors"
	"github.com/FocuswithJustin/correctir/core/rules"
	"github.com/FocuswithJustin/correctir/core/sqlite"
)

var sample = []rules.Rule{
	{Pattern: []string{"kílómeter"}, Suggest: "kílómetri", Code: "S004", Text: "Rangt beygt orð"},
	{Pattern: []string{"að"}, Suggest: "af", Code: "S005", Text: "Röng forsetning"},
	{
		Pattern:      []string{"að", "sama", "skapi"},
		Suggest:      "eins",
		Alternatives: []string{"einnig"},
		Code:         "P001",
		Text:         "Orðasamband",
		Detail:       "Stíll",
	},
}

func TestIndexLookup(t *testing.T) {
	idx := NewIndex(sample)
	if idx.Len() != 3 {
		t.Errorf("Len() = %d, want 3", idx.Len())
	}
	got, err := idx.Lookup(context.Background(), "að")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Code != "P001" || got[1].Code != "S005" {
		t.Errorf("Lookup(að) = %+v, want longest pattern first", got)
	}
	if got, _ := idx.Lookup(context.Background(), "hestur"); len(got) != 0 {
		t.Errorf("Lookup(hestur) = %+v, want none", got)
	}
}

func TestIndexReplacesDuplicatePattern(t *testing.T) {
	idx := NewIndex([]rules.Rule{
		{Pattern: []string{"a"}, Code: "X1"},
		{Pattern: []string{"a"}, Code: "X2"},
		{Code: "X3"},
	})
	got, _ := idx.Lookup(context.Background(), "a")
	if idx.Len() != 1 || len(got) != 1 || got[0].Code != "X2" {
		t.Errorf("Lookup(a) = %+v, Len() = %d", got, idx.Len())
	}
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(sqlite.Memory)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreImportAndLookup(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	n, err := s.Import(ctx, sample)
	if err != nil || n != 3 {
		t.Fatalf("Import() = %d, %v", n, err)
	}
	count, err := s.Count(ctx)
	if err != nil || count != 3 {
		t.Errorf("Count() = %d, %v", count, err)
	}

	got, err := s.Lookup(ctx, "að")
	if err != nil {
		t.Fatal(err)
	}
	want := []rules.Rule{sample[2], sample[1]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup(að) =\n%#v\nwant\n%#v", got, want)
	}

	r, err := s.Get(ctx, "Að  sama skapi")
	if err != nil || r.Code != "P001" {
		t.Errorf("Get() = %+v, %v", r, err)
	}
	if _, err := s.Get(ctx, "hestur"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Get(hestur) error = %v, want ErrNotFound", err)
	}
}

func TestStoreReimportReplaces(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	if _, err := s.Import(ctx, sample); err != nil {
		t.Fatal(err)
	}
	update := sample[0]
	update.Suggest = "kílómetra"
	if _, err := s.Import(ctx, []rules.Rule{update}); err != nil {
		t.Fatal(err)
	}
	if count, _ := s.Count(ctx); count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
	r, err := s.Get(ctx, "kílómeter")
	if err != nil || r.Suggest != "kílómetra" {
		t.Errorf("Get() = %+v, %v", r, err)
	}
}

func TestStoreImportRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	_, err := s.Import(ctx, []rules.Rule{sample[0], {Pattern: []string{"x"}}})
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("Import() error = %v, want ErrInvalidInput", err)
	}
	if count, _ := s.Count(ctx); count != 0 {
		t.Errorf("Count() = %d after failed import, want 0", count)
	}
}

func TestStoreIndex(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	if _, err := s.Import(ctx, sample); err != nil {
		t.Fatal(err)
	}
	idx, err := s.Index(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 3 {
		t.Errorf("Index().Len() = %d, want 3", idx.Len())
	}
	all, _ := s.All(ctx)
	if all[0].Phrase() != "að" {
		t.Errorf("All()[0] = %q, want sorted by pattern", all[0].Phrase())
	}
}

// Package lexicon stores correction rules and looks them up by the first
// word of their pattern.
//
// Two implementations are provided: Index keeps rules in memory and Store
// persists them in SQLite. Both satisfy Source.
package lexicon

import (
	"context"
	"sort"

	"github.com/FocuswithJustin/correctir/core/rules"
)

// Source looks up the rules whose pattern starts with head. Results are
// ordered longest pattern first.
type Source interface {
	Lookup(ctx context.Context, head string) ([]rules.Rule, error)
}

// Index is an in-memory Source. It is read-only after construction and safe
// for concurrent use.
type Index struct {
	byHead map[string][]rules.Rule
	count  int
}

// NewIndex builds an index over rs. Later rules with an identical pattern
// replace earlier ones.
func NewIndex(rs []rules.Rule) *Index {
	idx := &Index{byHead: make(map[string][]rules.Rule)}
	for _, r := range rs {
		head := r.Head()
		if head == "" {
			continue
		}
		list := idx.byHead[head]
		replaced := false
		for i := range list {
			if list[i].Phrase() == r.Phrase() {
				list[i] = r
				replaced = true
				break
			}
		}
		if !replaced {
			list = append(list, r)
			idx.count++
		}
		idx.byHead[head] = list
	}
	for _, list := range idx.byHead {
		sortLongestFirst(list)
	}
	return idx
}

// Lookup implements Source.
func (idx *Index) Lookup(_ context.Context, head string) ([]rules.Rule, error) {
	return idx.byHead[head], nil
}

// Len returns the number of distinct patterns.
func (idx *Index) Len() int {
	return idx.count
}

func sortLongestFirst(list []rules.Rule) {
	sort.SliceStable(list, func(i, j int) bool {
		return len(list[i].Pattern) > len(list[j].Pattern)
	})
}

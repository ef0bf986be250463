package lexicon

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/FocuswithJustin/correctir/core/errors"
	"github.com/FocuswithJustin/correctir/core/rules"
	"github.com/FocuswithJustin/correctir/core/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS rules (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	head         TEXT NOT NULL,
	pattern      TEXT NOT NULL UNIQUE,
	length       INTEGER NOT NULL,
	suggest      TEXT NOT NULL DEFAULT '',
	alternatives TEXT NOT NULL DEFAULT '[]',
	code         TEXT NOT NULL,
	text         TEXT NOT NULL DEFAULT '',
	detail       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_rules_head ON rules(head);
`

const selectColumns = `SELECT pattern, suggest, alternatives, code, text, detail FROM rules`

// Store is a SQLite-backed Source.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a lexicon database. Use sqlite.Memory for a
// throwaway in-memory lexicon.
func Open(path string) (*Store, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "creating lexicon schema in %s", path)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the data source the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Import inserts rules in one transaction, replacing rules with an identical
// pattern. It returns the number of rules written.
func (s *Store) Import(ctx context.Context, rs []rules.Rule) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning import")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO rules
		(head, pattern, length, suggest, alternatives, code, text, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, errors.Wrap(err, "preparing import")
	}
	defer stmt.Close()

	n := 0
	for i := range rs {
		r := &rs[i]
		if err := r.Validate(); err != nil {
			return 0, errors.Wrapf(err, "rule %d", i+1)
		}
		alts, err := json.Marshal(nonNil(r.Alternatives))
		if err != nil {
			return 0, errors.Wrapf(err, "encoding alternatives of %q", r.Phrase())
		}
		if _, err := stmt.ExecContext(ctx, r.Head(), r.Phrase(), len(r.Pattern),
			r.Suggest, string(alts), r.Code, r.Text, r.Detail); err != nil {
			return 0, errors.Wrapf(err, "inserting %q", r.Phrase())
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing import")
	}
	return n, nil
}

// Lookup implements Source.
func (s *Store) Lookup(ctx context.Context, head string) ([]rules.Rule, error) {
	return s.query(ctx, selectColumns+` WHERE head = ? ORDER BY length DESC, id`, head)
}

// Get returns the rule with exactly the given pattern.
func (s *Store) Get(ctx context.Context, pattern string) (*rules.Rule, error) {
	phrase := strings.Join(rules.SplitPattern(pattern), " ")
	rs, err := s.query(ctx, selectColumns+` WHERE pattern = ?`, phrase)
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 {
		return nil, errors.NewNotFound("rule", phrase)
	}
	return &rs[0], nil
}

// All returns every rule ordered by pattern.
func (s *Store) All(ctx context.Context) ([]rules.Rule, error) {
	return s.query(ctx, selectColumns+` ORDER BY pattern`)
}

// Count returns the number of stored rules.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rules`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "counting rules")
	}
	return n, nil
}

// Index loads every rule into an in-memory index.
func (s *Store) Index(ctx context.Context) (*Index, error) {
	rs, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return NewIndex(rs), nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]rules.Rule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying rules")
	}
	defer rows.Close()

	var out []rules.Rule
	for rows.Next() {
		var (
			r       rules.Rule
			pattern string
			alts    string
		)
		if err := rows.Scan(&pattern, &r.Suggest, &alts, &r.Code, &r.Text, &r.Detail); err != nil {
			return nil, errors.Wrap(err, "scanning rule")
		}
		r.Pattern = strings.Split(pattern, " ")
		if err := json.Unmarshal([]byte(alts), &r.Alternatives); err != nil {
			return nil, &errors.ParseError{Format: "JSON", Message: "alternatives of " + pattern, Err: err}
		}
		if len(r.Alternatives) == 0 {
			r.Alternatives = nil
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "reading rules")
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

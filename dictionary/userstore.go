package dictionary

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"morphparse/model"
)

const userSchema = `
CREATE TABLE IF NOT EXISTS user_words (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	surface         TEXT NOT NULL,
	left_id         INTEGER NOT NULL,
	right_id        INTEGER NOT NULL,
	cost            INTEGER NOT NULL,
	pos_id          INTEGER NOT NULL,
	dictionary_form TEXT NOT NULL DEFAULT '',
	normalized_form TEXT NOT NULL DEFAULT '',
	reading_form    TEXT NOT NULL DEFAULT '',
	split_a         TEXT NOT NULL DEFAULT '',
	split_b         TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS user_words_surface ON user_words(surface);
`

// UserWord is one row of a user dictionary. SplitA and SplitB list the
// row ids of the constituents for modes A and B.
type UserWord struct {
	ID     int64
	Word   Word
	SplitA []int64
	SplitB []int64
}

// UserStore keeps a user dictionary in SQLite.
type UserStore struct {
	db   *sql.DB
	path string
}

// OpenUserStore opens (creating if needed) the user dictionary at path.
func OpenUserStore(path string) (*UserStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &model.DictionaryUnavailableError{Name: path, Err: fmt.Errorf("open db: %w", err)}
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, &model.DictionaryUnavailableError{Name: path, Err: fmt.Errorf("pragma: %w", err)}
	}
	if _, err := db.Exec(userSchema); err != nil {
		db.Close()
		return nil, &model.DictionaryUnavailableError{Name: path, Err: fmt.Errorf("migrate: %w", err)}
	}
	return &UserStore{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *UserStore) Close() error {
	return s.db.Close()
}

// Add inserts w and returns its row id.
func (s *UserStore) Add(w UserWord) (int64, error) {
	if w.Word.Surface == "" {
		return 0, fmt.Errorf("add user word: empty surface")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, ids := range [][]int64{w.SplitA, w.SplitB} {
		for _, id := range ids {
			var n int
			if err := tx.QueryRow(`SELECT COUNT(*) FROM user_words WHERE id = ?`, id).Scan(&n); err != nil {
				return 0, fmt.Errorf("check split %d: %w", id, err)
			}
			if n == 0 {
				return 0, fmt.Errorf("add user word %q: split references unknown word %d", w.Word.Surface, id)
			}
		}
	}

	res, err := tx.Exec(
		`INSERT INTO user_words (surface, left_id, right_id, cost, pos_id, dictionary_form, normalized_form, reading_form, split_a, split_b)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.Word.Surface, w.Word.LeftID, w.Word.RightID, w.Word.Cost, w.Word.POSID,
		w.Word.DictionaryForm, w.Word.NormalizedForm, w.Word.ReadingForm,
		formatIDs(w.SplitA), formatIDs(w.SplitB),
	)
	if err != nil {
		return 0, fmt.Errorf("insert user word: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Words returns every row ordered by id.
func (s *UserStore) Words() ([]UserWord, error) {
	rows, err := s.db.Query(
		`SELECT id, surface, left_id, right_id, cost, pos_id, dictionary_form, normalized_form, reading_form, split_a, split_b
		 FROM user_words ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query user words: %w", err)
	}
	defer rows.Close()

	var out []UserWord
	for rows.Next() {
		var (
			uw             UserWord
			splitA, splitB string
		)
		if err := rows.Scan(&uw.ID, &uw.Word.Surface, &uw.Word.LeftID, &uw.Word.RightID, &uw.Word.Cost, &uw.Word.POSID,
			&uw.Word.DictionaryForm, &uw.Word.NormalizedForm, &uw.Word.ReadingForm, &splitA, &splitB); err != nil {
			return nil, fmt.Errorf("scan user word: %w", err)
		}
		if uw.SplitA, err = parseIDs(splitA); err != nil {
			return nil, fmt.Errorf("word %d split_a: %w", uw.ID, err)
		}
		if uw.SplitB, err = parseIDs(splitB); err != nil {
			return nil, fmt.Errorf("word %d split_b: %w", uw.ID, err)
		}
		out = append(out, uw)
	}
	return out, rows.Err()
}

// Lexicon loads all rows into an in-memory lexicon tagged with dictionaryID,
// so lookups never touch the database.
func (s *UserStore) Lexicon(dictionaryID int) (*MemoryLexicon, error) {
	words, err := s.Words()
	if err != nil {
		return nil, &model.DictionaryUnavailableError{Name: s.path, Err: err}
	}
	b := NewBuilder(dictionaryID)
	byRow := make(map[int64]int32, len(words))
	for _, uw := range words {
		byRow[uw.ID] = b.Add(uw.Word)
	}
	for _, uw := range words {
		for mode, ids := range [...][]int64{model.SplitA: uw.SplitA, model.SplitB: uw.SplitB} {
			if len(ids) == 0 {
				continue
			}
			seg := make([]int32, 0, len(ids))
			for _, id := range ids {
				wid, ok := byRow[id]
				if !ok {
					wid = -1 // rejected by Build
				}
				seg = append(seg, wid)
			}
			b.SetSplit(byRow[uw.ID], model.SplitMode(mode), seg...)
		}
	}
	lex, err := b.Build()
	if err != nil {
		return nil, &model.DictionaryUnavailableError{Name: s.path, Err: err}
	}
	return lex, nil
}

func formatIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, " ")
}

func parseIDs(s string) ([]int64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse id %q: %w", f, err)
		}
		out = append(out, id)
	}
	return out, nil
}

// ParseIDs parses a space or comma separated id list.
func ParseIDs(s string) ([]int64, error) {
	return parseIDs(strings.ReplaceAll(s, ",", " "))
}

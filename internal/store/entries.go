package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

var entryColumns = []string{
	"id", "word", "pronunciation", "meaning", "category_id", "topic", "difficulty",
	"mastered", "review_count", "last_reviewed", "created_at",
}

type entryRow struct {
	ID            string         `db:"id"`
	Word          string         `db:"word"`
	Pronunciation string         `db:"pronunciation"`
	Meaning       string         `db:"meaning"`
	CategoryID    sql.NullString `db:"category_id"`
	Topic         string         `db:"topic"`
	Difficulty    string         `db:"difficulty"`
	Mastered      bool           `db:"mastered"`
	ReviewCount   int            `db:"review_count"`
	LastReviewed  sql.NullTime   `db:"last_reviewed"`
	CreatedAt     time.Time      `db:"created_at"`
}

func (r entryRow) entry() vocab.Entry {
	e := vocab.Entry{
		ID:            r.ID,
		Word:          r.Word,
		Pronunciation: r.Pronunciation,
		Meaning:       r.Meaning,
		CategoryID:    r.CategoryID.String,
		Topic:         r.Topic,
		Difficulty:    vocab.Difficulty(r.Difficulty),
		Mastered:      r.Mastered,
		ReviewCount:   r.ReviewCount,
		CreatedAt:     r.CreatedAt,
	}
	if r.LastReviewed.Valid {
		t := r.LastReviewed.Time
		e.LastReviewed = &t
	}
	return e
}

type exampleRow struct {
	ID          string `db:"id"`
	EntryID     string `db:"entry_id"`
	Sentence    string `db:"sentence"`
	Translation string `db:"translation"`
}

func lastReviewed(e *vocab.Entry) sql.NullTime {
	if e.LastReviewed == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *e.LastReviewed, Valid: true}
}

// CreateEntry validates and inserts e with its examples. Missing ids and
// the creation time are filled in.
func (s *Store) CreateEntry(ctx context.Context, e *vocab.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock.Now()
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		insert := builder().Insert("entries").
			Columns(entryColumns...).
			Values(e.ID, e.Word, e.Pronunciation, e.Meaning, nullString(e.CategoryID), e.Topic,
				string(e.Difficulty), e.Mastered, e.ReviewCount, lastReviewed(e), e.CreatedAt)
		if _, err := exec(ctx, tx, insert); err != nil {
			return fmt.Errorf("failed to create entry %q: %w", e.Word, err)
		}
		return insertExamples(ctx, tx, e)
	})
}

// UpdateEntry overwrites the stored entry and replaces its examples.
func (s *Store) UpdateEntry(ctx context.Context, e *vocab.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		update := builder().Update("entries").
			Set("word", e.Word).
			Set("pronunciation", e.Pronunciation).
			Set("meaning", e.Meaning).
			Set("category_id", nullString(e.CategoryID)).
			Set("topic", e.Topic).
			Set("difficulty", string(e.Difficulty)).
			Set("mastered", e.Mastered).
			Set("review_count", e.ReviewCount).
			Set("last_reviewed", lastReviewed(e)).
			Where(sq.Eq{"id": e.ID})
		res, err := exec(ctx, tx, update)
		if err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}
		if err := mustAffect(res, "entry", e.ID); err != nil {
			return err
		}
		if _, err := exec(ctx, tx, builder().Delete("examples").Where(sq.Eq{"entry_id": e.ID})); err != nil {
			return fmt.Errorf("failed to clear examples: %w", err)
		}
		return insertExamples(ctx, tx, e)
	})
}

func insertExamples(ctx context.Context, tx *sqlx.Tx, e *vocab.Entry) error {
	if len(e.Examples) == 0 {
		return nil
	}
	insert := builder().Insert("examples").
		Columns("id", "entry_id", "position", "sentence", "translation")
	for i := range e.Examples {
		ex := &e.Examples[i]
		if ex.ID == "" {
			ex.ID = uuid.NewString()
		}
		insert = insert.Values(ex.ID, e.ID, i, ex.Sentence, ex.Translation)
	}
	if _, err := exec(ctx, tx, insert); err != nil {
		return fmt.Errorf("failed to store examples for %q: %w", e.Word, err)
	}
	return nil
}

// DeleteEntry removes an entry and its examples.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	res, err := exec(ctx, s.db, builder().Delete("entries").Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return mustAffect(res, "entry", id)
}

// Entry returns one entry with its examples.
func (s *Store) Entry(ctx context.Context, id string) (vocab.Entry, error) {
	query, args, err := builder().Select(entryColumns...).From("entries").
		Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return vocab.Entry{}, fmt.Errorf("build query: %w", err)
	}

	var row entryRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		return vocab.Entry{}, notFound(err, "entry", id)
	}
	entries := []vocab.Entry{row.entry()}
	if err := s.attachExamples(ctx, entries); err != nil {
		return vocab.Entry{}, err
	}
	return entries[0], nil
}

// Entries returns every entry in insertion order. Filtering and sorting
// are left to the filter package.
func (s *Store) Entries(ctx context.Context) ([]vocab.Entry, error) {
	query, args, err := builder().Select(entryColumns...).From("entries").
		OrderBy("created_at ASC", "rowid ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []entryRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	entries := make([]vocab.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry())
	}
	if err := s.attachExamples(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// exampleBatch bounds the ids bound into one examples query, staying well
// below SQLite's host parameter limit.
var exampleBatch = 500

func (s *Store) attachExamples(ctx context.Context, entries []vocab.Entry) error {
	pos := make(map[string]int, len(entries))
	for i, e := range entries {
		pos[e.ID] = i
	}

	for start := 0; start < len(entries); start += exampleBatch {
		end := min(start+exampleBatch, len(entries))
		ids := make([]string, 0, end-start)
		for _, e := range entries[start:end] {
			ids = append(ids, e.ID)
		}

		query, args, err := builder().Select("id", "entry_id", "sentence", "translation").
			From("examples").
			Where(sq.Eq{"entry_id": ids}).
			OrderBy("entry_id", "position").
			ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}

		var rows []exampleRow
		if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
			return fmt.Errorf("failed to load examples: %w", err)
		}
		for _, r := range rows {
			i := pos[r.EntryID]
			entries[i].Examples = append(entries[i].Examples, vocab.Example{
				ID:          r.ID,
				Sentence:    r.Sentence,
				Translation: r.Translation,
			})
		}
	}
	return nil
}

// SetMastered records a review of the entry: mastery is set, the review
// count incremented and the review time stamped. The updated entry is
// returned.
func (s *Store) SetMastered(ctx context.Context, id string, mastered bool) (vocab.Entry, error) {
	e, err := s.Entry(ctx, id)
	if err != nil {
		return vocab.Entry{}, err
	}
	e.Review(mastered, s.clock.Now())

	update := builder().Update("entries").
		Set("mastered", e.Mastered).
		Set("review_count", e.ReviewCount).
		Set("last_reviewed", lastReviewed(&e)).
		Where(sq.Eq{"id": id})
	if _, err := exec(ctx, s.db, update); err != nil {
		return vocab.Entry{}, fmt.Errorf("failed to record review: %w", err)
	}
	s.logger.Debug("entry reviewed", "word", e.Word, "mastered", mastered, "reviews", e.ReviewCount)
	return e, nil
}

// Stats summarises the collection.
type Stats struct {
	Total        int
	Mastered     int
	ByDifficulty map[vocab.Difficulty]int
}

// Stats counts entries overall, mastered and per difficulty.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var rows []struct {
		Difficulty string `db:"difficulty"`
		Total      int    `db:"total"`
		Mastered   int    `db:"mastered"`
	}
	err := s.db.SelectContext(ctx, &rows,
		"SELECT difficulty, COUNT(*) AS total, COALESCE(SUM(mastered), 0) AS mastered FROM entries GROUP BY difficulty")
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count entries: %w", err)
	}

	st := Stats{ByDifficulty: make(map[vocab.Difficulty]int)}
	for _, r := range rows {
		st.Total += r.Total
		st.Mastered += r.Mastered
		st.ByDifficulty[vocab.Difficulty(r.Difficulty)] = r.Total
	}
	return st, nil
}

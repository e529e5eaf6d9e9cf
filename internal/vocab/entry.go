package vocab

import (
	"strings"
	"time"
)

// Difficulty is the closed difficulty scale of an entry.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) String() string { return string(d) }

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Rank returns the sort ordinal of the difficulty (easy=1, medium=2, hard=3).
// Unknown values rank 0.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	}
	return 0
}

// Difficulties returns every difficulty in rank order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ParseDifficulty converts a raw string into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", InvalidValue("difficulty", s)
	}
	return d, nil
}

// Example is a usage sentence attached to an entry.
type Example struct {
	ID          string
	Sentence    string
	Translation string
}

// Entry is one learnable word.
type Entry struct {
	ID            string
	Word          string
	Pronunciation string
	Meaning       string
	Examples      []Example // display order
	CategoryID    string
	Topic         string
	Difficulty    Difficulty
	Mastered      bool
	ReviewCount   int
	LastReviewed  *time.Time
	CreatedAt     time.Time
}

// Validate checks the fields required for an entry to be stored.
func (e *Entry) Validate() error {
	var errs []FieldError
	if strings.TrimSpace(e.Word) == "" {
		errs = append(errs, FieldError{Field: "word", Message: "required"})
	}
	if strings.TrimSpace(e.Meaning) == "" {
		errs = append(errs, FieldError{Field: "meaning", Message: "required"})
	}
	if !e.Difficulty.IsValid() {
		errs = append(errs, FieldError{Field: "difficulty", Message: "must be easy, medium or hard"})
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Review applies a manual review action: mastery is set, the review
// counter incremented and the review time stamped.
func (e *Entry) Review(mastered bool, now time.Time) {
	e.Mastered = mastered
	e.ReviewCount++
	t := now
	e.LastReviewed = &t
}

// FirstExample returns the first example of the entry, if any.
func (e *Entry) FirstExample() (Example, bool) {
	if len(e.Examples) == 0 {
		return Example{}, false
	}
	return e.Examples[0], true
}

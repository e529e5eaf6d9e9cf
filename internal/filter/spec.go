package filter

import (
	"strings"

	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

// MasteryStatus selects entries by their mastered flag.
type MasteryStatus string

const (
	MasteryAll         MasteryStatus = "all"
	MasteryMastered    MasteryStatus = "mastered"
	MasteryNotMastered MasteryStatus = "not-mastered"
)

func (m MasteryStatus) IsValid() bool {
	switch m {
	case MasteryAll, MasteryMastered, MasteryNotMastered:
		return true
	}
	return false
}

// SortField names the key entries are ordered by.
type SortField string

const (
	SortByWord        SortField = "word"
	SortByDateAdded   SortField = "dateAdded"
	SortByReviewCount SortField = "reviewCount"
	SortByDifficulty  SortField = "difficulty"
)

func (f SortField) IsValid() bool {
	switch f {
	case SortByWord, SortByDateAdded, SortByReviewCount, SortByDifficulty:
		return true
	}
	return false
}

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

func (d Direction) IsValid() bool {
	return d == Ascending || d == Descending
}

// Spec holds the filter predicates. Empty Categories or Topics match every
// entry; Difficulties and Mastery are never implicit, callers pass the full
// set to mean "all".
type Spec struct {
	Categories          []string // category ids
	Topics              []string
	Difficulties        []vocab.Difficulty
	Mastery             []MasteryStatus
	Search              string
	SearchPronunciation bool
}

// Sort selects the sort key and direction.
type Sort struct {
	Field     SortField
	Direction Direction
}

// MatchAll returns a Spec that keeps every well-formed entry.
func MatchAll() Spec {
	return Spec{
		Difficulties: vocab.Difficulties(),
		Mastery:      []MasteryStatus{MasteryAll},
	}
}

// DefaultSort orders entries alphabetically.
func DefaultSort() Sort {
	return Sort{Field: SortByWord, Direction: Ascending}
}

// Raw is the unvalidated form of a Spec and Sort as collected from flags or
// config.
type Raw struct {
	Categories          []string
	Topics              []string
	Difficulties        []string
	Mastery             []string
	Search              string
	SearchPronunciation bool
	SortField           string
	SortDirection       string
}

// ParseSpec validates the enum values of a Raw filter. An empty difficulty
// list is expanded to every difficulty and an empty mastery list to "all",
// so that absent flags mean "no restriction".
func ParseSpec(raw Raw) (Spec, error) {
	spec := Spec{
		Categories:          trimAll(raw.Categories),
		Topics:              trimAll(raw.Topics),
		Search:              raw.Search,
		SearchPronunciation: raw.SearchPronunciation,
	}

	for _, s := range trimAll(raw.Difficulties) {
		d, err := vocab.ParseDifficulty(s)
		if err != nil {
			return Spec{}, err
		}
		spec.Difficulties = append(spec.Difficulties, d)
	}
	if len(spec.Difficulties) == 0 {
		spec.Difficulties = vocab.Difficulties()
	}

	for _, s := range trimAll(raw.Mastery) {
		m := MasteryStatus(strings.ToLower(s))
		if !m.IsValid() {
			return Spec{}, vocab.InvalidValue("mastery", s)
		}
		spec.Mastery = append(spec.Mastery, m)
	}
	if len(spec.Mastery) == 0 {
		spec.Mastery = []MasteryStatus{MasteryAll}
	}

	return spec, nil
}

// ParseSort validates a sort field and direction. Empty values fall back to
// DefaultSort.
func ParseSort(field, direction string) (Sort, error) {
	s := DefaultSort()
	if field = strings.TrimSpace(field); field != "" {
		s.Field = SortField(field)
		if !s.Field.IsValid() {
			return Sort{}, vocab.InvalidValue("sort field", field)
		}
	}
	if direction = strings.ToLower(strings.TrimSpace(direction)); direction != "" {
		s.Direction = Direction(direction)
		if !s.Direction.IsValid() {
			return Sort{}, vocab.InvalidValue("sort direction", direction)
		}
	}
	return s, nil
}

// Validate rejects a Spec or Sort carrying malformed enum values.
func Validate(spec Spec, s Sort) error {
	for _, d := range spec.Difficulties {
		if !d.IsValid() {
			return vocab.InvalidValue("difficulty", string(d))
		}
	}
	for _, m := range spec.Mastery {
		if !m.IsValid() {
			return vocab.InvalidValue("mastery", string(m))
		}
	}
	if !s.Field.IsValid() {
		return vocab.InvalidValue("sort field", string(s.Field))
	}
	if !s.Direction.IsValid() {
		return vocab.InvalidValue("sort direction", string(s.Direction))
	}
	return nil
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

package filter

import (
	"slices"
	"strings"

	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

// FilterAndSort validates spec and order, then returns the matching entries
// in sorted order. The input slice is left untouched.
func FilterAndSort(entries []vocab.Entry, spec Spec, order Sort) ([]vocab.Entry, error) {
	if err := Validate(spec, order); err != nil {
		return nil, err
	}
	return Apply(entries, spec, order), nil
}

// Apply filters and sorts without validating; malformed enum values simply
// never match.
func Apply(entries []vocab.Entry, spec Spec, order Sort) []vocab.Entry {
	m := newMatcher(spec)

	out := make([]vocab.Entry, 0, len(entries))
	for _, e := range entries {
		if m.match(&e) {
			out = append(out, e)
		}
	}

	cmp := comparator(order.Field)
	if order.Direction == Descending {
		asc := cmp
		cmp = func(a, b vocab.Entry) int { return -asc(a, b) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}

type matcher struct {
	categories   map[string]bool
	topics       map[string]bool
	difficulties map[vocab.Difficulty]bool
	anyMastery   bool
	mastered     bool
	notMastered  bool
	search       string
	pronounce    bool
}

func newMatcher(spec Spec) *matcher {
	m := &matcher{
		categories:   toSet(spec.Categories),
		topics:       toSet(spec.Topics),
		difficulties: make(map[vocab.Difficulty]bool, len(spec.Difficulties)),
		search:       strings.ToLower(strings.TrimSpace(spec.Search)),
		pronounce:    spec.SearchPronunciation,
	}
	for _, d := range spec.Difficulties {
		m.difficulties[d] = true
	}
	for _, s := range spec.Mastery {
		switch s {
		case MasteryAll:
			m.anyMastery = true
		case MasteryMastered:
			m.mastered = true
		case MasteryNotMastered:
			m.notMastered = true
		}
	}
	return m
}

func (m *matcher) match(e *vocab.Entry) bool {
	if len(m.categories) > 0 && !m.categories[e.CategoryID] {
		return false
	}
	if len(m.topics) > 0 && !m.topics[e.Topic] {
		return false
	}
	if !m.difficulties[e.Difficulty] {
		return false
	}
	if !m.anyMastery && !(m.mastered && e.Mastered) && !(m.notMastered && !e.Mastered) {
		return false
	}
	return m.matchSearch(e)
}

func (m *matcher) matchSearch(e *vocab.Entry) bool {
	if m.search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(e.Word), m.search) ||
		strings.Contains(strings.ToLower(e.Meaning), m.search) {
		return true
	}
	return m.pronounce && strings.Contains(strings.ToLower(e.Pronunciation), m.search)
}

func comparator(field SortField) func(a, b vocab.Entry) int {
	switch field {
	case SortByDateAdded:
		return func(a, b vocab.Entry) int {
			return strings.Compare(addedDay(a), addedDay(b))
		}
	case SortByReviewCount:
		return func(a, b vocab.Entry) int { return a.ReviewCount - b.ReviewCount }
	case SortByDifficulty:
		return func(a, b vocab.Entry) int { return a.Difficulty.Rank() - b.Difficulty.Rank() }
	default:
		return func(a, b vocab.Entry) int {
			return strings.Compare(strings.ToLower(a.Word), strings.ToLower(b.Word))
		}
	}
}

// addedDay is the UTC calendar day an entry was added, so entries stamped
// in different zones compare on the same calendar.
func addedDay(e vocab.Entry) string {
	return e.CreatedAt.UTC().Format("2006-01-02")
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

package playback

import (
	"fmt"
	"strings"
	"time"

	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

// Part is one spoken segment of an entry.
type Part string

const (
	PartWord               Part = "word"
	PartPronunciation      Part = "pronunciation"
	PartMeaning            Part = "meaning"
	PartExamples           Part = "examples"
	PartExampleTranslation Part = "example-translation"
)

func (p Part) IsValid() bool {
	switch p {
	case PartWord, PartPronunciation, PartMeaning, PartExamples, PartExampleTranslation:
		return true
	}
	return false
}

// AllParts returns every part in speaking order.
func AllParts() []Part {
	return []Part{PartWord, PartPronunciation, PartMeaning, PartExamples, PartExampleTranslation}
}

// ParseParts converts raw part names. Duplicates are dropped.
func ParseParts(names []string) ([]Part, error) {
	seen := make(map[Part]bool)
	var parts []Part
	for _, name := range names {
		p := Part(strings.ToLower(strings.TrimSpace(name)))
		if p == "" || seen[p] {
			continue
		}
		if !p.IsValid() {
			return nil, vocab.InvalidValue("playback part", name)
		}
		seen[p] = true
		parts = append(parts, p)
	}
	return parts, nil
}

// Pause bounds.
const (
	MinPause = 500 * time.Millisecond
	MaxPause = 5 * time.Second
)

// Config controls what is spoken and how long to wait in between.
type Config struct {
	Parts             []Part
	PauseBetweenParts time.Duration
	PauseBetweenWords time.Duration
	Rate              float64
	TargetLanguage    string // language being learned, e.g. "en"
	NativeLanguage    string // learner's language, e.g. "vi"
}

// DefaultConfig speaks every part with one second between parts and two
// seconds between entries.
func DefaultConfig() Config {
	return Config{
		Parts:             AllParts(),
		PauseBetweenParts: time.Second,
		PauseBetweenWords: 2 * time.Second,
		Rate:              1.0,
		TargetLanguage:    "en",
		NativeLanguage:    "vi",
	}
}

// Validate checks parts and pause bounds.
func (c Config) Validate() error {
	if len(c.Parts) == 0 {
		return fmt.Errorf("at least one playback part is required")
	}
	for _, p := range c.Parts {
		if !p.IsValid() {
			return vocab.InvalidValue("playback part", string(p))
		}
	}
	if c.PauseBetweenParts < MinPause || c.PauseBetweenParts > MaxPause {
		return fmt.Errorf("pause between parts %v outside %v-%v", c.PauseBetweenParts, MinPause, MaxPause)
	}
	if c.PauseBetweenWords < MinPause || c.PauseBetweenWords > MaxPause {
		return fmt.Errorf("pause between words %v outside %v-%v", c.PauseBetweenWords, MinPause, MaxPause)
	}
	return nil
}

func (c Config) enabled(p Part) bool {
	for _, q := range c.Parts {
		if q == p {
			return true
		}
	}
	return false
}

func (c Config) rate() float64 {
	if c.Rate <= 0 {
		return 1.0
	}
	return c.Rate
}

// segment is a part of an entry with its text resolved.
type segment struct {
	part Part
	text string
}

// segments lists the enabled, non-empty parts of an entry in speaking order.
func segments(e vocab.Entry, cfg Config) []segment {
	example, _ := e.FirstExample()
	candidates := []segment{
		{PartWord, e.Word},
		{PartPronunciation, e.Pronunciation},
		{PartMeaning, e.Meaning},
		{PartExamples, example.Sentence},
		{PartExampleTranslation, example.Translation},
	}

	var out []segment
	for _, s := range candidates {
		if !cfg.enabled(s.part) || strings.TrimSpace(s.text) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

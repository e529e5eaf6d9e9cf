package anki

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

// Card represents a single Anki flashcard
type Card struct {
	ID            string   // Stable note identity, usually the entry id
	Word          string   // The target language word
	Pronunciation string   // Optional phonetic transcription
	Meaning       string   // Native language meaning
	Example       string   // Optional example sentence
	Translation   string   // Optional example translation
	AudioFile     string   // Optional path to a recording of Word
	Tags          []string // Anki tags, without spaces
}

// CardFromEntry builds a card from an entry. category is the resolved
// category name; it becomes a tag along with topic and difficulty.
func CardFromEntry(e vocab.Entry, category string) Card {
	card := Card{
		ID:            e.ID,
		Word:          e.Word,
		Pronunciation: e.Pronunciation,
		Meaning:       e.Meaning,
	}
	if ex, ok := e.FirstExample(); ok {
		card.Example = ex.Sentence
		card.Translation = ex.Translation
	}

	for _, tag := range []string{category, e.Topic, string(e.Difficulty)} {
		if tag = tagName(tag); tag != "" {
			card.Tags = append(card.Tags, tag)
		}
	}
	if e.Mastered {
		card.Tags = append(card.Tags, "mastered")
	}
	return card
}

// Anki separates tags with spaces.
func tagName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		IncludeHeaders: true,
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// Cards returns the cards added so far.
func (g *Generator) Cards() []Card {
	return g.cards
}

// CSVHeaders are the columns written by WriteCSV.
var CSVHeaders = []string{"Word", "Pronunciation", "Meaning", "Example", "Translation", "Tags"}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	if err := g.WriteCSV(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteCSV writes the cards as CSV to w.
func (g *Generator) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if g.options.IncludeHeaders {
		if err := writer.Write(CSVHeaders); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.Word,
			card.Pronunciation,
			card.Meaning,
			card.Example,
			card.Translation,
			strings.Join(card.Tags, " "),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// GenerateAPKG creates a .apkg package with all cards and their audio.
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkgGen := NewAPKGGenerator(deckName)
	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}
	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withAudio, withExamples int) {
	totalCards = len(g.cards)

	for _, card := range g.cards {
		if card.AudioFile != "" {
			withAudio++
		}
		if card.Example != "" {
			withExamples++
		}
	}

	return
}

package anki

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

func TestDefaultGeneratorOptions(t *testing.T) {
	opts := DefaultGeneratorOptions()

	if opts.OutputPath != "anki_import.csv" {
		t.Errorf("Expected output path 'anki_import.csv', got '%s'", opts.OutputPath)
	}
	if !opts.IncludeHeaders {
		t.Error("Expected IncludeHeaders to be true")
	}
}

func TestNewGenerator(t *testing.T) {
	gen := NewGenerator(nil)
	if gen == nil {
		t.Fatal("NewGenerator returned nil")
	}
	if gen.options == nil {
		t.Error("Generator options should not be nil")
	}

	gen = NewGenerator(&GeneratorOptions{OutputPath: "custom.csv"})
	if gen.options.OutputPath != "custom.csv" {
		t.Errorf("Expected custom output path, got '%s'", gen.options.OutputPath)
	}
}

func TestCardFromEntry(t *testing.T) {
	entry := vocab.Entry{
		ID:            "e1",
		Word:          "apple",
		Pronunciation: "/ˈæp.əl/",
		Meaning:       "quả táo",
		Examples: []vocab.Example{
			{Sentence: "I eat an apple.", Translation: "Tôi ăn một quả táo."},
			{Sentence: "Apples are red."},
		},
		Topic:      "Nouns",
		Difficulty: vocab.DifficultyEasy,
		Mastered:   true,
	}

	card := CardFromEntry(entry, "Everyday Food")

	if card.ID != "e1" || card.Word != "apple" || card.Meaning != "quả táo" || card.Pronunciation != "/ˈæp.əl/" {
		t.Errorf("Unexpected card fields: %+v", card)
	}
	if card.Example != "I eat an apple." || card.Translation != "Tôi ăn một quả táo." {
		t.Errorf("Expected first example on card, got %q / %q", card.Example, card.Translation)
	}
	wantTags := []string{"everyday_food", "nouns", "easy", "mastered"}
	if !reflect.DeepEqual(card.Tags, wantTags) {
		t.Errorf("Tags = %v, want %v", card.Tags, wantTags)
	}

	bare := CardFromEntry(vocab.Entry{Word: "cat", Meaning: "con mèo", Difficulty: vocab.DifficultyMedium}, "")
	if bare.Example != "" || !reflect.DeepEqual(bare.Tags, []string{"medium"}) {
		t.Errorf("Unexpected bare card: %+v", bare)
	}
}

func TestWriteCSV(t *testing.T) {
	gen := NewGenerator(nil)
	gen.AddCard(Card{Word: "apple", Meaning: "quả táo", Example: "I eat an apple, daily.", Tags: []string{"food", "easy"}})
	gen.AddCard(Card{Word: "cat", Pronunciation: "kæt", Meaning: "con mèo"})

	var buf bytes.Buffer
	if err := gen.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records (header + 2 cards), got %d", len(records))
	}
	if !reflect.DeepEqual(records[0], CSVHeaders) {
		t.Errorf("Header = %v", records[0])
	}
	want := []string{"apple", "", "quả táo", "I eat an apple, daily.", "", "food easy"}
	if !reflect.DeepEqual(records[1], want) {
		t.Errorf("Record = %v, want %v", records[1], want)
	}
	if records[2][1] != "kæt" {
		t.Errorf("Expected pronunciation 'kæt', got %q", records[2][1])
	}
}

func TestGenerateCSV(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.csv")
	gen := NewGenerator(&GeneratorOptions{OutputPath: outputPath})
	gen.AddCard(Card{Word: "apple", Meaning: "quả táo"})

	if err := gen.GenerateCSV(); err != nil {
		t.Fatalf("GenerateCSV() error = %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if strings.HasPrefix(string(data), "Word,") {
		t.Error("Headers written although IncludeHeaders is false")
	}
	if strings.TrimSpace(string(data)) != "apple,,quả táo,,," {
		t.Errorf("Unexpected CSV content: %q", data)
	}
}

func TestGenerateCSVBadPath(t *testing.T) {
	gen := NewGenerator(&GeneratorOptions{OutputPath: "/nonexistent/dir/out.csv"})
	if err := gen.GenerateCSV(); err == nil {
		t.Error("Expected error for unwritable path")
	}
}

func TestStats(t *testing.T) {
	gen := NewGenerator(nil)
	gen.AddCard(Card{Word: "a", AudioFile: "a.mp3", Example: "x"})
	gen.AddCard(Card{Word: "b", AudioFile: "b.mp3"})
	gen.AddCard(Card{Word: "c"})

	total, withAudio, withExamples := gen.Stats()
	if total != 3 || withAudio != 2 || withExamples != 1 {
		t.Errorf("Stats() = %d, %d, %d; want 3, 2, 1", total, withAudio, withExamples)
	}
	if len(gen.Cards()) != 3 {
		t.Errorf("Expected 3 cards, got %d", len(gen.Cards()))
	}
}

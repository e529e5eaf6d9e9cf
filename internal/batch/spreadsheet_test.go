package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

var sheetRows = [][]any{
	{"Word", "Meaning", "Pronunciation", "Category", "Topic", "Difficulty", "Example", "Translation"},
	{"apple", "quả táo", "/ˈæp.əl/", "Food", "Nouns", "easy", "I eat an apple.", "Tôi ăn một quả táo."},
	{"negotiate", "đàm phán", "", "Work", "Verbs", "Hard"},
	{},
	{"orphan", ""},
	{"bad", "xấu", "", "", "", "extreme"},
	{"journey", "chuyến đi"},
}

func writeWorkbook(t *testing.T, sheet string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatal(err)
		}
	}
	for i, row := range sheetRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow() error = %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "words.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}
	return path
}

func checkSheetResult(t *testing.T, got *Result) {
	t.Helper()
	if len(got.Drafts) != 3 {
		t.Fatalf("Expected 3 drafts, got %d: %+v", len(got.Drafts), got.Drafts)
	}
	if len(got.Errors) != 2 {
		t.Errorf("Expected 2 skipped rows, got %v", got.Errors)
	}

	apple := got.Drafts[0]
	if apple.Line != 2 || apple.Category != "Food" {
		t.Errorf("apple draft = %+v", apple)
	}
	want := vocab.Entry{
		Word: "apple", Meaning: "quả táo", Pronunciation: "/ˈæp.əl/", Topic: "Nouns",
		Difficulty: vocab.DifficultyEasy,
		Examples:   []vocab.Example{{Sentence: "I eat an apple.", Translation: "Tôi ăn một quả táo."}},
	}
	if apple.Entry.Word != want.Word || apple.Entry.Meaning != want.Meaning ||
		apple.Entry.Pronunciation != want.Pronunciation || apple.Entry.Topic != want.Topic ||
		apple.Entry.Difficulty != want.Difficulty || len(apple.Entry.Examples) != 1 ||
		apple.Entry.Examples[0] != want.Examples[0] {
		t.Errorf("apple entry = %+v, want %+v", apple.Entry, want)
	}

	if got.Drafts[1].Entry.Difficulty != vocab.DifficultyHard || got.Drafts[1].Entry.Examples != nil {
		t.Errorf("negotiate entry = %+v", got.Drafts[1].Entry)
	}
	// Missing difficulty defaults to medium; file order is kept.
	if got.Drafts[2].Entry.Word != "journey" || got.Drafts[2].Entry.Difficulty != vocab.DifficultyMedium {
		t.Errorf("journey entry = %+v", got.Drafts[2].Entry)
	}
}

func TestReadSpreadsheet(t *testing.T) {
	path := writeWorkbook(t, "Vocabulary")

	got, err := ReadSpreadsheet(path, DefaultSheetConfig())
	if err != nil {
		t.Fatalf("ReadSpreadsheet() error = %v", err)
	}
	checkSheetResult(t, got)
}

func TestReadSpreadsheetMissingSheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1")
	cfg := DefaultSheetConfig()
	cfg.SheetName = "Nope"
	if _, err := ReadSpreadsheet(path, cfg); err == nil {
		t.Error("Expected error for missing sheet")
	}
}

func TestReadCSV(t *testing.T) {
	content := `Word,Meaning,Pronunciation,Category,Topic,Difficulty,Example,Translation
apple,quả táo,/ˈæp.əl/,Food,Nouns,easy,I eat an apple.,Tôi ăn một quả táo.
negotiate,đàm phán,,Work,Verbs,Hard

orphan,
bad,xấu,,,,extreme
journey,chuyến đi
`
	path := filepath.Join(t.TempDir(), "words.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFile(path, DefaultSheetConfig())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	// The blank line is dropped by the CSV reader, shifting row numbers.
	if len(got.Drafts) != 3 || got.Drafts[0].Entry.Word != "apple" || got.Drafts[2].Entry.Word != "journey" {
		t.Errorf("ReadFile() = %+v", got.Drafts)
	}
	if len(got.Errors) != 2 {
		t.Errorf("Expected 2 skipped rows, got %v", got.Errors)
	}
}

func TestReadFileDispatch(t *testing.T) {
	path := writeWorkbook(t, "Sheet1")
	got, err := ReadFile(path, DefaultSheetConfig())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	checkSheetResult(t, got)

	txt := filepath.Join(t.TempDir(), "words.txt")
	os.WriteFile(txt, []byte("cat = con mèo\n"), 0644)
	got, err = ReadFile(txt, DefaultSheetConfig())
	if err != nil || len(got.Drafts) != 1 {
		t.Errorf("ReadFile(txt) = %+v, %v", got, err)
	}
}

func TestColumnsIndex(t *testing.T) {
	if _, err := (Columns{Word: "A"}).index(); err == nil {
		t.Error("Expected error without meaning column")
	}
	if _, err := (Columns{Word: "A", Meaning: "1"}).index(); err == nil {
		t.Error("Expected error for invalid column letter")
	}
	idx, err := (Columns{Word: "B", Meaning: "AA"}).index()
	if err != nil {
		t.Fatal(err)
	}
	if idx.word != 1 || idx.meaning != 26 || idx.example != -1 {
		t.Errorf("index() = %+v", idx)
	}
}

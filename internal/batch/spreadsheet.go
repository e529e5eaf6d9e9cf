package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

// Columns maps entry fields to spreadsheet column letters. An empty
// letter means the field is absent.
type Columns struct {
	Word          string
	Meaning       string
	Pronunciation string
	Category      string
	Topic         string
	Difficulty    string
	Example       string
	Translation   string
}

// SheetConfig describes the layout of a spreadsheet or CSV import.
type SheetConfig struct {
	Columns   Columns
	SheetName string // empty selects the first sheet
	StartRow  int    // 1-based; 2 skips a header row
}

// DefaultSheetConfig expects a header row followed by
// word, meaning, pronunciation, category, topic, difficulty, example,
// translation in columns A to H.
func DefaultSheetConfig() SheetConfig {
	return SheetConfig{
		Columns: Columns{
			Word:          "A",
			Meaning:       "B",
			Pronunciation: "C",
			Category:      "D",
			Topic:         "E",
			Difficulty:    "F",
			Example:       "G",
			Translation:   "H",
		},
		StartRow: 2,
	}
}

// ReadFile reads filename according to its extension: .xlsx and .xlsm as
// spreadsheets, .csv as comma separated rows, anything else as text.
func ReadFile(filename string, cfg SheetConfig) (*Result, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ReadSpreadsheet(filename, cfg)
	case ".csv":
		return ReadCSV(filename, cfg)
	default:
		return ReadTextFile(filename)
	}
}

// ReadSpreadsheet reads entries from an Excel workbook.
func ReadSpreadsheet(filename string, cfg SheetConfig) (*Result, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows of sheet %q: %w", sheet, err)
	}
	return readRows(rows, cfg)
}

// ReadCSV reads entries from a CSV file with the spreadsheet layout.
func ReadCSV(filename string, cfg SheetConfig) (*Result, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return readRows(rows, cfg)
}

type columnIndex struct {
	word, meaning, pron, category, topic, difficulty, example, translation int
}

func (c Columns) index() (columnIndex, error) {
	var idx columnIndex
	for _, col := range []struct {
		letter string
		dst    *int
	}{
		{c.Word, &idx.word},
		{c.Meaning, &idx.meaning},
		{c.Pronunciation, &idx.pron},
		{c.Category, &idx.category},
		{c.Topic, &idx.topic},
		{c.Difficulty, &idx.difficulty},
		{c.Example, &idx.example},
		{c.Translation, &idx.translation},
	} {
		*col.dst = -1
		if col.letter == "" {
			continue
		}
		n, err := excelize.ColumnNameToNumber(col.letter)
		if err != nil {
			return idx, fmt.Errorf("invalid column %q: %w", col.letter, err)
		}
		*col.dst = n - 1
	}
	if idx.word < 0 || idx.meaning < 0 {
		return idx, fmt.Errorf("word and meaning columns are required")
	}
	return idx, nil
}

func readRows(rows [][]string, cfg SheetConfig) (*Result, error) {
	idx, err := cfg.Columns.index()
	if err != nil {
		return nil, err
	}
	start := cfg.StartRow
	if start < 1 {
		start = 1
	}

	result := &Result{}
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < start {
			continue
		}
		cell := func(col int) string {
			if col < 0 || col >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[col])
		}

		word, meaning := cell(idx.word), cell(idx.meaning)
		if word == "" && meaning == "" {
			continue
		}
		if word == "" || meaning == "" {
			result.skip(rowNum, "word and meaning are required")
			continue
		}

		difficulty := vocab.DifficultyMedium
		if raw := cell(idx.difficulty); raw != "" {
			d, err := vocab.ParseDifficulty(raw)
			if err != nil {
				result.skip(rowNum, "%v", err)
				continue
			}
			difficulty = d
		}

		e := vocab.Entry{
			Word:          word,
			Pronunciation: cell(idx.pron),
			Meaning:       meaning,
			Topic:         cell(idx.topic),
			Difficulty:    difficulty,
		}
		if ex := cell(idx.example); ex != "" {
			e.Examples = []vocab.Example{{Sentence: ex, Translation: cell(idx.translation)}}
		}
		result.Drafts = append(result.Drafts, Draft{Line: rowNum, Category: cell(idx.category), Entry: e})
	}
	return result, nil
}

package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"codeberg.org/snonux/vocabdrill/internal/store"
	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

// Now is the fixed time test clocks start at.
var Now = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

// OpenStore opens a fresh database in a temporary directory. The store
// uses a fake clock starting at Now, which is returned as well.
func OpenStore(t *testing.T) (*store.Store, *clockwork.FakeClock) {
	t.Helper()

	clock := clockwork.NewFakeClockAt(Now)
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "vocab.db"), store.WithClock(clock))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st, clock
}

// SampleEntries returns a small vocabulary without ids.
func SampleEntries() []vocab.Entry {
	return []vocab.Entry{
		{
			Word:          "apple",
			Pronunciation: "/ˈæp.əl/",
			Meaning:       "quả táo",
			Topic:         "Nouns",
			Difficulty:    vocab.DifficultyEasy,
			Examples: []vocab.Example{
				{Sentence: "I eat an apple every day.", Translation: "Tôi ăn một quả táo mỗi ngày."},
			},
		},
		{
			Word:       "negotiate",
			Meaning:    "đàm phán",
			Topic:      "Verbs",
			Difficulty: vocab.DifficultyHard,
		},
		{
			Word:          "journey",
			Pronunciation: "/ˈdʒɜː.ni/",
			Meaning:       "chuyến đi",
			Topic:         "Nouns",
			Difficulty:    vocab.DifficultyMedium,
			Mastered:      true,
			ReviewCount:   2,
		},
	}
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}

// DriveClock keeps firing the next pending timer of clock until ctx is
// done, so that timer chains run to completion without real waiting.
func DriveClock(ctx context.Context, clock *clockwork.FakeClock, step time.Duration) {
	go func() {
		for {
			if err := clock.BlockUntilContext(ctx, 1); err != nil {
				return
			}
			clock.Advance(step)
		}
	}()
}

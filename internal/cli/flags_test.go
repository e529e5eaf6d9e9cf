package cli

import (
	"reflect"
	"testing"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"LogLevel", flags.LogLevel, "warn"},
		{"LogFormat", flags.LogFormat, "text"},
		{"Sort", flags.Sort, "word"},
		{"Order", flags.Order, "asc"},
		{"Parts", flags.Parts, []string{"word", "pronunciation", "meaning", "examples", "example-translation"}},
		{"PartPause", flags.PartPause, 1.0},
		{"WordPause", flags.WordPause, 2.0},
		{"Rate", flags.Rate, 1.0},
		{"AudioProvider", flags.AudioProvider, "espeak"},
		{"StartRow", flags.StartRow, 2},
		{"DeckName", flags.DeckName, "vocabdrill"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	boolTests := []struct {
		name  string
		value bool
	}{
		{"SearchPronunciation", flags.SearchPronunciation},
		{"ShowIDs", flags.ShowIDs},
		{"Interactive", flags.Interactive},
		{"WithAudio", flags.WithAudio},
		{"NoHeaders", flags.NoHeaders},
		{"NotMastered", flags.NotMastered},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	if flags.CfgFile != "" || flags.DBPath != "" || flags.Search != "" {
		t.Errorf("expected empty CfgFile, DBPath and Search, got %q %q %q", flags.CfgFile, flags.DBPath, flags.Search)
	}
}

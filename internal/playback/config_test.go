package playback

import (
	"errors"
	"testing"
	"time"

	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

func TestParseParts(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []Part
		wantErr bool
	}{
		{"single", []string{"word"}, []Part{PartWord}, false},
		{"case and spaces", []string{" Word ", "MEANING"}, []Part{PartWord, PartMeaning}, false},
		{"duplicates dropped", []string{"word", "word", "examples"}, []Part{PartWord, PartExamples}, false},
		{"blank skipped", []string{"", "meaning"}, []Part{PartMeaning}, false},
		{"unknown", []string{"word", "etymology"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseParts(tt.input)
			if tt.wantErr {
				if !errors.Is(err, vocab.ErrInvalidFilterValue) {
					t.Errorf("ParseParts(%v) error = %v, want ErrInvalidFilterValue", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseParts(%v) unexpected error: %v", tt.input, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseParts(%v) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("part %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"bounds inclusive", func(c *Config) {
			c.PauseBetweenParts = MinPause
			c.PauseBetweenWords = MaxPause
		}, false},
		{"no parts", func(c *Config) { c.Parts = nil }, true},
		{"bad part", func(c *Config) { c.Parts = []Part{"etymology"} }, true},
		{"part pause too short", func(c *Config) { c.PauseBetweenParts = 100 * time.Millisecond }, true},
		{"word pause too long", func(c *Config) { c.PauseBetweenWords = 6 * time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSegments(t *testing.T) {
	entry := vocab.Entry{
		Word:          "apple",
		Pronunciation: "/ˈæp.əl/",
		Meaning:       "quả táo",
		Examples: []vocab.Example{
			{Sentence: "I eat an apple.", Translation: "Tôi ăn một quả táo."},
			{Sentence: "Apples are red.", Translation: "Táo màu đỏ."},
		},
	}

	cfg := DefaultConfig()
	got := segments(entry, cfg)
	want := []string{"apple", "/ˈæp.əl/", "quả táo", "I eat an apple.", "Tôi ăn một quả táo."}
	if len(got) != len(want) {
		t.Fatalf("segments() returned %d parts, want %d", len(got), len(want))
	}
	for i, s := range got {
		if s.text != want[i] {
			t.Errorf("segment %d = %q, want %q", i, s.text, want[i])
		}
	}

	// Config order does not change speaking order.
	cfg.Parts = []Part{PartExamples, PartWord}
	got = segments(entry, cfg)
	if len(got) != 2 || got[0].part != PartWord || got[1].part != PartExamples {
		t.Errorf("segments() with reordered parts = %+v", got)
	}

	entry.Examples = nil
	entry.Pronunciation = "  "
	got = segments(entry, DefaultConfig())
	if len(got) != 2 {
		t.Errorf("Expected blank parts to be skipped, got %+v", got)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"apple", "en"},
		{"I eat an apple, don't you?", "en"},
		{"42", "en"},
		{"", "en"},
		{"quả táo", "vi"},
		{"/ˈæp.əl/", "vi"},
		{"Tôi ăn một quả táo.", "vi"},
	}

	for _, tt := range tests {
		if got := DetectLanguage(tt.text, "en", "vi"); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

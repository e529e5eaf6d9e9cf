package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if config.Voice != "" {
		t.Errorf("Expected no default voice override, got '%s'", config.Voice)
	}

	if config.Speed != 150 {
		t.Errorf("Expected default speed 150, got %d", config.Speed)
	}
}

func TestESpeakVoice(t *testing.T) {
	tests := []struct {
		override string
		lang     string
		expected string
	}{
		{"", "en", "en"},
		{"", "vi", "vi"},
		{"", "", "en"},
		{"en-us", "en", "en-us"},
		{"en-us", "vi", "vi"}, // override only applies to its own language
		{"vi+f1", "vi", "vi+f1"},
	}

	for _, tt := range tests {
		p := &ESpeakProvider{config: &ESpeakConfig{Voice: tt.override}}
		if got := p.voice(tt.lang); got != tt.expected {
			t.Errorf("voice(%q) with override %q = %q, want %q", tt.lang, tt.override, got, tt.expected)
		}
	}
}

func TestESpeakSpeed(t *testing.T) {
	p := &ESpeakProvider{config: DefaultConfig()}

	tests := []struct {
		rate     float64
		expected int
	}{
		{1.0, 150},  // Normal speed
		{0, 150},    // Unset rate
		{0.5, 80},   // Below minimum
		{4.0, 450},  // Above maximum
		{1.5, 225},  // Scaled
	}

	for _, tt := range tests {
		if got := p.speed(tt.rate); got != tt.expected {
			t.Errorf("speed(%v) = %d, expected %d", tt.rate, got, tt.expected)
		}
	}
}

func TestESpeakArgs(t *testing.T) {
	p := &ESpeakProvider{config: &ESpeakConfig{Speed: 150, Pitch: 120, Amplitude: 100, WordGap: 2}}
	args := p.args(Request{Text: "apple", Lang: "en", Rate: 1}, "out.wav")

	want := []string{"-v", "en", "-s", "150", "-p", "99", "-a", "100", "-g", "2", "-w", "out.wav", "apple"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestNewESpeakProvider(t *testing.T) {
	// This test will fail if espeak-ng is not installed
	// We'll skip it in that case
	provider, err := NewESpeakProvider(nil)
	if err != nil {
		if checkESpeakInstalled() != nil {
			t.Skip("espeak-ng not installed, skipping test")
		}
		t.Fatalf("NewESpeakProvider() failed: %v", err)
	}

	if provider.config == nil {
		t.Fatal("ESpeakProvider has nil config")
	}
	if provider.Name() != "espeak-ng" {
		t.Errorf("Name() = %s", provider.Name())
	}
}

func TestESpeakGenerateAudio_InvalidInput(t *testing.T) {
	p := &ESpeakProvider{config: DefaultConfig()}

	err := p.GenerateAudio(context.Background(), Request{Text: "", Lang: "en"}, "test.wav")
	if err == nil {
		t.Error("GenerateAudio() with empty text should return error")
	}
}

func TestESpeakGenerateAudio_Integration(t *testing.T) {
	// Skip if espeak-ng not installed
	if checkESpeakInstalled() != nil {
		t.Skip("espeak-ng not installed, skipping integration test")
	}

	tempDir := t.TempDir()

	provider, err := NewESpeakProvider(nil)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	for _, req := range []Request{
		{Text: "apple", Lang: "en", Rate: 1},
		{Text: "quả táo", Lang: "vi", Rate: 0.8},
	} {
		outputFile := filepath.Join(tempDir, req.Lang, "test.wav")
		if err := provider.GenerateAudio(context.Background(), req, outputFile); err != nil {
			t.Fatalf("GenerateAudio(%q) failed: %v", req.Text, err)
		}

		info, err := os.Stat(outputFile)
		if err != nil {
			t.Fatalf("Output file not created: %v", err)
		}
		if info.Size() == 0 {
			t.Error("Output file is empty")
		}
	}
}

package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/genai"
)

type fakeGenerator struct {
	calls  int
	err    error
	pcm    []byte
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: "audio/L16;rate=24000", Data: f.pcm}},
			}},
		}},
	}, nil
}

func newTestGeminiProvider(gen contentGenerator) *GeminiProvider {
	return &GeminiProvider{
		models:  gen,
		config:  &Config{GeminiKey: "test-key", GeminiModel: "gemini-tts", GeminiVoice: "Kore"},
		breaker: newBreaker("gemini-test"),
	}
}

func TestNewGeminiProviderRequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), &Config{})
	if err == nil || err.Error() != "Gemini API key is required" {
		t.Errorf("NewGeminiProvider() error = %v", err)
	}
}

func TestGeminiGenerateAudio(t *testing.T) {
	gen := &fakeGenerator{pcm: []byte{1, 0, 2, 0, 3, 0, 4, 0}}
	provider := newTestGeminiProvider(gen)

	dir := t.TempDir()
	err := provider.GenerateAudio(context.Background(), Request{Text: "quả táo", Lang: "vi", Rate: 0.7},
		filepath.Join(dir, "tao.mp3"))
	if err != nil {
		t.Fatalf("GenerateAudio() error = %v", err)
	}

	// Output is always WAV.
	data, err := os.ReadFile(filepath.Join(dir, "tao.wav"))
	if err != nil {
		t.Fatalf("WAV file not written: %v", err)
	}
	if len(data) != 44+len(gen.pcm) {
		t.Errorf("WAV size = %d, want %d", len(data), 44+len(gen.pcm))
	}
	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != geminiSampleRate {
		t.Errorf("Sample rate = %d", rate)
	}

	if gen.model != "gemini-tts" {
		t.Errorf("model = %s", gen.model)
	}
	if !strings.Contains(gen.prompt, "Vietnamese") || !strings.Contains(gen.prompt, "slowly") {
		t.Errorf("prompt = %q", gen.prompt)
	}
	if gen.config.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName != "Kore" {
		t.Error("Voice not passed to Gemini")
	}
	if gen.config.SpeechConfig.LanguageCode != "vi" {
		t.Errorf("LanguageCode = %q", gen.config.SpeechConfig.LanguageCode)
	}
}

func TestGeminiNoAudio(t *testing.T) {
	provider := newTestGeminiProvider(&fakeGenerator{})
	err := provider.GenerateAudio(context.Background(), Request{Text: "apple", Lang: "en"},
		filepath.Join(t.TempDir(), "a.wav"))
	if err == nil || !strings.Contains(err.Error(), "no audio data") {
		t.Errorf("Expected missing audio error, got %v", err)
	}
}

func TestGeminiAPIError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	provider := newTestGeminiProvider(gen)
	err := provider.GenerateAudio(context.Background(), Request{Text: "apple", Lang: "en"},
		filepath.Join(t.TempDir(), "a.wav"))
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("Expected API error, got %v", err)
	}
}

func TestGeminiMetadata(t *testing.T) {
	provider := newTestGeminiProvider(&fakeGenerator{})
	if provider.Name() != "gemini" {
		t.Errorf("Name() = %s", provider.Name())
	}
	if provider.Extension() != "wav" {
		t.Errorf("Extension() = %s", provider.Extension())
	}
	if err := provider.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() error = %v", err)
	}
	provider.config.GeminiKey = ""
	if err := provider.IsAvailable(); err == nil {
		t.Error("IsAvailable() should fail without key")
	}
}

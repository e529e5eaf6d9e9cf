package audio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sony/gobreaker"
	"google.golang.org/genai"
)

// Gemini TTS returns raw 16-bit little-endian mono PCM at 24 kHz.
const (
	geminiSampleRate = 24000
	geminiChannels   = 1
	geminiBitDepth   = 16
)

// contentGenerator is the part of the genai client used for TTS.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider implements Provider with the Gemini speech generation
// models.
type GeminiProvider struct {
	models  contentGenerator
	config  *Config
	breaker *gobreaker.CircuitBreaker
}

// NewGeminiProvider creates a new Gemini TTS provider
func NewGeminiProvider(ctx context.Context, config *Config) (Provider, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		models:  client.Models,
		config:  config,
		breaker: newBreaker("gemini"),
	}, nil
}

// GenerateAudio synthesizes req and writes it as a WAV file. Any other
// extension on outputFile is replaced by .wav.
func (p *GeminiProvider) GenerateAudio(ctx context.Context, req Request, outputFile string) error {
	if err := ValidateText(req.Text, req.Lang); err != nil {
		return err
	}
	if ext := filepath.Ext(outputFile); !strings.EqualFold(ext, ".wav") {
		outputFile = strings.TrimSuffix(outputFile, ext) + ".wav"
	}

	slog.Debug("gemini tts request", "model", p.config.GeminiModel, "voice", p.config.GeminiVoice, "lang", req.Lang)

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.models.GenerateContent(ctx, p.config.GeminiModel, genai.Text(p.prompt(req)), p.generateConfig(req))
	})
	if err != nil {
		return fmt.Errorf("Gemini TTS API error: %w", err)
	}

	pcm, err := audioData(result.(*genai.GenerateContentResponse))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := writeWAV(&buf, pcm, geminiSampleRate, geminiChannels, geminiBitDepth); err != nil {
		return err
	}
	return writeAudio(&buf, outputFile)
}

func (p *GeminiProvider) prompt(req Request) string {
	var pace string
	switch {
	case req.Rate > 0 && req.Rate < 0.9:
		pace = "slowly and clearly"
	case req.Rate > 1.1:
		pace = "briskly"
	default:
		pace = "clearly"
	}
	return fmt.Sprintf("Say %s in %s: %s", pace, LanguageName(req.Lang), req.Text)
}

func (p *GeminiProvider) generateConfig(req Request) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			LanguageCode: req.Lang,
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: p.config.GeminiVoice,
				},
			},
		},
	}
}

// audioData extracts the first inline audio blob of a response.
func audioData(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil {
		return nil, fmt.Errorf("empty response from Gemini")
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("no audio data received from Gemini")
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Settings identifies model and voice for caching.
func (p *GeminiProvider) Settings() string {
	return p.config.GeminiModel + "|" + p.config.GeminiVoice
}

// Extension is the file type this provider always produces.
func (p *GeminiProvider) Extension() string {
	return "wav"
}

// IsAvailable checks that a key is configured and the API has not been
// failing.
func (p *GeminiProvider) IsAvailable() error {
	if p.config.GeminiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	if p.breaker != nil && p.breaker.State() == gobreaker.StateOpen {
		return fmt.Errorf("Gemini TTS temporarily disabled after repeated failures")
	}
	return nil
}

package audio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

// speechClient is the part of the OpenAI client used for TTS.
type speechClient interface {
	CreateSpeech(ctx context.Context, request openai.CreateSpeechRequest) (openai.RawResponse, error)
}

// OpenAIProvider implements Provider interface for OpenAI TTS
type OpenAIProvider struct {
	client  speechClient
	config  *Config
	breaker *gobreaker.CircuitBreaker
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) (Provider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	return &OpenAIProvider{
		client:  openai.NewClient(config.OpenAIKey),
		config:  config,
		breaker: newBreaker("openai"),
	}, nil
}

// GenerateAudio generates audio using OpenAI TTS
func (p *OpenAIProvider) GenerateAudio(ctx context.Context, req Request, outputFile string) error {
	if err := ValidateText(req.Text, req.Lang); err != nil {
		return err
	}

	speechReq := p.speechRequest(req, outputFile)
	slog.Debug("openai tts request", "model", speechReq.Model, "voice", speechReq.Voice,
		"speed", speechReq.Speed, "lang", req.Lang)

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.client.CreateSpeech(ctx, speechReq)
	})
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "does not have access to model") && p.supportsInstructions() {
			return fmt.Errorf("OpenAI TTS API error: %w\nNote: The %s model requires access. Try using tts-1-hd instead", err, p.config.OpenAIModel)
		}
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	response := result.(openai.RawResponse)
	defer response.Close()

	return writeAudio(response, outputFile)
}

func (p *OpenAIProvider) speechRequest(req Request, outputFile string) openai.CreateSpeechRequest {
	speed := p.config.OpenAISpeed
	if speed == 0 {
		speed = 1.0
	}
	if req.Rate > 0 {
		speed *= req.Rate
	}
	speed = max(0.25, min(speed, 4.0))

	speechReq := openai.CreateSpeechRequest{
		Model: openai.SpeechModel(p.config.OpenAIModel),
		Input: preprocessText(req.Text),
		Voice: openai.SpeechVoice(p.config.OpenAIVoice),
		Speed: speed,
	}
	if p.supportsInstructions() {
		speechReq.Instructions = p.instruction(req.Lang)
	}

	switch strings.ToLower(filepath.Ext(outputFile)) {
	case ".wav":
		speechReq.ResponseFormat = openai.SpeechResponseFormatWav
	case ".opus":
		speechReq.ResponseFormat = openai.SpeechResponseFormatOpus
	case ".aac":
		speechReq.ResponseFormat = openai.SpeechResponseFormatAac
	case ".flac":
		speechReq.ResponseFormat = openai.SpeechResponseFormatFlac
	default:
		speechReq.ResponseFormat = openai.SpeechResponseFormatMp3
	}
	return speechReq
}

func (p *OpenAIProvider) supportsInstructions() bool {
	return p.config.OpenAIModel == "gpt-4o-mini-tts" || p.config.OpenAIModel == "gpt-4o-mini-audio-preview"
}

func (p *OpenAIProvider) instruction(lang string) string {
	s := fmt.Sprintf("You are reading %s vocabulary to a language learner. Use authentic %s pronunciation and speak clearly.",
		LanguageName(lang), LanguageName(lang))
	if p.config.OpenAIInstruction != "" {
		s += " " + p.config.OpenAIInstruction
	}
	return s
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Settings identifies model, voice and speed for caching.
func (p *OpenAIProvider) Settings() string {
	return fmt.Sprintf("%s|%s|%.2f|%s", p.config.OpenAIModel, p.config.OpenAIVoice,
		p.config.OpenAISpeed, p.config.OpenAIInstruction)
}

// IsAvailable checks if the OpenAI API is accessible
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	if p.breaker != nil && p.breaker.State() == gobreaker.StateOpen {
		return fmt.Errorf("OpenAI TTS temporarily disabled after repeated failures")
	}
	return nil
}

// preprocessText strips punctuation that some voices read out or that
// makes single words sound like questions.
func preprocessText(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.ContainsAny(cleaned, " ") {
		// Sentences keep their punctuation for natural intonation.
		return cleaned
	}
	for _, punct := range []string{"!", "?", ".", ",", ";", ":", "\"", "(", ")", "[", "]", "{", "}"} {
		cleaned = strings.ReplaceAll(cleaned, punct, "")
	}
	return strings.TrimSpace(cleaned)
}

// writeAudio copies r to outputFile, creating its directory.
func writeAudio(r io.Reader, outputFile string) error {
	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	written, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(outputFile)
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if written == 0 {
		os.Remove(outputFile)
		return fmt.Errorf("no audio data received")
	}
	return nil
}

package audio

import (
	"context"
	"fmt"
	"log/slog"
)

// Request describes one utterance to synthesize.
type Request struct {
	Text string
	Lang string  // ISO 639-1 code, e.g. "en" or "vi"
	Rate float64 // 1.0 is normal speed
}

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio synthesizes req and saves it to outputFile
	GenerateAudio(ctx context.Context, req Request, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider     string // "espeak", "openai" or "gemini"
	CacheDir     string // Directory for synthesized files
	OutputFormat string // "mp3" or "wav"

	// espeak-ng voice override; empty means the language code
	ESpeakVoice string

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer"
	OpenAISpeed       float64 // 0.25 to 4.0, multiplied by the request rate
	OpenAIInstruction string  // extra voice instructions for gpt-4o-mini-tts

	// Gemini-specific settings
	GeminiKey   string
	GeminiModel string
	GeminiVoice string
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:     "espeak",
		CacheDir:     "./audio_cache",
		OutputFormat: "mp3",
		OpenAIModel:  "gpt-4o-mini-tts",
		OpenAIVoice:  "alloy",
		OpenAISpeed:  1.0,
		GeminiModel:  "gemini-2.5-flash-preview-tts",
		GeminiVoice:  "Kore",
	}
}

// NewProvider creates the appropriate audio provider based on configuration
func NewProvider(ctx context.Context, config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	switch config.Provider {
	case "espeak", "espeak-ng":
		espeakConfig := DefaultConfig()
		espeakConfig.Voice = config.ESpeakVoice
		p, err := NewESpeakProvider(espeakConfig)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)
	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiProvider(ctx, config)
	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, req Request, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, req, outputFile)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		slog.Warn("primary audio provider failed, falling back",
			"primary", p.primary.Name(), "fallback", p.fallback.Name(), "error", err)
		return p.fallback.GenerateAudio(ctx, req, outputFile)
	}
	return nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// Settings identifies the primary provider's output for caching.
func (p *ProviderWithFallback) Settings() string {
	return settingsOf(p.primary)
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}

// settingsOf returns what distinguishes a provider's output beyond its
// name: model, voice and the like.
func settingsOf(p Provider) string {
	if s, ok := p.(interface{ Settings() string }); ok {
		return p.Name() + "|" + s.Settings()
	}
	return p.Name()
}

// Extension is the file type the primary provider insists on, if any.
func (p *ProviderWithFallback) Extension() string {
	return extensionOf(p.primary)
}

func extensionOf(p Provider) string {
	if e, ok := p.(interface{ Extension() string }); ok {
		return e.Extension()
	}
	return ""
}

package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type modelClient interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// Catalog groups model ids by what vocabdrill uses them for.
type Catalog struct {
	Speech []string
	Chat   []string
}

// Lister handles listing available OpenAI models
type Lister struct {
	client modelClient
}

// NewLister creates a new model lister
func NewLister(apiKey string) (*Lister, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure audio.openai_key in .vocabdrill.yaml")
	}
	return &Lister{client: openai.NewClient(apiKey)}, nil
}

// Catalog fetches and categorizes the available models.
func (l *Lister) Catalog(ctx context.Context) (Catalog, error) {
	list, err := l.client.ListModels(ctx)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to list models: %w", err)
	}

	var c Catalog
	for _, model := range list.Models {
		id := model.ID
		switch {
		case strings.Contains(id, "tts"):
			c.Speech = append(c.Speech, id)
		case strings.Contains(id, "audio") || strings.Contains(id, "realtime") || strings.Contains(id, "transcribe"):
			// speech-to-speech and transcription models are of no use here
		case strings.HasPrefix(id, "gpt-") || strings.Contains(id, "chat"):
			c.Chat = append(c.Chat, id)
		}
	}
	sort.Strings(c.Speech)
	sort.Strings(c.Chat)
	return c, nil
}

// Print writes the catalog in a human readable form.
func (c Catalog) Print(w io.Writer) {
	fmt.Fprintln(w, "Text-to-Speech (TTS) Models:")
	if len(c.Speech) == 0 {
		fmt.Fprintln(w, "  No TTS models found")
	}
	for _, model := range c.Speech {
		fmt.Fprintf(w, "  %s\n", model)
	}

	fmt.Fprintln(w, "\nChat Models (pronunciation and translation lookups):")
	if len(c.Chat) == 0 {
		fmt.Fprintln(w, "  No chat models found")
	}
	for _, model := range c.Chat {
		fmt.Fprintf(w, "  %s\n", model)
	}
}

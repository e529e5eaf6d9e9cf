package translation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Translator translates from one language into another. Both are ISO
// 639-1 codes.
type Translator struct {
	client   chatClient
	from, to string
	cache    *Cache
}

// NewTranslator creates a new translator instance
func NewTranslator(apiKey, from, to string) (*Translator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found")
	}
	return newTranslator(openai.NewClient(apiKey), from, to), nil
}

func newTranslator(client chatClient, from, to string) *Translator {
	return &Translator{client: client, from: from, to: to, cache: NewCache()}
}

// Translate returns the translation of text. Repeated texts are answered
// from the cache.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("nothing to translate")
	}
	if cached, ok := t.cache.Get(text); ok {
		return cached, nil
	}

	req := openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Translate the following text from language '%s' to language '%s'. Respond with only the translation, nothing else.\n\n%s",
					t.from, t.to, text),
			},
		},
		MaxTokens:   200,
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	translation := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translation == "" {
		return "", fmt.Errorf("no translation returned")
	}
	t.cache.Add(text, translation)
	return translation, nil
}

// Cache stores translations in memory for batch operations
type Cache struct {
	mu           sync.RWMutex
	translations map[string]string
}

// NewCache creates a new translation cache
func NewCache() *Cache {
	return &Cache{translations: make(map[string]string)}
}

// Add adds a translation to the cache
func (c *Cache) Add(text, translation string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.translations[text] = translation
}

// Get retrieves a translation from the cache
func (c *Cache) Get(text string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	translation, ok := c.translations[text]
	return translation, ok
}

// Len returns the number of cached translations.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.translations)
}

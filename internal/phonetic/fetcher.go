package phonetic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Fetcher fetches IPA transcriptions for words of one language.
type Fetcher struct {
	client  chatClient
	lang    string
	model   string
	timeout time.Duration
}

// NewFetcher creates a fetcher for words in lang (an ISO 639-1 code).
func NewFetcher(apiKey, lang string) (*Fetcher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}
	return newFetcher(openai.NewClient(apiKey), lang), nil
}

func newFetcher(client chatClient, lang string) *Fetcher {
	return &Fetcher{
		client:  client,
		lang:    lang,
		model:   openai.GPT4oMini,
		timeout: 30 * time.Second,
	}
}

// Pronounce returns the IPA transcription of word between slashes, for
// example "/ˈæp.əl/".
func (f *Fetcher) Pronounce(ctx context.Context, word string) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", fmt.Errorf("word is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: f.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a phonetics expert helping language learners. Answer with the IPA transcription only, including stress marks, and nothing else.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("IPA transcription of the word '%s' (language code %s):", word, f.lang),
			},
		},
		Temperature: 0.2,
		MaxTokens:   60,
	}

	resp, err := f.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	ipa := normalize(resp.Choices[0].Message.Content)
	if ipa == "" {
		return "", fmt.Errorf("no transcription for %q", word)
	}
	return ipa, nil
}

// normalize reduces a model answer to "/.../": the first line only, with
// brackets, quotes and a leading "word:" label removed.
func normalize(answer string) string {
	s := strings.TrimSpace(answer)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, ":"); i >= 0 && !strings.ContainsAny(s[:i], "/[") {
		s = s[i+1:]
	}
	s = strings.Trim(strings.TrimSpace(s), "/[]`\"' ")
	if s == "" {
		return ""
	}
	return "/" + s + "/"
}

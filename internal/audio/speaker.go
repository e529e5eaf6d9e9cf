package audio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Speaker reads text aloud: it synthesizes through a Provider into the
// cache and plays the file. It satisfies playback.Speaker.
type Speaker struct {
	provider Provider
	player   *Player
	cache    *Cache
	format   string
	logger   *slog.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewSpeaker creates a speaker writing files of the given format ("mp3"
// or "wav") into cache.
func NewSpeaker(provider Provider, player *Player, cache *Cache, format string, logger *slog.Logger) *Speaker {
	if format == "" {
		format = "mp3"
	}
	if ext := extensionOf(provider); ext != "" {
		format = ext
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Speaker{
		provider: provider,
		player:   player,
		cache:    cache,
		format:   format,
		logger:   logger,
	}
}

// Available reports whether both synthesis and playback can work.
func (s *Speaker) Available() bool {
	if err := s.provider.IsAvailable(); err != nil {
		s.logger.Debug("speech provider unavailable", "provider", s.provider.Name(), "error", err)
		return false
	}
	if err := s.player.Available(); err != nil {
		s.logger.Debug("audio player unavailable", "error", err)
		return false
	}
	return true
}

// Speak cancels any current utterance and starts a new one. Synthesis and
// playback run in the background; done receives their outcome unless the
// utterance is cancelled first.
func (s *Speaker) Speak(text, lang string, rate float64, done func(error)) error {
	req := Request{Text: text, Lang: lang, Rate: rate}
	if err := ValidateText(req.Text, req.Lang); err != nil {
		return err
	}

	s.mu.Lock()
	s.cancelLocked()
	ctx, cancel := context.WithCancel(context.Background())
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		file, err := s.synthesize(ctx, req)
		if err != nil {
			if ctx.Err() == nil {
				done(err)
			}
			return
		}

		s.mu.Lock()
		if gen != s.gen {
			s.mu.Unlock()
			return
		}
		err = s.player.Start(file, func(err error) {
			if s.current(gen) {
				done(err)
			}
		})
		s.mu.Unlock()
		if err != nil {
			done(err)
		}
	}()
	return nil
}

// Cancel stops synthesis and playback of the current utterance.
func (s *Speaker) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Speaker) cancelLocked() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.player.Stop()
}

func (s *Speaker) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}

// Synthesize returns an audio file of text read at normal speed,
// generating and caching it on a miss. Nothing is played.
func (s *Speaker) Synthesize(ctx context.Context, text, lang string) (string, error) {
	req := Request{Text: text, Lang: lang, Rate: 1.0}
	if err := ValidateText(req.Text, req.Lang); err != nil {
		return "", err
	}
	return s.synthesize(ctx, req)
}

// synthesize returns the cached file for req, generating it on a miss.
func (s *Speaker) synthesize(ctx context.Context, req Request) (string, error) {
	file := s.cache.Path(settingsOf(s.provider), req, s.format)
	if s.cache.Has(file) {
		s.logger.Debug("audio cache hit", "text", req.Text, "file", file)
		return file, nil
	}

	if err := s.provider.GenerateAudio(ctx, req, file); err != nil {
		return "", fmt.Errorf("%s: %w", s.provider.Name(), err)
	}
	if !s.cache.Has(file) {
		return "", fmt.Errorf("%s produced no audio for %q", s.provider.Name(), req.Text)
	}
	return file, nil
}

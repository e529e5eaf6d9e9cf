package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/vocabdrill/internal/audio"
	"codeberg.org/snonux/vocabdrill/internal/batch"
	"codeberg.org/snonux/vocabdrill/internal/filter"
	"codeberg.org/snonux/vocabdrill/internal/phonetic"
	"codeberg.org/snonux/vocabdrill/internal/playback"
	"codeberg.org/snonux/vocabdrill/internal/processor"
	"codeberg.org/snonux/vocabdrill/internal/store"
	"codeberg.org/snonux/vocabdrill/internal/translation"
)

// App opens the store and speech backend for a command.
type App struct {
	flags *Flags
}

// session is an opened store plus the processor on top of it.
type session struct {
	*processor.Processor
	store *store.Store
}

func (s *session) Close() error {
	return s.store.Close()
}

// open opens the configured database. With speech set, the configured
// audio provider is set up too; failing that, playback stays silent.
func (a *App) open(ctx context.Context, speech bool, extra ...processor.Option) (*session, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		dbPath = defaultDataPath("vocab.db")
	}
	st, err := store.Open(ctx, dbPath, store.WithLogger(slog.Default()))
	if err != nil {
		return nil, err
	}

	opts := append([]processor.Option{processor.WithLogger(slog.Default())}, extra...)
	var speaker playback.Speaker
	if speech {
		s, err := newSpeaker(ctx, audioConfig())
		switch {
		case err != nil:
			slog.Warn("speech disabled", "error", err)
		case s != nil:
			speaker = s
			opts = append(opts, processor.WithSynthesizer(s))
		}
	}

	return &session{
		Processor: processor.NewProcessor(st, speaker, opts...),
		store:     st,
	}, nil
}

// audioConfig collects the audio settings from viper.
func audioConfig() *audio.Config {
	cfg := audio.DefaultProviderConfig()
	setString := func(dst *string, key string) {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}
	setString(&cfg.Provider, "audio.provider")
	setString(&cfg.CacheDir, "audio.cache_dir")
	setString(&cfg.OutputFormat, "audio.format")
	setString(&cfg.ESpeakVoice, "audio.voice")
	setString(&cfg.OpenAIModel, "audio.openai_model")
	setString(&cfg.OpenAIVoice, "audio.openai_voice")
	setString(&cfg.OpenAIInstruction, "audio.openai_instruction")
	setString(&cfg.GeminiModel, "audio.gemini_model")
	setString(&cfg.GeminiVoice, "audio.gemini_voice")
	if v := viper.GetFloat64("audio.openai_speed"); v > 0 {
		cfg.OpenAISpeed = v
	}
	cfg.OpenAIKey = GetOpenAIKey()
	cfg.GeminiKey = GetGeminiKey()
	return cfg
}

// newSpeaker builds the speech backend for cfg. Cloud providers fall back
// to espeak-ng when it is installed. Provider "none" yields no speaker.
func newSpeaker(ctx context.Context, cfg *audio.Config) (*audio.Speaker, error) {
	if cfg.Provider == "none" {
		return nil, nil
	}

	provider, err := audio.NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Provider == "openai" || cfg.Provider == "gemini" {
		fallbackCfg := *cfg
		fallbackCfg.Provider = "espeak"
		if fallback, err := audio.NewProvider(ctx, &fallbackCfg); err == nil {
			provider = audio.NewProviderWithFallback(provider, fallback)
		} else {
			slog.Debug("no espeak-ng fallback", "error", err)
		}
	}

	cache, err := audio.NewCache(cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	slog.Debug("speech backend ready", "provider", provider.Name(), "cache", cfg.CacheDir)
	return audio.NewSpeaker(provider, audio.NewPlayer(), cache, cfg.OutputFormat, slog.Default()), nil
}

// enrichment builds the OpenAI lookups that fill in missing
// pronunciations and example translations on import.
func enrichment() (processor.Option, error) {
	key := GetOpenAIKey()
	target, native := languages()
	fetcher, err := phonetic.NewFetcher(key, target)
	if err != nil {
		return nil, err
	}
	translator, err := translation.NewTranslator(key, target, native)
	if err != nil {
		return nil, err
	}
	return processor.WithEnrichment(fetcher, translator), nil
}

// languages returns the configured target and native languages, falling
// back to the playback defaults.
func languages() (target, native string) {
	def := playback.DefaultConfig()
	target, native = def.TargetLanguage, def.NativeLanguage
	if v := viper.GetString("language.target"); v != "" {
		target = v
	}
	if v := viper.GetString("language.native"); v != "" {
		native = v
	}
	return target, native
}

// filterRaw turns the filter flags into an unvalidated filter.
func (a *App) filterRaw() filter.Raw {
	f := a.flags
	return filter.Raw{
		Categories:          f.Categories,
		Topics:              f.Topics,
		Difficulties:        f.Difficulties,
		Mastery:             f.Mastery,
		Search:              f.Search,
		SearchPronunciation: f.SearchPronunciation,
		SortField:           f.Sort,
		SortDirection:       f.Order,
	}
}

// playbackConfig reads the playback settings from viper.
func playbackConfig() (playback.Config, error) {
	cfg := playback.DefaultConfig()

	if names := viper.GetStringSlice("playback.parts"); len(names) > 0 {
		parts, err := playback.ParseParts(names)
		if err != nil {
			return cfg, err
		}
		cfg.Parts = parts
	}
	if v := viper.GetFloat64("playback.part_pause"); v > 0 {
		cfg.PauseBetweenParts = seconds(v)
	}
	if v := viper.GetFloat64("playback.word_pause"); v > 0 {
		cfg.PauseBetweenWords = seconds(v)
	}
	if v := viper.GetFloat64("playback.rate"); v > 0 {
		cfg.Rate = v
	}
	cfg.TargetLanguage, cfg.NativeLanguage = languages()
	return cfg, cfg.Validate()
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func (a *App) sheetConfig() batch.SheetConfig {
	cfg := batch.DefaultSheetConfig()
	cfg.SheetName = a.flags.SheetName
	if a.flags.StartRow > 0 {
		cfg.StartRow = a.flags.StartRow
	}
	return cfg
}

func (a *App) exportOptions(path string) processor.ExportOptions {
	target, _ := languages()
	return processor.ExportOptions{
		OutputPath: path,
		DeckName:   a.flags.DeckName,
		WithAudio:  a.flags.WithAudio,
		Language:   target,
		NoHeaders:  a.flags.NoHeaders,
	}
}

func closeSession(s *session) {
	if err := s.Close(); err != nil {
		slog.Warn("failed to close database", "error", err)
	}
}

func plural(n int, word string) string {
	switch {
	case n == 1:
		return fmt.Sprintf("%d %s", n, word)
	case strings.HasSuffix(word, "y"):
		return fmt.Sprintf("%d %sies", n, strings.TrimSuffix(word, "y"))
	}
	return fmt.Sprintf("%d %ss", n, word)
}

package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonboulle/clockwork"

	"codeberg.org/snonux/vocabdrill/internal/batch"
	"codeberg.org/snonux/vocabdrill/internal/filter"
	"codeberg.org/snonux/vocabdrill/internal/playback"
	"codeberg.org/snonux/vocabdrill/internal/store"
	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

// Synthesizer renders text to an audio file without playing it.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) (string, error)
}

// Pronouncer looks up the pronunciation of a word.
type Pronouncer interface {
	Pronounce(ctx context.Context, word string) (string, error)
}

// Translator translates an example sentence into the native language.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Processor handles the main vocabulary workflows
type Processor struct {
	store       *store.Store
	speaker     playback.Speaker
	synthesizer Synthesizer
	pronouncer  Pronouncer
	translator  Translator
	clock       clockwork.Clock
	logger      *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithSynthesizer enables audio in Anki packages.
func WithSynthesizer(s Synthesizer) Option {
	return func(p *Processor) { p.synthesizer = s }
}

// WithEnrichment fills in missing pronunciations and example
// translations of imported entries. Either argument may be nil.
func WithEnrichment(pronouncer Pronouncer, translator Translator) Option {
	return func(p *Processor) {
		p.pronouncer = pronouncer
		p.translator = translator
	}
}

// WithClock sets the clock handed to playback controllers.
func WithClock(clock clockwork.Clock) Option {
	return func(p *Processor) { p.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

// NewProcessor creates a processor on top of st. speaker may be nil, in
// which case playback runs as a silent timed slideshow.
func NewProcessor(st *store.Store, speaker playback.Speaker, opts ...Option) *Processor {
	p := &Processor{
		store:   st,
		speaker: speaker,
		clock:   clockwork.NewRealClock(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// List returns the stored entries matching raw, in the requested order.
// Categories in raw may be given by id or by name.
func (p *Processor) List(ctx context.Context, raw filter.Raw) ([]vocab.Entry, error) {
	categories, err := p.store.Categories(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := vocab.NewCategoryIndex(categories).Resolve(raw.Categories)
	if err != nil {
		return nil, err
	}
	raw.Categories = ids

	spec, err := filter.ParseSpec(raw)
	if err != nil {
		return nil, err
	}
	order, err := filter.ParseSort(raw.SortField, raw.SortDirection)
	if err != nil {
		return nil, err
	}

	entries, err := p.store.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return filter.FilterAndSort(entries, spec, order)
}

// CategoryNames returns an index resolving category ids to names.
func (p *Processor) CategoryNames(ctx context.Context) (*vocab.CategoryIndex, error) {
	categories, err := p.store.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return vocab.NewCategoryIndex(categories), nil
}

// NewController creates a playback controller using the processor's
// speaker and clock. listener may be nil.
func (p *Processor) NewController(listener func(playback.Status)) *playback.Controller {
	opts := []playback.Option{
		playback.WithClock(p.clock),
		playback.WithLogger(p.logger),
	}
	if listener != nil {
		opts = append(opts, playback.WithListener(listener))
	}
	return playback.NewController(p.speaker, opts...)
}

// Play reads entries aloud and blocks until the run completes or ctx is
// cancelled, in which case playback is stopped.
func (p *Processor) Play(ctx context.Context, entries []vocab.Entry, cfg playback.Config, listener func(playback.Status)) (playback.Status, error) {
	c := p.NewController(listener)
	if err := c.Start(entries, cfg); err != nil {
		return playback.Status{}, err
	}

	select {
	case <-c.Done():
	case <-ctx.Done():
		c.Stop()
		return c.Status(), ctx.Err()
	}
	return c.Status(), nil
}

// Review records a manual review of the entry referenced by ref.
func (p *Processor) Review(ctx context.Context, ref string, mastered bool) (vocab.Entry, error) {
	e, err := p.Resolve(ctx, ref)
	if err != nil {
		return vocab.Entry{}, err
	}
	e, err = p.store.SetMastered(ctx, e.ID, mastered)
	if err != nil {
		return vocab.Entry{}, err
	}
	p.logger.Info("entry reviewed", "word", e.Word, "mastered", e.Mastered, "reviews", e.ReviewCount)
	return e, nil
}

// Resolve finds an entry by id, or failing that by its word. A word shared
// by several entries is ambiguous and fails with a validation error.
func (p *Processor) Resolve(ctx context.Context, ref string) (vocab.Entry, error) {
	e, err := p.store.Entry(ctx, ref)
	if err == nil || !errors.Is(err, vocab.ErrNotFound) {
		return e, err
	}

	entries, err := p.store.Entries(ctx)
	if err != nil {
		return vocab.Entry{}, err
	}
	var matches []vocab.Entry
	for _, e := range entries {
		if strings.EqualFold(e.Word, strings.TrimSpace(ref)) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return vocab.Entry{}, fmt.Errorf("entry %q: %w", ref, vocab.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return vocab.Entry{}, vocab.NewValidationError("entry",
			fmt.Sprintf("%q matches %d entries, use the id", ref, len(matches)))
	}
}

// Categories returns the category forest with word counts.
func (p *Processor) Categories(ctx context.Context) ([]*vocab.CategoryNode, error) {
	categories, err := p.store.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return vocab.BuildCategoryTree(categories)
}

// Topics returns all topics with word counts.
func (p *Processor) Topics(ctx context.Context) ([]vocab.Topic, error) {
	return p.store.Topics(ctx)
}

// Stats summarizes the collection.
func (p *Processor) Stats(ctx context.Context) (store.Stats, error) {
	return p.store.Stats(ctx)
}

// Seed fills an empty collection with the sample vocabulary.
func (p *Processor) Seed(ctx context.Context) (int, error) {
	return p.store.Seed(ctx)
}

// ImportSummary reports the outcome of an import.
type ImportSummary struct {
	Imported   int
	Duplicates int
	Errors     []string
}

// Import reads filename with the batch readers and stores every new
// entry. Named categories and topics are created on demand. An entry with
// the same word and meaning as a stored one counts as a duplicate.
func (p *Processor) Import(ctx context.Context, filename string, sheet batch.SheetConfig) (ImportSummary, error) {
	result, err := batch.ReadFile(filename, sheet)
	if err != nil {
		return ImportSummary{}, err
	}
	summary := ImportSummary{Errors: result.Errors}

	existing, err := p.store.Entries(ctx)
	if err != nil {
		return summary, err
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[dedupKey(e)] = true
	}

	categoryIDs := make(map[string]string)
	for _, d := range result.Drafts {
		e := d.Entry
		if seen[dedupKey(e)] {
			p.logger.Debug("skipping duplicate", "word", e.Word, "line", d.Line)
			summary.Duplicates++
			continue
		}

		if d.Category != "" {
			key := strings.ToLower(d.Category)
			id, ok := categoryIDs[key]
			if !ok {
				c, err := p.store.EnsureCategory(ctx, d.Category)
				if err != nil {
					return summary, err
				}
				id = c.ID
				categoryIDs[key] = id
			}
			e.CategoryID = id
		}
		if err := p.store.EnsureTopic(ctx, e.Topic); err != nil {
			return summary, err
		}
		if err := p.enrich(ctx, &e); err != nil {
			return summary, err
		}

		if err := p.store.CreateEntry(ctx, &e); err != nil {
			var verr *vocab.ValidationError
			if errors.As(err, &verr) {
				summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", d.Line, err))
				continue
			}
			return summary, err
		}
		seen[dedupKey(e)] = true
		summary.Imported++
	}

	p.logger.Info("import finished", "file", filename, "imported", summary.Imported,
		"duplicates", summary.Duplicates, "errors", len(summary.Errors))
	return summary, nil
}

// enrich fills gaps in e through the configured lookups. Lookup failures
// are logged and leave the field empty; only cancellation aborts.
func (p *Processor) enrich(ctx context.Context, e *vocab.Entry) error {
	if p.pronouncer != nil && e.Pronunciation == "" {
		pron, err := p.pronouncer.Pronounce(ctx, e.Word)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			p.logger.Warn("pronunciation lookup failed", "word", e.Word, "error", err)
		default:
			e.Pronunciation = pron
		}
	}

	if p.translator == nil {
		return nil
	}
	for i := range e.Examples {
		ex := &e.Examples[i]
		if ex.Translation != "" || ex.Sentence == "" {
			continue
		}
		tr, err := p.translator.Translate(ctx, ex.Sentence)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			p.logger.Warn("example translation failed", "word", e.Word, "error", err)
		default:
			ex.Translation = tr
		}
	}
	return nil
}

func dedupKey(e vocab.Entry) string {
	return strings.ToLower(strings.TrimSpace(e.Word)) + "\x00" + strings.ToLower(strings.TrimSpace(e.Meaning))
}

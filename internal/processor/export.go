package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/vocabdrill/internal/anki"
	"codeberg.org/snonux/vocabdrill/internal/filter"
	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

// ExportOptions configures an Anki export.
type ExportOptions struct {
	OutputPath string // .csv or .apkg, chosen by extension
	DeckName   string // apkg only
	WithAudio  bool   // apkg only; needs a Synthesizer
	Language   string // language of the words, for audio
	NoHeaders  bool   // csv only
}

// Export writes the entries matching raw as an Anki import file and
// returns the number of cards written.
func (p *Processor) Export(ctx context.Context, raw filter.Raw, opts ExportOptions) (int, error) {
	entries, err := p.List(ctx, raw)
	if err != nil {
		return 0, err
	}
	names, err := p.CategoryNames(ctx)
	if err != nil {
		return 0, err
	}
	return p.ExportEntries(ctx, entries, names, opts)
}

// ExportEntries writes entries as an Anki import file.
func (p *Processor) ExportEntries(ctx context.Context, entries []vocab.Entry, names *vocab.CategoryIndex, opts ExportOptions) (int, error) {
	if opts.OutputPath == "" {
		return 0, fmt.Errorf("output path is required")
	}
	apkg := strings.EqualFold(filepath.Ext(opts.OutputPath), ".apkg")

	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     opts.OutputPath,
		IncludeHeaders: !opts.NoHeaders,
	})
	for _, e := range entries {
		category := ""
		if e.CategoryID != "" && names != nil {
			category = names.Name(e.CategoryID)
		}
		card := anki.CardFromEntry(e, category)

		if apkg && opts.WithAudio && p.synthesizer != nil {
			file, err := p.synthesizer.Synthesize(ctx, e.Word, opts.Language)
			if err != nil {
				if ctx.Err() != nil {
					return 0, ctx.Err()
				}
				p.logger.Warn("no audio for card", "word", e.Word, "error", err)
			} else {
				card.AudioFile = file
			}
		}
		gen.AddCard(card)
	}

	if apkg {
		deck := opts.DeckName
		if deck == "" {
			deck = "vocabdrill"
		}
		if err := gen.GenerateAPKG(opts.OutputPath, deck); err != nil {
			return 0, err
		}
	} else if err := gen.GenerateCSV(); err != nil {
		return 0, err
	}

	total, withAudio, _ := gen.Stats()
	p.logger.Info("export finished", "file", opts.OutputPath, "cards", total, "audio", withAudio)
	return total, nil
}

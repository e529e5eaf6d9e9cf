package drill

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/vocabdrill/internal/playback"
	"codeberg.org/snonux/vocabdrill/internal/processor"
	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

// Run plays entries in an interactive full screen session until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, p *processor.Processor, entries []vocab.Entry, cfg playback.Config) error {
	names, err := p.CategoryNames(ctx)
	if err != nil {
		return err
	}

	feed := playback.NewFeed(16)
	controller := p.NewController(feed.Push)
	model := NewModel(ctx, controller, entries, cfg, p.Review, names)
	return run(ctx, controller, feed, model.WithFeed(feed), tea.WithAltScreen())
}

// run drives model until it quits. The controller is stopped and feed
// closed on return.
func run(ctx context.Context, controller Controller, feed *playback.Feed, model tea.Model, opts ...tea.ProgramOption) error {
	defer feed.Close()
	defer controller.Stop()

	program := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	if m, ok := final.(interface{ Err() error }); ok {
		return m.Err()
	}
	return nil
}

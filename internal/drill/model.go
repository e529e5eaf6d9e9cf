package drill

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/vocabdrill/internal/playback"
	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

// Controller is the part of playback.Controller the drill drives.
type Controller interface {
	Start(entries []vocab.Entry, cfg playback.Config) error
	Toggle()
	Next()
	Previous()
	Stop()
	Status() playback.Status
}

// ReviewFunc records a manual review and returns the updated entry.
type ReviewFunc func(ctx context.Context, id string, mastered bool) (vocab.Entry, error)

// StatusMsg carries a controller status update into the program.
type StatusMsg playback.Status

type startedMsg struct{ err error }

type reviewedMsg struct {
	entry vocab.Entry
	err   error
}

// Model is the bubbletea model of a drill session.
type Model struct {
	ctx        context.Context
	controller Controller
	review     ReviewFunc
	names      *vocab.CategoryIndex
	cfg        playback.Config
	feed       *playback.Feed

	entries []vocab.Entry
	status  playback.Status
	message string
	err     error
	width   int
}

// NewModel creates a drill over entries. names may be nil.
func NewModel(ctx context.Context, controller Controller, entries []vocab.Entry, cfg playback.Config, review ReviewFunc, names *vocab.CategoryIndex) Model {
	return Model{
		ctx:        ctx,
		controller: controller,
		review:     review,
		names:      names,
		cfg:        cfg,
		entries:    append([]vocab.Entry(nil), entries...),
		status:     playback.Status{Total: len(entries)},
	}
}

// WithFeed makes the model listen for controller updates on feed.
func (m Model) WithFeed(feed *playback.Feed) Model {
	m.feed = feed
	return m
}

// waitForStatus delivers the next update of feed. It yields nothing once
// the feed is closed.
func waitForStatus(feed *playback.Feed) tea.Cmd {
	if feed == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case st := <-feed.Updates():
			return StatusMsg(st)
		case <-feed.Done():
			return nil
		}
	}
}

// Init starts playback. Start runs as a command so that status updates
// sent by the controller reach a running program.
func (m Model) Init() tea.Cmd {
	if m.feed == nil {
		return m.start()
	}
	return tea.Batch(m.start(), waitForStatus(m.feed))
}

func (m Model) start() tea.Cmd {
	c, entries, cfg := m.controller, m.entries, m.cfg
	return func() tea.Msg {
		return startedMsg{err: c.Start(entries, cfg)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StatusMsg:
		m.status = playback.Status(msg)
		if m.status.State == playback.Idle && m.status.Completed {
			m.message = "Finished. Press space to start over or q to quit."
		}
		return m, waitForStatus(m.feed)
	case startedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
	case reviewedMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("Review failed: %v", msg.err)
			break
		}
		for i := range m.entries {
			if m.entries[i].ID == msg.entry.ID {
				m.entries[i] = msg.entry
			}
		}
		if msg.entry.Mastered {
			m.message = fmt.Sprintf("Marked %q as mastered", msg.entry.Word)
		} else {
			m.message = fmt.Sprintf("Marked %q as not mastered", msg.entry.Word)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.controller.Stop()
		return m, tea.Quit
	case " ":
		if m.status.State == playback.Idle {
			m.message = ""
			return m, m.start()
		}
		m.controller.Toggle()
	case "n", "right":
		m.controller.Next()
	case "p", "left":
		m.controller.Previous()
	case "m":
		e, ok := m.current()
		if !ok || m.review == nil {
			break
		}
		return m, m.toggleMastered(e)
	}
	return m, nil
}

func (m Model) toggleMastered(e vocab.Entry) tea.Cmd {
	ctx, review := m.ctx, m.review
	return func() tea.Msg {
		updated, err := review(ctx, e.ID, !e.Mastered)
		return reviewedMsg{entry: updated, err: err}
	}
}

// current returns the entry at the status index.
func (m Model) current() (vocab.Entry, bool) {
	if m.status.Index < 0 || m.status.Index >= len(m.entries) {
		return vocab.Entry{}, false
	}
	return m.entries[m.status.Index], true
}

// Err returns the error that ended the session, if any.
func (m Model) Err() error {
	return m.err
}

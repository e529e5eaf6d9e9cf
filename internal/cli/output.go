package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"codeberg.org/snonux/vocabdrill/internal/playback"
	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// printEntries renders entries as a table.
func printEntries(w io.Writer, entries []vocab.Entry, names *vocab.CategoryIndex, showIDs bool) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries match the filter.")
		return
	}

	headers := []string{"Word", "Pronunciation", "Meaning", "Category", "Topic", "Difficulty", "Mastered"}
	if showIDs {
		headers = append([]string{"ID"}, headers...)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, e := range entries {
		mastered := ""
		if e.Mastered {
			mastered = "✓"
		}
		row := []string{e.Word, e.Pronunciation, e.Meaning, names.Name(e.CategoryID), e.Topic, e.Difficulty.String(), mastered}
		if showIDs {
			row = append([]string{e.ID}, row...)
		}
		t.Row(row...)
	}

	fmt.Fprintln(w, t.String())
	fmt.Fprintln(w, plural(len(entries), "entry"))
}

// printCategoryTree prints one category per line, children indented
// below their parent.
func printCategoryTree(w io.Writer, roots []*vocab.CategoryNode) {
	if len(roots) == 0 {
		fmt.Fprintln(w, "No categories.")
		return
	}
	for _, root := range roots {
		root.Walk(func(n *vocab.CategoryNode, depth int) {
			fmt.Fprintf(w, "%s%s (%d)\n", strings.Repeat("  ", depth), n.Name, n.WordCount)
		})
	}
}

func printTopics(w io.Writer, topics []vocab.Topic) {
	if len(topics) == 0 {
		fmt.Fprintln(w, "No topics.")
		return
	}
	for _, t := range topics {
		fmt.Fprintf(w, "%s (%d)\n", t.Name, t.WordCount)
	}
}

// progressPrinter writes a line for every part the controller starts.
// Status updates arrive from playback goroutines.
type progressPrinter struct {
	mu   sync.Mutex
	w    io.Writer
	last playback.Status
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w}
}

func (p *progressPrinter) update(st playback.Status) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if st.State != playback.Playing || st.Text == "" {
		return
	}
	if st.Index == p.last.Index && st.Part == p.last.Part && st.Text == p.last.Text && p.last.State == playback.Playing {
		return
	}
	p.last = st
	fmt.Fprintf(p.w, "[%d/%d] %-19s %s\n", st.Index+1, st.Total, st.Part, st.Text)
}

func (p *progressPrinter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

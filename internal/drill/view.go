package drill

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"codeberg.org/snonux/vocabdrill/internal/playback"
)

var (
	styleHeader   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14")).Padding(0, 1)
	styleState    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleWord     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	styleActive   = lipgloss.NewStyle().Background(lipgloss.Color("22")).Foreground(lipgloss.Color("15"))
	styleSubtle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleMastered = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
	styleCard     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

const helpText = "space pause/resume · n/→ next · p/← previous · m mastered · q quit"

func (m Model) View() string {
	if m.err != nil {
		return styleError.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	var b strings.Builder
	b.WriteString(styleHeader.Render("vocabdrill"))
	b.WriteString(styleState.Render(stateLabel(m.status)))
	if m.status.Total > 0 {
		b.WriteString(styleSubtle.Render(fmt.Sprintf("%d/%d", m.status.Index+1, m.status.Total)))
	}
	b.WriteString("\n\n")

	if e, ok := m.current(); ok {
		b.WriteString(m.renderCard(e.Word, e.Pronunciation, e.Meaning, m.exampleLines()))
		b.WriteString("\n")

		var meta []string
		if m.names != nil && e.CategoryID != "" {
			meta = append(meta, m.names.Name(e.CategoryID))
		}
		if e.Topic != "" {
			meta = append(meta, e.Topic)
		}
		meta = append(meta, string(e.Difficulty))
		line := styleSubtle.Render(strings.Join(meta, " · "))
		if e.Mastered {
			line += "  " + styleMastered.Render("✓ mastered")
		}
		b.WriteString(line + "\n")
	} else {
		b.WriteString(styleSubtle.Render("Nothing to play.") + "\n")
	}

	if m.message != "" {
		b.WriteString("\n" + m.message + "\n")
	}
	b.WriteString("\n" + styleSubtle.Render(helpText) + "\n")
	return b.String()
}

func (m Model) renderCard(word, pron, meaning string, examples [2]string) string {
	part := m.status.Part
	if m.status.State != playback.Playing {
		part = ""
	}
	mark := func(p playback.Part, s string) string {
		if p == part {
			return styleActive.Render(s)
		}
		return s
	}

	lines := []string{mark(playback.PartWord, styleWord.Render(word))}
	if pron != "" {
		lines = append(lines, mark(playback.PartPronunciation, pron))
	}
	lines = append(lines, mark(playback.PartMeaning, meaning))
	if examples[0] != "" {
		lines = append(lines, "", mark(playback.PartExamples, examples[0]))
	}
	if examples[1] != "" {
		lines = append(lines, mark(playback.PartExampleTranslation, styleSubtle.Render(examples[1])))
	}

	card := styleCard
	if m.width > 4 {
		card = card.Width(min(m.width-4, 72))
	}
	return card.Render(strings.Join(lines, "\n"))
}

func (m Model) exampleLines() [2]string {
	e, ok := m.current()
	if !ok {
		return [2]string{}
	}
	ex, ok := e.FirstExample()
	if !ok {
		return [2]string{}
	}
	return [2]string{ex.Sentence, ex.Translation}
}

func stateLabel(st playback.Status) string {
	switch {
	case st.State == playback.Playing:
		return "▶ Playing"
	case st.State == playback.Paused:
		return "⏸ Paused"
	case st.Completed:
		return "■ Finished"
	default:
		return "■ Stopped"
	}
}

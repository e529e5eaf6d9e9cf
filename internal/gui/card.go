package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/vocabdrill/internal/playback"
	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

// CardView is a custom widget showing one entry, one label per part.
type CardView struct {
	widget.BaseWidget

	container *fyne.Container

	word          *widget.Label
	pronunciation *widget.Label
	meaning       *widget.Label
	example       *widget.Label
	translation   *widget.Label
	meta          *widget.Label
	mastered      *widget.Label

	parts map[playback.Part]*widget.Label
}

// NewCardView creates an empty card.
func NewCardView() *CardView {
	c := &CardView{}

	c.word = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	c.pronunciation = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	c.meaning = widget.NewLabel("")
	c.meaning.Alignment = fyne.TextAlignCenter
	c.meaning.Wrapping = fyne.TextWrapWord
	c.example = widget.NewLabel("")
	c.example.Wrapping = fyne.TextWrapWord
	c.translation = widget.NewLabel("")
	c.translation.Wrapping = fyne.TextWrapWord
	c.meta = widget.NewLabel("")
	c.meta.Alignment = fyne.TextAlignCenter
	c.meta.Importance = widget.LowImportance
	c.mastered = widget.NewLabel("")
	c.mastered.Alignment = fyne.TextAlignCenter
	c.mastered.Importance = widget.SuccessImportance

	c.parts = map[playback.Part]*widget.Label{
		playback.PartWord:               c.word,
		playback.PartPronunciation:      c.pronunciation,
		playback.PartMeaning:            c.meaning,
		playback.PartExamples:           c.example,
		playback.PartExampleTranslation: c.translation,
	}

	c.container = container.NewVBox(
		c.word,
		c.pronunciation,
		c.meaning,
		widget.NewSeparator(),
		c.example,
		c.translation,
		widget.NewSeparator(),
		c.meta,
		c.mastered,
	)

	c.ExtendBaseWidget(c)
	c.Clear()
	return c
}

// CreateRenderer implements fyne.Widget
func (c *CardView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.container)
}

// SetEntry shows e. category is the display name of its category.
func (c *CardView) SetEntry(e vocab.Entry, category string) {
	c.word.SetText(e.Word)
	c.pronunciation.SetText(e.Pronunciation)
	c.meaning.SetText(e.Meaning)

	if ex, ok := e.FirstExample(); ok {
		c.example.SetText(ex.Sentence)
		c.translation.SetText(ex.Translation)
	} else {
		c.example.SetText("")
		c.translation.SetText("")
	}

	var meta []string
	if category != "" {
		meta = append(meta, category)
	}
	if e.Topic != "" {
		meta = append(meta, e.Topic)
	}
	meta = append(meta, string(e.Difficulty))
	c.meta.SetText(strings.Join(meta, " · "))

	if e.Mastered {
		c.mastered.SetText("✓ mastered")
	} else {
		c.mastered.SetText("")
	}
}

// Clear shows an empty card
func (c *CardView) Clear() {
	for _, l := range []*widget.Label{c.pronunciation, c.meaning, c.example, c.translation, c.meta, c.mastered} {
		l.SetText("")
	}
	c.word.SetText("Nothing to play")
	c.Highlight("")
}

// Highlight marks the label of part as the one being read. An empty part
// clears the mark.
func (c *CardView) Highlight(part playback.Part) {
	for p, l := range c.parts {
		want := widget.MediumImportance
		if p == part {
			want = widget.HighImportance
		}
		if l.Importance != want {
			l.Importance = want
			l.Refresh()
		}
	}
}

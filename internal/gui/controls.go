package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/vocabdrill/internal/playback"
)

// Controls is a custom widget with the transport buttons of a drill.
type Controls struct {
	widget.BaseWidget

	container      *fyne.Container
	previousButton *ttwidget.Button
	playButton     *ttwidget.Button
	nextButton     *ttwidget.Button
	stopButton     *ttwidget.Button
	positionLabel  *widget.Label
}

// NewControls creates the controls. The callbacks run on the UI goroutine.
func NewControls(onPrevious, onToggle, onNext, onStop func()) *Controls {
	c := &Controls{}

	c.previousButton = ttwidget.NewButtonWithIcon("", theme.MediaSkipPreviousIcon(), onPrevious)
	c.playButton = ttwidget.NewButtonWithIcon("", theme.MediaPlayIcon(), onToggle)
	c.playButton.Importance = widget.HighImportance
	c.nextButton = ttwidget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), onNext)
	c.stopButton = ttwidget.NewButtonWithIcon("", theme.MediaStopIcon(), onStop)
	c.positionLabel = widget.NewLabel("")

	c.container = container.NewHBox(
		layout.NewSpacer(),
		c.previousButton,
		c.playButton,
		c.nextButton,
		c.stopButton,
		layout.NewSpacer(),
		c.positionLabel,
	)

	c.ExtendBaseWidget(c)
	c.SetStatus(playback.Status{})
	return c
}

// CreateRenderer implements fyne.Widget
func (c *Controls) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.container)
}

// setupTooltips sets the tooltips; the tooltip layer must exist first.
func (c *Controls) setupTooltips() {
	c.previousButton.SetToolTip("Previous word (←)")
	c.nextButton.SetToolTip("Next word (→)")
	c.stopButton.SetToolTip("Stop (s)")
	c.playButton.SetToolTip("Play or pause (space)")
}

// SetStatus updates the play button and position for st.
func (c *Controls) SetStatus(st playback.Status) {
	if st.State == playback.Playing {
		c.playButton.SetIcon(theme.MediaPauseIcon())
	} else {
		c.playButton.SetIcon(theme.MediaPlayIcon())
	}

	if st.State == playback.Idle {
		c.stopButton.Disable()
	} else {
		c.stopButton.Enable()
	}

	if st.Total == 0 {
		c.playButton.Disable()
		c.positionLabel.SetText("")
		return
	}
	c.playButton.Enable()
	c.positionLabel.SetText(fmt.Sprintf("%d/%d", st.Index+1, st.Total))
}

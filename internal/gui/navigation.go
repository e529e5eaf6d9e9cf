package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/vocabdrill/internal/playback"
)

// updateNavigation updates the navigation button states
func (a *Application) updateNavigation() {
	prev, next := a.controls.previousButton, a.controls.nextButton
	if a.status.State == playback.Idle || len(a.entries) == 0 {
		prev.Disable()
		next.Disable()
	} else {
		prev.Enable()
		next.Enable()
		// Disable at boundaries
		if a.status.Index <= 0 {
			prev.Disable()
		}
		if a.status.Index >= len(a.entries)-1 {
			next.Disable()
		}
	}

	if _, ok := a.current(); ok && a.config.Review != nil {
		a.masteredBtn.Enable()
	} else {
		a.masteredBtn.Disable()
	}
}

// onToggle pauses or resumes, or starts over once the run has ended.
func (a *Application) onToggle() {
	if a.controller.Status().State == playback.Idle {
		a.start()
		return
	}
	a.controller.Toggle()
	a.refresh()
}

func (a *Application) onPrevious() {
	a.controller.Previous()
	a.refresh()
}

func (a *Application) onNext() {
	a.controller.Next()
	a.refresh()
}

func (a *Application) onStop() {
	a.controller.Stop()
	a.refresh()
}

// onToggleMastered flips the mastered flag of the shown entry.
func (a *Application) onToggleMastered() {
	e, ok := a.current()
	if !ok || a.config.Review == nil {
		return
	}

	updated, err := a.config.Review(a.ctx, e.ID, !e.Mastered)
	if err != nil {
		a.showError(fmt.Errorf("review failed: %w", err))
		return
	}
	for i := range a.entries {
		if a.entries[i].ID == updated.ID {
			a.entries[i] = updated
		}
	}

	if updated.Mastered {
		a.setMessage(fmt.Sprintf("Marked %q as mastered", updated.Word))
	} else {
		a.setMessage(fmt.Sprintf("Marked %q as not mastered", updated.Word))
	}
	a.apply(a.status)
}

// onShowHotkeys shows the keyboard shortcuts.
func (a *Application) onShowHotkeys() {
	hotkeys := `## Playback
**Space** Play, pause or start over  
**←/p** Previous word  
**→/n** Next word  
**s** Stop  

## Review
**m** Toggle mastered  

## Help
**h** Show hotkeys  
**q/Esc** Quit`

	content := widget.NewRichTextFromMarkdown(hotkeys)
	content.Wrapping = fyne.TextWrapWord

	scroll := container.NewScroll(container.NewPadded(content))
	scroll.SetMinSize(fyne.NewSize(360, 320))

	d := dialog.NewCustom("Keyboard Shortcuts", "Close", scroll, a.window)
	d.Show()
}

func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		a.handleShortcutKey(ev.Name)
	})
}

// handleShortcutKey handles the actual shortcut action
func (a *Application) handleShortcutKey(key fyne.KeyName) {
	switch key {
	case fyne.KeySpace:
		if a.controls.playButton.Disabled() {
			return
		}
		a.onToggle()

	case fyne.KeyLeft, fyne.KeyP:
		if a.controls.previousButton.Disabled() {
			return
		}
		a.onPrevious()

	case fyne.KeyRight, fyne.KeyN:
		if a.controls.nextButton.Disabled() {
			return
		}
		a.onNext()

	case fyne.KeyS:
		if a.controls.stopButton.Disabled() {
			return
		}
		a.onStop()

	case fyne.KeyM:
		if a.masteredBtn.Disabled() {
			return
		}
		a.onToggleMastered()

	case fyne.KeyH:
		a.onShowHotkeys()

	case fyne.KeyQ, fyne.KeyEscape:
		a.window.Close()
	}
}

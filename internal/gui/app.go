package gui

import (
	"context"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/vocabdrill/internal"
	"codeberg.org/snonux/vocabdrill/internal/playback"
	"codeberg.org/snonux/vocabdrill/internal/processor"
	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

// Controller is the part of playback.Controller the window drives.
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

// Config holds what the window plays and how.
type Config struct {
	Entries  []vocab.Entry
	Playback playback.Config
	Names    *vocab.CategoryIndex // may be nil
	Review   ReviewFunc           // nil disables the mastered button
}

// Application represents the drill window
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	card         *CardView
	controls     *Controls
	masteredBtn  *ttwidget.Button
	helpButton   *ttwidget.Button
	statusLabel  *widget.Label
	messageLabel *widget.Label

	// State management
	ctx        context.Context
	controller Controller
	config     Config
	entries    []vocab.Entry
	status     playback.Status
	err        error

	feed     *playback.Feed
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// Run plays entries in a desktop window until it is closed or ctx is
// cancelled.
func Run(ctx context.Context, p *processor.Processor, entries []vocab.Entry, cfg playback.Config) error {
	names, err := p.CategoryNames(ctx)
	if err != nil {
		return err
	}

	feed := playback.NewFeed(16)
	controller := p.NewController(feed.Push)

	fyneApp := app.NewWithID("org.codeberg.snonux.vocabdrill")
	fyneApp.SetIcon(GetAppIcon())

	a := New(ctx, fyneApp, controller, Config{
		Entries:  entries,
		Playback: cfg,
		Names:    names,
		Review:   p.Review,
	})
	a.Watch(feed)

	closed := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			fyne.Do(a.window.Close)
		case <-closed:
		}
	}()

	a.Run()
	close(closed)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return a.Err()
}

// New creates the drill window on fyneApp without showing it.
func New(ctx context.Context, fyneApp fyne.App, controller Controller, config Config) *Application {
	a := &Application{
		app:        fyneApp,
		ctx:        ctx,
		controller: controller,
		config:     config,
		entries:    append([]vocab.Entry(nil), config.Entries...),
		status:     playback.Status{Total: len(config.Entries)},
	}
	a.setupUI()
	a.apply(a.status)
	a.updateStatus("Ready")
	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("vocabdrill v%s - Listening Drill", internal.Version))
	a.window.SetIcon(GetAppIcon())
	a.window.Resize(fyne.NewSize(640, 480))

	a.card = NewCardView()
	a.controls = NewControls(a.onPrevious, a.onToggle, a.onNext, a.onStop)

	a.masteredBtn = ttwidget.NewButtonWithIcon("", theme.ConfirmIcon(), a.onToggleMastered)
	if a.config.Review == nil {
		a.masteredBtn.Disable()
	}
	a.helpButton = ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowHotkeys)

	toolbar := container.NewHBox(
		a.controls,
		widget.NewSeparator(),
		a.masteredBtn,
		a.helpButton,
	)

	a.statusLabel = widget.NewLabel("Ready")
	a.messageLabel = widget.NewLabel("")
	a.messageLabel.TextStyle = fyne.TextStyle{Italic: true}

	statusSection := container.NewVBox(
		widget.NewSeparator(),
		a.statusLabel,
		a.messageLabel,
	)

	content := container.NewBorder(
		toolbar,
		statusSection,
		nil, nil,
		container.NewPadded(container.NewScroll(a.card)),
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()

	a.window.SetOnClosed(a.shutdown)
	a.setupKeyboardShortcuts()
}

// setupTooltips sets up all tooltips after the tooltip layer has been created
func (a *Application) setupTooltips() {
	a.controls.setupTooltips()
	a.masteredBtn.SetToolTip("Toggle mastered (m)")
	a.helpButton.SetToolTip("Show hotkeys (h)")
}

// Run starts playback and shows the window until it is closed.
func (a *Application) Run() {
	a.start()
	a.window.ShowAndRun()
}

// Watch applies the controller updates arriving on feed until the window
// is closed.
func (a *Application) Watch(feed *playback.Feed) {
	a.feed = feed
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for {
			select {
			case st := <-feed.Updates():
				fyne.Do(func() { a.apply(st) })
			case <-feed.Done():
				return
			}
		}
	}()
}

// Err returns the error that ended the session, if any.
func (a *Application) Err() error {
	return a.err
}

func (a *Application) shutdown() {
	a.stopOnce.Do(func() {
		a.controller.Stop()
		if a.feed != nil {
			a.feed.Close()
		}
		a.wg.Wait()
	})
}

// start begins a run over all entries from the first one.
func (a *Application) start() {
	if len(a.entries) == 0 {
		a.updateStatus("No entries to play")
		return
	}
	if err := a.controller.Start(a.entries, a.config.Playback); err != nil {
		a.err = err
		a.showError(err)
		return
	}
	a.setMessage("")
	a.refresh()
}

// refresh shows the controller's current status.
func (a *Application) refresh() {
	a.apply(a.controller.Status())
}

// apply shows st. It must run on the UI goroutine.
func (a *Application) apply(st playback.Status) {
	a.status = st

	if e, ok := a.current(); ok {
		a.card.SetEntry(e, a.categoryName(e))
	} else {
		a.card.Clear()
	}
	if st.State == playback.Playing {
		a.card.Highlight(st.Part)
	} else {
		a.card.Highlight("")
	}

	a.controls.SetStatus(st)
	a.updateNavigation()
	a.updateStatus(statusText(st))
}

// current returns the entry at the status index.
func (a *Application) current() (vocab.Entry, bool) {
	if a.status.Index < 0 || a.status.Index >= len(a.entries) {
		return vocab.Entry{}, false
	}
	return a.entries[a.status.Index], true
}

func (a *Application) categoryName(e vocab.Entry) string {
	if a.config.Names == nil || e.CategoryID == "" {
		return ""
	}
	return a.config.Names.Name(e.CategoryID)
}

func statusText(st playback.Status) string {
	switch {
	case st.State == playback.Playing && st.Part != "":
		return fmt.Sprintf("Playing %s", st.Part)
	case st.State == playback.Paused:
		return "Paused"
	case st.Completed:
		return "Finished. Press space to start over."
	case st.State == playback.Idle:
		return "Stopped"
	default:
		return st.State.String()
	}
}

// Helper methods
func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) setMessage(message string) {
	a.messageLabel.SetText(message)
}

func (a *Application) showError(err error) {
	dialog.ShowError(err, a.window)
	a.updateStatus("Error: " + err.Error())
}

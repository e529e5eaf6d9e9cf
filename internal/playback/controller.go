package playback

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"codeberg.org/snonux/vocabdrill/internal/vocab"
)

// State is the controller's playback state.
type State int

const (
	Idle State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Status is a snapshot of the controller's position.
type Status struct {
	State     State
	Index     int
	Total     int
	Part      Part
	Text      string
	Completed bool // the last run reached the end of the list
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used for pauses.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithListener registers a callback invoked after every state change. It is
// called without the controller lock held, possibly from a timer goroutine.
func WithListener(fn func(Status)) Option {
	return func(c *Controller) { c.listener = fn }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// Controller sequences speech over a list of entries.
//
// All fields are guarded by mu. Each accepted callback (utterance end or
// timer) bumps step, and every transition bumps it too, so a callback
// carrying an older step is stale and dropped.
type Controller struct {
	mu       sync.Mutex
	speaker  Speaker
	clock    clockwork.Clock
	logger   *slog.Logger
	listener func(Status)

	state     State
	entries   []vocab.Entry
	cfg       Config
	index     int
	segs      []segment
	seg       int
	step      uint64
	speaking  bool
	timer     clockwork.Timer
	completed bool
	done      chan struct{}
}

// NewController creates an idle controller. A nil speaker behaves as an
// unavailable one.
func NewController(speaker Speaker, opts ...Option) *Controller {
	c := &Controller{
		speaker: speaker,
		clock:   clockwork.NewRealClock(),
		logger:  slog.Default(),
		done:    make(chan struct{}),
	}
	close(c.done)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a new run over entries from index 0, replacing any run in
// progress. An empty list completes immediately without speaking.
func (c *Controller) Start(entries []vocab.Entry, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	c.halt()
	c.closeDone()

	c.entries = append([]vocab.Entry(nil), entries...)
	c.cfg = cfg
	c.index = 0
	c.segs = nil
	c.seg = 0
	c.completed = false
	c.done = make(chan struct{})

	if len(c.entries) == 0 {
		c.logger.Debug("playback started with empty list")
		c.finish()
	} else {
		c.logger.Debug("playback started", "entries", len(c.entries))
		c.state = Playing
		c.beginEntry()
	}
	st := c.status()
	c.mu.Unlock()

	c.notify(st)
	return nil
}

// Pause cancels the current utterance and pending pause. No-op unless
// playing.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.state != Playing {
		c.mu.Unlock()
		return
	}
	c.halt()
	c.state = Paused
	st := c.status()
	c.mu.Unlock()

	c.notify(st)
}

// Resume restarts the current entry from its first enabled part. No-op
// unless paused.
func (c *Controller) Resume() {
	c.mu.Lock()
	if c.state != Paused {
		c.mu.Unlock()
		return
	}
	c.state = Playing
	c.beginEntry()
	st := c.status()
	c.mu.Unlock()

	c.notify(st)
}

// Toggle switches between playing and paused.
func (c *Controller) Toggle() {
	switch c.Status().State {
	case Playing:
		c.Pause()
	case Paused:
		c.Resume()
	}
}

// Next moves to the following entry. At the last entry it does nothing.
// While paused only the position changes.
func (c *Controller) Next() {
	c.jump(1)
}

// Previous moves to the closest preceding entry with enabled content. When
// there is none it does nothing.
func (c *Controller) Previous() {
	c.jump(-1)
}

func (c *Controller) jump(delta int) {
	c.mu.Lock()
	target := c.index + delta
	if delta < 0 {
		// Stepping back lands on the nearest earlier entry with something
		// to say, as beginEntry only skips forward.
		for target >= 0 && len(segments(c.entries[target], c.cfg)) == 0 {
			target--
		}
	}
	if c.state == Idle || target < 0 || target >= len(c.entries) {
		c.mu.Unlock()
		return
	}
	c.halt()
	c.index = target
	c.segs = nil
	c.seg = 0
	if c.state == Playing {
		c.beginEntry()
	}
	st := c.status()
	c.mu.Unlock()

	c.notify(st)
}

// Stop ends the run without marking it completed.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state == Idle {
		c.mu.Unlock()
		return
	}
	c.halt()
	c.state = Idle
	c.closeDone()
	st := c.status()
	c.mu.Unlock()

	c.notify(st)
}

// Status returns the current position.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status()
}

// Entries returns the list of the current run.
func (c *Controller) Entries() []vocab.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]vocab.Entry(nil), c.entries...)
}

// Done is closed when the current run completes or is stopped.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// beginEntry speaks the current entry from its first part. Entries with
// nothing to say are skipped without a pause.
func (c *Controller) beginEntry() {
	c.segs = segments(c.entries[c.index], c.cfg)
	c.seg = 0
	if len(c.segs) == 0 {
		if c.index+1 >= len(c.entries) {
			c.finish()
			return
		}
		c.index++
		c.beginEntry()
		return
	}
	c.speakCurrent()
}

func (c *Controller) speakCurrent() {
	c.step++
	token := c.step
	s := c.segs[c.seg]

	if c.speaker != nil {
		c.speaker.Cancel()
		c.speaking = false
		if c.speaker.Available() {
			lang := DetectLanguage(s.text, c.cfg.TargetLanguage, c.cfg.NativeLanguage)
			err := c.speaker.Speak(s.text, lang, c.cfg.rate(), func(err error) {
				go c.spoken(token, err)
			})
			if err == nil {
				c.speaking = true
				return
			}
			c.logger.Warn("speech failed, using timer", "part", s.part, "error", err)
		}
	}

	// Silent fallback: the part lasts one part pause.
	c.wait(c.cfg.PauseBetweenParts, c.afterSegment)
}

func (c *Controller) spoken(token uint64, err error) {
	c.mu.Lock()
	if token != c.step || c.state != Playing {
		c.mu.Unlock()
		return
	}
	c.step++
	c.speaking = false
	if err != nil {
		c.logger.Debug("utterance ended with error", "error", err)
	}
	c.afterSegment()
	st := c.status()
	c.mu.Unlock()

	c.notify(st)
}

// afterSegment schedules whatever follows the segment that just ended.
func (c *Controller) afterSegment() {
	switch {
	case c.seg+1 < len(c.segs):
		c.wait(c.cfg.PauseBetweenParts, func() {
			c.seg++
			c.speakCurrent()
		})
	case c.index+1 < len(c.entries):
		c.wait(c.cfg.PauseBetweenWords, func() {
			c.index++
			c.beginEntry()
		})
	default:
		c.finish()
	}
}

// wait runs fn under the lock after d, unless a transition happened first.
func (c *Controller) wait(d time.Duration, fn func()) {
	token := c.step
	c.timer = c.clock.AfterFunc(d, func() {
		c.mu.Lock()
		if token != c.step || c.state != Playing {
			c.mu.Unlock()
			return
		}
		c.step++
		c.timer = nil
		fn()
		st := c.status()
		c.mu.Unlock()

		c.notify(st)
	})
}

// halt invalidates outstanding callbacks and silences the speaker.
func (c *Controller) halt() {
	c.step++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.speaking {
		c.speaker.Cancel()
		c.speaking = false
	}
}

func (c *Controller) finish() {
	c.halt()
	c.state = Idle
	c.completed = true
	c.closeDone()
	c.logger.Debug("playback completed", "entries", len(c.entries))
}

func (c *Controller) closeDone() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

func (c *Controller) status() Status {
	st := Status{
		State:     c.state,
		Index:     c.index,
		Total:     len(c.entries),
		Completed: c.completed,
	}
	if c.state != Idle && c.seg < len(c.segs) {
		st.Part = c.segs[c.seg].part
		st.Text = c.segs[c.seg].text
	}
	return st
}

func (c *Controller) notify(st Status) {
	if c.listener != nil {
		c.listener(st)
	}
}

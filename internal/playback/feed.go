package playback

import "sync"

// Feed hands status updates from a controller to a consumer on another
// goroutine. Push never blocks, so it can serve as a controller listener
// even when transitions are triggered from the consumer's own goroutine.
type Feed struct {
	updates chan Status
	done    chan struct{}
	once    sync.Once
}

// NewFeed creates a feed holding up to size pending updates.
func NewFeed(size int) *Feed {
	if size < 1 {
		size = 1
	}
	return &Feed{
		updates: make(chan Status, size),
		done:    make(chan struct{}),
	}
}

// Push queues st. When the queue is full the oldest update is dropped, as
// every status is a complete snapshot. After Close it does nothing.
func (f *Feed) Push(st Status) {
	for {
		select {
		case <-f.done:
			return
		default:
		}
		select {
		case f.updates <- st:
			return
		default:
		}
		select {
		case <-f.updates:
		default:
		}
	}
}

// Updates delivers queued statuses in order.
func (f *Feed) Updates() <-chan Status {
	return f.updates
}

// Done is closed by Close.
func (f *Feed) Done() <-chan struct{} {
	return f.done
}

// Close stops the feed. It is safe to call more than once.
func (f *Feed) Close() {
	f.once.Do(func() { close(f.done) })
}

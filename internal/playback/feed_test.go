package playback

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestFeedDropsOldestWhenFull(t *testing.T) {
	feed := NewFeed(4)
	for i := 0; i < 10; i++ {
		feed.Push(Status{Index: i})
	}

	var got []int
	for len(feed.Updates()) > 0 {
		got = append(got, (<-feed.Updates()).Index)
	}
	want := []int{6, 7, 8, 9}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFeedIgnoresPushAfterClose(t *testing.T) {
	feed := NewFeed(4)
	feed.Close()
	feed.Close()
	feed.Push(Status{Index: 1})

	if n := len(feed.Updates()); n != 0 {
		t.Errorf("closed feed queued %d updates", n)
	}
	select {
	case <-feed.Done():
	default:
		t.Error("Done not closed")
	}
}

func TestFeedAsListenerDoesNotBlock(t *testing.T) {
	feed := NewFeed(1)
	c := NewController(newFakeSpeaker(), WithClock(clockwork.NewFakeClock()), WithListener(feed.Push))

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		if err := c.Start(twoEntries(), wordOnly()); err != nil {
			t.Errorf("Start() error = %v", err)
		}
		for i := 0; i < 5; i++ {
			c.Toggle()
			c.Next()
			c.Previous()
		}
		c.Stop()
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("controller blocked on an undrained feed")
	}

	last := <-feed.Updates()
	if last.State != Idle || last.Total != len(twoEntries()) {
		t.Errorf("last update = %+v, want idle over %d entries", last, len(twoEntries()))
	}
}

package testutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FakeSpeaker is an in-memory speech backend. Every utterance ends
// successfully right away on its own goroutine unless Err is set.
type FakeSpeaker struct {
	mu      sync.Mutex
	Unavail bool
	Err     error // returned by Speak
	Spoken  []string
	Langs   []string
	Cancels int
}

// Speak records text and reports completion asynchronously.
func (f *FakeSpeaker) Speak(text, lang string, rate float64, done func(error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Spoken = append(f.Spoken, text)
	f.Langs = append(f.Langs, lang)
	go done(nil)
	return nil
}

// Cancel counts cancellations.
func (f *FakeSpeaker) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Cancels++
}

// Available reports the inverse of Unavail.
func (f *FakeSpeaker) Available() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.Unavail
}

// Texts returns a copy of what was spoken so far.
func (f *FakeSpeaker) Texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Spoken...)
}

// FakeSynthesizer writes a small file per text into Dir.
type FakeSynthesizer struct {
	Dir   string
	Fail  map[string]bool
	Calls []string
}

// Synthesize creates Dir/<text>.mp3.
func (f *FakeSynthesizer) Synthesize(ctx context.Context, text, lang string) (string, error) {
	f.Calls = append(f.Calls, text)
	if f.Fail[text] {
		return "", errors.New("synthesis failed")
	}
	path := filepath.Join(f.Dir, fmt.Sprintf("%s_%s.mp3", text, lang))
	if err := os.WriteFile(path, []byte{0xFF, 0xFB, 0x90, 0x00}, 0644); err != nil {
		return "", err
	}
	return path, nil
}

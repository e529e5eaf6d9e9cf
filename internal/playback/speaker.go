package playback

// Speaker is the speech capability the controller drives.
//
// Speak starts an utterance and returns immediately; done is invoked once
// when the utterance ends, with a non-nil error if it failed or was
// cancelled. A non-nil return from Speak means nothing was started and done
// will not be called. Cancel stops the current utterance, if any.
type Speaker interface {
	Speak(text, lang string, rate float64, done func(error)) error
	Cancel()
	Available() bool
}

// Package playback drives spoken vocabulary drills. A Controller walks an
// ordered entry list, speaking the configured parts of each entry through a
// Speaker with pauses between parts and between entries. Only one utterance
// is ever in flight; every transition cancels the current one and any
// pending timer. When speech is unavailable the controller keeps advancing
// on timers alone.
package playback

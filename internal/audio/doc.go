// Package audio turns text into speech for the drill.
//
// A Provider synthesizes one utterance into a file: espeak-ng runs
// locally, OpenAI and Gemini are remote and sit behind a circuit breaker.
// Speaker combines a Provider, the on-disk Cache and a Player into the
// asynchronous, cancellable speech capability the playback controller
// drives.
package audio

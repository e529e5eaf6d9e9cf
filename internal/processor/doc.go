// Package processor contains the application core of vocabdrill. It
// connects the vocabulary store with the filter engine, the playback
// controller and the speech backends, and implements the import, export
// and review flows used by the command line and the interactive drill.
package processor

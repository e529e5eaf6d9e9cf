// Package vocab defines the vocabulary data model: entries with their
// examples, categories (optionally arranged in a tree) and flat topics.
// It also holds the sentinel errors shared by the filter, store and
// playback packages.
package vocab

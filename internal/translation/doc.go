// Package translation translates short texts between two languages using
// the OpenAI API, with an in-memory cache for batch operations.
package translation

// Package batch reads vocabulary entries from files for bulk import.
//
// Plain text files hold one entry per line:
//
//	word [pronunciation] = meaning | example sentence | example translation
//
// Lines starting with # are comments. Directive lines starting with @ set
// the category, topic or difficulty of the lines that follow:
//
//	@category Food
//	@topic Nouns
//	@difficulty easy
//
// Spreadsheets (.xlsx) and CSV files use one row per entry with a
// configurable column layout.
package batch

// Package store keeps the vocabulary collection in a local SQLite database.
//
// The schema is created and upgraded by embedded goose migrations when the
// database is opened. Entries refer to categories by id; examples are kept
// in their own table in display order. Filtering and sorting happen in
// memory through the filter package, the store only loads and saves.
package store

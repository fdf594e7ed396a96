// Package storage provides persistence for documents and their chunks
// using SQLite.
//
// Two drivers are supported via build tags: the default pure Go driver
// (modernc.org/sqlite) needs no C toolchain, while the cgo_sqlite tag
// selects mattn/go-sqlite3 for better performance where cgo is available.
//
// Chunk content is indexed with FTS5 for full-text search, with a LIKE
// fallback when the index cannot be used. Schema changes are applied
// through versioned migrations at open time.
package storage

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db, path: dbPath}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Document operations

func (s *SQLiteStorage) CreateDocument(ctx context.Context, doc *Document) error {
	query := `
		INSERT INTO documents (id, source, content_hash, language, mode, token_counter, total_chunks, size_bytes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	_, err := s.db.ExecContext(ctx, query,
		doc.ID, doc.Source, doc.ContentHash[:], doc.Language, doc.Mode,
		doc.TokenCounter, doc.TotalChunks, doc.SizeBytes, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("document source %q: %w", doc.Source, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create document: %w", err)
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) GetDocument(ctx context.Context, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, content_hash, language, mode, token_counter, total_chunks, size_bytes, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)
	return scanDocument(row)
}

func (s *SQLiteStorage) GetDocumentBySource(ctx context.Context, source string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, content_hash, language, mode, token_counter, total_chunks, size_bytes, created_at, updated_at
		FROM documents WHERE source = ?
	`, source)
	return scanDocument(row)
}

func (s *SQLiteStorage) ListDocuments(ctx context.Context) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, content_hash, language, mode, token_counter, total_chunks, size_bytes, created_at, updated_at
		FROM documents ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStorage) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row scanner) (*Document, error) {
	var doc Document
	var hash []byte
	err := row.Scan(&doc.ID, &doc.Source, &hash, &doc.Language, &doc.Mode,
		&doc.TokenCounter, &doc.TotalChunks, &doc.SizeBytes, &doc.CreatedAt, &doc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}
	copy(doc.ContentHash[:], hash)
	return &doc, nil
}

// Chunk operations

// InsertChunks stores all chunks of a document in one transaction, so a
// failed insert never leaves a partially stored document behind.
func (s *SQLiteStorage) InsertChunks(ctx context.Context, chunks []*ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (document_id, chunk_num, content, content_hash, start_offset, end_offset, token_count, sentence_count, overlap_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now()
	for _, c := range chunks {
		result, err := stmt.ExecContext(ctx,
			c.DocumentID, c.ChunkNum, c.Content, c.ContentHash[:],
			c.StartOffset, c.EndOffset, c.TokenCount, c.SentenceCount, c.OverlapCount, now)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", c.ChunkNum, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		c.ID = id
		c.CreatedAt = now
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunk insert: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) ListChunks(ctx context.Context, documentID string, offset, limit int) ([]*ChunkRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, chunk_num, content, content_hash, start_offset, end_offset, token_count, sentence_count, overlap_count, created_at
		FROM chunks WHERE document_id = ?
		ORDER BY chunk_num LIMIT ? OFFSET ?
	`, documentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanChunks(rows)
}

func (s *SQLiteStorage) CountChunks(ctx context.Context, documentID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE document_id = ?", documentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}

func (s *SQLiteStorage) DeleteChunksByDocument(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

// Search operations

// SearchChunks runs a full-text query over stored chunk content, falling
// back to a LIKE scan when the FTS index is unavailable (older stores).
func (s *SQLiteStorage) SearchChunks(ctx context.Context, query string, limit int) ([]*ChunkRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.document_id, c.chunk_num, c.content, c.content_hash, c.start_offset, c.end_offset, c.token_count, c.sentence_count, c.overlap_count, c.created_at
		FROM chunks_fts f
		JOIN chunks c ON c.id = f.rowid
		WHERE chunks_fts MATCH ?
		ORDER BY rank LIMIT ?
	`, ftsQuery(query), limit)
	if err != nil {
		return s.searchChunksLike(ctx, query, limit)
	}
	defer func() { _ = rows.Close() }()

	return scanChunks(rows)
}

// searchChunksLike is the degraded search path without FTS5.
func (s *SQLiteStorage) searchChunksLike(ctx context.Context, query string, limit int) ([]*ChunkRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, chunk_num, content, content_hash, start_offset, end_offset, token_count, sentence_count, overlap_count, created_at
		FROM chunks WHERE content LIKE ?
		ORDER BY document_id, chunk_num LIMIT ?
	`, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanChunks(rows)
}

// ftsQuery quotes each term so user punctuation cannot break FTS syntax.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, ``) + `"`
	}
	return strings.Join(terms, " ")
}

func scanChunks(rows *sql.Rows) ([]*ChunkRecord, error) {
	var chunks []*ChunkRecord
	for rows.Next() {
		var c ChunkRecord
		var hash []byte
		err := rows.Scan(&c.ID, &c.DocumentID, &c.ChunkNum, &c.Content, &hash,
			&c.StartOffset, &c.EndOffset, &c.TokenCount, &c.SentenceCount, &c.OverlapCount, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		copy(c.ContentHash[:], hash)
		chunks = append(chunks, &c)
	}
	return chunks, rows.Err()
}

// Status operations

func (s *SQLiteStorage) GetStatus(ctx context.Context) (*Status, error) {
	status := &Status{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&status.DocumentsCount); err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&status.ChunksCount); err != nil {
		return nil, fmt.Errorf("failed to count chunks: %w", err)
	}

	status.Health.DatabaseAccessible = s.db.PingContext(ctx) == nil

	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='chunks_fts'").Scan(&name)
	status.Health.FTSIndexBuilt = err == nil

	if info, err := os.Stat(s.path); err == nil {
		status.StoreSizeMB = float64(info.Size()) / (1024 * 1024)
	}

	return status, nil
}

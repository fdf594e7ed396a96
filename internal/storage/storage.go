package storage

import (
	"context"
	"time"
)

// Storage persists chunked documents so agents can fetch or search chunks
// without re-running the pipeline.
type Storage interface {
	// Document operations
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, id string) (*Document, error)
	GetDocumentBySource(ctx context.Context, source string) (*Document, error)
	ListDocuments(ctx context.Context) ([]*Document, error)
	DeleteDocument(ctx context.Context, id string) error

	// Chunk operations
	InsertChunks(ctx context.Context, chunks []*ChunkRecord) error
	ListChunks(ctx context.Context, documentID string, offset, limit int) ([]*ChunkRecord, error)
	CountChunks(ctx context.Context, documentID string) (int, error)
	DeleteChunksByDocument(ctx context.Context, documentID string) error

	// Search operations
	SearchChunks(ctx context.Context, query string, limit int) ([]*ChunkRecord, error)

	// Status operations
	GetStatus(ctx context.Context) (*Status, error)

	// Database operations
	Close() error
}

// Document is one chunked input text.
type Document struct {
	ID            string // UUID
	Source        string // Caller-supplied name, unique per store
	ContentHash   [32]byte
	Language      string
	Mode          string // Grouping mode the chunks were produced under
	TokenCounter  string // Provider name, "" when chunked without a counter
	TotalChunks   int
	SizeBytes     int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ChunkRecord is one stored chunk of a document.
type ChunkRecord struct {
	ID            int64
	DocumentID    string
	ChunkNum      int // 1-based position within the document
	Content       string
	ContentHash   [32]byte
	StartOffset   int
	EndOffset     int
	TokenCount    int
	SentenceCount int
	OverlapCount  int
	CreatedAt     time.Time
}

// Status summarizes store contents and health.
type Status struct {
	DocumentsCount int
	ChunksCount    int
	StoreSizeMB    float64
	Health         Health
}

// Health reports store capability checks.
type Health struct {
	DatabaseAccessible bool
	FTSIndexBuilt      bool
}

package mcp

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/speedyk-005/chunklet-go/internal/storage"
	"github.com/speedyk-005/chunklet-go/pkg/chunklet"
	"github.com/speedyk-005/chunklet-go/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error
	ErrorCodeDocumentNotFound = -32001 // Document not indexed
	ErrorCodeAlreadyIndexed   = -32002 // Document already indexed and force_reindex not set
	ErrorCodeOversizedClause  = -32003 // Strict constraint hit an irreducible clause
	ErrorCodeEmptyQuery       = -32004 // Query parameter is empty
)

// handleChunkText handles the chunk_text tool invocation
func (s *Server) handleChunkText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	text, ok := args["text"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]interface{}{
			"param":  "text",
			"reason": "missing",
		})
	}

	cons := constraintsFromArgs(args)

	result, err := s.chunker.Chunk(ctx, text, cons)
	if err != nil {
		return nil, chunkingError(err)
	}

	response := map[string]interface{}{
		"chunks":      formatChunks(result.Chunks),
		"chunk_count": len(result.Chunks),
	}
	if len(result.Warnings) > 0 {
		response["warnings"] = result.Warnings
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleIndexDocument handles the index_document tool invocation
func (s *Server) handleIndexDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	source, ok := args["source"].(string)
	if !ok || source == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "source parameter is required", map[string]interface{}{
			"param":  "source",
			"reason": "missing or empty",
		})
	}
	text, ok := args["text"].(string)
	if !ok || text == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]interface{}{
			"param":  "text",
			"reason": "missing or empty",
		})
	}
	forceReindex := getBoolDefault(args, "force_reindex", false)

	cons := constraintsFromArgs(args)

	// Reject duplicates before doing any chunking work.
	existing, err := s.storage.GetDocumentBySource(ctx, source)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeInternalError, "failed to check for existing document", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if existing != nil {
		if !forceReindex {
			return nil, newMCPError(ErrorCodeAlreadyIndexed, "document already indexed", map[string]interface{}{
				"source":      source,
				"document_id": existing.ID,
			})
		}
		if err := s.storage.DeleteDocument(ctx, existing.ID); err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to replace existing document", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	result, err := s.chunker.Chunk(ctx, text, cons)
	if err != nil {
		return nil, chunkingError(err)
	}

	counterName := ""
	if c := s.chunker.Counter(); c != nil {
		counterName = c.Name()
	}

	doc := &storage.Document{
		ID:           uuid.New().String(),
		Source:       source,
		ContentHash:  sha256.Sum256([]byte(text)),
		Language:     cons.Language,
		Mode:         string(cons.Mode),
		TokenCounter: counterName,
		TotalChunks:  len(result.Chunks),
		SizeBytes:    int64(len(text)),
	}
	if err := s.storage.CreateDocument(ctx, doc); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to store document", map[string]interface{}{
			"error": err.Error(),
		})
	}

	records := make([]*storage.ChunkRecord, len(result.Chunks))
	for i, c := range result.Chunks {
		records[i] = &storage.ChunkRecord{
			DocumentID:    doc.ID,
			ChunkNum:      c.Metadata.ChunkNum,
			Content:       c.Content,
			ContentHash:   c.ContentHash(),
			StartOffset:   c.Metadata.Start,
			EndOffset:     c.Metadata.End,
			TokenCount:    c.Metadata.TokenCount,
			SentenceCount: c.Metadata.SentenceCount,
			OverlapCount:  c.Metadata.OverlapCount,
		}
	}
	if err := s.storage.InsertChunks(ctx, records); err != nil {
		// Keep the store consistent: no document row without its chunks.
		_ = s.storage.DeleteDocument(ctx, doc.ID)
		return nil, newMCPError(ErrorCodeInternalError, "failed to store chunks", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed":     true,
		"document_id": doc.ID,
		"source":      source,
		"chunk_count": len(result.Chunks),
		"reindexed":   existing != nil,
	}
	if len(result.Warnings) > 0 {
		response["warnings"] = result.Warnings
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetChunks handles the get_chunks tool invocation
func (s *Server) handleGetChunks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	source, ok := args["source"].(string)
	if !ok || source == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "source parameter is required", map[string]interface{}{
			"param":  "source",
			"reason": "missing or empty",
		})
	}
	offset := getIntDefault(args, "offset", 0)
	limit := getIntDefault(args, "limit", 0)
	if offset < 0 || limit < 0 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "offset must be >= 0 and limit between 0 and 100", map[string]interface{}{
			"offset": offset,
			"limit":  limit,
		})
	}

	doc, err := s.storage.GetDocumentBySource(ctx, source)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeDocumentNotFound, "document not indexed", map[string]interface{}{
			"source": source,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load document", map[string]interface{}{
			"error": err.Error(),
		})
	}

	chunks, err := s.storage.ListChunks(ctx, doc.ID, offset, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load chunks", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"source":       source,
		"document_id":  doc.ID,
		"total_chunks": doc.TotalChunks,
		"chunks":       formatChunkRecords(chunks),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchChunks handles the search_chunks tool invocation
func (s *Server) handleSearchChunks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}
	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	results, err := s.storage.SearchChunks(ctx, query, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"query":        query,
		"result_count": len(results),
		"results":      formatChunkRecords(results),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.storage.GetStatus(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	counterName := ""
	if c := s.chunker.Counter(); c != nil {
		counterName = c.Name()
	}

	response := map[string]interface{}{
		"statistics": map[string]interface{}{
			"documents_count": status.DocumentsCount,
			"chunks_count":    status.ChunksCount,
			"store_size_mb":   fmt.Sprintf("%.2f", status.StoreSizeMB),
		},
		"health": map[string]interface{}{
			"database_accessible": status.Health.DatabaseAccessible,
			"fts_index_built":     status.Health.FTSIndexBuilt,
		},
		"token_counter": counterName,
		"storage_build": storage.BuildMode,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// constraintsFromArgs builds the chunking constraint set from tool
// arguments, applying schema defaults. Validation happens inside Chunk.
func constraintsFromArgs(args map[string]interface{}) chunklet.Constraints {
	return chunklet.Constraints{
		Mode:         chunklet.Mode(getStringDefault(args, "mode", string(chunklet.ModeHybrid))),
		Language:     getStringDefault(args, "language", "auto"),
		MaxSentences: getIntDefault(args, "max_sentences", 4),
		MaxTokens:    getIntDefault(args, "max_tokens", 512),
		OverlapPct:   getIntDefault(args, "overlap_percent", 20),
		Offset:       getIntDefault(args, "offset", 0),
		Strict:       getBoolDefault(args, "strict", false),
	}
}

// chunkingError maps pipeline errors onto MCP error codes.
func chunkingError(err error) error {
	var oversized *types.OversizedClauseError
	switch {
	case errors.Is(err, types.ErrInvalidConstraint),
		errors.Is(err, types.ErrInvalidMode),
		errors.Is(err, types.ErrMissingTokenCounter):
		return newMCPError(ErrorCodeInvalidParams, "invalid chunking constraints", map[string]interface{}{
			"error": err.Error(),
		})
	case errors.As(err, &oversized):
		return newMCPError(ErrorCodeOversizedClause, "clause exceeds token limit under strict constraints", map[string]interface{}{
			"token_count": oversized.TokenCount,
			"max_tokens":  oversized.MaxTokens,
		})
	default:
		return newMCPError(ErrorCodeInternalError, "chunking failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// formatChunks renders pipeline chunks for tool responses.
func formatChunks(chunks []types.Chunk) []map[string]interface{} {
	out := make([]map[string]interface{}, len(chunks))
	for i, c := range chunks {
		out[i] = map[string]interface{}{
			"chunk_num":      c.Metadata.ChunkNum,
			"content":        c.Content,
			"start":          c.Metadata.Start,
			"end":            c.Metadata.End,
			"token_count":    c.Metadata.TokenCount,
			"sentence_count": c.Metadata.SentenceCount,
			"overlap_count":  c.Metadata.OverlapCount,
			"oversized":      c.Metadata.Oversized,
		}
	}
	return out
}

// formatChunkRecords renders stored chunks for tool responses.
func formatChunkRecords(chunks []*storage.ChunkRecord) []map[string]interface{} {
	out := make([]map[string]interface{}, len(chunks))
	for i, c := range chunks {
		out[i] = map[string]interface{}{
			"chunk_num":      c.ChunkNum,
			"document_id":    c.DocumentID,
			"content":        c.Content,
			"start":          c.StartOffset,
			"end":            c.EndOffset,
			"token_count":    c.TokenCount,
			"sentence_count": c.SentenceCount,
			"overlap_count":  c.OverlapCount,
		}
	}
	return out
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

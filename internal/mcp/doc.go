// Package mcp implements the Model Context Protocol (MCP) server for chunklet.
//
// The MCP server exposes five tools to AI coding assistants:
//   - chunk_text: Split text into bounded chunks with overlap
//   - index_document: Chunk a document and persist its chunks
//   - get_chunks: Fetch stored chunks for a document, paged
//   - search_chunks: Full-text search over stored chunk content
//   - get_status: Chunk store statistics and health
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output,
// making it simple to integrate with any MCP-compatible client.
//
// # Tool: chunk_text
//
// Chunk text in one shot without persisting anything:
//
//	Request:
//	{
//	  "name": "chunk_text",
//	  "arguments": {
//	    "text": "First sentence. Second sentence. Third sentence.",
//	    "mode": "hybrid",
//	    "max_sentences": 2,
//	    "max_tokens": 128,
//	    "overlap_percent": 20
//	  }
//	}
//
//	Response:
//	{
//	  "chunk_count": 2,
//	  "chunks": [
//	    {
//	      "chunk_num": 1,
//	      "content": "First sentence. Second sentence.",
//	      "start": 0,
//	      "end": 32,
//	      "token_count": 6,
//	      "sentence_count": 2,
//	      "overlap_count": 0,
//	      "oversized": false
//	    }
//	  ]
//	}
//
// # Tool: index_document
//
// Chunk a document and persist its chunks under a source identifier:
//
//	Request:
//	{
//	  "name": "index_document",
//	  "arguments": {
//	    "source": "docs/handbook.md",
//	    "text": "...",
//	    "mode": "hybrid",
//	    "force_reindex": false
//	  }
//	}
//
// get_chunks pages through a document's stored chunks by source,
// search_chunks runs an FTS query across all documents, and get_status
// reports store counts, size, and health.
//
// # Error Handling
//
// The MCP server returns standard JSON-RPC error responses. Error codes:
//   - -32602: Invalid params (missing arguments, invalid constraints)
//   - -32603: Internal error (database, chunking pipeline)
//   - -32001: Document not indexed
//   - -32002: Document already indexed (use force_reindex)
//   - -32003: Clause exceeds token limit under strict constraints
//   - -32004: Empty search query
//
// # Logging
//
// The server logs to stderr; stdout is reserved for MCP protocol traffic.
package mcp

package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// constraintProperties is the shared schema fragment for chunking
// constraints, used by chunk_text and index_document.
func constraintProperties() map[string]interface{} {
	return map[string]interface{}{
		"mode": map[string]interface{}{
			"type":        "string",
			"description": "Chunking mode: sentence (sentence limit only), token (token limit only), or hybrid (both limits, first reached wins)",
			"enum":        []string{"sentence", "token", "hybrid"},
			"default":     "hybrid",
		},
		"language": map[string]interface{}{
			"type":        "string",
			"description": "Language tag for sentence splitting (e.g. 'en'), or 'auto' for the default splitter",
			"default":     "auto",
		},
		"max_sentences": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum sentences per chunk (required >= 1 in sentence and hybrid modes)",
			"default":     4,
			"minimum":     1,
		},
		"max_tokens": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum tokens per chunk (required >= 10 in token and hybrid modes)",
			"default":     512,
			"minimum":     10,
		},
		"overlap_percent": map[string]interface{}{
			"type":        "integer",
			"description": "Percentage of the active limit carried into the next chunk as overlap (0-75)",
			"default":     20,
			"minimum":     0,
			"maximum":     75,
		},
		"offset": map[string]interface{}{
			"type":        "integer",
			"description": "Number of leading sentences to skip before chunking starts",
			"default":     0,
			"minimum":     0,
		},
		"strict": map[string]interface{}{
			"type":        "boolean",
			"description": "If true, a single clause exceeding max_tokens is an error instead of a flagged oversized chunk",
			"default":     false,
		},
	}
}

// chunkTextTool returns the tool definition for chunk_text
func chunkTextTool() mcp.Tool {
	props := constraintProperties()
	props["text"] = map[string]interface{}{
		"type":        "string",
		"description": "Text to chunk",
	}
	return mcp.Tool{
		Name:        "chunk_text",
		Description: "Split text into sentence- and token-bounded chunks with configurable overlap",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
			Required:   []string{"text"},
		},
	}
}

// indexDocumentTool returns the tool definition for index_document
func indexDocumentTool() mcp.Tool {
	props := constraintProperties()
	props["source"] = map[string]interface{}{
		"type":        "string",
		"description": "Document source identifier (file path, URL, or logical name); must be unique in the store",
	}
	props["text"] = map[string]interface{}{
		"type":        "string",
		"description": "Document text to chunk and persist",
	}
	props["force_reindex"] = map[string]interface{}{
		"type":        "boolean",
		"description": "If true, replace an already indexed document instead of failing",
		"default":     false,
	}
	return mcp.Tool{
		Name:        "index_document",
		Description: "Chunk a document and persist its chunks for later retrieval and search",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
			Required:   []string{"source", "text"},
		},
	}
}

// getChunksTool returns the tool definition for get_chunks
func getChunksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_chunks",
		Description: "Fetch stored chunks for an indexed document, paged by chunk number",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Source identifier of the indexed document",
				},
				"offset": map[string]interface{}{
					"type":        "integer",
					"description": "Number of chunks to skip",
					"default":     0,
					"minimum":     0,
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of chunks to return (1-100, 0 for all)",
					"default":     0,
					"minimum":     0,
					"maximum":     100,
				},
			},
			Required: []string{"source"},
		},
	}
}

// searchChunksTool returns the tool definition for search_chunks
func searchChunksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_chunks",
		Description: "Full-text search over stored chunk content across all indexed documents",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (keywords)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query chunk store statistics and health",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

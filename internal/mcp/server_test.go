package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Initialization(t *testing.T) {
	t.Run("custom path creates directory", func(t *testing.T) {
		tmpDir := t.TempDir()

		server, err := NewServer(tmpDir)
		require.NoError(t, err)
		defer func() { _ = server.storage.Close() }()

		assert.NotNil(t, server)
		assert.NotNil(t, server.storage)
	})

	t.Run("server has all required components", func(t *testing.T) {
		tmpDir := t.TempDir()

		server, err := NewServer(tmpDir)
		require.NoError(t, err)
		defer func() { _ = server.storage.Close() }()

		assert.NotNil(t, server.mcp, "MCP server should be initialized")
		assert.NotNil(t, server.storage, "Storage should be initialized")
		assert.NotNil(t, server.chunker, "Chunker should be initialized")
	})

	t.Run("chunker and tools share one token counter", func(t *testing.T) {
		tmpDir := t.TempDir()

		server, err := NewServer(tmpDir)
		require.NoError(t, err)
		defer func() { _ = server.storage.Close() }()

		// The counter configured on the chunker is the one reported by
		// get_status and recorded on indexed documents, so it must exist.
		require.NotNil(t, server.chunker.Counter())
		assert.NotEmpty(t, server.chunker.Counter().Name())
	})
}

func TestServer_EnvDBPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(EnvDBPath, tmpDir)

	server, err := NewServer("")
	require.NoError(t, err)
	defer func() { _ = server.storage.Close() }()

	assert.NotNil(t, server)
}

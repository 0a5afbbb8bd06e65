package koi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMeshesSingleFile(t *testing.T) {
	pool, err := LoadMeshes("testdata/tri.obj")
	require.NoError(t, err)

	require.Len(t, pool.Vertices, 3)
	require.Len(t, pool.Indices, 3)
	require.Len(t, pool.Meshes, 1)

	mesh, ok := pool.Lookup("tri")
	require.True(t, ok)
	assert.Equal(t, uint32(0), mesh.IndexOffset)
	assert.Equal(t, uint32(3), mesh.IndexCount)

	assert.Equal(t, []uint16{0, 1, 2}, pool.Indices)
	assert.Equal(t, [3]float32{1, 1, 1}, pool.Vertices[0].Color, "obj vertices default to white")
	assert.Equal(t, [3]float32{-1, -1, 0}, pool.Vertices[0].Position)
}

func TestLoadMeshesRebasesAcrossFiles(t *testing.T) {
	pool, err := LoadMeshes("testdata/tri.obj", "testdata/quad.obj")
	require.NoError(t, err)

	require.Len(t, pool.Vertices, 10)
	require.Len(t, pool.Meshes, 3)

	// Second file's indices shift by the first file's 3 vertices.
	quad, ok := pool.Lookup("quad")
	require.True(t, ok)
	assert.Equal(t, uint32(3), quad.IndexOffset)
	assert.Equal(t, uint32(6), quad.IndexCount)
	assert.Equal(t, []uint16{3, 4, 5, 3, 5, 6}, pool.Indices[quad.IndexOffset:quad.IndexOffset+quad.IndexCount])

	// Indices inside a file already count its earlier objects.
	wedge, ok := pool.Lookup("wedge")
	require.True(t, ok)
	assert.Equal(t, uint32(9), wedge.IndexOffset)
	assert.Equal(t, []uint16{7, 8, 9}, pool.Indices[wedge.IndexOffset:wedge.IndexOffset+wedge.IndexCount])
}

func TestLookupMissing(t *testing.T) {
	pool, err := LoadMeshes("testdata/tri.obj")
	require.NoError(t, err)

	_, ok := pool.Lookup("no such mesh")
	assert.False(t, ok)
}

func TestLoadMeshesErrors(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "bad.obj")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	tests := []struct {
		name    string
		content string
	}{
		{"face before object", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"},
		{"short vertex", "o x\nv 1 2\n"},
		{"short face", "o x\nv 0 0 0\nf 1 2\n"},
		{"quad face", "o x\nv 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"},
		{"bad float", "o x\nv a b c\n"},
		{"bad index", "o x\nv 0 0 0\nf one 2 3\n"},
		{"nameless object", "o\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMeshes(write(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMeshesMissingFile(t *testing.T) {
	_, err := LoadMeshes("testdata/does-not-exist.obj")
	assert.Error(t, err)
}

func TestLoadMeshesRejectsEmptyGeometry(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"comments only", "# nothing here\n"},
		{"object without faces", "o hollow\nv 0 0 0\nv 1 0 0\nv 0 1 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "empty.obj")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			// An empty pool must fail here, not panic later when the
			// vertex and index buffers are uploaded.
			_, err := LoadMeshes(path)
			assert.ErrorContains(t, err, "no geometry")
		})
	}
}

package koi

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// poolWith builds an object pool holding just the named meshes, each
// with a distinct index range.
func poolWith(names ...string) *ObjectPool {
	pool := &ObjectPool{byName: make(map[string]int)}
	for i, name := range names {
		pool.byName[name] = i
		pool.Meshes = append(pool.Meshes, Mesh{
			Name:        name,
			IndexOffset: uint32(i * 3),
			IndexCount:  3,
		})
	}
	return pool
}

type placedGlyph struct {
	pos  mgl32.Vec3
	mesh Mesh
}

func layout(s string, scale float32, anchor mgl32.Vec3, pool *ObjectPool) []placedGlyph {
	var out []placedGlyph
	layoutText(s, scale, anchor, pool, func(pos mgl32.Vec3, mesh Mesh) {
		out = append(out, placedGlyph{pos: pos, mesh: mesh})
	})
	return out
}

func TestLayoutTextAdvancesCursor(t *testing.T) {
	pool := poolWith("a", "b", "c")
	glyphs := layout("abc", 2, mgl32.Vec3{1, 1, 0}, pool)
	require.Len(t, glyphs, 3)

	pad := float32(2 * glyphAdvance)
	for i, g := range glyphs {
		assert.InDelta(t, 1+float32(i)*pad, g.pos.X(), 1e-6)
		assert.InDelta(t, 1, g.pos.Y(), 1e-6)
	}
	assert.Equal(t, "a", glyphs[0].mesh.Name)
	assert.Equal(t, "c", glyphs[2].mesh.Name)
}

func TestLayoutTextNewline(t *testing.T) {
	pool := poolWith("a", "b")
	glyphs := layout("a\nb", 1, mgl32.Vec3{0.5, 0.5, 0}, pool)
	require.Len(t, glyphs, 2)

	// The second line restarts at the anchor X, one line height down.
	assert.InDelta(t, 0.5, glyphs[1].pos.X(), 1e-6)
	assert.InDelta(t, 0.5-lineAdvance, glyphs[1].pos.Y(), 1e-6)
}

func TestLayoutTextSpaceAdvancesWithoutEmitting(t *testing.T) {
	pool := poolWith("a", "b")
	glyphs := layout("a b", 1, mgl32.Vec3{}, pool)
	require.Len(t, glyphs, 2)
	assert.InDelta(t, 2*glyphAdvance, glyphs[1].pos.X(), 1e-6)
}

func TestLayoutTextSkipsUnmappedWithoutAdvance(t *testing.T) {
	pool := poolWith("a", "b")
	// '\t' has no glyph: 'b' lands directly after 'a'.
	glyphs := layout("a\tb", 1, mgl32.Vec3{}, pool)
	require.Len(t, glyphs, 2)
	assert.InDelta(t, glyphAdvance, glyphs[1].pos.X(), 1e-6)
}

func TestLayoutTextCaseFolds(t *testing.T) {
	pool := poolWith("a")
	glyphs := layout("A", 1, mgl32.Vec3{}, pool)
	require.Len(t, glyphs, 1)
	assert.Equal(t, "a", glyphs[0].mesh.Name)
}

func TestLayoutTextBlankBox(t *testing.T) {
	pool := poolWith("a", "blank")
	glyphs := layout("a#a", 1, mgl32.Vec3{}, pool)
	require.Len(t, glyphs, 3)
	assert.Equal(t, "blank", glyphs[1].mesh.Name)
	// The blank box still advances the cursor.
	assert.InDelta(t, 2*glyphAdvance, glyphs[2].pos.X(), 1e-6)
}

func TestGlyphNameTable(t *testing.T) {
	tests := []struct {
		b    byte
		name string
	}{
		{'a', "a"},
		{'Z', "z"},
		{'0', "d0"},
		{'9', "d9"},
		{'!', "excl"},
		{'(', "bracket"},
		{'[', "bracket"},
		{'}', "bracket_close"},
		{'#', "blank"},
		{'~', "blank"},
		{'\t', ""},
		{0x00, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, glyphNames[tt.b], "byte %q", tt.b)
	}
}

package koi

import "github.com/go-gl/mathgl/mgl32"

// Text layout pads relative to the glyph scale: the horizontal cursor
// advance and the line height.
const (
	glyphAdvance = 0.03
	lineAdvance  = 0.05
)

// glyphNames maps a byte to the name of its glyph mesh in the chars
// asset. An empty entry means the byte has no glyph and is skipped
// without advancing the cursor. Newline and space never reach the table;
// the cursor handles them directly.
var glyphNames [256]string

func init() {
	for b := byte('a'); b <= 'z'; b++ {
		name := string(rune(b))
		glyphNames[b] = name
		glyphNames[b-'a'+'A'] = name
	}
	for b := byte('0'); b <= '9'; b++ {
		glyphNames[b] = "d" + string(rune(b))
	}

	punct := map[byte]string{
		'!':  "excl",
		'"':  "quote",
		'\'': "apos",
		'*':  "asterisk",
		'+':  "plus",
		',':  "comma",
		'-':  "dash",
		'.':  "dot",
		'/':  "slash",
		':':  "colon",
		'=':  "equals",
		'?':  "question",
		'_':  "underscore",
	}
	for b, name := range punct {
		glyphNames[b] = name
	}

	// Brackets of every flavor share the square-bracket glyphs.
	for _, b := range []byte{'(', '[', '{'} {
		glyphNames[b] = "bracket"
	}
	for _, b := range []byte{')', ']', '}'} {
		glyphNames[b] = "bracket_close"
	}

	// Printable characters without a dedicated glyph render as a blank
	// box, keeping the cursor advance intact.
	for _, b := range []byte{'#', '$', '%', '&', ';', '<', '>', '@', '\\', '^', '`', '|', '~'} {
		glyphNames[b] = "blank"
	}
}

// layoutText walks the text cursor over s and calls emit once per glyph
// instance. The cursor starts at anchor; '\n' resets X to the anchor X
// and lowers Y by scale*0.05; ' ' advances X by scale*0.03 without
// emitting; bytes without a glyph are skipped silently.
func layoutText(s string, scale float32, anchor mgl32.Vec3, pool *ObjectPool, emit func(pos mgl32.Vec3, mesh Mesh)) {
	padX := scale * glyphAdvance
	padY := scale * lineAdvance
	cursor := anchor

	for i := 0; i < len(s); i++ {
		switch b := s[i]; {
		case b == '\n':
			cursor[0] = anchor.X()
			cursor[1] -= padY

		case b == ' ':
			cursor[0] += padX

		default:
			name := glyphNames[b]
			if name == "" {
				continue
			}
			mesh, ok := pool.Lookup(name)
			if !ok {
				continue
			}
			emit(cursor, mesh)
			cursor[0] += padX
		}
	}
}

package koi

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// DefaultMeshPaths are the asset files preloaded by the renderer: the
// glyph meshes first, then the shape primitives.
var DefaultMeshPaths = []string{"res/obj/chars.obj", "res/obj/shapes.obj"}

// ObjectPool is the flat vertex/index store shared by every draw call,
// plus a directory of named meshes pointing into it. Loaded once at
// startup and immutable afterwards.
type ObjectPool struct {
	Vertices []Vertex
	Indices  []uint16
	Meshes   []Mesh

	byName map[string]int
}

// Lookup returns the mesh registered under name.
func (p *ObjectPool) Lookup(name string) (Mesh, bool) {
	i, ok := p.byName[name]
	if !ok {
		return Mesh{}, false
	}
	return p.Meshes[i], true
}

// LoadMeshes parses a list of Wavefront obj files (o/v/f lines, triangle
// faces, no materials) and concatenates them into one pool. Face indices
// are file-local and 1-based; they are rebased by the running global
// vertex count so the combined index buffer stays consistent.
func LoadMeshes(paths ...string) (*ObjectPool, error) {
	pool := &ObjectPool{byName: make(map[string]int)}

	vertexBase := 0
	var cur *Mesh

	flush := func() {
		if cur == nil {
			return
		}
		pool.byName[cur.Name] = len(pool.Meshes)
		pool.Meshes = append(pool.Meshes, *cur)
		cur = nil
	}

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("load meshes: %w", err)
		}

		scanner := bufio.NewScanner(f)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			fields := strings.Fields(scanner.Text())
			if len(fields) == 0 {
				continue
			}

			switch fields[0] {
			case "o":
				if len(fields) < 2 {
					f.Close()
					return nil, fmt.Errorf("%s:%d: object without a name", path, lineNo)
				}
				flush()
				cur = &Mesh{
					Name:        fields[len(fields)-1],
					IndexOffset: uint32(len(pool.Indices)),
				}

			case "v":
				if len(fields) < 4 {
					f.Close()
					return nil, fmt.Errorf("%s:%d: vertex needs 3 components", path, lineNo)
				}
				var v Vertex
				v.Color = [3]float32{1, 1, 1}
				for i := 0; i < 3; i++ {
					val, err := strconv.ParseFloat(fields[i+1], 32)
					if err != nil {
						f.Close()
						return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
					}
					v.Position[i] = float32(val)
				}
				pool.Vertices = append(pool.Vertices, v)

			case "f":
				if cur == nil {
					f.Close()
					return nil, fmt.Errorf("%s:%d: face before any object", path, lineNo)
				}
				if len(fields) != 4 {
					f.Close()
					return nil, fmt.Errorf("%s:%d: face needs exactly 3 indices, got %d",
						path, lineNo, len(fields)-1)
				}
				for i := 0; i < 3; i++ {
					local, err := strconv.ParseUint(fields[i+1], 10, 32)
					if err != nil {
						f.Close()
						return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
					}
					global := uint64(vertexBase) + local - 1
					if global > math.MaxUint16 {
						f.Close()
						return nil, fmt.Errorf("%s:%d: index %d overflows the 16-bit index buffer",
							path, lineNo, global)
					}
					pool.Indices = append(pool.Indices, uint16(global))
				}
				cur.IndexCount += 3
			}
		}
		if err := scanner.Err(); err != nil {
			f.Close()
			return nil, fmt.Errorf("load meshes: %s: %w", path, err)
		}
		f.Close()

		vertexBase = len(pool.Vertices)
	}
	flush()

	// The renderer uploads the pool straight into GPU buffers; an empty
	// pool would have nothing to bind.
	if len(pool.Vertices) == 0 || len(pool.Indices) == 0 {
		return nil, fmt.Errorf("load meshes: no geometry found in %s", strings.Join(paths, ", "))
	}

	Logger().Debug("object pool loaded",
		"meshes", len(pool.Meshes),
		"vertices", len(pool.Vertices),
		"indices", len(pool.Indices))

	return pool, nil
}

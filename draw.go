package koi

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// DrawInstance is one pooled draw call: a mesh reference plus the
// transform components and color pushed as constants. Instances live for
// a single frame; the pool is cleared at the end of DrawRequest.
type DrawInstance struct {
	Position mgl32.Vec3
	Rotation float32 // degrees, around Z
	Scale    mgl32.Vec3
	Color    Color
	Mesh     Mesh
}

// Push constant block: a mat4 transform followed by an RGBA color.
const pushConstantSize = 20 * 4

func (d *DrawInstance) pushData() [20]float32 {
	m := mgl32.Translate3D(d.Position.X(), d.Position.Y(), d.Position.Z()).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(d.Rotation))).
		Mul4(mgl32.Scale3D(d.Scale.X(), d.Scale.Y(), d.Scale.Z()))

	var out [20]float32
	copy(out[:16], m[:])
	out[16] = d.Color.R
	out[17] = d.Color.G
	out[18] = d.Color.B
	out[19] = d.Color.A
	return out
}

// DrawParams is the parameter set AddShape reads from a drawable object.
type DrawParams struct {
	SizeX, SizeY float32
	Rotation     float32
	Center       mgl32.Vec2
	Color        Color
	Kind         ShapeKind
}

// ShapeLike is anything that can describe itself as draw parameters,
// letting callers draw domain objects without unpacking raw arguments.
type ShapeLike interface {
	DrawParams() DrawParams
}

// CircleParams builds the draw parameters for a circle of the given radius.
func CircleParams(radius, rotation float32, center mgl32.Vec2, color Color) DrawParams {
	return DrawParams{
		SizeX: radius, SizeY: radius,
		Rotation: rotation, Center: center,
		Color: color, Kind: Circle,
	}
}

// EllipseParams builds the draw parameters for an axis-scaled circle.
func EllipseParams(radiusX, radiusY, rotation float32, center mgl32.Vec2, color Color) DrawParams {
	return DrawParams{
		SizeX: radiusX, SizeY: radiusY,
		Rotation: rotation, Center: center,
		Color: color, Kind: Circle,
	}
}

// RectangleParams builds the draw parameters for a rectangle with side
// lengths a and b.
func RectangleParams(a, b, rotation float32, center mgl32.Vec2, color Color) DrawParams {
	return DrawParams{
		SizeX: a, SizeY: b,
		Rotation: rotation, Center: center,
		Color: color, Kind: Rectangle,
	}
}

// Shape appends one instance of a built-in primitive to the draw pool.
// A Locked anchor offsets center by the camera position so the shape
// moves with the world; Unlocked draws it screen-relative. Size and
// rotation are taken as-is, without validation.
func (r *Renderer) Shape(sizeX, sizeY, rotation float32, center mgl32.Vec2, color Color, kind ShapeKind, anchor Anchor) error {
	mesh, ok := r.objects.Lookup(string(kind))
	if !ok {
		return fmt.Errorf("shape %q: no such mesh in the object pool", kind)
	}

	pos := mgl32.Vec3{center.X(), center.Y(), 0}
	if anchor == Locked {
		cam := r.camera.Position()
		pos[0] += cam.X()
		pos[1] += cam.Y()
	}

	r.drawPool = append(r.drawPool, DrawInstance{
		Position: pos,
		Rotation: rotation,
		Scale:    mgl32.Vec3{sizeX, sizeY, 0},
		Color:    color,
		Mesh:     mesh,
	})
	return nil
}

// Text appends one glyph instance per drawable byte of s to the draw
// pool, starting from the given top-left position. See layoutText for
// the cursor rules.
func (r *Renderer) Text(s string, scale float32, topLeft mgl32.Vec2, color Color, anchor Anchor) {
	padX := scale * glyphAdvance
	padY := scale * lineAdvance

	anchorPos := mgl32.Vec3{topLeft.X() + padX, topLeft.Y() - padY, 0}
	if anchor == Locked {
		cam := r.camera.Position()
		anchorPos[0] += cam.X()
		anchorPos[1] += cam.Y()
	}

	layoutText(s, scale, anchorPos, r.objects, func(pos mgl32.Vec3, mesh Mesh) {
		r.drawPool = append(r.drawPool, DrawInstance{
			Position: pos,
			Scale:    mgl32.Vec3{scale, scale, 0},
			Color:    color,
			Mesh:     mesh,
		})
	})
}

// AddShape draws anything that can describe itself as DrawParams.
func (r *Renderer) AddShape(s ShapeLike, anchor Anchor) error {
	p := s.DrawParams()
	return r.Shape(p.SizeX, p.SizeY, p.Rotation, p.Center, p.Color, p.Kind, anchor)
}

// PoolLen reports how many instances are queued for the next DrawRequest.
func (r *Renderer) PoolLen() int { return len(r.drawPool) }

func (r *Renderer) clearPool() { r.drawPool = r.drawPool[:0] }

package koi

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionKind selects how the camera projects world space to clip space.
type ProjectionKind int

const (
	Orthographic ProjectionKind = iota
	Perspective
)

const (
	orthoNear   = -5.0
	orthoFar    = 5.0
	perspFovDeg = 60.0
	perspNear   = 0.1
	perspFar    = 10.0

	minZoom = 0.1
	maxZoom = 2.0
)

// Camera holds the world-space position and the view/projection pair that
// feeds the per-frame uniform buffer. Only X/Y of the position matter for
// 2D; Z stays fixed and panning happens by translating X/Y.
type Camera struct {
	position   mgl32.Vec3
	view       mgl32.Mat4
	projection mgl32.Mat4
	kind       ProjectionKind
	zoom       float32

	// cached viewport size, used to skip projection rebuilds
	width  float32
	height float32
}

// NewCamera creates a camera for a viewport of width by height pixels.
func NewCamera(width, height float32, position mgl32.Vec3, kind ProjectionKind) *Camera {
	c := &Camera{
		position: position,
		kind:     kind,
		zoom:     1,
		width:    width,
		height:   height,
	}
	c.rebuildView()
	c.rebuildProjection()
	return c
}

// Shift moves the camera along the X and Y axes and rebuilds the view
// matrix, panning the scene.
func (c *Camera) Shift(dx, dy float32) {
	c.position[0] += dx
	c.position[1] += dy
	c.rebuildView()
}

// Pan moves the camera to an absolute X/Y position.
func (c *Camera) Pan(x, y float32) {
	c.position[0] = x
	c.position[1] = y
	c.rebuildView()
}

// Zoom adjusts the zoom factor by delta, clamped to [0.1, 2.0], and
// rebuilds the projection. Zooming scales the orthographic bounds; it has
// no effect on a perspective camera.
func (c *Camera) Zoom(delta float32) {
	z := c.zoom + delta
	if z < minZoom {
		z = minZoom
	}
	if z > maxZoom {
		z = maxZoom
	}
	if z == c.zoom {
		return
	}
	c.zoom = z
	c.rebuildProjection()
}

// UpdateProjection recomputes the projection matrix, but only when the
// viewport size changed since the last call.
func (c *Camera) UpdateProjection(width, height float32) {
	if c.width == width && c.height == height {
		return
	}
	c.width = width
	c.height = height
	c.rebuildProjection()
}

func (c *Camera) Position() mgl32.Vec3   { return c.position }
func (c *Camera) View() mgl32.Mat4       { return c.view }
func (c *Camera) Projection() mgl32.Mat4 { return c.projection }
func (c *Camera) ZoomLevel() float32     { return c.zoom }
func (c *Camera) Width() float32         { return c.width }
func (c *Camera) Height() float32        { return c.height }

func (c *Camera) rebuildView() {
	target := mgl32.Vec3{c.position.X(), c.position.Y(), 0}
	c.view = mgl32.LookAtV(c.position, target, mgl32.Vec3{0, 1, 0})
}

func (c *Camera) rebuildProjection() {
	switch c.kind {
	case Perspective:
		c.projection = mgl32.Perspective(
			mgl32.DegToRad(perspFovDeg), c.width/c.height, perspNear, perspFar)
	default:
		right, bottom := WorldExtent(c.width, c.height)
		right /= c.zoom
		bottom /= c.zoom
		c.projection = orthographic(-right, right, bottom, -bottom, orthoNear, orthoFar)
	}
}

// orthographic builds a Vulkan-style orthographic matrix: the Y axis is
// negated (clip-space Y points down) and depth maps to [0, 1].
func orthographic(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	var m mgl32.Mat4
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = 1 / (near - far)
	m[12] = -(right + left) / (right - left)
	m[13] = -(bottom + top) / (bottom - top)
	m[14] = near / (near - far)
	m[15] = 1
	return m
}

// uniformData packs the view and projection matrices in the layout the
// vertex shader's uniform block expects.
func (c *Camera) uniformData() [32]float32 {
	var out [32]float32
	copy(out[:16], c.view[:])
	copy(out[16:], c.projection[:])
	return out
}

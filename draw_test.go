package koi

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRenderer builds a renderer with only the CPU-side state the draw
// pool needs: a camera and an object pool.
func testRenderer(pool *ObjectPool) *Renderer {
	return &Renderer{
		camera:  NewCamera(800, 600, mgl32.Vec3{0, 0, 2}, Orthographic),
		objects: pool,
	}
}

func TestShapeAppendsInstance(t *testing.T) {
	r := testRenderer(poolWith("circle", "rectangle"))

	err := r.Shape(0.2, 0.3, 45, mgl32.Vec2{0.5, -0.5}, Red, Circle, Unlocked)
	require.NoError(t, err)
	require.Equal(t, 1, r.PoolLen())

	inst := r.drawPool[0]
	assert.Equal(t, mgl32.Vec3{0.5, -0.5, 0}, inst.Position)
	assert.Equal(t, float32(45), inst.Rotation)
	assert.Equal(t, mgl32.Vec3{0.2, 0.3, 0}, inst.Scale)
	assert.Equal(t, Red, inst.Color)
	assert.Equal(t, "circle", inst.Mesh.Name)
}

func TestShapeUnknownKind(t *testing.T) {
	r := testRenderer(poolWith("circle"))
	err := r.Shape(1, 1, 0, mgl32.Vec2{}, White, Rectangle, Unlocked)
	assert.Error(t, err)
	assert.Equal(t, 0, r.PoolLen())
}

func TestShapeLockedFollowsCamera(t *testing.T) {
	r := testRenderer(poolWith("circle"))
	r.camera.Pan(2, -1)

	require.NoError(t, r.Shape(1, 1, 0, mgl32.Vec2{0.5, 0.5}, White, Circle, Locked))
	require.NoError(t, r.Shape(1, 1, 0, mgl32.Vec2{0.5, 0.5}, White, Circle, Unlocked))

	locked := r.drawPool[0].Position
	unlocked := r.drawPool[1].Position
	assert.Equal(t, mgl32.Vec3{2.5, -0.5, 0}, locked)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0}, unlocked)
}

func TestTextAnchorsBelowTopLeft(t *testing.T) {
	r := testRenderer(poolWith("a"))
	r.Text("a", 2, mgl32.Vec2{1, 1}, White, Unlocked)
	require.Equal(t, 1, r.PoolLen())

	inst := r.drawPool[0]
	assert.InDelta(t, 1+2*glyphAdvance, inst.Position.X(), 1e-6)
	assert.InDelta(t, 1-2*lineAdvance, inst.Position.Y(), 1e-6)
	assert.Equal(t, mgl32.Vec3{2, 2, 0}, inst.Scale)
}

func TestTextLockedFollowsCamera(t *testing.T) {
	r := testRenderer(poolWith("a"))
	r.camera.Pan(3, 4)
	r.Text("a", 1, mgl32.Vec2{0, 0}, White, Locked)
	require.Equal(t, 1, r.PoolLen())

	inst := r.drawPool[0]
	assert.InDelta(t, 3+glyphAdvance, inst.Position.X(), 1e-6)
	assert.InDelta(t, 4-lineAdvance, inst.Position.Y(), 1e-6)
}

func TestTextMultiline(t *testing.T) {
	r := testRenderer(poolWith("a", "b", "c"))
	r.Text("ab\nc", 1, mgl32.Vec2{0, 0}, Emerald, Unlocked)
	require.Equal(t, 3, r.PoolLen())

	first := r.drawPool[0].Position
	third := r.drawPool[2].Position
	assert.InDelta(t, first.X(), third.X(), 1e-6)
	assert.InDelta(t, first.Y()-lineAdvance, third.Y(), 1e-6)
}

type testBall struct {
	radius float32
	center mgl32.Vec2
}

func (b testBall) DrawParams() DrawParams {
	return CircleParams(b.radius, 0, b.center, Azure)
}

func TestAddShape(t *testing.T) {
	r := testRenderer(poolWith("circle"))
	err := r.AddShape(testBall{radius: 0.1, center: mgl32.Vec2{0.25, 0.75}}, Unlocked)
	require.NoError(t, err)
	require.Equal(t, 1, r.PoolLen())

	inst := r.drawPool[0]
	assert.Equal(t, mgl32.Vec3{0.1, 0.1, 0}, inst.Scale)
	assert.Equal(t, Azure, inst.Color)
}

func TestClearPool(t *testing.T) {
	r := testRenderer(poolWith("circle"))
	for i := 0; i < 5; i++ {
		require.NoError(t, r.Shape(1, 1, 0, mgl32.Vec2{}, White, Circle, Unlocked))
	}
	require.Equal(t, 5, r.PoolLen())

	r.clearPool()
	assert.Equal(t, 0, r.PoolLen())
}

func TestPushDataTransform(t *testing.T) {
	inst := DrawInstance{
		Position: mgl32.Vec3{1, 2, 0},
		Rotation: 90,
		Scale:    mgl32.Vec3{2, 3, 0},
		Color:    Color{R: 0.1, G: 0.2, B: 0.3, A: 0.4},
	}
	data := inst.pushData()

	want := mgl32.Translate3D(1, 2, 0).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(90))).
		Mul4(mgl32.Scale3D(2, 3, 0))
	for i := 0; i < 16; i++ {
		assert.InDelta(t, want[i], data[i], 1e-6, "matrix element %d", i)
	}
	assert.Equal(t, float32(0.1), data[16])
	assert.Equal(t, float32(0.4), data[19])

	// The transform applies scale, then rotation, then translation:
	// local (1, 0) scales to (2, 0), rotates to (0, 2), lands at (1, 4).
	v := want.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 1, v.X(), 1e-5)
	assert.InDelta(t, 4, v.Y(), 1e-5)
}

func TestShapeParamConstructors(t *testing.T) {
	circle := CircleParams(0.5, 10, mgl32.Vec2{1, 2}, Red)
	assert.Equal(t, Circle, circle.Kind)
	assert.Equal(t, circle.SizeX, circle.SizeY)

	ellipse := EllipseParams(0.5, 0.25, 0, mgl32.Vec2{}, Red)
	assert.Equal(t, Circle, ellipse.Kind)
	assert.NotEqual(t, ellipse.SizeX, ellipse.SizeY)

	rect := RectangleParams(2, 1, 0, mgl32.Vec2{}, Red)
	assert.Equal(t, Rectangle, rect.Kind)
}

func TestDrawStatsOverlayText(t *testing.T) {
	names := []string{"f", "p", "s", "colon", "blank"}
	for b := 'a'; b <= 'z'; b++ {
		names = append(names, string(b))
	}
	for i := 0; i < 10; i++ {
		names = append(names, "d"+string(rune('0'+i)))
	}
	r := testRenderer(poolWith(names...))
	r.DrawStats()

	assert.Greater(t, r.PoolLen(), 0)
	assert.Equal(t, strings.Count(r.stats.String(), "\n"), 4)
}

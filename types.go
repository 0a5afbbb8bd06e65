package koi

import (
	"errors"
	"fmt"

	vk "github.com/goki/vulkan"
)

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// RGB returns an opaque color.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

var (
	White   = RGB(1, 1, 1)
	Black   = RGB(0, 0, 0)
	Red     = RGB(0.86, 0.08, 0.24)
	Emerald = RGB(0.31, 0.78, 0.47)
	Azure   = RGB(0, 0.5, 1)
	Amber   = RGB(1, 0.75, 0)
)

// Anchor selects whether a draw call is positioned relative to the world
// (moves with the camera) or to the screen (HUD style).
type Anchor int

const (
	Locked Anchor = iota
	Unlocked
)

// ShapeKind names a built-in primitive mesh in the object pool.
type ShapeKind string

const (
	Circle                 ShapeKind = "circle"
	CircleBorder           ShapeKind = "circle_border"
	Rectangle              ShapeKind = "rectangle"
	RectangleBorder        ShapeKind = "rectangle_border"
	RoundedRectangle       ShapeKind = "rounded_rectangle"
	RoundedRectangleBorder ShapeKind = "rounded_rectangle_border"
)

// Mesh is a named contiguous range of the shared global index buffer.
type Mesh struct {
	Name        string
	IndexOffset uint32
	IndexCount  uint32
}

// Vertex matches the pipeline's single vertex binding.
type Vertex struct {
	Position [3]float32
	Color    [3]float32
}

const vertexSize = 6 * 4

var (
	// ErrNoSuitableDevice is returned when no physical device satisfies
	// the selection policy.
	ErrNoSuitableDevice = errors.New("no suitable physical device")

	// ErrTimeout is returned when a GPU wait exceeds the configured
	// frame timeout.
	ErrTimeout = errors.New("timed out waiting for GPU")
)

// vkCheck converts a non-success result into a wrapped error.
func vkCheck(op string, res vk.Result) error {
	if res != vk.Success {
		return fmt.Errorf("%s: %w", op, vk.Error(res))
	}
	return nil
}

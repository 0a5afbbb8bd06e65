package koi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorldExtent(t *testing.T) {
	tests := []struct {
		name          string
		width, height float32
		right, bottom float32
	}{
		{"landscape", 800, 600, 4.0 / 3.0, 1},
		{"portrait", 600, 800, 1, 4.0 / 3.0},
		{"square", 512, 512, 1, 1},
		{"ultrawide", 2560, 1080, 2560.0 / 1080.0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			right, bottom := WorldExtent(tt.width, tt.height)
			assert.InDelta(t, tt.right, right, 1e-6)
			assert.InDelta(t, tt.bottom, bottom, 1e-6)
		})
	}
}

func TestScreenToWorldCorners(t *testing.T) {
	const w, h = 800, 600

	tests := []struct {
		name   string
		x, y   float32
		wx, wy float32
	}{
		{"top left", 0, 0, -4.0 / 3.0, -1},
		{"bottom right", w, h, 4.0 / 3.0, 1},
		{"center", w / 2, h / 2, 0, 0},
		{"top right", w, 0, 4.0 / 3.0, -1},
		{"bottom left", 0, h, -4.0 / 3.0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wx, wy := ScreenToWorld(tt.x, tt.y, w, h)
			assert.InDelta(t, tt.wx, wx, 1e-5)
			assert.InDelta(t, tt.wy, wy, 1e-5)
		})
	}
}

func TestWorldToScreenInvertsScreenToWorld(t *testing.T) {
	sizes := [][2]float32{{800, 600}, {600, 800}, {1920, 1080}, {333, 333}}
	points := [][2]float32{{0, 0}, {5, 5}, {400, 300}, {799, 1}, {123.5, 456.25}}

	for _, size := range sizes {
		for _, p := range points {
			wx, wy := ScreenToWorld(p[0], p[1], size[0], size[1])
			x, y := WorldToScreen(wx, wy, size[0], size[1])
			assert.InDelta(t, p[0], x, 1e-3)
			assert.InDelta(t, p[1], y, 1e-3)
		}
	}
}

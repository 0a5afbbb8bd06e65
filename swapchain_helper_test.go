package koi

import (
	"math"
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
)

func TestChooseSwapExtentDriverFixed(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		CurrentExtent: vk.Extent2D{Width: 1024, Height: 768},
	}
	extent := chooseSwapExtent(caps, 800, 600)
	assert.Equal(t, uint32(1024), extent.Width)
	assert.Equal(t, uint32(768), extent.Height)
}

func TestChooseSwapExtentClamped(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 100, Height: 100},
		MaxImageExtent: vk.Extent2D{Width: 1000, Height: 1000},
	}

	extent := chooseSwapExtent(caps, 5000, 50)
	assert.Equal(t, uint32(1000), extent.Width)
	assert.Equal(t, uint32(100), extent.Height)

	extent = chooseSwapExtent(caps, 800, 600)
	assert.Equal(t, uint32(800), extent.Width)
	assert.Equal(t, uint32(600), extent.Height)
}

func TestChooseImageCount(t *testing.T) {
	tests := []struct {
		name     string
		min, max uint32
		want     uint32
	}{
		{"one over minimum", 2, 8, 3},
		{"capped at maximum", 3, 3, 3},
		{"unbounded maximum", 2, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := vk.SurfaceCapabilities{MinImageCount: tt.min, MaxImageCount: tt.max}
			assert.Equal(t, tt.want, chooseImageCount(caps))
		})
	}
}

func TestChooseSurfaceFormat(t *testing.T) {
	preferred := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	other := vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}

	assert.Equal(t, preferred, chooseSurfaceFormat([]vk.SurfaceFormat{other, preferred}))
	assert.Equal(t, other, chooseSurfaceFormat([]vk.SurfaceFormat{other}))
}

func TestChoosePresentMode(t *testing.T) {
	assert.Equal(t, vk.PresentModeMailbox,
		choosePresentMode([]vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox}))
	assert.Equal(t, vk.PresentModeFifo,
		choosePresentMode([]vk.PresentMode{vk.PresentModeImmediate}))
}

func TestSupportDetailsQueries(t *testing.T) {
	details := SwapchainSupportDetails{
		Formats: []vk.SurfaceFormat{
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
		PresentModes: []vk.PresentMode{vk.PresentModeFifo},
	}

	assert.True(t, details.hasFormat(vk.FormatB8g8r8a8Srgb, vk.ColorSpaceSrgbNonlinear))
	assert.False(t, details.hasFormat(vk.FormatR8g8b8a8Unorm, vk.ColorSpaceSrgbNonlinear))
	assert.True(t, details.hasPresentMode(vk.PresentModeFifo))
	assert.False(t, details.hasPresentMode(vk.PresentModeMailbox))
}

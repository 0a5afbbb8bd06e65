package koi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	assert.Equal(t, 2, cfg.FramesInFlight)
	assert.Equal(t, "res/shaders", cfg.ShaderDir)
	assert.Equal(t, DefaultMeshPaths, cfg.MeshPaths)
	assert.Zero(t, cfg.FrameTimeout, "default waits forever")
}

func TestConfigDefaultsKeepExplicitValues(t *testing.T) {
	cfg := Config{
		FramesInFlight: 3,
		FrameTimeout:   time.Second,
		ShaderDir:      "assets/spv",
		MeshPaths:      []string{"a.obj"},
	}
	cfg.applyDefaults()

	assert.Equal(t, 3, cfg.FramesInFlight)
	assert.Equal(t, time.Second, cfg.FrameTimeout)
	assert.Equal(t, "assets/spv", cfg.ShaderDir)
	assert.Equal(t, []string{"a.obj"}, cfg.MeshPaths)
}

func TestAdvanceFrameAlternates(t *testing.T) {
	r := &Renderer{frames: make([]frameSlot, 2)}
	seen := []int{r.frame}
	for i := 0; i < 5; i++ {
		r.advanceFrame()
		seen = append(seen, r.frame)
	}
	assert.Equal(t, []int{0, 1, 0, 1, 0, 1}, seen)
}

func TestRecreateSwapchainMinimizedNoop(t *testing.T) {
	// A zero-sized framebuffer must return before touching any device
	// state; the renderer here has none.
	r := &Renderer{}
	assert.NoError(t, r.RecreateSwapchain(0, 600))
	assert.NoError(t, r.RecreateSwapchain(800, 0))
	assert.NoError(t, r.RecreateSwapchain(0, 0))
}

func TestUniformSizeMatchesCameraData(t *testing.T) {
	var data [32]float32
	assert.Equal(t, uniformSize, len(f32Bytes(data[:])))
}

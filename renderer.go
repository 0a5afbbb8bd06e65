// Package koi is a thin 2D rendering engine on Vulkan. It owns the full
// device and swapchain lifecycle, keeps two frames in flight, and draws
// batched instances of preloaded meshes (primitive shapes and text
// glyphs) with per-instance transforms pushed as constants.
package koi

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/goki/vulkan"
)

const uniformSize = 32 * 4 // view + projection matrices

// Config carries the renderer's construction options. The zero value is
// usable; applyDefaults fills the gaps.
type Config struct {
	// ClearColor is the render pass clear color.
	ClearColor Color

	// FramesInFlight is how many frames may be recorded ahead of the
	// GPU. Defaults to 2.
	FramesInFlight int

	// FrameTimeout bounds every per-frame GPU wait. Zero waits forever;
	// an expired wait surfaces as ErrTimeout.
	FrameTimeout time.Duration

	// ShaderDir holds the compiled vert.spv and frag.spv.
	ShaderDir string

	// MeshPaths are the wavefront obj files preloaded into the object
	// pool. Defaults to DefaultMeshPaths.
	MeshPaths []string

	// Validation enables the Khronos validation layer when present.
	Validation bool

	// StatsOverlay draws the frame statistics as text in the top-left
	// corner of every frame.
	StatsOverlay bool
}

func (c *Config) applyDefaults() {
	if c.FramesInFlight <= 0 {
		c.FramesInFlight = 2
	}
	if c.ShaderDir == "" {
		c.ShaderDir = "res/shaders"
	}
	if len(c.MeshPaths) == 0 {
		c.MeshPaths = DefaultMeshPaths
	}
}

// Renderer owns every Vulkan object of the engine. It is not safe for
// concurrent use; drive it from the thread that owns the GLFW window.
type Renderer struct {
	cfg Config

	instance vk.Instance
	surface  vk.Surface
	gpu      gpuChoice
	device   vk.Device

	graphicsQueue vk.Queue
	presentQueue  vk.Queue

	swapchain  *swapchainState
	renderPass vk.RenderPass

	descLayout vk.DescriptorSetLayout
	descPool   vk.DescriptorPool
	descSets   []vk.DescriptorSet

	pipelineLayout vk.PipelineLayout
	pipeline       vk.Pipeline

	commandPool  vk.CommandPool
	vertexBuffer deviceBuffer
	indexBuffer  deviceBuffer
	uniforms     []mappedBuffer

	frames []frameSlot
	frame  int

	camera   *Camera
	objects  *ObjectPool
	drawPool []DrawInstance
	stats    RenderStats

	cleanup destroyStack
}

// New builds the whole rendering stack against the given window:
// instance, surface, device, swapchain, pipeline, the preloaded mesh
// buffers, per-frame uniforms and synchronization. On error everything
// created so far is torn down again.
func New(window *glfw.Window, cfg Config) (*Renderer, error) {
	cfg.applyDefaults()

	objects, err := LoadMeshes(cfg.MeshPaths...)
	if err != nil {
		return nil, err
	}

	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		return nil, fmt.Errorf("init vulkan: %w", err)
	}

	r := &Renderer{cfg: cfg, objects: objects, stats: newRenderStats()}
	ok := false
	defer func() {
		if !ok {
			r.cleanup.run()
		}
	}()

	r.instance, err = newInstance(window, cfg.Validation)
	if err != nil {
		return nil, err
	}
	r.cleanup.push("instance", func() { vk.DestroyInstance(r.instance, nil) })

	r.surface, err = createSurface(r.instance, window)
	if err != nil {
		return nil, err
	}
	r.cleanup.push("surface", func() { vk.DestroySurface(r.instance, r.surface, nil) })

	r.gpu, err = selectDevice(r.instance, r.surface)
	if err != nil {
		return nil, err
	}

	r.device, r.graphicsQueue, r.presentQueue, err = createLogicalDevice(r.gpu)
	if err != nil {
		return nil, err
	}
	r.cleanup.push("device", func() { vk.DestroyDevice(r.device, nil) })

	width, height := window.GetFramebufferSize()
	r.swapchain, err = createSwapchain(r.device, r.gpu, r.surface, uint32(width), uint32(height))
	if err != nil {
		return nil, err
	}
	r.cleanup.push("swapchain", func() { r.swapchain.destroy(r.device) })

	r.renderPass, err = createRenderPass(r.device, r.swapchain.format)
	if err != nil {
		return nil, err
	}
	r.cleanup.push("render pass", func() { vk.DestroyRenderPass(r.device, r.renderPass, nil) })

	r.descLayout, err = createDescriptorSetLayout(r.device)
	if err != nil {
		return nil, err
	}
	r.cleanup.push("descriptor set layout", func() { vk.DestroyDescriptorSetLayout(r.device, r.descLayout, nil) })

	r.pipelineLayout, r.pipeline, err = createPipeline(r.device, r.renderPass, r.descLayout, cfg.ShaderDir)
	if err != nil {
		return nil, err
	}
	r.cleanup.push("pipeline layout", func() { vk.DestroyPipelineLayout(r.device, r.pipelineLayout, nil) })
	r.cleanup.push("pipeline", func() { vk.DestroyPipeline(r.device, r.pipeline, nil) })

	if err = r.swapchain.createFramebuffers(r.device, r.renderPass); err != nil {
		return nil, err
	}
	r.cleanup.push("framebuffers", func() { r.swapchain.destroyFramebuffers(r.device) })

	r.commandPool, err = createCommandPool(r.device, r.gpu.graphicsFamily)
	if err != nil {
		return nil, err
	}
	r.cleanup.push("command pool", func() { vk.DestroyCommandPool(r.device, r.commandPool, nil) })

	r.vertexBuffer, err = createDeviceLocalBuffer(r.device, r.gpu.handle, r.graphicsQueue, r.commandPool,
		vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit), vertexBytes(objects.Vertices))
	if err != nil {
		return nil, err
	}
	r.cleanup.push("vertex buffer", func() { r.vertexBuffer.destroy(r.device) })

	r.indexBuffer, err = createDeviceLocalBuffer(r.device, r.gpu.handle, r.graphicsQueue, r.commandPool,
		vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit), indexBytes(objects.Indices))
	if err != nil {
		return nil, err
	}
	r.cleanup.push("index buffer", func() { r.indexBuffer.destroy(r.device) })

	r.uniforms, err = createUniformBuffers(r.device, r.gpu.handle, cfg.FramesInFlight, uniformSize)
	if err != nil {
		return nil, err
	}
	r.cleanup.push("uniform buffers", func() {
		for i := range r.uniforms {
			r.uniforms[i].destroy(r.device)
		}
	})

	r.descPool, err = createDescriptorPool(r.device, uint32(cfg.FramesInFlight))
	if err != nil {
		return nil, err
	}
	r.cleanup.push("descriptor pool", func() { vk.DestroyDescriptorPool(r.device, r.descPool, nil) })

	r.descSets, err = allocateDescriptorSets(r.device, r.descPool, r.descLayout, r.uniforms)
	if err != nil {
		return nil, err
	}

	commands, err := allocateCommandBuffers(r.device, r.commandPool, cfg.FramesInFlight)
	if err != nil {
		return nil, err
	}

	r.frames, err = createFrameSlots(r.device, commands)
	if err != nil {
		return nil, err
	}
	r.cleanup.push("frame slots", func() {
		for i := range r.frames {
			r.frames[i].destroy(r.device)
		}
	})

	r.camera = NewCamera(float32(width), float32(height), mgl32.Vec3{0, 0, 2}, Orthographic)

	ok = true
	return r, nil
}

// Camera returns the renderer's camera for panning and zooming.
func (r *Renderer) Camera() *Camera { return r.camera }

// Stats returns the rolling frame statistics.
func (r *Renderer) Stats() *RenderStats { return &r.stats }

// ScreenToWorld converts window pixel coordinates using the camera's
// cached viewport size.
func (r *Renderer) ScreenToWorld(x, y float32) (float32, float32) {
	return ScreenToWorld(x, y, r.camera.Width(), r.camera.Height())
}

// WorldToScreen converts world coordinates using the camera's cached
// viewport size.
func (r *Renderer) WorldToScreen(x, y float32) (float32, float32) {
	return WorldToScreen(x, y, r.camera.Width(), r.camera.Height())
}

// DrawStats queues the statistics overlay text in the top-left corner.
func (r *Renderer) DrawStats() {
	wx, wy := ScreenToWorld(5, 5, r.camera.Width(), r.camera.Height())
	r.Text(r.stats.String(), 1, mgl32.Vec2{wx, wy}, Emerald, Locked)
}

// DrawRequest submits one frame: wait for the slot's fence, acquire a
// swapchain image, record the pooled draws, submit, present, and clear
// the pool. A minimized window is a no-op. An out-of-date swapchain on
// acquire is recreated and the acquire retried once; a suboptimal or
// out-of-date result on present recreates it after the frame.
func (r *Renderer) DrawRequest(window *glfw.Window) error {
	width, height := window.GetFramebufferSize()
	if width == 0 || height == 0 {
		return nil
	}

	if r.cfg.StatsOverlay {
		r.DrawStats()
	}
	r.stats.startRequestTimer()

	slot := &r.frames[r.frame]
	if err := waitFence(r.device, slot.inFlight, r.cfg.FrameTimeout); err != nil {
		return err
	}

	timeoutNs := uint64(math.MaxUint64)
	if r.cfg.FrameTimeout > 0 {
		timeoutNs = uint64(r.cfg.FrameTimeout.Nanoseconds())
	}

	var imageIndex uint32
	res := vk.AcquireNextImage(r.device, r.swapchain.handle, timeoutNs, slot.acquire, vk.NullFence, &imageIndex)
	if res == vk.ErrorOutOfDate {
		if err := r.RecreateSwapchain(width, height); err != nil {
			return err
		}
		res = vk.AcquireNextImage(r.device, r.swapchain.handle, timeoutNs, slot.acquire, vk.NullFence, &imageIndex)
	}
	if res == vk.Timeout {
		return fmt.Errorf("acquire image after %v: %w", r.cfg.FrameTimeout, ErrTimeout)
	}
	if res != vk.Success && res != vk.Suboptimal {
		return vkCheck("acquire image", res)
	}

	// Reset only after a successful acquire so a failed frame can retry
	// without deadlocking on its own fence.
	if err := vkCheck("reset fence", vk.ResetFences(r.device, 1, []vk.Fence{slot.inFlight})); err != nil {
		return err
	}

	r.camera.UpdateProjection(float32(width), float32(height))
	uniform := r.camera.uniformData()
	r.uniforms[r.frame].write(f32Bytes(uniform[:]))

	if err := r.recordCommands(slot.command, imageIndex); err != nil {
		return err
	}

	submit := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{slot.acquire},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{slot.command},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{slot.release},
	}
	if err := vkCheck("queue submit", vk.QueueSubmit(r.graphicsQueue, 1, []vk.SubmitInfo{submit}, slot.inFlight)); err != nil {
		return err
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{slot.release},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{r.swapchain.handle},
		PImageIndices:      []uint32{imageIndex},
	}
	res = vk.QueuePresent(r.presentQueue, &presentInfo)
	switch res {
	case vk.Success:
	case vk.Suboptimal, vk.ErrorOutOfDate:
		Logger().Warn("swapchain stale on present", "result", res)
		if err := r.RecreateSwapchain(width, height); err != nil {
			return err
		}
	default:
		return vkCheck("queue present", res)
	}

	r.advanceFrame()
	r.stats.stopRequestTimer()
	r.stats.update(len(r.drawPool), len(r.objects.Vertices))
	r.clearPool()
	return nil
}

func (r *Renderer) advanceFrame() {
	r.frame = (r.frame + 1) % len(r.frames)
}

// RecreateSwapchain rebuilds the swapchain and its framebuffers at the
// given framebuffer size. Zero dimensions (a minimized window) are a
// no-op.
func (r *Renderer) RecreateSwapchain(width, height int) error {
	if width == 0 || height == 0 {
		return nil
	}

	if err := vkCheck("wait device idle", vk.DeviceWaitIdle(r.device)); err != nil {
		return err
	}

	r.swapchain.destroyFramebuffers(r.device)
	r.swapchain.destroy(r.device)

	sc, err := createSwapchain(r.device, r.gpu, r.surface, uint32(width), uint32(height))
	if err != nil {
		return err
	}
	if err := sc.createFramebuffers(r.device, r.renderPass); err != nil {
		sc.destroy(r.device)
		return err
	}
	r.swapchain = sc
	return nil
}

// WaitIdle blocks until the device finishes all submitted work.
func (r *Renderer) WaitIdle() error {
	return vkCheck("wait device idle", vk.DeviceWaitIdle(r.device))
}

// Shutdown waits for the device to go idle and destroys every resource
// in reverse creation order. Safe to call more than once.
func (r *Renderer) Shutdown() {
	if r.device != nil {
		vk.DeviceWaitIdle(r.device)
	}
	r.cleanup.run()
}

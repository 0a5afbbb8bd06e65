package koi

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

// swapchainState bundles everything that must be rebuilt together when
// the window is resized.
type swapchainState struct {
	handle       vk.Swapchain
	format       vk.Format
	extent       vk.Extent2D
	images       []vk.Image
	views        []vk.ImageView
	framebuffers []vk.Framebuffer
	viewport     vk.Viewport
	scissor      vk.Rect2D
}

func createSwapchain(device vk.Device, gpu gpuChoice, surface vk.Surface, width, height uint32) (*swapchainState, error) {
	support, err := querySwapchainSupport(gpu.handle, surface)
	if err != nil {
		return nil, err
	}
	if len(support.Formats) == 0 || len(support.PresentModes) == 0 {
		return nil, fmt.Errorf("create swapchain: surface reports no formats or present modes")
	}

	surfaceFormat := chooseSurfaceFormat(support.Formats)
	presentMode := choosePresentMode(support.PresentModes)
	extent := chooseSwapExtent(support.Capabilities, width, height)
	imageCount := chooseImageCount(support.Capabilities)

	// TODO: share images across the two queue families with
	// CONCURRENT mode instead of relying on the driver tolerating
	// exclusive ownership without explicit transfers.
	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    imageCount,
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     support.Capabilities.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      presentMode,
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}

	var swapchain vk.Swapchain
	if err := vkCheck("create swapchain", vk.CreateSwapchain(device, &createInfo, nil, &swapchain)); err != nil {
		return nil, err
	}

	var count uint32
	if err := vkCheck("get swapchain images", vk.GetSwapchainImages(device, swapchain, &count, nil)); err != nil {
		vk.DestroySwapchain(device, swapchain, nil)
		return nil, err
	}
	images := make([]vk.Image, count)
	if err := vkCheck("get swapchain images", vk.GetSwapchainImages(device, swapchain, &count, images)); err != nil {
		vk.DestroySwapchain(device, swapchain, nil)
		return nil, err
	}

	views, err := createImageViews(device, images, surfaceFormat.Format)
	if err != nil {
		vk.DestroySwapchain(device, swapchain, nil)
		return nil, err
	}

	Logger().Info("swapchain created",
		"width", extent.Width, "height", extent.Height,
		"images", len(images), "presentMode", presentMode)

	return &swapchainState{
		handle: swapchain,
		format: surfaceFormat.Format,
		extent: extent,
		images: images,
		views:  views,
		viewport: vk.Viewport{
			Width:    float32(extent.Width),
			Height:   float32(extent.Height),
			MaxDepth: 1,
		},
		scissor: vk.Rect2D{Extent: extent},
	}, nil
}

// createFramebuffers builds one framebuffer per swapchain image view.
// Called after the render pass exists, and again on every recreation.
func (s *swapchainState) createFramebuffers(device vk.Device, renderPass vk.RenderPass) error {
	s.framebuffers = make([]vk.Framebuffer, 0, len(s.views))
	for _, view := range s.views {
		createInfo := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      renderPass,
			AttachmentCount: 1,
			PAttachments:    []vk.ImageView{view},
			Width:           s.extent.Width,
			Height:          s.extent.Height,
			Layers:          1,
		}

		var fb vk.Framebuffer
		if err := vkCheck("create framebuffer", vk.CreateFramebuffer(device, &createInfo, nil, &fb)); err != nil {
			s.destroyFramebuffers(device)
			return err
		}
		s.framebuffers = append(s.framebuffers, fb)
	}
	return nil
}

func (s *swapchainState) destroyFramebuffers(device vk.Device) {
	for _, fb := range s.framebuffers {
		vk.DestroyFramebuffer(device, fb, nil)
	}
	s.framebuffers = nil
}

func (s *swapchainState) destroy(device vk.Device) {
	for _, view := range s.views {
		vk.DestroyImageView(device, view, nil)
	}
	s.views = nil
	if s.handle != vk.NullSwapchain {
		vk.DestroySwapchain(device, s.handle, nil)
		s.handle = vk.NullSwapchain
	}
}

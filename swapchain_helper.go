package koi

import (
	"math"

	vk "github.com/goki/vulkan"
)

// SwapchainSupportDetails captures what a device can do with a surface.
type SwapchainSupportDetails struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

func querySwapchainSupport(dev vk.PhysicalDevice, surface vk.Surface) (SwapchainSupportDetails, error) {
	var details SwapchainSupportDetails

	var caps vk.SurfaceCapabilities
	if err := vkCheck("query surface capabilities", vk.GetPhysicalDeviceSurfaceCapabilities(dev, surface, &caps)); err != nil {
		return details, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	details.Capabilities = caps

	var formatCount uint32
	if err := vkCheck("query surface formats", vk.GetPhysicalDeviceSurfaceFormats(dev, surface, &formatCount, nil)); err != nil {
		return details, err
	}
	if formatCount > 0 {
		formats := make([]vk.SurfaceFormat, formatCount)
		if err := vkCheck("query surface formats", vk.GetPhysicalDeviceSurfaceFormats(dev, surface, &formatCount, formats)); err != nil {
			return details, err
		}
		for i := range formats {
			formats[i].Deref()
		}
		details.Formats = formats
	}

	var modeCount uint32
	if err := vkCheck("query present modes", vk.GetPhysicalDeviceSurfacePresentModes(dev, surface, &modeCount, nil)); err != nil {
		return details, err
	}
	if modeCount > 0 {
		modes := make([]vk.PresentMode, modeCount)
		if err := vkCheck("query present modes", vk.GetPhysicalDeviceSurfacePresentModes(dev, surface, &modeCount, modes)); err != nil {
			return details, err
		}
		details.PresentModes = modes
	}

	return details, nil
}

func (d SwapchainSupportDetails) hasFormat(format vk.Format, colorSpace vk.ColorSpace) bool {
	for _, f := range d.Formats {
		if f.Format == format && f.ColorSpace == colorSpace {
			return true
		}
	}
	return false
}

func (d SwapchainSupportDetails) hasPresentMode(mode vk.PresentMode) bool {
	for _, m := range d.PresentModes {
		if m == mode {
			return true
		}
	}
	return false
}

// chooseSurfaceFormat prefers B8G8R8A8_SRGB with a nonlinear sRGB color
// space, which device selection already required.
func chooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, f := range formats {
		if f.Format == vk.FormatB8g8r8a8Srgb && f.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return f
		}
	}
	return formats[0]
}

// choosePresentMode prefers mailbox; FIFO is the guaranteed fallback.
func choosePresentMode(modes []vk.PresentMode) vk.PresentMode {
	for _, m := range modes {
		if m == vk.PresentModeMailbox {
			return m
		}
	}
	return vk.PresentModeFifo
}

// chooseSwapExtent takes the surface's current extent when the driver
// fixes it, otherwise clamps the framebuffer size to the allowed range.
func chooseSwapExtent(caps vk.SurfaceCapabilities, width, height uint32) vk.Extent2D {
	if caps.CurrentExtent.Width != math.MaxUint32 {
		return caps.CurrentExtent
	}
	clamp := func(v, lo, hi uint32) uint32 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	return vk.Extent2D{
		Width:  clamp(width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// chooseImageCount requests one image over the minimum, capped at the
// surface maximum when one exists.
func chooseImageCount(caps vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

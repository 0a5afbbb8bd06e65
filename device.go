package koi

import (
	vk "github.com/goki/vulkan"
)

// gpuChoice is the outcome of physical device selection: the device
// handle and the two queue families the renderer drives it through.
type gpuChoice struct {
	handle         vk.PhysicalDevice
	graphicsFamily uint32
	presentFamily  uint32
}

// selectDevice picks the first discrete GPU that supports the swapchain
// extension, the B8G8R8A8_SRGB surface format, mailbox presentation, and
// two distinct queue families for graphics and presentation. Returns
// ErrNoSuitableDevice when nothing qualifies.
func selectDevice(instance vk.Instance, surface vk.Surface) (gpuChoice, error) {
	var count uint32
	if err := vkCheck("enumerate physical devices", vk.EnumeratePhysicalDevices(instance, &count, nil)); err != nil {
		return gpuChoice{}, err
	}
	if count == 0 {
		return gpuChoice{}, ErrNoSuitableDevice
	}
	devices := make([]vk.PhysicalDevice, count)
	if err := vkCheck("enumerate physical devices", vk.EnumeratePhysicalDevices(instance, &count, devices)); err != nil {
		return gpuChoice{}, err
	}

	for _, dev := range devices {
		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(dev, &props)
		props.Deref()

		if props.DeviceType != vk.PhysicalDeviceTypeDiscreteGpu {
			continue
		}
		if !swapchainExtensionSupported(dev) {
			continue
		}

		support, err := querySwapchainSupport(dev, surface)
		if err != nil {
			continue
		}
		if !support.hasFormat(vk.FormatB8g8r8a8Srgb, vk.ColorSpaceSrgbNonlinear) {
			continue
		}
		if !support.hasPresentMode(vk.PresentModeMailbox) {
			continue
		}

		graphics, present, ok := findQueueFamilies(dev, surface)
		if !ok {
			continue
		}

		Logger().Info("physical device selected",
			"device", vk.ToString(props.DeviceName[:]),
			"graphicsFamily", graphics,
			"presentFamily", present)

		return gpuChoice{
			handle:         dev,
			graphicsFamily: graphics,
			presentFamily:  present,
		}, nil
	}
	return gpuChoice{}, ErrNoSuitableDevice
}

func swapchainExtensionSupported(dev vk.PhysicalDevice) bool {
	var count uint32
	if vk.EnumerateDeviceExtensionProperties(dev, "", &count, nil) != vk.Success {
		return false
	}
	exts := make([]vk.ExtensionProperties, count)
	if vk.EnumerateDeviceExtensionProperties(dev, "", &count, exts) != vk.Success {
		return false
	}
	for i := range exts {
		exts[i].Deref()
		if vk.ToString(exts[i].ExtensionName[:]) == vk.KhrSwapchainExtensionName {
			return true
		}
	}
	return false
}

// findQueueFamilies returns the first graphics-capable family and the
// first family that supports presentation to the surface. The present
// family must differ from the graphics family.
func findQueueFamilies(dev vk.PhysicalDevice, surface vk.Surface) (graphics, present uint32, ok bool) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(dev, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(dev, &count, families)

	haveGraphics := false
	havePresent := false
	for i := range families {
		families[i].Deref()
		idx := uint32(i)

		if !haveGraphics && families[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			graphics = idx
			haveGraphics = true
		}
		if haveGraphics && !havePresent && idx != graphics {
			var supported vk.Bool32
			res := vk.GetPhysicalDeviceSurfaceSupport(dev, idx, surface, &supported)
			if res == vk.Success && supported.B() {
				present = idx
				havePresent = true
			}
		}
		if haveGraphics && havePresent {
			break
		}
	}
	return graphics, present, haveGraphics && havePresent
}

// createLogicalDevice creates the logical device with one queue per
// family and the swapchain extension enabled, and retrieves both queues.
func createLogicalDevice(choice gpuChoice) (vk.Device, vk.Queue, vk.Queue, error) {
	queueInfos := []vk.DeviceQueueCreateInfo{
		{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: choice.graphicsFamily,
			QueueCount:       1,
			PQueuePriorities: []float32{1},
		},
		{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: choice.presentFamily,
			QueueCount:       1,
			PQueuePriorities: []float32{1},
		},
	}

	extensions := terminatedStrings([]string{vk.KhrSwapchainExtensionName})

	createInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}

	var device vk.Device
	if err := vkCheck("create device", vk.CreateDevice(choice.handle, &createInfo, nil, &device)); err != nil {
		return nil, nil, nil, err
	}

	var graphicsQueue, presentQueue vk.Queue
	vk.GetDeviceQueue(device, choice.graphicsFamily, 0, &graphicsQueue)
	vk.GetDeviceQueue(device, choice.presentFamily, 0, &presentQueue)
	return device, graphicsQueue, presentQueue, nil
}

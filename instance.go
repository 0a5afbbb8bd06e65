package koi

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
)

const validationLayer = "VK_LAYER_KHRONOS_validation"

// terminatedStrings null-terminates every string so it can cross the C
// boundary as-is.
func terminatedStrings(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		if len(s) == 0 || s[len(s)-1] != '\x00' {
			s += "\x00"
		}
		out[i] = s
	}
	return out
}

func newInstance(window *glfw.Window, validation bool) (vk.Instance, error) {
	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   "koi\x00",
		ApplicationVersion: vk.MakeVersion(0, 1, 0),
		PEngineName:        "koi\x00",
		EngineVersion:      vk.MakeVersion(0, 1, 0),
		ApiVersion:         vk.MakeVersion(1, 1, 0),
	}

	extensions := terminatedStrings(window.GetRequiredInstanceExtensions())

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}

	if validation {
		if validationSupported() {
			layers := terminatedStrings([]string{validationLayer})
			createInfo.EnabledLayerCount = uint32(len(layers))
			createInfo.PpEnabledLayerNames = layers
		} else {
			Logger().Warn("validation layers requested but not available")
		}
	}

	var instance vk.Instance
	if err := vkCheck("create instance", vk.CreateInstance(&createInfo, nil, &instance)); err != nil {
		return nil, err
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, fmt.Errorf("init instance: %w", err)
	}
	return instance, nil
}

func validationSupported() bool {
	var count uint32
	if vk.EnumerateInstanceLayerProperties(&count, nil) != vk.Success {
		return false
	}
	layers := make([]vk.LayerProperties, count)
	if vk.EnumerateInstanceLayerProperties(&count, layers) != vk.Success {
		return false
	}
	for i := range layers {
		layers[i].Deref()
		if vk.ToString(layers[i].LayerName[:]) == validationLayer {
			return true
		}
	}
	return false
}

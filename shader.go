package koi

import (
	"encoding/binary"
	"fmt"
	"os"

	vk "github.com/goki/vulkan"
)

// loadShaderModule reads a compiled SPIR-V file and wraps it in a shader
// module. The module can be destroyed as soon as the pipeline is built.
func loadShaderModule(device vk.Device, path string) (vk.ShaderModule, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return vk.NullShaderModule, fmt.Errorf("load shader: %w", err)
	}
	if len(code) == 0 || len(code)%4 != 0 {
		return vk.NullShaderModule, fmt.Errorf("load shader %s: not valid SPIR-V (%d bytes)", path, len(code))
	}

	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(code)),
		PCode:    repackUint32(code),
	}

	var module vk.ShaderModule
	if err := vkCheck("create shader module", vk.CreateShaderModule(device, &createInfo, nil, &module)); err != nil {
		return vk.NullShaderModule, fmt.Errorf("%s: %w", path, err)
	}
	return module, nil
}

// repackUint32 reinterprets the SPIR-V byte stream as the word stream
// the API expects.
func repackUint32(data []byte) []uint32 {
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words
}

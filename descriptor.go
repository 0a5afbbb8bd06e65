package koi

import (
	vk "github.com/goki/vulkan"
)

// createDescriptorSetLayout declares the single uniform block the vertex
// shader reads: view and projection matrices at binding 0.
func createDescriptorSetLayout(device vk.Device) (vk.DescriptorSetLayout, error) {
	binding := vk.DescriptorSetLayoutBinding{
		Binding:         0,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
	}

	createInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 1,
		PBindings:    []vk.DescriptorSetLayoutBinding{binding},
	}

	var layout vk.DescriptorSetLayout
	err := vkCheck("create descriptor set layout", vk.CreateDescriptorSetLayout(device, &createInfo, nil, &layout))
	return layout, err
}

func createDescriptorPool(device vk.Device, sets uint32) (vk.DescriptorPool, error) {
	poolSize := vk.DescriptorPoolSize{
		Type:            vk.DescriptorTypeUniformBuffer,
		DescriptorCount: sets,
	}

	createInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       sets,
		PoolSizeCount: 1,
		PPoolSizes:    []vk.DescriptorPoolSize{poolSize},
	}

	var pool vk.DescriptorPool
	err := vkCheck("create descriptor pool", vk.CreateDescriptorPool(device, &createInfo, nil, &pool))
	return pool, err
}

// allocateDescriptorSets allocates one set per frame in flight and binds
// each to its frame's uniform buffer.
func allocateDescriptorSets(device vk.Device, pool vk.DescriptorPool, layout vk.DescriptorSetLayout, uniforms []mappedBuffer) ([]vk.DescriptorSet, error) {
	layouts := make([]vk.DescriptorSetLayout, len(uniforms))
	for i := range layouts {
		layouts[i] = layout
	}

	allocInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     pool,
		DescriptorSetCount: uint32(len(layouts)),
		PSetLayouts:        layouts,
	}

	sets := make([]vk.DescriptorSet, len(uniforms))
	if err := vkCheck("allocate descriptor sets", vk.AllocateDescriptorSets(device, &allocInfo, &sets[0])); err != nil {
		return nil, err
	}

	for i, set := range sets {
		bufferInfo := vk.DescriptorBufferInfo{
			Buffer: uniforms[i].buffer,
			Offset: 0,
			Range:  uniforms[i].size,
		}
		write := vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          set,
			DstBinding:      0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			PBufferInfo:     []vk.DescriptorBufferInfo{bufferInfo},
		}
		vk.UpdateDescriptorSets(device, 1, []vk.WriteDescriptorSet{write}, 0, nil)
	}
	return sets, nil
}

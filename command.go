package koi

import (
	"unsafe"

	vk "github.com/goki/vulkan"
)

func createCommandPool(device vk.Device, family uint32) (vk.CommandPool, error) {
	createInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: family,
	}

	var pool vk.CommandPool
	err := vkCheck("create command pool", vk.CreateCommandPool(device, &createInfo, nil, &pool))
	return pool, err
}

func allocateCommandBuffers(device vk.Device, pool vk.CommandPool, count int) ([]vk.CommandBuffer, error) {
	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}

	buffers := make([]vk.CommandBuffer, count)
	err := vkCheck("allocate command buffers", vk.AllocateCommandBuffers(device, &allocInfo, buffers))
	return buffers, err
}

// copyBuffer runs a one-shot transfer command and waits for it.
func copyBuffer(device vk.Device, queue vk.Queue, pool vk.CommandPool, src, dst vk.Buffer, size vk.DeviceSize) error {
	buffers, err := allocateCommandBuffers(device, pool, 1)
	if err != nil {
		return err
	}
	cmd := buffers[0]
	defer vk.FreeCommandBuffers(device, pool, 1, buffers)

	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := vkCheck("begin transfer commands", vk.BeginCommandBuffer(cmd, &beginInfo)); err != nil {
		return err
	}

	region := vk.BufferCopy{Size: size}
	vk.CmdCopyBuffer(cmd, src, dst, 1, []vk.BufferCopy{region})

	if err := vkCheck("end transfer commands", vk.EndCommandBuffer(cmd)); err != nil {
		return err
	}

	submit := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cmd},
	}
	if err := vkCheck("submit transfer", vk.QueueSubmit(queue, 1, []vk.SubmitInfo{submit}, vk.NullFence)); err != nil {
		return err
	}
	return vkCheck("wait for transfer", vk.QueueWaitIdle(queue))
}

// recordCommands re-records the frame's command buffer: one render pass
// over the acquired image, then one indexed draw per pooled instance
// with its transform and color pushed as constants.
func (r *Renderer) recordCommands(cmd vk.CommandBuffer, imageIndex uint32) error {
	if err := vkCheck("reset command buffer", vk.ResetCommandBuffer(cmd, 0)); err != nil {
		return err
	}

	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}
	if err := vkCheck("begin command buffer", vk.BeginCommandBuffer(cmd, &beginInfo)); err != nil {
		return err
	}

	var clear vk.ClearValue
	clear.SetColor([]float32{r.cfg.ClearColor.R, r.cfg.ClearColor.G, r.cfg.ClearColor.B, r.cfg.ClearColor.A})

	passInfo := vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      r.renderPass,
		Framebuffer:     r.swapchain.framebuffers[imageIndex],
		RenderArea:      r.swapchain.scissor,
		ClearValueCount: 1,
		PClearValues:    []vk.ClearValue{clear},
	}

	vk.CmdBeginRenderPass(cmd, &passInfo, vk.SubpassContentsInline)
	vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, r.pipeline)
	vk.CmdBindVertexBuffers(cmd, 0, 1, []vk.Buffer{r.vertexBuffer.buffer}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(cmd, r.indexBuffer.buffer, 0, vk.IndexTypeUint16)
	vk.CmdSetViewport(cmd, 0, 1, []vk.Viewport{r.swapchain.viewport})
	vk.CmdSetScissor(cmd, 0, 1, []vk.Rect2D{r.swapchain.scissor})
	vk.CmdBindDescriptorSets(cmd, vk.PipelineBindPointGraphics, r.pipelineLayout,
		0, 1, []vk.DescriptorSet{r.descSets[r.frame]}, 0, nil)

	r.stats.startPoolTimer()
	for i := range r.drawPool {
		inst := &r.drawPool[i]
		data := inst.pushData()
		vk.CmdPushConstants(cmd, r.pipelineLayout,
			vk.ShaderStageFlags(vk.ShaderStageVertexBit),
			0, pushConstantSize, unsafe.Pointer(&data[0]))
		vk.CmdDrawIndexed(cmd, inst.Mesh.IndexCount, 1, inst.Mesh.IndexOffset, 0, 0)
	}
	r.stats.stopPoolTimer()

	vk.CmdEndRenderPass(cmd)
	return vkCheck("end command buffer", vk.EndCommandBuffer(cmd))
}

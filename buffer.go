package koi

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// deviceBuffer is a GPU-local buffer filled once through a staging copy.
type deviceBuffer struct {
	buffer vk.Buffer
	memory vk.DeviceMemory
	size   vk.DeviceSize
}

func (b *deviceBuffer) destroy(device vk.Device) {
	vk.DestroyBuffer(device, b.buffer, nil)
	vk.FreeMemory(device, b.memory, nil)
}

// mappedBuffer is a host-visible buffer that stays mapped for its whole
// lifetime, used for the per-frame uniforms.
type mappedBuffer struct {
	buffer vk.Buffer
	memory vk.DeviceMemory
	ptr    unsafe.Pointer
	size   vk.DeviceSize
}

func (b *mappedBuffer) write(data []byte) {
	vk.Memcopy(b.ptr, data)
}

func (b *mappedBuffer) destroy(device vk.Device) {
	vk.UnmapMemory(device, b.memory)
	vk.DestroyBuffer(device, b.buffer, nil)
	vk.FreeMemory(device, b.memory, nil)
}

func findMemoryType(gpu vk.PhysicalDevice, typeFilter uint32, props vk.MemoryPropertyFlags) (uint32, error) {
	var memProps vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(gpu, &memProps)
	memProps.Deref()

	for i := uint32(0); i < memProps.MemoryTypeCount; i++ {
		memProps.MemoryTypes[i].Deref()
		if typeFilter&(1<<i) != 0 && memProps.MemoryTypes[i].PropertyFlags&props == props {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no memory type matches filter %#x with properties %#x", typeFilter, props)
}

func createBuffer(device vk.Device, gpu vk.PhysicalDevice, size vk.DeviceSize, usage vk.BufferUsageFlags, props vk.MemoryPropertyFlags) (vk.Buffer, vk.DeviceMemory, error) {
	createInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}

	var buffer vk.Buffer
	if err := vkCheck("create buffer", vk.CreateBuffer(device, &createInfo, nil, &buffer)); err != nil {
		return vk.NullBuffer, vk.NullDeviceMemory, err
	}

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device, buffer, &requirements)
	requirements.Deref()

	memType, err := findMemoryType(gpu, requirements.MemoryTypeBits, props)
	if err != nil {
		vk.DestroyBuffer(device, buffer, nil)
		return vk.NullBuffer, vk.NullDeviceMemory, err
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: memType,
	}

	var memory vk.DeviceMemory
	if err := vkCheck("allocate buffer memory", vk.AllocateMemory(device, &allocInfo, nil, &memory)); err != nil {
		vk.DestroyBuffer(device, buffer, nil)
		return vk.NullBuffer, vk.NullDeviceMemory, err
	}

	if err := vkCheck("bind buffer memory", vk.BindBufferMemory(device, buffer, memory, 0)); err != nil {
		vk.FreeMemory(device, memory, nil)
		vk.DestroyBuffer(device, buffer, nil)
		return vk.NullBuffer, vk.NullDeviceMemory, err
	}
	return buffer, memory, nil
}

// createDeviceLocalBuffer uploads data into a new device-local buffer
// through a temporary host-visible staging buffer.
func createDeviceLocalBuffer(device vk.Device, gpu vk.PhysicalDevice, queue vk.Queue, pool vk.CommandPool, usage vk.BufferUsageFlags, data []byte) (deviceBuffer, error) {
	size := vk.DeviceSize(len(data))

	staging, stagingMem, err := createBuffer(device, gpu, size,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return deviceBuffer{}, err
	}
	defer func() {
		vk.DestroyBuffer(device, staging, nil)
		vk.FreeMemory(device, stagingMem, nil)
	}()

	var ptr unsafe.Pointer
	if err := vkCheck("map staging memory", vk.MapMemory(device, stagingMem, 0, size, 0, &ptr)); err != nil {
		return deviceBuffer{}, err
	}
	vk.Memcopy(ptr, data)
	vk.UnmapMemory(device, stagingMem)

	buffer, memory, err := createBuffer(device, gpu, size,
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit)|usage,
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return deviceBuffer{}, err
	}

	if err := copyBuffer(device, queue, pool, staging, buffer, size); err != nil {
		vk.DestroyBuffer(device, buffer, nil)
		vk.FreeMemory(device, memory, nil)
		return deviceBuffer{}, err
	}
	return deviceBuffer{buffer: buffer, memory: memory, size: size}, nil
}

// createUniformBuffers allocates one persistently mapped uniform buffer
// per frame in flight.
func createUniformBuffers(device vk.Device, gpu vk.PhysicalDevice, frames int, size vk.DeviceSize) ([]mappedBuffer, error) {
	uniforms := make([]mappedBuffer, 0, frames)
	destroyAll := func() {
		for i := range uniforms {
			uniforms[i].destroy(device)
		}
	}

	for i := 0; i < frames; i++ {
		buffer, memory, err := createBuffer(device, gpu, size,
			vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
		if err != nil {
			destroyAll()
			return nil, err
		}

		var ptr unsafe.Pointer
		if err := vkCheck("map uniform memory", vk.MapMemory(device, memory, 0, size, 0, &ptr)); err != nil {
			vk.DestroyBuffer(device, buffer, nil)
			vk.FreeMemory(device, memory, nil)
			destroyAll()
			return nil, err
		}
		uniforms = append(uniforms, mappedBuffer{buffer: buffer, memory: memory, ptr: ptr, size: size})
	}
	return uniforms, nil
}

// f32Bytes views a float32 slice as raw bytes for an upload.
func f32Bytes(f []float32) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&f[0])), len(f)*4)
}

func vertexBytes(v []Vertex) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*vertexSize)
}

func indexBytes(i []uint16) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&i[0])), len(i)*2)
}

package koi

import (
	"fmt"
	"math"
	"time"

	vk "github.com/goki/vulkan"
)

// frameSlot is the per-frame synchronization state: a semaphore signaled
// when the swapchain image is acquired, one signaled when rendering
// finishes, and a fence that gates reuse of the slot's command buffer.
type frameSlot struct {
	acquire  vk.Semaphore
	release  vk.Semaphore
	inFlight vk.Fence
	command  vk.CommandBuffer
}

// createFrameSlots builds one slot per command buffer. Fences start
// signaled so the first frame does not wait forever.
func createFrameSlots(device vk.Device, commands []vk.CommandBuffer) ([]frameSlot, error) {
	slots := make([]frameSlot, 0, len(commands))
	destroyAll := func() {
		for i := range slots {
			slots[i].destroy(device)
		}
	}

	semInfo := vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	fenceInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}

	for _, cmd := range commands {
		var slot frameSlot
		slot.command = cmd

		if err := vkCheck("create acquire semaphore", vk.CreateSemaphore(device, &semInfo, nil, &slot.acquire)); err != nil {
			destroyAll()
			return nil, err
		}
		if err := vkCheck("create release semaphore", vk.CreateSemaphore(device, &semInfo, nil, &slot.release)); err != nil {
			vk.DestroySemaphore(device, slot.acquire, nil)
			destroyAll()
			return nil, err
		}
		if err := vkCheck("create in-flight fence", vk.CreateFence(device, &fenceInfo, nil, &slot.inFlight)); err != nil {
			vk.DestroySemaphore(device, slot.acquire, nil)
			vk.DestroySemaphore(device, slot.release, nil)
			destroyAll()
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func (s *frameSlot) destroy(device vk.Device) {
	vk.DestroySemaphore(device, s.acquire, nil)
	vk.DestroySemaphore(device, s.release, nil)
	vk.DestroyFence(device, s.inFlight, nil)
}

// waitFence blocks until the fence signals. A zero timeout waits
// forever; otherwise expiry is reported as ErrTimeout.
func waitFence(device vk.Device, fence vk.Fence, timeout time.Duration) error {
	ns := uint64(math.MaxUint64)
	if timeout > 0 {
		ns = uint64(timeout.Nanoseconds())
	}
	res := vk.WaitForFences(device, 1, []vk.Fence{fence}, vk.True, ns)
	if res == vk.Timeout {
		return fmt.Errorf("fence wait after %v: %w", timeout, ErrTimeout)
	}
	return vkCheck("wait for fence", res)
}

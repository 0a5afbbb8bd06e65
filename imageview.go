package koi

import (
	vk "github.com/goki/vulkan"
)

// createImageViews builds a color view per swapchain image. On partial
// failure the views created so far are destroyed before returning.
func createImageViews(device vk.Device, images []vk.Image, format vk.Format) ([]vk.ImageView, error) {
	views := make([]vk.ImageView, 0, len(images))
	for _, image := range images {
		createInfo := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    image,
			ViewType: vk.ImageViewType2d,
			Format:   format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}

		var view vk.ImageView
		if err := vkCheck("create image view", vk.CreateImageView(device, &createInfo, nil, &view)); err != nil {
			for _, v := range views {
				vk.DestroyImageView(device, v, nil)
			}
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

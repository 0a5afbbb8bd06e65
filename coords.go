package koi

// Screen space has its origin in the top-left corner, +X right, +Y down,
// measured in pixels:
//
//	0,0 __________ w,0
//	   |         |
//	   | w/2,h/2 |
//	0,h|_________| w,h
//
// World space has its origin at the window center and is normalized so the
// larger window dimension spans [-1, 1] while the smaller one spans a
// proportionally smaller range, preserving aspect ratio. For an 800x600
// window the top-left corner is (-4/3, -1) and the bottom-right is (4/3, 1).

// WorldExtent returns the world-space half extents for a window of
// width by height pixels.
func WorldExtent(width, height float32) (right, bottom float32) {
	if width > height {
		return width / height, 1.0
	}
	return 1.0, height / width
}

// ScreenToWorld converts a pixel position to world space.
func ScreenToWorld(x, y, width, height float32) (wx, wy float32) {
	right, bottom := WorldExtent(width, height)
	wx = -right + (x/width)*2*right
	wy = -bottom + (y/height)*2*bottom
	return wx, wy
}

// WorldToScreen converts a world position to pixel space.
func WorldToScreen(wx, wy, width, height float32) (x, y float32) {
	right, bottom := WorldExtent(width, height)
	x = (wx + right) / (2 * right) * width
	y = (wy + bottom) / (2 * bottom) * height
	return x, y
}

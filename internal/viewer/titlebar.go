package viewer

// clearColor is the framebuffer clear color; the title bar follows it on
// platforms that allow it.
var clearColor = [3]float32{0, 0, 0}

// colorRef packs an RGB color into the 0x00BBGGRR layout of a Win32 COLORREF.
func colorRef(r, g, b float32) uint32 {
	return uint32(toByte(r)) | uint32(toByte(g))<<8 | uint32(toByte(b))<<16
}

func toByte(c float32) uint8 {
	switch {
	case c <= 0:
		return 0
	case c >= 1:
		return 255
	}
	return uint8(c*255 + 0.5)
}

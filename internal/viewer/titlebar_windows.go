//go:build windows

package viewer

import (
	"syscall"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	dwmapi                    = syscall.NewLazyDLL("dwmapi.dll")
	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
)

const (
	dwmwaUseImmersiveDarkMode = 20
	dwmwaBorderColor          = 34
	dwmwaCaptionColor         = 35
)

// matchTitleBar switches the window frame to dark mode and paints the
// caption and border with the clear color. Older Windows builds ignore the
// attributes.
func matchTitleBar(window *glfw.Window, color [3]float32) {
	hwnd := window.GetWin32Window()
	if hwnd == nil {
		return
	}

	var darkMode int32 = 1
	setWindowAttribute(uintptr(unsafe.Pointer(hwnd)), dwmwaUseImmersiveDarkMode, unsafe.Pointer(&darkMode), unsafe.Sizeof(darkMode))

	ref := colorRef(color[0], color[1], color[2])
	setWindowAttribute(uintptr(unsafe.Pointer(hwnd)), dwmwaBorderColor, unsafe.Pointer(&ref), unsafe.Sizeof(ref))
	setWindowAttribute(uintptr(unsafe.Pointer(hwnd)), dwmwaCaptionColor, unsafe.Pointer(&ref), unsafe.Sizeof(ref))
}

func setWindowAttribute(hwnd uintptr, attribute uintptr, value unsafe.Pointer, size uintptr) {
	procDwmSetWindowAttribute.Call(hwnd, attribute, uintptr(value), size)
}

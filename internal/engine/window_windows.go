//go:build windows

package engine

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

func setDarkTitleBar(window *glfw.Window) {
	win32 := window.GetWin32Window()
	if win32 == nil {
		return
	}
	hwnd := unsafe.Pointer(win32)

	var useDarkMode int32 = 1
	setWindowAttribute(hwnd, dwmwaUseImmersiveDarkMode, unsafe.Pointer(&useDarkMode), unsafe.Sizeof(useDarkMode))

	var borderColour uint32 = 0x00000000
	setWindowAttribute(hwnd, dwmwaBorderColor, unsafe.Pointer(&borderColour), unsafe.Sizeof(borderColour))

	var captionColour uint32 = 0x00202020
	setWindowAttribute(hwnd, dwmwaCaptionColor, unsafe.Pointer(&captionColour), unsafe.Sizeof(captionColour))
}

func setWindowAttribute(hwnd unsafe.Pointer, attr uintptr, value unsafe.Pointer, size uintptr) {
	procDwmSetWindowAttribute.Call(uintptr(hwnd), attr, uintptr(value), size)
}

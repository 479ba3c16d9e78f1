package termimg

import (
	"os"
	"os/exec"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32               = windows.NewLazyDLL("kernel32.dll")
	procGetCurrentConsoleFont = modkernel32.NewProc("GetCurrentConsoleFont")
)

type consoleFontInfo struct {
	nFont      uint32
	dwFontSize windows.Coord
}

// cellSize returns the pixel size of one console cell, taken from the
// current console font.
func cellSize() (int, int) {
	handle := windows.Handle(os.Stdout.Fd())

	var cfi consoleFontInfo
	r, _, _ := procGetCurrentConsoleFont.Call(uintptr(handle), 0, uintptr(unsafe.Pointer(&cfi)))
	if r == 0 || cfi.dwFontSize.X <= 0 || cfi.dwFontSize.Y <= 0 {
		return fallbackCellWidth, fallbackCellHeight
	}
	return int(cfi.dwFontSize.X), int(cfi.dwFontSize.Y)
}

// Clear the screen using the OS-native command.
// This is necessary to avoid visual glitches caused by showing the images.
func ClearScreen() {
	cmd := exec.Command("cmd", "/c", "cls")
	cmd.Stdout = os.Stdout
	cmd.Run()
}

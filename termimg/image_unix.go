//go:build !windows

package termimg

import (
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// cellSize returns the pixel size of one terminal cell.
func cellSize() (int, int) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 || ws.Xpixel == 0 || ws.Ypixel == 0 {
		return fallbackCellWidth, fallbackCellHeight
	}
	return max(1, int(ws.Xpixel)/int(ws.Col)), max(1, int(ws.Ypixel)/int(ws.Row))
}

// Clear the screen using the OS-native command.
// This is necessary to avoid visual glitches caused by showing the images.
func ClearScreen() {
	cmd := exec.Command("clear")
	cmd.Stdout = os.Stdout
	cmd.Run()
}

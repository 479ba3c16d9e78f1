// Package termimg renders cover art for terminals speaking the kitty
// graphics protocol.
package termimg

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dolmen-go/kittyimg"
	"github.com/nfnt/resize"
)

// Cell size assumed when the terminal won't report its pixel dimensions.
const (
	fallbackCellWidth  = 8
	fallbackCellHeight = 16
)

// TerminalImage is an encoded image along with the number of terminal
// cells it covers.
type TerminalImage struct {
	W    int
	H    int
	Data string
}

func (t TerminalImage) Empty() bool {
	return t.Data == ""
}

func cropToSquare(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	size := min(h, w)
	x0 := b.Min.X + (w-size)/2
	y0 := b.Min.Y + (h-size)/2
	rect := image.Rect(x0, y0, x0+size, y0+size)
	return img.(interface {
		SubImage(r image.Rectangle) image.Image
	}).SubImage(rect)
}

// Encode decodes a jpeg or png, crops it to a square and scales it down to
// at most maxCols terminal columns. Empty data gives an empty image.
func Encode(data []byte, maxCols int) (TerminalImage, error) {
	if len(data) == 0 {
		return TerminalImage{}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return TerminalImage{}, fmt.Errorf("failed to decode artwork: %w", err)
	}
	square := cropToSquare(img)

	cellW, cellH := cellSize()
	maxPx := maxCols * cellW
	if maxPx > 0 && square.Bounds().Dx() > maxPx {
		square = resize.Resize(uint(maxPx), uint(maxPx), square, resize.Lanczos3)
	}

	var w bytes.Buffer
	if err := kittyimg.Fprint(&w, square); err != nil {
		return TerminalImage{}, fmt.Errorf("failed to encode artwork: %w", err)
	}

	px := square.Bounds().Dx()
	return TerminalImage{
		W:    ceilDiv(px, cellW),
		H:    ceilDiv(px, cellH),
		Data: w.String(),
	}, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

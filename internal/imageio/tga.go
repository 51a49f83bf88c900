package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
)

const (
	tgaHeaderLen     = 18
	tgaTypeTrueColor = 2
	tgaOriginTopLeft = 0x20
	tgaAlphaBits     = 0x08
)

// EncodeTGA writes img as an uncompressed true-color Targa file with a
// top-left origin. Opaque images use 24-bit BGR, others 32-bit BGRA.
func EncodeTGA(w io.Writer, img image.Image) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width > math.MaxUint16 || height > math.MaxUint16 {
		return fmt.Errorf("tga: %dx%d exceeds 65535x65535", width, height)
	}

	depth := byte(32)
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		depth = 24
	}

	var header [tgaHeaderLen]byte
	header[2] = tgaTypeTrueColor
	header[12] = byte(width)
	header[13] = byte(width >> 8)
	header[14] = byte(height)
	header[15] = byte(height >> 8)
	header[16] = depth
	header[17] = tgaOriginTopLeft
	if depth == 32 {
		header[17] |= tgaAlphaBits
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}

	px := make([]byte, 0, 4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			px = append(px[:0], c.B, c.G, c.R)
			if depth == 32 {
				px = append(px, c.A)
			}
			if _, err := bw.Write(px); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// Package texture colors grayscale noise images.
package texture

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// Tint maps gray level 0 to Low and 255 to High, interpolating each channel
// linearly in between.
type Tint struct {
	Low  color.NRGBA
	High color.NRGBA
}

// Grayscale is the identity tint.
var Grayscale = Tint{
	Low:  color.NRGBA{A: 255},
	High: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
}

// ParseTint parses "low,high" where both colors are hex (#rgb, #rrggbb or
// #rrggbbaa). An empty string yields Grayscale.
func ParseTint(s string) (Tint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Grayscale, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Tint{}, fmt.Errorf("tint %q: expected two colors separated by a comma", s)
	}
	low, err := ParseHexColor(parts[0])
	if err != nil {
		return Tint{}, err
	}
	high, err := ParseHexColor(parts[1])
	if err != nil {
		return Tint{}, err
	}
	return Tint{Low: low, High: high}, nil
}

// ParseHexColor parses #rgb, #rrggbb or #rrggbbaa (the # is optional).
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// IsGrayscale reports whether Apply would leave the image unchanged.
func (t Tint) IsGrayscale() bool {
	return t == Grayscale
}

// String formats t the way ParseTint reads it.
func (t Tint) String() string {
	return hex(t.Low) + "," + hex(t.High)
}

func hex(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Apply returns a colored copy of src. The image keeps its bounds.
func (t Tint) Apply(src *image.Gray) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)

	var lut [256][4]uint8
	for g := range lut {
		lut[g] = [4]uint8{
			lerp8(t.Low.R, t.High.R, g),
			lerp8(t.Low.G, t.High.G, g),
			lerp8(t.Low.B, t.High.B, g),
			lerp8(t.Low.A, t.High.A, g),
		}
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			c := lut[src.Pix[si+x]]
			copy(dst.Pix[di+4*x:di+4*x+4], c[:])
		}
	}
	return dst
}

// lerp8 interpolates a..b at g/255, rounding to nearest.
func lerp8(a, b uint8, g int) uint8 {
	return uint8((int(a)*(255-g) + int(b)*g + 127) / 255)
}

package texture

import (
	"image"
	"image/color"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#000", color.NRGBA{A: 255}},
		{"#fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"1a2b3c", color.NRGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 255}},
		{"#1A2B3C80", color.NRGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 0x80}},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if err != nil {
			t.Fatalf("ParseHexColor(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "#12", "#12345", "#gggggg"} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Errorf("ParseHexColor(%q) expected error", bad)
		}
	}
}

func TestParseTint(t *testing.T) {
	tint, err := ParseTint("")
	if err != nil || !tint.IsGrayscale() {
		t.Fatalf("empty tint = %v, %v; want grayscale", tint, err)
	}

	tint, err = ParseTint("#102030, #f0e0d0")
	if err != nil {
		t.Fatal(err)
	}
	if got := tint.String(); got != "#102030,#f0e0d0" {
		t.Errorf("String() = %q", got)
	}
	if tint.IsGrayscale() {
		t.Error("custom tint reported as grayscale")
	}

	if _, err := ParseTint("#000"); err == nil {
		t.Error("single color should fail")
	}
}

func TestTintApply(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 1))
	src.Pix = []uint8{0, 255, 128}

	tint := Tint{
		Low:  color.NRGBA{R: 0, G: 100, B: 200, A: 255},
		High: color.NRGBA{R: 200, G: 100, B: 0, A: 255},
	}
	dst := tint.Apply(src)

	if got := dst.NRGBAAt(0, 0); got != tint.Low {
		t.Errorf("gray 0 -> %v, want %v", got, tint.Low)
	}
	if got := dst.NRGBAAt(1, 0); got != tint.High {
		t.Errorf("gray 255 -> %v, want %v", got, tint.High)
	}
	mid := dst.NRGBAAt(2, 0)
	if mid.R != 100 || mid.G != 100 || mid.B != 100 || mid.A != 255 {
		t.Errorf("gray 128 -> %v, want ~{100 100 100 255}", mid)
	}
}

func TestGrayscaleApplyIsIdentity(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 16, 16))
	for i := range src.Pix {
		src.Pix[i] = uint8(i)
	}
	dst := Grayscale.Apply(src)
	for i, g := range src.Pix {
		c := dst.Pix[4*i : 4*i+4]
		if c[0] != g || c[1] != g || c[2] != g || c[3] != 255 {
			t.Fatalf("pixel %d: gray %d -> %v", i, g, c)
		}
	}
}

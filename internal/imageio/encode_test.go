package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func grayRamp(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y*w) % 256)})
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"png":  FormatPNG,
		".BMP": FormatBMP,
		"tif":  FormatTIFF,
		"tiff": FormatTIFF,
		"tga":  FormatTGA,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("jpeg")
	assert.Error(t, err)

	f, err := FormatFromPath("out/noise.tga")
	require.NoError(t, err)
	assert.Equal(t, FormatTGA, f)

	_, err = FormatFromPath("noise")
	assert.Error(t, err)

	assert.Equal(t, ".tif", FormatTIFF.Extension())
	assert.Equal(t, "image/png", FormatPNG.ContentType())
}

func TestParsePNGCompression(t *testing.T) {
	level, err := ParsePNGCompression("best")
	require.NoError(t, err)
	assert.Equal(t, png.BestCompression, level)

	_, err = ParsePNGCompression("ultra")
	assert.Error(t, err)
}

func TestEncode_RoundTrip(t *testing.T) {
	src := grayRamp(16, 8)

	decoders := map[Format]func(*bytes.Reader) (image.Image, error){
		FormatPNG:  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		FormatBMP:  func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
		FormatTIFF: func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
	}

	for format, decode := range decoders {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, src, Options{Format: format, PNGCompression: "speed"}))

			got, err := decode(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			require.Equal(t, src.Bounds(), got.Bounds())

			for _, p := range []image.Point{{0, 0}, {5, 3}, {15, 7}} {
				want := src.GrayAt(p.X, p.Y).Y
				g := color.GrayModel.Convert(got.At(p.X, p.Y)).(color.Gray).Y
				assert.Equal(t, want, g, "pixel %v", p)
			}
		})
	}
}

func TestEncodeTGA_Header24(t *testing.T) {
	src := grayRamp(300, 2)

	var buf bytes.Buffer
	require.NoError(t, EncodeTGA(&buf, src))

	data := buf.Bytes()
	require.Len(t, data, tgaHeaderLen+300*2*3)

	assert.Equal(t, byte(0), data[0])
	assert.Equal(t, byte(0), data[1])
	assert.Equal(t, byte(2), data[2])
	assert.Equal(t, []byte{44, 1}, data[12:14]) // 300 little endian
	assert.Equal(t, []byte{2, 0}, data[14:16])
	assert.Equal(t, byte(24), data[16])
	assert.Equal(t, byte(0x20), data[17])

	// Pixel (1,0) is gray 1 -> BGR 1,1,1.
	assert.Equal(t, []byte{1, 1, 1}, data[tgaHeaderLen+3:tgaHeaderLen+6])
}

func TestEncodeTGA_Alpha32(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	var buf bytes.Buffer
	require.NoError(t, EncodeTGA(&buf, src))

	data := buf.Bytes()
	assert.Equal(t, byte(32), data[16])
	assert.Equal(t, byte(0x28), data[17])
	assert.Equal(t, []byte{30, 20, 10, 128}, data[tgaHeaderLen:])
}

func TestEncodeTGA_TooLarge(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 70000, 1))
	assert.Error(t, EncodeTGA(&bytes.Buffer{}, src))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "noise.png")

	require.NoError(t, WriteFile(path, grayRamp(4, 4), Options{Format: FormatPNG}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

// Package imageio writes rendered noise images in the formats the CLI and
// tile server offer.
package imageio

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output image format.
type Format int

const (
	FormatPNG Format = iota
	FormatBMP
	FormatTIFF
	FormatTGA
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	case FormatTGA:
		return "tga"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	if f == FormatTIFF {
		return ".tif"
	}
	return "." + f.String()
}

// ContentType returns the MIME type used when serving the format over HTTP.
func (f Format) ContentType() string {
	switch f {
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	case FormatTGA:
		return "image/x-tga"
	default:
		return "image/png"
	}
}

// ParseFormat parses a format name (png, bmp, tiff, tga).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "tga":
		return FormatTGA, nil
	default:
		return FormatPNG, fmt.Errorf("unsupported image format %q (png, bmp, tiff, tga)", s)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return FormatPNG, fmt.Errorf("output path %q has no extension", path)
	}
	return ParseFormat(ext)
}

// Options controls encoding.
type Options struct {
	Format Format
	// PNGCompression is one of default, speed, best, none. Ignored for
	// other formats.
	PNGCompression string
}

// ParsePNGCompression maps a compression name to a png level.
func ParsePNGCompression(s string) (png.CompressionLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return png.DefaultCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	case "none":
		return png.NoCompression, nil
	default:
		return png.DefaultCompression, fmt.Errorf("invalid png compression %q (default, speed, best, none)", s)
	}
}

// Encode writes img to w.
func Encode(w io.Writer, img image.Image, opts Options) error {
	switch opts.Format {
	case FormatPNG:
		level, err := ParsePNGCompression(opts.PNGCompression)
		if err != nil {
			return err
		}
		enc := png.Encoder{CompressionLevel: level}
		return enc.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatTGA:
		return EncodeTGA(w, img)
	default:
		return fmt.Errorf("unsupported image format %s", opts.Format)
	}
}

// WriteFile encodes img into a new file at path, creating parent directories.
func WriteFile(path string, img image.Image, opts Options) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image %s: %w", path, err)
	}

	if err := Encode(file, img, opts); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode image %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close image %s: %w", path, err)
	}
	return nil
}

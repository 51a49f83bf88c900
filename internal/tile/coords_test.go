package tile

import (
	"testing"

	"github.com/paulmach/orb/maptile"
)

func TestCoordsString(t *testing.T) {
	tests := []struct {
		coords   Coords
		expected string
	}{
		{Coords{Z: 13, X: 4297, Y: 2754}, "z13_x4297_y2754"},
		{Coords{Z: 0, X: 0, Y: 0}, "z0_x0_y0"},
		{Coords{Z: 18, X: 12345, Y: 67890}, "z18_x12345_y67890"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := tt.coords.String()
			if result != tt.expected {
				t.Errorf("String() = %s, want %s", result, tt.expected)
			}
		})
	}
}

func TestCoordsPath(t *testing.T) {
	coords := Coords{Z: 3, X: 5, Y: 1}

	tests := []struct {
		ext      string
		expected string
	}{
		{"png", "z3_x5_y1.png"},
		{"tga", "z3_x5_y1.tga"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			result := coords.Path(tt.ext)
			if result != tt.expected {
				t.Errorf("Path(%s) = %s, want %s", tt.ext, result, tt.expected)
			}
		})
	}
}

func TestCoordsTile(t *testing.T) {
	tl := Coords{Z: 4, X: 3, Y: 9}.Tile()
	if tl.X != 3 || tl.Y != 9 || tl.Z != maptile.Zoom(4) {
		t.Errorf("Tile() = %+v", tl)
	}
}

func TestCoordsValid(t *testing.T) {
	tests := []struct {
		coords Coords
		valid  bool
	}{
		{Coords{Z: 0, X: 0, Y: 0}, true},
		{Coords{Z: 0, X: 1, Y: 0}, false},
		{Coords{Z: 2, X: 3, Y: 3}, true},
		{Coords{Z: 2, X: 4, Y: 0}, false},
		{Coords{Z: MaxZoom + 1}, false},
	}

	for _, tt := range tests {
		if got := tt.coords.Valid(); got != tt.valid {
			t.Errorf("%s.Valid() = %v, want %v", tt.coords, got, tt.valid)
		}
	}
}

func TestCoordsBound(t *testing.T) {
	b := Coords{Z: 0}.Bound(16)
	if b.Min.X() != 0 || b.Min.Y() != 0 || b.Max.X() != 16 || b.Max.Y() != 16 {
		t.Errorf("zoom 0 bound = %v, want [0,0]-[16,16]", b)
	}

	b = Coords{Z: 2, X: 1, Y: 3}.Bound(16)
	if b.Min.X() != 4 || b.Min.Y() != 12 || b.Max.X() != 8 || b.Max.Y() != 16 {
		t.Errorf("z2_x1_y3 bound = %v, want [4,12]-[8,16]", b)
	}
}

func TestCoordsBound_ChildrenTileParent(t *testing.T) {
	parent := Coords{Z: 3, X: 2, Y: 5}.Bound(32)

	for _, child := range []Coords{{4, 4, 10}, {4, 5, 10}, {4, 4, 11}, {4, 5, 11}} {
		b := child.Bound(32)
		if b.Min.X() < parent.Min.X() || b.Max.X() > parent.Max.X() ||
			b.Min.Y() < parent.Min.Y() || b.Max.Y() > parent.Max.Y() {
			t.Errorf("child %s bound %v not inside parent %v", child, b, parent)
		}
	}
}

func TestParseCoords(t *testing.T) {
	tests := []struct {
		input    string
		expected Coords
		wantErr  bool
	}{
		{"z13_x4297_y2754", Coords{Z: 13, X: 4297, Y: 2754}, false},
		{"z0_x0_y0", Coords{}, false},
		{"z1_x2_y0", Coords{}, true},
		{"invalid", Coords{}, true},
		{"13/4297/2754", Coords{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseCoords(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseCoords(%s) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseCoords(%s) unexpected error: %v", tt.input, err)
				return
			}
			if result != tt.expected {
				t.Errorf("ParseCoords(%s) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTileRange(t *testing.T) {
	r := TileRange{MinZ: 1, MaxZ: 2, MinX: 0, MaxX: 2, MinY: 0, MaxY: 0}

	// z1 has x 0..1 valid, z2 has x 0..2.
	if got := r.Count(); got != 5 {
		t.Errorf("Count() = %d, want 5", got)
	}
}

func TestPyramid(t *testing.T) {
	tiles, err := Pyramid(0, 2)
	if err != nil {
		t.Fatalf("Pyramid: %v", err)
	}
	if len(tiles) != 21 {
		t.Fatalf("len = %d, want 21", len(tiles))
	}
	if tiles[0] != (Coords{}) {
		t.Errorf("first tile = %s, want z0_x0_y0", tiles[0])
	}
	if last := tiles[len(tiles)-1]; last != (Coords{Z: 2, X: 3, Y: 3}) {
		t.Errorf("last tile = %s, want z2_x3_y3", last)
	}
	if Count(0, 2) != len(tiles) {
		t.Errorf("Count(0, 2) = %d, want %d", Count(0, 2), len(tiles))
	}

	if _, err := Pyramid(3, 1); err == nil {
		t.Error("expected error for inverted range")
	}
	if _, err := Pyramid(0, MaxZoom+1); err == nil {
		t.Error("expected error for zoom beyond MaxZoom")
	}
	if Count(3, 1) != 0 {
		t.Error("Count of inverted range should be 0")
	}
}

// Package tile addresses square regions of the noise plane with the XYZ
// scheme used by web map clients.
package tile

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// MaxZoom is the deepest zoom level accepted by the pyramid helpers.
const MaxZoom = 24

// Coords represents a tile coordinate (z/x/y). At zoom z the plane is cut
// into 2^z x 2^z tiles.
type Coords struct {
	Z uint32 // Zoom level
	X uint32 // X coordinate (column)
	Y uint32 // Y coordinate (row)
}

// NewCoords creates a new Coords from zoom, x, y values
func NewCoords(z, x, y uint32) Coords {
	return Coords{Z: z, X: x, Y: y}
}

// String returns the tile coordinate as a string in format "z{zoom}_x{x}_y{y}"
func (c Coords) String() string {
	return fmt.Sprintf("z%d_x%d_y%d", c.Z, c.X, c.Y)
}

// Path returns the file name for this tile
func (c Coords) Path(extension string) string {
	return fmt.Sprintf("%s.%s", c.String(), extension)
}

// Tile returns the maptile.Tile for this coordinate
func (c Coords) Tile() maptile.Tile {
	return maptile.New(c.X, c.Y, maptile.Zoom(c.Z))
}

// Valid reports whether x and y lie inside the grid of the tile's zoom.
func (c Coords) Valid() bool {
	if c.Z > MaxZoom {
		return false
	}
	n := uint32(1) << c.Z
	return c.X < n && c.Y < n
}

// Bound returns the square of lattice space covered by the tile when the
// zoom 0 tile spans period lattice units on each axis. Because the noise
// repeats every dimension length, rendering with period equal to the lattice
// dimension length gives a zoom 0 tile that wraps seamlessly.
func (c Coords) Bound(period float64) orb.Bound {
	t := c.Tile()
	size := period / float64(uint64(1)<<uint(t.Z))
	minX := float64(t.X) * size
	minY := float64(t.Y) * size
	return orb.Bound{
		Min: orb.Point{minX, minY},
		Max: orb.Point{minX + size, minY + size},
	}
}

// ParseCoords parses a tile string like "z13_x4297_y2754" into Coords
func ParseCoords(s string) (Coords, error) {
	var c Coords
	_, err := fmt.Sscanf(s, "z%d_x%d_y%d", &c.Z, &c.X, &c.Y)
	if err != nil {
		return c, fmt.Errorf("invalid tile coordinate format: %s", s)
	}
	if !c.Valid() {
		return c, fmt.Errorf("tile %s is outside the zoom %d grid", c, c.Z)
	}
	return c, nil
}

// TileRange represents a range of tiles to render
type TileRange struct {
	MinZ, MaxZ uint32 // Zoom range
	MinX, MaxX uint32 // X range
	MinY, MaxY uint32 // Y range
}

// ForEach calls the given function for each valid tile in the range
func (r TileRange) ForEach(fn func(Coords)) {
	for z := r.MinZ; z <= r.MaxZ; z++ {
		for x := r.MinX; x <= r.MaxX; x++ {
			for y := r.MinY; y <= r.MaxY; y++ {
				c := NewCoords(z, x, y)
				if c.Valid() {
					fn(c)
				}
			}
		}
	}
}

// Count returns the number of valid tiles in this range
func (r TileRange) Count() int {
	count := 0
	r.ForEach(func(Coords) { count++ })
	return count
}

// Pyramid returns every tile from zoomMin to zoomMax, lowest zoom first.
func Pyramid(zoomMin, zoomMax uint32) ([]Coords, error) {
	if zoomMin > zoomMax {
		return nil, fmt.Errorf("zoom-min %d is greater than zoom-max %d", zoomMin, zoomMax)
	}
	if zoomMax > MaxZoom {
		return nil, fmt.Errorf("zoom-max %d exceeds %d", zoomMax, MaxZoom)
	}

	tiles := make([]Coords, 0, Count(zoomMin, zoomMax))
	for z := zoomMin; z <= zoomMax; z++ {
		n := uint32(1) << z
		for y := uint32(0); y < n; y++ {
			for x := uint32(0); x < n; x++ {
				tiles = append(tiles, NewCoords(z, x, y))
			}
		}
	}
	return tiles, nil
}

// Count returns the number of tiles Pyramid would produce, or 0 for an
// invalid range. This is useful for progress estimation without allocating
// the full tile list.
func Count(zoomMin, zoomMax uint32) int {
	if zoomMin > zoomMax || zoomMax > MaxZoom {
		return 0
	}
	count := 0
	for z := zoomMin; z <= zoomMax; z++ {
		count += 1 << (2 * z)
	}
	return count
}

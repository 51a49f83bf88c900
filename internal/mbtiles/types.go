// Package mbtiles stores rendered noise tiles in MBTiles (SQLite) databases.
package mbtiles

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrTileNotFound is returned by Reader.ReadTile for missing tiles.
var ErrTileNotFound = errors.New("tile not found")

// Metadata contains the MBTiles metadata fields, plus the noise parameters
// needed to reproduce the tileset.
type Metadata struct {
	Name        string // Human-readable tileset identifier
	Format      string // Tile data type (png)
	Description string
	Type        string // "baselayer" or "overlay"
	Version     string
	MinZoom     int
	MaxZoom     int
	Noise       NoiseParams
}

// NoiseParams records how the tiles were generated.
type NoiseParams struct {
	Seed            int64
	DimensionLength uint32
	Method          string // noise2d, fsum2d, perlin
	Scheme          string // interpolation scheme
	Wrap            string
	Octaves         int
	AmplitudeRatio  float64
	FrequencyRatio  float64
	Period          float64 // lattice units spanned by the zoom 0 tile
	TileSize        int
}

// ToMap converts Metadata to a map for database insertion. Zero values are
// omitted.
func (m Metadata) ToMap() map[string]string {
	result := make(map[string]string)

	set := func(key, value string) {
		if value != "" {
			result[key] = value
		}
	}
	setFloat := func(key string, v float64) {
		if v != 0 {
			result[key] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}

	set("name", m.Name)
	set("format", m.Format)
	set("description", m.Description)
	set("type", m.Type)
	set("version", m.Version)
	// Zoom 0 is a valid minimum, so it is always written.
	result["minzoom"] = strconv.Itoa(m.MinZoom)
	result["maxzoom"] = strconv.Itoa(m.MaxZoom)

	n := m.Noise
	result["seed"] = strconv.FormatInt(n.Seed, 10)
	if n.DimensionLength > 0 {
		result["dimension_length"] = strconv.FormatUint(uint64(n.DimensionLength), 10)
	}
	set("method", n.Method)
	set("scheme", n.Scheme)
	set("wrap", n.Wrap)
	if n.Octaves > 0 {
		result["octaves"] = strconv.Itoa(n.Octaves)
	}
	setFloat("amplitude_ratio", n.AmplitudeRatio)
	setFloat("frequency_ratio", n.FrequencyRatio)
	setFloat("period", n.Period)
	if n.TileSize > 0 {
		result["tile_size"] = strconv.Itoa(n.TileSize)
	}

	return result
}

// MetadataFromMap parses the metadata table. Unknown keys are ignored.
func MetadataFromMap(m map[string]string) (Metadata, error) {
	meta := Metadata{
		Name:        m["name"],
		Format:      m["format"],
		Description: m["description"],
		Type:        m["type"],
		Version:     m["version"],
	}
	meta.Noise.Method = m["method"]
	meta.Noise.Scheme = m["scheme"]
	meta.Noise.Wrap = m["wrap"]

	ints := []struct {
		key string
		dst *int
	}{
		{"minzoom", &meta.MinZoom},
		{"maxzoom", &meta.MaxZoom},
		{"octaves", &meta.Noise.Octaves},
		{"tile_size", &meta.Noise.TileSize},
	}
	for _, f := range ints {
		if v, ok := m[f.key]; ok {
			i, err := strconv.Atoi(v)
			if err != nil {
				return meta, fmt.Errorf("metadata %s: %w", f.key, err)
			}
			*f.dst = i
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"amplitude_ratio", &meta.Noise.AmplitudeRatio},
		{"frequency_ratio", &meta.Noise.FrequencyRatio},
		{"period", &meta.Noise.Period},
	}
	for _, f := range floats {
		if v, ok := m[f.key]; ok {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return meta, fmt.Errorf("metadata %s: %w", f.key, err)
			}
			*f.dst = x
		}
	}

	if v, ok := m["seed"]; ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return meta, fmt.Errorf("metadata seed: %w", err)
		}
		meta.Noise.Seed = seed
	}
	if v, ok := m["dimension_length"]; ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return meta, fmt.Errorf("metadata dimension_length: %w", err)
		}
		meta.Noise.DimensionLength = uint32(n)
	}

	return meta, nil
}

package mbtiles

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/latticenoise/internal/tile"
)

func TestReader_RoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.mbtiles")

	w, err := New(dbPath, testMetadata())
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}

	tiles, err := tile.Pyramid(0, 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range tiles {
		if err := w.WriteTile(c, []byte("png "+c.String())); err != nil {
			t.Fatalf("Failed to write tile %s: %v", c, err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	r, err := OpenReader(dbPath)
	if err != nil {
		t.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	n, err := r.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != len(tiles) {
		t.Errorf("Count() = %d, want %d", n, len(tiles))
	}

	for _, c := range tiles {
		data, err := r.ReadTile(c)
		if err != nil {
			t.Fatalf("Failed to read tile %s: %v", c, err)
		}
		if want := "png " + c.String(); string(data) != want {
			t.Errorf("Tile %s data mismatch: got %q, want %q", c, data, want)
		}
	}
}

func TestReader_Metadata(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.mbtiles")
	expected := testMetadata()

	w, err := New(dbPath, expected)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	r, err := OpenReader(dbPath)
	if err != nil {
		t.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	meta, err := r.Metadata()
	if err != nil {
		t.Fatalf("Failed to read metadata: %v", err)
	}

	if meta != expected {
		t.Errorf("Metadata mismatch:\n got  %+v\n want %+v", meta, expected)
	}
}

func TestMetadataFromMap_Invalid(t *testing.T) {
	if _, err := MetadataFromMap(map[string]string{"octaves": "many"}); err == nil {
		t.Error("Expected error for non-numeric octaves")
	}
	if _, err := MetadataFromMap(map[string]string{"seed": "1.5"}); err == nil {
		t.Error("Expected error for fractional seed")
	}
}

func TestReader_TileNotFound(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.mbtiles")

	w, err := New(dbPath, Metadata{Name: "Test", Format: "png"})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	r, err := OpenReader(dbPath)
	if err != nil {
		t.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	_, err = r.ReadTile(tile.NewCoords(2, 1, 1))
	if !errors.Is(err, ErrTileNotFound) {
		t.Errorf("Expected ErrTileNotFound, got %v", err)
	}

	_, err = r.ReadTile(tile.NewCoords(0, 3, 0))
	if !errors.Is(err, ErrTileNotFound) {
		t.Errorf("Expected ErrTileNotFound for out-of-grid tile, got %v", err)
	}
}

func TestReader_InvalidDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "invalid.mbtiles")

	if err := os.WriteFile(dbPath, []byte("not a database"), 0o644); err != nil {
		t.Fatalf("Failed to create invalid file: %v", err)
	}

	if _, err := OpenReader(dbPath); err == nil {
		t.Error("Expected error for invalid database, got nil")
	}
}

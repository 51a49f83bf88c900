package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MeKo-Tech/latticenoise/internal/mbtiles"
)

// MBTilesHandler serves tiles from an MBTiles database.
type MBTilesHandler struct {
	reader       *mbtiles.Reader
	logger       *slog.Logger
	cacheControl string
	meta         mbtiles.Metadata
}

// MBTilesConfig configures the MBTiles handler.
type MBTilesConfig struct {
	MBTilesPath  string
	CacheControl string
}

// NewMBTilesHandler opens the database and reads its metadata.
func NewMBTilesHandler(cfg MBTilesConfig, logger *slog.Logger) (*MBTilesHandler, error) {
	reader, err := mbtiles.OpenReader(cfg.MBTilesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open MBTiles: %w", err)
	}

	meta, err := reader.Metadata()
	if err != nil {
		reader.Close()
		return nil, err
	}
	if meta.Format == "" {
		meta.Format = "png"
	}

	if cfg.CacheControl == "" {
		cfg.CacheControl = "public, max-age=86400"
	}

	return &MBTilesHandler{
		reader:       reader,
		logger:       logger,
		cacheControl: cfg.CacheControl,
		meta:         meta,
	}, nil
}

// Metadata returns the tileset metadata.
func (h *MBTilesHandler) Metadata() mbtiles.Metadata { return h.meta }

// Handler returns the HTTP handler function.
func (h *MBTilesHandler) Handler() http.HandlerFunc {
	return h.serveTile
}

func (h *MBTilesHandler) serveTile(w http.ResponseWriter, r *http.Request) {
	coords, suffix, ok := parseTilePath(r.URL.Path, "."+h.meta.Format)
	if !ok {
		http.NotFound(w, r)
		return
	}

	// MBTiles hold a single tile size; @2x requests get the stored tile.
	_ = suffix

	data, err := h.reader.ReadTile(coords)
	if errors.Is(err, mbtiles.ErrTileNotFound) {
		tileRequestsTotal.WithLabelValues("mbtiles", "not_found").Inc()
		http.Error(w, "tile not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log().Error("Failed to read tile", "coords", coords.String(), "error", err)
		tileRequestsTotal.WithLabelValues("mbtiles", "error").Inc()
		http.Error(w, "failed to read tile", http.StatusInternalServerError)
		return
	}

	tileRequestsTotal.WithLabelValues("mbtiles", "ok").Inc()
	w.Header().Set("Cache-Control", h.cacheControl)
	w.Header().Set("Content-Type", "image/"+h.meta.Format)
	if _, err := w.Write(data); err != nil {
		h.log().Error("Failed to write response", "error", err)
	}
}

// Close closes the MBTiles reader.
func (h *MBTilesHandler) Close() error {
	return h.reader.Close()
}

func (h *MBTilesHandler) log() *slog.Logger {
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}

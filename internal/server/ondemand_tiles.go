// Package server serves noise tiles over HTTP, rendered on demand or read
// from an MBTiles database.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MeKo-Tech/latticenoise/internal/pipeline"
	"github.com/MeKo-Tech/latticenoise/internal/tile"
)

// OnDemandTilesConfig configures on-demand rendering.
type OnDemandTilesConfig struct {
	// CacheDir stores rendered tiles. Empty disables the disk cache.
	CacheDir             string
	CacheControl         string
	MaxConcurrentRenders int
	RenderTimeout        time.Duration
}

// OnDemandTiles renders tiles of a shared noise source per request. The
// source is read-only, so requests render concurrently up to the configured
// limit.
type OnDemandTiles struct {
	gen    *pipeline.Generator
	logger *slog.Logger
	sem    chan struct{}
	locks  sync.Map
	cfg    OnDemandTilesConfig
	ext    string

	activeRenders  atomic.Int32
	totalRendered  atomic.Int64
	totalFailed    atomic.Int64
	cacheHits      atomic.Int64
	currentRenders sync.Map // tile key -> start time
	queuedRenders  atomic.Int32
}

// RenderStatus contains current render operation status.
type RenderStatus struct {
	ActiveRenders int      `json:"active_renders"`
	QueuedRenders int      `json:"queued_renders"`
	TotalRendered int64    `json:"total_rendered"`
	TotalFailed   int64    `json:"total_failed"`
	CacheHits     int64    `json:"cache_hits"`
	CurrentTiles  []string `json:"current_tiles"`
	MaxConcurrent int      `json:"max_concurrent"`
}

// NewOnDemandTiles creates a handler around gen.
func NewOnDemandTiles(gen *pipeline.Generator, cfg OnDemandTilesConfig, logger *slog.Logger) *OnDemandTiles {
	if cfg.MaxConcurrentRenders <= 0 {
		cfg.MaxConcurrentRenders = 1
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = 30 * time.Second
	}
	if cfg.CacheControl == "" {
		cfg.CacheControl = "no-store"
	}

	return &OnDemandTiles{
		gen:    gen,
		cfg:    cfg,
		logger: logger,
		sem:    make(chan struct{}, cfg.MaxConcurrentRenders),
		ext:    gen.Format().Extension(),
	}
}

// Status returns the current render status.
func (t *OnDemandTiles) Status() RenderStatus {
	var current []string
	t.currentRenders.Range(func(key, _ any) bool {
		current = append(current, key.(string))
		return true
	})
	sort.Strings(current)

	return RenderStatus{
		ActiveRenders: int(t.activeRenders.Load()),
		QueuedRenders: int(t.queuedRenders.Load()),
		TotalRendered: t.totalRendered.Load(),
		TotalFailed:   t.totalFailed.Load(),
		CacheHits:     t.cacheHits.Load(),
		CurrentTiles:  current,
		MaxConcurrent: t.cfg.MaxConcurrentRenders,
	}
}

// StatusHandler returns an HTTP handler for the status endpoint (JSON).
func (t *OnDemandTiles) StatusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		if err := json.NewEncoder(w).Encode(t.Status()); err != nil {
			t.log().Error("failed to encode status", "error", err)
			http.Error(w, "failed to encode status", http.StatusInternalServerError)
		}
	})
}

func (t *OnDemandTiles) Handler() http.Handler {
	return http.HandlerFunc(t.serveTile)
}

func (t *OnDemandTiles) serveTile(w http.ResponseWriter, r *http.Request) {
	coords, suffix, ok := parseTilePath(r.URL.Path, t.ext)
	if !ok {
		http.NotFound(w, r)
		return
	}

	key := coords.String() + suffix
	cachePath := ""
	if t.cfg.CacheDir != "" {
		cachePath = filepath.Join(t.cfg.CacheDir, key+t.ext)
	}

	w.Header().Set("Cache-Control", t.cfg.CacheControl)
	w.Header().Set("Content-Type", t.gen.Format().ContentType())

	if cachePath != "" && fileExists(cachePath) {
		t.cacheHits.Add(1)
		tileRequestsTotal.WithLabelValues("cache", "ok").Inc()
		http.ServeFile(w, r, cachePath)
		return
	}

	// One render per tile; concurrent requests for the same tile wait and
	// then hit the cache.
	mu := t.getLock(key)
	mu.Lock()
	defer mu.Unlock()

	if cachePath != "" && fileExists(cachePath) {
		t.cacheHits.Add(1)
		tileRequestsTotal.WithLabelValues("cache", "ok").Inc()
		http.ServeFile(w, r, cachePath)
		return
	}

	t.queuedRenders.Add(1)
	select {
	case t.sem <- struct{}{}:
		t.queuedRenders.Add(-1)
		defer func() { <-t.sem }()
	case <-r.Context().Done():
		t.queuedRenders.Add(-1)
		http.Error(w, "request cancelled", http.StatusRequestTimeout)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), t.cfg.RenderTimeout)
	defer cancel()

	size := tileSizeForSuffix(t.gen.TileSize(), suffix)
	t.activeRenders.Add(1)
	activeRendersGauge.Inc()
	t.currentRenders.Store(key, time.Now())
	start := time.Now()

	data, err := t.gen.Encode(ctx, coords, size)

	t.activeRenders.Add(-1)
	activeRendersGauge.Dec()
	t.currentRenders.Delete(key)

	if err != nil {
		t.totalFailed.Add(1)
		tileRequestsTotal.WithLabelValues("render", "error").Inc()
		t.log().Error("failed to render tile", "coords", coords.String(), "suffix", suffix, "error", err)
		status := http.StatusInternalServerError
		if ctx.Err() != nil {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, fmt.Sprintf("failed to render tile %s: %v", key, err), status)
		return
	}
	t.totalRendered.Add(1)
	tileRequestsTotal.WithLabelValues("render", "ok").Inc()
	tileRenderDuration.WithLabelValues(strconv.Itoa(size)).Observe(time.Since(start).Seconds())
	t.log().Debug("tile rendered on-demand", "coords", coords.String(), "suffix", suffix, "ms", time.Since(start).Milliseconds())

	if cachePath != "" {
		if err := writeCacheFile(cachePath, data); err != nil {
			t.log().Warn("failed to cache tile", "path", cachePath, "error", err)
		}
	}

	if _, err := w.Write(data); err != nil {
		t.log().Error("failed to write response", "error", err)
	}
}

func (t *OnDemandTiles) getLock(key string) *sync.Mutex {
	if v, ok := t.locks.Load(key); ok {
		return v.(*sync.Mutex)
	}
	mu := &sync.Mutex{}
	actual, _ := t.locks.LoadOrStore(key, mu)
	return actual.(*sync.Mutex)
}

func (t *OnDemandTiles) log() *slog.Logger {
	if t.logger != nil {
		return t.logger
	}
	return slog.Default()
}

// parseTilePath parses /tiles/z3_x1_y2.png or /tiles/z3_x1_y2@2x.png.
func parseTilePath(requestPath, ext string) (tile.Coords, string, bool) {
	if !strings.HasPrefix(requestPath, "/tiles/") {
		return tile.Coords{}, "", false
	}
	base := path.Base(requestPath)
	if !strings.HasSuffix(base, ext) {
		return tile.Coords{}, "", false
	}
	name := strings.TrimSuffix(base, ext)
	suffix := ""
	if strings.HasSuffix(name, "@2x") {
		suffix = "@2x"
		name = strings.TrimSuffix(name, "@2x")
	}

	coords, err := tile.ParseCoords(name)
	if err != nil {
		return tile.Coords{}, "", false
	}
	return coords, suffix, true
}

func tileSizeForSuffix(base int, suffix string) int {
	if suffix == "@2x" {
		return base * 2
	}
	return base
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	if err != nil {
		return false
	}
	return !st.IsDir()
}

// writeCacheFile writes through a temp file so readers never see a partial
// tile.
func writeCacheFile(p string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".tile-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

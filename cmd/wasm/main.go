//go:build js && wasm
// +build js,wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/MeKo-Tech/latticenoise/internal/lattice"
	"github.com/MeKo-Tech/latticenoise/internal/noise"
	"github.com/MeKo-Tech/latticenoise/internal/rng"
	"github.com/MeKo-Tech/latticenoise/internal/tile"
)

// field is replaced by latticenoiseInit; reads happen on the single JS thread.
var (
	field *noise.Field
	fsum  *noise.FractalSum
)

// initNoise builds a 2D lattice from (seed, dimLength).
func initNoise(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "usage: latticenoiseInit(seed, dimLength)"}
	}

	l, err := lattice.New(2, uint32(args[1].Int()), rng.NewSeeded(int64(args[0].Int())))
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}
	sum, err := noise.NewFractalSum(noise.DefaultOptions())
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}

	field = noise.New(l)
	fsum = sum
	return map[string]interface{}{"status": "ready", "seed": l.Seed(), "dimLength": l.DimLength()}
}

func noise2D(this js.Value, args []js.Value) interface{} {
	if field == nil || len(args) < 2 {
		return lattice.OutOfDomain
	}
	return field.Noise2D(args[0].Float(), args[1].Float())
}

func fsum2D(this js.Value, args []js.Value) interface{} {
	if field == nil || len(args) < 2 {
		return lattice.OutOfDomain
	}
	return fsum.Normalize(fsum.Sum2D(field, args[0].Float(), args[1].Float()))
}

// tileKey gives browser code the canonical file name used by "mknoise tiles"
// and the on-demand cache.
func tileKey(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return map[string]interface{}{"error": "usage: latticenoiseTileKey(z, x, y, hidpi)"}
	}

	c := tile.NewCoords(uint32(args[0].Int()), uint32(args[1].Int()), uint32(args[2].Int()))
	if !c.Valid() {
		return map[string]interface{}{"error": fmt.Sprintf("tile %s is outside its zoom grid", c)}
	}

	key := c.String()
	if len(args) > 3 && args[3].Truthy() {
		key += "@2x"
	}
	return map[string]interface{}{"key": key, "filename": key + ".png"}
}

func main() {
	c := make(chan struct{})

	js.Global().Set("latticenoiseInit", js.FuncOf(initNoise))
	js.Global().Set("latticenoiseNoise2D", js.FuncOf(noise2D))
	js.Global().Set("latticenoiseFSum2D", js.FuncOf(fsum2D))
	js.Global().Set("latticenoiseTileKey", js.FuncOf(tileKey))

	fmt.Println("latticenoise WASM module loaded")
	<-c
}

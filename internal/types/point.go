// Package types holds small value types shared by the rendering layers.
package types

import "fmt"

// Point is a position in lattice space. Z is zero for 2D uses.
type Point struct {
	X float64
	Y float64
	Z float64
}

// Pt2 returns a 2D point.
func Pt2(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Scale returns p with every component multiplied by s.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s, Z: p.Z * s}
}

// String formats the point as <x, y, z> with five decimals.
func (p Point) String() string {
	return fmt.Sprintf("<%0.5f, %0.5f, %0.5f>", p.X, p.Y, p.Z)
}

// Package raster computes the common overlap of interferogram products
// and clips each product stack to it, so every raster in a time series
// shares one grid.
package raster

import "fmt"

// Bounds is a georeferenced extent in the raster's projected coordinates.
type Bounds struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports whether the extent has positive area.
func (b Bounds) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Intersect returns the overlap of two extents. The second return value
// is false when they do not overlap.
func (b Bounds) Intersect(other Bounds) (Bounds, bool) {
	out := Bounds{
		MinX: max(b.MinX, other.MinX),
		MinY: max(b.MinY, other.MinY),
		MaxX: min(b.MaxX, other.MaxX),
		MaxY: min(b.MaxY, other.MaxY),
	}
	return out, out.Valid()
}

// CommonOverlap returns the extent shared by every input. It returns an
// error when the inputs do not all overlap.
func CommonOverlap(extents []Bounds) (Bounds, error) {
	if len(extents) == 0 {
		return Bounds{}, fmt.Errorf("no extents given")
	}

	overlap := extents[0]
	if !overlap.Valid() {
		return Bounds{}, fmt.Errorf("extent 0 is empty")
	}
	for i, extent := range extents[1:] {
		if !extent.Valid() {
			return Bounds{}, fmt.Errorf("extent %d is empty", i+1)
		}
		var ok bool
		if overlap, ok = overlap.Intersect(extent); !ok {
			return Bounds{}, fmt.Errorf("extent %d does not overlap the others", i+1)
		}
	}
	return overlap, nil
}

package models

import "github.com/taigrr/meshview/pkg/math3d"

// BoundingBox is an axis-aligned box given by its two extreme corners.
type BoundingBox struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent along each axis.
func (b BoundingBox) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Diagonal returns the length of the box diagonal.
func (b BoundingBox) Diagonal() float64 {
	return b.Min.Distance(b.Max)
}

// Radius returns half the diagonal, the radius the camera frames.
func (b BoundingBox) Radius() float64 {
	return b.Diagonal() * 0.5
}

// Corners returns the eight corners. Bit 0 of the index selects max X,
// bit 1 max Y and bit 2 max Z.
func (b BoundingBox) Corners() [8]math3d.Vec3 {
	var c [8]math3d.Vec3
	for i := range c {
		p := b.Min
		if i&1 != 0 {
			p.X = b.Max.X
		}
		if i&2 != 0 {
			p.Y = b.Max.Y
		}
		if i&4 != 0 {
			p.Z = b.Max.Z
		}
		c[i] = p
	}
	return c
}

// boxEdges pairs corner indices that differ in exactly one bit.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}

// Edges returns the twelve edges of the box as point pairs.
func (b BoundingBox) Edges() [12][2]math3d.Vec3 {
	c := b.Corners()
	var e [12][2]math3d.Vec3
	for i, pair := range boxEdges {
		e[i] = [2]math3d.Vec3{c[pair[0]], c[pair[1]]}
	}
	return e
}

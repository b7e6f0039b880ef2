package render

import (
	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/models"
)

// Plane is n.p + D = 0, with n pointing into the kept half-space.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Distance returns the signed distance of p; negative is outside.
func (p Plane) Distance(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

func (p Plane) normalized() Plane {
	l := p.Normal.Len()
	if l == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Scale(1 / l), D: p.D / l}
}

// Frustum holds the six clip planes in the order left, right, bottom,
// top, near, far.
type Frustum [6]Plane

// NewFrustum extracts the clip planes of a projection*modelview matrix.
// The planes live in the space the matrix maps from, so the result can be
// tested against model-space bounds directly.
func NewFrustum(m math3d.Mat4) Frustum {
	// Row i of the column-major matrix is m[i], m[i+4], m[i+8], m[i+12].
	row := func(i int) Plane {
		return Plane{Normal: math3d.V3(m[i], m[i+4], m[i+8]), D: m[i+12]}
	}
	w := row(3)
	plus := func(r Plane) Plane { return Plane{Normal: w.Normal.Add(r.Normal), D: w.D + r.D} }
	minus := func(r Plane) Plane { return Plane{Normal: w.Normal.Sub(r.Normal), D: w.D - r.D} }

	x, y, z := row(0), row(1), row(2)
	f := Frustum{plus(x), minus(x), plus(y), minus(y), plus(z), minus(z)}
	for i := range f {
		f[i] = f[i].normalized()
	}
	return f
}

// Intersects reports whether any part of box may lie inside the frustum.
// It tests the corner furthest along each plane normal, so boxes near an
// edge can pass while being outside.
func (f Frustum) Intersects(box models.BoundingBox) bool {
	for _, p := range f {
		corner := box.Min
		if p.Normal.X >= 0 {
			corner.X = box.Max.X
		}
		if p.Normal.Y >= 0 {
			corner.Y = box.Max.Y
		}
		if p.Normal.Z >= 0 {
			corner.Z = box.Max.Z
		}
		if p.Distance(corner) < 0 {
			return false
		}
	}
	return true
}

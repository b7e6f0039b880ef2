package render

import "github.com/taigrr/meshview/pkg/math3d"

// Vertex is a position with the normal used to light it.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// PolygonMode selects how polygons are rasterized.
type PolygonMode int

const (
	PolygonFill PolygonMode = iota
	PolygonLine
)

// ShadeModel selects per-face or per-vertex lighting.
type ShadeModel int

const (
	ShadeSmooth ShadeModel = iota
	ShadeFlat
)

// Target is the graphics API the scene renderer draws through. It mirrors
// a small slice of fixed-function OpenGL state: a current color, lighting
// toggles, polygon offset, depth range, polygon mode and line and point
// sizes. State persists across calls until changed.
type Target interface {
	SetProjection(m math3d.Mat4)
	SetModelview(m math3d.Mat4)

	SetColor(c Color)
	// ClearColor returns the background color the target clears to.
	ClearColor() Color
	SetMaterial(m Material)
	SetLighting(enabled, twoSided bool)
	SetShadeModel(s ShadeModel)
	SetPolygonOffset(enabled bool, factor, units float64)
	SetDepthRange(near, far float64)
	SetPolygonMode(m PolygonMode)
	SetPointSize(size float64)
	SetLineWidth(width float64)

	DrawPoint(v Vertex)
	DrawLine(a, b Vertex)
	// DrawPolygon draws a convex polygon lit with the normal of its first
	// vertex under flat shading and per vertex otherwise.
	DrawPolygon(vs []Vertex)
	// DrawIndexed draws every face of an indexed mesh in one call, with
	// normals per vertex.
	DrawIndexed(positions, normals []math3d.Vec3, faces [][]int)
}

// Package render draws meshes. SceneRenderer turns a mesh and a draw mode
// into calls on a Target; Rasterizer is a software Target that fills a
// Framebuffer for the terminal and for screenshots.
package render

import (
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
)

// depthUnit is the smallest resolvable window depth of a 24-bit depth
// buffer, the "units" step of polygon offset.
const depthUnit = 1.0 / (1 << 24)

// clipVertex is a vertex in clip space with its resolved color.
type clipVertex struct {
	Pos   math3d.Vec4
	Color Color
}

// screenVertex holds a vertex transformed to window space.
type screenVertex struct {
	X, Y  float64 // Screen coordinates
	Z     float64 // Depth within the current depth range
	Color Color
}

// Rasterizer is a software Target with a depth buffer. It implements the
// subset of fixed-function state the scene renderer uses: directional
// lights with a material, flat or Gouraud shading, polygon offset, depth
// range and line polygon mode. Nothing is back-face culled.
type Rasterizer struct {
	fb      *Framebuffer
	zbuffer []float64 // Depth buffer (1D array, row-major)

	// Scale multiplies point sizes and line widths.
	Scale float64
	// Lights are directional lights fixed in eye space.
	Lights []Light
	// Background is the color Clear fills with.
	Background Color

	projection math3d.Mat4
	modelview  math3d.Mat4
	viewProj   math3d.Mat4

	color        Color
	material     Material
	lighting     bool
	twoSided     bool
	shade        ShadeModel
	offset       bool
	offsetFactor float64
	offsetUnits  float64
	depthNear    float64
	depthFar     float64
	polygonMode  PolygonMode
	pointSize    float64
	lineWidth    float64

	// scratch buffers reused across polygons
	clipIn  []clipVertex
	clipOut []clipVertex
	screen  []screenVertex
	verts   []Vertex
}

// NewRasterizer creates a rasterizer drawing into fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		fb:         fb,
		Scale:      1,
		Lights:     DefaultLights(),
		Background: ColorBackground,
		projection: math3d.Identity(),
		modelview:  math3d.Identity(),
		viewProj:   math3d.Identity(),
		color:      ColorWhite,
		material:   MaterialDefault,
		depthFar:   1,
		pointSize:  1,
		lineWidth:  1,
	}
	r.Resize()
	return r
}

// Framebuffer returns the framebuffer being drawn into.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// SetFramebuffer switches to fb and resizes the depth buffer to match.
func (r *Rasterizer) SetFramebuffer(fb *Framebuffer) {
	r.fb = fb
	r.Resize()
}

// Resize resizes the rasterizer's buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
	r.ClearDepth()
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// Clear fills the framebuffer with the background and clears depth.
func (r *Rasterizer) Clear() {
	if r.fb != nil {
		r.fb.Clear(r.Background)
	}
	r.ClearDepth()
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// Depth returns the depth stored at (x, y).
func (r *Rasterizer) Depth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

func (r *Rasterizer) SetProjection(m math3d.Mat4) {
	r.projection = m
	r.viewProj = r.projection.Mul(r.modelview)
}

func (r *Rasterizer) SetModelview(m math3d.Mat4) {
	r.modelview = m
	r.viewProj = r.projection.Mul(r.modelview)
}

func (r *Rasterizer) SetColor(c Color)       { r.color = c }
func (r *Rasterizer) ClearColor() Color      { return r.Background }
func (r *Rasterizer) SetMaterial(m Material) { r.material = m }

func (r *Rasterizer) SetLighting(enabled, twoSided bool) {
	r.lighting = enabled
	r.twoSided = twoSided
}

// LightingEnabled reports whether lighting is on.
func (r *Rasterizer) LightingEnabled() bool {
	return r.lighting
}

func (r *Rasterizer) SetShadeModel(s ShadeModel) { r.shade = s }

func (r *Rasterizer) SetPolygonOffset(enabled bool, factor, units float64) {
	r.offset = enabled
	r.offsetFactor = factor
	r.offsetUnits = units
}

func (r *Rasterizer) SetDepthRange(near, far float64) {
	r.depthNear = near
	r.depthFar = far
}

func (r *Rasterizer) SetPolygonMode(m PolygonMode) { r.polygonMode = m }
func (r *Rasterizer) SetPointSize(size float64)    { r.pointSize = size }
func (r *Rasterizer) SetLineWidth(width float64)   { r.lineWidth = width }

// DrawPoint draws a square point of the current size.
func (r *Rasterizer) DrawPoint(v Vertex) {
	pos := r.viewProj.MulVec4(math3d.Point4(v.Position))
	if pos.Z < -pos.W || pos.Z > pos.W || pos.W <= 0 {
		return
	}
	sv := r.toScreen(clipVertex{Pos: pos, Color: r.light(v.Normal, false)})

	n := r.stamp(r.pointSize)
	x0 := int(math.Floor(sv.X)) - (n-1)/2
	y0 := int(math.Floor(sv.Y)) - (n-1)/2
	for y := y0; y < y0+n; y++ {
		for x := x0; x < x0+n; x++ {
			r.plot(x, y, sv.Z, sv.Color)
		}
	}
}

// DrawLine draws a depth-tested line of the current width.
func (r *Rasterizer) DrawLine(a, b Vertex) {
	ca := clipVertex{Pos: r.viewProj.MulVec4(math3d.Point4(a.Position)), Color: r.light(a.Normal, false)}
	cb := clipVertex{Pos: r.viewProj.MulVec4(math3d.Point4(b.Position)), Color: r.light(b.Normal, false)}

	ca, cb, ok := clipLine(ca, cb)
	if !ok {
		return
	}
	r.drawSegment(r.toScreen(ca), r.toScreen(cb))
}

func (r *Rasterizer) DrawPolygon(vs []Vertex) {
	if len(vs) < 3 {
		return
	}

	in := r.clipIn[:0]
	for _, v := range vs {
		in = append(in, clipVertex{Pos: r.viewProj.MulVec4(math3d.Point4(v.Position))})
	}
	back := backFacing(in)

	if r.shade == ShadeFlat {
		c := r.light(vs[0].Normal, back)
		for i := range in {
			in[i].Color = c
		}
	} else {
		for i, v := range vs {
			in[i].Color = r.light(v.Normal, back)
		}
	}
	r.clipIn = in

	r.drawClipped(in)
}

func (r *Rasterizer) DrawIndexed(positions, normals []math3d.Vec3, faces [][]int) {
	for _, f := range faces {
		vs := r.verts[:0]
		for _, idx := range f {
			if idx < 0 || idx >= len(positions) {
				continue
			}
			v := Vertex{Position: positions[idx]}
			if idx < len(normals) {
				v.Normal = normals[idx]
			}
			vs = append(vs, v)
		}
		r.verts = vs
		r.DrawPolygon(vs)
	}
}

// light returns the color of a vertex with normal n under the current
// lighting state. Lighting replaces the current color with the material
// response; back faces are lit from behind when two-sided lighting is on.
func (r *Rasterizer) light(n math3d.Vec3, back bool) Color {
	if !r.lighting {
		return r.color
	}

	n = r.modelview.MulDir(n).Normalize()
	if back && r.twoSided {
		n = n.Negate()
	}

	m := r.material
	var c [3]float64
	for i := range c {
		c[i] = GlobalAmbient * m.Ambient[i]
	}
	eye := math3d.V3(0, 0, 1)
	for _, l := range r.Lights {
		dir := l.Direction.Normalize()
		ndl := n.Dot(dir)
		if ndl <= 0 {
			continue
		}
		spec := 0.0
		if ndh := n.Dot(dir.Add(eye).Normalize()); ndh > 0 {
			spec = math.Pow(ndh, m.Shininess) * l.Specular
		}
		for i := range c {
			c[i] += m.Diffuse[i]*l.Diffuse*ndl + m.Specular[i]*spec
		}
	}
	return RGBf(c[0], c[1], c[2])
}

// backFacing reports whether a polygon winds clockwise in normalized
// device coordinates.
func backFacing(vs []clipVertex) bool {
	area := 0.0
	for i := range vs {
		a := vs[i].Pos.PerspectiveDivide()
		b := vs[(i+1)%len(vs)].Pos.PerspectiveDivide()
		area += a.X*b.Y - b.X*a.Y
	}
	return area < 0
}

func (r *Rasterizer) drawClipped(in []clipVertex) {
	poly := clipPolygon(in, r.clipOut[:0])
	r.clipOut = poly
	if len(poly) < 3 {
		return
	}

	sv := r.screen[:0]
	for _, v := range poly {
		sv = append(sv, r.toScreen(v))
	}
	r.screen = sv

	if r.polygonMode == PolygonLine {
		for i := range sv {
			r.drawSegment(sv[i], sv[(i+1)%len(sv)])
		}
		return
	}
	for i := 1; i+1 < len(sv); i++ {
		r.fillTriangle(sv[0], sv[i], sv[i+1])
	}
}

// toScreen divides by w and maps to window coordinates. Y grows downward
// and depth lands in the current depth range.
func (r *Rasterizer) toScreen(v clipVertex) screenVertex {
	ndc := v.Pos.PerspectiveDivide()
	return screenVertex{
		X:     (ndc.X + 1) * 0.5 * float64(r.Width()),
		Y:     (1 - ndc.Y) * 0.5 * float64(r.Height()),
		Z:     r.depthNear + (ndc.Z+1)*0.5*(r.depthFar-r.depthNear),
		Color: v.Color,
	}
}

// stamp converts a point size or line width into whole pixels.
func (r *Rasterizer) stamp(size float64) int {
	return max(1, int(math.Round(size*r.Scale)))
}

func (r *Rasterizer) plot(x, y int, z float64, c Color) {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return
	}
	i := y*r.Width() + x
	if z >= r.zbuffer[i] {
		return
	}
	r.zbuffer[i] = z
	r.fb.Pixels[i] = c
}

// drawSegment walks a line with Bresenham's algorithm, interpolating depth
// and color, and stamps a square of the line width at each step.
func (r *Rasterizer) drawSegment(a, b screenVertex) {
	x0, y0 := int(math.Floor(a.X)), int(math.Floor(a.Y))
	x1, y1 := int(math.Floor(b.X)), int(math.Floor(b.Y))

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	steps := float64(max(dx, -dy))
	w := r.stamp(r.lineWidth)
	lo := -(w - 1) / 2

	for i := 0; ; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / steps
		}
		z := a.Z + t*(b.Z-a.Z)
		c := a.Color
		if a.Color != b.Color {
			c = lerpColor(a.Color, b.Color, t)
		}
		for oy := lo; oy < lo+w; oy++ {
			for ox := lo; ox < lo+w; ox++ {
				r.plot(x0+ox, y0+oy, z, c)
			}
		}

		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// fillTriangle rasterizes a triangle of either winding using edge
// functions with incremental updates.
func (r *Rasterizer) fillTriangle(v0, v1, v2 screenVertex) {
	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	A0, B0, C0 := edgeCoeffs(v1.X, v1.Y, v2.X, v2.Y)
	A1, B1, C1 := edgeCoeffs(v2.X, v2.Y, v0.X, v0.Y)
	A2, B2, C2 := edgeCoeffs(v0.X, v0.Y, v1.X, v1.Y)

	area2 := edgeFunc(A2, B2, C2, v2.X, v2.Y) // 2 * signed area
	if area2 == 0 {
		return
	}
	if area2 < 0 {
		A0, B0, C0 = -A0, -B0, -C0
		A1, B1, C1 = -A1, -B1, -C1
		A2, B2, C2 = -A2, -B2, -C2
		area2 = -area2
	}
	invArea := 1.0 / area2

	bias := 0.0
	if r.offset {
		dzdx := (A0*v0.Z + A1*v1.Z + A2*v2.Z) * invArea
		dzdy := (B0*v0.Z + B1*v1.Z + B2*v2.Z) * invArea
		slope := math.Max(math.Abs(dzdx), math.Abs(dzdy))
		bias = r.offsetFactor*slope + r.offsetUnits*depthUnit
	}

	// Bounding box (clamped to screen)
	minX := int(math.Max(0, math.Floor(min3(v0.X, v1.X, v2.X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(v0.X, v1.X, v2.X))))
	minY := int(math.Max(0, math.Floor(min3(v0.Y, v1.Y, v2.Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(v0.Y, v1.Y, v2.Y))))
	if minX > maxX || minY > maxY {
		return
	}

	uniform := v0.Color == v1.Color && v1.Color == v2.Color

	// Evaluate edge functions at top-left corner of bounding box
	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := edgeFunc(A0, B0, C0, px, py)
	w1Row := edgeFunc(A1, B1, C1, px, py)
	w2Row := edgeFunc(A2, B2, C2, px, py)

	width := r.Width()
	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		row := y * width

		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				b0, b1, b2 := w0*invArea, w1*invArea, w2*invArea
				z := b0*v0.Z + b1*v1.Z + b2*v2.Z + bias
				if z < r.zbuffer[row+x] {
					c := v0.Color
					if !uniform {
						c = interpolateColor3(v0.Color, v1.Color, v2.Color, b0, b1, b2)
					}
					r.zbuffer[row+x] = z
					r.fb.Pixels[row+x] = c
				}
			}
			w0 += A0
			w1 += A1
			w2 += A2
		}

		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
}

// edgeCoeffs returns A, B, C for the edge function A*x + B*y + C, positive
// to the left of the directed edge (x0,y0) -> (x1,y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1 // dy
	B = x1 - x0 // -dx
	C = x0*y1 - x1*y0
	return
}

// edgeFunc evaluates edge function at point (x, y)
func edgeFunc(A, B, C, x, y float64) float64 {
	return A*x + B*y + C
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

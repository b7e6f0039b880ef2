// Package gl21 implements render.Target on the fixed-function OpenGL 2.1
// pipeline. Every call needs a current GL context on the calling thread.
package gl21

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v2.1/gl"

	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/render"
)

// Target draws with immediate-mode OpenGL.
type Target struct {
	background render.Color
	lights     []render.Light
}

// New creates a target clearing to background and lit by lights.
func New(background render.Color, lights []render.Light) *Target {
	return &Target{background: background, lights: lights}
}

// Init loads the GL entry points and sets up the fixed state: depth test,
// smoothing, blending and the lights. Lights are positioned under an
// identity modelview so they stay fixed relative to the eye.
func (t *Target) Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("init gl: %w", err)
	}

	r, g, b, a := render.Floats(t.background)
	gl.ClearColor(float32(r), float32(g), float32(b), float32(a))
	gl.ClearDepth(1)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.MULTISAMPLE)
	gl.Enable(gl.LINE_SMOOTH)
	gl.Hint(gl.LINE_SMOOTH_HINT, gl.NICEST)
	gl.Enable(gl.POINT_SMOOTH)
	gl.Hint(gl.POINT_SMOOTH_HINT, gl.NICEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	ambient := [4]float32{render.GlobalAmbient, render.GlobalAmbient, render.GlobalAmbient, 1}
	gl.LightModelfv(gl.LIGHT_MODEL_AMBIENT, &ambient[0])

	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()
	for i, l := range t.lights {
		light := uint32(gl.LIGHT0 + i)
		pos := [4]float32{float32(l.Direction.X), float32(l.Direction.Y), float32(l.Direction.Z), 0}
		diffuse := [4]float32{float32(l.Diffuse), float32(l.Diffuse), float32(l.Diffuse), 1}
		specular := [4]float32{float32(l.Specular), float32(l.Specular), float32(l.Specular), 1}
		gl.Enable(light)
		gl.Lightfv(light, gl.POSITION, &pos[0])
		gl.Lightfv(light, gl.DIFFUSE, &diffuse[0])
		gl.Lightfv(light, gl.SPECULAR, &specular[0])
	}
	return nil
}

// Viewport sets the drawable area in framebuffer pixels.
func (t *Target) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Clear clears color and depth.
func (t *Target) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ReadPixels copies the back buffer into an image, top row first.
func (t *Target) ReadPixels(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return img
	}
	buf := make([]uint8, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(buf))

	stride := width * 4
	for y := range height {
		src := buf[(height-1-y)*stride : (height-y)*stride]
		copy(img.Pix[y*img.Stride:], src)
	}
	return img
}

func (t *Target) SetProjection(m math3d.Mat4) {
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadMatrixd(&m[0])
}

func (t *Target) SetModelview(m math3d.Mat4) {
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadMatrixd(&m[0])
}

func (t *Target) SetColor(c render.Color) {
	gl.Color4ub(c.R, c.G, c.B, c.A)
}

func (t *Target) ClearColor() render.Color {
	return t.background
}

func (t *Target) SetMaterial(m render.Material) {
	ambient, diffuse, specular := float32s(m.Ambient), float32s(m.Diffuse), float32s(m.Specular)
	gl.Materialfv(gl.FRONT_AND_BACK, gl.AMBIENT, &ambient[0])
	gl.Materialfv(gl.FRONT_AND_BACK, gl.DIFFUSE, &diffuse[0])
	gl.Materialfv(gl.FRONT_AND_BACK, gl.SPECULAR, &specular[0])
	gl.Materialf(gl.FRONT_AND_BACK, gl.SHININESS, float32(m.Shininess))
}

func (t *Target) SetLighting(enabled, twoSided bool) {
	enable(gl.LIGHTING, enabled)
	two := int32(0)
	if twoSided {
		two = 1
	}
	gl.LightModeli(gl.LIGHT_MODEL_TWO_SIDE, two)
}

func (t *Target) SetShadeModel(s render.ShadeModel) {
	if s == render.ShadeFlat {
		gl.ShadeModel(gl.FLAT)
		return
	}
	gl.ShadeModel(gl.SMOOTH)
}

func (t *Target) SetPolygonOffset(enabled bool, factor, units float64) {
	if enabled {
		gl.PolygonOffset(float32(factor), float32(units))
	}
	enable(gl.POLYGON_OFFSET_FILL, enabled)
}

func (t *Target) SetDepthRange(near, far float64) {
	gl.DepthRange(near, far)
}

func (t *Target) SetPolygonMode(m render.PolygonMode) {
	if m == render.PolygonLine {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		return
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

func (t *Target) SetPointSize(size float64)  { gl.PointSize(float32(size)) }
func (t *Target) SetLineWidth(width float64) { gl.LineWidth(float32(width)) }

func (t *Target) DrawPoint(v render.Vertex) {
	gl.Begin(gl.POINTS)
	vertex(v)
	gl.End()
}

func (t *Target) DrawLine(a, b render.Vertex) {
	gl.Begin(gl.LINES)
	vertex(a)
	vertex(b)
	gl.End()
}

func (t *Target) DrawPolygon(vs []render.Vertex) {
	gl.Begin(gl.POLYGON)
	for _, v := range vs {
		vertex(v)
	}
	gl.End()
}

// DrawIndexed issues each face in immediate mode. Client-side vertex
// arrays would hand Go memory to the driver beyond the call.
func (t *Target) DrawIndexed(positions, normals []math3d.Vec3, faces [][]int) {
	for _, f := range faces {
		gl.Begin(gl.POLYGON)
		for _, idx := range f {
			if idx < 0 || idx >= len(positions) {
				continue
			}
			if idx < len(normals) {
				n := normals[idx]
				gl.Normal3d(n.X, n.Y, n.Z)
			}
			p := positions[idx]
			gl.Vertex3d(p.X, p.Y, p.Z)
		}
		gl.End()
	}
}

func vertex(v render.Vertex) {
	gl.Normal3d(v.Normal.X, v.Normal.Y, v.Normal.Z)
	gl.Vertex3d(v.Position.X, v.Position.Y, v.Position.Z)
}

func enable(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func float32s(v [4]float64) [4]float32 {
	return [4]float32{float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3])}
}

var _ render.Target = (*Target)(nil)

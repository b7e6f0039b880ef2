package render

import (
	"math"
	"testing"

	"github.com/taigrr/meshview/pkg/math3d"
)

// createTestRasterizer creates a rasterizer with identity matrices over a
// black background, so vertex coordinates are normalized device coordinates.
func createTestRasterizer(width, height int) (*Rasterizer, *Framebuffer) {
	fb := NewFramebuffer(width, height)
	r := NewRasterizer(fb)
	r.Background = ColorBlack
	r.Clear()
	return r, fb
}

func vtx(x, y, z float64) Vertex {
	return Vertex{Position: math3d.V3(x, y, z), Normal: math3d.V3(0, 0, 1)}
}

func squareAt(z, h float64) []Vertex {
	return []Vertex{vtx(-h, -h, z), vtx(h, -h, z), vtx(h, h, z), vtx(-h, h, z)}
}

func TestInterpolateColor3(t *testing.T) {
	c0 := RGB(255, 0, 0) // Red
	c1 := RGB(0, 255, 0) // Green
	c2 := RGB(0, 0, 255) // Blue

	tests := []struct {
		name     string
		bc       [3]float64
		expected Color
	}{
		{"full red", [3]float64{1, 0, 0}, RGB(255, 0, 0)},
		{"full green", [3]float64{0, 1, 0}, RGB(0, 255, 0)},
		{"full blue", [3]float64{0, 0, 1}, RGB(0, 0, 255)},
		{"equal mix", [3]float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, RGB(85, 85, 85)},
		{"half red half green", [3]float64{0.5, 0.5, 0}, RGB(128, 128, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := interpolateColor3(c0, c1, c2, tc.bc[0], tc.bc[1], tc.bc[2])
			// Allow 1 unit tolerance due to rounding
			if absInt(int(result.R)-int(tc.expected.R)) > 1 ||
				absInt(int(result.G)-int(tc.expected.G)) > 1 ||
				absInt(int(result.B)-int(tc.expected.B)) > 1 {
				t.Errorf("interpolateColor3 with bc=%v = %v, want %v", tc.bc, result, tc.expected)
			}
		})
	}
}

func TestMin3Max3(t *testing.T) {
	if min3(1, 2, 3) != 1 || min3(3, 1, 2) != 1 || min3(2, 3, 1) != 1 {
		t.Error("min3 failed")
	}
	if max3(1, 2, 3) != 3 || max3(3, 1, 2) != 3 || max3(2, 3, 1) != 3 {
		t.Error("max3 failed")
	}
}

func TestRasterizerClearDepth(t *testing.T) {
	r, _ := createTestRasterizer(10, 10)

	r.DrawPolygon(squareAt(0, 0.9))
	if r.Depth(5, 5) == math.MaxFloat64 {
		t.Fatal("polygon did not write depth")
	}

	r.ClearDepth()
	if r.Depth(5, 5) != math.MaxFloat64 {
		t.Error("ClearDepth should reset to MaxFloat64")
	}
}

func TestRasterizerDepthBoundsCheck(t *testing.T) {
	r, _ := createTestRasterizer(10, 10)

	// Out of bounds should return MaxFloat64 and not panic
	if r.Depth(-1, 0) != math.MaxFloat64 {
		t.Error("Out of bounds Depth should return MaxFloat64")
	}
	if r.Depth(100, 0) != math.MaxFloat64 {
		t.Error("Out of bounds Depth should return MaxFloat64")
	}
}

func TestRasterizerWithoutFramebuffer(t *testing.T) {
	r := NewRasterizer(nil)
	// Nothing to draw into; none of these may panic
	r.Clear()
	r.DrawPolygon(squareAt(0, 0.5))
	r.DrawLine(vtx(-1, 0, 0), vtx(1, 0, 0))
	r.DrawPoint(vtx(0, 0, 0))
	if r.Width() != 0 || r.Height() != 0 {
		t.Errorf("size = %dx%d, want 0x0", r.Width(), r.Height())
	}
}

func TestDrawPolygonBothWindings(t *testing.T) {
	ccw := []Vertex{vtx(-0.5, -0.5, 0), vtx(0.5, -0.5, 0), vtx(0, 0.5, 0)}
	cw := []Vertex{ccw[0], ccw[2], ccw[1]}

	for name, tri := range map[string][]Vertex{"ccw": ccw, "cw": cw} {
		t.Run(name, func(t *testing.T) {
			r, fb := createTestRasterizer(100, 100)
			r.SetColor(ColorRed)
			r.DrawPolygon(tri)

			if got := fb.GetPixel(50, 50); got != ColorRed {
				t.Errorf("center pixel = %v, want red", got)
			}
			if got := fb.GetPixel(2, 2); got != ColorBlack {
				t.Errorf("corner pixel = %v, want background", got)
			}
		})
	}
}

func TestDepthTest(t *testing.T) {
	near := squareAt(-0.5, 0.5)
	far := squareAt(0.5, 0.5)

	tests := []struct {
		name  string
		first []Vertex
		c1    Color
		then  []Vertex
		c2    Color
	}{
		{"near first", near, ColorRed, far, ColorBlue},
		{"far first", far, ColorBlue, near, ColorRed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(100, 100)
			r.SetColor(tc.c1)
			r.DrawPolygon(tc.first)
			r.SetColor(tc.c2)
			r.DrawPolygon(tc.then)

			if got := fb.GetPixel(50, 50); got != ColorRed {
				t.Errorf("center pixel = %v, want the nearer red", got)
			}
		})
	}
}

func TestDepthRange(t *testing.T) {
	r, _ := createTestRasterizer(100, 100)
	r.SetDepthRange(0.5, 1)
	r.DrawPolygon(squareAt(-1+1e-9, 0.5))

	if got := r.Depth(50, 50); math.Abs(got-0.5) > 1e-6 {
		t.Errorf("depth at near plane = %v, want 0.5", got)
	}
}

func TestPolygonOffsetKeepsLinesVisible(t *testing.T) {
	r, fb := createTestRasterizer(100, 100)

	r.SetPolygonOffset(true, 1.5, 2)
	r.SetColor(ColorWhite)
	r.DrawPolygon(squareAt(0, 0.5))
	r.SetPolygonOffset(false, 0, 0)

	r.SetColor(ColorRed)
	r.DrawLine(vtx(-0.5, 0, 0), vtx(0.5, 0, 0))

	if got := fb.GetPixel(50, 50); got != ColorRed {
		t.Errorf("line over offset fill = %v, want red", got)
	}
	if got := fb.GetPixel(50, 40); got != ColorWhite {
		t.Errorf("fill pixel = %v, want white", got)
	}
}

func TestPolygonLineMode(t *testing.T) {
	r, fb := createTestRasterizer(100, 100)
	r.SetPolygonMode(PolygonLine)
	r.SetColor(ColorGreen)
	r.DrawPolygon(squareAt(0, 0.5))

	if got := fb.GetPixel(50, 50); got != ColorBlack {
		t.Errorf("interior pixel = %v, want background", got)
	}
	if got := fb.GetPixel(25, 50); got != ColorGreen {
		t.Errorf("edge pixel = %v, want green", got)
	}
}

func TestPointSize(t *testing.T) {
	tests := []struct {
		name  string
		size  float64
		scale float64
		want  int
	}{
		{"single", 1, 1, 1},
		{"size 5", 5, 1, 25},
		{"scaled down", 5, 0.4, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(100, 100)
			r.Scale = tc.scale
			r.SetPointSize(tc.size)
			r.SetColor(ColorRed)
			r.DrawPoint(vtx(0, 0, 0))

			if got := fb.CountNot(ColorBlack); got != tc.want {
				t.Errorf("pixels = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestLineWidth(t *testing.T) {
	r, fb := createTestRasterizer(100, 100)
	r.SetLineWidth(3)
	r.SetColor(ColorRed)
	r.DrawLine(vtx(-0.5, 0, 0), vtx(0.5, 0, 0))

	for y := 49; y <= 51; y++ {
		if got := fb.GetPixel(50, y); got != ColorRed {
			t.Errorf("pixel (50,%d) = %v, want red", y, got)
		}
	}
	if got := fb.GetPixel(50, 53); got != ColorBlack {
		t.Errorf("pixel (50,53) = %v, want background", got)
	}
}

func TestNearPlaneClipping(t *testing.T) {
	proj := math3d.Frustum(-0.1, 0.1, -0.1, 0.1, 0.1, 100)

	tests := []struct {
		name  string
		tri   []Vertex
		drawn bool
	}{
		{"crossing the eye", []Vertex{vtx(-1, -1, -5), vtx(1, -1, -5), vtx(0, 1, 5)}, true},
		{"behind the eye", []Vertex{vtx(-1, -1, 5), vtx(1, -1, 5), vtx(0, 1, 5)}, false},
		{"beyond far", []Vertex{vtx(-1, -1, -500), vtx(1, -1, -500), vtx(0, 1, -500)}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(100, 100)
			r.SetProjection(proj)
			r.SetColor(ColorRed)
			r.DrawPolygon(tc.tri)

			if drawn := fb.CountNot(ColorBlack) > 0; drawn != tc.drawn {
				t.Errorf("drawn = %v, want %v", drawn, tc.drawn)
			}
		})
	}
}

func TestClipLine(t *testing.T) {
	a := clipVertex{Pos: math3d.V4(0, 0, -2, 1)}
	b := clipVertex{Pos: math3d.V4(0, 0, 0, 1)}

	a2, b2, ok := clipLine(a, b)
	if !ok {
		t.Fatal("segment crossing the near plane was dropped")
	}
	if a2.Pos.Z != -1 || b2.Pos != b.Pos {
		t.Errorf("clipped to %v..%v, want z=-1..0", a2.Pos, b2.Pos)
	}

	if _, _, ok := clipLine(a, clipVertex{Pos: math3d.V4(0, 0, -3, 1)}); ok {
		t.Error("segment outside the near plane was kept")
	}
}

func TestLighting(t *testing.T) {
	r, _ := createTestRasterizer(10, 10)
	n := math3d.V3(0.3, -0.4, 0.8)

	t.Run("off", func(t *testing.T) {
		r.SetLighting(false, false)
		r.SetColor(ColorRed)
		if got := r.light(n, false); got != ColorRed {
			t.Errorf("unlit color = %v, want the current color", got)
		}
	})

	t.Run("facing the headlight", func(t *testing.T) {
		r.SetLighting(true, false)
		r.SetMaterial(MaterialDefault)
		if got := r.light(math3d.V3(0, 0, 1), false); got != ColorWhite {
			t.Errorf("front-lit white material = %v, want white", got)
		}
	})

	t.Run("ambient only", func(t *testing.T) {
		r.SetLighting(true, false)
		r.SetMaterial(MaterialDefault)
		r.Lights = nil
		defer func() { r.Lights = DefaultLights() }()
		if got, want := r.light(n, false), Gray(GlobalAmbient); got != want {
			t.Errorf("ambient color = %v, want %v", got, want)
		}
	})

	t.Run("two-sided", func(t *testing.T) {
		r.SetMaterial(MaterialSilver)
		r.SetLighting(true, false)
		flipped := r.light(n.Negate(), false)
		front := r.light(n, false)

		r.SetLighting(true, true)
		if got := r.light(n, true); got != flipped {
			t.Errorf("two-sided back face = %v, want %v", got, flipped)
		}
		if got := r.light(n, false); got != front {
			t.Errorf("two-sided front face = %v, want %v", got, front)
		}
	})
}

func TestShadeModel(t *testing.T) {
	tri := []Vertex{
		{Position: math3d.V3(-0.9, -0.9, 0), Normal: math3d.V3(0, 0, 1)},
		{Position: math3d.V3(0.9, -0.9, 0), Normal: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(0, 0.9, 0), Normal: math3d.V3(0, 1, 0)},
	}

	tests := []struct {
		shade   ShadeModel
		uniform bool
	}{
		{ShadeFlat, true},
		{ShadeSmooth, false},
	}

	for _, tc := range tests {
		r, fb := createTestRasterizer(60, 60)
		r.SetLighting(true, false)
		r.SetMaterial(MaterialSilver)
		r.SetShadeModel(tc.shade)
		r.DrawPolygon(tri)

		colors := map[Color]bool{}
		for _, p := range fb.Pixels {
			if p != ColorBlack {
				colors[p] = true
			}
		}
		if uniform := len(colors) == 1; uniform != tc.uniform {
			t.Errorf("shade %d: %d distinct colors", tc.shade, len(colors))
		}
	}
}

func TestDrawIndexed(t *testing.T) {
	r, fb := createTestRasterizer(100, 100)
	positions := []math3d.Vec3{{X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5}}
	r.SetColor(ColorCyan)
	// the second face has an out of range index and is drawn without it
	r.DrawIndexed(positions, nil, [][]int{{0, 1, 2, 3}, {0, 1, 9}})

	if got := fb.GetPixel(50, 50); got != ColorCyan {
		t.Errorf("center pixel = %v, want cyan", got)
	}
}

func TestSceneOnRasterizer(t *testing.T) {
	mesh := square(t, 1)

	tests := []struct {
		mode    DrawMode
		present []Color
		absent  []Color
	}{
		{FlatLines, []Color{ColorWhite, ColorWire}, nil},
		{HiddenLines, []Color{ColorHiddenLine}, []Color{ColorWhite}},
		{Wireframe, []Color{ColorWire}, []Color{ColorWhite}},
		{Points, []Color{ColorPoints}, []Color{ColorWire}},
	}

	for _, tc := range tests {
		t.Run(tc.mode.String(), func(t *testing.T) {
			r, fb := createTestRasterizer(100, 100)
			opts := withMode(tc.mode)
			opts.Lighting = false
			NewSceneRenderer(opts).Render(r, framed(mesh), mesh)

			counts := map[Color]int{}
			for _, p := range fb.Pixels {
				counts[p]++
			}
			for _, c := range tc.present {
				if counts[c] == 0 {
					t.Errorf("no %v pixels", c)
				}
			}
			for _, c := range tc.absent {
				if counts[c] != 0 {
					t.Errorf("%d unexpected %v pixels", counts[c], c)
				}
			}
		})
	}
}

// Helper function for color comparison tolerance
func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Benchmark tests
func BenchmarkFillTriangle(b *testing.B) {
	r, _ := createTestRasterizer(200, 200)
	tri := []Vertex{vtx(-0.9, -0.9, 0), vtx(0.9, -0.9, 0), vtx(0, 0.9, 0)}
	r.SetLighting(true, false)
	r.SetShadeModel(ShadeSmooth)

	for b.Loop() {
		r.ClearDepth()
		r.DrawPolygon(tri)
	}
}

func BenchmarkRenderFlatLines(b *testing.B) {
	r, _ := createTestRasterizer(200, 200)
	mesh := tetrahedron(b)
	cam := framed(mesh)
	s := NewSceneRenderer(DefaultOptions())

	for b.Loop() {
		r.Clear()
		s.Render(r, cam, mesh)
	}
}

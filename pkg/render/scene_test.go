package render

import (
	"slices"
	"testing"

	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/models"
	"github.com/taigrr/meshview/pkg/viewer"
)

func buildMesh(t testing.TB, name string, verts []math3d.Vec3, faces [][]int) *models.Mesh {
	t.Helper()
	mesh := models.NewMesh(name)
	for _, v := range verts {
		mesh.AddVertex(v)
	}
	for _, f := range faces {
		if err := mesh.AddFace(f...); err != nil {
			t.Fatalf("AddFace(%v): %v", f, err)
		}
	}
	mesh.Update()
	return mesh
}

// tetrahedron is closed: 4 vertices, 6 edges, 4 faces, no boundary.
func tetrahedron(t testing.TB) *models.Mesh {
	return buildMesh(t, "tet",
		[]math3d.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		[][]int{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}})
}

// square is two triangles over [-h, h]^2 at z=0: 5 edges, 4 on the boundary.
func square(t testing.TB, h float64) *models.Mesh {
	return buildMesh(t, "square",
		[]math3d.Vec3{{-h, -h, 0}, {h, -h, 0}, {h, h, 0}, {-h, h, 0}},
		[][]int{{0, 1, 2}, {0, 2, 3}})
}

// framed returns a controller looking at mesh over a 100x100 viewport.
func framed(mesh *models.Mesh) *viewer.Controller {
	c := viewer.NewController()
	c.Resize(100, 100)
	c.SetScenePosition(mesh.Center(), mesh.Radius())
	return c
}

func render(t *testing.T, opts Options, mesh *models.Mesh) *Recorder {
	t.Helper()
	rec := NewRecorder()
	cam := viewer.NewController()
	if mesh != nil && !mesh.IsEmpty() {
		cam = framed(mesh)
	}
	NewSceneRenderer(opts).Render(rec, cam, mesh)
	return rec
}

func withMode(mode DrawMode) Options {
	opts := DefaultOptions()
	opts.Mode = mode
	return opts
}

func TestWireframeEmitsOneLinePerEdge(t *testing.T) {
	tests := []struct {
		name string
		mesh func(testing.TB) *models.Mesh
	}{
		{"tetrahedron", tetrahedron},
		{"square", func(t testing.TB) *models.Mesh { return square(t, 1) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mesh := tc.mesh(t)
			rec := render(t, withMode(Wireframe), mesh)
			if got := rec.Count(OpLine); got != mesh.EdgeCount() {
				t.Errorf("line calls = %d, want %d", got, mesh.EdgeCount())
			}
			for _, op := range rec.Ops {
				if op.Kind == OpLine && len(op.Vertices) != 2 {
					t.Fatalf("line call with %d vertices", len(op.Vertices))
				}
			}
		})
	}
}

func TestRenderLoadsMatricesFirst(t *testing.T) {
	mesh := tetrahedron(t)
	rec := render(t, DefaultOptions(), mesh)

	kinds := rec.Kinds()
	if len(kinds) < 2 || kinds[0] != OpProjection || kinds[1] != OpModelview {
		t.Fatalf("frame starts with %v, want projection then modelview", kinds[:min(2, len(kinds))])
	}
	last := rec.Ops[len(rec.Ops)-1]
	if last.Kind != OpLighting || last.Enabled {
		t.Errorf("frame ends with %v enabled=%v, want lighting off", last.Kind, last.Enabled)
	}
}

func TestEmptyMeshDrawsOnlyOverlays(t *testing.T) {
	opts := DefaultOptions()
	opts.BoundingBox = true
	opts.Boundary = true

	for _, mode := range DrawModes {
		t.Run(mode.String(), func(t *testing.T) {
			opts.Mode = mode
			rec := render(t, opts, models.NewMesh("empty"))
			for _, k := range []OpKind{OpPoint, OpLine, OpPolygon, OpIndexed, OpMaterial} {
				if n := rec.Count(k); n != 0 {
					t.Errorf("%v calls = %d, want 0", k, n)
				}
			}
		})
	}
}

func TestNilMesh(t *testing.T) {
	rec := NewRecorder()
	NewSceneRenderer(DefaultOptions()).Render(rec, viewer.NewController(), nil)

	want := []OpKind{OpProjection, OpModelview, OpLighting}
	if got := rec.Kinds(); !slices.Equal(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestOverlays(t *testing.T) {
	tests := []struct {
		name     string
		mesh     func(testing.TB) *models.Mesh
		bbox     bool
		boundary bool
		lines    int
		color    Color
	}{
		{"bbox", tetrahedron, true, false, 12, ColorBoundingBox},
		{"closed boundary", tetrahedron, false, true, 0, ColorBoundary},
		{"open boundary", func(t testing.TB) *models.Mesh { return square(t, 1) }, false, true, 4, ColorBoundary},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := withMode(Flat)
			opts.BoundingBox = tc.bbox
			opts.Boundary = tc.boundary
			rec := render(t, opts, tc.mesh(t))

			if got := rec.Count(OpLine); got != tc.lines {
				t.Errorf("overlay lines = %d, want %d", got, tc.lines)
			}

			// overlays come before lighting is enabled, drawn 2 wide
			width, color, lit := 1.0, Color{}, false
			for _, op := range rec.Ops {
				switch op.Kind {
				case OpLineWidth:
					width = op.Values[0]
				case OpColor:
					color = op.Color
				case OpLighting:
					lit = op.Enabled
				case OpLine:
					if width != 2 || color != tc.color || lit {
						t.Fatalf("overlay line drawn with width %v color %v lit %v", width, color, lit)
					}
				}
			}
			if width != 1 {
				t.Errorf("line width left at %v", width)
			}
		})
	}
}

func TestBoundingBoxSkippedWhenDisabled(t *testing.T) {
	rec := render(t, withMode(Flat), tetrahedron(t))
	if n := rec.Count(OpLine); n != 0 {
		t.Errorf("lines = %d with overlays off", n)
	}
}

func TestDrawModeCalls(t *testing.T) {
	mesh := tetrahedron(t)
	v, e, f := mesh.VertexCount(), mesh.EdgeCount(), mesh.FaceCount()

	tests := []struct {
		mode     DrawMode
		points   int
		lines    int
		polygons int
		indexed  int
	}{
		{Points, v, 0, 0, 0},
		{Wireframe, 0, e, 0, 0},
		{HiddenLines, 0, 0, 2 * f, 0},
		{FlatLines, 0, e, f, 0},
		{Flat, 0, 0, f, 0},
		{Smooth, 0, 0, 0, 1},
	}

	for _, tc := range tests {
		t.Run(tc.mode.String(), func(t *testing.T) {
			rec := render(t, withMode(tc.mode), mesh)
			got := [4]int{rec.Count(OpPoint), rec.Count(OpLine), rec.Count(OpPolygon), rec.Count(OpIndexed)}
			want := [4]int{tc.points, tc.lines, tc.polygons, tc.indexed}
			if got != want {
				t.Errorf("point/line/polygon/indexed = %v, want %v", got, want)
			}
			if rec.Count(OpMaterial) != 1 {
				t.Errorf("material set %d times, want 1", rec.Count(OpMaterial))
			}
		})
	}
}

func TestFlatUsesFaceNormals(t *testing.T) {
	mesh := tetrahedron(t)
	rec := render(t, withMode(Flat), mesh)

	i := 0
	for _, op := range rec.Ops {
		if op.Kind != OpPolygon {
			continue
		}
		face := mesh.Faces[i]
		if len(op.Vertices) != len(face.V) {
			t.Fatalf("polygon %d has %d vertices, want %d", i, len(op.Vertices), len(face.V))
		}
		for j, vert := range op.Vertices {
			if vert.Normal != face.Normal {
				t.Errorf("polygon %d vertex %d normal %v, want face normal %v", i, j, vert.Normal, face.Normal)
			}
			if vert.Position != mesh.Vertices[face.V[j]].Position {
				t.Errorf("polygon %d vertex %d at %v", i, j, vert.Position)
			}
		}
		i++
	}
}

func TestPointsUseVertexNormals(t *testing.T) {
	mesh := tetrahedron(t)
	rec := render(t, withMode(Points), mesh)

	i := 0
	for _, op := range rec.Ops {
		switch op.Kind {
		case OpPointSize:
			if op.Values[0] != 5 {
				t.Errorf("point size = %v, want 5", op.Values[0])
			}
		case OpPoint:
			if op.Vertices[0].Normal != mesh.Vertices[i].Normal {
				t.Errorf("point %d normal = %v, want %v", i, op.Vertices[0].Normal, mesh.Vertices[i].Normal)
			}
			i++
		}
	}
}

func TestHiddenLinesSequence(t *testing.T) {
	mesh := square(t, 1)
	rec := render(t, withMode(HiddenLines), mesh)

	var ranges [][2]float64
	var modes []PolygonMode
	var fillColor Color
	color := Color{}
	lit := false
	polys := 0
	for _, op := range rec.Ops {
		switch op.Kind {
		case OpDepthRange:
			ranges = append(ranges, op.Values)
		case OpPolygonMode:
			modes = append(modes, op.Mode)
		case OpColor:
			color = op.Color
		case OpLighting:
			lit = op.Enabled
		case OpPolygon:
			if polys == 0 {
				fillColor = color
				if lit {
					t.Error("background fill drawn with lighting on")
				}
			}
			if polys == mesh.FaceCount() {
				if color != ColorHiddenLine {
					t.Errorf("outline color = %v, want %v", color, ColorHiddenLine)
				}
				if !lit {
					t.Error("outline pass should restore lighting")
				}
			}
			polys++
		}
	}

	if want := [][2]float64{{0.01, 1}, {0, 1}}; !slices.Equal(ranges, want) {
		t.Errorf("depth ranges = %v, want %v", ranges, want)
	}
	if want := []PolygonMode{PolygonFill, PolygonLine, PolygonFill}; !slices.Equal(modes, want) {
		t.Errorf("polygon modes = %v, want %v", modes, want)
	}
	if fillColor != rec.ClearColor() {
		t.Errorf("fill color = %v, want background %v", fillColor, rec.ClearColor())
	}
}

func TestFlatLinesSequence(t *testing.T) {
	mesh := tetrahedron(t)
	rec := render(t, withMode(FlatLines), mesh)

	offset := false
	lit := false
	sawOffset := false
	for _, op := range rec.Ops {
		switch op.Kind {
		case OpPolygonOffset:
			offset = op.Enabled
			if op.Enabled {
				sawOffset = true
				if op.Values != [2]float64{1.5, 2} {
					t.Errorf("polygon offset = %v, want [1.5 2]", op.Values)
				}
			}
		case OpLighting:
			lit = op.Enabled
		case OpPolygon:
			if !offset {
				t.Error("fill drawn without polygon offset")
			}
		case OpLine:
			if offset || lit {
				t.Errorf("wire drawn with offset=%v lit=%v", offset, lit)
			}
		}
	}
	if !sawOffset {
		t.Error("polygon offset never enabled")
	}
}

func TestLightingOffStaysOff(t *testing.T) {
	opts := withMode(FlatLines)
	opts.Lighting = false
	rec := render(t, opts, tetrahedron(t))

	for _, op := range rec.Ops {
		if op.Kind == OpLighting && op.Enabled {
			t.Fatal("lighting enabled with Lighting=false")
		}
	}
}

func TestTwoSidedForwarded(t *testing.T) {
	opts := withMode(Flat)
	opts.TwoSided = true
	rec := render(t, opts, tetrahedron(t))

	for _, op := range rec.Ops {
		if op.Kind == OpLighting && op.Enabled && !op.TwoSided {
			t.Fatal("two-sided flag not forwarded")
		}
	}
}

func TestCulling(t *testing.T) {
	mesh := tetrahedron(t)
	cam := framed(mesh)
	// Move the scene behind the eye
	cam.Translate(math3d.V3(0, 0, 10*mesh.Radius()))

	t.Run("culled", func(t *testing.T) {
		rec := NewRecorder()
		s := NewSceneRenderer(withMode(Flat))
		s.Render(rec, cam, mesh)
		if rec.Count(OpPolygon) != 0 {
			t.Errorf("drew %d polygons behind the camera", rec.Count(OpPolygon))
		}
		if s.Stats != (CullingStats{MeshesTested: 1, MeshesCulled: 1}) {
			t.Errorf("stats = %+v", s.Stats)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		opts := withMode(Flat)
		opts.Cull = false
		rec := NewRecorder()
		s := NewSceneRenderer(opts)
		s.Render(rec, cam, mesh)
		if rec.Count(OpPolygon) != mesh.FaceCount() {
			t.Errorf("polygons = %d, want %d", rec.Count(OpPolygon), mesh.FaceCount())
		}
		if s.Stats != (CullingStats{}) {
			t.Errorf("stats = %+v with culling off", s.Stats)
		}
	})

	t.Run("visible", func(t *testing.T) {
		s := NewSceneRenderer(withMode(Flat))
		s.Render(NewRecorder(), framed(mesh), mesh)
		if s.Stats != (CullingStats{MeshesTested: 1, MeshesDrawn: 1}) {
			t.Errorf("stats = %+v", s.Stats)
		}
		s.ResetStats()
		if s.Stats != (CullingStats{}) {
			t.Errorf("ResetStats left %+v", s.Stats)
		}
	})
}

func TestParseDrawMode(t *testing.T) {
	for _, mode := range DrawModes {
		got, err := ParseDrawMode(mode.String())
		if err != nil || got != mode {
			t.Errorf("ParseDrawMode(%q) = %v, %v", mode.String(), got, err)
		}
	}

	tests := []struct {
		in   string
		want DrawMode
	}{
		{"FlatLines", FlatLines},
		{"hidden_lines", HiddenLines},
		{"HIDDENLINES", HiddenLines},
		{" smooth", Smooth},
	}
	for _, tc := range tests {
		if got, err := ParseDrawMode(tc.in); err != nil || got != tc.want {
			t.Errorf("ParseDrawMode(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}

	if _, err := ParseDrawMode("shaded"); err == nil {
		t.Error("ParseDrawMode(shaded) should fail")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Mode != FlatLines || !opts.Lighting || opts.TwoSided || opts.BoundingBox || opts.Boundary {
		t.Errorf("DefaultOptions() = %+v", opts)
	}
	if opts.Material.Name != MaterialGold.Name {
		t.Errorf("default material = %q, want gold", opts.Material.Name)
	}
}

func TestParseMaterial(t *testing.T) {
	for _, m := range Materials {
		got, err := ParseMaterial(m.Name)
		if err != nil || got.Name != m.Name {
			t.Errorf("ParseMaterial(%q) = %v, %v", m.Name, got.Name, err)
		}
	}
	if _, err := ParseMaterial("brass"); err == nil {
		t.Error("ParseMaterial(brass) should fail")
	}
}

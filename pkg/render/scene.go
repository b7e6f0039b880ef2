package render

import (
	"fmt"
	"strings"

	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/models"
)

// DrawMode selects how the mesh surface is drawn.
type DrawMode int

const (
	Points DrawMode = iota
	Wireframe
	HiddenLines
	FlatLines
	Flat
	Smooth
)

// DrawModes lists every mode in menu order.
var DrawModes = []DrawMode{Points, Wireframe, HiddenLines, FlatLines, Flat, Smooth}

func (m DrawMode) String() string {
	switch m {
	case Points:
		return "points"
	case Wireframe:
		return "wireframe"
	case HiddenLines:
		return "hidden-lines"
	case FlatLines:
		return "flat-lines"
	case Flat:
		return "flat"
	case Smooth:
		return "smooth"
	}
	return fmt.Sprintf("DrawMode(%d)", int(m))
}

// ParseDrawMode parses a mode name. Case, dashes and underscores are
// ignored, so "FlatLines", "flat-lines" and "flat_lines" are equivalent.
func ParseDrawMode(s string) (DrawMode, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	for _, m := range DrawModes {
		if strings.ReplaceAll(m.String(), "-", "") == key {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown draw mode %q", s)
}

// Options control what the scene renderer draws.
type Options struct {
	Mode        DrawMode
	Lighting    bool
	TwoSided    bool
	BoundingBox bool
	Boundary    bool
	Material    Material
	// Cull skips the mesh body when its bounding box is outside the view.
	Cull bool
}

// DefaultOptions returns flat-lines with lighting on and no overlays.
func DefaultOptions() Options {
	return Options{
		Mode:     FlatLines,
		Lighting: true,
		Material: MaterialGold,
		Cull:     true,
	}
}

// Camera supplies the matrices for a frame.
type Camera interface {
	Projection() math3d.Mat4
	Modelview() math3d.Mat4
}

// CullingStats counts frustum tests since the last ResetStats.
type CullingStats struct {
	MeshesTested int
	MeshesCulled int
	MeshesDrawn  int
}

// SceneRenderer issues the draw calls for one mesh.
type SceneRenderer struct {
	Options Options
	Stats   CullingStats

	lit bool
}

// NewSceneRenderer creates a renderer with the given options.
func NewSceneRenderer(opts Options) *SceneRenderer {
	return &SceneRenderer{Options: opts}
}

// ResetStats resets the culling statistics.
func (s *SceneRenderer) ResetStats() {
	s.Stats = CullingStats{}
}

// Render draws one frame of mesh as seen by cam. A nil mesh draws nothing
// beyond loading the matrices.
func (s *SceneRenderer) Render(t Target, cam Camera, mesh *models.Mesh) {
	proj, mv := cam.Projection(), cam.Modelview()
	t.SetProjection(proj)
	t.SetModelview(mv)
	s.setLighting(t, false)

	if mesh == nil {
		return
	}

	if s.Options.BoundingBox && !mesh.IsEmpty() {
		s.drawBoundingBox(t, mesh.Bounds())
	}
	if s.Options.Boundary {
		s.drawBoundary(t, mesh)
	}

	s.setLighting(t, s.Options.Lighting)
	if !mesh.IsEmpty() && s.visible(proj.Mul(mv), mesh) {
		s.drawMesh(t, mesh)
	}
	s.setLighting(t, false)
}

func (s *SceneRenderer) visible(viewProj math3d.Mat4, mesh *models.Mesh) bool {
	if !s.Options.Cull {
		return true
	}
	s.Stats.MeshesTested++
	if !NewFrustum(viewProj).Intersects(mesh.Bounds()) {
		s.Stats.MeshesCulled++
		return false
	}
	s.Stats.MeshesDrawn++
	return true
}

func (s *SceneRenderer) setLighting(t Target, on bool) {
	s.lit = on
	t.SetLighting(on, s.Options.TwoSided)
}

// unlit runs fn with lighting off, restoring it afterwards.
func (s *SceneRenderer) unlit(t Target, fn func()) {
	if !s.lit {
		fn()
		return
	}
	s.setLighting(t, false)
	fn()
	s.setLighting(t, true)
}

func (s *SceneRenderer) drawMesh(t Target, mesh *models.Mesh) {
	t.SetMaterial(s.Options.Material)

	switch s.Options.Mode {
	case Points:
		s.drawPoints(t, mesh)
	case Wireframe:
		s.drawWireframe(t, mesh)
	case HiddenLines:
		s.drawHiddenLines(t, mesh)
	case FlatLines:
		s.drawFlatLines(t, mesh)
	case Flat:
		t.SetColor(ColorSurface)
		t.SetShadeModel(ShadeFlat)
		s.drawFlat(t, mesh)
	case Smooth:
		s.drawSmooth(t, mesh)
	}
}

func (s *SceneRenderer) drawBoundingBox(t Target, b models.BoundingBox) {
	t.SetLineWidth(2)
	t.SetColor(ColorBoundingBox)
	for _, e := range b.Edges() {
		t.DrawLine(Vertex{Position: e[0]}, Vertex{Position: e[1]})
	}
	t.SetLineWidth(1)
}

func (s *SceneRenderer) drawBoundary(t Target, mesh *models.Mesh) {
	t.SetLineWidth(2)
	t.SetColor(ColorBoundary)
	for _, e := range mesh.Edges {
		if e.IsBoundary() {
			t.DrawLine(vertexAt(mesh, e.V[0]), vertexAt(mesh, e.V[1]))
		}
	}
	t.SetLineWidth(1)
}

func (s *SceneRenderer) drawPoints(t Target, mesh *models.Mesh) {
	t.SetColor(ColorPoints)
	t.SetPointSize(5)
	for _, v := range mesh.Vertices {
		t.DrawPoint(Vertex{Position: v.Position, Normal: v.Normal})
	}
}

func (s *SceneRenderer) drawWireframe(t Target, mesh *models.Mesh) {
	t.SetColor(ColorWire)
	for _, e := range mesh.Edges {
		t.DrawLine(vertexAt(mesh, e.V[0]), vertexAt(mesh, e.V[1]))
	}
}

func (s *SceneRenderer) drawHiddenLines(t Target, mesh *models.Mesh) {
	t.SetLineWidth(1)
	t.SetColor(t.ClearColor())
	t.SetDepthRange(0.01, 1)
	t.SetPolygonMode(PolygonFill)
	s.unlit(t, func() { s.drawFlat(t, mesh) })

	t.SetDepthRange(0, 1)
	t.SetPolygonMode(PolygonLine)
	t.SetColor(ColorHiddenLine)
	s.drawFlat(t, mesh)
	t.SetPolygonMode(PolygonFill)
}

func (s *SceneRenderer) drawFlatLines(t Target, mesh *models.Mesh) {
	t.SetPolygonOffset(true, 1.5, 2)
	t.SetShadeModel(ShadeFlat)
	t.SetColor(ColorWhite)
	s.drawFlat(t, mesh)
	t.SetPolygonOffset(false, 0, 0)

	s.unlit(t, func() { s.drawWireframe(t, mesh) })
}

// drawFlat draws each face as a polygon carrying its face normal.
func (s *SceneRenderer) drawFlat(t Target, mesh *models.Mesh) {
	var vs []Vertex
	for _, f := range mesh.Faces {
		vs = vs[:0]
		for _, idx := range f.V {
			vs = append(vs, Vertex{Position: mesh.Vertices[idx].Position, Normal: f.Normal})
		}
		t.DrawPolygon(vs)
	}
}

func (s *SceneRenderer) drawSmooth(t Target, mesh *models.Mesh) {
	t.SetColor(ColorSurface)
	t.SetShadeModel(ShadeSmooth)

	faces := make([][]int, len(mesh.Faces))
	for i, f := range mesh.Faces {
		faces[i] = f.V
	}
	t.DrawIndexed(mesh.Positions(), mesh.Normals(), faces)
}

func vertexAt(mesh *models.Mesh, i int) Vertex {
	v := mesh.Vertices[i]
	return Vertex{Position: v.Position, Normal: v.Normal}
}

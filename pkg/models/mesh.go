// Package models provides the polygon mesh used by meshview and the
// readers and writers for the formats it can open.
package models

import (
	"fmt"
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
)

// Mesh is an indexed polygon mesh. Faces may have any number of vertices;
// edges are derived from the faces by Update.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Faces    []Face
	Edges    []Edge

	// Bounding box (calculated by Update)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Vertex holds a position and its area-weighted normal.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Face is a polygon given as indices into Mesh.Vertices, in winding order.
type Face struct {
	V      []int
	Normal math3d.Vec3
}

// Edge is an undirected edge. V keeps the orientation of the first face
// that used it; Faces counts the faces sharing it.
type Edge struct {
	V     [2]int
	Faces int
}

// IsBoundary reports whether the edge borders exactly one face.
func (e Edge) IsBoundary() bool {
	return e.Faces == 1
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]Vertex, 0),
		Faces:    make([]Face, 0),
	}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(p math3d.Vec3) int {
	m.Vertices = append(m.Vertices, Vertex{Position: p})
	return len(m.Vertices) - 1
}

// AddFace appends a polygon. Faces need at least three vertices and every
// index must refer to an existing vertex.
func (m *Mesh) AddFace(idx ...int) error {
	if len(idx) < 3 {
		return fmt.Errorf("%w: face with %d vertices", ErrMalformed, len(idx))
	}
	for _, i := range idx {
		if i < 0 || i >= len(m.Vertices) {
			return fmt.Errorf("%w: vertex index %d out of range [0,%d)", ErrMalformed, i, len(m.Vertices))
		}
	}
	v := make([]int, len(idx))
	copy(v, idx)
	m.Faces = append(m.Faces, Face{V: v})
	return nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// EdgeCount returns the number of edges.
func (m *Mesh) EdgeCount() int {
	return len(m.Edges)
}

// IsEmpty reports whether the mesh has no vertices.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Update rebuilds everything derived from positions and faces: edges,
// face and vertex normals and the bounding box. Readers call it before
// returning a mesh.
func (m *Mesh) Update() {
	m.BuildEdges()
	m.CalculateNormals()
	m.CalculateBounds()
}

// BuildEdges derives the undirected edge list from the faces, in order of
// first use.
func (m *Mesh) BuildEdges() {
	index := make(map[[2]int]int, len(m.Faces)*2)
	m.Edges = m.Edges[:0]

	for _, f := range m.Faces {
		n := len(f.V)
		for i := range n {
			a, b := f.V[i], f.V[(i+1)%n]
			if a == b {
				continue
			}
			key := [2]int{min(a, b), max(a, b)}
			if ei, ok := index[key]; ok {
				m.Edges[ei].Faces++
				continue
			}
			index[key] = len(m.Edges)
			m.Edges = append(m.Edges, Edge{V: [2]int{a, b}, Faces: 1})
		}
	}
}

// faceArea returns the Newell normal of f. Its length is twice the
// polygon's area, so summing it weights by area.
func (m *Mesh) faceArea(f Face) math3d.Vec3 {
	var n math3d.Vec3
	count := len(f.V)
	for i := range count {
		cur := m.Vertices[f.V[i]].Position
		next := m.Vertices[f.V[(i+1)%count]].Position
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n
}

// CalculateNormals computes unit face normals and area-weighted vertex
// normals. Vertices not used by any face keep a zero normal.
func (m *Mesh) CalculateNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for i := range m.Faces {
		f := &m.Faces[i]
		area := m.faceArea(*f)
		f.Normal = area.Normalize()

		for _, vi := range f.V {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(area)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Bounds returns the bounding box computed by the last Update.
func (m *Mesh) Bounds() BoundingBox {
	return BoundingBox{Min: m.BoundsMin, Max: m.BoundsMax}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.Bounds().Center()
}

// Radius returns half the bounding box diagonal.
func (m *Mesh) Radius() float64 {
	return m.Bounds().Radius()
}

// EdgeLength returns the length of edge i.
func (m *Mesh) EdgeLength(i int) float64 {
	e := m.Edges[i]
	return m.Vertices[e.V[0]].Position.Distance(m.Vertices[e.V[1]].Position)
}

// BoundaryEdgeCount returns the number of edges with a single face.
func (m *Mesh) BoundaryEdgeCount() int {
	n := 0
	for _, e := range m.Edges {
		if e.IsBoundary() {
			n++
		}
	}
	return n
}

// Triangles fans every face into triangles.
func (m *Mesh) Triangles() [][3]int {
	tris := make([][3]int, 0, len(m.Faces))
	for _, f := range m.Faces {
		for i := 1; i+1 < len(f.V); i++ {
			tris = append(tris, [3]int{f.V[0], f.V[i], f.V[i+1]})
		}
	}
	return tris
}

// Positions returns the vertex positions in index order.
func (m *Mesh) Positions() []math3d.Vec3 {
	ps := make([]math3d.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		ps[i] = v.Position
	}
	return ps
}

// Normals returns the vertex normals in index order.
func (m *Mesh) Normals() []math3d.Vec3 {
	ns := make([]math3d.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		ns[i] = v.Normal
	}
	return ns
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]Vertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Edges:     make([]Edge, len(m.Edges)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Edges, m.Edges)
	for i, f := range m.Faces {
		v := make([]int, len(f.V))
		copy(v, f.V)
		clone.Faces[i] = Face{V: v, Normal: f.Normal}
	}
	return clone
}

// Stats summarizes a mesh the way the viewer reports it after loading.
type Stats struct {
	Vertices int
	Edges    int
	Faces    int
	Boundary int
	Bounds   BoundingBox
	Diagonal float64
	EdgeMin  float64
	EdgeMax  float64
	EdgeAvg  float64
}

// Stats computes counts, bounds and edge length statistics.
func (m *Mesh) Stats() Stats {
	s := Stats{
		Vertices: len(m.Vertices),
		Edges:    len(m.Edges),
		Faces:    len(m.Faces),
		Boundary: m.BoundaryEdgeCount(),
		Bounds:   m.Bounds(),
	}
	s.Diagonal = s.Bounds.Diagonal()

	if len(m.Edges) == 0 {
		return s
	}

	s.EdgeMin = math.MaxFloat64
	var sum float64
	for i := range m.Edges {
		l := m.EdgeLength(i)
		s.EdgeMin = min(s.EdgeMin, l)
		s.EdgeMax = max(s.EdgeMax, l)
		sum += l
	}
	s.EdgeAvg = sum / float64(len(m.Edges))
	return s
}

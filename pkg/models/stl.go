package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hschendel/stl"

	"github.com/taigrr/meshview/pkg/math3d"
)

// LoadSTL reads an ASCII or binary STL file. STL stores each triangle
// with its own corners, so identical corners are welded into shared
// vertices to recover edges and boundaries.
func LoadSTL(path string) (*Mesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open stl: %w", err)
	}
	return meshFromSolid(solid), nil
}

func meshFromSolid(solid *stl.Solid) *Mesh {
	mesh := NewMesh(solid.Name)
	welded := make(map[stl.Vec3]int, len(solid.Triangles))

	for _, tri := range solid.Triangles {
		var idx [3]int
		for i, v := range tri.Vertices {
			vi, ok := welded[v]
			if !ok {
				vi = mesh.AddVertex(math3d.V3(float64(v[0]), float64(v[1]), float64(v[2])))
				welded[v] = vi
			}
			idx[i] = vi
		}
		// Triangles collapsed by welding carry no area and no edges.
		if idx[0] == idx[1] || idx[1] == idx[2] || idx[0] == idx[2] {
			continue
		}
		mesh.Faces = append(mesh.Faces, Face{V: idx[:]})
	}
	return mesh
}

// SaveSTL writes mesh as binary STL, fanning polygons into triangles.
func SaveSTL(mesh *Mesh, path string) error {
	return solidFromMesh(mesh, path).WriteFile(path)
}

func solidFromMesh(mesh *Mesh, path string) *stl.Solid {
	name := mesh.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	solid := &stl.Solid{Name: name}

	for _, f := range mesh.Faces {
		n := toSTL(f.Normal)
		for i := 1; i+1 < len(f.V); i++ {
			solid.Triangles = append(solid.Triangles, stl.Triangle{
				Normal: n,
				Vertices: [3]stl.Vec3{
					toSTL(mesh.Vertices[f.V[0]].Position),
					toSTL(mesh.Vertices[f.V[i]].Position),
					toSTL(mesh.Vertices[f.V[i+1]].Position),
				},
			})
		}
	}
	return solid
}

func toSTL(v math3d.Vec3) stl.Vec3 {
	return stl.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

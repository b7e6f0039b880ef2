package models

import (
	"fmt"

	"github.com/fogleman/simplify"

	"github.com/taigrr/meshview/pkg/math3d"
)

// Simplify returns a decimated copy of mesh with roughly factor times its
// triangle count, using quadric error metrics. Polygons are triangulated
// first. factor must be in (0, 1].
func Simplify(mesh *Mesh, factor float64) (*Mesh, error) {
	if factor <= 0 || factor > 1 {
		return nil, fmt.Errorf("simplify factor %v outside (0, 1]", factor)
	}

	tris := mesh.Triangles()
	in := make([]*simplify.Triangle, 0, len(tris))
	for _, t := range tris {
		in = append(in, simplify.NewTriangle(
			toSimplify(mesh.Vertices[t[0]].Position),
			toSimplify(mesh.Vertices[t[1]].Position),
			toSimplify(mesh.Vertices[t[2]].Position),
		))
	}

	out := simplify.NewMesh(in).Simplify(factor)

	result := NewMesh(mesh.Name)
	welded := make(map[simplify.Vector]int)
	for _, t := range out.Triangles {
		var idx [3]int
		for i, v := range [3]simplify.Vector{t.V1, t.V2, t.V3} {
			vi, ok := welded[v]
			if !ok {
				vi = result.AddVertex(math3d.V3(v.X, v.Y, v.Z))
				welded[v] = vi
			}
			idx[i] = vi
		}
		if idx[0] == idx[1] || idx[1] == idx[2] || idx[0] == idx[2] {
			continue
		}
		result.Faces = append(result.Faces, Face{V: idx[:]})
	}
	result.Update()
	return result, nil
}

func toSimplify(v math3d.Vec3) simplify.Vector {
	return simplify.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

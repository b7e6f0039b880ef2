package render

import "github.com/taigrr/meshview/pkg/math3d"

// clipDistances returns signed distances to the near (z >= -w) and far
// (z <= w) clip planes. Both are non-negative inside.
func clipDistances(p math3d.Vec4) [2]float64 {
	return [2]float64{p.W + p.Z, p.W - p.Z}
}

func lerpClip(a, b clipVertex, t float64) clipVertex {
	return clipVertex{
		Pos: math3d.V4(
			a.Pos.X+t*(b.Pos.X-a.Pos.X),
			a.Pos.Y+t*(b.Pos.Y-a.Pos.Y),
			a.Pos.Z+t*(b.Pos.Z-a.Pos.Z),
			a.Pos.W+t*(b.Pos.W-a.Pos.W),
		),
		Color: lerpColor(a.Color, b.Color, t),
	}
}

// clipLine trims a segment to the near and far planes. ok is false when
// nothing remains.
func clipLine(a, b clipVertex) (clipVertex, clipVertex, bool) {
	for plane := range 2 {
		da := clipDistances(a.Pos)[plane]
		db := clipDistances(b.Pos)[plane]
		switch {
		case da < 0 && db < 0:
			return a, b, false
		case da < 0:
			a = lerpClip(a, b, da/(da-db))
		case db < 0:
			b = lerpClip(a, b, da/(da-db))
		}
	}
	return a, b, true
}

// clipPolygon clips a convex polygon to the near and far planes
// (Sutherland-Hodgman), writing the result into out.
func clipPolygon(in, out []clipVertex) []clipVertex {
	inside := true
	for _, v := range in {
		d := clipDistances(v.Pos)
		if d[0] < 0 || d[1] < 0 {
			inside = false
			break
		}
	}
	if inside {
		return append(out[:0], in...)
	}

	poly := in
	for plane := range 2 {
		var next []clipVertex
		for i := range poly {
			cur, nxt := poly[i], poly[(i+1)%len(poly)]
			dc := clipDistances(cur.Pos)[plane]
			dn := clipDistances(nxt.Pos)[plane]
			if dc >= 0 {
				next = append(next, cur)
			}
			if (dc >= 0) != (dn >= 0) {
				next = append(next, lerpClip(cur, nxt, dc/(dc-dn)))
			}
		}
		poly = next
	}
	return append(out[:0], poly...)
}

package viewer

import (
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
)

// projection derives the projection matrix from the view state. In
// Perspective mode the frustum has a 45 degree vertical field of view
// with near and far planes at 0.01 and 100 times the scene radius.
func projection(v ViewState, aspect float64) math3d.Mat4 {
	if v.Mode == Orthographic {
		o := v.Ortho
		return math3d.Ortho(o.Left, o.Right, o.Bottom, o.Top, -1, 1)
	}

	near := nearFactor * v.Radius
	far := farFactor * v.Radius
	top := near * math.Tan(fovY/2*math.Pi/180)
	right := top * aspect
	return math3d.Frustum(-right, right, -top, top, near, far)
}

// Package viewer implements the trackball camera: it owns the modelview
// and projection matrices and turns pointer input into camera motion.
//
// Matrices are column-major in the OpenGL layout. Every update composes a
// new local transform on the left of the current modelview, the way
// glLoadIdentity / glTranslate / glMultMatrix would.
package viewer

import (
	"fmt"
	"math"
	"strings"

	"github.com/taigrr/meshview/pkg/math3d"
)

// ProjectionMode selects how the scene is projected.
type ProjectionMode int

const (
	Perspective ProjectionMode = iota
	// Orthographic uses the stored window bounds as-is and does not frame
	// the scene radius; it is kept for completeness but not fully usable.
	Orthographic
)

func (m ProjectionMode) String() string {
	switch m {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	}
	return "unknown"
}

// ParseProjectionMode parses "perspective" or "orthographic".
func ParseProjectionMode(s string) (ProjectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "perspective", "persp":
		return Perspective, nil
	case "orthographic", "ortho":
		return Orthographic, nil
	}
	return Perspective, fmt.Errorf("unknown projection %q", s)
}

// Button identifies the pointer button held during a drag.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
	ButtonOther
)

// OrthoBounds are the window extents used in Orthographic mode.
type OrthoBounds struct {
	Left, Right, Bottom, Top float64
}

// ViewState is the camera state shared with the renderer.
type ViewState struct {
	Modelview      math3d.Mat4
	Projection     math3d.Mat4
	SavedModelview math3d.Mat4
	Center         math3d.Vec3
	Radius         float64
	Mode           ProjectionMode
	Ortho          OrthoBounds
}

// DragState tracks the pointer between press and release.
type DragState struct {
	Button          Button
	LastScreen      math3d.Vec2
	LastSphere      math3d.Vec3
	LastSphereValid bool
}

const (
	// TrackballRadius is the radius of the virtual sphere in normalized
	// viewport units.
	TrackballRadius = 0.6

	// WheelStep is the wheel delta of one notch.
	WheelStep = 120.0

	wheelZoom  = 0.05
	nearFactor = 0.01
	farFactor  = 100.0
	viewOffset = 2.0
	fovY       = 45.0
)

// Controller maps pointer input to camera transforms.
type Controller struct {
	view   ViewState
	drag   DragState
	width  int
	height int

	// last rotate-by-drag step, used to seed inertia on release
	spinAxis  math3d.Vec3
	spinAngle float64
	inertia   *Inertia
}

// NewController returns a controller with an identity view over a unit
// scene at the origin and a 1x1 viewport.
func NewController() *Controller {
	c := &Controller{
		width:  1,
		height: 1,
		view: ViewState{
			Modelview: math3d.Identity(),
			Mode:      Perspective,
			Ortho:     OrthoBounds{Left: -1, Right: 1, Bottom: -1, Top: 1},
		},
	}
	c.view.SavedModelview = c.view.Modelview
	c.SetScenePosition(math3d.Zero3(), 1)
	return c
}

// View returns a copy of the camera state.
func (c *Controller) View() ViewState {
	return c.view
}

// Drag returns a copy of the drag state.
func (c *Controller) Drag() DragState {
	return c.drag
}

// Modelview returns the current modelview matrix.
func (c *Controller) Modelview() math3d.Mat4 {
	return c.view.Modelview
}

// Projection returns the current projection matrix.
func (c *Controller) Projection() math3d.Mat4 {
	return c.view.Projection
}

// Center returns the scene center.
func (c *Controller) Center() math3d.Vec3 {
	return c.view.Center
}

// Radius returns the scene radius.
func (c *Controller) Radius() float64 {
	return c.view.Radius
}

// Viewport returns the viewport size in pixels.
func (c *Controller) Viewport() (width, height int) {
	return c.width, c.height
}

// Aspect returns the viewport width over height.
func (c *Controller) Aspect() float64 {
	return float64(c.width) / float64(c.height)
}

// Resize sets the viewport size and re-derives the projection. Sizes
// below one pixel are clamped to one.
func (c *Controller) Resize(width, height int) {
	c.width = max(width, 1)
	c.height = max(height, 1)
	c.updateProjection()
}

// SetScenePosition frames a scene of the given center and radius: it
// re-derives the projection and moves the center to 2*radius in front of
// the camera. A non-positive or non-finite radius is treated as 1.
func (c *Controller) SetScenePosition(center math3d.Vec3, radius float64) {
	if !center.IsFinite() {
		center = math3d.Zero3()
	}
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		radius = 1
	}
	c.view.Center = center
	c.view.Radius = radius

	c.updateProjection()
	c.ViewAll()
}

// ViewAll translates the view so the scene center sits on the view axis
// at 2*radius from the eye, keeping the current rotation.
func (c *Controller) ViewAll() {
	tc := c.view.Modelview.MulAffine(c.view.Center)
	trans := tc.Negate().Sub(math3d.V3(0, 0, viewOffset*c.view.Radius))
	c.view.Modelview = translated(c.view.Modelview, trans)
}

// SetProjectionMode switches projection, re-derives it and re-frames the
// scene.
func (c *Controller) SetProjectionMode(mode ProjectionMode) {
	c.view.Mode = mode
	c.updateProjection()
	c.ViewAll()
}

// ProjectionMode returns the active projection mode.
func (c *Controller) ProjectionMode() ProjectionMode {
	return c.view.Mode
}

// SetOrthoBounds sets the window used in Orthographic mode.
func (c *Controller) SetOrthoBounds(b OrthoBounds) {
	c.view.Ortho = b
	c.updateProjection()
}

func (c *Controller) updateProjection() {
	c.view.Projection = projection(c.view, c.Aspect())
}

// Press starts a drag with button at point.
func (c *Controller) Press(point math3d.Vec2, button Button) {
	c.StopInertia()
	c.spinAngle = 0
	c.drag.LastScreen = point
	c.drag.LastSphereValid, c.drag.LastSphere = c.MapToSphere(point)
	c.drag.Button = button
}

// Move continues a drag. The primary button rotates and the secondary
// button pans, but only when the previous point was on the trackball;
// the new point is always remembered.
func (c *Controller) Move(point math3d.Vec2) {
	if c.drag.LastSphereValid {
		switch c.drag.Button {
		case ButtonPrimary:
			c.rotateByDrag(point)
		case ButtonSecondary:
			c.translateByDrag(point)
		}
	}

	c.drag.LastScreen = point
	c.drag.LastSphereValid, c.drag.LastSphere = c.MapToSphere(point)
}

// Release ends the drag. With inertia configured, the last rotation step
// keeps spinning and decays.
func (c *Controller) Release() {
	if c.drag.Button == ButtonPrimary && c.inertia != nil && c.spinAngle != 0 {
		c.inertia.Start(c.spinAxis, c.spinAngle)
	}
	c.spinAngle = 0
	c.drag.Button = ButtonNone
	c.drag.LastSphereValid = false
}

// Wheel zooms along the view axis by -(delta/120)*0.05*radius.
func (c *Controller) Wheel(delta float64) {
	d := -delta / WheelStep * wheelZoom * c.view.Radius
	c.Translate(math3d.V3(0, 0, d))
}

// MapToSphere projects a viewport point onto the virtual trackball: a
// sphere of radius 0.6 near the middle, blended into a hyperbolic sheet
// outside r/sqrt(2). Every point maps, so valid is always true.
func (c *Controller) MapToSphere(point math3d.Vec2) (valid bool, p math3d.Vec3) {
	w, h := float64(c.width), float64(c.height)
	x := (2*point.X - w) / w
	y := -(2*point.Y - h) / h
	return true, mapToSphere(x, y)
}

func mapToSphere(x, y float64) math3d.Vec3 {
	x2y2 := x*x + y*y
	rsqr := TrackballRadius * TrackballRadius

	p := math3d.V3(x, y, 0)
	if x2y2 < 0.5*rsqr {
		p.Z = math.Sqrt(rsqr - x2y2)
	} else {
		p.Z = 0.5 * rsqr / math.Sqrt(x2y2)
	}
	return p
}

// trackballRotation returns the axis and angle in degrees that carry
// sphere point from onto to.
func trackballRotation(from, to math3d.Vec3) (axis math3d.Vec3, degrees float64) {
	axis = from.Cross(to)
	if axis.LenSq() < 1e-7 {
		axis = math3d.UnitX()
	} else {
		axis = axis.Normalize()
	}

	t := 0.5 * from.Sub(to).Len() / TrackballRadius
	t = max(-1, min(1, t))
	return axis, 2 * math.Asin(t) * 180 / math.Pi
}

func (c *Controller) rotateByDrag(point math3d.Vec2) {
	ok, p := c.MapToSphere(point)
	if !ok {
		return
	}
	axis, angle := trackballRotation(c.drag.LastSphere, p)
	c.Rotate(axis, angle)
	c.spinAxis, c.spinAngle = axis, angle
}

func (c *Controller) translateByDrag(point math3d.Vec2) {
	m := c.view.Modelview
	ctr := c.view.Center

	den := m[3]*ctr.X + m[7]*ctr.Y + m[11]*ctr.Z + m[15]
	if den == 0 {
		return
	}
	z := -(m[2]*ctr.X + m[6]*ctr.Y + m[10]*ctr.Z + m[14]) / den

	w, h := float64(c.width), float64(c.height)
	near := nearFactor * c.view.Radius
	top := math.Tan(fovY/2*math.Pi/180) * near
	right := w / h * top

	dx := point.X - c.drag.LastScreen.X
	dy := point.Y - c.drag.LastScreen.Y

	c.Translate(math3d.V3(
		2*dx/w*right/near*z,
		-2*dy/h*top/near*z,
		0,
	))
}

// Rotate turns the view by degrees around axis, pivoting on the scene
// center in view space.
func (c *Controller) Rotate(axis math3d.Vec3, degrees float64) {
	c.view.Modelview = rotatedAbout(c.view.Modelview, c.view.Center, axis, degrees)
}

// Translate moves the view by t in view space.
func (c *Controller) Translate(t math3d.Vec3) {
	c.view.Modelview = translated(c.view.Modelview, t)
}

// CopyView remembers the current modelview.
func (c *Controller) CopyView() {
	c.view.SavedModelview = c.view.Modelview
}

// RestoreView brings back the modelview saved by CopyView.
func (c *Controller) RestoreView() {
	c.view.Modelview = c.view.SavedModelview
}

// ResetView returns to the identity view and re-frames the current scene.
func (c *Controller) ResetView() {
	c.StopInertia()
	c.view.Modelview = math3d.Identity()
	c.SetScenePosition(c.view.Center, c.view.Radius)
}

// translated returns T(t) * m.
func translated(m math3d.Mat4, t math3d.Vec3) math3d.Mat4 {
	return math3d.Translate(t).Mul(m)
}

// rotatedAbout returns T(tc) * R(axis, degrees) * T(-tc) * m, where tc is
// center transformed into view space by m.
func rotatedAbout(m math3d.Mat4, center, axis math3d.Vec3, degrees float64) math3d.Mat4 {
	tc := m.MulAffine(center)
	local := math3d.Translate(tc).
		Mul(math3d.RotateDeg(axis, degrees)).
		Mul(math3d.Translate(tc.Negate()))
	return local.Mul(m)
}

package viewer

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/meshview/pkg/math3d"
)

// spinEpsilon is the per-frame angle, in degrees, below which a spin stops.
const spinEpsilon = 1e-3

// Inertia keeps a released trackball spinning, easing the per-frame angle
// to zero with a damped spring.
type Inertia struct {
	spring   harmonica.Spring
	axis     math3d.Vec3
	angle    float64
	velocity float64
	active   bool
}

// NewInertia creates a spin decay stepped at fps frames per second.
// Higher frequency stops sooner; damping of 1 or more never overshoots.
func NewInertia(fps int, frequency, damping float64) *Inertia {
	if fps <= 0 {
		fps = 60
	}
	return &Inertia{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
	}
}

// Start spins around axis, beginning at degrees per frame.
func (in *Inertia) Start(axis math3d.Vec3, degrees float64) {
	in.axis = axis
	in.angle = degrees
	in.velocity = 0
	in.active = math.Abs(degrees) >= spinEpsilon
}

// Stop halts any spin.
func (in *Inertia) Stop() {
	in.active = false
	in.angle = 0
	in.velocity = 0
}

// Active reports whether a spin is in progress.
func (in *Inertia) Active() bool {
	return in.active
}

// Step advances the spring one frame and returns the rotation to apply.
// ok is false once the spin has died out.
func (in *Inertia) Step() (axis math3d.Vec3, degrees float64, ok bool) {
	if !in.active {
		return math3d.Vec3{}, 0, false
	}
	in.angle, in.velocity = in.spring.Update(in.angle, in.velocity, 0)
	if math.Abs(in.angle) < spinEpsilon {
		in.Stop()
		return math3d.Vec3{}, 0, false
	}
	return in.axis, in.angle, true
}

// SetInertia enables spin after release; nil disables it.
func (c *Controller) SetInertia(in *Inertia) {
	c.StopInertia()
	c.inertia = in
}

// StopInertia halts a spin in progress.
func (c *Controller) StopInertia() {
	if c.inertia != nil {
		c.inertia.Stop()
	}
}

// Tick advances inertia by one frame and reports whether the view moved.
func (c *Controller) Tick() bool {
	if c.inertia == nil {
		return false
	}
	axis, degrees, ok := c.inertia.Step()
	if !ok {
		return false
	}
	c.Rotate(axis, degrees)
	return true
}

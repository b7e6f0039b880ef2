// Package terminal runs the viewer in a terminal. The scene is rasterized
// in software into a framebuffer twice as tall as the terminal and shown
// with half-block characters; mouse and keys drive the session.
package terminal

import (
	"time"

	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/meshview/internal/app"
	"github.com/taigrr/meshview/internal/config"
	"github.com/taigrr/meshview/internal/logger"
	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/render"
	"github.com/taigrr/meshview/pkg/viewer"
)

// Viewer adapts a session to a terminal screen. It implements
// uv.Drawable.
type Viewer struct {
	session *app.Session
	fb      *render.Framebuffer
	raster  *render.Rasterizer
	hud     *HUD

	cols, rows int
	showHUD    bool
	message    string
	quit       bool
	dirty      bool
	log        *log.Logger
}

// NewViewer creates a viewer for a terminal of cols x rows cells.
func NewViewer(s *app.Session, cfg *config.Config, cols, rows int) *Viewer {
	v := &Viewer{
		session: s,
		hud:     NewHUD(time.Now()),
		showHUD: cfg.Terminal.ShowHUD,
		log:     logger.With("component", "terminal"),
	}
	v.raster = render.NewRasterizer(nil)
	v.raster.Scale = cfg.Terminal.PixelScale
	v.raster.Background = cfg.BackgroundColor()
	v.Resize(cols, rows)

	s.OnMeshLoaded(func(ev app.MeshLoaded) {
		v.message = ev.Message()
		v.dirty = true
	})
	return v
}

// Resize reallocates the framebuffer for a terminal of cols x rows cells.
func (v *Viewer) Resize(cols, rows int) {
	v.cols, v.rows = max(cols, 1), max(rows, 1)
	v.fb = render.NewFramebuffer(v.cols, v.rows*2)
	v.raster.SetFramebuffer(v.fb)
	v.session.Controller.Resize(v.fb.Width, v.fb.Height)
	v.dirty = true
}

// Framebuffer returns the image of the last frame.
func (v *Viewer) Framebuffer() *render.Framebuffer {
	return v.fb
}

// Quit reports whether the user asked to leave.
func (v *Viewer) Quit() bool {
	return v.quit || v.session.Quit()
}

// HandleEvent applies a terminal event to the session.
func (v *Viewer) HandleEvent(ev uv.Event) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.Resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		v.handleKey(ev)

	case uv.MouseClickEvent:
		v.session.Controller.Press(cellToPixel(ev.X, ev.Y), button(ev.Button))

	case uv.MouseMotionEvent:
		// Motion without a pressed button only matters mid-drag.
		if v.session.Controller.Drag().Button != viewer.ButtonNone {
			v.session.Controller.Move(cellToPixel(ev.X, ev.Y))
		}

	case uv.MouseReleaseEvent:
		v.session.Controller.Release()

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			// Positive delta moves the scene away; the sign is intentional.
			v.session.Controller.Wheel(viewer.WheelStep)
		case uv.MouseWheelDown:
			v.session.Controller.Wheel(-viewer.WheelStep)
		}

	default:
		return
	}
	v.dirty = true
}

// Frame advances inertia and redraws when anything changed. It reports
// whether a new image was rendered.
func (v *Viewer) Frame(now time.Time) bool {
	if v.session.Controller.Tick() {
		v.dirty = true
	}
	v.hud.UpdateFPS(now)
	if !v.dirty {
		return false
	}
	v.raster.Clear()
	v.session.Render(v.raster)
	v.dirty = false
	return true
}

// Draw implements uv.Drawable: the framebuffer, then the HUD bars.
func (v *Viewer) Draw(scr uv.Screen, area uv.Rectangle) {
	v.fb.Draw(scr, area)
	if !v.showHUD || area.Dy() < 2 {
		return
	}

	st := v.status()
	w := area.Dx()
	uv.NewStyledString(v.hud.Top(st, w)).Draw(scr, uv.Rect(area.Min.X, area.Min.Y, w, 1))
	uv.NewStyledString(v.hud.Bottom(st, w)).Draw(scr, uv.Rect(area.Min.X, area.Max.Y-1, w, 1))
}

func (v *Viewer) status() Status {
	st := Status{
		Options:    v.session.Renderer.Options,
		Projection: v.session.Controller.ProjectionMode(),
		Message:    v.message,
	}
	if m := v.session.Mesh(); m != nil {
		st.Name = m.Name
		st.Vertices = m.VertexCount()
		st.Faces = m.FaceCount()
	}
	return st
}

// cellToPixel maps a cell to the center of its pair of framebuffer pixels.
func cellToPixel(x, y int) math3d.Vec2 {
	return math3d.V2(float64(x)+0.5, float64(y*2)+1)
}

func button(b uv.MouseButton) viewer.Button {
	switch b {
	case uv.MouseLeft:
		return viewer.ButtonPrimary
	case uv.MouseRight:
		return viewer.ButtonSecondary
	case uv.MouseNone:
		return viewer.ButtonNone
	default:
		return viewer.ButtonOther
	}
}

//go:build !nogl

// Package desktop runs the viewer in a glfw window with a legacy OpenGL
// context, drawing through the fixed-function gl21 target.
package desktop

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/taigrr/meshview/internal/app"
	"github.com/taigrr/meshview/internal/config"
	"github.com/taigrr/meshview/internal/logger"
	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/render"
	"github.com/taigrr/meshview/pkg/render/gl21"
	"github.com/taigrr/meshview/pkg/viewer"
)

func init() {
	// glfw must be on main thread
	runtime.LockOSThread()
}

// Options configure Run.
type Options struct {
	Width, Height int
	Title         string
	// Changes delivers paths of files that changed on disk; nil disables
	// reloading.
	Changes <-chan string
}

// window holds the per-window state the glfw callbacks update.
type window struct {
	session *app.Session
	target  *gl21.Target
	win     *glfw.Window
	title   string
	log     *log.Logger

	fbWidth, fbHeight int
	scale             float64 // framebuffer pixels per window coordinate
	dirty             bool
}

// Run opens the window and runs the viewer until it is closed or ctx is
// done. It must be called from the main goroutine.
func Run(ctx context.Context, s *app.Session, cfg *config.Config, opts Options) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.Samples, 4)

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Destroy()
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	w := &window{
		session: s,
		target:  gl21.New(cfg.BackgroundColor(), render.DefaultLights()),
		win:     win,
		title:   opts.Title,
		log:     logger.With("component", "desktop"),
		dirty:   true,
	}
	if err := w.target.Init(); err != nil {
		return err
	}

	win.SetKeyCallback(w.keyCallback)
	win.SetCharCallback(w.charCallback)
	win.SetMouseButtonCallback(w.mouseButtonCallback)
	win.SetCursorPosCallback(w.cursorPosCallback)
	win.SetScrollCallback(w.scrollCallback)
	win.SetFramebufferSizeCallback(w.framebufferSizeCallback)
	win.SetDropCallback(w.dropCallback)

	s.OnMeshLoaded(func(ev app.MeshLoaded) {
		w.dirty = true
		w.setTitle()
		if !ev.OK {
			w.log.Warn(ev.Message())
		}
	})

	fw, fh := win.GetFramebufferSize()
	ww, _ := win.GetSize()
	w.resize(fw, fh, ww)
	w.setTitle()

	for !win.ShouldClose() && !s.Quit() {
		if ctx.Err() != nil {
			return nil
		}

		select {
		case path := <-opts.Changes:
			w.log.Info("file changed, reloading", "path", path)
			s.Reload()
		default:
		}

		if s.Controller.Tick() {
			w.dirty = true
		}
		if w.dirty {
			w.draw()
			win.SwapBuffers()
			w.dirty = false
		}

		glfw.WaitEventsTimeout((time.Second / 60).Seconds())
	}
	return nil
}

func (w *window) draw() {
	w.target.Clear()
	w.session.Render(w.target)
}

func (w *window) resize(fbWidth, fbHeight, winWidth int) {
	w.fbWidth, w.fbHeight = max(fbWidth, 1), max(fbHeight, 1)
	w.scale = 1
	if winWidth > 0 {
		w.scale = float64(w.fbWidth) / float64(winWidth)
	}
	w.target.Viewport(w.fbWidth, w.fbHeight)
	w.session.Controller.Resize(w.fbWidth, w.fbHeight)
	w.dirty = true
}

func (w *window) setTitle() {
	title := w.title
	if m := w.session.Mesh(); m != nil {
		title = fmt.Sprintf("%s - %s", w.title, m.Name)
	}
	w.win.SetTitle(title)
}

// cursor converts window coordinates to framebuffer pixels, the units the
// controller's viewport is in.
func (w *window) cursor(x, y float64) math3d.Vec2 {
	return math3d.V2(x*w.scale, y*w.scale)
}

func (w *window) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape:
		w.session.HandleKey("escape")
	case glfw.KeyF12:
		w.screenshot()
	}
}

func (w *window) charCallback(_ *glfw.Window, char rune) {
	key := string(char)
	if key == "s" {
		w.screenshot()
		return
	}
	if msg, ok := w.session.Command(key); ok {
		w.log.Debug(msg, "key", key)
		w.dirty = true
		return
	}
	w.session.HandleKey(key)
}

func (w *window) mouseButtonCallback(win *glfw.Window, b glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	switch action {
	case glfw.Press:
		x, y := win.GetCursorPos()
		w.session.Controller.Press(w.cursor(x, y), button(b))
	case glfw.Release:
		w.session.Controller.Release()
	}
	w.dirty = true
}

func (w *window) cursorPosCallback(_ *glfw.Window, x, y float64) {
	if w.session.Controller.Drag().Button == viewer.ButtonNone {
		return
	}
	w.session.Controller.Move(w.cursor(x, y))
	w.dirty = true
}

func (w *window) scrollCallback(_ *glfw.Window, _, yoff float64) {
	// Scrolling up (yoff > 0) moves the scene away; the sign is intentional.
	w.session.Controller.Wheel(yoff * viewer.WheelStep)
	w.dirty = true
}

func (w *window) framebufferSizeCallback(win *glfw.Window, width, height int) {
	ww, _ := win.GetSize()
	w.resize(width, height, ww)
}

func (w *window) dropCallback(_ *glfw.Window, names []string) {
	path, ok := firstReadable(names)
	if !ok {
		w.log.Warn("dropped files have no supported mesh format", "files", len(names))
		return
	}
	w.session.Load(path)
}

func (w *window) screenshot() {
	w.draw()
	img := w.target.ReadPixels(w.fbWidth, w.fbHeight)
	if _, err := w.session.Screenshot(img); err != nil {
		w.log.Error("screenshot", "err", err)
	}
	w.dirty = true
}

func button(b glfw.MouseButton) viewer.Button {
	switch b {
	case glfw.MouseButtonLeft:
		return viewer.ButtonPrimary
	case glfw.MouseButtonRight:
		return viewer.ButtonSecondary
	default:
		return viewer.ButtonOther
	}
}

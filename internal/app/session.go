// Package app holds the viewer session shared by the terminal and desktop
// frontends: the current mesh, the camera controller and the scene
// renderer, plus the operations the frontends bind to keys and menus.
package app

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/taigrr/meshview/internal/config"
	"github.com/taigrr/meshview/internal/logger"
	"github.com/taigrr/meshview/pkg/models"
	"github.com/taigrr/meshview/pkg/render"
	"github.com/taigrr/meshview/pkg/viewer"
)

// MeshLoaded reports the outcome of a load.
type MeshLoaded struct {
	ID   uuid.UUID
	OK   bool
	Path string
	Err  error
}

// Message is the user-facing text for the event.
func (e MeshLoaded) Message() string {
	if e.OK {
		return "loaded " + filepath.Base(e.Path)
	}
	return fmt.Sprintf("could not load %s: %v", filepath.Base(e.Path), e.Err)
}

// ErrNoMesh is returned by operations that need a loaded mesh.
var ErrNoMesh = errors.New("no mesh loaded")

// Session is the state of one viewer window. It is not safe for
// concurrent use; frontends drive it from their event loop.
type Session struct {
	Controller *viewer.Controller
	Renderer   *render.SceneRenderer

	mesh   *models.Mesh
	path   string
	shots  config.ScreenshotConfig
	now    func() time.Time
	log    *log.Logger
	quit   bool
	loaded []func(MeshLoaded)
}

// NewSession creates a session configured from cfg.
func NewSession(cfg *config.Config) *Session {
	c := viewer.NewController()
	if cfg.Interaction.Inertia {
		c.SetInertia(viewer.NewInertia(cfg.Terminal.FPS, cfg.Interaction.SpringFrequency, cfg.Interaction.SpringDamping))
	}

	s := &Session{
		Controller: c,
		Renderer:   render.NewSceneRenderer(cfg.RenderOptions()),
		shots:      cfg.Screenshot,
		now:        time.Now,
		log:        logger.With("component", "session"),
	}
	s.SetProjectionMode(cfg.ProjectionMode())
	return s
}

// OnMeshLoaded registers fn to be called after every load attempt.
func (s *Session) OnMeshLoaded(fn func(MeshLoaded)) {
	s.loaded = append(s.loaded, fn)
}

// Mesh returns the current mesh, or nil.
func (s *Session) Mesh() *models.Mesh {
	return s.mesh
}

// Path returns the file the current mesh was loaded from.
func (s *Session) Path() string {
	return s.path
}

// Options returns the render options, for toggling from key bindings.
func (s *Session) Options() *render.Options {
	return &s.Renderer.Options
}

// Load reads the mesh at path and frames it. On failure the previous mesh
// is kept. Every attempt is reported to the OnMeshLoaded callbacks.
func (s *Session) Load(path string) MeshLoaded {
	ev := MeshLoaded{ID: uuid.New(), Path: path}
	l := s.log.With("load", ev.ID.String(), "path", path)

	start := time.Now()
	mesh, err := models.ReadMesh(path)
	if err != nil {
		ev.Err = err
		l.Error("load failed", "err", err)
		s.emit(ev)
		return ev
	}

	s.mesh = mesh
	s.path = path
	ev.OK = true
	l.Info("mesh loaded", "took", time.Since(start).Round(time.Millisecond))
	logStats(l, mesh.Stats())

	s.frame()
	s.emit(ev)
	return ev
}

// Reload reads the current file again.
func (s *Session) Reload() MeshLoaded {
	if s.path == "" {
		ev := MeshLoaded{ID: uuid.New(), Err: ErrNoMesh}
		s.emit(ev)
		return ev
	}
	return s.Load(s.path)
}

// Save writes the current mesh to path with full float precision.
func (s *Session) Save(path string) error {
	if s.mesh == nil {
		return ErrNoMesh
	}
	if err := models.WriteMesh(s.mesh, path, models.DefaultPrecision); err != nil {
		return fmt.Errorf("save mesh: %w", err)
	}
	s.log.Info("mesh saved", "path", path)
	return nil
}

// Clear drops the current mesh.
func (s *Session) Clear() {
	s.mesh = nil
	s.path = ""
	s.log.Debug("mesh cleared")
}

// ViewCenter re-frames the current mesh, keeping the rotation.
func (s *Session) ViewCenter() {
	s.frame()
}

// SetProjectionMode switches projection; orthographic is accepted but
// logged as incomplete.
func (s *Session) SetProjectionMode(mode viewer.ProjectionMode) {
	if mode == viewer.Orthographic {
		s.log.Warn("orthographic projection is not fully functional")
	}
	s.Controller.SetProjectionMode(mode)
}

// ToggleProjection flips between perspective and orthographic.
func (s *Session) ToggleProjection() viewer.ProjectionMode {
	mode := viewer.Perspective
	if s.Controller.ProjectionMode() == viewer.Perspective {
		mode = viewer.Orthographic
	}
	s.SetProjectionMode(mode)
	return mode
}

// SetDrawMode selects the draw mode.
func (s *Session) SetDrawMode(mode render.DrawMode) {
	s.Renderer.Options.Mode = mode
	s.log.Debug("draw mode", "mode", mode)
}

// Render draws the current mesh with the session camera.
func (s *Session) Render(t render.Target) {
	s.Renderer.Render(t, s.Controller, s.mesh)
}

// Screenshot saves img next to the current mesh, or in the working
// directory when no mesh is loaded, and returns the written path.
func (s *Session) Screenshot(img image.Image) (string, error) {
	dir := "."
	if s.path != "" {
		dir = filepath.Dir(s.path)
	}

	opts := render.ScreenshotOptions{Scale: s.shots.Scale}
	if s.shots.Caption {
		opts.Caption = s.caption()
	}

	path, err := render.SaveScreenshot(img, dir, s.now(), opts)
	if err != nil {
		s.log.Error("screenshot failed", "err", err)
		return "", err
	}
	s.log.Info("screenshot saved", "path", path)
	return path, nil
}

func (s *Session) caption() string {
	name := "(no mesh)"
	if s.path != "" {
		name = filepath.Base(s.path)
	}
	return fmt.Sprintf("%s  %s", name, s.Renderer.Options.Mode)
}

// HandleKey interprets a key the frontend did not bind. Only escape is
// understood: it asks the frontend to quit. It reports whether the key was
// handled.
func (s *Session) HandleKey(key string) bool {
	if key == "escape" || key == "esc" {
		s.quit = true
		return true
	}
	return false
}

// Quit reports whether the session asked to close.
func (s *Session) Quit() bool {
	return s.quit
}

func (s *Session) frame() {
	if s.mesh == nil {
		return
	}
	if s.mesh.VertexCount() == 0 {
		s.log.Warn("no vertices", "path", s.path)
		return
	}
	b := s.mesh.Bounds()
	s.Controller.SetScenePosition(b.Center(), b.Radius())
}

func (s *Session) emit(ev MeshLoaded) {
	for _, fn := range s.loaded {
		fn(ev)
	}
}

func logStats(l *log.Logger, st models.Stats) {
	l.Info("mesh info",
		"vertices", st.Vertices,
		"edges", st.Edges,
		"faces", st.Faces,
		"boundary", st.Boundary,
	)
	l.Debug("mesh bounds",
		"min", st.Bounds.Min,
		"max", st.Bounds.Max,
		"diagonal", st.Diagonal,
	)
	l.Debug("edge lengths", "min", st.EdgeMin, "max", st.EdgeMax, "avg", st.EdgeAvg)
}

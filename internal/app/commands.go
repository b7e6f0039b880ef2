package app

import (
	"fmt"

	"github.com/taigrr/meshview/pkg/render"
)

// Command is a viewer action bound to a key. Run returns a short status
// message for the frontend to show.
type Command struct {
	Key  string
	Help string
	Run  func(s *Session) string
}

// Commands are the key bindings shared by every frontend. Keys are the
// printable character typed.
var Commands = []Command{
	{"1", "points", drawMode(render.Points)},
	{"2", "wireframe", drawMode(render.Wireframe)},
	{"3", "hidden lines", drawMode(render.HiddenLines)},
	{"4", "flat lines", drawMode(render.FlatLines)},
	{"5", "flat", drawMode(render.Flat)},
	{"6", "smooth", drawMode(render.Smooth)},
	{"b", "bounding box", toggle("bounding box", func(o *render.Options) *bool { return &o.BoundingBox })},
	{"n", "boundary", toggle("boundary", func(o *render.Options) *bool { return &o.Boundary })},
	{"l", "lighting", toggle("lighting", func(o *render.Options) *bool { return &o.Lighting })},
	{"d", "two-sided lighting", toggle("two-sided", func(o *render.Options) *bool { return &o.TwoSided })},
	{"m", "next material", nextMaterial},
	{"p", "projection", func(s *Session) string {
		return "projection " + s.ToggleProjection().String()
	}},
	{"c", "copy view", func(s *Session) string {
		s.Controller.CopyView()
		return "view copied"
	}},
	{"v", "restore view", func(s *Session) string {
		s.Controller.RestoreView()
		return "view restored"
	}},
	{"r", "reset view", func(s *Session) string {
		s.Controller.ResetView()
		return "view reset"
	}},
	{"f", "view center", func(s *Session) string {
		s.ViewCenter()
		return "centered"
	}},
	{"R", "reload", func(s *Session) string {
		return s.Reload().Message()
	}},
}

// Command runs the command bound to key and reports whether there was one.
func (s *Session) Command(key string) (string, bool) {
	for _, c := range Commands {
		if c.Key == key {
			return c.Run(s), true
		}
	}
	return "", false
}

// CommandHelp lists the shared bindings, one per line.
func CommandHelp() []string {
	lines := make([]string, 0, len(Commands))
	for _, c := range Commands {
		lines = append(lines, fmt.Sprintf("%-8s %s", c.Key, c.Help))
	}
	return lines
}

func drawMode(m render.DrawMode) func(*Session) string {
	return func(s *Session) string {
		s.SetDrawMode(m)
		return m.String()
	}
}

func toggle(name string, field func(*render.Options) *bool) func(*Session) string {
	return func(s *Session) string {
		p := field(s.Options())
		*p = !*p
		if *p {
			return name + " on"
		}
		return name + " off"
	}
}

func nextMaterial(s *Session) string {
	opts := s.Options()
	next := 0
	for i, m := range render.Materials {
		if m.Name == opts.Material.Name {
			next = (i + 1) % len(render.Materials)
			break
		}
	}
	opts.Material = render.Materials[next]
	return "material " + opts.Material.Name
}

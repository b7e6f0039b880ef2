package terminal

import (
	"fmt"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/meshview/internal/app"
)

// binding maps keys to a viewer action. The action returns a status
// message for the HUD.
type binding struct {
	keys   []string
	help   string
	action func(v *Viewer) string
}

var bindings = []binding{
	{[]string{"s"}, "screenshot", func(v *Viewer) string {
		path, err := v.session.Screenshot(v.fb.ToImage())
		if err != nil {
			return err.Error()
		}
		return "saved " + path
	}},
	{[]string{"?", "shift+/"}, "toggle HUD", func(v *Viewer) string {
		v.showHUD = !v.showHUD
		return ""
	}},
	{[]string{"+", "="}, "zoom in", func(v *Viewer) string {
		v.session.Controller.Wheel(-zoomStep)
		return ""
	}},
	{[]string{"-", "_"}, "zoom out", func(v *Viewer) string {
		v.session.Controller.Wheel(zoomStep)
		return ""
	}},
}

// zoomStep is the wheel delta of one zoom key press, two notches. A
// positive wheel delta moves the scene away.
const zoomStep = 240

// handleKey runs the terminal binding for ev, then the shared session
// commands. Anything left goes to the session, which only understands
// escape.
func (v *Viewer) handleKey(ev uv.KeyPressEvent) {
	if ev.MatchString("ctrl+c") {
		v.quit = true
		return
	}
	for _, b := range bindings {
		if matches(ev, b.keys) {
			v.message = b.action(v)
			return
		}
	}
	if ev.Text != "" {
		if msg, ok := v.session.Command(ev.Text); ok {
			v.message = msg
			return
		}
	}
	if !v.session.HandleKey(ev.String()) {
		v.log.Debug("unhandled key", "key", ev.String())
	}
}

// matches compares printable keys by text first; MatchString cannot
// express "+" since it splits on it.
func matches(ev uv.KeyPressEvent, keys []string) bool {
	for _, k := range keys {
		if ev.Text != "" && ev.Text == k {
			return true
		}
	}
	return ev.MatchString(keys...)
}

// Help lists the key bindings, one per line.
func Help() []string {
	lines := app.CommandHelp()
	for _, b := range bindings {
		lines = append(lines, fmt.Sprintf("%-8s %s", b.keys[0], b.help))
	}
	return append(lines, fmt.Sprintf("%-8s %s", "esc", "quit"))
}

package terminal

import (
	"context"
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
)

const (
	enableMouse  = "\x1b[?1003h\x1b[?1006h" // any-event tracking, SGR coordinates
	disableMouse = "\x1b[?1003l\x1b[?1006l"
)

// Options configure Run.
type Options struct {
	FPS int
	// Changes delivers paths of files that changed on disk; nil disables
	// reloading.
	Changes <-chan string
}

// Run takes over the terminal and runs the viewer until it quits or ctx
// is done. Events, frame ticks and reloads are all handled on this
// goroutine.
func Run(ctx context.Context, v *Viewer, opts Options) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	_, _ = term.WriteString(enableMouse)

	cleanup := func() {
		_, _ = term.WriteString(disableMouse)
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Display()
		_ = term.Shutdown(context.Background())
	}
	defer cleanup()

	v.Resize(width, height)

	fps := opts.FPS
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for !v.Quit() {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-term.Events():
			if ev, ok := ev.(uv.WindowSizeEvent); ok {
				term.Erase()
				term.Resize(ev.Width, ev.Height)
			}
			v.HandleEvent(ev)

		case path := <-opts.Changes:
			v.log.Info("file changed, reloading", "path", path)
			v.session.Reload()

		case now := <-ticker.C:
			v.Frame(now)
			term.Draw(v)
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
	return nil
}

// meshview - interactive viewer for OBJ, OFF, PLY and STL meshes.
//
// Controls:
//
//	Left drag   - Rotate (trackball)
//	Right drag  - Pan
//	Scroll      - Zoom
//	1-6         - Points, wireframe, hidden lines, flat lines, flat, smooth
//	B / N       - Toggle bounding box / boundary edges
//	L / D       - Toggle lighting / two-sided lighting
//	M           - Next material
//	P           - Toggle perspective / orthographic
//	C / V       - Copy / restore view
//	R / F       - Reset view / center view
//	Shift+R     - Reload file
//	S           - Screenshot
//	?           - Toggle HUD overlay (terminal)
//	Esc         - Quit
package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
)

func main() {
	root := newRootCmd(&cli{})
	if err := fang.Execute(context.Background(), root,
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

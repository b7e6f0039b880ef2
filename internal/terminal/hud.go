package terminal

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/taigrr/meshview/pkg/render"
	"github.com/taigrr/meshview/pkg/viewer"
)

// Status is what the HUD shows about the viewer.
type Status struct {
	Name       string
	Vertices   int
	Faces      int
	Options    render.Options
	Projection viewer.ProjectionMode
	Message    string
}

// HUD renders the top and bottom overlay bars.
type HUD struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time

	bar    lipgloss.Style
	title  lipgloss.Style
	accent lipgloss.Style
	dim    lipgloss.Style
}

// NewHUD creates a HUD whose FPS counter starts at now.
func NewHUD(now time.Time) *HUD {
	bar := lipgloss.NewStyle().
		Background(lipgloss.Color("#1c1c24")).
		Foreground(lipgloss.Color("#e4e4e4"))
	return &HUD{
		fpsTime: now,
		bar:     bar,
		title:   bar.Bold(true),
		accent:  bar.Foreground(lipgloss.Color("#87d787")),
		dim:     bar.Foreground(lipgloss.Color("#8a8a8a")),
	}
}

// UpdateFPS counts a frame drawn at now.
func (h *HUD) UpdateFPS(now time.Time) {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// FPS returns the frame rate measured over the last full second.
func (h *HUD) FPS() float64 {
	return h.fps
}

// Top renders the title bar: file name and counts on the left, frame rate
// on the right.
func (h *HUD) Top(s Status, width int) string {
	name := s.Name
	if name == "" {
		name = "(no mesh)"
	}
	left := h.title.Render(" "+name+" ") +
		h.dim.Render(fmt.Sprintf("%d vertices  %d faces", s.Vertices, s.Faces))
	right := h.accent.Render(fmt.Sprintf(" %.0f FPS ", h.fps))
	return h.spread(left, right, width)
}

// Bottom renders the mode bar: draw mode, toggles and the last message.
func (h *HUD) Bottom(s Status, width int) string {
	o := s.Options
	left := h.accent.Render(" "+o.Mode.String()+" ") +
		h.bar.Render(strings.Join([]string{
			check(o.Lighting) + "light",
			check(o.TwoSided) + "2-sided",
			check(o.BoundingBox) + "bbox",
			check(o.Boundary) + "boundary",
			o.Material.Name,
			s.Projection.String(),
		}, "  "))
	right := h.dim.Render(" " + s.Message + " ")
	if s.Message == "" {
		right = h.dim.Render(" ? hides HUD ")
	}
	return h.spread(left, right, width)
}

// spread pads between left and right to fill width, dropping right when
// there is no room for both.
func (h *HUD) spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		return h.bar.MaxWidth(width).Render(left)
	}
	return left + h.bar.Render(strings.Repeat(" ", gap)) + right
}

func check(on bool) string {
	if on {
		return "[x] "
	}
	return "[ ] "
}

// Package config handles meshview settings: defaults, an optional TOML or
// YAML file and command-line overrides, applied in that order.
package config

import (
	"errors"
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/meshview/pkg/render"
	"github.com/taigrr/meshview/pkg/viewer"
)

// Config holds all viewer settings.
type Config struct {
	View        ViewConfig        `yaml:"view" toml:"view"`
	Interaction InteractionConfig `yaml:"interaction" toml:"interaction"`
	Terminal    TerminalConfig    `yaml:"terminal" toml:"terminal"`
	Window      WindowConfig      `yaml:"window" toml:"window"`
	Screenshot  ScreenshotConfig  `yaml:"screenshot" toml:"screenshot"`
	Watch       WatchConfig       `yaml:"watch" toml:"watch"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
}

// ViewConfig holds the initial rendering state.
type ViewConfig struct {
	DrawMode    string `yaml:"draw_mode" toml:"draw_mode"`
	Projection  string `yaml:"projection" toml:"projection"`
	Lighting    bool   `yaml:"lighting" toml:"lighting"`
	TwoSided    bool   `yaml:"two_sided" toml:"two_sided"`
	BoundingBox bool   `yaml:"bounding_box" toml:"bounding_box"`
	Boundary    bool   `yaml:"boundary" toml:"boundary"`
	Material    string `yaml:"material" toml:"material"`
	Background  string `yaml:"background" toml:"background"`
}

// InteractionConfig holds pointer behavior.
type InteractionConfig struct {
	// Inertia keeps the model spinning after a rotate drag is released.
	Inertia         bool    `yaml:"inertia" toml:"inertia"`
	SpringFrequency float64 `yaml:"spring_frequency" toml:"spring_frequency"`
	SpringDamping   float64 `yaml:"spring_damping" toml:"spring_damping"`
}

// TerminalConfig holds settings for the terminal frontend.
type TerminalConfig struct {
	FPS int `yaml:"fps" toml:"fps"`
	// PixelScale multiplies point sizes and line widths, which are given
	// in screen pixels, to fit half-block cells.
	PixelScale float64 `yaml:"pixel_scale" toml:"pixel_scale"`
	ShowHUD    bool    `yaml:"show_hud" toml:"show_hud"`
}

// WindowConfig holds settings for the desktop frontend.
type WindowConfig struct {
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	Title  string `yaml:"title" toml:"title"`
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Scale   float64 `yaml:"scale" toml:"scale"`
	Caption bool    `yaml:"caption" toml:"caption"`
}

// WatchConfig controls reloading the mesh when its file changes.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled" toml:"enabled"`
	DebounceMS int  `yaml:"debounce_ms" toml:"debounce_ms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"`
}

// Default returns a Config with the viewer's stock settings.
func Default() *Config {
	return &Config{
		View: ViewConfig{
			DrawMode:   render.FlatLines.String(),
			Projection: viewer.Perspective.String(),
			Lighting:   true,
			Material:   render.MaterialGold.Name,
			Background: "#ffffff",
		},
		Interaction: InteractionConfig{
			Inertia:         false,
			SpringFrequency: 4,
			SpringDamping:   1,
		},
		Terminal: TerminalConfig{
			FPS:        30,
			PixelScale: 0.5,
			ShowHUD:    true,
		},
		Window: WindowConfig{
			Width:  800,
			Height: 600,
			Title:  "meshview",
		},
		Screenshot: ScreenshotConfig{
			Scale: 1,
		},
		Watch: WatchConfig{
			DebounceMS: 200,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if _, err := render.ParseDrawMode(c.View.DrawMode); err != nil {
		errs = append(errs, fmt.Errorf("view.draw_mode: %w", err))
	}
	if _, err := viewer.ParseProjectionMode(c.View.Projection); err != nil {
		errs = append(errs, fmt.Errorf("view.projection: %w", err))
	}
	if _, err := render.ParseMaterial(c.View.Material); err != nil {
		errs = append(errs, fmt.Errorf("view.material: %w", err))
	}
	if _, err := colorful.Hex(c.View.Background); err != nil {
		errs = append(errs, fmt.Errorf("view.background: %q is not a #rgb or #rrggbb color", c.View.Background))
	}
	if c.Interaction.SpringFrequency <= 0 {
		errs = append(errs, errors.New("interaction.spring_frequency must be positive"))
	}
	if c.Interaction.SpringDamping < 0 {
		errs = append(errs, errors.New("interaction.spring_damping must not be negative"))
	}
	if c.Terminal.FPS <= 0 || c.Terminal.FPS > 240 {
		errs = append(errs, fmt.Errorf("terminal.fps %d out of range 1-240", c.Terminal.FPS))
	}
	if c.Terminal.PixelScale <= 0 {
		errs = append(errs, errors.New("terminal.pixel_scale must be positive"))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Screenshot.Scale <= 0 {
		errs = append(errs, errors.New("screenshot.scale must be positive"))
	}
	if c.Watch.DebounceMS < 0 {
		errs = append(errs, errors.New("watch.debounce_ms must not be negative"))
	}
	return errors.Join(errs...)
}

// RenderOptions converts the view section. The config must be valid.
func (c *Config) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	if m, err := render.ParseDrawMode(c.View.DrawMode); err == nil {
		opts.Mode = m
	}
	if m, err := render.ParseMaterial(c.View.Material); err == nil {
		opts.Material = m
	}
	opts.Lighting = c.View.Lighting
	opts.TwoSided = c.View.TwoSided
	opts.BoundingBox = c.View.BoundingBox
	opts.Boundary = c.View.Boundary
	return opts
}

// ProjectionMode returns the configured projection, Perspective if invalid.
func (c *Config) ProjectionMode() viewer.ProjectionMode {
	m, _ := viewer.ParseProjectionMode(c.View.Projection)
	return m
}

// BackgroundColor returns the configured background color.
func (c *Config) BackgroundColor() render.Color {
	bg, err := colorful.Hex(c.View.Background)
	if err != nil {
		return render.ColorBackground
	}
	r, g, b := bg.RGB255()
	return render.RGB(r, g, b)
}

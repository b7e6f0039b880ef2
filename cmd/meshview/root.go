package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taigrr/meshview/internal/app"
	"github.com/taigrr/meshview/internal/config"
	"github.com/taigrr/meshview/internal/desktop"
	"github.com/taigrr/meshview/internal/logger"
	"github.com/taigrr/meshview/internal/terminal"
	"github.com/taigrr/meshview/internal/watch"
)

// cli holds flag values shared by the commands.
type cli struct {
	configPath string
	logLevel   string
	logFile    string
	debug      bool

	view viewFlags
}

// viewFlags are the viewer settings that can override the config file.
type viewFlags struct {
	mode        string
	projection  string
	lighting    bool
	twoSided    bool
	boundingBox bool
	boundary    bool
	material    string
	background  string
	inertia     bool
	fps         int
	width       int
	height      int
	watch       bool
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "meshview [mesh]",
		Short: "Interactive 3D mesh viewer",
		Long: `meshview - interactive 3D mesh viewer

Opens OBJ, OFF, PLY, STL and glTF meshes in the terminal, or in a window
with the window subcommand. Drag with the left button to rotate, the
right button to pan, and scroll to zoom. Keys 1-6 select the draw mode.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTerminal(cmd.Context(), cmd, c, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "Path to config file (TOML or YAML)")
	pf.StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&c.logFile, "log-file", "", "Also write logs to this file")
	pf.BoolVar(&c.debug, "debug", false, "Enable debug logging")

	addViewFlags(root, &c.view)
	root.Flags().IntVar(&c.view.fps, "fps", 0, "Terminal frame rate")

	window := &cobra.Command{
		Use:   "window [mesh]",
		Short: "Open the viewer in a desktop window",
		Long:  "Open the viewer in an OpenGL window. Meshes can also be dropped onto the window.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd.Context(), cmd, c, args)
		},
	}
	addViewFlags(window, &c.view)
	window.Flags().IntVar(&c.view.width, "width", 0, "Window width")
	window.Flags().IntVar(&c.view.height, "height", 0, "Window height")

	root.AddCommand(window, newInfoCmd(c), newConvertCmd(c), newSimplifyCmd(c))
	return root
}

func addViewFlags(cmd *cobra.Command, v *viewFlags) {
	f := cmd.Flags()
	f.StringVarP(&v.mode, "mode", "m", "", "Draw mode (points, wireframe, hidden-lines, flat-lines, flat, smooth)")
	f.StringVar(&v.projection, "projection", "", "Projection (perspective, orthographic)")
	f.BoolVar(&v.lighting, "lighting", true, "Enable lighting")
	f.BoolVar(&v.twoSided, "two-sided", false, "Light back faces")
	f.BoolVar(&v.boundingBox, "bbox", false, "Draw the bounding box")
	f.BoolVar(&v.boundary, "boundary", false, "Draw boundary edges")
	f.StringVar(&v.material, "material", "", "Material (default, gold, silver, emerald, tin)")
	f.StringVar(&v.background, "bg", "", "Background color (#rrggbb)")
	f.BoolVar(&v.inertia, "inertia", false, "Keep spinning after a rotate drag")
	f.BoolVarP(&v.watch, "watch", "w", false, "Reload the mesh when the file changes")
}

// overrides returns the flags the user set explicitly.
func (c *cli) overrides(cmd *cobra.Command) config.Overrides {
	o := config.Overrides{Debug: c.debug}
	f := cmd.Flags()
	changed := func(name string) bool {
		return f.Lookup(name) != nil && f.Changed(name)
	}
	if changed("mode") {
		o.DrawMode = &c.view.mode
	}
	if changed("projection") {
		o.Projection = &c.view.projection
	}
	if changed("lighting") {
		o.Lighting = &c.view.lighting
	}
	if changed("two-sided") {
		o.TwoSided = &c.view.twoSided
	}
	if changed("bbox") {
		o.BoundingBox = &c.view.boundingBox
	}
	if changed("boundary") {
		o.Boundary = &c.view.boundary
	}
	if changed("material") {
		o.Material = &c.view.material
	}
	if changed("bg") {
		o.Background = &c.view.background
	}
	if changed("inertia") {
		o.Inertia = &c.view.inertia
	}
	if changed("fps") {
		o.FPS = &c.view.fps
	}
	if changed("width") {
		o.Width = &c.view.width
	}
	if changed("height") {
		o.Height = &c.view.height
	}
	if changed("watch") {
		o.Watch = &c.view.watch
	}
	if changed("log-level") {
		o.LogLevel = &c.logLevel
	}
	if changed("log-file") {
		o.LogFile = &c.logFile
	}
	return o
}

// setup loads the config and starts logging. console receives log output
// in addition to the configured file; nil keeps the console quiet.
func (c *cli) setup(cmd *cobra.Command, console io.Writer) (*config.Config, error) {
	cfg, path, err := config.Load(c.configPath, c.overrides(cmd))
	if err != nil {
		return nil, err
	}

	var fileCfg logger.FileConfig
	if cfg.Logging.File != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.File)
	}
	if err := logger.Init(cfg.Logging.Level, fileCfg, console); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if path != "" {
		logger.Debug("config loaded", "path", path)
	}
	return cfg, nil
}

func openSession(cfg *config.Config, args []string) (*app.Session, error) {
	s := app.NewSession(cfg)
	if len(args) == 0 {
		return s, nil
	}
	if ev := s.Load(args[0]); !ev.OK {
		return nil, ev.Err
	}
	return s, nil
}

// watchMesh starts a watcher on the session's file when enabled. The
// returned channel is nil otherwise, which never delivers.
func watchMesh(ctx context.Context, cfg *config.Config, s *app.Session) (<-chan string, func()) {
	if !cfg.Watch.Enabled || s.Path() == "" {
		return nil, func() {}
	}
	w, err := watch.New(s.Path(), time.Duration(cfg.Watch.DebounceMS)*time.Millisecond)
	if err != nil {
		logger.Warn("file watching disabled", "err", err)
		return nil, func() {}
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-w.Errors():
				logger.Warn("watch error", "err", err)
			}
		}
	}()
	logger.Info("watching for changes", "path", w.Path())
	return w.Changes(), func() { _ = w.Close() }
}

func runTerminal(ctx context.Context, cmd *cobra.Command, c *cli, args []string) error {
	// The terminal belongs to the viewer; logs only go to the file.
	cfg, err := c.setup(cmd, nil)
	if err != nil {
		return err
	}
	defer logger.Close()

	s, err := openSession(cfg, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	changes, stop := watchMesh(ctx, cfg, s)
	defer stop()

	v := terminal.NewViewer(s, cfg, 80, 24)
	return terminal.Run(ctx, v, terminal.Options{
		FPS:     cfg.Terminal.FPS,
		Changes: changes,
	})
}

func runWindow(ctx context.Context, cmd *cobra.Command, c *cli, args []string) error {
	cfg, err := c.setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer logger.Close()

	s, err := openSession(cfg, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	changes, stop := watchMesh(ctx, cfg, s)
	defer stop()

	return desktop.Run(ctx, s, cfg, desktop.Options{
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		Title:   cfg.Window.Title,
		Changes: changes,
	})
}

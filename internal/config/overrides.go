package config

// Overrides holds command-line values. Nil fields leave the config alone.
type Overrides struct {
	DrawMode    *string
	Projection  *string
	Lighting    *bool
	TwoSided    *bool
	BoundingBox *bool
	Boundary    *bool
	Material    *string
	Background  *string
	Inertia     *bool
	FPS         *int
	Width       *int
	Height      *int
	Watch       *bool
	LogLevel    *string
	LogFile     *string
	Debug       bool
}

// Apply copies the set overrides into cfg.
func (o Overrides) Apply(cfg *Config) {
	set(&cfg.View.DrawMode, o.DrawMode)
	set(&cfg.View.Projection, o.Projection)
	set(&cfg.View.Lighting, o.Lighting)
	set(&cfg.View.TwoSided, o.TwoSided)
	set(&cfg.View.BoundingBox, o.BoundingBox)
	set(&cfg.View.Boundary, o.Boundary)
	set(&cfg.View.Material, o.Material)
	set(&cfg.View.Background, o.Background)
	set(&cfg.Interaction.Inertia, o.Inertia)
	set(&cfg.Terminal.FPS, o.FPS)
	set(&cfg.Window.Width, o.Width)
	set(&cfg.Window.Height, o.Height)
	set(&cfg.Watch.Enabled, o.Watch)
	set(&cfg.Logging.Level, o.LogLevel)
	set(&cfg.Logging.File, o.LogFile)
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

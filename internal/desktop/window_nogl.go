//go:build nogl

package desktop

import (
	"context"
	"errors"

	"github.com/taigrr/meshview/internal/app"
	"github.com/taigrr/meshview/internal/config"
)

// ErrNoWindow is returned by Run in builds without OpenGL support.
var ErrNoWindow = errors.New("desktop window not available: built with the nogl tag")

// Options configure Run.
type Options struct {
	Width, Height int
	Title         string
	Changes       <-chan string
}

// Run always fails in builds without OpenGL support.
func Run(context.Context, *app.Session, *config.Config, Options) error {
	return ErrNoWindow
}

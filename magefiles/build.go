//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const binary = "bin/meshview"

// Builds the meshview binary with the OpenGL window enabled.
func (Build) Viewer() error {
	_, err := executeCmd("go", withArgs("build", "-o", binary, "./cmd/meshview"), withStream())
	return err
}

// Builds a static binary without cgo. The window subcommand is unavailable.
func (Build) Static() error {
	_, err := executeCmd("go",
		withArgs("build", "-tags", "nogl", "-o", binary, "./cmd/meshview"),
		withEnv("CGO_ENABLED=0"),
		withStream(),
	)
	return err
}

// Runs go mod tidy.
func (Build) Tidy() error {
	_, err := executeCmd("go", withArgs("mod", "tidy"), withStream())
	return err
}

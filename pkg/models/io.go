package models

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for file extensions with no codec.
	ErrUnsupportedFormat = errors.New("unsupported mesh format")
	// ErrMalformed is returned when a file parses but does not describe a
	// valid mesh.
	ErrMalformed = errors.New("malformed mesh")
)

// DefaultPrecision is the number of significant digits written for
// coordinates, enough to round-trip a float64.
const DefaultPrecision = 17

var (
	readable = []string{".obj", ".off", ".ply", ".stl", ".glb", ".gltf"}
	writable = []string{".obj", ".off", ".ply", ".stl"}
)

// ReadableFormats returns the extensions ReadMesh accepts.
func ReadableFormats() []string {
	return slices.Clone(readable)
}

// WritableFormats returns the extensions WriteMesh accepts.
func WritableFormats() []string {
	return slices.Clone(writable)
}

// CanRead reports whether path has an extension ReadMesh understands.
func CanRead(path string) bool {
	return slices.Contains(readable, ext(path))
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// ReadMesh loads the mesh at path, choosing the codec by extension. The
// returned mesh has edges, normals and bounds computed.
func ReadMesh(path string) (*Mesh, error) {
	e := ext(path)
	if !slices.Contains(readable, e) {
		return nil, fmt.Errorf("read %s: %w: %q", path, ErrUnsupportedFormat, e)
	}

	var (
		mesh *Mesh
		err  error
	)
	switch e {
	case ".stl":
		mesh, err = LoadSTL(path)
	case ".glb", ".gltf":
		mesh, err = LoadGLTF(path)
	default:
		mesh, err = readFile(path, e)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	mesh.Name = filepath.Base(path)
	mesh.Update()
	return mesh, nil
}

func readFile(path, e string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	switch e {
	case ".obj":
		return ReadOBJ(r)
	case ".off":
		return ReadOFF(r)
	default:
		return ReadPLY(r)
	}
}

// WriteMesh saves mesh to path in the format implied by the extension.
// precision is the number of significant digits for text formats; values
// below 1 use DefaultPrecision.
func WriteMesh(mesh *Mesh, path string, precision int) error {
	e := ext(path)
	if !slices.Contains(writable, e) {
		return fmt.Errorf("write %s: %w: %q", path, ErrUnsupportedFormat, e)
	}
	if precision < 1 {
		precision = DefaultPrecision
	}

	if e == ".stl" {
		if err := SaveSTL(mesh, path); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	switch e {
	case ".obj":
		err = WriteOBJ(w, mesh, precision)
	case ".off":
		err = WriteOFF(w, mesh, precision)
	default:
		err = WritePLY(w, mesh, precision)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// formatFloat renders f with prec significant digits.
func formatFloat(f float64, prec int) string {
	return strconv.FormatFloat(f, 'g', prec, 64)
}

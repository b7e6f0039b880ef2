package models

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/taigrr/meshview/pkg/math3d"
)

// ReadOBJ parses Wavefront OBJ geometry. Only positions and faces are
// kept; normals are recomputed and texture coordinates are ignored.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	mesh := NewMesh("")
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if len(line) < 2 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
			}
			mesh.AddVertex(p)
		case "f":
			idx := make([]int, 0, len(fields)-1)
			for _, arg := range fields[1:] {
				i, err := objIndex(arg, len(mesh.Vertices))
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
				}
				idx = append(idx, i)
			}
			if err := mesh.AddFace(idx...); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mesh, nil
}

// objIndex resolves a face token like "3", "3/1", "3//2" or "-1" to a
// zero-based vertex index.
func objIndex(tok string, count int) (int, error) {
	head, _, _ := strings.Cut(tok, "/")
	parsed, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("bad face index %q", tok)
	}
	switch {
	case parsed < 0:
		return count + parsed, nil
	case parsed > 0:
		return parsed - 1, nil
	default:
		return 0, fmt.Errorf("face index 0 in %q", tok)
	}
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("want 3 coordinates, got %d", len(fields))
	}
	var c [3]float64
	for i := range c {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math3d.Vec3{}, err
		}
		c[i] = f
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}

// WriteOBJ writes positions and faces as OBJ text.
func WriteOBJ(w io.Writer, mesh *Mesh, precision int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %d vertices, %d faces\n", len(mesh.Vertices), len(mesh.Faces))
	for _, v := range mesh.Vertices {
		p := v.Position
		fmt.Fprintf(bw, "v %s %s %s\n",
			formatFloat(p.X, precision), formatFloat(p.Y, precision), formatFloat(p.Z, precision))
	}
	for _, f := range mesh.Faces {
		bw.WriteString("f")
		for _, i := range f.V {
			bw.WriteString(" ")
			bw.WriteString(strconv.Itoa(i + 1))
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

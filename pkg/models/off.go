package models

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// offTokens yields whitespace separated tokens, skipping comments.
type offTokens struct {
	scanner *bufio.Scanner
	pending []string
}

func (t *offTokens) next() (string, error) {
	for len(t.pending) == 0 {
		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		line := t.scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		t.pending = strings.Fields(line)
	}
	tok := t.pending[0]
	t.pending = t.pending[1:]
	return tok, nil
}

func (t *offTokens) int() (int, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(tok)
}

func (t *offTokens) float() (float64, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(tok, 64)
}

// maxFaceVertices bounds the vertex count of one face read from a file.
const maxFaceVertices = 1 << 16

// ReadOFF parses an ASCII Object File Format mesh. Optional per-vertex
// colors and normals (COFF, NOFF) are skipped. Each vertex must be on its
// own line.
func ReadOFF(r io.Reader) (*Mesh, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	toks := &offTokens{scanner: scanner}

	header, err := toks.next()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header: %v", ErrMalformed, err)
	}
	if !strings.HasSuffix(header, "OFF") {
		return nil, fmt.Errorf("%w: header %q is not OFF", ErrMalformed, header)
	}

	var counts [3]int
	for i := range counts {
		if counts[i], err = toks.int(); err != nil {
			return nil, fmt.Errorf("%w: counts: %v", ErrMalformed, err)
		}
	}
	nv, nf := counts[0], counts[1]
	if nv < 0 || nf < 0 {
		return nil, fmt.Errorf("%w: negative counts", ErrMalformed)
	}

	mesh := NewMesh("")
	var c [3]float64
	for v := range nv {
		for i := range c {
			if c[i], err = toks.float(); err != nil {
				return nil, fmt.Errorf("%w: vertex %d: %v", ErrMalformed, v, err)
			}
		}
		// Colors and normals after the position are dropped.
		toks.pending = nil
		mesh.Vertices = append(mesh.Vertices, Vertex{Position: vec(c)})
	}

	for fi := range nf {
		n, err := toks.int()
		if err != nil {
			return nil, fmt.Errorf("%w: face %d: %v", ErrMalformed, fi, err)
		}
		if n < 3 || n > maxFaceVertices {
			return nil, fmt.Errorf("%w: face %d: %d vertices", ErrMalformed, fi, n)
		}
		idx := make([]int, n)
		for i := range idx {
			if idx[i], err = toks.int(); err != nil {
				return nil, fmt.Errorf("%w: face %d: %v", ErrMalformed, fi, err)
			}
		}
		// Trailing face colors stay in pending and are dropped with the line.
		toks.pending = nil
		if err := mesh.AddFace(idx...); err != nil {
			return nil, fmt.Errorf("face %d: %w", fi, err)
		}
	}
	return mesh, nil
}

// WriteOFF writes mesh as ASCII OFF.
func WriteOFF(w io.Writer, mesh *Mesh, precision int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "OFF\n%d %d %d\n", len(mesh.Vertices), len(mesh.Faces), len(mesh.Edges))
	for _, v := range mesh.Vertices {
		p := v.Position
		fmt.Fprintf(bw, "%s %s %s\n",
			formatFloat(p.X, precision), formatFloat(p.Y, precision), formatFloat(p.Z, precision))
	}
	for _, f := range mesh.Faces {
		bw.WriteString(strconv.Itoa(len(f.V)))
		for _, i := range f.V {
			bw.WriteString(" ")
			bw.WriteString(strconv.Itoa(i))
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

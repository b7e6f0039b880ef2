package models

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/taigrr/meshview/pkg/math3d"
)

type plyProperty struct {
	name      string
	typ       string
	list      bool
	countType string
}

type plyElement struct {
	name  string
	count int
	props []plyProperty
}

type plyHeader struct {
	format   string
	elements []plyElement
}

// plyValues reads scalar values in either the ASCII or a binary encoding.
type plyValues interface {
	value(typ string) (float64, error)
	endRecord()
}

type plyASCII struct {
	toks *offTokens
}

func (a *plyASCII) value(typ string) (float64, error) {
	v, err := a.toks.float()
	if err != nil {
		return 0, err
	}
	if plyIntegral(typ) && !isWhole(v) {
		return 0, fmt.Errorf("%v is not a valid %s", v, typ)
	}
	return v, nil
}

func plyIntegral(typ string) bool {
	switch typ {
	case "float", "float32", "double", "float64":
		return false
	}
	return true
}

func isWhole(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v == math.Trunc(v)
}

func (a *plyASCII) endRecord() {
	a.toks.pending = nil
}

type plyBinary struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *plyBinary) value(typ string) (float64, error) {
	n, err := plyTypeSize(typ)
	if err != nil {
		return 0, err
	}
	if _, err := io.ReadFull(b.r, b.buf[:n]); err != nil {
		return 0, err
	}
	p := b.buf[:n]
	switch typ {
	case "char", "int8":
		return float64(int8(p[0])), nil
	case "uchar", "uint8":
		return float64(p[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(p))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(p)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(p))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(p)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(p))), nil
	default:
		return math.Float64frombits(b.order.Uint64(p)), nil
	}
}

func (b *plyBinary) endRecord() {}

func plyTypeSize(typ string) (int, error) {
	switch typ {
	case "char", "int8", "uchar", "uint8":
		return 1, nil
	case "short", "int16", "ushort", "uint16":
		return 2, nil
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4, nil
	case "double", "float64":
		return 8, nil
	}
	return 0, fmt.Errorf("%w: unknown ply type %q", ErrMalformed, typ)
}

func readPLYHeader(r *bufio.Reader) (*plyHeader, error) {
	magic, err := r.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("%w: missing ply magic", ErrMalformed)
	}

	h := &plyHeader{}
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				return nil, fmt.Errorf("%w: bad format line", ErrMalformed)
			}
			h.format = fields[1]
		case "element":
			if len(fields) < 3 {
				return nil, fmt.Errorf("%w: bad element line %q", ErrMalformed, line)
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad element count %q", ErrMalformed, fields[2])
			}
			h.elements = append(h.elements, plyElement{name: fields[1], count: n})
		case "property":
			if len(h.elements) == 0 {
				return nil, fmt.Errorf("%w: property before element", ErrMalformed)
			}
			el := &h.elements[len(h.elements)-1]
			switch {
			case len(fields) == 5 && fields[1] == "list":
				el.props = append(el.props, plyProperty{name: fields[4], typ: fields[3], list: true, countType: fields[2]})
			case len(fields) == 3:
				el.props = append(el.props, plyProperty{name: fields[2], typ: fields[1]})
			default:
				return nil, fmt.Errorf("%w: bad property line %q", ErrMalformed, line)
			}
		case "end_header":
			return h, nil
		}
	}
}

// ReadPLY parses a PLY mesh in ascii, binary_little_endian or
// binary_big_endian encoding. Only vertex x/y/z and the face index list
// are kept; other elements and properties are skipped.
func ReadPLY(r io.Reader) (*Mesh, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	h, err := readPLYHeader(br)
	if err != nil {
		return nil, err
	}

	var vals plyValues
	switch h.format {
	case "ascii":
		scanner := bufio.NewScanner(br)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		vals = &plyASCII{toks: &offTokens{scanner: scanner}}
	case "binary_little_endian":
		vals = &plyBinary{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		vals = &plyBinary{r: br, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("%w: unknown ply format %q", ErrMalformed, h.format)
	}

	mesh := NewMesh("")
	for _, el := range h.elements {
		if err := readPLYElement(vals, el, mesh); err != nil {
			return nil, err
		}
	}
	return mesh, nil
}

func readPLYElement(vals plyValues, el plyElement, mesh *Mesh) error {
	for rec := range el.count {
		var pos [3]float64
		var face []int

		for _, p := range el.props {
			if p.list {
				n, err := vals.value(p.countType)
				if err != nil {
					return fmt.Errorf("%w: %s %d: %v", ErrMalformed, el.name, rec, err)
				}
				isFace := el.name == "face" && (p.name == "vertex_indices" || p.name == "vertex_index")
				if err := checkListLength(n, isFace, len(mesh.Vertices)); err != nil {
					return fmt.Errorf("%w: %s %d: %v", ErrMalformed, el.name, rec, err)
				}
				items := make([]int, int(n))
				for i := range items {
					v, err := vals.value(p.typ)
					if err != nil {
						return fmt.Errorf("%w: %s %d: %v", ErrMalformed, el.name, rec, err)
					}
					if isFace && !isWhole(v) {
						return fmt.Errorf("%w: %s %d: index %v", ErrMalformed, el.name, rec, v)
					}
					items[i] = int(v)
				}
				if isFace {
					face = items
				}
				continue
			}

			v, err := vals.value(p.typ)
			if err != nil {
				return fmt.Errorf("%w: %s %d: %v", ErrMalformed, el.name, rec, err)
			}
			if el.name == "vertex" {
				switch p.name {
				case "x":
					pos[0] = v
				case "y":
					pos[1] = v
				case "z":
					pos[2] = v
				}
			}
		}
		vals.endRecord()

		switch el.name {
		case "vertex":
			mesh.AddVertex(vec(pos))
		case "face":
			if err := mesh.AddFace(face...); err != nil {
				return fmt.Errorf("face %d: %w", rec, err)
			}
		}
	}
	return nil
}

// checkListLength rejects list counts that cannot be allocated safely. A
// face needs at least three corners and, without repeats, no more than
// the vertices read so far.
func checkListLength(n float64, face bool, vertices int) error {
	if !isWhole(n) || n < 0 || n > maxFaceVertices {
		return fmt.Errorf("bad list length %v", n)
	}
	if face && (n < 3 || int(n) > vertices) {
		return fmt.Errorf("face with %v corners over %d vertices", n, vertices)
	}
	return nil
}

func vec(c [3]float64) math3d.Vec3 {
	return math3d.V3(c[0], c[1], c[2])
}

// WritePLY writes mesh as ASCII PLY.
func WritePLY(w io.Writer, mesh *Mesh, precision int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ply\nformat ascii 1.0\nelement vertex %d\n", len(mesh.Vertices))
	bw.WriteString("property double x\nproperty double y\nproperty double z\n")
	fmt.Fprintf(bw, "element face %d\n", len(mesh.Faces))
	bw.WriteString("property list uchar int vertex_indices\nend_header\n")

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

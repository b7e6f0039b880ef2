package render

import (
	"fmt"
	"slices"

	"github.com/taigrr/meshview/pkg/math3d"
)

// OpKind names a recorded Target call.
type OpKind int

const (
	OpProjection OpKind = iota
	OpModelview
	OpColor
	OpMaterial
	OpLighting
	OpShadeModel
	OpPolygonOffset
	OpDepthRange
	OpPolygonMode
	OpPointSize
	OpLineWidth
	OpPoint
	OpLine
	OpPolygon
	OpIndexed
)

var opNames = [...]string{
	OpProjection:    "projection",
	OpModelview:     "modelview",
	OpColor:         "color",
	OpMaterial:      "material",
	OpLighting:      "lighting",
	OpShadeModel:    "shade",
	OpPolygonOffset: "offset",
	OpDepthRange:    "depth-range",
	OpPolygonMode:   "polygon-mode",
	OpPointSize:     "point-size",
	OpLineWidth:     "line-width",
	OpPoint:         "point",
	OpLine:          "line",
	OpPolygon:       "polygon",
	OpIndexed:       "indexed",
}

func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Op is one recorded call with its arguments.
type Op struct {
	Kind     OpKind
	Color    Color
	Enabled  bool
	TwoSided bool
	Shade    ShadeModel
	Mode     PolygonMode
	Values   [2]float64
	Vertices []Vertex
	Faces    int
}

// Recorder is a Target that records every call. It draws nothing.
type Recorder struct {
	Ops        []Op
	Background Color
}

// NewRecorder creates an empty recorder clearing to the default background.
func NewRecorder() *Recorder {
	return &Recorder{Background: ColorBackground}
}

// Reset drops recorded calls.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

// Count returns the number of recorded calls of kind k.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}

// Kinds returns the recorded call kinds in order.
func (r *Recorder) Kinds() []OpKind {
	kinds := make([]OpKind, len(r.Ops))
	for i, op := range r.Ops {
		kinds[i] = op.Kind
	}
	return kinds
}

func (r *Recorder) add(op Op) {
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) SetProjection(math3d.Mat4) { r.add(Op{Kind: OpProjection}) }
func (r *Recorder) SetModelview(math3d.Mat4)  { r.add(Op{Kind: OpModelview}) }
func (r *Recorder) SetColor(c Color)          { r.add(Op{Kind: OpColor, Color: c}) }
func (r *Recorder) ClearColor() Color         { return r.Background }
func (r *Recorder) SetMaterial(Material)      { r.add(Op{Kind: OpMaterial}) }

func (r *Recorder) SetLighting(enabled, twoSided bool) {
	r.add(Op{Kind: OpLighting, Enabled: enabled, TwoSided: twoSided})
}

func (r *Recorder) SetShadeModel(s ShadeModel) { r.add(Op{Kind: OpShadeModel, Shade: s}) }

func (r *Recorder) SetPolygonOffset(enabled bool, factor, units float64) {
	r.add(Op{Kind: OpPolygonOffset, Enabled: enabled, Values: [2]float64{factor, units}})
}

func (r *Recorder) SetDepthRange(near, far float64) {
	r.add(Op{Kind: OpDepthRange, Values: [2]float64{near, far}})
}

func (r *Recorder) SetPolygonMode(m PolygonMode) { r.add(Op{Kind: OpPolygonMode, Mode: m}) }

func (r *Recorder) SetPointSize(size float64) {
	r.add(Op{Kind: OpPointSize, Values: [2]float64{size}})
}

func (r *Recorder) SetLineWidth(width float64) {
	r.add(Op{Kind: OpLineWidth, Values: [2]float64{width}})
}

func (r *Recorder) DrawPoint(v Vertex) { r.add(Op{Kind: OpPoint, Vertices: []Vertex{v}}) }

func (r *Recorder) DrawLine(a, b Vertex) { r.add(Op{Kind: OpLine, Vertices: []Vertex{a, b}}) }

func (r *Recorder) DrawPolygon(vs []Vertex) {
	r.add(Op{Kind: OpPolygon, Vertices: slices.Clone(vs)})
}

func (r *Recorder) DrawIndexed(positions, normals []math3d.Vec3, faces [][]int) {
	r.add(Op{Kind: OpIndexed, Faces: len(faces)})
}

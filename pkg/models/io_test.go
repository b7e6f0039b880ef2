package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/meshview/pkg/math3d"
)

const cubeOBJ = `# unit cube
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
vn 0 0 1
f 1 4 3 2
f 5 6 7 8
f 1/1 2/1 6/1 5/1
f 2//1 3//1 7//1 6//1
f 3 4 8 7
f -8 -4 -1 -5
`

func TestReadOBJ(t *testing.T) {
	mesh, err := ReadOBJ(strings.NewReader(cubeOBJ))
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}
	mesh.Update()

	if mesh.VertexCount() != 8 || mesh.FaceCount() != 6 || mesh.EdgeCount() != 12 {
		t.Errorf("[V,E,F] = [%d,%d,%d], want [8,12,6]",
			mesh.VertexCount(), mesh.EdgeCount(), mesh.FaceCount())
	}
	if mesh.BoundaryEdgeCount() != 0 {
		t.Errorf("closed cube has %d boundary edges", mesh.BoundaryEdgeCount())
	}
	// Negative indices count back from the last vertex read.
	if got := mesh.Faces[5].V; got[0] != 0 || got[2] != 7 {
		t.Errorf("relative face = %v, want [0 4 7 3]", got)
	}
}

func TestReadOBJErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"short vertex", "v 1 2\n"},
		{"bad float", "v 1 x 2\n"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"two vertex face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadOBJ(strings.NewReader(tc.input))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestReadOFF(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain", "OFF\n4 1 4\n0 0 0\n1 0 0\n1 1 0\n0 1 0\n4 0 1 2 3\n"},
		{"comments and counts on header line", "OFF 4 1 0 # quad\n0 0 0\n1 0 0\n# gap\n1 1 0\n0 1 0\n4 0 1 2 3 255 0 0\n"},
		{"vertex colors", "COFF\n4 1 0\n0 0 0 1 1 1 1\n1 0 0 1 1 1 1\n1 1 0 1 1 1 1\n0 1 0 1 1 1 1\n4 0 1 2 3\n"},
		{"rgb vertex colors", "COFF\n4 1 0\n0 0 0 255 0 0\n1 0 0 0 255 0\n1 1 0 0 0 255\n0 1 0 9 9 9\n4 0 1 2 3\n"},
		{"vertex normals", "NOFF\n4 1 0\n0 0 0 0 0 1\n1 0 0 0 0 1\n1 1 0 0 0 1\n0 1 0 0 0 1\n4 0 1 2 3\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mesh, err := ReadOFF(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("ReadOFF: %v", err)
			}
			if mesh.VertexCount() != 4 || mesh.FaceCount() != 1 {
				t.Fatalf("V=%d F=%d, want 4 and 1", mesh.VertexCount(), mesh.FaceCount())
			}
			if got := mesh.Vertices[2].Position; got != math3d.V3(1, 1, 0) {
				t.Errorf("vertex 2 = %v, want (1,1,0)", got)
			}
		})
	}
}

func TestReadOFFErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not off", "PLY\n"},
		{"truncated vertices", "OFF\n3 1 0\n0 0 0\n"},
		{"bad face index", "OFF\n3 1 0\n0 0 0\n1 0 0\n0 1 0\n3 0 1 5\n"},
		{"negative face size", "OFF\n3 1 0\n0 0 0\n1 0 0\n0 1 0\n-3 0 1 2\n"},
		{"two-corner face", "OFF\n3 1 0\n0 0 0\n1 0 0\n0 1 0\n2 0 1\n"},
		{"huge face size", "OFF\n3 1 0\n0 0 0\n1 0 0\n0 1 0\n2000000000 0 1 2\n"},
		{"fractional face size", "OFF\n3 1 0\n0 0 0\n1 0 0\n0 1 0\n3.5 0 1 2\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadOFF(strings.NewReader(tc.input)); !errors.Is(err, ErrMalformed) {
				t.Errorf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

const asciiPLY = `ply
format ascii 1.0
comment tetrahedron
element vertex 4
property float x
property float y
property float z
property uchar red
element face 4
property list uchar int vertex_indices
end_header
0 0 0 255
1 0 0 255
0 1 0 255
0 0 1 255
3 0 2 1
3 0 1 3
3 0 3 2
3 1 2 3
`

func TestReadPLYASCII(t *testing.T) {
	mesh, err := ReadPLY(strings.NewReader(asciiPLY))
	if err != nil {
		t.Fatalf("ReadPLY: %v", err)
	}
	mesh.Update()
	if mesh.VertexCount() != 4 || mesh.FaceCount() != 4 || mesh.EdgeCount() != 6 {
		t.Errorf("[V,E,F] = [%d,%d,%d], want [4,6,4]",
			mesh.VertexCount(), mesh.EdgeCount(), mesh.FaceCount())
	}
}

func binaryPLY(order binary.ByteOrder, format string) []byte {
	var buf bytes.Buffer
	buf.WriteString("ply\nformat " + format + " 1.0\n")
	buf.WriteString("element vertex 3\nproperty double x\nproperty double y\nproperty double z\n")
	buf.WriteString("element face 1\nproperty list uchar uint vertex_index\nend_header\n")
	for _, p := range [][3]float64{{0, 0, 0}, {2, 0, 0}, {0, 3, 0}} {
		binary.Write(&buf, order, p)
	}
	buf.WriteByte(3)
	binary.Write(&buf, order, [3]uint32{0, 1, 2})
	return buf.Bytes()
}

func TestReadPLYBinary(t *testing.T) {
	tests := []struct {
		name   string
		order  binary.ByteOrder
		format string
	}{
		{"little endian", binary.LittleEndian, "binary_little_endian"},
		{"big endian", binary.BigEndian, "binary_big_endian"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mesh, err := ReadPLY(bytes.NewReader(binaryPLY(tc.order, tc.format)))
			if err != nil {
				t.Fatalf("ReadPLY: %v", err)
			}
			if mesh.VertexCount() != 3 || mesh.FaceCount() != 1 {
				t.Fatalf("V=%d F=%d, want 3 and 1", mesh.VertexCount(), mesh.FaceCount())
			}
			if got := mesh.Vertices[2].Position; got != math3d.V3(0, 3, 0) {
				t.Errorf("vertex 2 = %v, want (0,3,0)", got)
			}
		})
	}
}

func TestReadPLYErrors(t *testing.T) {
	type errCase struct {
		name  string
		input string
	}
	tests := []errCase{
		{"no magic", "format ascii 1.0\nend_header\n"},
		{"unknown format", "ply\nformat binary_middle_endian 1.0\nend_header\n"},
		{"truncated", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nend_header\n1\n"},
		{"unknown type", "ply\nformat binary_little_endian 1.0\nelement vertex 1\nproperty quad x\nend_header\n12345678"},
	}

	for _, face := range []string{
		"nan 0 1 2",
		"-3 0 1 2",
		"3.7 0 1 2",
		"inf 0 1 2",
		"2 0 1",
		"4000000000 0 1 2",
		"5 0 1 2 3 0",
		"3 0 1.5 2",
		"3 0 1 9",
	} {
		tests = append(tests, errCase{"face " + face, plyTriangle(face)})
	}
	tests = append(tests, errCase{"binary huge list", string(binaryPLYCount(0xFFFFFFFF))})

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadPLY(strings.NewReader(tc.input)); !errors.Is(err, ErrMalformed) {
				t.Errorf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

// plyTriangle is a three-vertex ASCII PLY with face as its only face line.
func plyTriangle(face string) string {
	return "ply\nformat ascii 1.0\n" +
		"element vertex 3\nproperty float x\nproperty float y\nproperty float z\n" +
		"element face 1\nproperty list uchar int vertex_indices\nend_header\n" +
		"0 0 0\n1 0 0\n0 1 0\n" + face + "\n"
}

// binaryPLYCount is a binary PLY whose single face claims count corners.
func binaryPLYCount(count uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("ply\nformat binary_little_endian 1.0\n")
	buf.WriteString("element vertex 3\nproperty float x\nproperty float y\nproperty float z\n")
	buf.WriteString("element face 1\nproperty list uint uint vertex_indices\nend_header\n")
	binary.Write(&buf, binary.LittleEndian, [9]float32{0, 0, 0, 1, 0, 0, 0, 1, 0})
	binary.Write(&buf, binary.LittleEndian, count)
	binary.Write(&buf, binary.LittleEndian, [3]uint32{0, 1, 2})
	return buf.Bytes()
}

func TestReadPLYFaceLine(t *testing.T) {
	mesh, err := ReadPLY(strings.NewReader(plyTriangle("3 0 1 2")))
	if err != nil {
		t.Fatalf("ReadPLY: %v", err)
	}
	if mesh.FaceCount() != 1 {
		t.Errorf("F = %d, want 1", mesh.FaceCount())
	}
	if _, err := ReadPLY(bytes.NewReader(binaryPLYCount(3))); err != nil {
		t.Errorf("binary ReadPLY: %v", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	src := tetrahedron(t)
	// A coordinate that needs every digit to survive.
	src.Vertices[1].Position.X = 1.0 / 3.0
	src.Update()

	for _, ext := range WritableFormats() {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tet"+ext)
			if err := WriteMesh(src, path, DefaultPrecision); err != nil {
				t.Fatalf("WriteMesh: %v", err)
			}

			got, err := ReadMesh(path)
			if err != nil {
				t.Fatalf("ReadMesh: %v", err)
			}
			if got.VertexCount() != 4 || got.FaceCount() != 4 || got.EdgeCount() != 6 {
				t.Errorf("[V,E,F] = [%d,%d,%d], want [4,6,4]",
					got.VertexCount(), got.EdgeCount(), got.FaceCount())
			}
			if got.Name != "tet"+ext {
				t.Errorf("Name = %q, want %q", got.Name, "tet"+ext)
			}

			tol := 0.0
			if ext == ".stl" {
				// STL stores float32 coordinates.
				tol = 1e-7
			}
			if d := math.Abs(got.Radius() - src.Radius()); d > tol {
				t.Errorf("radius differs by %v", d)
			}
		})
	}
}

func TestReadMeshErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.obj")
	if err := os.WriteFile(bad, []byte("v 1 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"unsupported", filepath.Join(dir, "mesh.3ds"), ErrUnsupportedFormat},
		{"missing", filepath.Join(dir, "missing.off"), os.ErrNotExist},
		{"malformed", bad, ErrMalformed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadMesh(tc.path); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestWriteMeshUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.glb")
	if err := WriteMesh(tetrahedron(t), path, 0); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestCanRead(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.obj", true},
		{"A.OFF", true},
		{"dir/b.ply", true},
		{"c.stl", true},
		{"d.glb", true},
		{"e.txt", false},
		{"noext", false},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			if got := CanRead(tc.path); got != tc.want {
				t.Errorf("CanRead(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

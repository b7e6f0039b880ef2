package desktop

import "testing"

func TestFirstReadable(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  string
		ok    bool
	}{
		{"empty", nil, "", false},
		{"single", []string{"/tmp/bunny.ply"}, "/tmp/bunny.ply", true},
		{"skips unsupported", []string{"notes.txt", "cube.OBJ", "part.stl"}, "cube.OBJ", true},
		{"none readable", []string{"a.png", "b.blend"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstReadable(tt.paths)
			if got != tt.want || ok != tt.ok {
				t.Errorf("firstReadable(%v) = %q, %v; want %q, %v", tt.paths, got, ok, tt.want, tt.ok)
			}
		})
	}
}

package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meshvet/meshvet/pkg/mesh"
)

// stlBytes builds a binary STL file in memory.
func stlBytes(t *testing.T, tris [][3][3]float32) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	buf.Write(make([]byte, 80))
	if err := binary.Write(buf, binary.LittleEndian, uint32(len(tris))); err != nil {
		t.Fatal(err)
	}
	for _, tri := range tris {
		binary.Write(buf, binary.LittleEndian, [3]float32{0, 0, 0})
		for _, v := range tri {
			binary.Write(buf, binary.LittleEndian, v)
		}
		binary.Write(buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

// twoTriangles is a minimal two-triangle fixture spanning [0,1]^2 in XY.
func twoTriangles() [][3][3]float32 {
	return [][3][3]float32{
		{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
		{{0, 0, 0}, {1, 1, 0}, {0, 1, 0}},
	}
}

const quadOBJ = `# unit square as one quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`

const pentagonOBJ = `# convex pentagon in the XY plane
v 0 0 0
v 1 0 0
v 1.5 1 0
v 0.5 1.8 0
v -0.5 1 0
f 1 2 3 4 5
`

func TestLoadSTL(t *testing.T) {
	src := ByteSource{Label: "plate.stl", Data: stlBytes(t, twoTriangles())}
	m, err := Load(src)
	if err != nil {
		t.Fatal(err)
	}
	if m.TriangleCount() != 2 {
		t.Fatalf("triangle count = %d, want 2", m.TriangleCount())
	}
	size, err := m.Size()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(size[0]-1) > 1e-6 || math.Abs(size[1]-1) > 1e-6 || size[2] != 0 {
		t.Errorf("size = %v, want [1 1 0]", size)
	}
	if m.Name != "plate.stl" {
		t.Errorf("name = %q, want plate.stl", m.Name)
	}
}

func TestLoadOBJQuad(t *testing.T) {
	src := ByteSource{Label: "square.obj", Data: []byte(quadOBJ)}
	m, err := Load(src)
	if err != nil {
		t.Fatal(err)
	}
	// One quad triangulates into two triangles.
	if m.TriangleCount() != 2 {
		t.Fatalf("triangle count = %d, want 2", m.TriangleCount())
	}
	if m.VertexCount()%3 != 0 {
		t.Fatalf("vertex count %d is not whole triangles", m.VertexCount())
	}
	size, err := m.Size()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(size[0]-1) > 1e-6 || math.Abs(size[1]-1) > 1e-6 {
		t.Errorf("size = %v, want unit square", size)
	}
}

func TestLoadOBJPentagon(t *testing.T) {
	src := ByteSource{Label: "pentagon.obj", Data: []byte(pentagonOBJ)}
	m, err := Load(src)
	if err != nil {
		t.Fatal(err)
	}
	// An n-gon yields n-2 triangles.
	if m.TriangleCount() != 3 {
		t.Fatalf("triangle count = %d, want 3", m.TriangleCount())
	}
	size, err := m.Size()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(size[0]-2) > 1e-6 || math.Abs(size[1]-1.8) > 1e-6 {
		t.Errorf("size = %v, want [2 1.8 0]", size)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	src := ByteSource{Label: "model.ply", Data: []byte("ply\n")}
	if _, err := Load(src); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("got %v, want unsupported-format error", err)
	}
}

func TestLoadEmptySTL(t *testing.T) {
	src := ByteSource{Label: "empty.stl", Data: stlBytes(t, nil)}
	_, err := Load(src)
	if !errors.Is(err, mesh.ErrEmptyMesh) {
		t.Fatalf("got %v, want ErrEmptyMesh", err)
	}
}

func TestLoadTruncatedSTL(t *testing.T) {
	data := stlBytes(t, twoTriangles())
	src := ByteSource{Label: "cut.stl", Data: data[:len(data)-10]}
	if _, err := Load(src); err == nil {
		t.Fatal("expected decode error for truncated STL")
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plate.stl")
	if err := os.WriteFile(path, stlBytes(t, twoTriangles()), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(FileSource(path))
	if err != nil {
		t.Fatal(err)
	}
	if m.TriangleCount() != 2 {
		t.Fatalf("triangle count = %d, want 2", m.TriangleCount())
	}
	// The display name drops the directory.
	if m.Name != "plate.stl" {
		t.Errorf("name = %q, want plate.stl", m.Name)
	}
}

func TestFileSourceMissing(t *testing.T) {
	if _, err := Load(FileSource(filepath.Join(t.TempDir(), "nope.stl"))); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestURLSource(t *testing.T) {
	data := stlBytes(t, twoTriangles())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/plate.stl" {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	m, err := Load(URLSource(srv.URL + "/plate.stl"))
	if err != nil {
		t.Fatal(err)
	}
	if m.TriangleCount() != 2 {
		t.Fatalf("triangle count = %d, want 2", m.TriangleCount())
	}

	if _, err := Load(URLSource(srv.URL + "/missing.stl")); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

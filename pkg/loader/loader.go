// Package loader decodes mesh files into raw triangle soup. It is the
// upstream collaborator of the comparison core: the core only ever
// sees the flat vertex buffers produced here, never file bytes.
// Supported formats are binary/ASCII STL and Wavefront OBJ.
package loader

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	gobj "github.com/flywave/go-obj"
	stl "github.com/flywave/go-stl"
	vec3 "github.com/flywave/go3d/float64/vec3"

	"github.com/meshvet/meshvet/pkg/mesh"
)

// Load reads all bytes from src, picks a decoder by file extension and
// returns the decoded, unnormalized triangle soup. Decode failures are
// surfaced, never truncated away.
func Load(src Source) (*mesh.Mesh, error) {
	r, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.Name(), err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.Name(), err)
	}

	name := src.Name()
	switch strings.ToLower(filepath.Ext(name)) {
	case ".stl":
		return decodeSTL(name, data)
	case ".obj":
		return decodeOBJ(name, data)
	default:
		return nil, fmt.Errorf("%s: unsupported mesh format (want .stl or .obj)", name)
	}
}

// decodeSTL flattens an STL solid into triangle soup. STL is already a
// pure triangle list, so every solid triangle maps to three vertices.
func decodeSTL(name string, data []byte) (*mesh.Mesh, error) {
	solid, err := stl.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode STL %s: %w", name, err)
	}

	verts := make([]vec3.T, 0, len(solid.Triangles)*3)
	for _, tri := range solid.Triangles {
		for _, v := range tri.Vertices {
			verts = append(verts, vec3.T{float64(v[0]), float64(v[1]), float64(v[2])})
		}
	}
	if len(verts) == 0 {
		return nil, fmt.Errorf("decode STL %s: %w", name, mesh.ErrEmptyMesh)
	}
	return mesh.New(filepath.Base(name), verts)
}

// decodeOBJ reads OBJ faces and triangulates anything with more than
// three corners via the reader's own ear clipping. Texture coordinates,
// normals and materials are ignored; only positions matter for
// comparison.
func decodeOBJ(name string, data []byte) (*mesh.Mesh, error) {
	reader := &gobj.ObjReader{}
	if err := reader.Read(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("decode OBJ %s: %w", name, err)
	}

	var verts []vec3.T
	for _, face := range reader.F {
		if len(face.Corners) < 3 {
			continue
		}
		for _, tri := range face.Triangulate(reader.V) {
			for _, corner := range tri {
				if corner.VertexIndex < 0 || corner.VertexIndex >= len(reader.V) {
					return nil, fmt.Errorf("decode OBJ %s: face references vertex %d of %d", name, corner.VertexIndex, len(reader.V))
				}
				p := reader.V[corner.VertexIndex]
				verts = append(verts, vec3.T{float64(p[0]), float64(p[1]), float64(p[2])})
			}
		}
	}
	if len(verts) == 0 {
		return nil, fmt.Errorf("decode OBJ %s: %w", name, mesh.ErrEmptyMesh)
	}
	return mesh.New(filepath.Base(name), verts)
}

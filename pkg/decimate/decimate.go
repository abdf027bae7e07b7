// Package decimate reduces the triangle count of a mesh using
// quadric-error simplification from github.com/fogleman/simplify.
// Metrics passes over a mesh are linear scans, so very large meshes
// are a performance concern rather than a correctness one; decimation
// is offered as an explicit user action, never applied silently.
package decimate

import (
	"fmt"

	vec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/fogleman/simplify"

	"github.com/meshvet/meshvet/pkg/mesh"
)

// Decimate returns a new mesh with roughly factor times the input's
// triangle count (factor in (0, 1)). The input is never mutated.
// Simplification moves vertices, so the result is a coarser
// approximation of the same shape, not a subset of the input.
func Decimate(m *mesh.Mesh, factor float64) (*mesh.Mesh, error) {
	if factor <= 0 || factor >= 1 {
		return nil, fmt.Errorf("decimate: factor %g out of range (0, 1)", factor)
	}
	if m.IsEmpty() {
		return nil, mesh.ErrEmptyMesh
	}

	tris := make([]*simplify.Triangle, 0, m.TriangleCount())
	verts := m.Vertices
	for i := 0; i+2 < len(verts); i += 3 {
		tris = append(tris, simplify.NewTriangle(
			toVector(verts[i]),
			toVector(verts[i+1]),
			toVector(verts[i+2]),
		))
	}

	simplified := simplify.NewMesh(tris).Simplify(factor)

	out := make([]vec3.T, 0, len(simplified.Triangles)*3)
	for _, t := range simplified.Triangles {
		out = append(out, fromVector(t.V1), fromVector(t.V2), fromVector(t.V3))
	}
	return mesh.New(m.Name, out)
}

func toVector(v vec3.T) simplify.Vector {
	return simplify.Vector{X: v[0], Y: v[1], Z: v[2]}
}

func fromVector(v simplify.Vector) vec3.T {
	return vec3.T{v.X, v.Y, v.Z}
}

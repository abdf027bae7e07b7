// Package mesh defines the triangle-soup mesh type shared by the whole
// system. A mesh is an ordered sequence of vertex positions in which
// vertices 3i, 3i+1, 3i+2 form triangle i. There is no index buffer
// and no shared vertices. The vertex count is always a multiple of 3,
// enforced at construction.
package mesh

import (
	"errors"
	"fmt"

	mat4 "github.com/flywave/go3d/float64/mat4"
	vec3 "github.com/flywave/go3d/float64/vec3"
)

// ErrEmptyMesh is returned when a computation needs at least one vertex.
var ErrEmptyMesh = errors.New("mesh has no vertices")

// ErrMalformedMesh is returned when a vertex buffer does not describe
// whole triangles, which indicates an upstream decoding defect.
var ErrMalformedMesh = errors.New("vertex count is not a multiple of 3")

// Mesh is a non-indexed triangle mesh. The bounding box is computed
// lazily and invalidated by any geometric mutation.
type Mesh struct {
	Name     string
	Vertices []vec3.T

	bounds *vec3.Box
}

// New validates verts as whole triangles and wraps them in a Mesh.
// The slice is owned by the returned mesh afterwards.
func New(name string, verts []vec3.T) (*Mesh, error) {
	if len(verts)%3 != 0 {
		return nil, fmt.Errorf("mesh %q: %d vertices: %w", name, len(verts), ErrMalformedMesh)
	}
	return &Mesh{Name: name, Vertices: verts}, nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Vertices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Vertices) == 0
}

// BoundingBox returns the axis-aligned bounding box over all vertices,
// computing and caching it on first use. An empty mesh has no box.
func (m *Mesh) BoundingBox() (vec3.Box, error) {
	if m.IsEmpty() {
		return vec3.Box{}, ErrEmptyMesh
	}
	if m.bounds == nil {
		box := vec3.MinBox
		for i := range m.Vertices {
			box.Extend(&m.Vertices[i])
		}
		m.bounds = &box
	}
	return *m.bounds, nil
}

// Center returns the bounding-box centroid.
func (m *Mesh) Center() (vec3.T, error) {
	box, err := m.BoundingBox()
	if err != nil {
		return vec3.T{}, err
	}
	return vec3.T{
		(box.Min[0] + box.Max[0]) / 2,
		(box.Min[1] + box.Max[1]) / 2,
		(box.Min[2] + box.Max[2]) / 2,
	}, nil
}

// Size returns the per-axis extents of the bounding box.
func (m *Mesh) Size() (vec3.T, error) {
	box, err := m.BoundingBox()
	if err != nil {
		return vec3.T{}, err
	}
	return vec3.Sub(&box.Max, &box.Min), nil
}

// MaxExtent returns the largest bounding-box dimension.
func (m *Mesh) MaxExtent() (float64, error) {
	size, err := m.Size()
	if err != nil {
		return 0, err
	}
	max := size[0]
	if size[1] > max {
		max = size[1]
	}
	if size[2] > max {
		max = size[2]
	}
	return max, nil
}

// Translate moves every vertex by offset and invalidates cached bounds.
func (m *Mesh) Translate(offset vec3.T) {
	for i := range m.Vertices {
		m.Vertices[i][0] += offset[0]
		m.Vertices[i][1] += offset[1]
		m.Vertices[i][2] += offset[2]
	}
	m.bounds = nil
}

// Scale scales every vertex uniformly about the origin and invalidates
// cached bounds.
func (m *Mesh) Scale(factor float64) {
	for i := range m.Vertices {
		m.Vertices[i].Scale(factor)
	}
	m.bounds = nil
}

// Clone returns a deep copy with its own vertex storage.
func (m *Mesh) Clone() *Mesh {
	verts := make([]vec3.T, len(m.Vertices))
	copy(verts, m.Vertices)
	return &Mesh{Name: m.Name, Vertices: verts}
}

// Transformed returns a derived copy with t applied to every vertex.
// The receiver is never mutated; callers that need a mesh with an
// orientation baked in get a disposable copy.
func (m *Mesh) Transformed(t *mat4.T) *Mesh {
	verts := make([]vec3.T, len(m.Vertices))
	for i := range m.Vertices {
		verts[i] = t.MulVec3(&m.Vertices[i])
	}
	return &Mesh{Name: m.Name, Vertices: verts}
}

// Package orient tracks the candidate mesh's accumulated quarter-turn
// orientation as a 4×4 homogeneous transform. Rotations compose in
// O(1) matrix state; vertex data is only touched when the transform is
// applied to produce an effective mesh, so the stored candidate stays
// numerically stable across any number of turns.
package orient

import (
	"math"

	mat4 "github.com/flywave/go3d/float64/mat4"

	"github.com/meshvet/meshvet/pkg/mesh"
)

// Axis selects the rotation axis for a quarter turn.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Transform is a running rotation built only from ±90° turns about the
// X or Y axis, starting from identity. It is therefore always a pure
// rotation (orthogonal, determinant +1).
type Transform struct {
	m mat4.T
}

// New returns an identity transform.
func New() *Transform {
	return &Transform{m: mat4.Ident}
}

// Rotate pre-applies a quarter turn about axis: +90° when dir is
// non-negative, −90° otherwise. The new rotation left-multiplies the
// running transform (T ← R·T), so turns act in the world frame, not
// the mesh's local frame. Unknown axes are a no-op.
func (t *Transform) Rotate(axis Axis, dir int) {
	angle := math.Pi / 2
	if dir < 0 {
		angle = -angle
	}

	r := mat4.Ident
	switch axis {
	case AxisX:
		r.AssignXRotation(angle)
	case AxisY:
		r.AssignYRotation(angle)
	default:
		return
	}

	var composed mat4.T
	composed.AssignMul(&r, &t.m)
	t.m = composed
}

// Reset restores the identity transform.
func (t *Transform) Reset() {
	t.m = mat4.Ident
}

// Matrix returns a copy of the accumulated transform.
func (t *Transform) Matrix() mat4.T {
	return t.m
}

// Apply returns a derived copy of m with the accumulated rotation baked
// into its vertex positions. The stored mesh is never mutated.
func (t *Transform) Apply(m *mesh.Mesh) *mesh.Mesh {
	return m.Transformed(&t.m)
}

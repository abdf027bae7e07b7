// Package procgen produces procedural triangle soup from signed
// distance fields using the github.com/deadsy/sdfx CAD library. It is
// the "procedural source" counterpart of the file loader: scripts and
// demos build solids here, tessellate them, and feed the result into
// the same comparison pipeline as meshes decoded from disk.
package procgen

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	vec3 "github.com/flywave/go3d/float64/vec3"

	"github.com/meshvet/meshvet/pkg/mesh"
)

// DefaultCells is the default marching-cubes resolution. Higher values
// track the SDF surface more closely at cubic cost.
const DefaultCells = 128

// Box returns an axis-aligned box centered at the origin.
func Box(x, y, z float64) (sdf.SDF3, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("box: %w", err)
	}
	return s, nil
}

// Cylinder returns a Z-axis cylinder centered at the origin.
func Cylinder(height, radius float64) (sdf.SDF3, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	return s, nil
}

// Sphere returns a sphere centered at the origin.
func Sphere(radius float64) (sdf.SDF3, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	return s, nil
}

// Union returns the union of two solids.
func Union(a, b sdf.SDF3) sdf.SDF3 {
	return sdf.Union3D(a, b)
}

// Difference returns a minus b.
func Difference(a, b sdf.SDF3) sdf.SDF3 {
	return sdf.Difference3D(a, b)
}

// Intersection returns the intersection of two solids.
func Intersection(a, b sdf.SDF3) sdf.SDF3 {
	return sdf.Intersect3D(a, b)
}

// Translate moves a solid by (x, y, z).
func Translate(s sdf.SDF3, x, y, z float64) sdf.SDF3 {
	return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))
}

// Rotate rotates a solid by Euler angles in degrees around X, Y, Z.
func Rotate(s sdf.SDF3, x, y, z float64) sdf.SDF3 {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0
	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return sdf.Transform3D(s, m)
}

// Scale scales a solid uniformly about the origin.
func Scale(s sdf.SDF3, factor float64) sdf.SDF3 {
	return sdf.Transform3D(s, sdf.Scale3d(v3.Vec{X: factor, Y: factor, Z: factor}))
}

// Tessellate runs uniform marching cubes over the solid and emits
// non-indexed triangle soup. The surface is an approximation of the
// SDF zero set; dimensions and volume of the result carry the usual
// marching-cubes error, so callers comparing against it must use
// tolerances, not exact values.
func Tessellate(name string, s sdf.SDF3, cells int) (*mesh.Mesh, error) {
	if cells <= 0 {
		cells = DefaultCells
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("tessellate %q: %w", name, mesh.ErrEmptyMesh)
	}

	verts := make([]vec3.T, 0, len(triangles)*3)
	for _, tri := range triangles {
		for j := 0; j < 3; j++ {
			verts = append(verts, vec3.T{tri[j].X, tri[j].Y, tri[j].Z})
		}
	}
	return mesh.New(name, verts)
}

// Package normalize prepares freshly loaded meshes for comparison. The
// baseline is centered on its bounding-box centroid; a candidate is
// centered the same way and then uniformly rescaled so its largest
// bounding dimension matches the baseline's. Normalization mutates the
// freshly loaded mesh in place and invalidates its cached bounds.
package normalize

import (
	"errors"
	"fmt"

	"github.com/meshvet/meshvet/pkg/mesh"
)

// ErrNoBaseline is returned when candidate normalization is requested
// before a baseline has been loaded; the candidate cannot be
// scale-matched against nothing. Recoverable: load a baseline first.
var ErrNoBaseline = errors.New("no baseline mesh loaded")

// AsBaseline centers m so its bounding-box centroid sits at the
// origin. No scaling is applied.
func AsBaseline(m *mesh.Mesh) error {
	return center(m)
}

// AsCandidate centers m on its own centroid, then applies the uniform
// scale that makes its largest bounding dimension equal the
// baseline's. A degenerate candidate with zero extent is left
// unscaled.
func AsCandidate(m, baseline *mesh.Mesh) error {
	if baseline.IsEmpty() {
		return ErrNoBaseline
	}
	if err := center(m); err != nil {
		return err
	}

	baseExtent, err := baseline.MaxExtent()
	if err != nil {
		return fmt.Errorf("baseline extent: %w", err)
	}
	candExtent, err := m.MaxExtent()
	if err != nil {
		return fmt.Errorf("candidate extent: %w", err)
	}

	if candExtent == 0 {
		return nil
	}
	m.Scale(baseExtent / candExtent)
	return nil
}

// center translates m so its bounding-box centroid is at the origin.
// Centering an already-centered mesh is a no-op.
func center(m *mesh.Mesh) error {
	c, err := m.Center()
	if err != nil {
		return fmt.Errorf("center %q: %w", m.Name, err)
	}
	m.Translate(c.Inverted())
	return nil
}

// Package store owns the two mesh slots of a comparison session and
// the candidate's orientation. One Session exists per logical user;
// parallel comparisons use independent Sessions, never a shared one.
package store

import (
	"fmt"

	"github.com/meshvet/meshvet/pkg/mesh"
	"github.com/meshvet/meshvet/pkg/metrics"
	"github.com/meshvet/meshvet/pkg/normalize"
	"github.com/meshvet/meshvet/pkg/orient"
)

// Session holds the baseline mesh, the candidate mesh, and the
// candidate's accumulated orientation. Loading a slot replaces the
// prior mesh wholesale; the replaced instance is discarded, never
// mutated in place.
type Session struct {
	baseline    *mesh.Mesh
	candidate   *mesh.Mesh
	orientation *orient.Transform
}

// NewSession returns an empty session with an identity orientation.
func NewSession() *Session {
	return &Session{orientation: orient.New()}
}

// SetBaseline normalizes m as the baseline and installs it. The
// candidate slot is untouched: an existing candidate keeps its
// geometry (already scale-matched against the previous baseline) until
// it is reloaded.
func (s *Session) SetBaseline(m *mesh.Mesh) error {
	if err := normalize.AsBaseline(m); err != nil {
		return fmt.Errorf("normalize baseline: %w", err)
	}
	s.baseline = m
	return nil
}

// SetCandidate normalizes m against the current baseline and installs
// it. A fresh candidate always starts with an identity orientation.
func (s *Session) SetCandidate(m *mesh.Mesh) error {
	if s.baseline == nil {
		return normalize.ErrNoBaseline
	}
	if err := normalize.AsCandidate(m, s.baseline); err != nil {
		return fmt.Errorf("normalize candidate: %w", err)
	}
	s.candidate = m
	s.orientation.Reset()
	return nil
}

// Baseline returns the stored baseline mesh, nil if none is loaded.
func (s *Session) Baseline() *mesh.Mesh {
	return s.baseline
}

// Candidate returns the stored candidate mesh with no orientation
// applied, nil if none is loaded.
func (s *Session) Candidate() *mesh.Mesh {
	return s.candidate
}

// Orientation returns the candidate's orientation transform.
func (s *Session) Orientation() *orient.Transform {
	return s.orientation
}

// RotateCandidate applies a quarter turn to the candidate orientation.
func (s *Session) RotateCandidate(axis orient.Axis, dir int) {
	s.orientation.Rotate(axis, dir)
}

// ResetOrientation restores the identity orientation.
func (s *Session) ResetOrientation() {
	s.orientation.Reset()
}

// EffectiveCandidate returns a derived, disposable copy of the
// candidate with the orientation baked into its vertices. Display and
// metrics both consume this form so the two always agree. Returns nil
// if no candidate is loaded.
func (s *Session) EffectiveCandidate() *mesh.Mesh {
	if s.candidate == nil {
		return nil
	}
	return s.orientation.Apply(s.candidate)
}

// Compare produces a fresh comparison report from the current baseline
// and the effective candidate.
func (s *Session) Compare() (*metrics.Report, error) {
	if s.baseline == nil {
		return nil, normalize.ErrNoBaseline
	}
	effective := s.EffectiveCandidate()
	if effective == nil {
		return nil, fmt.Errorf("candidate: %w", mesh.ErrEmptyMesh)
	}
	return metrics.Compare(s.baseline, effective)
}
